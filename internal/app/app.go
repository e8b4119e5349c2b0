package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"novi.com/app/internal/broker"
	"novi.com/app/internal/cache"
	"novi.com/app/internal/config"
	"novi.com/app/internal/metrics"
	"novi.com/app/internal/modules/articles"
	"novi.com/app/internal/modules/crud"
	"novi.com/app/internal/modules/deliveryorderitems"
	"novi.com/app/internal/modules/onlineorderitems"
	"novi.com/app/internal/modules/onlineorders"
	"novi.com/app/internal/realtime"
	"novi.com/app/internal/search"
	"novi.com/app/internal/storage"
)

// Models lists the persisted entities in migration order.
func Models() []any {
	return []any{
		&articles.Article{},
		&onlineorders.OnlineOrder{},
		&onlineorderitems.OnlineOrderItem{},
		&deliveryorderitems.DeliveryOrderItem{},
	}
}

type Deps struct {
	Config  config.Config
	DB      *gorm.DB // nil keeps every entity in memory
	Storage storage.Storage
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// App holds the entity services and the event plumbing shared by the REST
// resources, the admin screens and the websocket endpoint.
type App struct {
	Articles           *articles.Service
	OnlineOrders       *onlineorders.Service
	OnlineOrderItems   *onlineorderitems.Service
	DeliveryOrderItems *deliveryorderitems.Service

	Hub      *realtime.Hub
	Metrics  *metrics.Metrics
	Consumer *broker.Consumer // nil when Kafka is not configured

	log     *slog.Logger
	kafka   *broker.Publisher
	indexes []*search.BleveIndex
}

func New(d Deps) (*App, error) {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}

	a := &App{
		Hub:     realtime.NewHub(d.Logger),
		Metrics: d.Metrics,
		log:     d.Logger,
	}
	d.Metrics.GaugeFunc("websocket_clients", "Connected admin websocket clients.", func() float64 {
		return float64(a.Hub.Len())
	})

	var pub crud.ChangePublisher = broker.HubPublisher{Hub: a.Hub}
	if k := d.Config.Kafka; k.Enabled() {
		a.kafka = broker.NewPublisher(k.Brokers, k.Topic, d.Logger)
		a.Consumer = broker.NewConsumer(k.Brokers, k.Topic, k.GroupID, a.Hub, d.Logger)
		pub = a.kafka
	}
	pub = countingPublisher{next: pub, m: d.Metrics}

	artIdx, err := a.index(articles.EntityName)
	if err != nil {
		return nil, err
	}
	a.Articles = articles.NewService(crud.Options[articles.Article]{
		Repo:      repo[articles.Article](d.DB),
		Cache:     cache.New[int64, articles.Article](d.Config.Cache.MaxEntries, d.Config.Cache.TTL),
		Index:     artIdx,
		Publisher: pub,
		Logger:    d.Logger,
	}, d.Storage)

	orderIdx, err := a.index(onlineorders.EntityName)
	if err != nil {
		return nil, err
	}
	a.OnlineOrders = onlineorders.NewService(crud.Options[onlineorders.OnlineOrder]{
		Repo:      repo[onlineorders.OnlineOrder](d.DB),
		Cache:     cache.New[int64, onlineorders.OnlineOrder](d.Config.Cache.MaxEntries, d.Config.Cache.TTL),
		Index:     orderIdx,
		Publisher: pub,
		Logger:    d.Logger,
	})

	itemIdx, err := a.index(onlineorderitems.EntityName)
	if err != nil {
		return nil, err
	}
	a.OnlineOrderItems = onlineorderitems.NewService(crud.Options[onlineorderitems.OnlineOrderItem]{
		Repo:      repo[onlineorderitems.OnlineOrderItem](d.DB),
		Cache:     cache.New[int64, onlineorderitems.OnlineOrderItem](d.Config.Cache.MaxEntries, d.Config.Cache.TTL),
		Index:     itemIdx,
		Publisher: pub,
		Logger:    d.Logger,
	}, a.Articles, a.OnlineOrders)

	deliveryIdx, err := a.index(deliveryorderitems.EntityName)
	if err != nil {
		return nil, err
	}
	a.DeliveryOrderItems = deliveryorderitems.NewService(crud.Options[deliveryorderitems.DeliveryOrderItem]{
		Repo:      repo[deliveryorderitems.DeliveryOrderItem](d.DB),
		Cache:     cache.New[int64, deliveryorderitems.DeliveryOrderItem](d.Config.Cache.MaxEntries, d.Config.Cache.TTL),
		Index:     deliveryIdx,
		Publisher: pub,
		Logger:    d.Logger,
	}, a.Articles)

	a.Articles.GuardDelete(
		crud.Unreferenced[onlineorderitems.OnlineOrderItem](a.OnlineOrderItems, onlineorderitems.ColArticle),
		crud.Unreferenced[deliveryorderitems.DeliveryOrderItem](a.DeliveryOrderItems, deliveryorderitems.ColArticle),
	)
	a.OnlineOrders.GuardDelete(
		crud.Unreferenced[onlineorderitems.OnlineOrderItem](a.OnlineOrderItems, onlineorderitems.ColOnlineOrder),
	)

	return a, nil
}

func repo[T crud.Identifiable[T]](db *gorm.DB) crud.Repository[T] {
	if db == nil {
		return crud.NewMemRepo[T]()
	}
	return crud.NewGormRepo[T](db)
}

func (a *App) index(name string) (*search.BleveIndex, error) {
	idx, err := search.NewMemIndex(name)
	if err != nil {
		return nil, fmt.Errorf("search index %s: %w", name, err)
	}
	a.indexes = append(a.indexes, idx)
	return idx, nil
}

// Reindex rebuilds every search index from its repository.
func (a *App) Reindex(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) (int, error)
	}{
		{articles.EntityName, a.Articles.Reindex},
		{onlineorders.EntityName, a.OnlineOrders.Reindex},
		{onlineorderitems.EntityName, a.OnlineOrderItems.Reindex},
		{deliveryorderitems.EntityName, a.DeliveryOrderItems.Reindex},
	}
	for _, s := range steps {
		if _, err := s.fn(ctx); err != nil {
			return fmt.Errorf("reindex %s: %w", s.name, err)
		}
	}
	return nil
}

func (a *App) Close() error {
	var errs []error
	if a.kafka != nil {
		errs = append(errs, a.kafka.Close())
	}
	if a.Consumer != nil {
		errs = append(errs, a.Consumer.Close())
	}
	for _, idx := range a.indexes {
		errs = append(errs, idx.Close())
	}
	return errors.Join(errs...)
}

// countingPublisher counts every change before handing it on.
type countingPublisher struct {
	next crud.ChangePublisher
	m    *metrics.Metrics
}

func (p countingPublisher) Publish(ctx context.Context, ev crud.ChangeEvent) error {
	p.m.CountChange(ev.Entity, string(ev.Action))
	return p.next.Publish(ctx, ev)
}
