package crud

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"novi.com/app/internal/cache"
	"novi.com/app/internal/search"
)

// Options wires a Service. Repo and Name are required; everything else has a
// working default.
type Options[T Entity] struct {
	Name      string // entity name, e.g. "onlineOrder"
	Repo      Repository[T]
	Cache     *cache.Cache[int64, T]
	Index     search.Index
	Publisher ChangePublisher
	Logger    *slog.Logger
	Tracer    trace.Tracer

	// BeforeSave runs before validation on create and update. It may
	// normalize the entity (defaults, read-only fields) or reject it.
	BeforeSave func(ctx context.Context, e T) (T, error)
	// BeforeDelete runs before the row is removed; an error keeps it.
	BeforeDelete DeleteGuard
	// AfterDelete receives the row that was removed.
	AfterDelete func(ctx context.Context, e T)
}

type Service[T Entity] struct {
	name        string
	repo        Repository[T]
	cache       *cache.Cache[int64, T]
	index       search.Index
	pub         ChangePublisher
	log         *slog.Logger
	tracer      trace.Tracer
	beforeSave  func(context.Context, T) (T, error)
	guards      []DeleteGuard
	afterDelete func(context.Context, T)
	now         func() time.Time
}

func NewService[T Entity](o Options[T]) *Service[T] {
	s := &Service[T]{
		name:        o.Name,
		repo:        o.Repo,
		cache:       o.Cache,
		index:       o.Index,
		pub:         o.Publisher,
		log:         o.Logger,
		tracer:      o.Tracer,
		beforeSave:  o.BeforeSave,
		afterDelete: o.AfterDelete,
		now:         time.Now,
	}
	if o.BeforeDelete != nil {
		s.guards = append(s.guards, o.BeforeDelete)
	}
	if s.pub == nil {
		s.pub = NopPublisher{}
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("novi.com/app/internal/modules/crud")
	}
	s.log = s.log.With(slog.String("entity", o.Name))
	return s
}

func (s *Service[T]) Name() string { return s.name }

// GuardDelete adds checks run before every delete. Services referencing each
// other are built in order, so the guards are added once all exist. Not safe
// to call while requests are served.
func (s *Service[T]) GuardDelete(g ...DeleteGuard) {
	s.guards = append(s.guards, g...)
}

func (s *Service[T]) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "crud."+s.name+"."+op,
		trace.WithAttributes(attribute.String("entity", s.name)))
}

func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *Service[T]) Create(ctx context.Context, e T) (out T, err error) {
	ctx, span := s.start(ctx, "Create")
	defer func() { endSpan(span, err) }()

	if e.EntityID() != 0 {
		return out, ErrIDExists
	}
	if e, err = s.check(ctx, e); err != nil {
		return out, err
	}

	out, err = s.repo.Create(ctx, e)
	if err != nil {
		return out, err
	}
	s.log.DebugContext(ctx, "entity created", slog.Int64("id", out.EntityID()))

	s.cache.Add(out.EntityID(), out)
	s.indexPut(out)
	s.publish(ctx, ActionCreated, out.EntityID(), out)
	return out, nil
}

func (s *Service[T]) Update(ctx context.Context, e T) (out T, err error) {
	ctx, span := s.start(ctx, "Update")
	defer func() { endSpan(span, err) }()

	if e.EntityID() == 0 {
		return out, ErrIDNull
	}
	if e, err = s.check(ctx, e); err != nil {
		return out, err
	}

	out, err = s.repo.Update(ctx, e)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.cache.Remove(e.EntityID())
		}
		return out, err
	}
	s.log.DebugContext(ctx, "entity updated", slog.Int64("id", out.EntityID()))

	s.cache.Add(out.EntityID(), out)
	s.indexPut(out)
	s.publish(ctx, ActionUpdated, out.EntityID(), out)
	return out, nil
}

func (s *Service[T]) Get(ctx context.Context, id int64) (out T, err error) {
	if v, ok := s.cache.Get(id); ok {
		return v, nil
	}

	ctx, span := s.start(ctx, "Get")
	defer func() { endSpan(span, err) }()

	out, err = s.repo.Get(ctx, id)
	if err != nil {
		return out, err
	}
	s.cache.Add(id, out)
	return out, nil
}

func (s *Service[T]) Exists(ctx context.Context, id int64) (bool, error) {
	if _, ok := s.cache.Get(id); ok {
		return true, nil
	}
	return s.repo.Exists(ctx, id)
}

func (s *Service[T]) List(ctx context.Context, in ListParams) (out Page[T], err error) {
	ctx, span := s.start(ctx, "List")
	defer func() { endSpan(span, err) }()

	return s.repo.List(ctx, in)
}

// FindByRef returns the rows referencing id through column, ordered by id.
func (s *Service[T]) FindByRef(ctx context.Context, column string, id int64) (out []T, err error) {
	ctx, span := s.start(ctx, "FindByRef")
	defer func() { endSpan(span, err) }()

	return s.repo.FindByRef(ctx, column, id)
}

func (s *Service[T]) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := s.start(ctx, "Delete")
	defer func() { endSpan(span, err) }()

	for _, g := range s.guards {
		if err = g(ctx, id); err != nil {
			return err
		}
	}

	var prev T
	if s.afterDelete != nil {
		if prev, err = s.repo.Get(ctx, id); err != nil {
			return err
		}
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.DebugContext(ctx, "entity deleted", slog.Int64("id", id))

	s.cache.Remove(id)
	if s.index != nil {
		if err := s.index.Delete(id); err != nil {
			s.log.WarnContext(ctx, "search index delete failed", slog.Int64("id", id), slog.Any("err", err))
		}
	}
	if s.afterDelete != nil {
		s.afterDelete(ctx, prev)
	}
	s.publish(ctx, ActionDeleted, id, nil)
	return nil
}

// Search runs a query-string search against the index and loads the hits in
// relevance order. Hits whose row is gone are skipped.
func (s *Service[T]) Search(ctx context.Context, query string, limit int) (out []T, err error) {
	ctx, span := s.start(ctx, "Search")
	defer func() { endSpan(span, err) }()

	if s.index == nil {
		return nil, nil
	}
	ids, err := s.index.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]T, len(rows))
	for _, r := range rows {
		byID[r.EntityID()] = r
	}
	out = make([]T, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Reindex rebuilds the search index from the repository.
func (s *Service[T]) Reindex(ctx context.Context) (n int, err error) {
	ctx, span := s.start(ctx, "Reindex")
	defer func() { endSpan(span, err) }()

	if s.index == nil {
		return 0, nil
	}
	if err := s.index.Reset(); err != nil {
		return 0, err
	}
	err = s.repo.Each(ctx, 500, func(batch []T) error {
		for _, e := range batch {
			if err := s.index.Put(e.EntityID(), e.SearchDocument()); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return n, err
	}
	s.log.InfoContext(ctx, "search index rebuilt", slog.Int("documents", n))
	return n, nil
}

func (s *Service[T]) check(ctx context.Context, e T) (T, error) {
	if s.beforeSave != nil {
		var err error
		if e, err = s.beforeSave(ctx, e); err != nil {
			return e, err
		}
	}
	if fields := e.Validate(); len(fields) > 0 {
		return e, &ValidationError{Fields: fields}
	}
	return e, nil
}

func (s *Service[T]) indexPut(e T) {
	if s.index == nil {
		return
	}
	if err := s.index.Put(e.EntityID(), e.SearchDocument()); err != nil {
		s.log.Warn("search index put failed", slog.Int64("id", e.EntityID()), slog.Any("err", err))
	}
}

func (s *Service[T]) publish(ctx context.Context, action Action, id int64, data any) {
	ev := ChangeEvent{
		ID:         uuid.NewString(),
		Entity:     s.name,
		Action:     action,
		ResourceID: id,
		Data:       data,
		OccurredAt: s.now().UTC(),
	}
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.log.WarnContext(ctx, "change event publish failed",
			slog.String("topic", ev.Topic()), slog.Int64("id", id), slog.Any("err", err))
	}
}
