// Package broker moves entity change events between instances over Kafka.
package broker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"

	"novi.com/app/internal/modules/crud"
	"novi.com/app/internal/realtime"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Event is the wire form of crud.ChangeEvent.
type Event struct {
	ID         string    `json:"id"`
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	ResourceID int64     `json:"resourceId"`
	Data       any       `json:"data,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher writes change events to a Kafka topic keyed by entity:id, so
// events for one row stay ordered on a partition.
type Publisher struct {
	w   messageWriter
	log *slog.Logger
}

func NewPublisher(brokers []string, topic string, log *slog.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
	return newPublisher(w, log)
}

func newPublisher(w messageWriter, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{w: w, log: log}
}

func (p *Publisher) Publish(ctx context.Context, ev crud.ChangeEvent) error {
	value, err := json.Marshal(Event{
		ID:         ev.ID,
		Entity:     ev.Entity,
		Action:     string(ev.Action),
		ResourceID: ev.ResourceID,
		Data:       ev.Data,
		OccurredAt: ev.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.Entity + ":" + strconv.FormatInt(ev.ResourceID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(ev.ID)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	p.log.DebugContext(ctx, "change event published", slog.String("topic", ev.Topic()))
	return nil
}

func (p *Publisher) Close() error { return p.w.Close() }

// HubPublisher broadcasts change events straight to the local hub. It is used
// when no Kafka brokers are configured.
type HubPublisher struct {
	Hub realtime.Broadcaster
}

func (p HubPublisher) Publish(ctx context.Context, ev crud.ChangeEvent) error {
	p.Hub.Broadcast(ctx, toMessage(Event{
		ID:         ev.ID,
		Entity:     ev.Entity,
		Action:     string(ev.Action),
		ResourceID: ev.ResourceID,
		Data:       ev.Data,
		OccurredAt: ev.OccurredAt,
	}))
	return nil
}

func toMessage(ev Event) *realtime.Message {
	ts := ev.OccurredAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return &realtime.Message{
		Topic:      realtime.ChangeTopic(ev.Entity, ev.Action),
		Entity:     ev.Entity,
		Action:     ev.Action,
		ResourceID: ev.ResourceID,
		Data:       ev.Data,
		Timestamp:  ts,
	}
}
