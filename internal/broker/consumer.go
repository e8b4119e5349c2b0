package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"

	"novi.com/app/internal/realtime"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer reads change events and re-broadcasts them through the hub.
type Consumer struct {
	r       messageReader
	hub     realtime.Broadcaster
	log     *slog.Logger
	backoff time.Duration
}

func NewConsumer(brokers []string, topic, groupID string, hub realtime.Broadcaster, log *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 1 << 20,
	})
	return newConsumer(r, hub, log)
}

func newConsumer(r messageReader, hub realtime.Broadcaster, log *slog.Logger) *Consumer {
	if log == nil {
		log = slog.Default()
	}
	return &Consumer{r: r, hub: hub, log: log, backoff: time.Second}
}

// Run blocks until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		m, err := c.r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			c.log.WarnContext(ctx, "kafka read error", slog.Any("err", err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.backoff):
			}
			continue
		}

		msg, err := decode(m)
		if err != nil {
			c.log.WarnContext(ctx, "kafka message dropped",
				slog.Int("partition", m.Partition), slog.Int64("offset", m.Offset), slog.Any("err", err))
			continue
		}
		c.log.DebugContext(ctx, "kafka message consumed",
			slog.String("topic", msg.Topic), slog.Int64("resourceId", msg.ResourceID))
		c.hub.Broadcast(ctx, msg)
	}
}

func (c *Consumer) Close() error { return c.r.Close() }

func decode(m kafka.Message) (*realtime.Message, error) {
	var ev Event
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		return nil, fmt.Errorf("decode change event: %w", err)
	}
	if ev.Entity == "" || ev.Action == "" {
		return nil, errors.New("change event without entity or action")
	}
	return toMessage(ev), nil
}
