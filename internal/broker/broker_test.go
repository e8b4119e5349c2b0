package broker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"

	"novi.com/app/internal/modules/crud"
	"novi.com/app/internal/realtime"
)

type memWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *memWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *memWriter) Close() error { return nil }

type memReader struct {
	msgs []kafka.Message
}

func (r *memReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *memReader) Close() error { return nil }

type spyHub struct {
	mu   sync.Mutex
	msgs []*realtime.Message
	done chan struct{}
	want int
}

func (h *spyHub) Broadcast(_ context.Context, m *realtime.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.msgs = append(h.msgs, m)
	if len(h.msgs) == h.want && h.done != nil {
		close(h.done)
	}
}

func TestPublisherKeysByEntityAndID(t *testing.T) {
	t.Parallel()
	w := &memWriter{}
	p := newPublisher(w, nil)

	ev := crud.ChangeEvent{ID: "e1", Entity: "article", Action: crud.ActionDeleted, ResourceID: 42, OccurredAt: time.Unix(0, 0).UTC()}
	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("wrote %d messages, want 1", len(w.msgs))
	}
	if got := string(w.msgs[0].Key); got != "article:42" {
		t.Fatalf("key = %q", got)
	}
	var out Event
	if err := json.Unmarshal(w.msgs[0].Value, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Entity != "article" || out.Action != "deleted" || out.ResourceID != 42 {
		t.Fatalf("event = %+v", out)
	}

	w.err = errors.New("broker down")
	if err := p.Publish(context.Background(), ev); err == nil {
		t.Fatalf("expected write error")
	}
}

func TestConsumerRebroadcasts(t *testing.T) {
	t.Parallel()
	good, _ := json.Marshal(Event{Entity: "onlineOrder", Action: "created", ResourceID: 7})
	r := &memReader{msgs: []kafka.Message{
		{Value: []byte("not json")},
		{Value: []byte(`{"entity":"","action":"created"}`)},
		{Value: good},
	}}
	hub := &spyHub{done: make(chan struct{}), want: 1}
	c := newConsumer(r, hub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- c.Run(ctx) }()

	select {
	case <-hub.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("no broadcast received")
	}
	cancel()
	if err := <-errc; err != nil {
		t.Fatalf("Run: %v", err)
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()
	if len(hub.msgs) != 1 {
		t.Fatalf("broadcasts = %d, want 1", len(hub.msgs))
	}
	if m := hub.msgs[0]; m.Topic != "onlineOrder.created" || m.ResourceID != 7 {
		t.Fatalf("message = %+v", m)
	}
}

func TestHubPublisher(t *testing.T) {
	t.Parallel()
	hub := &spyHub{}
	p := HubPublisher{Hub: hub}
	_ = p.Publish(context.Background(), crud.ChangeEvent{Entity: "article", Action: crud.ActionUpdated, ResourceID: 3})
	if len(hub.msgs) != 1 || hub.msgs[0].Topic != "article.updated" {
		t.Fatalf("msgs = %+v", hub.msgs)
	}
}
