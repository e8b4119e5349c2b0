package admin

import (
	"context"
	"errors"
	"sync"
	"testing"

	"novi.com/app/internal/modules/crud"
	"novi.com/app/internal/realtime"
)

type spyDeleter struct {
	mu  sync.Mutex
	ids []int64
	err error
}

func (d *spyDeleter) Delete(_ context.Context, id int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ids = append(d.ids, id)
	return d.err
}

type spyBroadcaster struct {
	mu   sync.Mutex
	msgs []*realtime.Message
}

func (b *spyBroadcaster) Broadcast(_ context.Context, m *realtime.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, m)
}

func (b *spyBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.msgs)
}

func TestConfirmDelete(t *testing.T) {
	t.Parallel()
	entities := []string{"article", "onlineOrder", "onlineOrderItem", "deliveryOrderItem"}
	for _, entity := range entities {
		t.Run(entity, func(t *testing.T) {
			t.Parallel()
			svc := &spyDeleter{}
			events := &spyBroadcaster{}
			d := NewDeleteDialog(entity, svc, events)

			if err := d.ConfirmDelete(context.Background(), 123); err != nil {
				t.Fatalf("ConfirmDelete: %v", err)
			}
			if len(svc.ids) != 1 || svc.ids[0] != 123 {
				t.Fatalf("delete calls = %v, want [123]", svc.ids)
			}
			if len(events.msgs) != 1 {
				t.Fatalf("broadcasts = %d, want 1", len(events.msgs))
			}
			m := events.msgs[0]
			if m.Name != entity+"ListModification" || m.Content != "Deleted an "+entity {
				t.Fatalf("message = %+v", m)
			}
		})
	}
}

func TestConfirmDeleteFailureDoesNotBroadcast(t *testing.T) {
	t.Parallel()
	svc := &spyDeleter{err: crud.ErrNotFound}
	events := &spyBroadcaster{}
	d := NewDeleteDialog("article", svc, events)

	if err := d.ConfirmDelete(context.Background(), 7); !errors.Is(err, crud.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(svc.ids) != 1 {
		t.Fatalf("delete calls = %d, want 1", len(svc.ids))
	}
	if events.count() != 0 {
		t.Fatalf("broadcast after failed delete")
	}
}
