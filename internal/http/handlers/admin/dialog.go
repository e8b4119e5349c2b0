package admin

import (
	"context"

	"novi.com/app/internal/realtime"
)

type Deleter interface {
	Delete(ctx context.Context, id int64) error
}

// DeleteDialog is the confirmation step in front of an entity delete.
type DeleteDialog struct {
	entity string
	svc    Deleter
	events realtime.Broadcaster
}

func NewDeleteDialog(entity string, svc Deleter, events realtime.Broadcaster) *DeleteDialog {
	return &DeleteDialog{entity: entity, svc: svc, events: events}
}

// ConfirmDelete deletes id, then tells every open list screen of the entity
// to refresh. Nothing is broadcast when the delete fails.
func (d *DeleteDialog) ConfirmDelete(ctx context.Context, id int64) error {
	if err := d.svc.Delete(ctx, id); err != nil {
		return err
	}
	if d.events != nil {
		d.events.Broadcast(ctx, realtime.ListModification(d.entity, "Deleted an "+d.entity))
	}
	return nil
}
