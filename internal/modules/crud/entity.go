// Package crud implements the create/read/update/delete/search plumbing shared
// by every back-office entity.
package crud

import (
	"context"
	"time"
)

// Entity is a persisted back-office record with a database-assigned id.
type Entity interface {
	EntityID() int64
	// Validate returns field -> message for every invalid field.
	Validate() map[string]string
	// SearchDocument is the representation stored in the search index.
	SearchDocument() map[string]any
}

type ListParams struct {
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		p.PageSize = DefaultPageSize
	}
	return p
}

func (p ListParams) Offset() int { return (p.Page - 1) * p.PageSize }

type Page[T any] struct {
	Items    []T
	Total    int64
	Page     int
	PageSize int
}

// TotalPages is at least 1.
func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 || p.Total <= 0 {
		return 1
	}
	return int((p.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
}

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// ChangeEvent describes one committed change of an entity.
type ChangeEvent struct {
	ID         string    `json:"id"`
	Entity     string    `json:"entity"`
	Action     Action    `json:"action"`
	ResourceID int64     `json:"resourceId"`
	Data       any       `json:"data,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Topic is "<entity>.<action>".
func (e ChangeEvent) Topic() string { return e.Entity + "." + string(e.Action) }

type ChangePublisher interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ChangeEvent) error { return nil }
