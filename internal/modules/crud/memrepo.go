package crud

import (
	"context"
	"sort"
	"sync"
)

// Identifiable is what MemRepo needs on top of Entity.
type Identifiable[T any] interface {
	Entity
	WithID(id int64) T
	// RefID returns the value of a foreign key column, 0 if T has no such column.
	RefID(column string) int64
}

// MemRepo is a map-backed Repository used with DB_DSN=memory and in tests.
type MemRepo[T Identifiable[T]] struct {
	mu     sync.RWMutex
	rows   map[int64]T
	nextID int64
}

func NewMemRepo[T Identifiable[T]]() *MemRepo[T] {
	return &MemRepo[T]{rows: make(map[int64]T)}
}

func (r *MemRepo[T]) sorted() []T {
	out := make([]T, 0, len(r.rows))
	for _, v := range r.rows {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID() < out[j].EntityID() })
	return out
}

func (r *MemRepo[T]) List(_ context.Context, in ListParams) (Page[T], error) {
	in = in.Normalize()
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.sorted()
	page := Page[T]{Total: int64(len(all)), Page: in.Page, PageSize: in.PageSize}
	from := in.Offset()
	if from >= len(all) {
		return page, nil
	}
	to := min(from+in.PageSize, len(all))
	page.Items = append([]T(nil), all[from:to]...)
	return page, nil
}

func (r *MemRepo[T]) Get(_ context.Context, id int64) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.rows[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return v, nil
}

func (r *MemRepo[T]) GetMany(_ context.Context, ids []int64) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if v, ok := r.rows[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *MemRepo[T]) FindByRef(_ context.Context, column string, id int64) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []T
	for _, v := range r.sorted() {
		if v.RefID(column) == id {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *MemRepo[T]) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rows[id]
	return ok, nil
}

func (r *MemRepo[T]) Create(_ context.Context, e T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e = e.WithID(r.nextID)
	r.rows[r.nextID] = e
	return e, nil
}

func (r *MemRepo[T]) Update(_ context.Context, e T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[e.EntityID()]; !ok {
		return e, ErrNotFound
	}
	r.rows[e.EntityID()] = e
	return e, nil
}

func (r *MemRepo[T]) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *MemRepo[T]) Each(_ context.Context, batchSize int, fn func([]T) error) error {
	if batchSize < 1 {
		batchSize = 100
	}
	r.mu.RLock()
	all := r.sorted()
	r.mu.RUnlock()

	for from := 0; from < len(all); from += batchSize {
		to := min(from+batchSize, len(all))
		if err := fn(all[from:to]); err != nil {
			return err
		}
	}
	return nil
}
