// Package search keeps a full-text index per entity type so the
// /api/_search endpoints can answer query-string searches.
package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

var ErrInvalidQuery = errors.New("invalid search query")

// Index is the per-entity search index.
type Index interface {
	Put(id int64, doc any) error
	Delete(id int64) error
	Search(ctx context.Context, query string, limit int) ([]int64, error)
	Reset() error
	Count() (uint64, error)
}

// BleveIndex is an in-memory bleve index.
type BleveIndex struct {
	name string

	mu  sync.RWMutex
	idx bleve.Index
}

func NewMemIndex(name string) (*BleveIndex, error) {
	idx, err := newMem()
	if err != nil {
		return nil, fmt.Errorf("search index %s: %w", name, err)
	}
	return &BleveIndex{name: name, idx: idx}, nil
}

func newMem() (bleve.Index, error) {
	return bleve.NewMemOnly(bleve.NewIndexMapping())
}

func (b *BleveIndex) Name() string { return b.name }

func (b *BleveIndex) Put(id int64, doc any) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.idx.Index(strconv.FormatInt(id, 10), doc)
}

func (b *BleveIndex) Delete(id int64) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.idx.Delete(strconv.FormatInt(id, 10))
}

// Search runs a query-string query and returns matching ids by relevance.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int) ([]int64, error) {
	if limit < 1 {
		limit = 100
	}
	q := bleve.NewQueryStringQuery(query)
	if _, err := q.Parse(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)

	b.mu.RLock()
	res, err := b.idx.SearchInContext(ctx, req)
	b.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Reset drops every document.
func (b *BleveIndex) Reset() error {
	fresh, err := newMem()
	if err != nil {
		return err
	}
	b.mu.Lock()
	old := b.idx
	b.idx = fresh
	b.mu.Unlock()
	return old.Close()
}

func (b *BleveIndex) Count() (uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.idx.DocCount()
}

func (b *BleveIndex) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.idx.Close()
}
