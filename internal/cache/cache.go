// Package cache holds the bounded, expiring read caches kept per entity.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is an LRU cache whose entries expire after a fixed TTL.
// A nil *Cache is valid and caches nothing.
type Cache[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

func New[K comparable, V any](maxEntries int, ttl time.Duration) *Cache[K, V] {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache[K, V]{lru: expirable.NewLRU[K, V](maxEntries, nil, ttl)}
}

func (c *Cache[K, V]) Get(k K) (V, bool) {
	if c == nil {
		var zero V
		return zero, false
	}
	return c.lru.Get(k)
}

func (c *Cache[K, V]) Add(k K, v V) {
	if c == nil {
		return
	}
	c.lru.Add(k, v)
}

func (c *Cache[K, V]) Remove(k K) {
	if c == nil {
		return
	}
	c.lru.Remove(k)
}

func (c *Cache[K, V]) Purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}

func (c *Cache[K, V]) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
