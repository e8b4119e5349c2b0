package cache

import (
	"testing"
	"time"
)

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := New[int64, string](2, time.Hour)
	c.Add(1, "a")
	c.Add(2, "b")
	if _, ok := c.Get(1); !ok {
		t.Fatal("expected hit for 1")
	}
	c.Add(3, "c")

	if _, ok := c.Get(2); ok {
		t.Fatal("2 should have been evicted")
	}
	if v, ok := c.Get(3); !ok || v != "c" {
		t.Fatalf("unexpected value for 3: %q %v", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("len = %d", c.Len())
	}
}

func TestCacheExpires(t *testing.T) {
	t.Parallel()

	c := New[int64, string](10, 20*time.Millisecond)
	c.Add(1, "a")
	time.Sleep(80 * time.Millisecond)
	if _, ok := c.Get(1); ok {
		t.Fatal("entry should have expired")
	}
}

func TestCacheRemoveAndPurge(t *testing.T) {
	t.Parallel()

	c := New[int64, string](10, time.Hour)
	c.Add(1, "a")
	c.Add(2, "b")
	c.Remove(1)
	if _, ok := c.Get(1); ok {
		t.Fatal("1 should be gone")
	}
	c.Purge()
	if c.Len() != 0 {
		t.Fatalf("len after purge = %d", c.Len())
	}
}

func TestNilCacheIsNoop(t *testing.T) {
	t.Parallel()

	var c *Cache[int64, string]
	c.Add(1, "a")
	c.Remove(1)
	c.Purge()
	if _, ok := c.Get(1); ok {
		t.Fatal("nil cache must miss")
	}
	if c.Len() != 0 {
		t.Fatal("nil cache must be empty")
	}
}
