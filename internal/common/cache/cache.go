// Package cache provides a bounded in-memory cache with LRU eviction and
// per-entry TTL expiry.
//
// Entries are immutable once stored: a key is never refreshed in place, it is
// either evicted when the cache exceeds its bound or deleted lazily when a
// lookup finds it expired. Both Get and Set move the touched key to the
// most-recently-used position. The whole lookup/evict/insert sequence runs
// under one mutex so the size bound holds under concurrent callers.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Entry is a single cached value with its expiry deadline.
type Entry struct {
	Key       string
	Value     interface{}
	SizeBytes int
	ExpiresAt time.Time
}

// LRU is a bounded, TTL-aware, least-recently-used cache.
type LRU struct {
	mu       sync.Mutex
	maxItems int
	items    map[string]*list.Element
	order    *list.List // front = most recently used

	// nowFn is replaceable in tests to exercise TTL expiry.
	nowFn func() time.Time
}

// NewLRU creates a cache bounded to maxItems entries. A non-positive bound
// falls back to 1 so the cache can never grow without limit.
func NewLRU(maxItems int) *LRU {
	if maxItems <= 0 {
		maxItems = 1
	}
	return &LRU{
		maxItems: maxItems,
		items:    make(map[string]*list.Element),
		order:    list.New(),
		nowFn:    time.Now,
	}
}

// Get returns the entry stored under key. An expired entry is deleted and
// reported as a miss. A hit moves the key to the most-recently-used position.
func (c *LRU) Get(key string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}

	entry := elem.Value.(*Entry)
	if !entry.ExpiresAt.IsZero() && c.nowFn().After(entry.ExpiresAt) {
		c.removeElement(elem)
		return nil, false
	}

	c.order.MoveToFront(elem)
	return entry, true
}

// Set stores value under key with the given TTL. A zero or negative TTL means
// the entry never expires by time. Storing an existing key replaces its value
// and deadline. Exceeding the bound evicts least-recently-used entries.
func (c *LRU) Set(key string, value interface{}, sizeBytes int, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.nowFn().Add(ttl)
	}

	entry := &Entry{Key: key, Value: value, SizeBytes: sizeBytes, ExpiresAt: expiresAt}

	if elem, ok := c.items[key]; ok {
		elem.Value = entry
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(entry)

	for c.order.Len() > c.maxItems {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.removeElement(oldest)
	}
}

// Delete removes key from the cache if present.
func (c *LRU) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// Clear removes all entries.
func (c *LRU) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// Len returns the number of entries currently held, including entries whose
// TTL has elapsed but which no lookup has touched yet.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// removeElement must be called with the mutex held.
func (c *LRU) removeElement(elem *list.Element) {
	c.order.Remove(elem)
	entry := elem.Value.(*Entry)
	delete(c.items, entry.Key)
}

// SetNowFunc overrides the cache's clock. Intended for tests.
func (c *LRU) SetNowFunc(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nowFn = now
}
