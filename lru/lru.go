// Package lru implements a capacity-bounded cache evicting the least
// recently used entry, promoting an entry to the front on every Add or
// successful Get.
package lru

import "ordercache/orderedmap"

// EvictionFunc is invoked synchronously, after an entry has been
// unlinked from the cache, whenever it is dropped because of capacity
// pressure.
type EvictionFunc[K comparable, V any] func(K, V)

// Stat is a snapshot of a cache's hit/miss counters.
type Stat struct {
	HitCount  int
	MissCount int
}

// Cache is an LRU eviction-policy cache over a single orderedmap.Map.
type Cache[K comparable, V any] struct {
	maxSize int

	hitCount  int
	missCount int

	evictFn EvictionFunc[K, V]

	l *orderedmap.Map[K, V]
}

// New creates a Cache holding at most maxSize entries. Values below 1
// are clamped up to 1.
func New[K comparable, V any](maxSize int) *Cache[K, V] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Cache[K, V]{
		maxSize: maxSize,
		l:       orderedmap.NewWithCapacity[K, V](maxSize),
	}
}

// SetEvictionCallback installs cb as the cache's eviction callback,
// replacing any callback installed earlier.
func (c *Cache[K, V]) SetEvictionCallback(cb EvictionFunc[K, V]) {
	c.evictFn = cb
}

// Add inserts or updates k/v, moving it to the front either way. If the
// cache exceeds capacity as a result, the least recently used entry is
// evicted and the eviction callback invoked.
func (c *Cache[K, V]) Add(k K, v V) (old V, replaced bool) {
	if p, ok := c.l.GetMut(k); ok {
		old = *p
		*p = v
		c.l.MoveToFront(k)
		return old, true
	}

	c.l.PushFront(k, v)
	if c.l.Len() > c.maxSize {
		if ek, ev, ok := c.l.PopBack(); ok && c.evictFn != nil {
			c.evictFn(ek, ev)
		}
	}
	return old, false
}

// Get looks up k. On a hit it promotes k to the front and returns its
// (possibly relocated) value; on a miss it returns ok=false. Either way
// the hit/miss stats are updated.
func (c *Cache[K, V]) Get(k K) (v V, ok bool) {
	if !c.l.ContainsKey(k) {
		c.missCount++
		return v, false
	}
	c.l.MoveToFront(k)
	c.hitCount++
	v, _ = c.l.Get(k)
	return v, true
}

// Peek looks up k without affecting order or stats.
func (c *Cache[K, V]) Peek(k K) (V, bool) {
	return c.l.Get(k)
}

// Remove unconditionally removes k. No eviction callback is invoked.
func (c *Cache[K, V]) Remove(k K) (V, bool) {
	return c.l.Remove(k)
}

// RemoveEntry unconditionally removes k, returning key and value.
func (c *Cache[K, V]) RemoveEntry(k K) (K, V, bool) {
	return c.l.RemoveEntry(k)
}

// ContainsKey reports whether k is present.
func (c *Cache[K, V]) ContainsKey(k K) bool { return c.l.ContainsKey(k) }

// Len reports the number of entries currently cached.
func (c *Cache[K, V]) Len() int { return c.l.Len() }

// IsEmpty reports whether the cache holds no entries.
func (c *Cache[K, V]) IsEmpty() bool { return c.l.IsEmpty() }

// Purge empties the cache. No eviction callback is invoked.
func (c *Cache[K, V]) Purge() { c.l.Clear() }

// ShrinkToFit releases the underlying map's freelist.
func (c *Cache[K, V]) ShrinkToFit() { c.l.ShrinkToFit() }

// Stat returns a snapshot of the hit/miss counters.
func (c *Cache[K, V]) Stat() Stat {
	return Stat{HitCount: c.hitCount, MissCount: c.missCount}
}
