// Package slru implements a segmented LRU cache: a probationary segment
// ("in") admits entries on first touch, and a protected segment ("main")
// holds entries that have been touched at least twice. Promotion into
// main demotes main's coldest entry back into the probationary segment
// before a fresh probationary eviction is considered, so the protected
// segment never oversubscribes itself.
package slru

import "ordercache/orderedmap"

// Hasher is accepted for constructor symmetry with the q2 package
// (which needs one for ghost-list fingerprints). slru itself has no
// ghost list and never calls it.
type Hasher[K comparable] interface {
	Sum64(key K) uint64
}

const defaultMainFactor = 0.75

// EvictionFunc is invoked synchronously, after an entry has been
// unlinked from the cache, whenever it is dropped because of capacity
// pressure (a probationary eviction). Demotions from main to the
// probationary segment are not evictions and never invoke this.
type EvictionFunc[K comparable, V any] func(K, V)

// Stat is a snapshot of a cache's hit/miss counters.
type Stat struct {
	HitCount  int
	MissCount int
}

// Cache is a segmented-LRU eviction-policy cache over two orderedmap.Map
// stores: a probationary segment and a protected segment.
type Cache[K comparable, V any] struct {
	maxSize     int
	maxSizeIn   int
	maxSizeMain int

	hitCount  int
	missCount int

	evictFn EvictionFunc[K, V]

	in   *orderedmap.Map[K, V]
	main *orderedmap.Map[K, V]
}

// New creates a Cache of total capacity maxSize, split between its two
// segments using the default main-cache factor (0.75). Sizes below 2 are
// clamped up to 2.
func New[K comparable, V any](maxSize int) *Cache[K, V] {
	return NewWithParams[K, V](maxSize, defaultMainFactor)
}

// NewWithHasher is equivalent to New; the hasher is accepted only for
// API symmetry with q2.NewWithHasher and is unused.
func NewWithHasher[K comparable, V any](maxSize int, _ Hasher[K]) *Cache[K, V] {
	return New[K, V](maxSize)
}

// NewWithParams creates a Cache of total capacity maxSize, splitting it
// between the protected segment (mainFactor fraction) and the
// probationary segment (the remainder), truncating toward zero the same
// way the upstream reference implementation does.
func NewWithParams[K comparable, V any](maxSize int, mainFactor float64) *Cache[K, V] {
	if maxSize < 2 {
		maxSize = 2
	}
	maxSizeMain := int(float64(maxSize) * mainFactor)
	maxSizeIn := int(float64(maxSize) * (1 - mainFactor))
	return &Cache[K, V]{
		maxSize:     maxSize,
		maxSizeIn:   maxSizeIn,
		maxSizeMain: maxSizeMain,
		in:          orderedmap.NewWithCapacity[K, V](maxSizeIn),
		main:        orderedmap.NewWithCapacity[K, V](maxSizeMain),
	}
}

// NewWithParamsAndHasher is equivalent to NewWithParams; the hasher
// parameter is accepted only for API symmetry with q2 and is unused.
func NewWithParamsAndHasher[K comparable, V any](maxSize int, mainFactor float64, _ Hasher[K]) *Cache[K, V] {
	return NewWithParams[K, V](maxSize, mainFactor)
}

// SetEvictionCallback installs cb as the cache's eviction callback,
// replacing any callback installed earlier.
func (c *Cache[K, V]) SetEvictionCallback(cb EvictionFunc[K, V]) {
	c.evictFn = cb
}

// ContainsKey reports whether k is present in either segment.
func (c *Cache[K, V]) ContainsKey(k K) bool {
	return c.main.ContainsKey(k) || c.in.ContainsKey(k)
}

// Get looks up k. A hit in main promotes it to main's front; a hit in
// the probationary segment promotes it into main (demoting main's
// coldest entry back to probation first, if main is full). Either way
// the hit/miss stats are updated.
func (c *Cache[K, V]) Get(k K) (v V, ok bool) {
	if c.main.ContainsKey(k) {
		c.hitCount++
		c.main.MoveToFront(k)
		v, _ = c.main.Get(k)
		return v, true
	}

	if key, val, found := c.in.RemoveEntry(k); found {
		c.hitCount++
		c.ensureSpace(true)
		c.main.PushFront(key, val)
		v, _ = c.main.Get(k)
		return v, true
	}

	c.missCount++
	return v, false
}

// Peek looks up k in either segment without affecting order or stats.
func (c *Cache[K, V]) Peek(k K) (V, bool) {
	if v, ok := c.main.Get(k); ok {
		return v, true
	}
	return c.in.Get(k)
}

// Add inserts or updates k/v. A key already in main has its value
// replaced and is moved to main's front. A key already in the
// probationary segment is promoted into main. A brand-new key is
// admitted into the probationary segment. Add never returns an old
// value for a promotion — only a same-segment replace reports one,
// matching the upstream reference semantics.
func (c *Cache[K, V]) Add(k K, v V) (old V, replaced bool) {
	if p, ok := c.main.GetMut(k); ok {
		old = *p
		*p = v
		c.main.MoveToFront(k)
		return old, true
	}

	if _, _, found := c.in.RemoveEntry(k); found {
		c.ensureSpace(true)
		c.main.PushFront(k, v)
		return old, false
	}

	c.ensureSpace(false)
	c.in.PushFront(k, v)
	return old, false
}

// ensureSpace implements the admission/demotion policy: a promotion
// that would overfill main first demotes main's coldest entry back to
// the front of the probationary segment; then, if the combined segments
// are still at or over capacity, the coldest probationary entry is
// evicted (invoking the eviction callback) when the probationary segment
// is over its own cap, or exactly at it and the pressure came from a
// fresh admission rather than a promotion. Otherwise nothing is evicted.
func (c *Cache[K, V]) ensureSpace(promoted bool) {
	if promoted && c.main.Len() >= c.maxSizeMain {
		if k, v, ok := c.main.PopBack(); ok {
			c.in.PushFront(k, v)
		}
	}

	if c.in.Len()+c.main.Len() < c.maxSize {
		return
	}

	inLen := c.in.Len()
	if inLen > 0 && (inLen > c.maxSizeIn || (inLen == c.maxSizeIn && !promoted)) {
		if k, v, ok := c.in.PopBack(); ok && c.evictFn != nil {
			c.evictFn(k, v)
		}
	}
}

// Remove removes k from whichever segment holds it, returning whether
// it was present. No eviction callback is invoked.
func (c *Cache[K, V]) Remove(k K) bool {
	if _, ok := c.main.Remove(k); ok {
		return true
	}
	_, ok := c.in.Remove(k)
	return ok
}

// Len reports the combined size of both segments.
func (c *Cache[K, V]) Len() int { return c.in.Len() + c.main.Len() }

// IsEmpty reports whether both segments are empty.
func (c *Cache[K, V]) IsEmpty() bool { return c.in.IsEmpty() && c.main.IsEmpty() }

// Purge empties both segments. No eviction callback is invoked.
func (c *Cache[K, V]) Purge() {
	c.in.Clear()
	c.main.Clear()
}

// ShrinkToFit releases both segments' freelists.
func (c *Cache[K, V]) ShrinkToFit() {
	c.in.ShrinkToFit()
	c.main.ShrinkToFit()
}

// Stat returns a snapshot of the hit/miss counters.
func (c *Cache[K, V]) Stat() Stat {
	return Stat{HitCount: c.hitCount, MissCount: c.missCount}
}
