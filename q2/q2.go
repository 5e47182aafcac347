// Package q2 implements the 2Q cache: a three-list variant of slru that
// additionally tracks a bounded ghost list of recently evicted
// probationary keys (as 64-bit fingerprints, not the keys themselves) to
// bias whether a re-admitted key is trusted enough to skip straight into
// the protected segment.
package q2

import "ordercache/orderedmap"

const (
	defaultMainFactor = 0.75
	defaultOutFactor  = 0.50
)

// EvictionFunc is invoked synchronously, after an entry has been
// unlinked from the cache, whenever it is dropped because of capacity
// pressure.
type EvictionFunc[K comparable, V any] func(K, V)

// Stat is a snapshot of a cache's hit/miss counters.
type Stat struct {
	HitCount  int
	MissCount int
}

// Cache is a 2Q eviction-policy cache over three stores: an admission
// queue ("in"), a hot set ("main"), and a ghost list of recently evicted
// admission-queue key fingerprints ("out").
type Cache[K comparable, V any] struct {
	maxSize     int
	maxSizeIn   int
	maxSizeMain int
	maxSizeOut  int

	hitCount  int
	missCount int

	hasher  Hasher[K]
	evictFn EvictionFunc[K, V]

	in   *orderedmap.Map[K, V]
	main *orderedmap.Map[K, V]
	out  *orderedmap.Map[uint64, struct{}]
}

// New creates a Cache of total capacity maxSize using the default main
// (0.75) and ghost-list (0.50) factors and the default generic Hasher.
func New[K comparable, V any](maxSize int) *Cache[K, V] {
	return NewWithParamsAndHasher[K, V](maxSize, defaultMainFactor, defaultOutFactor, NewHasher[K]())
}

// NewWithHasher is New with an explicit Hasher.
func NewWithHasher[K comparable, V any](maxSize int, hasher Hasher[K]) *Cache[K, V] {
	return NewWithParamsAndHasher[K, V](maxSize, defaultMainFactor, defaultOutFactor, hasher)
}

// NewWithParams is New with explicit main/ghost-list factors and the
// default generic Hasher.
func NewWithParams[K comparable, V any](maxSize int, mainFactor, outFactor float64) *Cache[K, V] {
	return NewWithParamsAndHasher[K, V](maxSize, mainFactor, outFactor, NewHasher[K]())
}

// NewWithParamsAndHasher is the fully explicit constructor. maxSize
// below 2 is clamped up to 2; segment sizes are truncated toward zero
// the same way the upstream reference implementation computes them.
func NewWithParamsAndHasher[K comparable, V any](maxSize int, mainFactor, outFactor float64, hasher Hasher[K]) *Cache[K, V] {
	if maxSize < 2 {
		maxSize = 2
	}
	maxSizeMain := int(float64(maxSize) * mainFactor)
	maxSizeIn := int(float64(maxSize) * (1 - mainFactor))
	maxSizeOut := int(float64(maxSize) * outFactor)

	return &Cache[K, V]{
		maxSize:     maxSize,
		maxSizeIn:   maxSizeIn,
		maxSizeMain: maxSizeMain,
		maxSizeOut:  maxSizeOut,
		hasher:      hasher,
		in:          orderedmap.NewWithCapacity[K, V](maxSizeIn),
		main:        orderedmap.NewWithCapacity[K, V](maxSizeMain),
		out:         orderedmap.NewWithCapacity[uint64, struct{}](maxSizeOut),
	}
}

// SetEvictionCallback installs cb as the cache's eviction callback,
// replacing any callback installed earlier.
func (c *Cache[K, V]) SetEvictionCallback(cb EvictionFunc[K, V]) {
	c.evictFn = cb
}

// ContainsKey reports whether k is present in main or the admission
// queue. Ghost-list membership does not count as presence.
func (c *Cache[K, V]) ContainsKey(k K) bool {
	return c.main.ContainsKey(k) || c.in.ContainsKey(k)
}

// Get looks up k. A hit in main promotes it to main's front. A hit in
// the admission queue promotes it directly into main. Either way the
// hit/miss stats are updated.
func (c *Cache[K, V]) Get(k K) (v V, ok bool) {
	if c.main.ContainsKey(k) {
		c.hitCount++
		c.main.MoveToFront(k)
		v, _ = c.main.Get(k)
		return v, true
	}

	if key, val, found := c.in.RemoveEntry(k); found {
		c.hitCount++
		c.main.PushFront(key, val)
		v, _ = c.main.Get(k)
		return v, true
	}

	c.missCount++
	return v, false
}

// Peek looks up k in main or the admission queue without affecting
// order or stats.
func (c *Cache[K, V]) Peek(k K) (V, bool) {
	if v, ok := c.main.Get(k); ok {
		return v, true
	}
	return c.in.Get(k)
}

// Add inserts or updates k/v.
//
//   - k already in main: value replaced, moved to main's front, old
//     value returned.
//   - k already in the admission queue: promoted straight into main,
//     the value it held in the queue is returned.
//   - k's fingerprint is in the ghost list: treated as a returning key
//     the cache has seen evicted recently, so it is admitted straight
//     into main (after making room) rather than back into the queue.
//   - otherwise: admitted into the front of the admission queue, after
//     making room.
func (c *Cache[K, V]) Add(k K, v V) (old V, replaced bool) {
	if p, ok := c.main.GetMut(k); ok {
		old = *p
		*p = v
		c.main.MoveToFront(k)
		return old, true
	}

	if val, ok := c.in.Remove(k); ok {
		c.main.PushFront(k, v)
		return val, true
	}

	fp := c.hasher.Sum64(k)
	if _, ok := c.out.Remove(fp); ok {
		c.ensureSpace(true)
		c.main.PushFront(k, v)
		return old, false
	}

	c.ensureSpace(false)
	c.in.PushFront(k, v)
	return old, false
}

// ensureSpace implements the eviction policy: if the admission queue
// and main together are at or over capacity, a single entry is
// evicted: either the coldest
// admission-queue entry is evicted — its fingerprint recorded on the
// ghost list, displacing the ghost list's own coldest fingerprint if
// that list is full — or, once the admission queue has shrunk back
// within its share, the coldest main entry is evicted instead.
func (c *Cache[K, V]) ensureSpace(recentEvict bool) {
	if c.in.Len()+c.main.Len() < c.maxSize {
		return
	}

	inLen := c.in.Len()
	if inLen > 0 && (inLen > c.maxSizeIn || (inLen == c.maxSizeIn && !recentEvict)) {
		k, v, ok := c.in.PopBack()
		if !ok {
			return
		}
		if c.out.Len() >= c.maxSizeOut {
			c.out.PopBack()
		}
		c.out.PushFront(c.hasher.Sum64(k), struct{}{})
		if c.evictFn != nil {
			c.evictFn(k, v)
		}
		return
	}

	// Under the invariants above main is non-empty here; if it were
	// empty, PopBack would report ok=false and this is a silent no-op
	// rather than a crash.
	if k, v, ok := c.main.PopBack(); ok && c.evictFn != nil {
		c.evictFn(k, v)
	}
}

// Remove drops k's ghost-list fingerprint (if any) and removes k from
// whichever of main/the admission queue holds it, returning the value
// and whether it was present.
func (c *Cache[K, V]) Remove(k K) (v V, ok bool) {
	c.out.Remove(c.hasher.Sum64(k))
	if v, ok = c.main.Remove(k); ok {
		return v, true
	}
	return c.in.Remove(k)
}

// Len reports the combined size of the admission queue and main.
// Ghost-list occupancy does not count toward Len.
func (c *Cache[K, V]) Len() int { return c.in.Len() + c.main.Len() }

// IsEmpty reports whether both the admission queue and main are empty.
func (c *Cache[K, V]) IsEmpty() bool { return c.in.IsEmpty() && c.main.IsEmpty() }

// GhostLen reports the number of fingerprints currently held in the
// ghost list.
func (c *Cache[K, V]) GhostLen() int { return c.out.Len() }

// Purge empties all three stores. No eviction callback is invoked.
func (c *Cache[K, V]) Purge() {
	c.in.Clear()
	c.main.Clear()
	c.out.Clear()
}

// ShrinkToFit releases all three stores' freelists.
func (c *Cache[K, V]) ShrinkToFit() {
	c.in.ShrinkToFit()
	c.main.ShrinkToFit()
	c.out.ShrinkToFit()
}

// Stat returns a snapshot of the hit/miss counters.
func (c *Cache[K, V]) Stat() Stat {
	return Stat{HitCount: c.hitCount, MissCount: c.missCount}
}
