package q2

import (
	"github.com/cespare/xxhash/v2"
	"github.com/dolthub/maphash"
)

// Hasher computes a 64-bit fingerprint of a key. Two keys that fingerprint
// identically are treated as the same ghost-list entry; this collision
// cost is accepted at 64-bit width.
type Hasher[K comparable] interface {
	Sum64(key K) uint64
}

// genericHasher is the default Hasher for any comparable key type. It
// wraps maphash.Hasher[K], the generic any-comparable-key hasher from
// github.com/dolthub/maphash — the library db47h/cache reaches for to
// hash generic cache keys, the same role it plays here.
type genericHasher[K comparable] struct {
	h maphash.Hasher[K]
}

// NewHasher returns the default Hasher[K], usable for any comparable key
// type without requiring K to implement an interface.
func NewHasher[K comparable]() Hasher[K] {
	return genericHasher[K]{h: maphash.NewHasher[K]()}
}

func (g genericHasher[K]) Sum64(key K) uint64 {
	return g.h.Hash(key)
}

// XXHasher is an opt-in Hasher for string keys backed by
// github.com/cespare/xxhash/v2, for callers who'd rather avoid the
// reflection-based generic hasher's overhead on a known key shape.
type XXHasher struct{}

// Sum64 hashes key with xxhash.
func (XXHasher) Sum64(key string) uint64 {
	return xxhash.Sum64String(key)
}
