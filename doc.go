// Package ordercache is the module root: it holds no exported API of its
// own. orderedmap provides the ordered-map primitive; fifo, lru, slru, and
// q2 are the eviction policies built on top of it.
package ordercache
