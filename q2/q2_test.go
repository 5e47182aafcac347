package q2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQ2GhostAdmissionBypassesProbation(t *testing.T) {
	c := NewWithParams[int, int](4, 0.5, 0.5) // maxSizeIn=2, maxSizeMain=2, maxSizeOut=2
	var evicted []int
	c.SetEvictionCallback(func(k int, _ int) { evicted = append(evicted, k) })

	c.Add(1, 1)
	c.Add(2, 2)
	c.Add(3, 3)
	c.Add(4, 4) // in is now at capacity pressure; admitting 5 evicts in's tail (1)
	c.Add(5, 5)

	require.Equal(t, []int{1}, evicted)
	assert.Equal(t, 1, c.GhostLen())
	assert.False(t, c.ContainsKey(1))

	// Re-admitting 1 hits the ghost list: it is trusted straight into
	// main rather than back into the probationary queue, and its
	// fingerprint is consumed off the ghost list.
	old, replaced := c.Add(1, 11)
	assert.False(t, replaced)
	assert.Equal(t, 0, old)

	assert.True(t, c.ContainsKey(1))
	v, ok := c.Peek(1)
	require.True(t, ok)
	assert.Equal(t, 11, v)

	// Admitting 1 into main under pressure evicted 2's probationary
	// entry and ghosted its fingerprint in 1's place.
	require.Equal(t, []int{1, 2}, evicted)
	assert.Equal(t, 1, c.GhostLen())
	assert.False(t, c.ContainsKey(2))
}

func TestQ2MainHitPromotesAndReplaces(t *testing.T) {
	c := New[int, int](8)
	c.Add(1, 1)
	_, ok := c.Get(1) // promote 1 into main
	require.True(t, ok)

	old, replaced := c.Add(1, 100)
	require.True(t, replaced)
	assert.Equal(t, 1, old)

	v, ok := c.Peek(1)
	require.True(t, ok)
	assert.Equal(t, 100, v)
}

func TestQ2PeekDoesNotAffectStatsOrGhostList(t *testing.T) {
	c := New[int, int](8)
	c.Add(1, 1)

	_, ok := c.Peek(1)
	require.True(t, ok)

	st := c.Stat()
	assert.Equal(t, 0, st.HitCount)
	assert.Equal(t, 0, st.MissCount)
	assert.Equal(t, 0, c.GhostLen())
}

func TestQ2RemoveDropsGhostFingerprint(t *testing.T) {
	c := NewWithParams[int, int](4, 0.5, 0.5)
	c.Add(1, 1)
	c.Add(2, 2)
	c.Add(3, 3)
	c.Add(4, 4)
	c.Add(5, 5) // evicts 1 into the ghost list

	require.Equal(t, 1, c.GhostLen())

	_, ok := c.Remove(1)
	assert.False(t, ok, "1 was already evicted from in/main")
	assert.Equal(t, 0, c.GhostLen(), "Remove clears the ghost fingerprint too")
}

func TestQ2Purge(t *testing.T) {
	c := New[int, int](4)
	c.Add(1, 1)
	c.Add(2, 2)
	c.Purge()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.GhostLen())
}

// TestQ2GhostAdmissionWithXXHasher is TestQ2GhostAdmissionBypassesProbation
// run over string keys with the xxhash-backed Hasher, so XXHasher is
// actually exercised through ghost-list admission rather than sitting
// unused behind its dependency.
func TestQ2GhostAdmissionWithXXHasher(t *testing.T) {
	c := NewWithParamsAndHasher[string, int](4, 0.5, 0.5, XXHasher{})
	var evicted []string
	c.SetEvictionCallback(func(k string, _ int) { evicted = append(evicted, k) })

	c.Add("1", 1)
	c.Add("2", 2)
	c.Add("3", 3)
	c.Add("4", 4)
	c.Add("5", 5) // evicts "1" into the ghost list

	require.Equal(t, []string{"1"}, evicted)
	assert.Equal(t, 1, c.GhostLen())
	assert.False(t, c.ContainsKey("1"))

	old, replaced := c.Add("1", 11)
	assert.False(t, replaced)
	assert.Equal(t, 0, old)

	assert.True(t, c.ContainsKey("1"))
	v, ok := c.Peek("1")
	require.True(t, ok)
	assert.Equal(t, 11, v)

	require.Equal(t, []string{"1", "2"}, evicted)
	assert.Equal(t, 1, c.GhostLen())
}

// TestQ2GhostAdmissionScenario pins spec scenario 4 ("2Q ghost
// admission") verbatim: cap=4 with the default main/ghost-list
// factors, add(1..=5) then add(1,1) then add(6,6).
func TestQ2GhostAdmissionScenario(t *testing.T) {
	c := New[int, int](4)
	evictions := 0
	c.SetEvictionCallback(func(int, int) { evictions++ })

	for i := 1; i <= 5; i++ {
		c.Add(i, i)
	}
	assert.Equal(t, 4, c.in.Len())
	assert.Equal(t, 1, c.GhostLen())
	assert.Equal(t, 0, c.main.Len())
	assert.Equal(t, 1, evictions)

	c.Add(1, 1)
	assert.Equal(t, 3, c.in.Len())
	assert.Equal(t, 1, c.GhostLen())
	assert.Equal(t, 1, c.main.Len())

	c.Add(6, 6)
	assert.Equal(t, 3, c.in.Len())
	assert.Equal(t, 2, c.GhostLen())
	assert.Equal(t, 1, c.main.Len())
}
