package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

// newTestAllocator returns an initialized allocator over a memory arena
// with the given ceiling (0 = default).
func newTestAllocator(t testing.TB, maxSize int) (*Allocator, *heap.Memory) {
	t.Helper()

	arena := heap.NewMemory(heap.MemoryOptions{MaxSize: maxSize})
	a := New(arena, nil)
	require.NoError(t, a.Init(), "Init should succeed")
	t.Cleanup(arena.Release)
	return a, arena
}

// mustAlloc allocates size bytes and fails the test on error.
func mustAlloc(t testing.TB, a *Allocator, size int) Ptr {
	t.Helper()

	p, err := a.Alloc(size)
	require.NoError(t, err, "Alloc(%d) should succeed", size)
	require.NotEqual(t, Nil, p, "Alloc(%d) should return a pointer", size)
	return p
}

// blockAt decodes the block whose payload is at p.
func blockAt(t testing.TB, a *Allocator, p Ptr) Block {
	t.Helper()

	blk, _, err := format.DecodeBlock(a.arena.Bytes(), uint32(p))
	require.NoError(t, err)
	return blk
}

// assertInvariants runs the full consistency check.
func assertInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	require.NoError(t, a.Check(), "heap invariants violated")
}

// freeSizes returns the block sizes in class sc, head first.
func freeSizes(a *Allocator, sc int) []uint32 {
	b := a.arena.Bytes()
	var out []uint32
	for _, bp := range a.bucket(sc) {
		out = append(out, blockSize(b, bp))
	}
	return out
}

// fill writes a byte pattern derived from seed into the payload at p.
func fill(t testing.TB, a *Allocator, p Ptr, n int, seed byte) {
	t.Helper()

	payload, err := a.Payload(p)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(payload), n)
	for i := range n {
		payload[i] = seed + byte(i)
	}
}

// requirePattern checks the first n payload bytes at p against fill's pattern.
func requirePattern(t testing.TB, a *Allocator, p Ptr, n int, seed byte) {
	t.Helper()

	payload, err := a.Payload(p)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(payload), n)
	want := make([]byte, n)
	for i := range want {
		want[i] = seed + byte(i)
	}
	require.Equal(t, want, payload[:n], "payload at 0x%X", uint32(p))
}
