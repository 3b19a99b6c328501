package trace

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/alloc"
)

func newHeap(t *testing.T, maxSize int) *alloc.Allocator {
	t.Helper()

	a := alloc.New(heap.NewMemory(heap.MemoryOptions{MaxSize: maxSize}), nil)
	require.NoError(t, a.Init())
	return a
}

func TestReplay_Basic(t *testing.T) {
	tr, err := ParseFile("testdata/basic.rep")
	require.NoError(t, err)
	a := newHeap(t, 0)

	res, err := Replay(a, tr, ReplayOptions{CheckEvery: 1})
	require.NoError(t, err)

	assert.Equal(t, 6, res.Ops)
	assert.Equal(t, int64(768), res.PeakLive)
	assert.Equal(t, 4112, res.HeapSize)
	assert.InDelta(t, 768.0/4112.0, res.Utilization, 1e-9)
	assert.Zero(t, res.Failed)

	u := a.Usage()
	assert.Equal(t, 0, u.AllocatedBlocks, "everything freed except the empty request")
}

func TestReplay_Binary(t *testing.T) {
	tr, err := ParseFile("testdata/binary.rep")
	require.NoError(t, err)
	a := newHeap(t, 0)

	res, err := Replay(a, tr, ReplayOptions{})
	require.NoError(t, err)
	assert.Equal(t, 12, res.Ops)
	assert.Equal(t, int64(3*448+2*512), res.PeakLive)
	require.NoError(t, a.Check())
}

// TestReplay_OutOfMemoryContinues verifies refused allocations are counted
// and their later frees skipped.
func TestReplay_OutOfMemoryContinues(t *testing.T) {
	input := "0\n2\n4\n1\na 0 8000\na 1 100\nf 0\nf 1\n"
	tr, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	a := newHeap(t, 4112)

	res, err := Replay(a, tr, ReplayOptions{CheckEvery: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 4, res.Ops)
	assert.Equal(t, int64(100), res.PeakLive)
}

// TestReplay_ReallocRefusedKeepsBlock verifies a refused resize keeps the
// old block live and intact.
func TestReplay_ReallocRefusedKeepsBlock(t *testing.T) {
	input := "0\n1\n3\n1\na 0 100\nr 0 9000\nf 0\n"
	tr, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	a := newHeap(t, 4112)

	res, err := Replay(a, tr, ReplayOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 0, a.Usage().AllocatedBlocks)
}

func TestReplay_UnknownID(t *testing.T) {
	tr, err := Parse(strings.NewReader("0\n2\n1\n1\nf 1\n"))
	require.NoError(t, err)

	_, err = Replay(newHeap(t, 0), tr, ReplayOptions{})
	var rerr *ReplayError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 0, rerr.Index)
	assert.ErrorIs(t, err, ErrUnknownID)
}

// TestReplay_HugeIDCount verifies the declared id count is only a bound,
// not an allocation size.
func TestReplay_HugeIDCount(t *testing.T) {
	input := fmt.Sprintf("0\n%d\n2\n1\na 5 24\nf 5\n", math.MaxInt)
	tr, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, tr.NumIDs)

	res, err := Replay(newHeap(t, 0), tr, ReplayOptions{CheckEvery: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Ops)
	assert.Equal(t, int64(24), res.PeakLive)
}

// TestReplay_Random replays a generated trace with frequent checks.
func TestReplay_Random(t *testing.T) {
	tr := randomTrace(rand.New(rand.NewSource(7)), 64, 3000)
	a := newHeap(t, 0)

	res, err := Replay(a, tr, ReplayOptions{CheckEvery: 25})
	require.NoError(t, err)
	assert.Equal(t, len(tr.Ops), res.Ops)
	assert.Positive(t, res.Utilization)
	assert.LessOrEqual(t, res.Utilization, 1.0)
}

// randomTrace builds a well-formed trace of n ops over ids ids.
func randomTrace(rng *rand.Rand, ids, n int) *Trace {
	var sb strings.Builder
	live := make([]bool, ids)
	ops := 0
	var body strings.Builder
	for ops < n {
		id := rng.Intn(ids)
		size := rng.Intn(1024)
		switch {
		case !live[id]:
			fmt.Fprintf(&body, "a %d %d\n", id, size)
			live[id] = true
		case rng.Intn(2) == 0:
			fmt.Fprintf(&body, "r %d %d\n", id, size)
		default:
			fmt.Fprintf(&body, "f %d\n", id)
			live[id] = false
		}
		ops++
	}
	fmt.Fprintf(&sb, "0\n%d\n%d\n1\n%s", ids, n, body.String())

	tr, err := Parse(strings.NewReader(sb.String()))
	if err != nil {
		panic(err)
	}
	return tr
}

// misbehavingHeap wraps an allocator and breaks one guarantee.
type misbehavingHeap struct {
	*alloc.Allocator
	allocFn   func(a *alloc.Allocator, size int) (alloc.Ptr, error)
	payloadFn func(a *alloc.Allocator, p alloc.Ptr) ([]byte, error)
}

func (m *misbehavingHeap) Alloc(size int) (alloc.Ptr, error) {
	if m.allocFn != nil {
		return m.allocFn(m.Allocator, size)
	}
	return m.Allocator.Alloc(size)
}

func (m *misbehavingHeap) Payload(p alloc.Ptr) ([]byte, error) {
	if m.payloadFn != nil {
		return m.payloadFn(m.Allocator, p)
	}
	return m.Allocator.Payload(p)
}

func TestReplay_DetectsFaults(t *testing.T) {
	input := "0\n2\n4\n1\na 0 40\na 1 40\nf 0\nf 1\n"

	tests := []struct {
		name string
		h    func(a *alloc.Allocator) Heap
		want error
	}{
		{
			name: "overlap",
			h: func(a *alloc.Allocator) Heap {
				first := alloc.Nil
				return &misbehavingHeap{Allocator: a, allocFn: func(a *alloc.Allocator, size int) (alloc.Ptr, error) {
					if first != alloc.Nil {
						return first, nil
					}
					p, err := a.Alloc(size)
					first = p
					return p, err
				}}
			},
			want: ErrOverlap,
		},
		{
			name: "misaligned",
			h: func(a *alloc.Allocator) Heap {
				return &misbehavingHeap{Allocator: a, allocFn: func(a *alloc.Allocator, size int) (alloc.Ptr, error) {
					p, err := a.Alloc(size)
					return p + 4, err
				}}
			},
			want: ErrMisaligned,
		},
		{
			name: "lost contents",
			h: func(a *alloc.Allocator) Heap {
				return &misbehavingHeap{Allocator: a, payloadFn: func(a *alloc.Allocator, p alloc.Ptr) ([]byte, error) {
					b, err := a.Payload(p)
					if err != nil {
						return nil, err
					}
					return make([]byte, len(b)), nil
				}}
			},
			want: ErrCorrupted,
		},
		{
			name: "short payload",
			h: func(a *alloc.Allocator) Heap {
				return &misbehavingHeap{Allocator: a, payloadFn: func(a *alloc.Allocator, p alloc.Ptr) ([]byte, error) {
					return make([]byte, 8), nil
				}}
			},
			want: ErrShortPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Parse(strings.NewReader(input))
			require.NoError(t, err)

			_, err = Replay(tt.h(newHeap(t, 0)), tr, ReplayOptions{})
			require.ErrorIs(t, err, tt.want)

			var rerr *ReplayError
			require.ErrorAs(t, err, &rerr)
			assert.Contains(t, rerr.Error(), "trace: op")
		})
	}
}

func TestReplayError_Format(t *testing.T) {
	err := &ReplayError{Op: Op{Kind: KindFree, ID: 2, Line: 9}, Index: 4, Err: ErrUnknownID}
	assert.Equal(t, "trace: op 4 (f 2, line 9): trace: id not allocated", err.Error())

	err = &ReplayError{Index: 10, Err: alloc.ErrCorrupt}
	assert.Equal(t, "trace: after 10 ops: alloc: heap inconsistent", err.Error())
}
