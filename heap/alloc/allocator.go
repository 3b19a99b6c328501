package alloc

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
)

// Config tunes an Allocator. The zero value of each field selects the
// corresponding default.
type Config struct {
	// NumClasses is the number of segregated buckets (default 20).
	NumClasses int

	// ChunkSize is the minimum number of bytes added per arena extension
	// (default 4096). Rounded up to a multiple of 8.
	ChunkSize int

	// Logger receives allocator diagnostics. Nil means logger.L.
	Logger *slog.Logger
}

// DefaultConfig is used when New is given a nil config.
var DefaultConfig = Config{
	NumClasses: format.NumClasses,
	ChunkSize:  format.ChunkSize,
}

// Allocator is a segregated-free-list allocator over a single arena.
//
// Lifecycle: New returns an allocator in the uninitialized state; Init moves
// it to ready. A failed Init leaves it uninitialized and may be retried.
type Allocator struct {
	arena heap.Arena
	cfg   Config
	log   *slog.Logger

	// heads[c] is the payload offset of the smallest block in class c.
	heads []uint32

	prologue bool // padding/prologue/epilogue written
	ready    bool

	stats Stats
}

// New creates an allocator over arena. The arena must be empty; Init writes
// the prologue at offset 0.
//
// Parameters:
//   - arena: the growable byte range to manage
//   - cfg: tuning (use nil for DefaultConfig)
func New(arena heap.Arena, cfg *Config) *Allocator {
	c := DefaultConfig
	if cfg != nil {
		c = *cfg
	}
	if c.NumClasses < 1 {
		c.NumClasses = DefaultConfig.NumClasses
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultConfig.ChunkSize
	}
	c.ChunkSize = max(format.Align8(c.ChunkSize), format.MinBlockSize)

	log := c.Logger
	if log == nil {
		log = logger.L
	}

	return &Allocator{
		arena: arena,
		cfg:   c,
		log:   log,
		heads: make([]uint32, c.NumClasses),
	}
}

// Init lays out the padding word, prologue and epilogue, then extends the
// arena by one chunk. Calling Init on a ready allocator is a no-op.
func (a *Allocator) Init() error {
	if a.ready {
		return nil
	}

	if !a.prologue {
		if a.arena.Size() != 0 {
			return fmt.Errorf("%w: arena not empty (%d bytes)", ErrInit, a.arena.Size())
		}
		off, err := a.arena.Grow(format.InitialSize)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInit, err)
		}
		b := a.arena.Bytes()
		format.PutU32(b, off+format.PaddingOffset, 0)
		format.PutU32(b, off+format.PrologueHeaderOffset, format.PrologueTag)
		format.PutU32(b, off+format.PrologueFooterOffset, format.PrologueTag)
		format.PutU32(b, off+int(format.HeaderOf(format.FirstPayload)), format.EpilogueTag)
		clear(a.heads)
		a.prologue = true
	}

	if _, err := a.extend(a.cfg.ChunkSize / format.WordSize); err != nil {
		return fmt.Errorf("%w: %w", ErrInit, err)
	}

	a.ready = true
	a.log.Debug("allocator initialized",
		"heap_size", a.arena.Size(),
		"classes", a.cfg.NumClasses,
		"chunk", a.cfg.ChunkSize,
	)
	return nil
}

// Ready reports whether Init has succeeded.
func (a *Allocator) Ready() bool { return a.ready }

// HeapSize returns the number of arena bytes under management.
func (a *Allocator) HeapSize() int { return a.arena.Size() }

// Config returns the effective configuration.
func (a *Allocator) Config() Config { return a.cfg }

// Arena returns the underlying arena.
func (a *Allocator) Arena() heap.Arena { return a.arena }

// Alloc returns a pointer to an 8-aligned payload of at least size bytes.
// A zero size returns Nil without touching the arena.
func (a *Allocator) Alloc(size int) (Ptr, error) {
	a.stats.AllocCalls++

	if !a.ready {
		return Nil, ErrNotReady
	}
	if size == 0 {
		a.stats.ZeroRequests++
		return Nil, nil
	}
	if size < 0 {
		return Nil, fmt.Errorf("alloc %d bytes: %w", size, ErrBadSize)
	}

	asize, ok := adjustedSize(size)
	if !ok {
		a.stats.FailedAllocs++
		return Nil, fmt.Errorf("alloc %d bytes: %w", size, ErrNoSpace)
	}

	b := a.arena.Bytes()
	if bp := a.findFit(b, asize); bp != format.NilLink {
		a.place(b, bp, asize)
		a.stats.AllocFastPath++
		a.stats.BytesAllocated += int64(asize)
		return Ptr(bp), nil
	}

	ext := max(asize, uint32(a.cfg.ChunkSize))
	bp, err := a.extend(int(ext / format.WordSize))
	if err != nil {
		a.stats.FailedAllocs++
		if errors.Is(err, heap.ErrClosed) {
			// The arena is gone; the free lists point into nothing.
			a.ready = false
		}
		return Nil, fmt.Errorf("alloc %d bytes: %w: %w", size, ErrNoSpace, err)
	}

	b = a.arena.Bytes()
	a.place(b, bp, asize)
	a.stats.AllocSlowPath++
	a.stats.BytesAllocated += int64(asize)
	return Ptr(bp), nil
}

// Free returns the block at p to the free lists, merging it with free
// neighbours. Freeing Nil is a no-op.
func (a *Allocator) Free(p Ptr) error {
	a.stats.FreeCalls++

	if p == Nil {
		return nil
	}
	if !a.ready {
		return ErrNotReady
	}

	b := a.arena.Bytes()
	blk, err := a.lookup(b, p)
	if err != nil {
		a.stats.RejectedFrees++
		a.log.Warn("free rejected", "ptr", uint32(p), "error", err)
		return fmt.Errorf("free 0x%X: %w", uint32(p), err)
	}

	a.release(b, blk)
	return nil
}

// Realloc resizes the allocation at p to size bytes. The contents up to the
// smaller of the old payload and size are preserved. Realloc(Nil, n) is
// Alloc(n); Realloc(p, 0) frees p and returns Nil. The returned pointer
// always refers to a fresh block. If the new allocation fails the old block
// is left intact and the error is returned.
func (a *Allocator) Realloc(p Ptr, size int) (Ptr, error) {
	a.stats.ReallocCalls++

	if p == Nil {
		return a.Alloc(size)
	}
	if size == 0 {
		return Nil, a.Free(p)
	}
	if !a.ready {
		return Nil, ErrNotReady
	}
	if size < 0 {
		return Nil, fmt.Errorf("realloc %d bytes: %w", size, ErrBadSize)
	}

	old, err := a.lookup(a.arena.Bytes(), p)
	if err != nil {
		return Nil, fmt.Errorf("realloc 0x%X: %w", uint32(p), err)
	}

	np, err := a.Alloc(size)
	if err != nil {
		return Nil, err
	}

	b := a.arena.Bytes()
	n := min(uint32(size), old.PayloadSize())
	copy(b[np:uint32(np)+n], b[p:uint32(p)+n])

	a.release(b, old)
	return np, nil
}

// Payload returns the usable payload of the allocated block at p. The slice
// is invalidated by the next Alloc or Realloc.
func (a *Allocator) Payload(p Ptr) ([]byte, error) {
	if !a.ready {
		return nil, ErrNotReady
	}
	b := a.arena.Bytes()
	blk, err := a.lookup(b, p)
	if err != nil {
		return nil, fmt.Errorf("payload 0x%X: %w", uint32(p), err)
	}
	view, ok := buf.Slice(b, int(blk.Payload), int(blk.PayloadSize()))
	if !ok {
		return nil, fmt.Errorf("payload 0x%X: %w", uint32(p), ErrBadPtr)
	}
	return view, nil
}

// UsableSize returns the payload capacity of the allocated block at p, which
// may exceed the size originally requested.
func (a *Allocator) UsableSize(p Ptr) (int, error) {
	if !a.ready {
		return 0, ErrNotReady
	}
	blk, err := a.lookup(a.arena.Bytes(), p)
	if err != nil {
		return 0, fmt.Errorf("usable size 0x%X: %w", uint32(p), err)
	}
	return int(blk.PayloadSize()), nil
}

// release marks blk free, inserts it and coalesces.
func (a *Allocator) release(b []byte, blk Block) {
	format.WriteTags(b, blk.Payload, blk.Size, false)
	a.insertFree(b, blk.Payload)
	a.coalesce(b, blk.Payload)
	a.stats.BytesFreed += int64(blk.Size)
}

// lookup validates p as the payload of a live allocated block. The checks
// are cheap and best-effort: range, alignment, header/footer agreement and
// the allocated bit.
func (a *Allocator) lookup(b []byte, p Ptr) (Block, error) {
	bp := uint32(p)
	if bp < format.FirstPayload || !format.IsAligned(bp) || uint64(bp)+format.WordSize > uint64(len(b)) {
		return Block{}, ErrBadPtr
	}

	hdr := format.ReadU32(b, int(format.HeaderOf(bp)))
	size := format.TagSize(hdr)
	if size < format.MinBlockSize || uint64(bp)+uint64(size) > uint64(len(b)) {
		return Block{}, ErrBadPtr
	}
	if ftr := format.ReadU32(b, int(bp+size-format.DoubleWordSize)); ftr != hdr {
		return Block{}, ErrBadPtr
	}
	if !format.TagAllocated(hdr) {
		return Block{}, ErrDoubleFree
	}
	return Block{Payload: bp, Size: size, Allocated: true}, nil
}

// adjustedSize converts a request into a block size: payload plus overhead,
// rounded up to 8, never below MinBlockSize.
func adjustedSize(size int) (uint32, bool) {
	if size <= format.DoubleWordSize {
		return format.MinBlockSize, true
	}
	if uint64(size) > math.MaxUint32-format.BlockOverhead-format.AlignmentMask {
		return 0, false
	}
	return format.Align8U32(uint32(size) + format.BlockOverhead), true
}
