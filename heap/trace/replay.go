package trace

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/internal/logger"
)

// Heap is the allocator surface Replay drives. *alloc.Allocator satisfies it.
type Heap interface {
	Alloc(size int) (alloc.Ptr, error)
	Free(p alloc.Ptr) error
	Realloc(p alloc.Ptr, size int) (alloc.Ptr, error)
	Payload(p alloc.Ptr) ([]byte, error)
	HeapSize() int
	Check() error
}

// ReplayOptions tunes Replay.
type ReplayOptions struct {
	// CheckEvery runs Heap.Check after every N operations (0 = only at the end).
	CheckEvery int

	// Logger receives a summary line. Nil means logger.L.
	Logger *slog.Logger
}

// Result summarizes a replay.
type Result struct {
	Ops         int     // Operations executed
	PeakLive    int64   // Peak sum of live requested sizes
	HeapSize    int     // Arena size at the end
	Utilization float64 // PeakLive / HeapSize
	Failed      int     // Allocations refused with alloc.ErrNoSpace
}

type liveEntry struct {
	ptr  alloc.Ptr
	size int
}

type replayer struct {
	h      Heap
	live   map[int]liveEntry
	failed map[int]bool
	cur    int64
	res    Result
}

// Replay executes tr against h. It stops at the first allocator error other
// than alloc.ErrNoSpace, or at the first output check that fails, and
// returns a *ReplayError together with the partial result.
func Replay(h Heap, tr *Trace, opts ReplayOptions) (Result, error) {
	log := opts.Logger
	if log == nil {
		log = logger.L
	}

	r := &replayer{
		h:      h,
		live:   make(map[int]liveEntry, min(tr.NumIDs, maxPrealloc)),
		failed: make(map[int]bool),
	}

	for i, op := range tr.Ops {
		if err := r.step(op); err != nil {
			r.finish()
			return r.res, &ReplayError{Op: op, Index: i, Err: err}
		}
		r.res.Ops++

		if opts.CheckEvery > 0 && (i+1)%opts.CheckEvery == 0 {
			if err := h.Check(); err != nil {
				r.finish()
				return r.res, &ReplayError{Op: op, Index: i, Err: err}
			}
		}
	}

	if err := h.Check(); err != nil {
		r.finish()
		return r.res, &ReplayError{Index: len(tr.Ops), Err: err}
	}
	r.finish()

	log.Info("trace replayed",
		"ops", r.res.Ops,
		"peak_live", r.res.PeakLive,
		"heap_size", r.res.HeapSize,
		"utilization", r.res.Utilization,
		"failed", r.res.Failed,
	)
	return r.res, nil
}

func (r *replayer) finish() {
	r.res.HeapSize = r.h.HeapSize()
	if r.res.HeapSize > 0 {
		r.res.Utilization = float64(r.res.PeakLive) / float64(r.res.HeapSize)
	}
}

func (r *replayer) step(op Op) error {
	switch op.Kind {
	case KindAlloc:
		p, err := r.h.Alloc(op.Size)
		if err != nil {
			return r.refused(op, err)
		}
		return r.placed(op, p, 0)

	case KindRealloc:
		old, ok := r.live[op.ID]
		if ok && old.ptr != alloc.Nil {
			if err := r.verify(op.ID, old); err != nil {
				return err
			}
		}
		p, err := r.h.Realloc(old.ptr, op.Size)
		if err != nil {
			return r.refused(op, err)
		}
		r.drop(op.ID)
		keep := min(old.size, op.Size)
		if p != alloc.Nil && keep > 0 {
			if err := r.verify(op.ID, liveEntry{ptr: p, size: keep}); err != nil {
				return err
			}
		}
		return r.placed(op, p, keep)

	case KindFree:
		if r.failed[op.ID] {
			delete(r.failed, op.ID)
			return nil
		}
		e, ok := r.live[op.ID]
		if !ok {
			return ErrUnknownID
		}
		if err := r.verify(op.ID, e); err != nil {
			return err
		}
		if err := r.h.Free(e.ptr); err != nil {
			return err
		}
		r.drop(op.ID)
		return nil
	}
	return fmt.Errorf("trace: unknown op kind %q", op.Kind)
}

// refused records an out-of-memory refusal, which does not stop replay.
func (r *replayer) refused(op Op, err error) error {
	if !errors.Is(err, alloc.ErrNoSpace) {
		return err
	}
	r.res.Failed++
	if op.Kind == KindAlloc {
		r.failed[op.ID] = true
	}
	return nil
}

// placed checks a fresh payload for id, fills it from offset from on, and
// marks it live.
func (r *replayer) placed(op Op, p alloc.Ptr, from int) error {
	delete(r.failed, op.ID)
	if p == alloc.Nil {
		if op.Size != 0 {
			return fmt.Errorf("%w: nil pointer for %d bytes", ErrCorrupted, op.Size)
		}
		r.live[op.ID] = liveEntry{}
		return nil
	}

	if uint32(p)%8 != 0 {
		return fmt.Errorf("%w: 0x%X", ErrMisaligned, uint32(p))
	}
	payload, err := r.h.Payload(p)
	if err != nil {
		return err
	}
	if len(payload) < op.Size {
		return fmt.Errorf("%w: 0x%X holds %d bytes, need %d", ErrShortPayload, uint32(p), len(payload), op.Size)
	}

	start, end := uint32(p), uint32(p)+uint32(op.Size)
	for id, e := range r.live {
		if e.ptr == alloc.Nil || e.size == 0 {
			continue
		}
		s, t := uint32(e.ptr), uint32(e.ptr)+uint32(e.size)
		if start < t && s < end {
			return fmt.Errorf("%w: id %d [0x%X,0x%X) and id %d [0x%X,0x%X)", ErrOverlap, op.ID, start, end, id, s, t)
		}
	}

	for i := from; i < op.Size; i++ {
		payload[i] = pattern(op.ID, i)
	}
	r.live[op.ID] = liveEntry{ptr: p, size: op.Size}
	r.cur += int64(op.Size)
	r.res.PeakLive = max(r.res.PeakLive, r.cur)
	return nil
}

func (r *replayer) drop(id int) {
	if e, ok := r.live[id]; ok {
		r.cur -= int64(e.size)
		delete(r.live, id)
	}
}

// verify checks the first e.size payload bytes of id against its pattern.
func (r *replayer) verify(id int, e liveEntry) error {
	if e.ptr == alloc.Nil || e.size == 0 {
		return nil
	}
	payload, err := r.h.Payload(e.ptr)
	if err != nil {
		return err
	}
	if len(payload) < e.size {
		return fmt.Errorf("%w: id %d payload shrank to %d bytes", ErrCorrupted, id, len(payload))
	}
	for i := range e.size {
		if payload[i] != pattern(id, i) {
			return fmt.Errorf("%w: id %d byte %d at 0x%X", ErrCorrupted, id, i, uint32(e.ptr))
		}
	}
	return nil
}

func pattern(id, i int) byte { return byte(id*131 + i) }
