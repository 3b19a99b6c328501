package alloc

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/format"
)

// Check validates the arena layout and the free lists against each other:
//   - the arena passes verify.Layout
//   - every bucket entry is an in-arena, aligned, free block of its class
//   - buckets are ascending by size with symmetric pred/succ links
//   - every free block in the arena is listed exactly once
//
// Check is O(heap) and intended for tests and diagnostics.
func (a *Allocator) Check() error {
	if !a.ready {
		return ErrNotReady
	}

	b := a.arena.Bytes()
	blocks, err := verify.Blocks(b)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	free := make(map[uint32]bool)
	for _, blk := range blocks {
		if !blk.Allocated {
			free[blk.Payload] = false
		}
	}

	listed := 0
	for sc, head := range a.heads {
		prev := uint32(format.NilLink)
		var prevSize uint32
		for cur := head; cur != format.NilLink; cur = format.Succ(b, cur) {
			seen, ok := free[cur]
			switch {
			case !ok:
				return fmt.Errorf("%w: class %d lists 0x%X, which is not a free block", ErrCorrupt, sc, cur)
			case seen:
				return fmt.Errorf("%w: block 0x%X listed twice", ErrCorrupt, cur)
			}
			free[cur] = true
			listed++

			size := blockSize(b, cur)
			if c := a.classOf(size); c != sc {
				return fmt.Errorf("%w: block 0x%X (size %d) in class %d, want %d", ErrCorrupt, cur, size, sc, c)
			}
			if size < prevSize {
				return fmt.Errorf("%w: class %d not ascending at 0x%X (%d after %d)", ErrCorrupt, sc, cur, size, prevSize)
			}
			if p := format.Pred(b, cur); p != prev {
				return fmt.Errorf("%w: block 0x%X pred=0x%X, want 0x%X", ErrCorrupt, cur, p, prev)
			}
			prev, prevSize = cur, size
		}
	}

	if listed != len(free) {
		for bp, seen := range free {
			if !seen {
				return fmt.Errorf("%w: free block 0x%X (size %d) not in any list", ErrCorrupt, bp, blockSize(b, bp))
			}
		}
	}
	return nil
}
