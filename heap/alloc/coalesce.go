package alloc

import "github.com/joshuapare/heapkit/internal/format"

// coalesce merges the free block at bp, which must already be in its
// bucket, with free physical neighbours and returns the payload offset of
// the resulting block. Every merged block is removed from its bucket before
// any size changes; the merged block is inserted exactly once.
//
//	prev  next   result
//	alloc alloc  bp unchanged (already listed)
//	alloc free   bp absorbs next
//	free  alloc  prev absorbs bp
//	free  free   prev absorbs bp and next
func (a *Allocator) coalesce(b []byte, bp uint32) uint32 {
	prevAlloc := format.TagAllocated(format.ReadU32(b, int(bp-format.DoubleWordSize)))
	next := format.NextOf(b, bp)
	nextAlloc := format.TagAllocated(format.ReadU32(b, int(format.HeaderOf(next))))
	size := blockSize(b, bp)

	switch {
	case prevAlloc && nextAlloc:
		return bp

	case prevAlloc && !nextAlloc:
		a.removeFree(b, bp)
		a.removeFree(b, next)
		size += blockSize(b, next)
		format.WriteTags(b, bp, size, false)
		a.stats.CoalesceForward++

	case !prevAlloc && nextAlloc:
		prev := format.PrevOf(b, bp)
		a.removeFree(b, prev)
		a.removeFree(b, bp)
		size += blockSize(b, prev)
		bp = prev
		format.WriteTags(b, bp, size, false)
		a.stats.CoalesceBackward++

	default:
		prev := format.PrevOf(b, bp)
		a.removeFree(b, prev)
		a.removeFree(b, bp)
		a.removeFree(b, next)
		size += blockSize(b, prev) + blockSize(b, next)
		bp = prev
		format.WriteTags(b, bp, size, false)
		a.stats.CoalesceForward++
		a.stats.CoalesceBackward++
	}

	a.insertFree(b, bp)
	return bp
}
