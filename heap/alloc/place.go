package alloc

import "github.com/joshuapare/heapkit/internal/format"

// place allocates asize bytes at the free block bp. The remainder is split
// off as a new free block when it can hold a minimum block; otherwise the
// whole block is handed out.
func (a *Allocator) place(b []byte, bp, asize uint32) {
	csize := blockSize(b, bp)
	a.removeFree(b, bp)

	if csize-asize >= format.MinBlockSize {
		format.WriteTags(b, bp, asize, true)
		rest := bp + asize
		format.WriteTags(b, rest, csize-asize, false)
		a.insertFree(b, rest)
		a.stats.Splits++
		return
	}
	format.WriteTags(b, bp, csize, true)
}
