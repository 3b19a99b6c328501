package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Walk calls fn for every block between the prologue and the epilogue, in
// address order, until fn returns false. Walk stops silently at the first
// undecodable block; use Check to find out why.
func (a *Allocator) Walk(fn func(Block) bool) {
	if !a.prologue {
		return
	}
	b := a.arena.Bytes()
	bp := uint32(format.FirstPayload)
	for {
		blk, next, err := format.DecodeBlock(b, bp)
		if err != nil || blk.Size == 0 {
			return
		}
		if !fn(blk) {
			return
		}
		bp = next
	}
}
