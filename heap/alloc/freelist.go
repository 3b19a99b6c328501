package alloc

import "github.com/joshuapare/heapkit/internal/format"

// blockSize reads the size from the header of the block at bp.
func blockSize(b []byte, bp uint32) uint32 {
	return format.TagSize(format.ReadU32(b, int(format.HeaderOf(bp))))
}

func (a *Allocator) classOf(size uint32) int { return sizeClass(size, len(a.heads)) }

// insertFree links the free block at bp into its class bucket before the
// first entry that is at least as large, keeping the bucket ascending.
func (a *Allocator) insertFree(b []byte, bp uint32) {
	size := blockSize(b, bp)
	sc := a.classOf(size)

	prev := uint32(format.NilLink)
	cur := a.heads[sc]
	for cur != format.NilLink && size > blockSize(b, cur) {
		prev = cur
		cur = format.Succ(b, cur)
	}

	format.SetPred(b, bp, prev)
	format.SetSucc(b, bp, cur)
	if cur != format.NilLink {
		format.SetPred(b, cur, bp)
	}
	if prev != format.NilLink {
		format.SetSucc(b, prev, bp)
	} else {
		a.heads[sc] = bp
	}
}

// removeFree unlinks the free block at bp from the bucket of its current
// size. Callers must remove a block before changing its size.
func (a *Allocator) removeFree(b []byte, bp uint32) {
	sc := a.classOf(blockSize(b, bp))
	pred := format.Pred(b, bp)
	succ := format.Succ(b, bp)

	if pred != format.NilLink {
		format.SetSucc(b, pred, succ)
	} else {
		a.heads[sc] = succ
	}
	if succ != format.NilLink {
		format.SetPred(b, succ, pred)
	}
}

// findFit returns the first free block of at least asize bytes, scanning
// classes upward from asize's class. NilLink means no fit.
func (a *Allocator) findFit(b []byte, asize uint32) uint32 {
	for sc := a.classOf(asize); sc < len(a.heads); sc++ {
		for cur := a.heads[sc]; cur != format.NilLink; cur = format.Succ(b, cur) {
			if blockSize(b, cur) >= asize {
				return cur
			}
		}
	}
	return format.NilLink
}

// bucket returns the payload offsets in class sc, head first.
func (a *Allocator) bucket(sc int) []uint32 {
	b := a.arena.Bytes()
	var out []uint32
	for cur := a.heads[sc]; cur != format.NilLink; cur = format.Succ(b, cur) {
		out = append(out, cur)
	}
	return out
}
