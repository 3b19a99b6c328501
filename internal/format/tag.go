package format

// Boundary tag layout (one little-endian word, header and footer alike):
//
//	Bits    Description
//	31..3   Block size in bytes (always a multiple of 8)
//	2..1    Unused, zero
//	0       Allocated flag
const (
	tagAllocBit = 0x1
	tagSizeMask = ^uint32(AlignmentMask)
)

// Pack encodes a block size and allocated flag into a boundary tag word.
// size must already be a multiple of 8; its low three bits are discarded.
func Pack(size uint32, allocated bool) uint32 {
	w := size & tagSizeMask
	if allocated {
		w |= tagAllocBit
	}
	return w
}

// TagSize decodes the block size from a boundary tag word.
func TagSize(w uint32) uint32 { return w & tagSizeMask }

// TagAllocated decodes the allocated flag from a boundary tag word.
func TagAllocated(w uint32) bool { return w&tagAllocBit != 0 }

// EpilogueTag is the zero-size allocated tag that terminates the arena.
var EpilogueTag = Pack(0, true)

// PrologueTag is the header and footer of the 8-byte prologue block.
var PrologueTag = Pack(PrologueSize, true)
