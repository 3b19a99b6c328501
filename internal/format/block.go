package format

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
)

// Block is a decoded view of a single block (free or allocated) in an arena.
//
// Block layout, addressed by payload offset bp:
//
//	Offset       Size  Description
//	bp-4         4     Header tag
//	bp           ...   Payload. When free: word 0 = predecessor link,
//	                   word 1 = successor link (payload offsets, 0 = none)
//	bp+size-8    4     Footer tag (copy of the header)
type Block struct {
	Payload   uint32 // Payload offset; the header sits one word before it
	Size      uint32 // Total size including header and footer
	Allocated bool
}

// HeaderOffset returns the offset of the block's header word.
func (b Block) HeaderOffset() uint32 { return HeaderOf(b.Payload) }

// FooterOffset returns the offset of the block's footer word.
func (b Block) FooterOffset() uint32 { return b.Payload + b.Size - DoubleWordSize }

// End returns the offset one past the block's footer.
func (b Block) End() uint32 { return b.Payload + b.Size - WordSize }

// PayloadSize returns the number of usable payload bytes.
func (b Block) PayloadSize() uint32 {
	if b.Size < BlockOverhead {
		return 0
	}
	return b.Size - BlockOverhead
}

// HeaderOf returns the header offset of the block whose payload is at bp.
func HeaderOf(bp uint32) uint32 { return bp - WordSize }

// FooterOf returns the footer offset of the block at bp, using its header.
func FooterOf(b []byte, bp uint32) uint32 {
	return bp + TagSize(ReadU32(b, int(HeaderOf(bp)))) - DoubleWordSize
}

// NextOf returns the payload offset of the block physically after bp.
func NextOf(b []byte, bp uint32) uint32 {
	return bp + TagSize(ReadU32(b, int(HeaderOf(bp))))
}

// PrevOf returns the payload offset of the block physically before bp,
// read through the footer that sits immediately before bp's header.
func PrevOf(b []byte, bp uint32) uint32 {
	return bp - TagSize(ReadU32(b, int(bp-DoubleWordSize)))
}

// WriteTags writes identical header and footer tags for a block of size
// bytes at bp.
func WriteTags(b []byte, bp, size uint32, allocated bool) {
	tag := Pack(size, allocated)
	PutU32(b, int(HeaderOf(bp)), tag)
	PutU32(b, int(bp+size-DoubleWordSize), tag)
}

// DecodeBlock reads the block at payload offset bp and returns it together
// with the payload offset of the following block. It fails if the header
// is outside b or the block would run past the last word of b.
func DecodeBlock(b []byte, bp uint32) (Block, uint32, error) {
	if bp < WordSize || !buf.Has(b, int(HeaderOf(bp)), WordSize) {
		return Block{}, 0, fmt.Errorf("block 0x%X: %w", bp, ErrTruncated)
	}
	tag := ReadU32(b, int(HeaderOf(bp)))
	blk := Block{Payload: bp, Size: TagSize(tag), Allocated: TagAllocated(tag)}
	if blk.Size == 0 {
		return blk, bp, nil
	}
	if blk.Size < MinBlockSize && bp != ProloguePayload {
		return Block{}, 0, fmt.Errorf("block 0x%X: size %d: %w", bp, blk.Size, ErrBlockSize)
	}
	if !buf.Has(b, int(HeaderOf(bp)), int(blk.Size)+WordSize) {
		return Block{}, 0, fmt.Errorf("block 0x%X: size %d: %w", bp, blk.Size, ErrTruncated)
	}
	return blk, bp + blk.Size, nil
}
