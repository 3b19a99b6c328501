// Package format houses the on-arena binary layout of the allocator: the
// boundary-tag word codec, block navigation helpers, and the constants that
// pin the layout down bit for bit. Higher-level packages never compute an
// offset by hand; they go through these helpers so the layout-sensitive code
// lives in one place.
package format

const (
	// WordSize is the size of a header, footer or link word in bytes.
	WordSize = 4

	// DoubleWordSize is the alignment unit of every block size and payload.
	DoubleWordSize = 8

	// Alignment is the required alignment of payload offsets and block sizes.
	Alignment = DoubleWordSize

	// AlignmentMask is used with Alignment for round-up calculations.
	AlignmentMask = Alignment - 1

	// BlockOverhead is the number of bytes a block spends on its header and
	// footer. Usable payload = block size - BlockOverhead.
	BlockOverhead = 2 * WordSize

	// MinBlockSize is the smallest legal block: header, footer and the two
	// free-list link words.
	MinBlockSize = 2 * DoubleWordSize

	// ChunkSize is the default granularity by which the arena is extended.
	ChunkSize = 1 << 12

	// NumClasses is the default number of size classes.
	NumClasses = 20

	// NilLink marks the absence of a predecessor/successor in a bucket.
	// Offset 0 is the padding word and never a payload.
	NilLink = 0
)

// Arena prologue layout.
//
//	Offset  Size  Description
//	0x00    4     Padding word (zero)
//	0x04    4     Prologue header, Pack(8, allocated)
//	0x08    4     Prologue footer, Pack(8, allocated)
//	0x0C    4     Epilogue header, Pack(0, allocated) (moves on every extension)
//	0x10    ...   First real block payload (its header replaces the epilogue)
const (
	PaddingOffset        = 0x00
	PrologueHeaderOffset = 0x04
	PrologueFooterOffset = 0x08
	PrologueSize         = DoubleWordSize

	// ProloguePayload is the payload offset of the prologue block.
	ProloguePayload = 0x08

	// InitialSize is the number of bytes Init requests before the first
	// chunk: padding, prologue header/footer and the epilogue.
	InitialSize = 4 * WordSize

	// FirstPayload is the payload offset of the first real block.
	FirstPayload = InitialSize
)
