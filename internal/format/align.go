package format

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + AlignmentMask) & ^AlignmentMask
}

// Align8U32 is the uint32 version of Align8 for block-size arithmetic.
func Align8U32(n uint32) uint32 {
	return (n + AlignmentMask) & ^uint32(AlignmentMask)
}

// IsAligned reports whether off is a multiple of Alignment.
func IsAligned(off uint32) bool { return off&AlignmentMask == 0 }

// EvenWords rounds a word count up to an even number so that an extension
// always keeps the epilogue double-word aligned.
func EvenWords(words int) int {
	if words%2 != 0 {
		return words + 1
	}
	return words
}
