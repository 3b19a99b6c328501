package alloc

import "math/bits"

// sizeClass maps a block size to its bucket: floor(log2(size-1)) clamped to
// [0, n-1]. size is at least MinBlockSize, so size-1 is never zero in
// practice; sizes below 2 map to class 0.
func sizeClass(size uint32, n int) int {
	if size < 2 {
		return 0
	}
	c := bits.Len32(size-1) - 1
	if c >= n {
		return n - 1
	}
	return c
}
