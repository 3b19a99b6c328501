package heap

import (
	"errors"
	"fmt"
	"math"

	"github.com/joshuapare/heapkit/internal/buf"
)

// DefaultMaxSize is the ceiling used when no MaxSize is configured (20 MiB).
const DefaultMaxSize = 20 << 20

// maxArenaSize keeps every offset representable in a 32-bit boundary tag.
const maxArenaSize = int(min(uint64(math.MaxUint32), uint64(math.MaxInt)))

var (
	// ErrLimit indicates that growing would exceed the arena or budget ceiling.
	ErrLimit = errors.New("heap: growth limit reached")

	// ErrClosed indicates the arena was closed or released.
	ErrClosed = errors.New("heap: arena closed")

	// ErrBadGrow indicates a negative growth request.
	ErrBadGrow = errors.New("heap: invalid growth request")
)

// Arena is a single contiguous, monotonically growing byte range.
type Arena interface {
	// Bytes returns the committed bytes. The slice is invalidated by Grow.
	Bytes() []byte

	// Size returns the number of committed bytes.
	Size() int

	// Grow commits n more zeroed bytes at the end of the arena and returns
	// the offset of the first one. On failure nothing is committed and the
	// existing bytes are untouched.
	Grow(n int) (int, error)
}

// checkGrow validates a growth request of n bytes on an arena of size
// bytes capped at limit and returns the new size.
func checkGrow(size, n, limit int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("grow %d bytes: %w", n, ErrBadGrow)
	}
	newSize, ok := buf.AddOverflowSafe(size, n)
	if !ok || newSize > limit || !buf.FitsU32(newSize) {
		return 0, fmt.Errorf("grow %d bytes (size %d, limit %d): %w", n, size, limit, ErrLimit)
	}
	return newSize, nil
}

func limitOrDefault(maxSize int) int {
	if maxSize <= 0 {
		return DefaultMaxSize
	}
	if maxSize > maxArenaSize {
		return maxArenaSize
	}
	return maxSize
}
