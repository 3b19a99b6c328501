package alloc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshuapare/heapkit/internal/format"
)

// extend grows the arena by words 4-byte words (rounded up to an even
// count) and returns the payload offset of the resulting free block, which
// may have merged with a free block at the old end of the arena. The old
// epilogue becomes the new block's header. On failure the arena is left
// exactly as it was.
func (a *Allocator) extend(words int) (uint32, error) {
	words = format.EvenWords(words)
	n := words * format.WordSize

	a.stats.ExtendCalls++
	off, err := a.arena.Grow(n)
	if err != nil {
		a.stats.ExtendFailures++
		a.log.Warn("arena extension failed",
			"bytes", n,
			"heap_size", a.arena.Size(),
			"error", err,
		)
		return format.NilLink, fmt.Errorf("extend %d bytes: %w", n, err)
	}
	a.stats.ExtendBytes += int64(n)

	b := a.arena.Bytes()
	bp := uint32(off)
	size := uint32(n)
	format.WriteTags(b, bp, size, false)
	format.PutU32(b, int(format.HeaderOf(bp+size)), format.EpilogueTag)

	if a.log.Enabled(context.Background(), slog.LevelDebug) {
		a.log.Debug("arena extended",
			"words", words,
			"bytes", n,
			"heap_size", len(b),
		)
	}

	a.insertFree(b, bp)
	return a.coalesce(b, bp), nil
}
