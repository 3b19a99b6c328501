package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBlockSize indicates a block tag carried an impossible size.
	ErrBlockSize = errors.New("format: invalid block size")
)
