package alloc

import "errors"

var (
	// ErrInit indicates that the initial arena growth failed.
	ErrInit = errors.New("alloc: initialization failed")

	// ErrNoSpace indicates that no free block was large enough and the arena
	// could not be extended.
	ErrNoSpace = errors.New("alloc: out of memory")

	// ErrNotReady indicates an operation on an allocator that was never
	// successfully initialized.
	ErrNotReady = errors.New("alloc: allocator not initialized")

	// ErrBadPtr indicates a pointer that is outside the arena, misaligned, or
	// whose boundary tags are inconsistent.
	ErrBadPtr = errors.New("alloc: bad pointer")

	// ErrDoubleFree indicates an attempt to free or resize a block that is
	// already free.
	ErrDoubleFree = errors.New("alloc: block already free")

	// ErrBadSize indicates a negative request size.
	ErrBadSize = errors.New("alloc: invalid request size")

	// ErrCorrupt indicates that Check found the heap inconsistent.
	ErrCorrupt = errors.New("alloc: heap inconsistent")
)
