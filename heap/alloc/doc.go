// Package alloc implements a segregated-free-list allocator over a single
// growable arena.
//
// # Overview
//
// Every block carries a 4-byte boundary tag at both ends (header and footer)
// holding its size and an allocated bit. Free blocks additionally store two
// link words at the start of their payload and sit in one of NumClasses
// doubly linked buckets, each kept sorted by ascending size. The arena is
// framed by an allocated 8-byte prologue and a zero-size allocated epilogue
// so that coalescing never needs a bounds check.
//
// # Usage Example
//
//	arena := heap.NewMemory(heap.MemoryOptions{})
//	a := alloc.New(arena, nil)
//	if err := a.Init(); err != nil {
//	    return err
//	}
//
//	p, err := a.Alloc(100)
//	if err != nil {
//	    return err
//	}
//	payload, _ := a.Payload(p)
//	copy(payload, data)
//
//	p, err = a.Realloc(p, 500)
//	...
//	err = a.Free(p)
//
// # Size Classes
//
// A block of size s lives in class floor(log2(s-1)), clamped to the last
// class. With the default 20 classes:
//
//	Class 3:   9 -  16 bytes (only 16-byte blocks exist)
//	Class 4:  17 -  32 bytes
//	Class 5:  33 -  64 bytes
//	Class 6:  65 - 128 bytes
//	...
//	Class 19: 2^19+1 bytes and above
//
// Lookup scans classes upward from the request's class and takes the first
// block in a bucket that is large enough. Because buckets are sorted this is
// the smallest fit within that class.
//
// # Pointers
//
// Ptr is the payload offset of a block in the arena. The zero value Nil means
// "no allocation"; offset 0 is the padding word and is never a payload.
// Payload returns a slice view that is invalidated by any call that may grow
// the arena (Alloc and Realloc).
//
// # Thread Safety
//
// An Allocator is NOT safe for concurrent use. Callers must serialize access.
package alloc
