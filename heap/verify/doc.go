// Package verify provides validation functions for allocator arenas.
//
// # Overview
//
// The checks here look only at the arena bytes: they never consult free-list
// heads or allocator state, so they can validate a live allocator, a memory
// dump, or a file-backed arena after a crash. They are used by the
// allocator's Check method, by tests, and by heapctl.
//
// Validation categories:
//   - Prologue: padding word, prologue header and footer
//   - Blocks: header/footer agreement, size, alignment, containment
//   - Coalescing: no two physically adjacent free blocks
//   - Epilogue: zero-size allocated tag in the last word
//
// # Quick Start
//
//	if err := verify.Layout(arena.Bytes()); err != nil {
//	    fmt.Printf("Validation failed: %v\n", err)
//	}
//
//	blocks, err := verify.Blocks(arena.Bytes())
//	for _, b := range blocks {
//	    fmt.Printf("0x%X %d %v\n", b.Payload, b.Size, b.Allocated)
//	}
//
// # ValidationError
//
// All validation functions return *ValidationError on failure:
//
//	err := verify.Layout(data)
//	var verr *verify.ValidationError
//	if errors.As(err, &verr) {
//	    fmt.Printf("Type: %s\n", verr.Type)
//	    fmt.Printf("Offset: 0x%X\n", verr.Offset)
//	    fmt.Printf("Message: %s\n", verr.Message)
//	}
package verify
