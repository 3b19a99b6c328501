// Package heap provides the growable, contiguous byte arenas an allocator
// carves blocks out of.
//
// # Overview
//
// An Arena is the boundary to the host's growth primitive: it hands out a
// single contiguous range of bytes that only ever grows at the end. Grow
// returns the offset of the first newly committed byte, which is always
// zeroed. Arenas never shrink and never move bytes relative to offset 0, so
// callers address everything by offset and re-fetch Bytes() after a Grow.
//
// # Implementations
//
// Memory: slice-backed arena with a hard ceiling (DefaultMaxSize, 20 MiB).
//
//	m := heap.NewMemory(heap.MemoryOptions{MaxSize: 1 << 20})
//	off, err := m.Grow(4096)
//
// File: arena mapped from a file with mmap (unix), grown by extending the
// file and remapping. Sync flushes the mapping, Close unmaps it.
//
//	f, err := heap.CreateFile("/tmp/arena.bin", heap.FileOptions{})
//	defer f.Close()
//
// # Budgets
//
// A Budget is a ceiling shared by several arenas. Every Grow reserves its
// bytes from the budget first and fails with ErrLimit when the reservation
// would exceed the limit:
//
//	b := heap.NewBudget(64 << 20)
//	a1 := heap.NewMemory(heap.MemoryOptions{Budget: b})
//	a2 := heap.NewMemory(heap.MemoryOptions{Budget: b})
//
// # Thread Safety
//
// Arenas are not thread-safe. A Budget is safe for concurrent use, so
// arenas owned by different goroutines may share one.
package heap
