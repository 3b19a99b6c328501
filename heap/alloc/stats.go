package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Stats holds allocator counters accumulated since New.
type Stats struct {
	AllocCalls     int   // Total Alloc calls (including those made by Realloc)
	FreeCalls      int   // Total Free calls
	ReallocCalls   int   // Total Realloc calls
	ZeroRequests   int   // Alloc(0) calls answered with Nil
	AllocFastPath  int   // Allocations served from the free lists
	AllocSlowPath  int   // Allocations that required an extension
	FailedAllocs   int   // Allocations that returned ErrNoSpace
	RejectedFrees  int   // Free calls refused by pointer validation
	Splits         int   // Placements that split off a remainder
	ExtendCalls    int   // Arena extension attempts
	ExtendFailures int   // Extensions refused by the arena
	ExtendBytes    int64 // Total bytes added by extensions
	BytesAllocated int64 // Total block bytes handed out (including overhead)
	BytesFreed     int64 // Total block bytes returned (before coalescing)

	CoalesceForward  int // Merges with the following block
	CoalesceBackward int // Merges with the preceding block
}

// Stats returns a copy of the allocator counters.
func (a *Allocator) Stats() Stats { return a.stats }

// Usage is a point-in-time picture of the arena, gathered by walking it.
type Usage struct {
	HeapSize        int
	AllocatedBlocks int
	AllocatedBytes  int64 // Block bytes, including overhead
	PayloadBytes    int64 // Usable bytes in allocated blocks
	FreeBlocks      int
	FreeBytes       int64
	LargestFree     int
	FreeListLens    []int // Entries per size class
}

// Utilization returns the fraction of the heap held by allocated payload.
func (u Usage) Utilization() float64 {
	if u.HeapSize == 0 {
		return 0
	}
	return float64(u.PayloadBytes) / float64(u.HeapSize)
}

// Usage walks the arena and the free lists and summarizes them.
func (a *Allocator) Usage() Usage {
	u := Usage{
		HeapSize:     a.arena.Size(),
		FreeListLens: make([]int, len(a.heads)),
	}
	if !a.ready {
		return u
	}

	a.Walk(func(blk Block) bool {
		if blk.Allocated {
			u.AllocatedBlocks++
			u.AllocatedBytes += int64(blk.Size)
			u.PayloadBytes += int64(blk.PayloadSize())
			return true
		}
		u.FreeBlocks++
		u.FreeBytes += int64(blk.Size)
		u.LargestFree = max(u.LargestFree, int(blk.Size))
		return true
	})

	b := a.arena.Bytes()
	for sc, head := range a.heads {
		for cur := head; cur != format.NilLink && u.FreeListLens[sc] <= u.FreeBlocks; cur = format.Succ(b, cur) {
			u.FreeListLens[sc]++
		}
	}
	return u
}
