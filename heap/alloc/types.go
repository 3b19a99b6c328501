package alloc

import "github.com/joshuapare/heapkit/internal/format"

// Ptr is the payload offset of an allocated block within the arena.
type Ptr uint32

// Nil is the "no allocation" pointer.
const Nil Ptr = 0

// Block is a decoded block as seen by Walk.
type Block = format.Block
