package format

// Free-list links live in the first two payload words of a free block and
// hold payload offsets of the neighbouring bucket entries (NilLink = none).

// Pred returns the predecessor link of the free block at bp.
func Pred(b []byte, bp uint32) uint32 { return ReadU32(b, int(bp)) }

// Succ returns the successor link of the free block at bp.
func Succ(b []byte, bp uint32) uint32 { return ReadU32(b, int(bp+WordSize)) }

// SetPred stores the predecessor link of the free block at bp.
func SetPred(b []byte, bp, v uint32) { PutU32(b, int(bp), v) }

// SetSucc stores the successor link of the free block at bp.
func SetSucc(b []byte, bp, v uint32) { PutU32(b, int(bp+WordSize), v) }
