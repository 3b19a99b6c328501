package verify

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/format"
)

// Block is a decoded arena block.
type Block = format.Block

// ValidationError describes the first layout violation found in an arena.
// Offset is -1 when the violation has no single location.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
	Details map[string]any
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Layout validates the whole arena: prologue, every block, coalescing and
// the epilogue. Returns the first error encountered, or nil.
func Layout(data []byte) error {
	_, err := Blocks(data)
	return err
}

// Prologue validates the padding word and the prologue block.
func Prologue(data []byte) error {
	if len(data) < format.InitialSize {
		return &ValidationError{
			Type:    "Prologue",
			Message: fmt.Sprintf("arena too small: %d bytes (need %d)", len(data), format.InitialSize),
			Offset:  -1,
		}
	}
	if pad := format.ReadU32(data, format.PaddingOffset); pad != 0 {
		return &ValidationError{
			Type:    "Prologue",
			Message: fmt.Sprintf("padding word not zero: 0x%08X", pad),
			Offset:  format.PaddingOffset,
		}
	}
	for _, off := range []int{format.PrologueHeaderOffset, format.PrologueFooterOffset} {
		if tag := format.ReadU32(data, off); tag != format.PrologueTag {
			return &ValidationError{
				Type:    "Prologue",
				Message: fmt.Sprintf("bad prologue tag: got 0x%08X, expected 0x%08X", tag, format.PrologueTag),
				Offset:  off,
				Details: map[string]any{"got": tag, "expected": format.PrologueTag},
			}
		}
	}
	return nil
}

// Blocks walks the arena from the first real block to the epilogue and
// returns every block in address order, validating as it goes.
func Blocks(data []byte) ([]Block, error) {
	if err := Prologue(data); err != nil {
		return nil, err
	}
	if len(data)%format.Alignment != 0 {
		return nil, &ValidationError{
			Type:    "Layout",
			Message: fmt.Sprintf("arena size not 8-byte aligned: %d", len(data)),
			Offset:  -1,
		}
	}

	var (
		blocks   []Block
		prevFree bool
		bp       = uint32(format.FirstPayload)
	)
	for {
		blk, next, err := format.DecodeBlock(data, bp)
		if err != nil {
			return blocks, &ValidationError{
				Type:    "Block",
				Message: err.Error(),
				Offset:  int(format.HeaderOf(bp)),
			}
		}
		if blk.Size == 0 {
			return blocks, epilogue(data, bp)
		}
		if err := block(data, blk); err != nil {
			return blocks, err
		}
		if prevFree && !blk.Allocated {
			return blocks, &ValidationError{
				Type:    "Coalescing",
				Message: fmt.Sprintf("adjacent free blocks at payload 0x%X", blk.Payload),
				Offset:  int(blk.HeaderOffset()),
			}
		}
		prevFree = !blk.Allocated
		blocks = append(blocks, blk)
		bp = next
	}
}

func block(data []byte, blk Block) error {
	if !format.IsAligned(blk.Payload) {
		return &ValidationError{
			Type:    "Block",
			Message: fmt.Sprintf("payload not 8-byte aligned: 0x%X", blk.Payload),
			Offset:  int(blk.HeaderOffset()),
		}
	}
	if blk.Size%format.Alignment != 0 {
		return &ValidationError{
			Type:    "Block",
			Message: fmt.Sprintf("block size not 8-byte aligned: %d bytes", blk.Size),
			Offset:  int(blk.HeaderOffset()),
		}
	}
	hdr := format.ReadU32(data, int(blk.HeaderOffset()))
	if raw := hdr &^ format.Pack(blk.Size, true); raw != 0 {
		return &ValidationError{
			Type:    "Block",
			Message: fmt.Sprintf("reserved tag bits set: 0x%08X", hdr),
			Offset:  int(blk.HeaderOffset()),
		}
	}
	if ftr := format.ReadU32(data, int(blk.FooterOffset())); ftr != hdr {
		return &ValidationError{
			Type:    "Block",
			Message: fmt.Sprintf("header/footer mismatch: header=0x%08X footer=0x%08X", hdr, ftr),
			Offset:  int(blk.FooterOffset()),
			Details: map[string]any{"header": hdr, "footer": ftr},
		}
	}
	return nil
}

func epilogue(data []byte, bp uint32) error {
	off := int(format.HeaderOf(bp))
	tag := format.ReadU32(data, off)
	if tag != format.EpilogueTag {
		return &ValidationError{
			Type:    "Epilogue",
			Message: fmt.Sprintf("bad epilogue tag: 0x%08X", tag),
			Offset:  off,
		}
	}
	if off != len(data)-format.WordSize {
		return &ValidationError{
			Type:    "Epilogue",
			Message: fmt.Sprintf("epilogue not in last word: arena ends at 0x%X", len(data)),
			Offset:  off,
			Details: map[string]any{"actual": off, "expected": len(data) - format.WordSize},
		}
	}
	return nil
}
