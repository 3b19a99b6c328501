package trace

import (
	"errors"
	"fmt"
)

var (
	// ErrMisaligned indicates a payload that is not 8-byte aligned.
	ErrMisaligned = errors.New("trace: payload not aligned")

	// ErrOverlap indicates two live payloads share bytes.
	ErrOverlap = errors.New("trace: payloads overlap")

	// ErrCorrupted indicates a payload lost the pattern written into it.
	ErrCorrupted = errors.New("trace: payload corrupted")

	// ErrShortPayload indicates a payload smaller than the request.
	ErrShortPayload = errors.New("trace: payload smaller than request")

	// ErrUnknownID indicates a free of an id that is not live.
	ErrUnknownID = errors.New("trace: id not allocated")
)

// ParseError reports a malformed trace line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("trace: line %d: %s", e.Line, e.Msg)
}

// ReplayError reports the operation at which replay stopped.
type ReplayError struct {
	Op    Op
	Index int
	Err   error
}

func (e *ReplayError) Error() string {
	if e.Op.Kind == 0 {
		return fmt.Sprintf("trace: after %d ops: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("trace: op %d (%s, line %d): %v", e.Index, e.Op, e.Op.Line, e.Err)
}

func (e *ReplayError) Unwrap() error { return e.Err }
