package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// maxPrealloc caps capacity hints taken from header counts, which are
// untrusted until the ops have actually been read.
const maxPrealloc = 1 << 16

// Kind is the operation type of a trace line.
type Kind byte

const (
	KindAlloc   Kind = 'a'
	KindRealloc Kind = 'r'
	KindFree    Kind = 'f'
)

// Op is one trace operation.
type Op struct {
	Kind Kind
	ID   int
	Size int // unused for KindFree
	Line int // source line, 1-based
}

func (o Op) String() string {
	if o.Kind == KindFree {
		return fmt.Sprintf("f %d", o.ID)
	}
	return fmt.Sprintf("%c %d %d", o.Kind, o.ID, o.Size)
}

// Trace is a parsed trace file.
type Trace struct {
	SuggestedHeap int
	NumIDs        int
	NumOps        int
	Weight        int
	Ops           []Op
}

// ParseFile parses the trace at path.
func ParseFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()

	tr, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tr, nil
}

// Parse reads a trace. The op count must match the header and every id
// must be below the declared id count.
func Parse(r io.Reader) (*Trace, error) {
	tr := &Trace{}
	header := []*int{&tr.SuggestedHeap, &tr.NumIDs, &tr.NumOps, &tr.Weight}
	nheader := 0

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}

		if nheader < len(header) {
			n, err := strconv.Atoi(text)
			if err != nil || n < 0 {
				return nil, &ParseError{Line: line, Msg: fmt.Sprintf("bad header value %q", text)}
			}
			*header[nheader] = n
			nheader++
			if nheader == len(header) {
				tr.Ops = make([]Op, 0, min(tr.NumOps, maxPrealloc))
			}
			continue
		}

		op, err := parseOp(text, line, tr.NumIDs)
		if err != nil {
			return nil, err
		}
		tr.Ops = append(tr.Ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}

	if nheader < len(header) {
		return nil, &ParseError{Line: line, Msg: fmt.Sprintf("truncated header: %d of %d values", nheader, len(header))}
	}
	if len(tr.Ops) != tr.NumOps {
		return nil, &ParseError{Line: line, Msg: fmt.Sprintf("header declares %d ops, found %d", tr.NumOps, len(tr.Ops))}
	}
	return tr, nil
}

func parseOp(text string, line, numIDs int) (Op, error) {
	fields := strings.Fields(text)
	if len(fields[0]) != 1 {
		return Op{}, &ParseError{Line: line, Msg: fmt.Sprintf("unknown op %q", fields[0])}
	}

	op := Op{Kind: Kind(fields[0][0]), Line: line}
	want := 3
	switch op.Kind {
	case KindAlloc, KindRealloc:
	case KindFree:
		want = 2
	default:
		return Op{}, &ParseError{Line: line, Msg: fmt.Sprintf("unknown op %q", fields[0])}
	}
	if len(fields) != want {
		return Op{}, &ParseError{Line: line, Msg: fmt.Sprintf("op %q takes %d fields, got %d", fields[0], want, len(fields))}
	}

	id, err := strconv.Atoi(fields[1])
	if err != nil || id < 0 || id >= numIDs {
		return Op{}, &ParseError{Line: line, Msg: fmt.Sprintf("bad id %q (ids: %d)", fields[1], numIDs)}
	}
	op.ID = id

	if want == 3 {
		size, err := strconv.Atoi(fields[2])
		if err != nil || size < 0 {
			return Op{}, &ParseError{Line: line, Msg: fmt.Sprintf("bad size %q", fields[2])}
		}
		op.Size = size
	}
	return op, nil
}
