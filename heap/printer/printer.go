// Package printer renders allocator state for humans and tools.
package printer

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/trace"
	"github.com/joshuapare/heapkit/heap/verify"
)

// DefaultMaxBlocks is the MaxBlocks used by DefaultOptions; 0 lists every block.
const DefaultMaxBlocks = 0

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs human-readable text with grouped digits.
	FormatText Format = "text"

	// FormatJSON outputs JSON.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// ShowFree includes free blocks in block maps.
	// Default: true
	ShowFree bool

	// ShowAllocated includes allocated blocks in block maps.
	// Default: true
	ShowAllocated bool

	// MaxBlocks limits how many blocks a block map lists (0 = unlimited).
	// Default: 0
	MaxBlocks int
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:        FormatText,
		ShowFree:      true,
		ShowAllocated: true,
		MaxBlocks:     DefaultMaxBlocks,
	}
}

// Printer handles formatted output of allocator structures.
type Printer struct {
	opts   Options
	writer io.Writer
	msg    *message.Printer
}

// New creates a new Printer writing to w.
//
// Example:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintUsage(a.Usage())
func New(w io.Writer, opts Options) *Printer {
	return &Printer{
		opts:   opts,
		writer: w,
		msg:    message.NewPrinter(language.English),
	}
}

// PrintBlocks prints a block map, filtered by ShowFree/ShowAllocated and
// truncated to MaxBlocks.
func (p *Printer) PrintBlocks(blocks []verify.Block) error {
	shown, hidden := p.filter(blocks)
	if p.opts.Format == FormatJSON {
		return p.printBlocksJSON(shown, hidden)
	}
	return p.printBlocksText(shown, hidden)
}

// PrintUsage prints an arena usage summary.
func (p *Printer) PrintUsage(u alloc.Usage) error {
	if p.opts.Format == FormatJSON {
		return p.printJSON(usageJSON(u))
	}
	return p.printUsageText(u)
}

// PrintStats prints allocator counters.
func (p *Printer) PrintStats(s alloc.Stats) error {
	if p.opts.Format == FormatJSON {
		return p.printJSON(s)
	}
	return p.printStatsText(s)
}

// PrintResult prints a trace replay result under name.
func (p *Printer) PrintResult(name string, r trace.Result) error {
	if p.opts.Format == FormatJSON {
		return p.printJSON(resultJSON(name, r))
	}
	return p.printResultText(name, r)
}

func (p *Printer) filter(blocks []verify.Block) ([]verify.Block, int) {
	var shown []verify.Block
	hidden := 0
	for _, b := range blocks {
		if b.Allocated && !p.opts.ShowAllocated || !b.Allocated && !p.opts.ShowFree {
			continue
		}
		if p.opts.MaxBlocks > 0 && len(shown) >= p.opts.MaxBlocks {
			hidden++
			continue
		}
		shown = append(shown, b)
	}
	return shown, hidden
}
