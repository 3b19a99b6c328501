package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/printer"
	"github.com/joshuapare/heapkit/internal/logger"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool

	// Allocator flags
	chunkSize  int
	numClasses int
	maxHeap    int
	arenaFile  string
	checkEvery int

	// errOut receives per-item failures; --quiet never silences it.
	errOut io.Writer = os.Stderr
)

var rootCmd = &cobra.Command{
	Use:   "heapctl",
	Short: "Replay allocation traces against the segregated-fit allocator",
	Long: `heapctl drives the heapkit allocator with malloc-lab style traces,
checks every result it returns, and reports utilization, counters and the
final block layout of the arena.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			return logger.Init(logger.Options{Enabled: true, Writer: os.Stderr, Level: slog.LevelDebug})
		}
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and allocator logging")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")

	rootCmd.PersistentFlags().IntVar(&chunkSize, "chunk", alloc.DefaultConfig.ChunkSize, "Arena extension granularity in bytes")
	rootCmd.PersistentFlags().IntVar(&numClasses, "classes", alloc.DefaultConfig.NumClasses, "Number of size classes")
	rootCmd.PersistentFlags().IntVar(&maxHeap, "max-heap", heap.DefaultMaxSize, "Arena ceiling in bytes")
	rootCmd.PersistentFlags().StringVar(&arenaFile, "file", "", "Back the arena with this file (mmap) instead of memory")
	rootCmd.PersistentFlags().IntVar(&checkEvery, "check-every", 0, "Run the heap checker every N operations (0 = only at the end)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError reports a failure on errOut regardless of --quiet and --json
func printError(format string, args ...any) {
	fmt.Fprintf(errOut, format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// newPrinter returns a printer honouring --json.
func newPrinter() *printer.Printer {
	opts := printer.DefaultOptions()
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	return printer.New(os.Stdout, opts)
}

// arena is what the commands need from a heap arena.
type arena interface {
	heap.Arena
	Close() error
}

// memoryArena adapts heap.Memory to the arena interface.
type memoryArena struct{ *heap.Memory }

func (m memoryArena) Close() error {
	m.Release()
	return nil
}

// fileArena syncs before closing so the image on disk is complete.
type fileArena struct{ *heap.File }

func (f fileArena) Close() error {
	if err := f.Sync(); err != nil {
		f.File.Close()
		return err
	}
	return f.File.Close()
}

// openArena creates a fresh arena per the flags. path overrides --file.
func openArena(path string, budget *heap.Budget) (arena, error) {
	if path == "" {
		return memoryArena{heap.NewMemory(heap.MemoryOptions{MaxSize: maxHeap, Budget: budget})}, nil
	}
	f, err := heap.CreateFile(path, heap.FileOptions{MaxSize: maxHeap, Budget: budget})
	if err != nil {
		return nil, err
	}
	return fileArena{f}, nil
}

// newAllocator initializes an allocator over a.
func newAllocator(a heap.Arena) (*alloc.Allocator, error) {
	al := alloc.New(a, &alloc.Config{NumClasses: numClasses, ChunkSize: chunkSize})
	if err := al.Init(); err != nil {
		return nil, err
	}
	return al, nil
}
