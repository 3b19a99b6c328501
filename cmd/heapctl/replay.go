package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/trace"
	"github.com/joshuapare/heapkit/internal/logger"
)

var (
	replayParallel int
	replayBudget   int64
	replayUsage    bool
)

func init() {
	cmd := newReplayCmd()
	cmd.Flags().IntVarP(&replayParallel, "parallel", "j", 1, "Number of traces replayed concurrently")
	cmd.Flags().Int64Var(&replayBudget, "budget", 0, "Total bytes shared by all arenas (0 = unlimited)")
	cmd.Flags().BoolVar(&replayUsage, "usage", false, "Print arena usage after each trace")
	rootCmd.AddCommand(cmd)
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace>...",
		Short: "Replay traces and report utilization",
		Long: `The replay command runs each trace against a fresh allocator, checking
alignment, overlap and payload contents after every operation.

Example:
  heapctl replay short1.rep
  heapctl replay traces/*.rep -j 4 --budget 67108864
  heapctl replay short1.rep --file /tmp/heap.bin --check-every 100`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), args)
		},
	}
	return cmd
}

// replayOutcome is everything one trace run produced.
type replayOutcome struct {
	name   string
	result trace.Result
	usage  alloc.Usage
	stats  alloc.Stats
	blocks []alloc.Block
	err    error
}

// replayFailure is the --json record for a trace that did not complete.
type replayFailure struct {
	Trace string `json:"trace"`
	Error string `json:"error"`
}

func runReplay(ctx context.Context, args []string) error {
	budget := heap.NewBudget(replayBudget)
	outcomes := make([]replayOutcome, len(args))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(replayParallel, 1))
	for i, path := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = replayOne(path, arenaPath(i, len(args)), budget, false)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	p := newPrinter()
	failed := 0
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			printError("%s: %v\n", o.name, o.err)
			if jsonOut && !quiet {
				if err := printJSON(replayFailure{Trace: o.name, Error: o.err.Error()}); err != nil {
					return err
				}
			}
			continue
		}
		if quiet {
			continue
		}
		if err := p.PrintResult(o.name, o.result); err != nil {
			return err
		}
		if replayUsage {
			if err := p.PrintUsage(o.usage); err != nil {
				return err
			}
		}
	}

	printVerbose("Budget: %d bytes in use after all replays\n", budget.Used())
	if failed > 0 {
		return fmt.Errorf("%d of %d traces failed", failed, len(args))
	}
	return nil
}

// arenaPath derives a per-trace backing file from --file.
func arenaPath(i, n int) string {
	if arenaFile == "" || n == 1 {
		return arenaFile
	}
	ext := filepath.Ext(arenaFile)
	return fmt.Sprintf("%s.%d%s", arenaFile[:len(arenaFile)-len(ext)], i, ext)
}

// replayOne runs a single trace on a fresh arena. keepBlocks captures the
// final block layout before the arena is closed.
func replayOne(path, arenaPath string, budget *heap.Budget, keepBlocks bool) (o replayOutcome) {
	o.name = filepath.Base(path)

	tr, err := trace.ParseFile(path)
	if err != nil {
		o.err = err
		return o
	}

	a, err := openArena(arenaPath, budget)
	if err != nil {
		o.err = err
		return o
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && o.err == nil {
			o.err = cerr
		}
	}()

	al, err := newAllocator(a)
	if err != nil {
		o.err = err
		return o
	}

	logger.Debug("replaying trace", "trace", o.name, "ops", len(tr.Ops), "ids", tr.NumIDs)
	o.result, o.err = trace.Replay(al, tr, trace.ReplayOptions{CheckEvery: checkEvery})
	o.usage = al.Usage()
	o.stats = al.Stats()
	if keepBlocks {
		al.Walk(func(b alloc.Block) bool {
			o.blocks = append(o.blocks, b)
			return true
		})
	}
	return o
}
