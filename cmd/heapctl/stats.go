package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <trace>",
		Short: "Replay a trace and show allocator counters",
		Long: `The stats command replays a trace and prints the allocator's counters
(fast/slow path allocations, splits, coalescing, extensions) followed by a
usage summary of the final arena.

Example:
  heapctl stats short1.rep
  heapctl stats short1.rep --classes 12 --chunk 8192
  heapctl stats short1.rep --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
	return cmd
}

func runStats(args []string) error {
	o := replayOne(args[0], arenaFile, nil, false)
	if o.err != nil {
		return fmt.Errorf("%s: %w", o.name, o.err)
	}

	p := newPrinter()
	if err := p.PrintResult(o.name, o.result); err != nil {
		return err
	}
	if err := p.PrintStats(o.stats); err != nil {
		return err
	}
	return p.PrintUsage(o.usage)
}
