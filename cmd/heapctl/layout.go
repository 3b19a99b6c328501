package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/printer"
)

var (
	layoutFreeOnly  bool
	layoutAllocOnly bool
	layoutMax       int
)

func init() {
	cmd := newLayoutCmd()
	cmd.Flags().BoolVar(&layoutFreeOnly, "free-only", false, "Only list free blocks")
	cmd.Flags().BoolVar(&layoutAllocOnly, "allocated-only", false, "Only list allocated blocks")
	cmd.Flags().IntVar(&layoutMax, "max-blocks", 0, "Limit the number of blocks listed (0 = all)")
	rootCmd.AddCommand(cmd)
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout <trace>",
		Short: "Replay a trace and print the final block map",
		Long: `The layout command replays a trace and then lists every block between
the prologue and the epilogue with its payload offset, size and state.

Example:
  heapctl layout short1.rep
  heapctl layout short1.rep --free-only
  heapctl layout short1.rep --json --max-blocks 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(args)
		},
	}
	return cmd
}

func runLayout(args []string) error {
	if layoutFreeOnly && layoutAllocOnly {
		return fmt.Errorf("--free-only and --allocated-only are mutually exclusive")
	}

	o := replayOne(args[0], arenaFile, nil, true)
	if o.err != nil {
		return fmt.Errorf("%s: %w", o.name, o.err)
	}
	printVerbose("%s: %d blocks\n", o.name, len(o.blocks))

	opts := printer.DefaultOptions()
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	opts.ShowFree = !layoutAllocOnly
	opts.ShowAllocated = !layoutFreeOnly
	opts.MaxBlocks = layoutMax

	return printer.New(os.Stdout, opts).PrintBlocks(o.blocks)
}
