package printer

import (
	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/trace"
	"github.com/joshuapare/heapkit/heap/verify"
)

func state(allocated bool) string {
	if allocated {
		return "alloc"
	}
	return "free"
}

func (p *Printer) printBlocksText(blocks []verify.Block, hidden int) error {
	if _, err := p.msg.Fprintf(p.writer, "%-12s %10s  %-5s  %10s\n", "PAYLOAD", "SIZE", "STATE", "USABLE"); err != nil {
		return err
	}
	for _, b := range blocks {
		if _, err := p.msg.Fprintf(p.writer, "0x%08X   %10d  %-5s  %10d\n",
			b.Payload, b.Size, state(b.Allocated), b.PayloadSize()); err != nil {
			return err
		}
	}
	if hidden > 0 {
		if _, err := p.msg.Fprintf(p.writer, "... %d more blocks\n", hidden); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printUsageText(u alloc.Usage) error {
	p.msg.Fprintf(p.writer, "Heap size:        %d bytes\n", u.HeapSize)
	p.msg.Fprintf(p.writer, "Allocated:        %d blocks, %d bytes (%d usable)\n",
		u.AllocatedBlocks, u.AllocatedBytes, u.PayloadBytes)
	p.msg.Fprintf(p.writer, "Free:             %d blocks, %d bytes\n", u.FreeBlocks, u.FreeBytes)
	p.msg.Fprintf(p.writer, "Largest free:     %d bytes\n", u.LargestFree)
	p.msg.Fprintf(p.writer, "Utilization:      %.1f%%\n", u.Utilization()*100)

	for sc, n := range u.FreeListLens {
		if n == 0 {
			continue
		}
		if _, err := p.msg.Fprintf(p.writer, "  class %2d: %d free\n", sc, n); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printStatsText(s alloc.Stats) error {
	p.msg.Fprintf(p.writer, "Alloc calls:        %d (fast: %d, slow: %d, zero: %d, failed: %d)\n",
		s.AllocCalls, s.AllocFastPath, s.AllocSlowPath, s.ZeroRequests, s.FailedAllocs)
	p.msg.Fprintf(p.writer, "Free calls:         %d (rejected: %d)\n", s.FreeCalls, s.RejectedFrees)
	p.msg.Fprintf(p.writer, "Realloc calls:      %d\n", s.ReallocCalls)
	p.msg.Fprintf(p.writer, "Splits:             %d\n", s.Splits)
	p.msg.Fprintf(p.writer, "Coalesce:           %d forward, %d backward\n", s.CoalesceForward, s.CoalesceBackward)
	p.msg.Fprintf(p.writer, "Extensions:         %d (%d bytes, %d failed)\n", s.ExtendCalls, s.ExtendBytes, s.ExtendFailures)
	_, err := p.msg.Fprintf(p.writer, "Bytes:              %d allocated, %d freed\n", s.BytesAllocated, s.BytesFreed)
	return err
}

func (p *Printer) printResultText(name string, r trace.Result) error {
	_, err := p.msg.Fprintf(p.writer, "%s: %d ops, peak %d bytes, heap %d bytes, util %.1f%%, failed %d\n",
		name, r.Ops, r.PeakLive, r.HeapSize, r.Utilization*100, r.Failed)
	return err
}
