package printer

import (
	"encoding/json"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/trace"
	"github.com/joshuapare/heapkit/heap/verify"
)

// jsonBlock represents a block in JSON format.
type jsonBlock struct {
	Payload   uint32 `json:"payload"`
	Size      uint32 `json:"size"`
	Allocated bool   `json:"allocated"`
	Usable    uint32 `json:"usable"`
}

type jsonBlockMap struct {
	Blocks []jsonBlock `json:"blocks"`
	Hidden int         `json:"hidden,omitempty"`
}

type jsonUsage struct {
	HeapSize        int     `json:"heap_size"`
	AllocatedBlocks int     `json:"allocated_blocks"`
	AllocatedBytes  int64   `json:"allocated_bytes"`
	PayloadBytes    int64   `json:"payload_bytes"`
	FreeBlocks      int     `json:"free_blocks"`
	FreeBytes       int64   `json:"free_bytes"`
	LargestFree     int     `json:"largest_free"`
	Utilization     float64 `json:"utilization"`
	FreeListLens    []int   `json:"free_list_lens"`
}

type jsonResult struct {
	Trace       string  `json:"trace"`
	Ops         int     `json:"ops"`
	PeakLive    int64   `json:"peak_live"`
	HeapSize    int     `json:"heap_size"`
	Utilization float64 `json:"utilization"`
	Failed      int     `json:"failed"`
}

func usageJSON(u alloc.Usage) jsonUsage {
	return jsonUsage{
		HeapSize:        u.HeapSize,
		AllocatedBlocks: u.AllocatedBlocks,
		AllocatedBytes:  u.AllocatedBytes,
		PayloadBytes:    u.PayloadBytes,
		FreeBlocks:      u.FreeBlocks,
		FreeBytes:       u.FreeBytes,
		LargestFree:     u.LargestFree,
		Utilization:     u.Utilization(),
		FreeListLens:    u.FreeListLens,
	}
}

func resultJSON(name string, r trace.Result) jsonResult {
	return jsonResult{
		Trace:       name,
		Ops:         r.Ops,
		PeakLive:    r.PeakLive,
		HeapSize:    r.HeapSize,
		Utilization: r.Utilization,
		Failed:      r.Failed,
	}
}

func (p *Printer) printBlocksJSON(blocks []verify.Block, hidden int) error {
	out := jsonBlockMap{Blocks: make([]jsonBlock, 0, len(blocks)), Hidden: hidden}
	for _, b := range blocks {
		out.Blocks = append(out.Blocks, jsonBlock{
			Payload:   b.Payload,
			Size:      b.Size,
			Allocated: b.Allocated,
			Usable:    b.PayloadSize(),
		})
	}
	return p.printJSON(out)
}

func (p *Printer) printJSON(v any) error {
	enc := json.NewEncoder(p.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
