package printer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/trace"
	"github.com/joshuapare/heapkit/heap/verify"
)

func testBlocks() []verify.Block {
	return []verify.Block{
		{Payload: 0x10, Size: 112, Allocated: true},
		{Payload: 0x80, Size: 32, Allocated: false},
		{Payload: 0xA0, Size: 3952, Allocated: true},
	}
}

func TestPrinter_PrintBlocks_Text(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, DefaultOptions())

	require.NoError(t, p.PrintBlocks(testBlocks()))

	output := buf.String()
	require.Contains(t, output, "PAYLOAD")
	require.Contains(t, output, "0x00000010")
	require.Contains(t, output, "3,952", "sizes should use digit grouping")
	require.Contains(t, output, "free")
}

func TestDefaultOptions_ListsEveryBlock(t *testing.T) {
	opts := DefaultOptions()
	require.Equal(t, DefaultMaxBlocks, opts.MaxBlocks)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, opts).PrintBlocks(testBlocks()))
	require.NotContains(t, buf.String(), "more blocks")
}

func TestPrinter_PrintBlocks_Filter(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.ShowAllocated = false
	p := New(&buf, opts)

	require.NoError(t, p.PrintBlocks(testBlocks()))

	output := buf.String()
	require.Contains(t, output, "0x00000080")
	require.NotContains(t, output, "0x00000010")
	require.NotContains(t, output, "alloc")
}

func TestPrinter_PrintBlocks_MaxBlocks(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.MaxBlocks = 1
	p := New(&buf, opts)

	require.NoError(t, p.PrintBlocks(testBlocks()))
	require.Contains(t, buf.String(), "... 2 more blocks")
}

func TestPrinter_PrintBlocks_JSON(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON
	opts.MaxBlocks = 2
	p := New(&buf, opts)

	require.NoError(t, p.PrintBlocks(testBlocks()))

	var out jsonBlockMap
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Blocks, 2)
	require.Equal(t, 1, out.Hidden)
	require.Equal(t, uint32(0x80), out.Blocks[1].Payload)
	require.Equal(t, uint32(24), out.Blocks[1].Usable)
	require.False(t, out.Blocks[1].Allocated)
}

func TestPrinter_PrintUsage(t *testing.T) {
	u := alloc.Usage{
		HeapSize:        4112,
		AllocatedBlocks: 1,
		AllocatedBytes:  32,
		PayloadBytes:    24,
		FreeBlocks:      2,
		FreeBytes:       4064,
		LargestFree:     3952,
		FreeListLens:    []int{0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
	}

	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).PrintUsage(u))
	output := buf.String()
	require.Contains(t, output, "4,112 bytes")
	require.Contains(t, output, "class  6: 1 free")
	require.Contains(t, output, "class 11: 1 free")
	require.NotContains(t, output, "class  0")

	buf.Reset()
	opts := DefaultOptions()
	opts.Format = FormatJSON
	require.NoError(t, New(&buf, opts).PrintUsage(u))

	var out jsonUsage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, 4112, out.HeapSize)
	require.InDelta(t, 24.0/4112.0, out.Utilization, 1e-9)
}

func TestPrinter_PrintStats(t *testing.T) {
	s := alloc.Stats{AllocCalls: 12345, AllocFastPath: 12000, AllocSlowPath: 345, Splits: 7}

	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).PrintStats(s))
	require.Contains(t, buf.String(), "12,345 (fast: 12,000, slow: 345")

	buf.Reset()
	opts := DefaultOptions()
	opts.Format = FormatJSON
	require.NoError(t, New(&buf, opts).PrintStats(s))

	var out alloc.Stats
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, s, out)
}

func TestPrinter_PrintResult(t *testing.T) {
	r := trace.Result{Ops: 6, PeakLive: 768, HeapSize: 4112, Utilization: 768.0 / 4112.0}

	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).PrintResult("basic.rep", r))
	require.Equal(t, "basic.rep: 6 ops, peak 768 bytes, heap 4,112 bytes, util 18.7%, failed 0\n", buf.String())

	buf.Reset()
	opts := DefaultOptions()
	opts.Format = FormatJSON
	require.NoError(t, New(&buf, opts).PrintResult("basic.rep", r))

	var out jsonResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, "basic.rep", out.Trace)
	require.Equal(t, int64(768), out.PeakLive)
}
