// Package trace parses allocation traces and replays them against an
// allocator while checking its output.
//
// # Trace Format
//
// Traces use the classic malloc-lab text layout. Four header numbers come
// first, one per line, followed by one operation per line:
//
//	20000      suggested heap size (informational)
//	2          number of distinct ids
//	4          number of operations
//	1          weight (informational)
//	a 0 512    allocate 512 bytes as id 0
//	a 1 128
//	r 0 640    resize id 0 to 640 bytes
//	f 1        free id 1
//
// Blank lines and lines starting with '#' are ignored anywhere.
//
// # Replay
//
// Replay drives an allocator through a trace. After every allocation it
// checks that the returned payload is 8-aligned, lies inside the arena and
// does not overlap any other live payload. Payloads are filled with an
// id-derived byte pattern that is verified again before each free and, for
// the preserved prefix, after each resize.
//
//	tr, err := trace.ParseFile("short1.rep")
//	res, err := trace.Replay(a, tr, trace.ReplayOptions{CheckEvery: 100})
//	fmt.Printf("util %.1f%%\n", res.Utilization*100)
package trace
