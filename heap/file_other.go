//go:build !unix

package heap

import "os"

// FileOptions configures a file-backed arena.
type FileOptions struct {
	// MaxSize is the hard ceiling in bytes. Default: DefaultMaxSize.
	MaxSize int

	// Budget, when set, is charged for every byte the arena grows by.
	Budget *Budget
}

// File is an Arena persisted to a file. Without mmap the bytes live in
// memory and are written back on Sync and Close.
type File struct {
	f   *os.File
	mem *Memory
}

// CreateFile creates (or truncates) path and returns an empty arena backed by it.
func CreateFile(path string, opts FileOptions) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, err
	}
	return &File{
		f:   f,
		mem: NewMemory(MemoryOptions{MaxSize: opts.MaxSize, Budget: opts.Budget}),
	}, nil
}

// Bytes returns the committed bytes.
func (a *File) Bytes() []byte { return a.mem.Bytes() }

// Size returns the number of committed bytes.
func (a *File) Size() int { return a.mem.Size() }

// Name returns the path of the backing file.
func (a *File) Name() string {
	if a.f == nil {
		return ""
	}
	return a.f.Name()
}

// Grow commits n more zeroed bytes.
func (a *File) Grow(n int) (int, error) {
	if a.f == nil {
		return 0, ErrClosed
	}
	return a.mem.Grow(n)
}

// Sync writes the arena to the backing file.
func (a *File) Sync() error {
	if a.f == nil {
		return ErrClosed
	}
	if _, err := a.f.WriteAt(a.mem.Bytes(), 0); err != nil {
		return err
	}
	return a.f.Sync()
}

// Close writes the arena back, closes the file and releases the budget.
func (a *File) Close() error {
	if a.f == nil {
		return nil
	}
	err := a.Sync()
	if cerr := a.f.Close(); err == nil {
		err = cerr
	}
	a.f = nil
	a.mem.Release()
	return err
}
