//go:build unix

package heap

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// FileOptions configures a file-backed arena.
type FileOptions struct {
	// MaxSize is the hard ceiling in bytes. Default: DefaultMaxSize.
	MaxSize int

	// Budget, when set, is charged for every byte the arena grows by.
	Budget *Budget
}

// File is an Arena mapped RW/shared from a file. Growing extends the file
// and remaps it, so Bytes must be re-fetched after every Grow.
type File struct {
	f      *os.File
	data   []byte
	size   int
	max    int
	budget *Budget

	mmap func(fd int, offset int64, length int, prot int, flags int) ([]byte, error)
}

// CreateFile creates (or truncates) path and returns an empty arena backed by it.
func CreateFile(path string, opts FileOptions) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, err
	}
	return &File{
		f:      f,
		max:    limitOrDefault(opts.MaxSize),
		budget: opts.Budget,
		mmap:   unix.Mmap,
	}, nil
}

// Bytes returns the mapped bytes.
func (a *File) Bytes() []byte { return a.data }

// Size returns the number of committed bytes.
func (a *File) Size() int { return a.size }

// Name returns the path of the backing file.
func (a *File) Name() string {
	if a.f == nil {
		return ""
	}
	return a.f.Name()
}

// Grow extends the backing file by n zeroed bytes and remaps it.
func (a *File) Grow(n int) (int, error) {
	if a.f == nil {
		return 0, ErrClosed
	}
	old := a.size
	newSize, err := checkGrow(old, n, a.max)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return old, nil
	}
	if err := a.budget.Acquire(int64(n)); err != nil {
		return 0, err
	}

	if a.data != nil {
		if err := unix.Munmap(a.data); err != nil {
			a.budget.Release(int64(n))
			return 0, fmt.Errorf("heap: unmap before grow: %w", err)
		}
		a.data = nil
	}

	// Truncate extends the file with zeros.
	if err := a.f.Truncate(int64(newSize)); err != nil {
		a.budget.Release(int64(n))
		return 0, errors.Join(fmt.Errorf("heap: extend file: %w", err), a.remapOld())
	}

	data, err := a.mmap(int(a.f.Fd()), 0, newSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = a.f.Truncate(int64(old))
		a.budget.Release(int64(n))
		return 0, errors.Join(fmt.Errorf("heap: remap after grow: %w", err), a.remapOld())
	}
	a.data = data
	a.size = newSize
	return old, nil
}

// remapOld restores the mapping of the current size after a failed grow.
// If that fails too the arena is closed, so later calls report ErrClosed
// instead of indexing an unmapped buffer.
func (a *File) remapOld() error {
	if a.size == 0 {
		return nil
	}
	data, err := a.mmap(int(a.f.Fd()), 0, a.size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = a.Close()
		return fmt.Errorf("heap: restore mapping: %w (%w)", err, ErrClosed)
	}
	a.data = data
	return nil
}

// Sync flushes the mapping to the backing file.
func (a *File) Sync() error {
	if a.f == nil {
		return ErrClosed
	}
	if a.data == nil {
		return nil
	}
	return unix.Msync(a.data, unix.MS_SYNC)
}

// Close unmaps the arena, closes the file and releases the budget.
func (a *File) Close() error {
	if a.f == nil {
		return nil
	}
	var err error
	if a.data != nil {
		err = unix.Munmap(a.data)
		a.data = nil
	}
	if cerr := a.f.Close(); err == nil {
		err = cerr
	}
	a.f = nil
	a.budget.Release(int64(a.size))
	a.size = 0
	return err
}
