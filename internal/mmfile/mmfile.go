// Package mmfile maps saved arena images read-only so they can be inspected
// without copying them into the Go heap.
package mmfile

// Mapping is a read-only view of a file. The bytes are valid until Close.
type Mapping struct {
	data   []byte
	mapped bool
	closed bool
}

// Bytes returns the file contents. Writing to them faults on platforms
// where the file is really mapped.
func (m *Mapping) Bytes() []byte { return m.data }

// Len returns the size of the view in bytes.
func (m *Mapping) Len() int { return len(m.data) }

// Mapped reports whether the view is an mmap rather than a heap copy.
func (m *Mapping) Mapped() bool { return m.mapped }

// Close releases the view. Closing twice is a no-op.
func (m *Mapping) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	data := m.data
	m.data = nil
	if !m.mapped || len(data) == 0 {
		return nil
	}
	return unmap(data)
}
