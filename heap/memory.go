package heap

// MemoryOptions configures a slice-backed arena.
type MemoryOptions struct {
	// MaxSize is the hard ceiling in bytes. Default: DefaultMaxSize.
	MaxSize int

	// Budget, when set, is charged for every byte the arena grows by.
	Budget *Budget
}

// Memory is a slice-backed Arena.
type Memory struct {
	data     []byte
	max      int
	budget   *Budget
	released bool
}

// NewMemory creates an empty slice-backed arena.
func NewMemory(opts MemoryOptions) *Memory {
	return &Memory{
		max:    limitOrDefault(opts.MaxSize),
		budget: opts.Budget,
	}
}

// Bytes returns the committed bytes.
func (m *Memory) Bytes() []byte { return m.data }

// Size returns the number of committed bytes.
func (m *Memory) Size() int { return len(m.data) }

// MaxSize returns the arena's ceiling in bytes.
func (m *Memory) MaxSize() int { return m.max }

// Grow commits n more zeroed bytes and returns the offset of the first.
func (m *Memory) Grow(n int) (int, error) {
	if m.released {
		return 0, ErrClosed
	}
	old := len(m.data)
	newSize, err := checkGrow(old, n, m.max)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return old, nil
	}
	if err := m.budget.Acquire(int64(n)); err != nil {
		return 0, err
	}

	if newSize <= cap(m.data) {
		m.data = m.data[:newSize]
		clear(m.data[old:])
		return old, nil
	}

	// Double like append, but never past the ceiling.
	newCap := max(2*cap(m.data), newSize)
	newCap = min(newCap, m.max)
	data := make([]byte, newSize, newCap)
	copy(data, m.data)
	m.data = data
	return old, nil
}

// Release drops the backing memory and returns its bytes to the budget.
// Any subsequent Grow fails with ErrClosed.
func (m *Memory) Release() {
	if m.released {
		return
	}
	m.budget.Release(int64(len(m.data)))
	m.data = nil
	m.released = true
}
