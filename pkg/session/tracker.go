package session

// Tracker records exclusions made during one build cycle.
type Tracker interface {
	// Record appends a logical path that was moved into holding.
	Record(path string) error
	// Drain returns every recorded path in record order and clears the tracker.
	Drain() ([]string, error)
	// IsEmpty reports whether nothing is recorded.
	IsEmpty() (bool, error)
	// Paths returns the recorded paths without clearing them.
	Paths() ([]string, error)
}

// Memory is an in-process Tracker. It is not safe for concurrent use.
type Memory struct {
	paths []string
}

// NewMemory returns an empty in-process tracker.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Record(path string) error {
	m.paths = append(m.paths, path)
	return nil
}

func (m *Memory) Drain() ([]string, error) {
	out := m.paths
	m.paths = nil
	return out, nil
}

func (m *Memory) IsEmpty() (bool, error) {
	return len(m.paths) == 0, nil
}

func (m *Memory) Paths() ([]string, error) {
	return append([]string(nil), m.paths...), nil
}
