package clipboard

import "sync"

// Memory is an in-process clipboard that records every write.
type Memory struct {
	mu       sync.Mutex
	text     string
	binary   bool
	writes   []string
	reads    int
	WriteErr error
	ReadErr  error
}

func NewMemory(initial string) *Memory {
	return &Memory{text: initial}
}

// SetBinary simulates a copied file or image.
func (m *Memory) SetBinary(on bool) {
	m.mu.Lock()
	m.binary = on
	m.mu.Unlock()
}

func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.ReadErr != nil {
		return "", m.ReadErr
	}
	return m.text, nil
}

func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.text = text
	m.binary = false
	m.writes = append(m.writes, text)
	return nil
}

func (m *Memory) HasBinary() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.binary
}

// Current returns the clipboard text without counting as a read.
func (m *Memory) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

func (m *Memory) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.writes...)
}

// Touched reports whether anything read or wrote the clipboard.
func (m *Memory) Touched() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads > 0 || len(m.writes) > 0
}
