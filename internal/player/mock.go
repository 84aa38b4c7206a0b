// internal/player/mock.go
package player

import "sync"

// Mock is an in-memory track source for tests. Each registered path maps to
// a fixed PCM payload.
type Mock struct {
	mu        sync.Mutex
	tracks    map[string][]byte
	openErr   map[string]error
	current   string
	data      []byte
	open      bool
	drained   bool
	openCalls []string
	closes    int
}

// NewMock creates a closed mock source.
func NewMock() *Mock {
	return &Mock{
		tracks:  make(map[string][]byte),
		openErr: make(map[string]error),
	}
}

// AddTrack registers the PCM bytes served for path.
func (m *Mock) AddTrack(path string, pcm []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracks[path] = pcm
}

// FailOpen makes every Open of path fail with err.
func (m *Mock) FailOpen(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr[path] = err
}

func (m *Mock) Open(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.openCalls = append(m.openCalls, path)
	m.closeLocked()

	if err := m.openErr[path]; err != nil {
		return &OpenError{Path: path, Err: err}
	}
	pcm, ok := m.tracks[path]
	if !ok {
		return &OpenError{Path: path, Err: ErrUnsupportedFormat}
	}
	m.current = path
	m.data = pcm
	m.open = true
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
	return nil
}

func (m *Mock) closeLocked() {
	if m.open {
		m.closes++
	}
	m.current = ""
	m.data = nil
	m.open = false
	m.drained = false
}

// Read follows the Source contract: silence when locked, zero-padded final
// frame, then 0.
func (m *Mock) Read(p []byte) int {
	if len(p) == 0 {
		return 0
	}
	if !m.mu.TryLock() {
		clear(p)
		return len(p)
	}
	defer m.mu.Unlock()

	if !m.open || m.drained {
		return 0
	}
	n := copy(p, m.data)
	m.data = m.data[n:]
	if n == 0 {
		m.drained = true
		return 0
	}
	if n < len(p) {
		clear(p[n:])
		m.drained = true
	}
	return len(p)
}

// Test helpers

// IsOpen reports whether a track is open.
func (m *Mock) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Current returns the open path.
func (m *Mock) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Mock) OpenCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.openCalls...)
}

func (m *Mock) Closes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
