package transport

import "sync"

// Loopback is a manually driven transport. Tests and headless tools call
// Pull, SimulateState and SimulateRemote in place of a real sink.
type Loopback struct {
	mu        sync.Mutex
	cb        Callbacks
	started   bool
	connected bool
	target    string
	volume    int
	closed    bool
}

// NewLoopback creates a stopped loopback transport.
func NewLoopback() *Loopback {
	return &Loopback{volume: -1}
}

func (l *Loopback) Register(cb Callbacks) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cb = cb
}

func (l *Loopback) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started = true
	return nil
}

// Connect reports Connecting then Connected.
func (l *Loopback) Connect(target string) error {
	l.mu.Lock()
	l.target = target
	l.connected = true
	l.mu.Unlock()

	l.SimulateState(Connecting)
	l.SimulateState(Connected)
	return nil
}

// Disconnect reports Disconnecting then Disconnected.
func (l *Loopback) Disconnect() error {
	l.mu.Lock()
	was := l.connected
	l.connected = false
	l.mu.Unlock()

	if was {
		l.SimulateState(Disconnecting)
		l.SimulateState(Disconnected)
	}
	return nil
}

func (l *Loopback) SetVolume(level int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.volume = level
	return nil
}

func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// Pull asks the registered callback for n bytes.
func (l *Loopback) Pull(n int) ([]byte, int) {
	l.mu.Lock()
	pull := l.cb.Pull
	l.mu.Unlock()

	p := make([]byte, n)
	if pull == nil {
		return p, 0
	}
	return p, pull(p)
}

// SimulateState reports a connection state change.
func (l *Loopback) SimulateState(s ConnectionState) {
	l.mu.Lock()
	fn := l.cb.ConnectionChanged
	l.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

// SimulateRemote reports a media key edge.
func (l *Loopback) SimulateRemote(key RemoteKey, released bool) {
	l.mu.Lock()
	fn := l.cb.Remote
	l.mu.Unlock()
	if fn != nil {
		fn(key, released)
	}
}

// Volume returns the last level set, -1 if none.
func (l *Loopback) Volume() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.volume
}

// Target returns the last connect target.
func (l *Loopback) Target() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.target
}

// Started reports whether Start was called.
func (l *Loopback) Started() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started
}

// Verify Loopback implements Transport at compile time.
var _ Transport = (*Loopback)(nil)
