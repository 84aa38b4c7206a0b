package transport

import (
	"context"
	"sync"
	"time"
)

// Null is a paced sink that discards audio. It pulls one frame per frame
// period from its own goroutine, the way a real device would.
type Null struct {
	frameBytes int
	period     time.Duration

	mu     sync.Mutex
	cb     Callbacks
	cancel context.CancelFunc
	done   chan struct{}
	pulled int64
}

// NewNull creates a Null sink pulling frameBytes of 16-bit stereo PCM at
// sampleRate.
func NewNull(sampleRate, frameBytes int) *Null {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	if frameBytes < 4 {
		frameBytes = 2560
	}
	frames := frameBytes / 4
	return &Null{
		frameBytes: frameBytes,
		period:     time.Duration(frames) * time.Second / time.Duration(sampleRate),
	}
}

func (n *Null) Register(cb Callbacks) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cb = cb
}

func (n *Null) Start() error { return nil }

// Connect starts pulling. The target is ignored.
func (n *Null) Connect(string) error {
	n.mu.Lock()
	if n.cancel != nil {
		n.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel
	n.done = make(chan struct{})
	cb := n.cb
	done := n.done
	n.mu.Unlock()

	notify(cb, Connecting)
	notify(cb, Connected)
	go n.loop(ctx, cb.Pull, done)
	return nil
}

// Disconnect stops the pull loop and waits for it to exit.
func (n *Null) Disconnect() error {
	n.mu.Lock()
	cancel, done, cb := n.cancel, n.done, n.cb
	n.cancel = nil
	n.mu.Unlock()
	if cancel == nil {
		return nil
	}

	notify(cb, Disconnecting)
	cancel()
	<-done
	notify(cb, Disconnected)
	return nil
}

func (n *Null) SetVolume(int) error { return nil }

func (n *Null) Close() error {
	return n.Disconnect()
}

// Pulled returns the number of bytes consumed so far.
func (n *Null) Pulled() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pulled
}

func (n *Null) loop(ctx context.Context, pull func([]byte) int, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(n.period)
	defer ticker.Stop()

	buf := make([]byte, n.frameBytes)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if pull == nil {
			continue
		}
		got := pull(buf)
		n.mu.Lock()
		n.pulled += int64(got)
		n.mu.Unlock()
	}
}

func notify(cb Callbacks, s ConnectionState) {
	if cb.ConnectionChanged != nil {
		cb.ConnectionChanged(s)
	}
}

// Verify Null implements Transport at compile time.
var _ Transport = (*Null)(nil)
