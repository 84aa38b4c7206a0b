package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber living in its own
// goroutine.
type Subscription struct {
	StateChanged <-chan StateChange
	Logged       <-chan string
	Done         <-chan struct{}

	// Internal write channels
	stateCh chan StateChange
	logCh   chan string
	doneCh  chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		stateCh: make(chan StateChange, eventBufferSize),
		logCh:   make(chan string, eventBufferSize),
		doneCh:  make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.Logged = s.logCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendState sends a state change event (non-blocking).
func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
		// Drop if buffer full
	}
}

// sendLog sends a log line (non-blocking).
func (s *Subscription) sendLog(msg string) {
	select {
	case s.logCh <- msg:
	default:
	}
}
