// internal/playback/engine.go
package playback

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/llehouerou/wavesink/internal/player"
)

const noTrack = -1

// NoneName is reported as the track name when no track has been opened.
const NoneName = "None"

// Catalog is the ordered track list the engine navigates.
type Catalog interface {
	Count() int
	IsValidIndex(i int) bool
	Path(i int) string
	Name(i int) string
}

// Engine is the playback state machine.
//
// Commands and events may arrive concurrently from the console and from the
// transport. Each one acquires the busy flag for its whole duration; a
// request arriving while busy is dropped with ErrBusy. State, index and busy
// are atomics so the real-time pull path can read them without blocking.
type Engine struct {
	source  player.Interface
	catalog Catalog

	state atomic.Int32
	index atomic.Int32
	busy  atomic.Bool

	obsMu          sync.Mutex
	stateObservers []StateObserver
	logObservers   []LogObserver

	subsMu sync.Mutex
	subs   []*Subscription
	closed bool
}

// New creates a stopped engine with no current track.
func New(source player.Interface, catalog Catalog) *Engine {
	e := &Engine{
		source:  source,
		catalog: catalog,
	}
	e.state.Store(int32(StateStopped))
	e.index.Store(noTrack)
	return e
}

// OnStateChange registers an observer. Observers run in registration order.
func (e *Engine) OnStateChange(fn StateObserver) {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()
	e.stateObservers = append(e.stateObservers, fn)
}

// OnLog registers a log observer.
func (e *Engine) OnLog(fn LogObserver) {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()
	e.logObservers = append(e.logObservers, fn)
}

// Subscribe creates a new event subscription.
func (e *Engine) Subscribe() *Subscription {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	sub := newSubscription()
	if e.closed {
		sub.close()
		return sub
	}
	e.subs = append(e.subs, sub)
	return sub
}

// State returns the current playback state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Index returns the current catalog index, -1 if none.
func (e *Engine) Index() int {
	return int(e.index.Load())
}

// Busy reports whether a command or event is being processed.
func (e *Engine) Busy() bool {
	return e.busy.Load()
}

// TrackCount returns the number of catalog entries.
func (e *Engine) TrackCount() int {
	return e.catalog.Count()
}

// CurrentTrackName returns the current track name, or "None".
func (e *Engine) CurrentTrackName() string {
	return e.trackName(e.Index())
}

// Execute runs a command. A nil error means the command was accepted.
// arg is only used by CmdPlayTrack.
func (e *Engine) Execute(cmd Command, arg int) error {
	if e.isClosed() {
		return ErrClosed
	}
	if !e.acquire() {
		return ErrBusy
	}
	defer e.release()

	switch cmd {
	case CmdPlay:
		return e.play()
	case CmdPause:
		if e.State() != StatePlaying {
			return ErrRejected
		}
		e.setState(StatePaused)
		e.log("Paused")
		e.notify()
		return nil
	case CmdStop:
		e.setState(StateStopped)
		e.log("Stopped")
		e.notify()
		return nil
	case CmdNextTrack:
		return e.step(1)
	case CmdPrevTrack:
		return e.step(-1)
	case CmdPlayTrack:
		return e.openTrack(arg)
	case CmdVolumeUp, CmdVolumeDown:
		// Volume lives outside the engine
		return nil
	default:
		return ErrRejected
	}
}

// TrackFinished advances to the next track. It is dropped while busy, and
// with an empty catalog it changes nothing and returns ErrEmptyCatalog.
//
// Unlike a plain NextTrack, tracks that fail to open are skipped: every
// catalog entry is tried once in order. When none opens playback stops, so
// the sink does not retry the same broken file forever.
func (e *Engine) TrackFinished() error {
	if !e.acquire() {
		return ErrBusy
	}
	defer e.release()

	count := e.catalog.Count()
	if count == 0 {
		return ErrEmptyCatalog
	}
	e.log("Track finished")

	var err error
	for delta := 1; delta <= count; delta++ {
		if err = e.openTrack(e.wrap(delta)); err == nil {
			return nil
		}
	}
	e.setState(StateStopped)
	e.log("Stopped")
	e.notify()
	return err
}

// ConnectionEstablished resumes playback once the sink link is up. With no
// current track the first catalog entry is opened.
func (e *Engine) ConnectionEstablished() error {
	if !e.acquire() {
		return ErrBusy
	}
	defer e.release()

	e.log("Connected")
	switch {
	case e.Index() == noTrack && e.catalog.Count() > 0:
		return e.openTrack(0)
	case e.Index() >= 0:
		e.setState(StatePlaying)
		e.notify()
	}
	return nil
}

// ConnectionLost stops playback. The current track stays open.
func (e *Engine) ConnectionLost() error {
	if !e.acquire() {
		return ErrBusy
	}
	defer e.release()

	e.log("Disconnected")
	e.setState(StateStopped)
	e.notify()
	return nil
}

// Close releases the track source and ends all subscriptions.
func (e *Engine) Close() error {
	e.subsMu.Lock()
	if e.closed {
		e.subsMu.Unlock()
		return nil
	}
	e.closed = true
	for _, sub := range e.subs {
		sub.close()
	}
	e.subs = nil
	e.subsMu.Unlock()

	return e.source.Close()
}

func (e *Engine) isClosed() bool {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	return e.closed
}

func (e *Engine) acquire() bool {
	return e.busy.CompareAndSwap(false, true)
}

func (e *Engine) release() {
	e.busy.Store(false)
}

func (e *Engine) play() error {
	if e.State() == StatePaused {
		e.setState(StatePlaying)
		e.log("Resumed")
		e.notify()
		return nil
	}
	if e.Index() < 0 {
		return ErrRejected
	}
	e.setState(StatePlaying)
	e.log("Playing")
	e.notify()
	return nil
}

// step opens the track delta positions away, wrapping around the catalog.
func (e *Engine) step(delta int) error {
	if e.catalog.Count() == 0 {
		return ErrEmptyCatalog
	}
	return e.openTrack(e.wrap(delta))
}

// wrap returns the index delta positions away from the current one, modulo
// the catalog size. Callers ensure the catalog is not empty.
func (e *Engine) wrap(delta int) int {
	count := e.catalog.Count()
	return ((e.Index()+delta)%count + count) % count
}

// openTrack must be called with busy held.
func (e *Engine) openTrack(i int) error {
	if i < 0 || !e.catalog.IsValidIndex(i) {
		return ErrInvalidIndex
	}

	path := e.catalog.Path(i)
	if err := e.source.Open(path); err != nil {
		e.log("Failed to open: " + path)
		var openErr *player.OpenError
		if errors.As(err, &openErr) {
			return openErr
		}
		return &player.OpenError{Path: path, Err: err}
	}

	e.index.Store(int32(i)) //nolint:gosec // catalog indices fit in int32
	e.setState(StatePlaying)
	e.log("Playing: " + e.catalog.Name(i))
	e.notify()
	return nil
}

func (e *Engine) setState(s State) {
	e.state.Store(int32(s))
}

func (e *Engine) trackName(i int) string {
	if i < 0 {
		return NoneName
	}
	return e.catalog.Name(i)
}

func (e *Engine) notify() {
	state, index := e.State(), e.Index()
	name := e.trackName(index)

	e.obsMu.Lock()
	observers := append([]StateObserver(nil), e.stateObservers...)
	e.obsMu.Unlock()
	for _, fn := range observers {
		fn(state, index, name)
	}

	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	for _, sub := range e.subs {
		sub.sendState(StateChange{State: state, Index: index, Name: name})
	}
}

func (e *Engine) log(msg string) {
	e.obsMu.Lock()
	observers := append([]LogObserver(nil), e.logObservers...)
	e.obsMu.Unlock()
	for _, fn := range observers {
		fn(msg)
	}

	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	for _, sub := range e.subs {
		sub.sendLog(msg)
	}
}
