package sink

import (
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavesink/internal/transport"
)

type fakeDevicePlayer struct {
	mu      sync.Mutex
	volume  float64
	playing bool
	closed  bool
}

func (p *fakeDevicePlayer) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = v
}

func (p *fakeDevicePlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = true
}

func (p *fakeDevicePlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

func (p *fakeDevicePlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// newTestOto returns a started Oto backed by fake players, with the players it
// creates and the connection states it reports.
func newTestOto(t *testing.T) (*Oto, *[]*fakeDevicePlayer, *[]transport.ConnectionState) {
	t.Helper()
	var (
		mu      sync.Mutex
		players []*fakeDevicePlayer
		states  []transport.ConnectionState
	)
	o := NewOto(Options{Logger: zerolog.Nop()})
	o.newPlayer = func(io.Reader) devicePlayer {
		mu.Lock()
		defer mu.Unlock()
		p := &fakeDevicePlayer{}
		players = append(players, p)
		return p
	}
	o.Register(transport.Callbacks{
		Pull: func([]byte) int { return 0 },
		ConnectionChanged: func(s transport.ConnectionState) {
			mu.Lock()
			defer mu.Unlock()
			states = append(states, s)
		},
	})
	return o, &players, &states
}

func TestOto_ConnectBeforeStart(t *testing.T) {
	o := NewOto(Options{Logger: zerolog.Nop()})
	require.ErrorIs(t, o.Connect("default"), ErrNotStarted)
}

func TestOto_ConcurrentConnectCreatesOnePlayer(t *testing.T) {
	o, players, states := newTestOto(t)
	require.NoError(t, o.SetVolume(64))

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			assert.NoError(t, o.Connect("default"))
		})
	}
	wg.Wait()

	require.Len(t, *players, 1)
	p := (*players)[0]
	assert.True(t, p.playing)
	assert.InDelta(t, levelToGain(64), p.volume, 1e-9)
	assert.Equal(t, []transport.ConnectionState{transport.Connecting, transport.Connected}, *states)
}

func TestOto_DisconnectClosesPlayer(t *testing.T) {
	o, players, states := newTestOto(t)
	require.NoError(t, o.Connect("default"))

	require.NoError(t, o.Disconnect())
	require.NoError(t, o.Disconnect())

	require.Len(t, *players, 1)
	assert.True(t, (*players)[0].closed)
	assert.False(t, (*players)[0].playing)
	assert.Equal(t, []transport.ConnectionState{
		transport.Connecting, transport.Connected,
		transport.Disconnecting, transport.Disconnected,
	}, *states)

	require.NoError(t, o.Connect("default"))
	assert.Len(t, *players, 2)
}
