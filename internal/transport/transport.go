// Package transport connects the playback engine to an audio sink that
// pulls PCM on its own schedule.
package transport

// ConnectionState is the sink link state reported by a Transport.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
	Disconnecting
)

// String returns the state name.
func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	case Disconnecting:
		return "Disconnecting"
	default:
		return "Unknown"
	}
}

// RemoteKey is a media key received from the sink side.
type RemoteKey int

const (
	KeyPlay RemoteKey = iota
	KeyPause
	KeyStop
	KeyForward
	KeyBackward
	KeyVolumeUp
	KeyVolumeDown
)

// String returns the key name.
func (k RemoteKey) String() string {
	switch k {
	case KeyPlay:
		return "Play"
	case KeyPause:
		return "Pause"
	case KeyStop:
		return "Stop"
	case KeyForward:
		return "Forward"
	case KeyBackward:
		return "Backward"
	case KeyVolumeUp:
		return "VolumeUp"
	case KeyVolumeDown:
		return "VolumeDown"
	default:
		return "Unknown"
	}
}

// IsVolume reports whether k changes the volume.
func (k RemoteKey) IsVolume() bool {
	return k == KeyVolumeUp || k == KeyVolumeDown
}

// Callbacks are invoked from the transport's own goroutines.
type Callbacks struct {
	// Pull fills p with PCM and returns the number of bytes written.
	// It must not block.
	Pull func(p []byte) int
	// ConnectionChanged reports link state transitions.
	ConnectionChanged func(state ConnectionState)
	// Remote reports a media key edge. Keys fire once on press and once on
	// release.
	Remote func(key RemoteKey, released bool)
}

// Transport is a streaming audio sink.
type Transport interface {
	// Register installs the callbacks. It must be called before Start.
	Register(cb Callbacks)
	// Start brings the transport up without connecting.
	Start() error
	// Connect starts a connection towards target.
	Connect(target string) error
	// Disconnect drops the link.
	Disconnect() error
	// SetVolume sets the sink volume on a 0..127 scale.
	SetVolume(level int) error
	Close() error
}
