// internal/player/interface.go
package player

// Interface defines the track source contract for dependency injection and testing.
type Interface interface {
	Open(path string) error
	Close() error
	Read(p []byte) int
}

// Verify Source implements Interface at compile time.
var _ Interface = (*Source)(nil)
