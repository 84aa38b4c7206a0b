//go:build windows

// Package stderr provides a no-op implementation for Windows.
// Windows audio libraries don't produce the same stderr noise as ALSA.
package stderr

// Capture is inert on Windows: Lines never delivers anything.
type Capture struct {
	lines chan string
}

// Start is a no-op on Windows.
func Start() (*Capture, error) {
	return &Capture{lines: make(chan string)}, nil
}

func (c *Capture) Lines() <-chan string {
	return c.lines
}

// Stop closes the line channel.
func (c *Capture) Stop() {
	close(c.lines)
}
