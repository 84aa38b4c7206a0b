//go:build !windows

// Package stderr captures output that C audio libraries (ALSA, PulseAudio)
// write directly to file descriptor 2, bypassing Go's os.Stderr.
// This keeps raw library messages from corrupting the console UI.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"syscall"
)

const lineBuffer = 100

// Capture redirects fd 2 into a pipe and delivers its lines on a channel.
type Capture struct {
	lines chan string
	orig  int
	r, w  *os.File
	done  chan struct{}
}

// Start begins capturing stderr output.
// Must be called before the audio device is initialised. On error the
// program can continue without capture; library output then goes to the
// terminal.
func Start() (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	// Save original stderr file descriptor
	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	// Redirect stderr (fd 2) to the pipe's write end
	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{
		lines: make(chan string, lineBuffer),
		orig:  orig,
		r:     r,
		w:     w,
		done:  make(chan struct{}),
	}
	go c.pump()
	return c, nil
}

// Lines receives captured lines. It is closed by Stop.
func (c *Capture) Lines() <-chan string {
	return c.lines
}

// Stop restores the original stderr.
func (c *Capture) Stop() {
	_ = syscall.Dup2(c.orig, int(os.Stderr.Fd()))
	c.w.Close()
	<-c.done
	c.r.Close()
	_ = syscall.Close(c.orig)
}

func (c *Capture) pump() {
	defer close(c.done)
	defer close(c.lines)

	scanner := bufio.NewScanner(c.r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case c.lines <- line:
		default:
			// Channel full, drop message to avoid blocking
		}
	}
}
