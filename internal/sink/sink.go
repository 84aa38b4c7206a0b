// Package sink provides Transport implementations backed by the local audio
// device.
package sink

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/wavesink/internal/transport"
	"github.com/llehouerou/wavesink/internal/volume"
)

// Options configures a device sink.
type Options struct {
	SampleRate int
	// Latency is the device buffer duration.
	Latency time.Duration
	Logger  zerolog.Logger
}

// pullReader adapts the bridge pull callback to io.Reader.
type pullReader struct {
	pull func(p []byte) int
}

func (r pullReader) Read(p []byte) (int, error) {
	n := r.pull(p)
	if n == 0 && len(p) > 0 {
		clear(p)
		return len(p), nil
	}
	return n, nil
}

// levelToVolume converts a 0..127 sink level to beep's Volume value.
// beep uses a logarithmic scale with base 2: 0 means no change, -1 is half
// volume, -2 a quarter. Level 0 maps to -10, effectively silent.
func levelToVolume(level int) float64 {
	if level <= 0 {
		return -10
	}
	if level >= volume.MaxLevel {
		return 0
	}
	return math.Log2(float64(level) / volume.MaxLevel)
}

// levelToGain maps a 0..127 sink level to a linear 0..1 gain.
func levelToGain(level int) float64 {
	return float64(min(max(level, 0), volume.MaxLevel)) / volume.MaxLevel
}

func notify(cb transport.Callbacks, s transport.ConnectionState) {
	if cb.ConnectionChanged != nil {
		cb.ConnectionChanged(s)
	}
}
