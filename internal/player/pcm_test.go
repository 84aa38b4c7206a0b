package player

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constStreamer yields a fixed number of identical frames.
type constStreamer struct {
	frames int
	value  float64
}

func (c *constStreamer) Stream(samples [][2]float64) (int, bool) {
	n := min(len(samples), c.frames)
	if n == 0 {
		return 0, false
	}
	for i := range n {
		samples[i] = [2]float64{c.value, c.value}
	}
	c.frames -= n
	return n, true
}

func (c *constStreamer) Err() error { return nil }

func TestToInt16(t *testing.T) {
	tests := []struct {
		in   float64
		want int16
	}{
		{0, 0},
		{1.0 / 32768, 1},
		{-1, -32768},
		{32767.0 / 32768, 32767},
		{1, 32767},
		{2, 32767},
		{-3, -32768},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, toInt16(tt.in), "toInt16(%v)", tt.in)
	}
}

func TestPCMEncoder_IdleReturnsEOF(t *testing.T) {
	e := newPCMEncoder(16)
	e.reset(nil)

	n, err := e.Read(make([]byte, 8))
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestPCMEncoder_KeepsPartialFrames(t *testing.T) {
	e := newPCMEncoder(4)
	e.reset(&constStreamer{frames: 3, value: 0.5})

	out, err := io.ReadAll(struct{ io.Reader }{e})
	require.NoError(t, err)

	// 0.5 encodes as 0x4000
	want := []byte{0x00, 0x40, 0x00, 0x40}
	require.Len(t, out, 3*BytesPerFrame)
	for i := range 3 {
		assert.Equal(t, want, out[i*BytesPerFrame:(i+1)*BytesPerFrame])
	}
}

func TestDecodeFrame_InvertsEncodeFrame(t *testing.T) {
	tests := [][2]float64{
		{0, 0},
		{0.5, -0.5},
		{-1, 32767.0 / 32768},
	}
	b := make([]byte, BytesPerFrame)
	for _, frame := range tests {
		encodeFrame(b, frame)
		assert.Equal(t, frame, DecodeFrame(b))
	}
}
