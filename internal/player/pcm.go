package player

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/gopxl/beep/v2"
)

// BytesPerFrame is the size of one 16-bit little-endian stereo frame, the
// only PCM layout Source produces.
const BytesPerFrame = 4

// pcmEncoder turns a beep.Streamer into a 16-bit little-endian stereo byte stream.
// It is allocated once per Source and reset for every track.
type pcmEncoder struct {
	src     beep.Streamer
	samples [][2]float64
	scratch []byte
	pending []byte
	err     error
}

func newPCMEncoder(frames int) *pcmEncoder {
	return &pcmEncoder{
		samples: make([][2]float64, frames),
		scratch: make([]byte, frames*BytesPerFrame),
	}
}

// reset binds the encoder to a new streamer. A nil streamer leaves it idle.
func (e *pcmEncoder) reset(src beep.Streamer) {
	e.src = src
	e.pending = nil
	e.err = nil
}

func (e *pcmEncoder) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(e.pending) == 0 {
		if err := e.decode(len(p)); err != nil {
			return 0, err
		}
	}
	n := copy(p, e.pending)
	e.pending = e.pending[n:]
	return n, nil
}

// decode pulls enough frames from the streamer to cover want bytes.
func (e *pcmEncoder) decode(want int) error {
	if e.src == nil {
		return io.EOF
	}
	if e.err != nil {
		return e.err
	}

	frames := min(max(want/BytesPerFrame, 1), len(e.samples))
	n, ok := e.src.Stream(e.samples[:frames])
	if !ok {
		e.err = e.src.Err()
		if e.err == nil {
			e.err = io.EOF
		}
	}

	out := e.scratch[:n*BytesPerFrame]
	for i := range n {
		encodeFrame(out[i*BytesPerFrame:], e.samples[i])
	}
	e.pending = out

	if n == 0 && e.err != nil {
		return e.err
	}
	return nil
}

// DecodeFrame reads one frame back into beep's [-1, 1] sample range.
func DecodeFrame(b []byte) [2]float64 {
	left := int16(binary.LittleEndian.Uint16(b))      //nolint:gosec // audio samples
	right := int16(binary.LittleEndian.Uint16(b[2:])) //nolint:gosec // audio samples
	return [2]float64{float64(left) / 32768, float64(right) / 32768}
}

func encodeFrame(b []byte, frame [2]float64) {
	binary.LittleEndian.PutUint16(b, uint16(toInt16(frame[0])))     //nolint:gosec // audio samples
	binary.LittleEndian.PutUint16(b[2:], uint16(toInt16(frame[1]))) //nolint:gosec // audio samples
}

func toInt16(v float64) int16 {
	s := math.Round(v * 32768)
	switch {
	case s > math.MaxInt16:
		return math.MaxInt16
	case s < math.MinInt16:
		return math.MinInt16
	}
	return int16(s)
}
