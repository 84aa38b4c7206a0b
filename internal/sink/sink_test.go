package sink

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelToVolume(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{-5, -10},
		{0, -10},
		{127, 0},
		{200, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, levelToVolume(tt.level), 1e-9, "level %d", tt.level)
	}

	half := levelToVolume(64)
	assert.InDelta(t, -1, half, 0.02)
}

func TestLevelToGain(t *testing.T) {
	assert.InDelta(t, 0.0, levelToGain(-1), 1e-9)
	assert.InDelta(t, 1.0, levelToGain(127), 1e-9)
	assert.InDelta(t, 1.0, levelToGain(500), 1e-9)
	assert.InDelta(t, 0.5, levelToGain(64), 0.01)
}

func TestPullReader_FillsSilence(t *testing.T) {
	r := pullReader{pull: func([]byte) int { return 0 }}
	p := []byte{1, 2, 3, 4}

	n, err := r.Read(p)

	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{0, 0, 0, 0}, p)
}

func TestPullStreamer_DecodesFrames(t *testing.T) {
	var requested int
	s := newPullStreamer(func(p []byte) int {
		requested = len(p)
		binary.LittleEndian.PutUint16(p[0:], uint16(16384))
		binary.LittleEndian.PutUint16(p[2:], 0xC000) // -16384
		return 4
	})
	samples := make([][2]float64, 3)
	samples[2] = [2]float64{1, 1}

	n, ok := s.Stream(samples)

	assert.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, 12, requested)
	assert.Equal(t, [2]float64{0.5, -0.5}, samples[0])
	assert.Equal(t, [2]float64{0, 0}, samples[1])
	assert.Equal(t, [2]float64{0, 0}, samples[2], "unfilled frames are silent")
	assert.NoError(t, s.Err())
}
