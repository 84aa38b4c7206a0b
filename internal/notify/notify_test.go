package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpireTimeout(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int32
	}{
		{DefaultTimeout, -1},
		{0, 0},
		{5 * time.Second, 5000},
		{1500 * time.Microsecond, 1},
		{1000 * time.Hour, 1<<31 - 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, expireTimeout(tt.in), "timeout %v", tt.in)
	}
}

func TestUrgency_WireValues(t *testing.T) {
	assert.Equal(t, []byte{0, 1, 2}, []byte{byte(UrgencyLow), byte(UrgencyNormal), byte(UrgencyCritical)})
}
