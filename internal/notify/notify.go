// Package notify sends freedesktop desktop notifications when the playing
// track changes.
package notify

import (
	"errors"
	"math"
	"time"
)

// ErrUnavailable is returned by New when no notification service is reachable.
var ErrUnavailable = errors.New("desktop notifications unavailable")

// Urgency is the freedesktop urgency hint.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// DefaultTimeout lets the notification server choose when to expire.
const DefaultTimeout time.Duration = -1

// Notification is one desktop notification.
type Notification struct {
	Summary string
	Body    string
	// Icon is an icon name or an absolute image path.
	Icon string
	// Timeout zero never expires.
	Timeout time.Duration
	// Replaces updates an earlier notification in place; 0 creates a new one.
	Replaces uint32
	Urgency  Urgency
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns its id.
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}

// expireTimeout converts d to the millisecond value of the Notify call.
func expireTimeout(d time.Duration) int32 {
	if d < 0 {
		return -1
	}
	return int32(min(d.Milliseconds(), math.MaxInt32)) //nolint:gosec // clamped above
}
