//go:build !linux

package notify

// New always fails: only the freedesktop D-Bus service is supported.
func New(string) (Notifier, error) {
	return nil, ErrUnavailable
}
