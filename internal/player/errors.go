package player

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned when no codec handles a path's extension.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrNotRegular is returned when a path resolves to a directory or device.
	ErrNotRegular = errors.New("not a regular file")
)

// OpenError records a track that could not be opened or whose decoder
// failed to start.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}
