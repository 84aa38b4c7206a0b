package playback

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when a command or event arrives while another one
	// is being processed. The request is dropped, not queued.
	ErrBusy = errors.New("player busy")
	// ErrRejected is returned when a command is not valid in the current state.
	ErrRejected = errors.New("command rejected")
	// ErrInvalidIndex is returned for a track index outside the catalog.
	ErrInvalidIndex = errors.New("invalid track index")
	// ErrEmptyCatalog is returned by track navigation with no tracks.
	ErrEmptyCatalog = fmt.Errorf("%w: catalog is empty", ErrRejected)
	// ErrClosed is returned once the engine has been closed.
	ErrClosed = errors.New("engine closed")
)
