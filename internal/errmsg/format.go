// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Catalog operations
	OpCatalogScan Op = "scan music folder"
	OpCatalogList Op = "list tracks"

	// Playback operations
	OpPlaybackStart  Op = "start playback"
	OpPlaybackPause  Op = "pause playback"
	OpPlaybackNext   Op = "skip to next track"
	OpPlaybackPrev   Op = "go back to previous track"
	OpPlaybackSelect Op = "play track"

	// Sink operations
	OpSinkStart      Op = "start audio sink"
	OpSinkConnect    Op = "connect"
	OpSinkDisconnect Op = "disconnect"
	OpVolumeSet      Op = "set volume"

	// Desktop integration
	OpMPRISStart  Op = "start media key integration"
	OpNotifyStart Op = "start notifications"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "initialize player"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
