package playback

// Command is a playback request accepted by Engine.Execute.
type Command int

const (
	CmdPlay Command = iota
	CmdPause
	CmdStop
	CmdNextTrack
	CmdPrevTrack
	// CmdPlayTrack opens the catalog entry given as argument.
	CmdPlayTrack
	CmdVolumeUp
	CmdVolumeDown
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdPlay:
		return "Play"
	case CmdPause:
		return "Pause"
	case CmdStop:
		return "Stop"
	case CmdNextTrack:
		return "NextTrack"
	case CmdPrevTrack:
		return "PrevTrack"
	case CmdPlayTrack:
		return "PlayTrack"
	case CmdVolumeUp:
		return "VolumeUp"
	case CmdVolumeDown:
		return "VolumeDown"
	default:
		return "Unknown"
	}
}
