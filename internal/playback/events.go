package playback

// StateChange is emitted after every accepted transition.
type StateChange struct {
	State State
	// Index is the current catalog index, -1 when no track was opened.
	Index int
	// Name is the current track name, "None" when Index is -1.
	Name string
}

// StateObserver is called synchronously after every accepted transition.
type StateObserver func(state State, index int, name string)

// LogObserver receives the engine's human readable log lines.
type LogObserver func(msg string)
