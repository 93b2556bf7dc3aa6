package hotreload

// State is the observable phase of a shader reload.
type State int

const (
	// StateIdle means no change is recorded.
	StateIdle State = iota
	// StateDebouncePending means a change is recorded but the quiet period has not passed.
	StateDebouncePending
	// StateReadyToRead means the quiet period passed and the file is being read.
	StateReadyToRead
	// StateParsed means the new text parsed into a module.
	StateParsed
	// StateParseFailed means the new text did not parse. The installed pipeline is kept.
	StateParseFailed
	// StateValidated means the module fits the pipeline layout.
	StateValidated
	// StateValidationFailed means the module does not fit the pipeline layout. The installed pipeline is kept.
	StateValidationFailed
	// StateRebuilt means a new pipeline was compiled and should be swapped in.
	StateRebuilt
	// StateRebuildFailed means the GPU rejected the pipeline. The installed pipeline is kept.
	StateRebuildFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDebouncePending:
		return "debounce_pending"
	case StateReadyToRead:
		return "ready_to_read"
	case StateParsed:
		return "parsed"
	case StateParseFailed:
		return "parse_failed"
	case StateValidated:
		return "validated"
	case StateValidationFailed:
		return "validation_failed"
	case StateRebuilt:
		return "rebuilt"
	case StateRebuildFailed:
		return "rebuild_failed"
	default:
		return "unknown"
	}
}

// Failed reports whether the state ends a reload attempt without a new pipeline.
func (s State) Failed() bool {
	return s == StateParseFailed || s == StateValidationFailed || s == StateRebuildFailed
}
