package viewmodel

// State is the lifecycle state of a FeatureViewModel.
type State int

const (
	// StateUninitialized means no fetch has completed yet.
	StateUninitialized State = iota
	// StatePopulated means the last applied fetch succeeded.
	StatePopulated
	// StateFailed means the last applied fetch failed.
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePopulated:
		return "populated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable copy of view-model state.
// Version increases by one on every applied change.
type Snapshot struct {
	State      State
	Projection *Projection
	Err        error
	Version    uint64
}
