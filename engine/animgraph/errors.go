package animgraph

import "errors"

// Recoverable errors returned from external-graph connect/disconnect.
var (
	// ErrSlotUnknown is returned when connecting to a slot ID the definition
	// does not declare.
	ErrSlotUnknown = errors.New("animgraph: external graph slot unknown")

	// ErrSlotAlreadyFilled is returned when connecting to a slot that already
	// has a nested instance attached.
	ErrSlotAlreadyFilled = errors.New("animgraph: external graph slot already filled")
)

// Logged (not returned) runtime conditions. Both are authoring mistakes
// that would assert in a development build; in a release build the
// transition degrades gracefully instead of halting the graph.
var (
	// ErrBadForceTransition marks a forced interrupt whose source
	// transition has no cached pose to seize. In development builds
	// (GraphContext.DevTools) this panics; otherwise the interrupt falls
	// back to starting a non-forced transition from the in-flight source.
	ErrBadForceTransition = errors.New("animgraph: forced interrupt requires the interrupted transition to have a cached pose")

	// ErrAsynchronousMismatch marks a synchronized UpdateSynchronized call
	// against a transition whose settings don't declare it synchronized.
	// The transition is terminated immediately (progress forced to 1) and
	// this is logged rather than panicking, since the mismatch doesn't
	// corrupt any state — it just means the caller's decision to
	// synchronize didn't match how the transition was authored.
	ErrAsynchronousMismatch = errors.New("animgraph: synchronized update invoked on an unsynchronized transition")
)

// DefinitionError reports a fatal instantiation-time failure: an arena size
// mismatch, an unresolved child index, or an unknown node kind. This is
// always fatal — NewGraphInstance returns (nil, err) and no instance is
// constructed.
type DefinitionError struct {
	Reason string
}

func (e *DefinitionError) Error() string {
	return "animgraph: invalid graph definition: " + e.Reason
}
