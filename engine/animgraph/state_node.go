package animgraph

// TransitionState tracks a state's role in an in-flight transition, set by
// the owning TransitionNode via SetTransitioningState/StartTransitionOut/
// StartTransitionIn and cleared again on shutdown.
type TransitionState int

const (
	// TransitionStateNone is the steady state: not part of any in-flight
	// transition.
	TransitionStateNone TransitionState = iota

	// TransitionStateTransitioningIn marks a state that has just become a
	// transition's target and hasn't reached full weight yet.
	TransitionStateTransitioningIn

	// TransitionStateTransitioningOut marks a state being faded away from,
	// either as a transition's direct source or as the state newly exposed
	// once an inner transition it was chained through completes.
	TransitionStateTransitioningOut
)

// StateNode wraps a single PoseNode (the state's pose-producing child graph)
// with the bookkeeping a StateMachineNode needs to evaluate transition
// conditions against it: entry/exit events, time-in-state, and whether it
// is the current state or one being faded out.
type StateNode struct {
	baseNode

	Name       StringID
	Child      PoseNode
	EntryEvent StringID
	ExitEvent  StringID

	// OffState marks a state whose role is to contribute nothing to the
	// output (e.g. an idle placeholder under a layer that fades in and out
	// around it). TransitionNode's layer-context blending treats a
	// transition into or out of an off state specially: see IsOffState.
	OffState bool

	// Conditions are evaluated by the owning StateMachineNode once per
	// update to decide which, if any, transition to take out of this state.
	Conditions []TransitionCondition

	timeInState        float32
	entered            bool
	transitioningState TransitionState
	sampledEventRange  SampledEventRange
}

// TransitionCondition decides whether a named transition out of a state
// should fire this frame. ctx carries the same GraphContext the state's
// pose graph was updated with, so a condition can inspect control
// parameters, sampled events, or elapsed time-in-state.
type TransitionCondition struct {
	TargetState StringID
	Predicate   func(ctx *GraphContext, timeInState float32) bool

	// IsForced marks a condition that, when it fires, should interrupt the
	// current transition immediately rather than waiting for it to
	// complete.
	IsForced bool
}

// NewStateNode constructs a state wrapping child, named name.
func NewStateNode(index NodeIndex, name StringID, child PoseNode) *StateNode {
	if child == nil {
		panic("animgraph: StateNode requires a non-nil child pose node")
	}
	return &StateNode{
		baseNode: baseNode{index: index},
		Name:     name,
		Child:    child,
	}
}

func (n *StateNode) Initialize(ctx *GraphContext) {
	n.markInitialized(ctx)
	n.timeInState = 0
	n.entered = false
	n.transitioningState = TransitionStateNone
	n.sampledEventRange = SampledEventRange{}
	if !n.Child.IsInitialized() {
		n.Child.Initialize(ctx)
	}
}

func (n *StateNode) Shutdown(ctx *GraphContext) {
	if n.Child.IsInitialized() {
		n.Child.Shutdown(ctx)
	}
	n.markShutdown(ctx)
}

func (n *StateNode) Duration() float32 {
	return n.Child.Duration()
}

func (n *StateNode) CurrentTime() float32 {
	return n.Child.CurrentTime()
}

// TimeInState reports the wall-clock seconds elapsed since this state was
// entered, independent of the child pose graph's own normalized time.
func (n *StateNode) TimeInState() float32 {
	return n.timeInState
}

// Update advances the wrapped child and accumulates time-in-state. It also
// samples this state's EntryEvent, if any, into the frame's events buffer
// on the first update after entry. ExitEvent is not sampled here; it is
// sampled once by StartTransitionOut.
func (n *StateNode) Update(ctx *GraphContext) PoseNodeResult {
	n.timeInState += float32(ctx.DeltaTime)
	return n.finishUpdate(ctx, n.Child.Update(ctx))
}

// UpdateSynchronized advances the wrapped child over syncRange rather than
// by ctx.DeltaTime, used when this state is a synchronized transition's
// source or target branch.
func (n *StateNode) UpdateSynchronized(ctx *GraphContext, syncRange SyncTrackTimeRange) PoseNodeResult {
	n.timeInState += float32(ctx.DeltaTime)
	return n.finishUpdate(ctx, n.Child.UpdateSynchronized(ctx, syncRange))
}

func (n *StateNode) finishUpdate(ctx *GraphContext, result PoseNodeResult) PoseNodeResult {
	if !n.entered && n.EntryEvent != "" && ctx.Events != nil {
		entryRange := ctx.Events.Append(SampledEvent{
			TrackID: n.Name,
			EventID: n.EntryEvent,
			Weight:  1.0,
		})
		result.Events = ctx.Events.BlendEventRanges(result.Events, entryRange)
	}
	n.entered = true
	n.sampledEventRange = result.Events

	return result
}

// IsOffState reports whether this state contributes nothing to the output,
// used by TransitionNode's layer-context blending to decide whether to snap
// straight to the opposite branch instead of linearly blending toward or
// away from an empty pose.
func (n *StateNode) IsOffState() bool {
	return n.OffState
}

// TransitioningState reports this state's current role in an in-flight
// transition (none, fading in, or fading out).
func (n *StateNode) TransitioningState() TransitionState {
	return n.transitioningState
}

// SetTransitioningState overrides the state's transitioning role directly,
// used on shutdown (cleared to TransitionStateNone) and when an inner
// transition completes, exposing its target as the new, newly-transitioning
// source of an outer transition (TransitionStateTransitioningOut).
func (n *StateNode) SetTransitioningState(s TransitionState) {
	n.transitioningState = s
}

// StartTransitionOut marks the state as fading out of the graph and samples
// its exit event, if any, into this frame's event range — called once, by
// the transition leaving this state, before the transition's own first
// update. Because the exit event may extend the range, callers must re-read
// GetSampledEventRange afterward rather than reusing a range captured
// earlier in the frame.
func (n *StateNode) StartTransitionOut(ctx *GraphContext) {
	n.transitioningState = TransitionStateTransitioningOut
	if n.ExitEvent != "" && ctx.Events != nil {
		exitRange := ctx.Events.Append(SampledEvent{
			TrackID: n.Name,
			EventID: n.ExitEvent,
			Weight:  1.0,
		})
		n.sampledEventRange = ctx.Events.BlendEventRanges(n.sampledEventRange, exitRange)
	}
}

// StartTransitionIn marks the state as fading into the graph as a
// transition's target — called once, right after Initialize and before the
// transition's first update.
func (n *StateNode) StartTransitionIn(ctx *GraphContext) {
	n.transitioningState = TransitionStateTransitioningIn
}

// GetSampledEventRange returns the event range from this state's most recent
// Update/UpdateSynchronized call, or the range StartTransitionOut just
// extended it with — the value a transition leaving this state should use
// for its own source event range instead of one captured earlier in the
// frame.
func (n *StateNode) GetSampledEventRange() SampledEventRange {
	return n.sampledEventRange
}

// EvaluateConditions runs each of the state's transition conditions in
// order and returns the first one whose predicate fires, or nil if none do.
func (n *StateNode) EvaluateConditions(ctx *GraphContext) *TransitionCondition {
	for i := range n.Conditions {
		if n.Conditions[i].Predicate(ctx, n.timeInState) {
			return &n.Conditions[i]
		}
	}
	return nil
}
