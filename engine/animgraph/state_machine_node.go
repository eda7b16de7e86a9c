package animgraph

// StateMachineNode evaluates a set of named states and transitions between
// them, driving at most one in-flight TransitionNode at a time. It owns the
// transition's lifecycle: starting it from a state, or from another
// transition (forced), and retiring it once complete.
type StateMachineNode struct {
	baseNode

	States      []*StateNode
	Transitions map[StringID]map[StringID]*TransitionNode // from-state -> to-state -> transition

	activeState      *StateNode
	activeTransition *TransitionNode

	duration    float32
	currentTime float32
}

// NewStateMachineNode constructs a state machine starting in initialState,
// which must appear in states.
func NewStateMachineNode(index NodeIndex, states []*StateNode, transitions map[StringID]map[StringID]*TransitionNode, initialState StringID) *StateMachineNode {
	n := &StateMachineNode{
		baseNode:    baseNode{index: index},
		States:      states,
		Transitions: transitions,
	}
	for _, s := range states {
		if s.Name == initialState {
			n.activeState = s
		}
	}
	if n.activeState == nil {
		panic("animgraph: state machine initial state not found among its states")
	}
	return n
}

func (n *StateMachineNode) Duration() float32    { return n.duration }
func (n *StateMachineNode) CurrentTime() float32 { return n.currentTime }

func (n *StateMachineNode) Initialize(ctx *GraphContext) {
	n.markInitialized(ctx)
	n.activeTransition = nil
	if !n.activeState.IsInitialized() {
		n.activeState.Initialize(ctx)
	}
}

func (n *StateMachineNode) Shutdown(ctx *GraphContext) {
	if n.activeTransition != nil {
		n.activeTransition.Shutdown(ctx)
		n.activeTransition = nil
	}
	if n.activeState != nil && n.activeState.IsInitialized() {
		n.activeState.Shutdown(ctx)
	}
	n.markShutdown(ctx)
}

// findTransition looks up the transition wired from 'from' to 'to', or nil
// if none is defined — an unwired pair is a no-op, not an error; the state
// machine simply stays put.
func (n *StateMachineNode) findTransition(from, to StringID) *TransitionNode {
	byTarget, ok := n.Transitions[from]
	if !ok {
		return nil
	}
	return byTarget[to]
}

// Update runs the active state (or, if a transition is in flight, both
// branches of that transition), evaluates the active state's transition
// conditions, and starts or force-interrupts a transition as needed.
func (n *StateMachineNode) Update(ctx *GraphContext) PoseNodeResult {
	var result PoseNodeResult

	if n.activeTransition != nil {
		if n.activeTransition.IsComplete(ctx) {
			result = n.activeTransition.Update(ctx)
			n.completeActiveTransition(ctx)
		} else {
			result = n.activeTransition.Update(ctx)
			n.duration = n.activeTransition.Duration()
			n.currentTime = n.activeTransition.CurrentTime()
		}
	} else {
		result = n.activeState.Update(ctx)
		n.duration = n.activeState.Duration()
		n.currentTime = n.activeState.CurrentTime()
	}

	if cond := n.activeState.EvaluateConditions(ctx); cond != nil {
		n.beginTransition(ctx, result, cond.TargetState, cond.IsForced)
	}

	return result
}

// UpdateSynchronized mirrors Update but drives the active branch over a
// specific sync-track range rather than by ctx.DeltaTime.
func (n *StateMachineNode) UpdateSynchronized(ctx *GraphContext, syncRange SyncTrackTimeRange) PoseNodeResult {
	var result PoseNodeResult

	if n.activeTransition != nil {
		if n.activeTransition.IsComplete(ctx) {
			result = n.activeTransition.UpdateSynchronized(ctx, syncRange)
			n.completeActiveTransition(ctx)
		} else {
			result = n.activeTransition.UpdateSynchronized(ctx, syncRange)
			n.duration = n.activeTransition.Duration()
			n.currentTime = n.activeTransition.CurrentTime()
		}
	} else {
		result = n.activeState.UpdateSynchronized(ctx, syncRange)
		n.duration = n.activeState.Duration()
		n.currentTime = n.activeState.CurrentTime()
	}

	if cond := n.activeState.EvaluateConditions(ctx); cond != nil {
		n.beginTransition(ctx, result, cond.TargetState, cond.IsForced)
	}

	return result
}

func (n *StateMachineNode) completeActiveTransition(ctx *GraphContext) {
	completed := n.activeTransition
	n.activeTransition = nil
	n.activeState = completed.Target
	completed.Shutdown(ctx)
	n.duration = n.activeState.Duration()
	n.currentTime = n.activeState.CurrentTime()
}

// beginTransition starts (or force-interrupts into) the transition wired
// from the current state/transition to targetState. sourceResult is the
// pose result the active state or transition's own Update/UpdateSynchronized
// call already produced this frame, reused as the new transition's initial
// source contribution instead of updating the source branch a second time.
// If no transition is wired for that pair, the state machine simply stays
// put.
func (n *StateMachineNode) beginTransition(ctx *GraphContext, sourceResult PoseNodeResult, targetState StringID, forced bool) {
	fromName := n.activeState.Name
	transition := n.findTransition(fromName, targetState)
	if transition == nil {
		return
	}

	if n.activeTransition != nil {
		if transition == n.activeTransition {
			// Already heading there — a forced condition that keeps
			// matching its own in-flight transition must not interrupt
			// itself.
			return
		}
		if !forced {
			return
		}
		// n.activeTransition was already advanced this frame by Update
		// before EvaluateConditions ran, so its cached pose (if any) is
		// current; seize it without updating it again.
		transition.StartFromTransition(ctx, n.activeTransition, true)
		n.activeTransition = transition
		return
	}

	shouldCachePose := n.findAnyForcedTransitionFrom(targetState)
	transition.StartFromState(ctx, n.activeState, sourceResult, shouldCachePose)
	n.activeTransition = transition
}

// findAnyForcedTransitionFrom reports whether any transition wired out of
// state could force-interrupt the transition about to start, meaning that
// transition's output should be cached in case it's seized mid-flight.
func (n *StateMachineNode) findAnyForcedTransitionFrom(state StringID) bool {
	byTarget, ok := n.Transitions[state]
	if !ok {
		return false
	}
	for _, t := range byTarget {
		if t.Settings.ForcedTransitionAllowed {
			return true
		}
	}
	return false
}
