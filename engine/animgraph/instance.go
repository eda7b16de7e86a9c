package animgraph

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-animgraph-go/engine/model"
)

// GraphInstance owns one live arena instantiated from a GraphDefinition: it
// is the unit of evaluation. Multiple instances may
// share a GraphDefinition but never share arena nodes.
type GraphInstance struct {
	definition *GraphDefinition
	arena      []Node
	root       PoseNode

	controlParams map[StringID]*ControlParameterNode
	externalSlots map[StringID]*GraphInstance

	skeleton *model.Skeleton
	tasks    TaskSystem
	scene    PhysicsScene

	events *SampledEventsBuffer

	recorder *Recorder

	// DevelopmentTools gates development-mode assertions (e.g.
	// ErrBadForceTransition) versus their release-mode graceful fallback.
	// Every GraphContext EvaluateGraph builds carries this through as
	// ctx.DevTools.
	DevelopmentTools bool

	lastResult PoseNodeResult
}

// NewGraphInstance instantiates def against skeleton, tasks, and scene. It
// returns a *DefinitionError (wrapped) if def is malformed — this is a fatal
// construction-time failure, not a recoverable runtime one.
func NewGraphInstance(def *GraphDefinition, skeleton *model.Skeleton, tasks TaskSystem, scene PhysicsScene) (*GraphInstance, error) {
	if def == nil {
		panic("animgraph: NewGraphInstance requires a non-nil GraphDefinition")
	}
	if tasks == nil {
		panic("animgraph: NewGraphInstance requires a non-nil TaskSystem")
	}

	arena, err := def.Instantiate()
	if err != nil {
		return nil, fmt.Errorf("animgraph: failed to instantiate graph: %w", err)
	}

	root, ok := arena[def.PersistentNodeIdx].(PoseNode)
	if !ok {
		return nil, fmt.Errorf("animgraph: %w", &DefinitionError{Reason: "persistent node is not a pose node"})
	}

	inst := &GraphInstance{
		definition:    def,
		arena:         arena,
		root:          root,
		controlParams: make(map[StringID]*ControlParameterNode, len(def.ControlParameters)),
		externalSlots: make(map[StringID]*GraphInstance, len(def.ExternalSlots)),
		skeleton:      skeleton,
		tasks:         tasks,
		scene:         scene,
		events:        NewSampledEventsBuffer(64),
	}

	for name, idx := range def.ControlParameters {
		cp, ok := arena[idx].(*ControlParameterNode)
		if !ok {
			return nil, fmt.Errorf("animgraph: %w", &DefinitionError{Reason: "control parameter index does not resolve to a ControlParameterNode"})
		}
		inst.controlParams[name] = cp
	}
	for _, slot := range def.ExternalSlots {
		inst.externalSlots[slot] = nil
	}

	return inst, nil
}

// EnableRecording attaches r so every subsequent EvaluateGraph call appends
// a FrameRecord to it. Pass nil to stop recording.
func (gi *GraphInstance) EnableRecording(r *Recorder) {
	gi.recorder = r
}

// SetControlParameter writes value into the named control parameter. Panics
// if name is not declared on this instance's definition or value's type
// doesn't match — both are authoring bugs, not runtime conditions callers
// are expected to recover from.
func (gi *GraphInstance) SetControlParameter(name StringID, value Value) {
	cp, ok := gi.controlParams[name]
	if !ok {
		panic(fmt.Sprintf("animgraph: unknown control parameter %q", name))
	}
	cp.Set(value)
}

// GetControlParameter reads the named control parameter's current value.
func (gi *GraphInstance) GetControlParameter(name StringID) Value {
	cp, ok := gi.controlParams[name]
	if !ok {
		panic(fmt.Sprintf("animgraph: unknown control parameter %q", name))
	}
	return cp.Evaluate(nil)
}

// ConnectExternalGraph attaches child at the named slot. Returns
// ErrSlotUnknown if the slot isn't declared on this instance's definition,
// or ErrSlotAlreadyFilled if something is already attached there — both are
// recoverable (the caller chose a bad slot ID or a race, not a
// definition-time bug).
func (gi *GraphInstance) ConnectExternalGraph(slot StringID, child *GraphInstance) error {
	existing, declared := gi.externalSlots[slot]
	if !declared {
		return ErrSlotUnknown
	}
	if existing != nil {
		return ErrSlotAlreadyFilled
	}
	gi.externalSlots[slot] = child
	return nil
}

// DisconnectExternalGraph detaches whatever is attached at slot, returning
// it (or nil if nothing was attached). Returns ErrSlotUnknown if the slot
// isn't declared.
func (gi *GraphInstance) DisconnectExternalGraph(slot StringID) (*GraphInstance, error) {
	existing, declared := gi.externalSlots[slot]
	if !declared {
		return nil, ErrSlotUnknown
	}
	gi.externalSlots[slot] = nil
	return existing, nil
}

// ExternalGraph returns whatever instance is currently attached at slot, or
// nil. Returns ErrSlotUnknown if the slot isn't declared.
func (gi *GraphInstance) ExternalGraph(slot StringID) (*GraphInstance, error) {
	existing, declared := gi.externalSlots[slot]
	if !declared {
		return nil, ErrSlotUnknown
	}
	return existing, nil
}

// evaluateOptions collects what EvaluateOption functions configure for one
// EvaluateGraph call.
type evaluateOptions struct {
	startWorldTransform Transform
	syncRange           *SyncTrackTimeRange
	reset               bool
}

// EvaluateOption configures a single EvaluateGraph call. The zero-value
// behavior (no options) matches EvaluateGraph's original, unsynchronized,
// non-resetting signature, so every existing call site keeps compiling.
type EvaluateOption func(*evaluateOptions)

// WithStartWorldTransform records the character's world placement at the
// start of this frame, made available to nodes via GraphContext.
// StartWorldTransform.
func WithStartWorldTransform(t Transform) EvaluateOption {
	return func(o *evaluateOptions) { o.startWorldTransform = t }
}

// WithSyncRange drives this evaluation over a specific sync-track range via
// the root node's UpdateSynchronized, instead of a plain deltaTime-driven
// Update.
func WithSyncRange(r SyncTrackTimeRange) EvaluateOption {
	return func(o *evaluateOptions) { o.syncRange = &r }
}

// WithReset shuts down and reinitializes the instance's root node before
// evaluating this frame, discarding all in-flight transition/state-machine
// state — equivalent to the instance never having run before.
func WithReset() EvaluateOption {
	return func(o *evaluateOptions) { o.reset = true }
}

// EvaluateGraph advances the instance by deltaTime seconds, updating every
// connected external graph first (so their sampled events and durations are
// available to anything in the parent graph that reads them this frame),
// then updating the root pose node. The SampledEventsBuffer is reset at the
// start of every call.
func (gi *GraphInstance) EvaluateGraph(deltaTime float64, opts ...EvaluateOption) PoseNodeResult {
	var o evaluateOptions
	for _, opt := range opts {
		opt(&o)
	}

	gi.events.Reset()

	for _, child := range gi.externalSlots {
		if child != nil {
			child.EvaluateGraph(deltaTime)
		}
	}

	ctx := &GraphContext{
		DeltaTime:           deltaTime,
		Skeleton:            gi.skeleton,
		Events:              gi.events,
		Tasks:               gi.tasks,
		Scene:               gi.scene,
		BranchState:         BranchActive,
		StartWorldTransform: o.startWorldTransform,
		DevTools:            gi.DevelopmentTools,
	}

	if o.reset && gi.root.IsInitialized() {
		gi.root.Shutdown(ctx)
	}
	if !gi.root.IsInitialized() {
		gi.root.Initialize(ctx)
	}

	var result PoseNodeResult
	if o.syncRange != nil {
		result = gi.root.UpdateSynchronized(ctx, *o.syncRange)
	} else {
		result = gi.root.Update(ctx)
	}
	gi.lastResult = result

	if gi.recorder != nil {
		snapshot := make(map[StringID]Value, len(gi.controlParams))
		for name, cp := range gi.controlParams {
			snapshot[name] = cp.Evaluate(ctx)
		}
		gi.recorder.record(FrameRecord{DeltaTime: deltaTime, ControlParameters: snapshot, Result: result})
	}

	return result
}

// Reset discards all in-flight transition/state-machine state and
// re-enters the graph from scratch, as if this instance had never been
// evaluated before. Sugar for EvaluateGraph(deltaTime, WithReset()).
func (gi *GraphInstance) Reset(deltaTime float64) PoseNodeResult {
	return gi.EvaluateGraph(deltaTime, WithReset())
}

// ExecutePrePhysicsPoseTasks returns the task index EvaluateGraph's most
// recent call registered as its final pose task, for the owner to hand to
// the task system's pre-physics execution pass.
func (gi *GraphInstance) ExecutePrePhysicsPoseTasks() TaskIndex {
	return gi.lastResult.TaskIdx
}

// ExecutePostPhysicsPoseTasks returns the accumulated root-motion delta and
// sampled event range from the most recent EvaluateGraph call, read after
// the physics step has had a chance to adjust the character's world
// transform using the pre-physics pose.
func (gi *GraphInstance) ExecutePostPhysicsPoseTasks() (Transform, SampledEventRange) {
	return gi.lastResult.RootMotionDelta, gi.lastResult.Events
}

// SampledEvents returns the events covered by r, read back from this
// instance's frame-scoped buffer. Only valid for the frame EvaluateGraph
// that produced r ran in.
func (gi *GraphInstance) SampledEvents(r SampledEventRange) []SampledEvent {
	return gi.events.Get(r)
}

// Snapshot captures every control parameter's current value and, for every
// state machine in the arena, its active state and in-flight transition (if
// any) — enough for Restore to bring a freshly instantiated GraphInstance
// back to an equivalent runtime state.
func (gi *GraphInstance) Snapshot() InstanceSnapshot {
	snap := InstanceSnapshot{ControlParameters: make(map[StringID]Value, len(gi.controlParams))}
	for name, cp := range gi.controlParams {
		snap.ControlParameters[name] = cp.Evaluate(nil)
	}

	for _, node := range gi.arena {
		sm, ok := node.(*StateMachineNode)
		if !ok {
			continue
		}
		s := StateMachineSnapshot{NodeIdx: sm.NodeIndex(), ActiveStateName: sm.activeState.Name}
		if sm.activeTransition != nil {
			s.HasActiveTransition = true
			s.Transition = sm.activeTransition.Snapshot()
		}
		snap.StateMachines = append(snap.StateMachines, s)
	}

	if gi.recorder != nil {
		snap.Frames = gi.recorder.Snapshot().Frames
	}

	return snap
}

// Restore reinstates every control parameter and state machine captured in
// snap. The instance's arena must have been built from the same
// GraphDefinition the snapshot was taken from — node indices are resolved
// directly against gi.arena. Returns an error describing the first
// inconsistency found. Entries are applied in order as they are checked, so
// the control parameters and any state machines restored before that
// inconsistency stay applied.
func (gi *GraphInstance) Restore(snap InstanceSnapshot) error {
	for name, v := range snap.ControlParameters {
		if cp, ok := gi.controlParams[name]; ok {
			cp.current = v
		}
	}

	ctx := &GraphContext{
		Skeleton:    gi.skeleton,
		Events:      gi.events,
		Tasks:       gi.tasks,
		Scene:       gi.scene,
		BranchState: BranchActive,
		DevTools:    gi.DevelopmentTools,
	}

	for _, s := range snap.StateMachines {
		if int(s.NodeIdx) < 0 || int(s.NodeIdx) >= len(gi.arena) {
			return fmt.Errorf("animgraph: restore: state machine index %d out of range", s.NodeIdx)
		}
		sm, ok := gi.arena[s.NodeIdx].(*StateMachineNode)
		if !ok {
			return fmt.Errorf("animgraph: restore: arena node %d is not a state machine", s.NodeIdx)
		}

		var target *StateNode
		for _, st := range sm.States {
			if st.Name == s.ActiveStateName {
				target = st
				break
			}
		}
		if target == nil {
			return fmt.Errorf("animgraph: restore: state machine %d has no state named %q", s.NodeIdx, s.ActiveStateName)
		}

		if sm.IsInitialized() {
			sm.Shutdown(ctx)
		}
		sm.activeState = target
		sm.markInitialized(ctx)
		if !target.IsInitialized() {
			target.Initialize(ctx)
		}

		if !s.HasActiveTransition {
			continue
		}

		if int(s.Transition.NodeIdx) < 0 || int(s.Transition.NodeIdx) >= len(gi.arena) {
			return fmt.Errorf("animgraph: restore: transition index %d out of range", s.Transition.NodeIdx)
		}
		transNode, ok := gi.arena[s.Transition.NodeIdx].(*TransitionNode)
		if !ok {
			return fmt.Errorf("animgraph: restore: arena node %d is not a transition", s.Transition.NodeIdx)
		}

		if int(s.Transition.SourceNodeIdx) < 0 || int(s.Transition.SourceNodeIdx) >= len(gi.arena) {
			return fmt.Errorf("animgraph: restore: transition source index %d out of range", s.Transition.SourceNodeIdx)
		}
		srcNode, ok := gi.arena[s.Transition.SourceNodeIdx].(transitionSource)
		if !ok {
			return fmt.Errorf("animgraph: restore: arena node %d is not a transition source", s.Transition.SourceNodeIdx)
		}
		if !srcNode.IsInitialized() {
			srcNode.Initialize(ctx)
		}
		if !transNode.Target.IsInitialized() {
			transNode.Target.Initialize(ctx)
		}
		if !transNode.IsInitialized() {
			transNode.markInitialized(ctx)
		}
		transNode.Restore(s.Transition, srcNode)
		sm.activeTransition = transNode
	}

	return nil
}
