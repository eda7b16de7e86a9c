package animgraph

// FrameRecord captures everything a single EvaluateGraph call consumed and
// produced, enough to replay that one frame deterministically against a
// fresh instance for debugging.
type FrameRecord struct {
	DeltaTime         float64
	ControlParameters map[StringID]Value
	Result            PoseNodeResult
}

// TransitionNodeSnapshot is a full point-in-time capture of a TransitionNode's
// persisted fields, enough to restore it later once its source branch has
// been resolved back into a live node from the owning instance's arena.
type TransitionNodeSnapshot struct {
	NodeIdx                      NodeIndex
	TransitionProgress           float32
	TransitionDuration           float32
	SyncEventOffset              float32
	BlendWeight                  float32
	CachedPoseBufferID           BufferID
	SourceCachedPoseBufferID     BufferID
	InheritedCachedPoseBufferIDs []BufferID
	SourceCachedPoseBlendWeight  float32
	SourceIsTransition           bool
	SourceNodeIdx                NodeIndex
}

// Snapshot captures n's persisted fields, resolving its source branch to its
// own arena index rather than copying the live node.
func (n *TransitionNode) Snapshot() TransitionNodeSnapshot {
	return TransitionNodeSnapshot{
		NodeIdx:                      n.NodeIndex(),
		TransitionProgress:           n.transitionProgress,
		TransitionDuration:           n.transitionDuration,
		SyncEventOffset:              n.Settings.SyncEventOffset,
		BlendWeight:                  n.blendWeight,
		CachedPoseBufferID:           n.cachedPoseBufferID,
		SourceCachedPoseBufferID:     n.sourceCachedPoseBufferID,
		InheritedCachedPoseBufferIDs: append([]BufferID(nil), n.inheritedCachedPoseBufferIDs...),
		SourceCachedPoseBlendWeight:  n.sourceCachedPoseBlendWeight,
		SourceIsTransition:           n.sourceIsTransition,
		SourceNodeIdx:                n.source.NodeIndex(),
	}
}

// Restore reinstates a previously captured snapshot. source must already be
// the live node snap.SourceNodeIdx resolves to in the owning instance's
// arena — GraphInstance.Restore looks this up, since a TransitionNode has no
// access to the arena itself.
func (n *TransitionNode) Restore(snap TransitionNodeSnapshot, source transitionSource) {
	n.transitionProgress = snap.TransitionProgress
	n.transitionDuration = snap.TransitionDuration
	n.Settings.SyncEventOffset = snap.SyncEventOffset
	n.blendWeight = snap.BlendWeight
	n.cachedPoseBufferID = snap.CachedPoseBufferID
	n.sourceCachedPoseBufferID = snap.SourceCachedPoseBufferID
	n.inheritedCachedPoseBufferIDs = append([]BufferID(nil), snap.InheritedCachedPoseBufferIDs...)
	n.sourceCachedPoseBlendWeight = snap.SourceCachedPoseBlendWeight
	n.sourceIsTransition = snap.SourceIsTransition
	n.source = source
}

// StateMachineSnapshot is a state machine's active-path capture: which state
// is active, and the persisted fields of its in-flight transition, if any.
type StateMachineSnapshot struct {
	NodeIdx             NodeIndex
	ActiveStateName     StringID
	HasActiveTransition bool
	Transition          TransitionNodeSnapshot
}

// InstanceSnapshot is a full point-in-time capture of a GraphInstance
// sufficient to restore it later: every control parameter's current value
// plus the active state-machine path data each StateMachineNode reports.
// It intentionally does not capture TaskSystem/PhysicsScene state, which are
// owned externally.
type InstanceSnapshot struct {
	ControlParameters map[StringID]Value
	StateMachines     []StateMachineSnapshot
	Frames            []FrameRecord
}

// Recorder accumulates FrameRecords across a sequence of EvaluateGraph
// calls. A GraphInstance with a non-nil recorder appends to it every frame;
// nil means recording is off (the common case — recording has a real but
// small per-frame cost).
type Recorder struct {
	snapshot InstanceSnapshot
}

// NewRecorder returns a Recorder ready to capture frames.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(fr FrameRecord) {
	r.snapshot.Frames = append(r.snapshot.Frames, fr)
}

// Snapshot returns the frames captured so far. The returned value is a
// snapshot copy's header; callers should treat FrameRecord.ControlParameters
// maps as read-only.
func (r *Recorder) Snapshot() InstanceSnapshot {
	return r.snapshot
}

// Reset discards every recorded frame, for reuse across a new recording
// session without reallocating the Recorder itself.
func (r *Recorder) Reset() {
	r.snapshot = InstanceSnapshot{}
}
