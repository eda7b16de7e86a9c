package animgraph

import (
	"log"

	"github.com/Carmen-Shannon/oxy-animgraph-go/common"
)

// cachedPoseBlendTime is how long a forced interrupt keeps blending out of
// its inherited source-cached-pose buffer before releasing it, matching the
// fixed ~3-frame window the original engine uses (original_source
// Animation_RuntimeGraphNode_Transition.cpp, UpdateCachedPoseBufferIDState).
const cachedPoseBlendTime = 0.1

// TransitionSettings configures a TransitionNode at definition time.
type TransitionSettings struct {
	Duration        float32
	Synchronized    bool
	ClampDuration   bool
	SyncEventOffset float32

	// MatchSourceTime gates whether the target's start time is aligned to
	// the source's position at all. The three flags below select which
	// coordinate on the target's own sync track it matches by; at most one
	// of MatchSyncEventID/MatchSyncEventIndex is meaningful, and
	// MatchSyncEventPercentage further refines either by also matching the
	// fractional percentage through that event rather than starting the
	// event fresh.
	MatchSourceTime          bool
	MatchSyncEventIndex      bool
	MatchSyncEventID         bool
	MatchSyncEventPercentage bool

	// RootMotionBlend selects how this transition's source and target
	// root-motion deltas are combined, independent of how their bone poses
	// are blended.
	RootMotionBlend RootMotionBlendMode

	ForcedTransitionAllowed bool
}

// transitionSource is the capability a TransitionNode's source branch must
// provide: either a StateNode or another in-flight TransitionNode.
type transitionSource interface {
	PoseNode
	syncTrack() *SyncTrack
}

func (n *StateNode) syncTrack() *SyncTrack {
	if clip, ok := n.Child.(*AnimationClipNode); ok {
		return clip.Events
	}
	return nil
}

// TransitionNode blends from a source branch (a state, or another
// in-progress transition being interrupted) to a target StateNode over
// time, optionally synchronized against both branches' sync tracks.
type TransitionNode struct {
	baseNode

	Settings TransitionSettings
	Target   *StateNode

	// DurationOverride and SyncEventOffsetOverride, when set, are authored
	// child value nodes whose evaluated Float() overrides
	// Settings.Duration/Settings.SyncEventOffset. DurationOverride is read
	// once per start and falls back to Settings.Duration when it evaluates
	// to zero (see common.Coalesce); SyncEventOffsetOverride is read on each
	// synchronized update and is used as is, zero included.
	DurationOverride        ValueNode
	SyncEventOffsetOverride ValueNode

	source             transitionSource
	sourceIsTransition bool

	currentTime      float32
	previousTime     float32
	duration         float32
	blendedSyncTrack SyncTrack

	transitionProgress float32
	transitionDuration float32
	blendWeight        float32

	cachedPoseBufferID           BufferID
	sourceCachedPoseBufferID     BufferID
	inheritedCachedPoseBufferIDs []BufferID
	sourceCachedPoseBlendWeight  float32

	shouldCachePose bool
}

// NewTransitionNode constructs an uninitialized transition targeting target.
// It is brought to life by StartFromState or StartFromTransition, never by
// Initialize directly — a transition always needs a source branch to leave.
func NewTransitionNode(index NodeIndex, target *StateNode, settings TransitionSettings) *TransitionNode {
	if target == nil {
		panic("animgraph: TransitionNode requires a non-nil target state")
	}
	return &TransitionNode{
		baseNode:                 baseNode{index: index},
		Settings:                 settings,
		Target:                   target,
		cachedPoseBufferID:       InvalidBufferID,
		sourceCachedPoseBufferID: InvalidBufferID,
	}
}

func (n *TransitionNode) Duration() float32    { return n.duration }
func (n *TransitionNode) CurrentTime() float32 { return n.currentTime }
func (n *TransitionNode) syncTrack() *SyncTrack { return &n.blendedSyncTrack }

// StartFromState begins a transition away from source, a currently-active
// state whose own Update/UpdateSynchronized call this frame already
// produced sourceResult — the transition reuses that result (with its event
// range re-read after marking the state transitioning-out) rather than
// updating source a second time this frame. shouldCachePose requests that
// this transition's blended output be snapshotted into a cached pose buffer
// other transitions can later inherit.
func (n *TransitionNode) StartFromState(ctx *GraphContext, source *StateNode, sourceResult PoseNodeResult, shouldCachePose bool) PoseNodeResult {
	if source == nil {
		panic("animgraph: StartFromState requires a non-nil source state")
	}
	n.initTransitionState(ctx)
	n.markInitialized(ctx)

	source.StartTransitionOut(ctx)
	sourceResult.Events = source.GetSampledEventRange()

	n.source = source
	n.sourceIsTransition = false
	n.shouldCachePose = shouldCachePose
	return n.initializeTarget(ctx, &sourceResult)
}

// StartFromTransition begins a transition whose source is another
// in-progress transition. If forced is true, this is a forced interrupt:
// the in-progress transition's cached pose buffers are seized (ownership
// transfer) and it is shut down immediately, collapsing the new
// transition's source to whatever state it was blending toward. If the
// interrupted transition has no cached pose to seize, that's an authoring
// mistake: it asserts in a development build (ctx.DevTools) and otherwise
// degrades to a non-forced interrupt instead of corrupting buffer ownership.
func (n *TransitionNode) StartFromTransition(ctx *GraphContext, source *TransitionNode, forced bool) PoseNodeResult {
	if source == nil {
		panic("animgraph: StartFromTransition requires a non-nil source transition")
	}

	if forced {
		if !n.Settings.ForcedTransitionAllowed {
			panic("animgraph: forced interrupt attempted on a transition that disallows it")
		}
		if !source.cachedPoseBufferID.IsValid() {
			if ctx.DevTools {
				panic(ErrBadForceTransition)
			}
			log.Printf("[animgraph] %v; starting transition %d as a non-forced interrupt instead", ErrBadForceTransition, n.NodeIndex())
			forced = false
		}
	}

	if forced {
		n.initTransitionState(ctx)

		// Seize ownership of every cached pose buffer the interrupted
		// transition held, directly or inherited from a chain of prior
		// forced interrupts. Exactly one owner at a time.
		n.sourceCachedPoseBufferID = source.cachedPoseBufferID
		source.cachedPoseBufferID = InvalidBufferID
		n.inheritedCachedPoseBufferIDs = append(n.inheritedCachedPoseBufferIDs, source.transferAdditionalPoseBufferIDs()...)

		collapsedTo := source.Target
		source.Shutdown(ctx)
		collapsedTo.SetTransitioningState(TransitionStateTransitioningOut)

		n.markInitialized(ctx)
		n.source = collapsedTo
		n.sourceIsTransition = false
		n.shouldCachePose = false
		return n.initializeTarget(ctx, nil)
	}

	n.initTransitionState(ctx)
	n.markInitialized(ctx)
	n.source = source
	n.sourceIsTransition = true
	n.shouldCachePose = false
	return n.initializeTarget(ctx, nil)
}

func (n *TransitionNode) initTransitionState(ctx *GraphContext) {
	n.transitionProgress = 0
	n.blendWeight = 0
	n.sourceCachedPoseBlendWeight = 0
	n.currentTime = 0
	n.previousTime = 0

	duration := n.Settings.Duration
	if n.DurationOverride != nil {
		duration = common.Coalesce(n.DurationOverride.Evaluate(ctx).Float(), n.Settings.Duration)
	}
	n.transitionDuration = duration

	if n.cachedPoseBufferID == 0 {
		n.cachedPoseBufferID = InvalidBufferID
	}
}

// syncEventOffset returns the sync-event offset this transition should use,
// preferring SyncEventOffsetOverride's evaluated value when one is wired.
func (n *TransitionNode) syncEventOffset(ctx *GraphContext) float32 {
	if n.SyncEventOffsetOverride != nil {
		return n.SyncEventOffsetOverride.Evaluate(ctx).Float()
	}
	return n.Settings.SyncEventOffset
}

// transferAdditionalPoseBufferIDs hands off every buffer this transition
// owns (its own cached output, its inherited source snapshot, and anything
// it had itself inherited) to a chained forced interrupt, and clears its own
// ownership so Shutdown never double-releases them.
func (n *TransitionNode) transferAdditionalPoseBufferIDs() []BufferID {
	var out []BufferID
	if n.cachedPoseBufferID.IsValid() {
		out = append(out, n.cachedPoseBufferID)
		n.cachedPoseBufferID = InvalidBufferID
	}
	if n.sourceCachedPoseBufferID.IsValid() {
		out = append(out, n.sourceCachedPoseBufferID)
		n.sourceCachedPoseBufferID = InvalidBufferID
	}
	if len(n.inheritedCachedPoseBufferIDs) > 0 {
		out = append(out, n.inheritedCachedPoseBufferIDs...)
		n.inheritedCachedPoseBufferIDs = nil
	}
	if n.sourceIsTransition {
		if st, ok := n.source.(*TransitionNode); ok {
			out = append(out, st.transferAdditionalPoseBufferIDs()...)
		}
	}
	return out
}

// initializeTarget brings the target state up and runs the transition's
// first blended update. If sourceResult is non-nil, it is used as-is for the
// source branch's contribution this frame (the caller already updated the
// source branch); otherwise the source is updated fresh, inactive, here —
// used by StartFromTransition, both when the source is itself a transition
// entered as a nested branch and when a forced interrupt has collapsed the
// source to the interrupted transition's target state.
func (n *TransitionNode) initializeTarget(ctx *GraphContext, sourceResult *PoseNodeResult) PoseNodeResult {
	if !n.Target.IsInitialized() {
		n.Target.Initialize(ctx)
	}
	n.Target.StartTransitionIn(ctx)

	n.duration = n.source.Duration()
	if !n.Settings.Synchronized {
		n.matchTargetStartTime(ctx)
	}

	var srcResult PoseNodeResult
	if sourceResult != nil {
		srcResult = *sourceResult
	} else {
		sourceInactiveCtx := *ctx
		sourceInactiveCtx.BranchState = BranchInactive
		srcResult = n.source.Update(&sourceInactiveCtx)
	}
	targetResult := n.Target.Update(ctx)

	n.calculateBlendWeight()

	if n.Settings.ClampDuration {
		remaining := (1.0 - n.source.CurrentTime()) * n.source.Duration()
		if remaining < n.transitionDuration {
			n.transitionDuration = remaining
		}
	}

	result := n.blendResults(ctx, srcResult, targetResult)

	if n.shouldCachePose {
		n.cachedPoseBufferID = ctx.Tasks.RequestCachedPoseBuffer()
		if result.TaskIdx.IsValid() {
			result.TaskIdx = ctx.Tasks.RegisterCopyToCachedPoseTask(result.TaskIdx, n.cachedPoseBufferID)
		}
	}

	return result
}

// matchTargetStartTime aligns the target clip's start time against the
// source's current sync-track coordinate, per Settings.MatchSourceTime and
// its event-id/event-index/percentage refinements.
func (n *TransitionNode) matchTargetStartTime(ctx *GraphContext) {
	if !n.Settings.MatchSourceTime {
		return
	}
	clip, ok := n.Target.Child.(*AnimationClipNode)
	if !ok {
		return
	}

	sourceTrack := n.sourceSyncTrack()
	targetTrack := n.targetSyncTrack()
	sourceTime := sourceTrack.GetTime(n.source.CurrentTime())

	var targetTime SyncTrackTime
	switch {
	case n.Settings.MatchSyncEventID:
		id := sourceTrack.GetEventID(sourceTime.EventIdx)
		targetTime.EventIdx = targetTrack.GetEventIndexForID(id)
	case n.Settings.MatchSyncEventIndex:
		targetTime.EventIdx = sourceTime.EventIdx
	default:
		clip.SetTime(n.source.CurrentTime())
		return
	}

	if n.Settings.MatchSyncEventPercentage {
		targetTime.PercentageThrough = sourceTime.PercentageThrough
	}
	clip.SetTime(targetTrack.GetPercentageThrough(targetTime))
}

func (n *TransitionNode) calculateBlendWeight() {
	n.blendWeight = common.ClampF(n.transitionProgress, 0, 1)
}

// layerBlend resolves the bone mask and blend weight this frame's pose
// blend should use given the parent's layer context, if any, and whether
// either branch is an off state: transitioning away from or into an off
// state snaps straight to the other branch instead of linearly blending
// toward or away from a pose that contributes nothing.
func (n *TransitionNode) layerBlend(ctx *GraphContext) (float32, BoneMask) {
	if !ctx.Layer.IsSet() {
		return n.blendWeight, BoneMask{}
	}

	mask := ctx.Layer.Mask()
	sourceOff := n.sourceIsOffState()
	targetOff := n.Target.IsOffState()

	switch {
	case sourceOff && !targetOff:
		return 1, mask
	case targetOff && !sourceOff:
		return 0, mask
	default:
		return n.blendWeight, mask
	}
}

func (n *TransitionNode) sourceIsOffState() bool {
	st, ok := n.source.(*StateNode)
	return ok && st.IsOffState()
}

func (n *TransitionNode) blendResults(ctx *GraphContext, source, target PoseNodeResult) PoseNodeResult {
	var result PoseNodeResult

	weight, mask := n.layerBlend(ctx)

	sourceTaskIdx := source.TaskIdx
	if n.sourceCachedPoseBufferID.IsValid() && ctx.Tasks != nil {
		cachedTask := ctx.Tasks.RegisterCachedPoseTask(n.sourceCachedPoseBufferID)
		if sourceTaskIdx.IsValid() {
			sourceTaskIdx = ctx.Tasks.RegisterBlendTask(cachedTask, sourceTaskIdx, n.sourceCachedPoseBlendWeight, BoneMask{})
		} else {
			sourceTaskIdx = cachedTask
		}
	}

	switch {
	case sourceTaskIdx.IsValid() && target.TaskIdx.IsValid():
		result.RootMotionDelta = BlendRootMotionDeltas(source.RootMotionDelta, target.RootMotionDelta, weight, n.Settings.RootMotionBlend)
		if ctx.Tasks != nil {
			result.TaskIdx = ctx.Tasks.RegisterBlendTask(sourceTaskIdx, target.TaskIdx, weight, mask)
		}
	case sourceTaskIdx.IsValid():
		result.TaskIdx = sourceTaskIdx
		result.RootMotionDelta = source.RootMotionDelta
	default:
		result.TaskIdx = target.TaskIdx
		result.RootMotionDelta = target.RootMotionDelta
	}

	// Scale each branch's event weights by its own share of the blend
	// before merging the ranges: BlendEventRanges may copy non-adjacent
	// ranges into freshly appended slots, and a ScaleWeights call made
	// against the pre-merge range would silently miss those copies.
	if ctx.Events != nil {
		ctx.Events.ScaleWeights(target.Events, weight)
		ctx.Events.ScaleWeights(source.Events, 1-weight)
		result.Events = ctx.Events.BlendEventRanges(source.Events, target.Events)
	}

	return result
}

func blendTransforms(a, b Transform, weight float32) Transform {
	var out Transform
	for i := range out.Translation {
		out.Translation[i] = common.LerpF(a.Translation[i], b.Translation[i], weight)
	}
	for i := range out.Rotation {
		out.Rotation[i] = common.LerpF(a.Rotation[i], b.Rotation[i], weight)
	}
	return out
}

// IsComplete reports whether this frame's progress step would carry the
// transition to (or past) full weight toward the target.
func (n *TransitionNode) IsComplete(ctx *GraphContext) bool {
	if n.transitionDuration <= 0 {
		return true
	}
	return n.transitionProgress+float32(ctx.DeltaTime)/n.transitionDuration >= 1.0
}

func (n *TransitionNode) updateProgress(ctx *GraphContext) {
	if n.sourceIsTransition {
		if st, ok := n.source.(*TransitionNode); ok && st.IsComplete(ctx) {
			n.endSourceTransition(ctx)
		}
	}
	if n.transitionDuration > 0 {
		n.transitionProgress += float32(ctx.DeltaTime) / n.transitionDuration
	} else {
		n.transitionProgress = 1.0
	}
	n.transitionProgress = common.ClampF(n.transitionProgress, 0, 1)
}

// endSourceTransition collapses a source-is-transition link once that
// transition has itself completed, so this transition's source becomes the
// plain state it was blending toward, freshly marked as transitioning out of
// this still-in-flight outer transition.
func (n *TransitionNode) endSourceTransition(ctx *GraphContext) {
	st, ok := n.source.(*TransitionNode)
	if !ok {
		return
	}
	n.source.Shutdown(ctx)
	target := st.Target
	target.SetTransitioningState(TransitionStateTransitioningOut)
	n.source = target
	n.sourceIsTransition = false
}

func (n *TransitionNode) updateCachedPoseBufferState(ctx *GraphContext) {
	if len(n.inheritedCachedPoseBufferIDs) > 0 && ctx.Tasks != nil {
		for _, id := range n.inheritedCachedPoseBufferIDs {
			ctx.Tasks.ReleaseCachedPoseBuffer(id)
		}
		n.inheritedCachedPoseBufferIDs = nil
	}

	if n.sourceCachedPoseBufferID.IsValid() {
		n.sourceCachedPoseBlendWeight = common.ClampF(n.sourceCachedPoseBlendWeight+float32(ctx.DeltaTime)/cachedPoseBlendTime, 0, 1)
		if n.sourceCachedPoseBlendWeight >= 1.0 && ctx.Tasks != nil {
			ctx.Tasks.ReleaseCachedPoseBuffer(n.sourceCachedPoseBufferID)
			n.sourceCachedPoseBufferID = InvalidBufferID
		}
	}
}

// Initialize exists to satisfy the Node/PoseNode interfaces; transitions are
// always brought up via StartFromState/StartFromTransition instead.
func (n *TransitionNode) Initialize(ctx *GraphContext) {
	panic("animgraph: TransitionNode.Initialize called directly; use StartFromState or StartFromTransition")
}

func (n *TransitionNode) Shutdown(ctx *GraphContext) {
	if ctx.Tasks != nil {
		if n.cachedPoseBufferID.IsValid() {
			ctx.Tasks.ReleaseCachedPoseBuffer(n.cachedPoseBufferID)
			n.cachedPoseBufferID = InvalidBufferID
		}
		if n.sourceCachedPoseBufferID.IsValid() {
			ctx.Tasks.ReleaseCachedPoseBuffer(n.sourceCachedPoseBufferID)
			n.sourceCachedPoseBufferID = InvalidBufferID
		}
		for _, id := range n.inheritedCachedPoseBufferIDs {
			ctx.Tasks.ReleaseCachedPoseBuffer(id)
		}
		n.inheritedCachedPoseBufferIDs = nil
	}

	n.currentTime = 1.0
	if n.sourceIsTransition {
		n.endSourceTransition(ctx)
	}
	if n.source != nil {
		n.source.Shutdown(ctx)
		n.source = nil
	}
	if n.Target != nil {
		n.Target.SetTransitioningState(TransitionStateNone)
	}
	n.markShutdown(ctx)
}

// Update advances the transition by one frame, updating both branches and
// blending their pose contributions by the current progress-derived weight.
func (n *TransitionNode) Update(ctx *GraphContext) PoseNodeResult {
	n.updateCachedPoseBufferState(ctx)

	if n.Settings.Synchronized {
		n.updateSynchronizedProgress(ctx)
	} else {
		n.updateProgress(ctx)
	}
	n.calculateBlendWeight()

	if n.Settings.Synchronized {
		n.duration = CalculateDurationSynchronized(n.source.Duration(), n.Target.Duration(), n.sourceSyncTrack().GetNumEvents(), n.targetSyncTrack().GetNumEvents(), n.blendedSyncTrack.GetNumEvents(), n.blendWeight)
	} else {
		n.duration = common.LerpF(n.source.Duration(), n.Target.Duration(), n.blendWeight)
	}

	sourceInactiveCtx := *ctx
	sourceInactiveCtx.BranchState = BranchInactive
	sourceResult := n.source.Update(&sourceInactiveCtx)
	targetResult := n.Target.Update(ctx)

	result := n.blendResults(ctx, sourceResult, targetResult)

	n.previousTime = n.currentTime
	if n.duration > 0 {
		n.currentTime = common.ClampF(n.currentTime+float32(ctx.DeltaTime)/n.duration, 0, 1)
	}

	if result.TaskIdx.IsValid() && n.cachedPoseBufferID.IsValid() && ctx.Tasks != nil {
		result.TaskIdx = ctx.Tasks.RegisterCopyToCachedPoseTask(result.TaskIdx, n.cachedPoseBufferID)
	}

	return result
}

// UpdateSynchronized advances the transition over a specific sync-track
// range, for use when this transition is itself being driven as a
// synchronized source or target branch of an outer synchronized transition.
// Calling this on a transition whose own settings don't declare it
// synchronized is an authoring mismatch: rather than corrupting its
// progress bookkeeping against a range it was never built to consume, the
// transition is logged and terminated immediately (progress forced to 1),
// falling back to a plain Update.
func (n *TransitionNode) UpdateSynchronized(ctx *GraphContext, syncRange SyncTrackTimeRange) PoseNodeResult {
	if !n.Settings.Synchronized {
		n.transitionProgress = 1.0
		log.Printf("[animgraph] %v (transition %d)", ErrAsynchronousMismatch, n.NodeIndex())
		return n.Update(ctx)
	}

	n.updateCachedPoseBufferState(ctx)

	if n.sourceIsTransition {
		if st, ok := n.source.(*TransitionNode); ok && st.IsComplete(ctx) {
			n.endSourceTransition(ctx)
		}
	}

	blended := BlendSyncTracks(n.sourceSyncTrack(), n.targetSyncTrack(), n.blendWeight)
	n.blendedSyncTrack = blended

	startTime := n.blendedSyncTrack.GetTime(n.currentTime)
	n.updateProgressFromRange(startTime, syncRange.EndTime)
	n.calculateBlendWeight()

	n.duration = CalculateDurationSynchronized(n.source.Duration(), n.Target.Duration(), n.sourceSyncTrack().GetNumEvents(), n.targetSyncTrack().GetNumEvents(), n.blendedSyncTrack.GetNumEvents(), n.blendWeight)

	sourceRange := offsetSyncTrackTimeRange(syncRange, -n.syncEventOffset(ctx))
	if n.Settings.ClampDuration {
		sourceRange = clampRangeToTrackEnd(sourceRange, n.sourceSyncTrack())
	}

	sourceInactiveCtx := *ctx
	sourceInactiveCtx.BranchState = BranchInactive
	sourceResult := n.source.UpdateSynchronized(&sourceInactiveCtx, sourceRange)
	targetResult := n.Target.UpdateSynchronized(ctx, syncRange)

	result := n.blendResults(ctx, sourceResult, targetResult)

	n.previousTime = n.currentTime
	n.currentTime = n.blendedSyncTrack.GetPercentageThrough(syncRange.EndTime)

	if result.TaskIdx.IsValid() && n.cachedPoseBufferID.IsValid() && ctx.Tasks != nil {
		result.TaskIdx = ctx.Tasks.RegisterCopyToCachedPoseTask(result.TaskIdx, n.cachedPoseBufferID)
	}

	return result
}

func (n *TransitionNode) updateProgressFromRange(start, end SyncTrackTime) {
	eventDistance := n.blendedSyncTrack.CalculatePercentageCovered(start, end)
	if n.transitionDuration > 0 {
		n.transitionProgress += eventDistance / n.transitionDuration
	} else {
		n.transitionProgress = 1.0
	}
	n.transitionProgress = common.ClampF(n.transitionProgress, 0, 1)
}

func (n *TransitionNode) sourceSyncTrack() *SyncTrack {
	if t := n.source.syncTrack(); t != nil {
		return t
	}
	return &SyncTrack{}
}

func (n *TransitionNode) targetSyncTrack() *SyncTrack {
	if t := n.Target.syncTrack(); t != nil {
		return t
	}
	return &SyncTrack{}
}

func (n *TransitionNode) updateSynchronizedProgress(ctx *GraphContext) {
	if n.sourceIsTransition {
		if st, ok := n.source.(*TransitionNode); ok && st.IsComplete(ctx) {
			n.endSourceTransition(ctx)
		}
	}

	blended := BlendSyncTracks(n.sourceSyncTrack(), n.targetSyncTrack(), n.blendWeight)
	n.blendedSyncTrack = blended

	startTime := n.blendedSyncTrack.GetTime(n.currentTime)
	estimatedTo := common.ClampF(n.currentTime+float32(ctx.DeltaTime)/maxF(n.duration, 0.0001), 0, 1)
	endTime := n.blendedSyncTrack.GetTime(estimatedTo)

	if n.Settings.ClampDuration {
		eventDistance := n.blendedSyncTrack.CalculatePercentageCovered(startTime, endTime)
		if n.transitionDuration > 0 {
			n.transitionProgress += eventDistance / n.transitionDuration
		} else {
			n.transitionProgress = 1.0
		}
		n.transitionProgress = common.ClampF(n.transitionProgress, 0, 1)
	} else {
		n.transitionProgress += float32(ctx.DeltaTime) / maxF(n.transitionDuration, 0.0001)
		n.transitionProgress = common.ClampF(n.transitionProgress, 0, 1)
	}
}

// offsetSyncTrackTimeRange shifts both ends of r by offset events (a
// fractional event count, not a fraction of one lap), used to compute a
// source branch's own update range from an outer synchronized range and
// this transition's authored sync-event offset.
func offsetSyncTrackTimeRange(r SyncTrackTimeRange, offset float32) SyncTrackTimeRange {
	shift := func(t SyncTrackTime) SyncTrackTime {
		total := float32(t.EventIdx) + t.PercentageThrough + offset
		idx := int32(total)
		frac := total - float32(idx)
		if frac < 0 {
			frac += 1
			idx--
		}
		return SyncTrackTime{EventIdx: idx, PercentageThrough: frac}
	}
	return SyncTrackTimeRange{StartTime: shift(r.StartTime), EndTime: shift(r.EndTime)}
}

// clampRangeToTrackEnd clamps r's end time to track's last event, used when
// ClampDuration means a source branch must not be asked to update past the
// end of its own clip.
func clampRangeToTrackEnd(r SyncTrackTimeRange, track *SyncTrack) SyncTrackTimeRange {
	end := track.GetEndTime()
	if r.EndTime.EventIdx > end.EventIdx || (r.EndTime.EventIdx == end.EventIdx && r.EndTime.PercentageThrough > end.PercentageThrough) {
		r.EndTime = end
	}
	return r
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
