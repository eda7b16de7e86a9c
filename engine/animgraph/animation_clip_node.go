package animgraph

import (
	"github.com/Carmen-Shannon/oxy-animgraph-go/common"
	"github.com/Carmen-Shannon/oxy-animgraph-go/engine/model"
)

// AnimationClipNode is the leaf PoseNode: it samples a single model.
// AnimationClip and produces one pose task per update, advancing its own
// playback time each frame. Looping clips wrap their time;
// non-looping clips clamp at 1.0.
type AnimationClipNode struct {
	basePoseNode

	Clip   *model.AnimationClip
	Loop   bool
	Events *SyncTrack

	playbackRate float32
}

// NewAnimationClipNode constructs a clip-sampling node. playbackRate scales
// how fast normalized time advances per second (1.0 = clip's native speed).
func NewAnimationClipNode(index NodeIndex, clip *model.AnimationClip, loop bool, events *SyncTrack, playbackRate float32) *AnimationClipNode {
	if clip == nil {
		panic("animgraph: AnimationClipNode requires a non-nil clip")
	}
	if playbackRate <= 0 {
		playbackRate = 1.0
	}
	return &AnimationClipNode{
		basePoseNode: basePoseNode{baseNode: baseNode{index: index}, duration: clip.Duration},
		Clip:         clip,
		Loop:         loop,
		Events:       events,
		playbackRate: playbackRate,
	}
}

func (n *AnimationClipNode) Initialize(ctx *GraphContext) {
	n.markInitialized(ctx)
	n.currentTime = 0
}

func (n *AnimationClipNode) Shutdown(ctx *GraphContext) {
	n.markShutdown(ctx)
}

// SetTime forces the node's normalized playback time, used by
// synchronized blends and by transitions matching sync-track coordinates.
func (n *AnimationClipNode) SetTime(normalizedTime float32) {
	if n.Loop {
		wrapped, _ := common.WrapPercentage(normalizedTime)
		n.currentTime = wrapped
		return
	}
	n.currentTime = common.ClampF(normalizedTime, 0, 1)
}

func (n *AnimationClipNode) Update(ctx *GraphContext) PoseNodeResult {
	if n.Clip.Duration > 0 {
		deltaNormalized := float32(ctx.DeltaTime) * n.playbackRate / n.Clip.Duration
		if n.Loop {
			wrapped, _ := common.WrapPercentage(n.currentTime + deltaNormalized)
			n.currentTime = wrapped
		} else {
			n.currentTime = common.ClampF(n.currentTime+deltaNormalized, 0, 1)
		}
	}
	return n.sampleAt(ctx)
}

// UpdateSynchronized jumps straight to the normalized time syncRange.EndTime
// converts to on this clip's own sync track, rather than advancing by
// ctx.DeltaTime, so a synchronized transition can drive source and target
// over the same slice of event-space.
func (n *AnimationClipNode) UpdateSynchronized(ctx *GraphContext, syncRange SyncTrackTimeRange) PoseNodeResult {
	if n.Events != nil {
		n.currentTime = common.ClampF(n.Events.GetPercentageThrough(syncRange.EndTime), 0, 1)
	} else {
		n.currentTime = common.ClampF(syncRange.EndTime.PercentageThrough, 0, 1)
	}
	return n.sampleAt(ctx)
}

func (n *AnimationClipNode) sampleAt(ctx *GraphContext) PoseNodeResult {
	taskIdx := InvalidTaskIndex
	if ctx.Tasks != nil {
		taskIdx = ctx.Tasks.RegisterSampleTask(n.Clip, n.currentTime)
	}

	var eventRange SampledEventRange
	if n.Events != nil && ctx.Events != nil {
		t := n.Events.GetTime(n.currentTime)
		id := n.Events.GetEventID(t.EventIdx)
		if id != "" {
			eventRange = ctx.Events.Append(SampledEvent{
				TrackID:                   "", // the node's own track has no name; parents name it.
				EventID:                   id,
				Weight:                    1.0,
				IgnoredForStateTransition: !ctx.IsActive(),
			})
		}
	}

	return PoseNodeResult{
		TaskIdx:         taskIdx,
		RootMotionDelta: IdentityTransform,
		Events:          eventRange,
	}
}
