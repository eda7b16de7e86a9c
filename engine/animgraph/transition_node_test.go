package animgraph

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-animgraph-go/engine/model"
)

func buildIdleRunStates() (*StateNode, *StateNode) {
	idleClip := &model.AnimationClip{Name: "idle", Duration: 1.0}
	runClip := &model.AnimationClip{Name: "run", Duration: 1.0}
	idle := NewStateNode(0, "Idle", NewAnimationClipNode(10, idleClip, true, nil, 1.0))
	run := NewStateNode(1, "Run", NewAnimationClipNode(11, runClip, true, nil, 1.0))
	return idle, run
}

func TestTransitionStartFromStateRegistersBlendTask(t *testing.T) {
	idle, run := buildIdleRunStates()
	ctx := newTestContext(0.016)
	idle.Initialize(ctx) // shut down by tr.Shutdown, which shuts down its source

	tr := NewTransitionNode(2, run, TransitionSettings{Duration: 0.25})
	sourceResult := idle.Update(ctx)
	result := tr.StartFromState(ctx, idle, sourceResult, false)
	defer tr.Shutdown(ctx)

	if !result.TaskIdx.IsValid() {
		t.Error("expected a valid task index from the initial transition update")
	}
	if tr.cachedPoseBufferID.IsValid() {
		t.Error("expected no cached pose buffer when shouldCachePose is false")
	}
}

func TestTransitionStartFromStateCachesPoseWhenRequested(t *testing.T) {
	idle, run := buildIdleRunStates()
	ctx := newTestContext(0.016)
	idle.Initialize(ctx) // shut down by tr.Shutdown, which shuts down its source

	tr := NewTransitionNode(2, run, TransitionSettings{Duration: 0.25})
	sourceResult := idle.Update(ctx)
	tr.StartFromState(ctx, idle, sourceResult, true)
	defer tr.Shutdown(ctx)

	if !tr.cachedPoseBufferID.IsValid() {
		t.Fatal("expected a cached pose buffer to have been requested")
	}

	ts := ctx.Tasks.(*InMemoryTaskSystem)
	if !ts.live[tr.cachedPoseBufferID] {
		t.Error("expected the cached pose buffer to be live in the task system")
	}
}

func TestTransitionProgressAdvancesAndCompletes(t *testing.T) {
	idle, run := buildIdleRunStates()
	ctx := newTestContext(0.1)
	idle.Initialize(ctx) // shut down by tr.Shutdown, which shuts down its source

	tr := NewTransitionNode(2, run, TransitionSettings{Duration: 0.2})
	sourceResult := idle.Update(ctx)
	tr.StartFromState(ctx, idle, sourceResult, false)
	defer tr.Shutdown(ctx)

	if tr.IsComplete(ctx) {
		t.Fatal("should not be complete immediately after starting")
	}

	tr.Update(ctx)
	tr.updateProgress(ctx)
	tr.Update(ctx)
	tr.updateProgress(ctx)

	if !tr.IsComplete(ctx) {
		t.Errorf("expected transition to be complete after >= Duration worth of progress, transitionProgress=%f", tr.transitionProgress)
	}
}

func TestTransitionShutdownReleasesCachedPoseBuffer(t *testing.T) {
	idle, run := buildIdleRunStates()
	ctx := newTestContext(0.016)
	idle.Initialize(ctx)

	tr := NewTransitionNode(2, run, TransitionSettings{Duration: 0.25})
	sourceResult := idle.Update(ctx)
	tr.StartFromState(ctx, idle, sourceResult, true)
	bufferID := tr.cachedPoseBufferID

	tr.Shutdown(ctx)

	ts := ctx.Tasks.(*InMemoryTaskSystem)
	if ts.live[bufferID] {
		t.Error("expected cached pose buffer to be released on shutdown")
	}
}

func TestForcedInterruptSeizesCachedPoseBufferAndShutsDownSource(t *testing.T) {
	idle, run := buildIdleRunStates()
	jumpClip := &model.AnimationClip{Name: "jump", Duration: 0.5}
	jump := NewStateNode(2, "Jump", NewAnimationClipNode(12, jumpClip, false, nil, 1.0))

	ctx := newTestContext(0.016)
	idle.Initialize(ctx)

	idleToRun := NewTransitionNode(3, run, TransitionSettings{Duration: 1.0})
	idleSourceResult := idle.Update(ctx)
	idleToRun.StartFromState(ctx, idle, idleSourceResult, true) // shouldCachePose=true so a forced interrupt has something to seize
	if !idleToRun.cachedPoseBufferID.IsValid() {
		t.Fatal("expected idleToRun to have cached its pose")
	}
	seizedBuffer := idleToRun.cachedPoseBufferID

	anyToJump := NewTransitionNode(4, jump, TransitionSettings{Duration: 0.2, ForcedTransitionAllowed: true})
	anyToJump.StartFromTransition(ctx, idleToRun, true)
	defer anyToJump.Shutdown(ctx)

	if anyToJump.sourceCachedPoseBufferID != seizedBuffer {
		t.Errorf("expected anyToJump to have seized idleToRun's cached pose buffer, got %v want %v", anyToJump.sourceCachedPoseBufferID, seizedBuffer)
	}
	if idleToRun.cachedPoseBufferID.IsValid() {
		t.Error("expected idleToRun to have given up ownership of its cached pose buffer")
	}
	if idleToRun.IsInitialized() {
		t.Error("expected idleToRun to have been shut down by the forced interrupt")
	}
}

func TestForcedInterruptRejectedWithoutCachedPose(t *testing.T) {
	idle, run := buildIdleRunStates()
	jumpClip := &model.AnimationClip{Name: "jump", Duration: 0.5}
	jump := NewStateNode(2, "Jump", NewAnimationClipNode(12, jumpClip, false, nil, 1.0))

	ctx := newTestContext(0.016)
	ctx.DevTools = true
	idle.Initialize(ctx)

	idleToRun := NewTransitionNode(3, run, TransitionSettings{Duration: 1.0})
	sourceResult := idle.Update(ctx)
	idleToRun.StartFromState(ctx, idle, sourceResult, false) // no cached pose requested
	defer idleToRun.Shutdown(ctx)

	anyToJump := NewTransitionNode(4, jump, TransitionSettings{Duration: 0.2, ForcedTransitionAllowed: true})

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic forcing an interrupt against a transition with no cached pose")
		}
	}()
	anyToJump.StartFromTransition(ctx, idleToRun, true)
}

func TestForcedInterruptRejectedWhenDisallowed(t *testing.T) {
	idle, run := buildIdleRunStates()
	jumpClip := &model.AnimationClip{Name: "jump", Duration: 0.5}
	jump := NewStateNode(2, "Jump", NewAnimationClipNode(12, jumpClip, false, nil, 1.0))

	ctx := newTestContext(0.016)
	idle.Initialize(ctx)

	idleToRun := NewTransitionNode(3, run, TransitionSettings{Duration: 1.0})
	sourceResult := idle.Update(ctx)
	idleToRun.StartFromState(ctx, idle, sourceResult, true)
	defer idleToRun.Shutdown(ctx)

	anyToJump := NewTransitionNode(4, jump, TransitionSettings{Duration: 0.2}) // ForcedTransitionAllowed defaults false

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic forcing an interrupt on a transition that disallows it")
		}
	}()
	anyToJump.StartFromTransition(ctx, idleToRun, true)
}

func TestTransitionInitializeDirectlyPanics(t *testing.T) {
	_, run := buildIdleRunStates()
	tr := NewTransitionNode(2, run, TransitionSettings{Duration: 0.25})

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic calling Initialize directly on a TransitionNode")
		}
	}()
	tr.Initialize(newTestContext(0.016))
}

func TestSynchronizedTransitionBlendsSyncTracks(t *testing.T) {
	sourceEvents := &SyncTrack{Events: []SyncEvent{{ID: "step", StartTime: 0, Duration: 1.0}}}
	targetEvents := &SyncTrack{Events: []SyncEvent{{ID: "step", StartTime: 0, Duration: 1.0}}}

	idleClip := &model.AnimationClip{Name: "idle", Duration: 1.0}
	runClip := &model.AnimationClip{Name: "run", Duration: 1.0}
	idle := NewStateNode(0, "Idle", NewAnimationClipNode(10, idleClip, true, sourceEvents, 1.0))
	run := NewStateNode(1, "Run", NewAnimationClipNode(11, runClip, true, targetEvents, 1.0))

	ctx := newTestContext(0.05)
	idle.Initialize(ctx)

	tr := NewTransitionNode(2, run, TransitionSettings{Duration: 0.2, Synchronized: true})
	sourceResult := idle.Update(ctx)
	tr.StartFromState(ctx, idle, sourceResult, false)
	defer tr.Shutdown(ctx)

	tr.Update(ctx)

	if tr.blendedSyncTrack.GetNumEvents() != 1 {
		t.Errorf("expected the blended sync track to carry the matched event through, got %d events", tr.blendedSyncTrack.GetNumEvents())
	}
}
