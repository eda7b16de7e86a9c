package animgraph

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-animgraph-go/engine/model"
)

func buildTwoStateMachine(t *testing.T, forcedAllowed bool) (*StateMachineNode, *StateNode, *StateNode, *TransitionNode) {
	t.Helper()

	idleClip := &model.AnimationClip{Name: "idle", Duration: 1.0}
	runClip := &model.AnimationClip{Name: "run", Duration: 1.0}

	idle := NewStateNode(0, "Idle", NewAnimationClipNode(10, idleClip, true, nil, 1.0))
	run := NewStateNode(1, "Run", NewAnimationClipNode(11, runClip, true, nil, 1.0))

	transition := NewTransitionNode(2, run, TransitionSettings{
		Duration:                0.2,
		ForcedTransitionAllowed: forcedAllowed,
	})

	transitions := map[StringID]map[StringID]*TransitionNode{
		"Idle": {"Run": transition},
	}

	sm := NewStateMachineNode(3, []*StateNode{idle, run}, transitions, "Idle")
	return sm, idle, run, transition
}

func TestStateMachineStaysPutWithNoMatchingTransition(t *testing.T) {
	sm, idle, _, _ := buildTwoStateMachine(t, false)
	ctx := newTestContext(0.016)
	sm.Initialize(ctx)
	defer sm.Shutdown(ctx)

	idle.Conditions = nil // no conditions declared, nothing should fire
	sm.Update(ctx)

	if sm.activeState != idle {
		t.Errorf("expected to remain in Idle with no matching condition")
	}
}

func TestStateMachineTransitionsOnCondition(t *testing.T) {
	sm, idle, run, transition := buildTwoStateMachine(t, false)
	idle.Conditions = []TransitionCondition{
		{TargetState: "Run", Predicate: func(ctx *GraphContext, t float32) bool { return true }},
	}

	ctx := newTestContext(0.016)
	sm.Initialize(ctx)
	defer sm.Shutdown(ctx)

	sm.Update(ctx)

	if sm.activeTransition != transition {
		t.Fatalf("expected transition to Run to have started")
	}

	// Drive enough frames for the transition to finish.
	for i := 0; i < 30; i++ {
		sm.Update(ctx)
	}

	if sm.activeState != run {
		t.Errorf("expected state machine to have settled into Run, activeState = %+v", sm.activeState)
	}
	if sm.activeTransition != nil {
		t.Errorf("expected no in-flight transition once complete")
	}
}

func TestForcedConditionStartsTransitionOnCompletionWithoutRestarting(t *testing.T) {
	idleClip := &model.AnimationClip{Name: "idle", Duration: 1.0}
	runClip := &model.AnimationClip{Name: "run", Duration: 1.0}
	jumpClip := &model.AnimationClip{Name: "jump", Duration: 0.5}

	idle := NewStateNode(0, "Idle", NewAnimationClipNode(10, idleClip, true, nil, 1.0))
	run := NewStateNode(1, "Run", NewAnimationClipNode(11, runClip, true, nil, 1.0))
	jump := NewStateNode(2, "Jump", NewAnimationClipNode(12, jumpClip, false, nil, 1.0))

	idleToRun := NewTransitionNode(3, run, TransitionSettings{Duration: 1.0})
	anyToJump := NewTransitionNode(4, jump, TransitionSettings{Duration: 0.2, ForcedTransitionAllowed: true})

	transitions := map[StringID]map[StringID]*TransitionNode{
		"Idle": {"Run": idleToRun, "Jump": anyToJump},
		"Run":  {"Jump": anyToJump},
	}

	idle.Conditions = []TransitionCondition{
		{TargetState: "Run", Predicate: func(ctx *GraphContext, t float32) bool { return true }},
	}
	run.Conditions = []TransitionCondition{
		{TargetState: "Jump", IsForced: true, Predicate: func(ctx *GraphContext, t float32) bool { return true }},
	}

	sm := NewStateMachineNode(5, []*StateNode{idle, run, jump}, transitions, "Idle")

	ctx := newTestContext(0.016)
	sm.Initialize(ctx)
	defer sm.Shutdown(ctx)

	sm.Update(ctx) // starts Idle -> Run transition, and should cache its pose
	if sm.activeTransition != idleToRun {
		t.Fatalf("expected Idle -> Run transition to be active")
	}
	if !idleToRun.cachedPoseBufferID.IsValid() {
		t.Fatalf("expected Idle -> Run to have a cached pose buffer since a forced transition can seize it")
	}

	bufferBeforeInterrupt := idleToRun.cachedPoseBufferID

	// Drive the Idle->Run transition to completion. Run's forced Jump
	// condition evaluates in the same Update call that completes the
	// transition (conditions run against the state machine's new active
	// state immediately after it swaps over), so the forced interrupt into
	// Jump begins right away rather than on some later frame.
	for !idleToRun.IsComplete(ctx) {
		sm.Update(ctx)
	}
	sm.Update(ctx)

	if sm.activeState != run {
		t.Fatalf("expected to have settled into Run")
	}
	if sm.activeTransition != anyToJump {
		t.Fatalf("expected Run's forced Jump condition to have started a transition into Jump immediately")
	}

	// A forced condition that keeps matching the transition already under
	// way must not re-interrupt itself.
	sm.Update(ctx)
	if sm.activeTransition != anyToJump {
		t.Fatalf("expected the in-flight Jump transition to continue rather than restart")
	}

	_ = bufferBeforeInterrupt
}
