package animgraph

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-animgraph-go/engine/model"
)

func newTestContext(dt float64) *GraphContext {
	return &GraphContext{
		DeltaTime:   dt,
		Events:      NewSampledEventsBuffer(8),
		Tasks:       NewInMemoryTaskSystem(),
		Scene:       NoPhysicsScene{},
		BranchState: BranchActive,
	}
}

func TestAnimationClipNodeLoopsPastOne(t *testing.T) {
	clip := &model.AnimationClip{Name: "walk", Duration: 1.0}
	node := NewAnimationClipNode(0, clip, true, nil, 1.0)

	ctx := newTestContext(0.75)
	node.Initialize(ctx)
	defer node.Shutdown(ctx)

	node.Update(ctx) // 0 -> 0.75
	node.Update(ctx) // 0.75 -> 1.5 wraps to 0.5

	if got := node.CurrentTime(); got < 0.49 || got > 0.51 {
		t.Errorf("CurrentTime after wrap = %f, want ~0.5", got)
	}
}

func TestAnimationClipNodeNonLoopingClamps(t *testing.T) {
	clip := &model.AnimationClip{Name: "attack", Duration: 1.0}
	node := NewAnimationClipNode(0, clip, false, nil, 1.0)

	ctx := newTestContext(2.0)
	node.Initialize(ctx)
	defer node.Shutdown(ctx)

	node.Update(ctx)

	if got := node.CurrentTime(); got != 1.0 {
		t.Errorf("CurrentTime for non-looping clip past duration = %f, want 1.0 (clamped)", got)
	}
}

func TestAnimationClipNodeRegistersSampleTask(t *testing.T) {
	clip := &model.AnimationClip{Name: "idle", Duration: 2.0}
	node := NewAnimationClipNode(0, clip, true, nil, 1.0)

	ctx := newTestContext(0.1)
	node.Initialize(ctx)
	defer node.Shutdown(ctx)

	result := node.Update(ctx)
	if !result.TaskIdx.IsValid() {
		t.Error("expected a valid task index after Update")
	}
}

func TestAnimationClipNodeRequiresNonNilClip(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic constructing an AnimationClipNode with a nil clip")
		}
	}()
	NewAnimationClipNode(0, nil, true, nil, 1.0)
}
