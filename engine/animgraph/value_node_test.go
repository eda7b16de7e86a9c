package animgraph

import "testing"

func TestControlParameterSetAndEvaluate(t *testing.T) {
	cp := NewControlParameterNode(0, "Speed", ValueTypeFloat)
	cp.Initialize(nil)
	defer cp.Shutdown(nil)

	if got := cp.Evaluate(nil).Float(); got != 0 {
		t.Errorf("default value = %f, want 0", got)
	}

	cp.Set(FloatValue(3.5))
	if got := cp.Evaluate(nil).Float(); got != 3.5 {
		t.Errorf("after Set, value = %f, want 3.5", got)
	}
}

func TestControlParameterSetTypeMismatchPanics(t *testing.T) {
	cp := NewControlParameterNode(0, "Flag", ValueTypeBool)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on type-mismatched Set")
		}
	}()
	cp.Set(FloatValue(1.0))
}

func TestValueAccessorTypeMismatchPanics(t *testing.T) {
	v := BoolValue(true)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic reading a Float accessor off a Bool value")
		}
	}()
	_ = v.Float()
}

func TestCachedValueNodeOnEntrySamplesOnce(t *testing.T) {
	underlying := &counterValueNode{baseNode: baseNode{index: 1}}
	cached := NewCachedValueNode(2, CachedOnEntry, underlying)

	ctx := &GraphContext{}
	cached.Initialize(ctx)

	first := cached.Evaluate(ctx).Int()
	second := cached.Evaluate(ctx).Int()

	if first != second {
		t.Errorf("CachedOnEntry should freeze its value: first=%d second=%d", first, second)
	}
	if underlying.calls != 1 {
		t.Errorf("underlying.calls = %d, want 1 (sampled once)", underlying.calls)
	}

	cached.Shutdown(ctx)
}

func TestCachedValueNodeOnExitPublishesLastSampleAfterShutdown(t *testing.T) {
	underlying := &counterValueNode{baseNode: baseNode{index: 1}}
	cached := NewCachedValueNode(2, CachedOnExit, underlying)

	ctx := &GraphContext{}
	cached.Initialize(ctx)
	cached.Evaluate(ctx)
	cached.Evaluate(ctx)
	lastBeforeShutdown := underlying.calls

	cached.Shutdown(ctx)
	after := cached.Evaluate(ctx).Int()

	if after != lastBeforeShutdown {
		t.Errorf("post-shutdown Evaluate = %d, want frozen value %d", after, lastBeforeShutdown)
	}
	if underlying.calls != lastBeforeShutdown {
		t.Errorf("underlying should not be touched after shutdown: calls = %d, want %d", underlying.calls, lastBeforeShutdown)
	}
}

// counterValueNode is a minimal ValueNode test double that returns an
// incrementing int each Evaluate call, so tests can detect how many times it
// was actually sampled.
type counterValueNode struct {
	baseNode
	calls int32
}

func (n *counterValueNode) ValueType() GraphValueType { return ValueTypeInt }

func (n *counterValueNode) Initialize(ctx *GraphContext) { n.markInitialized(ctx) }
func (n *counterValueNode) Shutdown(ctx *GraphContext)   { n.markShutdown(ctx) }

func (n *counterValueNode) Evaluate(ctx *GraphContext) Value {
	n.calls++
	return IntValue(n.calls)
}
