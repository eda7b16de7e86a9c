package animgraph

import "testing"

func TestGraphLayerContextBeginEnd(t *testing.T) {
	var layer GraphLayerContext
	if layer.IsSet() {
		t.Fatal("zero-value GraphLayerContext reports IsSet() == true")
	}

	mask := NewBoneMask(2)
	mask.SetWeight(0, 0.5)
	layer.BeginLayer(0.75, mask)

	if !layer.IsSet() {
		t.Error("expected IsSet() == true after BeginLayer")
	}
	if got := layer.Weight(); got != 0.75 {
		t.Errorf("Weight() = %f, want 0.75", got)
	}
	if got := layer.Mask().Weight(0); got != 0.5 {
		t.Errorf("Mask().Weight(0) = %f, want 0.5", got)
	}

	layer.EndLayer()
	if layer.IsSet() {
		t.Error("expected IsSet() == false after EndLayer")
	}
}

func TestGraphContextWithBranchStateReturnsCopy(t *testing.T) {
	ctx := GraphContext{BranchState: BranchActive}

	inactive := ctx.WithBranchState(BranchInactive)
	if inactive.IsActive() {
		t.Error("expected WithBranchState(BranchInactive) to report IsActive() == false")
	}
	if !ctx.IsActive() {
		t.Error("expected the original GraphContext to be unmodified by WithBranchState")
	}
}
