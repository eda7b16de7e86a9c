package animgraph

import "github.com/Carmen-Shannon/oxy-animgraph-go/engine/model"

// BranchState tracks whether a graph branch is actively contributing to the
// final pose this frame. Inactive branches still get updated (so cached
// timers/transitions keep ticking) but their sampled events are marked
// ignored-for-transition and their pose contribution is discarded by the
// parent blend.
type BranchState int

const (
	BranchActive BranchState = iota
	BranchInactive
)

// GraphLayerContext carries the layer weight and optional bone mask a
// GraphInstance's layered sub-graphs were instantiated with. A zero-value GraphLayerContext denotes the
// base, unmasked layer.
type GraphLayerContext struct {
	isSet  bool
	weight float32
	mask   BoneMask
}

// BeginLayer configures ctx as a non-base layer with the given weight and
// bone mask.
func (ctx *GraphLayerContext) BeginLayer(weight float32, mask BoneMask) {
	ctx.isSet = true
	ctx.weight = weight
	ctx.mask = mask
}

// EndLayer clears ctx back to the unset base layer.
func (ctx *GraphLayerContext) EndLayer() {
	*ctx = GraphLayerContext{}
}

// IsSet reports whether ctx describes a layer (as opposed to the base graph).
func (ctx *GraphLayerContext) IsSet() bool {
	return ctx.isSet
}

// Weight returns the layer's blend weight, meaningless unless IsSet.
func (ctx *GraphLayerContext) Weight() float32 {
	return ctx.weight
}

// Mask returns the layer's bone mask, meaningless unless IsSet.
func (ctx *GraphLayerContext) Mask() BoneMask {
	return ctx.mask
}

// GraphContext is the per-frame environment threaded through every node's
// Update/Evaluate call: the frame's delta time, the owning skeleton, the
// shared sampled-events buffer, the task system pose nodes register work
// with, and the current branch/layer state. GraphInstance.EvaluateGraph
// builds a fresh GraphContext for every call; callers must not retain
// pointers into it past the frame that produced it.
type GraphContext struct {
	DeltaTime float64
	Skeleton  *model.Skeleton

	Events *SampledEventsBuffer
	Tasks  TaskSystem
	Scene  PhysicsScene

	BranchState BranchState
	Layer       GraphLayerContext

	// StartWorldTransform is the character's world placement at the start
	// of this frame's evaluation, as handed to GraphInstance.EvaluateGraph
	// — available to anything that needs to reason about world space
	// before root motion for this frame has been applied (e.g. a physics
	// query seeded from the character's current position).
	StartWorldTransform Transform

	// DevTools reports whether the owning GraphInstance was built with
	// development tooling enabled. Conditions that would assert in a
	// development build but degrade gracefully in release (see
	// ErrBadForceTransition) branch on this.
	DevTools bool
}

// WithBranchState returns a copy of ctx with its branch state overridden,
// used when a parent node evaluates a child it knows is inactive this frame
// (e.g. the branch a forced transition is discarding).
func (ctx GraphContext) WithBranchState(state BranchState) GraphContext {
	ctx.BranchState = state
	return ctx
}

// IsActive reports whether the current branch contributes to the final pose.
func (ctx GraphContext) IsActive() bool {
	return ctx.BranchState == BranchActive
}
