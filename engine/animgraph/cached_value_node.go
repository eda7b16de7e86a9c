package animgraph

// CachedValueMode selects when a CachedValueNode (re)samples its input.
type CachedValueMode int

const (
	// CachedOnEntry samples the input once, the first Evaluate call after
	// Initialize, and holds that value until Shutdown.
	CachedOnEntry CachedValueMode = iota

	// CachedOnExit samples the input continuously but only publishes the
	// last-sampled value at Shutdown, for reads that happen after the node
	// has already been torn down this frame (e.g. a transition reading the
	// state it's leaving's exit value).
	CachedOnExit
)

// CachedValueNode wraps another ValueNode and freezes its output at entry or
// exit, rather than recomputing it every Evaluate call. This
// is how a transition can read "the value my source state had when it was
// entered" even after that state's own nodes have moved on.
type CachedValueNode struct {
	baseNode

	Mode  CachedValueMode
	Input ValueNode

	sampled  bool
	cached   Value
	lastSeen Value
}

// NewCachedValueNode constructs a CachedValueNode wrapping input, sampled
// according to mode.
func NewCachedValueNode(index NodeIndex, mode CachedValueMode, input ValueNode) *CachedValueNode {
	return &CachedValueNode{
		baseNode: baseNode{index: index},
		Mode:     mode,
		Input:    input,
	}
}

func (n *CachedValueNode) ValueType() GraphValueType {
	return n.Input.ValueType()
}

func (n *CachedValueNode) Initialize(ctx *GraphContext) {
	n.markInitialized(ctx)
	n.sampled = false
	if !n.Input.IsInitialized() {
		n.Input.Initialize(ctx)
	}
}

// Shutdown tears down the wrapped input and, in CachedOnExit mode, publishes
// the last value sampled while the input was still live.
func (n *CachedValueNode) Shutdown(ctx *GraphContext) {
	if n.Mode == CachedOnExit {
		n.cached = n.lastSeen
		n.sampled = true
	}
	if n.Input.IsInitialized() {
		n.Input.Shutdown(ctx)
	}
	n.markShutdown(ctx)
}

// Evaluate returns the frozen value for CachedOnEntry (sampling on the very
// first call after Initialize), or the input's live value for CachedOnExit
// (tracked so Shutdown can publish the final one).
func (n *CachedValueNode) Evaluate(ctx *GraphContext) Value {
	if !n.IsInitialized() {
		// Shut down this frame (or earlier): serve the frozen snapshot
		// rather than touching an already-torn-down input node.
		return n.cached
	}

	switch n.Mode {
	case CachedOnEntry:
		if !n.sampled {
			n.cached = n.Input.Evaluate(ctx)
			n.sampled = true
		}
		return n.cached
	case CachedOnExit:
		n.lastSeen = n.Input.Evaluate(ctx)
		return n.lastSeen
	default:
		panic("animgraph: unknown cached value mode")
	}
}
