package animgraph

// ControlParameterNode is a ValueNode whose value is written externally
// (by game code, once per frame, before evaluation) rather than computed
// from other nodes. It is the sole write-surface GraphInstance exposes to
// its owner.
type ControlParameterNode struct {
	baseNode

	Name      StringID
	valueType GraphValueType
	current   Value
}

// NewControlParameterNode constructs a control parameter of valueType,
// defaulting to its zero Value.
func NewControlParameterNode(index NodeIndex, name StringID, valueType GraphValueType) *ControlParameterNode {
	return &ControlParameterNode{
		baseNode:  baseNode{index: index},
		Name:      name,
		valueType: valueType,
		current:   zeroValue(valueType),
	}
}

func zeroValue(t GraphValueType) Value {
	switch t {
	case ValueTypeBool:
		return BoolValue(false)
	case ValueTypeInt:
		return IntValue(0)
	case ValueTypeFloat:
		return FloatValue(0)
	case ValueTypeVector:
		return VectorValue([3]float32{})
	case ValueTypeTarget:
		return TargetValue(Target{})
	case ValueTypeID:
		return IDValue("")
	case ValueTypePose:
		return PoseValue(InvalidIndex)
	default:
		panic("animgraph: unknown control parameter value type")
	}
}

func (n *ControlParameterNode) Initialize(ctx *GraphContext) {
	n.markInitialized(ctx)
}

func (n *ControlParameterNode) Shutdown(ctx *GraphContext) {
	n.markShutdown(ctx)
}

func (n *ControlParameterNode) ValueType() GraphValueType {
	return n.valueType
}

// Evaluate returns the most recently written value. Control parameters never
// compute anything on their own; their value changes only through Set or
// GraphInstance.Restore.
func (n *ControlParameterNode) Evaluate(ctx *GraphContext) Value {
	return n.current
}

// Set overwrites the control parameter's current value. Panics if v's type
// does not match the parameter's declared ValueType, since a mismatched
// write can only come from an authoring bug in the owning code.
func (n *ControlParameterNode) Set(v Value) {
	if v.Type != n.valueType {
		v.mismatch(n.valueType)
	}
	n.current = v
}
