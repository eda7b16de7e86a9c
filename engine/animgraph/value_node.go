package animgraph

import "fmt"

// Target is a world-space pose/transform handed between value nodes and
// pose nodes (e.g. an IK or aim target). It mirrors model.Transform's shape
// rather than importing it, since value nodes never need bone indices.
type Target struct {
	Translation [3]float32
	Rotation    [4]float32
}

// Value is the closed, tagged-union payload a ValueNode produces. Exactly
// one field is meaningful, selected by Type — this stands in for the
// reinterpret_cast-based "GetValue<T>()" pattern the original engine uses,
// which has no clean idiomatic Go equivalent (see DESIGN.md).
type Value struct {
	Type GraphValueType

	boolVal   bool
	intVal    int32
	floatVal  float32
	vectorVal [3]float32
	targetVal Target
	idVal     StringID
	poseVal   NodeIndex
}

func BoolValue(v bool) Value     { return Value{Type: ValueTypeBool, boolVal: v} }
func IntValue(v int32) Value     { return Value{Type: ValueTypeInt, intVal: v} }
func FloatValue(v float32) Value { return Value{Type: ValueTypeFloat, floatVal: v} }
func VectorValue(v [3]float32) Value {
	return Value{Type: ValueTypeVector, vectorVal: v}
}
func TargetValue(v Target) Value { return Value{Type: ValueTypeTarget, targetVal: v} }
func IDValue(v StringID) Value   { return Value{Type: ValueTypeID, idVal: v} }
func PoseValue(v NodeIndex) Value {
	return Value{Type: ValueTypePose, poseVal: v}
}

// mismatch panics describing a type-mismatched accessor call. A mismatch can
// only occur from a definition-time authoring bug (a value node wired into a
// slot of the wrong type), so it is treated like the rest of the arena's
// definition-validity checks: fatal, not a recoverable error.
func (v Value) mismatch(want GraphValueType) {
	panic(fmt.Sprintf("animgraph: value type mismatch: want %s, have %s", want, v.Type))
}

func (v Value) Bool() bool {
	if v.Type != ValueTypeBool {
		v.mismatch(ValueTypeBool)
	}
	return v.boolVal
}

func (v Value) Int() int32 {
	if v.Type != ValueTypeInt {
		v.mismatch(ValueTypeInt)
	}
	return v.intVal
}

func (v Value) Float() float32 {
	if v.Type != ValueTypeFloat {
		v.mismatch(ValueTypeFloat)
	}
	return v.floatVal
}

func (v Value) Vector() [3]float32 {
	if v.Type != ValueTypeVector {
		v.mismatch(ValueTypeVector)
	}
	return v.vectorVal
}

func (v Value) Target() Target {
	if v.Type != ValueTypeTarget {
		v.mismatch(ValueTypeTarget)
	}
	return v.targetVal
}

func (v Value) ID() StringID {
	if v.Type != ValueTypeID {
		v.mismatch(ValueTypeID)
	}
	return v.idVal
}

func (v Value) Pose() NodeIndex {
	if v.Type != ValueTypePose {
		v.mismatch(ValueTypePose)
	}
	return v.poseVal
}

// ValueNode is the capability implemented by every node that produces a
// single Value per evaluation: control parameters, general-purpose value
// expressions, and cached-value wrappers.
type ValueNode interface {
	Node

	// Evaluate computes this node's value for the current frame. Nodes that
	// only change on explicit writes (control parameters) may cache and
	// skip recomputation; nodes wrapping an expression recompute every call.
	Evaluate(ctx *GraphContext) Value

	// ValueType reports the GraphValueType this node always produces.
	ValueType() GraphValueType
}
