package animgraph

// NodeSettings is the definition-time description of a single arena slot:
// what kind of node to build, and the indices of whatever children it needs
// wired up at instantiation. Build receives the InstantiationContext so it
// can resolve children that were declared earlier in GraphDefinition.Nodes.
type NodeSettings struct {
	Index NodeIndex
	Build func(ctx *InstantiationContext) Node
}

// GraphDefinition is the immutable, shareable description of a graph: an
// ordered table of NodeSettings plus which indices are control parameters
// (the only nodes GraphInstance exposes writes to). Multiple GraphInstances
// can share one GraphDefinition.
type GraphDefinition struct {
	Nodes             []NodeSettings
	ControlParameters map[StringID]NodeIndex
	PersistentNodeIdx NodeIndex // the node Update is called on every frame

	// ExternalSlots declares the named attachment points a GraphInstance
	// built from this definition exposes for nesting another instance
	// under a control parameter's control.
	ExternalSlots []StringID
}

// InstantiationContext threads the under-construction node arena through
// each NodeSettings.Build call so a node can resolve its children by index
// as it is built.
type InstantiationContext struct {
	arena []Node
}

// NodeAt resolves idx to an already-built node. Settings must be ordered so
// a node's children are built before it (leaves first); graph authors are
// responsible for declaring Nodes in that order.
func (ic *InstantiationContext) NodeAt(idx NodeIndex) Node {
	if !idx.IsValid() {
		return nil
	}
	if int(idx) < 0 || int(idx) >= len(ic.arena) {
		panic(&DefinitionError{Reason: "node index out of range during instantiation"})
	}
	n := ic.arena[idx]
	if n == nil {
		panic(&DefinitionError{Reason: "node referenced before it was instantiated (children must precede parents)"})
	}
	return n
}

// PoseNodeAt resolves idx to a node and asserts it implements PoseNode,
// panicking with a DefinitionError if the arena slot is some other kind —
// an authoring bug (wiring a value node where a pose node was expected)
// rather than a recoverable runtime condition.
func (ic *InstantiationContext) PoseNodeAt(idx NodeIndex) PoseNode {
	n := ic.NodeAt(idx)
	if n == nil {
		return nil
	}
	pn, ok := n.(PoseNode)
	if !ok {
		panic(&DefinitionError{Reason: "node index does not resolve to a pose node"})
	}
	return pn
}

// ValueNodeAt resolves idx to a node and asserts it implements ValueNode.
func (ic *InstantiationContext) ValueNodeAt(idx NodeIndex) ValueNode {
	n := ic.NodeAt(idx)
	if n == nil {
		return nil
	}
	vn, ok := n.(ValueNode)
	if !ok {
		panic(&DefinitionError{Reason: "node index does not resolve to a value node"})
	}
	return vn
}

// Instantiate builds a fresh, independent arena of live nodes from def. Each
// GraphInstance owns exactly one such arena; multiple instances never share
// node objects even when they share a GraphDefinition.
func (def *GraphDefinition) Instantiate() (arena []Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			if de, ok := r.(*DefinitionError); ok {
				err = de
				return
			}
			panic(r)
		}
	}()

	if len(def.Nodes) == 0 {
		return nil, &DefinitionError{Reason: "graph definition has no nodes"}
	}

	ic := &InstantiationContext{arena: make([]Node, len(def.Nodes))}
	for _, settings := range def.Nodes {
		if settings.Index < 0 || int(settings.Index) >= len(ic.arena) {
			return nil, &DefinitionError{Reason: "node settings index out of bounds for arena size"}
		}
		node := settings.Build(ic)
		if node == nil {
			return nil, &DefinitionError{Reason: "node builder returned nil"}
		}
		ic.arena[settings.Index] = node
	}

	for i, n := range ic.arena {
		if n == nil {
			_ = i
			return nil, &DefinitionError{Reason: "arena has an unfilled node slot after instantiation"}
		}
	}

	if !def.PersistentNodeIdx.IsValid() || int(def.PersistentNodeIdx) >= len(ic.arena) {
		return nil, &DefinitionError{Reason: "persistent (root) node index invalid"}
	}

	return ic.arena, nil
}
