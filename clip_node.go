package proptree

import "fmt"

// ClipNodeState is the local data of a ClipNode.
type ClipNodeState struct {
	// LocalTransformSpace is the space ClipRect is expressed in. Clip rects
	// are never interpreted in an inherited space.
	LocalTransformSpace *TransformNode

	ClipRect RoundedRect
}

// ClipNode restricts painting of descendants to a rounded rectangle.
// The effective clip of a node is the intersection of its rect with all of
// its ancestors' rects, each mapped from its own local transform space.
type ClipNode struct {
	forest *Forest
	parent *ClipNode
	state  ClipNodeState
}

// NewClipNode creates a clip node under parent.
func NewClipNode(parent *ClipNode, state ClipNodeState) *ClipNode {
	if parent == nil {
		checkParent("ClipNode", nil, nil)
	}
	if state.LocalTransformSpace == nil {
		panic("proptree: ClipNode requires a local transform space")
	}
	checkParent("ClipNode", state.LocalTransformSpace.forest, parent.forest)
	return &ClipNode{
		forest: parent.forest,
		parent: parent,
		state:  state,
	}
}

// Update mutates the node in place and reports whether anything changed.
// Update must not be called on a root node.
func (n *ClipNode) Update(parent *ClipNode, state ClipNodeState) bool {
	if n.IsRoot() {
		panic("proptree: Update called on the root ClipNode")
	}
	if parent == nil {
		checkParent("ClipNode", nil, nil)
	}
	if state.LocalTransformSpace == nil {
		panic("proptree: ClipNode requires a local transform space")
	}
	checkParent("ClipNode", parent.forest, n.forest)
	checkParent("ClipNode", state.LocalTransformSpace.forest, n.forest)
	for p := parent; p != nil; p = p.parent {
		if p == n {
			panic("proptree: ClipNode cannot be reparented under itself")
		}
	}

	if n.parent == parent && n.state == state {
		return false
	}
	n.parent = parent
	n.state = state
	n.forest.invalidate()
	return true
}

// Parent returns the parent node, or nil for the root.
func (n *ClipNode) Parent() *ClipNode { return n.parent }

// IsRoot reports whether n is the root of its clip tree.
func (n *ClipNode) IsRoot() bool { return n.parent == nil }

// State returns the node's local data.
func (n *ClipNode) State() ClipNodeState { return n.state }

// LocalTransformSpace returns the transform node ClipRect lives in.
func (n *ClipNode) LocalTransformSpace() *TransformNode { return n.state.LocalTransformSpace }

// ClipRect returns the local clip rectangle.
func (n *ClipNode) ClipRect() RoundedRect { return n.state.ClipRect }

// Clone returns a detached copy for comparison with Equal.
func (n *ClipNode) Clone() *ClipNode {
	c := *n
	return &c
}

// Equal reports whether both nodes have the same parent (by identity) and
// the same local state.
func (n *ClipNode) Equal(other *ClipNode) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.parent == other.parent && n.state == other.state
}

func (n *ClipNode) parentNode() *ClipNode { return n.parent }

func (n *ClipNode) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("clip %v", n.state.ClipRect)
}
