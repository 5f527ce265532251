package proptree

import (
	"fmt"
	"strings"
)

// TransformNodeState is the local data of a TransformNode.
type TransformNodeState struct {
	// Matrix is the local transform. The zero Matrix is treated as the
	// identity.
	Matrix Matrix

	// Origin is the point the matrix is applied around, in the parent's
	// coordinate space.
	Origin Point3

	// FlattensInheritedTransform collapses the accumulated ancestor
	// transform to 2D before this node's matrix is applied.
	FlattensInheritedTransform bool

	// RenderingContextID groups nodes that share a 3D rendering context.
	// Zero means the node is not part of one.
	RenderingContextID uint32
}

func (s TransformNodeState) normalized() TransformNodeState {
	if s.Matrix == (Matrix{}) {
		s.Matrix = Identity()
	}
	return s
}

// TransformNode defines a coordinate space: the local matrix (around
// Origin) maps points in this node's space into its parent's space.
type TransformNode struct {
	forest *Forest
	parent *TransformNode
	state  TransformNodeState
}

// NewTransformNode creates a transform node under parent.
func NewTransformNode(parent *TransformNode, state TransformNodeState) *TransformNode {
	if parent == nil {
		checkParent("TransformNode", nil, nil)
	}
	return &TransformNode{
		forest: parent.forest,
		parent: parent,
		state:  state.normalized(),
	}
}

// Update mutates the node in place, keeping its identity. It reports
// whether anything changed. Update must not be called on a root node.
func (n *TransformNode) Update(parent *TransformNode, state TransformNodeState) bool {
	if n.IsRoot() {
		panic("proptree: Update called on the root TransformNode")
	}
	if parent == nil {
		checkParent("TransformNode", nil, nil)
	}
	checkParent("TransformNode", parent.forest, n.forest)
	for p := parent; p != nil; p = p.parent {
		if p == n {
			panic("proptree: TransformNode cannot be reparented under itself")
		}
	}

	state = state.normalized()
	if n.parent == parent && n.state == state {
		return false
	}
	n.parent = parent
	n.state = state
	n.forest.invalidate()
	return true
}

// Parent returns the parent node, or nil for the root.
func (n *TransformNode) Parent() *TransformNode { return n.parent }

// IsRoot reports whether n is the root of its transform tree.
func (n *TransformNode) IsRoot() bool { return n.parent == nil }

// Forest returns the forest the node belongs to.
func (n *TransformNode) Forest() *Forest { return n.forest }

// State returns the node's local data.
func (n *TransformNode) State() TransformNodeState { return n.state }

// Matrix returns the local matrix.
func (n *TransformNode) Matrix() Matrix { return n.state.Matrix }

// Origin returns the transform origin.
func (n *TransformNode) Origin() Point3 { return n.state.Origin }

// FlattensInheritedTransform reports whether the ancestor transform is
// flattened before this node's matrix applies.
func (n *TransformNode) FlattensInheritedTransform() bool {
	return n.state.FlattensInheritedTransform
}

// RenderingContextID returns the 3D rendering context, or zero.
func (n *TransformNode) RenderingContextID() uint32 { return n.state.RenderingContextID }

// LocalMatrix returns the matrix with the transform origin applied, mapping
// this node's space into its parent's space.
func (n *TransformNode) LocalMatrix() Matrix {
	return n.state.Matrix.ApplyTransformOrigin(n.state.Origin)
}

// Depth returns the number of ancestors of n.
func (n *TransformNode) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Clone returns a detached copy with the same parent and state.
// The copy is only meant for comparison with Equal.
func (n *TransformNode) Clone() *TransformNode {
	c := *n
	return &c
}

// Equal reports whether both nodes have the same parent (by identity) and
// the same local state.
func (n *TransformNode) Equal(other *TransformNode) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.parent == other.parent && n.state == other.state
}

func (n *TransformNode) parentNode() *TransformNode { return n.parent }

func (n *TransformNode) String() string {
	if n == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%v", n.state.Matrix)
	if n.state.Origin != (Point3{}) {
		fmt.Fprintf(&b, " origin=%g,%g,%g", n.state.Origin[0], n.state.Origin[1], n.state.Origin[2])
	}
	if n.state.FlattensInheritedTransform {
		b.WriteString(" flattens")
	}
	if n.state.RenderingContextID != 0 {
		fmt.Fprintf(&b, " context=%d", n.state.RenderingContextID)
	}
	return b.String()
}
