package proptree

import (
	"fmt"
	"strings"
)

// EffectNodeState is the local data of an EffectNode.
type EffectNodeState struct {
	// LocalTransformSpace is the space filters are applied in.
	LocalTransformSpace *TransformNode

	// OutputClip clips the composited result of the effect.
	OutputClip *ClipNode

	Filters FilterOperations

	// Opacity is in the range [0, 1].
	Opacity float64
}

func (s EffectNodeState) equal(other EffectNodeState) bool {
	return s.LocalTransformSpace == other.LocalTransformSpace &&
		s.OutputClip == other.OutputClip &&
		s.Opacity == other.Opacity &&
		s.Filters.Equal(other.Filters)
}

// EffectNode is an isolated compositing group (opacity, filters). The
// effect tree follows the stacking context tree, not the DOM tree.
type EffectNode struct {
	forest *Forest
	parent *EffectNode
	state  EffectNodeState
}

// NewEffectNode creates an effect node under parent.
func NewEffectNode(parent *EffectNode, state EffectNodeState) *EffectNode {
	if parent == nil {
		checkParent("EffectNode", nil, nil)
	}
	state = state.normalized(parent.forest)
	state.checkForest(parent.forest)
	return &EffectNode{
		forest: parent.forest,
		parent: parent,
		state:  state,
	}
}

// checkForest panics when a space belongs to another forest.
func (s EffectNodeState) checkForest(f *Forest) {
	checkParent("EffectNode", s.LocalTransformSpace.forest, f)
	checkParent("EffectNode", s.OutputClip.forest, f)
}

// normalized fills missing spaces with the forest roots, clamps opacity and
// copies the filter list so callers cannot mutate it afterwards.
func (s EffectNodeState) normalized(f *Forest) EffectNodeState {
	if s.LocalTransformSpace == nil {
		s.LocalTransformSpace = f.transform
	}
	if s.OutputClip == nil {
		s.OutputClip = f.clip
	}
	switch {
	case s.Opacity < 0:
		s.Opacity = 0
	case s.Opacity > 1:
		s.Opacity = 1
	}
	if len(s.Filters) > 0 {
		s.Filters = append(FilterOperations(nil), s.Filters...)
	}
	return s
}

// Update mutates the node in place and reports whether anything changed.
// Update must not be called on a root node.
func (n *EffectNode) Update(parent *EffectNode, state EffectNodeState) bool {
	if n.IsRoot() {
		panic("proptree: Update called on the root EffectNode")
	}
	if parent == nil {
		checkParent("EffectNode", nil, nil)
	}
	checkParent("EffectNode", parent.forest, n.forest)
	for p := parent; p != nil; p = p.parent {
		if p == n {
			panic("proptree: EffectNode cannot be reparented under itself")
		}
	}

	state = state.normalized(n.forest)
	state.checkForest(n.forest)
	if n.parent == parent && n.state.equal(state) {
		return false
	}
	n.parent = parent
	n.state = state
	n.forest.invalidate()
	return true
}

// Parent returns the parent node, or nil for the root.
func (n *EffectNode) Parent() *EffectNode { return n.parent }

// IsRoot reports whether n is the root of its effect tree.
func (n *EffectNode) IsRoot() bool { return n.parent == nil }

// State returns the node's local data. The filter list must not be modified.
func (n *EffectNode) State() EffectNodeState { return n.state }

// LocalTransformSpace returns the space filters apply in.
func (n *EffectNode) LocalTransformSpace() *TransformNode { return n.state.LocalTransformSpace }

// OutputClip returns the clip applied to the effect output.
func (n *EffectNode) OutputClip() *ClipNode { return n.state.OutputClip }

// Filters returns the filter list.
func (n *EffectNode) Filters() FilterOperations { return n.state.Filters }

// Opacity returns the local opacity.
func (n *EffectNode) Opacity() float64 { return n.state.Opacity }

// AccumulatedOpacity multiplies the opacity of n and all its ancestors.
func (n *EffectNode) AccumulatedOpacity() float64 {
	opacity := 1.0
	for e := n; e != nil; e = e.parent {
		opacity *= e.state.Opacity
	}
	return opacity
}

// Clone returns a detached copy for comparison with Equal.
func (n *EffectNode) Clone() *EffectNode {
	c := *n
	return &c
}

// Equal reports whether both nodes have the same parent (by identity) and
// the same local state.
func (n *EffectNode) Equal(other *EffectNode) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.parent == other.parent && n.state.equal(other.state)
}

func (n *EffectNode) parentNode() *EffectNode { return n.parent }

func (n *EffectNode) String() string {
	if n == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "opacity=%g", n.state.Opacity)
	if !n.state.Filters.IsEmpty() {
		fmt.Fprintf(&b, " filter=%v", n.state.Filters)
	}
	return b.String()
}
