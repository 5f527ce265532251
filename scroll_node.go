package proptree

import (
	"fmt"
	"strings"
)

// MainThreadScrollingReasons is a bitmask of reasons a scroller cannot be
// scrolled off the main thread.
type MainThreadScrollingReasons uint32

// Main thread scrolling reasons.
const (
	// ThreadedScrollingDisabled is set on every scroll node when threaded
	// scrolling is turned off in the settings.
	ThreadedScrollingDisabled MainThreadScrollingReasons = 1 << iota

	// HasBackgroundAttachmentFixedObjects is set on every scroll ancestor of
	// content with background-attachment: fixed.
	HasBackgroundAttachmentFixedObjects

	// HasNonLayerViewportConstrainedObjects is set on scrollers containing
	// fixed-position content that does not get its own transform.
	HasNonLayerViewportConstrainedObjects
)

var reasonNames = []struct {
	reason MainThreadScrollingReasons
	name   string
}{
	{ThreadedScrollingDisabled, "threaded-scrolling-disabled"},
	{HasBackgroundAttachmentFixedObjects, "background-attachment-fixed"},
	{HasNonLayerViewportConstrainedObjects, "non-layer-viewport-constrained"},
}

// Has reports whether all bits of mask are set.
func (r MainThreadScrollingReasons) Has(mask MainThreadScrollingReasons) bool {
	return r&mask == mask
}

func (r MainThreadScrollingReasons) String() string {
	if r == 0 {
		return "none"
	}
	var parts []string
	for _, rn := range reasonNames {
		if r&rn.reason != 0 {
			parts = append(parts, rn.name)
			r &^= rn.reason
		}
	}
	if r != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(r)))
	}
	return strings.Join(parts, "|")
}

// ScrollNodeState is the local data of a ScrollNode.
type ScrollNodeState struct {
	// ScrollOffsetTranslation holds the scroll offset. Its matrix must be
	// the identity or a 2D translation.
	ScrollOffsetTranslation *TransformNode

	// Clip is the size of the scroll container's viewport.
	Clip Size

	// Bounds is the size of the scrollable content. It is usually at least
	// Clip but this is not enforced.
	Bounds Size

	UserScrollableHorizontal bool
	UserScrollableVertical   bool

	MainThreadScrollingReasons MainThreadScrollingReasons
}

// ScrollNode describes a scroll container. Scroll nodes are parented by the
// scroll container of the content's containing block, which is not
// necessarily the DOM parent's.
type ScrollNode struct {
	forest *Forest
	parent *ScrollNode
	state  ScrollNodeState
}

func checkScrollState(state ScrollNodeState, f *Forest) {
	if state.ScrollOffsetTranslation == nil {
		panic("proptree: ScrollNode requires a scroll offset translation")
	}
	checkParent("ScrollNode", state.ScrollOffsetTranslation.forest, f)
	if !state.ScrollOffsetTranslation.Matrix().IsIdentityOr2DTranslation() {
		panic("proptree: ScrollNode offset translation must be a 2D translation")
	}
}

// NewScrollNode creates a scroll node under parent.
func NewScrollNode(parent *ScrollNode, state ScrollNodeState) *ScrollNode {
	if parent == nil {
		checkParent("ScrollNode", nil, nil)
	}
	checkScrollState(state, parent.forest)
	return &ScrollNode{
		forest: parent.forest,
		parent: parent,
		state:  state,
	}
}

// Update mutates the node in place and reports whether anything changed.
// A change limited to the reasons bitmask does not bump the forest epoch.
// Update must not be called on a root node.
func (n *ScrollNode) Update(parent *ScrollNode, state ScrollNodeState) bool {
	if n.IsRoot() {
		panic("proptree: Update called on the root ScrollNode")
	}
	if parent == nil {
		checkParent("ScrollNode", nil, nil)
	}
	checkParent("ScrollNode", parent.forest, n.forest)
	checkScrollState(state, n.forest)
	for p := parent; p != nil; p = p.parent {
		if p == n {
			panic("proptree: ScrollNode cannot be reparented under itself")
		}
	}

	if n.parent == parent && n.state == state {
		return false
	}
	geometry := n.parent != parent || !n.state.sameGeometry(state)
	n.parent = parent
	n.state = state
	if geometry {
		n.forest.invalidate()
	}
	return true
}

// sameGeometry compares everything except the reasons bitmask, which does
// not affect mapped rects.
func (s ScrollNodeState) sameGeometry(other ScrollNodeState) bool {
	s.MainThreadScrollingReasons = other.MainThreadScrollingReasons
	return s == other
}

// Parent returns the parent node, or nil for the root.
func (n *ScrollNode) Parent() *ScrollNode { return n.parent }

// IsRoot reports whether n is the root of its scroll tree.
func (n *ScrollNode) IsRoot() bool { return n.parent == nil }

// State returns the node's local data.
func (n *ScrollNode) State() ScrollNodeState { return n.state }

// ScrollOffsetTranslation returns the node holding the scroll offset.
func (n *ScrollNode) ScrollOffsetTranslation() *TransformNode {
	return n.state.ScrollOffsetTranslation
}

// Offset returns the current scroll offset, the negated translation of the
// scroll offset node.
func (n *ScrollNode) Offset() Point {
	return n.state.ScrollOffsetTranslation.Matrix().Translation2D().Mul(-1)
}

// Clip returns the viewport size.
func (n *ScrollNode) Clip() Size { return n.state.Clip }

// Bounds returns the content size.
func (n *ScrollNode) Bounds() Size { return n.state.Bounds }

// UserScrollableHorizontal reports whether users may scroll horizontally.
func (n *ScrollNode) UserScrollableHorizontal() bool { return n.state.UserScrollableHorizontal }

// UserScrollableVertical reports whether users may scroll vertically.
func (n *ScrollNode) UserScrollableVertical() bool { return n.state.UserScrollableVertical }

// MainThreadScrollingReasons returns the reasons bitmask.
func (n *ScrollNode) MainThreadScrollingReasons() MainThreadScrollingReasons {
	return n.state.MainThreadScrollingReasons
}

// HasMainThreadScrollingReasons reports whether any bit of mask is set.
func (n *ScrollNode) HasMainThreadScrollingReasons(mask MainThreadScrollingReasons) bool {
	return n.state.MainThreadScrollingReasons&mask != 0
}

// AddMainThreadScrollingReasons sets the bits of mask. Reasons do not
// affect geometry, so this does not invalidate geometry caches. Adding
// reasons to a root node is a no-op.
func (n *ScrollNode) AddMainThreadScrollingReasons(mask MainThreadScrollingReasons) {
	if n.IsRoot() {
		return
	}
	n.state.MainThreadScrollingReasons |= mask
}

// Clone returns a detached copy for comparison with Equal.
func (n *ScrollNode) Clone() *ScrollNode {
	c := *n
	return &c
}

// Equal reports whether both nodes have the same parent (by identity) and
// the same local state.
func (n *ScrollNode) Equal(other *ScrollNode) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.parent == other.parent && n.state == other.state
}

func (n *ScrollNode) parentNode() *ScrollNode { return n.parent }

func (n *ScrollNode) String() string {
	if n == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "scroll offset=%v clip=%v bounds=%v", n.Offset(), n.state.Clip, n.state.Bounds)
	switch {
	case n.state.UserScrollableHorizontal && n.state.UserScrollableVertical:
		b.WriteString(" user=xy")
	case n.state.UserScrollableHorizontal:
		b.WriteString(" user=x")
	case n.state.UserScrollableVertical:
		b.WriteString(" user=y")
	}
	if n.state.MainThreadScrollingReasons != 0 {
		fmt.Fprintf(&b, " reasons=%v", n.state.MainThreadScrollingReasons)
	}
	return b.String()
}
