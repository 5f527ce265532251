package builder

import (
	"github.com/gogpu/proptree"
)

// containingBlockContext is the geometry state inherited from one kind of
// containing block.
type containingBlockContext struct {
	// paintOffset is the offset of the current box from the origin of
	// transform's space, including any unsnapped remainder.
	paintOffset proptree.Point

	transform *proptree.TransformNode
	clip      *proptree.ClipNode
	scroll    *proptree.ScrollNode

	// renderingContextID is the 3D context children join, or zero.
	renderingContextID uint32

	// shouldFlattenInheritedTransform is the flattening flag for the next
	// transform node created under transform.
	shouldFlattenInheritedTransform bool
}

// paintContext is copied into each recursive call, so changes made for an
// object only reach its descendants.
type paintContext struct {
	// current applies to normal-flow descendants.
	current containingBlockContext

	// absolute applies to absolutely positioned descendants.
	absolute containingBlockContext

	// fixed applies to fixed-position descendants.
	fixed containingBlockContext

	// currentEffect follows the stacking context tree rather than any
	// containing block chain.
	currentEffect *proptree.EffectNode
}

func (c *containingBlockContext) state(effect *proptree.EffectNode) proptree.PropertyTreeState {
	return proptree.PropertyTreeState{
		Transform: c.transform,
		Clip:      c.clip,
		Effect:    effect,
		Scroll:    c.scroll,
	}
}
