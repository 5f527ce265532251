package proptree

// ObjectPaintProperties holds the property nodes a single renderable object
// originates, plus the cached property tree state of its border box.
//
// Each slot is either nil (the object does not originate that property;
// callers must check) or a node owned by this object. UpdateX creates the
// node on first use and updates it in place afterwards, so node identity is
// stable while the object keeps needing it. ClearX drops the slot without
// touching the others.
//
// The slots, outermost first:
//
//	PaintOffsetTranslation   translation to the object's snapped paint offset
//	Transform                CSS transform
//	Effect                   opacity and filters
//	CSSClip                  CSS clip property
//	CSSClipFixedPosition     CSS clip for fixed-position descendants
//	InnerBorderRadiusClip    rounded padding box clip
//	OverflowClip             overflow clip, excluding scrollbars
//	Perspective              CSS perspective
//	SVGLocalToBorderBoxTransform  viewBox mapping of an SVG root
//	ScrollTranslation        negated scroll offset
//	ScrollbarPaintOffset     snapped paint offset for scrollbars
//	Scroll                   scroll container
type ObjectPaintProperties struct {
	paintOffsetTranslation       *TransformNode
	transform                    *TransformNode
	effect                       *EffectNode
	cssClip                      *ClipNode
	cssClipFixedPosition         *ClipNode
	innerBorderRadiusClip        *ClipNode
	overflowClip                 *ClipNode
	perspective                  *TransformNode
	svgLocalToBorderBoxTransform *TransformNode
	scrollTranslation            *TransformNode
	scrollbarPaintOffset         *TransformNode
	scroll                       *ScrollNode

	localBorderBox *PropertyTreeStateWithOffset
	contents       *PropertyTreeStateWithOffset
}

// NewObjectPaintProperties returns an empty property set.
func NewObjectPaintProperties() *ObjectPaintProperties {
	return &ObjectPaintProperties{}
}

// PaintOffsetTranslation returns the paint offset translation, or nil.
func (p *ObjectPaintProperties) PaintOffsetTranslation() *TransformNode {
	return p.paintOffsetTranslation
}

// Transform returns the CSS transform node, or nil.
func (p *ObjectPaintProperties) Transform() *TransformNode { return p.transform }

// Effect returns the effect node, or nil.
func (p *ObjectPaintProperties) Effect() *EffectNode { return p.effect }

// CSSClip returns the CSS clip node, or nil.
func (p *ObjectPaintProperties) CSSClip() *ClipNode { return p.cssClip }

// CSSClipFixedPosition returns the CSS clip variant for fixed-position
// descendants, or nil.
func (p *ObjectPaintProperties) CSSClipFixedPosition() *ClipNode { return p.cssClipFixedPosition }

// InnerBorderRadiusClip returns the rounded inner border clip, or nil.
func (p *ObjectPaintProperties) InnerBorderRadiusClip() *ClipNode { return p.innerBorderRadiusClip }

// OverflowClip returns the overflow clip, or nil.
func (p *ObjectPaintProperties) OverflowClip() *ClipNode { return p.overflowClip }

// Perspective returns the perspective node, or nil.
func (p *ObjectPaintProperties) Perspective() *TransformNode { return p.perspective }

// SVGLocalToBorderBoxTransform returns the SVG root viewBox transform, or nil.
func (p *ObjectPaintProperties) SVGLocalToBorderBoxTransform() *TransformNode {
	return p.svgLocalToBorderBoxTransform
}

// ScrollTranslation returns the scroll offset translation, or nil.
func (p *ObjectPaintProperties) ScrollTranslation() *TransformNode { return p.scrollTranslation }

// ScrollbarPaintOffset returns the scrollbar paint offset node, or nil.
func (p *ObjectPaintProperties) ScrollbarPaintOffset() *TransformNode {
	return p.scrollbarPaintOffset
}

// Scroll returns the scroll node, or nil.
func (p *ObjectPaintProperties) Scroll() *ScrollNode { return p.scroll }

// HasAny reports whether any node slot is populated.
func (p *ObjectPaintProperties) HasAny() bool {
	return p.paintOffsetTranslation != nil || p.transform != nil || p.effect != nil ||
		p.cssClip != nil || p.cssClipFixedPosition != nil || p.innerBorderRadiusClip != nil ||
		p.overflowClip != nil || p.perspective != nil || p.svgLocalToBorderBoxTransform != nil ||
		p.scrollTranslation != nil || p.scrollbarPaintOffset != nil || p.scroll != nil
}

func updateTransformSlot(slot **TransformNode, parent *TransformNode, state TransformNodeState) bool {
	if *slot != nil {
		(*slot).Update(parent, state)
		return false
	}
	*slot = NewTransformNode(parent, state)
	return true
}

func updateClipSlot(slot **ClipNode, parent *ClipNode, state ClipNodeState) bool {
	if *slot != nil {
		(*slot).Update(parent, state)
		return false
	}
	*slot = NewClipNode(parent, state)
	return true
}

func clearTransformSlot(slot **TransformNode) bool {
	if *slot == nil {
		return false
	}
	*slot = nil
	return true
}

func clearClipSlot(slot **ClipNode) bool {
	if *slot == nil {
		return false
	}
	*slot = nil
	return true
}

// The UpdateX methods report whether a new node was created, which changes
// the identity seen by descendants. The ClearX methods report whether a
// node was removed.

func (p *ObjectPaintProperties) UpdatePaintOffsetTranslation(parent *TransformNode, state TransformNodeState) bool {
	p.contents = nil
	return updateTransformSlot(&p.paintOffsetTranslation, parent, state)
}

func (p *ObjectPaintProperties) UpdateTransform(parent *TransformNode, state TransformNodeState) bool {
	p.contents = nil
	return updateTransformSlot(&p.transform, parent, state)
}

func (p *ObjectPaintProperties) UpdatePerspective(parent *TransformNode, state TransformNodeState) bool {
	p.contents = nil
	return updateTransformSlot(&p.perspective, parent, state)
}

func (p *ObjectPaintProperties) UpdateSVGLocalToBorderBoxTransform(parent *TransformNode, state TransformNodeState) bool {
	p.contents = nil
	return updateTransformSlot(&p.svgLocalToBorderBoxTransform, parent, state)
}

func (p *ObjectPaintProperties) UpdateScrollTranslation(parent *TransformNode, state TransformNodeState) bool {
	p.contents = nil
	return updateTransformSlot(&p.scrollTranslation, parent, state)
}

func (p *ObjectPaintProperties) UpdateScrollbarPaintOffset(parent *TransformNode, state TransformNodeState) bool {
	return updateTransformSlot(&p.scrollbarPaintOffset, parent, state)
}

func (p *ObjectPaintProperties) UpdateEffect(parent *EffectNode, state EffectNodeState) bool {
	if p.effect != nil {
		p.effect.Update(parent, state)
		return false
	}
	p.effect = NewEffectNode(parent, state)
	return true
}

func (p *ObjectPaintProperties) UpdateCSSClip(parent *ClipNode, state ClipNodeState) bool {
	p.contents = nil
	return updateClipSlot(&p.cssClip, parent, state)
}

func (p *ObjectPaintProperties) UpdateCSSClipFixedPosition(parent *ClipNode, state ClipNodeState) bool {
	return updateClipSlot(&p.cssClipFixedPosition, parent, state)
}

func (p *ObjectPaintProperties) UpdateInnerBorderRadiusClip(parent *ClipNode, state ClipNodeState) bool {
	p.contents = nil
	return updateClipSlot(&p.innerBorderRadiusClip, parent, state)
}

func (p *ObjectPaintProperties) UpdateOverflowClip(parent *ClipNode, state ClipNodeState) bool {
	p.contents = nil
	return updateClipSlot(&p.overflowClip, parent, state)
}

func (p *ObjectPaintProperties) UpdateScroll(parent *ScrollNode, state ScrollNodeState) bool {
	p.contents = nil
	if p.scroll != nil {
		p.scroll.Update(parent, state)
		return false
	}
	p.scroll = NewScrollNode(parent, state)
	return true
}

func (p *ObjectPaintProperties) ClearPaintOffsetTranslation() bool {
	p.contents = nil
	return clearTransformSlot(&p.paintOffsetTranslation)
}

func (p *ObjectPaintProperties) ClearTransform() bool {
	p.contents = nil
	return clearTransformSlot(&p.transform)
}

func (p *ObjectPaintProperties) ClearPerspective() bool {
	p.contents = nil
	return clearTransformSlot(&p.perspective)
}

func (p *ObjectPaintProperties) ClearSVGLocalToBorderBoxTransform() bool {
	p.contents = nil
	return clearTransformSlot(&p.svgLocalToBorderBoxTransform)
}

func (p *ObjectPaintProperties) ClearScrollTranslation() bool {
	p.contents = nil
	return clearTransformSlot(&p.scrollTranslation)
}

func (p *ObjectPaintProperties) ClearScrollbarPaintOffset() bool {
	return clearTransformSlot(&p.scrollbarPaintOffset)
}

func (p *ObjectPaintProperties) ClearEffect() bool {
	if p.effect == nil {
		return false
	}
	p.effect = nil
	return true
}

func (p *ObjectPaintProperties) ClearCSSClip() bool {
	p.contents = nil
	return clearClipSlot(&p.cssClip)
}

func (p *ObjectPaintProperties) ClearCSSClipFixedPosition() bool {
	return clearClipSlot(&p.cssClipFixedPosition)
}

func (p *ObjectPaintProperties) ClearInnerBorderRadiusClip() bool {
	p.contents = nil
	return clearClipSlot(&p.innerBorderRadiusClip)
}

func (p *ObjectPaintProperties) ClearOverflowClip() bool {
	p.contents = nil
	return clearClipSlot(&p.overflowClip)
}

func (p *ObjectPaintProperties) ClearScroll() bool {
	p.contents = nil
	if p.scroll == nil {
		return false
	}
	p.scroll = nil
	return true
}

// SetLocalBorderBoxProperties records the paint offset and state the
// object's own border box paints in.
func (p *ObjectPaintProperties) SetLocalBorderBoxProperties(props PropertyTreeStateWithOffset) {
	if p.localBorderBox != nil && *p.localBorderBox == props {
		return
	}
	p.localBorderBox = &props
	p.contents = nil
}

// ClearLocalBorderBoxProperties forgets the border box state.
func (p *ObjectPaintProperties) ClearLocalBorderBoxProperties() {
	p.localBorderBox = nil
	p.contents = nil
}

// LocalBorderBoxProperties returns the border box paint offset and state,
// or nil if they were never set.
func (p *ObjectPaintProperties) LocalBorderBoxProperties() *PropertyTreeStateWithOffset {
	return p.localBorderBox
}

// ContentsProperties returns the paint offset and state the object's
// contents (children, scrolled content) paint in, derived from the border
// box state by substituting the innermost clip, scroll translation and
// scroll node this object originates. It returns nil when the border box
// state was never set.
func (p *ObjectPaintProperties) ContentsProperties() *PropertyTreeStateWithOffset {
	if p.localBorderBox == nil {
		return nil
	}
	if p.contents != nil {
		return p.contents
	}

	contents := *p.localBorderBox
	switch {
	case p.scrollTranslation != nil:
		contents.State.Transform = p.scrollTranslation
	case p.svgLocalToBorderBoxTransform != nil:
		contents.State.Transform = p.svgLocalToBorderBoxTransform
	case p.perspective != nil:
		contents.State.Transform = p.perspective
	}
	// The SVG transform already includes the paint offset, also when a
	// scroll translation sits below it.
	if p.svgLocalToBorderBoxTransform != nil {
		contents.PaintOffset = Point{}
	}

	switch {
	case p.overflowClip != nil:
		contents.State.Clip = p.overflowClip
	case p.innerBorderRadiusClip != nil:
		contents.State.Clip = p.innerBorderRadiusClip
	case p.cssClip != nil:
		contents.State.Clip = p.cssClip
	}

	if p.scroll != nil {
		contents.State.Scroll = p.scroll
	}

	p.contents = &contents
	return p.contents
}

// Clone returns a shallow copy sharing the same node pointers. It is used
// by verification tooling to remember which nodes an object held.
func (p *ObjectPaintProperties) Clone() *ObjectPaintProperties {
	c := *p
	c.contents = nil
	if p.localBorderBox != nil {
		lbb := *p.localBorderBox
		c.localBorderBox = &lbb
	}
	return &c
}
