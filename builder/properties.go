package builder

import (
	"github.com/gogpu/proptree"
	"github.com/gogpu/proptree/layout"
)

// ---------------------------------------------------------------------------
// Properties applying to the object itself
// ---------------------------------------------------------------------------

// updatePaintOffset selects the containing block context for o's
// positioning scheme and moves the paint offset to o's border box.
// Column spanners get no special treatment: their Location is used as is.
func (b *Builder) updatePaintOffset(o *layout.Object, ctx *paintContext) {
	if !o.IsBox() {
		return
	}
	switch o.Style.Position {
	case layout.PositionAbsolute:
		ctx.current = ctx.absolute
	case layout.PositionFixed:
		ctx.current = ctx.fixed
	}
	ctx.current.paintOffset = ctx.current.paintOffset.Add(o.Location)
}

// updatePaintOffsetTranslation moves a transformed box onto a whole pixel
// so its transform applies around a snapped origin. The remainder is
// carried in the paint offset.
func (b *Builder) updatePaintOffsetTranslation(o *layout.Object, props *proptree.ObjectPaintProperties, ctx *paintContext) {
	offset := ctx.current.paintOffset
	if !o.IsBox() || !o.Style.HasTransformRelatedProperty() || offset.IsZero() {
		props.ClearPaintOffsetTranslation()
		return
	}

	snapped := offset.Round()
	props.UpdatePaintOffsetTranslation(ctx.current.transform, proptree.TransformNodeState{
		Matrix:                     proptree.Translate(snapped.X, snapped.Y),
		FlattensInheritedTransform: ctx.current.shouldFlattenInheritedTransform,
		RenderingContextID:         ctx.current.renderingContextID,
	})
	ctx.current.transform = props.PaintOffsetTranslation()
	if b.opts.subpixelAccumulation {
		ctx.current.paintOffset = offset.Sub(snapped)
	} else {
		ctx.current.paintOffset = proptree.Point{}
	}
}

// updateTransformForNonRootSVG applies the local transform of elements
// inside an SVG root. They do not use paint offsets.
func (b *Builder) updateTransformForNonRootSVG(o *layout.Object, props *proptree.ObjectPaintProperties, ctx *paintContext) {
	if o.Kind != layout.KindSVGChild {
		return
	}
	m := o.SVGTransform
	if m == (proptree.Matrix{}) || m.IsIdentity() {
		props.ClearTransform()
		return
	}
	props.UpdateTransform(ctx.current.transform, proptree.TransformNodeState{
		Matrix:                     m,
		FlattensInheritedTransform: ctx.current.shouldFlattenInheritedTransform,
		RenderingContextID:         ctx.current.renderingContextID,
	})
	ctx.current.transform = props.Transform()
}

// updateTransform creates the CSS transform node. Only direct children of
// a preserve-3d box join its rendering context; everything else flattens.
func (b *Builder) updateTransform(o *layout.Object, props *proptree.ObjectPaintProperties, ctx *paintContext) {
	if !o.IsBox() {
		return
	}
	style := &o.Style
	if !style.HasTransform() && !style.Preserves3D() {
		props.ClearTransform()
		ctx.current.renderingContextID = 0
		ctx.current.shouldFlattenInheritedTransform = true
		return
	}

	box := o.BorderBoxRect().Move(ctx.current.paintOffset)
	renderingContextID := ctx.current.renderingContextID
	var childContextID uint32
	if style.Preserves3D() {
		if renderingContextID == 0 {
			renderingContextID = b.renderingContextID(o)
		}
		childContextID = renderingContextID
	}

	props.UpdateTransform(ctx.current.transform, proptree.TransformNodeState{
		Matrix:                     style.Transform.Matrix(o.Size),
		Origin:                     style.TransformOrigin.Resolve(box),
		FlattensInheritedTransform: ctx.current.shouldFlattenInheritedTransform,
		RenderingContextID:         renderingContextID,
	})
	ctx.current.transform = props.Transform()
	ctx.current.renderingContextID = childContextID
	ctx.current.shouldFlattenInheritedTransform = !style.Preserves3D()
}

// updateEffect creates an effect node for boxes with opacity or filters,
// parented to the nearest ancestor effect.
func (b *Builder) updateEffect(o *layout.Object, props *proptree.ObjectPaintProperties, ctx *paintContext) {
	if !o.Style.HasOpacityOrFilter() {
		props.ClearEffect()
		return
	}
	props.UpdateEffect(ctx.currentEffect, proptree.EffectNodeState{
		LocalTransformSpace: ctx.current.transform,
		OutputClip:          ctx.current.clip,
		Filters:             o.Style.Filters,
		Opacity:             o.Style.Opacity,
	})
	ctx.currentEffect = props.Effect()
}

// updateCSSClip applies the CSS clip property, which clips the box itself
// as well as its descendants.
func (b *Builder) updateCSSClip(o *layout.Object, props *proptree.ObjectPaintProperties, ctx *paintContext) {
	clip := o.Style.Clip
	if clip == nil || !o.IsBox() {
		props.ClearCSSClip()
		return
	}
	if !o.Style.IsOutOfFlowPositioned() {
		proptree.Logger().Debug("clip ignored on box that is not absolutely positioned", "object", o.Name)
		props.ClearCSSClip()
		return
	}
	props.UpdateCSSClip(ctx.current.clip, proptree.ClipNodeState{
		LocalTransformSpace: ctx.current.transform,
		ClipRect:            proptree.NewRoundedRect(clip.Move(ctx.current.paintOffset)),
	})
	ctx.current.clip = props.CSSClip()
}

// updateLocalBorderBoxContext records the state o's border box paints in.
// SVG content is positioned by its transform alone.
func (b *Builder) updateLocalBorderBoxContext(o *layout.Object, props *proptree.ObjectPaintProperties, ctx *paintContext) {
	var offset proptree.Point
	switch {
	case o.IsBox():
		offset = ctx.current.paintOffset
	case o.Kind == layout.KindSVGChild:
	default:
		props.ClearLocalBorderBoxProperties()
		return
	}
	props.SetLocalBorderBoxProperties(proptree.PropertyTreeStateWithOffset{
		PaintOffset: offset,
		State:       ctx.current.state(ctx.currentEffect),
	})
}

// updateScrollbarPaintOffset gives scrollbars a snapped translation of
// their own, since they are painted outside the scrolled contents.
func (b *Builder) updateScrollbarPaintOffset(o *layout.Object, props *proptree.ObjectPaintProperties, ctx *paintContext) {
	if o.HasScrollbars() {
		snapped := ctx.current.paintOffset.Round()
		if !snapped.IsZero() {
			props.UpdateScrollbarPaintOffset(ctx.current.transform, proptree.TransformNodeState{
				Matrix: proptree.Translate(snapped.X, snapped.Y),
			})
			return
		}
	}
	props.ClearScrollbarPaintOffset()
}

// updateMainThreadScrollingReasons adds content-derived reasons to the
// scroll nodes that scroll o.
func (b *Builder) updateMainThreadScrollingReasons(o *layout.Object, ctx *paintContext) {
	if o.Style.BackgroundAttachment == layout.BackgroundAttachmentFixed {
		for s := ctx.current.scroll; s != nil && !s.IsRoot(); s = s.Parent() {
			s.AddMainThreadScrollingReasons(proptree.HasBackgroundAttachmentFixedObjects)
		}
	}
	if o.IsBox() && o.Style.Position == layout.PositionFixed && !o.Style.HasTransformRelatedProperty() {
		b.frame.Properties.Scroll.AddMainThreadScrollingReasons(proptree.HasNonLayerViewportConstrainedObjects)
	}
}

// ---------------------------------------------------------------------------
// Properties applying to the object's descendants
// ---------------------------------------------------------------------------

// updateOverflowClip clips descendants to the padding box minus
// scrollbars, and to the rounded inner border when the box has rounded
// corners.
func (b *Builder) updateOverflowClip(o *layout.Object, props *proptree.ObjectPaintProperties, ctx *paintContext) {
	if !o.IsScrollContainer() {
		props.ClearInnerBorderRadiusClip()
		props.ClearOverflowClip()
		return
	}

	offset := ctx.current.paintOffset
	parent := ctx.current.clip
	style := &o.Style
	if !style.BorderRadius.IsZero() {
		outer := style.BorderRadius.Constrain(o.Size)
		inner := proptree.RoundedRect{
			Rect:  o.PaddingBoxRect().Move(offset),
			Radii: outer.Shrink(style.BorderWidths),
		}
		props.UpdateInnerBorderRadiusClip(parent, proptree.ClipNodeState{
			LocalTransformSpace: ctx.current.transform,
			ClipRect:            inner,
		})
		parent = props.InnerBorderRadiusClip()
	} else {
		props.ClearInnerBorderRadiusClip()
	}

	props.UpdateOverflowClip(parent, proptree.ClipNodeState{
		LocalTransformSpace: ctx.current.transform,
		ClipRect:            proptree.NewRoundedRect(o.OverflowClipRect().Move(offset).PixelSnap()),
	})
	ctx.current.clip = props.OverflowClip()
}

// updatePerspective creates the perspective node. Descendants stay
// unflattened until a transform flattens them.
func (b *Builder) updatePerspective(o *layout.Object, props *proptree.ObjectPaintProperties, ctx *paintContext) {
	if !o.IsBox() || !o.Style.HasPerspective() {
		props.ClearPerspective()
		return
	}
	padding := o.PaddingBoxRect().Move(ctx.current.paintOffset)
	props.UpdatePerspective(ctx.current.transform, proptree.TransformNodeState{
		Matrix:                     proptree.Perspective(o.Style.Perspective),
		Origin:                     o.Style.PerspectiveOrigin.Resolve(padding),
		FlattensInheritedTransform: ctx.current.shouldFlattenInheritedTransform,
		RenderingContextID:         ctx.current.renderingContextID,
	})
	ctx.current.transform = props.Perspective()
	ctx.current.shouldFlattenInheritedTransform = false
}

// updateSVGLocalToBorderBoxTransform maps the viewBox of an SVG root into
// its snapped content box. SVG content below it does not use paint
// offsets.
func (b *Builder) updateSVGLocalToBorderBoxTransform(o *layout.Object, props *proptree.ObjectPaintProperties, ctx *paintContext) {
	if o.Kind != layout.KindSVGRoot {
		props.ClearSVGLocalToBorderBoxTransform()
		return
	}
	snapped := ctx.current.paintOffset.Round()
	content := o.PaddingBoxRect()
	m := proptree.Translate(snapped.X, snapped.Y).Multiply(layout.ViewBoxTransform(o.ViewBox, content))
	if m.IsIdentity() {
		props.ClearSVGLocalToBorderBoxTransform()
		return
	}
	props.UpdateSVGLocalToBorderBoxTransform(ctx.current.transform, proptree.TransformNodeState{
		Matrix: m,
	})
	ctx.current.transform = props.SVGLocalToBorderBoxTransform()
	ctx.current.paintOffset = proptree.Point{}
}

// updateScrollAndScrollTranslation creates the scroll node of a scroll
// container that is scrolled or has overflow to scroll.
func (b *Builder) updateScrollAndScrollTranslation(o *layout.Object, props *proptree.ObjectPaintProperties, ctx *paintContext) {
	if !o.IsScrollContainer() || (o.ScrollOffset.IsZero() && !o.ScrollsOverflow()) {
		props.ClearScrollTranslation()
		props.ClearScroll()
		return
	}

	props.UpdateScrollTranslation(ctx.current.transform, proptree.TransformNodeState{
		Matrix:                     proptree.Translate(-o.ScrollOffset.X, -o.ScrollOffset.Y),
		FlattensInheritedTransform: ctx.current.shouldFlattenInheritedTransform,
		RenderingContextID:         ctx.current.renderingContextID,
	})
	props.UpdateScroll(ctx.current.scroll, proptree.ScrollNodeState{
		ScrollOffsetTranslation:    props.ScrollTranslation(),
		Clip:                       o.OverflowClipRect().Size(),
		Bounds:                     o.ContentsSize,
		UserScrollableHorizontal:   o.Style.OverflowX != layout.OverflowHidden,
		UserScrollableVertical:     o.Style.OverflowY != layout.OverflowHidden,
		MainThreadScrollingReasons: b.reasons,
	})
	ctx.current.transform = props.ScrollTranslation()
	ctx.current.scroll = props.Scroll()
}

// updateOutOfFlowContext sets up the contexts absolutely and fixed
// positioned descendants start from.
func (b *Builder) updateOutOfFlowContext(o *layout.Object, props *proptree.ObjectPaintProperties, ctx *paintContext) {
	if !o.IsBox() {
		props.ClearCSSClipFixedPosition()
		return
	}
	style := &o.Style
	if style.IsPositioned() || style.HasTransformRelatedProperty() {
		ctx.absolute = ctx.current
	}
	if style.HasTransformRelatedProperty() {
		ctx.fixed = ctx.current
		props.ClearCSSClipFixedPosition()
		return
	}

	// Fixed-position descendants skip intervening clips but must still
	// honor this box's CSS clip.
	cssClip := props.CSSClip()
	if cssClip == nil {
		props.ClearCSSClipFixedPosition()
		return
	}
	if ctx.fixed.clip == cssClip.Parent() {
		ctx.fixed.clip = cssClip
		props.ClearCSSClipFixedPosition()
		return
	}
	props.UpdateCSSClipFixedPosition(ctx.fixed.clip, proptree.ClipNodeState{
		LocalTransformSpace: cssClip.LocalTransformSpace(),
		ClipRect:            cssClip.ClipRect(),
	})
	ctx.fixed.clip = props.CSSClipFixedPosition()
}
