package builder

import (
	"github.com/gogpu/proptree"
	"github.com/gogpu/proptree/layout"
)

// Builder updates the paint property trees of a frame from its layout
// tree. A single UpdateFrame call walks the whole tree in document order,
// creating, updating in place or clearing the nodes each object needs.
//
// A Builder remembers the 3D rendering context IDs it handed out so they
// stay stable across passes. It is not safe for concurrent use.
type Builder struct {
	opts options

	frame *layout.Frame

	// reasons are the settings-derived main thread scrolling reasons set on
	// every scroll node of the current pass.
	reasons proptree.MainThreadScrollingReasons

	contextIDs     map[*layout.Object]uint32
	passContextIDs map[*layout.Object]uint32
	nextContextID  uint32

	objects int
}

// New creates a builder.
func New(opts ...Option) *Builder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Builder{
		opts:       o,
		contextIDs: make(map[*layout.Object]uint32),
	}
}

// UpdateFrame runs one full pass over frame. Nodes whose inputs did not
// change keep both their identity and their value, so the forest epoch
// only moves when geometry actually changed.
func (b *Builder) UpdateFrame(frame *layout.Frame) {
	var snapshot *Snapshot
	if b.opts.verify != nil {
		snapshot = TakeSnapshot(frame)
	}

	if frame.Forest == nil {
		frame.Forest = proptree.NewForest()
	}
	b.frame = frame
	b.objects = 0
	b.reasons = 0
	if frame.Settings.ThreadedScrollingDisabled {
		b.reasons |= proptree.ThreadedScrollingDisabled
	}
	b.passContextIDs = make(map[*layout.Object]uint32)

	ctx := b.updateFramePaintProperties(frame)
	if frame.Root != nil {
		b.walk(frame.Root, ctx)
	}

	b.contextIDs = b.passContextIDs
	b.passContextIDs = nil
	b.frame = nil

	proptree.Logger().Debug("paint properties updated",
		"objects", b.objects,
		"epoch", frame.Forest.Epoch())

	if snapshot != nil {
		b.opts.verify(snapshot.Compare(frame))
	}
}

// renderingContextID returns the 3D rendering context ID established by o.
func (b *Builder) renderingContextID(o *layout.Object) uint32 {
	if id, ok := b.passContextIDs[o]; ok {
		return id
	}
	id, ok := b.contextIDs[o]
	if !ok {
		b.nextContextID++
		id = b.nextContextID
	}
	b.passContextIDs[o] = id
	return id
}

// ---------------------------------------------------------------------------
// Frame
// ---------------------------------------------------------------------------

func updateTransformSlot(slot **proptree.TransformNode, parent *proptree.TransformNode, state proptree.TransformNodeState) {
	if *slot == nil {
		*slot = proptree.NewTransformNode(parent, state)
		return
	}
	(*slot).Update(parent, state)
}

func updateClipSlot(slot **proptree.ClipNode, parent *proptree.ClipNode, state proptree.ClipNodeState) {
	if *slot == nil {
		*slot = proptree.NewClipNode(parent, state)
		return
	}
	(*slot).Update(parent, state)
}

func updateScrollSlot(slot **proptree.ScrollNode, parent *proptree.ScrollNode, state proptree.ScrollNodeState) {
	if *slot == nil {
		*slot = proptree.NewScrollNode(parent, state)
		return
	}
	(*slot).Update(parent, state)
}

// updateFramePaintProperties builds the frame's own nodes and returns the
// context its layout tree starts in.
func (b *Builder) updateFramePaintProperties(frame *layout.Frame) paintContext {
	forest := frame.Forest
	p := &frame.Properties

	updateTransformSlot(&p.PreTranslation, forest.RootTransform(), proptree.TransformNodeState{
		Matrix: proptree.Translate(frame.Location.X, frame.Location.Y),
	})

	visible := frame.VisibleContentRect()
	updateClipSlot(&p.ContentClip, forest.RootClip(), proptree.ClipNodeState{
		LocalTransformSpace: p.PreTranslation,
		ClipRect:            proptree.NewRoundedRect(visible),
	})

	updateTransformSlot(&p.ScrollTranslation, p.PreTranslation, proptree.TransformNodeState{
		Matrix: proptree.Translate(-frame.ScrollOffset.X, -frame.ScrollOffset.Y),
	})
	updateScrollSlot(&p.Scroll, forest.RootScroll(), proptree.ScrollNodeState{
		ScrollOffsetTranslation:    p.ScrollTranslation,
		Clip:                       visible.Size(),
		Bounds:                     frame.ContentsSize,
		UserScrollableHorizontal:   true,
		UserScrollableVertical:     true,
		MainThreadScrollingReasons: b.reasons,
	})

	var ctx paintContext
	ctx.current = containingBlockContext{
		transform: p.ScrollTranslation,
		clip:      p.ContentClip,
		scroll:    p.Scroll,
	}
	ctx.absolute = ctx.current
	// Fixed-position content does not scroll with the frame.
	ctx.fixed = containingBlockContext{
		transform: p.PreTranslation,
		clip:      p.ContentClip,
		scroll:    forest.RootScroll(),
	}
	ctx.currentEffect = forest.RootEffect()
	return ctx
}

// ---------------------------------------------------------------------------
// Objects
// ---------------------------------------------------------------------------

func (b *Builder) walk(o *layout.Object, ctx paintContext) {
	b.objects++

	if o.Kind == layout.KindText {
		o.Properties = nil
		for _, c := range o.Children {
			b.walk(c, ctx)
		}
		return
	}

	props := o.PaintProperties()

	b.updatePaintOffset(o, &ctx)
	b.updatePaintOffsetTranslation(o, props, &ctx)
	b.updateTransformForNonRootSVG(o, props, &ctx)
	b.updateTransform(o, props, &ctx)
	b.updateEffect(o, props, &ctx)
	b.updateCSSClip(o, props, &ctx)
	b.updateLocalBorderBoxContext(o, props, &ctx)
	b.updateScrollbarPaintOffset(o, props, &ctx)
	b.updateMainThreadScrollingReasons(o, &ctx)

	b.updateOverflowClip(o, props, &ctx)
	b.updatePerspective(o, props, &ctx)
	b.updateSVGLocalToBorderBoxTransform(o, props, &ctx)
	b.updateScrollAndScrollTranslation(o, props, &ctx)
	b.updateOutOfFlowContext(o, props, &ctx)

	if !props.HasAny() && props.LocalBorderBoxProperties() == nil {
		o.Properties = nil
	}

	for _, c := range o.Children {
		b.walk(c, ctx)
	}
}
