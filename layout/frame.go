package layout

import (
	"github.com/gogpu/proptree"
)

// Settings holds the document settings the builder consults.
type Settings struct {
	// ThreadedScrollingDisabled forces every scroller onto the main thread.
	ThreadedScrollingDisabled bool
}

// FrameProperties holds the nodes a frame originates. They are the
// ancestors of every node created for the frame's content.
type FrameProperties struct {
	// PreTranslation moves the frame to its location in the embedder.
	PreTranslation *proptree.TransformNode

	// ContentClip clips to the viewport, excluding scrollbars.
	ContentClip *proptree.ClipNode

	// ScrollTranslation is the negated frame scroll offset.
	ScrollTranslation *proptree.TransformNode

	// Scroll is the frame scroll node, the scroll ancestor of all in-flow
	// content.
	Scroll *proptree.ScrollNode
}

// Frame is a document viewport with its layout tree and the property tree
// forest built for it.
type Frame struct {
	// Location is the frame origin in the embedder's space.
	Location     proptree.Point
	ViewportSize proptree.Size
	ContentsSize proptree.Size
	ScrollOffset proptree.Point

	// ScrollbarThickness holds the width of the vertical scrollbar (W) and
	// the height of the horizontal one (H).
	ScrollbarThickness proptree.Size

	Settings Settings

	// Root is the root of the layout tree. Its Location is relative to the
	// frame's scrolled contents.
	Root *Object

	// Forest owns the property tree roots for this frame.
	Forest *proptree.Forest

	// Properties is written by the property tree builder.
	Properties FrameProperties
}

// NewFrame creates a frame with a fresh forest.
func NewFrame(viewport proptree.Size, root *Object) *Frame {
	return &Frame{
		ViewportSize: viewport,
		ContentsSize: viewport,
		Root:         root,
		Forest:       proptree.NewForest(),
	}
}

// VisibleContentRect returns the viewport minus scrollbars, in the frame's
// own space.
func (f *Frame) VisibleContentRect() proptree.Rect {
	r := proptree.RectFromSize(proptree.Point{}, f.ViewportSize)
	return r.Inset(proptree.Insets{Right: f.ScrollbarThickness.W, Bottom: f.ScrollbarThickness.H})
}

// ContentsState returns the property tree state of the frame's scrolled
// contents, or the forest roots before the first build.
func (f *Frame) ContentsState() proptree.PropertyTreeState {
	s := f.Forest.RootState()
	if f.Properties.ScrollTranslation != nil {
		s.Transform = f.Properties.ScrollTranslation
	}
	if f.Properties.ContentClip != nil {
		s.Clip = f.Properties.ContentClip
	}
	if f.Properties.Scroll != nil {
		s.Scroll = f.Properties.Scroll
	}
	return s
}

// Walk visits every object of the layout tree in document order.
func (f *Frame) Walk(fn func(*Object) bool) {
	if f.Root != nil {
		f.Root.Walk(fn)
	}
}

// Find returns the first object named name, or nil.
func (f *Frame) Find(name string) *Object {
	if f.Root == nil {
		return nil
	}
	return f.Root.Find(name)
}

// VisualRect maps the border box of o into the frame's contents space,
// applying every clip between them. It reports false when o has no border
// box properties.
func (f *Frame) VisualRect(m *proptree.GeometryMapper, o *Object) (proptree.Rect, bool) {
	return f.visualRect(m, o, m.MapToVisualRectInDestinationSpace)
}

// VisualRectInViewport is like VisualRect but also clips to the frame's
// visible content rect.
func (f *Frame) VisualRectInViewport(m *proptree.GeometryMapper, o *Object) (proptree.Rect, bool) {
	return f.visualRect(m, o, m.MapToVisualRectIncludingDestinationClip)
}

type visualMapping func(rect proptree.Rect, source, destination proptree.PropertyTreeState) (proptree.Rect, bool)

func (f *Frame) visualRect(m *proptree.GeometryMapper, o *Object, mapRect visualMapping) (proptree.Rect, bool) {
	if o.Properties == nil || o.Properties.LocalBorderBoxProperties() == nil {
		return proptree.Rect{}, false
	}
	lbb := o.Properties.LocalBorderBoxProperties()
	rect := o.BorderBoxRect().Move(lbb.PaintOffset)
	contents := f.ContentsState()
	if f.Properties.PreTranslation == nil || proptree.IsAncestorOf(contents.Transform, lbb.State.Transform) {
		return mapRect(rect, lbb.State, contents)
	}

	// Fixed-position content hangs off the pre-translation, above the
	// frame scroll: map it into the unscrolled frame, then undo the scroll.
	viewport := contents
	viewport.Transform = f.Properties.PreTranslation
	viewport.Scroll = f.Forest.RootScroll()
	r, ok := mapRect(rect, lbb.State, viewport)
	if !ok {
		return r, false
	}
	return m.AncestorToLocalRect(r, contents.Transform, viewport.Transform)
}
