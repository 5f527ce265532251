package layout

import (
	"github.com/gogpu/proptree"
)

// Kind classifies a layout object for paint property purposes.
type Kind int

const (
	// KindBox is a CSS box.
	KindBox Kind = iota

	// KindText is a text run. It never originates paint properties.
	KindText

	// KindSVGRoot is an outermost <svg> element laid out as a CSS box.
	KindSVGRoot

	// KindSVGChild is any element inside an SVG root, including nested
	// <svg> elements. It is positioned by SVGTransform, not by Location.
	KindSVGChild
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindText:
		return "text"
	case KindSVGRoot:
		return "svg-root"
	case KindSVGChild:
		return "svg-child"
	default:
		return "unknown"
	}
}

// Object is a node of the layout tree, with the geometry computed by
// layout and the paint properties computed by the property tree builder.
type Object struct {
	// Name identifies the object in dumps and lookups.
	Name  string
	Kind  Kind
	Style Style

	// Location is the border box origin relative to the border box of the
	// object's containing block: the parent for in-flow boxes, the nearest
	// positioned ancestor for absolute boxes, the viewport for fixed ones.
	Location proptree.Point
	Size     proptree.Size

	// ScrollOffset and ContentsSize apply to scroll containers.
	ScrollOffset proptree.Point
	ContentsSize proptree.Size

	// ScrollbarThickness holds the width of the vertical scrollbar (W) and
	// the height of the horizontal one (H).
	ScrollbarThickness proptree.Size

	// ViewBox is the viewBox of an SVG root or nested <svg>, or nil.
	ViewBox *proptree.Rect

	// SVGTransform is the local transform of an SVG child, including the
	// viewBox mapping of nested <svg> elements. The zero value is identity.
	SVGTransform proptree.Matrix

	Parent   *Object
	Children []*Object

	// Properties is written by the property tree builder. It is nil when
	// the object needs no paint properties.
	Properties *proptree.ObjectPaintProperties
}

// NewObject creates a box with the initial style.
func NewObject(name string) *Object {
	return &Object{Name: name, Style: DefaultStyle()}
}

// AppendChild appends child and sets its parent. It returns o.
func (o *Object) AppendChild(child ...*Object) *Object {
	for _, c := range child {
		c.Parent = o
		o.Children = append(o.Children, c)
	}
	return o
}

// Walk visits o and its descendants in document order. Returning false
// from fn skips the descendants of that object.
func (o *Object) Walk(fn func(*Object) bool) {
	if !fn(o) {
		return
	}
	for _, c := range o.Children {
		c.Walk(fn)
	}
}

// Find returns the first object named name in document order, or nil.
func (o *Object) Find(name string) *Object {
	var found *Object
	o.Walk(func(obj *Object) bool {
		if found != nil {
			return false
		}
		if obj.Name == name {
			found = obj
			return false
		}
		return true
	})
	return found
}

// IsBox reports whether the object lays out as a CSS box.
func (o *Object) IsBox() bool {
	return o.Kind == KindBox || o.Kind == KindSVGRoot
}

// IsScrollContainer reports whether the box clips and scrolls its overflow.
func (o *Object) IsScrollContainer() bool {
	return o.IsBox() && o.Style.HasOverflowClip()
}

// BorderBoxRect returns the border box in the object's own space.
func (o *Object) BorderBoxRect() proptree.Rect {
	return proptree.RectFromSize(proptree.Point{}, o.Size)
}

// PaddingBoxRect returns the border box minus the border widths.
func (o *Object) PaddingBoxRect() proptree.Rect {
	return o.BorderBoxRect().Inset(o.Style.BorderWidths)
}

// OverflowClipRect returns the padding box minus the scrollbars.
func (o *Object) OverflowClipRect() proptree.Rect {
	return o.PaddingBoxRect().Inset(o.scrollbarInsets())
}

// HasScrollbars reports whether the scroll container shows scrollbars.
func (o *Object) HasScrollbars() bool {
	return o.IsScrollContainer() && o.ScrollbarThickness != (proptree.Size{})
}

func (o *Object) scrollbarInsets() proptree.Insets {
	if !o.IsScrollContainer() {
		return proptree.Insets{}
	}
	return proptree.Insets{Right: o.ScrollbarThickness.W, Bottom: o.ScrollbarThickness.H}
}

// ScrollsOverflow reports whether the contents exceed the clip along an
// axis that scrolls (scroll or auto).
func (o *Object) ScrollsOverflow() bool {
	if !o.IsScrollContainer() {
		return false
	}
	clip := o.OverflowClipRect().Size()
	scrolls := func(ov Overflow) bool { return ov == OverflowScroll || ov == OverflowAuto }
	return (scrolls(o.Style.OverflowX) && o.ContentsSize.W > clip.W) ||
		(scrolls(o.Style.OverflowY) && o.ContentsSize.H > clip.H)
}

// PaintProperties returns the builder output, allocating it on first use.
func (o *Object) PaintProperties() *proptree.ObjectPaintProperties {
	if o.Properties == nil {
		o.Properties = proptree.NewObjectPaintProperties()
	}
	return o.Properties
}

// ViewBoxTransform maps viewBox onto viewport with preserveAspectRatio
// xMidYMid meet. A nil or empty viewBox only translates to the viewport
// origin.
func ViewBoxTransform(viewBox *proptree.Rect, viewport proptree.Rect) proptree.Matrix {
	if viewBox == nil || viewBox.IsEmpty() {
		return proptree.Translate(viewport.X, viewport.Y)
	}
	s := min(viewport.W/viewBox.W, viewport.H/viewBox.H)
	tx := viewport.X + (viewport.W-viewBox.W*s)/2 - viewBox.X*s
	ty := viewport.Y + (viewport.H-viewBox.H*s)/2 - viewBox.Y*s
	return proptree.Translate(tx, ty).Multiply(proptree.Scale(s, s))
}
