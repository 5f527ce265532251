package document

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gogpu/proptree"
	"github.com/gogpu/proptree/layout"
)

// ErrNoBody is returned for documents without a body element, such as
// frameset documents.
var ErrNoBody = errors.New("document: no body element")

const (
	// lineHeight is the height of every text line box.
	lineHeight = 20

	// bodyMargin is the user agent margin of <body>.
	bodyMargin = 8

	svgDefaultWidth  = 300
	svgDefaultHeight = 150
)

// skipped lists elements that never generate boxes.
var skipped = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Title:    true,
	atom.Meta:     true,
	atom.Link:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
	atom.Noscript: true,
}

// element carries the layout inputs that are not part of layout.Style.
type element struct {
	obj *layout.Object

	width, height layout.Length
	left, top     layout.Length
	margin        proptree.Insets
	padding       proptree.Insets

	children []*element
}

type loader struct {
	opts options
	err  error
}

// Load parses an HTML document and lays it out into a frame. Only inline
// style attributes are read. Every element is a block box stacked
// vertically in its parent; each text run is one line box.
//
// The data-scroll="x y" attribute sets the scroll offset of a scroll
// container, or of the frame when placed on <html>.
func Load(r io.Reader, opts ...Option) (*layout.Frame, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("document: parse: %w", err)
	}
	root := child(doc, atom.Html)
	if root == nil || child(root, atom.Body) == nil {
		return nil, ErrNoBody
	}

	l := &loader{opts: o}
	e := l.build(root, false)
	if l.err != nil {
		return nil, l.err
	}

	frame := layout.NewFrame(o.viewport, e.obj)
	frame.Settings = o.settings
	l.layoutBox(e, o.viewport.W)
	frame.ContentsSize = proptree.Sz(
		max(o.viewport.W, e.obj.Size.W),
		max(o.viewport.H, e.obj.Size.H),
	)

	if s := attr(root, "data-scroll"); s != "" {
		offset, err := parsePoint(s)
		if err = l.invalid("html", "data-scroll", err); err != nil {
			return nil, err
		}
		frame.ScrollOffset = clampScroll(offset, frame.ContentsSize, frame.VisibleContentRect().Size())
	}

	initial := containingBlock{size: o.viewport}
	fixed := containingBlock{origin: frame.ScrollOffset, size: o.viewport}
	l.place(e, proptree.Point{}, initial, fixed)

	objects := 0
	frame.Walk(func(*layout.Object) bool {
		objects++
		return true
	})
	proptree.Logger().Debug("document loaded",
		"objects", objects,
		"viewport", o.viewport,
		"contents", frame.ContentsSize)
	return frame, nil
}

// LoadString is Load for a string.
func LoadString(s string, opts ...Option) (*layout.Frame, error) {
	return Load(strings.NewReader(s), opts...)
}

func child(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// invalid reports an unparsable value. In strict mode the first error is
// returned and kept; otherwise it is logged and dropped.
func (l *loader) invalid(object, property string, err error) error {
	if err == nil {
		return nil
	}
	if l.opts.strict {
		if l.err == nil {
			l.err = fmt.Errorf("%s %s: %w", object, property, err)
		}
		return l.err
	}
	proptree.Logger().Warn("ignoring declaration",
		"object", object,
		"property", property,
		"error", err)
	return nil
}

// ---------------------------------------------------------------------------
// Tree construction
// ---------------------------------------------------------------------------

func (l *loader) build(n *html.Node, inSVG bool) *element {
	switch n.Type {
	case html.TextNode:
		if inSVG || strings.TrimSpace(n.Data) == "" {
			return nil
		}
		o := layout.NewObject("#text")
		o.Kind = layout.KindText
		return &element{obj: o}
	case html.ElementNode:
	default:
		return nil
	}
	if skipped[n.DataAtom] {
		return nil
	}

	name := n.Data
	if id := attr(n, "id"); id != "" {
		name = id
	}
	e := &element{obj: layout.NewObject(name)}

	switch {
	case inSVG:
		e.obj.Kind = layout.KindSVGChild
		l.svgGeometry(n, e)
	case n.DataAtom == atom.Svg:
		e.obj.Kind = layout.KindSVGRoot
		l.svgRoot(n, e)
	case n.DataAtom == atom.Body:
		e.margin = proptree.Insets{Top: bodyMargin, Right: bodyMargin, Bottom: bodyMargin, Left: bodyMargin}
	}

	if !l.applyStyle(e, attr(n, "style")) {
		return nil
	}
	if s := attr(n, "data-scroll"); s != "" && n.DataAtom != atom.Html {
		offset, err := parsePoint(s)
		if err == nil {
			e.obj.ScrollOffset = offset
		}
		l.invalid(name, "data-scroll", err)
	}

	childSVG := inSVG || e.obj.Kind == layout.KindSVGRoot
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if ce := l.build(c, childSVG); ce != nil {
			e.obj.AppendChild(ce.obj)
			e.children = append(e.children, ce)
		}
	}
	return e
}

// applyStyle applies the inline style declarations to e. It reports false
// for display:none.
func (l *loader) applyStyle(e *element, style string) bool {
	for _, d := range declarations(style) {
		if d[0] == "display" && d[1] == "none" {
			return false
		}
		l.invalid(e.obj.Name, d[0], l.applyDeclaration(e, d[0], d[1]))
	}
	return true
}

// assign stores v in dst unless err is set.
func assign[T any](dst *T) func(T, error) error {
	return func(v T, err error) error {
		if err == nil {
			*dst = v
		}
		return err
	}
}

func (l *loader) applyDeclaration(e *element, name, value string) error {
	s := &e.obj.Style
	switch name {
	case "position":
		return assign(&s.Position)(parsePosition(value))
	case "left":
		return assign(&e.left)(parseLength(value))
	case "top":
		return assign(&e.top)(parseLength(value))
	case "width":
		return assign(&e.width)(parseLength(value))
	case "height":
		return assign(&e.height)(parseLength(value))
	case "margin":
		return assign(&e.margin)(parseInsets(value))
	case "padding":
		return assign(&e.padding)(parseInsets(value))
	case "border-width":
		return assign(&s.BorderWidths)(parseInsets(value))
	case "border-radius":
		return assign(&s.BorderRadius)(parseRadii(value))
	case "overflow":
		var ov layout.Overflow
		if err := assign(&ov)(parseOverflow(value)); err != nil {
			return err
		}
		s.OverflowX, s.OverflowY = ov, ov
		return nil
	case "overflow-x":
		return assign(&s.OverflowX)(parseOverflow(value))
	case "overflow-y":
		return assign(&s.OverflowY)(parseOverflow(value))
	case "transform":
		return assign(&s.Transform)(parseTransform(value))
	case "transform-origin":
		return assign(&s.TransformOrigin)(parseOrigin(value))
	case "transform-style":
		switch value {
		case "flat":
			s.TransformStyle = layout.TransformStyleFlat
		case "preserve-3d":
			s.TransformStyle = layout.TransformStylePreserve3D
		default:
			return fmt.Errorf("%w: transform-style %q", ErrInvalidValue, value)
		}
	case "perspective":
		if value == "none" {
			s.Perspective = 0
			return nil
		}
		return assign(&s.Perspective)(parsePixels(value))
	case "perspective-origin":
		return assign(&s.PerspectiveOrigin)(parseOrigin(value))
	case "opacity":
		v, err := parseFraction(value)
		if err != nil {
			return err
		}
		s.Opacity = min(max(v, 0), 1)
	case "filter":
		return assign(&s.Filters)(parseFilters(value))
	case "z-index":
		if value == "auto" {
			s.HasZIndex = false
			return nil
		}
		z, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: z-index %q", ErrInvalidValue, value)
		}
		s.ZIndex, s.HasZIndex = z, true
	case "clip":
		if value == "auto" {
			s.Clip = nil
			return nil
		}
		r, err := parseClipRect(value)
		if err != nil {
			return err
		}
		s.Clip = &r
	case "background-attachment":
		switch value {
		case "scroll", "local":
			s.BackgroundAttachment = layout.BackgroundAttachmentScroll
		case "fixed":
			s.BackgroundAttachment = layout.BackgroundAttachmentFixed
		default:
			return fmt.Errorf("%w: background-attachment %q", ErrInvalidValue, value)
		}
	default:
		proptree.Logger().Debug("unsupported property", "object", e.obj.Name, "property", name)
	}
	return nil
}

// ---------------------------------------------------------------------------
// SVG
// ---------------------------------------------------------------------------

func (l *loader) number(n *html.Node, e *element, key string) float64 {
	s := attr(n, key)
	if s == "" {
		return 0
	}
	v, err := parsePixels(s)
	l.invalid(e.obj.Name, key, err)
	return v
}

func (l *loader) svgRoot(n *html.Node, e *element) {
	if s := attr(n, "width"); s != "" {
		l.invalid(e.obj.Name, "width", assign(&e.width)(parseLength(s)))
	}
	if s := attr(n, "height"); s != "" {
		l.invalid(e.obj.Name, "height", assign(&e.height)(parseLength(s)))
	}
	if s := attr(n, "viewBox"); s != "" {
		l.invalid(e.obj.Name, "viewBox", assign(&e.obj.ViewBox)(parseViewBox(s)))
	}
}

// svgGeometry sets the size and local transform of an SVG child. The
// shape's own x and y are folded into SVGTransform so that its bounding
// box starts at the local origin.
func (l *loader) svgGeometry(n *html.Node, e *element) {
	o := e.obj
	local := proptree.Identity()
	if s := attr(n, "transform"); s != "" {
		ops, err := parseTransform(s)
		if err == nil {
			local = ops.Matrix(proptree.Size{})
		}
		l.invalid(o.Name, "transform", err)
	}

	num := func(key string) float64 { return l.number(n, e, key) }
	var origin proptree.Point
	switch n.Data {
	case "rect", "image", "use", "foreignObject":
		origin = proptree.Pt(num("x"), num("y"))
		o.Size = proptree.Sz(num("width"), num("height"))
	case "circle":
		r := num("r")
		origin = proptree.Pt(num("cx")-r, num("cy")-r)
		o.Size = proptree.Sz(2*r, 2*r)
	case "ellipse":
		rx, ry := num("rx"), num("ry")
		origin = proptree.Pt(num("cx")-rx, num("cy")-ry)
		o.Size = proptree.Sz(2*rx, 2*ry)
	case "line":
		x1, y1, x2, y2 := num("x1"), num("y1"), num("x2"), num("y2")
		origin = proptree.Pt(min(x1, x2), min(y1, y2))
		o.Size = proptree.Sz(max(x1, x2)-origin.X, max(y1, y2)-origin.Y)
	case "svg":
		if s := attr(n, "viewBox"); s != "" {
			l.invalid(o.Name, "viewBox", assign(&o.ViewBox)(parseViewBox(s)))
		}
		viewport := proptree.NewRect(num("x"), num("y"), num("width"), num("height"))
		o.SVGTransform = local.Multiply(layout.ViewBoxTransform(o.ViewBox, viewport))
		o.Size = viewport.Size()
		if o.ViewBox != nil {
			o.Size = o.ViewBox.Size()
		}
		return
	}
	o.SVGTransform = local.Multiply(proptree.Translate(origin.X, origin.Y))
}

// ---------------------------------------------------------------------------
// Layout
// ---------------------------------------------------------------------------

// layoutBox sizes e and places its in-flow children for a containing block
// of width avail. Out-of-flow children keep their static position, which
// place turns into their final location. Only in-flow children contribute
// to scrollable overflow.
func (l *loader) layoutBox(e *element, avail float64) {
	o := e.obj
	s := &o.Style
	border, pad := s.BorderWidths, e.padding

	if o.IsScrollContainer() {
		if s.OverflowY == layout.OverflowScroll {
			o.ScrollbarThickness.W = l.opts.scrollbar
		}
		if s.OverflowX == layout.OverflowScroll {
			o.ScrollbarThickness.H = l.opts.scrollbar
		}
	}

	autoW := avail - e.margin.Left - e.margin.Right
	if o.Kind == layout.KindSVGRoot {
		autoW = svgDefaultWidth
	}
	o.Size.W = max(e.width.Resolve(avail, autoW), 0)

	x0, y0 := border.Left+pad.Left, border.Top+pad.Top
	contentW := max(o.Size.W-border.Left-border.Right-pad.Left-pad.Right-o.ScrollbarThickness.W, 0)
	cursor, right := y0, x0+contentW

	if o.Kind != layout.KindSVGRoot {
		for _, c := range e.children {
			co := c.obj
			if co.Kind == layout.KindText {
				co.Location = proptree.Pt(x0, cursor)
				co.Size = proptree.Sz(contentW, lineHeight)
				cursor += lineHeight
				continue
			}
			l.layoutBox(c, contentW)
			co.Location = proptree.Pt(x0+c.margin.Left, cursor+c.margin.Top)
			if co.Style.IsOutOfFlowPositioned() {
				continue
			}
			if co.Style.Position == layout.PositionRelative {
				co.Location = co.Location.Add(proptree.Pt(c.left.Resolve(contentW, 0), c.top.Resolve(0, 0)))
			}
			right = max(right, x0+c.margin.Left+co.Size.W+c.margin.Right)
			cursor += c.margin.Top + co.Size.H + c.margin.Bottom
		}
	}

	autoH := cursor - y0 + pad.Top + pad.Bottom + border.Top + border.Bottom + o.ScrollbarThickness.H
	if o.Kind == layout.KindSVGRoot {
		autoH = svgDefaultHeight
	}
	// Percentage heights have no definite base here.
	if e.height.Unit == layout.UnitPx {
		o.Size.H = max(e.height.Value, 0)
	} else {
		o.Size.H = autoH
	}

	if o.IsScrollContainer() {
		clip := o.OverflowClipRect().Size()
		o.ContentsSize = proptree.Sz(
			max(clip.W, right+pad.Right-border.Left),
			max(clip.H, cursor+pad.Bottom-border.Top),
		)
		o.ScrollOffset = clampScroll(o.ScrollOffset, o.ContentsSize, clip)
	}
}

func clampScroll(offset proptree.Point, contents, clip proptree.Size) proptree.Point {
	return proptree.Pt(
		min(max(offset.X, 0), max(contents.W-clip.W, 0)),
		min(max(offset.Y, 0), max(contents.H-clip.H, 0)),
	)
}

// containingBlock is a border box in document coordinates.
type containingBlock struct {
	origin proptree.Point
	size   proptree.Size
}

// place resolves the location of out-of-flow boxes against their
// containing block. origin is the document position of e's border box.
func (l *loader) place(e *element, origin proptree.Point, abs, fixed containingBlock) {
	o := e.obj
	if o.Kind == layout.KindSVGRoot {
		return
	}
	self := containingBlock{origin: origin, size: o.Size}
	if o.Style.IsPositioned() || o.Style.HasTransformRelatedProperty() {
		abs = self
	}
	if o.Style.HasTransformRelatedProperty() {
		fixed = self
	}
	contents := origin
	if o.IsScrollContainer() {
		contents = contents.Sub(o.ScrollOffset)
	}

	for _, c := range e.children {
		co := c.obj
		var cb containingBlock
		switch co.Style.Position {
		case layout.PositionAbsolute:
			cb = abs
		case layout.PositionFixed:
			cb = fixed
		default:
			l.place(c, contents.Add(co.Location), abs, fixed)
			continue
		}
		pos := contents.Add(co.Location).Sub(cb.origin)
		if c.left.Unit != layout.UnitAuto {
			pos.X = c.left.Resolve(cb.size.W, 0) + c.margin.Left
		}
		if c.top.Unit != layout.UnitAuto {
			pos.Y = c.top.Resolve(cb.size.H, 0) + c.margin.Top
		}
		co.Location = pos
		l.place(c, cb.origin.Add(pos), abs, fixed)
	}
}
