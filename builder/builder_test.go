package builder

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/proptree"
	"github.com/gogpu/proptree/document"
	"github.com/gogpu/proptree/layout"
)

func load(t *testing.T, src string) *layout.Frame {
	t.Helper()
	frame, err := document.LoadString(src)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	return frame
}

func find(t *testing.T, frame *layout.Frame, name string) *layout.Object {
	t.Helper()
	o := frame.Find(name)
	if o == nil {
		t.Fatalf("object %q not found", name)
	}
	return o
}

// borderBox returns the local border box properties of the named object.
func borderBox(t *testing.T, frame *layout.Frame, name string) proptree.PropertyTreeStateWithOffset {
	t.Helper()
	o := find(t, frame, name)
	if o.Properties == nil || o.Properties.LocalBorderBoxProperties() == nil {
		t.Fatalf("%s has no local border box properties", name)
	}
	return *o.Properties.LocalBorderBoxProperties()
}

func newFrame(root *layout.Object) *layout.Frame {
	return layout.NewFrame(proptree.Sz(800, 600), root)
}

func box(name string, x, y, w, h float64) *layout.Object {
	o := layout.NewObject(name)
	o.Location = proptree.Pt(x, y)
	o.Size = proptree.Sz(w, h)
	return o
}

func TestUpdateFrameProperties(t *testing.T) {
	root := box("root", 0, 0, 800, 1000)
	frame := newFrame(root)
	frame.Location = proptree.Pt(10, 20)
	frame.ScrollOffset = proptree.Pt(0, 30)
	frame.ContentsSize = proptree.Sz(800, 1000)
	frame.ScrollbarThickness = proptree.Sz(15, 0)

	New().UpdateFrame(frame)

	f, p := frame.Forest, frame.Properties
	if p.PreTranslation.Parent() != f.RootTransform() ||
		p.PreTranslation.Matrix().Translation2D() != proptree.Pt(10, 20) {
		t.Errorf("PreTranslation = %v", p.PreTranslation)
	}
	if p.ContentClip.Parent() != f.RootClip() ||
		p.ContentClip.LocalTransformSpace() != p.PreTranslation ||
		p.ContentClip.ClipRect().Rect != proptree.NewRect(0, 0, 785, 600) {
		t.Errorf("ContentClip = %v", p.ContentClip)
	}
	if p.ScrollTranslation.Parent() != p.PreTranslation ||
		p.ScrollTranslation.Matrix().Translation2D() != proptree.Pt(0, -30) {
		t.Errorf("ScrollTranslation = %v", p.ScrollTranslation)
	}
	s := p.Scroll
	if s.Parent() != f.RootScroll() || s.ScrollOffsetTranslation() != p.ScrollTranslation {
		t.Errorf("Scroll is not linked to the frame scroll translation")
	}
	if s.Offset() != proptree.Pt(0, 30) || s.Clip() != proptree.Sz(785, 600) || s.Bounds() != proptree.Sz(800, 1000) {
		t.Errorf("Scroll offset %v clip %v bounds %v", s.Offset(), s.Clip(), s.Bounds())
	}
	if !s.UserScrollableHorizontal() || !s.UserScrollableVertical() {
		t.Error("frame scroll is not user scrollable")
	}

	want := proptree.PropertyTreeState{
		Transform: p.ScrollTranslation,
		Clip:      p.ContentClip,
		Effect:    f.RootEffect(),
		Scroll:    p.Scroll,
	}
	if got := borderBox(t, frame, "root").State; got != want {
		t.Errorf("root state = %v, want %v", got, want)
	}
	if frame.ContentsState() != want {
		t.Errorf("ContentsState = %v, want %v", frame.ContentsState(), want)
	}
}

func TestUpdateFrameCreatesForest(t *testing.T) {
	frame := newFrame(box("root", 0, 0, 800, 600))
	frame.Forest = nil
	New().UpdateFrame(frame)
	if frame.Forest == nil || frame.Properties.PreTranslation.Forest() != frame.Forest {
		t.Fatal("UpdateFrame did not create a forest for the frame")
	}
}

func TestNestedTransformsEndToEnd(t *testing.T) {
	frame := load(t, `<body style="margin:0">
<div id="a" style="transform:translate(33px,44px)">
  <div id="b" style="transform:translate(55px,66px)">
    <div id="c" style="transform:translate(77px,88px)">C</div>
  </div>
</div>
</body>`)

	var changes []Change
	b := New(WithVerifier(func(c []Change) { changes = c }))
	b.UpdateFrame(frame)
	m := proptree.NewGeometryMapper(frame.Forest)

	c := find(t, frame, "c")
	got, ok := frame.VisualRect(m, c)
	if want := proptree.NewRect(165, 198, 800, 20); !ok || got != want {
		t.Fatalf("visual rect of c = %v, %v; want %v", got, ok, want)
	}

	aTransform := find(t, frame, "a").Properties.Transform()
	cTransform := c.Properties.Transform()

	find(t, frame, "b").Style.Transform = layout.TransformOperations{layout.Translate(111, 222)}
	b.UpdateFrame(frame)

	got, ok = frame.VisualRect(m, c)
	if want := proptree.NewRect(221, 354, 800, 20); !ok || got != want {
		t.Errorf("visual rect of c after update = %v, %v; want %v", got, ok, want)
	}
	if find(t, frame, "a").Properties.Transform() != aTransform {
		t.Error("a's transform node was replaced")
	}
	if c.Properties.Transform() != cTransform {
		t.Error("c's transform node was replaced")
	}
	want := []Change{{Object: "b", Slot: "Transform", Kind: Mutated}}
	if diff := cmp.Diff(want, changes); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestSubpixelAccumulation(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		residual proptree.Point
	}{
		{"accumulated", nil, proptree.Pt(-0.25, 0)},
		{"dropped", []Option{WithSubpixelAccumulation(false)}, proptree.Point{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := box("root", 0, 0, 800, 600)
			parent := box("parent", 0.25, 0, 100, 100)
			transformed := box("transformed", 10.5, 0, 50, 50)
			transformed.Style.Transform = layout.TransformOperations{layout.Rotate(10)}
			inner := box("inner", 0, 0, 10, 10)
			root.AppendChild(parent.AppendChild(transformed.AppendChild(inner)))
			frame := newFrame(root)

			New(tt.opts...).UpdateFrame(frame)

			props := transformed.Properties
			pot := props.PaintOffsetTranslation()
			if pot == nil {
				t.Fatal("no paint offset translation")
			}
			if pot.Matrix().Translation2D() != proptree.Pt(11, 0) || pot.Parent() != frame.Properties.ScrollTranslation {
				t.Errorf("paint offset translation = %v", pot)
			}
			if props.Transform().Parent() != pot {
				t.Error("transform is not parented to the paint offset translation")
			}
			// The origin is the center of the border box moved by the residual.
			wantOrigin := proptree.Pt3(25+tt.residual.X, 25, 0)
			if got := props.Transform().Origin(); got != wantOrigin {
				t.Errorf("transform origin = %v, want %v", got, wantOrigin)
			}
			for _, name := range []string{"transformed", "inner"} {
				if got := borderBox(t, frame, name).PaintOffset; got != tt.residual {
					t.Errorf("%s paint offset = %v, want %v", name, got, tt.residual)
				}
			}
			if parent.Properties.HasAny() {
				t.Error("untransformed parent created nodes")
			}
		})
	}
}

func TestOutOfFlowContexts(t *testing.T) {
	frame := load(t, `<body style="margin:0">
<div id="scroller" style="overflow:scroll;width:200px;height:200px">
  <div style="height:1000px">
    <div id="abs" style="position:absolute;left:5px;top:5px;width:10px;height:10px"></div>
    <div id="fixed" style="position:fixed;left:5px;top:5px;width:10px;height:10px"></div>
  </div>
</div>
<div id="positioned" style="position:relative;overflow:scroll;width:200px;height:200px">
  <div style="height:1000px"></div>
  <div id="abs2" style="position:absolute;left:5px;top:5px;width:10px;height:10px"></div>
</div>
</body>`)
	New().UpdateFrame(frame)
	fp := frame.Properties

	scroller := find(t, frame, "scroller").Properties
	if scroller.Scroll() == nil || scroller.OverflowClip() == nil {
		t.Fatal("scroller has no scroll node or overflow clip")
	}

	tests := []struct {
		name   string
		want   proptree.PropertyTreeState
		offset proptree.Point
	}{
		{
			name: "abs",
			want: proptree.PropertyTreeState{
				Transform: fp.ScrollTranslation,
				Clip:      fp.ContentClip,
				Effect:    frame.Forest.RootEffect(),
				Scroll:    fp.Scroll,
			},
			offset: proptree.Pt(5, 5),
		},
		{
			name: "fixed",
			want: proptree.PropertyTreeState{
				Transform: fp.PreTranslation,
				Clip:      fp.ContentClip,
				Effect:    frame.Forest.RootEffect(),
				Scroll:    frame.Forest.RootScroll(),
			},
			offset: proptree.Pt(5, 5),
		},
	}
	positioned := find(t, frame, "positioned").Properties
	tests = append(tests, struct {
		name   string
		want   proptree.PropertyTreeState
		offset proptree.Point
	}{
		name: "abs2",
		want: proptree.PropertyTreeState{
			Transform: positioned.ScrollTranslation(),
			Clip:      positioned.OverflowClip(),
			Effect:    frame.Forest.RootEffect(),
			Scroll:    positioned.Scroll(),
		},
		offset: proptree.Pt(5, 205),
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := borderBox(t, frame, tt.name)
			if got.State != tt.want {
				t.Errorf("state = %v, want %v", got.State, tt.want)
			}
			if got.PaintOffset != tt.offset {
				t.Errorf("paint offset = %v, want %v", got.PaintOffset, tt.offset)
			}
		})
	}

	if !fp.Scroll.HasMainThreadScrollingReasons(proptree.HasNonLayerViewportConstrainedObjects) {
		t.Error("fixed box did not mark the frame scroll")
	}
}

func TestCSSClipFixedPosition(t *testing.T) {
	frame := load(t, `<body style="margin:0">
<div id="clipper" style="position:absolute;clip:rect(0px,50px,50px,0px);width:100px;height:100px">
  <div id="fixed" style="position:fixed;width:10px;height:10px"></div>
</div>
<div id="container" style="position:relative;overflow:hidden;width:300px;height:300px">
  <div id="clipper2" style="position:absolute;left:10px;top:10px;clip:rect(0px,50px,50px,0px);width:100px;height:100px">
    <div id="fixed2" style="position:fixed;width:10px;height:10px"></div>
  </div>
</div>
<div id="static" style="clip:rect(0px,50px,50px,0px);height:10px"></div>
</body>`)
	New().UpdateFrame(frame)
	fp := frame.Properties

	t.Run("reuses css clip", func(t *testing.T) {
		clipper := find(t, frame, "clipper").Properties
		if clipper.CSSClip() == nil || clipper.CSSClip().Parent() != fp.ContentClip {
			t.Fatalf("clipper css clip = %v", clipper.CSSClip())
		}
		if clipper.CSSClipFixedPosition() != nil {
			t.Error("created a fixed-position clip where the css clip could be reused")
		}
		if got := borderBox(t, frame, "fixed").State.Clip; got != clipper.CSSClip() {
			t.Errorf("fixed clip = %v, want clipper's css clip", got)
		}
	})

	t.Run("creates fixed-position clip", func(t *testing.T) {
		container := find(t, frame, "container").Properties
		clipper := find(t, frame, "clipper2").Properties
		css := clipper.CSSClip()
		if css == nil || css.Parent() != container.OverflowClip() {
			t.Fatalf("clipper2 css clip = %v", css)
		}
		if css.ClipRect().Rect != proptree.NewRect(10, 10, 50, 50) {
			t.Errorf("css clip rect = %v, want 10,10 50x50", css.ClipRect().Rect)
		}
		fixedClip := clipper.CSSClipFixedPosition()
		if fixedClip == nil {
			t.Fatal("no fixed-position css clip")
		}
		if fixedClip.Parent() != fp.ContentClip ||
			fixedClip.LocalTransformSpace() != css.LocalTransformSpace() ||
			fixedClip.ClipRect() != css.ClipRect() {
			t.Errorf("fixed-position clip = %v, want copy of %v under the content clip", fixedClip, css)
		}
		if got := borderBox(t, frame, "fixed2").State.Clip; got != fixedClip {
			t.Errorf("fixed2 clip = %v, want the fixed-position clip", got)
		}
	})

	t.Run("ignored on static box", func(t *testing.T) {
		if p := find(t, frame, "static").Properties; p.CSSClip() != nil {
			t.Error("css clip applied to a statically positioned box")
		}
	})
}

func TestInnerBorderRadiusClip(t *testing.T) {
	root := box("root", 0, 0, 800, 600)
	rounded := box("rounded", 0, 0, 400, 400)
	rounded.Style.OverflowX = layout.OverflowHidden
	rounded.Style.OverflowY = layout.OverflowHidden
	rounded.Style.BorderWidths = proptree.Insets{Top: 45, Right: 50, Bottom: 55, Left: 60}
	rounded.Style.BorderRadius = proptree.Radii{
		TopLeft:     proptree.Sz(12, 12),
		TopRight:    proptree.Sz(34, 34),
		BottomRight: proptree.Sz(56, 56),
		BottomLeft:  proptree.Sz(78, 78),
	}
	child := box("child", 60, 45, 10, 10)
	root.AppendChild(rounded.AppendChild(child))
	frame := newFrame(root)

	New().UpdateFrame(frame)

	props := rounded.Properties
	inner := props.InnerBorderRadiusClip()
	if inner == nil {
		t.Fatal("no inner border radius clip")
	}
	want := proptree.RoundedRect{
		Rect: proptree.NewRect(60, 45, 290, 300),
		Radii: proptree.Radii{
			TopLeft:     proptree.Sz(0, 0),
			TopRight:    proptree.Sz(0, 0),
			BottomRight: proptree.Sz(6, 1),
			BottomLeft:  proptree.Sz(18, 23),
		},
	}
	if got := inner.ClipRect(); got != want {
		t.Errorf("inner clip = %v, want %v", got, want)
	}
	if inner.Parent() != frame.Properties.ContentClip {
		t.Error("inner clip is not under the content clip")
	}

	overflow := props.OverflowClip()
	if overflow.Parent() != inner {
		t.Error("overflow clip is not under the inner border radius clip")
	}
	if got := overflow.ClipRect(); got != proptree.NewRoundedRect(proptree.NewRect(60, 45, 290, 300)) {
		t.Errorf("overflow clip = %v", got)
	}
	if got := borderBox(t, frame, "child").State.Clip; got != overflow {
		t.Errorf("child clip = %v, want the overflow clip", got)
	}
	// The box itself paints outside its own clips.
	if got := borderBox(t, frame, "rounded").State.Clip; got != frame.Properties.ContentClip {
		t.Errorf("rounded clip = %v, want the content clip", got)
	}
}

const nestedScrollers = `<body style="margin:0">
<div id="outer" style="overflow:scroll;width:100px;height:100px">
  <div id="inner" style="overflow:scroll;width:80px;height:200px">
    <div style="height:500px">
      <div id="bg" style="background-attachment:fixed;height:10px"></div>
    </div>
  </div>
  <div style="height:300px"></div>
</div>
<div id="sibling" style="overflow:scroll;width:100px;height:100px">
  <div style="height:500px"></div>
</div>
</body>`

func TestThreadedScrollingDisabled(t *testing.T) {
	frame := load(t, nestedScrollers)
	b := New()
	b.UpdateFrame(frame)

	scrolls := []*proptree.ScrollNode{
		frame.Properties.Scroll,
		find(t, frame, "outer").Properties.Scroll(),
		find(t, frame, "inner").Properties.Scroll(),
		find(t, frame, "sibling").Properties.Scroll(),
	}
	for i, s := range scrolls {
		if s == nil {
			t.Fatalf("scroll node %d missing", i)
		}
		if s.HasMainThreadScrollingReasons(proptree.ThreadedScrollingDisabled) {
			t.Errorf("scroll node %d has ThreadedScrollingDisabled before the setting is enabled", i)
		}
	}

	epoch := frame.Forest.Epoch()
	for _, disabled := range []bool{true, false} {
		frame.Settings.ThreadedScrollingDisabled = disabled
		b.UpdateFrame(frame)

		current := []*proptree.ScrollNode{
			frame.Properties.Scroll,
			find(t, frame, "outer").Properties.Scroll(),
			find(t, frame, "inner").Properties.Scroll(),
			find(t, frame, "sibling").Properties.Scroll(),
		}
		for i, s := range current {
			if s != scrolls[i] {
				t.Errorf("disabled=%v: scroll node %d was replaced", disabled, i)
			}
			if got := s.HasMainThreadScrollingReasons(proptree.ThreadedScrollingDisabled); got != disabled {
				t.Errorf("disabled=%v: scroll node %d has reason = %v", disabled, i, got)
			}
		}
		if frame.Forest.Epoch() != epoch {
			t.Errorf("disabled=%v: reasons change invalidated geometry", disabled)
		}
	}
	if frame.Forest.RootScroll().MainThreadScrollingReasons() != 0 {
		t.Error("root scroll node gained reasons")
	}
}

func TestBackgroundAttachmentFixed(t *testing.T) {
	frame := load(t, nestedScrollers)
	New().UpdateFrame(frame)

	tests := []struct {
		name string
		node *proptree.ScrollNode
		want bool
	}{
		{"frame", frame.Properties.Scroll, true},
		{"outer", find(t, frame, "outer").Properties.Scroll(), true},
		{"inner", find(t, frame, "inner").Properties.Scroll(), true},
		{"sibling", find(t, frame, "sibling").Properties.Scroll(), false},
		{"root", frame.Forest.RootScroll(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.HasMainThreadScrollingReasons(proptree.HasBackgroundAttachmentFixedObjects); got != tt.want {
				t.Errorf("has background-attachment-fixed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffectTree(t *testing.T) {
	frame := load(t, `<body style="margin:0">
<div id="outer" style="opacity:0.5">
  <div id="middle">
    <div id="inner" style="opacity:0.5;filter:blur(2px)"></div>
  </div>
</div>
</body>`)

	var changes []Change
	b := New(WithVerifier(func(c []Change) { changes = c }))
	b.UpdateFrame(frame)

	outer := find(t, frame, "outer")
	inner := find(t, frame, "inner")
	outerEffect, innerEffect := outer.Properties.Effect(), inner.Properties.Effect()

	if outerEffect.Parent() != frame.Forest.RootEffect() {
		t.Error("outer effect is not under the root effect")
	}
	if innerEffect.Parent() != outerEffect {
		t.Error("inner effect is not under the outer effect")
	}
	if innerEffect.LocalTransformSpace() != frame.Properties.ScrollTranslation ||
		innerEffect.OutputClip() != frame.Properties.ContentClip {
		t.Errorf("inner effect space/clip = %v", innerEffect)
	}
	if got := innerEffect.AccumulatedOpacity(); got != 0.25 {
		t.Errorf("accumulated opacity = %v, want 0.25", got)
	}
	if got := borderBox(t, frame, "middle").State.Effect; got != outerEffect {
		t.Errorf("middle effect = %v, want outer effect", got)
	}

	outer.Style.Opacity = 1
	b.UpdateFrame(frame)

	if outer.Properties.Effect() != nil {
		t.Error("outer effect survived opacity 1")
	}
	if inner.Properties.Effect() != innerEffect {
		t.Fatal("inner effect node was replaced")
	}
	if innerEffect.Parent() != frame.Forest.RootEffect() {
		t.Error("inner effect was not reparented to the root effect")
	}
	want := []Change{
		{Object: "outer", Slot: "Effect", Kind: Removed},
		{Object: "outer", Slot: "LocalBorderBox", Kind: Mutated},
		{Object: "middle", Slot: "LocalBorderBox", Kind: Mutated},
		{Object: "inner", Slot: "Effect", Kind: Mutated},
	}
	if diff := cmp.Diff(want, changes); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderingContext(t *testing.T) {
	frame := load(t, `<body style="margin:0">
<div id="context" style="transform-style:preserve-3d">
  <div id="child" style="transform:rotateY(45deg)">
    <div id="grandchild" style="transform:rotateY(45deg)"></div>
  </div>
</div>
<div id="other" style="transform-style:preserve-3d"></div>
</body>`)
	b := New()
	b.UpdateFrame(frame)

	transform := func(name string) *proptree.TransformNode {
		t.Helper()
		n := find(t, frame, name).Properties.Transform()
		if n == nil {
			t.Fatalf("%s has no transform node", name)
		}
		return n
	}

	context := transform("context")
	id := context.RenderingContextID()
	if id == 0 {
		t.Fatal("preserve-3d box has no rendering context")
	}
	if !context.FlattensInheritedTransform() {
		t.Error("context root does not flatten its inherited transform")
	}

	child := transform("child")
	if child.RenderingContextID() != id || child.FlattensInheritedTransform() {
		t.Errorf("child = context %d flattens %v; want context %d without flattening",
			child.RenderingContextID(), child.FlattensInheritedTransform(), id)
	}
	grandchild := transform("grandchild")
	if grandchild.RenderingContextID() != 0 || !grandchild.FlattensInheritedTransform() {
		t.Errorf("grandchild = context %d flattens %v; want no context and flattening",
			grandchild.RenderingContextID(), grandchild.FlattensInheritedTransform())
	}
	if other := transform("other").RenderingContextID(); other == 0 || other == id {
		t.Errorf("other context = %d, want a fresh nonzero id", other)
	}

	epoch := frame.Forest.Epoch()
	b.UpdateFrame(frame)
	if transform("context").RenderingContextID() != id {
		t.Error("rendering context id changed between passes")
	}
	if frame.Forest.Epoch() != epoch {
		t.Error("unchanged rebuild invalidated geometry")
	}
}

func TestPerspective(t *testing.T) {
	frame := load(t, `<body style="margin:0">
<div id="viewer" style="perspective:500px;perspective-origin:10px 20px;width:100px;height:100px">
  <div id="child" style="transform:rotateY(30deg)"></div>
</div>
</body>`)
	New().UpdateFrame(frame)

	perspective := find(t, frame, "viewer").Properties.Perspective()
	if perspective == nil {
		t.Fatal("no perspective node")
	}
	if perspective.Matrix() != proptree.Perspective(500) {
		t.Errorf("perspective matrix = %v", perspective.Matrix())
	}
	if perspective.Origin() != proptree.Pt3(10, 20, 0) {
		t.Errorf("perspective origin = %v, want 10,20,0", perspective.Origin())
	}
	child := find(t, frame, "child").Properties.Transform()
	if child.Parent() != perspective {
		t.Error("child transform is not under the perspective node")
	}
	if child.FlattensInheritedTransform() {
		t.Error("child of a perspective flattens its inherited transform")
	}
}

func TestSVGRoot(t *testing.T) {
	frame := load(t, `<body>
<svg id="svg" width="200" height="100" viewBox="0 0 100 100">
  <rect id="rect" x="10" y="10" width="20" height="20"/>
  <g id="group"></g>
</svg>
<div id="text-parent">text</div>
</body>`)
	New().UpdateFrame(frame)

	svg := find(t, frame, "svg").Properties
	local := svg.SVGLocalToBorderBoxTransform()
	if local == nil {
		t.Fatal("no svg local to border box transform")
	}
	if local.Parent() != frame.Properties.ScrollTranslation {
		t.Error("svg transform is not under the frame scroll translation")
	}
	if got := local.Matrix().MapPoint(proptree.Point{}); got != proptree.Pt(58, 8) {
		t.Errorf("viewBox origin maps to %v, want 58,8", got)
	}
	if got := local.Matrix().MapPoint(proptree.Pt(1, 1)); got != proptree.Pt(59, 9) {
		t.Errorf("viewBox unit maps to %v, want 59,9 (scale 1)", got)
	}
	if got := borderBox(t, frame, "svg").PaintOffset; got != proptree.Pt(8, 8) {
		t.Errorf("svg paint offset = %v, want 8,8", got)
	}

	rect := find(t, frame, "rect").Properties
	if rect == nil || rect.Transform() == nil || rect.Transform().Parent() != local {
		t.Fatal("rect transform is not under the svg transform")
	}
	rectBox := borderBox(t, frame, "rect")
	if rectBox.State.Transform != rect.Transform() || !rectBox.PaintOffset.IsZero() {
		t.Errorf("rect border box = %+v, want its transform and no paint offset", rectBox)
	}
	group := find(t, frame, "group").Properties
	if group == nil || group.HasAny() {
		t.Fatal("untransformed svg child should keep only its border box state")
	}
	if got := borderBox(t, frame, "group").State.Transform; got != local {
		t.Errorf("group transform = %v, want the svg transform", got)
	}

	// 20x20 at 10,10 in the viewBox lands at 68,18 with scale 1.
	m := proptree.NewGeometryMapper(frame.Forest)
	if got, ok := frame.VisualRect(m, find(t, frame, "rect")); !ok || got != proptree.NewRect(68, 18, 20, 20) {
		t.Errorf("rect visual rect = %v, %v; want 68,18 20x20", got, ok)
	}
	if text := find(t, frame, "text-parent").Children[0]; text.Properties != nil {
		t.Error("text object has paint properties")
	}
}

func TestScrollbarPaintOffset(t *testing.T) {
	frame := load(t, `<body><div id="s" style="overflow:scroll;width:100px;height:100px"></div></body>`)
	New().UpdateFrame(frame)

	props := find(t, frame, "s").Properties
	bar := props.ScrollbarPaintOffset()
	if bar == nil {
		t.Fatal("no scrollbar paint offset")
	}
	if bar.Parent() != frame.Properties.ScrollTranslation || bar.Matrix().Translation2D() != proptree.Pt(8, 8) {
		t.Errorf("scrollbar paint offset = %v", bar)
	}
	if got := props.OverflowClip().ClipRect().Rect; got != proptree.NewRect(8, 8, 85, 85) {
		t.Errorf("overflow clip = %v, want 8,8 85x85", got)
	}
	// Nothing overflows and nothing is scrolled.
	if props.Scroll() != nil || props.ScrollTranslation() != nil {
		t.Error("scroll node created for a box that cannot scroll")
	}
}

func TestFixedVisualRect(t *testing.T) {
	tests := []struct {
		name   string
		scroll string
		want   proptree.Rect
	}{
		{"unscrolled", "0 0", proptree.NewRect(5, 5, 10, 10)},
		{"scrolled", "0 100", proptree.NewRect(5, 105, 10, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := load(t, `<html data-scroll="`+tt.scroll+`"><body style="margin:0">
<div style="height:1000px"></div>
<div id="fixed" style="position:fixed;left:5px;top:5px;width:10px;height:10px"></div>
</body></html>`)
			New().UpdateFrame(frame)
			m := proptree.NewGeometryMapper(frame.Forest)
			fixed := find(t, frame, "fixed")

			got, ok := frame.VisualRect(m, fixed)
			if !ok || got != tt.want {
				t.Errorf("visual rect = %v, %v; want %v", got, ok, tt.want)
			}
			got, ok = frame.VisualRectInViewport(m, fixed)
			if !ok || got != tt.want {
				t.Errorf("visual rect in viewport = %v, %v; want %v", got, ok, tt.want)
			}
		})
	}
}
