package proptree

import (
	"strings"
	"testing"
)

func expectPanic(t *testing.T, substr string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", substr)
		}
		if msg, _ := r.(string); !strings.Contains(msg, substr) {
			t.Fatalf("panic = %v, want it to contain %q", r, substr)
		}
	}()
	fn()
}

func TestForestRoots(t *testing.T) {
	f := NewForest()

	if !f.RootTransform().IsRoot() || !f.RootClip().IsRoot() ||
		!f.RootEffect().IsRoot() || !f.RootScroll().IsRoot() {
		t.Fatal("forest roots must report IsRoot")
	}
	if !f.RootTransform().Matrix().IsIdentity() {
		t.Error("root transform is not identity")
	}
	if f.RootClip().ClipRect().Rect != InfiniteRect() {
		t.Errorf("root clip = %v, want infinite", f.RootClip().ClipRect())
	}
	if f.RootEffect().Opacity() != 1 {
		t.Errorf("root opacity = %v, want 1", f.RootEffect().Opacity())
	}
	if !f.RootState().IsComplete() {
		t.Error("RootState() is incomplete")
	}

	other := NewForest()
	if other.RootTransform() == f.RootTransform() {
		t.Error("forests share root nodes")
	}
}

func TestUpdateOnRootPanics(t *testing.T) {
	f := NewForest()
	expectPanic(t, "root TransformNode", func() {
		f.RootTransform().Update(f.RootTransform(), TransformNodeState{})
	})
	expectPanic(t, "root ClipNode", func() {
		f.RootClip().Update(f.RootClip(), ClipNodeState{LocalTransformSpace: f.RootTransform()})
	})
	expectPanic(t, "root EffectNode", func() {
		f.RootEffect().Update(f.RootEffect(), EffectNodeState{})
	})
	expectPanic(t, "root ScrollNode", func() {
		f.RootScroll().Update(f.RootScroll(), ScrollNodeState{ScrollOffsetTranslation: f.RootTransform()})
	})
}

func TestTransformNodeUpdateKeepsIdentity(t *testing.T) {
	f := NewForest()
	n := NewTransformNode(f.RootTransform(), TransformNodeState{Matrix: Translate(1, 2)})
	before := f.Epoch()

	if n.Update(f.RootTransform(), TransformNodeState{Matrix: Translate(1, 2)}) {
		t.Error("Update with identical state reported a change")
	}
	if f.Epoch() != before {
		t.Error("no-op Update bumped the epoch")
	}

	if !n.Update(f.RootTransform(), TransformNodeState{Matrix: Translate(3, 4)}) {
		t.Error("Update with new matrix reported no change")
	}
	if f.Epoch() == before {
		t.Error("Update did not bump the epoch")
	}
	if got := n.Matrix().Translation2D(); got != Pt(3, 4) {
		t.Errorf("matrix translation = %v, want 3,4", got)
	}
}

func TestTransformNodeZeroMatrixIsIdentity(t *testing.T) {
	f := NewForest()
	n := NewTransformNode(f.RootTransform(), TransformNodeState{})
	if !n.Matrix().IsIdentity() {
		t.Errorf("zero matrix normalized to %v, want identity", n.Matrix())
	}
}

func TestReparentUnderSelfPanics(t *testing.T) {
	f := NewForest()
	a := NewTransformNode(f.RootTransform(), TransformNodeState{})
	b := NewTransformNode(a, TransformNodeState{})
	expectPanic(t, "under itself", func() {
		a.Update(b, TransformNodeState{})
	})
}

func TestCrossForestParentPanics(t *testing.T) {
	f1, f2 := NewForest(), NewForest()
	n := NewTransformNode(f1.RootTransform(), TransformNodeState{})
	expectPanic(t, "different forest", func() {
		n.Update(f2.RootTransform(), TransformNodeState{})
	})

	// Spaces referenced from a node's state must share its forest too.
	clip := NewClipNode(f1.RootClip(), ClipNodeState{LocalTransformSpace: f1.RootTransform()})
	expectPanic(t, "different forest", func() {
		clip.Update(f1.RootClip(), ClipNodeState{LocalTransformSpace: f2.RootTransform()})
	})
	effect := NewEffectNode(f1.RootEffect(), EffectNodeState{Opacity: 0.5})
	expectPanic(t, "different forest", func() {
		effect.Update(f1.RootEffect(), EffectNodeState{OutputClip: f2.RootClip(), Opacity: 0.5})
	})
	expectPanic(t, "different forest", func() {
		NewScrollNode(f1.RootScroll(), ScrollNodeState{ScrollOffsetTranslation: f2.RootTransform()})
	})
}

func TestScrollNodeRequiresTranslation(t *testing.T) {
	f := NewForest()
	scaled := NewTransformNode(f.RootTransform(), TransformNodeState{Matrix: Scale(2, 2)})
	expectPanic(t, "2D translation", func() {
		NewScrollNode(f.RootScroll(), ScrollNodeState{ScrollOffsetTranslation: scaled})
	})

	offset := NewTransformNode(f.RootTransform(), TransformNodeState{Matrix: Translate(-10, -20)})
	s := NewScrollNode(f.RootScroll(), ScrollNodeState{
		ScrollOffsetTranslation: offset,
		Clip:                    Sz(100, 100),
		Bounds:                  Sz(50, 50),
	})
	if got := s.Offset(); got != Pt(10, 20) {
		t.Errorf("Offset() = %v, want 10,20", got)
	}
	// Bounds smaller than clip is allowed.
	if s.Bounds() != Sz(50, 50) {
		t.Errorf("Bounds() = %v", s.Bounds())
	}
}

func TestScrollNodeReasons(t *testing.T) {
	f := NewForest()
	s := NewScrollNode(f.RootScroll(), ScrollNodeState{ScrollOffsetTranslation: f.RootTransform()})

	s.AddMainThreadScrollingReasons(HasBackgroundAttachmentFixedObjects)
	if !s.HasMainThreadScrollingReasons(HasBackgroundAttachmentFixedObjects) {
		t.Error("reason not added")
	}
	if s.HasMainThreadScrollingReasons(ThreadedScrollingDisabled) {
		t.Error("unexpected reason")
	}

	f.RootScroll().AddMainThreadScrollingReasons(ThreadedScrollingDisabled)
	if f.RootScroll().MainThreadScrollingReasons() != 0 {
		t.Error("root scroll node accepted reasons")
	}

	r := ThreadedScrollingDisabled | HasBackgroundAttachmentFixedObjects
	if got, want := r.String(), "threaded-scrolling-disabled|background-attachment-fixed"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestEffectNodeState(t *testing.T) {
	f := NewForest()
	filters := FilterOperations{{Kind: FilterBlur, Amount: 2}}
	e := NewEffectNode(f.RootEffect(), EffectNodeState{Opacity: 1.5, Filters: filters})

	if e.Opacity() != 1 {
		t.Errorf("opacity = %v, want clamped to 1", e.Opacity())
	}
	if e.LocalTransformSpace() != f.RootTransform() || e.OutputClip() != f.RootClip() {
		t.Error("missing spaces were not defaulted to roots")
	}

	// The node keeps its own copy of the filter list.
	filters[0].Amount = 10
	if e.Filters()[0].Amount != 2 {
		t.Error("effect node aliases the caller's filter slice")
	}

	if e.Update(f.RootEffect(), EffectNodeState{Opacity: 1, Filters: FilterOperations{{Kind: FilterBlur, Amount: 2}}}) {
		t.Error("Update with equal filters reported a change")
	}

	child := NewEffectNode(e, EffectNodeState{Opacity: 0.5})
	inner := NewEffectNode(child, EffectNodeState{Opacity: 0.5})
	if got := inner.AccumulatedOpacity(); got != 0.25 {
		t.Errorf("AccumulatedOpacity = %v, want 0.25", got)
	}
}

func TestNodeCloneAndEqual(t *testing.T) {
	f := NewForest()
	n := NewTransformNode(f.RootTransform(), TransformNodeState{Matrix: Translate(1, 1)})
	c := n.Clone()
	if c == n || !c.Equal(n) {
		t.Fatal("Clone must be a distinct but equal node")
	}
	n.Update(f.RootTransform(), TransformNodeState{Matrix: Translate(2, 2)})
	if c.Equal(n) {
		t.Error("clone still equal after update")
	}

	clip := NewClipNode(f.RootClip(), ClipNodeState{
		LocalTransformSpace: n,
		ClipRect:            NewRoundedRect(NewRect(0, 0, 10, 10)),
	})
	cc := clip.Clone()
	clip.Update(f.RootClip(), ClipNodeState{
		LocalTransformSpace: n,
		ClipRect:            NewRoundedRect(NewRect(0, 0, 20, 10)),
	})
	if cc.Equal(clip) {
		t.Error("clip clone still equal after update")
	}
}

func TestLeastCommonAncestor(t *testing.T) {
	f := NewForest()
	r := f.RootTransform()
	a := NewTransformNode(r, TransformNodeState{})
	b := NewTransformNode(r, TransformNodeState{})
	a1 := NewTransformNode(a, TransformNodeState{})
	b1 := NewTransformNode(b, TransformNodeState{})

	tests := []struct {
		name string
		x, y *TransformNode
		want *TransformNode
	}{
		{"cousins", a1, b1, r},
		{"child and parent", a1, a, a},
		{"descendant and root", a1, r, r},
		{"same node", b1, b1, b1},
		{"siblings", a, b, r},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LeastCommonAncestor(tt.x, tt.y); got != tt.want {
				t.Errorf("LeastCommonAncestor = %p, want %p", got, tt.want)
			}
			if got := LeastCommonAncestor(tt.y, tt.x); got != tt.want {
				t.Errorf("LeastCommonAncestor (swapped) = %p, want %p", got, tt.want)
			}
		})
	}

	other := NewForest()
	if got := LeastCommonAncestor(a1, other.RootTransform()); got != nil {
		t.Errorf("disconnected LCA = %p, want nil", got)
	}

	c := NewClipNode(f.RootClip(), ClipNodeState{LocalTransformSpace: r})
	c1 := NewClipNode(c, ClipNodeState{LocalTransformSpace: r})
	if got := LeastCommonAncestor(c1, c); got != c {
		t.Error("clip LCA mismatch")
	}
	if !IsAncestorOf(c, c1) || IsAncestorOf(c1, c) {
		t.Error("IsAncestorOf mismatch")
	}
}
