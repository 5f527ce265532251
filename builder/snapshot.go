package builder

import (
	"fmt"

	"github.com/gogpu/proptree"
	"github.com/gogpu/proptree/layout"
)

// ChangeKind classifies what happened to a property slot between a
// snapshot and the current frame.
type ChangeKind int

const (
	// Added means the slot was empty and now holds a node.
	Added ChangeKind = iota
	// Removed means the slot held a node and is now empty.
	Removed
	// Replaced means the slot holds a different node.
	Replaced
	// Mutated means the slot holds the same node with a different parent
	// or value.
	Mutated
)

// String returns the kind name.
func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Replaced:
		return "replaced"
	case Mutated:
		return "mutated"
	default:
		return "unknown"
	}
}

// Change is one slot difference reported by Snapshot.Compare.
type Change struct {
	// Object is the object name, or FrameObject for frame nodes.
	Object string
	// Slot names the property slot, e.g. "Transform" or "LocalBorderBox".
	Slot string
	Kind ChangeKind
}

func (c Change) String() string {
	return fmt.Sprintf("%s.%s %s", c.Object, c.Slot, c.Kind)
}

// FrameObject is the Change.Object of frame-level nodes.
const FrameObject = "#frame"

// nodeRecord remembers a node pointer and a clone of its value.
type nodeRecord struct {
	node      any
	unchanged func() bool
}

type cloner[N any] interface {
	comparable
	Clone() N
	Equal(N) bool
}

func capture[N cloner[N]](n N) nodeRecord {
	var zero N
	if n == zero {
		return nodeRecord{}
	}
	c := n.Clone()
	return nodeRecord{
		node:      n,
		unchanged: func() bool { return n.Equal(c) },
	}
}

type slotRecord struct {
	name   string
	record nodeRecord
}

func objectSlots(p *proptree.ObjectPaintProperties) []slotRecord {
	if p == nil {
		p = proptree.NewObjectPaintProperties()
	}
	return []slotRecord{
		{"PaintOffsetTranslation", capture(p.PaintOffsetTranslation())},
		{"Transform", capture(p.Transform())},
		{"Effect", capture(p.Effect())},
		{"CSSClip", capture(p.CSSClip())},
		{"CSSClipFixedPosition", capture(p.CSSClipFixedPosition())},
		{"InnerBorderRadiusClip", capture(p.InnerBorderRadiusClip())},
		{"OverflowClip", capture(p.OverflowClip())},
		{"Perspective", capture(p.Perspective())},
		{"SVGLocalToBorderBoxTransform", capture(p.SVGLocalToBorderBoxTransform())},
		{"ScrollTranslation", capture(p.ScrollTranslation())},
		{"ScrollbarPaintOffset", capture(p.ScrollbarPaintOffset())},
		{"Scroll", capture(p.Scroll())},
	}
}

func frameSlots(p *layout.FrameProperties) []slotRecord {
	return []slotRecord{
		{"PreTranslation", capture(p.PreTranslation)},
		{"ContentClip", capture(p.ContentClip)},
		{"ScrollTranslation", capture(p.ScrollTranslation)},
		{"Scroll", capture(p.Scroll)},
	}
}

// WalkNodes calls fn for every node held by the frame and its objects, in
// document order and slot order. object is FrameObject for frame nodes.
// node is a *proptree.TransformNode, *proptree.ClipNode,
// *proptree.EffectNode or *proptree.ScrollNode.
func WalkNodes(frame *layout.Frame, fn func(object, slot string, node any)) {
	visit := func(object string, slots []slotRecord) {
		for _, s := range slots {
			if s.record.node != nil {
				fn(object, s.name, s.record.node)
			}
		}
	}
	visit(FrameObject, frameSlots(&frame.Properties))
	frame.Walk(func(o *layout.Object) bool {
		if o.Properties != nil {
			visit(o.Name, objectSlots(o.Properties))
		}
		return true
	})
}

type objectRecord struct {
	object    *layout.Object
	slots     []slotRecord
	borderBox *proptree.PropertyTreeStateWithOffset
}

func recordObject(o *layout.Object) objectRecord {
	r := objectRecord{object: o, slots: objectSlots(o.Properties)}
	if o.Properties != nil {
		if lbb := o.Properties.LocalBorderBoxProperties(); lbb != nil {
			copied := *lbb
			r.borderBox = &copied
		}
	}
	return r
}

// Snapshot is a copy of a frame's paint property nodes, taken before a
// rebuild so the rebuild's effect can be checked node by node.
type Snapshot struct {
	frame   []slotRecord
	objects []objectRecord
}

// TakeSnapshot records the current nodes of frame and their values.
func TakeSnapshot(frame *layout.Frame) *Snapshot {
	s := &Snapshot{frame: frameSlots(&frame.Properties)}
	frame.Walk(func(o *layout.Object) bool {
		s.objects = append(s.objects, recordObject(o))
		return true
	})
	return s
}

// Compare reports every slot of frame that differs from the snapshot, in
// document order. Objects that left the tree report their nodes as
// removed. An empty result means the rebuild kept every node identical.
func (s *Snapshot) Compare(frame *layout.Frame) []Change {
	var changes []Change
	changes = diffSlots(changes, FrameObject, s.frame, frameSlots(&frame.Properties))

	before := make(map[*layout.Object]objectRecord, len(s.objects))
	for _, r := range s.objects {
		before[r.object] = r
	}
	seen := make(map[*layout.Object]bool, len(s.objects))

	frame.Walk(func(o *layout.Object) bool {
		seen[o] = true
		after := recordObject(o)
		prev, ok := before[o]
		if !ok {
			prev = objectRecord{object: o, slots: objectSlots(nil)}
		}
		changes = diffSlots(changes, o.Name, prev.slots, after.slots)
		if kind, changed := diffBorderBox(prev.borderBox, after.borderBox); changed {
			changes = append(changes, Change{Object: o.Name, Slot: "LocalBorderBox", Kind: kind})
		}
		return true
	})

	for _, r := range s.objects {
		if seen[r.object] {
			continue
		}
		changes = diffSlots(changes, r.object.Name, r.slots, objectSlots(nil))
	}
	return changes
}

func diffSlots(changes []Change, object string, before, after []slotRecord) []Change {
	for i := range before {
		b, a := before[i].record, after[i].record
		var kind ChangeKind
		switch {
		case b.node == nil && a.node == nil:
			continue
		case b.node == nil:
			kind = Added
		case a.node == nil:
			kind = Removed
		case b.node != a.node:
			kind = Replaced
		case !b.unchanged():
			kind = Mutated
		default:
			continue
		}
		changes = append(changes, Change{Object: object, Slot: before[i].name, Kind: kind})
	}
	return changes
}

func diffBorderBox(before, after *proptree.PropertyTreeStateWithOffset) (ChangeKind, bool) {
	switch {
	case before == nil && after == nil:
		return 0, false
	case before == nil:
		return Added, true
	case after == nil:
		return Removed, true
	case *before != *after:
		return Mutated, true
	default:
		return 0, false
	}
}
