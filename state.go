package proptree

import "fmt"

// PropertyTreeState identifies where a piece of content lives: one node of
// each property tree. The pointers are borrowed; the state owns nothing.
//
// States compare with == by node identity. There is no deep equality.
type PropertyTreeState struct {
	Transform *TransformNode
	Clip      *ClipNode
	Effect    *EffectNode
	Scroll    *ScrollNode
}

// IsComplete reports whether all four nodes are set.
func (s PropertyTreeState) IsComplete() bool {
	return s.Transform != nil && s.Clip != nil && s.Effect != nil && s.Scroll != nil
}

func (s PropertyTreeState) String() string {
	return fmt.Sprintf("{transform: %v; clip: %v; effect: %v; scroll: %v}",
		s.Transform, s.Clip, s.Effect, s.Scroll)
}

// PropertyTreeStateWithOffset pairs a state with the paint offset of a box
// inside the state's transform space.
type PropertyTreeStateWithOffset struct {
	PaintOffset Point
	State       PropertyTreeState
}
