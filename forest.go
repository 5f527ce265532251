package proptree

// Forest owns the canonical root node of each of the four property trees.
// Every node created under a forest's roots belongs to that forest.
//
// A Forest replaces process-wide root singletons: construct one per
// document (or per test) and never share roots between unrelated forests.
//
// Forest is not safe for concurrent use. All mutation happens during a
// single paint lifecycle pass on one goroutine.
type Forest struct {
	transform *TransformNode
	clip      *ClipNode
	effect    *EffectNode
	scroll    *ScrollNode

	// epoch is bumped whenever a node of this forest is updated in place
	// with a different value. Geometry mappers compare it to detect stale
	// memoized results.
	epoch uint64
}

// NewForest creates a forest with fresh root nodes.
func NewForest() *Forest {
	f := &Forest{}
	f.transform = &TransformNode{
		forest: f,
		state:  TransformNodeState{Matrix: Identity()},
	}
	f.clip = &ClipNode{
		forest: f,
		state: ClipNodeState{
			LocalTransformSpace: f.transform,
			ClipRect:            NewRoundedRect(InfiniteRect()),
		},
	}
	f.effect = &EffectNode{
		forest: f,
		state: EffectNodeState{
			LocalTransformSpace: f.transform,
			OutputClip:          f.clip,
			Opacity:             1,
		},
	}
	f.scroll = &ScrollNode{
		forest: f,
		state:  ScrollNodeState{ScrollOffsetTranslation: f.transform},
	}
	return f
}

// RootTransform returns the root of the transform tree.
func (f *Forest) RootTransform() *TransformNode { return f.transform }

// RootClip returns the root of the clip tree. Its clip rect is infinite.
func (f *Forest) RootClip() *ClipNode { return f.clip }

// RootEffect returns the root of the effect tree.
func (f *Forest) RootEffect() *EffectNode { return f.effect }

// RootScroll returns the root of the scroll tree.
func (f *Forest) RootScroll() *ScrollNode { return f.scroll }

// RootState returns the property tree state made of the four roots.
func (f *Forest) RootState() PropertyTreeState {
	return PropertyTreeState{
		Transform: f.transform,
		Clip:      f.clip,
		Effect:    f.effect,
		Scroll:    f.scroll,
	}
}

// Epoch returns a counter that changes whenever any node of the forest is
// mutated in place.
func (f *Forest) Epoch() uint64 {
	return f.epoch
}

func (f *Forest) invalidate() {
	f.epoch++
}

// checkParent panics when parent is nil or belongs to another forest.
func checkParent(kind string, parentForest, forest *Forest) {
	if parentForest == nil {
		panic("proptree: " + kind + " requires a non-nil parent")
	}
	if forest != nil && parentForest != forest {
		panic("proptree: " + kind + " parent belongs to a different forest")
	}
}
