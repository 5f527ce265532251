package proptree

import (
	"github.com/gogpu/proptree/internal/cache"
)

// defaultMapperCacheLimit bounds the number of distinct ancestors whose
// precomputed data a mapper keeps.
const defaultMapperCacheLimit = 256

// MapperOption configures a GeometryMapper during creation.
type MapperOption func(*mapperOptions)

type mapperOptions struct {
	cacheLimit int
}

// WithCacheLimit sets the soft limit on the number of ancestors with
// memoized data. Zero means unlimited.
func WithCacheLimit(n int) MapperOption {
	return func(o *mapperOptions) {
		if n >= 0 {
			o.cacheLimit = n
		}
	}
}

// ancestorClipKey identifies the destination of memoized clip rects. Clip
// rects depend on both the ancestor clip (where accumulation stops) and the
// ancestor transform (the space they are expressed in).
type ancestorClipKey struct {
	transform *TransformNode
	clip      *ClipNode
}

// GeometryMapper maps rectangles between property tree states.
//
// For every destination ancestor the mapper memoizes the transform from
// each node it has visited to that ancestor, and the accumulated clip rect
// of each clip node in the ancestor's space. Repeated queries against the
// same ancestor are O(1) for previously visited nodes.
//
// Memoized data is keyed by node identity. Because nodes are updated in
// place, the mapper drops all memoized data whenever the forest's epoch
// changes; ClearCache does so explicitly.
//
// GeometryMapper is not safe for concurrent use.
type GeometryMapper struct {
	forest *Forest
	epoch  uint64
	resets uint64

	transforms *cache.Memo[*TransformNode, map[*TransformNode]Matrix]
	clips      *cache.Memo[ancestorClipKey, map[*ClipNode]Rect]
}

// NewGeometryMapper creates a mapper for the nodes of forest.
func NewGeometryMapper(forest *Forest, opts ...MapperOption) *GeometryMapper {
	o := mapperOptions{cacheLimit: defaultMapperCacheLimit}
	for _, opt := range opts {
		opt(&o)
	}
	return &GeometryMapper{
		forest:     forest,
		epoch:      forest.Epoch(),
		transforms: cache.New[*TransformNode, map[*TransformNode]Matrix](o.cacheLimit),
		clips:      cache.New[ancestorClipKey, map[*ClipNode]Rect](o.cacheLimit),
	}
}

// ClearCache drops all memoized data.
func (m *GeometryMapper) ClearCache() {
	m.transforms.Clear()
	m.clips.Clear()
	m.epoch = m.forest.Epoch()
}

// checkEpoch drops memoized data computed before the last node update.
func (m *GeometryMapper) checkEpoch() {
	if m.epoch == m.forest.Epoch() {
		return
	}
	if m.transforms.Len() > 0 || m.clips.Len() > 0 {
		m.resets++
		Logger().Debug("geometry mapper cache reset",
			"epoch", m.forest.Epoch(),
			"ancestors", m.transforms.Len())
	}
	m.ClearCache()
}

// MapperStats reports memoization counters.
type MapperStats struct {
	// CachedAncestors is the number of ancestors with memoized transforms.
	CachedAncestors int
	// AncestorHits and AncestorMisses count lookups of per-ancestor data.
	AncestorHits   uint64
	AncestorMisses uint64
	// Resets counts cache drops caused by node updates.
	Resets uint64
}

// Stats returns memoization counters.
func (m *GeometryMapper) Stats() MapperStats {
	ts, cs := m.transforms.Stats(), m.clips.Stats()
	return MapperStats{
		CachedAncestors: ts.Len,
		AncestorHits:    ts.Hits + cs.Hits,
		AncestorMisses:  ts.Misses + cs.Misses,
		Resets:          m.resets,
	}
}

func (m *GeometryMapper) owns(n *TransformNode) bool {
	return n != nil && n.forest == m.forest
}

// LocalToAncestorMatrix returns the matrix mapping local's space into
// ancestor's space. It fails when ancestor is not an ancestor of (or equal
// to) local.
func (m *GeometryMapper) LocalToAncestorMatrix(local, ancestor *TransformNode) (Matrix, bool) {
	if !m.owns(local) || !m.owns(ancestor) {
		return Identity(), false
	}
	m.checkEpoch()
	if local == ancestor {
		return Identity(), true
	}

	data := m.transforms.GetOrCreate(ancestor, func() map[*TransformNode]Matrix {
		return make(map[*TransformNode]Matrix)
	})

	// Walk up until a memoized node or the ancestor is found.
	var intermediate []*TransformNode
	acc := Identity()
	found := false
	for n := local; n != nil; n = n.parent {
		if cached, ok := data[n]; ok {
			acc = cached
			found = true
			break
		}
		if n == ancestor {
			found = true
			break
		}
		intermediate = append(intermediate, n)
	}
	if !found {
		Logger().Debug("transform is not an ancestor", "local", local, "ancestor", ancestor)
		return Identity(), false
	}

	// Walk back down, composing and memoizing as we go.
	for i := len(intermediate) - 1; i >= 0; i-- {
		n := intermediate[i]
		if n.state.FlattensInheritedTransform {
			acc = acc.Flatten()
		}
		acc = acc.Multiply(n.LocalMatrix())
		data[n] = acc
	}
	return acc, true
}

// LocalToAncestorRect maps rect from local's space into ancestor's space
// without clipping.
func (m *GeometryMapper) LocalToAncestorRect(rect Rect, local, ancestor *TransformNode) (Rect, bool) {
	mtx, ok := m.LocalToAncestorMatrix(local, ancestor)
	if !ok {
		return rect, false
	}
	return mtx.MapRect(rect), true
}

// AncestorToLocalRect maps rect from ancestor's space into local's space.
// It fails when ancestor is not an ancestor of local or the transform
// between them is not invertible.
func (m *GeometryMapper) AncestorToLocalRect(rect Rect, local, ancestor *TransformNode) (Rect, bool) {
	mtx, ok := m.LocalToAncestorMatrix(local, ancestor)
	if !ok {
		return rect, false
	}
	inv, ok := mtx.Inverse()
	if !ok {
		Logger().Debug("transform is not invertible", "local", local)
		return rect, false
	}
	return inv.MapRect(rect), true
}

// matrixBetween returns the matrix mapping from's space into to's space,
// going through their least common ancestor when to is not an ancestor.
func (m *GeometryMapper) matrixBetween(from, to *TransformNode) (Matrix, bool) {
	if mtx, ok := m.LocalToAncestorMatrix(from, to); ok {
		return mtx, true
	}
	lca := LeastCommonAncestor(from, to)
	if lca == nil {
		return Identity(), false
	}
	up, ok := m.LocalToAncestorMatrix(from, lca)
	if !ok {
		return Identity(), false
	}
	down, ok := m.LocalToAncestorMatrix(to, lca)
	if !ok {
		return Identity(), false
	}
	inv, ok := down.Inverse()
	if !ok {
		return Identity(), false
	}
	return inv.Multiply(up), true
}

// LocalToAncestorClipRect returns the intersection of all clips from
// local.Clip up to, but excluding, ancestor.Clip, expressed in
// ancestor.Transform's space. It fails when ancestor.Clip is not an
// ancestor of local.Clip.
func (m *GeometryMapper) LocalToAncestorClipRect(local, ancestor PropertyTreeState) (Rect, bool) {
	if local.Clip == nil || ancestor.Clip == nil || !m.owns(ancestor.Transform) {
		return InfiniteRect(), false
	}
	m.checkEpoch()

	data := m.clips.GetOrCreate(ancestorClipKey{ancestor.Transform, ancestor.Clip}, func() map[*ClipNode]Rect {
		return make(map[*ClipNode]Rect)
	})

	var intermediate []*ClipNode
	clip := InfiniteRect()
	found := false
	for n := local.Clip; n != nil; n = n.parent {
		if cached, ok := data[n]; ok {
			clip = cached
			found = true
			break
		}
		if n == ancestor.Clip {
			found = true
			break
		}
		intermediate = append(intermediate, n)
	}
	if !found {
		Logger().Debug("clip is not an ancestor", "local", local.Clip, "ancestor", ancestor.Clip)
		return InfiniteRect(), false
	}

	for i := len(intermediate) - 1; i >= 0; i-- {
		n := intermediate[i]
		mtx, ok := m.matrixBetween(n.state.LocalTransformSpace, ancestor.Transform)
		if !ok {
			return InfiniteRect(), false
		}
		clip = clip.Intersect(mtx.MapRect(n.state.ClipRect.Rect))
		data[n] = clip
	}
	return clip, true
}

// LocalToVisualRectInAncestorSpace maps rect from local into ancestor's
// transform space and intersects it with every clip between them,
// excluding ancestor's own clip. Both ancestor.Transform and ancestor.Clip
// must be ancestors of local's.
func (m *GeometryMapper) LocalToVisualRectInAncestorSpace(rect Rect, local, ancestor PropertyTreeState) (Rect, bool) {
	mtx, ok := m.LocalToAncestorMatrix(local.Transform, ancestor.Transform)
	if !ok {
		return rect, false
	}
	clip, ok := m.LocalToAncestorClipRect(local, ancestor)
	if !ok {
		return rect, false
	}
	return mtx.MapRect(rect).Intersect(clip), true
}

// MapToVisualRectInDestinationSpace maps rect from source into destination
// and applies the clips between them, excluding destination's own clip.
// Clip composition is only defined when destination is an ancestor state
// of source; for other destinations it reports false.
func (m *GeometryMapper) MapToVisualRectInDestinationSpace(rect Rect, source, destination PropertyTreeState) (Rect, bool) {
	return m.LocalToVisualRectInAncestorSpace(rect, source, destination)
}

// MapToVisualRectIncludingDestinationClip is like
// MapToVisualRectInDestinationSpace but also applies destination's own
// clip.
func (m *GeometryMapper) MapToVisualRectIncludingDestinationClip(rect Rect, source, destination PropertyTreeState) (Rect, bool) {
	visual, ok := m.LocalToVisualRectInAncestorSpace(rect, source, destination)
	if !ok {
		return rect, false
	}
	own := destination.Clip
	mtx, ok := m.matrixBetween(own.state.LocalTransformSpace, destination.Transform)
	if !ok {
		return rect, false
	}
	return visual.Intersect(mtx.MapRect(own.state.ClipRect.Rect)), true
}

// MapRectToDestinationSpace maps rect from source's transform space into
// destination's without clipping. When destination is not an ancestor the
// rect is mapped up to the least common ancestor and then down into
// destination.
func (m *GeometryMapper) MapRectToDestinationSpace(rect Rect, source, destination PropertyTreeState) (Rect, bool) {
	if r, ok := m.LocalToAncestorRect(rect, source.Transform, destination.Transform); ok {
		return r, true
	}
	lca := LeastCommonAncestor(source.Transform, destination.Transform)
	if lca == nil {
		Logger().Debug("transforms are disconnected", "source", source.Transform, "destination", destination.Transform)
		return rect, false
	}
	up, ok := m.LocalToAncestorRect(rect, source.Transform, lca)
	if !ok {
		return rect, false
	}
	return m.AncestorToLocalRect(up, destination.Transform, lca)
}
