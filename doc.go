// Package proptree implements paint property trees and geometry mapping.
//
// # Overview
//
// Painted content is positioned by four independent trees of nodes:
//
//   - TransformNode: a coordinate space (matrix, origin, 3D flattening)
//   - ClipNode: a rounded clip rectangle in some transform space
//   - EffectNode: opacity and filters, following the stacking context tree
//   - ScrollNode: a scroll container and its scroll offset translation
//
// A PropertyTreeState names one node of each tree and says where a piece
// of content lives. ObjectPaintProperties holds the nodes that a single
// renderable object originates, and the state its border box paints in.
//
// The builder package fills these in from layout output; GeometryMapper
// answers "where does this rect end up in that ancestor's space, and what
// survives clipping" queries for painting, hit testing and invalidation.
//
// # Quick Start
//
//	forest := proptree.NewForest()
//	scale := proptree.NewTransformNode(forest.RootTransform(), proptree.TransformNodeState{
//	    Matrix: proptree.Scale(2, 2),
//	})
//	clip := proptree.NewClipNode(forest.RootClip(), proptree.ClipNodeState{
//	    LocalTransformSpace: scale,
//	    ClipRect:            proptree.NewRoundedRect(proptree.NewRect(0, 0, 50, 50)),
//	})
//
//	local := forest.RootState()
//	local.Transform, local.Clip = scale, clip
//
//	mapper := proptree.NewGeometryMapper(forest)
//	r, ok := mapper.MapToVisualRectInDestinationSpace(
//	    proptree.NewRect(0, 0, 100, 100), local, forest.RootState())
//	// r == (0,0 100x100), ok == true
//
// # Coordinate System
//
// Origin at top-left, x to the right, y down, lengths in CSS pixels.
// Matrices act on column vectors: a node's matrix maps its own space into
// its parent's, and mapping from a descendant to an ancestor multiplies
// ancestor matrices on the left.
//
// # Identity and Updates
//
// Nodes are updated in place, keeping their identity, so states held by
// painted content stay valid across style changes. Every effective update
// bumps the owning Forest's epoch, which GeometryMapper uses to discard
// memoized results.
//
// # Errors
//
// Queries report success with a bool and never panic on malformed input.
// Violated preconditions (updating a root, reparenting a node under
// itself, a non-translation scroll offset) are programmer errors and panic.
package proptree
