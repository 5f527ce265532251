// Package layout is the input model of the paint property tree builder.
//
// A layout engine produces a tree of Objects with computed Style and box
// geometry, rooted in a Frame. The builder reads that tree and writes its
// output back: FrameProperties on the frame and ObjectPaintProperties on
// each object that needs them.
//
// Geometry is in CSS pixels. An object's Location is relative to its
// containing block's border box, which depends on the positioning scheme
// (see Object.Location).
package layout
