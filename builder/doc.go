// Package builder builds paint property trees from a layout tree.
//
// UpdateFrame walks a layout.Frame once in document order. For every
// object it decides which nodes the object originates (paint offset
// translation, transform, effect, clips, perspective, SVG viewBox
// mapping, scroll) and creates, updates in place or clears them on the
// object's ObjectPaintProperties.
//
// While walking, the builder carries three containing block contexts
// (normal flow, absolute, fixed) and the current effect, because
// positioned content does not inherit geometry from its DOM parent and
// effects follow stacking contexts:
//
//	b := builder.New()
//	b.UpdateFrame(frame)
//	props := frame.Find("box").Properties
//
// Running UpdateFrame again after a style change keeps the identity of
// every node that is still needed. TakeSnapshot and Snapshot.Compare (or
// WithVerifier) report which nodes a pass added, removed, replaced or
// mutated.
package builder
