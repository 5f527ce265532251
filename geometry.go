package proptree

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f64"
)

// Point represents a 2D point or offset in CSS pixels.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the point scaled by a scalar.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// IsZero reports whether both coordinates are zero.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Round returns the point with both coordinates rounded to the nearest
// integer, halves away from zero.
func (p Point) Round() Point {
	return Point{X: math.Round(p.X), Y: math.Round(p.Y)}
}

func (p Point) String() string {
	return fmt.Sprintf("%g,%g", p.X, p.Y)
}

// Point3 is a 3D point, used for transform and perspective origins.
type Point3 = f64.Vec3

// Pt3 creates a Point3.
func Pt3(x, y, z float64) Point3 {
	return Point3{x, y, z}
}

// Size is a width/height pair.
type Size struct {
	W, H float64
}

// Sz creates a Size.
func Sz(w, h float64) Size {
	return Size{W: w, H: h}
}

// IsEmpty reports whether either dimension is non-positive.
func (s Size) IsEmpty() bool {
	return s.W <= 0 || s.H <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.W, s.H)
}

// Insets are per-side distances, in CSS order.
type Insets struct {
	Top, Right, Bottom, Left float64
}

// Rect represents an axis-aligned rectangle with float64 coordinates.
type Rect struct {
	X, Y float64 // Top-left corner
	W, H float64 // Width and height
}

// NewRect creates a Rect from position and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectFromSize creates a Rect at location with the given size.
func RectFromSize(location Point, size Size) Rect {
	return Rect{X: location.X, Y: location.Y, W: size.W, H: size.H}
}

// infiniteExtent matches the saturated integer range used by layout for
// "no clip" rectangles.
const infiniteExtent = 1 << 25

// InfiniteRect returns the rectangle used to represent the absence of a clip.
func InfiniteRect() Rect {
	return Rect{X: -infiniteExtent / 2, Y: -infiniteExtent / 2, W: infiniteExtent, H: infiniteExtent}
}

// Right returns the right edge x-coordinate.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the bottom edge y-coordinate.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Location returns the top-left corner.
func (r Rect) Location() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the rectangle size.
func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

// IsEmpty returns true if the rectangle has zero area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Move returns the rectangle translated by offset.
func (r Rect) Move(offset Point) Rect {
	return Rect{X: r.X + offset.X, Y: r.Y + offset.Y, W: r.W, H: r.H}
}

// Intersect returns the intersection of two rectangles.
// Disjoint rectangles produce the zero Rect.
func (r Rect) Intersect(other Rect) Rect {
	x0 := math.Max(r.X, other.X)
	y0 := math.Max(r.Y, other.Y)
	x1 := math.Min(r.Right(), other.Right())
	y1 := math.Min(r.Bottom(), other.Bottom())

	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Union returns the smallest rectangle containing both rectangles.
// Empty operands are ignored.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x0 := math.Min(r.X, other.X)
	y0 := math.Min(r.Y, other.Y)
	x1 := math.Max(r.Right(), other.Right())
	y1 := math.Max(r.Bottom(), other.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Inset returns the rectangle shrunk by the given insets.
// Negative resulting dimensions are clamped to zero.
func (r Rect) Inset(in Insets) Rect {
	return Rect{
		X: r.X + in.Left,
		Y: r.Y + in.Top,
		W: math.Max(0, r.W-in.Left-in.Right),
		H: math.Max(0, r.H-in.Top-in.Bottom),
	}
}

// PixelSnap rounds the edges of the rectangle to integer pixels, keeping
// the rounded right and bottom edges instead of the rounded size.
func (r Rect) PixelSnap() Rect {
	x0, y0 := math.Round(r.X), math.Round(r.Y)
	x1, y1 := math.Round(r.Right()), math.Round(r.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Quad returns the four corners clockwise from the top-left.
func (r Rect) Quad() Quad {
	return Quad{
		P1: Point{X: r.X, Y: r.Y},
		P2: Point{X: r.Right(), Y: r.Y},
		P3: Point{X: r.Right(), Y: r.Bottom()},
		P4: Point{X: r.X, Y: r.Bottom()},
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("%g,%g %gx%g", r.X, r.Y, r.W, r.H)
}

// Quad is an arbitrary quadrilateral, typically a rectangle after a
// non-axis-aligned transform.
type Quad struct {
	P1, P2, P3, P4 Point
}

// BoundingBox returns the smallest axis-aligned rectangle enclosing the quad.
func (q Quad) BoundingBox() Rect {
	minX := math.Min(math.Min(q.P1.X, q.P2.X), math.Min(q.P3.X, q.P4.X))
	maxX := math.Max(math.Max(q.P1.X, q.P2.X), math.Max(q.P3.X, q.P4.X))
	minY := math.Min(math.Min(q.P1.Y, q.P2.Y), math.Min(q.P3.Y, q.P4.Y))
	maxY := math.Max(math.Max(q.P1.Y, q.P2.Y), math.Max(q.P3.Y, q.P4.Y))
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Points returns the corners as a slice, in order.
func (q Quad) Points() []Point {
	return []Point{q.P1, q.P2, q.P3, q.P4}
}

// Radii holds the four corner radii of a rounded rectangle. Each corner is
// a Size so elliptical corners can be expressed.
type Radii struct {
	TopLeft, TopRight, BottomRight, BottomLeft Size
}

// UniformRadii returns radii with all corners circular with radius r.
func UniformRadii(r float64) Radii {
	s := Size{W: r, H: r}
	return Radii{TopLeft: s, TopRight: s, BottomRight: s, BottomLeft: s}
}

// IsZero reports whether all corners are square.
func (r Radii) IsZero() bool {
	return r.TopLeft.IsEmpty() && r.TopRight.IsEmpty() &&
		r.BottomRight.IsEmpty() && r.BottomLeft.IsEmpty()
}

// Shrink reduces each corner by the widths of its two adjacent sides,
// clamping each axis at zero independently. Horizontal radii shrink by the
// left/right inset and vertical radii by the top/bottom inset.
func (r Radii) Shrink(in Insets) Radii {
	shrink := func(s Size, horizontal, vertical float64) Size {
		return Size{W: math.Max(0, s.W-horizontal), H: math.Max(0, s.H-vertical)}
	}
	return Radii{
		TopLeft:     shrink(r.TopLeft, in.Left, in.Top),
		TopRight:    shrink(r.TopRight, in.Right, in.Top),
		BottomRight: shrink(r.BottomRight, in.Right, in.Bottom),
		BottomLeft:  shrink(r.BottomLeft, in.Left, in.Bottom),
	}
}

// Constrain scales all radii down uniformly so that adjacent radii never
// sum to more than the side they share.
func (r Radii) Constrain(size Size) Radii {
	factor := 1.0
	fit := func(side, a, b float64) {
		if sum := a + b; sum > side && sum > 0 {
			factor = math.Min(factor, side/sum)
		}
	}
	fit(size.W, r.TopLeft.W, r.TopRight.W)
	fit(size.W, r.BottomLeft.W, r.BottomRight.W)
	fit(size.H, r.TopLeft.H, r.BottomLeft.H)
	fit(size.H, r.TopRight.H, r.BottomRight.H)
	if factor == 1 {
		return r
	}
	scale := func(s Size) Size { return Size{W: s.W * factor, H: s.H * factor} }
	return Radii{
		TopLeft:     scale(r.TopLeft),
		TopRight:    scale(r.TopRight),
		BottomRight: scale(r.BottomRight),
		BottomLeft:  scale(r.BottomLeft),
	}
}

// RoundedRect is a rectangle with independent corner radii.
type RoundedRect struct {
	Rect  Rect
	Radii Radii
}

// NewRoundedRect returns a RoundedRect with square corners.
func NewRoundedRect(r Rect) RoundedRect {
	return RoundedRect{Rect: r}
}

// IsRounded reports whether any corner has a radius.
func (r RoundedRect) IsRounded() bool {
	return !r.Radii.IsZero()
}

func (r RoundedRect) String() string {
	if !r.IsRounded() {
		return r.Rect.String()
	}
	return fmt.Sprintf("%v radii(%v %v %v %v)", r.Rect,
		r.Radii.TopLeft, r.Radii.TopRight, r.Radii.BottomRight, r.Radii.BottomLeft)
}
