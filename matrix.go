package proptree

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f64"
)

// Matrix represents a 4x4 homogeneous transformation matrix stored in
// row-major order. Points are column vectors, so
//
//	p' = M * p
//
// and the product A.Multiply(B) applies B first, then A. A child-to-ancestor
// mapping through nodes N1 (ancestor) .. Nk (descendant) is therefore
// M1 * M2 * ... * Mk.
type Matrix struct {
	m f64.Mat4
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{m: f64.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}}
}

// NewMatrix creates a matrix from 16 row-major values.
func NewMatrix(values f64.Mat4) Matrix {
	return Matrix{m: values}
}

// Translate creates a 2D translation matrix.
func Translate(x, y float64) Matrix {
	return Translate3d(x, y, 0)
}

// Translate3d creates a 3D translation matrix.
func Translate3d(x, y, z float64) Matrix {
	m := Identity()
	m.m[3], m.m[7], m.m[11] = x, y, z
	return m
}

// Scale creates a 2D scaling matrix.
func Scale(x, y float64) Matrix {
	return Scale3d(x, y, 1)
}

// Scale3d creates a 3D scaling matrix.
func Scale3d(x, y, z float64) Matrix {
	m := Identity()
	m.m[0], m.m[5], m.m[10] = x, y, z
	return m
}

// Rotate creates a rotation about the Z axis. The angle is in degrees and
// positive angles rotate clockwise in the y-down coordinate system, as CSS
// rotate() does.
func Rotate(degrees float64) Matrix {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	m := Identity()
	m.m[0], m.m[1] = cos, -sin
	m.m[4], m.m[5] = sin, cos
	return m
}

// RotateX creates a rotation about the X axis, in degrees.
func RotateX(degrees float64) Matrix {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	m := Identity()
	m.m[5], m.m[6] = cos, -sin
	m.m[9], m.m[10] = sin, cos
	return m
}

// RotateY creates a rotation about the Y axis, in degrees.
func RotateY(degrees float64) Matrix {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	m := Identity()
	m.m[0], m.m[2] = cos, sin
	m.m[8], m.m[10] = -sin, cos
	return m
}

// Skew creates a 2D skew matrix with angles in degrees.
func Skew(ax, ay float64) Matrix {
	m := Identity()
	m.m[1] = math.Tan(ax * math.Pi / 180)
	m.m[4] = math.Tan(ay * math.Pi / 180)
	return m
}

// Perspective creates a perspective projection with the viewer at distance
// d on the positive Z axis. Non-positive distances yield the identity.
func Perspective(d float64) Matrix {
	m := Identity()
	if d > 0 {
		m.m[14] = -1 / d
	}
	return m
}

// Affine2D creates a matrix from CSS matrix(a, b, c, d, e, f) arguments:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
func Affine2D(a, b, c, d, e, f float64) Matrix {
	m := Identity()
	m.m[0], m.m[1], m.m[3] = a, c, e
	m.m[4], m.m[5], m.m[7] = b, d, f
	return m
}

// At returns the element at row r, column c.
func (m Matrix) At(r, c int) float64 {
	return m.m[r*4+c]
}

// Values returns the row-major elements.
func (m Matrix) Values() f64.Mat4 {
	return m.m
}

// Multiply returns m * other.
func (m Matrix) Multiply(other Matrix) Matrix {
	var out Matrix
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m.m[r*4+k] * other.m[k*4+c]
			}
			out.m[r*4+c] = sum
		}
	}
	return out
}

// ApplyTransformOrigin returns the matrix re-centered on origin:
// T(origin) * m * T(-origin).
func (m Matrix) ApplyTransformOrigin(origin Point3) Matrix {
	if origin == (Point3{}) {
		return m
	}
	return Translate3d(origin[0], origin[1], origin[2]).
		Multiply(m).
		Multiply(Translate3d(-origin[0], -origin[1], -origin[2]))
}

// Flatten collapses the matrix to 2D by discarding every z input and
// output, so that the result maps the z=0 plane the way a flattened
// ancestor would see it.
func (m Matrix) Flatten() Matrix {
	out := m
	out.m[2], out.m[6], out.m[14] = 0, 0, 0
	out.m[8], out.m[9], out.m[11] = 0, 0, 0
	out.m[10] = 1
	return out
}

// IsIdentity reports whether the matrix is exactly the identity.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsIdentityOr2DTranslation reports whether the matrix only translates in
// x and y.
func (m Matrix) IsIdentityOr2DTranslation() bool {
	t := m
	t.m[3], t.m[7] = 0, 0
	return t.IsIdentity()
}

// Translation2D returns the x/y translation components.
func (m Matrix) Translation2D() Point {
	return Point{X: m.m[3], Y: m.m[7]}
}

// IsFlat reports whether the matrix neither reads nor produces z and has
// no perspective, meaning Flatten would not change it.
func (m Matrix) IsFlat() bool {
	return m.Flatten() == m
}

// Determinant returns the determinant of the 4x4 matrix.
func (m Matrix) Determinant() float64 {
	_, det := m.adjugate()
	return det
}

// Inverse returns the inverse matrix and whether it exists.
func (m Matrix) Inverse() (Matrix, bool) {
	if m.IsIdentityOr2DTranslation() {
		return Translate(-m.m[3], -m.m[7]), true
	}
	adj, det := m.adjugate()
	if math.Abs(det) < 1e-12 {
		return Identity(), false
	}
	invDet := 1 / det
	for i := range adj.m {
		adj.m[i] *= invDet
	}
	return adj, true
}

// adjugate computes the adjugate (transposed cofactor matrix) and the
// determinant by cofactor expansion.
func (m Matrix) adjugate() (Matrix, float64) {
	a := m.m
	var inv f64.Mat4

	inv[0] = a[5]*a[10]*a[15] - a[5]*a[11]*a[14] - a[9]*a[6]*a[15] + a[9]*a[7]*a[14] + a[13]*a[6]*a[11] - a[13]*a[7]*a[10]
	inv[4] = -a[4]*a[10]*a[15] + a[4]*a[11]*a[14] + a[8]*a[6]*a[15] - a[8]*a[7]*a[14] - a[12]*a[6]*a[11] + a[12]*a[7]*a[10]
	inv[8] = a[4]*a[9]*a[15] - a[4]*a[11]*a[13] - a[8]*a[5]*a[15] + a[8]*a[7]*a[13] + a[12]*a[5]*a[11] - a[12]*a[7]*a[9]
	inv[12] = -a[4]*a[9]*a[14] + a[4]*a[10]*a[13] + a[8]*a[5]*a[14] - a[8]*a[6]*a[13] - a[12]*a[5]*a[10] + a[12]*a[6]*a[9]
	inv[1] = -a[1]*a[10]*a[15] + a[1]*a[11]*a[14] + a[9]*a[2]*a[15] - a[9]*a[3]*a[14] - a[13]*a[2]*a[11] + a[13]*a[3]*a[10]
	inv[5] = a[0]*a[10]*a[15] - a[0]*a[11]*a[14] - a[8]*a[2]*a[15] + a[8]*a[3]*a[14] + a[12]*a[2]*a[11] - a[12]*a[3]*a[10]
	inv[9] = -a[0]*a[9]*a[15] + a[0]*a[11]*a[13] + a[8]*a[1]*a[15] - a[8]*a[3]*a[13] - a[12]*a[1]*a[11] + a[12]*a[3]*a[9]
	inv[13] = a[0]*a[9]*a[14] - a[0]*a[10]*a[13] - a[8]*a[1]*a[14] + a[8]*a[2]*a[13] + a[12]*a[1]*a[10] - a[12]*a[2]*a[9]
	inv[2] = a[1]*a[6]*a[15] - a[1]*a[7]*a[14] - a[5]*a[2]*a[15] + a[5]*a[3]*a[14] + a[13]*a[2]*a[7] - a[13]*a[3]*a[6]
	inv[6] = -a[0]*a[6]*a[15] + a[0]*a[7]*a[14] + a[4]*a[2]*a[15] - a[4]*a[3]*a[14] - a[12]*a[2]*a[7] + a[12]*a[3]*a[6]
	inv[10] = a[0]*a[5]*a[15] - a[0]*a[7]*a[13] - a[4]*a[1]*a[15] + a[4]*a[3]*a[13] + a[12]*a[1]*a[7] - a[12]*a[3]*a[5]
	inv[14] = -a[0]*a[5]*a[14] + a[0]*a[6]*a[13] + a[4]*a[1]*a[14] - a[4]*a[2]*a[13] - a[12]*a[1]*a[6] + a[12]*a[2]*a[5]
	inv[3] = -a[1]*a[6]*a[11] + a[1]*a[7]*a[10] + a[5]*a[2]*a[11] - a[5]*a[3]*a[10] - a[9]*a[2]*a[7] + a[9]*a[3]*a[6]
	inv[7] = a[0]*a[6]*a[11] - a[0]*a[7]*a[10] - a[4]*a[2]*a[11] + a[4]*a[3]*a[10] + a[8]*a[2]*a[7] - a[8]*a[3]*a[6]
	inv[11] = -a[0]*a[5]*a[11] + a[0]*a[7]*a[9] + a[4]*a[1]*a[11] - a[4]*a[3]*a[9] - a[8]*a[1]*a[7] + a[8]*a[3]*a[5]
	inv[15] = a[0]*a[5]*a[10] - a[0]*a[6]*a[9] - a[4]*a[1]*a[10] + a[4]*a[2]*a[9] + a[8]*a[1]*a[6] - a[8]*a[2]*a[5]

	det := a[0]*inv[0] + a[1]*inv[4] + a[2]*inv[8] + a[3]*inv[12]
	return Matrix{m: inv}, det
}

// minW is the w plane MapRect clips against before the perspective divide.
const minW = 1e-6

// mapHomogeneous transforms a point on the z=0 plane without projecting it.
func (m Matrix) mapHomogeneous(p Point) f64.Vec3 {
	return f64.Vec3{
		m.m[0]*p.X + m.m[1]*p.Y + m.m[3],
		m.m[4]*p.X + m.m[5]*p.Y + m.m[7],
		m.m[12]*p.X + m.m[13]*p.Y + m.m[15],
	}
}

// MapPoint transforms a point on the z=0 plane and projects it back to 2D.
// A point behind the viewer (w < 0) projects to the mirrored position; use
// MapRect when the result must stay in front of the viewer.
func (m Matrix) MapPoint(p Point) Point {
	h := m.mapHomogeneous(p)
	x, y, w := h[0], h[1], h[2]
	if w != 1 && w != 0 {
		x /= w
		y /= w
	}
	return Point{X: x, Y: y}
}

// MapQuad transforms each corner of q.
func (m Matrix) MapQuad(q Quad) Quad {
	return Quad{
		P1: m.MapPoint(q.P1),
		P2: m.MapPoint(q.P2),
		P3: m.MapPoint(q.P3),
		P4: m.MapPoint(q.P4),
	}
}

// MapRect returns the bounding box of the transformed rectangle. Parts that
// a perspective moves behind the viewer are clipped away first; a rectangle
// entirely behind the viewer maps to the empty rect.
func (m Matrix) MapRect(r Rect) Rect {
	if m.IsIdentityOr2DTranslation() {
		return r.Move(m.Translation2D())
	}
	q := r.Quad()
	corners := make([]f64.Vec3, 0, 4)
	behind := false
	for _, p := range q.Points() {
		h := m.mapHomogeneous(p)
		behind = behind || h[2] < minW
		corners = append(corners, h)
	}
	if !behind {
		return m.MapQuad(q).BoundingBox()
	}
	return clippedBounds(corners)
}

// clippedBounds clips a homogeneous polygon to w >= minW and returns the
// bounding box of its projection.
func clippedBounds(poly []f64.Vec3) Rect {
	var pts []Point
	for i, a := range poly {
		b := poly[(i+1)%len(poly)]
		if a[2] >= minW {
			pts = append(pts, Point{X: a[0] / a[2], Y: a[1] / a[2]})
		}
		if (a[2] >= minW) != (b[2] >= minW) {
			t := (minW - a[2]) / (b[2] - a[2])
			pts = append(pts, Point{
				X: (a[0] + t*(b[0]-a[0])) / minW,
				Y: (a[1] + t*(b[1]-a[1])) / minW,
			})
		}
	}
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Affine returns the 2D affine part of the matrix in the row-major 2x3
// layout used by 2D rasterizers:
//
//	| a  b  c |
//	| d  e  f |
func (m Matrix) Affine() f64.Aff3 {
	return f64.Aff3{
		m.m[0], m.m[1], m.m[3],
		m.m[4], m.m[5], m.m[7],
	}
}

func (m Matrix) String() string {
	if m.IsIdentity() {
		return "identity"
	}
	if m.IsIdentityOr2DTranslation() {
		return fmt.Sprintf("translate(%g, %g)", m.m[3], m.m[7])
	}
	if m.IsFlat() {
		a := m.Affine()
		return fmt.Sprintf("matrix(%g, %g, %g, %g, %g, %g)", a[0], a[3], a[1], a[4], a[2], a[5])
	}
	return fmt.Sprintf("matrix3d%v", m.m)
}
