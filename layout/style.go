package layout

import (
	"fmt"
	"strings"

	"github.com/gogpu/proptree"
)

// Position is the CSS positioning scheme.
type Position int

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
)

// String returns the CSS keyword.
func (p Position) String() string {
	switch p {
	case PositionStatic:
		return "static"
	case PositionRelative:
		return "relative"
	case PositionAbsolute:
		return "absolute"
	case PositionFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// Overflow is the CSS overflow mode of one axis.
type Overflow int

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
	OverflowAuto
)

// String returns the CSS keyword.
func (o Overflow) String() string {
	switch o {
	case OverflowVisible:
		return "visible"
	case OverflowHidden:
		return "hidden"
	case OverflowScroll:
		return "scroll"
	case OverflowAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// BackgroundAttachment is the CSS background-attachment value.
type BackgroundAttachment int

const (
	BackgroundAttachmentScroll BackgroundAttachment = iota
	BackgroundAttachmentFixed
)

// TransformStyle is the CSS transform-style value.
type TransformStyle int

const (
	TransformStyleFlat TransformStyle = iota
	TransformStylePreserve3D
)

// Unit is the unit of a Length.
type Unit int

const (
	// UnitAuto is the zero value. Origins resolve it to 50%.
	UnitAuto Unit = iota
	UnitPx
	UnitPercent
)

// Length is a CSS length or percentage.
type Length struct {
	Value float64
	Unit  Unit
}

// Px returns a length in CSS pixels.
func Px(v float64) Length { return Length{Value: v, Unit: UnitPx} }

// Percent returns a percentage length.
func Percent(v float64) Length { return Length{Value: v, Unit: UnitPercent} }

// Resolve converts l to pixels against base. Auto resolves to def.
func (l Length) Resolve(base, def float64) float64 {
	switch l.Unit {
	case UnitPx:
		return l.Value
	case UnitPercent:
		return l.Value * base / 100
	default:
		return def
	}
}

func (l Length) String() string {
	switch l.Unit {
	case UnitPx:
		return fmt.Sprintf("%gpx", l.Value)
	case UnitPercent:
		return fmt.Sprintf("%g%%", l.Value)
	default:
		return "auto"
	}
}

// Origin is a transform-origin or perspective-origin value. The zero
// value is the center of the reference box.
type Origin struct {
	X, Y Length
	Z    float64
}

// Resolve returns the origin in the coordinate space of box.
func (o Origin) Resolve(box proptree.Rect) proptree.Point3 {
	return proptree.Pt3(
		box.X+o.X.Resolve(box.W, box.W/2),
		box.Y+o.Y.Resolve(box.H, box.H/2),
		o.Z,
	)
}

// Style is the computed style subset the property tree builder reads.
// Use DefaultStyle for the initial values; the zero Style has opacity 0.
type Style struct {
	Position             Position
	OverflowX, OverflowY Overflow
	BackgroundAttachment BackgroundAttachment

	Transform       TransformOperations
	TransformOrigin Origin
	TransformStyle  TransformStyle

	// Perspective is the perspective distance. Zero means none.
	Perspective       float64
	PerspectiveOrigin Origin

	Opacity float64
	Filters proptree.FilterOperations

	// ZIndex applies when HasZIndex is set; otherwise z-index is auto.
	ZIndex    int
	HasZIndex bool

	// Clip is the CSS clip rect relative to the border box, or nil.
	// It only applies to absolutely and fixed positioned boxes.
	Clip *proptree.Rect

	BorderRadius proptree.Radii
	BorderWidths proptree.Insets
}

// DefaultStyle returns the initial style values.
func DefaultStyle() Style {
	return Style{Opacity: 1}
}

// HasTransform reports whether a CSS transform is set.
func (s *Style) HasTransform() bool { return len(s.Transform) > 0 }

// HasPerspective reports whether a perspective distance is set.
func (s *Style) HasPerspective() bool { return s.Perspective > 0 }

// Preserves3D reports whether transform-style is preserve-3d.
func (s *Style) Preserves3D() bool { return s.TransformStyle == TransformStylePreserve3D }

// HasTransformRelatedProperty reports whether the box becomes a containing
// block for fixed-position descendants.
func (s *Style) HasTransformRelatedProperty() bool {
	return s.HasTransform() || s.HasPerspective() || s.Preserves3D()
}

// IsPositioned reports whether position is anything but static.
func (s *Style) IsPositioned() bool { return s.Position != PositionStatic }

// IsOutOfFlowPositioned reports absolute or fixed positioning.
func (s *Style) IsOutOfFlowPositioned() bool {
	return s.Position == PositionAbsolute || s.Position == PositionFixed
}

// HasOverflowClip reports whether either axis clips its overflow.
func (s *Style) HasOverflowClip() bool {
	return s.OverflowX != OverflowVisible || s.OverflowY != OverflowVisible
}

// HasOpacityOrFilter reports whether the box needs an isolated effect.
func (s *Style) HasOpacityOrFilter() bool {
	return s.Opacity < 1 || !s.Filters.IsEmpty()
}

// IsStackingContext reports whether the box establishes a stacking
// context.
func (s *Style) IsStackingContext() bool {
	return s.HasOpacityOrFilter() ||
		s.HasTransformRelatedProperty() ||
		s.Position == PositionFixed ||
		(s.IsPositioned() && s.HasZIndex)
}

// ---------------------------------------------------------------------------
// Transform functions
// ---------------------------------------------------------------------------

// TransformKind identifies a CSS transform function.
type TransformKind int

const (
	TransformTranslate TransformKind = iota
	TransformScale
	TransformRotate
	TransformRotateX
	TransformRotateY
	TransformSkew
	TransformMatrix
)

// TransformOperation is one CSS transform function. Translations take X
// and Y lengths (percentages against the border box) and Z in pixels;
// scales use SX and SY; rotations and skews use angles in degrees.
type TransformOperation struct {
	Kind   TransformKind
	X, Y   Length
	Z      float64
	SX, SY float64
	Angle  float64
	AngleY float64
	Matrix proptree.Matrix
}

// Translate returns a translate() function in pixels.
func Translate(x, y float64) TransformOperation {
	return TransformOperation{Kind: TransformTranslate, X: Px(x), Y: Px(y)}
}

// Scale returns a scale() function.
func Scale(sx, sy float64) TransformOperation {
	return TransformOperation{Kind: TransformScale, SX: sx, SY: sy}
}

// Rotate returns a rotate() function.
func Rotate(deg float64) TransformOperation {
	return TransformOperation{Kind: TransformRotate, Angle: deg}
}

// matrix returns the matrix of the function for a border box of size box.
func (op TransformOperation) matrix(box proptree.Size) proptree.Matrix {
	switch op.Kind {
	case TransformTranslate:
		return proptree.Translate3d(op.X.Resolve(box.W, 0), op.Y.Resolve(box.H, 0), op.Z)
	case TransformScale:
		return proptree.Scale(op.SX, op.SY)
	case TransformRotate:
		return proptree.Rotate(op.Angle)
	case TransformRotateX:
		return proptree.RotateX(op.Angle)
	case TransformRotateY:
		return proptree.RotateY(op.Angle)
	case TransformSkew:
		return proptree.Skew(op.Angle, op.AngleY)
	case TransformMatrix:
		return op.Matrix
	default:
		return proptree.Identity()
	}
}

func (op TransformOperation) String() string {
	switch op.Kind {
	case TransformTranslate:
		return fmt.Sprintf("translate(%v, %v)", op.X, op.Y)
	case TransformScale:
		return fmt.Sprintf("scale(%g, %g)", op.SX, op.SY)
	case TransformRotate:
		return fmt.Sprintf("rotate(%gdeg)", op.Angle)
	case TransformRotateX:
		return fmt.Sprintf("rotateX(%gdeg)", op.Angle)
	case TransformRotateY:
		return fmt.Sprintf("rotateY(%gdeg)", op.Angle)
	case TransformSkew:
		return fmt.Sprintf("skew(%gdeg, %gdeg)", op.Angle, op.AngleY)
	case TransformMatrix:
		return op.Matrix.String()
	default:
		return "none"
	}
}

// TransformOperations is a CSS transform function list.
type TransformOperations []TransformOperation

// Matrix composes the list left to right, excluding the transform origin.
func (ops TransformOperations) Matrix(box proptree.Size) proptree.Matrix {
	m := proptree.Identity()
	for _, op := range ops {
		m = m.Multiply(op.matrix(box))
	}
	return m
}

func (ops TransformOperations) String() string {
	if len(ops) == 0 {
		return "none"
	}
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, " ")
}
