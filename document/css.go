package document

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/proptree"
	"github.com/gogpu/proptree/layout"
)

// ErrInvalidValue is returned for CSS values the parser does not
// understand.
var ErrInvalidValue = errors.New("document: invalid value")

// declarations splits an inline style attribute into lowercase property
// names and their values, in source order.
func declarations(style string) [][2]string {
	var decls [][2]string
	for _, part := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		decls = append(decls, [2]string{name, value})
	}
	return decls
}

// args splits the comma or space separated arguments of a CSS function.
func args(s string) []string {
	return strings.Fields(strings.ReplaceAll(s, ",", " "))
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: number %q", ErrInvalidValue, s)
	}
	return v, nil
}

// parseLength parses px, % and unitless lengths. Unitless values are
// pixels.
func parseLength(s string) (layout.Length, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "auto":
		return layout.Length{}, nil
	case strings.HasSuffix(s, "%"):
		v, err := parseNumber(strings.TrimSuffix(s, "%"))
		return layout.Percent(v), err
	case strings.HasSuffix(s, "px"):
		v, err := parseNumber(strings.TrimSuffix(s, "px"))
		return layout.Px(v), err
	default:
		v, err := parseNumber(s)
		return layout.Px(v), err
	}
}

// parsePixels parses a length that must be absolute.
func parsePixels(s string) (float64, error) {
	l, err := parseLength(s)
	if err != nil {
		return 0, err
	}
	if l.Unit != layout.UnitPx {
		return 0, fmt.Errorf("%w: %q is not a pixel length", ErrInvalidValue, s)
	}
	return l.Value, nil
}

// parseAngle returns degrees. Unitless angles are degrees.
func parseAngle(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasSuffix(s, "deg"):
		return parseNumber(strings.TrimSuffix(s, "deg"))
	case strings.HasSuffix(s, "grad"):
		v, err := parseNumber(strings.TrimSuffix(s, "grad"))
		return v * 0.9, err
	case strings.HasSuffix(s, "rad"):
		v, err := parseNumber(strings.TrimSuffix(s, "rad"))
		return v * 180 / math.Pi, err
	case strings.HasSuffix(s, "turn"):
		v, err := parseNumber(strings.TrimSuffix(s, "turn"))
		return v * 360, err
	default:
		return parseNumber(s)
	}
}

// parseInsets parses the 1 to 4 value shorthand of margin, padding and
// border-width.
func parseInsets(s string) (proptree.Insets, error) {
	parts := strings.Fields(s)
	v := make([]float64, len(parts))
	for i, p := range parts {
		px, err := parsePixels(p)
		if err != nil {
			return proptree.Insets{}, err
		}
		v[i] = px
	}
	switch len(v) {
	case 1:
		return proptree.Insets{Top: v[0], Right: v[0], Bottom: v[0], Left: v[0]}, nil
	case 2:
		return proptree.Insets{Top: v[0], Right: v[1], Bottom: v[0], Left: v[1]}, nil
	case 3:
		return proptree.Insets{Top: v[0], Right: v[1], Bottom: v[2], Left: v[1]}, nil
	case 4:
		return proptree.Insets{Top: v[0], Right: v[1], Bottom: v[2], Left: v[3]}, nil
	default:
		return proptree.Insets{}, fmt.Errorf("%w: %q", ErrInvalidValue, s)
	}
}

// parseRadii parses border-radius with 1 to 4 circular corner values in
// CSS order: top-left, top-right, bottom-right, bottom-left.
func parseRadii(s string) (proptree.Radii, error) {
	in, err := parseInsets(s)
	if err != nil {
		return proptree.Radii{}, err
	}
	// parseInsets expands the shorthand in the same clockwise order.
	return proptree.Radii{
		TopLeft:     proptree.Sz(in.Top, in.Top),
		TopRight:    proptree.Sz(in.Right, in.Right),
		BottomRight: proptree.Sz(in.Bottom, in.Bottom),
		BottomLeft:  proptree.Sz(in.Left, in.Left),
	}, nil
}

// function splits "name(args)" into its name and argument list.
func function(s string) (string, []string, error) {
	name, rest, ok := strings.Cut(s, "(")
	if !ok || !strings.HasSuffix(rest, ")") {
		return "", nil, fmt.Errorf("%w: function %q", ErrInvalidValue, s)
	}
	return strings.TrimSpace(name), args(strings.TrimSuffix(rest, ")")), nil
}

// functions splits a space separated list of CSS functions.
func functions(s string) []string {
	var out []string
	for _, f := range strings.SplitAfter(s, ")") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseTransform parses a CSS or SVG transform list.
func parseTransform(s string) (layout.TransformOperations, error) {
	if strings.TrimSpace(s) == "none" {
		return nil, nil
	}
	var ops layout.TransformOperations
	for _, f := range functions(s) {
		op, err := parseTransformFunction(f)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func parseTransformFunction(f string) (layout.TransformOperation, error) {
	name, a, err := function(f)
	if err != nil {
		return layout.TransformOperation{}, err
	}
	bad := fmt.Errorf("%w: %s", ErrInvalidValue, f)

	lengths := func(n int) ([]layout.Length, error) {
		out := make([]layout.Length, n)
		for i := 0; i < n && i < len(a); i++ {
			l, err := parseLength(a[i])
			if err != nil {
				return nil, err
			}
			out[i] = l
		}
		for i := len(a); i < n; i++ {
			out[i] = layout.Px(0)
		}
		return out, nil
	}
	numbers := func() ([]float64, error) {
		out := make([]float64, len(a))
		for i, s := range a {
			v, err := parseNumber(s)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	angle := func(i int) (float64, error) {
		if i >= len(a) {
			return 0, nil
		}
		return parseAngle(a[i])
	}

	switch strings.ToLower(name) {
	case "translate", "translatex", "translatey":
		if len(a) == 0 || len(a) > 2 {
			return layout.TransformOperation{}, bad
		}
		l, err := lengths(2)
		if err != nil {
			return layout.TransformOperation{}, err
		}
		if strings.EqualFold(name, "translateY") {
			l[0], l[1] = layout.Px(0), l[0]
		}
		return layout.TransformOperation{Kind: layout.TransformTranslate, X: l[0], Y: l[1]}, nil

	case "scale", "scalex", "scaley":
		n, err := numbers()
		if err != nil || len(n) == 0 || len(n) > 2 {
			return layout.TransformOperation{}, bad
		}
		sx, sy := n[0], n[0]
		if len(n) == 2 {
			sy = n[1]
		}
		switch strings.ToLower(name) {
		case "scalex":
			sy = 1
		case "scaley":
			sx, sy = 1, n[0]
		}
		return layout.Scale(sx, sy), nil

	case "rotate", "rotatez", "rotatex", "rotatey":
		deg, err := angle(0)
		if err != nil || len(a) != 1 {
			return layout.TransformOperation{}, bad
		}
		kind := layout.TransformRotate
		switch strings.ToLower(name) {
		case "rotatex":
			kind = layout.TransformRotateX
		case "rotatey":
			kind = layout.TransformRotateY
		}
		return layout.TransformOperation{Kind: kind, Angle: deg}, nil

	case "skew", "skewx", "skewy":
		ax, err := angle(0)
		if err != nil {
			return layout.TransformOperation{}, err
		}
		ay, err := angle(1)
		if err != nil {
			return layout.TransformOperation{}, err
		}
		if strings.EqualFold(name, "skewY") {
			ax, ay = 0, ax
		}
		return layout.TransformOperation{Kind: layout.TransformSkew, Angle: ax, AngleY: ay}, nil

	case "matrix":
		n, err := numbers()
		if err != nil || len(n) != 6 {
			return layout.TransformOperation{}, bad
		}
		return layout.TransformOperation{
			Kind:   layout.TransformMatrix,
			Matrix: proptree.Affine2D(n[0], n[1], n[2], n[3], n[4], n[5]),
		}, nil
	}
	return layout.TransformOperation{}, bad
}

// parseOrigin parses transform-origin and perspective-origin.
func parseOrigin(s string) (layout.Origin, error) {
	keywords := map[string]string{
		"left": "0%", "center": "50%", "right": "100%",
		"top": "0%", "bottom": "100%",
	}
	parts := strings.Fields(s)
	if len(parts) == 0 || len(parts) > 3 {
		return layout.Origin{}, fmt.Errorf("%w: origin %q", ErrInvalidValue, s)
	}
	// A lone vertical keyword applies to y.
	if len(parts) == 1 && (parts[0] == "top" || parts[0] == "bottom") {
		parts = []string{"center", parts[0]}
	}

	var o layout.Origin
	for i, p := range parts {
		if k, ok := keywords[p]; ok {
			p = k
		}
		switch i {
		case 0, 1:
			l, err := parseLength(p)
			if err != nil {
				return layout.Origin{}, err
			}
			if i == 0 {
				o.X = l
			} else {
				o.Y = l
			}
		case 2:
			z, err := parsePixels(p)
			if err != nil {
				return layout.Origin{}, err
			}
			o.Z = z
		}
	}
	return o, nil
}

// parseFilters parses a filter function list.
func parseFilters(s string) (proptree.FilterOperations, error) {
	if strings.TrimSpace(s) == "none" {
		return nil, nil
	}
	var ops proptree.FilterOperations
	for _, f := range functions(s) {
		name, a, err := function(f)
		if err != nil {
			return nil, err
		}
		if len(a) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidValue, f)
		}
		var op proptree.FilterOperation
		switch strings.ToLower(name) {
		case "blur":
			op.Kind = proptree.FilterBlur
			op.Amount, err = parsePixels(a[0])
		case "drop-shadow":
			// Only the blur radius affects geometry.
			op.Kind = proptree.FilterDropShadow
			if len(a) >= 3 {
				op.Amount, err = parsePixels(a[2])
			}
		case "grayscale":
			op.Kind = proptree.FilterGrayscale
			op.Amount, err = parseFraction(a[0])
		case "opacity":
			op.Kind = proptree.FilterOpacity
			op.Amount, err = parseFraction(a[0])
		default:
			return nil, fmt.Errorf("%w: filter %q", ErrInvalidValue, name)
		}
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// parseFraction accepts numbers and percentages.
func parseFraction(s string) (float64, error) {
	if strings.HasSuffix(s, "%") {
		v, err := parseNumber(strings.TrimSuffix(s, "%"))
		return v / 100, err
	}
	return parseNumber(s)
}

// parseClipRect parses the legacy rect(top, right, bottom, left) syntax
// into a rect relative to the border box.
func parseClipRect(s string) (proptree.Rect, error) {
	name, a, err := function(s)
	if err != nil {
		return proptree.Rect{}, err
	}
	if !strings.EqualFold(name, "rect") || len(a) != 4 {
		return proptree.Rect{}, fmt.Errorf("%w: clip %q", ErrInvalidValue, s)
	}
	var v [4]float64
	for i := range v {
		if v[i], err = parsePixels(a[i]); err != nil {
			return proptree.Rect{}, err
		}
	}
	top, right, bottom, left := v[0], v[1], v[2], v[3]
	return proptree.NewRect(left, top, right-left, bottom-top), nil
}

func parsePosition(s string) (layout.Position, error) {
	switch s {
	case "static":
		return layout.PositionStatic, nil
	case "relative":
		return layout.PositionRelative, nil
	case "absolute":
		return layout.PositionAbsolute, nil
	case "fixed":
		return layout.PositionFixed, nil
	}
	return 0, fmt.Errorf("%w: position %q", ErrInvalidValue, s)
}

func parseOverflow(s string) (layout.Overflow, error) {
	switch s {
	case "visible":
		return layout.OverflowVisible, nil
	case "hidden", "clip":
		return layout.OverflowHidden, nil
	case "scroll":
		return layout.OverflowScroll, nil
	case "auto":
		return layout.OverflowAuto, nil
	}
	return 0, fmt.Errorf("%w: overflow %q", ErrInvalidValue, s)
}

// parseViewBox parses the SVG viewBox attribute.
func parseViewBox(s string) (*proptree.Rect, error) {
	a := args(s)
	if len(a) != 4 {
		return nil, fmt.Errorf("%w: viewBox %q", ErrInvalidValue, s)
	}
	var v [4]float64
	for i := range v {
		n, err := parseNumber(a[i])
		if err != nil {
			return nil, err
		}
		v[i] = n
	}
	r := proptree.NewRect(v[0], v[1], v[2], v[3])
	return &r, nil
}

// parsePoint parses "x y" pixel pairs such as data-scroll.
func parsePoint(s string) (proptree.Point, error) {
	a := args(s)
	if len(a) != 2 {
		return proptree.Point{}, fmt.Errorf("%w: point %q", ErrInvalidValue, s)
	}
	x, err := parsePixels(a[0])
	if err != nil {
		return proptree.Point{}, err
	}
	y, err := parsePixels(a[1])
	if err != nil {
		return proptree.Point{}, err
	}
	return proptree.Pt(x, y), nil
}
