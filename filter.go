package proptree

import (
	"fmt"
	"strings"
)

// FilterKind identifies a CSS filter function.
type FilterKind uint8

// Filter kinds.
const (
	FilterNone FilterKind = iota
	FilterBlur
	FilterGrayscale
	FilterOpacity
	FilterDropShadow
)

// String returns the CSS function name for the filter kind.
func (k FilterKind) String() string {
	switch k {
	case FilterNone:
		return "none"
	case FilterBlur:
		return "blur"
	case FilterGrayscale:
		return "grayscale"
	case FilterOpacity:
		return "opacity"
	case FilterDropShadow:
		return "drop-shadow"
	default:
		return "unknown"
	}
}

// ExpandsOutput reports whether the filter can paint outside its input.
func (k FilterKind) ExpandsOutput() bool {
	return k == FilterBlur || k == FilterDropShadow
}

// FilterOperation is one entry of a filter list. Amount is the blur radius
// or shadow extent for expanding filters and a 0..1 fraction otherwise.
type FilterOperation struct {
	Kind   FilterKind
	Amount float64
}

func (op FilterOperation) String() string {
	return fmt.Sprintf("%v(%g)", op.Kind, op.Amount)
}

// FilterOperations is an ordered filter list.
type FilterOperations []FilterOperation

// IsEmpty reports whether the list applies no filter.
func (ops FilterOperations) IsEmpty() bool {
	return len(ops) == 0
}

// Equal compares two lists element-wise.
func (ops FilterOperations) Equal(other FilterOperations) bool {
	if len(ops) != len(other) {
		return false
	}
	for i := range ops {
		if ops[i] != other[i] {
			return false
		}
	}
	return true
}

// Outset returns how far the filters can paint outside the input rect.
func (ops FilterOperations) Outset() float64 {
	var outset float64
	for _, op := range ops {
		if op.Kind.ExpandsOutput() {
			// Blur kernels reach three standard deviations.
			outset += 3 * op.Amount
		}
	}
	return outset
}

func (ops FilterOperations) String() string {
	if ops.IsEmpty() {
		return "none"
	}
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, " ")
}
