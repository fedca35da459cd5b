package param

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-modtree/internal/numeric"
)

// BaselineMode selects how a parent's freshly ticked value is written into a
// child before the child ticks.
type BaselineMode int

const (
	// BaselineReplace overwrites the child's current value with the parent's.
	BaselineReplace BaselineMode = iota
	// BaselineOffset sets the child's current value to its original value plus
	// the parent's current value.
	BaselineOffset
	// BaselineBlend moves the child's original value towards the parent's
	// current value by Amount.
	BaselineBlend
)

// String returns the mode name.
func (m BaselineMode) String() string {
	switch m {
	case BaselineReplace:
		return "replace"
	case BaselineOffset:
		return "offset"
	case BaselineBlend:
		return "blend"
	default:
		return fmt.Sprintf("BaselineMode(%d)", int(m))
	}
}

// Baseline is the parent-to-child propagation policy.
//
// Only the child's Current is written; Min, Max and Original are untouched.
// The zero value is [BaselineReplace], which is a destructive overwrite.
// Offset and blend are the integrative alternatives.
type Baseline struct {
	Mode   BaselineMode
	Amount float64
}

// Replace returns the destructive overwrite policy.
func Replace() Baseline {
	return Baseline{Mode: BaselineReplace}
}

// Offset returns the additive policy.
func Offset() Baseline {
	return Baseline{Mode: BaselineOffset}
}

// Blend returns the interpolating policy. amount 0 keeps the child at its
// original value, amount 1 behaves like [Replace].
func Blend(amount float64) (Baseline, error) {
	if amount < 0 || amount > 1 || math.IsNaN(amount) {
		return Baseline{}, fmt.Errorf("%w: %f", ErrInvalidAmount, amount)
	}

	return Baseline{Mode: BaselineBlend, Amount: amount}, nil
}

// ParseBaseline maps a mode name to a policy. amount is used by "blend" only.
func ParseBaseline(name string, amount float64) (Baseline, error) {
	switch name {
	case "", "replace":
		return Replace(), nil
	case "offset":
		return Offset(), nil
	case "blend":
		return Blend(amount)
	default:
		return Baseline{}, fmt.Errorf("param: unknown baseline mode %q", name)
	}
}

func applyBaseline[T Number](b Baseline, parent T, child Envelope[T]) T {
	switch b.Mode {
	case BaselineOffset:
		return child.Original + parent
	case BaselineBlend:
		return numeric.Lerp(child.Original, parent, b.Amount)
	default:
		return parent
	}
}
