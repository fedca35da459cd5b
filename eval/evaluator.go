package eval

import (
	"errors"

	"github.com/cwbudde/algo-modtree/internal/numeric"
)

// Errors returned by evaluators and the plan cache.
var (
	ErrEmptyInput        = errors.New("eval: empty input")
	ErrSizeNotPowerOfTwo = errors.New("eval: FFT size must be a power of two")
	ErrSizeTooLarge      = errors.New("eval: FFT size too large")
	ErrSilentInput       = errors.New("eval: input has no spectral energy")
	ErrInvalidCapacity   = errors.New("eval: cache capacity must be > 0")
)

// Evaluator computes one number from a sequence of inputs.
type Evaluator interface {
	Evaluate(inputs []float64) (float64, error)
}

// Func adapts a plain function to [Evaluator].
type Func func(inputs []float64) (float64, error)

// Evaluate calls f(inputs).
func (f Func) Evaluate(inputs []float64) (float64, error) {
	return f(inputs)
}

// LimitRange clamps x to [lo, hi]. Bounds may be given in either order.
func LimitRange(x, lo, hi float64) float64 {
	return numeric.Clamp(x, lo, hi)
}
