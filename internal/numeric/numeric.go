// Package numeric holds the small generic helpers shared by the parameter
// tree, the modulators and the host.
package numeric

import (
	"math"

	"golang.org/x/exp/constraints"
)

const defaultEpsilon = 1e-12

// Number is any integer or floating point type a parameter can hold.
type Number interface {
	constraints.Integer | constraints.Float
}

// Clamp limits value to the inclusive range [lo, hi].
func Clamp[T Number](value, lo, hi T) T {
	if lo > hi {
		lo, hi = hi, lo
	}

	if value < lo {
		return lo
	}

	if value > hi {
		return hi
	}

	return value
}

// IsNaN reports whether v is a floating point NaN. Integers are never NaN.
func IsNaN[T Number](v T) bool {
	return v != v //nolint:gocritic
}

// InRange reports whether lo <= v <= hi. NaN is never in range.
func InRange[T Number](v, lo, hi T) bool {
	return v >= lo && v <= hi
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// Lerp interpolates between a and b by t in float64 and converts back to T.
func Lerp[T Number](a, b T, t float64) T {
	return T(float64(a) + t*(float64(b)-float64(a)))
}
