package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-modtree/internal/numeric"
)

// RequireNearlyEqual fails tb if got and want differ by more than eps.
// NaN never matches.
func RequireNearlyEqual(tb testing.TB, got, want, eps float64) {
	tb.Helper()

	if math.IsNaN(got) || math.IsNaN(want) || !numeric.NearlyEqual(got, want, eps) {
		tb.Fatalf("got %v, want %v (eps %v)", got, want, eps)
	}
}

// RequireSliceNearlyEqual fails tb on a length mismatch or on the first
// element pair further apart than eps.
func RequireSliceNearlyEqual(tb testing.TB, got, want []float64, eps float64) {
	tb.Helper()

	if len(got) != len(want) {
		tb.Fatalf("len(got) = %d, want %d", len(got), len(want))
	}

	if i, diff := firstMismatch(got, want, eps); i >= 0 {
		tb.Fatalf("[%d]: got %v, want %v (|diff| %v > %v)", i, got[i], want[i], diff, eps)
	}
}

// RequireInBounds fails tb if any value lies outside [lo, hi] or is not
// finite.
func RequireInBounds(tb testing.TB, lo, hi float64, values ...float64) {
	tb.Helper()

	for i, v := range values {
		if !numeric.IsFinite(v) || !numeric.InRange(v, lo, hi) {
			tb.Fatalf("[%d]: %v outside [%v, %v]", i, v, lo, hi)
		}
	}
}

func firstMismatch(got, want []float64, eps float64) (int, float64) {
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps || math.IsNaN(diff) {
			return i, diff
		}
	}
	return -1, 0
}
