package testutil

import (
	"math"
	"math/rand"
)

// BinCosine returns a cosine of length n that completes exactly bin cycles,
// so all of its energy lands in FFT bins bin and n-bin.
func BinCosine(n, bin int, amplitude float64) []float64 {
	out := make([]float64, n)
	step := 2 * math.Pi * float64(bin) / float64(n)
	for i := range out {
		out[i] = amplitude * math.Cos(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// Ramp returns start, start+step, ... with n values, the sequence a
// per-tick offset modulator leaves behind.
func Ramp(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}
