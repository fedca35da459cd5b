package modulator

import "github.com/cwbudde/algo-modtree/param"

// InputFunc derives evaluator inputs from an envelope. The returned slice
// is only read until the next call.
type InputFunc[T param.Number] func(env param.Envelope[T]) []float64

// EnvelopeInputs passes [Current, Min, Max, Original].
func EnvelopeInputs[T param.Number]() InputFunc[T] {
	buf := make([]float64, 4)
	return func(env param.Envelope[T]) []float64 {
		buf[0] = float64(env.Current)
		buf[1] = float64(env.Min)
		buf[2] = float64(env.Max)
		buf[3] = float64(env.Original)
		return buf
	}
}

// History passes the last n Current values, oldest first. Slots not yet
// filled read as zero. The history is advanced on every call.
func History[T param.Number](n int) InputFunc[T] {
	if n < 1 {
		n = 1
	}

	ring := make([]float64, n)
	out := make([]float64, n)
	pos := 0

	return func(env param.Envelope[T]) []float64 {
		ring[pos] = float64(env.Current)
		pos = (pos + 1) % n
		copy(out, ring[pos:])
		copy(out[n-pos:], ring[:pos])
		return out
	}
}
