package eval

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Forward returns the complex spectrum of a real input block. len(input)
// selects the transform size and must be a power of two.
func Forward(cache *PlanCache, input []float64) ([]complex128, error) {
	if len(input) == 0 {
		return nil, ErrEmptyInput
	}

	ws, err := cache.Get(len(input))
	if err != nil {
		return nil, err
	}

	out := make([]complex128, ws.size)

	ws.mu.Lock()
	defer ws.mu.Unlock()

	for i, v := range input {
		ws.buf[i] = complex(v, 0)
	}

	if err := ws.plan.Forward(out, ws.buf); err != nil {
		return nil, fmt.Errorf("eval: forward FFT failed: %w", err)
	}

	return out, nil
}

// Inverse transforms a full complex spectrum back and returns its real part.
func Inverse(cache *PlanCache, spectrum []complex128) ([]float64, error) {
	if len(spectrum) == 0 {
		return nil, ErrEmptyInput
	}

	ws, err := cache.Get(len(spectrum))
	if err != nil {
		return nil, err
	}

	out := make([]float64, ws.size)

	ws.mu.Lock()
	defer ws.mu.Unlock()

	if err := ws.plan.Inverse(ws.buf, spectrum); err != nil {
		return nil, fmt.Errorf("eval: inverse FFT failed: %w", err)
	}

	for i, c := range ws.buf {
		out[i] = real(c)
	}

	return out, nil
}

// Magnitudes returns |X[k]| for each bin.
func Magnitudes(spectrum []complex128) []float64 {
	if len(spectrum) == 0 {
		return nil
	}

	re := make([]float64, len(spectrum))
	im := make([]float64, len(spectrum))
	for i, c := range spectrum {
		re[i] = real(c)
		im[i] = imag(c)
	}

	out := make([]float64, len(spectrum))
	vecmath.Magnitude(out, re, im)

	return out
}

// halfSpectrum windows inputs, transforms them and returns the magnitudes of
// bins 0..n/2.
func halfSpectrum(cache *PlanCache, inputs []float64) ([]float64, error) {
	if len(inputs) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 inputs, got %d", ErrEmptyInput, len(inputs))
	}

	ws, err := cache.Get(len(inputs))
	if err != nil {
		return nil, err
	}

	windowed := make([]float64, len(inputs))
	copy(windowed, inputs)
	vecmath.MulBlockInPlace(windowed, ws.window)

	freq, err := Forward(cache, windowed)
	if err != nil {
		return nil, err
	}

	return Magnitudes(freq[:len(freq)/2+1]), nil
}

func orDefault(c *PlanCache) *PlanCache {
	if c == nil {
		return DefaultPlanCache()
	}
	return c
}

// Centroid evaluates the spectral centroid of its inputs, normalized to
// [0, 1] where 1 is the Nyquist bin. The input count must be a power of two.
type Centroid struct {
	// Cache supplies FFT workspaces. Nil uses [DefaultPlanCache].
	Cache *PlanCache
}

// Evaluate implements [Evaluator].
func (c Centroid) Evaluate(inputs []float64) (float64, error) {
	mags, err := halfSpectrum(orDefault(c.Cache), inputs)
	if err != nil {
		return 0, err
	}

	var num, den float64
	for k, m := range mags {
		num += float64(k) * m
		den += m
	}

	if den <= 1e-12 {
		return 0, ErrSilentInput
	}

	return num / den / float64(len(mags)-1), nil
}

// Peak evaluates the position of the strongest non-DC bin of its inputs,
// normalized to [0, 1] where 1 is the Nyquist bin.
type Peak struct {
	// Cache supplies FFT workspaces. Nil uses [DefaultPlanCache].
	Cache *PlanCache
}

// Evaluate implements [Evaluator].
func (p Peak) Evaluate(inputs []float64) (float64, error) {
	mags, err := halfSpectrum(orDefault(p.Cache), inputs)
	if err != nil {
		return 0, err
	}

	best, bestMag := 0, 1e-12
	for k := 1; k < len(mags); k++ {
		if mags[k] > bestMag {
			best, bestMag = k, mags[k]
		}
	}

	if best == 0 {
		return 0, ErrSilentInput
	}

	return float64(best) / float64(len(mags)-1), nil
}
