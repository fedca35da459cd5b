// Package modulator provides generic [param.Modulator] implementations:
// arithmetic building blocks, composition, and the evaluator-backed
// modulator that delegates to an external [eval.Evaluator].
//
// Shape generators such as LFOs or envelopes are not part of this package;
// they plug into the tree through the same [param.Modulator] interface.
//
// # Evaluator-backed modulation
//
// [Evaluated] feeds inputs derived from the envelope into an evaluator and
// writes the result into Current. Evaluator failures and non-finite results
// never reach the tree: the modulator substitutes a fallback value, counts
// the failure and optionally reports it to an error handler.
//
//	m, err := modulator.NewEvaluated[float64](eval.Centroid{}, modulator.History[float64](64),
//		modulator.WithNormalizedOutput(),
//		modulator.WithFallback(modulator.FallbackOriginal),
//	)
//	node := root.ModulateWith(m)
package modulator
