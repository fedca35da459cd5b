// Package eval defines the numeric evaluator boundary used by evaluator-backed
// modulators, together with the FFT workspaces such evaluators compute with.
//
// An [Evaluator] turns a slice of inputs into one number or fails. The
// modulation tree never sees evaluator errors: the modulator that calls an
// evaluator substitutes a fallback value instead.
//
// # FFT workspaces
//
// Spectral evaluators need an FFT plan and scratch memory per transform
// size. [PlanCache] keeps a fixed number of those workspaces keyed by size
// and evicts the least recently used one when full. Sizes must be powers of
// two. [DefaultPlanCache] is a process-wide cache created on first use and
// never torn down; tree code does not manage it.
//
//	freq, err := eval.Forward(eval.DefaultPlanCache(), block)
//	mags := eval.Magnitudes(freq)
package eval
