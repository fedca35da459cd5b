package param

import (
	"fmt"

	"github.com/cwbudde/algo-modtree/internal/numeric"
)

// Number is any integer or floating point type a parameter can hold.
type Number = numeric.Number

// Envelope is the bounded state of a parameter.
//
// Original is the value before any modulation was applied; the tree never
// writes it. Current is the live value. Min <= Current <= Max is a target
// kept by modulators, not something the container enforces after
// construction.
type Envelope[T Number] struct {
	Min      T
	Max      T
	Original T
	Current  T
}

// NewEnvelope returns an envelope whose current value starts at original.
// It fails with [ErrInvalidBounds] if min > max and with [ErrOutOfRange] if
// original lies outside [min, max].
func NewEnvelope[T Number](min, max, original T) (Envelope[T], error) {
	return NewEnvelopeAt(min, max, original, original)
}

// NewEnvelopeAt is like [NewEnvelope] but starts the current value at current.
func NewEnvelopeAt[T Number](min, max, original, current T) (Envelope[T], error) {
	env := Envelope[T]{Min: min, Max: max, Original: original, Current: current}
	if err := env.Validate(); err != nil {
		return Envelope[T]{}, err
	}

	return env, nil
}

// MustEnvelope is like [NewEnvelope] but panics on error.
func MustEnvelope[T Number](min, max, original T) Envelope[T] {
	env, err := NewEnvelope(min, max, original)
	if err != nil {
		panic(err)
	}

	return env
}

// Validate checks the construction invariants of e.
func (e Envelope[T]) Validate() error {
	if numeric.IsNaN(e.Min) || numeric.IsNaN(e.Max) || e.Min > e.Max {
		return fmt.Errorf("%w: min %v, max %v", ErrInvalidBounds, e.Min, e.Max)
	}

	if !numeric.InRange(e.Original, e.Min, e.Max) {
		return fmt.Errorf("%w: original %v not in [%v, %v]", ErrOutOfRange, e.Original, e.Min, e.Max)
	}

	if !numeric.InRange(e.Current, e.Min, e.Max) {
		return fmt.Errorf("%w: current %v not in [%v, %v]", ErrOutOfRange, e.Current, e.Min, e.Max)
	}

	return nil
}

// InRange reports whether Current lies in [Min, Max].
func (e Envelope[T]) InRange() bool {
	return numeric.InRange(e.Current, e.Min, e.Max)
}

// WithCurrent returns a copy of e with Current set to v.
func (e Envelope[T]) WithCurrent(v T) Envelope[T] {
	e.Current = v
	return e
}

// Clamped returns a copy of e with Current limited to [Min, Max].
func (e Envelope[T]) Clamped() Envelope[T] {
	e.Current = numeric.Clamp(e.Current, e.Min, e.Max)
	return e
}

// String formats the envelope for diagnostics.
func (e Envelope[T]) String() string {
	return fmt.Sprintf("%v [%v, %v] (orig %v)", e.Current, e.Min, e.Max, e.Original)
}
