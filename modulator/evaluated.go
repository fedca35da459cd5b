package modulator

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-modtree/eval"
	"github.com/cwbudde/algo-modtree/internal/numeric"
	"github.com/cwbudde/algo-modtree/param"
)

var (
	errNilEvaluator = errors.New("modulator: nil evaluator")
	errNilInputs    = errors.New("modulator: nil input function")

	// ErrNonFinite is reported when an evaluator returns NaN or Inf.
	ErrNonFinite = errors.New("modulator: evaluator returned a non-finite value")
)

// Fallback selects the value used when evaluation fails.
type Fallback int

const (
	// FallbackHold keeps the unmodified Current value.
	FallbackHold Fallback = iota
	// FallbackOriginal resets Current to Original.
	FallbackOriginal
	// FallbackValue uses a fixed value.
	FallbackValue
)

// EvaluatedOption mutates evaluator-backed modulator construction parameters.
type EvaluatedOption func(*evaluatedConfig) error

type evaluatedConfig struct {
	fallback   Fallback
	value      float64
	normalized bool
	onError    func(error)
}

// WithFallback selects the failure policy. Use [WithFallbackValue] for
// [FallbackValue].
func WithFallback(f Fallback) EvaluatedOption {
	return func(cfg *evaluatedConfig) error {
		if f < FallbackHold || f > FallbackValue {
			return fmt.Errorf("modulator: unknown fallback %d", f)
		}

		cfg.fallback = f

		return nil
	}
}

// WithFallbackValue falls back to v on failure.
func WithFallbackValue(v float64) EvaluatedOption {
	return func(cfg *evaluatedConfig) error {
		if !numeric.IsFinite(v) {
			return fmt.Errorf("modulator: fallback value must be finite: %f", v)
		}

		cfg.fallback = FallbackValue
		cfg.value = v

		return nil
	}
}

// WithNormalizedOutput maps an evaluator result r in [0, 1] to
// Min + r*(Max-Min) instead of writing it to Current as is.
func WithNormalizedOutput() EvaluatedOption {
	return func(cfg *evaluatedConfig) error {
		cfg.normalized = true
		return nil
	}
}

// WithErrorHandler is called with every absorbed failure, from the
// goroutine that ticks the tree. It must not block.
func WithErrorHandler(fn func(error)) EvaluatedOption {
	return func(cfg *evaluatedConfig) error {
		cfg.onError = fn
		return nil
	}
}

// Evaluated is a modulator that computes Current with an external
// evaluator.
type Evaluated[T param.Number] struct {
	ev       eval.Evaluator
	inputs   InputFunc[T]
	cfg      evaluatedConfig
	failures atomic.Uint64
}

// NewEvaluated creates an evaluator-backed modulator. inputs derives the
// evaluator arguments from the envelope on every snap.
func NewEvaluated[T param.Number](ev eval.Evaluator, inputs InputFunc[T], opts ...EvaluatedOption) (*Evaluated[T], error) {
	if ev == nil {
		return nil, errNilEvaluator
	}

	if inputs == nil {
		return nil, errNilInputs
	}

	var cfg evaluatedConfig

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Evaluated[T]{ev: ev, inputs: inputs, cfg: cfg}, nil
}

// Snap implements [param.Modulator].
func (m *Evaluated[T]) Snap(env param.Envelope[T]) param.Envelope[T] {
	r, err := m.ev.Evaluate(m.inputs(env))
	if err == nil && !numeric.IsFinite(r) {
		err = fmt.Errorf("%w: %v", ErrNonFinite, r)
	}

	if err != nil {
		m.failures.Add(1)
		if m.cfg.onError != nil {
			m.cfg.onError(err)
		}
		return m.fallback(env)
	}

	if m.cfg.normalized {
		lo, hi := float64(env.Min), float64(env.Max)
		env.Current = fromFloat[T](lo + r*(hi-lo))
		return env
	}

	env.Current = fromFloat[T](r)

	return env
}

func (m *Evaluated[T]) fallback(env param.Envelope[T]) param.Envelope[T] {
	switch m.cfg.fallback {
	case FallbackOriginal:
		env.Current = env.Original
	case FallbackValue:
		env.Current = fromFloat[T](m.cfg.value)
	}
	return env
}

// fromFloat converts r to T, rounding for integer types.
func fromFloat[T param.Number](r float64) T {
	half := 0.5
	if T(half) == 0 {
		return T(math.Round(r))
	}
	return T(r)
}

// Failures returns the number of absorbed evaluation failures. It is safe
// to call from any goroutine.
func (m *Evaluated[T]) Failures() uint64 {
	return m.failures.Load()
}

// Close closes the evaluator if it implements io.Closer.
func (m *Evaluated[T]) Close() error {
	if closer, ok := m.ev.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
