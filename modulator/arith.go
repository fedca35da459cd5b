package modulator

import (
	"errors"
	"io"

	"github.com/cwbudde/algo-modtree/param"
)

// Offset returns a modulator that adds delta to Current on every snap.
func Offset[T param.Number](delta T) param.Modulator[T] {
	return param.ModulatorFunc[T](func(env param.Envelope[T]) param.Envelope[T] {
		env.Current += delta
		return env
	})
}

// Scale returns a modulator that multiplies Current by factor.
func Scale[T param.Number](factor float64) param.Modulator[T] {
	return param.ModulatorFunc[T](func(env param.Envelope[T]) param.Envelope[T] {
		env.Current = T(float64(env.Current) * factor)
		return env
	})
}

// Set returns a modulator that pins Current to v.
func Set[T param.Number](v T) param.Modulator[T] {
	return param.ModulatorFunc[T](func(env param.Envelope[T]) param.Envelope[T] {
		env.Current = v
		return env
	})
}

// Chain applies modulators in order, feeding each the previous result.
type Chain[T param.Number] []param.Modulator[T]

// Snap implements [param.Modulator].
func (c Chain[T]) Snap(env param.Envelope[T]) param.Envelope[T] {
	for _, m := range c {
		if m != nil {
			env = m.Snap(env)
		}
	}
	return env
}

// Close closes every member that implements io.Closer.
func (c Chain[T]) Close() error {
	var errs []error
	for _, m := range c {
		if closer, ok := m.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
