package param

// Modulator computes the next envelope of a node from its current one.
//
// Snap is called once per tick by the owning node and never concurrently
// with itself. It has no error return: failures inside a modulator (for
// example a scripted evaluator error) must be mapped to a fallback envelope by
// the modulator. A conforming modulator keeps Current within [Min, Max] when
// the input is in range; the tree does not check this.
//
// A modulator that implements io.Closer is closed when its node is released.
type Modulator[T Number] interface {
	Snap(env Envelope[T]) Envelope[T]
}

// ModulatorFunc adapts a plain function to [Modulator].
type ModulatorFunc[T Number] func(env Envelope[T]) Envelope[T]

// Snap calls f(env).
func (f ModulatorFunc[T]) Snap(env Envelope[T]) Envelope[T] {
	return f(env)
}

type identity[T Number] struct{}

func (identity[T]) Snap(env Envelope[T]) Envelope[T] { return env }

// Identity returns a modulator that leaves the envelope unchanged.
func Identity[T Number]() Modulator[T] {
	return identity[T]{}
}
