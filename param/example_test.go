package param_test

import (
	"fmt"

	"github.com/cwbudde/algo-modtree/param"
)

func ExampleNode_Tick() {
	addOne := param.ModulatorFunc[int](func(env param.Envelope[int]) param.Envelope[int] {
		env.Current++
		return env
	})

	root := param.NewRootWith(param.MustEnvelope(0, 10, 0), addOne)
	a := root.ModulateWith(addOne)
	b := a.ModulateWith(addOne)

	root.Tick()

	fmt.Println(root.Value().Current, a.Value().Current, b.Value().Current)

	// Output:
	// 1 2 3
}

func ExampleBlend() {
	half, err := param.Blend(0.5)
	if err != nil {
		panic(err)
	}

	root := param.NewRootWith(param.MustEnvelope(0.0, 1.0, 0.0),
		param.ModulatorFunc[float64](func(env param.Envelope[float64]) param.Envelope[float64] {
			env.Current = 0.8
			return env
		}))
	child := root.ModulateWithBaseline(param.MustEnvelope(0.0, 1.0, 0.2), nil, half)

	root.Tick()

	fmt.Printf("%.2f\n", child.Value().Current)

	// Output:
	// 0.50
}
