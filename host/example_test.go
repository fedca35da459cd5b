package host_test

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-modtree/host"
	"github.com/cwbudde/algo-modtree/modulator"
	"github.com/cwbudde/algo-modtree/param"
)

func ExampleBank_Run() {
	root := param.NewRootWith(param.MustEnvelope(0, 100, 0), modulator.Offset(10)).Named("cutoff")
	root.ModulateWith(modulator.Offset(1)).Named("resonance")

	bank := host.NewBank[int]()
	if err := bank.Add("voice", root); err != nil {
		panic(err)
	}

	if err := bank.Run(context.Background(), 3, nil); err != nil {
		panic(err)
	}

	for _, e := range host.Flatten(root) {
		fmt.Println(e.Path, e.Node.Value().Current)
	}

	// Output:
	// cutoff 30
	// cutoff/resonance 31
}
