// Command modtree loads parameter-tree layouts and ticks them block by block.
//
// Usage:
//
//	modtree run [flags] layout.yaml
//	modtree validate layout.yaml
//
// Examples:
//
//	modtree run --blocks 8 testdata/voice.yaml
//	modtree run --blocks 0 --interval 10ms --metrics-addr :2112 testdata/voice.yaml
//	modtree validate testdata/voice.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
