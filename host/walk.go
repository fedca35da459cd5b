package host

import (
	"strconv"

	"github.com/cwbudde/algo-modtree/param"
)

// Entry is a node together with its slash-separated path from the root.
// Unnamed nodes are addressed by their child index.
type Entry[T param.Number] struct {
	Path string
	Node *param.Node[T]
}

// Flatten lists root and its descendants depth-first in pre-order.
func Flatten[T param.Number](root *param.Node[T]) []Entry[T] {
	var out []Entry[T]
	flatten(root, segment(root, 0), &out)
	return out
}

func flatten[T param.Number](n *param.Node[T], path string, out *[]Entry[T]) {
	*out = append(*out, Entry[T]{Path: path, Node: n})
	for i, c := range n.Children() {
		flatten(c, path+"/"+segment(c, i), out)
	}
}

func segment[T param.Number](n *param.Node[T], index int) string {
	if name := n.Name(); name != "" {
		return name
	}
	return strconv.Itoa(index)
}

// Drift describes a node whose current value left its bounds.
type Drift[T param.Number] struct {
	Path     string
	Envelope param.Envelope[T]
}

// String formats the drift for logs.
func (d Drift[T]) String() string {
	return d.Path + ": " + d.Envelope.String()
}

// CheckBounds reports every node in the tree whose Current lies outside
// [Min, Max]. The tree itself never rejects such values; this is a
// diagnostic.
func CheckBounds[T param.Number](root *param.Node[T]) []Drift[T] {
	var drifts []Drift[T]
	for _, e := range Flatten(root) {
		env := e.Node.Value()
		if !env.InRange() {
			drifts = append(drifts, Drift[T]{Path: e.Path, Envelope: env})
		}
	}
	return drifts
}
