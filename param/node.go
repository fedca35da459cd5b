package param

import (
	"errors"
	"io"
	"sync/atomic"
	"weak"
)

// Node is one parameter in a modulation tree.
//
// A node exclusively owns its modulator and its children. The link to its
// parent is a weak, lookup-only reference. Child pointers returned by
// [Node.ModulateWith] stay valid for the lifetime of the parent.
type Node[T Number] struct {
	name     string
	cfg      *Config
	mod      Modulator[T]
	value    Envelope[T]
	baseline Baseline
	children []*Node[T]
	parent   weak.Pointer[Node[T]]
	depth    int
	released bool

	snapshot atomic.Pointer[Envelope[T]]
}

// NewRoot creates a root node with an identity modulator.
func NewRoot[T Number](env Envelope[T], opts ...Option) *Node[T] {
	return NewRootWith(env, nil, opts...)
}

// NewRootWith creates a root node with the given modulator. A nil modulator
// is replaced by [Identity].
func NewRootWith[T Number](env Envelope[T], mod Modulator[T], opts ...Option) *Node[T] {
	cfg := ApplyOptions(opts...)
	n := &Node[T]{
		cfg:      &cfg,
		mod:      orIdentity(mod),
		value:    env,
		baseline: cfg.Baseline,
	}
	n.publish()

	return n
}

func orIdentity[T Number](mod Modulator[T]) Modulator[T] {
	if mod == nil {
		return Identity[T]()
	}
	return mod
}

// ModulateWith appends a child driven by mod and returns it. The child
// starts with a copy of this node's envelope and uses the tree's default
// baseline policy.
func (n *Node[T]) ModulateWith(mod Modulator[T]) *Node[T] {
	return n.addChild(n.value, mod, n.cfg.Baseline)
}

// ModulateWithEnvelope appends a child with its own bounds and original value.
func (n *Node[T]) ModulateWithEnvelope(env Envelope[T], mod Modulator[T]) *Node[T] {
	return n.addChild(env, mod, n.cfg.Baseline)
}

// ModulateWithBaseline appends a child that receives this node's value
// through b instead of the tree's default policy.
func (n *Node[T]) ModulateWithBaseline(env Envelope[T], mod Modulator[T], b Baseline) *Node[T] {
	return n.addChild(env, mod, b)
}

func (n *Node[T]) addChild(env Envelope[T], mod Modulator[T], b Baseline) *Node[T] {
	child := &Node[T]{
		cfg:      n.cfg,
		mod:      orIdentity(mod),
		value:    env,
		baseline: b,
		depth:    n.depth + 1,
	}

	if n.released {
		child.released = true
		return child
	}

	child.parent = weak.Make(n)
	child.publish()
	n.children = append(n.children, child)

	return child
}

// Parent returns the parent node. ok is false for a root, after the parent
// was released, or once the parent is no longer reachable.
func (n *Node[T]) Parent() (parent *Node[T], ok bool) {
	p := n.parent.Value()
	if p == nil || p.released {
		return nil, false
	}
	return p, true
}

// Named sets a diagnostic name and returns n for chaining.
func (n *Node[T]) Named(name string) *Node[T] {
	n.name = name
	return n
}

// Name returns the diagnostic name, empty if none was set.
func (n *Node[T]) Name() string { return n.name }

// Depth returns 0 for a root and parent depth + 1 otherwise.
func (n *Node[T]) Depth() int { return n.depth }

// Len returns the number of direct children.
func (n *Node[T]) Len() int { return len(n.children) }

// Children returns the direct children in evaluation order.
func (n *Node[T]) Children() []*Node[T] {
	out := make([]*Node[T], len(n.children))
	copy(out, n.children)
	return out
}

// Baseline returns the policy through which this node receives its
// parent's value.
func (n *Node[T]) Baseline() Baseline { return n.baseline }

// Config returns the tree-wide configuration.
func (n *Node[T]) Config() Config { return *n.cfg }

// Released reports whether the node has been torn down.
func (n *Node[T]) Released() bool { return n.released }

// Value returns the current envelope. Reads from another goroutine during a
// tick are not synchronized and may observe a partially written envelope;
// use [Node.Snapshot] for a consistent view.
func (n *Node[T]) Value() Envelope[T] { return n.value }

// Snapshot returns the envelope published at the end of this node's last
// tick step. Without [WithSnapshots] it is the same as [Node.Value].
func (n *Node[T]) Snapshot() Envelope[T] {
	if p := n.snapshot.Load(); p != nil {
		return *p
	}
	return n.value
}

func (n *Node[T]) publish() {
	if !n.cfg.Snapshots {
		return
	}
	env := n.value
	n.snapshot.Store(&env)
}

// Tick recomputes this node's envelope and cascades it into the subtree.
//
// The modulator runs first. Then, for each child in insertion order, the
// child's Current is overwritten according to its baseline policy and the
// child ticks recursively. Original is preserved across the modulator call.
// Tick does not validate the result and never fails; it is a no-op on a
// released node.
func (n *Node[T]) Tick() {
	if n.released {
		return
	}

	next := n.mod.Snap(n.value)
	next.Original = n.value.Original
	if n.cfg.Clamp == ClampToBounds {
		next = next.Clamped()
	}
	n.value = next
	n.publish()

	current := n.value.Current
	for _, c := range n.children {
		if c.released {
			continue
		}
		c.value.Current = applyBaseline(c.baseline, current, c.value)
		c.Tick()
	}
}

// Walk visits n and its descendants depth-first in pre-order. It stops as
// soon as fn returns false and reports whether the walk completed.
func (n *Node[T]) Walk(fn func(*Node[T]) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Release tears down the subtree rooted at n, children first. Modulators
// implementing io.Closer are closed and their errors joined. A released
// node no longer ticks and its former children report no parent.
//
// Releasing a non-root node stops that subtree from ticking. It stays in
// its parent's child list but no longer receives the parent's value.
func (n *Node[T]) Release() error {
	if n.released {
		return nil
	}

	var errs []error
	for _, c := range n.children {
		if err := c.Release(); err != nil {
			errs = append(errs, err)
		}
	}

	if closer, ok := n.mod.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	n.children = nil
	n.mod = Identity[T]()
	n.parent = weak.Pointer[Node[T]]{}
	n.released = true

	return errors.Join(errs...)
}
