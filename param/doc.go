// Package param implements a hierarchical parameter-modulation tree.
//
// A tree is made of [Node] values. Each node owns exactly one [Modulator] and
// one [Envelope] (bounds, original value and current value) and an ordered
// list of child nodes. Once per processing block the host calls [Node.Tick]
// on the root:
//
//  1. the node snaps its own envelope through its modulator,
//  2. for every child in insertion order the freshly computed current value
//     becomes the child's baseline (see [Baseline]) and the child ticks.
//
// Traversal is depth-first pre-order, so a child's modulator always observes
// the fully updated value of its parent, and siblings never observe each
// other.
//
// # Usage
//
//	env, err := param.NewEnvelope(0.0, 1.0, 0.5)
//	root := param.NewRoot(env)
//	cutoff := root.ModulateWith(lfo)
//	resonance := cutoff.ModulateWith(follower)
//
//	// audio thread, once per block
//	root.Tick()
//
// # Concurrency
//
// A tree has a single writer. Tick must not be called concurrently on the
// same tree or on overlapping subtrees, and the tree must not be grown while
// it ticks; no locks are taken on the tick path. [Node.Value] may be called
// from other goroutines between ticks but is not synchronized against an
// in-progress tick and can observe a partially written envelope. Trees built
// with [WithSnapshots] additionally publish a copy of every node's envelope
// at the end of its tick step; [Node.Snapshot] always returns either the
// previous or the new envelope, never a mix.
//
// # Range policy
//
// The tree does not validate modulator output on the tick path. A modulator
// that leaves [Envelope.Min], [Envelope.Max] produces an out-of-range value
// that is propagated as is, unless the tree was built [WithClamp]
// ([ClampToBounds]).
package param
