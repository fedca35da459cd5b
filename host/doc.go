// Package host drives a bank of independent parameter trees once per
// processing block.
//
// Each tree has exactly one writer: [Bank.TickAll] ticks every tree on its
// own goroutine and serializes overlapping calls, so no tree is ever ticked
// concurrently with itself. Trees do not share nodes, which makes ticking
// them in parallel safe.
//
// The bank can optionally scan trees for modulation drift after each block
// (see [CheckBounds]) and export tick counts, tick durations and drift to
// Prometheus through [Metrics].
package host
