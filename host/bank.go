package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-modtree/internal/logging"
	"github.com/cwbudde/algo-modtree/param"
)

// Errors returned by [Bank.Add].
var (
	ErrEmptyName     = errors.New("host: empty tree name")
	ErrNilTree       = errors.New("host: nil tree")
	ErrDuplicateTree = errors.New("host: duplicate tree")

	// ErrOverlappingTree is returned when a tree is already registered, or
	// is an ancestor or descendant of a registered tree.
	ErrOverlappingTree = errors.New("host: tree overlaps a registered tree")
)

// Option mutates bank construction parameters.
type Option func(*config)

type config struct {
	logger      *slog.Logger
	metrics     *Metrics
	checkBounds bool
	parallelism int
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(cfg *config) {
		cfg.metrics = m
	}
}

// WithBoundsCheck scans every tree for drift after each tick and logs a
// warning per drifting node.
func WithBoundsCheck() Option {
	return func(cfg *config) {
		cfg.checkBounds = true
	}
}

// WithParallelism limits the number of trees ticked at the same time.
// n <= 0 means no limit.
func WithParallelism(n int) Option {
	return func(cfg *config) {
		cfg.parallelism = n
	}
}

// Bank owns a set of named root trees.
type Bank[T param.Number] struct {
	cfg config

	mu    sync.RWMutex
	names []string
	trees map[string]*param.Node[T]

	tickMu sync.Mutex
	blocks uint64
}

// NewBank creates an empty bank.
func NewBank[T param.Number](opts ...Option) *Bank[T] {
	cfg := config{logger: logging.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Bank[T]{
		cfg:   cfg,
		trees: make(map[string]*param.Node[T]),
	}
}

// Add registers a root tree under name. The bank takes ownership of the
// tree; it must not be ticked elsewhere. Trees are ticked concurrently, so
// a node may belong to at most one registered tree.
func (b *Bank[T]) Add(name string, root *param.Node[T]) error {
	if name == "" {
		return ErrEmptyName
	}

	if root == nil {
		return fmt.Errorf("%w: %s", ErrNilTree, name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.trees[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTree, name)
	}

	for _, other := range b.names {
		if overlaps(b.trees[other], root) {
			return fmt.Errorf("%w: %s and %s", ErrOverlappingTree, name, other)
		}
	}

	b.trees[name] = root
	b.names = append(b.names, name)
	b.cfg.logger.Debug("tree added", "tree", name, "nodes", len(Flatten(root)))

	return nil
}

func overlaps[T param.Number](a, b *param.Node[T]) bool {
	return a == b || isAncestor(a, b) || isAncestor(b, a)
}

// isAncestor reports whether a is a proper ancestor of n.
func isAncestor[T param.Number](a, n *param.Node[T]) bool {
	for p, ok := n.Parent(); ok; p, ok = p.Parent() {
		if p == a {
			return true
		}
	}
	return false
}

// Get returns the tree registered under name.
func (b *Bank[T]) Get(name string) (*param.Node[T], bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	root, ok := b.trees[name]
	return root, ok
}

// Names returns the tree names in insertion order.
func (b *Bank[T]) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

// Len returns the number of trees.
func (b *Bank[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.names)
}

// Blocks returns the number of completed TickAll calls.
func (b *Bank[T]) Blocks() uint64 {
	b.tickMu.Lock()
	defer b.tickMu.Unlock()
	return b.blocks
}

// TickAll ticks every tree once. Trees tick concurrently; overlapping
// TickAll calls are serialized. It returns ctx.Err() without ticking if the
// context is already done.
func (b *Bank[T]) TickAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.tickMu.Lock()
	defer b.tickMu.Unlock()

	b.mu.RLock()
	names := make([]string, len(b.names))
	copy(names, b.names)
	roots := make([]*param.Node[T], len(names))
	for i, name := range names {
		roots[i] = b.trees[name]
	}
	b.mu.RUnlock()

	var g errgroup.Group
	if b.cfg.parallelism > 0 {
		g.SetLimit(b.cfg.parallelism)
	}

	for i, root := range roots {
		name := names[i]
		g.Go(func() error {
			start := time.Now()
			root.Tick()
			b.cfg.metrics.observeTick(name, time.Since(start))

			if b.cfg.checkBounds {
				b.reportDrift(name, root)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	b.blocks++

	return nil
}

func (b *Bank[T]) reportDrift(name string, root *param.Node[T]) {
	drifts := CheckBounds(root)
	b.cfg.metrics.observeDrift(name, len(drifts))

	for _, d := range drifts {
		b.cfg.logger.Warn("modulation drift",
			"tree", name,
			"path", d.Path,
			"current", d.Envelope.Current,
			"min", d.Envelope.Min,
			"max", d.Envelope.Max,
		)
	}
}

// Run calls TickAll blocks times, or until ctx is done when blocks <= 0.
// After every block onBlock, if not nil, is called with the block index.
func (b *Bank[T]) Run(ctx context.Context, blocks int, onBlock func(block int)) error {
	for i := 0; blocks <= 0 || i < blocks; i++ {
		if err := b.TickAll(ctx); err != nil {
			return err
		}

		if onBlock != nil {
			onBlock(i)
		}
	}

	return nil
}

// Release tears down every tree and empties the bank.
func (b *Bank[T]) Release() error {
	b.tickMu.Lock()
	defer b.tickMu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for _, name := range b.names {
		if err := b.trees[name].Release(); err != nil {
			errs = append(errs, fmt.Errorf("tree %s: %w", name, err))
		}
	}

	b.names = nil
	b.trees = make(map[string]*param.Node[T])

	return errors.Join(errs...)
}
