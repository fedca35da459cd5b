package host

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-modtree/internal/logging"
	"github.com/cwbudde/algo-modtree/modulator"
	"github.com/cwbudde/algo-modtree/param"
)

func newTree(t *testing.T, delta float64) *param.Node[float64] {
	t.Helper()

	env, err := param.NewEnvelope(0.0, 100.0, 0.0)
	require.NoError(t, err)

	root := param.NewRootWith(env, modulator.Offset(delta)).Named("root")
	root.ModulateWith(modulator.Offset(1.0)).Named("a").
		ModulateWith(modulator.Offset(1.0)).Named("b")

	return root
}

func TestBankAddRejectsOverlappingTrees(t *testing.T) {
	t.Parallel()

	root := newTree(t, 1)
	child := root.Children()[0]
	grandchild := child.Children()[0]

	b := NewBank[float64]()
	require.NoError(t, b.Add("mid", child))

	tests := []struct {
		name string
		tree *param.Node[float64]
	}{
		{name: "same", tree: child},
		{name: "ancestor", tree: root},
		{name: "descendant", tree: grandchild},
	}

	for _, tt := range tests {
		err := b.Add(tt.name, tt.tree)
		require.ErrorIs(t, err, ErrOverlappingTree, tt.name)
		assert.Contains(t, err.Error(), "mid")
	}

	assert.Equal(t, []string{"mid"}, b.Names())
	require.NoError(t, b.Add("other", newTree(t, 2)))

	for range 50 {
		require.NoError(t, b.TickAll(context.Background()))
	}
	assert.Equal(t, 50.0, child.Value().Current)
}

func TestBankAdd(t *testing.T) {
	t.Parallel()

	b := NewBank[float64]()
	require.NoError(t, b.Add("filter", newTree(t, 1)))
	require.NoError(t, b.Add("amp", newTree(t, 2)))

	assert.ErrorIs(t, b.Add("", newTree(t, 1)), ErrEmptyName)
	assert.ErrorIs(t, b.Add("nil", nil), ErrNilTree)
	assert.ErrorIs(t, b.Add("filter", newTree(t, 1)), ErrDuplicateTree)

	assert.Equal(t, []string{"filter", "amp"}, b.Names())
	assert.Equal(t, 2, b.Len())

	root, ok := b.Get("amp")
	require.True(t, ok)
	assert.Equal(t, "root", root.Name())

	_, ok = b.Get("missing")
	assert.False(t, ok)
}

func TestBankTickAll(t *testing.T) {
	t.Parallel()

	b := NewBank[float64](WithParallelism(1))
	for i, name := range []string{"t0", "t1", "t2", "t3"} {
		require.NoError(t, b.Add(name, newTree(t, float64(i+1))))
	}

	require.NoError(t, b.TickAll(context.Background()))
	require.NoError(t, b.TickAll(context.Background()))

	for i, name := range b.Names() {
		root, _ := b.Get(name)
		entries := Flatten(root)
		require.Len(t, entries, 3)

		want := 2 * float64(i+1)
		assert.Equal(t, want, entries[0].Node.Value().Current, name)
		assert.Equal(t, want+1, entries[1].Node.Value().Current, name)
		assert.Equal(t, want+2, entries[2].Node.Value().Current, name)
	}

	assert.Equal(t, uint64(2), b.Blocks())
}

func TestBankTickAllCanceled(t *testing.T) {
	t.Parallel()

	b := NewBank[float64]()
	root := newTree(t, 1)
	require.NoError(t, b.Add("t", root))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, b.TickAll(ctx), context.Canceled)
	assert.Equal(t, 0.0, root.Value().Current)
	assert.Equal(t, uint64(0), b.Blocks())
}

func TestBankRun(t *testing.T) {
	t.Parallel()

	b := NewBank[float64]()
	require.NoError(t, b.Add("t", newTree(t, 0.5)))

	var seen []int
	require.NoError(t, b.Run(context.Background(), 4, func(block int) { seen = append(seen, block) }))
	assert.Equal(t, []int{0, 1, 2, 3}, seen)

	root, _ := b.Get("t")
	assert.Equal(t, 2.0, root.Value().Current)
}

func TestBankRunUntilCanceled(t *testing.T) {
	t.Parallel()

	b := NewBank[float64]()
	require.NoError(t, b.Add("t", newTree(t, 0)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var blocks atomic.Int64
	err := b.Run(ctx, 0, func(block int) {
		if blocks.Add(1) == 10 {
			cancel()
		}
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(10), blocks.Load())
}

func TestCheckBoundsAndDriftReporting(t *testing.T) {
	t.Parallel()

	env, err := param.NewEnvelope(0.0, 1.0, 0.5)
	require.NoError(t, err)

	root := param.NewRootWith(env, modulator.Offset(0.4))
	root.ModulateWith(nil).Named("follow")
	root.ModulateWithEnvelope(env, modulator.Set(0.1)).Named("pinned")

	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	var logs bytes.Buffer
	b := NewBank[float64](
		WithLogger(logging.NewWriter(&logs, slog.LevelWarn)),
		WithMetrics(metrics),
		WithBoundsCheck(),
	)
	require.NoError(t, b.Add("lfo", root))

	require.NoError(t, b.TickAll(context.Background()))
	assert.Empty(t, CheckBounds(root))
	assert.Equal(t, 0.0, promtest.ToFloat64(metrics.drift.WithLabelValues("lfo")))

	require.NoError(t, b.TickAll(context.Background()))

	drifts := CheckBounds(root)
	require.Len(t, drifts, 2)
	assert.Equal(t, "0", drifts[0].Path)
	assert.Equal(t, "0/follow", drifts[1].Path)
	assert.InDelta(t, 1.3, drifts[1].Envelope.Current, 1e-12)
	assert.Contains(t, drifts[1].String(), "0/follow: ")

	assert.Equal(t, 2.0, promtest.ToFloat64(metrics.drift.WithLabelValues("lfo")))
	assert.Equal(t, 2.0, promtest.ToFloat64(metrics.ticks.WithLabelValues("lfo")))
	assert.Equal(t, 2, strings.Count(logs.String(), "modulation drift"))
}

func TestNewMetricsDuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	require.Error(t, err)

	m, err := NewMetrics(nil)
	require.NoError(t, err)
	assert.NotNil(t, m)
}

type failingCloser struct{}

func (failingCloser) Snap(env param.Envelope[float64]) param.Envelope[float64] { return env }

func (failingCloser) Close() error { return errors.New("close failed") }

func TestBankRelease(t *testing.T) {
	t.Parallel()

	env, err := param.NewEnvelope(0.0, 1.0, 0.0)
	require.NoError(t, err)

	b := NewBank[float64]()
	good := newTree(t, 1)
	bad := param.NewRootWith(env, failingCloser{})
	require.NoError(t, b.Add("good", good))
	require.NoError(t, b.Add("bad", bad))

	err = b.Release()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tree bad")

	assert.True(t, good.Released())
	assert.True(t, bad.Released())
	assert.Zero(t, b.Len())
}

func TestFlattenUnnamed(t *testing.T) {
	t.Parallel()

	env, err := param.NewEnvelope(0, 10, 0)
	require.NoError(t, err)

	root := param.NewRoot(env)
	root.ModulateWith(nil)
	root.ModulateWith(nil).ModulateWith(nil)

	var paths []string
	for _, e := range Flatten(root) {
		paths = append(paths, e.Path)
	}

	assert.Equal(t, []string{"0", "0/0", "0/1", "0/1/0"}, paths)
}
