package eval

import (
	"container/list"
	"fmt"
	"math"
	"strconv"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultCacheCapacity is the number of workspaces kept by
	// [DefaultPlanCache].
	DefaultCacheCapacity = 5
	// MaxFFTSize bounds the workspace size a cache will build.
	MaxFFTSize = 1 << 20
)

// Workspace bundles an FFT plan with the scratch memory and analysis window
// for one transform size. A workspace serializes its users.
type Workspace struct {
	mu     sync.Mutex
	size   int
	plan   *algofft.Plan[complex128]
	buf    []complex128
	window []float64
}

// Size returns the transform length.
func (w *Workspace) Size() int { return w.size }

func newWorkspace(n int) (*Workspace, error) {
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("eval: failed to create FFT plan: %w", err)
	}

	return &Workspace{
		size:   n,
		plan:   plan,
		buf:    make([]complex128, n),
		window: hann(n),
	}, nil
}

// hann returns the periodic Hann window of length n.
func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}

// PlanCache is a bounded least-recently-used cache of FFT workspaces keyed
// by transform size. It is safe for concurrent use; concurrent misses for
// the same size build the workspace once.
type PlanCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[int]*list.Element
	group    singleflight.Group
}

// NewPlanCache returns an empty cache holding at most capacity workspaces.
func NewPlanCache(capacity int) (*PlanCache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	return &PlanCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[int]*list.Element, capacity),
	}, nil
}

var defaultPlanCache = sync.OnceValue(func() *PlanCache {
	c, _ := NewPlanCache(DefaultCacheCapacity)
	return c
})

// DefaultPlanCache returns the process-wide cache. It is created on first
// use and lives for the rest of the process.
func DefaultPlanCache() *PlanCache {
	return defaultPlanCache()
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Get returns the workspace for size n, building it on a miss and evicting
// the least recently used workspace if the cache is full.
func (c *PlanCache) Get(n int) (*Workspace, error) {
	if !IsPowerOfTwo(n) {
		return nil, fmt.Errorf("%w: %d", ErrSizeNotPowerOfTwo, n)
	}

	if n > MaxFFTSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrSizeTooLarge, n, MaxFFTSize)
	}

	if ws, ok := c.lookup(n); ok {
		return ws, nil
	}

	v, err, _ := c.group.Do(strconv.Itoa(n), func() (any, error) {
		if ws, ok := c.lookup(n); ok {
			return ws, nil
		}

		ws, err := newWorkspace(n)
		if err != nil {
			return nil, err
		}

		c.insert(ws)

		return ws, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Workspace), nil
}

func (c *PlanCache) lookup(n int) (*Workspace, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[n]
	if !ok {
		return nil, false
	}

	c.order.MoveToFront(el)

	return el.Value.(*Workspace), true
}

func (c *PlanCache) insert(ws *Workspace) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[ws.size]; ok {
		el.Value = ws
		c.order.MoveToFront(el)
		return
	}

	c.entries[ws.size] = c.order.PushFront(ws)

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*Workspace).size)
	}
}

// Len returns the number of cached workspaces.
func (c *PlanCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Cap returns the cache capacity.
func (c *PlanCache) Cap() int { return c.capacity }

// Sizes returns the cached sizes, most recently used first.
func (c *PlanCache) Sizes() []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	sizes := make([]int, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		sizes = append(sizes, el.Value.(*Workspace).size)
	}
	return sizes
}
