package pathquery

import (
	"math"
	"sync"
)

// Preset values of ShortParam.
const (
	// DefaultMaxAngle is the angular normalizer of the drift penalty, in degrees.
	DefaultMaxAngle = 45.0
	// DefaultDrift is the quadratic deviation penalty.
	DefaultDrift = 10.0
	// NoLimit disables an integer or weight ceiling.
	NoLimit = -1

	// angleTol absorbs round-off on links lying exactly on MaxAngle.
	angleTol = 1e-6
)

// ShortParam configures one ShortestPath run.
type ShortParam struct {
	Sources     []int   // seeded with distance 0, each its own parent
	MaxAngle    float64 // links above this angle are skipped; ≤ 0 disables both skip and penalty
	Drift       float64 // quadratic penalty factor
	MaxJump     int     // ≤ 0: unbounded
	MaxTwin     int     // ≤ 0: unbounded
	MaxWeight   float64 // ≤ 0: unbounded
	OnlyDirect  bool    // relax Direct links only
	StopAtSel   bool    // popped selected nodes terminate
	Target      int     // explicit terminal; < 0 disables
	Loop        bool    // close on the single source
	AvoidBorder bool    // skip non-twin links into border nodes unless terminal
}

// Option customizes a ShortParam built by NewShortParam.
type Option func(*ShortParam)

// NewShortParam returns the documented defaults for sources, then applies opts.
//
// Defaults:
//   - MaxAngle: 45, Drift: 10
//   - MaxJump, MaxTwin, MaxWeight: NoLimit
//   - StopAtSel: true, Target: -1
//   - OnlyDirect, Loop, AvoidBorder: false
func NewShortParam(sources []int, opts ...Option) ShortParam {
	p := ShortParam{
		Sources:   sources,
		MaxAngle:  DefaultMaxAngle,
		Drift:     DefaultDrift,
		MaxJump:   NoLimit,
		MaxTwin:   NoLimit,
		MaxWeight: NoLimit,
		StopAtSel: true,
		Target:    -1,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithMaxAngle sets the angular normalizer; ≤ 0 disables the drift penalty.
func WithMaxAngle(deg float64) Option { return func(p *ShortParam) { p.MaxAngle = deg } }

// WithDrift sets the quadratic deviation penalty.
func WithDrift(d float64) Option { return func(p *ShortParam) { p.Drift = d } }

// WithMaxJump bounds the number of links from a source.
func WithMaxJump(n int) Option { return func(p *ShortParam) { p.MaxJump = n } }

// WithMaxTwin bounds the number of twin links on a route.
func WithMaxTwin(n int) Option { return func(p *ShortParam) { p.MaxTwin = n } }

// WithMaxWeight bounds the expanded distance.
func WithMaxWeight(w float64) Option { return func(p *ShortParam) { p.MaxWeight = w } }

// WithOnlyDirect restricts relaxation to Direct links.
func WithOnlyDirect() Option { return func(p *ShortParam) { p.OnlyDirect = true } }

// WithStopAtSel toggles termination on selected nodes.
func WithStopAtSel(on bool) Option { return func(p *ShortParam) { p.StopAtSel = on } }

// WithTarget sets an explicit terminal node.
func WithTarget(n int) Option { return func(p *ShortParam) { p.Target = n } }

// WithLoop enables loop closure on the single source.
func WithLoop() Option { return func(p *ShortParam) { p.Loop = true } }

// WithAvoidBorder keeps routes off the surface boundary.
func WithAvoidBorder() Option { return func(p *ShortParam) { p.AvoidBorder = true } }

// SearchContext is the per-search scratch state over N nodes.
type SearchContext struct {
	mark   []bool
	dist   []float64
	parent []int
	jump   []int
	twin   []int
	pq     nodePQ
}

// reset sizes the context for n nodes and clears it.
func (c *SearchContext) reset(n int) {
	if cap(c.mark) < n {
		c.mark = make([]bool, n)
		c.dist = make([]float64, n)
		c.parent = make([]int, n)
		c.jump = make([]int, n)
		c.twin = make([]int, n)
	}
	c.mark = c.mark[:n]
	c.dist = c.dist[:n]
	c.parent = c.parent[:n]
	c.jump = c.jump[:n]
	c.twin = c.twin[:n]
	for i := 0; i < n; i++ {
		c.mark[i] = false
		c.dist[i] = math.Inf(1)
		c.parent[i] = -1
		c.jump[i] = 0
		c.twin[i] = 0
	}
	c.pq = c.pq[:0]
}

// Distances returns a copy of the distance field; unreached nodes hold +Inf.
func (c *SearchContext) Distances() []float64 {
	return append([]float64(nil), c.dist...)
}

var contextPool = sync.Pool{
	New: func() interface{} { return new(SearchContext) },
}

// acquireContext takes a reset context for n nodes from the pool.
func acquireContext(n int) *SearchContext {
	c := contextPool.Get().(*SearchContext)
	c.reset(n)
	return c
}

// releaseContext hands c back to the pool.
func releaseContext(c *SearchContext) {
	contextPool.Put(c)
}
