package pathquery_test

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fieldpatch/builder"
	"github.com/katalvlaran/fieldpatch/fieldgraph"
	"github.com/katalvlaran/fieldpatch/pathquery"
)

// grid returns a 2x2 grid graph under a uniform +X field.
//
//	6 - 7 - 8
//	| / | / |
//	3 - 4 - 5
//	| / | / |
//	0 - 1 - 2
func grid(t *testing.T) *fieldgraph.Graph {
	t.Helper()
	m, err := builder.Grid(2, 2)
	require.NoError(t, err)
	g, err := fieldgraph.New(m, builder.UniformField(m, v3.Vec{X: 1}))
	require.NoError(t, err)
	return g
}

func n(v, d int) int { return fieldgraph.Node(v, d) }

// --- TraceToSelected ---

func TestTraceToSelected_ReachesSelected(t *testing.T) {
	g := grid(t)
	g.Select(n(5, 0))
	path, ok := pathquery.TraceToSelected(g, n(3, 0))
	require.True(t, ok)
	assert.Equal(t, []int{n(3, 0), n(4, 0), n(5, 0)}, path)
}

func TestTraceToSelected_InactiveContinuation(t *testing.T) {
	g := grid(t)
	g.Select(n(5, 0))
	g.SetActive(n(4, 0), false)
	_, ok := pathquery.TraceToSelected(g, n(3, 0))
	assert.False(t, ok)
}

func TestTraceToSelected_DeadEnd(t *testing.T) {
	g := grid(t)
	// Nothing selected: the walk runs into the right border and stops.
	_, ok := pathquery.TraceToSelected(g, n(3, 0))
	assert.False(t, ok)
}

// --- ShortestPath ---

func TestShortestPath_Target(t *testing.T) {
	g := grid(t)
	path, ok := pathquery.ShortestPath(g, pathquery.NewShortParam([]int{n(3, 0)},
		pathquery.WithTarget(n(5, 0))))
	require.True(t, ok)
	assert.Equal(t, []int{n(3, 0), n(4, 0), n(5, 0)}, path)
}

func TestShortestPath_StopAtSelected(t *testing.T) {
	g := grid(t)
	g.Select(n(4, 0))
	path, ok := pathquery.ShortestPath(g, pathquery.NewShortParam([]int{n(3, 0), n(0, 0)}))
	require.True(t, ok)
	assert.Equal(t, []int{n(3, 0), n(4, 0)}, path)
}

func TestShortestPath_MaxWeightBlocks(t *testing.T) {
	g := grid(t)
	_, ok := pathquery.ShortestPath(g, pathquery.NewShortParam([]int{n(3, 0)},
		pathquery.WithTarget(n(5, 0)),
		pathquery.WithMaxWeight(0.5)))
	assert.False(t, ok)
}

func TestShortestPath_WeightMonotonic(t *testing.T) {
	g := grid(t)
	p := pathquery.NewShortParam([]int{n(0, 0)}, pathquery.WithTarget(n(8, 0)))
	path, dist, ok := pathquery.ShortestPathFrom(g, p, nil)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(path), 2)
	for i := 1; i < len(path); i++ {
		assert.GreaterOrEqual(t, dist[path[i]], dist[path[i-1]])
	}
}

func TestShortestPath_LoopContract(t *testing.T) {
	g := grid(t)
	assert.Panics(t, func() {
		pathquery.ShortestPath(g, pathquery.NewShortParam([]int{n(3, 0), n(4, 0)}, pathquery.WithLoop()))
	})
	g.SetActive(n(3, 0), false)
	assert.Panics(t, func() {
		pathquery.ShortestPath(g, pathquery.NewShortParam([]int{n(3, 0)}))
	})
}

func TestWeight(t *testing.T) {
	assert.InDelta(t, 22.0, pathquery.Weight(2, 45, 10, 45), 1e-12)
	assert.InDelta(t, 2.0, pathquery.Weight(2, 30, 10, 0), 1e-12)
}

// --- FindLoop ---

func TestFindLoop_OpenSquareHasNone(t *testing.T) {
	g := grid(t)
	_, ok := pathquery.FindLoop(g, n(4, 0), pathquery.DefaultDrift)
	assert.False(t, ok)
}

func TestFindLoop_AroundCylinder(t *testing.T) {
	m, err := builder.Cylinder(8, 2)
	require.NoError(t, err)
	g, err := fieldgraph.New(m, builder.CircumferentialField(m, v3.Vec{Z: 1}))
	require.NoError(t, err)

	start := n(8, 0) // middle ring
	loop, ok := pathquery.FindLoop(g, start, pathquery.DefaultDrift)
	require.True(t, ok)
	assert.Len(t, loop, 8)
	assert.Equal(t, start, loop[0])
	assert.False(t, pathquery.SelfIntersect(g, loop, true))
}

// --- distances ---

func TestUpdateDistancesFrom_FreshAndResumed(t *testing.T) {
	g := grid(t)
	dist := pathquery.UpdateDistancesFrom(g, []int{n(0, 0)}, pathquery.DefaultDrift, nil)
	assert.Equal(t, 0.0, dist[n(0, 0)])
	assert.InDelta(t, 2.0, dist[n(2, 0)], 1e-9)
	assert.True(t, math.IsInf(dist[n(0, 2)], 1))

	resumed := pathquery.UpdateDistancesFrom(g, []int{n(1, 0)}, pathquery.DefaultDrift, dist)
	assert.InDelta(t, 1.0, resumed[n(2, 0)], 1e-9)
	assert.Equal(t, 0.0, resumed[n(0, 0)])
	assert.Equal(t, 2.0, dist[n(2, 0)], "input field is not modified")
}

func TestTraceAverageDistance_UnreachedRanksFarthest(t *testing.T) {
	dist := []float64{1, math.Inf(1), 3}
	assert.InDelta(t, 2.0, pathquery.TraceAverageDistance(dist, []int{0, 2}), 1e-12)
	assert.True(t, math.IsInf(pathquery.TraceAverageDistance(dist, []int{0, 1, 2}), 1))
	assert.Greater(t, pathquery.TraceAverageDistance(dist, []int{1}), pathquery.TraceAverageDistance(dist, []int{2}))
	assert.Zero(t, pathquery.TraceAverageDistance(dist, nil))
}

// --- expansion ---

func TestExpandPath_FillsAndIsIdempotent(t *testing.T) {
	g := grid(t)
	coarse := []int{n(3, 0), n(5, 0)}
	full, ok := pathquery.ExpandPath(g, coarse, false, pathquery.DefaultDrift)
	require.True(t, ok)
	assert.Equal(t, []int{n(3, 0), n(4, 0), n(5, 0)}, full)

	again, ok := pathquery.ExpandPath(g, full, false, pathquery.DefaultDrift)
	require.True(t, ok)
	assert.Equal(t, full, again)
}

func TestGetSubSequence_Unreachable(t *testing.T) {
	g := grid(t)
	_, ok := pathquery.GetSubSequence(g, n(3, 0), n(0, 0), pathquery.DefaultDrift)
	assert.False(t, ok)
}

func TestTraceLength(t *testing.T) {
	g := grid(t)
	assert.InDelta(t, 2.0, pathquery.TraceLength(g, []int{n(3, 0), n(4, 0), n(5, 0)}, false), 1e-9)
}

// --- intersections ---

func TestSelfIntersect(t *testing.T) {
	g := grid(t)
	assert.False(t, pathquery.SelfIntersect(g, []int{n(3, 0), n(4, 0), n(5, 0)}, false))
	// Same vertex along the same axis in opposite orientation.
	assert.True(t, pathquery.SelfIntersect(g, []int{n(3, 0), n(4, 0), n(4, 2)}, false))
	// Same geometric edge walked back.
	assert.True(t, pathquery.SelfIntersect(g, []int{n(3, 0), n(4, 0), n(3, 1)}, false))
}

func TestCollideTraces_NoSharedPoint(t *testing.T) {
	g := grid(t)
	assert.False(t, pathquery.CollideTraces(g,
		[]int{n(0, 0), n(1, 0)}, []int{n(7, 0), n(8, 0)}, false, false))
}

func TestCollideTraces_SharedEdgeOppositeDirections(t *testing.T) {
	g := grid(t)
	assert.True(t, pathquery.CollideTraces(g,
		[]int{n(3, 0), n(4, 0), n(5, 0)},
		[]int{n(5, 2), n(4, 2)}, false, false))
}

func TestCollideTraces_SharedTangentNode(t *testing.T) {
	g := grid(t)
	assert.True(t, pathquery.CollideTraces(g,
		[]int{n(3, 0), n(4, 0)},
		[]int{n(8, 2), n(4, 2), n(0, 2)}, false, false))
}

func TestCollideTraces_ProperCrossingAllowed(t *testing.T) {
	g := grid(t)
	assert.False(t, pathquery.CollideTraces(g,
		[]int{n(3, 0), n(4, 0), n(5, 0)},
		[]int{n(1, 1), n(4, 1), n(7, 1)}, false, false))
}

func TestCollideTraces_TouchingCollides(t *testing.T) {
	g := grid(t)
	// The second trace bounces off vertex 4 from below.
	assert.True(t, pathquery.CollideTraces(g,
		[]int{n(3, 0), n(4, 0), n(5, 0)},
		[]int{n(0, 0), n(4, 1), n(1, 3)}, false, false))
}
