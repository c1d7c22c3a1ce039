package pathquery

import (
	"math"

	"github.com/katalvlaran/fieldpatch/fieldgraph"
)

// EdgeLength is the extent of the step a→b measured along the field
// direction of a.
func EdgeLength(g *fieldgraph.Graph, a, b int) float64 {
	return math.Abs(g.NodePos(a).Sub(g.NodePos(b)).Dot(g.NodeDirVec(a)))
}

// TraceLength sums EdgeLength over path, closing it when loop.
func TraceLength(g *fieldgraph.Graph, path []int, loop bool) float64 {
	if len(path) == 0 {
		return 0
	}
	limit := len(path) - 1
	if loop {
		limit++
	}
	var sum float64
	for i := 0; i < limit; i++ {
		sum += EdgeLength(g, path[i], path[(i+1)%len(path)])
	}
	return sum
}

// TraceAverageDistance returns the mean of dist over the nodes of path, or 0
// for an empty path. A single unreached (+Inf) node makes the mean +Inf, so
// paths the distance field never touched rank farthest.
func TraceAverageDistance(dist []float64, path []int) float64 {
	if len(path) == 0 {
		return 0
	}
	var sum float64
	for _, n := range path {
		sum += dist[n]
	}
	return sum / float64(len(path))
}
