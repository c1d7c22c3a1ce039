package pathquery

import (
	"github.com/katalvlaran/fieldpatch/fieldgraph"
)

// TraceToSelected follows link 0 from start until a selected node is reached.
//
// Every visited node is marked together with its tangent when the tangent is
// active; stepping onto a marked node fails the walk, which rejects both
// direct and mirrored self-crossings. An inactive or missing continuation
// also fails.
// Complexity: O(N) time.
func TraceToSelected(g *fieldgraph.Graph, start int) ([]int, bool) {
	sc := acquireContext(g.NumNodes())
	defer releaseContext(sc)

	cur := start
	path := []int{start}
	for {
		sc.mark[cur] = true
		if tan := fieldgraph.Tangent(cur); g.IsActive(tan) {
			sc.mark[tan] = true
		}

		links := g.Neighbors(cur)
		if len(links) == 0 {
			return nil, false
		}
		next := links[0].Node
		if !g.IsActive(next) || sc.mark[next] {
			return nil, false
		}
		cur = next
		path = append(path, cur)
		if g.IsSelected(cur) {
			return path, true
		}
	}
}

// FindLoop searches the cheapest closed route through start.
// The returned path begins at start and does not repeat it at the end.
func FindLoop(g *fieldgraph.Graph, start int, drift float64) ([]int, bool) {
	return ShortestPath(g, NewShortParam([]int{start},
		WithStopAtSel(false),
		WithLoop(),
		WithDrift(drift),
	))
}

// UpdateDistancesFrom propagates plain edge-length distances from sources
// over the active nodes. With prev set, the propagation resumes from that
// field and can only lower it.
func UpdateDistancesFrom(g *fieldgraph.Graph, sources []int, drift float64, prev []float64) []float64 {
	p := NewShortParam(sources,
		WithMaxAngle(0),
		WithStopAtSel(false),
		WithDrift(drift),
	)
	_, dist, _ := ShortestPathFrom(g, p, prev)
	return dist
}

// GetSubSequence returns the Direct-only, border-avoiding route from a to b.
func GetSubSequence(g *fieldgraph.Graph, a, b int, drift float64) ([]int, bool) {
	return ShortestPath(g, NewShortParam([]int{a},
		WithMaxAngle(NoLimit),
		WithOnlyDirect(),
		WithStopAtSel(false),
		WithTarget(b),
		WithDrift(drift),
		WithAvoidBorder(),
	))
}

// ExpandPath replaces every consecutive pair of path (wrapping when loop)
// with its sub-sequence and concatenates the pieces without repeating
// junction nodes. A fully expanded path maps to itself.
func ExpandPath(g *fieldgraph.Graph, path []int, loop bool, drift float64) ([]int, bool) {
	if len(path) == 0 {
		return nil, false
	}
	limit := len(path) - 1
	if loop {
		limit++
	}
	out := make([]int, 0, len(path))
	for i := 0; i < limit; i++ {
		seq, ok := GetSubSequence(g, path[i], path[(i+1)%len(path)], drift)
		if !ok || len(seq) < 2 {
			return nil, false
		}
		out = append(out, seq[:len(seq)-1]...)
	}
	if !loop {
		out = append(out, path[len(path)-1])
	}
	return out, true
}
