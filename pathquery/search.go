package pathquery

import (
	"container/heap"
	"math"

	"github.com/samber/lo"

	"github.com/katalvlaran/fieldpatch/fieldgraph"
)

// ShortestPath runs the constrained search described by p and returns the
// node sequence from a source to the terminal.
//
// Termination, in order of precedence:
//  1. A popped node is selected (StopAtSel) or equals Target.
//  2. Loop mode: a link from the current node reaches the start node.
//  3. The queue is exhausted: no path.
//
// Panics on malformed loop configurations and inactive sources.
// Complexity: O((N + L) log N) time, O(N + L) space.
func ShortestPath(g *fieldgraph.Graph, p ShortParam) ([]int, bool) {
	path, _, ok := search(g, p, nil, false)
	return path, ok
}

// ShortestPathFrom resumes a search over a previous distance field: every node
// starts marked with its distance in prev, and sources are reset to 0. The
// updated field is returned alongside the path; unreached nodes hold +Inf when
// prev is nil.
func ShortestPathFrom(g *fieldgraph.Graph, p ShortParam, prev []float64) ([]int, []float64, bool) {
	return search(g, p, prev, true)
}

// search validates p, runs a runner on a pooled context and copies results out.
func search(g *fieldgraph.Graph, p ShortParam, prev []float64, wantDist bool) ([]int, []float64, bool) {
	// 1) Contract checks.
	if p.Loop && len(p.Sources) != 1 {
		panic("pathquery: loop mode needs exactly one source")
	}
	if p.Loop && prev != nil {
		panic("pathquery: loop mode cannot resume a distance field")
	}
	if prev != nil && len(prev) != g.NumNodes() {
		panic("pathquery: distance field size mismatch")
	}

	// 2) Scratch from the pool.
	sc := acquireContext(g.NumNodes())
	defer releaseContext(sc)

	r := &runner{g: g, p: p, sc: sc}
	r.init(prev)
	ok := r.process()

	var dist []float64
	if wantDist {
		dist = sc.Distances()
	}
	return r.path, dist, ok
}

// runner holds the mutable state of a single search.
type runner struct {
	g    *fieldgraph.Graph
	p    ShortParam
	sc   *SearchContext
	path []int
}

// init seeds every source with distance 0 and pushes it.
func (r *runner) init(prev []float64) {
	sc := r.sc
	if prev != nil {
		copy(sc.dist, prev)
		for i := range sc.mark {
			sc.mark[i] = true
		}
	}
	heap.Init(&sc.pq)
	for _, s := range r.p.Sources {
		if !r.g.IsActive(s) {
			panic("pathquery: inactive source node")
		}
		sc.mark[s] = true
		sc.dist[s] = 0
		sc.parent[s] = s
		sc.jump[s] = 0
		sc.twin[s] = 0
		heap.Push(&sc.pq, &nodeItem{node: s, dist: 0})
	}
}

// process pops nodes until a terminal is reached or the queue runs dry.
func (r *runner) process() bool {
	sc, p := r.sc, r.p
	for sc.pq.Len() > 0 {
		// 1) Pop; the stored distance is authoritative (lazy decrease-key).
		cur := heap.Pop(&sc.pq).(*nodeItem).node
		w := sc.dist[cur]

		// 2) Terminal on pop.
		if (p.StopAtSel && r.g.IsSelected(cur)) || p.Target == cur {
			r.path = r.retrieve(cur)
			return true
		}

		// 3) Ceilings.
		if p.MaxTwin > 0 && sc.twin[cur] > p.MaxTwin {
			continue
		}
		if p.MaxJump > 0 && sc.jump[cur] == p.MaxJump {
			continue
		}
		if p.MaxWeight > 0 && w > p.MaxWeight {
			continue
		}

		// 4) Relax; loop closure terminates inline.
		if r.relax(cur, w) {
			return true
		}
	}
	return false
}

// relax examines the links of cur in angle order. It returns true when loop
// mode closes on the start node.
func (r *runner) relax(cur int, w float64) bool {
	sc, p := r.sc, r.p
	for _, nb := range r.g.Neighbors(cur) {
		if p.OnlyDirect && !nb.Direct {
			continue
		}
		next := nb.Node

		// AvoidBorder lets terminals through.
		if p.AvoidBorder && !nb.Twin && r.g.IsBorder(next) && !r.isTerminal(next) {
			continue
		}
		if !r.g.IsActive(next) {
			continue
		}
		if p.MaxAngle > 0 && nb.Angle > p.MaxAngle+angleTol {
			continue
		}

		nw := w + Weight(nb.Length, nb.Angle, p.Drift, p.MaxAngle)

		if p.Loop && next == p.Sources[0] {
			r.path = r.retrieve(cur)
			return true
		}

		old := math.Inf(1)
		if sc.mark[next] {
			old = sc.dist[next]
		}
		if nw >= old {
			continue
		}
		sc.mark[next] = true
		sc.dist[next] = nw
		sc.parent[next] = cur
		sc.jump[next] = sc.jump[cur] + 1
		sc.twin[next] = sc.twin[cur]
		if nb.Twin {
			sc.twin[next]++
		}
		heap.Push(&sc.pq, &nodeItem{node: next, dist: nw})
	}
	return false
}

// isTerminal reports whether reaching n would end the search.
func (r *runner) isTerminal(n int) bool {
	p := r.p
	return (p.StopAtSel && r.g.IsSelected(n)) ||
		p.Target == n ||
		(p.Loop && n == p.Sources[0])
}

// retrieve walks parents from n back to a self-parented source.
func (r *runner) retrieve(n int) []int {
	var path []int
	cur := n
	for r.sc.parent[cur] != cur {
		path = append(path, cur)
		cur = r.sc.parent[cur]
	}
	path = append(path, cur)
	return lo.Reverse(path)
}

// Weight is the cost of one link of the given length and angle (degrees).
func Weight(length, angle, drift, maxAngle float64) float64 {
	if maxAngle <= 0 {
		return length
	}
	d := angle / maxAngle
	return length * (1 + drift*d*d)
}

// nodeItem is a queued node with the distance it was pushed with.
type nodeItem struct {
	node int
	dist float64
}

// nodePQ is a min-heap of *nodeItem ordered by (dist, node).
// Stale entries are popped and re-expanded harmlessly: the runner always
// reads the current distance from the context.
type nodePQ []*nodeItem

// Len returns the number of items in the heap.
func (pq nodePQ) Len() int { return len(pq) }

// Less orders by distance, then by node index.
func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].node < pq[j].node
}

// Swap swaps two elements in the heap.
func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

// Push adds a new element x onto the heap.
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

// Pop removes and returns the smallest element from the heap.
func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}
