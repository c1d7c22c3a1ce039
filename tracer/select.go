package tracer

import (
	"sort"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/samber/lo"

	"github.com/katalvlaran/fieldpatch/emitter"
	"github.com/katalvlaran/fieldpatch/fieldgraph"
	"github.com/katalvlaran/fieldpatch/pathquery"
)

// ranked pairs a candidate index with its sort key.
type ranked struct {
	key float64
	idx int
}

// ChooseGreedyByLength accepts candidates by increasing length. With
// useNeeds, a candidate whose two endpoints are both satisfied is skipped.
// Collisions are checked against chosen paths from index startFrom on.
func (t *Tracer) ChooseGreedyByLength(useNeeds bool, startFrom int) {
	order := make([]ranked, len(t.candidates))
	for i, c := range t.candidates {
		order[i] = ranked{key: pathquery.TraceLength(t.g, c.Nodes, c.IsLoop), idx: i}
	}
	sort.Slice(order, func(a, b int) bool {
		if order[a].key != order[b].key {
			return order[a].key < order[b].key
		}
		return order[a].idx < order[b].idx
	})

	for _, r := range order {
		c := t.candidates[r.idx]
		if useNeeds && t.endpointsSatisfied(c.Nodes) {
			continue
		}
		if t.collidesWithChosen(c.Nodes, c.IsLoop, startFrom) {
			continue
		}
		t.chosen = append(t.chosen, c.clone())
		t.UpdateVertNeeds(c.Nodes)
	}
}

// ChooseGreedyByDistance repeatedly accepts the candidate lying farthest,
// on average, from the existing features, refreshing the distance field
// after every acceptance.
func (t *Tracer) ChooseGreedyByDistance(useNeeds bool) {
	t.InitDistances()
	for t.chooseNextByDistance(useNeeds) {
	}
}

// chooseNextByDistance accepts at most one candidate. Candidates found
// satisfied or colliding on the way are discarded for good.
func (t *Tracer) chooseNextByDistance(useNeeds bool) bool {
	order := make([]ranked, len(t.candidates))
	for i, c := range t.candidates {
		order[i] = ranked{key: pathquery.TraceAverageDistance(t.currDist, c.Nodes), idx: i}
	}
	sort.Slice(order, func(a, b int) bool {
		if order[a].key != order[b].key {
			return order[a].key > order[b].key
		}
		return order[a].idx > order[b].idx
	})

	drop := make([]bool, len(t.candidates))
	defer func() {
		t.candidates = lo.Filter(t.candidates, func(_ Candidate, i int) bool { return !drop[i] })
	}()

	for _, r := range order {
		c := t.candidates[r.idx]
		if useNeeds && t.endpointsSatisfied(c.Nodes) {
			drop[r.idx] = true
			continue
		}
		if t.collidesWithChosen(c.Nodes, c.IsLoop, 0) {
			drop[r.idx] = true
			continue
		}
		t.chosen = append(t.chosen, c.clone())
		t.UpdateVertNeeds(c.Nodes)
		t.updateDistancesWithLast()
		drop[r.idx] = true
		return true
	}
	return false
}

// InitDistances seeds the distance field from every inactive node, every
// chosen node and its tangent, and every active Flat emitter. Without any
// seed it falls back to the nodes of the two mutually farthest vertices.
// The propagation runs over the whole graph; activity is left unchanged.
func (t *Tracer) InitDistances() {
	t.UpdateChosenReceivers()

	src := treeset.NewWithIntComparator()
	for n := 0; n < t.g.NumNodes(); n++ {
		if !t.g.IsActive(n) {
			src.Add(n)
		}
	}
	addNodes(src, chosenNodesAndTangents(t))
	addNodes(src, t.activeOnly(t.roles.EmittersOf(emitter.Flat)))
	if src.Empty() {
		a, b := t.m.FarthestPair()
		na, nb := fieldgraph.VertNodes(a), fieldgraph.VertNodes(b)
		addNodes(src, na[:])
		addNodes(src, nb[:])
	}

	snap := t.g.ActiveSnapshot()
	t.g.SetAllActive()
	t.currDist = pathquery.UpdateDistancesFrom(t.g, setInts(src), t.drift, nil)
	t.g.RestoreActive(snap)
}

// updateDistancesWithLast lowers the distance field from the last chosen
// path and the active tangents of its nodes.
func (t *Tracer) updateDistancesWithLast() {
	last := t.chosen[len(t.chosen)-1].Nodes
	src := make([]int, 0, 2*len(last))
	for _, n := range last {
		src = append(src, n, fieldgraph.Tangent(n))
	}
	src = t.activeOnly(src)
	if len(src) == 0 {
		return
	}
	t.currDist = pathquery.UpdateDistancesFrom(t.g, src, t.drift, t.currDist)
}

func (t *Tracer) collidesWithChosen(path []int, loop bool, startFrom int) bool {
	for _, c := range t.chosen[min(startFrom, len(t.chosen)):] {
		if pathquery.CollideTraces(t.g, path, c.Nodes, loop, c.IsLoop) {
			return true
		}
	}
	return false
}

func (t *Tracer) endpointsSatisfied(path []int) bool {
	v0 := fieldgraph.NodeVert(path[0])
	v1 := fieldgraph.NodeVert(path[len(path)-1])
	return t.needs[v0] == 0 && t.needs[v1] == 0
}

// UpdateVertNeeds decrements, never below zero, the demand of the vertex
// of every node of path.
func (t *Tracer) UpdateVertNeeds(path []int) {
	for _, n := range path {
		if v := fieldgraph.NodeVert(n); t.needs[v] > 0 {
			t.needs[v]--
		}
	}
}

// UpdateVertNeedsFromChosen applies UpdateVertNeeds to every chosen path.
func (t *Tracer) UpdateVertNeedsFromChosen() {
	for _, c := range t.chosen {
		t.UpdateVertNeeds(c.Nodes)
	}
}

// UnsatisfiedNum is the total outstanding demand.
func (t *Tracer) UnsatisfiedNum() int { return lo.Sum(t.needs) }
