package tracer

import (
	"fmt"

	"github.com/plan-systems/klog"
	"github.com/samber/lo"

	"github.com/katalvlaran/fieldpatch/emitter"
	"github.com/katalvlaran/fieldpatch/pathquery"
)

// newCandidates returns one untraced candidate per emitter node.
func newCandidates(from, to emitter.VertexClass, method Method, emit []int) []Candidate {
	return lo.Map(emit, func(n int, _ int) Candidate {
		return Candidate{From: from, To: to, Method: method, Init: n}
	})
}

// UpdateCandidates traces every candidate not traced yet, with the receive
// nodes as terminals. Failed searches, self-intersecting results and
// degenerate single-node traces are dropped. It reports whether any
// candidate is left.
func (t *Tracer) UpdateCandidates(receive []int) bool {
	if len(t.candidates) == 0 {
		return false
	}
	t.g.ClearSelection()
	for _, n := range receive {
		t.g.Select(n)
	}
	defer t.g.ClearSelection()

	for i := range t.candidates {
		c := &t.candidates[i]
		if c.Updated {
			continue
		}
		c.Updated = true
		path, loop, ok := t.traceCandidate(*c)
		if !ok || len(path) < 2 || pathquery.SelfIntersect(t.g, path, loop) {
			continue
		}
		c.Nodes, c.IsLoop = path, loop
	}

	t.candidates = lo.Filter(t.candidates, func(c Candidate, _ int) bool {
		return !c.Updated || len(c.Nodes) > 0
	})
	return len(t.candidates) > 0
}

// traceCandidate runs the search of c.Method from c.Init.
func (t *Tracer) traceCandidate(c Candidate) (path []int, loop, ok bool) {
	switch c.Method {
	case DirectWalk:
		path, ok = pathquery.TraceToSelected(t.g, c.Init)
		return path, false, ok
	case ConstrainedSearch:
		path, ok = pathquery.ShortestPath(t.g, pathquery.NewShortParam([]int{c.Init},
			pathquery.WithMaxTwin(1),
			pathquery.WithMaxWeight(t.maxNarrowWeight),
			pathquery.WithDrift(t.drift),
		))
		return path, false, ok
	case LoopSearch:
		path, ok = pathquery.FindLoop(t.g, c.Init, t.drift)
		return path, true, ok
	}
	panic(fmt.Sprintf("tracer: unknown method %s", c.Method))
}

// ExpandCandidates replaces every candidate by its fully field-aligned
// sequence, dropping those that fail to expand or self-intersect afterwards.
func (t *Tracer) ExpandCandidates() {
	kept := t.candidates[:0]
	for _, c := range t.candidates {
		full, ok := pathquery.ExpandPath(t.g, c.Nodes, c.IsLoop, t.drift)
		if !ok || pathquery.SelfIntersect(t.g, full, c.IsLoop) {
			continue
		}
		c.Nodes = full
		kept = append(kept, c)
	}
	t.candidates = kept
}

// traceFrom runs one phase over the current activity: candidates from
// emit, traced to receive, expanded, then selected with mode. Demand gates
// the selection when the source class carries demand. It reports whether
// any path was accepted.
func (t *Tracer) traceFrom(from, to emitter.VertexClass, method Method, emit, receive []int, mode ChooseMode) bool {
	t.candidates = newCandidates(from, to, method, emit)
	t.UpdateCandidates(receive)
	t.ExpandCandidates()
	if len(t.candidates) == 0 {
		return false
	}

	before := len(t.chosen)
	useNeeds := hasDemand(from)
	if mode == Farthest {
		t.ChooseGreedyByDistance(useNeeds)
	} else {
		t.ChooseGreedyByLength(useNeeds, 0)
	}
	accepted := len(t.chosen) - before
	klog.V(2).Infof("tracer: %s→%s %s: %d emitters, %d accepted", from, to, method, len(emit), accepted)
	return accepted > 0
}

// hasDemand reports whether vertices of class c start with outstanding demand.
func hasDemand(c emitter.VertexClass) bool {
	return c == emitter.Narrow || c == emitter.Concave
}
