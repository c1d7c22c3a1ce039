package tracer

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/katalvlaran/fieldpatch/emitter"
	"github.com/katalvlaran/fieldpatch/fieldgraph"
)

// phaseKey identifies a phase by its source and destination classes.
type phaseKey struct {
	from, to emitter.VertexClass
}

// nodeSelector lists the nodes of t matching one predicate.
type nodeSelector func(t *Tracer) []int

// phaseRule is one row of the phase table. Emit and receive sets are the
// union of their selectors minus every disabled node.
type phaseRule struct {
	disable    []nodeSelector
	emit       []nodeSelector
	receive    []nodeSelector
	allReceive []nodeSelector // extra receivers in all-receivers mode
}

var phaseTable = map[phaseKey]phaseRule{
	{emitter.Narrow, emitter.Narrow}: {
		disable: []nodeSelector{nodesOfClass(emitter.Concave)},
		emit:    []nodeSelector{unsatisfiedEmitters(emitter.Narrow)},
		receive: []nodeSelector{unsatisfiedReceivers(emitter.Narrow)},
	},
	{emitter.Narrow, emitter.Concave}: {
		disable: []nodeSelector{receiversOf(emitter.Narrow), emittersOf(emitter.Concave)},
		emit:    []nodeSelector{unsatisfiedEmitters(emitter.Narrow)},
		receive: []nodeSelector{unsatisfiedReceivers(emitter.Concave)},
	},
	{emitter.Narrow, emitter.Flat}: {
		disable:    []nodeSelector{receiversOf(emitter.Narrow), nodesOfClass(emitter.Concave)},
		emit:       []nodeSelector{unsatisfiedEmitters(emitter.Narrow)},
		receive:    []nodeSelector{receiversOf(emitter.Flat)},
		allReceive: []nodeSelector{nodesOfClass(emitter.Convex), flatTangentNodes},
	},
	{emitter.Concave, emitter.Concave}: {
		disable: []nodeSelector{receiversOf(emitter.Narrow), emittersOf(emitter.Narrow)},
		emit:    []nodeSelector{unsatisfiedEmitters(emitter.Concave)},
		receive: []nodeSelector{unsatisfiedReceivers(emitter.Concave)},
	},
	{emitter.Concave, emitter.Flat}: {
		disable:    []nodeSelector{receiversOf(emitter.Narrow), emittersOf(emitter.Narrow), receiversOf(emitter.Concave)},
		emit:       []nodeSelector{unsatisfiedEmitters(emitter.Concave)},
		receive:    []nodeSelector{receiversOf(emitter.Flat)},
		allReceive: []nodeSelector{nodesOfClass(emitter.Convex), flatTangentNodes},
	},
	{emitter.Flat, emitter.Flat}: {
		disable: []nodeSelector{receiversOf(emitter.Narrow), emittersOf(emitter.Narrow), nodesOfClass(emitter.Concave)},
		emit:    []nodeSelector{emittersOf(emitter.Flat)},
		receive: []nodeSelector{receiversOf(emitter.Flat)},
	},
	{emitter.Internal, emitter.Internal}: {
		disable: []nodeSelector{nodesOfClass(emitter.Concave), receiversOf(emitter.Narrow), emittersOf(emitter.Narrow)},
		emit:    []nodeSelector{emittersOf(emitter.Internal)},
	},
}

// configure evaluates the phase table for (from, to). Besides the row, every
// phase disables chosen nodes with their tangents, and Convex nodes with
// idle Flat nodes unless all-receivers mode traces into Flat.
// Panics on a pair without a row.
func (t *Tracer) configure(from, to emitter.VertexClass) (emit, receive, disable []int) {
	rule, ok := phaseTable[phaseKey{from: from, to: to}]
	if !ok {
		panic(fmt.Sprintf("tracer: no phase for %s→%s", from, to))
	}

	dis := treeset.NewWithIntComparator()
	if !t.allReceivers || to != emitter.Flat {
		addNodes(dis, nodesOfClass(emitter.Convex)(t))
		addNodes(dis, flatTangentNodes(t))
	}
	addNodes(dis, chosenNodesAndTangents(t))
	for _, sel := range rule.disable {
		addNodes(dis, sel(t))
	}

	recvSel := rule.receive
	if t.allReceivers {
		recvSel = append(append([]nodeSelector(nil), rule.receive...), rule.allReceive...)
	}
	return pickNodes(t, rule.emit, dis), pickNodes(t, recvSel, dis), setInts(dis)
}

// pickNodes unions sels and drops the nodes in exclude.
func pickNodes(t *Tracer, sels []nodeSelector, exclude *treeset.Set) []int {
	out := treeset.NewWithIntComparator()
	for _, sel := range sels {
		for _, n := range sel(t) {
			if !exclude.Contains(n) {
				out.Add(n)
			}
		}
	}
	return setInts(out)
}

func addNodes(s *treeset.Set, nodes []int) {
	for _, n := range nodes {
		s.Add(n)
	}
}

// setInts returns the ascending content of an int treeset.
func setInts(s *treeset.Set) []int {
	out := make([]int, 0, s.Size())
	for _, v := range s.Values() {
		out = append(out, v.(int))
	}
	return out
}

// --- selectors ---

func emittersOf(c emitter.VertexClass) nodeSelector {
	return func(t *Tracer) []int { return t.roles.EmittersOf(c) }
}

func receiversOf(c emitter.VertexClass) nodeSelector {
	return func(t *Tracer) []int { return t.roles.ReceiversOf(c) }
}

func unsatisfiedEmitters(c emitter.VertexClass) nodeSelector {
	return func(t *Tracer) []int { return t.withDemand(t.roles.EmittersOf(c)) }
}

func unsatisfiedReceivers(c emitter.VertexClass) nodeSelector {
	return func(t *Tracer) []int { return t.withDemand(t.roles.ReceiversOf(c)) }
}

// nodesOfClass lists every node of the class-c vertices.
func nodesOfClass(c emitter.VertexClass) nodeSelector {
	return func(t *Tracer) []int {
		var out []int
		for v, vc := range t.classes {
			if vc != c {
				continue
			}
			nodes := fieldgraph.VertNodes(v)
			out = append(out, nodes[:]...)
		}
		return out
	}
}

// flatTangentNodes lists the Flat nodes with no role.
func flatTangentNodes(t *Tracer) []int {
	return emitter.IdleNodes(t.classes, t.roles, emitter.Flat)
}

// chosenNodesAndTangents lists every node of the chosen paths together with
// its tangent.
func chosenNodesAndTangents(t *Tracer) []int {
	var out []int
	for _, c := range t.chosen {
		for _, n := range c.Nodes {
			out = append(out, n, fieldgraph.Tangent(n))
		}
	}
	return out
}

func (t *Tracer) withDemand(nodes []int) []int {
	out := nodes[:0]
	for _, n := range nodes {
		if t.needs[fieldgraph.NodeVert(n)] > 0 {
			out = append(out, n)
		}
	}
	return out
}

// activeOnly keeps the active nodes of nodes.
func (t *Tracer) activeOnly(nodes []int) []int {
	out := make([]int, 0, len(nodes))
	for _, n := range nodes {
		if t.g.IsActive(n) {
			out = append(out, n)
		}
	}
	return out
}

// UpdateChosenReceivers propagates chosen paths into the role tables:
// Internal path vertices become Chosen, and every active ortho node of a
// path node whose roles are both Internal or unset becomes a Chosen emitter
// and receiver.
func (t *Tracer) UpdateChosenReceivers() {
	chosen := emitter.RoleOf(emitter.Chosen)
	for _, c := range t.chosen {
		for _, n := range c.Nodes {
			if v := fieldgraph.NodeVert(n); t.classes[v] == emitter.Internal {
				t.classes[v] = emitter.Chosen
			}
			for _, o := range fieldgraph.Ortho(n) {
				if !t.g.IsActive(o) || !replaceable(t.roles.Emit[o]) || !replaceable(t.roles.Receive[o]) {
					continue
				}
				t.roles.Emit[o] = chosen
				t.roles.Receive[o] = chosen
			}
		}
	}
}

func replaceable(r emitter.NodeRole) bool {
	return r.IsNone() || r.Is(emitter.Internal)
}
