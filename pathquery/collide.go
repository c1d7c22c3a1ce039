package pathquery

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/emirpasic/gods/sets/hashset"

	"github.com/katalvlaran/fieldpatch/fieldgraph"
)

// posEdge is an undirected, position-keyed edge.
type posEdge struct {
	a, b v3.Vec
}

// vertDir keys a vertex together with its field axis parity.
type vertDir struct {
	v, parity int
}

func posLess(a, b v3.Vec) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

func makePosEdge(a, b v3.Vec) posEdge {
	if posLess(b, a) {
		a, b = b, a
	}
	return posEdge{a: a, b: b}
}

// pathEdges lists the position-keyed edges of path, closing it when loop.
func pathEdges(g *fieldgraph.Graph, path []int, loop bool) []posEdge {
	if len(path) == 0 {
		return nil
	}
	limit := len(path) - 1
	if loop {
		limit++
	}
	out := make([]posEdge, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, makePosEdge(g.NodePos(path[i]), g.NodePos(path[(i+1)%len(path)])))
	}
	return out
}

// SelfIntersect reports whether path reuses a geometric edge or passes
// twice through a vertex along the same field axis, in either orientation.
func SelfIntersect(g *fieldgraph.Graph, path []int, loop bool) bool {
	edges := hashset.New()
	for _, e := range pathEdges(g, path, loop) {
		if edges.Contains(e) {
			return true
		}
		edges.Add(e)
	}
	seen := hashset.New()
	for _, n := range path {
		key := vertDir{v: fieldgraph.NodeVert(n), parity: fieldgraph.NodeDir(n) % 2}
		if seen.Contains(key) {
			return true
		}
		seen.Add(key)
	}
	return false
}

// CollideTraces reports whether traces a and b conflict.
//
// Stages, cheapest first:
//  1. no shared position: no collision;
//  2. a shared geometric edge collides;
//  3. a shared node, or a node of one equal to a tangent of the other, collides;
//  4. around every shared interior vertex off the border, the two traces'
//     outer neighbors must alternate along the ordered one-ring; two
//     consecutive neighbors of the same trace mean the traces touch
//     without crossing properly and collide.
func CollideTraces(g *fieldgraph.Graph, a, b []int, loopA, loopB bool) bool {
	// 1) Quick reject on positions.
	posA := hashset.New()
	for _, n := range a {
		posA.Add(g.NodePos(n))
	}
	shared := false
	for _, n := range b {
		if posA.Contains(g.NodePos(n)) {
			shared = true
			break
		}
	}
	if !shared {
		return false
	}

	// 2) Shared geometric edge.
	edgesA := hashset.New()
	for _, e := range pathEdges(g, a, loopA) {
		edgesA.Add(e)
	}
	for _, e := range pathEdges(g, b, loopB) {
		if edgesA.Contains(e) {
			return true
		}
	}

	// 3) Shared node or tangent.
	nodesA := hashset.New()
	for _, n := range a {
		nodesA.Add(n, fieldgraph.Tangent(n))
	}
	for _, n := range b {
		if nodesA.Contains(n) || nodesA.Contains(fieldgraph.Tangent(n)) {
			return true
		}
	}

	// 4) Fan alternation around shared interior vertices.
	for _, ta := range interiorTriples(g, a, loopA) {
		for _, tb := range interiorTriples(g, b, loopB) {
			if collideSubSequence(g, ta, tb) {
				return true
			}
		}
	}
	return false
}

// interiorTriples returns the vertex triples (prev, mid, next) of path whose
// middle node is off the border; open paths skip both endpoints.
func interiorTriples(g *fieldgraph.Graph, path []int, loop bool) [][3]int {
	n := len(path)
	if n == 0 {
		return nil
	}
	start, limit := 1, n-1
	if loop {
		start, limit = 0, n
	}
	var out [][3]int
	for i := start; i < limit; i++ {
		if g.IsBorder(path[i]) {
			continue
		}
		out = append(out, [3]int{
			fieldgraph.NodeVert(path[(i+n-1)%n]),
			fieldgraph.NodeVert(path[i]),
			fieldgraph.NodeVert(path[(i+1)%n]),
		})
	}
	return out
}

// collideSubSequence walks the ordered ring of the shared middle vertex and
// fails as soon as two consecutive classified neighbors belong to the same
// triple.
func collideSubSequence(g *fieldgraph.Graph, t0, t1 [3]int) bool {
	if t0[1] != t1[1] {
		return false
	}
	side := -1
	for _, u := range g.OrderedRing(t0[1]) {
		if u == t0[0] || u == t0[2] {
			if side == 0 {
				return true
			}
			side = 0
		}
		if u == t1[0] || u == t1[2] {
			if side == 1 {
				return true
			}
			side = 1
		}
	}
	return false
}
