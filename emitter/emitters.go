package emitter

import (
	"math"

	"github.com/samber/lo"

	"github.com/katalvlaran/fieldpatch/fieldgraph"
	"github.com/katalvlaran/fieldpatch/mesh"
)

// minInternalSamples is the floor on the Poisson sample count.
const minInternalSamples = 50

// FlatEmitter returns the node of v closest to the mean inward direction.
func FlatEmitter(g *fieldgraph.Graph, bd BoundaryDir, v int) int {
	mustBoundary(bd)
	return g.ClosestNode(v, mesh.Normalize(sum(bd.Ortho)))
}

// NarrowEmitter returns the node of v closest to the bisector of its two
// boundary edges.
func NarrowEmitter(g *fieldgraph.Graph, bd BoundaryDir, v int) int {
	mustBoundary(bd)
	return g.ClosestNode(v, mesh.Normalize(sum(bd.Flat)))
}

// ConcaveNodes returns the nodes of v closest to the inward normal of each
// of its boundary edges; one node when both normals snap to the same one.
func ConcaveNodes(g *fieldgraph.Graph, bd BoundaryDir, v int) []int {
	mustBoundary(bd)
	n0 := g.ClosestNode(v, bd.Ortho[0])
	n1 := g.ClosestNode(v, bd.Ortho[len(bd.Ortho)-1])
	if n0 == n1 {
		return []int{n0}
	}
	return []int{n0, n1}
}

// ConcaveEmitters extends ConcaveNodes: when the two nodes are tangent to
// each other the vertex also emits along its bisector, as a Narrow vertex
// would. Receivers are the tangents of the emitters, in the same order.
func ConcaveEmitters(g *fieldgraph.Graph, bd BoundaryDir, v int) (emit, recv []int) {
	emit = ConcaveNodes(g, bd, v)
	if len(emit) == 2 && fieldgraph.Tangent(emit[0]) == emit[1] {
		emit = append(emit, NarrowEmitter(g, bd, v))
	}
	recv = lo.Map(emit, func(n int, _ int) int { return fieldgraph.Tangent(n) })
	return emit, recv
}

func mustBoundary(bd BoundaryDir) {
	if len(bd.Ortho) == 0 {
		panic("emitter: vertex without boundary edges")
	}
}

// Derive builds the emitter and receiver tables of g.
//
// Steps:
//  1. Flat, Narrow and Concave vertices get their boundary emitters, each
//     paired with a receiver on its tangent node. A Concave vertex whose
//     two inward nodes are tangent also emits along its bisector.
//  2. Internal vertices get emitter-only roles on dir0 and dir1, either on
//     every vertex (SampleRatio ≥ 1) or on the vertices nearest to a
//     Poisson sample of the surface.
//
// Only active nodes become internal emitters. Panics on a duplicate role.
func Derive(g *fieldgraph.Graph, classes []VertexClass, opts Options) *Roles {
	m := g.Mesh()
	dirs := BoundaryDirs(m)
	r := NewRoles(g.NumNodes())

	// 1) Boundary roles.
	for v, c := range classes {
		switch c {
		case Flat:
			r.AssignPair(FlatEmitter(g, dirs[v], v), Flat)
		case Narrow:
			r.AssignPair(NarrowEmitter(g, dirs[v], v), Narrow)
		case Concave:
			emit, recv := ConcaveEmitters(g, dirs[v], v)
			for i := range emit {
				r.AssignEmitter(emit[i], Concave)
				r.AssignReceiver(recv[i], Concave)
			}
		}
	}

	// 2) Internal emitters.
	for _, v := range internalVerts(m, opts) {
		if classes[v] != Internal {
			continue
		}
		for d := 0; d < 2; d++ {
			if n := fieldgraph.Node(v, d); g.IsActive(n) {
				r.AssignEmitter(n, Internal)
			}
		}
	}
	return r
}

// internalVerts returns the candidate vertices for internal emitters, each once.
func internalVerts(m *mesh.Mesh, opts Options) []int {
	if opts.SampleRatio >= 1 {
		return lo.Range(m.NumVerts())
	}
	num := SampleCount(m.NumVerts(), opts.SampleRatio)
	pts := m.PoissonSample(num, opts.SampleSeed)
	return lo.Uniq(mesh.NewVertexIndex(m).ClosestAll(pts))
}

// SampleCount is the number of Poisson samples requested for numVerts
// vertices: round(√V)·10·ratio, at least 50.
func SampleCount(numVerts int, ratio float64) int {
	n := int(math.Floor(math.Sqrt(float64(numVerts))+0.5) * 10 * ratio)
	return max(n, minInternalSamples)
}
