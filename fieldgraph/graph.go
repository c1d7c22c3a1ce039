package fieldgraph

import (
	"math"
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"

	"github.com/katalvlaran/fieldpatch/mesh"
)

// New builds the node graph of m under field (one vector per face).
//
// Steps:
//  1. Per-vertex frames: dir0 from the first incident face, then N×dir0 and
//     the two opposites. A vanishing projection falls back to the first
//     one-ring edge.
//  2. Per-node links inside the neighbor cone, landing on the closest
//     direction of the neighbor.
//  3. Links sorted by (Angle, Node).
//
// All nodes start active and unselected.
// Complexity: O(V·k log k) time, O(V·k) space.
func New(m *mesh.Mesh, field []v3.Vec, opts ...Option) (*Graph, error) {
	if m == nil {
		return nil, ErrNilMesh
	}
	if len(field) != m.NumFaces() {
		return nil, errors.Wrapf(ErrFieldSize, "%d vectors for %d faces", len(field), m.NumFaces())
	}

	g := &Graph{
		m:      m,
		cone:   defaultNeighborCone,
		direct: defaultDirectAngle,
	}
	for _, opt := range opts {
		opt(g)
	}

	nv := m.NumVerts()
	g.dirs = make([][NumDirs]v3.Vec, nv)
	for v := 0; v < nv; v++ {
		g.dirs[v] = vertexFrame(m, field, v)
	}
	g.build()
	return g, nil
}

// Restrict builds the graph of sub, a region of g's mesh, reusing the frames
// of g: sub-vertex i takes the four directions of parent vertex vertMap[i],
// so a (vertex, dir) pair keeps its meaning across the two graphs.
// The neighbor cone and direct threshold are inherited.
func (g *Graph) Restrict(sub *mesh.Mesh, vertMap []int) (*Graph, error) {
	if sub == nil {
		return nil, ErrNilMesh
	}
	if len(vertMap) != sub.NumVerts() {
		return nil, errors.Wrapf(ErrVertMap, "%d entries for %d vertices", len(vertMap), sub.NumVerts())
	}
	r := &Graph{m: sub, cone: g.cone, direct: g.direct}
	r.dirs = make([][NumDirs]v3.Vec, sub.NumVerts())
	for i, pv := range vertMap {
		if pv < 0 || pv >= len(g.dirs) {
			return nil, errors.Wrapf(ErrVertMap, "parent vertex %d", pv)
		}
		r.dirs[i] = g.dirs[pv]
	}
	r.build()
	return r, nil
}

// build fills links and flags from m and dirs.
func (g *Graph) build() {
	nv := g.m.NumVerts()
	m := g.m
	g.adj = make([][]Neighbor, nv*NumDirs)
	for v := 0; v < nv; v++ {
		ring := m.Neighbors(v)
		for d := 0; d < NumDirs; d++ {
			g.adj[Node(v, d)] = g.links(v, d, ring)
		}
	}

	g.active = make([]bool, nv*NumDirs)
	g.selected = make([]bool, nv*NumDirs)
	g.SetAllActive()
}

// vertexFrame computes the four tangent directions of v.
func vertexFrame(m *mesh.Mesh, field []v3.Vec, v int) [NumDirs]v3.Vec {
	var out [NumDirs]v3.Vec
	n := m.VertNormal(v)
	var d0 v3.Vec
	if vf := m.VertFaces(v); len(vf) > 0 {
		d0 = mesh.Normalize(mesh.ProjectOnPlane(field[vf[0]], n))
	}
	if d0.Length() == 0 {
		if ring := m.Neighbors(v); len(ring) > 0 {
			d0 = mesh.Normalize(mesh.ProjectOnPlane(m.Pos(ring[0]).Sub(m.Pos(v)), n))
		}
	}
	d1 := mesh.Normalize(n.Cross(d0))
	out[0], out[1], out[2], out[3] = d0, d1, d0.Neg(), d1.Neg()
	return out
}

// links collects the outgoing links of node (v,d) over the one-ring.
func (g *Graph) links(v, d int, ring []int) []Neighbor {
	dir := g.dirs[v][d]
	p := g.m.Pos(v)
	out := make([]Neighbor, 0, len(ring))
	for _, u := range ring {
		e := g.m.Pos(u).Sub(p)
		ang := mesh.AngleBetween(e, dir) * 180 / math.Pi
		if ang >= g.cone-angleEps {
			continue
		}
		du := g.ClosestDir(u, dir)
		out = append(out, Neighbor{
			Node:   Node(u, du),
			Length: e.Length(),
			Angle:  ang,
			Direct: ang <= g.direct+angleEps,
			Twin:   e.Dot(g.dirs[u][du]) < 0,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if math.Abs(out[i].Angle-out[j].Angle) > angleEps {
			return out[i].Angle < out[j].Angle
		}
		return out[i].Node < out[j].Node
	})
	return out
}

// ClosestDir returns the direction index of v best aligned with dir.
// Ties resolve to the lower index.
func (g *Graph) ClosestDir(v int, dir v3.Vec) int {
	best, bestDot := 0, math.Inf(-1)
	for d := 0; d < NumDirs; d++ {
		if dot := g.dirs[v][d].Dot(dir); dot > bestDot+angleEps {
			best, bestDot = d, dot
		}
	}
	return best
}

// ClosestNode returns the node of v best aligned with dir.
func (g *Graph) ClosestNode(v int, dir v3.Vec) int {
	return Node(v, g.ClosestDir(v, dir))
}

// Mesh returns the underlying surface.
func (g *Graph) Mesh() *mesh.Mesh { return g.m }

// NumVerts returns the vertex count of the underlying mesh.
func (g *Graph) NumVerts() int { return len(g.dirs) }

// NumNodes returns 4·NumVerts.
func (g *Graph) NumNodes() int { return len(g.adj) }

// NodePos returns the position of the node's vertex.
func (g *Graph) NodePos(n int) v3.Vec { return g.m.Pos(NodeVert(n)) }

// NodeDirVec returns the unit tangent direction of the node.
func (g *Graph) NodeDirVec(n int) v3.Vec { return g.dirs[NodeVert(n)][NodeDir(n)] }

// Neighbors returns the links of n sorted by angle. The slice is shared;
// callers must not modify it.
func (g *Graph) Neighbors(n int) []Neighbor { return g.adj[n] }

// IsBorder reports whether the node's vertex lies on the mesh boundary.
func (g *Graph) IsBorder(n int) bool { return g.m.IsBorderVert(NodeVert(n)) }

// OrderedRing returns the one-ring of v in rotational order.
func (g *Graph) OrderedRing(v int) []int { return g.m.OrderedRing(v) }
