package emitter

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/katalvlaran/fieldpatch/fieldgraph"
	"github.com/katalvlaran/fieldpatch/mesh"
)

const rotEps = 1e-12

// BoundaryDir holds, for one vertex, one entry per incident boundary edge.
type BoundaryDir struct {
	// Ortho points into the surface, orthogonal to the edge.
	Ortho []v3.Vec
	// Flat runs along the edge, from the other endpoint towards the vertex.
	Flat []v3.Vec
}

// BoundaryDirs computes the ortho and flat directions of every boundary
// vertex. Entries follow the face order of the boundary half-edges; interior
// vertices get empty slices.
func BoundaryDirs(m *mesh.Mesh) []BoundaryDir {
	out := make([]BoundaryDir, m.NumVerts())
	for _, h := range m.BorderHalfEdges() {
		v0, v1 := m.EdgeVerts(h.F, h.J)
		dir := mesh.Normalize(m.Pos(v1).Sub(m.Pos(v0)))
		fn := m.FaceNormal(h.F)

		// Faces are counter-clockwise, so N × edge points inside.
		ortho := fn.Cross(dir)
		o0 := mesh.Normalize(rotateBetween(ortho, fn, m.VertNormal(v0)))
		o1 := mesh.Normalize(rotateBetween(ortho, fn, m.VertNormal(v1)))

		out[v0].Ortho = append(out[v0].Ortho, o0)
		out[v1].Ortho = append(out[v1].Ortho, o1)
		out[v0].Flat = append(out[v0].Flat, dir.Neg())
		out[v1].Flat = append(out[v1].Flat, dir)
	}
	return out
}

// rotateBetween applies to d the rotation carrying unit vector from onto to.
func rotateBetween(d, from, to v3.Vec) v3.Vec {
	axis := from.Cross(to)
	s := axis.Length()
	if s < rotEps {
		return d
	}
	c := from.Dot(to)
	k := axis.DivScalar(s)
	// Rodrigues' formula.
	return d.MulScalar(c).
		Add(k.Cross(d).MulScalar(s)).
		Add(k.MulScalar(k.Dot(d) * (1 - c)))
}

// EdgeDirs returns the direction indices at v0 and v1 best aligned with the
// edge v0→v1, each seen from its own endpoint.
func EdgeDirs(g *fieldgraph.Graph, v0, v1 int) (int, int) {
	m := g.Mesh()
	dir := mesh.Normalize(m.Pos(v1).Sub(m.Pos(v0)))
	return g.ClosestDir(v0, dir), g.ClosestDir(v1, dir.Neg())
}

func sum(dirs []v3.Vec) v3.Vec {
	var s v3.Vec
	for _, d := range dirs {
		s = s.Add(d)
	}
	return s
}
