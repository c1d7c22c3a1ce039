package mesh

import (
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// New builds a Mesh from vertex positions and counter-clockwise faces.
//
// Steps:
//  1. Validate indices (ErrVertexIndex, ErrDegenerateFace).
//  2. Pair half-edges through a map keyed by the undirected edge; a third
//     incidence is rejected with ErrNonManifoldEdge.
//  3. Derive vertex-face incidence, boundary flags, normals and face areas.
//
// The input slices are copied; later mutation by the caller has no effect.
// Complexity: O(V + F).
func New(verts []v3.Vec, faces []Face) (*Mesh, error) {
	// 1) Validate inputs.
	if len(faces) == 0 {
		return nil, ErrEmptyMesh
	}
	nv := len(verts)
	for f, fc := range faces {
		for j := 0; j < 3; j++ {
			if fc[j] < 0 || fc[j] >= nv {
				return nil, errors.Wrapf(ErrVertexIndex, "face %d vertex %d", f, fc[j])
			}
		}
		if fc[0] == fc[1] || fc[1] == fc[2] || fc[0] == fc[2] {
			return nil, errors.Wrapf(ErrDegenerateFace, "face %d", f)
		}
	}

	m := &Mesh{
		verts: append([]v3.Vec(nil), verts...),
		faces: append([]Face(nil), faces...),
	}

	// 2) Pair half-edges.
	m.ff = make([][3]int, len(faces))
	incid := make(map[Edge][]HalfEdge, len(faces)*3/2)
	for f, fc := range m.faces {
		m.ff[f] = [3]int{-1, -1, -1}
		for j := 0; j < 3; j++ {
			e := MakeEdge(fc[j], fc[(j+1)%3])
			incid[e] = append(incid[e], HalfEdge{F: f, J: j})
		}
	}
	for e, hs := range incid {
		switch len(hs) {
		case 1:
			// boundary, ff stays -1
		case 2:
			m.ff[hs[0].F][hs[0].J] = hs[1].F
			m.ff[hs[1].F][hs[1].J] = hs[0].F
		default:
			return nil, errors.Wrapf(ErrNonManifoldEdge, "edge %d-%d", e.V0, e.V1)
		}
	}

	// 3) Per-vertex incidence and boundary flags.
	m.vf = make([][]int, nv)
	m.borderV = make([]bool, nv)
	for f, fc := range m.faces {
		for j := 0; j < 3; j++ {
			m.vf[fc[j]] = append(m.vf[fc[j]], f)
			if m.ff[f][j] < 0 {
				m.borderV[fc[j]] = true
				m.borderV[fc[(j+1)%3]] = true
			}
		}
	}

	m.initGeometry()

	return m, nil
}

// NumVerts returns the vertex count.
func (m *Mesh) NumVerts() int { return len(m.verts) }

// NumFaces returns the face count.
func (m *Mesh) NumFaces() int { return len(m.faces) }

// Pos returns the position of vertex v.
func (m *Mesh) Pos(v int) v3.Vec { return m.verts[v] }

// Positions returns a copy of all vertex positions.
func (m *Mesh) Positions() []v3.Vec { return append([]v3.Vec(nil), m.verts...) }

// Face returns the vertex triple of face f.
func (m *Mesh) Face(f int) Face { return m.faces[f] }

// Faces returns a copy of all faces.
func (m *Mesh) Faces() []Face { return append([]Face(nil), m.faces...) }

// FaceFace returns the face across edge j of f, or -1 on the boundary.
func (m *Mesh) FaceFace(f, j int) int { return m.ff[f][j] }

// IsBorderEdge reports whether edge j of face f lies on the true boundary.
func (m *Mesh) IsBorderEdge(f, j int) bool { return m.ff[f][j] < 0 }

// IsBorderVert reports whether v touches at least one boundary edge.
func (m *Mesh) IsBorderVert(v int) bool { return m.borderV[v] }

// EdgeVerts returns the endpoints (V(j), V(j+1)) of edge j of face f.
func (m *Mesh) EdgeVerts(f, j int) (int, int) {
	return m.faces[f][j], m.faces[f][(j+1)%3]
}

// VertFaces returns the faces incident to v in ascending order.
// The returned slice must not be modified.
func (m *Mesh) VertFaces(v int) []int { return m.vf[v] }

// BorderHalfEdges lists every boundary half-edge in face order.
func (m *Mesh) BorderHalfEdges() []HalfEdge {
	var out []HalfEdge
	for f := range m.faces {
		for j := 0; j < 3; j++ {
			if m.ff[f][j] < 0 {
				out = append(out, HalfEdge{F: f, J: j})
			}
		}
	}
	return out
}

// Neighbors returns the one-ring vertices of v, sorted ascending.
func (m *Mesh) Neighbors(v int) []int {
	var ring []int
	for _, f := range m.vf[v] {
		for j := 0; j < 3; j++ {
			if u := m.faces[f][j]; u != v {
				ring = append(ring, u)
			}
		}
	}
	ring = lo.Uniq(ring)
	sort.Ints(ring)
	return ring
}

// OrderedRing returns the one-ring of v in counter-clockwise fan order.
//
// For an interior vertex the ring is cyclic and starts at its smallest index;
// for a boundary vertex it starts at the ring vertex that opens the fan, so
// the first and last entries are the two boundary neighbors.
func (m *Mesh) OrderedRing(v int) []int {
	faces := m.vf[v]
	succ := make(map[int]int, len(faces))
	hasPred := make(map[int]bool, len(faces))
	for _, f := range faces {
		fc := m.faces[f]
		k := 0
		for fc[k] != v {
			k++
		}
		a, b := fc[(k+1)%3], fc[(k+2)%3]
		succ[a] = b
		hasPred[b] = true
	}

	// 1) Choose a deterministic start: an unpreceded vertex, else the minimum.
	start := -1
	for a := range succ {
		if !hasPred[a] && (start < 0 || a < start) {
			start = a
		}
	}
	if start < 0 {
		for a := range succ {
			if start < 0 || a < start {
				start = a
			}
		}
	}

	// 2) Walk the successor chain.
	ring := make([]int, 0, len(faces)+1)
	cur := start
	for steps := 0; steps <= len(faces); steps++ {
		ring = append(ring, cur)
		nxt, ok := succ[cur]
		if !ok || nxt == start {
			break
		}
		cur = nxt
	}
	return ring
}
