package mesh

import (
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
)

// EulerCharacteristic returns V - E + F over the sub-region spanned by faces.
// A topological disk yields 1, an annulus 0.
func (m *Mesh) EulerCharacteristic(faces []int) int {
	verts := make(map[int]struct{}, len(faces))
	edges := make(map[Edge]struct{}, len(faces)*2)
	for _, f := range faces {
		fc := m.faces[f]
		for j := 0; j < 3; j++ {
			verts[fc[j]] = struct{}{}
			edges[MakeEdge(fc[j], fc[(j+1)%3])] = struct{}{}
		}
	}
	return len(verts) - len(edges) + len(faces)
}

// SubMesh extracts faces as an independent Mesh.
//
// The second result maps every sub-mesh vertex to its parent index, in order
// of first appearance while scanning faces; the third maps sub-mesh faces to
// parent faces.
func (m *Mesh) SubMesh(faces []int) (*Mesh, []int, []int, error) {
	local := make(map[int]int, len(faces))
	var vertMap []int
	subFaces := make([]Face, 0, len(faces))
	faceMap := make([]int, 0, len(faces))
	for _, f := range faces {
		if f < 0 || f >= len(m.faces) {
			return nil, nil, nil, errors.Wrapf(ErrFaceIndex, "%d", f)
		}
		var sf Face
		for j, v := range m.faces[f] {
			lv, ok := local[v]
			if !ok {
				lv = len(vertMap)
				local[v] = lv
				vertMap = append(vertMap, v)
			}
			sf[j] = lv
		}
		subFaces = append(subFaces, sf)
		faceMap = append(faceMap, f)
	}

	verts := make([]v3.Vec, len(vertMap))
	for i, v := range vertMap {
		verts[i] = m.verts[v]
	}
	sub, err := New(verts, subFaces)
	if err != nil {
		return nil, nil, nil, err
	}
	return sub, vertMap, faceMap, nil
}

// BoundaryLoops returns every closed boundary chain as an ordered vertex list,
// following boundary half-edges in face orientation. Loops are emitted in
// order of their smallest starting half-edge.
func (m *Mesh) BoundaryLoops() [][]int {
	next := make(map[int]int)
	var starts []int
	for _, h := range m.BorderHalfEdges() {
		a, b := m.EdgeVerts(h.F, h.J)
		if _, dup := next[a]; dup {
			continue
		}
		next[a] = b
		starts = append(starts, a)
	}
	sort.Ints(starts)

	seen := make(map[int]bool, len(next))
	var loops [][]int
	for _, s := range starts {
		if seen[s] {
			continue
		}
		var loop []int
		for cur := s; !seen[cur]; {
			seen[cur] = true
			loop = append(loop, cur)
			nxt, ok := next[cur]
			if !ok {
				break
			}
			cur = nxt
		}
		loops = append(loops, loop)
	}
	return loops
}
