package mesh

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// normEps guards normalization of near-zero vectors.
const normEps = 1e-12

// Normalize returns a unit copy of d, or the zero vector when d is degenerate.
func Normalize(d v3.Vec) v3.Vec {
	if d.Length() < normEps {
		return v3.Vec{}
	}
	return d.Normalize()
}

// ProjectOnPlane removes the component of d along the unit normal n.
func ProjectOnPlane(d, n v3.Vec) v3.Vec {
	return d.Sub(n.MulScalar(d.Dot(n)))
}

// AngleBetween returns the unsigned angle in radians between a and b.
func AngleBetween(a, b v3.Vec) float64 {
	la, lb := a.Length(), b.Length()
	if la < normEps || lb < normEps {
		return 0
	}
	c := a.Dot(b) / (la * lb)
	return math.Acos(math.Max(-1, math.Min(1, c)))
}

// initGeometry fills face normals, face areas and area-weighted vertex normals.
func (m *Mesh) initGeometry() {
	m.faceN = make([]v3.Vec, len(m.faces))
	m.area = make([]float64, len(m.faces))
	m.vertN = make([]v3.Vec, len(m.verts))
	for f, fc := range m.faces {
		p0, p1, p2 := m.verts[fc[0]], m.verts[fc[1]], m.verts[fc[2]]
		cr := p1.Sub(p0).Cross(p2.Sub(p0))
		m.area[f] = cr.Length() / 2
		m.faceN[f] = Normalize(cr)
		for j := 0; j < 3; j++ {
			m.vertN[fc[j]] = m.vertN[fc[j]].Add(cr)
		}
	}
	for v := range m.vertN {
		m.vertN[v] = Normalize(m.vertN[v])
	}
}

// FaceNormal returns the unit normal of face f.
func (m *Mesh) FaceNormal(f int) v3.Vec { return m.faceN[f] }

// VertNormal returns the area-weighted unit normal of vertex v.
func (m *Mesh) VertNormal(v int) v3.Vec { return m.vertN[v] }

// FaceArea returns the area of face f.
func (m *Mesh) FaceArea(f int) float64 { return m.area[f] }

// TotalArea returns the summed area of all faces.
func (m *Mesh) TotalArea() float64 {
	var sum float64
	for _, a := range m.area {
		sum += a
	}
	return sum
}

// FaceBarycenter returns the centroid of face f.
func (m *Mesh) FaceBarycenter(f int) v3.Vec {
	fc := m.faces[f]
	return m.verts[fc[0]].Add(m.verts[fc[1]]).Add(m.verts[fc[2]]).DivScalar(3)
}

// CornerAngle returns the interior angle of face f at its local corner j.
func (m *Mesh) CornerAngle(f, j int) float64 {
	fc := m.faces[f]
	p := m.verts[fc[j]]
	return AngleBetween(m.verts[fc[(j+1)%3]].Sub(p), m.verts[fc[(j+2)%3]].Sub(p))
}

// AngleSum returns the sum of the corner angles incident to v.
// A flat boundary vertex yields π, a square corner π/2.
func (m *Mesh) AngleSum(v int) float64 {
	var sum float64
	for _, f := range m.vf[v] {
		fc := m.faces[f]
		for j := 0; j < 3; j++ {
			if fc[j] == v {
				sum += m.CornerAngle(f, j)
			}
		}
	}
	return sum
}

// EdgeLength returns the euclidean length between vertices a and b.
func (m *Mesh) EdgeLength(a, b int) float64 {
	return m.verts[a].Sub(m.verts[b]).Length()
}

// FarthestPair returns the two vertices with the largest mutual distance.
// Complexity: O(V²).
func (m *Mesh) FarthestPair() (int, int) {
	best, i0, i1 := -1.0, 0, 0
	for i := 0; i < len(m.verts)-1; i++ {
		for j := i + 1; j < len(m.verts); j++ {
			d := m.verts[i].Sub(m.verts[j]).Length()
			if d <= best {
				continue
			}
			best, i0, i1 = d, i, j
		}
	}
	return i0, i1
}
