package emitter

import (
	"github.com/katalvlaran/fieldpatch/mesh"
)

// Classify assigns a VertexClass to every vertex of m from its boundary angle
// sum. Narrow takes precedence over Concave; boundary vertices that match no
// threshold are Flat.
func Classify(m *mesh.Mesh, opts Options) []VertexClass {
	classes := make([]VertexClass, m.NumVerts())
	for v := range classes {
		classes[v] = classifyVert(m, v, opts)
	}
	return classes
}

func classifyVert(m *mesh.Mesh, v int, opts Options) VertexClass {
	if !m.IsBorderVert(v) {
		return Internal
	}
	a := m.AngleSum(v)
	switch {
	case a < opts.ConvexAngle:
		return Convex
	case a >= opts.NarrowAngle:
		return Narrow
	case a >= opts.ConcaveAngle:
		return Concave
	default:
		return Flat
	}
}

// InitNeeds returns the initial demand per vertex: 1 for Narrow and Concave
// vertices, 0 otherwise.
func InitNeeds(classes []VertexClass) []int {
	needs := make([]int, len(classes))
	for v, c := range classes {
		if c == Narrow || c == Concave {
			needs[v] = 1
		}
	}
	return needs
}

// Count returns how many vertices carry each class.
func Count(classes []VertexClass) map[VertexClass]int {
	out := make(map[VertexClass]int, len(classNames))
	for _, c := range classes {
		out[c]++
	}
	return out
}
