package mesh

import (
	"errors"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Sentinel errors for mesh construction and IO.
var (
	// ErrEmptyMesh indicates that a mesh without faces was requested.
	ErrEmptyMesh = errors.New("mesh: mesh has no faces")

	// ErrVertexIndex indicates a face referencing a vertex that does not exist.
	ErrVertexIndex = errors.New("mesh: face references a vertex out of range")

	// ErrDegenerateFace indicates a face that uses the same vertex twice.
	ErrDegenerateFace = errors.New("mesh: face repeats a vertex")

	// ErrNonManifoldEdge indicates an edge incident to more than two faces.
	ErrNonManifoldEdge = errors.New("mesh: edge shared by more than two faces")

	// ErrFaceIndex indicates a face subset referencing a missing face.
	ErrFaceIndex = errors.New("mesh: face index out of range")

	// ErrFieldSize indicates a per-face field whose length differs from the face count.
	ErrFieldSize = errors.New("mesh: field size does not match face count")
)

// Face is a counter-clockwise triple of vertex indices.
type Face [3]int

// Edge is an undirected vertex pair stored with V0 < V1.
type Edge struct {
	V0, V1 int
}

// MakeEdge returns the canonical undirected edge between a and b.
func MakeEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{V0: a, V1: b}
}

// HalfEdge identifies edge j of face F, running from V(j) to V(j+1).
type HalfEdge struct {
	F, J int
}

// Mesh is an immutable triangle surface with precomputed topology.
//
// All slices are indexed by vertex or face id; a Mesh is safe for concurrent
// reads once New has returned.
type Mesh struct {
	verts []v3.Vec
	faces []Face

	ff      [][3]int // face across edge j, -1 on the boundary
	vf      [][]int  // incident faces per vertex, ascending
	borderV []bool   // vertex touches a boundary edge

	faceN []v3.Vec
	vertN []v3.Vec
	area  []float64
}
