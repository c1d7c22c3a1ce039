package mesh

import (
	"github.com/dhconnelly/rtreego"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const (
	rtreeMinBranch = 25
	rtreeMaxBranch = 50
	pointTol       = 1e-9
)

// vertexItem is the r-tree leaf for one mesh vertex.
type vertexItem struct {
	idx  int
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (it *vertexItem) Bounds() rtreego.Rect { return it.rect }

// VertexIndex answers nearest-vertex queries over a Mesh.
type VertexIndex struct {
	tree *rtreego.Rtree
	m    *Mesh
}

// NewVertexIndex bulk-inserts every vertex of m into a 3D r-tree.
func NewVertexIndex(m *Mesh) *VertexIndex {
	items := make([]rtreego.Spatial, 0, m.NumVerts())
	for v, p := range m.verts {
		items = append(items, &vertexItem{idx: v, rect: toPoint(p).ToRect(pointTol)})
	}
	return &VertexIndex{
		tree: rtreego.NewTree(3, rtreeMinBranch, rtreeMaxBranch, items...),
		m:    m,
	}
}

// Closest returns the vertex nearest to p, or -1 on an empty index.
func (ix *VertexIndex) Closest(p v3.Vec) int {
	sp := ix.tree.NearestNeighbor(toPoint(p))
	if sp == nil {
		return -1
	}
	return sp.(*vertexItem).idx
}

// ClosestAll maps every point to its nearest vertex, preserving order.
func (ix *VertexIndex) ClosestAll(pts []v3.Vec) []int {
	out := make([]int, len(pts))
	for i, p := range pts {
		out[i] = ix.Closest(p)
	}
	return out
}

func toPoint(p v3.Vec) rtreego.Point {
	return rtreego.Point{p.X, p.Y, p.Z}
}
