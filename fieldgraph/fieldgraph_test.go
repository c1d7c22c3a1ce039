package fieldgraph_test

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fieldpatch/builder"
	"github.com/katalvlaran/fieldpatch/fieldgraph"
)

// gridGraph builds a 2x2 grid with a uniform +X field.
func gridGraph(t *testing.T) *fieldgraph.Graph {
	t.Helper()
	m, err := builder.Grid(2, 2)
	require.NoError(t, err)
	g, err := fieldgraph.New(m, builder.UniformField(m, v3.Vec{X: 1}))
	require.NoError(t, err)
	return g
}

// --- construction ---

func TestNew_Errors(t *testing.T) {
	_, err := fieldgraph.New(nil, nil)
	assert.ErrorIs(t, err, fieldgraph.ErrNilMesh)

	m, err := builder.Grid(1, 1)
	require.NoError(t, err)
	_, err = fieldgraph.New(m, []v3.Vec{{X: 1}})
	assert.ErrorIs(t, err, fieldgraph.ErrFieldSize)
}

func TestNew_FrameFollowsField(t *testing.T) {
	g := gridGraph(t)
	assert.Equal(t, 9, g.NumVerts())
	assert.Equal(t, 36, g.NumNodes())

	center := 4
	d0 := g.NodeDirVec(fieldgraph.Node(center, 0))
	d1 := g.NodeDirVec(fieldgraph.Node(center, 1))
	assert.InDelta(t, 1.0, d0.X, 1e-9)
	assert.InDelta(t, 1.0, d1.Y, 1e-9)
	assert.InDelta(t, -1.0, g.NodeDirVec(fieldgraph.Node(center, 2)).X, 1e-9)
}

// --- links ---

func TestNeighbors_SortedStraightFirst(t *testing.T) {
	g := gridGraph(t)
	center := 4
	links := g.Neighbors(fieldgraph.Node(center, 0))
	// Right neighbor (1,2) straight ahead, then the diagonal (2,2).
	require.Len(t, links, 2)
	assert.Equal(t, fieldgraph.Node(5, 0), links[0].Node)
	assert.InDelta(t, 0.0, links[0].Angle, 1e-6)
	assert.True(t, links[0].Direct)
	assert.False(t, links[0].Twin)
	assert.Equal(t, fieldgraph.Node(8, 0), links[1].Node)
	assert.InDelta(t, 45.0, links[1].Angle, 1e-6)
	assert.True(t, links[1].Direct)
}

func TestNeighbors_NarrowCone(t *testing.T) {
	m, err := builder.Grid(2, 2)
	require.NoError(t, err)
	g, err := fieldgraph.New(m, builder.UniformField(m, v3.Vec{X: 1}),
		fieldgraph.WithNeighborCone(30), fieldgraph.WithDirectAngle(10))
	require.NoError(t, err)
	links := g.Neighbors(fieldgraph.Node(4, 0))
	require.Len(t, links, 1)
	assert.Equal(t, fieldgraph.Node(5, 0), links[0].Node)
}

// --- node algebra ---

func TestNodeAlgebra(t *testing.T) {
	n := fieldgraph.Node(7, 3)
	assert.Equal(t, 7, fieldgraph.NodeVert(n))
	assert.Equal(t, 3, fieldgraph.NodeDir(n))
	assert.Equal(t, fieldgraph.Node(7, 1), fieldgraph.Tangent(n))
	assert.Equal(t, n, fieldgraph.Tangent(fieldgraph.Tangent(n)))
	assert.Equal(t, [2]int{fieldgraph.Node(7, 0), fieldgraph.Node(7, 2)}, fieldgraph.Ortho(n))
	assert.Equal(t, [4]int{28, 29, 30, 31}, fieldgraph.VertNodes(7))
}

// --- state ---

func TestActivityAndSelection(t *testing.T) {
	g := gridGraph(t)
	g.SetDisabledNodes([]int{0, 5})
	assert.False(t, g.IsActive(0))
	assert.True(t, g.IsActive(1))

	snap := g.ActiveSnapshot()
	g.SetAllActive()
	assert.True(t, g.IsActive(5))
	g.RestoreActive(snap)
	assert.False(t, g.IsActive(5))

	g.Select(3)
	assert.True(t, g.IsSelected(3))
	g.ClearSelection()
	assert.False(t, g.IsSelected(3))
}

func TestClosestDirAndBorder(t *testing.T) {
	g := gridGraph(t)
	assert.Equal(t, 3, g.ClosestDir(4, v3.Vec{Y: -1}))
	assert.Equal(t, fieldgraph.Node(4, 1), g.ClosestNode(4, v3.Vec{X: 0.1, Y: 1}))
	assert.True(t, g.IsBorder(fieldgraph.Node(0, 0)))
	assert.False(t, g.IsBorder(fieldgraph.Node(4, 2)))
}

// --- restriction ---

func TestRestrict_KeepsParentFrames(t *testing.T) {
	g := gridGraph(t)
	// Faces of the bottom-left cell.
	sub, vertMap, _, err := g.Mesh().SubMesh([]int{0, 1})
	require.NoError(t, err)

	r, err := g.Restrict(sub, vertMap)
	require.NoError(t, err)
	assert.Equal(t, len(vertMap), r.NumVerts())
	for i, pv := range vertMap {
		for d := 0; d < fieldgraph.NumDirs; d++ {
			assert.Equal(t, g.NodeDirVec(fieldgraph.Node(pv, d)), r.NodeDirVec(fieldgraph.Node(i, d)))
		}
		assert.True(t, r.IsActive(fieldgraph.Node(i, 0)))
	}

	_, err = g.Restrict(sub, vertMap[:1])
	assert.ErrorIs(t, err, fieldgraph.ErrVertMap)
	bad := append([]int(nil), vertMap...)
	bad[0] = 99
	_, err = g.Restrict(sub, bad)
	assert.ErrorIs(t, err, fieldgraph.ErrVertMap)
	assert.EqualError(t, err, "parent vertex 99: fieldgraph: vertex map does not match the meshes")
	_, err = g.Restrict(nil, nil)
	assert.ErrorIs(t, err, fieldgraph.ErrNilMesh)
}
