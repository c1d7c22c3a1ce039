package builder_test

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fieldpatch/builder"
)

const eps = 1e-9

// --- Grid ---

func TestGrid_CountsAndIndexing(t *testing.T) {
	m, err := builder.Grid(2, 3, builder.WithSize(0.5))
	require.NoError(t, err)
	assert.Equal(t, 12, m.NumVerts())
	assert.Equal(t, 12, m.NumFaces())

	// Vertex (r=1, c=2) lives at index 1*4+2 and position (1.0, 0.5).
	p := m.Pos(6)
	assert.InDelta(t, 1.0, p.X, eps)
	assert.InDelta(t, 0.5, p.Y, eps)
	assert.InDelta(t, 1.0, m.FaceNormal(0).Z, eps)
	assert.InDelta(t, 3.0*0.5*2*0.5, m.TotalArea(), eps)
}

func TestGrid_TooSmall(t *testing.T) {
	_, err := builder.Grid(0, 3)
	assert.ErrorIs(t, err, builder.ErrTooFewVertices)
}

// --- Jitter ---

func TestJitter_RequiresRand(t *testing.T) {
	_, err := builder.Grid(3, 3, builder.WithJitter(0.2))
	assert.ErrorIs(t, err, builder.ErrNeedRandSource)
}

func TestJitter_DeterministicAndBorderFixed(t *testing.T) {
	a, err := builder.Grid(3, 3, builder.WithJitter(0.2), builder.WithSeed(7))
	require.NoError(t, err)
	b, err := builder.Grid(3, 3, builder.WithJitter(0.2), builder.WithSeed(7))
	require.NoError(t, err)
	assert.Equal(t, a.Positions(), b.Positions())

	// Corner stays put, the center (1,1) moves.
	assert.Equal(t, v3.Vec{}, a.Pos(0))
	center := a.Pos(5)
	assert.False(t, center.X == 1 && center.Y == 1)
}

func TestWithJitter_PanicsOutOfRange(t *testing.T) {
	assert.Panics(t, func() { builder.WithJitter(0.5) })
	assert.Panics(t, func() { builder.WithSize(0) })
	assert.Panics(t, func() { builder.WithRand(nil) })
}

// --- LShape ---

func TestLShape_ConcaveCorner(t *testing.T) {
	m, err := builder.LShape(4)
	require.NoError(t, err)
	assert.Equal(t, 24, m.NumFaces())

	corner := 2*5 + 2
	assert.True(t, m.IsBorderVert(corner))
	assert.InDelta(t, 1.5*math.Pi, m.AngleSum(corner), 1e-6)
}

func TestLShape_OddSize(t *testing.T) {
	_, err := builder.LShape(3)
	assert.ErrorIs(t, err, builder.ErrOddSize)
}

// --- Slit ---

func TestSlit_TipIsFullAngleBoundary(t *testing.T) {
	m, err := builder.Slit(4)
	require.NoError(t, err)
	// 25 lattice vertices plus 2 duplicated below the tip.
	assert.Equal(t, 27, m.NumVerts())

	tip := builder.SlitTip(4)
	assert.True(t, m.IsBorderVert(tip))
	assert.InDelta(t, 2*math.Pi, m.AngleSum(tip), 1e-6)
	assert.Len(t, m.BoundaryLoops(), 1)
}

// --- Cylinder ---

func TestCylinder_Topology(t *testing.T) {
	m, err := builder.Cylinder(8, 3)
	require.NoError(t, err)
	assert.Equal(t, 32, m.NumVerts())
	assert.Len(t, m.BoundaryLoops(), 2)

	all := make([]int, m.NumFaces())
	for i := range all {
		all[i] = i
	}
	assert.Equal(t, 0, m.EulerCharacteristic(all))

	// Outward normal: face 0 sits near +X.
	assert.Greater(t, m.FaceNormal(0).X, 0.5)
}

func TestCylinder_TooFewSegments(t *testing.T) {
	_, err := builder.Cylinder(2, 1)
	assert.ErrorIs(t, err, builder.ErrTooFewVertices)
}

// --- Fields ---

func TestUniformField_InPlaneUnit(t *testing.T) {
	m, err := builder.Grid(2, 2)
	require.NoError(t, err)
	field := builder.UniformField(m, v3.Vec{X: 1, Z: 1})
	require.Len(t, field, m.NumFaces())
	for _, d := range field {
		assert.InDelta(t, 1.0, d.X, eps)
		assert.InDelta(t, 0.0, d.Z, eps)
	}
}

func TestCircumferentialField_Tangent(t *testing.T) {
	m, err := builder.Cylinder(12, 2)
	require.NoError(t, err)
	field := builder.CircumferentialField(m, v3.Vec{Z: 1})
	for f, d := range field {
		assert.InDelta(t, 1.0, d.Length(), 1e-6)
		assert.InDelta(t, 0.0, d.Z, 1e-6)
		assert.InDelta(t, 0.0, d.Dot(m.FaceNormal(f)), 1e-6)
	}
}
