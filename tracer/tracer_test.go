package tracer_test

import (
	"bytes"
	"context"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fieldpatch/builder"
	"github.com/katalvlaran/fieldpatch/emitter"
	"github.com/katalvlaran/fieldpatch/fieldgraph"
	"github.com/katalvlaran/fieldpatch/mesh"
	"github.com/katalvlaran/fieldpatch/pathquery"
	"github.com/katalvlaran/fieldpatch/tracer"
)

func n(v, d int) int { return fieldgraph.Node(v, d) }

func testConfig() tracer.Config {
	cfg := tracer.DefaultConfig()
	cfg.Workers = 2
	return cfg
}

// flatTracer builds a tracer over m under a uniform +X field, so that
// dir0=+X, dir1=+Y, dir2=-X and dir3=-Y on every vertex.
func flatTracer(t *testing.T, m *mesh.Mesh, err error) *tracer.Tracer {
	t.Helper()
	require.NoError(t, err)
	g, err := fieldgraph.New(m, builder.UniformField(m, v3.Vec{X: 1}))
	require.NoError(t, err)
	tr, err := tracer.New(g, testConfig())
	require.NoError(t, err)
	return tr
}

// cylinderTracer builds a tracer over an 8×2 tube with a field running
// around the axis; vertices 8..15 form the middle ring.
func cylinderTracer(t *testing.T) *tracer.Tracer {
	t.Helper()
	m, err := builder.Cylinder(8, 2)
	require.NoError(t, err)
	g, err := fieldgraph.New(m, builder.CircumferentialField(m, v3.Vec{Z: 1}))
	require.NoError(t, err)
	tr, err := tracer.New(g, testConfig())
	require.NoError(t, err)
	return tr
}

// middleLoop returns the loop around the middle ring of cylinderTracer.
func middleLoop(t *testing.T, tr *tracer.Tracer) tracer.Trace {
	t.Helper()
	nodes, ok := pathquery.FindLoop(tr.Graph(), n(8, 0), pathquery.DefaultDrift)
	require.True(t, ok)
	steps := make([]tracer.VertDir, len(nodes))
	for i, nd := range nodes {
		steps[i] = tracer.VertDir{V: fieldgraph.NodeVert(nd), Dir: fieldgraph.NodeDir(nd)}
	}
	return tracer.Trace{Steps: steps, IsLoop: true}
}

// assertTiling checks that every face belongs to exactly one partition and
// that FacePartition agrees.
func assertTiling(t *testing.T, tr *tracer.Tracer) {
	t.Helper()
	owner := make([]int, tr.Mesh().NumFaces())
	for i := range owner {
		owner[i] = -1
	}
	for i, p := range tr.Partitions() {
		for _, f := range p.Faces {
			assert.Equal(t, -1, owner[f], "face %d in two partitions", f)
			owner[f] = i
		}
	}
	assert.Equal(t, owner, tr.FacePartition())
}

// assertNoConflicts checks that chosen paths neither self-intersect nor
// collide pairwise.
func assertNoConflicts(t *testing.T, tr *tracer.Tracer) {
	t.Helper()
	chosen := tr.Chosen()
	for i, a := range chosen {
		assert.False(t, pathquery.SelfIntersect(tr.Graph(), a.Nodes, a.IsLoop), "path %d", i)
		for j := i + 1; j < len(chosen); j++ {
			b := chosen[j]
			assert.False(t, pathquery.CollideTraces(tr.Graph(), a.Nodes, b.Nodes, a.IsLoop, b.IsLoop),
				"paths %d and %d", i, j)
		}
	}
}

// --- construction ---

func TestNew_Errors(t *testing.T) {
	_, err := tracer.New(nil, tracer.DefaultConfig())
	assert.ErrorIs(t, err, tracer.ErrNilGraph)

	m, err := builder.Grid(1, 1)
	require.NoError(t, err)
	g, err := fieldgraph.New(m, builder.UniformField(m, v3.Vec{X: 1}))
	require.NoError(t, err)
	cfg := tracer.DefaultConfig()
	cfg.MaxValence = 2
	_, err = tracer.New(g, cfg)
	assert.ErrorIs(t, err, tracer.ErrConfig)
}

func TestInit_NarrowWeight(t *testing.T) {
	m, err := builder.Grid(2, 2)
	tr := flatTracer(t, m, err)
	// sqrt(area 4) · 0.05 · drift 100
	assert.InDelta(t, 10.0, tr.MaxNarrowWeight(), 1e-9)
	assert.Equal(t, 100.0, tr.Drift())

	tr.Init(10)
	assert.InDelta(t, 1.0, tr.MaxNarrowWeight(), 1e-9)
	assert.Empty(t, tr.Chosen())
	assert.Nil(t, tr.FacePartition())
}

func TestUnknownPhasePanics(t *testing.T) {
	m, err := builder.Grid(1, 1)
	tr := flatTracer(t, m, err)
	assert.Panics(t, func() { tr.JoinConnection(emitter.Flat, emitter.Narrow, tracer.DirectWalk) })
}

// --- tracing ---

func TestBatchProcess_SingleCell(t *testing.T) {
	m, err := builder.Grid(1, 1)
	tr := flatTracer(t, m, err)
	tr.BatchProcess(true, false)

	assert.Empty(t, tr.Chosen())
	parts := tr.Partitions()
	require.Len(t, parts, 1)
	assert.Equal(t, []int{0, 1, 2, 3}, parts[0].Corners)
	assert.Equal(t, tracer.IsOK, parts[0].Type)
	assert.True(t, tr.HasTerminated())
	assert.False(t, tr.HasIncompleteEmitter())
}

func TestBatchProcess_Square(t *testing.T) {
	m, err := builder.Grid(2, 2)
	tr := flatTracer(t, m, err)
	tr.BatchProcess(true, false)

	chosen := tr.Chosen()
	require.Len(t, chosen, 2)
	for _, c := range chosen {
		assert.Len(t, c.Nodes, 3)
		assert.Equal(t, 4, fieldgraph.NodeVert(c.Nodes[1]), "through the center")
		assert.Equal(t, emitter.Flat, c.From)
		assert.Equal(t, emitter.Flat, c.To)
		assert.False(t, c.IsLoop)
	}
	assertNoConflicts(t, tr)
	assertTiling(t, tr)

	parts := tr.Partitions()
	require.Len(t, parts, 4)
	for i, p := range parts {
		assert.Len(t, p.Corners, 4, "partition %d", i)
		assert.Contains(t, p.Corners, 4)
		assert.Equal(t, tracer.IsOK, p.Type)
	}
	for _, v := range tr.Needs() {
		assert.GreaterOrEqual(t, v, 0)
	}
	assert.Zero(t, tr.UnsatisfiedNum())
}

// TestBatchProcess_Surfaces runs the full schedule on surfaces that exercise
// the Concave, Narrow, loop and boundary phases, and checks the layout
// properties after each.
func TestBatchProcess_Surfaces(t *testing.T) {
	cases := []struct {
		name  string
		build func(t *testing.T) *tracer.Tracer
		check func(t *testing.T, tr *tracer.Tracer)
	}{
		{
			name: "lshape",
			build: func(t *testing.T) *tracer.Tracer {
				m, err := builder.LShape(4)
				return flatTracer(t, m, err)
			},
			check: func(t *testing.T, tr *tracer.Tracer) {
				corner := 2*5 + 2
				require.Equal(t, emitter.Concave, tr.Classes()[corner])
				assert.Zero(t, tr.Needs()[corner])
				assert.Zero(t, tr.UnsatisfiedNum())
				assert.True(t, lo.ContainsBy(tr.Chosen(), func(c tracer.Candidate) bool {
					return lo.ContainsBy(c.Nodes, func(nd int) bool { return fieldgraph.NodeVert(nd) == corner })
				}), "a path reaches the concave corner")
				assert.True(t, lo.ContainsBy(tr.Chosen(), func(c tracer.Candidate) bool {
					return c.From == emitter.Flat && c.To == emitter.Flat
				}), "boundaries are joined")
			},
		},
		{
			name: "slit",
			build: func(t *testing.T) *tracer.Tracer {
				m, err := builder.Slit(4)
				return flatTracer(t, m, err)
			},
			check: func(t *testing.T, tr *tracer.Tracer) {
				assert.Equal(t, emitter.Narrow, tr.Classes()[builder.SlitTip(4)])
			},
		},
		{
			name: "cylinder",
			build: func(t *testing.T) *tracer.Tracer {
				m, err := builder.Cylinder(8, 2)
				require.NoError(t, err)
				g, err := fieldgraph.New(m, builder.CircumferentialField(m, v3.Vec{Z: 1}))
				require.NoError(t, err)
				cfg := testConfig()
				cfg.SampleRatio = 1
				tr, err := tracer.New(g, cfg)
				require.NoError(t, err)
				return tr
			},
			check: func(t *testing.T, tr *tracer.Tracer) {
				assert.True(t, lo.ContainsBy(tr.Chosen(), func(c tracer.Candidate) bool { return c.IsLoop }),
					"the tube is cut by a loop")
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := tc.build(t)
			tr.BatchProcess(true, false)

			assertNoConflicts(t, tr)
			assertTiling(t, tr)
			for v, need := range tr.Needs() {
				assert.GreaterOrEqual(t, need, 0, "vertex %d", v)
			}
			tc.check(t, tr)
		})
	}
}

func TestJoinConnection_UnreachableNarrow(t *testing.T) {
	m, err := builder.Slit(4)
	tr := flatTracer(t, m, err)
	tip := builder.SlitTip(4)
	require.Equal(t, emitter.Narrow, tr.Classes()[tip])
	require.Equal(t, 1, tr.Needs()[tip])

	assert.False(t, tr.JoinConnection(emitter.Narrow, emitter.Narrow, tracer.ConstrainedSearch))
	assert.Empty(t, tr.Chosen())
	assert.Equal(t, 1, tr.Needs()[tip])

	tr.RetrievePartitions()
	assert.True(t, tr.HasIncompleteEmitter())
	assert.False(t, tr.HasTerminated())
	assert.Equal(t, 1, tr.GetInfo().HasEmit)
}

// --- removal ---

func TestBatchRemoval_Square(t *testing.T) {
	m, err := builder.Grid(2, 2)
	tr := flatTracer(t, m, err)
	tr.BatchProcess(true, false)
	tr.BatchRemoval()

	assert.Empty(t, tr.Chosen())
	parts := tr.Partitions()
	require.Len(t, parts, 1)
	assert.Equal(t, []int{0, 2, 6, 8}, parts[0].Corners)
	assert.Equal(t, tracer.IsOK, parts[0].Type)
	assertTiling(t, tr)
}

func TestRemoveIfPossible_RestoresTwoCornerPatch(t *testing.T) {
	tr := cylinderTracer(t)
	loop := middleLoop(t, tr)
	require.NoError(t, tr.SetChosenFromVertDir([]tracer.Trace{loop}))

	parts := tr.Partitions()
	require.Len(t, parts, 2)
	for _, p := range parts {
		assert.Empty(t, p.Corners)
		assert.Equal(t, tracer.LowCorners, p.Type)
	}

	assert.False(t, tr.RemoveIfPossible(0))
	require.Len(t, tr.Chosen(), 1)
	assert.Equal(t, []tracer.Trace{loop}, tr.GetCurrVertDir())
}

func TestSplitAndMerge_Square(t *testing.T) {
	m, err := builder.Grid(2, 2)
	tr := flatTracer(t, m, err)
	tr.BatchProcess(true, false)

	tr.SplitIntoSubPaths()
	chosen := tr.Chosen()
	require.Len(t, chosen, 4)
	for _, c := range chosen {
		assert.Len(t, c.Nodes, 2)
		assert.True(t, c.Updated)
	}
	assert.Len(t, tr.Partitions(), 4)

	assert.True(t, tr.MergeContiguousPaths())
	tr.RemoveEmptyPaths()
	chosen = tr.Chosen()
	require.Len(t, chosen, 2)
	for _, c := range chosen {
		assert.Len(t, c.Nodes, 3)
	}
	assert.False(t, tr.MergeContiguousPaths())
}

func TestBatchRemoval_SplitOnRemoval(t *testing.T) {
	m, err := builder.Grid(2, 2)
	require.NoError(t, err)
	g, err := fieldgraph.New(m, builder.UniformField(m, v3.Vec{X: 1}))
	require.NoError(t, err)
	cfg := testConfig()
	cfg.SplitOnRemoval = true
	tr, err := tracer.New(g, cfg)
	require.NoError(t, err)

	tr.BatchProcess(true, false)
	tr.BatchRemoval()
	assert.Empty(t, tr.Chosen())
	assert.Len(t, tr.Partitions(), 1)
}

func TestFixValences_AddsCorners(t *testing.T) {
	tr := cylinderTracer(t)
	require.NoError(t, tr.SetChosenFromVertDir([]tracer.Trace{middleLoop(t, tr)}))

	assert.Equal(t, 2, tr.FixValences())
	for _, p := range tr.Partitions() {
		assert.Len(t, p.Corners, 3)
		// A band is not a disk.
		assert.Equal(t, tracer.NonDisk, p.Type)
	}
	assert.Zero(t, tr.FixValences())
}

// --- quality ---

func TestPatchQuality_Rectangle(t *testing.T) {
	m, err := builder.Grid(1, 2)
	tr := flatTracer(t, m, err)
	tr.RetrievePartitions()

	parts := tr.Partitions()
	require.Len(t, parts, 1)
	require.Equal(t, []int{0, 2, 3, 5}, parts[0].Corners)
	assert.Len(t, tr.PatchBorders(parts[0]), 4)

	d, v := tr.PatchQuality(parts[0])
	assert.InDelta(t, 1.0, d, 1e-9)
	assert.InDelta(t, 2.0, v, 1e-9)

	d, v = tr.WorstPatchQuality(parts, true)
	assert.Equal(t, 1.0, d)
	assert.Equal(t, 1.0, v, "regular patches are skipped")
	_, v = tr.WorstPatchQuality(parts, false)
	assert.InDelta(t, 2.0, v, 1e-9)
}

// --- sub-problems ---

func TestSubPatch_Square(t *testing.T) {
	m, err := builder.Grid(2, 2)
	tr := flatTracer(t, m, err)
	tr.BatchProcess(true, false)

	traces, ok, err := tr.TraceSubPatch(0)
	require.NoError(t, err)
	assert.False(t, ok, "a 4-corner quadrant has nothing to trace")
	assert.Empty(t, traces)

	_, _, err = tr.TraceSubPatch(99)
	assert.ErrorIs(t, err, tracer.ErrPartition)
	_, err = tr.GetPatchBorderNodes(-1)
	assert.ErrorIs(t, err, tracer.ErrPartition)
}

func TestCopyFrom_CornersBecomeConvex(t *testing.T) {
	m, err := builder.Grid(2, 2)
	parent := flatTracer(t, m, err)
	parent.BatchProcess(true, false)

	p := parent.Partitions()[0]
	sub, vertMap, _, err := m.SubMesh(p.Faces)
	require.NoError(t, err)
	g, err := parent.Graph().Restrict(sub, vertMap)
	require.NoError(t, err)
	child, err := tracer.New(g, testConfig())
	require.NoError(t, err)

	require.NoError(t, child.CopyFrom(parent, vertMap, 0))
	for i, c := range child.Classes() {
		assert.Equal(t, emitter.Convex, c, "sub-vertex %d", i)
	}
	assert.Equal(t, parent.MaxNarrowWeight(), child.MaxNarrowWeight())
	assert.ErrorIs(t, child.CopyFrom(parent, vertMap[:1], 0), fieldgraph.ErrVertMap)
}

func TestRecursiveProcess_Square(t *testing.T) {
	m, err := builder.Grid(2, 2)
	tr := flatTracer(t, m, err)
	require.NoError(t, tr.RecursiveProcess(context.Background()))

	assert.True(t, tr.HasTerminated())
	assert.Len(t, tr.Partitions(), 4)
	assertNoConflicts(t, tr)
	assertTiling(t, tr)
}

func TestRecursiveProcess_Cancelled(t *testing.T) {
	m, err := builder.Grid(2, 2)
	tr := flatTracer(t, m, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tr.RecursiveProcess(ctx), context.Canceled)
}

func TestSetChosenFromVertDir_Validates(t *testing.T) {
	m, err := builder.Grid(2, 2)
	tr := flatTracer(t, m, err)

	err = tr.SetChosenFromVertDir([]tracer.Trace{{Steps: []tracer.VertDir{{V: 1, Dir: 1}}}})
	assert.ErrorIs(t, err, tracer.ErrTrace)
	err = tr.SetChosenFromVertDir([]tracer.Trace{{Steps: []tracer.VertDir{{V: 1, Dir: 1}, {V: 4, Dir: 7}}}})
	assert.ErrorIs(t, err, tracer.ErrTrace)
	assert.Empty(t, tr.Chosen())

	in := []tracer.Trace{{Steps: []tracer.VertDir{{V: 1, Dir: 1}, {V: 4, Dir: 1}, {V: 7, Dir: 1}}}}
	require.NoError(t, tr.SetChosenFromVertDir(in))
	assert.Equal(t, in, tr.GetCurrVertDir())
	assert.Len(t, tr.Partitions(), 2)
}

// --- statistics and export ---

func TestExport_SingleCell(t *testing.T) {
	m, err := builder.Grid(1, 1)
	tr := flatTracer(t, m, err)
	tr.RetrievePartitions()

	info := tr.GetInfo()
	assert.Equal(t, 1, info.NumPatches)
	assert.Equal(t, [8]int{4: 1}, info.SizePatches)

	var buf bytes.Buffer
	require.NoError(t, tr.WriteCSVLine(&buf, "cell"))
	assert.Equal(t, "cell 1 0 0 0 0 0 0 0 0 1 0 0 0\n", buf.String())

	buf.Reset()
	require.NoError(t, tr.WritePatches(&buf))
	assert.Equal(t, "2\n0\n0\n", buf.String())

	buf.Reset()
	require.NoError(t, tr.WriteCorners(&buf))
	assert.Equal(t, "1\n4\n0\n1\n2\n3\n", buf.String())

	assert.Equal(t, []int{0, 1, 2, 3}, tr.CornerSharp())
	pos := tr.CornersPos()
	require.Len(t, pos, 1)
	assert.Len(t, pos[0], 6)
}

func TestGetVisualPartitions(t *testing.T) {
	m, err := builder.Grid(2, 2)
	tr := flatTracer(t, m, err)
	tr.BatchProcess(true, false)

	faces, corners, types := tr.GetVisualPartitions()
	assert.Len(t, faces, 4)
	assert.Len(t, corners, 4)
	assert.Equal(t, []tracer.PatchType{tracer.IsOK, tracer.IsOK, tracer.IsOK, tracer.IsOK}, types)
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "LoopSearch", tracer.LoopSearch.String())
	assert.Equal(t, "Method(9)", tracer.Method(9).String())
	assert.Equal(t, "HasEmitter", tracer.HasEmitter.String())
	assert.Equal(t, "PatchType(-1)", tracer.PatchType(-1).String())
}
