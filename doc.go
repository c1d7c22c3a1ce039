// Package fieldpatch traces field-aligned patch layouts over triangle meshes.
//
// Given a surface and a per-face direction field, fieldpatch computes a set
// of non-crossing traces that follow the field and cut the surface into
// patches with three to six corners, preferring four.
//
// The work is split into small packages, bottom-up:
//
//	mesh/        indexed triangle mesh, topology, geometry, OBJ and field IO
//	fieldgraph/  the directional node graph: four nodes per vertex
//	pathquery/   anisotropic shortest paths, loops and collision tests
//	emitter/     boundary classification and emitter/receiver roles
//	tracer/      candidate tracing, selection, partitions and repair
//	builder/     synthetic test surfaces (grid, L-shape, slit, cylinder)
//
// Quick ASCII example:
//
//	3 ─────── 2        a flat square under a uniform field has four
//	│ → → → → │        Convex corners and needs no trace at all: it is
//	│ → → → → │        already one quad patch.
//	0 ─────── 1
//
// The cmd/fieldpatch binary wraps the tracer for OBJ and .rosy files.
//
//	go install github.com/katalvlaran/fieldpatch/cmd/fieldpatch@latest
package fieldpatch
