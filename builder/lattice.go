// SPDX-License-Identifier: MIT
// Package: fieldpatch/builder
//
// lattice.go: shared assembly of planar square-cell surfaces.
//
// Each cell (r,c) spans lattice vertices a=(r,c) b=(r,c+1) c'=(r+1,c+1)
// d=(r+1,c) and is split into the counter-clockwise triangles (a,b,c') and
// (a,c',d), so every face normal points along +Z.

package builder

import (
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/katalvlaran/fieldpatch/mesh"
)

// latticeKey names one lattice vertex; dup separates coincident copies.
type latticeKey struct {
	r, c, dup int
}

// lattice collects cells before vertex indices are assigned.
type lattice struct {
	cells [][4]latticeKey
}

// addCell appends one quad given as (a, b, c', d).
func (l *lattice) addCell(a, b, c, d latticeKey) {
	l.cells = append(l.cells, [4]latticeKey{a, b, c, d})
}

// build assigns indices in (dup, row, col) order, places vertex (r,c) at
// (c·h, r·h, 0) and triangulates every cell.
func (l *lattice) build(cfg builderConfig) (*mesh.Mesh, error) {
	used := make(map[latticeKey]struct{}, len(l.cells)*2)
	for _, q := range l.cells {
		for _, k := range q {
			used[k] = struct{}{}
		}
	}
	keys := make([]latticeKey, 0, len(used))
	for k := range used {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.dup != b.dup {
			return a.dup < b.dup
		}
		if a.r != b.r {
			return a.r < b.r
		}
		return a.c < b.c
	})

	index := make(map[latticeKey]int, len(keys))
	verts := make([]v3.Vec, len(keys))
	for i, k := range keys {
		index[k] = i
		verts[i] = v3.Vec{X: float64(k.c) * cfg.size, Y: float64(k.r) * cfg.size}
	}

	faces := make([]mesh.Face, 0, len(l.cells)*2)
	for _, q := range l.cells {
		a, b, c, d := index[q[0]], index[q[1]], index[q[2]], index[q[3]]
		faces = append(faces, mesh.Face{a, b, c}, mesh.Face{a, c, d})
	}

	m, err := mesh.New(verts, faces)
	if err != nil {
		return nil, err
	}
	return applyJitter(m, cfg)
}

// applyJitter displaces every non-boundary vertex in the XY plane.
func applyJitter(m *mesh.Mesh, cfg builderConfig) (*mesh.Mesh, error) {
	if cfg.jitter == 0 {
		return m, nil
	}
	pos := m.Positions()
	amp := cfg.jitter * cfg.size
	for v := range pos {
		if m.IsBorderVert(v) {
			continue
		}
		pos[v].X += (2*cfg.rng.Float64() - 1) * amp
		pos[v].Y += (2*cfg.rng.Float64() - 1) * amp
	}
	return mesh.New(pos, m.Faces())
}

// checkJitter rejects jitter without an RNG.
func checkJitter(method string, cfg builderConfig) error {
	if cfg.jitter > 0 && cfg.rng == nil {
		return builderErrorf(method, "jitter=%g", ErrNeedRandSource, cfg.jitter)
	}
	return nil
}
