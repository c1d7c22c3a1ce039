// SPDX-License-Identifier: MIT
// Package: fieldpatch/builder
//
// impl_grid.go: implementation of Grid(rows, cols).
//
// Contract:
//   • rows ≥ 1 and cols ≥ 1 (else ErrTooFewVertices).
//   • (rows+1)·(cols+1) vertices; vertex (r,c) has index r·(cols+1)+c.
//   • 2·rows·cols faces, emitted cell by cell in row-major order.
//
// Complexity: O(rows·cols) time and space.

package builder

import (
	"github.com/katalvlaran/fieldpatch/mesh"
)

// Grid builds a flat rows×cols grid of square cells.
func Grid(rows, cols int, opts ...BuilderOption) (*mesh.Mesh, error) {
	cfg := newBuilderConfig(opts...)
	if rows < MinGridDim || cols < MinGridDim {
		return nil, builderErrorf(MethodGrid, "rows=%d, cols=%d (each must be ≥ %d)",
			ErrTooFewVertices, rows, cols, MinGridDim)
	}
	if err := checkJitter(MethodGrid, cfg); err != nil {
		return nil, err
	}

	var l lattice
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			l.addCell(
				latticeKey{r: r, c: c},
				latticeKey{r: r, c: c + 1},
				latticeKey{r: r + 1, c: c + 1},
				latticeKey{r: r + 1, c: c},
			)
		}
	}
	return l.build(cfg)
}
