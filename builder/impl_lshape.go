// SPDX-License-Identifier: MIT
// Package: fieldpatch/builder
//
// impl_lshape.go: implementation of LShape(n).
//
// Contract:
//   • n ≥ 2 (ErrTooFewVertices) and even (ErrOddSize).
//   • An n×n cell grid without the cells r ≥ n/2, c ≥ n/2; the vertex
//     (n/2, n/2) becomes a boundary corner with a 270° angle.
//
// Complexity: O(n²) time and space.

package builder

import (
	"github.com/katalvlaran/fieldpatch/mesh"
)

// LShape builds an L-shaped planar region with one concave corner.
func LShape(n int, opts ...BuilderOption) (*mesh.Mesh, error) {
	cfg := newBuilderConfig(opts...)
	if n < MinSplitDim {
		return nil, builderErrorf(MethodLShape, "n=%d (must be ≥ %d)", ErrTooFewVertices, n, MinSplitDim)
	}
	if n%2 != 0 {
		return nil, builderErrorf(MethodLShape, "n=%d", ErrOddSize, n)
	}
	if err := checkJitter(MethodLShape, cfg); err != nil {
		return nil, err
	}

	half := n / 2
	var l lattice
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if r >= half && c >= half {
				continue
			}
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
