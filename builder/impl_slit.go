// SPDX-License-Identifier: MIT
// Package: fieldpatch/builder
//
// impl_slit.go: implementation of Slit(n).
//
// Contract:
//   • n ≥ 2 (ErrTooFewVertices) and even (ErrOddSize).
//   • An n×n cell grid cut along column n/2 for rows 0..n/2-1: cells right of
//     the cut use duplicated vertices, which are indexed after all regular
//     ones. The tip (n/2, n/2) is shared, lies on the boundary and carries
//     a full 360° angle.
//
// Complexity: O(n²) time and space.

package builder

import (
	"github.com/katalvlaran/fieldpatch/mesh"
)

// Slit builds a square with a straight cut from the bottom edge to its center.
func Slit(n int, opts ...BuilderOption) (*mesh.Mesh, error) {
	cfg := newBuilderConfig(opts...)
	if n < MinSplitDim {
		return nil, builderErrorf(MethodSlit, "n=%d (must be ≥ %d)", ErrTooFewVertices, n, MinSplitDim)
	}
	if n%2 != 0 {
		return nil, builderErrorf(MethodSlit, "n=%d", ErrOddSize, n)
	}
	if err := checkJitter(MethodSlit, cfg); err != nil {
		return nil, err
	}

	half := n / 2
	// key resolves lattice vertex (r,c) as seen from cell column cellC.
	key := func(r, c, cellC int) latticeKey {
		if c == half && r < half && cellC >= half {
			return latticeKey{r: r, c: c, dup: 1}
		}
		return latticeKey{r: r, c: c}
	}

	var l lattice
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			l.addCell(
				key(r, c, c),
				key(r, c+1, c),
				key(r+1, c+1, c),
				key(r+1, c, c),
			)
		}
	}
	return l.build(cfg)
}

// SlitTip returns the index of the slit tip in a mesh built by Slit(n).
func SlitTip(n int) int {
	return (n/2)*(n+1) + n/2
}
