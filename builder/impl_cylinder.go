// SPDX-License-Identifier: MIT
// Package: fieldpatch/builder
//
// impl_cylinder.go: implementation of Cylinder(segments, rings).
//
// Contract:
//   • segments ≥ 3 and rings ≥ 1 (else ErrTooFewVertices).
//   • The tube axis is +Z; its radius makes one cell roughly size wide.
//   • Vertex (ring i, segment s) has index i·segments+s.
//   • Faces are oriented with outward normals; both rims are boundary loops.
//
// Complexity: O(segments·rings) time and space.

package builder

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/katalvlaran/fieldpatch/mesh"
)

// Cylinder builds an open tube around the Z axis.
func Cylinder(segments, rings int, opts ...BuilderOption) (*mesh.Mesh, error) {
	cfg := newBuilderConfig(opts...)
	if segments < MinCylinderSegments || rings < MinCylinderRings {
		return nil, builderErrorf(MethodCylinder, "segments=%d, rings=%d (must be ≥ %d, ≥ %d)",
			ErrTooFewVertices, segments, rings, MinCylinderSegments, MinCylinderRings)
	}

	radius := float64(segments) * cfg.size / (2 * math.Pi)
	verts := make([]v3.Vec, 0, (rings+1)*segments)
	for i := 0; i <= rings; i++ {
		for s := 0; s < segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			verts = append(verts, v3.Vec{
				X: radius * math.Cos(theta),
				Y: radius * math.Sin(theta),
				Z: float64(i) * cfg.size,
			})
		}
	}

	idx := func(i, s int) int { return i*segments + (s % segments) }
	faces := make([]mesh.Face, 0, 2*rings*segments)
	for i := 0; i < rings; i++ {
		for s := 0; s < segments; s++ {
			a, b, c, d := idx(i, s), idx(i, s+1), idx(i+1, s+1), idx(i+1, s)
			faces = append(faces, mesh.Face{a, b, c}, mesh.Face{a, c, d})
		}
	}
	return mesh.New(verts, faces)
}
