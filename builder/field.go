// SPDX-License-Identifier: MIT
// Package: fieldpatch/builder
//
// field.go: per-face direction fields for the fixtures.

package builder

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/katalvlaran/fieldpatch/mesh"
)

// UniformField projects dir onto every face plane and normalizes it.
func UniformField(m *mesh.Mesh, dir v3.Vec) []v3.Vec {
	out := make([]v3.Vec, m.NumFaces())
	for f := range out {
		out[f] = mesh.Normalize(mesh.ProjectOnPlane(dir, m.FaceNormal(f)))
	}
	return out
}

// CircumferentialField assigns every face the direction axis × b, where b is
// the face barycenter; on a tube around axis this runs along the rims.
func CircumferentialField(m *mesh.Mesh, axis v3.Vec) []v3.Vec {
	out := make([]v3.Vec, m.NumFaces())
	for f := range out {
		d := axis.Cross(m.FaceBarycenter(f))
		out[f] = mesh.Normalize(mesh.ProjectOnPlane(d, m.FaceNormal(f)))
	}
	return out
}
