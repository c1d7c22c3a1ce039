// Package builder produces small, deterministic triangle meshes and direction
// fields for tests, examples and the command line demo.
//
// The package offers the following components:
//
//   - Configuration primitives:
//     – BuilderOption:  a function that mutates builderConfig before use.
//     – builderConfig:  cell size, jitter amount and the optional RNG.
//   - Planar surfaces (all in the z=0 plane, normals along +Z):
//     – Grid:    rows×cols square cells, two triangles per cell.
//     – LShape:  an n×n grid with the top-right quadrant removed, giving one
//     concave corner of 270°.
//     – Slit:    an n×n grid cut along the lower half of its middle column;
//     the slit tip is a boundary vertex with a full 360° angle.
//   - Curved surfaces:
//     – Cylinder: an open tube with outward normals, two boundary loops.
//   - Direction fields (one vector per face):
//     – UniformField:         a fixed direction projected on every face.
//     – CircumferentialField: the direction around an axis.
//
// Guarantees:
//
//   - Planar vertices are indexed in row-major order (row asc, then column
//     asc); duplicated slit vertices follow all regular ones.
//   - Every constructor validates its size arguments and returns wrapped
//     sentinels (ErrTooFewVertices, ErrOddSize, ErrNeedRandSource).
//   - Option constructors panic on meaningless inputs; constructors never do.
//   - With WithJitter, interior vertices are displaced in-plane by a seeded
//     RNG, so equal seeds give identical meshes.
//
// Complexity: every constructor is O(V+F) time and space.
package builder
