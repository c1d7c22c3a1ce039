// Package mesh provides the index-based triangle surface that every other
// fieldpatch package consumes.
//
// Overview:
//
//   - Vertices are stored as 3D positions (sdfx vec/v3) and faces as index
//     triples in counter-clockwise order.
//   - Face-face adjacency is built once in New: FaceFace(f, j) is the face across
//     the edge (V(j), V(j+1)), or -1 when that edge lies on the true boundary.
//   - Per-vertex data: incident faces, the one-ring in fan order, boundary flag,
//     area-weighted normal and the sum of incident corner angles.
//   - Sub-regions: EulerCharacteristic over a face subset (a disk yields 1) and
//     SubMesh, which extracts a face subset as an independent Mesh together
//     with the vertex index remapping back to the parent.
//   - Sampling and lookup: PoissonSample spreads well-separated points over the
//     surface with a fixed seed; VertexIndex answers nearest-vertex queries
//     through an r-tree.
//   - IO: Wavefront OBJ for geometry, and the line-oriented ".rosy" layout for
//     one direction vector per face.
//
// Complexity:
//
//   - New:            O(F) time and memory (edge map over 3F half-edges).
//   - OrderedRing:    O(deg(v)).
//   - SubMesh:        O(F_sub).
//   - PoissonSample:  O(n · k · log n) with k candidate darts per sample.
//
// Errors:
//
//	ErrEmptyMesh        - no faces were supplied.
//	ErrVertexIndex      - a face references a vertex outside [0, len(verts)).
//	ErrDegenerateFace   - a face repeats a vertex.
//	ErrNonManifoldEdge  - an edge is shared by more than two faces.
//	ErrFaceIndex        - a face subset references a face out of range.
//	ErrFieldSize        - a field file holds a vector count different from the face count.
package mesh
