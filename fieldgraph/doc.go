// Package fieldgraph turns a triangle mesh plus a per-face 4-direction field
// into a directed graph of oriented nodes.
//
// Overview:
//
//	Every vertex v carries four tangent directions D(v,0..3): dir0 is the
//	field of the first incident face projected into the vertex tangent
//	plane, the others follow by successive 90° turns around the vertex
//	normal. A node is the pair (v, d) encoded as v*4+d.
//
//	Node (v,d) links to every one-ring vertex u whose edge leaves v within
//	the neighbor cone around D(v,d). The link lands on the direction of u
//	closest to D(v,d), i.e. the field transported along the edge. Links are
//	sorted by angle, so link 0 is the straightest continuation.
//
//	Each link records:
//	  - Length: euclidean edge length;
//	  - Angle:  deviation from D(v,d) in degrees;
//	  - Direct: Angle ≤ the direct threshold (default 45°);
//	  - Twin:   the arrival direction points back against the edge.
//
// State:
//
//	The graph also owns two persistent per-node flags used by the tracing
//	layers above it: active (searches may traverse the node) and selected
//	(a search stops on it). Scratch state of a search lives elsewhere, so a
//	Graph may be read by one search at a time without copying.
//
// Complexity:
//
//	New is O(V·k) for one-ring size k; every accessor is O(1).
//
// Errors:
//
//	ErrNilMesh   - New called without a mesh.
//	ErrFieldSize - field length differs from the face count.
//	ErrVertMap   - Restrict called with a vertex map that does not fit.
package fieldgraph
