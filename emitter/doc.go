// Package emitter classifies boundary vertices by their corner angle and
// derives, per field-graph node, where traces may start (emitters) and where
// they may end (receivers).
//
// Classes:
//
//   - Convex:   boundary, angle sum below ConvexAngle; never emits.
//   - Concave:  boundary, angle sum at least ConcaveAngle; one or two
//     emitters along the inward normals of its boundary edges.
//   - Narrow:   boundary, angle sum at least NarrowAngle (overrides Concave);
//     one emitter along the bisector of its boundary edges.
//   - Flat:     every other boundary vertex; one emitter pointing inward.
//   - Internal: interior vertices; sampled emitters used for loops.
//   - Chosen:   assigned later, by the tracer, to vertices crossed by a path.
//
// Every emitter node n has its receiver at fieldgraph.Tangent(n), so a trace
// arriving at a vertex from the inside ends on the node facing outward.
// Assigning a role twice is a contract violation and panics.
//
// Complexity: Classify and BoundaryDirs are O(V+F); Derive is O(V + S log V)
// for S internal samples.
package emitter
