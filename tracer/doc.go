// Package tracer builds a network of non-crossing, field-aligned traces over a
// triangle mesh and partitions the surface into patches along them.
//
// A Tracer owns a fieldgraph.Graph for its whole life. It classifies the
// vertices, derives emitter and receiver nodes, and then joins emitters to
// receivers in a fixed schedule of phases:
//
//	Narrow  → Flat, Narrow, Concave
//	Concave → Flat, Concave
//	Internal loops
//	Flat    → Flat
//
// Every phase configures node activity from a declarative table, traces one
// candidate per emitter and accepts a conflict-free subset, either shortest
// first with demand (Narrow and Concave sources) or farthest first by a
// distance field (the others).
//
// Accepted paths cut the surface into partitions. Each partition gets its
// corners and a PatchType. Repair operators remove redundant paths, merge or
// split them, force corner counts into range, and retrace invalid partitions
// as independent sub-problems, in parallel.
//
// Failure to find a path is data: every search reports a bool, and the
// partition types and Info summarise what is left unsolved. Broken internal
// invariants panic with a "tracer:" prefix.
//
// A Tracer is not safe for concurrent use.
package tracer
