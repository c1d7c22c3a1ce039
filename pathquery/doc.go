// Package pathquery searches field-aligned traces over a fieldgraph.Graph.
//
// Overview:
//
//   - TraceToSelected walks the straightest continuation (link 0) from a node
//     until it lands on a selected node. It fails on a dead end, an inactive
//     continuation, or a revisit of a node or its tangent.
//   - ShortestPath is a multi-source, label-correcting Dijkstra over the
//     active nodes. An edge costs
//
//     length · (1 + drift · (angle/maxAngle)²)   when maxAngle > 0
//     length                                     otherwise
//
//     so routes that deviate from the field are penalized quadratically.
//     The search stops on the first popped terminal (a selected node when
//     StopAtSel, or Target). In loop mode it stops as soon as a link closes
//     back on the single start node.
//   - FindLoop, UpdateDistancesFrom and GetSubSequence are ShortestPath
//     presets. ExpandPath refines a coarse path pair by pair through
//     GetSubSequence.
//   - SelfIntersect and CollideTraces are the geometric conflict tests used
//     when candidates are selected.
//
// Search scratch:
//
//	Marks, distances, parents, jump and twin counters live in a
//	SearchContext taken from a sync.Pool and reset before every search.
//	The graph only contributes links plus the active and selected flags,
//	so concurrent searches over distinct graphs never share state.
//
// Ceilings (checked when a node is popped, all disabled when ≤ 0):
//
//	MaxTwin   – skip nodes reached through more than MaxTwin twin links.
//	MaxJump   – do not expand nodes exactly MaxJump links from a source.
//	MaxWeight – do not expand nodes whose distance exceeds MaxWeight.
//
// Complexity:
//
//   - ShortestPath: O((N + L) log N) for N nodes and L links.
//   - TraceToSelected: O(N).
//   - CollideTraces: O(|A|+|B|) for the first three stages, O(|A|·|B|·k)
//     for the fan test with one-ring size k.
//
// Contract violations (panics): loop mode with more than one source, loop
// mode combined with a resumed distance field, an inactive source node.
package pathquery
