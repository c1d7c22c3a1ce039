package tracer

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/fieldpatch/emitter"
)

// Sentinel errors for tracer construction and IO.
var (
	// ErrNilGraph indicates New was called with a nil graph.
	ErrNilGraph = errors.New("tracer: graph is nil")
	// ErrConfig indicates a Config that fails validation.
	ErrConfig = errors.New("tracer: invalid configuration")
	// ErrPartition indicates a partition index out of range.
	ErrPartition = errors.New("tracer: partition index out of range")
	// ErrTrace indicates a (vertex, dir) trace that does not fit the mesh.
	ErrTrace = errors.New("tracer: malformed trace")
)

const (
	// narrowWeightFactor scales sqrt(area)·drift into the constrained-search ceiling.
	narrowWeightFactor = 0.05
	// shortStep divides the ceiling for the short-range phases.
	shortStep = 100.0
	// maxInfoCorners is the last SizePatches bucket; larger patches fall into it.
	maxInfoCorners = 7
)

// Method is the search used to turn an emitter into a candidate.
type Method int

const (
	// DirectWalk follows the straight continuation of the field.
	DirectWalk Method = iota
	// ConstrainedSearch runs a bounded shortest-path search to any receiver.
	ConstrainedSearch
	// LoopSearch looks for the cheapest closed route through the emitter.
	LoopSearch
)

var methodNames = [...]string{"DirectWalk", "ConstrainedSearch", "LoopSearch"}

// String implements fmt.Stringer.
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// ChooseMode selects the acceptance strategy of a phase.
type ChooseMode int

const (
	// Farthest accepts candidates by decreasing distance from existing features.
	Farthest ChooseMode = iota
	// Shortest accepts candidates by increasing length, gated on demand.
	Shortest
)

// Candidate is a proposed trace; once accepted it is a chosen path.
type Candidate struct {
	Nodes   []int
	IsLoop  bool
	From    emitter.VertexClass
	To      emitter.VertexClass
	Method  Method
	Init    int  // emitting node
	Updated bool // already traced
}

func (c Candidate) clone() Candidate {
	c.Nodes = append([]int(nil), c.Nodes...)
	return c
}

// PatchType is the quality tag of a partition.
type PatchType int

const (
	// LowCorners: fewer corners than the minimum valence.
	LowCorners PatchType = iota
	// HighCorners: more corners than the maximum valence.
	HighCorners
	// NonDisk: the partition is not a topological disk.
	NonDisk
	// HasEmitter: a vertex of the partition still has outstanding demand.
	HasEmitter
	// IsOK: a valid patch.
	IsOK
)

var patchTypeNames = [...]string{"LowCorners", "HighCorners", "NonDisk", "HasEmitter", "IsOK"}

// String implements fmt.Stringer.
func (p PatchType) String() string {
	if p < 0 || int(p) >= len(patchTypeNames) {
		return fmt.Sprintf("PatchType(%d)", int(p))
	}
	return patchTypeNames[p]
}

// Partition is a region of faces bounded by chosen paths and the mesh border.
type Partition struct {
	Faces   []int
	Corners []int // sorted, unique vertex indices
	Type    PatchType
}

// Info summarises a partitioning.
type Info struct {
	LowC, HighC, NonDisk, HasEmit int
	NumPatches                    int
	// SizePatches[k] counts partitions with k corners; the last bucket
	// collects 7 or more.
	SizePatches [maxInfoCorners + 1]int
}

// VertDir is a node expressed as a vertex and a direction index.
type VertDir struct {
	V, Dir int
}

// Trace is a chosen path in (vertex, dir) form, independent of node numbering.
type Trace struct {
	Steps  []VertDir
	IsLoop bool
}
