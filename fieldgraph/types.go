package fieldgraph

import (
	"errors"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/katalvlaran/fieldpatch/mesh"
)

// Sentinel errors for graph construction.
var (
	// ErrNilMesh indicates New was called with a nil mesh.
	ErrNilMesh = errors.New("fieldgraph: mesh is nil")

	// ErrFieldSize indicates a field whose length differs from the face count.
	ErrFieldSize = errors.New("fieldgraph: field size does not match face count")

	// ErrVertMap indicates a vertex map that does not fit the sub-mesh or its parent.
	ErrVertMap = errors.New("fieldgraph: vertex map does not match the meshes")
)

// NumDirs is the symmetry order of the field.
const NumDirs = 4

const (
	defaultNeighborCone = 90.0
	defaultDirectAngle  = 45.0
	// angleEps absorbs round-off on exact 45°/90° grid edges.
	angleEps = 1e-6
)

// Neighbor is one outgoing link of a node.
type Neighbor struct {
	// Node is the target node at the neighboring vertex.
	Node int
	// Length is the euclidean edge length.
	Length float64
	// Angle is the deviation of the edge from the node direction, in degrees.
	Angle float64
	// Direct reports Angle ≤ the direct threshold.
	Direct bool
	// Twin reports that the arrival direction points back against the edge.
	Twin bool
}

// Option configures a Graph before its links are built.
type Option func(g *Graph)

// WithNeighborCone sets the half-aperture, in degrees, within which one-ring
// vertices become links. Panics unless 0 < deg ≤ 180.
func WithNeighborCone(deg float64) Option {
	if deg <= 0 || deg > 180 {
		panic("fieldgraph: WithNeighborCone(deg out of (0,180])")
	}
	return func(g *Graph) { g.cone = deg }
}

// WithDirectAngle sets the largest angle, in degrees, of a Direct link.
// Panics if deg < 0.
func WithDirectAngle(deg float64) Option {
	if deg < 0 {
		panic("fieldgraph: WithDirectAngle(deg<0)")
	}
	return func(g *Graph) { g.direct = deg }
}

// Graph is the oriented node graph over a mesh.
//
// Links and directions are immutable after New; the active and selected
// flags are mutated by the tracing layers. A Graph is not safe for
// concurrent mutation.
type Graph struct {
	m    *mesh.Mesh
	dirs [][NumDirs]v3.Vec // per vertex
	adj  [][]Neighbor      // per node, sorted by Angle

	active   []bool
	selected []bool

	cone   float64
	direct float64
}
