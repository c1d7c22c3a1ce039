package emitter

import (
	"fmt"
	"math"

	"github.com/katalvlaran/fieldpatch/fieldgraph"
)

// VertexClass is the role of a vertex in the tracing schedule.
type VertexClass int

const (
	// Narrow is a boundary vertex whose angle sum is close to 2π.
	Narrow VertexClass = iota
	// Concave is a boundary vertex with a reflex angle sum.
	Concave
	// Convex is a boundary corner; it ends up as a patch corner.
	Convex
	// Flat is a boundary vertex that is neither a corner nor reflex.
	Flat
	// Internal is any vertex off the boundary.
	Internal
	// Chosen marks vertices and nodes already crossed by an accepted path.
	Chosen
)

var classNames = [...]string{"Narrow", "Concave", "Convex", "Flat", "Internal", "Chosen"}

// String implements fmt.Stringer.
func (c VertexClass) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return fmt.Sprintf("VertexClass(%d)", int(c))
	}
	return classNames[c]
}

// NodeRole is either "no role" or the class a node emits or receives for.
// The zero value is NoRole.
type NodeRole struct {
	class VertexClass
	set   bool
}

// NoRole is the empty role.
var NoRole = NodeRole{}

// RoleOf returns the role of class c.
func RoleOf(c VertexClass) NodeRole { return NodeRole{class: c, set: true} }

// Class returns the class of r and whether r is set.
func (r NodeRole) Class() (VertexClass, bool) { return r.class, r.set }

// Is reports whether r is the role of class c.
func (r NodeRole) Is(c VertexClass) bool { return r.set && r.class == c }

// IsNone reports whether r carries no role.
func (r NodeRole) IsNone() bool { return !r.set }

// String implements fmt.Stringer.
func (r NodeRole) String() string {
	if !r.set {
		return "None"
	}
	return r.class.String()
}

// Options holds the classification thresholds and the internal sampling setup.
type Options struct {
	// ConvexAngle: boundary vertices with a smaller angle sum are Convex.
	ConvexAngle float64
	// ConcaveAngle: boundary vertices with at least this angle sum are Concave.
	ConcaveAngle float64
	// NarrowAngle: boundary vertices with at least this angle sum are Narrow.
	NarrowAngle float64
	// SampleRatio scales the number of internal emitter samples; values ≥ 1
	// make every interior node pair an emitter.
	SampleRatio float64
	// SampleSeed seeds the Poisson sampler.
	SampleSeed int64
}

// DefaultOptions returns the thresholds π-π/5, π+π/5 and 2π-π/5 (radians)
// and a sample ratio of 0.2.
func DefaultOptions() Options {
	return Options{
		ConvexAngle:  math.Pi - math.Pi/5,
		ConcaveAngle: math.Pi + math.Pi/5,
		NarrowAngle:  2*math.Pi - math.Pi/5,
		SampleRatio:  0.2,
	}
}

// Roles are the per-node emitter and receiver tables.
type Roles struct {
	Emit    []NodeRole
	Receive []NodeRole
}

// NewRoles returns empty tables for n nodes.
func NewRoles(n int) *Roles {
	return &Roles{Emit: make([]NodeRole, n), Receive: make([]NodeRole, n)}
}

// AssignEmitter gives node n the emitter role of c. Panics if n already emits.
func (r *Roles) AssignEmitter(n int, c VertexClass) {
	if !r.Emit[n].IsNone() {
		panic(fmt.Sprintf("emitter: duplicate emitter on node %d (%s over %s)", n, c, r.Emit[n]))
	}
	r.Emit[n] = RoleOf(c)
}

// AssignReceiver gives node n the receiver role of c. Panics if n already receives.
func (r *Roles) AssignReceiver(n int, c VertexClass) {
	if !r.Receive[n].IsNone() {
		panic(fmt.Sprintf("emitter: duplicate receiver on node %d (%s over %s)", n, c, r.Receive[n]))
	}
	r.Receive[n] = RoleOf(c)
}

// AssignPair makes n an emitter of c and its tangent a receiver of c.
func (r *Roles) AssignPair(n int, c VertexClass) {
	r.AssignEmitter(n, c)
	r.AssignReceiver(fieldgraph.Tangent(n), c)
}

// HasRole reports whether n emits or receives for any class.
func (r *Roles) HasRole(n int) bool {
	return !r.Emit[n].IsNone() || !r.Receive[n].IsNone()
}

// EmittersOf lists, ascending, the nodes emitting for c.
func (r *Roles) EmittersOf(c VertexClass) []int { return nodesWith(r.Emit, c) }

// ReceiversOf lists, ascending, the nodes receiving for c.
func (r *Roles) ReceiversOf(c VertexClass) []int { return nodesWith(r.Receive, c) }

// Clone returns a deep copy.
func (r *Roles) Clone() *Roles {
	return &Roles{
		Emit:    append([]NodeRole(nil), r.Emit...),
		Receive: append([]NodeRole(nil), r.Receive...),
	}
}

func nodesWith(tab []NodeRole, c VertexClass) []int {
	var out []int
	for n, role := range tab {
		if role.Is(c) {
			out = append(out, n)
		}
	}
	return out
}
