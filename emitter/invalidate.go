package emitter

import (
	"github.com/katalvlaran/fieldpatch/fieldgraph"
)

// InvalidateTangentNodes resets the activity of g: every node is enabled,
// then Convex vertices lose all their nodes and Flat or Concave vertices
// lose the nodes that neither emit nor receive.
func InvalidateTangentNodes(g *fieldgraph.Graph, classes []VertexClass, roles *Roles) {
	g.SetAllActive()
	g.SetDisabledNodes(IdleNodes(classes, roles, Convex))
	g.SetDisabledNodes(IdleNodes(classes, roles, Flat))
	g.SetDisabledNodes(IdleNodes(classes, roles, Concave))
}

// IdleNodes lists, ascending, the nodes of class-c vertices without any
// role. For Convex vertices every node is listed.
func IdleNodes(classes []VertexClass, roles *Roles, c VertexClass) []int {
	var out []int
	for v, vc := range classes {
		if vc != c {
			continue
		}
		for _, n := range fieldgraph.VertNodes(v) {
			if c == Convex || !roles.HasRole(n) {
				out = append(out, n)
			}
		}
	}
	return out
}

// Setup is the emitter state of a freshly initialized graph.
type Setup struct {
	Classes []VertexClass
	Roles   *Roles
	Needs   []int
}

// Prepare classifies the vertices of g, derives roles, invalidates idle
// tangent nodes and computes the initial needs. It resets the activity of g.
func Prepare(g *fieldgraph.Graph, opts Options) Setup {
	g.SetAllActive()
	classes := Classify(g.Mesh(), opts)
	roles := Derive(g, classes, opts)
	InvalidateTangentNodes(g, classes, roles)
	return Setup{Classes: classes, Roles: roles, Needs: InitNeeds(classes)}
}
