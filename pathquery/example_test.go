package pathquery_test

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/katalvlaran/fieldpatch/builder"
	"github.com/katalvlaran/fieldpatch/fieldgraph"
	"github.com/katalvlaran/fieldpatch/pathquery"
)

// ExampleTraceToSelected walks straight along a uniform field until it meets
// a selected node.
func ExampleTraceToSelected() {
	m, _ := builder.Grid(2, 2)
	g, _ := fieldgraph.New(m, builder.UniformField(m, v3.Vec{X: 1}))

	g.Select(fieldgraph.Node(5, 0))
	path, ok := pathquery.TraceToSelected(g, fieldgraph.Node(3, 0))

	verts := make([]int, len(path))
	for i, n := range path {
		verts[i] = fieldgraph.NodeVert(n)
	}
	fmt.Println(ok, verts)
	// Output: true [3 4 5]
}
