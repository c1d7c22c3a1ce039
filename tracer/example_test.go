package tracer_test

import (
	"context"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/katalvlaran/fieldpatch/builder"
	"github.com/katalvlaran/fieldpatch/fieldgraph"
	"github.com/katalvlaran/fieldpatch/tracer"
)

// ExampleTracer_BatchProcess traces a 2×2 square under a uniform field: the
// two mid-side pairs are joined through the center, cutting four quads.
// Removal then merges them back into one.
func ExampleTracer_BatchProcess() {
	m, _ := builder.Grid(2, 2)
	g, _ := fieldgraph.New(m, builder.UniformField(m, v3.Vec{X: 1}))
	tr, _ := tracer.New(g, tracer.DefaultConfig())

	tr.BatchProcess(true, false)
	info := tr.GetInfo()
	fmt.Println("paths:", len(tr.Chosen()), "patches:", info.NumPatches, "quads:", info.SizePatches[4])

	tr.BatchRemoval()
	fmt.Println("paths:", len(tr.Chosen()), "corners:", tr.Partitions()[0].Corners)
	// Output:
	// paths: 2 patches: 4 quads: 4
	// paths: 0 corners: [0 2 6 8]
}

func ExampleTracer_RecursiveProcess() {
	m, _ := builder.Grid(1, 1)
	g, _ := fieldgraph.New(m, builder.UniformField(m, v3.Vec{X: 1}))
	tr, _ := tracer.New(g, tracer.DefaultConfig())

	if err := tr.RecursiveProcess(context.Background()); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(tr.HasTerminated(), tr.Partitions()[0].Type)
	// Output: true IsOK
}
