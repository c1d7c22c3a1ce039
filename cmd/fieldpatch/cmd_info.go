package main

import (
	"fmt"
	"strconv"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/fieldpatch/emitter"
	"github.com/katalvlaran/fieldpatch/mesh"
)

var (
	seedPoints []string
	listVerts  bool
)

func runClassify(cmd *cobra.Command, args []string) error {
	m, err := loadMesh(args[0])
	if err != nil {
		return err
	}
	opts := emitter.DefaultOptions()
	classes := emitter.Classify(m, opts)
	out := cmd.OutOrStdout()

	counts := emitter.Count(classes)
	for c := emitter.Narrow; c <= emitter.Internal; c++ {
		fmt.Fprintf(out, "%-9s %d\n", c, counts[c])
	}
	if listVerts {
		for v, c := range classes {
			if c != emitter.Internal {
				fmt.Fprintf(out, "%d %s %.4f\n", v, c, m.AngleSum(v))
			}
		}
	}

	if len(seedPoints) == 0 {
		return nil
	}
	pts := make([]v3.Vec, len(seedPoints))
	for i, s := range seedPoints {
		if pts[i], err = parsePoint(s); err != nil {
			return err
		}
	}
	ix := mesh.NewVertexIndex(m)
	for i, v := range ix.ClosestAll(pts) {
		fmt.Fprintf(out, "%s -> vertex %d %s\n", seedPoints[i], v, classes[v])
	}
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	m, err := loadMesh(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	all := lo.Range(m.NumFaces())
	loops := m.BoundaryLoops()
	a, b := m.FarthestPair()

	fmt.Fprintf(out, "vertices  %d\n", m.NumVerts())
	fmt.Fprintf(out, "faces     %d\n", m.NumFaces())
	fmt.Fprintf(out, "area      %.6g\n", m.TotalArea())
	fmt.Fprintf(out, "euler     %d\n", m.EulerCharacteristic(all))
	fmt.Fprintf(out, "boundary  %d loops %v\n", len(loops), lo.Map(loops, func(l []int, _ int) int { return len(l) }))
	fmt.Fprintf(out, "diameter  %.6g (%d-%d)\n", m.EdgeLength(a, b), a, b)
	return nil
}

// parsePoint reads "x,y,z".
func parsePoint(s string) (v3.Vec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v3.Vec{}, errors.Errorf("seed point %q: want x,y,z", s)
	}
	var c [3]float64
	for i, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return v3.Vec{}, errors.Wrapf(err, "seed point %q", s)
		}
		c[i] = x
	}
	return v3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}
