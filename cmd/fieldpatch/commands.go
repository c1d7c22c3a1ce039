package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/fieldpatch/fieldgraph"
	"github.com/katalvlaran/fieldpatch/mesh"
	"github.com/katalvlaran/fieldpatch/tracer"
)

// --- Global Command Variables ---
var (
	configPath string
	cfg        tracer.Config
	runID      string

	rootCmd = &cobra.Command{
		Use:   "fieldpatch",
		Short: "Trace field-aligned quad patch layouts over triangle meshes",
		Long: `fieldpatch reads a triangle mesh and a per-face direction field and
computes non-crossing traces that cut the surface into 3 to 6 sided patches.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			runID = uuid.NewString()
			if configPath == "" {
				cfg = tracer.DefaultConfig()
				return nil
			}
			c, err := tracer.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = c
			klog.V(1).Infof("run %s: config %s", runID, configPath)
			return nil
		},
	}

	traceCmd = &cobra.Command{
		Use:   "trace [mesh.obj] [field.rosy]",
		Short: "Trace the patch layout and write patches, corners and a csv summary",
		Args:  cobra.ExactArgs(2),
		RunE:  runTrace, // Defined in cmd_trace.go
	}

	classifyCmd = &cobra.Command{
		Use:   "classify [mesh.obj]",
		Short: "Classify boundary vertices by their angle sum",
		Args:  cobra.ExactArgs(1),
		RunE:  runClassify, // Defined in cmd_info.go
	}

	infoCmd = &cobra.Command{
		Use:   "info [mesh.obj]",
		Short: "Print mesh statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo, // Defined in cmd_info.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML tracer config; defaults apply to absent keys")

	traceCmd.Flags().StringVarP(&outPrefix, "out", "o", "", "output prefix for .patch and .corners files (default: mesh path without extension)")
	traceCmd.Flags().StringVar(&csvPath, "csv", "", "append a summary line to this file")
	traceCmd.Flags().StringVar(&project, "project", "", "project name of the csv line (default: run id)")
	traceCmd.Flags().BoolVar(&recursive, "recursive", true, "solve unsolved patches recursively")

	classifyCmd.Flags().StringArrayVar(&seedPoints, "seed-point", nil, "report the class of the vertex nearest to x,y,z (repeatable)")
	classifyCmd.Flags().BoolVar(&listVerts, "list", false, "print the class of every boundary vertex")

	rootCmd.AddCommand(traceCmd, classifyCmd, infoCmd)
}

// loadMesh reads an OBJ file from disk.
func loadMesh(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening mesh")
	}
	defer f.Close()
	m, err := mesh.ReadOBJ(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return m, nil
}

// loadGraph reads a mesh and its field and builds the direction graph.
func loadGraph(meshPath, fieldPath string) (*fieldgraph.Graph, error) {
	m, err := loadMesh(meshPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fieldPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening field")
	}
	defer f.Close()
	field, err := mesh.ReadField(f, m)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", fieldPath)
	}
	g, err := fieldgraph.New(m, field)
	if err != nil {
		return nil, errors.Wrap(err, "building direction graph")
	}
	return g, nil
}
