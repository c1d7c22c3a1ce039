package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/fieldpatch/tracer"
)

var (
	outPrefix string
	csvPath   string
	project   string
	recursive bool
)

func runTrace(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(args[0], args[1])
	if err != nil {
		return err
	}
	tr, err := tracer.New(g, cfg)
	if err != nil {
		return err
	}
	klog.Infof("run %s: %d vertices, %d faces", runID, g.NumVerts(), g.Mesh().NumFaces())

	if recursive {
		if err := tr.RecursiveProcess(cmd.Context()); err != nil {
			return err
		}
	} else {
		tr.BatchProcess(true, false)
		tr.BatchRemoval()
	}
	if !tr.HasTerminated() {
		klog.Warningf("run %s: layout has unsolved patches", runID)
	}

	prefix := outPrefix
	if prefix == "" {
		prefix = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
	}
	if err := writeFile(prefix+".patch", tr.WritePatches); err != nil {
		return err
	}
	if err := writeFile(prefix+".corners", tr.WriteCorners); err != nil {
		return err
	}

	if csvPath != "" {
		name := project
		if name == "" {
			name = runID
		}
		f, err := os.OpenFile(csvPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return errors.Wrap(err, "opening csv")
		}
		defer f.Close()
		if err := tr.WriteCSVLine(f, name); err != nil {
			return err
		}
	}

	info := tr.GetInfo()
	klog.Infof("run %s: %d patches (%d quads), written to %s.*", runID, info.NumPatches, info.SizePatches[4], prefix)
	return nil
}

// writeFile creates path and fills it through write.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}
