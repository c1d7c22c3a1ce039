package tracer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/katalvlaran/fieldpatch/emitter"
)

// GetInfo counts the partitions per type and per corner count.
func (t *Tracer) GetInfo() Info {
	info := Info{NumPatches: len(t.partitions)}
	for _, p := range t.partitions {
		switch p.Type {
		case LowCorners:
			info.LowC++
		case HighCorners:
			info.HighC++
		case NonDisk:
			info.NonDisk++
		case HasEmitter:
			info.HasEmit++
		}
		info.SizePatches[min(len(p.Corners), maxInfoCorners)]++
	}
	return info
}

// WriteCSVLine appends one space-separated summary record to w:
//
//	project patches has-emitter high-corners low-corners non-disk s0 … s7
func (t *Tracer) WriteCSVLine(w io.Writer, project string) error {
	info := t.GetInfo()
	counts := append([]int{info.NumPatches, info.HasEmit, info.HighC, info.LowC, info.NonDisk}, info.SizePatches[:]...)
	rec := append([]string{project}, lo.Map(counts, func(n int, _ int) string { return strconv.Itoa(n) })...)

	cw := csv.NewWriter(w)
	cw.Comma = ' '
	if err := cw.Write(rec); err != nil {
		return errors.Wrap(err, "writing csv line")
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "writing csv line")
}

// WritePatches writes the face count, then the partition index of every
// face, one per line.
func (t *Tracer) WritePatches(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", t.m.NumFaces())
	for _, p := range t.FacePartition() {
		fmt.Fprintf(bw, "%d\n", p)
	}
	return errors.Wrap(bw.Flush(), "writing patches")
}

// WriteCorners writes the partition count, then for every partition its
// corner count followed by one corner vertex per line.
func (t *Tracer) WriteCorners(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(t.partitions))
	for _, p := range t.partitions {
		fmt.Fprintf(bw, "%d\n", len(p.Corners))
		for _, c := range p.Corners {
			fmt.Fprintf(bw, "%d\n", c)
		}
	}
	return errors.Wrap(bw.Flush(), "writing corners")
}

// CornersPos returns, for every partition, one point per (face, corner)
// incidence, pulled halfway towards the face barycenter so that the
// corners of adjacent patches stay apart.
func (t *Tracer) CornersPos() [][]v3.Vec {
	out := make([][]v3.Vec, len(t.partitions))
	for i, p := range t.partitions {
		corner := hashset.New()
		for _, c := range p.Corners {
			corner.Add(c)
		}
		for _, f := range p.Faces {
			bary := t.m.FaceBarycenter(f)
			for _, v := range t.m.Face(f) {
				if corner.Contains(v) {
					out[i] = append(out[i], bary.MulScalar(0.5).Add(t.m.Pos(v).MulScalar(0.5)))
				}
			}
		}
	}
	return out
}

// CornerSharp lists, ascending, the Narrow, Concave and Convex vertices.
func (t *Tracer) CornerSharp() []int {
	var out []int
	for v, c := range t.classes {
		if c == emitter.Narrow || c == emitter.Concave || c == emitter.Convex {
			out = append(out, v)
		}
	}
	return out
}
