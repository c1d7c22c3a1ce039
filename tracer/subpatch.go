package tracer

import (
	"context"
	"fmt"

	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/fieldpatch/emitter"
	"github.com/katalvlaran/fieldpatch/fieldgraph"
)

// PatchBorderNodes groups the nodes of one partition that matter when it is
// traced as a sub-problem. Every slice is ascending.
type PatchBorderNodes struct {
	FlatEmitters  []int
	FlatReceivers []int
	// ChosenEmitters and ChosenReceivers split the ortho pair of every chosen
	// node inside the patch: the side with more links into the patch emits.
	ChosenEmitters  []int
	ChosenReceivers []int
	FlatTangent     []int
	ChosenTangent   []int
}

// GetPatchBorderNodes refreshes the chosen receivers and returns the border
// nodes of partition i.
func (t *Tracer) GetPatchBorderNodes(i int) (PatchBorderNodes, error) {
	if err := t.checkPartition(i); err != nil {
		return PatchBorderNodes{}, err
	}
	t.UpdateChosenReceivers()
	return t.borderNodes(i), nil
}

func (t *Tracer) checkPartition(i int) error {
	if i < 0 || i >= len(t.partitions) {
		return errors.Wrapf(ErrPartition, "index %d of %d", i, len(t.partitions))
	}
	return nil
}

// patchNodeSet returns every node of the vertices of partition i.
func (t *Tracer) patchNodeSet(i int) *hashset.Set {
	set := hashset.New()
	for _, f := range t.partitions[i].Faces {
		for _, v := range t.m.Face(f) {
			for _, n := range fieldgraph.VertNodes(v) {
				set.Add(n)
			}
		}
	}
	return set
}

// borderNodes only reads t, so sub-patches can be prepared in parallel.
func (t *Tracer) borderNodes(i int) PatchBorderNodes {
	in := t.patchNodeSet(i)
	inside := func(nodes []int) []int {
		s := treeset.NewWithIntComparator()
		for _, n := range nodes {
			if in.Contains(n) {
				s.Add(n)
			}
		}
		return setInts(s)
	}

	bn := PatchBorderNodes{
		FlatEmitters:  inside(t.roles.EmittersOf(emitter.Flat)),
		FlatReceivers: inside(t.roles.ReceiversOf(emitter.Flat)),
		FlatTangent:   inside(flatTangentNodes(t)),
		ChosenTangent: inside(chosenNodesAndTangents(t)),
	}
	for _, c := range t.chosen {
		for _, n := range c.Nodes {
			if !in.Contains(n) {
				continue
			}
			o := fieldgraph.Ortho(n)
			if t.neighborsInside(o[0], in) > t.neighborsInside(o[1], in) {
				bn.ChosenEmitters = append(bn.ChosenEmitters, o[0])
				bn.ChosenReceivers = append(bn.ChosenReceivers, o[1])
			} else {
				bn.ChosenEmitters = append(bn.ChosenEmitters, o[1])
				bn.ChosenReceivers = append(bn.ChosenReceivers, o[0])
			}
		}
	}
	bn.ChosenEmitters = inside(bn.ChosenEmitters)
	bn.ChosenReceivers = inside(bn.ChosenReceivers)
	return bn
}

func (t *Tracer) neighborsInside(n int, in *hashset.Set) int {
	k := 0
	for _, nb := range t.g.Neighbors(n) {
		if in.Contains(nb.Node) {
			k++
		}
	}
	return k
}

// newBare returns a tracer over g with no classification; CopyFrom fills it.
func newBare(g *fieldgraph.Graph, cfg Config) *Tracer {
	return &Tracer{g: g, m: g.Mesh(), cfg: cfg}
}

// CopyFrom sets t up as the sub-problem of partition part of parent. The
// mesh of t must be that partition, with vertMap giving the parent index of
// every vertex.
//
// Border vertices become Flat unless they are Narrow or Concave with demand
// left, and the partition corners become Convex. Flat vertices take Flat
// roles from the parent border nodes, chosen ortho pairs included; Narrow
// and Concave vertices keep the parent roles. All nodes are left active.
func (t *Tracer) CopyFrom(parent *Tracer, vertMap []int, part int) error {
	if err := parent.checkPartition(part); err != nil {
		return err
	}
	if len(vertMap) != t.m.NumVerts() {
		return errors.Wrapf(fieldgraph.ErrVertMap, "%d entries for %d vertices", len(vertMap), t.m.NumVerts())
	}
	parent.UpdateChosenReceivers()
	t.copyFrom(parent, vertMap, part, parent.borderNodes(part))
	return nil
}

// copyFrom writes t only.
func (t *Tracer) copyFrom(parent *Tracer, vertMap []int, part int, bn PatchBorderNodes) {
	t.drift = parent.drift
	t.maxNarrowWeight = parent.maxNarrowWeight
	t.candidates, t.chosen, t.partitions, t.faceToPartition = nil, nil, nil, nil
	t.allReceivers = false

	nv := t.m.NumVerts()
	t.classes = make([]emitter.VertexClass, nv)
	t.needs = make([]int, nv)
	for i, pv := range vertMap {
		t.classes[i] = parent.classes[pv]
		t.needs[i] = parent.needs[pv]
	}
	for i, c := range t.classes {
		demand := c == emitter.Narrow || c == emitter.Concave
		if (!demand && t.m.IsBorderVert(i)) || (demand && t.needs[i] == 0) {
			t.classes[i] = emitter.Flat
		}
	}
	corners := hashset.New()
	for _, c := range parent.partitions[part].Corners {
		corners.Add(c)
	}
	for i, pv := range vertMap {
		if corners.Contains(pv) {
			t.classes[i] = emitter.Convex
		}
	}

	emitSet, recvSet := hashset.New(), hashset.New()
	for _, n := range append(append([]int(nil), bn.FlatEmitters...), bn.ChosenEmitters...) {
		emitSet.Add(n)
	}
	for _, n := range append(append([]int(nil), bn.FlatReceivers...), bn.ChosenReceivers...) {
		recvSet.Add(n)
	}

	t.roles = emitter.NewRoles(t.g.NumNodes())
	flat := emitter.RoleOf(emitter.Flat)
	for i, c := range t.classes {
		pv := vertMap[i]
		for d := 0; d < fieldgraph.NumDirs; d++ {
			n, pn := fieldgraph.Node(i, d), fieldgraph.Node(pv, d)
			switch c {
			case emitter.Flat:
				if recvSet.Contains(pn) {
					t.roles.Receive[n] = flat
				} else if emitSet.Contains(pn) {
					t.roles.Emit[n] = flat
				}
			case emitter.Narrow, emitter.Concave:
				t.roles.Emit[n] = parent.roles.Emit[pn]
				t.roles.Receive[n] = parent.roles.Receive[pn]
			}
		}
	}
}

// TraceWithinPatch traces new paths inside partition p without leaving the
// parent mesh. Step 0 emits from Narrow nodes, step 1 from Concave nodes and
// step 2 from the Flat and chosen border emitters; receivers are the border
// receivers. allReceivers also accepts the tangent nodes (and, for steps 0
// and 1, the border emitters) as receivers and keeps corners enabled.
// reduceMaxD divides the search ceiling by 100. Panics on a step above 2.
func (t *Tracer) TraceWithinPatch(p, step int, allReceivers, reduceMaxD bool) bool {
	if step < 0 || step > 2 {
		panic(fmt.Sprintf("tracer: step %d out of range", step))
	}
	in := t.patchNodeSet(p)
	bn := t.borderNodes(p)

	disable := make([]bool, t.g.NumNodes())
	for n := range disable {
		disable[n] = !in.Contains(n)
	}
	if !allReceivers {
		for _, v := range t.partitions[p].Corners {
			for _, n := range fieldgraph.VertNodes(v) {
				disable[n] = true
			}
		}
		for _, n := range append(append([]int(nil), bn.FlatTangent...), bn.ChosenTangent...) {
			disable[n] = true
		}
	}

	recv := treeset.NewWithIntComparator()
	addNodes(recv, bn.FlatReceivers)
	addNodes(recv, bn.ChosenReceivers)
	if allReceivers {
		addNodes(recv, bn.FlatTangent)
		addNodes(recv, bn.ChosenTangent)
		if step < 2 {
			addNodes(recv, bn.FlatEmitters)
			addNodes(recv, bn.ChosenEmitters)
		}
	}

	from := emitter.Chosen
	var emit []int
	switch step {
	case 0:
		from = emitter.Narrow
		emit = nodesIn(t.roles.EmittersOf(emitter.Narrow), in)
	case 1:
		from = emitter.Concave
		emit = nodesIn(t.roles.EmittersOf(emitter.Concave), in)
	case 2:
		s := treeset.NewWithIntComparator()
		addNodes(s, bn.FlatEmitters)
		addNodes(s, bn.ChosenEmitters)
		emit = setInts(s)
	}
	for _, n := range emit {
		disable[n] = false
	}

	var off []int
	for n, d := range disable {
		if d {
			off = append(off, n)
		}
	}
	t.g.SetAllActive()
	t.g.SetDisabledNodes(off)

	w := t.maxNarrowWeight
	if reduceMaxD {
		t.maxNarrowWeight = w / shortStep
	}
	traced := t.traceFrom(from, emitter.Chosen, ConstrainedSearch, emit, setInts(recv), Shortest)
	t.maxNarrowWeight = w
	return traced
}

// nodesIn keeps the nodes contained in set.
func nodesIn(nodes []int, set *hashset.Set) []int {
	out := make([]int, 0, len(nodes))
	for _, n := range nodes {
		if set.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

// withinPatchSchedule is the order in which TraceWithinPatch settings are
// tried on one partition.
var withinPatchSchedule = []struct {
	step                     int
	allReceivers, reduceMaxD bool
}{
	{0, false, false},
	{1, false, false},
	{0, true, true},
	{1, true, true},
	{2, false, false},
	{0, true, false},
	{1, true, false},
}

// solveWithinPatch stops at the first setting that traces anything.
func (t *Tracer) solveWithinPatch(p int) bool {
	for _, s := range withinPatchSchedule {
		if t.TraceWithinPatch(p, s.step, s.allReceivers, s.reduceMaxD) {
			return true
		}
	}
	return false
}

// SolveSubPatchesStep retraces invalid partitions in place, one at a time,
// recomputing the partitions after every success, until no invalid
// partition can be traced. It reports whether every partition ends up IsOK.
func (t *Tracer) SolveSubPatchesStep() bool {
	for {
		t.RetrievePartitions()
		traced := false
		for i, p := range t.partitions {
			if p.Type != IsOK && t.solveWithinPatch(i) {
				traced = true
				break
			}
		}
		if !traced {
			break
		}
	}
	return t.HasTerminated()
}

// TraceSubPatch traces partition i as an independent sub-problem and
// returns the new paths in parent vertex indices. The bool reports whether
// any path was found.
func (t *Tracer) TraceSubPatch(i int) ([]Trace, bool, error) {
	if err := t.checkPartition(i); err != nil {
		return nil, false, err
	}
	t.UpdateChosenReceivers()
	traces, err := t.traceSubPatch(i)
	if err != nil {
		return nil, false, err
	}
	return traces, len(traces) > 0, nil
}

// traceSubPatch only reads t.
func (t *Tracer) traceSubPatch(i int) ([]Trace, error) {
	sub, vertMap, _, err := t.m.SubMesh(t.partitions[i].Faces)
	if err != nil {
		return nil, errors.Wrapf(err, "tracer: sub-mesh of partition %d", i)
	}
	g, err := t.g.Restrict(sub, vertMap)
	if err != nil {
		return nil, errors.Wrapf(err, "tracer: sub-graph of partition %d", i)
	}
	child := newBare(g, t.cfg)
	child.copyFrom(t, vertMap, i, t.borderNodes(i))
	child.BatchProcess(false, true)

	traces := child.GetCurrVertDir()
	for _, tr := range traces {
		for j := range tr.Steps {
			tr.Steps[j].V = vertMap[tr.Steps[j].V]
		}
	}
	return traces, nil
}

// RecursiveProcess runs the whole pipeline: Init with the configured drift
// and BatchProcess, then up to MaxIterations rounds in which every invalid
// partition is traced as a sub-problem and the union of all paths becomes
// the new chosen set. Sub-problems of one round run in parallel on at most
// Config.Workers goroutines and are merged in partition order. It ends with
// FixValences.
//
// ctx is checked between rounds and before each sub-problem.
func (t *Tracer) RecursiveProcess(ctx context.Context) error {
	t.Init(t.cfg.Drift)
	t.BatchProcess(true, false)
	total := t.GetCurrVertDir()

	for iter := 0; iter < t.cfg.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "tracer: recursive process")
		}
		todo := t.unsolved()
		if len(todo) == 0 {
			break
		}
		found, err := t.traceUnsolved(ctx, todo)
		if err != nil {
			return err
		}
		traced := false
		for _, traces := range found {
			traced = traced || len(traces) > 0
			total = append(total, traces...)
		}
		klog.V(2).Infof("tracer: round %d: %d unsolved patches, traced=%v", iter, len(todo), traced)
		if !traced {
			break
		}
		if err := t.SetChosenFromVertDir(total); err != nil {
			return err
		}
	}

	fixed := t.FixValences()
	klog.V(2).Infof("tracer: %d patches fixed, %d still unsolved", fixed, len(t.unsolved()))
	return nil
}

// traceUnsolved runs traceSubPatch over todo in parallel; the result is
// indexed like todo.
func (t *Tracer) traceUnsolved(ctx context.Context, todo []int) ([][]Trace, error) {
	t.UpdateChosenReceivers()

	found := make([][]Trace, len(todo))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(t.cfg.Workers)
	for k, i := range todo {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			traces, err := t.traceSubPatch(i)
			if err != nil {
				return err
			}
			found[k] = traces
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, errors.Wrap(err, "tracer: sub-patch tracing")
	}
	return found, nil
}

// GetCurrVertDir returns the chosen paths as (vertex, dir) sequences.
func (t *Tracer) GetCurrVertDir() []Trace {
	out := make([]Trace, len(t.chosen))
	for i, c := range t.chosen {
		steps := make([]VertDir, len(c.Nodes))
		for j, n := range c.Nodes {
			steps[j] = VertDir{V: fieldgraph.NodeVert(n), Dir: fieldgraph.NodeDir(n)}
		}
		out[i] = Trace{Steps: steps, IsLoop: c.IsLoop}
	}
	return out
}

// SetChosenFromVertDir replaces the chosen paths with traces, lowers the
// demand along them and recomputes the partitions. Traces are validated
// first; on error nothing changes.
func (t *Tracer) SetChosenFromVertDir(traces []Trace) error {
	chosen := make([]Candidate, 0, len(traces))
	for k, tr := range traces {
		if len(tr.Steps) < 2 {
			return errors.Wrapf(ErrTrace, "trace %d has %d steps", k, len(tr.Steps))
		}
		nodes := make([]int, len(tr.Steps))
		for j, s := range tr.Steps {
			if s.V < 0 || s.V >= t.m.NumVerts() || s.Dir < 0 || s.Dir >= fieldgraph.NumDirs {
				return errors.Wrapf(ErrTrace, "trace %d step %d: (%d, %d)", k, j, s.V, s.Dir)
			}
			nodes[j] = fieldgraph.Node(s.V, s.Dir)
		}
		chosen = append(chosen, Candidate{
			Nodes:   nodes,
			IsLoop:  tr.IsLoop,
			From:    t.classes[tr.Steps[0].V],
			To:      t.classes[tr.Steps[len(tr.Steps)-1].V],
			Method:  DirectWalk,
			Init:    nodes[0],
			Updated: true,
		})
	}
	t.chosen = chosen
	t.UpdateVertNeedsFromChosen()
	t.RetrievePartitions()
	return nil
}
