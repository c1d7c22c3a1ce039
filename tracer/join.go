package tracer

import (
	"github.com/plan-systems/klog"

	"github.com/katalvlaran/fieldpatch/emitter"
)

// JoinConnection runs one phase: configure activity for (from, to), trace
// one candidate per emitter with method and accept a conflict-free subset.
// Phases touching Narrow or Concave accept shortest first, the others
// farthest first. Panics when (from, to) is not a known phase.
func (t *Tracer) JoinConnection(from, to emitter.VertexClass, method Method) bool {
	if from == emitter.Chosen || to == emitter.Chosen {
		t.UpdateChosenReceivers()
	}
	emit, receive, disable := t.configure(from, to)
	t.g.SetAllActive()
	t.g.SetDisabledNodes(disable)

	mode := Farthest
	if hasDemand(from) || hasDemand(to) {
		mode = Shortest
	}
	return t.traceFrom(from, to, method, emit, receive, mode)
}

// JoinNarrow connects Narrow vertices until a round accepts nothing. Each
// round tries, in order: a short-range search to Flat, then Narrow, Concave,
// a direct walk to Flat and a full search to Flat. It reports whether any
// path was added.
func (t *Tracer) JoinNarrow(updatePartitions bool) bool {
	return t.joinDemand(emitter.Narrow, []phaseStep{
		{to: emitter.Narrow, method: ConstrainedSearch},
		{to: emitter.Concave, method: ConstrainedSearch},
		{to: emitter.Flat, method: DirectWalk},
		{to: emitter.Flat, method: ConstrainedSearch},
	}, updatePartitions)
}

// JoinConcave is JoinNarrow for Concave vertices, without the Narrow target.
func (t *Tracer) JoinConcave(updatePartitions bool) bool {
	return t.joinDemand(emitter.Concave, []phaseStep{
		{to: emitter.Concave, method: ConstrainedSearch},
		{to: emitter.Flat, method: DirectWalk},
		{to: emitter.Flat, method: ConstrainedSearch},
	}, updatePartitions)
}

type phaseStep struct {
	to     emitter.VertexClass
	method Method
}

// joinDemand repeats a short-range Flat search followed by steps until a
// whole round joins nothing.
func (t *Tracer) joinDemand(from emitter.VertexClass, steps []phaseStep, updatePartitions bool) bool {
	before := len(t.chosen)
	for {
		w := t.maxNarrowWeight
		t.maxNarrowWeight = w / shortStep
		joined := t.JoinConnection(from, emitter.Flat, ConstrainedSearch)
		t.maxNarrowWeight = w

		for _, s := range steps {
			joined = t.JoinConnection(from, s.to, s.method) || joined
		}
		klog.V(2).Infof("tracer: %s round done, %d vertices still unsatisfied", from, t.UnsatisfiedNum())
		if !joined {
			break
		}
	}
	return t.finishJoin(before, updatePartitions)
}

// JoinBoundaries walks Flat emitters straight to Flat receivers until
// nothing joins. Node activity is restored afterwards.
func (t *Tracer) JoinBoundaries(updatePartitions bool) bool {
	snap := t.g.ActiveSnapshot()
	before := len(t.chosen)
	for t.JoinConnection(emitter.Flat, emitter.Flat, DirectWalk) {
	}
	t.g.RestoreActive(snap)
	return t.finishJoin(before, updatePartitions)
}

// TraceLoops closes loops through the Internal emitters and accepts them
// farthest first, without demand.
func (t *Tracer) TraceLoops(updatePartitions bool) bool {
	before := len(t.chosen)
	emit, receive, disable := t.configure(emitter.Internal, emitter.Internal)
	t.g.SetAllActive()
	t.g.SetDisabledNodes(disable)

	t.candidates = newCandidates(emitter.Internal, emitter.Internal, LoopSearch, emit)
	t.UpdateCandidates(receive)
	t.ExpandCandidates()
	t.ChooseGreedyByDistance(false)
	klog.V(2).Infof("tracer: loops: %d emitters, %d accepted", len(emit), len(t.chosen)-before)
	return t.finishJoin(before, updatePartitions)
}

func (t *Tracer) finishJoin(before int, updatePartitions bool) bool {
	changed := len(t.chosen) != before
	if changed && updatePartitions {
		t.RetrievePartitions()
	}
	return changed
}

// BatchProcess runs the whole tracing schedule: Narrow and Concave joins,
// loops, boundary joins, and Narrow or Concave retries while demand is
// left. With force, all-receivers mode is tried first at short range and
// again as a last resort.
func (t *Tracer) BatchProcess(updatePartitions, force bool) {
	if force {
		w := t.maxNarrowWeight
		t.allReceivers = true
		t.maxNarrowWeight = w / shortStep
		t.JoinNarrow(false)
		t.JoinConcave(false)
		t.maxNarrowWeight = w
		t.allReceivers = false
	}

	t.JoinNarrow(false)
	t.JoinConcave(false)
	t.TraceLoops(false)
	t.retryDemand()
	t.JoinBoundaries(false)
	t.retryDemand()

	if force {
		t.allReceivers = true
		t.retryDemand()
		t.allReceivers = false
	}

	if updatePartitions {
		t.RetrievePartitions()
		info := t.GetInfo()
		klog.V(2).Infof("tracer: %d paths, %d patches, %d with emitters, %d low, %d high, %d non-disk",
			len(t.chosen), info.NumPatches, info.HasEmit, info.LowC, info.HighC, info.NonDisk)
	}
}

// retryDemand reruns the Narrow and Concave joins while demand is left.
func (t *Tracer) retryDemand() {
	if t.UnsatisfiedNum() > 0 {
		t.JoinNarrow(false)
	}
	if t.UnsatisfiedNum() > 0 {
		t.JoinConcave(false)
	}
}
