package tracer

import (
	"fmt"
	"sort"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/plan-systems/klog"
	"github.com/samber/lo"

	"github.com/katalvlaran/fieldpatch/emitter"
	"github.com/katalvlaran/fieldpatch/fieldgraph"
)

// removalState is the snapshot needed to undo a tentative removal.
type removalState struct {
	index int
	path  Candidate
}

// configuration counts the quality of a set of partitions.
type configuration struct {
	parts     []Partition
	nonProper int
	valence3  int
	valence5  int
	valence6  int
}

func (t *Tracer) configurationAround(faces []int) configuration {
	conf := configuration{parts: t.retrievePartitionsFrom(faces)}
	for _, p := range conf.parts {
		if p.Type != IsOK {
			conf.nonProper++
		}
		switch len(p.Corners) {
		case 3:
			conf.valence3++
		case 5:
			conf.valence5++
		case 6:
			conf.valence6++
		}
	}
	return conf
}

// pathFaces lists the faces on both sides of every edge of c.
func (t *Tracer) pathFaces(c Candidate) []int {
	var faces []int
	pathEdgePairs(c, func(n0, n1 int) {
		v0, v1 := fieldgraph.NodeVert(n0), fieldgraph.NodeVert(n1)
		for _, f := range t.m.VertFaces(v0) {
			fc := t.m.Face(f)
			if lo.Contains(fc[:], v1) {
				faces = append(faces, f)
			}
		}
	})
	return faces
}

func (t *Tracer) touchesDemandClass(c Candidate) bool {
	return lo.SomeBy(c.Nodes, func(n int) bool {
		return hasDemand(t.classes[fieldgraph.NodeVert(n)])
	})
}

func (t *Tracer) clearPath(i int) removalState {
	st := removalState{index: i, path: t.chosen[i]}
	t.chosen[i].Nodes = nil
	return st
}

func (t *Tracer) restore(st removalState) {
	t.chosen[st.index] = st.path
}

// RemoveIfPossible tentatively removes chosen path i and keeps the removal
// only when the surrounding partitions do not get worse.
//
// The path is kept when:
//   - it is empty or crosses a Narrow or Concave vertex;
//   - the removal leaves a T-junction;
//   - a surrounding partition ends up with 2 corners or fewer;
//   - the count of non-IsOK partitions grows;
//   - the valence policy of the config rejects the change;
//   - the worst irregular patch exceeds a configured length bound.
func (t *Tracer) RemoveIfPossible(i int) bool {
	c := t.chosen[i]
	if len(c.Nodes) == 0 || t.touchesDemandClass(c) {
		return false
	}
	faces := t.pathFaces(c)
	before := t.configurationAround(faces)

	st := t.clearPath(i)
	if t.HasTJunction() {
		t.restore(st)
		return false
	}
	after := t.configurationAround(faces)
	for _, p := range after.parts {
		if len(p.Corners) <= 2 {
			t.restore(st)
			return false
		}
	}
	if !t.removalAcceptable(before, after) {
		t.restore(st)
		return false
	}
	return true
}

func (t *Tracer) removalAcceptable(before, after configuration) bool {
	if after.nonProper > before.nonProper {
		return false
	}
	if t.cfg.AvoidIncreaseValence &&
		(after.valence3 > before.valence3 || after.valence5 > before.valence5 || after.valence6 > before.valence6) {
		return false
	}
	if t.cfg.AvoidCollapseIrregular && before.valence3+before.valence5+before.valence6 > 0 {
		return false
	}
	distortion, variance := t.WorstPatchQuality(after.parts, true)
	if t.cfg.MaxLengthDistortion > 1 && distortion > t.cfg.MaxLengthDistortion {
		return false
	}
	if t.cfg.MaxLengthVariance > 1 && variance > t.cfg.MaxLengthVariance {
		return false
	}
	return true
}

// RemoveIteration tries to remove every chosen path, last first, then merges
// contiguous paths and drops the emptied ones. It reports whether anything
// was removed.
func (t *Tracer) RemoveIteration() bool {
	removed := false
	for i := len(t.chosen) - 1; i >= 0; i-- {
		removed = t.RemoveIfPossible(i) || removed
	}
	t.MergeContiguousPaths()
	t.RemoveEmptyPaths()
	return removed
}

// RemovePaths runs RemoveIteration to a fixed point and recomputes the
// partitions. It reports whether any path was removed.
func (t *Tracer) RemovePaths() bool {
	changed := false
	for t.RemoveIteration() {
		changed = true
	}
	t.RetrievePartitions()
	return changed
}

// mergeContiguousStep splices the first pair of open paths where one ends
// on the node the other starts from.
func (t *Tracer) mergeContiguousStep() bool {
	for i := range t.chosen {
		for j := range t.chosen {
			a, b := &t.chosen[i], &t.chosen[j]
			if i == j || a.IsLoop || b.IsLoop || len(a.Nodes) == 0 || len(b.Nodes) == 0 {
				continue
			}
			switch {
			case a.Nodes[len(a.Nodes)-1] == b.Nodes[0]:
				a.Nodes = append(a.Nodes[:len(a.Nodes)-1:len(a.Nodes)-1], b.Nodes...)
				a.To = b.To
				b.Nodes = nil
				return true
			case b.Nodes[len(b.Nodes)-1] == a.Nodes[0]:
				b.Nodes = append(b.Nodes[:len(b.Nodes)-1:len(b.Nodes)-1], a.Nodes...)
				b.To = a.To
				a.Nodes = nil
				return true
			}
		}
	}
	return false
}

// MergeContiguousPaths merges open paths sharing an end node until none
// does. Merged-away paths are left empty. It reports whether any merge
// happened.
func (t *Tracer) MergeContiguousPaths() bool {
	merged := false
	for t.mergeContiguousStep() {
		merged = true
	}
	return merged
}

// RemoveEmptyPaths drops the chosen paths without nodes.
func (t *Tracer) RemoveEmptyPaths() {
	t.chosen = lo.Filter(t.chosen, func(c Candidate, _ int) bool { return len(c.Nodes) > 0 })
}

// crossingVerts marks the vertices crossed by two chosen nodes or more, and
// the border vertices crossed at all.
func (t *Tracer) crossingVerts() []bool {
	count := make([]int, t.m.NumVerts())
	for _, c := range t.chosen {
		for _, n := range c.Nodes {
			count[fieldgraph.NodeVert(n)]++
		}
	}
	sel := make([]bool, len(count))
	for v, k := range count {
		sel[v] = k >= 2 || (t.m.IsBorderVert(v) && k > 0)
	}
	return sel
}

// splitBySel cuts c at the selected vertices. A loop is rotated to start at
// its first selected node and kept whole when it has none or yields a
// single piece; an open path drops a trailing one-node piece.
func (t *Tracer) splitBySel(c Candidate, sel []bool) []Candidate {
	nodes := c.Nodes
	if len(nodes) == 0 {
		return nil
	}
	start := 0
	if c.IsLoop {
		start = lo.IndexOf(lo.Map(nodes, func(n int, _ int) bool { return sel[fieldgraph.NodeVert(n)] }), true)
		if start < 0 {
			return []Candidate{c}
		}
	}

	subs := [][]int{nil}
	for cur := start; ; {
		n := nodes[cur]
		if sel[fieldgraph.NodeVert(n)] && cur != start {
			subs[len(subs)-1] = append(subs[len(subs)-1], n)
			subs = append(subs, nil)
		}
		subs[len(subs)-1] = append(subs[len(subs)-1], n)
		if cur = (cur + 1) % len(nodes); cur == start {
			break
		}
	}
	if c.IsLoop {
		subs[len(subs)-1] = append(subs[len(subs)-1], nodes[start])
	} else if len(subs[len(subs)-1]) == 1 {
		subs = subs[:len(subs)-1]
	}

	pieces := make([]Candidate, 0, len(subs))
	for _, s := range subs {
		if len(s) < 2 {
			panic(fmt.Sprintf("tracer: split produced a %d-node piece", len(s)))
		}
		pieces = append(pieces, Candidate{
			Nodes:   s,
			From:    t.classes[fieldgraph.NodeVert(s[0])],
			To:      t.classes[fieldgraph.NodeVert(s[len(s)-1])],
			Method:  c.Method,
			Init:    s[0],
			Updated: true,
		})
	}
	if c.IsLoop && len(pieces) == 1 {
		return []Candidate{c}
	}
	return pieces
}

// SplitIntoSubPaths cuts every chosen path at the vertices crossed by
// another path, or by the mesh border, and recomputes the partitions.
func (t *Tracer) SplitIntoSubPaths() {
	sel := t.crossingVerts()
	var out []Candidate
	for _, c := range t.chosen {
		out = append(out, t.splitBySel(c, sel)...)
	}
	t.chosen = out
	t.RetrievePartitions()
}

// BatchRemoval removes redundant paths, optionally splits the survivors at
// crossings and removes again, then forces every corner count into range.
func (t *Tracer) BatchRemoval() {
	t.RemovePaths()
	if t.cfg.SplitOnRemoval {
		t.SplitIntoSubPaths()
		t.RemovePaths()
	}
	fixed := t.FixValences()
	klog.V(2).Infof("tracer: removal kept %d paths, fixed %d patches", len(t.chosen), fixed)
}

type angleVert struct {
	angle float64
	v     int
}

// FixCorners forces the corner count of partition i into
// [MinValence, MaxValence]. Missing corners are taken from the sharpest
// boundary vertices of the partition; extra corners are dropped from the
// flattest, Narrow, Concave and Convex vertices last. The partition type is
// recomputed. Panics when the range cannot be reached.
func (t *Tracer) FixCorners(i int) {
	p := &t.partitions[i]
	sub, vertMap, _, err := t.m.SubMesh(p.Faces)
	if err != nil {
		panic(fmt.Sprintf("tracer: partition %d: %v", i, err))
	}
	var av []angleVert
	for lv := 0; lv < sub.NumVerts(); lv++ {
		if sub.IsBorderVert(lv) {
			av = append(av, angleVert{angle: sub.AngleSum(lv), v: vertMap[lv]})
		}
	}
	sort.Slice(av, func(a, b int) bool {
		if av[a].angle != av[b].angle {
			return av[a].angle < av[b].angle
		}
		return av[a].v < av[b].v
	})
	if len(av) < 3 {
		panic(fmt.Sprintf("tracer: partition %d has %d boundary vertices", i, len(av)))
	}

	corners := treeset.NewWithIntComparator()
	addNodes(corners, p.Corners)
	minV, maxV := t.cfg.MinValence, t.cfg.MaxValence

	if corners.Size() < minV {
		for _, a := range av {
			if corners.Size() == minV {
				break
			}
			corners.Add(a.v)
		}
	} else if corners.Size() > maxV {
		av = lo.Reverse(av)
		keepSharp := func(v int) bool {
			c := t.classes[v]
			return c == emitter.Narrow || c == emitter.Concave || c == emitter.Convex
		}
		for pass := 0; pass < 2 && corners.Size() > maxV; pass++ {
			for _, a := range av {
				if corners.Size() == maxV {
					break
				}
				if !corners.Contains(a.v) || (pass == 0 && keepSharp(a.v)) {
					continue
				}
				corners.Remove(a.v)
			}
		}
	}
	if corners.Size() < minV || corners.Size() > maxV {
		panic(fmt.Sprintf("tracer: partition %d keeps %d corners outside [%d,%d]", i, corners.Size(), minV, maxV))
	}
	p.Corners = setInts(corners)
	p.Type = t.partitionType(*p)
}

// FixValences applies FixCorners to every partition whose corner count is
// out of range and returns how many were fixed.
func (t *Tracer) FixValences() int {
	fixed := 0
	for i, p := range t.partitions {
		if len(p.Corners) < t.cfg.MinValence || len(p.Corners) > t.cfg.MaxValence {
			t.FixCorners(i)
			fixed++
		}
	}
	return fixed
}
