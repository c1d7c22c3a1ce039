package tracer

import (
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/plan-systems/klog"

	"github.com/katalvlaran/fieldpatch/emitter"
	"github.com/katalvlaran/fieldpatch/fieldgraph"
	"github.com/katalvlaran/fieldpatch/mesh"
)

// edgeEnd keys one endpoint of an edge.
type edgeEnd struct {
	e mesh.Edge
	v int
}

// pathEdgePairs calls fn for every consecutive node pair of c, closing loops.
func pathEdgePairs(c Candidate, fn func(n0, n1 int)) {
	if len(c.Nodes) == 0 {
		return
	}
	limit := len(c.Nodes) - 1
	if c.IsLoop {
		limit++
	}
	for i := 0; i < limit; i++ {
		fn(c.Nodes[i], c.Nodes[(i+1)%len(c.Nodes)])
	}
}

// cutEdges returns the mesh border edges together with the chosen path edges.
func (t *Tracer) cutEdges() *hashset.Set {
	cuts := hashset.New()
	for f := 0; f < t.m.NumFaces(); f++ {
		for j := 0; j < 3; j++ {
			if t.m.IsBorderEdge(f, j) {
				cuts.Add(mesh.MakeEdge(t.m.EdgeVerts(f, j)))
			}
		}
	}
	for _, c := range t.chosen {
		pathEdgePairs(c, func(n0, n1 int) {
			cuts.Add(mesh.MakeEdge(fieldgraph.NodeVert(n0), fieldgraph.NodeVert(n1)))
		})
	}
	return cuts
}

// SelectBorders reports whether the cuts are consistent: no vertex off the
// mesh border may end exactly one cut edge.
func (t *Tracer) SelectBorders() bool {
	cuts := t.cutEdges()
	numSel := make([]int, t.m.NumVerts())
	for f := 0; f < t.m.NumFaces(); f++ {
		for j := 0; j < 3; j++ {
			v0, v1 := t.m.EdgeVerts(f, j)
			if t.m.IsBorderEdge(f, j) || !cuts.Contains(mesh.MakeEdge(v0, v1)) {
				continue
			}
			numSel[v0]++
			numSel[v1]++
		}
	}
	for v, k := range numSel {
		// Interior edges are seen from both faces.
		if !t.m.IsBorderVert(v) && k == 2 {
			return false
		}
	}
	return true
}

// HasTJunction reports whether a vertex off the border is the endpoint of
// exactly one chosen path edge.
func (t *Tracer) HasTJunction() bool {
	count := make([]int, t.m.NumVerts())
	for _, c := range t.chosen {
		pathEdgePairs(c, func(n0, n1 int) {
			count[fieldgraph.NodeVert(n0)]++
			count[fieldgraph.NodeVert(n1)]++
		})
	}
	for v, k := range count {
		if !t.m.IsBorderVert(v) && k == 1 {
			return true
		}
	}
	return false
}

// RetrievePartitions recomputes every partition, its corners and type from
// the chosen paths. It reports whether the cuts were consistent; an
// inconsistent cut set is logged and partitioned anyway.
func (t *Tracer) RetrievePartitions() bool {
	ok := t.SelectBorders()
	if !ok {
		klog.Warningf("tracer: chosen paths leave a dangling endpoint inside the surface")
	}
	cuts := t.cutEdges()
	t.partitions = t.floodPartitions(cuts, allFaces(t.m.NumFaces()))
	t.faceToPartition = make([]int, t.m.NumFaces())
	for i, p := range t.partitions {
		for _, f := range p.Faces {
			t.faceToPartition[f] = i
		}
	}
	t.classifyPartitions(cuts, t.partitions)
	return ok
}

// retrievePartitionsFrom extracts the partitions reached from start faces,
// with corners and types, without touching the tracer state.
func (t *Tracer) retrievePartitionsFrom(start []int) []Partition {
	cuts := t.cutEdges()
	parts := t.floodPartitions(cuts, start)
	t.classifyPartitions(cuts, parts)
	return parts
}

func allFaces(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// floodPartitions grows one partition from every start face not reached yet,
// crossing uncut edges only.
func (t *Tracer) floodPartitions(cuts *hashset.Set, start []int) []Partition {
	seen := make([]bool, t.m.NumFaces())
	var parts []Partition
	for _, f0 := range start {
		if seen[f0] {
			continue
		}
		seen[f0] = true
		stack := []int{f0}
		var faces []int
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			faces = append(faces, f)
			for j := 0; j < 3; j++ {
				if t.m.IsBorderEdge(f, j) || cuts.Contains(mesh.MakeEdge(t.m.EdgeVerts(f, j))) {
					continue
				}
				if next := t.m.FaceFace(f, j); !seen[next] {
					seen[next] = true
					stack = append(stack, next)
				}
			}
		}
		parts = append(parts, Partition{Faces: faces})
	}
	return parts
}

func (t *Tracer) classifyPartitions(cuts *hashset.Set, parts []Partition) {
	dirs := t.edgeDirParity()
	for i := range parts {
		parts[i].Corners = t.partitionCorners(cuts, dirs, parts[i].Faces)
		parts[i].Type = t.partitionType(parts[i])
	}
}

// edgeDirParity records, for both endpoints of every cut edge, the field
// axis the edge runs along as seen from that endpoint. Chosen paths come
// first and the first record wins.
func (t *Tracer) edgeDirParity() map[edgeEnd]int {
	dirs := make(map[edgeEnd]int)
	set := func(e mesh.Edge, v, d int) {
		k := edgeEnd{e: e, v: v}
		if _, ok := dirs[k]; !ok {
			dirs[k] = d % 2
		}
	}
	for _, c := range t.chosen {
		pathEdgePairs(c, func(n0, n1 int) {
			v0, v1 := fieldgraph.NodeVert(n0), fieldgraph.NodeVert(n1)
			e := mesh.MakeEdge(v0, v1)
			set(e, v0, fieldgraph.NodeDir(n0))
			set(e, v1, fieldgraph.NodeDir(n1))
		})
	}
	for _, h := range t.m.BorderHalfEdges() {
		v0, v1 := t.m.EdgeVerts(h.F, h.J)
		d0, d1 := emitter.EdgeDirs(t.g, v0, v1)
		e := mesh.MakeEdge(v0, v1)
		set(e, v0, d0)
		set(e, v1, d1)
	}
	return dirs
}

// partitionCorners lists the Convex vertices on the cuts of faces and the
// vertices where cuts along both field axes meet.
func (t *Tracer) partitionCorners(cuts *hashset.Set, dirs map[edgeEnd]int, faces []int) []int {
	corners := treeset.NewWithIntComparator()
	parity := make(map[int]*hashset.Set)
	for _, f := range faces {
		for j := 0; j < 3; j++ {
			v0, v1 := t.m.EdgeVerts(f, j)
			e := mesh.MakeEdge(v0, v1)
			if !cuts.Contains(e) {
				continue
			}
			for _, v := range [2]int{v0, v1} {
				if t.classes[v] == emitter.Convex {
					corners.Add(v)
					continue
				}
				d, ok := dirs[edgeEnd{e: e, v: v}]
				if !ok {
					continue
				}
				if parity[v] == nil {
					parity[v] = hashset.New()
				}
				parity[v].Add(d)
			}
		}
	}
	for v, s := range parity {
		if s.Size() > 1 {
			corners.Add(v)
		}
	}
	return setInts(corners)
}

// partitionType tags p, first match wins: outstanding demand, corner count
// out of range, non-disk topology.
func (t *Tracer) partitionType(p Partition) PatchType {
	for _, f := range p.Faces {
		for _, v := range t.m.Face(f) {
			if t.needs[v] > 0 {
				return HasEmitter
			}
		}
	}
	switch {
	case len(p.Corners) < t.cfg.MinValence:
		return LowCorners
	case len(p.Corners) > t.cfg.MaxValence:
		return HighCorners
	case t.m.EulerCharacteristic(p.Faces) != 1:
		return NonDisk
	}
	return IsOK
}

// GetVisualPartitions returns the faces, corners and type of every partition
// as parallel slices.
func (t *Tracer) GetVisualPartitions() (faces, corners [][]int, types []PatchType) {
	for _, p := range t.Partitions() {
		faces = append(faces, p.Faces)
		corners = append(corners, p.Corners)
		types = append(types, p.Type)
	}
	return faces, corners, types
}

// HasIncompleteEmitter reports whether a partition still has outstanding demand.
func (t *Tracer) HasIncompleteEmitter() bool {
	for _, p := range t.partitions {
		if p.Type == HasEmitter {
			return true
		}
	}
	return false
}

// HasTerminated reports whether every partition is IsOK.
func (t *Tracer) HasTerminated() bool {
	for _, p := range t.partitions {
		if p.Type != IsOK {
			return false
		}
	}
	return true
}

// unsolved lists the indices of the partitions that are not IsOK.
func (t *Tracer) unsolved() []int {
	var out []int
	for i, p := range t.partitions {
		if p.Type != IsOK {
			out = append(out, i)
		}
	}
	return out
}
