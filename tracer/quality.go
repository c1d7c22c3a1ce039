package tracer

import (
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/samber/lo"
)

// BorderStep is a directed edge of a patch boundary.
type BorderStep struct {
	A, B       int
	MeshBorder bool // on the surface boundary rather than on a chosen path
}

// PatchBorders walks the boundary loops of p and splits them into sides at
// the corners. A loop is entered on a step leaving a corner when it has one;
// a loop without corners is a single side.
func (t *Tracer) PatchBorders(p Partition) [][]BorderStep {
	in := hashset.New()
	for _, f := range p.Faces {
		in.Add(f)
	}
	var steps []BorderStep
	for _, f := range p.Faces {
		for j := 0; j < 3; j++ {
			mb := t.m.IsBorderEdge(f, j)
			if !mb && in.Contains(t.m.FaceFace(f, j)) {
				continue
			}
			a, b := t.m.EdgeVerts(f, j)
			steps = append(steps, BorderStep{A: a, B: b, MeshBorder: mb})
		}
	}

	corner := hashset.New()
	for _, c := range p.Corners {
		corner.Add(c)
	}
	from := make(map[int][]int)
	for i, s := range steps {
		from[s.A] = append(from[s.A], i)
	}
	used := make([]bool, len(steps))
	nextUnused := func(v int) int {
		for _, i := range from[v] {
			if !used[i] {
				return i
			}
		}
		return -1
	}
	firstUnused := func() int {
		fallback := -1
		for i, s := range steps {
			if used[i] {
				continue
			}
			if corner.Contains(s.A) {
				return i
			}
			if fallback < 0 {
				fallback = i
			}
		}
		return fallback
	}

	var sides [][]BorderStep
	for cur := firstUnused(); cur >= 0; cur = firstUnused() {
		var loop []BorderStep
		for ; cur >= 0; cur = nextUnused(steps[cur].B) {
			used[cur] = true
			loop = append(loop, steps[cur])
		}
		side := []BorderStep{loop[0]}
		for _, s := range loop[1:] {
			if corner.Contains(s.A) {
				sides = append(sides, side)
				side = nil
			}
			side = append(side, s)
		}
		sides = append(sides, side)
	}
	return sides
}

// splitSubSequences cuts side where it switches between the surface
// boundary and chosen paths.
func splitSubSequences(side []BorderStep) [][]BorderStep {
	var out [][]BorderStep
	start := 0
	for i := 1; i <= len(side); i++ {
		if i == len(side) || side[i].MeshBorder != side[i-1].MeshBorder {
			out = append(out, side[start:i])
			start = i
		}
	}
	return out
}

// sequenceLength returns the length along seq and the distance between its ends.
func (t *Tracer) sequenceLength(seq []BorderStep) (along, chord float64) {
	for _, s := range seq {
		along += t.m.EdgeLength(s.A, s.B)
	}
	chord = t.m.EdgeLength(seq[0].A, seq[len(seq)-1].B)
	return along, chord
}

// PatchQuality returns the length distortion of p, the worst ratio of a
// boundary piece's length over its chord (at least 1), and its length
// variance, the longest side over the shortest (1 without sides). Closed
// pieces have no chord and are skipped.
func (t *Tracer) PatchQuality(p Partition) (distortion, variance float64) {
	distortion, variance = 1, 1
	var sideLen []float64
	for _, side := range t.PatchBorders(p) {
		var total float64
		for _, seq := range splitSubSequences(side) {
			along, chord := t.sequenceLength(seq)
			total += along
			if chord > 0 {
				distortion = max(distortion, along/chord)
			}
		}
		sideLen = append(sideLen, total)
	}
	if len(sideLen) == 0 {
		return distortion, variance
	}
	if lo.Min(sideLen) > 0 {
		variance = lo.Max(sideLen) / lo.Min(sideLen)
	}
	return distortion, variance
}

// WorstPatchQuality returns the largest distortion and variance over parts,
// both at least 1. With onlyIrregular, 4-corner partitions are skipped.
func (t *Tracer) WorstPatchQuality(parts []Partition, onlyIrregular bool) (distortion, variance float64) {
	distortion, variance = 1, 1
	for _, p := range parts {
		if onlyIrregular && len(p.Corners) == 4 {
			continue
		}
		d, v := t.PatchQuality(p)
		distortion = max(distortion, d)
		variance = max(variance, v)
	}
	return distortion, variance
}
