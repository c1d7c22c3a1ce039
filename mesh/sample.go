package mesh

import (
	"math"
	"math/rand"
	"sort"

	"github.com/dhconnelly/rtreego"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

const (
	// dartsPerSample bounds the rejection attempts per requested sample.
	dartsPerSample = 30
	// radiusScale relates the exclusion radius to the mean area per sample.
	radiusScale = 0.75
)

// sampleItem is an accepted Poisson sample stored in the exclusion r-tree.
type sampleItem struct {
	p    v3.Vec
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (it *sampleItem) Bounds() rtreego.Rect { return it.rect }

// PoissonSample returns up to n surface points whose pairwise distance is at
// least radiusScale·sqrt(A/n), where A is the total area.
//
// Darts are placed area-uniformly with a rand.Rand seeded from seed, so the
// same mesh and seed always yield the same samples in the same order.
func (m *Mesh) PoissonSample(n int, seed int64) []v3.Vec {
	if n <= 0 {
		return nil
	}
	total := m.TotalArea()
	if total <= 0 {
		return nil
	}
	radius := radiusScale * math.Sqrt(total/float64(n))

	// 1) Cumulative area table for face selection.
	cum := make([]float64, len(m.faces))
	acc := 0.0
	for f, a := range m.area {
		acc += a
		cum[f] = acc
	}

	rng := rand.New(rand.NewSource(seed))
	tree := rtreego.NewTree(3, rtreeMinBranch, rtreeMaxBranch)
	out := make([]v3.Vec, 0, n)

	// 2) Dart throwing with nearest-sample rejection.
	for try := 0; try < n*dartsPerSample && len(out) < n; try++ {
		f := sort.SearchFloat64s(cum, rng.Float64()*acc)
		if f >= len(cum) {
			f = len(cum) - 1
		}
		p := m.randomPointIn(f, rng)

		if nn := tree.NearestNeighbor(toPoint(p)); nn != nil {
			if nn.(*sampleItem).p.Sub(p).Length() < radius {
				continue
			}
		}
		tree.Insert(&sampleItem{p: p, rect: toPoint(p).ToRect(pointTol)})
		out = append(out, p)
	}
	return out
}

// randomPointIn draws a uniform point inside face f.
func (m *Mesh) randomPointIn(f int, rng *rand.Rand) v3.Vec {
	u, w := rng.Float64(), rng.Float64()
	if u+w > 1 {
		u, w = 1-u, 1-w
	}
	fc := m.faces[f]
	p0 := m.verts[fc[0]]
	e1 := m.verts[fc[1]].Sub(p0)
	e2 := m.verts[fc[2]].Sub(p0)
	return p0.Add(e1.MulScalar(u)).Add(e2.MulScalar(w))
}
