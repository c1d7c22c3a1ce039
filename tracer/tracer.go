package tracer

import (
	"math"

	"github.com/katalvlaran/fieldpatch/emitter"
	"github.com/katalvlaran/fieldpatch/fieldgraph"
	"github.com/katalvlaran/fieldpatch/mesh"
)

// Tracer is the orchestrator over one field graph.
type Tracer struct {
	g   *fieldgraph.Graph
	m   *mesh.Mesh
	cfg Config

	classes []emitter.VertexClass
	roles   *emitter.Roles
	needs   []int

	candidates []Candidate
	chosen     []Candidate

	partitions      []Partition
	faceToPartition []int

	drift           float64
	maxNarrowWeight float64
	allReceivers    bool
	currDist        []float64
}

// New validates cfg and returns a Tracer over g, initialized with cfg.Drift.
// The tracer takes ownership of the activity and selection flags of g.
func New(g *fieldgraph.Graph, cfg Config) (*Tracer, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Tracer{g: g, m: g.Mesh(), cfg: cfg}
	t.Init(cfg.Drift)
	return t, nil
}

// Init classifies the mesh, derives emitter and receiver roles, resets
// demand and drops every candidate, chosen path and partition.
func (t *Tracer) Init(drift float64) {
	t.drift = drift
	setup := emitter.Prepare(t.g, t.emitterOptions())
	t.classes, t.roles, t.needs = setup.Classes, setup.Roles, setup.Needs
	t.candidates, t.chosen = nil, nil
	t.partitions, t.faceToPartition = nil, nil
	t.currDist = nil
	t.allReceivers = false
	t.maxNarrowWeight = math.Sqrt(t.m.TotalArea()) * narrowWeightFactor * drift
}

func (t *Tracer) emitterOptions() emitter.Options {
	opts := emitter.DefaultOptions()
	opts.SampleRatio = t.cfg.SampleRatio
	opts.SampleSeed = t.cfg.SampleSeed
	return opts
}

// Graph returns the underlying field graph.
func (t *Tracer) Graph() *fieldgraph.Graph { return t.g }

// Mesh returns the traced surface.
func (t *Tracer) Mesh() *mesh.Mesh { return t.m }

// Config returns the policy the tracer was built with.
func (t *Tracer) Config() Config { return t.cfg }

// Drift returns the drift penalty set by Init.
func (t *Tracer) Drift() float64 { return t.drift }

// MaxNarrowWeight returns the weight ceiling of constrained searches.
func (t *Tracer) MaxNarrowWeight() float64 { return t.maxNarrowWeight }

// Classes returns a copy of the vertex classification.
func (t *Tracer) Classes() []emitter.VertexClass {
	return append([]emitter.VertexClass(nil), t.classes...)
}

// Needs returns a copy of the per-vertex demand.
func (t *Tracer) Needs() []int { return append([]int(nil), t.needs...) }

// Roles returns a copy of the emitter and receiver tables.
func (t *Tracer) Roles() *emitter.Roles { return t.roles.Clone() }

// Chosen returns a copy of the accepted paths.
func (t *Tracer) Chosen() []Candidate { return cloneCandidates(t.chosen) }

// Candidates returns a copy of the candidates left by the last phase.
func (t *Tracer) Candidates() []Candidate { return cloneCandidates(t.candidates) }

// Partitions returns a copy of the current partitions.
func (t *Tracer) Partitions() []Partition {
	out := make([]Partition, len(t.partitions))
	for i, p := range t.partitions {
		out[i] = Partition{
			Faces:   append([]int(nil), p.Faces...),
			Corners: append([]int(nil), p.Corners...),
			Type:    p.Type,
		}
	}
	return out
}

// FacePartition returns the partition index of every face, or nil before
// the first retrieval.
func (t *Tracer) FacePartition() []int {
	if t.faceToPartition == nil {
		return nil
	}
	return append([]int(nil), t.faceToPartition...)
}

func cloneCandidates(cs []Candidate) []Candidate {
	out := make([]Candidate, len(cs))
	for i, c := range cs {
		out[i] = c.clone()
	}
	return out
}
