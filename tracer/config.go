package tracer

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the tracing and repair policy.
type Config struct {
	// SplitOnRemoval splits chosen paths at crossings between two removal passes.
	SplitOnRemoval bool `yaml:"split_on_removal"`
	// AvoidIncreaseValence rejects removals that add 3, 5 or 6-corner patches.
	AvoidIncreaseValence bool `yaml:"avoid_increase_valence"`
	// AvoidCollapseIrregular rejects removals next to any irregular patch.
	AvoidCollapseIrregular bool `yaml:"avoid_collapse_irregular"`
	// MaxLengthDistortion bounds side length over chord; applied when > 1.
	MaxLengthDistortion float64 `yaml:"max_length_distortion"`
	// MaxLengthVariance bounds longest over shortest side; applied when > 1.
	MaxLengthVariance float64 `yaml:"max_length_variance"`
	// SampleRatio scales internal emitter sampling; ≥ 1 uses every vertex.
	SampleRatio float64 `yaml:"sample_ratio"`
	MinValence  int     `yaml:"min_valence"`
	MaxValence  int     `yaml:"max_valence"`
	// AllReceivers enables the all-receivers fallback of BatchProcess.
	AllReceivers bool    `yaml:"all_receivers"`
	Drift        float64 `yaml:"drift"`
	// MaxIterations caps the outer loop of RecursiveProcess.
	MaxIterations int   `yaml:"max_iterations"`
	Workers       int   `yaml:"workers"`
	SampleSeed    int64 `yaml:"sample_seed"`
}

// DefaultConfig returns the stock policy: valence range [3,6], drift 100,
// distortion bound 1.2, no variance bound, 8 outer iterations and one worker
// per CPU.
func DefaultConfig() Config {
	return Config{
		SplitOnRemoval:         false,
		AvoidIncreaseValence:   true,
		AvoidCollapseIrregular: false,
		MaxLengthDistortion:    1.2,
		MaxLengthVariance:      -1,
		SampleRatio:            0.2,
		MinValence:             3,
		MaxValence:             6,
		AllReceivers:           false,
		Drift:                  100,
		MaxIterations:          8,
		Workers:                max(runtime.NumCPU(), 1),
		SampleSeed:             0,
	}
}

// Validate reports the first out-of-range field, wrapping ErrConfig.
func (c Config) Validate() error {
	switch {
	case c.MinValence < 3:
		return errors.Wrapf(ErrConfig, "min_valence=%d (must be ≥ 3)", c.MinValence)
	case c.MaxValence < c.MinValence:
		return errors.Wrapf(ErrConfig, "max_valence=%d below min_valence=%d", c.MaxValence, c.MinValence)
	case c.Drift <= 0:
		return errors.Wrapf(ErrConfig, "drift=%g (must be > 0)", c.Drift)
	case c.SampleRatio <= 0:
		return errors.Wrapf(ErrConfig, "sample_ratio=%g (must be > 0)", c.SampleRatio)
	case c.MaxIterations < 1:
		return errors.Wrapf(ErrConfig, "max_iterations=%d (must be ≥ 1)", c.MaxIterations)
	case c.Workers < 1:
		return errors.Wrapf(ErrConfig, "workers=%d (must be ≥ 1)", c.Workers)
	}
	return nil
}

// ParseConfig overlays YAML data on DefaultConfig and validates the result.
// Keys absent from data keep their default.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "tracer: parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the YAML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "tracer: read config %s", path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "tracer: load config %s", path)
	}
	return cfg, nil
}
