package score

import (
	"math"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Weights are the scoring component weights. They must sum to 1.0.
type Weights struct {
	Experience float64 `yaml:"experience"`
	License    float64 `yaml:"license"`
	Bonding    float64 `yaml:"bonding"`
	Geography  float64 `yaml:"geography"`
	Reputation float64 `yaml:"reputation"`
}

// DefaultWeights returns the standard component weighting.
func DefaultWeights() Weights {
	return Weights{
		Experience: 0.30,
		License:    0.25,
		Bonding:    0.20,
		Geography:  0.15,
		Reputation: 0.10,
	}
}

const weightSumTolerance = 0.01

// Validate checks that all weights are non-negative and sum to 1.0 within
// tolerance.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"experience": w.Experience,
		"license":    w.License,
		"bonding":    w.Bonding,
		"geography":  w.Geography,
		"reputation": w.Reputation,
	} {
		if v < 0 {
			return eris.Errorf("score: weight %s is negative (%f)", name, v)
		}
	}

	sum := w.Experience + w.License + w.Bonding + w.Geography + w.Reputation
	if math.Abs(sum-1.0) > weightSumTolerance {
		return eris.Errorf("score: weights sum to %f, expected 1.0", sum)
	}
	return nil
}

// LoadWeights reads a YAML weights file and validates it.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, eris.Wrap(err, "score: read weights file")
	}

	var w Weights
	if err := yaml.Unmarshal(data, &w); err != nil {
		return Weights{}, eris.Wrap(err, "score: parse weights file")
	}
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}
