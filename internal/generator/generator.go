// Package generator produces mock scored results for a sweep definition.
// Real backtesting is out of scope; scores come from a synthetic surface
// with a randomly placed peak so heatmaps show a plausible best cluster.
package generator

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/quantlab/sandbox-backend-go/internal/models"
	"github.com/quantlab/sandbox-backend-go/internal/stats"
)

// MaxCombinations caps the cartesian expansion of a sweep so a careless
// parameter grid cannot exhaust memory
const MaxCombinations = 20000

const noiseAmplitude = 0.08

// Generator produces deterministic mock results for sweep definitions
type Generator struct {
	seed int64
}

// New creates a generator. The same seed always yields the same parameter
// combinations and scores for the same sweep definition; only the opaque
// result IDs differ between runs.
func New(seed int64) *Generator {
	return &Generator{seed: seed}
}

// Generate expands the sweep's parameter grid into scored combinations.
// The score surface peaks at a seed-chosen point in parameter space with
// small noise on top; for "min" direction the surface is inverted so lower
// scores mark the peak.
func (g *Generator) Generate(sweep models.Sweep) []models.Result {
	if len(sweep.Params) == 0 {
		return nil
	}

	values := make([][]float64, len(sweep.Params))
	total := 1
	for i, spec := range sweep.Params {
		values[i] = spec.Values()
		if total < MaxCombinations {
			total *= len(values[i])
		}
	}
	if total > MaxCombinations {
		total = MaxCombinations
	}

	rng := rand.New(rand.NewSource(g.seed ^ hashString(sweep.ID)))

	// Pick the peak location per parameter, as a fraction of its range
	peaks := make([]float64, len(sweep.Params))
	for i := range peaks {
		peaks[i] = rng.Float64()
	}

	results := make([]models.Result, 0, total)
	indices := make([]int, len(sweep.Params))
	for len(results) < total {
		params := make(map[string]float64, len(sweep.Params))
		score := 0.0
		for i, spec := range sweep.Params {
			v := values[i][indices[i]]
			params[spec.Key] = v
			t := stats.Normalize(v, spec.Min, spec.Max)
			d := t - peaks[i]
			score += d * d
		}
		// Quadratic bowl around the peak, normalized to roughly [0,1]
		score = 1 - score/float64(len(sweep.Params))
		score += (rng.Float64()*2 - 1) * noiseAmplitude
		if sweep.ScoreDirection == models.ScoreDirectionMin {
			score = 1 - score
		}

		results = append(results, models.Result{
			ID:     uuid.NewString(),
			Params: params,
			Score:  score,
		})

		// Advance the cartesian counter
		i := len(indices) - 1
		for i >= 0 {
			indices[i]++
			if indices[i] < len(values[i]) {
				break
			}
			indices[i] = 0
			i--
		}
		if i < 0 {
			break
		}
	}
	return results
}

// hashString folds a string into an int64 for seeding (FNV-1a)
func hashString(s string) int64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return int64(h)
}
