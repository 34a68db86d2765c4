// Package generate implements temperature sampling and autoregressive
// character generation on top of a trained next-character model.
package generate

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// probEpsilon is the floor applied to tiny positive probabilities
// before taking the logarithm, so denormal model outputs cannot
// destabilize the renormalization. Exact zeros are not floored: an
// impossible outcome stays impossible at every temperature.
const probEpsilon = 1e-12

// ErrNonPositiveTemperature is returned for temperature values <= 0.
var ErrNonPositiveTemperature = errors.New("temperature must be > 0")

// Sampler draws character indices from model output distributions.
//
// Temperature reshapes the distribution before the draw: values below 1
// sharpen it toward the mode (conservative, closer to memorized text),
// values above 1 flatten it (more novel, more error-prone).
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler. Seed >= 0 gives a reproducible stream;
// -1 seeds from the global source.
func NewSampler(seed int64) *Sampler {
	if seed < 0 {
		seed = rand.Int63()
	}
	return &Sampler{rng: rand.New(rand.NewSource(seed))} //nolint:gosec // sampling, not cryptography
}

// Sample draws one index from a probability-like vector at the given
// temperature.
//
// The input need not sum to one; it is renormalized internally:
//
//	p[i] = exp(ln(preds[i]) / t) / sum_j exp(ln(preds[j]) / t)
//
// which is a temperature-scaled softmax re-application in float64, so
// small temperatures over low-probability entries do not underflow.
//
// Entries that are exactly zero (or negative) carry zero weight and are
// never drawn, no matter how high the temperature.
func (s *Sampler) Sample(preds []float64, temperature float64) (int, error) {
	if len(preds) == 0 {
		return 0, errors.New("sample: empty distribution")
	}
	if temperature <= 0 {
		return 0, fmt.Errorf("sample: %w, got %v", ErrNonPositiveTemperature, temperature)
	}

	logp := make([]float64, len(preds))
	maxLog := math.Inf(-1)
	for i, p := range preds {
		if p <= 0 {
			logp[i] = math.Inf(-1)
			continue
		}
		if p < probEpsilon {
			p = probEpsilon
		}
		logp[i] = math.Log(p) / temperature
		if logp[i] > maxLog {
			maxLog = logp[i]
		}
	}
	if math.IsInf(maxLog, -1) {
		return 0, errors.New("sample: no positive probability in distribution")
	}

	sum := 0.0
	last := 0
	for i, lp := range logp {
		if math.IsInf(lp, -1) {
			logp[i] = 0
			continue
		}
		logp[i] = math.Exp(lp - maxLog)
		sum += logp[i]
		if logp[i] > 0 {
			last = i
		}
	}

	// Single categorical draw via the cumulative distribution.
	r := s.rng.Float64() * sum
	cum := 0.0
	for i, p := range logp {
		if p == 0 {
			continue
		}
		cum += p
		if r < cum {
			return i, nil
		}
	}
	return last, nil // guard against accumulated rounding
}
