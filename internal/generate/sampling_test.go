package generate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleDegenerateDistribution(t *testing.T) {
	// A certainty stays a certainty at any temperature: the zero
	// entries carry zero weight rather than a flattened floor, so even
	// extreme temperatures cannot resurrect them.
	sampler := NewSampler(42)
	preds := []float64{0, 0, 1, 0}

	for _, temp := range []float64{0.01, 0.2, 1.0, 5.0, 10.0, 100.0} {
		for i := 0; i < 10000; i++ {
			idx, err := sampler.Sample(preds, temp)
			require.NoError(t, err)
			require.Equal(t, 2, idx, "temperature %v", temp)
		}
	}
}

func TestSampleUniformAtTemperatureOne(t *testing.T) {
	sampler := NewSampler(7)
	preds := []float64{0.25, 0.25, 0.25, 0.25}

	const draws = 40000
	counts := make([]int, 4)
	for i := 0; i < draws; i++ {
		idx, err := sampler.Sample(preds, 1.0)
		require.NoError(t, err)
		counts[idx]++
	}

	// Each index should land near draws/4; 3 sigma for a binomial with
	// p=0.25 over 40000 draws is ~260.
	for i, c := range counts {
		assert.InDelta(t, draws/4, c, 400, "index %d frequency", i)
	}
}

func TestSampleLowTemperatureConvergesToArgMax(t *testing.T) {
	sampler := NewSampler(11)
	preds := []float64{0.2, 0.5, 0.3}

	hits := 0
	for i := 0; i < 1000; i++ {
		idx, err := sampler.Sample(preds, 0.01)
		require.NoError(t, err)
		if idx == 1 {
			hits++
		}
	}
	assert.Equal(t, 1000, hits, "temperature 0.01 should effectively always pick the mode")
}

func TestSampleHighTemperatureFlattens(t *testing.T) {
	sampler := NewSampler(13)
	preds := []float64{0.9, 0.05, 0.05}

	const draws = 20000
	nonMode := 0
	for i := 0; i < draws; i++ {
		idx, err := sampler.Sample(preds, 10.0)
		require.NoError(t, err)
		if idx != 0 {
			nonMode++
		}
	}
	// At t=10 the scaled distribution is close to uniform, so non-mode
	// indices should appear far more often than their raw 10% share.
	assert.Greater(t, float64(nonMode)/draws, 0.5)
}

func TestSampleRenormalizesUnnormalizedInput(t *testing.T) {
	sampler := NewSampler(17)
	// Sums to 30, heavily favoring index 1.
	preds := []float64{1, 28, 1}

	hits := 0
	for i := 0; i < 1000; i++ {
		idx, err := sampler.Sample(preds, 1.0)
		require.NoError(t, err)
		if idx == 1 {
			hits++
		}
	}
	assert.Greater(t, hits, 850)
}

func TestSampleZeroNeverDrawn(t *testing.T) {
	// A zero entry is excluded from the draw entirely; a denormal
	// positive entry is floored and stays vanishingly unlikely at
	// moderate temperatures.
	sampler := NewSampler(19)
	preds := []float64{0, 1e-30, 0.999}

	for _, temp := range []float64{0.8, 10.0} {
		for i := 0; i < 5000; i++ {
			idx, err := sampler.Sample(preds, temp)
			require.NoError(t, err)
			require.NotEqual(t, 0, idx, "temperature %v", temp)
		}
	}
}

func TestSampleAllZeroDistribution(t *testing.T) {
	sampler := NewSampler(29)
	_, err := sampler.Sample([]float64{0, 0, 0}, 1.0)
	assert.Error(t, err)
}

func TestSampleInvalidInputs(t *testing.T) {
	sampler := NewSampler(23)

	_, err := sampler.Sample(nil, 1.0)
	assert.Error(t, err)

	_, err = sampler.Sample([]float64{0.5, 0.5}, 0)
	assert.ErrorIs(t, err, ErrNonPositiveTemperature)

	_, err = sampler.Sample([]float64{0.5, 0.5}, -1)
	assert.ErrorIs(t, err, ErrNonPositiveTemperature)
}

func TestSampleSeededReproducibility(t *testing.T) {
	preds := []float64{0.3, 0.3, 0.4}

	a := NewSampler(99)
	b := NewSampler(99)
	for i := 0; i < 100; i++ {
		ia, err := a.Sample(preds, 1.2)
		require.NoError(t, err)
		ib, err := b.Sample(preds, 1.2)
		require.NoError(t, err)
		assert.Equal(t, ia, ib)
	}
}

func TestSampleTemperatureScalingMath(t *testing.T) {
	// At t=0.5 the distribution is proportional to p², at t=2 to sqrt(p).
	// Verify the mode frequency moves in the right direction for a
	// 2:1 distribution.
	preds := []float64{2.0 / 3.0, 1.0 / 3.0}

	freq := func(temp float64) float64 {
		s := NewSampler(31)
		hits := 0
		for i := 0; i < 20000; i++ {
			idx, err := s.Sample(preds, temp)
			require.NoError(t, err)
			if idx == 0 {
				hits++
			}
		}
		return float64(hits) / 20000
	}

	sharp := freq(0.5)  // expect 4/5
	normal := freq(1.0) // expect 2/3
	flat := freq(2.0)   // expect sqrt(2)/(sqrt(2)+1) ~ 0.586

	assert.InDelta(t, 0.8, sharp, 0.02)
	assert.InDelta(t, 2.0/3.0, normal, 0.02)
	assert.InDelta(t, math.Sqrt2/(math.Sqrt2+1), flat, 0.02)
}
