package uncertain

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summary holds the statistics printed for a quantity.
type Summary struct {
	Mean   float64
	StdDev float64
	P05    float64
	P50    float64
	P95    float64
}

// Mean returns the expected value. Closed-form values are exact; empirical
// values average their samples.
func (v *Value) Mean() float64 {
	switch {
	case v.isPoint():
		return v.pointValue()
	case v.family == FamilyGaussian:
		return v.mu
	case v.family == FamilyUniform:
		return (v.low + v.high) / 2
	default:
		return stat.Mean(v.samples, nil)
	}
}

// Variance returns the variance. Empirical values report the population
// variance of their samples, since each sample carries equal mass.
func (v *Value) Variance() float64 {
	switch {
	case v.isPoint():
		return 0
	case v.family == FamilyGaussian:
		return v.sigma * v.sigma
	case v.family == FamilyUniform:
		w := v.high - v.low
		return w * w / 12
	default:
		_, variance := stat.PopMeanVariance(v.samples, nil)
		return variance
	}
}

// StdDev returns the standard deviation.
func (v *Value) StdDev() float64 {
	if v.family == FamilyGaussian {
		return v.sigma
	}
	return math.Sqrt(v.Variance())
}

// Quantile returns the p-quantile for p in [0, 1].
func (v *Value) Quantile(p float64) (float64, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, invalidParameter("quantile must be within [0, 1]", p)
	}
	switch {
	case v.isPoint():
		return v.pointValue(), nil
	case v.family == FamilyGaussian:
		return distuv.Normal{Mu: v.mu, Sigma: v.sigma}.Quantile(p), nil
	case v.family == FamilyUniform:
		return distuv.Uniform{Min: v.low, Max: v.high}.Quantile(p), nil
	default:
		return stat.Quantile(p, stat.Empirical, v.sortedSamples(), nil), nil
	}
}

// Support returns the smallest and largest values the distribution can take.
// Gaussian supports are unbounded.
func (v *Value) Support() (lo, hi float64) {
	switch {
	case v.isPoint():
		c := v.pointValue()
		return c, c
	case v.family == FamilyGaussian:
		return math.Inf(-1), math.Inf(1)
	case v.family == FamilyUniform:
		return v.low, v.high
	default:
		return floats.Min(v.samples), floats.Max(v.samples)
	}
}

// Summary returns mean, standard deviation and the 5th, 50th and 95th percentiles.
func (v *Value) Summary() Summary {
	s := Summary{Mean: v.Mean(), StdDev: v.StdDev()}
	// Fixed percentiles are always within range.
	s.P05, _ = v.Quantile(0.05)
	s.P50, _ = v.Quantile(0.50)
	s.P95, _ = v.Quantile(0.95)
	return s
}
