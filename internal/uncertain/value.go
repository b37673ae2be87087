// Package uncertain implements scalar values that carry a probability
// distribution instead of a single number.
//
// # Representation
//
// A Value is either closed-form (a point mass, a Gaussian or a continuous
// uniform, described by its parameters) or empirical (an ordered sequence of
// equally likely samples). Arithmetic keeps values closed-form while an
// exact analytic rule exists and otherwise falls back to Monte Carlo
// propagation over sample sequences.
//
// # Pairing
//
// Sample-based operations pair operand samples by index. Values built by
// separate constructor calls are independent. A derived value stays linked
// to the values it was computed from:
//
//   - closed-form results of an affine operation (x + c, c·x, x - y where
//     y is itself derived from x) keep the seed of their source, so their
//     samples are the same affine image of the source's samples;
//   - sampled results are stored index-aligned with the operands' samples.
//
// Two empirical values of the same size pair their stored samples directly;
// every other combination materializes both operands at the engine's
// canonical sample size S. Empirical values of one size are resampled to S
// through the same engine-wide index map, so values aligned at their own
// size stay aligned at S. A result that lost pairs to the skip policy has a
// new size and starts a new lineage.
//
// # Decisions
//
// Comparisons (GreaterThan, Compare, Sign) compare means. ProbGreaterThan
// reports P(A > B) for display but is never used for branching.
package uncertain

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
)

// Family identifies how a value is represented.
type Family int

const (
	FamilyUnspecified Family = iota
	FamilyPoint
	FamilyGaussian
	FamilyUniform
	FamilyEmpirical
)

func (f Family) String() string {
	switch f {
	case FamilyUnspecified:
		return "Unspecified"
	case FamilyPoint:
		return "Point"
	case FamilyGaussian:
		return "Gaussian"
	case FamilyUniform:
		return "Uniform"
	case FamilyEmpirical:
		return "Empirical"
	default:
		return "Unknown"
	}
}

// Value is an immutable uncertain scalar. The zero value is not usable;
// build values with an Engine or the package-level constructors.
type Value struct {
	engine *Engine
	family Family
	seed   int64

	// point: mu. gaussian: mu, sigma. uniform: low, high.
	mu, sigma float64
	low, high float64
	// flip negates the standard draw; set by affine maps with a negative factor.
	flip bool

	// empirical samples, never mutated after construction.
	samples []float64
	skipped int

	drawOnce sync.Once
	drawn    []float64
	sortOnce sync.Once
	sorted   []float64
}

// Gaussian returns N(mean, stddev²) from the default engine.
func Gaussian(mean, stddev float64) (*Value, error) {
	return defaultEngine.Gaussian(mean, stddev)
}

// Uniform returns U[low, high] from the default engine.
func Uniform(low, high float64) (*Value, error) {
	return defaultEngine.Uniform(low, high)
}

// FromSamples returns the empirical distribution of samples from the default engine.
func FromSamples(samples []float64) (*Value, error) {
	return defaultEngine.FromSamples(samples)
}

// Constant returns a point mass at c from the default engine.
func Constant(c float64) (*Value, error) {
	return defaultEngine.Constant(c)
}

// Gaussian returns N(mean, stddev²). A zero stddev yields a degenerate
// Gaussian that combines like a point mass.
func (e *Engine) Gaussian(mean, stddev float64) (*Value, error) {
	if !finite(mean) || !finite(stddev) {
		return nil, invalidParameter("gaussian parameters must be finite", mean, stddev)
	}
	if stddev < 0 {
		return nil, invalidParameter("stddev must be non-negative", mean, stddev)
	}
	return e.gaussian(mean, stddev), nil
}

// Uniform returns the continuous uniform distribution on [low, high].
func (e *Engine) Uniform(low, high float64) (*Value, error) {
	if !finite(low) || !finite(high) {
		return nil, invalidParameter("uniform bounds must be finite", low, high)
	}
	if low > high {
		return nil, invalidParameter("low must not exceed high", low, high)
	}
	return e.uniform(low, high), nil
}

// FromSamples returns the distribution placing equal mass on every sample.
// The samples are copied.
func (e *Engine) FromSamples(samples []float64) (*Value, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyInput
	}
	for i, s := range samples {
		if !finite(s) {
			return nil, invalidParameter(fmt.Sprintf("sample %d is not finite", i), s)
		}
	}
	owned := make([]float64, len(samples))
	copy(owned, samples)
	return e.empirical(owned, 0), nil
}

// Constant returns a point mass at c.
func (e *Engine) Constant(c float64) (*Value, error) {
	if !finite(c) {
		return nil, invalidParameter("constant must be finite", c)
	}
	return e.point(c), nil
}

func (e *Engine) point(c float64) *Value {
	return &Value{engine: e, family: FamilyPoint, mu: c}
}

func (e *Engine) gaussian(mean, stddev float64) *Value {
	return &Value{engine: e, family: FamilyGaussian, seed: e.nextSeed(), mu: mean, sigma: stddev}
}

func (e *Engine) uniform(low, high float64) *Value {
	return &Value{engine: e, family: FamilyUniform, seed: e.nextSeed(), low: low, high: high}
}

// empirical takes ownership of samples.
func (e *Engine) empirical(samples []float64, skipped int) *Value {
	return &Value{engine: e, family: FamilyEmpirical, samples: samples, skipped: skipped}
}

// coef returns alpha and beta such that every sample of a Gaussian or
// uniform v is alpha + beta·x, with x the standard draw from v's seed
// (N(0, 1) or U[0, 1]).
func (v *Value) coef() (alpha, beta float64) {
	switch v.family {
	case FamilyGaussian:
		if v.flip {
			return v.mu, -v.sigma
		}
		return v.mu, v.sigma
	case FamilyUniform:
		if v.flip {
			return v.high, v.low - v.high
		}
		return v.low, v.high - v.low
	default:
		return v.pointValue(), 0
	}
}

// derive returns alpha + beta·x over the standard draw of parent. The
// result shares parent's seed and family; a zero beta gives a point mass.
func derive(parent *Value, alpha, beta float64) (*Value, error) {
	if !finite(alpha) || !finite(beta) {
		return nil, invalidParameter("derived parameters are not finite", alpha, beta)
	}
	e := parent.engine
	if beta == 0 {
		return e.point(alpha), nil
	}
	out := &Value{engine: e, family: parent.family, seed: parent.seed, flip: beta < 0}
	switch parent.family {
	case FamilyGaussian:
		out.mu, out.sigma = alpha, math.Abs(beta)
	case FamilyUniform:
		out.low, out.high = alpha, alpha+beta
		if beta < 0 {
			out.low, out.high = alpha+beta, alpha
		}
		if !finite(out.high - out.low) {
			return nil, invalidParameter("derived parameters are not finite", alpha, beta)
		}
	}
	return out, nil
}

// Family reports the value's representation.
func (v *Value) Family() Family {
	return v.family
}

// Len returns the number of samples the value materializes to: the stored
// sample count for empirical values, the engine's S otherwise.
func (v *Value) Len() int {
	if v.family == FamilyEmpirical {
		return len(v.samples)
	}
	return v.engine.size
}

// Skipped returns how many sample pairs were dropped while producing this
// value (zero divisors, non-finite powers). Zero for constructed values.
func (v *Value) Skipped() int {
	return v.skipped
}

// Samples returns a copy of the value's materialized samples.
func (v *Value) Samples() []float64 {
	drawn := v.draw(v.Len())
	out := make([]float64, len(drawn))
	copy(out, drawn)
	return out
}

// isPoint reports whether the value is a point mass, including degenerate
// Gaussians and uniforms.
func (v *Value) isPoint() bool {
	switch v.family {
	case FamilyPoint:
		return true
	case FamilyGaussian:
		return v.sigma == 0
	case FamilyUniform:
		return v.low == v.high
	default:
		return false
	}
}

func (v *Value) pointValue() float64 {
	if v.family == FamilyUniform {
		return v.low
	}
	return v.mu
}

// draw materializes n samples. The result must not be modified.
func (v *Value) draw(n int) []float64 {
	if n == v.Len() {
		v.drawOnce.Do(func() {
			if v.family == FamilyEmpirical {
				v.drawn = v.samples
				return
			}
			v.drawn = v.generate(n)
		})
		return v.drawn
	}
	return v.generate(n)
}

func (v *Value) generate(n int) []float64 {
	out := make([]float64, n)
	if v.isPoint() {
		c := v.pointValue()
		for i := range out {
			out[i] = c
		}
		return out
	}

	if v.family == FamilyEmpirical {
		// Resample with replacement through the engine's index map.
		rng := rand.New(rand.NewSource(v.engine.resampleSeed(len(v.samples))))
		for i := range out {
			out[i] = v.samples[rng.Intn(len(v.samples))]
		}
		return out
	}

	rng := rand.New(rand.NewSource(v.seed))
	alpha, beta := v.coef()
	switch v.family {
	case FamilyGaussian:
		for i := range out {
			out[i] = alpha + beta*rng.NormFloat64()
		}
	case FamilyUniform:
		for i := range out {
			out[i] = alpha + beta*rng.Float64()
		}
	}
	return out
}

// sortedSamples returns the materialized samples in ascending order.
// The result must not be modified.
func (v *Value) sortedSamples() []float64 {
	v.sortOnce.Do(func() {
		drawn := v.draw(v.Len())
		v.sorted = make([]float64, len(drawn))
		copy(v.sorted, drawn)
		sort.Float64s(v.sorted)
	})
	return v.sorted
}

// String describes the value's distribution.
func (v *Value) String() string {
	switch {
	case v.isPoint():
		return fmt.Sprintf("%g", v.pointValue())
	case v.family == FamilyGaussian:
		return fmt.Sprintf("N(%g, %g²)", v.mu, v.sigma)
	case v.family == FamilyUniform:
		return fmt.Sprintf("U[%g, %g]", v.low, v.high)
	default:
		return fmt.Sprintf("Empirical(n=%d, mean=%g, stddev=%g)", len(v.samples), v.Mean(), v.StdDev())
	}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
