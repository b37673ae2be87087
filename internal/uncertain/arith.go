package uncertain

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type operator int

const (
	opAdd operator = iota
	opSub
	opMul
	opDiv
)

func (o operator) String() string {
	switch o {
	case opAdd:
		return "add"
	case opSub:
		return "sub"
	case opMul:
		return "mul"
	case opDiv:
		return "div"
	default:
		return "unknown"
	}
}

func (o operator) eval(x, y float64) float64 {
	switch o {
	case opAdd:
		return x + y
	case opSub:
		return x - y
	case opMul:
		return x * y
	default:
		return x / y
	}
}

// chunkSize is the number of pairs combined per goroutine.
const chunkSize = 4096

// Add returns v + w.
func (v *Value) Add(w *Value) (*Value, error) {
	return v.combine(opAdd, w)
}

// Sub returns v - w.
func (v *Value) Sub(w *Value) (*Value, error) {
	return v.combine(opSub, w)
}

// Mul returns v × w.
func (v *Value) Mul(w *Value) (*Value, error) {
	return v.combine(opMul, w)
}

// Div returns v ÷ w.
//
// Sample pairs whose divisor is exactly zero, or whose quotient is not
// finite, are skipped and the result is the empirical distribution of the
// remaining pairs; Skipped reports how
// many were dropped. A warning is logged when the skipped fraction exceeds
// the engine threshold. ErrDivisionByZero is returned when no pair survives.
func (v *Value) Div(w *Value) (*Value, error) {
	return v.combine(opDiv, w)
}

// Pow returns v raised to the constant power k.
//
// Point masses and empirical values are raised exactly, sample by sample;
// Gaussian and uniform values are sampled first because neither family is
// closed under powers. Non-finite results (a negative base with a
// fractional exponent, zero to a negative power) are skipped like zero
// divisors. ErrInvalidParameter is returned when k is not finite or no
// sample survives.
func (v *Value) Pow(k float64) (*Value, error) {
	if !finite(k) {
		return nil, invalidParameter("exponent must be finite", k)
	}
	e := v.engine
	switch {
	case k == 1:
		return v, nil
	case k == 0:
		return e.point(1), nil
	case v.isPoint():
		r := math.Pow(v.pointValue(), k)
		if !finite(r) {
			return nil, invalidParameter("power is not finite", v.pointValue(), k)
		}
		return e.point(r), nil
	}

	xs := v.draw(v.Len())
	out, skipped := e.pointwise(len(xs), func(i int) (float64, bool) {
		r := math.Pow(xs[i], k)
		return r, finite(r)
	})
	if len(out) == 0 {
		return nil, invalidParameter("no sample has a finite power", k)
	}
	e.reportSkipped("pow", skipped, len(xs))
	return e.empirical(out, skipped), nil
}

// combine applies op to v and w. Sample pairs whose result is not finite
// (overflow, a zero or vanishing divisor) are skipped and counted.
// ErrInvalidParameter is returned when no pair of an addition, subtraction
// or multiplication survives.
func (v *Value) combine(op operator, w *Value) (*Value, error) {
	if out, ok, err := closedForm(op, v, w); ok || err != nil {
		return out, err
	}

	e := v.engine
	xs, ys := pair(v, w)
	n := len(xs)
	out, skipped := e.pointwise(n, func(i int) (float64, bool) {
		if op == opDiv && ys[i] == 0 {
			return 0, false
		}
		r := op.eval(xs[i], ys[i])
		return r, finite(r)
	})
	if len(out) == 0 {
		if op == opDiv {
			return nil, ErrDivisionByZero
		}
		return nil, invalidParameter("no sample pair has a finite "+op.String()+" result", float64(n))
	}
	e.reportSkipped(op.String(), skipped, n)
	return e.empirical(out, skipped), nil
}

// pair materializes both operands for index-wise combination.
func pair(v, w *Value) (xs, ys []float64) {
	n := v.engine.size
	switch {
	case v.family == FamilyEmpirical && w.family == FamilyEmpirical && len(v.samples) == len(w.samples):
		n = len(v.samples)
	case v.family == FamilyEmpirical && w.isPoint():
		n = len(v.samples)
	case w.family == FamilyEmpirical && v.isPoint():
		n = len(w.samples)
	}
	return v.draw(n), w.draw(n)
}

// pointwise evaluates f for every index and keeps the accepted results in
// index order. Large inputs are split into chunks evaluated concurrently;
// each chunk owns its index range, so the output matches a sequential pass.
func (e *Engine) pointwise(n int, f func(i int) (float64, bool)) ([]float64, int) {
	vals := make([]float64, n)
	keep := make([]bool, n)
	eval := func(start, end int) {
		for i := start; i < end; i++ {
			vals[i], keep[i] = f(i)
		}
	}

	if n < 2*chunkSize {
		eval(0, n)
	} else {
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for start := 0; start < n; start += chunkSize {
			end := min(start+chunkSize, n)
			g.Go(func() error {
				eval(start, end)
				return nil
			})
		}
		_ = g.Wait()
	}

	out := vals[:0]
	for i := 0; i < n; i++ {
		if keep[i] {
			out = append(out, vals[i])
		}
	}
	return out, n - len(out)
}

func (e *Engine) reportSkipped(op string, skipped, total int) {
	if skipped == 0 || total == 0 {
		return
	}
	fraction := float64(skipped) / float64(total)
	if fraction > e.skipWarn {
		e.warnf("uncertain: %s skipped %d of %d sample pairs (%.2f%%); result precision is degraded",
			op, skipped, total, 100*fraction)
	}
}

// closedForm applies an exact analytic rule when one exists. ok is false
// when the operation must be sampled.
func closedForm(op operator, a, b *Value) (out *Value, ok bool, err error) {
	e := a.engine
	aPoint, bPoint := a.isPoint(), b.isPoint()

	if aPoint && bPoint {
		x, y := a.pointValue(), b.pointValue()
		if op == opDiv && y == 0 {
			return nil, false, ErrDivisionByZero
		}
		r := op.eval(x, y)
		if !finite(r) {
			return nil, false, invalidParameter(op.String()+" result is not finite", x, y)
		}
		return e.point(r), true, nil
	}

	if linked(a, b) {
		switch op {
		case opAdd, opSub:
			aAlpha, aBeta := a.coef()
			bAlpha, bBeta := b.coef()
			out, err := derive(a, op.eval(aAlpha, bAlpha), op.eval(aBeta, bBeta))
			return out, err == nil, err
		case opDiv:
			if a == b && !(a.family == FamilyUniform && a.low <= 0 && a.high >= 0) {
				return e.point(1), true, nil
			}
		}
		// Sampling draws both from the shared seed, so the link holds.
		return nil, false, nil
	}

	switch {
	case a.family == FamilyGaussian && b.family == FamilyGaussian && !aPoint && !bPoint:
		if op == opAdd || op == opSub {
			mu := op.eval(a.mu, b.mu)
			sigma := math.Hypot(a.sigma, b.sigma)
			if !finite(mu) || !finite(sigma) {
				return nil, false, invalidParameter(op.String()+" result is not finite", mu, sigma)
			}
			return e.gaussian(mu, sigma), true, nil
		}
	case bPoint && (a.family == FamilyGaussian || a.family == FamilyUniform):
		c := b.pointValue()
		switch op {
		case opAdd:
			out, err := affine(a, 1, c)
			return out, err == nil, err
		case opSub:
			out, err := affine(a, 1, -c)
			return out, err == nil, err
		case opMul:
			out, err := affine(a, c, 0)
			return out, err == nil, err
		case opDiv:
			if c == 0 {
				return nil, false, ErrDivisionByZero
			}
			out, err := affine(a, 1/c, 0)
			return out, err == nil, err
		}
	case aPoint && (b.family == FamilyGaussian || b.family == FamilyUniform):
		c := a.pointValue()
		switch op {
		case opAdd:
			out, err := affine(b, 1, c)
			return out, err == nil, err
		case opSub:
			out, err := affine(b, -1, c)
			return out, err == nil, err
		case opMul:
			out, err := affine(b, c, 0)
			return out, err == nil, err
		}
	}
	return nil, false, nil
}

// linked reports whether a and b are affine images of the same draw: both
// closed-form values of one family derived from a single constructor call.
func linked(a, b *Value) bool {
	if a.engine != b.engine || a.family != b.family || a.seed != b.seed {
		return false
	}
	return a.family == FamilyGaussian || a.family == FamilyUniform
}

// affine returns m·v + c for a Gaussian or uniform v. The result keeps v's
// seed, so its samples are m·x + c for every sample x of v.
func affine(v *Value, m, c float64) (*Value, error) {
	alpha, beta := v.coef()
	return derive(v, m*alpha+c, m*beta)
}
