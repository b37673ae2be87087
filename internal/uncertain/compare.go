package uncertain

import "gonum.org/v1/gonum/stat/distuv"

// Compare returns -1, 0 or +1 as the mean of v is less than, equal to or
// greater than the mean of w.
func (v *Value) Compare(w *Value) int {
	return compareFloat(v.Mean(), w.Mean())
}

// GreaterThan reports whether the mean of v exceeds the mean of w.
func (v *Value) GreaterThan(w *Value) bool {
	return v.Compare(w) > 0
}

// LessThan reports whether the mean of v is below the mean of w.
func (v *Value) LessThan(w *Value) bool {
	return v.Compare(w) < 0
}

// Sign returns the sign of the mean: -1, 0 or +1.
func (v *Value) Sign() int {
	return compareFloat(v.Mean(), 0)
}

// ProbGreaterThan returns P(v > w).
//
// Pairs of Gaussians and point masses are evaluated in closed form through
// the distribution of v - w, which accounts for linked values; everything
// else counts paired samples.
func (v *Value) ProbGreaterThan(w *Value) float64 {
	if v == w {
		return 0
	}
	if normalLike(v) && normalLike(w) {
		if d, err := v.Sub(w); err == nil {
			if d.isPoint() {
				if d.pointValue() > 0 {
					return 1
				}
				return 0
			}
			return distuv.UnitNormal.CDF(d.Mean() / d.StdDev())
		}
	}

	xs, ys := pair(v, w)
	greater := 0
	for i := range xs {
		if xs[i] > ys[i] {
			greater++
		}
	}
	return float64(greater) / float64(len(xs))
}

func normalLike(v *Value) bool {
	return v.isPoint() || v.family == FamilyGaussian
}

func compareFloat(a, b float64) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}
