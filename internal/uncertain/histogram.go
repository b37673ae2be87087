package uncertain

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bin is one histogram bucket covering [Low, High).
type Bin struct {
	Low   float64
	High  float64
	Count int
}

// Histogram buckets the materialized samples into bins equal-width bins
// spanning the sample range. A value whose samples are all equal yields a
// single bin.
func (v *Value) Histogram(bins int) ([]Bin, error) {
	if bins <= 0 {
		return nil, invalidParameter("histogram needs at least one bin", float64(bins))
	}
	sorted := v.sortedSamples()
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return []Bin{{Low: lo, High: hi, Count: len(sorted)}}, nil
	}

	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	// The last divider is exclusive; nudge it so the maximum is counted.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Low: dividers[i], High: dividers[i+1], Count: int(counts[i])}
	}
	return out, nil
}
