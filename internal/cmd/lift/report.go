package lift

import (
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/airfoil/internal/lift"
	"github.com/louisbranch/airfoil/internal/platform/i18n/catalog"
	"github.com/louisbranch/airfoil/internal/uncertain"
	"golang.org/x/text/message"
)

const histogramWidth = 40

// reporter writes catalog messages, one per line.
type reporter struct {
	p      *message.Printer
	w      io.Writer
	bundle *catalog.Bundle
}

func newReporter(bundle *catalog.Bundle, p *message.Printer, w io.Writer) reporter {
	return reporter{p: p, w: w, bundle: bundle}
}

func (r reporter) line(key string, args ...any) {
	fmt.Fprintln(r.w, r.p.Sprintf(key, args...))
}

// writeReport prints the model title, every input and output quantity and
// the trend line ahead of the adjusted lift.
func (r reporter) writeReport(res lift.Result, engine *uncertain.Engine) {
	r.line("model." + string(res.Model) + ".title")
	r.line("report.run", engine.Seed(), engine.SampleSize())
	for _, q := range res.Inputs {
		r.writeQuantity(q)
	}
	for _, q := range res.Outputs {
		if q.Value != res.Adjusted {
			r.writeQuantity(q)
		}
	}
	r.line("report.trend", r.p.Sprintf("trend."+res.Trend.Key()), 100*res.ProbIncreasing)
	for _, q := range res.Outputs {
		if q.Value == res.Adjusted {
			r.writeQuantity(q)
		}
	}
	if skipped := res.Adjusted.Skipped(); skipped > 0 {
		r.line("report.skipped", skipped)
	}
}

func (r reporter) writeQuantity(q lift.Quantity) {
	s := q.Value.Summary()
	r.line("report.quantity", r.label(q), s.Mean, s.StdDev, s.P05, s.P95)
}

// label returns the localized quantity label followed by its unit.
func (r reporter) label(q lift.Quantity) string {
	label := q.Label
	key := "quantity." + q.Symbol
	if _, ok := r.bundle.Message(catalog.BaseLocale, key); ok {
		label = r.p.Sprintf(key)
	}
	if q.Unit == "" {
		return label
	}
	return fmt.Sprintf("%s (%s)", label, q.Unit)
}

// writeHistogram prints an ASCII histogram of v.
func (r reporter) writeHistogram(v *uncertain.Value, bins int) error {
	hist, err := v.Histogram(bins)
	if err != nil {
		return fmt.Errorf("histogram: %w", err)
	}
	maxCount := 0
	for _, b := range hist {
		maxCount = max(maxCount, b.Count)
	}
	r.line("report.histogram", len(hist))
	for _, b := range hist {
		bar := 0
		if maxCount > 0 {
			bar = b.Count * histogramWidth / maxCount
		}
		fmt.Fprintln(r.w, r.p.Sprintf("[%.0f, %.0f) %6d", b.Low, b.High, b.Count), strings.Repeat("#", bar))
	}
	return nil
}
