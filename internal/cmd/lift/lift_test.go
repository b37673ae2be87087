package lift

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/airfoil/internal/lift"
	"github.com/louisbranch/airfoil/internal/platform/i18n/catalog"
	"github.com/louisbranch/airfoil/internal/storage"
	"github.com/louisbranch/airfoil/internal/storage/backend"
	"github.com/louisbranch/airfoil/internal/uncertain"
	"golang.org/x/text/language"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("bernoulli", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Samples != uncertain.DefaultSampleSize {
		t.Fatalf("samples = %d, want %d", cfg.Samples, uncertain.DefaultSampleSize)
	}
	if cfg.Seed != 0 {
		t.Fatalf("seed = %d, want 0", cfg.Seed)
	}
	if cfg.SkipWarn != uncertain.DefaultSkipWarnThreshold {
		t.Fatalf("skip warn = %v, want %v", cfg.SkipWarn, uncertain.DefaultSkipWarnThreshold)
	}
	if cfg.Locale != "en" {
		t.Fatalf("locale = %q, want en", cfg.Locale)
	}
	if cfg.DBPath != "" || cfg.HistogramBins != 0 {
		t.Fatalf("db/histogram = %q/%d, want empty", cfg.DBPath, cfg.HistogramBins)
	}
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("AIRFOIL_SAMPLES", "500")
	t.Setenv("AIRFOIL_SEED", "9")
	t.Setenv("AIRFOIL_LOCALE", "de")
	fs := flag.NewFlagSet("plane", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, []string{"-seed", "12", "-histogram", "8", "-db", "runs.db"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Samples != 500 {
		t.Fatalf("samples = %d, want 500", cfg.Samples)
	}
	if cfg.Seed != 12 {
		t.Fatalf("seed = %d, want flag override 12", cfg.Seed)
	}
	if cfg.Locale != "de" {
		t.Fatalf("locale = %q, want de", cfg.Locale)
	}
	if cfg.HistogramBins != 8 || cfg.DBPath != "runs.db" {
		t.Fatalf("histogram/db = %d/%q, want 8/runs.db", cfg.HistogramBins, cfg.DBPath)
	}
}

func TestParseConfigRejectsBadEnv(t *testing.T) {
	t.Setenv("AIRFOIL_SAMPLES", "many")
	fs := flag.NewFlagSet("plane", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected env parse error")
	}
}

func testConfig() Config {
	return Config{Samples: 2000, Seed: 5, SkipWarn: 0.01, Locale: "en"}
}

func TestRunPrintsBernoulliReport(t *testing.T) {
	var out, errOut bytes.Buffer
	if err := Run(context.Background(), testConfig(), lift.ModelBernoulli, &out, &errOut); err != nil {
		t.Fatalf("run: %v", err)
	}
	report := out.String()
	for _, want := range []string{
		"Model using bernoulli's principle",
		"seed = 5, samples = 2,000",
		"rho (kg/m³) = ",
		"h2-h1 (m) = ",
		"P1 - P2 (N/m^2) = ",
		"F_lift (N) = ",
		"F_lift subtracting the weight of the airplane (N) = ",
		"P(increasing)",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
	trendAt := strings.Index(report, "P(increasing)")
	adjustedAt := strings.Index(report, "F_lift subtracting")
	if trendAt > adjustedAt {
		t.Fatalf("trend line printed after the adjusted lift:\n%s", report)
	}
}

func TestRunPrintsPlaneReportWithHistogram(t *testing.T) {
	cfg := testConfig()
	cfg.HistogramBins = 5
	var out bytes.Buffer
	if err := Run(context.Background(), cfg, lift.ModelLiftEquation, &out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	report := out.String()
	if !strings.Contains(report, "Model using Plane Method (Lift equation)") {
		t.Fatalf("report missing title:\n%s", report)
	}
	if !strings.Contains(report, "Elevation level is increasing") {
		t.Fatalf("report missing trend:\n%s", report)
	}
	if !strings.Contains(report, "Histogram (5 bins)") {
		t.Fatalf("report missing histogram:\n%s", report)
	}
}

func TestRunIsReproducibleWithSeed(t *testing.T) {
	var a, b bytes.Buffer
	if err := Run(context.Background(), testConfig(), lift.ModelLiftEquation, &a, nil); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := Run(context.Background(), testConfig(), lift.ModelLiftEquation, &b, nil); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if a.String() != b.String() {
		t.Fatalf("reports differ:\n%s\n---\n%s", a.String(), b.String())
	}
}

func TestRunRecordsRun(t *testing.T) {
	for _, name := range []string{"runs.db", "runs.bolt"} {
		cfg := testConfig()
		cfg.DBPath = filepath.Join(t.TempDir(), name)
		var out bytes.Buffer
		if err := Run(context.Background(), cfg, lift.ModelBernoulli, &out, nil); err != nil {
			t.Fatalf("%s: run: %v", name, err)
		}
		if !strings.Contains(out.String(), "Recorded run ") {
			t.Fatalf("%s: report missing recorded run line:\n%s", name, out.String())
		}

		store, err := backend.Open(cfg.DBPath)
		if err != nil {
			t.Fatalf("%s: open store: %v", name, err)
		}
		runs, err := store.ListRuns(context.Background(), 10)
		store.Close()
		if err != nil {
			t.Fatalf("%s: list runs: %v", name, err)
		}
		if len(runs) != 1 {
			t.Fatalf("%s: runs = %d, want 1", name, len(runs))
		}
		if runs[0].Model != "bernoulli" || runs[0].Seed != 5 || runs[0].SampleSize != 2000 {
			t.Fatalf("%s: run = %+v, want bernoulli seed 5 samples 2000", name, runs[0])
		}
		if len(runs[0].Quantities) != 9 {
			t.Fatalf("%s: quantities = %d, want 9", name, len(runs[0].Quantities))
		}
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	tcs := []struct {
		name  string
		edit  func(*Config)
		model lift.Model
	}{
		{name: "zero samples", edit: func(c *Config) { c.Samples = 0 }, model: lift.ModelBernoulli},
		{name: "bad skip warn", edit: func(c *Config) { c.SkipWarn = 2 }, model: lift.ModelBernoulli},
		{name: "bad locale", edit: func(c *Config) { c.Locale = "not a locale!" }, model: lift.ModelBernoulli},
		{name: "negative histogram", edit: func(c *Config) { c.HistogramBins = -1 }, model: lift.ModelBernoulli},
		{name: "unknown model", edit: func(*Config) {}, model: lift.Model("glider")},
	}
	for _, tc := range tcs {
		cfg := testConfig()
		tc.edit(&cfg)
		if err := Run(context.Background(), cfg, tc.model, nil, nil); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestWriteQuantityUsesLocale(t *testing.T) {
	v, err := uncertain.Constant(1234.5)
	if err != nil {
		t.Fatalf("constant: %v", err)
	}
	q := lift.Quantity{Symbol: "A", Label: "A", Unit: "m^2", Value: v}
	bundle := catalog.Default()

	var en, de bytes.Buffer
	newReporter(bundle, bundle.Printer(language.English), &en).writeQuantity(q)
	newReporter(bundle, bundle.Printer(language.German), &de).writeQuantity(q)
	if !strings.HasPrefix(en.String(), "A (m^2) = 1,234.5000") {
		t.Fatalf("english line = %q", en.String())
	}
	if !strings.HasPrefix(de.String(), "A (m^2) = 1.234,5000") {
		t.Fatalf("german line = %q", de.String())
	}
}

func TestLabelFallsBackToQuantityLabel(t *testing.T) {
	bundle := catalog.Default()
	r := newReporter(bundle, bundle.Printer(language.English), &bytes.Buffer{})
	if got := r.label(lift.Quantity{Symbol: "zeta", Label: "Zeta", Unit: "Pa"}); got != "Zeta (Pa)" {
		t.Fatalf("label = %q, want Zeta (Pa)", got)
	}
	if got := r.label(lift.Quantity{Symbol: "Cl", Label: "lift coefficient"}); got != "Cl" {
		t.Fatalf("label = %q, want catalog label Cl", got)
	}
}

func TestRunTranslatesReport(t *testing.T) {
	cfg := testConfig()
	cfg.Locale = "pt-BR"
	var out bytes.Buffer
	if err := Run(context.Background(), cfg, lift.ModelLiftEquation, &out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	report := out.String()
	for _, want := range []string{
		"Modelo usando o método do avião (equação de sustentação)",
		"semente = 5, amostras = 2.000",
		"O nível de elevação está aumentando",
		"F_lift subtraindo o peso do avião (N) = ",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}

func TestNewRunSummarizesQuantities(t *testing.T) {
	e, err := uncertain.NewEngine(uncertain.WithSeed(3), uncertain.WithSampleSize(100))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	res, err := lift.Evaluate(context.Background(), e, lift.ModelLiftEquation)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	now := time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC)

	run, err := newRun(res, e, now)
	if err != nil {
		t.Fatalf("new run: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected run id")
	}
	if run.Trend != res.Trend.Key() || !run.CreatedAt.Equal(now) {
		t.Fatalf("run = %+v", run)
	}
	if len(run.Quantities) != len(res.Inputs)+len(res.Outputs) {
		t.Fatalf("quantities = %d, want %d", len(run.Quantities), len(res.Inputs)+len(res.Outputs))
	}
	last := run.Quantities[len(run.Quantities)-1]
	if last.Symbol != "F_lift_adjusted" || last.Mean != res.Adjusted.Mean() {
		t.Fatalf("last quantity = %+v, want adjusted lift", last)
	}
}

type closeFailingStore struct {
	backend.Store
	putCalls int
}

func (s *closeFailingStore) PutRun(context.Context, storage.Run) error {
	s.putCalls++
	return nil
}

func (s *closeFailingStore) Close() error {
	return errors.New("disk full")
}

func TestRecordReportsCloseFailure(t *testing.T) {
	store := &closeFailingStore{}
	openRunStore = func(string) (backend.Store, error) { return store, nil }
	t.Cleanup(func() { openRunStore = backend.Open })

	e, err := uncertain.NewEngine(uncertain.WithSeed(3), uncertain.WithSampleSize(100))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	res, err := lift.Evaluate(context.Background(), e, lift.ModelLiftEquation)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	runID, err := record(context.Background(), "runs.db", res, e)
	if err == nil || !strings.Contains(err.Error(), "close run store: disk full") {
		t.Fatalf("record error = %v, want close failure", err)
	}
	if runID != "" {
		t.Fatalf("run id = %q, want empty on failure", runID)
	}
	if store.putCalls != 1 {
		t.Fatalf("PutRun calls = %d, want 1", store.putCalls)
	}
}
