package lift

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/louisbranch/airfoil/internal/uncertain"
)

func newEngine(t *testing.T) *uncertain.Engine {
	t.Helper()
	e, err := uncertain.NewEngine(uncertain.WithSeed(11))
	if err != nil {
		t.Fatalf("NewEngine returned error: %v", err)
	}
	return e
}

func mustValue(t *testing.T) func(*uncertain.Value, error) *uncertain.Value {
	t.Helper()
	return func(v *uncertain.Value, err error) *uncertain.Value {
		t.Helper()
		if err != nil {
			t.Fatalf("value returned error: %v", err)
		}
		return v
	}
}

// checkMean asserts the sampled mean is within five standard errors of want.
func checkMean(t *testing.T, name string, v *uncertain.Value, want float64) {
	t.Helper()
	se := v.StdDev() / math.Sqrt(float64(v.Len()))
	if got := v.Mean(); math.Abs(got-want) > 5*se {
		t.Fatalf("%s mean = %v, want %v ± %v", name, got, want, 5*se)
	}
}

func TestTablesMatchReferenceData(t *testing.T) {
	if len(AirfoilAreas) != 26 {
		t.Fatalf("len(AirfoilAreas) = %d, want 26", len(AirfoilAreas))
	}
	if AirfoilAreas[0] != 51.18 || AirfoilAreas[25] != 817 {
		t.Fatalf("AirfoilAreas bounds = %v..%v, want 51.18..817", AirfoilAreas[0], AirfoilAreas[25])
	}
	if len(LiftCoefficients) != 36 {
		t.Fatalf("len(LiftCoefficients) = %d, want 36", len(LiftCoefficients))
	}
}

func TestBernoulliWithoutUncertaintyIsSteady(t *testing.T) {
	e := newEngine(t)
	zero := func() *uncertain.Value { return mustValue(t)(e.Constant(0)) }
	in := BernoulliInputs{
		Rho:       mustValue(t)(e.Gaussian(1, 0)),
		V1:        zero(),
		V2:        zero(),
		Thickness: zero(),
		Area:      mustValue(t)(e.FromSamples([]float64{100})),
		Mass:      zero(),
	}

	res, err := Bernoulli(context.Background(), e, in)
	if err != nil {
		t.Fatalf("Bernoulli returned error: %v", err)
	}
	for _, q := range res.Outputs {
		if q.Value.Mean() != 0 || q.Value.StdDev() != 0 {
			t.Fatalf("%s = %v, want exactly 0", q.Symbol, q.Value)
		}
	}
	if res.Trend != TrendSteady {
		t.Fatalf("Trend = %v, want %v", res.Trend, TrendSteady)
	}
	if res.ProbIncreasing != 0 {
		t.Fatalf("ProbIncreasing = %v, want 0", res.ProbIncreasing)
	}
}

func TestBernoulliPointInputs(t *testing.T) {
	e := newEngine(t)
	c := func(x float64) *uncertain.Value { return mustValue(t)(e.Constant(x)) }
	in := BernoulliInputs{Rho: c(1.2), V1: c(10), V2: c(20), Thickness: c(1), Area: c(2), Mass: c(10)}

	res, err := Bernoulli(context.Background(), e, in)
	if err != nil {
		t.Fatalf("Bernoulli returned error: %v", err)
	}
	wantP := 1.2/2*(400-100) + 1.2*G*1
	if got := res.Outputs[0].Value.Mean(); math.Abs(got-wantP) > 1e-9 {
		t.Fatalf("P1-P2 = %v, want %v", got, wantP)
	}
	wantAdj := 2*2*wantP - 10*G
	if got := res.Adjusted.Mean(); math.Abs(got-wantAdj) > 1e-9 {
		t.Fatalf("F_lift_adjusted = %v, want %v", got, wantAdj)
	}
	if res.Trend != TrendIncreasing || res.ProbIncreasing != 1 {
		t.Fatalf("Trend = %v (p=%v), want %v (p=1)", res.Trend, res.ProbIncreasing, TrendIncreasing)
	}
}

func TestBernoulliDefaultInputs(t *testing.T) {
	e := newEngine(t)
	res, err := Evaluate(context.Background(), e, ModelBernoulli)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if res.Model != ModelBernoulli {
		t.Fatalf("Model = %q, want %q", res.Model, ModelBernoulli)
	}
	if len(res.Inputs) != 6 || len(res.Outputs) != 3 {
		t.Fatalf("got %d inputs and %d outputs, want 6 and 3", len(res.Inputs), len(res.Outputs))
	}
	wantSymbols := []string{"P1-P2", "F_lift", "F_lift_adjusted"}
	for i, want := range wantSymbols {
		if res.Outputs[i].Symbol != want {
			t.Fatalf("output %d = %q, want %q", i, res.Outputs[i].Symbol, want)
		}
	}

	v2sq := 165.0*165 + 55*55
	v1sq := 132.5*132.5 + 44.16666*44.16666
	wantP := 0.597/2*(v2sq-v1sq) + 0.597*1.32*G
	checkMean(t, "P1-P2", res.Outputs[0].Value, wantP)

	if res.Trend != TrendOf(res.Adjusted) {
		t.Fatalf("Trend = %v, want %v", res.Trend, TrendOf(res.Adjusted))
	}
	if res.ProbIncreasing < 0 || res.ProbIncreasing > 1 {
		t.Fatalf("ProbIncreasing = %v, want within [0, 1]", res.ProbIncreasing)
	}
}

func TestLiftEquationDefaultInputs(t *testing.T) {
	e := newEngine(t)
	res, err := Evaluate(context.Background(), e, ModelLiftEquation)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if len(res.Inputs) != 5 || len(res.Outputs) != 2 {
		t.Fatalf("got %d inputs and %d outputs, want 5 and 2", len(res.Inputs), len(res.Outputs))
	}

	meanArea, meanCl := 0.0, 0.0
	for _, a := range AirfoilAreas {
		meanArea += a / float64(len(AirfoilAreas))
	}
	for _, c := range LiftCoefficients {
		meanCl += c / float64(len(LiftCoefficients))
	}
	wantLift := 0.5 * meanCl * 0.597 * (165*165 + 55*55) * meanArea
	checkMean(t, "F_lift", res.Outputs[0].Value, wantLift)

	if res.Trend != TrendIncreasing {
		t.Fatalf("Trend = %v, want %v", res.Trend, TrendIncreasing)
	}
	if res.ProbIncreasing <= 0.5 {
		t.Fatalf("ProbIncreasing = %v, want > 0.5", res.ProbIncreasing)
	}
}

func TestLiftEquationPointInputs(t *testing.T) {
	e := newEngine(t)
	c := func(x float64) *uncertain.Value { return mustValue(t)(e.Constant(x)) }
	in := PlaneInputs{Rho: c(1), V: c(10), Cl: c(2), Area: c(3), Mass: c(1000)}

	res, err := LiftEquation(context.Background(), e, in)
	if err != nil {
		t.Fatalf("LiftEquation returned error: %v", err)
	}
	if got := res.Outputs[0].Value.Mean(); got != 300 {
		t.Fatalf("F_lift = %v, want 300", got)
	}
	if res.Trend != TrendDecreasing {
		t.Fatalf("Trend = %v, want %v", res.Trend, TrendDecreasing)
	}
}

func TestModelsRejectMissingInputs(t *testing.T) {
	e := newEngine(t)
	if _, err := Bernoulli(context.Background(), e, BernoulliInputs{}); !errors.Is(err, uncertain.ErrInvalidParameter) {
		t.Fatalf("Bernoulli error = %v, want %v", err, uncertain.ErrInvalidParameter)
	}
	if _, err := LiftEquation(context.Background(), e, PlaneInputs{}); !errors.Is(err, uncertain.ErrInvalidParameter) {
		t.Fatalf("LiftEquation error = %v, want %v", err, uncertain.ErrInvalidParameter)
	}
}

func TestModelsRejectNonFiniteResults(t *testing.T) {
	e := newEngine(t)
	c := func(x float64) *uncertain.Value { return mustValue(t)(e.Constant(x)) }

	in := BernoulliInputs{Rho: c(1), V1: c(0), V2: c(1e200), Thickness: c(0), Area: c(1), Mass: c(0)}
	if _, err := Bernoulli(context.Background(), e, in); !errors.Is(err, uncertain.ErrInvalidParameter) {
		t.Fatalf("Bernoulli error = %v, want %v", err, uncertain.ErrInvalidParameter)
	}
	plane := PlaneInputs{Rho: c(1e300), V: c(1e10), Cl: c(1), Area: c(1), Mass: c(0)}
	if _, err := LiftEquation(context.Background(), e, plane); !errors.Is(err, uncertain.ErrInvalidParameter) {
		t.Fatalf("LiftEquation error = %v, want %v", err, uncertain.ErrInvalidParameter)
	}
}

func TestModelsHonorCanceledContext(t *testing.T) {
	e := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, m := range Models {
		if _, err := Evaluate(ctx, e, m); !errors.Is(err, context.Canceled) {
			t.Fatalf("%s error = %v, want %v", m, err, context.Canceled)
		}
	}
}

func TestParseModel(t *testing.T) {
	for _, m := range Models {
		got, err := ParseModel(string(m))
		if err != nil || got != m {
			t.Fatalf("ParseModel(%q) = %q, %v", m, got, err)
		}
	}
	if _, err := ParseModel("glider"); err == nil {
		t.Fatal("expected error for unknown model")
	}
	if _, err := Evaluate(context.Background(), newEngine(t), Model("glider")); err == nil {
		t.Fatal("expected error evaluating unknown model")
	}
}

func TestModelTitle(t *testing.T) {
	tcs := map[Model]string{
		ModelBernoulli:    "Model using bernoulli's principle",
		ModelLiftEquation: "Model using Plane Method (Lift equation)",
		Model("x"):        "Unknown model",
	}
	for m, want := range tcs {
		if got := m.Title(); got != want {
			t.Fatalf("Title(%q) = %q, want %q", m, got, want)
		}
	}
}
