// Package lift evaluates aerodynamic lift on an airfoil when the physical
// inputs are uncertain.
//
// Two models are available. The Bernoulli model derives lift from the
// pressure difference between the airfoil surfaces; the lift-equation
// ("plane method") model uses an empirical lift coefficient. Both subtract
// the aircraft weight from the lift of two airfoils and classify the result
// as an elevation trend.
package lift

import (
	"context"
	"fmt"

	"github.com/louisbranch/airfoil/internal/uncertain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// G is the standard acceleration due to gravity in m/s².
const G = 9.80665

// Model names a lift model.
type Model string

const (
	ModelBernoulli    Model = "bernoulli"
	ModelLiftEquation Model = "plane"
)

// Models lists the supported models in display order.
var Models = []Model{ModelBernoulli, ModelLiftEquation}

// Title returns the heading printed before a model's report.
func (m Model) Title() string {
	switch m {
	case ModelBernoulli:
		return "Model using bernoulli's principle"
	case ModelLiftEquation:
		return "Model using Plane Method (Lift equation)"
	default:
		return "Unknown model"
	}
}

// ParseModel resolves a model name.
func ParseModel(name string) (Model, error) {
	for _, m := range Models {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown model %q", name)
}

// AirfoilAreas are observed wing areas of commercial aircraft, in m².
var AirfoilAreas = []float64{
	51.18, 54.54, 77.3, 91.04, 92.97, 92.97, 93.5, 112.3, 122.4, 124.6,
	157.9, 185.25, 219, 260, 271.9, 283.3, 283.4, 338.9, 363.1, 367.7,
	427.8, 437.3, 511, 525, 543, 817,
}

// LiftCoefficients are observed maximum lift coefficients.
var LiftCoefficients = []float64{
	1.2, 1.8, 1.4, 2.0, 1.6, 2.5, 1.5, 1.9, 1.7, 2.1, 1.9, 3.3,
	1.4, 1.8, 1.6, 2.2, 1.6, 2.6, 1.2, 1.8, 1.6, 2.2, 1.8, 3.2,
	1.2, 1.8, 1.4, 2.0, 1.6, 2.2, 1.2, 1.8, 1.4, 2.0, 1.6, 2.6,
}

// Quantity is a named uncertain quantity in a report.
type Quantity struct {
	Symbol string
	Label  string
	Unit   string
	Value  *uncertain.Value
}

// Result holds every quantity of one model evaluation.
type Result struct {
	Model   Model
	Inputs  []Quantity
	Outputs []Quantity
	// Adjusted is the lift of both airfoils minus the aircraft weight.
	Adjusted       *uncertain.Value
	Trend          Trend
	ProbIncreasing float64
}

// Evaluate runs model against its default inputs.
func Evaluate(ctx context.Context, e *uncertain.Engine, model Model) (Result, error) {
	switch model {
	case ModelBernoulli:
		in, err := DefaultBernoulliInputs(e)
		if err != nil {
			return Result{}, err
		}
		return Bernoulli(ctx, e, in)
	case ModelLiftEquation:
		in, err := DefaultPlaneInputs(e)
		if err != nil {
			return Result{}, err
		}
		return LiftEquation(ctx, e, in)
	default:
		return Result{}, fmt.Errorf("unknown model %q", model)
	}
}

var tracer = otel.Tracer("github.com/louisbranch/airfoil/internal/lift")

func startSpan(ctx context.Context, e *uncertain.Engine, model Model) (context.Context, trace.Span) {
	return tracer.Start(ctx, "lift."+string(model), trace.WithAttributes(
		attribute.String("lift.model", string(model)),
		attribute.Int("lift.sample_size", e.SampleSize()),
		attribute.Int64("lift.seed", e.Seed()),
	))
}

func endSpan(span trace.Span, res Result, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(
			attribute.String("lift.trend", res.Trend.Key()),
			attribute.Float64("lift.adjusted_mean", res.Adjusted.Mean()),
			attribute.Float64("lift.prob_increasing", res.ProbIncreasing),
		)
	}
	span.End()
}

// finish fills the adjusted lift, trend and probability of climbing.
func finish(e *uncertain.Engine, res Result, lift *uncertain.Value, mass *uncertain.Value) (Result, error) {
	two, err := e.Constant(2)
	if err != nil {
		return Result{}, err
	}
	g, err := e.Constant(G)
	if err != nil {
		return Result{}, err
	}
	zero, err := e.Constant(0)
	if err != nil {
		return Result{}, err
	}

	var c calc
	adjusted := c.sub("F_lift_adjusted", c.mul("F_lift_adjusted", two, lift), c.mul("weight", mass, g))
	if c.err != nil {
		return Result{}, c.err
	}
	res.Adjusted = adjusted
	res.Outputs = append(res.Outputs, Quantity{
		Symbol: "F_lift_adjusted",
		Label:  "F_lift subtracting the weight of the airplane",
		Unit:   "N",
		Value:  adjusted,
	})
	res.Trend = TrendOf(adjusted)
	res.ProbIncreasing = adjusted.ProbGreaterThan(zero)
	return res, nil
}

// calc chains arithmetic on uncertain values and keeps the first error.
// Once an operation fails, later ones return nil without running.
type calc struct {
	err error
}

func (c *calc) add(name string, a, b *uncertain.Value) *uncertain.Value {
	return c.do(name, func() (*uncertain.Value, error) { return a.Add(b) })
}

func (c *calc) sub(name string, a, b *uncertain.Value) *uncertain.Value {
	return c.do(name, func() (*uncertain.Value, error) { return a.Sub(b) })
}

func (c *calc) mul(name string, a, b *uncertain.Value) *uncertain.Value {
	return c.do(name, func() (*uncertain.Value, error) { return a.Mul(b) })
}

func (c *calc) pow(name string, a *uncertain.Value, k float64) *uncertain.Value {
	return c.do(name, func() (*uncertain.Value, error) { return a.Pow(k) })
}

func (c *calc) do(name string, op func() (*uncertain.Value, error)) *uncertain.Value {
	if c.err != nil {
		return nil
	}
	out, err := op()
	if err != nil {
		c.err = fmt.Errorf("%s: %w", name, err)
		return nil
	}
	return out
}
