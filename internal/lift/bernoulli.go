package lift

import (
	"context"
	"fmt"

	"github.com/louisbranch/airfoil/internal/uncertain"
)

// BernoulliInputs are the inputs of the Bernoulli model.
type BernoulliInputs struct {
	Rho       *uncertain.Value // air density, kg/m³
	V1        *uncertain.Value // airspeed under the airfoil, m/s
	V2        *uncertain.Value // airspeed over the airfoil, m/s
	Thickness *uncertain.Value // h2 - h1, m
	Area      *uncertain.Value // m²
	Mass      *uncertain.Value // kg
}

// DefaultBernoulliInputs returns the reference inputs for a commercial airliner.
func DefaultBernoulliInputs(e *uncertain.Engine) (BernoulliInputs, error) {
	var in BernoulliInputs
	var err error
	if in.Rho, err = e.Gaussian(0.597, 0.199); err != nil {
		return in, fmt.Errorf("rho: %w", err)
	}
	if in.V1, err = e.Gaussian(132.5, 44.16666); err != nil {
		return in, fmt.Errorf("v1: %w", err)
	}
	if in.V2, err = e.Gaussian(165, 55); err != nil {
		return in, fmt.Errorf("v2: %w", err)
	}
	if in.Thickness, err = e.Uniform(0.84, 1.8); err != nil {
		return in, fmt.Errorf("h2-h1: %w", err)
	}
	if in.Area, err = e.FromSamples(AirfoilAreas); err != nil {
		return in, fmt.Errorf("area: %w", err)
	}
	if in.Mass, err = e.Uniform(85000, 220100); err != nil {
		return in, fmt.Errorf("mass: %w", err)
	}
	return in, nil
}

func (in BernoulliInputs) quantities() []Quantity {
	return []Quantity{
		{Symbol: "rho", Label: "rho", Unit: "kg/m³", Value: in.Rho},
		{Symbol: "v1", Label: "v1", Unit: "m/s", Value: in.V1},
		{Symbol: "v2", Label: "v2", Unit: "m/s", Value: in.V2},
		{Symbol: "h2-h1", Label: "h2-h1", Unit: "m", Value: in.Thickness},
		{Symbol: "A", Label: "A", Unit: "m^2", Value: in.Area},
		{Symbol: "m", Label: "m", Unit: "kg", Value: in.Mass},
	}
}

func (in BernoulliInputs) validate() error {
	for _, q := range in.quantities() {
		if q.Value == nil {
			return fmt.Errorf("%s: %w", q.Symbol, uncertain.ErrInvalidParameter)
		}
	}
	return nil
}

// Bernoulli evaluates lift from the pressure difference across one airfoil:
//
//	P1 - P2 = ρ/2·(v2² - v1²) + ρ·g·(h2 - h1)
//	F_lift  = A·(P1 - P2)
//	F_lift_adjusted = 2·F_lift - m·g
func Bernoulli(ctx context.Context, e *uncertain.Engine, in BernoulliInputs) (Result, error) {
	ctx, span := startSpan(ctx, e, ModelBernoulli)
	res, err := bernoulli(ctx, e, in)
	endSpan(span, res, err)
	return res, err
}

func bernoulli(ctx context.Context, e *uncertain.Engine, in BernoulliInputs) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := in.validate(); err != nil {
		return Result{}, err
	}
	half, err := e.Constant(0.5)
	if err != nil {
		return Result{}, err
	}
	g, err := e.Constant(G)
	if err != nil {
		return Result{}, err
	}

	var c calc
	v1sq := c.pow("v1²", in.V1, 2)
	v2sq := c.pow("v2²", in.V2, 2)
	// ρ is combined with each term before scaling so both terms share its samples.
	dynamic := c.mul("dynamic pressure", c.mul("dynamic pressure", in.Rho, c.sub("v2² - v1²", v2sq, v1sq)), half)
	static := c.mul("static pressure", c.mul("static pressure", in.Rho, in.Thickness), g)
	pressure := c.add("P1 - P2", dynamic, static)
	lift := c.mul("F_lift", in.Area, pressure)
	if c.err != nil {
		return Result{}, c.err
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{
		Model:  ModelBernoulli,
		Inputs: in.quantities(),
		Outputs: []Quantity{
			{Symbol: "P1-P2", Label: "P1 - P2", Unit: "N/m^2", Value: pressure},
			{Symbol: "F_lift", Label: "F_lift", Unit: "N", Value: lift},
		},
	}
	return finish(e, res, lift, in.Mass)
}
