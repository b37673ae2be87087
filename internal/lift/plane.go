package lift

import (
	"context"
	"fmt"

	"github.com/louisbranch/airfoil/internal/uncertain"
)

// PlaneInputs are the inputs of the lift-equation model.
type PlaneInputs struct {
	Rho  *uncertain.Value // air density, kg/m³
	V    *uncertain.Value // airspeed, m/s
	Cl   *uncertain.Value // lift coefficient
	Area *uncertain.Value // m²
	Mass *uncertain.Value // kg
}

// DefaultPlaneInputs returns the reference inputs for a commercial airliner.
func DefaultPlaneInputs(e *uncertain.Engine) (PlaneInputs, error) {
	var in PlaneInputs
	var err error
	if in.Rho, err = e.Gaussian(0.597, 0.199); err != nil {
		return in, fmt.Errorf("rho: %w", err)
	}
	if in.V, err = e.Gaussian(165, 55); err != nil {
		return in, fmt.Errorf("v: %w", err)
	}
	if in.Cl, err = e.FromSamples(LiftCoefficients); err != nil {
		return in, fmt.Errorf("cl: %w", err)
	}
	if in.Area, err = e.FromSamples(AirfoilAreas); err != nil {
		return in, fmt.Errorf("area: %w", err)
	}
	if in.Mass, err = e.Uniform(85000, 220100); err != nil {
		return in, fmt.Errorf("mass: %w", err)
	}
	return in, nil
}

func (in PlaneInputs) quantities() []Quantity {
	return []Quantity{
		{Symbol: "rho", Label: "rho", Unit: "kg/m³", Value: in.Rho},
		{Symbol: "v", Label: "v", Unit: "m/s", Value: in.V},
		{Symbol: "Cl", Label: "Cl", Value: in.Cl},
		{Symbol: "A", Label: "A", Unit: "m^2", Value: in.Area},
		{Symbol: "m", Label: "m", Unit: "kg", Value: in.Mass},
	}
}

func (in PlaneInputs) validate() error {
	for _, q := range in.quantities() {
		if q.Value == nil {
			return fmt.Errorf("%s: %w", q.Symbol, uncertain.ErrInvalidParameter)
		}
	}
	return nil
}

// LiftEquation evaluates lift with the empirical lift coefficient:
//
//	F_lift = 0.5·Cl·ρ·v²·A
//	F_lift_adjusted = 2·F_lift - m·g
func LiftEquation(ctx context.Context, e *uncertain.Engine, in PlaneInputs) (Result, error) {
	ctx, span := startSpan(ctx, e, ModelLiftEquation)
	res, err := liftEquation(ctx, e, in)
	endSpan(span, res, err)
	return res, err
}

func liftEquation(ctx context.Context, e *uncertain.Engine, in PlaneInputs) (Result, error) {
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

	var c calc
	vsq := c.pow("v²", in.V, 2)
	lift := c.mul("F_lift", c.mul("F_lift", c.mul("F_lift", c.mul("F_lift", in.Cl, in.Rho), vsq), in.Area), half)
	if c.err != nil {
		return Result{}, c.err
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{
		Model:  ModelLiftEquation,
		Inputs: in.quantities(),
		Outputs: []Quantity{
			{Symbol: "F_lift", Label: "F_lift", Unit: "N", Value: lift},
		},
	}
	return finish(e, res, lift, in.Mass)
}
