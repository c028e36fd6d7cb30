// Package hydraulics holds the single-phase pipe-flow relations used by the
// pressure-drop calculator.
package hydraulics

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidArgument = errors.New("invalid argument")

// Reynolds number thresholds for regime classification.
const (
	LaminarLimit   = 2100.0
	TurbulentLimit = 4000.0
)

type Regime string

const (
	Laminar      Regime = "laminar"
	Transitional Regime = "transitional"
	Turbulent    Regime = "turbulent"
)

func positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%s = %g: %w", name, v, ErrInvalidArgument)
	}
	return nil
}

// Reynolds returns ρVD/μ.
func Reynolds(d, rho, v, mu float64) (float64, error) {
	for _, a := range []struct {
		n string
		v float64
	}{{"D", d}, {"rho", rho}, {"V", v}, {"mu", mu}} {
		if err := positive(a.n, a.v); err != nil {
			return 0, err
		}
	}
	return rho * v * d / mu, nil
}

// PressureDrop is the Darcy-Weisbach loss fd·(L/D)·ρV²/2 in Pa.
func PressureDrop(d, l, rho, v, fd float64) (float64, error) {
	for _, a := range []struct {
		n string
		v float64
	}{{"D", d}, {"L", l}, {"rho", rho}, {"V", v}, {"fd", fd}} {
		if err := positive(a.n, a.v); err != nil {
			return 0, err
		}
	}
	return fd * l / d * VelocityHead(rho, v), nil
}

// VelocityHead returns the dynamic pressure ρV²/2 in Pa.
func VelocityHead(rho, v float64) float64 {
	return 0.5 * rho * v * v
}

// Classify maps a Reynolds number onto a flow regime.
func Classify(re float64) Regime {
	switch {
	case re < LaminarLimit:
		return Laminar
	case re < TurbulentLimit:
		return Transitional
	default:
		return Turbulent
	}
}
