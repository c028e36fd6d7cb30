package hydraulics

import (
	"fmt"
	"math"
	"strings"
)

// Below this Reynolds number FrictionFactor uses the laminar 64/Re.
const LaminarTransition = 2040.0

type Method string

const (
	Clamond    Method = "clamond"
	Colebrook  Method = "colebrook"
	Haaland    Method = "haaland"
	SwameeJain Method = "swamee-jain"
)

// FrictionFactor returns the Darcy friction factor for Re and relative
// roughness eD using the default method.
func FrictionFactor(re, eD float64) (float64, error) {
	return FrictionFactorMethod(re, eD, Clamond)
}

// FrictionFactorMethod is FrictionFactor with an explicit turbulent correlation.
// The laminar branch is independent of method.
func FrictionFactorMethod(re, eD float64, method Method) (float64, error) {
	if err := positive("Re", re); err != nil {
		return 0, err
	}
	if !(eD >= 0) || math.IsInf(eD, 0) {
		return 0, fmt.Errorf("eD = %g: %w", eD, ErrInvalidArgument)
	}
	if re < LaminarTransition {
		return 64 / re, nil
	}
	switch Method(strings.ToLower(string(method))) {
	case Clamond, "":
		return clamond(re, eD), nil
	case Colebrook:
		return colebrook(re, eD), nil
	case Haaland:
		x := -1.8 * math.Log10(math.Pow(eD/3.7, 1.11)+6.9/re)
		return 1 / (x * x), nil
	case SwameeJain:
		x := math.Log10(eD/3.7 + 5.74/math.Pow(re, 0.9))
		return 0.25 / (x * x), nil
	default:
		return 0, fmt.Errorf("friction method %q: %w", method, ErrInvalidArgument)
	}
}

// clamond solves Colebrook-White with Clamond's two-step quartic iteration,
// accurate to machine precision.
func clamond(re, eD float64) float64 {
	x1 := eD * re * 0.1239681863354175460160858261654858382699
	x2 := math.Log(re) - 0.7793974884556819406441139701653776731705
	f := x2 - 0.2
	x1f := x1 + f
	x1f1 := 1 + x1f
	e := (math.Log(x1f) - 0.2) / x1f1
	f = f - (x1f1+0.5*e)*e*x1f/(x1f1+e*(1+e/3))
	x1f = x1 + f
	x1f1 = 1 + x1f
	e = (math.Log(x1f) + f - x2) / x1f1
	f = f - (x1f1+0.5*e)*e*x1f/(x1f1+e*(1+e/3))
	return 1.325474527619599502640416597148504422899 / (f * f)
}

// colebrook iterates 1/√f = −2 log10(eD/3.7 + 2.51/(Re√f)) from the Haaland guess.
func colebrook(re, eD float64) float64 {
	x := -1.8 * math.Log10(math.Pow(eD/3.7, 1.11)+6.9/re)
	for i := 0; i < 50; i++ {
		next := -2 * math.Log10(eD/3.7+2.51*x/re)
		if math.Abs(next-x) < 1e-12 {
			x = next
			break
		}
		x = next
	}
	return 1 / (x * x)
}
