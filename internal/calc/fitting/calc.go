package fitting

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"Fluidcalc/internal/fittings"
)

// DefaultBranchFraction is used for a tee when no split is given.
const DefaultBranchFraction = 0.5

var ErrInvalidInput = errors.New("invalid input")

// Coefficients resolves catalog entries.
type Coefficients interface {
	Lookup(name string) (fittings.Fitting, error)
	Names() []string
}

type Input struct {
	Fitting        string   `json:"fitting"`
	BranchFraction *float64 `json:"branch_fraction,omitempty"`
	// Optional; when set the local pressure loss is computed as well.
	VelocityHeadPa *float64 `json:"velocity_head_pa,omitempty"`
}

type Symbol struct {
	Symbol  string `json:"symbol"`
	Meaning string `json:"meaning"`
}

type Result struct {
	Fitting        string   `json:"fitting"`
	Tee            bool     `json:"tee"`
	BranchFraction *float64 `json:"branch_fraction,omitempty"`
	MainFraction   *float64 `json:"main_fraction,omitempty"`
	K              float64  `json:"k"`
	KDisplay       string   `json:"k_display"`
	Headline       string   `json:"headline"`
	LocalLossPa    *float64 `json:"local_loss_pa,omitempty"`
	Explanation    string   `json:"explanation"`
	Formula        string   `json:"formula"`
	Legend         []Symbol `json:"legend"`
	Note           string   `json:"note"`
}

const (
	explanation = "Loss coefficient (K) of standard valves and pipe fittings. K turns the velocity head of the flow into the local pressure loss across the fitting."
	formula     = "ΔP = K·ρV²/2"
	note        = "Add the local losses of every fitting to the straight-pipe friction loss to get the total pressure drop."
)

var legend = []Symbol{
	{"ΔP", "pressure loss across the valve or fitting (Pa)"},
	{"K", "dimensionless loss coefficient computed above"},
	{"ρ", "fluid density (kg/m³)"},
	{"V", "fluid velocity in the pipe (m/s)"},
}

func Calculate(in Input) (Result, error) {
	return CalculateWith(fittings.Default(), in)
}

// CalculateWith resolves K for the selected fitting. Tees take their K from
// the diverging-junction correlation at the requested flow split.
func CalculateWith(c Coefficients, in Input) (Result, error) {
	name := strings.TrimSpace(in.Fitting)
	if name == "" {
		return Result{}, fmt.Errorf("no fitting selected: %w", ErrInvalidInput)
	}
	f, err := c.Lookup(name)
	if err != nil {
		return Result{}, err
	}

	res := Result{Fitting: f.Name}
	switch f.Kind {
	case fittings.Fixed:
		res.K = f.K
	case fittings.TeeRun, fittings.TeeBranch:
		q := DefaultBranchFraction
		if in.BranchFraction != nil {
			q = *in.BranchFraction
		}
		if math.IsNaN(q) || q < 0 || q > 1 {
			return Result{}, fmt.Errorf("branch fraction %g must be in [0, 1]: %w", q, ErrInvalidInput)
		}
		qMain := 1 - q
		k, err := fittings.KTJunction(1, qMain, q, f.Kind == fittings.TeeBranch)
		if err != nil {
			return Result{}, err
		}
		res.Tee = true
		res.K = k
		res.BranchFraction = &q
		res.MainFraction = &qMain
	default:
		return Result{}, fmt.Errorf("fitting %q: kind %q: %w", f.Name, f.Kind, ErrInvalidInput)
	}

	if in.VelocityHeadPa != nil {
		h := *in.VelocityHeadPa
		if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
			return Result{}, fmt.Errorf("velocity head %g Pa: %w", h, ErrInvalidInput)
		}
		dp := res.K * h
		res.LocalLossPa = &dp
	}

	res.KDisplay = fmt.Sprintf("%.3f", res.K)
	res.Headline = "Loss coefficient K = " + res.KDisplay
	res.Explanation = explanation
	res.Formula = formula
	res.Legend = legend
	res.Note = note
	return res, nil
}

func FailureMessage(err error) string {
	return fmt.Sprintf("Calculation error: %v", err)
}
