package fluid

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"Fluidcalc/internal/props"
)

const kelvin = 273.15

// PropertyLookup resolves one property of one fluid at an absolute temperature.
type PropertyLookup interface {
	Lookup(fluid string, symbol props.Symbol, tK float64) (float64, error)
}

type Input struct {
	Fluid        string  `json:"fluid"`
	TemperatureC float64 `json:"temperature_c"`
}

type Row struct {
	Symbol props.Symbol `json:"symbol"`
	Label  string       `json:"label"`
	Value  string       `json:"value"`
	Unit   string       `json:"unit"`
	Raw    float64      `json:"raw"`
}

type Result struct {
	Title        string  `json:"title"`
	Fluid        string  `json:"fluid"`
	TemperatureC float64 `json:"temperature_c"`
	TemperatureK float64 `json:"temperature_k"`
	Rows         []Row   `json:"rows"`
}

var rows = []struct {
	symbol props.Symbol
	label  string
	format string
	unit   string
}{
	{props.Density, "Density (ρ)", "%.2f", "kg/m³"},
	{props.Viscosity, "Viscosity (μ)", "%.6f", "Pa·s"},
	{props.HeatCapacity, "Specific heat (Cp)", "%.2f", "J/kg·K"},
	{props.SurfaceTension, "Surface tension (σ)", "%.4f", "N/m"},
	{props.VaporPressure, "Vapor pressure (P_sat)", "%.2f", "Pa"},
}

func Calculate(in Input) (Result, error) {
	return CalculateWith(props.Default(), in)
}

// CalculateWith fills the property table from l. A failed lookup fails the
// whole table.
func CalculateWith(l PropertyLookup, in Input) (Result, error) {
	name := strings.ToLower(strings.TrimSpace(in.Fluid))
	if name == "" {
		return Result{}, fmt.Errorf("fluid properties: no fluid selected")
	}
	tK := in.TemperatureC + kelvin

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		v, err := l.Lookup(name, r.symbol, tK)
		if err != nil {
			return Result{}, fmt.Errorf("fluid properties: %w", err)
		}
		out = append(out, Row{
			Symbol: r.symbol,
			Label:  r.label,
			Value:  fmt.Sprintf(r.format, v),
			Unit:   r.unit,
			Raw:    v,
		})
	}
	return Result{
		Title:        fmt.Sprintf("%s @ %g°C", capitalize(name), in.TemperatureC),
		Fluid:        name,
		TemperatureC: in.TemperatureC,
		TemperatureK: tK,
		Rows:         out,
	}, nil
}

// FailureMessage is the user-facing text for a failed calculation.
func FailureMessage(err error) string {
	return fmt.Sprintf("Calculation failed: %v. Try a different temperature.", err)
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
