package props

import (
	_ "embed"
	"fmt"
	"math"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

const (
	kelvin = 273.15
	rGas   = 8314.462618 // J/(kmol·K)
	mmHgPa = 133.322368
)

//go:embed data/fluids.csv
var fluidsCSV []byte

//go:embed data/correlations.csv
var correlationsCSV []byte

//go:embed data/water.csv
var waterCSV []byte

type equationRow struct {
	Fluid    string  `csv:"fluid"`
	Property string  `csv:"property"`
	Equation string  `csv:"equation"`
	A        float64 `csv:"a"`
	B        float64 `csv:"b"`
	C        float64 `csv:"c"`
	D        float64 `csv:"d"`
	E        float64 `csv:"e"`
	TMin     float64 `csv:"tmin"`
	TMax     float64 `csv:"tmax"`
}

type waterRow struct {
	TC    float64 `csv:"t_c"`
	Rho   float64 `csv:"rho"`
	Mu    float64 `csv:"mu"`
	Cp    float64 `csv:"cp"`
	Sigma float64 `csv:"sigma"`
	Psat  float64 `csv:"psat"`
}

func loadFluids() ([]Fluid, error) {
	var out []Fluid
	if err := gocsv.UnmarshalBytes(fluidsCSV, &out); err != nil {
		return nil, fmt.Errorf("fluids table: %w", err)
	}
	return out, nil
}

func loadCorrelations() ([]equationRow, error) {
	var out []equationRow
	if err := gocsv.UnmarshalBytes(correlationsCSV, &out); err != nil {
		return nil, fmt.Errorf("correlations table: %w", err)
	}
	return out, nil
}

// equation is one of the closed-form correlations named in correlations.csv.
//
//	dippr100   Cp = (A + B·T + C·T² + D·T³ + E·T⁴) / M          J/(kmol·K) → J/(kg·K)
//	dippr101   Y  = exp(A + B/T + C·ln T + D·T^E)
//	dippr105   ρ  = M · A / B^(1 + (1 − T/C)^D)                 kmol/m³ → kg/m³
//	tension    σ  = A · (1 − T/C)^B
//	antoine    P  = 10^(A − B/(C + t)) mmHg, t in °C
//	idealgas   ρ  = A·M / (R·T), A the pressure in Pa
//	sutherland μ  = A · (T/B)^1.5 · (B + C)/(T + C)
//	cpmass     Cp = A + B·(T − C)²
type equation struct {
	kind          string
	a, b, c, d, e float64
	tmin, tmax    float64
	mw            float64
}

func newEquation(r equationRow, mw float64) (equation, error) {
	switch r.Equation {
	case "dippr100", "dippr101", "dippr105", "tension", "antoine", "idealgas", "sutherland", "cpmass":
	default:
		return equation{}, fmt.Errorf("%s %s: unsupported equation %q", r.Fluid, r.Property, r.Equation)
	}
	if r.TMin <= 0 || r.TMax <= r.TMin {
		return equation{}, fmt.Errorf("%s %s: bad range %g-%g", r.Fluid, r.Property, r.TMin, r.TMax)
	}
	return equation{
		kind: r.Equation,
		a:    r.A, b: r.B, c: r.C, d: r.D, e: r.E,
		tmin: r.TMin, tmax: r.TMax,
		mw: mw,
	}, nil
}

func (q equation) bounds() (float64, float64) { return q.tmin, q.tmax }

func (q equation) eval(t float64) float64 {
	switch q.kind {
	case "dippr100":
		return (q.a + t*(q.b+t*(q.c+t*(q.d+t*q.e)))) / q.mw
	case "dippr101":
		return math.Exp(q.a + q.b/t + q.c*math.Log(t) + q.d*math.Pow(t, q.e))
	case "dippr105":
		return q.mw * q.a / math.Pow(q.b, 1+math.Pow(1-t/q.c, q.d))
	case "tension":
		return q.a * math.Pow(1-t/q.c, q.b)
	case "antoine":
		return mmHgPa * math.Pow(10, q.a-q.b/(q.c+t-kelvin))
	case "idealgas":
		return q.a * q.mw / (rGas * t)
	case "sutherland":
		return q.a * math.Pow(t/q.b, 1.5) * (q.b + q.c) / (t + q.c)
	case "cpmass":
		return q.a + q.b*(t-q.c)*(t-q.c)
	}
	return math.NaN()
}

// table interpolates tabulated saturated-liquid data.
type table struct {
	spline     *interp.AkimaSpline
	tmin, tmax float64
}

func (tb table) bounds() (float64, float64) { return tb.tmin, tb.tmax }

func (tb table) eval(t float64) float64 { return tb.spline.Predict(t) }

func loadWaterTables() (map[Symbol]correlation, error) {
	var rows []waterRow
	if err := gocsv.UnmarshalBytes(waterCSV, &rows); err != nil {
		return nil, fmt.Errorf("water table: %w", err)
	}
	xs := make([]float64, len(rows))
	cols := map[Symbol][]float64{
		Density:        make([]float64, len(rows)),
		Viscosity:      make([]float64, len(rows)),
		HeatCapacity:   make([]float64, len(rows)),
		SurfaceTension: make([]float64, len(rows)),
		VaporPressure:  make([]float64, len(rows)),
	}
	for i, r := range rows {
		xs[i] = r.TC + kelvin
		cols[Density][i] = r.Rho
		cols[Viscosity][i] = r.Mu
		cols[HeatCapacity][i] = r.Cp
		cols[SurfaceTension][i] = r.Sigma
		cols[VaporPressure][i] = r.Psat
	}

	out := make(map[Symbol]correlation, len(cols))
	for sym, ys := range cols {
		var as interp.AkimaSpline
		if err := as.Fit(xs, ys); err != nil {
			return nil, fmt.Errorf("water %s: %w", sym, err)
		}
		out[sym] = table{spline: &as, tmin: floats.Min(xs), tmax: floats.Max(xs)}
	}
	return out, nil
}
