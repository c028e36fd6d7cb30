// Package props resolves temperature-dependent physical properties of the
// fluids offered by the calculators. Values are SI and mass based.
package props

import (
	"errors"
	"fmt"
	"strings"
)

type Symbol string

const (
	Density        Symbol = "rho"
	Viscosity      Symbol = "mu"
	HeatCapacity   Symbol = "Cp"
	SurfaceTension Symbol = "sigma"
	VaporPressure  Symbol = "Psat"
)

var (
	ErrUnknownFluid    = errors.New("unknown fluid")
	ErrUnknownProperty = errors.New("unknown property")
	ErrOutOfRange      = errors.New("temperature outside correlation range")
)

type Fluid struct {
	Name      string  `csv:"name"`
	Display   string  `csv:"display"`
	MolarMass float64 `csv:"molar_mass"` // kg/kmol
	Tc        float64 `csv:"tc"`         // K
}

// correlation evaluates one property of one fluid at an absolute temperature.
type correlation interface {
	eval(tK float64) float64
	bounds() (tmin, tmax float64)
}

type key struct {
	fluid  string
	symbol Symbol
}

type Service struct {
	fluids map[string]Fluid
	order  []string
	corr   map[key]correlation
}

// New builds a Service from the embedded coefficient tables.
func New() (*Service, error) {
	fluids, err := loadFluids()
	if err != nil {
		return nil, err
	}
	s := &Service{
		fluids: make(map[string]Fluid, len(fluids)),
		corr:   make(map[key]correlation),
	}
	for _, f := range fluids {
		s.fluids[f.Name] = f
		s.order = append(s.order, f.Name)
	}

	rows, err := loadCorrelations()
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		f, ok := s.fluids[r.Fluid]
		if !ok {
			return nil, fmt.Errorf("correlation for %q: %w", r.Fluid, ErrUnknownFluid)
		}
		eq, err := newEquation(r, f.MolarMass)
		if err != nil {
			return nil, err
		}
		s.corr[key{r.Fluid, Symbol(r.Property)}] = eq
	}

	water, err := loadWaterTables()
	if err != nil {
		return nil, err
	}
	for sym, c := range water {
		s.corr[key{"water", sym}] = c
	}
	return s, nil
}

var std = mustNew()

func mustNew() *Service {
	s, err := New()
	if err != nil {
		panic(fmt.Sprintf("props: embedded data: %v", err))
	}
	return s
}

// Default returns the Service built from the embedded tables.
func Default() *Service { return std }

// Lookup is Default().Lookup.
func Lookup(fluid string, symbol Symbol, tK float64) (float64, error) {
	return std.Lookup(fluid, symbol, tK)
}

// Lookup returns property symbol of fluid at tK kelvin.
func (s *Service) Lookup(fluid string, symbol Symbol, tK float64) (float64, error) {
	name := strings.ToLower(strings.TrimSpace(fluid))
	if _, ok := s.fluids[name]; !ok {
		return 0, fmt.Errorf("%q: %w", fluid, ErrUnknownFluid)
	}
	c, ok := s.corr[key{name, symbol}]
	if !ok {
		return 0, fmt.Errorf("%q for %s: %w", symbol, name, ErrUnknownProperty)
	}
	tmin, tmax := c.bounds()
	if !(tK >= tmin && tK <= tmax) {
		return 0, fmt.Errorf("%s %s at T=%.2f K (valid %.2f-%.2f K): %w",
			name, symbol, tK, tmin, tmax, ErrOutOfRange)
	}
	return c.eval(tK), nil
}

// Fluids lists the supported fluids in catalog order.
func (s *Service) Fluids() []Fluid {
	out := make([]Fluid, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.fluids[n])
	}
	return out
}

// Range reports the temperature interval over which fluid has a symbol correlation.
func (s *Service) Range(fluid string, symbol Symbol) (tmin, tmax float64, err error) {
	c, ok := s.corr[key{fluid, symbol}]
	if !ok {
		return 0, 0, fmt.Errorf("%q for %s: %w", symbol, fluid, ErrUnknownProperty)
	}
	tmin, tmax = c.bounds()
	return tmin, tmax, nil
}

// Symbols returns the property symbols in display order.
func Symbols() []Symbol {
	return []Symbol{Density, Viscosity, HeatCapacity, SurfaceTension, VaporPressure}
}
