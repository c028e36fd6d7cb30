package pipe

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"Fluidcalc/internal/hydraulics"
	"Fluidcalc/internal/pipes"
	"Fluidcalc/internal/props"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	kelvin   = 273.15
	paPerBar = 100000.0
)

var ErrInvalidInput = errors.New("invalid input")

type PropertyLookup interface {
	Lookup(fluid string, symbol props.Symbol, tK float64) (float64, error)
}

type PipeLookup interface {
	NearestPipe(nps float64, schedule, material string) (pipes.Pipe, error)
}

// Services are the collaborators a calculation reads from.
type Services struct {
	Props PropertyLookup
	Pipes PipeLookup
}

func DefaultServices() Services {
	return Services{Props: props.Default(), Pipes: pipes.Default()}
}

type Input struct {
	Fluid          string            `json:"fluid"`
	TemperatureC   float64           `json:"temperature_c"`
	MassFlowKgS    float64           `json:"mass_flow_kg_s"`
	LengthM        float64           `json:"length_m"`
	NPS            float64           `json:"nps"`
	Schedule       string            `json:"schedule"`
	Material       string            `json:"material"`
	FrictionMethod hydraulics.Method `json:"friction_method,omitempty"`
}

type Result struct {
	NPS               float64           `json:"nps"`
	Schedule          string            `json:"schedule"`
	PressureDropPa    float64           `json:"pressure_drop_pa"`
	PressureDropBar   float64           `json:"pressure_drop_bar"`
	VelocityMS        float64           `json:"velocity_m_s"`
	InnerDiameterMM   float64           `json:"inner_diameter_mm"`
	OuterDiameterMM   float64           `json:"outer_diameter_mm"`
	WallMM            float64           `json:"wall_mm"`
	FrictionFactor    float64           `json:"friction_factor"`
	Reynolds          float64           `json:"reynolds"`
	RoughnessMM       float64           `json:"roughness_mm"`
	RelativeRoughness float64           `json:"relative_roughness"`
	DensityKgM3       float64           `json:"density_kg_m3"`
	ViscosityPaS      float64           `json:"viscosity_pa_s"`
	VelocityHeadPa    float64           `json:"velocity_head_pa"`
	Regime            hydraulics.Regime `json:"regime"`
	Display           Display           `json:"display"`
}

// Display holds the dashboard strings.
type Display struct {
	Headline       string `json:"headline"`
	PipeSize       string `json:"pipe_size"`
	Velocity       string `json:"velocity"`
	InnerDiameter  string `json:"inner_diameter"`
	FrictionFactor string `json:"friction_factor"`
	Reynolds       string `json:"reynolds"`
	Roughness      string `json:"roughness"`
	PressureDropPa string `json:"pressure_drop_pa"`
	Regime         string `json:"regime"`
}

func Calculate(in Input) (Result, error) {
	return CalculateWith(DefaultServices(), in)
}

// CalculateWith runs the pressure-drop chain. Any failing step fails the
// calculation; no partial result is returned.
func CalculateWith(s Services, in Input) (Result, error) {
	if err := in.validate(); err != nil {
		return Result{}, err
	}
	tK := in.TemperatureC + kelvin
	fluid := strings.ToLower(strings.TrimSpace(in.Fluid))

	rho, err := s.Props.Lookup(fluid, props.Density, tK)
	if err != nil {
		return Result{}, fmt.Errorf("density: %w", err)
	}
	mu, err := s.Props.Lookup(fluid, props.Viscosity, tK)
	if err != nil {
		return Result{}, fmt.Errorf("viscosity: %w", err)
	}
	p, err := s.Pipes.NearestPipe(in.NPS, in.Schedule, in.Material)
	if err != nil {
		return Result{}, fmt.Errorf("pipe: %w", err)
	}
	if !(p.Di > 0) {
		return Result{}, fmt.Errorf("pipe: inner diameter %g: %w", p.Di, ErrInvalidInput)
	}

	area := math.Pi * p.Di * p.Di / 4
	v := in.MassFlowKgS / (rho * area)
	re, err := hydraulics.Reynolds(p.Di, rho, v, mu)
	if err != nil {
		return Result{}, fmt.Errorf("reynolds number: %w", err)
	}
	eD := p.Roughness / p.Di
	fd, err := hydraulics.FrictionFactorMethod(re, eD, in.FrictionMethod)
	if err != nil {
		return Result{}, fmt.Errorf("friction factor: %w", err)
	}
	dp, err := hydraulics.PressureDrop(p.Di, in.LengthM, rho, v, fd)
	if err != nil {
		return Result{}, fmt.Errorf("pressure drop: %w", err)
	}

	res := Result{
		NPS:               p.NPS,
		Schedule:          p.Schedule,
		PressureDropPa:    dp,
		PressureDropBar:   dp / paPerBar,
		VelocityMS:        v,
		InnerDiameterMM:   p.Di * 1000,
		OuterDiameterMM:   p.Do * 1000,
		WallMM:            p.Wall * 1000,
		FrictionFactor:    fd,
		Reynolds:          re,
		RoughnessMM:       p.Roughness * 1000,
		RelativeRoughness: eD,
		DensityKgM3:       rho,
		ViscosityPaS:      mu,
		VelocityHeadPa:    hydraulics.VelocityHead(rho, v),
		Regime:            hydraulics.Classify(re),
	}
	res.Display = display(res, in.NPS)
	return res, nil
}

func (in Input) validate() error {
	switch {
	case strings.TrimSpace(in.Fluid) == "":
		return fmt.Errorf("no fluid selected: %w", ErrInvalidInput)
	case !(in.MassFlowKgS > 0) || math.IsInf(in.MassFlowKgS, 0):
		return fmt.Errorf("mass flow %g kg/s must be positive: %w", in.MassFlowKgS, ErrInvalidInput)
	case !(in.LengthM > 0) || math.IsInf(in.LengthM, 0):
		return fmt.Errorf("length %g m must be positive: %w", in.LengthM, ErrInvalidInput)
	case !(in.NPS > 0):
		return fmt.Errorf("nominal size %g: %w", in.NPS, ErrInvalidInput)
	case math.IsNaN(in.TemperatureC) || math.IsInf(in.TemperatureC, 0):
		return fmt.Errorf("temperature %g: %w", in.TemperatureC, ErrInvalidInput)
	}
	return nil
}

var regimeLabels = map[hydraulics.Regime]string{
	hydraulics.Laminar:      "Laminar",
	hydraulics.Transitional: "Transitional",
	hydraulics.Turbulent:    "Turbulent",
}

// display formats r. requested is the size asked for; the pipe line says
// so when the schedule had to round it up.
func display(r Result, requested float64) Display {
	p := message.NewPrinter(language.English)
	re := p.Sprintf("%.0f", r.Reynolds)
	size := fmt.Sprintf("NPS %g, schedule %s", r.NPS, r.Schedule)
	if r.NPS != requested {
		size += fmt.Sprintf(" (nearest to requested NPS %g)", requested)
	}
	return Display{
		Headline:       fmt.Sprintf("Total pressure drop: %.4f bar", r.PressureDropBar),
		PipeSize:       size,
		Velocity:       fmt.Sprintf("%.3f m/s", r.VelocityMS),
		InnerDiameter:  fmt.Sprintf("%.2f mm", r.InnerDiameterMM),
		FrictionFactor: fmt.Sprintf("%.5f", r.FrictionFactor),
		Reynolds:       re,
		Roughness:      fmt.Sprintf("%.5f mm", r.RoughnessMM),
		PressureDropPa: p.Sprintf("%.2f Pa", r.PressureDropPa),
		Regime:         fmt.Sprintf("Flow regime: %s (Re = %s)", regimeLabels[r.Regime], re),
	}
}

// FailureMessage is the user-facing text for a failed calculation.
func FailureMessage(err error) string {
	return fmt.Sprintf("Calculation error: %v", err)
}
