// Package web serves the three-panel form page.
package web

import (
	"bytes"
	_ "embed"
	"html/template"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"Fluidcalc/internal/calc/fitting"
	"Fluidcalc/internal/calc/fluid"
	"Fluidcalc/internal/calc/history"
	"Fluidcalc/internal/calc/pipe"
	"Fluidcalc/internal/config"
	"Fluidcalc/internal/fittings"
	"Fluidcalc/internal/pipes"
	"Fluidcalc/internal/repo"

	log "github.com/sirupsen/logrus"
)

const (
	PanelFluid   = "fluid"
	PanelPipe    = "pipe"
	PanelFitting = "fitting"
)

//go:embed templates/index.html
var indexHTML string

var page = template.Must(template.New("index").Parse(indexHTML))

type Handler struct {
	Limits   config.Limits
	Services pipe.Services
	Pipes    *pipes.Table
	Fittings *fittings.Catalog
	History  repo.Repository
}

// New wires the page to the default data services.
func New(l config.Limits, hist repo.Repository) *Handler {
	return &Handler{
		Limits:   l,
		Services: pipe.DefaultServices(),
		Pipes:    pipes.Default(),
		Fittings: fittings.Default(),
		History:  hist,
	}
}

type Nav struct {
	Key, Label string
	Active     bool
}

type pageData struct {
	Nav    []Nav
	Panel  string
	Limits config.Limits
	Error  string

	Fluid       fluid.Input
	FluidResult *fluid.Result

	Pipe       pipe.Input
	PipeResult *pipe.Result
	Schedules  []string
	Materials  []string

	Fitting       string
	Fraction      float64
	IsTee         bool
	FittingNames  []string
	FittingResult *fitting.Result
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	panel := q.Get("panel")
	switch panel {
	case PanelFluid, PanelPipe, PanelFitting:
	default:
		panel = PanelFluid
	}
	run := q.Get("run") == "1"
	l := h.Limits

	d := pageData{
		Panel:  panel,
		Limits: l,
		Nav: []Nav{
			{PanelFluid, "Fluid Properties", panel == PanelFluid},
			{PanelPipe, "Pipe Pressure Drop", panel == PanelPipe},
			{PanelFitting, "Valve & Fitting Losses", panel == PanelFitting},
		},
	}

	switch panel {
	case PanelFluid:
		d.Fluid = fluid.Input{
			Fluid:        choice(q, "fluid", l.Fluids),
			TemperatureC: number(q, "temperature_c", l.FluidTemperature),
		}
		if run {
			res, err := fluid.CalculateWith(h.Services.Props, d.Fluid)
			if err != nil {
				log.WithError(err).WithField("panel", PanelFluid).Warn("calculation failed")
				d.Error = fluid.FailureMessage(err)
				break
			}
			d.FluidResult = &res
			history.Record(r.Context(), h.History, PanelFluid, d.Fluid, res.Title)
		}

	case PanelPipe:
		d.Schedules = h.Pipes.Schedules()
		d.Materials = h.Pipes.Materials()
		d.Pipe = pipe.Input{
			Fluid:        choice(q, "fluid", l.PipeFluids),
			TemperatureC: number(q, "temperature_c", l.PipeTemperature),
			MassFlowKgS:  number(q, "mass_flow_kg_s", l.MassFlow),
			LengthM:      number(q, "length_m", l.PipeLength),
			NPS:          size(q, l.PipeSizes, l.DefaultNPS),
			Schedule:     choiceOr(q, "schedule", d.Schedules, l.DefaultSchedule),
			Material:     choiceOr(q, "material", d.Materials, l.DefaultMaterial),
		}
		if run {
			res, err := pipe.CalculateWith(h.Services, d.Pipe)
			if err != nil {
				log.WithError(err).WithField("panel", PanelPipe).Warn("calculation failed")
				d.Error = pipe.FailureMessage(err)
				break
			}
			d.PipeResult = &res
			history.Record(r.Context(), h.History, PanelPipe, d.Pipe, res.Display.Headline)
		}

	case PanelFitting:
		d.FittingNames = h.Fittings.Names()
		d.Fitting = choiceOr(q, "fitting", d.FittingNames, l.DefaultFitting)
		d.Fraction = number(q, "branch_fraction", l.BranchFraction)
		d.IsTee = h.Fittings.IsTee(d.Fitting)
		in := fitting.Input{Fitting: d.Fitting}
		if d.IsTee {
			in.BranchFraction = &d.Fraction
		}
		// Recomputed on every selection; no run flag needed.
		res, err := fitting.CalculateWith(h.Fittings, in)
		if err != nil {
			log.WithError(err).WithField("panel", PanelFitting).Warn("calculation failed")
			d.Error = fitting.FailureMessage(err)
			break
		}
		d.FittingResult = &res
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, d); err != nil {
		log.WithError(err).Error("render page")
		http.Error(w, "Page rendering error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.WithError(err).Warn("write page")
	}
}

// number reads a slider value, falling back to the default and clamping to
// the slider range.
func number(q url.Values, key string, rg config.Range) float64 {
	v, err := strconv.ParseFloat(q.Get(key), 64)
	if err != nil || math.IsNaN(v) {
		return rg.Default
	}
	return math.Min(math.Max(v, rg.Min), rg.Max)
}

func choice(q url.Values, key string, options []string) string {
	def := ""
	if len(options) > 0 {
		def = options[0]
	}
	return choiceOr(q, key, options, def)
}

func choiceOr(q url.Values, key string, options []string, def string) string {
	v := q.Get(key)
	for _, o := range options {
		if o == v {
			return v
		}
	}
	return def
}

func size(q url.Values, sizes []float64, def float64) float64 {
	v, err := strconv.ParseFloat(q.Get("nps"), 64)
	if err != nil {
		return def
	}
	for _, s := range sizes {
		if s == v {
			return v
		}
	}
	return def
}
