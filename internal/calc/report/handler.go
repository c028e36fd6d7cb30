// Package report renders a pipe pressure-drop calculation as a PDF.
package report

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"Fluidcalc/internal/calc/pipe"
	"Fluidcalc/internal/calc/respond"

	"github.com/phpdave11/gofpdf"
	log "github.com/sirupsen/logrus"
)

type Input struct {
	Project string     `json:"project"`
	Author  string     `json:"author"`
	Title   string     `json:"title"`
	Notes   string     `json:"notes"`
	Pipe    pipe.Input `json:"pipe"`
}

type Handler struct {
	Services *pipe.Services
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if !respond.Decode(w, r, &input) {
		return
	}
	s := pipe.DefaultServices()
	if h.Services != nil {
		s = *h.Services
	}
	res, err := pipe.CalculateWith(s, input.Pipe)
	if err != nil {
		log.WithError(err).WithField("panel", "report").Warn("calculation failed")
		respond.Error(w, http.StatusBadRequest, pipe.FailureMessage(err))
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, input, res, time.Now()); err != nil {
		log.WithError(err).Error("report: render")
		respond.Error(w, http.StatusInternalServerError, "Report generation error")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"pressure-drop.pdf\"")
	if _, err := buf.WriteTo(w); err != nil {
		log.WithError(err).Warn("report: write")
	}
}

type row struct{ label, value string }

// Render writes the report for one computed pipe case to buf.
func Render(buf *bytes.Buffer, in Input, res pipe.Result, at time.Time) error {
	if in.Title == "" {
		in.Title = "Pipe Pressure Drop Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(in.Title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(in.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Project: %s", in.Project)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Author: %s", in.Author)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", at.Format("2006-01-02")))
	pdf.Ln(10)

	p := in.Pipe
	table(pdf, "Inputs", []row{
		{"Fluid", tr(p.Fluid)},
		{"Temperature", fmt.Sprintf("%.1f C", p.TemperatureC)},
		{"Mass flow", fmt.Sprintf("%g kg/s", p.MassFlowKgS)},
		{"Pipe length", fmt.Sprintf("%g m", p.LengthM)},
		{"Nominal size", fmt.Sprintf("NPS %g", p.NPS)},
		{"Schedule", strings.ToUpper(p.Schedule)},
		{"Material", tr(p.Material)},
	})

	d := res.Display
	table(pdf, "Results", []row{
		{"Pipe", d.PipeSize},
		{"Pressure drop", fmt.Sprintf("%.4f bar (%s)", res.PressureDropBar, d.PressureDropPa)},
		{"Velocity", d.Velocity},
		{"Inner diameter", d.InnerDiameter},
		{"Outer diameter", fmt.Sprintf("%.2f mm", res.OuterDiameterMM)},
		{"Wall thickness", fmt.Sprintf("%.2f mm", res.WallMM)},
		{"Reynolds number", d.Reynolds},
		{"Flow regime", string(res.Regime)},
		{"Darcy friction factor", d.FrictionFactor},
		{"Absolute roughness", d.Roughness},
		{"Density", fmt.Sprintf("%.2f kg/m3", res.DensityKgM3)},
		{"Viscosity", fmt.Sprintf("%.6f Pa.s", res.ViscosityPaS)},
		{"Velocity head", fmt.Sprintf("%.2f Pa", res.VelocityHeadPa)},
	})

	if in.Notes != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Notes")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(in.Notes), "", "L", false)
	}

	return pdf.Output(buf)
}

func table(pdf *gofpdf.Fpdf, heading string, rows []row) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, heading)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, r := range rows {
		pdf.CellFormat(70, 7, r.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(100, 7, r.value, "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}
