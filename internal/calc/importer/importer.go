// Package importer runs the pipe pressure-drop calculation over every row of
// an uploaded xlsx workbook.
package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"Fluidcalc/internal/calc/pipe"
	"Fluidcalc/internal/hydraulics"

	"github.com/xuri/excelize/v2"
)

// Columns is the expected header of the first sheet. friction_method is
// optional.
var Columns = []string{"fluid", "temperature_c", "mass_flow_kg_s", "length_m", "nps", "schedule", "material", "friction_method"}

const requiredColumns = 7

type Row struct {
	Row    int          `json:"row"`
	Input  *pipe.Input  `json:"input,omitempty"`
	Result *pipe.Result `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
}

type Batch struct {
	Count  int   `json:"count"`
	Failed int   `json:"failed"`
	Rows   []Row `json:"rows"`
}

// Run reads the first sheet of the workbook in r. The first row is a header;
// blank rows are skipped. A bad row is reported and does not stop the batch.
func Run(s pipe.Services, r io.Reader) (Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Batch{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return Batch{}, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) < 2 {
		return Batch{}, fmt.Errorf("sheet has no data rows")
	}

	b := Batch{Rows: []Row{}}
	for i := 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		out := Row{Row: i + 1}
		in, err := parseRow(rows[i])
		if err == nil {
			out.Input = &in
			var res pipe.Result
			if res, err = pipe.CalculateWith(s, in); err == nil {
				out.Result = &res
			}
		}
		if err != nil {
			out.Error = pipe.FailureMessage(err)
			b.Failed++
		}
		b.Rows = append(b.Rows, out)
	}
	b.Count = len(b.Rows)
	return b, nil
}

func parseRow(row []string) (pipe.Input, error) {
	if len(row) < requiredColumns {
		return pipe.Input{}, fmt.Errorf("expected %d columns, got %d: %w", requiredColumns, len(row), pipe.ErrInvalidInput)
	}
	var nums [4]float64
	for j, col := range []int{1, 2, 3, 4} {
		v, err := toFloat(row[col])
		if err != nil {
			return pipe.Input{}, fmt.Errorf("%s %q: %w", Columns[col], row[col], pipe.ErrInvalidInput)
		}
		nums[j] = v
	}
	in := pipe.Input{
		Fluid:        strings.TrimSpace(row[0]),
		TemperatureC: nums[0],
		MassFlowKgS:  nums[1],
		LengthM:      nums[2],
		NPS:          nums[3],
		Schedule:     strings.TrimSpace(row[5]),
		Material:     strings.TrimSpace(row[6]),
	}
	if len(row) > 7 {
		in.FrictionMethod = hydraulics.Method(strings.TrimSpace(row[7]))
	}
	return in, nil
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Workbook writes b as a results sheet: the input columns followed by the
// computed values or the row's error.
func Workbook(b Batch) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Results"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	header := append(append([]string{"row"}, Columns...),
		"pressure_drop_pa", "pressure_drop_bar", "velocity_m_s", "reynolds", "friction_factor", "regime", "error")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, r := range b.Rows {
		values := []any{r.Row}
		if in := r.Input; in != nil {
			values = append(values, in.Fluid, in.TemperatureC, in.MassFlowKgS, in.LengthM, in.NPS, in.Schedule, in.Material, string(in.FrictionMethod))
		} else {
			values = append(values, "", "", "", "", "", "", "", "")
		}
		if res := r.Result; res != nil {
			values = append(values, res.PressureDropPa, res.PressureDropBar, res.VelocityMS, res.Reynolds, res.FrictionFactor, string(res.Regime), "")
		} else {
			values = append(values, "", "", "", "", "", "", r.Error)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}
	return f, nil
}
