// Package pipes looks up standard pipe dimensions (ASME B36.10M / B36.19M)
// and wall roughness by material.
package pipes

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
)

const inch = 0.0254

var (
	ErrUnknownSchedule = errors.New("unknown schedule")
	ErrUnknownMaterial = errors.New("unknown material")
	ErrNoPipe          = errors.New("no pipe for nominal size")
)

//go:embed data/schedules.csv
var schedulesCSV []byte

//go:embed data/materials.csv
var materialsCSV []byte

type scheduleRow struct {
	Schedule string  `csv:"schedule"`
	NPS      float64 `csv:"nps"`
	ODIn     float64 `csv:"od_in"`
	WallIn   float64 `csv:"wall_in"`
}

type materialRow struct {
	Material  string  `csv:"material"`
	Roughness float64 `csv:"roughness_m"`
}

// Pipe holds dimensions in metres.
type Pipe struct {
	NPS       float64 `json:"nps"`
	Schedule  string  `json:"schedule"`
	Di        float64 `json:"di_m"`
	Do        float64 `json:"do_m"`
	Wall      float64 `json:"wall_m"`
	Material  string  `json:"material"`
	Roughness float64 `json:"roughness_m"`
}

type Table struct {
	schedules map[string][]scheduleRow // sorted by NPS
	order     []string
	roughness map[string]float64
	materials []string
}

func New() (*Table, error) {
	var rows []scheduleRow
	if err := gocsv.UnmarshalBytes(schedulesCSV, &rows); err != nil {
		return nil, fmt.Errorf("schedule table: %w", err)
	}
	var mats []materialRow
	if err := gocsv.UnmarshalBytes(materialsCSV, &mats); err != nil {
		return nil, fmt.Errorf("material table: %w", err)
	}

	t := &Table{
		schedules: make(map[string][]scheduleRow),
		roughness: make(map[string]float64, len(mats)),
	}
	for _, r := range rows {
		if 2*r.WallIn >= r.ODIn {
			return nil, fmt.Errorf("schedule %s NPS %g: wall %g too thick for OD %g", r.Schedule, r.NPS, r.WallIn, r.ODIn)
		}
		if _, ok := t.schedules[r.Schedule]; !ok {
			t.order = append(t.order, r.Schedule)
		}
		t.schedules[r.Schedule] = append(t.schedules[r.Schedule], r)
	}
	for _, rs := range t.schedules {
		sort.Slice(rs, func(i, j int) bool { return rs[i].NPS < rs[j].NPS })
	}
	for _, m := range mats {
		t.roughness[strings.ToLower(m.Material)] = m.Roughness
		t.materials = append(t.materials, m.Material)
	}
	return t, nil
}

var std = mustNew()

func mustNew() *Table {
	t, err := New()
	if err != nil {
		panic(fmt.Sprintf("pipes: embedded data: %v", err))
	}
	return t
}

func Default() *Table { return std }

// NearestPipe is Default().NearestPipe.
func NearestPipe(nps float64, schedule, material string) (Pipe, error) {
	return std.NearestPipe(nps, schedule, material)
}

// NearestPipe returns the smallest pipe in schedule whose nominal size is at
// least nps, together with the absolute roughness of material. Pipe.NPS is
// the size actually picked.
func (t *Table) NearestPipe(nps float64, schedule, material string) (Pipe, error) {
	sch := strings.ToUpper(strings.TrimSpace(schedule))
	rows, ok := t.schedules[sch]
	if !ok {
		return Pipe{}, fmt.Errorf("%q: %w", schedule, ErrUnknownSchedule)
	}
	eps, err := t.Roughness(material)
	if err != nil {
		return Pipe{}, err
	}
	i := sort.Search(len(rows), func(i int) bool { return rows[i].NPS >= nps })
	if i == len(rows) {
		return Pipe{}, fmt.Errorf("NPS %g or larger in schedule %s: %w", nps, sch, ErrNoPipe)
	}
	r := rows[i]
	do := r.ODIn * inch
	wall := r.WallIn * inch
	return Pipe{
		NPS:       r.NPS,
		Schedule:  sch,
		Di:        do - 2*wall,
		Do:        do,
		Wall:      wall,
		Material:  material,
		Roughness: eps,
	}, nil
}

// Roughness returns the absolute wall roughness of material in metres.
func (t *Table) Roughness(material string) (float64, error) {
	eps, ok := t.roughness[strings.ToLower(strings.TrimSpace(material))]
	if !ok {
		return 0, fmt.Errorf("%q: %w", material, ErrUnknownMaterial)
	}
	return eps, nil
}

// Schedules lists the schedule codes in table order.
func (t *Table) Schedules() []string { return append([]string(nil), t.order...) }

// Materials lists the materials in table order.
func (t *Table) Materials() []string { return append([]string(nil), t.materials...) }

// Sizes lists the nominal sizes available in schedule.
func (t *Table) Sizes(schedule string) []float64 {
	rows := t.schedules[strings.ToUpper(schedule)]
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.NPS
	}
	return out
}
