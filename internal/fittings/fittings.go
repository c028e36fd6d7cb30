// Package fittings holds resistance coefficients (K) for valves and pipe
// fittings, after the Hooper table reproduced in Perry's handbook, and the
// diverging-tee coefficients of Crane TP-410.
package fittings

import (
	_ "embed"
	"errors"
	"fmt"
	"math"

	"github.com/gocarina/gocsv"
)

var (
	ErrUnknownFitting = errors.New("unknown fitting")
	ErrNeedsFlowSplit = errors.New("fitting needs a flow split")
	ErrInvalidFlow    = errors.New("invalid flow fractions")
)

type Kind string

const (
	Fixed     Kind = "fixed"
	TeeRun    Kind = "tee-run"
	TeeBranch Kind = "tee-branch"
)

type Fitting struct {
	Name string  `csv:"name" json:"name"`
	K    float64 `csv:"k" json:"k"`
	Kind Kind    `csv:"kind" json:"kind"`
}

//go:embed data/fittings.csv
var fittingsCSV []byte

type Catalog struct {
	items  []Fitting
	byName map[string]Fitting
}

func New() (*Catalog, error) {
	var items []Fitting
	if err := gocsv.UnmarshalBytes(fittingsCSV, &items); err != nil {
		return nil, fmt.Errorf("fittings table: %w", err)
	}
	c := &Catalog{items: items, byName: make(map[string]Fitting, len(items))}
	for _, f := range items {
		switch f.Kind {
		case Fixed, TeeRun, TeeBranch:
		default:
			return nil, fmt.Errorf("fitting %q: unknown kind %q", f.Name, f.Kind)
		}
		if _, dup := c.byName[f.Name]; dup {
			return nil, fmt.Errorf("fitting %q listed twice", f.Name)
		}
		c.byName[f.Name] = f
	}
	return c, nil
}

var std = mustNew()

func mustNew() *Catalog {
	c, err := New()
	if err != nil {
		panic(fmt.Sprintf("fittings: embedded data: %v", err))
	}
	return c
}

func Default() *Catalog { return std }

// Names lists fitting keys in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.items))
	for i, f := range c.items {
		out[i] = f.Name
	}
	return out
}

func (c *Catalog) Lookup(name string) (Fitting, error) {
	f, ok := c.byName[name]
	if !ok {
		return Fitting{}, fmt.Errorf("%q: %w", name, ErrUnknownFitting)
	}
	return f, nil
}

// IsTee reports whether name is a tee whose K depends on the flow split.
func (c *Catalog) IsTee(name string) bool {
	f, ok := c.byName[name]
	return ok && f.Kind != Fixed
}

// K returns the tabulated coefficient of a fixed fitting.
func (c *Catalog) K(name string) (float64, error) {
	f, err := c.Lookup(name)
	if err != nil {
		return 0, err
	}
	if f.Kind != Fixed {
		return 0, fmt.Errorf("%q: %w", name, ErrNeedsFlowSplit)
	}
	return f.K, nil
}

// KTJunction returns the loss coefficient of a 90° diverging tee with equal
// bores (β = 1), referenced to the velocity of the combined flow in a pipe of
// diameter di. qMain and qBranch are the fractions of the combined flow that
// leave through the run and the branch; branch selects which leg's
// coefficient is returned. The run coefficient goes negative below an even
// split: the run recovers pressure there.
func KTJunction(di, qMain, qBranch float64, branch bool) (float64, error) {
	if !(di > 0) || math.IsInf(di, 0) {
		return 0, fmt.Errorf("diameter %g: %w", di, ErrInvalidFlow)
	}
	if !inUnit(qMain) || !inUnit(qBranch) {
		return 0, fmt.Errorf("fractions main=%g branch=%g must be in [0, 1]: %w", qMain, qBranch, ErrInvalidFlow)
	}
	if math.Abs(qMain+qBranch-1) > 1e-9 {
		return 0, fmt.Errorf("fractions main=%g branch=%g must sum to 1: %w", qMain, qBranch, ErrInvalidFlow)
	}
	q := qBranch / (qMain + qBranch)
	if branch {
		return kBranchDiverging(1, q), nil
	}
	return kRunDiverging(1, q), nil
}

// kBranchDiverging is Crane TP-410 (2009) for the branch leg of a 90°
// diverging tee: K = G·(1 + H·(q/β²)²) with H = 0.3, and G = 1 for β² ≤ 2/3,
// else 1 + 0.3q². beta is branch bore over run bore.
func kBranchDiverging(beta, q float64) float64 {
	beta2 := beta * beta
	g := 1.0
	if beta2 > 2.0/3.0 {
		g = 1 + 0.3*q*q
	}
	r := q / beta2
	return g * (1 + 0.3*r*r)
}

// kRunDiverging is Crane TP-410 (2009) for the run leg: K = M·q², where
// M = 0.4 for β² ≤ 0.4, else 2(2q-1) for q ≤ 0.5 and 0.3(2q-1) above.
func kRunDiverging(beta, q float64) float64 {
	var m float64
	switch {
	case beta*beta <= 0.4:
		m = 0.4
	case q <= 0.5:
		m = 2 * (2*q - 1)
	default:
		m = 0.3 * (2*q - 1)
	}
	return m * q * q
}

func inUnit(v float64) bool { return v >= 0 && v <= 1 }
