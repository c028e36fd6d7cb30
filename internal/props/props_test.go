package props

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupWaterAt25C(t *testing.T) {
	tK := 25 + 273.15

	rho, err := Lookup("water", Density, tK)
	require.NoError(t, err)
	assert.InDelta(t, 997.0, rho, 0.5)

	mu, err := Lookup("water", Viscosity, tK)
	require.NoError(t, err)
	assert.InDelta(t, 0.00089, mu, 0.00001)
}

func TestLookupWaterBoilsNearOneAtmosphere(t *testing.T) {
	p, err := Lookup("water", VaporPressure, 100+273.15)
	require.NoError(t, err)
	assert.InEpsilon(t, 101325.0, p, 0.01)
}

func TestLookupOrganicsAt25C(t *testing.T) {
	tK := 25 + 273.15
	tests := []struct {
		fluid   string
		symbol  Symbol
		want    float64
		epsilon float64
	}{
		{"ethanol", Density, 785, 0.02},
		{"methanol", Density, 787, 0.02},
		{"acetone", Density, 785, 0.02},
		{"benzene", Density, 874, 0.02},
		{"toluene", Density, 862, 0.02},
		{"ethanol", Viscosity, 0.00107, 0.05},
		{"benzene", Viscosity, 0.000604, 0.05},
		{"ethanol", HeatCapacity, 2440, 0.03},
		{"toluene", HeatCapacity, 1700, 0.03},
		{"acetone", VaporPressure, 30800, 0.05},
		{"benzene", SurfaceTension, 0.0282, 0.05},
		{"air", Density, 1.184, 0.01},
		{"air", Viscosity, 1.85e-5, 0.03},
	}

	for _, tt := range tests {
		t.Run(tt.fluid+"/"+string(tt.symbol), func(t *testing.T) {
			got, err := Lookup(tt.fluid, tt.symbol, tK)
			require.NoError(t, err)
			assert.InEpsilon(t, tt.want, got, tt.epsilon)
		})
	}
}

func TestLookupInRangeIsFinitePositive(t *testing.T) {
	s := Default()
	for _, f := range s.Fluids() {
		for _, sym := range Symbols() {
			tmin, tmax, err := s.Range(f.Name, sym)
			require.NoError(t, err, "%s %s", f.Name, sym)
			for _, frac := range []float64{0.05, 0.25, 0.5, 0.75, 0.95} {
				tK := tmin + frac*(tmax-tmin)
				v, err := s.Lookup(f.Name, sym, tK)
				require.NoError(t, err)
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s %s at %.2f K", f.Name, sym, tK)
				assert.Greater(t, v, 0.0, "%s %s at %.2f K", f.Name, sym, tK)
			}
		}
	}
}

func TestLookupErrors(t *testing.T) {
	tests := []struct {
		name   string
		fluid  string
		symbol Symbol
		tK     float64
		want   error
	}{
		{"unknown fluid", "mercury", Density, 300, ErrUnknownFluid},
		{"unknown property", "water", Symbol("k"), 300, ErrUnknownProperty},
		{"frozen water", "water", Density, 223.15, ErrOutOfRange},
		{"frozen benzene", "benzene", Density, 273.15, ErrOutOfRange},
		{"air has no surface at room temperature", "air", SurfaceTension, 298.15, ErrOutOfRange},
		{"air has no vapor pressure at room temperature", "air", VaporPressure, 298.15, ErrOutOfRange},
		{"NaN temperature", "water", Density, math.NaN(), ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lookup(tt.fluid, tt.symbol, tt.tK)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLookupNormalizesFluidName(t *testing.T) {
	a, err := Lookup(" Water ", Density, 300)
	require.NoError(t, err)
	b, err := Lookup("water", Density, 300)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFluidsCatalog(t *testing.T) {
	names := []string{}
	for _, f := range Default().Fluids() {
		names = append(names, f.Name)
		assert.Greater(t, f.MolarMass, 0.0)
	}
	assert.Equal(t, []string{"water", "air", "ethanol", "methanol", "acetone", "benzene", "toluene"}, names)
}
