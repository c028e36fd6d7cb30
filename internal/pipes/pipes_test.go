package pipes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearestPipeFourInchSchedule40(t *testing.T) {
	p, err := NearestPipe(4, "40", "steel")
	require.NoError(t, err)

	assert.InDelta(t, 102.26, p.Di*1000, 0.01)
	assert.InDelta(t, 114.30, p.Do*1000, 0.01)
	assert.InDelta(t, 6.02, p.Wall*1000, 0.01)
	assert.InDelta(t, p.Do-2*p.Wall, p.Di, 1e-12)
	assert.Equal(t, 4.57e-5, p.Roughness)
	assert.Equal(t, "40", p.Schedule)
}

func TestNearestPipeStandardMatchesSchedule40(t *testing.T) {
	for _, nps := range Default().Sizes("40") {
		std, err := NearestPipe(nps, "std", "PVC")
		require.NoError(t, err)
		s40, err := NearestPipe(nps, "40", "PVC")
		require.NoError(t, err)
		assert.Equal(t, s40.Di, std.Di, "NPS %g", nps)
	}
}

func TestNearestPipeThickerScheduleHasSmallerBore(t *testing.T) {
	prev := 1.0
	for _, sch := range []string{"5", "10", "40", "80", "160", "XXS"} {
		p, err := NearestPipe(2, sch, "steel")
		require.NoError(t, err)
		assert.Less(t, p.Di, prev, "schedule %s", sch)
		prev = p.Di
	}
}

func TestNearestPipeRoundsUp(t *testing.T) {
	tests := []struct {
		nps      float64
		schedule string
		want     float64
	}{
		{2, "40", 2},
		{2.5, "40", 3},
		{5, "80", 6},
		{0.5, "20", 8},
		{4, "120", 4},
		{1, "120", 4},
	}
	for _, tt := range tests {
		p, err := NearestPipe(tt.nps, tt.schedule, "steel")
		require.NoError(t, err, "NPS %g schedule %s", tt.nps, tt.schedule)
		assert.Equal(t, tt.want, p.NPS, "NPS %g schedule %s", tt.nps, tt.schedule)
	}
}

func TestEveryScheduleServesPanelSizes(t *testing.T) {
	tb := Default()
	for _, sch := range tb.Schedules() {
		for _, nps := range []float64{0.5, 1, 1.5, 2, 3, 4, 6} {
			p, err := tb.NearestPipe(nps, sch, "steel")
			require.NoError(t, err, "NPS %g schedule %s", nps, sch)
			assert.GreaterOrEqual(t, p.NPS, nps)
		}
	}
}

func TestNearestPipeErrors(t *testing.T) {
	tests := []struct {
		name     string
		nps      float64
		schedule string
		material string
		want     error
	}{
		{"unknown schedule", 2, "99", "steel", ErrUnknownSchedule},
		{"unknown material", 2, "40", "glass", ErrUnknownMaterial},
		{"nothing that large in schedule", 10, "20", "steel", ErrNoPipe},
		{"too large", 24, "40", "steel", ErrNoPipe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NearestPipe(tt.nps, tt.schedule, tt.material)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRoughnessIsCaseInsensitive(t *testing.T) {
	eps, err := Default().Roughness("Cast Iron")
	require.NoError(t, err)
	assert.Equal(t, 2.59e-4, eps)
}

func TestCatalogs(t *testing.T) {
	tb := Default()
	assert.Equal(t, []string{"5", "10", "20", "30", "40", "60", "80", "100", "120", "140", "160", "STD", "XS", "XXS"}, tb.Schedules())
	assert.Equal(t, []string{"steel", "stainless steel", "PVC", "cast iron"}, tb.Materials())
	assert.Equal(t, []float64{0.5, 1, 1.5, 2, 3, 4, 6, 8}, tb.Sizes("40"))
}
