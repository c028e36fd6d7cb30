package config

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLimitsMissingFileUsesDefaults(t *testing.T) {
	l := LoadLimits(filepath.Join(t.TempDir(), "nope.ini"))

	assert.Equal(t, Range{-50, 200, 1, 25}, l.FluidTemperature)
	assert.Equal(t, Range{0, 100, 1, 25}, l.PipeTemperature)
	assert.Equal(t, Range{0, 1, 0.05, 0.5}, l.BranchFraction)
	assert.Equal(t, []string{"water", "air", "ethanol"}, l.PipeFluids)
	assert.Equal(t, 2.0, l.DefaultNPS)
	assert.Equal(t, "40", l.DefaultSchedule)
	assert.Equal(t, "gate valve, full open", l.DefaultFitting)
}

func TestLoadLimitsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	content := `
[pipe_length]
min = 5
default = 250

[defaults]
pipe_fluids = water, ethanol
pipe_sizes = 1, 2
schedule = 80
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	l := LoadLimits(path)
	assert.Equal(t, Range{5, 100000, 1, 250}, l.PipeLength)
	assert.Equal(t, []string{"water", "ethanol"}, l.PipeFluids)
	assert.Equal(t, []float64{1, 2}, l.PipeSizes)
	assert.Equal(t, "80", l.DefaultSchedule)
	assert.Equal(t, "steel", l.DefaultMaterial)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ADDR", ":9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "4")
	t.Setenv("CONFIG_FILE", "missing.ini")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel)
	assert.Equal(t, 2.5, cfg.RateRPS)
	assert.Equal(t, 4, cfg.RateBurst)
	assert.Equal(t, DefaultLimits(), cfg.Limits)
}

func TestLoadRejectsBadLevel(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LOG_LEVEL", "chatty")

	_, err := Load()
	assert.Error(t, err)
}
