// Package config gathers process settings from the environment (optionally
// seeded from a .env file) and form limits from an ini file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

type Config struct {
	Addr         string
	LogLevel     log.Level
	DatabaseURL  string
	ConfigFile   string
	RateRPS      float64
	RateBurst    int
	OTLPEndpoint string
	ServiceName  string
	Limits       Limits
}

// Range describes one numeric form field.
type Range struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
}

type Limits struct {
	FluidTemperature Range
	PipeTemperature  Range
	MassFlow         Range
	PipeLength       Range
	BranchFraction   Range

	Fluids          []string
	PipeFluids      []string
	PipeSizes       []float64
	DefaultNPS      float64
	DefaultSchedule string
	DefaultMaterial string
	DefaultFitting  string
}

// Load reads .env when present, then the environment, then the limits file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	cfg := Config{
		Addr:         getenv("ADDR", ":8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		ConfigFile:   getenv("CONFIG_FILE", "conf/config.ini"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:  getenv("OTEL_SERVICE_NAME", "fluidcalc"),
		RateRPS:      5,
		RateBurst:    10,
		LogLevel:     log.InfoLevel,
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		lvl, err := log.ParseLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = lvl
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, err
		}
		cfg.RateRPS = rps
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		b, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, err
		}
		cfg.RateBurst = b
	}

	cfg.Limits = LoadLimits(cfg.ConfigFile)
	return cfg, nil
}

// LoadLimits reads form limits from path. Missing or unreadable files fall
// back to the built-in limits.
func LoadLimits(path string) Limits {
	file, err := ini.Load(path)
	if err != nil {
		log.WithError(err).WithField("file", path).Warn("limits file not loaded, using defaults")
		file = ini.Empty()
	}
	return loadLimits(file)
}

// DefaultLimits returns the built-in limits.
func DefaultLimits() Limits { return loadLimits(ini.Empty()) }

func loadLimits(file *ini.File) Limits {
	d := file.Section("defaults")
	l := Limits{
		FluidTemperature: loadRange(file.Section("fluid_temperature"), Range{-50, 200, 1, 25}),
		PipeTemperature:  loadRange(file.Section("pipe_temperature"), Range{0, 100, 1, 25}),
		MassFlow:         loadRange(file.Section("mass_flow"), Range{0.01, 1000, 0.1, 1}),
		PipeLength:       loadRange(file.Section("pipe_length"), Range{1, 100000, 1, 100}),
		BranchFraction:   loadRange(file.Section("branch_fraction"), Range{0, 1, 0.05, 0.5}),

		Fluids:          d.Key("fluids").Strings(","),
		PipeFluids:      d.Key("pipe_fluids").Strings(","),
		PipeSizes:       d.Key("pipe_sizes").Float64s(","),
		DefaultNPS:      d.Key("nps").MustFloat64(2),
		DefaultSchedule: d.Key("schedule").MustString("40"),
		DefaultMaterial: d.Key("material").MustString("steel"),
		DefaultFitting:  d.Key("fitting").MustString("gate valve, full open"),
	}
	if len(l.Fluids) == 0 {
		l.Fluids = []string{"water", "air", "ethanol", "methanol", "acetone", "benzene", "toluene"}
	}
	if len(l.PipeFluids) == 0 {
		l.PipeFluids = []string{"water", "air", "ethanol"}
	}
	if len(l.PipeSizes) == 0 {
		l.PipeSizes = []float64{0.5, 1, 1.5, 2, 3, 4, 6}
	}
	return l
}

func loadRange(sec *ini.Section, def Range) Range {
	return Range{
		Min:     sec.Key("min").MustFloat64(def.Min),
		Max:     sec.Key("max").MustFloat64(def.Max),
		Step:    sec.Key("step").MustFloat64(def.Step),
		Default: sec.Key("default").MustFloat64(def.Default),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
