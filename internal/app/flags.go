package app

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"life3d/internal/sims/life3d"
)

// RandomPattern selects a random fill instead of a catalog pattern.
const RandomPattern = "random"

// Config represents the command-line parameters shared by the viewers.
type Config struct {
	Size     int
	Speed    float64
	Rule     string
	Pattern  string
	Density  float64
	Seed     int64
	Workers  int
	Scale    int
	Metrics  string
	LogLevel string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	sim := life3d.DefaultConfig()
	return &Config{
		Size:     sim.Size,
		Speed:    sim.Speed,
		Rule:     sim.Rule,
		Pattern:  "Cube 2x2x2",
		Density:  sim.Density,
		Seed:     sim.Seed,
		Workers:  sim.Workers,
		Scale:    16,
		LogLevel: "info",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Size, "size", c.Size, "lattice edge length")
	fs.Float64Var(&c.Speed, "speed", c.Speed, "generations per second while playing")
	fs.StringVar(&c.Rule, "rule", c.Rule, "rule preset name")
	fs.StringVar(&c.Pattern, "pattern", c.Pattern, `initial pattern name, or "random"`)
	fs.Float64Var(&c.Density, "density", c.Density, "random fill density in [0,1]")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for random fills (0 = unseeded)")
	fs.IntVar(&c.Workers, "workers", c.Workers, "goroutines used to evaluate large steps")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.StringVar(&c.Metrics, "metrics-addr", c.Metrics, "serve Prometheus metrics on this address")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
}

// SimConfig returns the simulation part of the configuration with speed and
// density clamped to the ranges the controls allow.
func (c *Config) SimConfig() life3d.Config {
	cfg := life3d.DefaultConfig()
	if c.Size > 0 {
		cfg.Size = c.Size
	}
	cfg.Speed = min(max(c.Speed, life3d.MinSpeed), life3d.MaxSpeed)
	cfg.Rule = c.Rule
	cfg.Density = min(max(c.Density, 0), 1)
	cfg.Seed = c.Seed
	if c.Workers > 0 {
		cfg.Workers = c.Workers
	}
	return cfg
}

// NewLogger builds a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}
