package life3d

import (
	"strconv"

	"life3d/internal/core"
)

const (
	// DefaultSize is the edge length of a new lattice.
	DefaultSize = 32
	// DefaultSpeed is the playback rate in generations per second.
	DefaultSpeed = 4.0
	// MinSpeed and MaxSpeed bound the speed UI controls accept.
	MinSpeed = 1.0
	MaxSpeed = 30.0
	// DefaultDensity is the fill probability used by random fills.
	DefaultDensity = 0.1
)

// Config controls the simulation dimensions and initial state. A zero Seed
// makes random fills non-deterministic.
type Config struct {
	Size    int
	Speed   float64
	Rule    string
	Density float64
	Seed    int64
	Workers int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Size:    DefaultSize,
		Speed:   DefaultSpeed,
		Rule:    core.DefaultPreset,
		Density: DefaultDensity,
		Workers: 1,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Malformed or out-of-range values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["size"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Size = parsed
		}
	}
	if v, ok := cfg["speed"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Speed = parsed
		}
	}
	if v, ok := cfg["rule"]; ok && v != "" {
		c.Rule = v
	}
	if v, ok := cfg["density"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Density = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	return c
}
