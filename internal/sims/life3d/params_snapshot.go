package life3d

import (
	"strconv"

	"life3d/internal/core"
)

// Parameters reports the values shown on the HUD and status lines.
func (s *Simulation) Parameters() core.ParameterSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	groups := []core.ParameterGroup{
		{
			Name: "Simulation",
			Params: []core.Parameter{
				intParam("generation", "Generation", s.gen),
				intParam("population", "Population", s.lattice.Population()),
				intParam("size", "Size", s.lattice.Size()),
				boolParam("running", "Running", s.running),
				floatParam("speed", "Speed (gen/s)", s.speed),
				floatParam("density", "Fill density", s.density),
			},
		},
		{
			Name: "Rule",
			Params: []core.Parameter{
				stringParam("rule_name", "Preset", s.rules.Name()),
				stringParam("rule", "Rule", s.rules.Label()),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the values the HUD may adjust.
func (s *Simulation) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		speedControl,
		densityControl,
	}
}

var (
	speedControl = core.ParameterControl{
		Key: "speed", Label: "Speed", Type: core.ParamTypeFloat,
		Step: 1, Min: MinSpeed, Max: MaxSpeed, HasMin: true, HasMax: true,
	}
	densityControl = core.ParameterControl{
		Key: "density", Label: "Density", Type: core.ParamTypeFloat,
		Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true,
	}
)

// SetFloatParameter applies a HUD adjustment, clamping to the control bounds.
// It reports false for unknown keys.
func (s *Simulation) SetFloatParameter(key string, value float64) bool {
	switch key {
	case speedControl.Key:
		s.SetSpeed(speedControl.Clamp(value))
		return true
	case densityControl.Key:
		s.mu.Lock()
		s.density = densityControl.Clamp(value)
		s.mu.Unlock()
		return true
	default:
		return false
	}
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}
