package config

import (
	"sort"

	"github.com/san-kum/rxnsim/internal/sim"
)

// Presets holds named run profiles per model preset.
var Presets = map[string]map[string]*Config{
	"cascade": {
		"quick":  profile("cascade", 10, 21),
		"settle": profile("cascade", 50, 101),
	},
	"decay": {
		"short": profile("decay", 2, 21),
		"long":  profile("decay", 40, 81),
	},
	"inflow": {
		"steady": profile("inflow", 100, 201),
	},
	"reversible": {
		"equilibrium": profile("reversible", 10, 101),
	},
}

func profile(preset string, end float64, points int) *Config {
	cfg := DefaultConfig()
	cfg.Preset = preset
	cfg.Simulation = sim.DefaultOptions()
	cfg.Simulation.End = end
	cfg.Simulation.Points = points
	return cfg
}

// GetPreset returns a copy of a run profile, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
