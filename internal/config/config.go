package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rxnsim/internal/experiment"
	"github.com/san-kum/rxnsim/internal/sim"
)

const (
	DefaultDataDir  = ".rxnsim"
	DefaultLogLevel = "info"
	DefaultPreset   = "cascade"
)

type Config struct {
	// Model is inline reaction notation.
	Model     string             `yaml:"model,omitempty"`
	ModelFile string             `yaml:"model_file,omitempty"`
	Preset    string             `yaml:"preset,omitempty"`
	Overrides map[string]float64 `yaml:"overrides,omitempty"`

	Simulation sim.Options `yaml:"simulation"`
	DataDir    string      `yaml:"data_dir"`
	LogLevel   string      `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Simulation: sim.DefaultOptions(),
		DataDir:    DefaultDataDir,
		LogLevel:   DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Options returns the simulation settings.
func (c *Config) Options() sim.Options {
	return c.Simulation
}

// Experiment resolves the model source in order model, model_file, preset,
// falling back to DefaultPreset.
func (c *Config) Experiment() experiment.Config {
	cfg := experiment.Config{Options: c.Options(), Overrides: c.Overrides}
	switch {
	case c.Model != "":
		cfg.Source = c.Model
	case c.ModelFile != "":
		cfg.Model = c.ModelFile
	case c.Preset != "":
		cfg.Model = c.Preset
	default:
		cfg.Model = DefaultPreset
	}
	return cfg
}
