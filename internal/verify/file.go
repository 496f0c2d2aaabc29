package verify

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rxnsim/internal/experiment"
	"github.com/san-kum/rxnsim/internal/sim"
)

// SuiteFile is the YAML form of a suite.
type SuiteFile struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Model       string             `yaml:"model,omitempty"`
	ModelFile   string             `yaml:"model_file,omitempty"`
	Preset      string             `yaml:"preset,omitempty"`
	Overrides   map[string]float64 `yaml:"overrides,omitempty"`
	Simulation  sim.Options        `yaml:"simulation"`
	FailFast    bool               `yaml:"fail_fast"`
	Checks      []CheckDef        `yaml:"checks"`

	dir string
}

// CheckDef is one entry of a suite's checks list.
type CheckDef struct {
	Name      string   `yaml:"name"`
	Kind      string   `yaml:"kind"`
	Species   string   `yaml:"species,omitempty"`
	Group     []string `yaml:"group,omitempty"`
	Value     float64  `yaml:"value,omitempty"`
	Tolerance float64  `yaml:"tolerance,omitempty"`
}

// ParseSuite decodes a suite. Simulation fields left out keep their
// defaults and fail_fast defaults to true.
func ParseSuite(data []byte) (*SuiteFile, error) {
	sf := &SuiteFile{
		Simulation: sim.DefaultOptions(),
		FailFast:   true,
	}
	if err := yaml.Unmarshal(data, sf); err != nil {
		return nil, fmt.Errorf("parse suite: %w", err)
	}
	return sf, nil
}

// LoadSuiteFile reads a suite from path. A relative model_file is resolved
// against the suite file's directory.
func LoadSuiteFile(path string) (*SuiteFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sf, err := ParseSuite(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sf.dir = filepath.Dir(path)
	if sf.Name == "" {
		sf.Name = filepath.Base(path)
	}
	return sf, nil
}

// ExperimentConfig returns the model and run settings the suite names.
func (sf *SuiteFile) ExperimentConfig() (experiment.Config, error) {
	cfg := experiment.Config{Options: sf.Simulation, Overrides: sf.Overrides}
	switch {
	case sf.Model != "":
		cfg.Source = sf.Model
	case sf.ModelFile != "":
		path := sf.ModelFile
		if !filepath.IsAbs(path) && sf.dir != "" {
			path = filepath.Join(sf.dir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		cfg.Source = string(data)
	case sf.Preset != "":
		cfg.Model = sf.Preset
	default:
		return cfg, ErrNoModel
	}
	return cfg, nil
}

// Build turns the file into a runnable suite.
func (sf *SuiteFile) Build(reg *experiment.Registry, logger *slog.Logger) (*Suite, error) {
	cfg, err := sf.ExperimentConfig()
	if err != nil {
		return nil, err
	}

	suite := &Suite{
		Name:     sf.Name,
		Setup:    NewExperimentSetup(reg, cfg, logger),
		FailFast: sf.FailFast,
		Cases:    make([]Case, 0, len(sf.Checks)),
	}
	for i, def := range sf.Checks {
		check, err := def.Check()
		if err != nil {
			return nil, fmt.Errorf("check %d: %w", i+1, err)
		}
		name := def.Name
		if name == "" {
			name = def.Kind
			if def.Species != "" {
				name += " " + def.Species
			}
		}
		suite.Cases = append(suite.Cases, Case{Name: name, Check: check})
	}
	return suite, nil
}

// Check builds the assertion c names.
func (c CheckDef) Check() (Check, error) {
	needSpecies := func() error {
		if c.Species == "" {
			return fmt.Errorf("%s needs a species", c.Kind)
		}
		return nil
	}

	switch c.Kind {
	case "not_empty":
		return NotEmpty(), nil
	case "final_below":
		if err := needSpecies(); err != nil {
			return nil, err
		}
		return FinalBelow(c.Species, c.Value), nil
	case "final_above":
		if err := needSpecies(); err != nil {
			return nil, err
		}
		return FinalAbove(c.Species, c.Value), nil
	case "final_near":
		if err := needSpecies(); err != nil {
			return nil, err
		}
		return FinalNear(c.Species, c.Value, c.Tolerance), nil
	case "non_negative":
		return NonNegative(c.Tolerance), nil
	case "conserved":
		return Conserved(c.Tolerance, c.Group...), nil
	case "monotonic_increasing", "monotonic_decreasing":
		if err := needSpecies(); err != nil {
			return nil, err
		}
		return Monotonic(c.Species, c.Kind == "monotonic_increasing", c.Tolerance), nil
	case "steady_state":
		return SteadyState(c.Tolerance), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCheck, c.Kind)
	}
}
