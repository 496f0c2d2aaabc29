// Package experiment resolves a model and its run settings into a
// configured simulator.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/san-kum/rxnsim/internal/network"
	"github.com/san-kum/rxnsim/internal/sim"
	"github.com/san-kum/rxnsim/internal/timeseries"
)

type Config struct {
	// Model is a registered model name or a path to a model file.
	Model string
	// Source is inline model notation. It takes precedence over Model.
	Source string

	Options sim.Options
	// Overrides replace parameter values or species initial
	// concentrations after parsing.
	Overrides map[string]float64
}

type Experiment struct {
	cfg       Config
	model     *network.Model
	simulator *sim.Simulator
	logger    *slog.Logger
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg, logger: slog.Default()}
}

func (e *Experiment) SetLogger(l *slog.Logger) { e.logger = l }

// Setup parses the model, applies overrides, and builds the simulator.
func (e *Experiment) Setup(reg *Registry) error {
	var (
		m   *network.Model
		err error
	)
	switch {
	case e.cfg.Source != "":
		m, err = network.Parse(e.cfg.Source)
	case e.cfg.Model != "":
		m, err = reg.GetModel(e.cfg.Model)
	default:
		return fmt.Errorf("experiment: no model given")
	}
	if err != nil {
		return err
	}

	names := make([]string, 0, len(e.cfg.Overrides))
	for name := range e.cfg.Overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := m.Set(name, e.cfg.Overrides[name]); err != nil {
			return fmt.Errorf("override %s: %w", name, err)
		}
	}

	return e.setupModel(reg, m)
}

func (e *Experiment) setupModel(reg *Registry, m *network.Model) error {
	integ, err := reg.GetIntegrator(e.cfg.Options.Integrator)
	if err != nil {
		return err
	}

	e.model = m
	e.simulator = sim.New(m, integ)
	e.simulator.SetLogger(e.logger.With("model", m.Name))
	for _, metric := range reg.DefaultMetrics(m) {
		e.simulator.AddMetric(metric)
	}
	return nil
}

// Run simulates the configured model and returns the floating species table.
func (e *Experiment) Run(ctx context.Context) (*timeseries.Table, *sim.Result, error) {
	if e.simulator == nil {
		return nil, nil, fmt.Errorf("experiment not setup")
	}

	return e.simulator.RunModel(ctx, e.model, e.cfg.Options)
}

// Model returns the parsed model after Setup.
func (e *Experiment) Model() *network.Model { return e.model }

func (e *Experiment) Config() Config { return e.cfg }
