package verify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/rxnsim/internal/experiment"
	"github.com/san-kum/rxnsim/internal/network"
	"github.com/san-kum/rxnsim/internal/sim"
	"github.com/san-kum/rxnsim/internal/timeseries"
)

// Fixture is the data a check runs against.
type Fixture struct {
	Model  *network.Model
	Table  *timeseries.Table
	Result *sim.Result
	// Values holds scalars a setup wants to hand to its checks.
	Values map[string]float64
}

// SetupFunc builds a fresh fixture for one case.
type SetupFunc func(ctx context.Context) (*Fixture, error)

// NewSetup parses src and simulates it with opts on every call.
func NewSetup(src string, opts sim.Options) SetupFunc {
	return NewExperimentSetup(experiment.NewRegistry(), experiment.Config{Source: src, Options: opts}, nil)
}

// NewExperimentSetup resolves cfg through reg and simulates it on every call.
func NewExperimentSetup(reg *experiment.Registry, cfg experiment.Config, logger *slog.Logger) SetupFunc {
	return func(ctx context.Context) (*Fixture, error) {
		exp := experiment.New(cfg)
		if logger != nil {
			exp.SetLogger(logger)
		}
		if err := exp.Setup(reg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSetup, err)
		}

		table, result, err := exp.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSetup, err)
		}

		return &Fixture{
			Model:  exp.Model(),
			Table:  table,
			Result: result,
			Values: make(map[string]float64),
		}, nil
	}
}
