package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/rxnsim/internal/dynamo"
	"github.com/san-kum/rxnsim/internal/integrators"
	"github.com/san-kum/rxnsim/internal/logging"
	"github.com/san-kum/rxnsim/internal/metrics"
	"github.com/san-kum/rxnsim/internal/network"
	"github.com/san-kum/rxnsim/internal/timeseries"
)

type Simulator struct {
	sys        dynamo.System
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	logger     *slog.Logger
}

func New(sys dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		logger:     slog.Default(),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }

func (s *Simulator) SetLogger(l *slog.Logger) { s.logger = l }

// Run integrates from x0 and records the state at every output sample.
// Metrics observe the recorded samples only.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(x0) != s.sys.StateDim() {
		return nil, fmt.Errorf("%w: state has %d values, system has %d", dynamo.ErrDimensionMismatch, len(x0), s.sys.StateDim())
	}

	times := opts.SampleTimes()
	result := &Result{
		States:  make([]dynamo.State, 0, len(times)),
		Times:   make([]float64, 0, len(times)),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := opts.Start
	s.record(result, x, t)

	adaptive, isAdaptive := s.integrator.(dynamo.AdaptiveIntegrator)
	dt := math.Min(opts.MaxStep, opts.Interval())

	for i := 1; i < len(times); i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		target := times[i]
		var err error
		if isAdaptive {
			x, dt, err = s.advanceAdaptive(adaptive, result, x, t, target, dt, opts)
		} else {
			x = s.advanceFixed(result, x, t, target, opts)
		}
		if err != nil {
			return result, &dynamo.SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: err}
		}
		t = target

		if opts.ValidateState && !x.IsValid() {
			return result, &dynamo.SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: dynamo.ErrInvalidState}
		}

		s.record(result, x, t)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debug("simulation finished",
		"samples", len(result.Times),
		"steps", result.StepsTaken,
		"rejected", result.Rejected)

	return result, nil
}

func (s *Simulator) record(result *Result, x dynamo.State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)
}

// advanceFixed covers [t, target] in equal steps no longer than MaxStep.
func (s *Simulator) advanceFixed(result *Result, x dynamo.State, t, target float64, opts Options) dynamo.State {
	n := int(math.Ceil((target-t)/opts.MaxStep - 1e-9))
	if n < 1 {
		n = 1
	}
	h := (target - t) / float64(n)
	for k := 0; k < n; k++ {
		x = s.integrator.Step(s.sys, x, t+float64(k)*h, h)
		result.StepsTaken++
	}
	return x
}

// advanceAdaptive covers [t, target] with error-controlled steps and
// returns the step size to start the next interval with.
func (s *Simulator) advanceAdaptive(integ dynamo.AdaptiveIntegrator, result *Result, x dynamo.State, t, target, dt float64, opts Options) (dynamo.State, float64, error) {
	for target-t > 1e-12*math.Max(1, math.Abs(target)) {
		h := math.Min(dt, opts.MaxStep)
		clipped := false
		if t+h > target {
			h = target - t
			clipped = true
		}

		xNew, next, err := integ.StepAdaptive(s.sys, x, t, h, opts.Tolerance)
		if errors.Is(err, dynamo.ErrStepRejected) {
			result.Rejected++
			s.logger.Log(context.Background(), logging.LevelTrace, "step rejected", "t", t, "h", h, "next", next)
			if next < opts.MinStep {
				return x, dt, dynamo.ErrStepTooSmall
			}
			dt = next
			continue
		}
		if err != nil {
			return x, dt, err
		}

		x = xNew
		t += h
		result.StepsTaken++
		if !clipped || next > dt {
			dt = math.Min(next, opts.MaxStep)
		}
	}
	return x, dt, nil
}

// Simulate runs a parsed model and returns the floating species table.
func Simulate(ctx context.Context, m *network.Model, opts Options) (*timeseries.Table, *Result, error) {
	integ, err := integrators.Get(opts.Integrator)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, err)
	}

	s := New(m, integ)
	for _, metric := range metrics.Defaults(m) {
		s.AddMetric(metric)
	}

	return s.RunModel(ctx, m, opts)
}

// RunModel integrates m from its initial state and returns the floating
// species table. s must have been built for m.
func (s *Simulator) RunModel(ctx context.Context, m *network.Model, opts Options) (*timeseries.Table, *Result, error) {
	result, err := s.Run(ctx, m.InitialState(), opts)
	if err != nil {
		return nil, result, fmt.Errorf("simulate %s: %w", m.Name, err)
	}

	table, err := ToTable(m.FloatingSpecies(), result)
	if err != nil {
		return nil, result, err
	}
	return table, result, nil
}

// ToTable converts a trajectory into a timeseries table.
func ToTable(species []string, result *Result) (*timeseries.Table, error) {
	table := timeseries.New(species)
	for i, x := range result.States {
		if err := table.Append(result.Times[i], x); err != nil {
			return nil, err
		}
	}
	return table, nil
}
