package experiment

import (
	"context"
	"fmt"
)

// ParameterSweep reruns one model across evenly spaced values of a single
// parameter or initial concentration.
type ParameterSweep struct {
	Base      Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

type SweepResult struct {
	ParamValue float64
	Final      map[string]float64
	Metrics    map[string]float64
}

// Values lists the swept values, both ends included.
func (s *ParameterSweep) Values() []float64 {
	if s.NumSteps == 1 {
		return []float64{s.ParamMin}
	}
	step := (s.ParamMax - s.ParamMin) / float64(s.NumSteps-1)
	values := make([]float64, s.NumSteps)
	for i := range values {
		values[i] = s.ParamMin + float64(i)*step
	}
	values[len(values)-1] = s.ParamMax
	return values
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i, v := range sweep.Values() {
		cfg := sweep.Base
		cfg.Overrides = make(map[string]float64, len(sweep.Base.Overrides)+1)
		for k, ov := range sweep.Base.Overrides {
			cfg.Overrides[k] = ov
		}
		cfg.Overrides[sweep.ParamName] = v

		exp := New(cfg)
		if err := exp.Setup(registry); err != nil {
			return nil, err
		}

		table, result, err := exp.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", sweep.ParamName, v, err)
		}

		final, err := table.Final()
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue: v,
			Final:      final,
			Metrics:    result.Metrics,
		})

		exp.logger.Debug("sweep point", "index", i+1, "of", sweep.NumSteps, "param", sweep.ParamName, "value", v)
	}

	return results, nil
}
