package sim

import (
	"fmt"

	"github.com/san-kum/rxnsim/internal/dynamo"
)

const (
	DefaultStart      = 0.0
	DefaultEnd        = 10.0
	DefaultPoints     = 51
	DefaultIntegrator = "rk45"
	DefaultTolerance  = 1e-8
	DefaultMaxStep    = 0.01
	DefaultMinStep    = 1e-12
)

// Options describes one simulation: output grid and stepping.
type Options struct {
	Start      float64 `yaml:"start" json:"start"`
	End        float64 `yaml:"end" json:"end"`
	Points     int     `yaml:"points" json:"points"`
	Integrator string  `yaml:"integrator" json:"integrator"`
	Tolerance  float64 `yaml:"tolerance" json:"tolerance"`
	MaxStep    float64 `yaml:"max_step" json:"max_step"`
	MinStep    float64 `yaml:"min_step" json:"min_step"`

	// ValidateState stops the run on the first NaN/Inf sample.
	ValidateState bool `yaml:"validate_state" json:"validate_state"`
}

func DefaultOptions() Options {
	return Options{
		Start:         DefaultStart,
		End:           DefaultEnd,
		Points:        DefaultPoints,
		Integrator:    DefaultIntegrator,
		Tolerance:     DefaultTolerance,
		MaxStep:       DefaultMaxStep,
		MinStep:       DefaultMinStep,
		ValidateState: true,
	}
}

// Interval is the spacing of output samples.
func (o Options) Interval() float64 {
	return (o.End - o.Start) / float64(o.Points-1)
}

// SampleTimes lists the output grid, both ends included.
func (o Options) SampleTimes() []float64 {
	times := make([]float64, o.Points)
	step := o.Interval()
	for i := range times {
		times[i] = o.Start + float64(i)*step
	}
	times[len(times)-1] = o.End
	return times
}

func (o Options) Validate() error {
	if o.End <= o.Start {
		return fmt.Errorf("%w: end (%g) must be after start (%g)", dynamo.ErrInvalidConfig, o.End, o.Start)
	}
	if o.Points < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", dynamo.ErrInvalidConfig, o.Points)
	}
	if o.MaxStep <= 0 {
		return fmt.Errorf("%w: max step must be positive, got %g", dynamo.ErrInvalidConfig, o.MaxStep)
	}
	if o.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive, got %g", dynamo.ErrInvalidConfig, o.Tolerance)
	}
	if o.MinStep < 0 || o.MinStep >= o.MaxStep {
		return fmt.Errorf("%w: min step must be in [0, max step), got %g", dynamo.ErrInvalidConfig, o.MinStep)
	}
	return nil
}

// Result is the raw trajectory at the output samples.
type Result struct {
	States     []dynamo.State
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Rejected   int
}
