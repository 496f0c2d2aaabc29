package metrics

import "github.com/san-kum/rxnsim/internal/dynamo"

// SteadyState reports the derivative norm at the last observed sample.
type SteadyState struct {
	name string
	sys  dynamo.System
	norm float64
}

func NewSteadyState(sys dynamo.System) *SteadyState {
	return &SteadyState{name: "final_rate_norm", sys: sys}
}

func (s *SteadyState) Name() string { return s.name }

func (s *SteadyState) Observe(x dynamo.State, t float64) {
	s.norm = s.sys.Derive(x, t).Norm()
}

func (s *SteadyState) Value() float64 { return s.norm }

func (s *SteadyState) Reset() { s.norm = 0 }

// Defaults returns the metrics every simulation run records.
func Defaults(sys dynamo.System) []dynamo.Metric {
	return []dynamo.Metric{
		NewNonNegativity(1e-9),
		NewMassDrift(),
		NewSteadyState(sys),
	}
}
