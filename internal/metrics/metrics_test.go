package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/rxnsim/internal/dynamo"
)

type decay struct{ k float64 }

func (d *decay) StateDim() int { return 1 }
func (d *decay) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{-d.k * x[0]}
}

func TestNonNegativity(t *testing.T) {
	m := NewNonNegativity(1e-9)

	m.Observe(dynamo.State{1, 0}, 0)
	m.Observe(dynamo.State{0.5, -1e-12}, 1)
	if m.Value() != 0 {
		t.Errorf("expected no violations within eps, got %v", m.Value())
	}

	m.Observe(dynamo.State{0.2, -0.1}, 2)
	if m.Value() != 1 {
		t.Errorf("expected 1 violation, got %v", m.Value())
	}
	if m.Minimum() != -0.1 {
		t.Errorf("expected minimum -0.1, got %v", m.Minimum())
	}

	m.Reset()
	if m.Value() != 0 || m.Minimum() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMassDrift(t *testing.T) {
	m := NewMassDrift()

	m.Observe(dynamo.State{10, 0}, 0)
	m.Observe(dynamo.State{6, 4}, 1)
	if m.Value() != 0 {
		t.Errorf("expected no drift, got %v", m.Value())
	}

	m.Observe(dynamo.State{6, 3}, 2)
	if math.Abs(m.Value()-0.1) > 1e-12 {
		t.Errorf("expected drift 0.1, got %v", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestMassDriftFromZero(t *testing.T) {
	m := NewMassDrift()
	m.Observe(dynamo.State{0}, 0)
	m.Observe(dynamo.State{2}, 1)
	if m.Value() != 2 {
		t.Errorf("expected absolute drift 2 from an empty start, got %v", m.Value())
	}
}

func TestSteadyState(t *testing.T) {
	m := NewSteadyState(&decay{k: 2})

	m.Observe(dynamo.State{3}, 0)
	if m.Value() != 6 {
		t.Errorf("expected rate norm 6, got %v", m.Value())
	}

	m.Observe(dynamo.State{0}, 1)
	if m.Value() != 0 {
		t.Errorf("expected rate norm 0 at rest, got %v", m.Value())
	}
}

func TestDefaults(t *testing.T) {
	ms := Defaults(&decay{k: 1})
	names := map[string]bool{}
	for _, m := range ms {
		names[m.Name()] = true
	}
	for _, want := range []string{"negative_samples", "mass_drift", "final_rate_norm"} {
		if !names[want] {
			t.Errorf("missing default metric %s", want)
		}
	}
}
