package metrics

import (
	"math"

	"github.com/san-kum/rxnsim/internal/dynamo"
)

// MassDrift tracks the largest relative change of the summed concentration
// from its first observed value. Closed networks keep it near zero.
type MassDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewMassDrift() *MassDrift {
	return &MassDrift{name: "mass_drift"}
}

func (m *MassDrift) Name() string { return m.name }

func (m *MassDrift) Observe(x dynamo.State, t float64) {
	total := x.Sum()

	if m.samples == 0 {
		m.initial = total
	}
	m.samples++

	scale := math.Abs(m.initial)
	if scale == 0 {
		scale = 1
	}
	drift := math.Abs(total-m.initial) / scale
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MassDrift) Value() float64 {
	return m.maxDrift
}

func (m *MassDrift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}
