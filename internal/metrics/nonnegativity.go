package metrics

import "github.com/san-kum/rxnsim/internal/dynamo"

// NonNegativity counts observed samples in which any concentration dropped
// below -eps. A correct kinetic model never produces one.
type NonNegativity struct {
	name       string
	eps        float64
	violations int
	minimum    float64
	samples    int
}

func NewNonNegativity(eps float64) *NonNegativity {
	return &NonNegativity{
		name: "negative_samples",
		eps:  eps,
	}
}

func (n *NonNegativity) Name() string { return n.name }

func (n *NonNegativity) Observe(x dynamo.State, t float64) {
	negative := false
	for _, v := range x {
		if n.samples == 0 || v < n.minimum {
			n.minimum = v
		}
		n.samples++
		if v < -n.eps {
			negative = true
		}
	}
	if negative {
		n.violations++
	}
}

func (n *NonNegativity) Value() float64 {
	return float64(n.violations)
}

// Minimum is the smallest concentration seen.
func (n *NonNegativity) Minimum() float64 { return n.minimum }

func (n *NonNegativity) Reset() {
	n.violations = 0
	n.minimum = 0
	n.samples = 0
}
