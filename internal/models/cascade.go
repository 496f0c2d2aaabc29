// Package models provides the toy reaction networks used to exercise the
// simulator and the verification harness.
package models

import (
	"fmt"
	"sort"
	"strings"
)

// Cascade writes an n-species first-order chain S1 -> S2 -> ... -> Sn with
// rate constant k on every step and s0 initially in S1.
func Cascade(n int, k, s0 float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "model *cascade%d()\n", n)
	for i := 1; i < n; i++ {
		fmt.Fprintf(&b, "  J%d: S%d -> S%d; k%d*S%d\n", i, i, i+1, i, i)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  S1 = %g\n", s0)
	for i := 1; i < n; i++ {
		fmt.Fprintf(&b, "  k%d = %g\n", i, k)
	}
	b.WriteString("end\n")
	return b.String()
}

// Preset is a named model with a short description.
type Preset struct {
	Name        string
	Description string
	Source      string
}

var presets = map[string]Preset{
	"cascade": {
		Name:        "cascade",
		Description: "six-species linear chain S1 -> ... -> S6, all k = 1, S1 = 10",
		Source:      Cascade(6, 1, 10),
	},
	"decay": {
		Name:        "decay",
		Description: "first-order decay S1 -> ; k*S1 with S1 = 10, k = 0.5",
		Source: `model *decay()
  J1: S1 -> ; k*S1
  S1 = 10
  k = 0.5
end
`,
	},
	"inflow": {
		Name:        "inflow",
		Description: "constant source into a three-step chain with degradation; steady state S_i = v0/k_i",
		Source: `model *inflow()
  J0: $X0 -> S1; v0
  J1: S1 -> S2; k1*S1
  J2: S2 -> S3; k2*S2
  J3: S3 -> ; k3*S3
  X0 = 1
  v0 = 2
  k1 = 1; k2 = 0.5; k3 = 0.25
end
`,
	},
	"reversible": {
		Name:        "reversible",
		Description: "reversible pair S1 <-> S2; equilibrium S2/S1 = kf/kr",
		Source: `model *reversible()
  Jf: S1 -> S2; kf*S1
  Jr: S2 -> S1; kr*S2
  S1 = 10
  kf = 2; kr = 0.5
end
`,
	},
}

// Get returns a preset by name.
func Get(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// Names lists preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
