package verify

import (
	"github.com/san-kum/rxnsim/internal/models"
	"github.com/san-kum/rxnsim/internal/sim"
)

// CascadeSuite checks the six-species cascade: the table is populated and
// all of S1 ends up in S6.
func CascadeSuite() *Suite {
	opts := sim.DefaultOptions()
	opts.End = 50
	opts.Points = 101

	return &Suite{
		Name:  "cascade",
		Setup: NewSetup(models.Cascade(6, 1, 10), opts),
		Cases: []Case{
			{Name: "results table is not empty", Check: NotEmpty()},
			{Name: "S6 approaches 10", Check: FinalNear("S6", 10, 1e-2)},
			{Name: "concentrations stay non-negative", Check: NonNegative(1e-9)},
			{Name: "total concentration is conserved", Check: Conserved(1e-6)},
		},
		FailFast: true,
	}
}
