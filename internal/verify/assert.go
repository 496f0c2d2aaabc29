package verify

import (
	"math"

	"github.com/san-kum/rxnsim/internal/dynamo"
)

// Check asserts a property of a fixture. It returns nil when the property
// holds.
type Check func(f *Fixture) error

// NotEmpty requires at least one sample in the table.
func NotEmpty() Check {
	return func(f *Fixture) error {
		if f.Table.Empty() {
			return failf("not_empty", "", "table has no rows")
		}
		return nil
	}
}

// FinalBelow requires the last value of species to be below limit.
func FinalBelow(species string, limit float64) Check {
	return func(f *Fixture) error {
		v, err := f.Table.Last(species)
		if err != nil {
			return failf("final_below", species, "%v", err)
		}
		if !(v < limit) {
			return failf("final_below", species, "final value %g is not below %g", v, limit)
		}
		return nil
	}
}

// FinalAbove requires the last value of species to be above limit.
func FinalAbove(species string, limit float64) Check {
	return func(f *Fixture) error {
		v, err := f.Table.Last(species)
		if err != nil {
			return failf("final_above", species, "%v", err)
		}
		if !(v > limit) {
			return failf("final_above", species, "final value %g is not above %g", v, limit)
		}
		return nil
	}
}

// FinalNear requires the last value of species to be within tol of target.
func FinalNear(species string, target, tol float64) Check {
	return func(f *Fixture) error {
		v, err := f.Table.Last(species)
		if err != nil {
			return failf("final_near", species, "%v", err)
		}
		if d := math.Abs(v - target); !(d <= tol) {
			return failf("final_near", species, "final value %g is %g from %g (tolerance %g)", v, d, target, tol)
		}
		return nil
	}
}

// NonNegative requires every species value to stay at or above -eps.
func NonNegative(eps float64) Check {
	return func(f *Fixture) error {
		if f.Table == nil {
			return failf("non_negative", "", "fixture has no table")
		}
		for _, name := range f.Table.Species() {
			col, err := f.Table.Column(name)
			if err != nil {
				return failf("non_negative", name, "%v", err)
			}
			for i, v := range col {
				if v < -eps || math.IsNaN(v) {
					return failf("non_negative", name, "value %g at t=%g", v, f.Table.Times[i])
				}
			}
		}
		return nil
	}
}

// Conserved requires the summed concentration of the given species to stay
// within relative tolerance tol of its initial value. With no species named
// every column is summed.
func Conserved(tol float64, species ...string) Check {
	return func(f *Fixture) error {
		if f.Table.Empty() {
			return failf("conserved", "", "table has no rows")
		}
		names := species
		if len(names) == 0 {
			names = f.Table.Species()
		}
		idx := make([]int, len(names))
		for i, name := range names {
			j, err := f.Table.Index(name)
			if err != nil {
				return failf("conserved", name, "%v", err)
			}
			if j == 0 {
				return failf("conserved", name, "not a species column")
			}
			idx[i] = j
		}

		total := func(row []float64) float64 {
			var s float64
			for _, j := range idx {
				s += row[j-1]
			}
			return s
		}

		initial := total(f.Table.Rows[0])
		scale := math.Max(math.Abs(initial), 1)
		for i, row := range f.Table.Rows {
			if d := math.Abs(total(row)-initial) / scale; !(d <= tol) {
				return failf("conserved", "", "total drifted by %g at t=%g (tolerance %g)", d, f.Table.Times[i], tol)
			}
		}
		return nil
	}
}

// Monotonic requires species to never decrease (increasing) or never
// increase, allowing slack of tol between consecutive samples.
func Monotonic(species string, increasing bool, tol float64) Check {
	return func(f *Fixture) error {
		if f.Table == nil {
			return failf("monotonic", species, "fixture has no table")
		}
		col, err := f.Table.Column(species)
		if err != nil {
			return failf("monotonic", species, "%v", err)
		}
		for i := 1; i < len(col); i++ {
			d := col[i] - col[i-1]
			if !increasing {
				d = -d
			}
			if d < -tol {
				dir := "decreased"
				if !increasing {
					dir = "increased"
				}
				return failf("monotonic", species, "%s from %g to %g at t=%g", dir, col[i-1], col[i], f.Table.Times[i])
			}
		}
		return nil
	}
}

// SteadyState requires the norm of the rate of change at the final sample
// to be at most tol.
func SteadyState(tol float64) Check {
	return func(f *Fixture) error {
		if f.Table.Empty() {
			return failf("steady_state", "", "table has no rows")
		}
		if f.Model == nil {
			return failf("steady_state", "", "fixture has no model")
		}
		t, row := f.Table.Row(f.Table.Len() - 1)
		norm := f.Model.Derive(dynamo.State(row), t).Norm()
		if !(norm <= tol) {
			return failf("steady_state", "", "rate norm %g at t=%g exceeds %g", norm, t, tol)
		}
		return nil
	}
}

// All runs checks in order and returns the first failure.
func All(checks ...Check) Check {
	return func(f *Fixture) error {
		for _, c := range checks {
			if err := c(f); err != nil {
				return err
			}
		}
		return nil
	}
}
