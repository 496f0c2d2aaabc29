package verify

import (
	"errors"
	"testing"

	"github.com/san-kum/rxnsim/internal/network"
	"github.com/san-kum/rxnsim/internal/timeseries"
)

func fixtureFrom(t *testing.T, species []string, times []float64, rows [][]float64) *Fixture {
	t.Helper()
	table := timeseries.New(species)
	for i, tm := range times {
		if err := table.Append(tm, rows[i]); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return &Fixture{Table: table, Values: map[string]float64{}}
}

func TestAssertions(t *testing.T) {
	f := fixtureFrom(t, []string{"A", "B"},
		[]float64{0, 1, 2},
		[][]float64{{10, 0}, {4, 6}, {1, 9}})

	tests := []struct {
		name  string
		check Check
		pass  bool
	}{
		{"not empty", NotEmpty(), true},
		{"final below holds", FinalBelow("A", 2), true},
		{"final below fails", FinalBelow("A", 1), false},
		{"final above holds", FinalAbove("[B]", 8), true},
		{"final above fails", FinalAbove("B", 9), false},
		{"final near holds", FinalNear("B", 10, 1), true},
		{"final near fails", FinalNear("B", 10, 0.5), false},
		{"unknown species", FinalNear("C", 0, 1), false},
		{"non negative", NonNegative(0), true},
		{"conserved all", Conserved(1e-12), true},
		{"conserved subset fails", Conserved(1e-3, "A"), false},
		{"conserved time column", Conserved(1, "time"), false},
		{"monotonic increasing", Monotonic("B", true, 0), true},
		{"monotonic decreasing", Monotonic("A", false, 0), true},
		{"monotonic wrong way", Monotonic("A", true, 0), false},
		{"all", All(NotEmpty(), FinalBelow("A", 2)), true},
		{"all stops", All(NotEmpty(), FinalBelow("A", 0)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(f)
			if tt.pass && err != nil {
				t.Errorf("expected pass, got %v", err)
			}
			if !tt.pass {
				if err == nil {
					t.Fatal("expected failure")
				}
				if !errors.Is(err, ErrAssertion) {
					t.Errorf("expected ErrAssertion, got %v", err)
				}
			}
		})
	}
}

func TestAssertionsEmptyTable(t *testing.T) {
	f := &Fixture{Table: timeseries.New([]string{"A"})}

	for name, check := range map[string]Check{
		"not_empty":   NotEmpty(),
		"final_near":  FinalNear("A", 0, 1),
		"conserved":   Conserved(1),
		"steady":      SteadyState(1),
		"final_below": FinalBelow("A", 1),
	} {
		if err := check(f); err == nil {
			t.Errorf("%s: expected failure on empty table", name)
		}
	}
}

func TestNonNegativeCatchesDip(t *testing.T) {
	f := fixtureFrom(t, []string{"A"}, []float64{0, 1}, [][]float64{{1}, {-0.5}})

	err := NonNegative(1e-9)(f)
	var ae *AssertionError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AssertionError, got %v", err)
	}
	if ae.Species != "A" || ae.Check != "non_negative" {
		t.Errorf("unexpected error fields: %+v", ae)
	}
}

func TestSteadyState(t *testing.T) {
	m, err := network.Parse("J1: A -> B; k*A\nk = 1")
	if err != nil {
		t.Fatal(err)
	}

	settled := fixtureFrom(t, []string{"A", "B"}, []float64{0, 10}, [][]float64{{1, 0}, {0, 1}})
	settled.Model = m
	if err := SteadyState(1e-9)(settled); err != nil {
		t.Errorf("expected steady state, got %v", err)
	}

	moving := fixtureFrom(t, []string{"A", "B"}, []float64{0, 10}, [][]float64{{1, 0}, {0.5, 0.5}})
	moving.Model = m
	if err := SteadyState(1e-3)(moving); err == nil {
		t.Error("expected failure while A still converts")
	}
}
