// Package timeseries holds simulation results as a table indexed by time.
//
// Column 0 is always "time"; one column per species follows. Columns can be
// addressed by bare species name ("S1") or in bracketed concentration form
// ("[S1]").
package timeseries

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const TimeColumn = "time"

var (
	ErrNoColumn = errors.New("timeseries: no such column")
	ErrEmpty    = errors.New("timeseries: table is empty")
	ErrShape    = errors.New("timeseries: row width does not match columns")
	ErrSize     = errors.New("timeseries: plot size must be positive")
)

// Table is a time-indexed table of species values.
type Table struct {
	Names []string    // "time" followed by species names
	Times []float64   // one entry per row
	Rows  [][]float64 // species values, len(Names)-1 per row
}

// New creates an empty table with the given species columns.
func New(species []string) *Table {
	names := make([]string, 0, len(species)+1)
	names = append(names, TimeColumn)
	names = append(names, species...)
	return &Table{Names: names}
}

// Append adds a row. The values are copied.
func (t *Table) Append(time float64, values []float64) error {
	if len(values) != len(t.Names)-1 {
		return fmt.Errorf("%w: got %d values for %d species", ErrShape, len(values), len(t.Names)-1)
	}
	t.Times = append(t.Times, time)
	t.Rows = append(t.Rows, append([]float64(nil), values...))
	return nil
}

func (t *Table) Len() int { return len(t.Times) }

func (t *Table) Empty() bool { return t == nil || len(t.Times) == 0 }

// Species returns the species column names.
func (t *Table) Species() []string {
	return append([]string(nil), t.Names[1:]...)
}

// Index returns the column index of name, 0 being time.
func (t *Table) Index(name string) (int, error) {
	name = strings.TrimSuffix(strings.TrimPrefix(name, "["), "]")
	for i, n := range t.Names {
		if n == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrNoColumn, name)
}

// Column returns a copy of a column's values.
func (t *Table) Column(name string) ([]float64, error) {
	idx, err := t.Index(name)
	if err != nil {
		return nil, err
	}
	if idx == 0 {
		return append([]float64(nil), t.Times...), nil
	}
	col := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[idx-1]
	}
	return col, nil
}

func (t *Table) value(row, idx int) float64 {
	if idx == 0 {
		return t.Times[row]
	}
	return t.Rows[row][idx-1]
}

// First returns the value of a column in the first row.
func (t *Table) First(name string) (float64, error) {
	return t.cell(name, 0)
}

// Last returns the value of a column in the final row.
func (t *Table) Last(name string) (float64, error) {
	return t.cell(name, t.Len()-1)
}

func (t *Table) cell(name string, row int) (float64, error) {
	if t.Empty() {
		return 0, ErrEmpty
	}
	idx, err := t.Index(name)
	if err != nil {
		return 0, err
	}
	return t.value(row, idx), nil
}

// Row returns the time and a copy of the species values at row i.
func (t *Table) Row(i int) (float64, []float64) {
	return t.Times[i], append([]float64(nil), t.Rows[i]...)
}

// Final maps each species to its value in the last row.
func (t *Table) Final() (map[string]float64, error) {
	if t.Empty() {
		return nil, ErrEmpty
	}
	last := t.Rows[len(t.Rows)-1]
	out := make(map[string]float64, len(last))
	for i, name := range t.Names[1:] {
		out[name] = last[i]
	}
	return out, nil
}

// At linearly interpolates a column at time tm. Times outside the table
// clamp to the first or last row.
func (t *Table) At(name string, tm float64) (float64, error) {
	if t.Empty() {
		return 0, ErrEmpty
	}
	idx, err := t.Index(name)
	if err != nil {
		return 0, err
	}
	n := t.Len()
	if tm <= t.Times[0] {
		return t.value(0, idx), nil
	}
	if tm >= t.Times[n-1] {
		return t.value(n-1, idx), nil
	}
	hi := sort.SearchFloat64s(t.Times, tm)
	if t.Times[hi] == tm {
		return t.value(hi, idx), nil
	}
	lo := hi - 1
	frac := (tm - t.Times[lo]) / (t.Times[hi] - t.Times[lo])
	return t.value(lo, idx)*(1-frac) + t.value(hi, idx)*frac, nil
}

// Window returns the rows with t0 <= time <= t1 as a new table.
func (t *Table) Window(t0, t1 float64) *Table {
	out := &Table{Names: append([]string(nil), t.Names...)}
	for i, tm := range t.Times {
		if tm >= t0 && tm <= t1 {
			out.Times = append(out.Times, tm)
			out.Rows = append(out.Rows, append([]float64(nil), t.Rows[i]...))
		}
	}
	return out
}

// Select returns a table restricted to the named species columns.
func (t *Table) Select(names ...string) (*Table, error) {
	idxs := make([]int, len(names))
	out := &Table{Names: []string{TimeColumn}, Times: append([]float64(nil), t.Times...)}
	for i, name := range names {
		idx, err := t.Index(name)
		if err != nil {
			return nil, err
		}
		if idx == 0 {
			return nil, fmt.Errorf("%w: time is always included", ErrNoColumn)
		}
		idxs[i] = idx
		out.Names = append(out.Names, t.Names[idx])
	}
	out.Rows = make([][]float64, len(t.Rows))
	for r := range t.Rows {
		row := make([]float64, len(idxs))
		for i, idx := range idxs {
			row[i] = t.Rows[r][idx-1]
		}
		out.Rows[r] = row
	}
	return out, nil
}
