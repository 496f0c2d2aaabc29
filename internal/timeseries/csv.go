package timeseries

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes a header row followed by one row per sample.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Names); err != nil {
		return err
	}

	for i := range t.Times {
		row := make([]string, 0, len(t.Names))
		row = append(row, formatValue(t.Times[i]))
		for _, val := range t.Rows[i] {
			row = append(row, formatValue(val))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatValue uses the shortest representation that parses back to v.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ReadCSV parses a table written by WriteCSV.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrEmpty)
	}

	header := records[0]
	if len(header) == 0 || header[0] != TimeColumn {
		return nil, fmt.Errorf("%w: first column must be %q", ErrNoColumn, TimeColumn)
	}

	t := &Table{Names: append([]string(nil), header...)}
	for line, record := range records[1:] {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", line+1, header[j], err)
			}
			vals[j] = v
		}
		if err := t.Append(vals[0], vals[1:]); err != nil {
			return nil, fmt.Errorf("row %d: %w", line+1, err)
		}
	}
	return t, nil
}
