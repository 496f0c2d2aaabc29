package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/rxnsim/internal/timeseries"
)

type ExportData struct {
	Model      string      `json:"model"`
	Integrator string      `json:"integrator"`
	Start      float64     `json:"start"`
	End        float64     `json:"end"`
	Points     int         `json:"points"`
	Species    []string    `json:"species"`
	Parameters Values      `json:"parameters,omitempty"`
	Times      []float64   `json:"times"`
	Rows       [][]float64 `json:"rows"`
	Metrics    Values      `json:"metrics,omitempty"`
}

func NewExportData(meta *RunMetadata, table *timeseries.Table) ExportData {
	return ExportData{
		Model:      meta.Model,
		Integrator: meta.Options.Integrator,
		Start:      meta.Options.Start,
		End:        meta.Options.End,
		Points:     meta.Options.Points,
		Species:    table.Species(),
		Parameters: meta.Parameters,
		Times:      table.Times,
		Rows:       table.Rows,
		Metrics:    meta.Metrics,
	}
}

func WriteJSON(w io.Writer, meta *RunMetadata, table *timeseries.Table) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, table))
}

func ExportJSON(path string, meta *RunMetadata, table *timeseries.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, table)
}

func ExportCSV(path string, table *timeseries.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return table.WriteCSV(file)
}
