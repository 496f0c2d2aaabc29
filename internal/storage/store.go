package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/rxnsim/internal/network"
	"github.com/san-kum/rxnsim/internal/sim"
	"github.com/san-kum/rxnsim/internal/timeseries"
)

const (
	metadataFile   = "metadata.json"
	timeseriesFile = "timeseries.csv"
	modelFile      = "model.ant"
)

// ErrRunNotFound is returned for an unknown run id.
var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID         string      `json:"id"`
	Model      string      `json:"model"`
	Timestamp  time.Time   `json:"timestamp"`
	Options    sim.Options `json:"options"`
	Species    []string    `json:"species"`
	Parameters Values      `json:"parameters"`
	Steps      int         `json:"steps"`
	Rejected   int         `json:"rejected"`
	Metrics    Values      `json:"metrics"`
}

// Values is a named set of numbers. NaN and infinities, which JSON cannot
// hold as numbers, are encoded as the strings "NaN", "+Inf" and "-Inf".
type Values map[string]float64

func (v Values) MarshalJSON() ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	out := make(map[string]any, len(v))
	for name, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			out[name] = strconv.FormatFloat(x, 'g', -1, 64)
			continue
		}
		out[name] = x
	}
	return json.Marshal(out)
}

func (v *Values) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*v = nil
		return nil
	}
	out := make(Values, len(raw))
	for name, x := range raw {
		switch x := x.(type) {
		case float64:
			out[name] = x
		case string:
			f, err := strconv.ParseFloat(x, 64)
			if err != nil {
				return fmt.Errorf("value %s: %w", name, err)
			}
			out[name] = f
		default:
			return fmt.Errorf("value %s: unexpected %T", name, x)
		}
	}
	*v = out
	return nil
}

// Save writes a run directory holding metadata, the model source when
// given, and the timeseries table. A failed save leaves no directory behind.
func (s *Store) Save(m *network.Model, src string, opts sim.Options, table *timeseries.Table, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", m.Name, now.UnixNano())

	params := make(Values, len(m.Parameters()))
	for _, name := range m.Parameters() {
		v, err := m.Get(name)
		if err != nil {
			return "", err
		}
		params[name] = v
	}

	meta := RunMetadata{
		ID:         runID,
		Model:      m.Name,
		Timestamp:  now,
		Options:    opts,
		Species:    table.Species(),
		Parameters: params,
	}
	if result != nil {
		meta.Steps = result.StepsTaken
		meta.Rejected = result.Rejected
		meta.Metrics = result.Metrics
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := writeRun(runDir, append(data, '\n'), src, table); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeRun(runDir string, meta []byte, src string, table *timeseries.Table) error {
	if err := os.WriteFile(filepath.Join(runDir, metadataFile), meta, 0644); err != nil {
		return err
	}

	if src != "" {
		if err := os.WriteFile(filepath.Join(runDir, modelFile), []byte(src), 0644); err != nil {
			return err
		}
	}

	csvFile, err := os.Create(filepath.Join(runDir, timeseriesFile))
	if err != nil {
		return err
	}
	if err := table.WriteCSV(csvFile); err != nil {
		csvFile.Close()
		return err
	}
	return csvFile.Close()
}

// List returns stored runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTable(runID string) (*timeseries.Table, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, timeseriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return timeseries.ReadCSV(file)
}

// LoadModel returns the stored model source, or "" if none was saved.
func (s *Store) LoadModel(runID string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, modelFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}
