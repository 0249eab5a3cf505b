package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/shocksim/internal/flow"
	"github.com/san-kum/shocksim/internal/metrics"
	"github.com/san-kum/shocksim/internal/shock"
	"github.com/san-kum/shocksim/internal/sweep"
)

const (
	KindSolve = "solve"
	KindSweep = "sweep"

	metaFile  = "metadata.json"
	tableFile = "data.csv"
)

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

// Case describes the inputs of a saved run.
type Case struct {
	Name          string  `json:"name,omitempty"`
	Composition   string  `json:"composition"`
	Temperature   float64 `json:"temperature"`
	Pressure      float64 `json:"pressure"`
	Tolerance     float64 `json:"tolerance"`
	MaxIterations int     `json:"max_iterations"`
	Guess         string  `json:"guess"`
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Case      Case      `json:"case"`

	Converged  bool               `json:"converged"`
	Mach1      float64            `json:"mach1,omitempty"`
	Epsilon    float64            `json:"epsilon,omitempty"`
	Iterations int                `json:"iterations,omitempty"`
	Upstream   *flow.Summary      `json:"upstream,omitempty"`
	Downstream *flow.Summary      `json:"downstream,omitempty"`
	Residuals  *metrics.Residuals `json:"residuals,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
	Error      string             `json:"error,omitempty"`

	Points int `json:"points,omitempty"`
	Failed int `json:"failed,omitempty"`

	Columns []string `json:"columns"`
}

// Table is the numeric payload of a run: the epsilon history for a solve,
// one row per Mach number for a sweep.
type Table struct {
	Columns []string
	Rows    [][]float64
}

// Column returns the named column, or nil.
func (t *Table) Column(name string) []float64 {
	for j, c := range t.Columns {
		if c != name {
			continue
		}
		out := make([]float64, len(t.Rows))
		for i, row := range t.Rows {
			if j < len(row) {
				out[i] = row[j]
			}
		}
		return out
	}
	return nil
}

var (
	historyColumns = []string{"iteration", "epsilon"}
	sweepColumns   = []string{
		"mach1", "converged", "iterations", "epsilon",
		"t2", "p2", "rho2", "mach2", "pressure_ratio", "temperature_ratio", "entropy_rise",
	}
)

// SaveSolve stores a single solve. runErr is the error Converge returned, if any.
func (s *Store) SaveSolve(c Case, res *shock.Result, runErr error) (string, error) {
	if res == nil {
		return "", errors.New("storage: nil result")
	}
	up, down, r := res.Upstream, res.Downstream, res.Residuals
	meta := RunMetadata{
		Kind:       KindSolve,
		Case:       c,
		Converged:  res.Converged,
		Mach1:      up.Mach,
		Epsilon:    res.Epsilon,
		Iterations: res.Iterations,
		Upstream:   &up,
		Downstream: &down,
		Residuals:  &r,
		Metrics:    res.Metrics,
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}

	t := &Table{Columns: historyColumns, Rows: make([][]float64, len(res.History))}
	for i, eps := range res.History {
		t.Rows[i] = []float64{float64(i), eps}
	}
	return s.save(&meta, t)
}

// SaveSweep stores a sweep. Failed points without a result are skipped in
// the table but counted in the metadata.
func (s *Store) SaveSweep(c Case, points []sweep.Point) (string, error) {
	meta := RunMetadata{Kind: KindSweep, Case: c, Points: len(points), Converged: true}

	t := &Table{Columns: sweepColumns}
	for _, p := range points {
		if p.Err != nil {
			meta.Failed++
			meta.Converged = false
		}
		if p.Result == nil {
			continue
		}
		r := p.Result
		conv := 0.0
		if r.Converged {
			conv = 1
		}
		t.Rows = append(t.Rows, []float64{
			p.Mach1, conv, float64(r.Iterations), r.Epsilon,
			r.Downstream.Temperature, r.Downstream.Pressure, r.Downstream.Density, r.Downstream.Mach,
			r.Downstream.Pressure / r.Upstream.Pressure,
			r.Downstream.Temperature / r.Upstream.Temperature,
			r.Downstream.Entropy - r.Upstream.Entropy,
		})
	}
	return s.save(&meta, t)
}

func (s *Store) save(meta *RunMetadata, t *Table) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Kind, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	for i := 1; ; i++ {
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
		runID = fmt.Sprintf("%s_%d_%d", meta.Kind, now.UnixNano(), i)
		runDir = filepath.Join(s.baseDir, runID)
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Columns = t.Columns

	mf, err := os.Create(filepath.Join(runDir, metaFile))
	if err != nil {
		return "", err
	}
	defer mf.Close()

	enc := json.NewEncoder(mf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, tableFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, t); err != nil {
		return "", err
	}
	return runID, nil
}

// List returns every readable run, oldest first.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metaFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTable(runID string) (*Table, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, tableFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	t := &Table{}
	if len(records) == 0 {
		return t, nil
	}
	t.Columns = records[0]
	t.Rows = make([][]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		row := make([]float64, 0, len(record))
		for _, field := range record {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: %w", runID, err)
			}
			row = append(row, val)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
