// Package storage persists simulation runs on disk, one directory per run
// with a metadata.json summary and a trace.csv of the per-minute samples.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/glucosim/internal/sim"
)

type Store struct {
	root string
}

type Metadata struct {
	RunID      string             `json:"run_id"`
	Patient    string             `json:"patient"`
	Controller string             `json:"controller"`
	Duration   float64            `json:"duration"`
	Seed       int64              `json:"seed"`
	Samples    int                `json:"samples"`
	CreatedAt  time.Time          `json:"created_at"`
	Metrics    map[string]float64 `json:"metrics"`
}

func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.root, 0755)
}

// Save writes one run to disk and returns its id.
func (s *Store) Save(patient, controller string, duration float64, seed int64, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("run_%s", time.Now().Format("20060102_150405.000"))
	runDir := filepath.Join(s.root, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := Metadata{
		RunID:      runID,
		Patient:    patient,
		Controller: controller,
		Duration:   duration,
		Seed:       seed,
		Samples:    len(result.Times),
		CreatedAt:  time.Now().UTC(),
		Metrics:    result.Metrics,
	}
	if err := s.writeMetadata(runDir, &meta); err != nil {
		return "", err
	}
	if err := s.writeTrace(runDir, result); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) writeMetadata(runDir string, meta *Metadata) error {
	file, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(meta)
}

func (s *Store) writeTrace(runDir string, result *sim.Result) error {
	file, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"time", "glucose", "cho", "insulin"}); err != nil {
		return err
	}
	for i := range result.Times {
		rec := []string{
			strconv.FormatFloat(result.Times[i], 'g', -1, 64),
			strconv.FormatFloat(result.Glucose[i], 'g', -1, 64),
			strconv.FormatFloat(result.CHO[i], 'g', -1, 64),
			strconv.FormatFloat(result.Insulin[i], 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Load reads the metadata of a stored run.
func (s *Store) Load(runID string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.root, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrace reads the recorded trace of a stored run.
func (s *Store) LoadTrace(runID string) (*sim.Result, error) {
	file, err := os.Open(filepath.Join(s.root, runID, "trace.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("trace for %s is empty", runID)
	}

	result := &sim.Result{Metrics: make(map[string]float64)}
	for i, rec := range records[1:] {
		if len(rec) != 4 {
			return nil, fmt.Errorf("trace for %s row %d has %d fields, want 4", runID, i+1, len(rec))
		}
		vals := make([]float64, 4)
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("trace for %s row %d: %w", runID, i+1, err)
			}
			vals[j] = v
		}
		result.Times = append(result.Times, vals[0])
		result.Glucose = append(result.Glucose, vals[1])
		result.CHO = append(result.CHO, vals[2])
		result.Insulin = append(result.Insulin, vals[3])
	}

	if meta, err := s.Load(runID); err == nil {
		result.Metrics = meta.Metrics
	}
	return result, nil
}

// List returns metadata for all stored runs, newest first.
func (s *Store) List() ([]*Metadata, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []*Metadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })
	return runs, nil
}
