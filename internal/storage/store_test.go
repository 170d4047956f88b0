package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/glucosim/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Times:   []float64{0, 1, 2},
		Glucose: []float64{138.5, 139.1, 140.2},
		CHO:     []float64{0, 45, 0},
		Insulin: []float64{0.0139, 0.6389, 0.0139},
		Metrics: map[string]float64{"time_in_range": 1.0},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("adolescent#001", "basal-bolus", 480, 42, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Patient != "adolescent#001" {
		t.Errorf("expected patient 'adolescent#001', got '%s'", meta.Patient)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Samples != 3 {
		t.Errorf("expected 3 samples, got %d", meta.Samples)
	}
	if meta.Metrics["time_in_range"] != 1.0 {
		t.Errorf("expected time_in_range 1.0, got %f", meta.Metrics["time_in_range"])
	}

	trace, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if len(trace.Times) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(trace.Times))
	}
	if trace.Glucose[1] != 139.1 || trace.CHO[1] != 45 || trace.Insulin[1] != 0.6389 {
		t.Errorf("trace round trip lost values: %+v", trace)
	}
	if trace.Metrics["time_in_range"] != 1.0 {
		t.Errorf("expected metrics restored from metadata, got %+v", trace.Metrics)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save("adult#001", "basal", 60, 0, sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Controller != "basal" {
		t.Errorf("expected controller 'basal', got '%s'", runs[0].Controller)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("child#001", "pid", 30, 0, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "trace.csv")); os.IsNotExist(err) {
		t.Error("trace.csv not created")
	}
}

func TestStoreLoad_Unknown(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Load("run_nope"); err == nil {
		t.Error("expected error for unknown run id")
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, "adolescent#001", "basal", 3, sampleResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if data.Patient != "adolescent#001" {
		t.Errorf("expected patient 'adolescent#001', got '%s'", data.Patient)
	}
	if data.Samples != 3 || len(data.Glucose) != 3 {
		t.Errorf("expected 3 samples, got %d/%d", data.Samples, len(data.Glucose))
	}
}
