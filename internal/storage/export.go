package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/glucosim/internal/sim"
)

type ExportData struct {
	Patient    string             `json:"patient"`
	Controller string             `json:"controller"`
	Duration   float64            `json:"duration"`
	Samples    int                `json:"samples"`
	Times      []float64          `json:"times"`
	Glucose    []float64          `json:"glucose"`
	CHO        []float64          `json:"cho"`
	Insulin    []float64          `json:"insulin"`
	Metrics    map[string]float64 `json:"metrics"`
}

// ExportJSON writes one run as a single JSON document.
func ExportJSON(w io.Writer, patient, controller string, duration float64, result *sim.Result) error {
	data := ExportData{
		Patient:    patient,
		Controller: controller,
		Duration:   duration,
		Samples:    len(result.Times),
		Times:      result.Times,
		Glucose:    result.Glucose,
		CHO:        result.CHO,
		Insulin:    result.Insulin,
		Metrics:    result.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSONFile writes one run as a JSON file at path.
func ExportJSONFile(path, patient, controller string, duration float64, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, patient, controller, duration, result)
}
