package metrics

import (
	"math"

	"github.com/san-kum/glucosim/internal/patient"
)

// MeanGlucose is the average Gsub over the run.
type MeanGlucose struct {
	sum     float64
	samples int
}

func NewMeanGlucose() *MeanGlucose { return &MeanGlucose{} }

func (m *MeanGlucose) Name() string { return "mean_glucose" }

func (m *MeanGlucose) Observe(gsub float64, a patient.Action, t float64) {
	m.sum += gsub
	m.samples++
}

func (m *MeanGlucose) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanGlucose) Reset() {
	m.sum = 0
	m.samples = 0
}

// CV is the glycemic coefficient of variation (stddev/mean), the usual
// variability summary on CGM reports.
type CV struct {
	sum     float64
	sumSq   float64
	samples int
}

func NewCV() *CV { return &CV{} }

func (m *CV) Name() string { return "cv" }

func (m *CV) Observe(gsub float64, a patient.Action, t float64) {
	m.sum += gsub
	m.sumSq += gsub * gsub
	m.samples++
}

func (m *CV) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	n := float64(m.samples)
	mean := m.sum / n
	if mean == 0 {
		return 0
	}
	variance := m.sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance) / mean
}

func (m *CV) Reset() {
	m.sum = 0
	m.sumSq = 0
	m.samples = 0
}
