// Package metrics provides glycemic summary statistics accumulated over a
// closed-loop run.
package metrics

import "github.com/san-kum/glucosim/internal/patient"

// TimeInRange reports the fraction of samples with glucose inside
// [lo, hi] mg/dL. The conventional clinical band is 70-180.
type TimeInRange struct {
	lo, hi  float64
	inRange int
	samples int
}

func NewTimeInRange(lo, hi float64) *TimeInRange {
	return &TimeInRange{lo: lo, hi: hi}
}

func (m *TimeInRange) Name() string { return "time_in_range" }

func (m *TimeInRange) Observe(gsub float64, a patient.Action, t float64) {
	m.samples++
	if gsub >= m.lo && gsub <= m.hi {
		m.inRange++
	}
}

func (m *TimeInRange) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.inRange) / float64(m.samples)
}

func (m *TimeInRange) Reset() {
	m.inRange = 0
	m.samples = 0
}
