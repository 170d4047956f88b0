package metrics

import (
	"math"

	"github.com/san-kum/glucosim/internal/patient"
)

// RiskIndex accumulates the Kovatchev blood-glucose risk indices. The
// symmetrizing transform maps glucose to a risk space where 112.5 mg/dL
// scores zero; negative values contribute to the low index (LBGI),
// positive to the high index (HBGI).
type RiskIndex struct {
	kind    string // "lbgi", "hbgi" or "ri"
	sum     float64
	samples int
}

func NewLBGI() *RiskIndex { return &RiskIndex{kind: "lbgi"} }
func NewHBGI() *RiskIndex { return &RiskIndex{kind: "hbgi"} }
func NewRI() *RiskIndex   { return &RiskIndex{kind: "ri"} }

func (m *RiskIndex) Name() string { return m.kind }

func (m *RiskIndex) Observe(gsub float64, a patient.Action, t float64) {
	m.samples++

	g := gsub
	if g < 1 {
		g = 1
	}
	f := 1.509 * (math.Pow(math.Log(g), 1.084) - 5.381)
	risk := 10 * f * f

	switch m.kind {
	case "lbgi":
		if f < 0 {
			m.sum += risk
		}
	case "hbgi":
		if f > 0 {
			m.sum += risk
		}
	default:
		m.sum += risk
	}
}

func (m *RiskIndex) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *RiskIndex) Reset() {
	m.sum = 0
	m.samples = 0
}
