package sim

import (
	"sort"

	"github.com/san-kum/glucosim/internal/patient"
)

// Controller decides the insulin infusion rate (U/min) for the coming
// minute from the glucose observation and the carbohydrate announcement
// passed to the patient this minute.
type Controller interface {
	Rate(obs patient.Observation, announcedCHO, t float64) float64
}

// Metric accumulates a summary statistic over a run.
type Metric interface {
	Name() string
	Observe(gsub float64, a patient.Action, t float64)
	Value() float64
	Reset()
}

// Observer is notified once per sample instant, before the step is taken.
type Observer interface {
	OnStep(gsub float64, a patient.Action, t float64)
}

// MealEvent announces Carbs grams of CHO at minute At.
type MealEvent struct {
	At    float64
	Carbs float64
}

// Schedule is a meal scenario. CarbsAt returns the grams announced at
// sample instant t (events within one sample period of t).
type Schedule []MealEvent

func (s Schedule) CarbsAt(t float64) float64 {
	total := 0.0
	for _, e := range s {
		if t <= e.At && e.At < t+patient.SampleTime {
			total += e.Carbs
		}
	}
	return total
}

func (s Schedule) Sorted() Schedule {
	out := make(Schedule, len(s))
	copy(out, s)
	sort.Slice(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out
}

// Config bounds one run.
type Config struct {
	Duration float64 // minutes
}

// Result is the recorded closed-loop trace.
type Result struct {
	Times   []float64
	Glucose []float64 // Gsub, mg/dL
	CHO     []float64 // announced g/min
	Insulin []float64 // U/min
	Metrics map[string]float64
}
