// Package sim drives a patient plant through a closed-loop scenario: a meal
// schedule supplies carbohydrate announcements, a controller supplies
// insulin rates, and the runner records the resulting glucose trace.
package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/glucosim/internal/patient"
)

type Runner struct {
	patient    *patient.Patient
	controller Controller
	schedule   Schedule
	metrics    []Metric
	observers  []Observer
}

func New(p *patient.Patient, controller Controller, schedule Schedule) *Runner {
	return &Runner{
		patient:    p,
		controller: controller,
		schedule:   schedule,
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run advances the patient one sample period at a time until cfg.Duration
// minutes have elapsed. A patient step failure aborts the run and is
// returned alongside the partial trace recorded so far.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}

	steps := int(cfg.Duration / patient.SampleTime)
	result := &Result{
		Times:   make([]float64, 0, steps),
		Glucose: make([]float64, 0, steps),
		CHO:     make([]float64, 0, steps),
		Insulin: make([]float64, 0, steps),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	start := r.patient.Time()
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := start + float64(i)*patient.SampleTime
		obs := r.patient.Observation()
		cho := r.schedule.CarbsAt(t)
		rate := r.controller.Rate(obs, cho, t)
		action := patient.Action{CHO: cho, Insulin: rate}

		for _, m := range r.metrics {
			m.Observe(obs.Gsub, action, t)
		}
		for _, o := range r.observers {
			o.OnStep(obs.Gsub, action, t)
		}

		result.Times = append(result.Times, t)
		result.Glucose = append(result.Glucose, obs.Gsub)
		result.CHO = append(result.CHO, action.CHO)
		result.Insulin = append(result.Insulin, action.Insulin)

		if err := r.patient.Step(action); err != nil {
			return result, err
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}
