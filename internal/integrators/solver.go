package integrators

import (
	"math"

	"github.com/san-kum/glucosim/internal/dynamo"
)

// Options bound the adaptive stepping inside one Integrate call.
type Options struct {
	Tolerance   float64
	InitialStep float64
	MinStep     float64
	MaxStep     float64
	MaxSteps    int
}

func DefaultOptions() Options {
	return Options{
		Tolerance:   1e-6,
		InitialStep: 0.1,
		MinStep:     1e-8,
		MaxStep:     1.0,
		MaxSteps:    10000,
	}
}

// Solver owns the integration state (t, x) of one system trajectory and
// advances it to requested target times with adaptive substeps. It is the
// stateful front-end the stepping loop re-enters once per sample period,
// carrying the step size across calls.
type Solver struct {
	sys     dynamo.System
	stepper dynamo.AdaptiveIntegrator
	opts    Options

	x  dynamo.State
	t  float64
	dt float64
}

func NewSolver(sys dynamo.System, x0 dynamo.State, t0 float64, opts Options) *Solver {
	return &Solver{
		sys:     sys,
		stepper: NewRK45(),
		opts:    opts,
		x:       x0.Clone(),
		t:       t0,
		dt:      opts.InitialStep,
	}
}

func (s *Solver) State() dynamo.State { return s.x.Clone() }
func (s *Solver) Time() float64       { return s.t }

// Integrate advances the trajectory to target under input u, held constant
// over the interval. On failure the solver's (t, x) are left at the last
// committed sample instant, never at an internal substep.
func (s *Solver) Integrate(target float64, u dynamo.Control) error {
	x := s.x.Clone()
	t := s.t
	dt := s.dt
	steps := 0

	for t < target-1e-9 {
		if steps >= s.opts.MaxSteps {
			return &dynamo.SolveError{Time: t, Steps: steps, State: x, Wrapped: dynamo.ErrTooManySteps}
		}
		h := math.Min(dt, target-t)
		if h > s.opts.MaxStep {
			h = s.opts.MaxStep
		}

		trial, next, err := s.stepper.StepAdaptive(s.sys, x, u, t, h, s.opts.Tolerance)
		if err != nil {
			return &dynamo.SolveError{Time: t, Steps: steps, State: x, Wrapped: err}
		}
		steps++

		// A proposal below safety*h means the embedded error estimate
		// rejected the step; retry smaller without advancing.
		if next < 0.9*h {
			if next < s.opts.MinStep {
				return &dynamo.SolveError{Time: t, Steps: steps, State: x, Wrapped: dynamo.ErrStepTooSmall}
			}
			dt = next
			continue
		}

		if !trial.IsValid() {
			return &dynamo.SolveError{Time: t, Steps: steps, State: trial, Wrapped: dynamo.ErrInvalidState}
		}

		x = trial
		t += h
		dt = math.Min(next, s.opts.MaxStep)
	}

	s.x = x
	s.t = target
	s.dt = dt
	return nil
}
