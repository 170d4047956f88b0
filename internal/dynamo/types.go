package dynamo

import "math"

// State is the continuous state vector of an ODE system. For the T1D
// patient plant it has 18 components (stomach, gut, glucose, insulin and
// glucagon compartments).
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Control is the exogenous input vector evaluated alongside the state.
// The patient plant uses {CHO g/min, insulin U/min}.
type Control []float64

func (c Control) Clone() Control {
	out := make(Control, len(c))
	copy(out, c)
	return out
}

// System is an ODE right-hand side: dX/dt = Derive(X, u, t).
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Integrator advances a system by one fixed step.
type Integrator interface {
	Step(sys System, x State, u Control, t, dt float64) State
}

// AdaptiveIntegrator additionally proposes the next step size from a
// local error estimate.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, u Control, t, dt, tol float64) (State, float64, error)
}
