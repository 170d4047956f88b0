// Package dynamo provides core simulation primitives for continuous-time
// dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator], [AdaptiveIntegrator]: numerical stepper interfaces
//
// # Example
//
//	sys := patient.NewModel(params)
//	sol := integrators.NewSolver(sys, x0, 0, integrators.DefaultOptions())
//	err := sol.Integrate(sol.Time()+1, dynamo.Control{cho, insulin})
//
// # Thread Safety
//
// Solver and patient instances are NOT thread-safe; callers must serialize
// access to a given instance. Independent instances share no mutable state.
package dynamo
