package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/glucosim/internal/dynamo"
)

func TestRK4_Step(t *testing.T) {
	integrator := NewRK4()
	sys := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}
	dt := 0.01

	for i := 0; i < 1000; i++ {
		x = integrator.Step(sys, x, nil, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Error("RK4 produced invalid state")
	}

	// after t=10 the analytic solution is cos(10)
	if math.Abs(x[0]-math.Cos(10)) > 1e-4 {
		t.Errorf("expected x[0] ~ %.6f, got %.6f", math.Cos(10), x[0])
	}
}

func TestEuler_Step(t *testing.T) {
	integrator := NewEuler()
	sys := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}

	x = integrator.Step(sys, x, nil, 0, 0.1)

	if x[0] != 1.0 || x[1] != -0.1 {
		t.Errorf("unexpected euler step: %v", x)
	}
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	sys := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(sys, x, nil, 0, 0.01)
	}
}

func BenchmarkRK45(b *testing.B) {
	integrator := NewRK45()
	sys := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(sys, x, nil, 0, 0.01)
	}
}
