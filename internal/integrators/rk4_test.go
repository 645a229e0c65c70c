package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/pidlab/internal/lti"
)

// undamped harmonic oscillator: x'' = -x
type oscillator struct{}

func (o *oscillator) Derive(x lti.State, u float64, t float64) lti.State {
	return lti.State{x[1], -x[0]}
}

func (o *oscillator) Dim() int { return 2 }

func TestRK4Accuracy(t *testing.T) {
	sys := &oscillator{}
	integ := NewRK4()

	x := lti.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, 0, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-6 {
		t.Errorf("position error too large: got %.8f, expected %.8f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-6 {
		t.Errorf("velocity error too large: got %.8f, expected %.8f", x[1], expectedV)
	}
}

func TestEulerConvergence(t *testing.T) {
	sys := &oscillator{}
	integ := NewEuler()

	x := lti.State{1.0, 0.0}
	dt := 0.0005
	steps := 2000

	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, 0, float64(i)*dt, dt)
	}

	expected := math.Cos(float64(steps) * dt)
	if math.Abs(x[0]-expected) > 1e-2 {
		t.Errorf("euler drifted too far: got %.6f, expected %.6f", x[0], expected)
	}
}
