// Package pid defines the PID gain value object and its controller
// transfer function.
package pid

import (
	"math"

	"github.com/san-kum/pidlab/internal/lti"
)

// Gains holds a PID controller in parallel form: C(s) = Kp + Ki/s + Kd s.
type Gains struct {
	Kp float64 `json:"kp"`
	Ki float64 `json:"ki"`
	Kd float64 `json:"kd"`
}

func (g Gains) IsZero() bool {
	return g.Kp == 0 && g.Ki == 0 && g.Kd == 0
}

// Ti returns the integral time of the equivalent series form, Kp/Ki.
// A pure P or PD controller has infinite integral time.
func (g Gains) Ti() float64 {
	if g.Ki == 0 {
		return math.Inf(1)
	}
	return g.Kp / g.Ki
}

// Td returns the derivative time Kd/Kp.
func (g Gains) Td() float64 {
	if g.Kp == 0 {
		return 0
	}
	return g.Kd / g.Kp
}

// TF returns the controller transfer function. With integral action the
// result is (Kd s^2 + Kp s + Ki)/s; without it the controller is the
// polynomial Kp + Kd s.
func (g Gains) TF() lti.TF {
	if g.Ki == 0 {
		return lti.New(lti.Poly{g.Kp, g.Kd}, lti.Poly{1})
	}
	return lti.New(lti.Poly{g.Ki, g.Kp, g.Kd}, lti.Poly{0, 1})
}
