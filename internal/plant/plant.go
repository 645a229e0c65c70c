// Package plant builds validated first- and second-order plant models
// with dead time and converts them to transfer functions.
package plant

import (
	"fmt"
	"math"

	"github.com/san-kum/pidlab/internal/lti"
)

type Order int

const (
	FirstOrder  Order = 1
	SecondOrder Order = 2
)

// ValidationError reports a non-physical plant parameter.
type ValidationError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("plant: %s=%g: %s", e.Param, e.Value, e.Reason)
}

// Model is a first-order-plus-dead-time or second-order-plus-dead-time
// plant:
//
//	order 1: G(s) = K / (tau s + 1) * e^(-theta s)
//	order 2: G(s) = K wn^2 / (s^2 + 2 zeta wn s + wn^2) * e^(-theta s)
type Model struct {
	Order Order
	Gain  float64
	Tau   float64 // first-order time constant
	Omega float64 // second-order natural frequency
	Zeta  float64 // second-order damping ratio
	Theta float64 // dead time
}

func NewFirstOrder(gain, tau, theta float64) (*Model, error) {
	if err := checkGain(gain); err != nil {
		return nil, err
	}
	if tau <= 0 {
		return nil, &ValidationError{"tau", tau, "time constant must be positive"}
	}
	if err := checkTheta(theta); err != nil {
		return nil, err
	}
	return &Model{Order: FirstOrder, Gain: gain, Tau: tau, Theta: theta}, nil
}

func NewSecondOrder(gain, omega, zeta, theta float64) (*Model, error) {
	if err := checkGain(gain); err != nil {
		return nil, err
	}
	if omega <= 0 {
		return nil, &ValidationError{"omega_n", omega, "natural frequency must be positive"}
	}
	if zeta <= 0 {
		return nil, &ValidationError{"zeta", zeta, "damping ratio must be positive"}
	}
	if err := checkTheta(theta); err != nil {
		return nil, err
	}
	return &Model{Order: SecondOrder, Gain: gain, Omega: omega, Zeta: zeta, Theta: theta}, nil
}

// TF builds the plant transfer function. Dead time is folded in through
// a first-order Pade approximation.
func (m *Model) TF() lti.TF {
	var g lti.TF
	switch m.Order {
	case SecondOrder:
		w2 := m.Omega * m.Omega
		g = lti.New(lti.Poly{m.Gain * w2}, lti.Poly{w2, 2 * m.Zeta * m.Omega, 1})
	default:
		g = lti.New(lti.Poly{m.Gain}, lti.Poly{1, m.Tau})
	}
	if m.Theta > 0 {
		g = g.Mul(lti.Pade(m.Theta))
	}
	return g
}

func (m *Model) String() string {
	if m.Order == SecondOrder {
		return fmt.Sprintf("second-order (K=%g, wn=%g, zeta=%g, theta=%g)", m.Gain, m.Omega, m.Zeta, m.Theta)
	}
	return fmt.Sprintf("first-order (K=%g, tau=%g, theta=%g)", m.Gain, m.Tau, m.Theta)
}

func checkGain(gain float64) error {
	if math.IsNaN(gain) || math.IsInf(gain, 0) {
		return &ValidationError{"gain", gain, "process gain must be finite"}
	}
	return nil
}

func checkTheta(theta float64) error {
	if theta < 0 {
		return &ValidationError{"theta", theta, "dead time cannot be negative"}
	}
	return nil
}
