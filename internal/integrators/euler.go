package integrators

import "github.com/san-kum/pidlab/internal/lti"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys lti.System, x lti.State, u, t, dt float64) lti.State {
	dx := sys.Derive(x, u, t)
	result := make(lti.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
