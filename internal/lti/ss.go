package lti

// System is a single-input single-output dynamical system dX/dt = f(x, u, t).
type System interface {
	Derive(x State, u float64, t float64) State
	Dim() int
}

// StateSpace is a controllable-canonical realization
//
//	x' = A x + B u
//	y  = C x + D u
//
// of a proper transfer function.
type StateSpace struct {
	A [][]float64
	B []float64
	C []float64
	D float64
}

// Realize converts the transfer function to controllable-canonical
// state-space form. Biproper functions (equal numerator and denominator
// degree) yield a direct feedthrough term D.
func (g TF) Realize() (*StateSpace, error) {
	num := g.Num.Clone().Trim()
	den := g.Den.Clone().Trim()
	n := len(den) - 1
	if len(num)-1 > n {
		return nil, ErrImproper
	}

	lead := den[n]
	a := make([]float64, n+1)
	for i, c := range den {
		a[i] = c / lead
	}
	b := make([]float64, n+1)
	for i, c := range num {
		b[i] = c / lead
	}

	if n == 0 {
		return &StateSpace{D: b[0]}, nil
	}

	// split off the feedthrough so the remaining numerator is strictly proper
	d := b[n]
	if d != 0 {
		for i := 0; i <= n; i++ {
			b[i] -= d * a[i]
		}
	}

	A := make([][]float64, n)
	for i := range A {
		A[i] = make([]float64, n)
		if i < n-1 {
			A[i][i+1] = 1
		}
	}
	for j := 0; j < n; j++ {
		A[n-1][j] = -a[j]
	}

	B := make([]float64, n)
	B[n-1] = 1

	C := make([]float64, n)
	copy(C, b[:n])

	return &StateSpace{A: A, B: B, C: C, D: d}, nil
}

func (ss *StateSpace) Dim() int {
	return len(ss.B)
}

func (ss *StateSpace) Derive(x State, u float64, _ float64) State {
	n := len(ss.B)
	dx := make(State, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for j, aij := range ss.A[i] {
			sum += aij * x[j]
		}
		dx[i] = sum + ss.B[i]*u
	}
	return dx
}

// Output evaluates y = C x + D u.
func (ss *StateSpace) Output(x State, u float64) float64 {
	y := ss.D * u
	for i, ci := range ss.C {
		y += ci * x[i]
	}
	return y
}
