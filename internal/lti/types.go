package lti

import "math"

// coefficients below this magnitude are treated as zero when trimming
const coeffEps = 1e-12

// Poly is a polynomial in s with ascending coefficients: p[i] multiplies s^i.
type Poly []float64

// Trim drops trailing near-zero coefficients so the leading term is genuine.
func (p Poly) Trim() Poly {
	n := len(p)
	for n > 1 && math.Abs(p[n-1]) < coeffEps {
		n--
	}
	return p[:n]
}

func (p Poly) Degree() int {
	return len(p.Trim()) - 1
}

// Eval evaluates the polynomial at a complex point using Horner's method.
func (p Poly) Eval(s complex128) complex128 {
	var v complex128
	for i := len(p) - 1; i >= 0; i-- {
		v = v*s + complex(p[i], 0)
	}
	return v
}

func (p Poly) Add(q Poly) Poly {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	r := make(Poly, n)
	for i := range p {
		r[i] += p[i]
	}
	for i := range q {
		r[i] += q[i]
	}
	return r
}

func (p Poly) Mul(q Poly) Poly {
	if len(p) == 0 || len(q) == 0 {
		return Poly{}
	}
	r := make(Poly, len(p)+len(q)-1)
	for i, a := range p {
		for j, b := range q {
			r[i+j] += a * b
		}
	}
	return r
}

func (p Poly) Scale(k float64) Poly {
	r := make(Poly, len(p))
	for i, a := range p {
		r[i] = k * a
	}
	return r
}

func (p Poly) Clone() Poly {
	r := make(Poly, len(p))
	copy(r, p)
	return r
}

// TF is a rational transfer function Num(s)/Den(s). The denominator is
// kept monic by the constructor.
type TF struct {
	Num Poly
	Den Poly
}

// New builds a transfer function from numerator and denominator
// coefficients. Both polynomials are copied, trimmed, and normalized so
// the denominator's leading coefficient is one.
func New(num, den Poly) TF {
	n := num.Clone().Trim()
	d := den.Clone().Trim()
	lead := d[len(d)-1]
	if lead != 0 && lead != 1 {
		n = n.Scale(1 / lead)
		d = d.Scale(1 / lead)
	}
	return TF{Num: n, Den: d}
}

// Mul returns the series composition g*h.
func (g TF) Mul(h TF) TF {
	return New(g.Num.Mul(h.Num), g.Den.Mul(h.Den))
}

// Add returns the parallel composition g+h.
func (g TF) Add(h TF) TF {
	return New(g.Num.Mul(h.Den).Add(h.Num.Mul(g.Den)), g.Den.Mul(h.Den))
}

// Feedback closes a unity negative feedback loop around g: g/(1+g).
func (g TF) Feedback() TF {
	return New(g.Num, g.Den.Add(g.Num))
}

// Eval evaluates the transfer function at a complex point s.
func (g TF) Eval(s complex128) complex128 {
	return g.Num.Eval(s) / g.Den.Eval(s)
}

// DCGain returns the steady-state gain g(0). A pole at the origin yields
// a signed infinity; 0/0 yields NaN.
func (g TF) DCGain() float64 {
	num, den := g.Num[0], g.Den[0]
	if den != 0 {
		return num / den
	}
	if num == 0 {
		return math.NaN()
	}
	return math.Inf(1) * sign(num)
}

func (g TF) Poles() []complex128 {
	return Roots(g.Den)
}

func (g TF) Zeros() []complex128 {
	return Roots(g.Num)
}

// IsStable reports whether every pole lies strictly in the left half
// plane. Marginal poles on the imaginary axis count as unstable.
func (g TF) IsStable() bool {
	for _, p := range g.Poles() {
		if real(p) >= -stabilityEps {
			return false
		}
	}
	return true
}

const stabilityEps = 1e-9

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
