package lti

import (
	"math/cmplx"
)

const (
	rootIterations = 500
	rootTolerance  = 1e-13
)

// Roots returns all complex roots of p using Durand-Kerner iteration.
// The polynomial degrees encountered here are small (loop order plus the
// Pade augmentation), so simultaneous iteration converges quickly except
// near repeated roots, where the cluster still localizes well enough for
// stability and horizon decisions.
func Roots(p Poly) []complex128 {
	p = p.Trim()
	n := len(p) - 1
	if n < 1 {
		return nil
	}

	// monic complex copy
	a := make([]complex128, n+1)
	lead := p[n]
	for i, c := range p {
		a[i] = complex(c/lead, 0)
	}

	// standard initial guesses on a non-real spiral
	roots := make([]complex128, n)
	seed := complex(0.4, 0.9)
	guess := complex(1, 0)
	for i := range roots {
		roots[i] = guess
		guess *= seed
	}

	for iter := 0; iter < rootIterations; iter++ {
		maxDelta := 0.0
		for i := range roots {
			num := evalMonic(a, roots[i])
			den := complex(1, 0)
			for j := range roots {
				if j != i {
					den *= roots[i] - roots[j]
				}
			}
			if den == 0 {
				den = complex(1e-12, 0)
			}
			d := num / den
			roots[i] -= d
			if delta := cmplx.Abs(d); delta > maxDelta {
				maxDelta = delta
			}
		}
		if maxDelta < rootTolerance {
			break
		}
	}

	return roots
}

func evalMonic(a []complex128, s complex128) complex128 {
	var v complex128
	for i := len(a) - 1; i >= 0; i-- {
		v = v*s + a[i]
	}
	return v
}
