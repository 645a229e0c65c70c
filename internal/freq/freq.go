// Package freq computes frequency responses and stability margins of
// open-loop transfer functions.
package freq

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/pidlab/internal/lti"
)

// Point is one Bode sample. Phase is unwrapped across the sweep.
type Point struct {
	Omega float64 // rad/s
	Mag   float64 // dB
	Phase float64 // degrees
}

// NyquistPoint is one sample of the Nyquist locus.
type NyquistPoint struct {
	Omega float64
	Re    float64
	Im    float64
}

// LogSpace returns n logarithmically spaced frequencies between lo and hi.
func LogSpace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	l0, l1 := math.Log10(lo), math.Log10(hi)
	ws := make([]float64, n)
	for i := range ws {
		frac := float64(i) / float64(n-1)
		ws[i] = math.Pow(10, l0+frac*(l1-l0))
	}
	return ws
}

// DefaultRange picks a sweep range bracketing the pole and zero
// magnitudes of g by two decades on either side.
func DefaultRange(g lti.TF) (lo, hi float64) {
	lo, hi = 1e-2, 1e2
	minMag, maxMag := math.Inf(1), 0.0
	features := append(g.Poles(), g.Zeros()...)
	for _, f := range features {
		m := cmplx.Abs(f)
		if m < 1e-8 {
			continue
		}
		if m < minMag {
			minMag = m
		}
		if m > maxMag {
			maxMag = m
		}
	}
	if maxMag > 0 {
		if minMag/100 < lo {
			lo = minMag / 100
		}
		if maxMag*100 > hi {
			hi = maxMag * 100
		}
	}
	return lo, hi
}

// Bode evaluates g along the sweep, returning magnitude in dB and
// unwrapped phase in degrees.
func Bode(g lti.TF, ws []float64) []Point {
	points := make([]Point, len(ws))
	offset := 0.0
	prev := 0.0
	for i, w := range ws {
		h := g.Eval(complex(0, w))
		raw := cmplx.Phase(h)
		if i > 0 {
			for raw+offset-prev > math.Pi {
				offset -= 2 * math.Pi
			}
			for raw+offset-prev < -math.Pi {
				offset += 2 * math.Pi
			}
		}
		phase := raw + offset
		prev = phase
		points[i] = Point{
			Omega: w,
			Mag:   20 * math.Log10(cmplx.Abs(h)),
			Phase: phase * 180 / math.Pi,
		}
	}
	return points
}

// Nyquist evaluates the open-loop locus along the sweep.
func Nyquist(g lti.TF, ws []float64) []NyquistPoint {
	points := make([]NyquistPoint, len(ws))
	for i, w := range ws {
		h := g.Eval(complex(0, w))
		points[i] = NyquistPoint{Omega: w, Re: real(h), Im: imag(h)}
	}
	return points
}
