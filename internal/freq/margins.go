package freq

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/pidlab/internal/lti"
)

const (
	marginSweepSamples = 4000
	bisectIterations   = 80
)

// Margins holds the gain and phase stability margins of an open loop.
// A missing crossover is reported as an infinite margin with a NaN
// crossover frequency.
type Margins struct {
	GainMargin     float64 // linear factor at the phase crossover
	PhaseCrossover float64 // rad/s where phase reaches -180 deg
	PhaseMargin    float64 // degrees at the gain crossover
	GainCrossover  float64 // rad/s where |L| reaches 1
}

// GainMarginDB returns the gain margin in decibels.
func (m Margins) GainMarginDB() float64 {
	if math.IsInf(m.GainMargin, 1) {
		return math.Inf(1)
	}
	return 20 * math.Log10(m.GainMargin)
}

func (m Margins) HasGainMargin() bool {
	return !math.IsInf(m.GainMargin, 1) && !math.IsNaN(m.GainMargin)
}

func (m Margins) HasPhaseMargin() bool {
	return !math.IsInf(m.PhaseMargin, 1) && !math.IsNaN(m.PhaseMargin)
}

// Margin computes the worst-case gain and phase margins of l by scanning
// a log-spaced sweep for crossovers and refining each by bisection.
//
// The phase crossover is located where Im l(jw) changes sign with
// Re l(jw) < 0, which avoids phase unwrapping entirely; the gain margin
// there is -1/Re l(jw). The gain crossover is located where |l(jw)|
// crosses unity.
func Margin(l lti.TF) Margins {
	lo, hi := DefaultRange(l)
	ws := LogSpace(lo, hi, marginSweepSamples)

	resp := make([]complex128, len(ws))
	for i, w := range ws {
		resp[i] = l.Eval(complex(0, w))
	}

	m := Margins{
		GainMargin:     math.Inf(1),
		PhaseCrossover: math.NaN(),
		PhaseMargin:    math.Inf(1),
		GainCrossover:  math.NaN(),
	}

	for i := 1; i < len(ws); i++ {
		if imag(resp[i-1])*imag(resp[i]) < 0 {
			w := bisect(ws[i-1], ws[i], func(w float64) float64 {
				return imag(l.Eval(complex(0, w)))
			})
			re := real(l.Eval(complex(0, w)))
			if re < 0 {
				if gm := -1 / re; gm < m.GainMargin {
					m.GainMargin = gm
					m.PhaseCrossover = w
				}
			}
		}
	}

	for i := 1; i < len(ws); i++ {
		m0 := cmplx.Abs(resp[i-1]) - 1
		m1 := cmplx.Abs(resp[i]) - 1
		if m0*m1 < 0 {
			w := bisect(ws[i-1], ws[i], func(w float64) float64 {
				return cmplx.Abs(l.Eval(complex(0, w))) - 1
			})
			phase := cmplx.Phase(l.Eval(complex(0, w))) * 180 / math.Pi
			pm := wrapDegrees(180 + phase)
			if pm < m.PhaseMargin {
				m.PhaseMargin = pm
				m.GainCrossover = w
			}
		}
	}

	return m
}

func bisect(lo, hi float64, f func(float64) float64) float64 {
	flo := f(lo)
	for i := 0; i < bisectIterations; i++ {
		mid := 0.5 * (lo + hi)
		fmid := f(mid)
		if fmid == 0 {
			return mid
		}
		if (flo < 0) == (fmid < 0) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

func wrapDegrees(deg float64) float64 {
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	return deg
}
