package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/pidlab/internal/freq"
	"github.com/san-kum/pidlab/internal/lti"
	"github.com/san-kum/pidlab/internal/metrics"
	"github.com/san-kum/pidlab/internal/pid"
	"github.com/san-kum/pidlab/internal/plant"
)

const (
	stepSamples    = 1500
	bodeSamples    = 500
	defaultHorizon = 50.0
	settleBand     = 0.02
)

// ErrZeroController rejects analysis of an all-zero controller.
var ErrZeroController = errors.New("analysis: controller gains are all zero")

// StepInfo holds time-domain step response characteristics. Fields are
// NaN when the response does not settle.
type StepInfo struct {
	Overshoot    float64 // percent of the final value
	SettlingTime float64 // seconds to stay within the 2% band
	RiseTime     float64 // 10% to 90% crossing, seconds
	Peak         float64
	PeakTime     float64
	FinalValue   float64
}

// Result is the full analyzer output for one (plant, gains) pair.
type Result struct {
	OpenLoop   lti.TF
	ClosedLoop lti.TF
	Times      []float64
	Outputs    []float64
	Bode       []freq.Point
	Nyquist    []freq.NyquistPoint
	Margins    freq.Margins
	Info       StepInfo
	Indices    map[string]float64
	Stable     bool
	Warnings   []string
}

// Analyze forms the unity-feedback closed loop for the plant under the
// given PID gains and computes every performance output. Pure: identical
// inputs produce identical results.
func Analyze(m *plant.Model, g pid.Gains) (*Result, error) {
	if g.IsZero() {
		return nil, ErrZeroController
	}

	open := g.TF().Mul(m.TF())
	closed := open.Feedback()

	res := &Result{OpenLoop: open, ClosedLoop: closed}

	poles := closed.Poles()
	res.Stable = stablePoles(poles)

	times, outputs, truncated, err := simulateStep(closed, settlingHorizon(poles))
	if err != nil {
		return nil, err
	}
	res.Times = times
	res.Outputs = outputs
	if truncated {
		res.Warnings = append(res.Warnings, "step response diverged; trajectory truncated")
	}

	res.Indices = accumulateIndices(times, outputs)

	if res.Stable {
		info, settled := stepInfo(times, outputs, closed.DCGain())
		res.Info = info
		if !settled {
			res.Warnings = append(res.Warnings, "response did not settle within the simulation horizon")
		}
	} else {
		res.Info = notSettled()
		res.Warnings = append(res.Warnings, "closed loop is unstable; time-domain metrics are not settled")
	}

	lo, hi := freq.DefaultRange(open)
	ws := freq.LogSpace(lo, hi, bodeSamples)
	res.Bode = freq.Bode(open, ws)
	res.Nyquist = freq.Nyquist(open, ws)
	res.Margins = freq.Margin(open)

	return res, nil
}

func stablePoles(poles []complex128) bool {
	for _, p := range poles {
		if real(p) >= -1e-9 {
			return false
		}
	}
	return true
}

// settlingHorizon picks a simulation length of ten time constants of the
// slowest strictly stable pole, falling back to a fixed window when the
// loop has none.
func settlingHorizon(poles []complex128) float64 {
	decay := math.Inf(1)
	for _, p := range poles {
		if real(p) < -1e-6 && -real(p) < decay {
			decay = -real(p)
		}
	}
	if math.IsInf(decay, 1) {
		return defaultHorizon
	}
	return 10 / decay
}

func accumulateIndices(times, outputs []float64) map[string]float64 {
	ms := metrics.All()
	for i := range times {
		e := 1.0 - outputs[i]
		for _, m := range ms {
			m.Observe(times[i], e)
		}
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

func notSettled() StepInfo {
	nan := math.NaN()
	return StepInfo{
		Overshoot:    nan,
		SettlingTime: nan,
		RiseTime:     nan,
		Peak:         nan,
		PeakTime:     nan,
		FinalValue:   nan,
	}
}
