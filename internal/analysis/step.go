package analysis

import (
	"math"

	"github.com/san-kum/pidlab/internal/integrators"
	"github.com/san-kum/pidlab/internal/lti"
)

// simulateStep integrates the closed loop's unit step response with RK4
// on its state-space realization. The trajectory is truncated early if
// the state overflows to NaN/Inf.
func simulateStep(closed lti.TF, horizon float64) (times, outputs []float64, truncated bool, err error) {
	ss, err := closed.Realize()
	if err != nil {
		return nil, nil, false, err
	}

	dt := horizon / float64(stepSamples-1)
	integ := integrators.NewRK4()
	x := make(lti.State, ss.Dim())

	times = make([]float64, 0, stepSamples)
	outputs = make([]float64, 0, stepSamples)

	for i := 0; i < stepSamples; i++ {
		t := float64(i) * dt
		times = append(times, t)
		outputs = append(outputs, ss.Output(x, 1))
		if i == stepSamples-1 {
			break
		}
		next := integ.Step(ss, x, 1, t, dt)
		if !next.IsValid() {
			return times, outputs, true, nil
		}
		x = next
	}

	return times, outputs, false, nil
}

// stepInfo extracts overshoot, settling time, rise time, and peak from a
// trajectory, measured against the closed loop's DC final value. The
// boolean reports whether the response settled inside the horizon.
func stepInfo(times, outputs []float64, final float64) (StepInfo, bool) {
	info := notSettled()
	if final == 0 || math.IsNaN(final) || math.IsInf(final, 0) || len(outputs) < 2 {
		return info, false
	}
	info.FinalValue = final

	yn := make([]float64, len(outputs))
	for i, y := range outputs {
		yn[i] = y / final
	}

	peakIdx := 0
	for i, y := range yn {
		if y > yn[peakIdx] {
			peakIdx = i
		}
	}
	info.Peak = outputs[peakIdx]
	info.PeakTime = times[peakIdx]
	if over := (yn[peakIdx] - 1) * 100; over > 0 {
		info.Overshoot = over
	} else {
		info.Overshoot = 0
	}

	t10 := crossTime(times, yn, 0.1)
	t90 := crossTime(times, yn, 0.9)
	if !math.IsNaN(t10) && !math.IsNaN(t90) {
		info.RiseTime = t90 - t10
	}

	// last excursion outside the 2% band
	last := -1
	for i := len(yn) - 1; i >= 0; i-- {
		if math.Abs(yn[i]-1) > settleBand {
			last = i
			break
		}
	}
	switch {
	case last == len(yn)-1:
		return info, false
	case last < 0:
		info.SettlingTime = times[0]
	default:
		e0 := math.Abs(yn[last] - 1)
		e1 := math.Abs(yn[last+1] - 1)
		frac := 0.0
		if e0 != e1 {
			frac = (e0 - settleBand) / (e0 - e1)
		}
		info.SettlingTime = times[last] + frac*(times[last+1]-times[last])
	}

	return info, true
}

// crossTime finds the first upward crossing of level, linearly
// interpolated; NaN when the level is never reached.
func crossTime(times, yn []float64, level float64) float64 {
	if yn[0] >= level {
		return times[0]
	}
	for i := 1; i < len(yn); i++ {
		if yn[i] >= level {
			frac := (level - yn[i-1]) / (yn[i] - yn[i-1])
			return times[i-1] + frac*(times[i]-times[i-1])
		}
	}
	return math.NaN()
}
