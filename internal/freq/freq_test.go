package freq

import (
	"math"
	"testing"

	"github.com/san-kum/pidlab/internal/lti"
)

// (s+1)^3 expanded: s^3 + 3s^2 + 3s + 1
func tripleLag(gain float64) lti.TF {
	return lti.New(lti.Poly{gain}, lti.Poly{1, 3, 3, 1})
}

func TestMarginTripleLag(t *testing.T) {
	// L = 4/(s+1)^3: GM = 2 at w = sqrt(3), PM ~ 27.1 deg
	m := Margin(tripleLag(4))

	if math.Abs(m.GainMargin-2.0) > 0.01 {
		t.Errorf("gain margin: got %f, expected 2.0", m.GainMargin)
	}
	if math.Abs(m.PhaseCrossover-math.Sqrt(3)) > 1e-6 {
		t.Errorf("phase crossover: got %f, expected %f", m.PhaseCrossover, math.Sqrt(3))
	}
	if math.Abs(m.PhaseMargin-27.1) > 0.2 {
		t.Errorf("phase margin: got %f, expected 27.1", m.PhaseMargin)
	}
	if !m.HasGainMargin() || !m.HasPhaseMargin() {
		t.Error("margins should be finite")
	}
}

func TestMarginUltimateGain(t *testing.T) {
	// unit-gain triple lag: ultimate gain 8, ultimate frequency sqrt(3)
	m := Margin(tripleLag(1))
	if math.Abs(m.GainMargin-8.0) > 1e-6 {
		t.Errorf("ultimate gain: got %f, expected 8", m.GainMargin)
	}
}

func TestMarginNoCrossover(t *testing.T) {
	// first-order lag never reaches -180 deg and never crosses unity
	// magnitude when its gain is below one
	m := Margin(lti.New(lti.Poly{0.5}, lti.Poly{1, 1}))
	if m.HasGainMargin() {
		t.Errorf("expected infinite gain margin, got %f", m.GainMargin)
	}
	if !math.IsNaN(m.PhaseCrossover) {
		t.Errorf("expected NaN phase crossover, got %f", m.PhaseCrossover)
	}
	if m.HasPhaseMargin() {
		t.Errorf("expected infinite phase margin, got %f", m.PhaseMargin)
	}
}

func TestBodeFirstOrder(t *testing.T) {
	g := lti.New(lti.Poly{1}, lti.Poly{1, 1})
	points := Bode(g, []float64{1.0})

	// |G(j)| = 1/sqrt(2) -> -3.01 dB, phase -45 deg
	if math.Abs(points[0].Mag+3.0103) > 0.01 {
		t.Errorf("magnitude at w=1: got %f dB, expected -3.01", points[0].Mag)
	}
	if math.Abs(points[0].Phase+45) > 0.01 {
		t.Errorf("phase at w=1: got %f deg, expected -45", points[0].Phase)
	}
}

func TestBodePhaseUnwrap(t *testing.T) {
	// triple lag phase falls monotonically to -270 deg; unwrapped phase
	// must not jump back above -180
	g := tripleLag(1)
	ws := LogSpace(0.01, 100, 500)
	points := Bode(g, ws)
	last := points[len(points)-1].Phase
	if last > -200 {
		t.Errorf("phase should unwrap below -200 deg at high frequency, got %f", last)
	}
	for i := 1; i < len(points); i++ {
		if points[i].Phase > points[i-1].Phase+1 {
			t.Fatalf("phase jumped upward at w=%f", points[i].Omega)
		}
	}
}

func TestLogSpace(t *testing.T) {
	ws := LogSpace(0.01, 100, 5)
	if len(ws) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(ws))
	}
	if math.Abs(ws[0]-0.01) > 1e-12 || math.Abs(ws[4]-100) > 1e-9 {
		t.Errorf("endpoints wrong: %v", ws)
	}
	if math.Abs(ws[2]-1.0) > 1e-9 {
		t.Errorf("midpoint should be 1.0, got %f", ws[2])
	}
}

func TestNyquistSymmetryPoint(t *testing.T) {
	g := tripleLag(4)
	points := Nyquist(g, []float64{math.Sqrt(3)})
	// at the phase crossover the locus lies on the negative real axis
	if math.Abs(points[0].Im) > 1e-9 {
		t.Errorf("Im at crossover should vanish, got %g", points[0].Im)
	}
	if math.Abs(points[0].Re+0.5) > 1e-9 {
		t.Errorf("Re at crossover: got %f, expected -0.5", points[0].Re)
	}
}
