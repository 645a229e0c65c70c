package metrics

import (
	"math"
	"testing"
)

// linear response from (0,0) to (2,1) against a unit setpoint has
// analytical indices IAE=1, ISE=2/3, ITAE=2/3, ITSE=1/3
func TestRampIndices(t *testing.T) {
	ms := All()
	n := 100
	for i := 0; i < n; i++ {
		tt := 2 * float64(i) / float64(n-1)
		e := 1.0 - 0.5*tt
		for _, m := range ms {
			m.Observe(tt, e)
		}
	}

	want := map[string]float64{
		"iae":  1.0,
		"ise":  2.0 / 3.0,
		"itae": 2.0 / 3.0,
		"itse": 1.0 / 3.0,
	}
	for _, m := range ms {
		if math.Abs(m.Value()-want[m.Name()]) > 1e-3 {
			t.Errorf("%s: got %f, expected %f", m.Name(), m.Value(), want[m.Name()])
		}
	}
}

func TestIndicesNonNegative(t *testing.T) {
	ms := All()
	errs := []float64{1, -0.3, 0.5, -0.8, 0.01, 0}
	for i, e := range errs {
		for _, m := range ms {
			m.Observe(float64(i)*0.1, e)
		}
	}
	for _, m := range ms {
		if m.Value() < 0 {
			t.Errorf("%s should be non-negative, got %f", m.Name(), m.Value())
		}
	}
}

func TestReset(t *testing.T) {
	m := NewIAE()
	m.Observe(0, 1)
	m.Observe(1, 1)
	if m.Value() == 0 {
		t.Fatal("expected accumulation before reset")
	}
	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected zero after reset, got %f", m.Value())
	}
	// a single sample after reset contributes no area
	m.Observe(5, 1)
	if m.Value() != 0 {
		t.Errorf("single sample should not contribute, got %f", m.Value())
	}
}
