package lti

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestPolyEval(t *testing.T) {
	// 2 + 3s + s^2 at s=2 is 12
	p := Poly{2, 3, 1}
	got := p.Eval(complex(2, 0))
	if real(got) != 12 || imag(got) != 0 {
		t.Errorf("expected 12, got %v", got)
	}
}

func TestPolyMulAdd(t *testing.T) {
	// (1+s)(1-s) = 1 - s^2
	p := Poly{1, 1}.Mul(Poly{1, -1})
	want := Poly{1, 0, -1}
	if len(p) != len(want) {
		t.Fatalf("length mismatch: %v", p)
	}
	for i := range want {
		if p[i] != want[i] {
			t.Errorf("coefficient %d: got %g, want %g", i, p[i], want[i])
		}
	}

	s := Poly{1, 2}.Add(Poly{0, 0, 3})
	want = Poly{1, 2, 3}
	for i := range want {
		if s[i] != want[i] {
			t.Errorf("add coefficient %d: got %g, want %g", i, s[i], want[i])
		}
	}
}

func TestPolyTrim(t *testing.T) {
	p := Poly{1, 2, 0, 1e-15}.Trim()
	if p.Degree() != 1 {
		t.Errorf("expected degree 1, got %d", p.Degree())
	}
	if (Poly{0}).Trim().Degree() != 0 {
		t.Error("zero polynomial keeps its constant term")
	}
}

func TestNewNormalizesDenominator(t *testing.T) {
	// 4/(2s+2) should normalize to 2/(s+1)
	g := New(Poly{4}, Poly{2, 2})
	if g.Den[len(g.Den)-1] != 1 {
		t.Errorf("denominator not monic: %v", g.Den)
	}
	if math.Abs(g.DCGain()-2) > 1e-12 {
		t.Errorf("dc gain: got %g, want 2", g.DCGain())
	}
}

func TestFeedback(t *testing.T) {
	// unity feedback around 2/(s+1) is 2/(s+3)
	g := New(Poly{2}, Poly{1, 1}).Feedback()
	if math.Abs(g.DCGain()-2.0/3.0) > 1e-12 {
		t.Errorf("dc gain: got %g, want 2/3", g.DCGain())
	}
	poles := g.Poles()
	if len(poles) != 1 || cmplx.Abs(poles[0]-complex(-3, 0)) > 1e-9 {
		t.Errorf("expected pole at -3, got %v", poles)
	}
}

func TestDCGainEdgeCases(t *testing.T) {
	// integrator 1/s
	g := New(Poly{1}, Poly{0, 1})
	if !math.IsInf(g.DCGain(), 1) {
		t.Errorf("integrator dc gain should be +inf, got %g", g.DCGain())
	}

	g = New(Poly{-1}, Poly{0, 1})
	if !math.IsInf(g.DCGain(), -1) {
		t.Errorf("negative integrator dc gain should be -inf, got %g", g.DCGain())
	}

	// differentiator: numerator zero at the origin over a nonzero den
	g = New(Poly{0, 1}, Poly{1})
	if g.DCGain() != 0 {
		t.Errorf("differentiator dc gain should be 0, got %g", g.DCGain())
	}
}

func TestEvalOnImaginaryAxis(t *testing.T) {
	// 1/(s+1) at s=j has magnitude 1/sqrt(2) and phase -45 deg
	g := New(Poly{1}, Poly{1, 1})
	h := g.Eval(complex(0, 1))
	if math.Abs(cmplx.Abs(h)-1/math.Sqrt2) > 1e-12 {
		t.Errorf("magnitude: got %g", cmplx.Abs(h))
	}
	if math.Abs(cmplx.Phase(h)+math.Pi/4) > 1e-12 {
		t.Errorf("phase: got %g", cmplx.Phase(h))
	}
}

func TestIsStable(t *testing.T) {
	if !New(Poly{1}, Poly{2, 3, 1}).IsStable() {
		t.Error("(s+1)(s+2) denominator should be stable")
	}
	if New(Poly{1}, Poly{-1, 0, 1}).IsStable() {
		t.Error("pole at +1 should be unstable")
	}
	// pure oscillator s^2+1 is marginal, counted unstable
	if New(Poly{1}, Poly{1, 0, 1}).IsStable() {
		t.Error("imaginary-axis poles should not count as stable")
	}
}

func TestStateValidity(t *testing.T) {
	if !(State{1, 2, 3}).IsValid() {
		t.Error("finite state should be valid")
	}
	if (State{1, math.NaN()}).IsValid() {
		t.Error("NaN state should be invalid")
	}
	if (State{math.Inf(1)}).IsValid() {
		t.Error("Inf state should be invalid")
	}
	if (State{3, 4}).Norm() != 5 {
		t.Error("expected norm 5")
	}
}
