package export

import (
	"strings"
	"testing"
)

func TestCurveToSVG(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{0, 0.8, 1.1, 1.0}

	svg := CurveToSVG(xs, ys, 640, 480, "#00ff00")
	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML declaration")
	}
	if !strings.Contains(svg, `width="640" height="480"`) {
		t.Error("missing dimensions")
	}
	if !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Error("missing stroke color")
	}
	if strings.Count(svg, " L") != len(xs)-1 {
		t.Errorf("expected %d line segments", len(xs)-1)
	}
}

func TestCurveToSVG_Degenerate(t *testing.T) {
	if CurveToSVG([]float64{1}, []float64{1}, 100, 100, "#fff") != "" {
		t.Error("single point should yield empty output")
	}
	if CurveToSVG([]float64{1, 2}, []float64{1}, 100, 100, "#fff") != "" {
		t.Error("mismatched lengths should yield empty output")
	}
}

func TestCurveToSVG_FlatSeries(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{1, 1, 1}
	svg := CurveToSVG(xs, ys, 100, 100, "#fff")
	if svg == "" {
		t.Fatal("flat series should still render")
	}
	if strings.Contains(svg, "NaN") || strings.Contains(svg, "Inf") {
		t.Error("flat series produced non-finite coordinates")
	}
}

func TestStepToSVG(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4}
	outputs := []float64{0, 0.9, 1.2, 1.05, 1.0}

	svg := StepToSVG(times, outputs, 1.0, 640, 480)
	if !strings.Contains(svg, "stroke-dasharray") {
		t.Error("expected a dashed reference line")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("SVG not terminated")
	}
}
