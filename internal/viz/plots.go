package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pidlab/internal/freq"
)

// StepPlot renders a step response trajectory as a terminal graph.
func StepPlot(times, outputs []float64, width, height int) string {
	if len(outputs) == 0 {
		return "no data"
	}
	data := downsample(outputs, width)
	caption := fmt.Sprintf("step response (t: 0 .. %.1fs)", times[len(times)-1])
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// BodePlot renders magnitude and phase stacked, both against the log
// frequency axis the points were sampled on.
func BodePlot(points []freq.Point, width, height int) string {
	if len(points) == 0 {
		return "no data"
	}
	mags := make([]float64, len(points))
	phases := make([]float64, len(points))
	for i, p := range points {
		mags[i] = p.Mag
		phases[i] = p.Phase
	}
	lo := points[0].Omega
	hi := points[len(points)-1].Omega

	mag := asciigraph.Plot(downsample(mags, width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("magnitude [dB] (ω: %.2g .. %.2g rad/s, log)", lo, hi)),
	)
	phase := asciigraph.Plot(downsample(phases, width),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("phase [deg]"),
	)
	return mag + "\n\n" + phase
}

// NyquistPlot draws the open-loop locus on a braille canvas with axes
// and an x marker at the critical point -1+0j. Far-field points are
// clamped so the region around the critical point stays readable.
func NyquistPlot(points []freq.NyquistPoint, width, height int) string {
	if len(points) == 0 {
		return "no data"
	}

	const bound = 3.0
	minRe, maxRe := -bound, bound
	minIm, maxIm := -bound, bound

	c := NewCanvas(width, height)
	pw := width * 2
	ph := height * 4

	toPix := func(re, im float64) (int, int) {
		re = clamp(re, minRe, maxRe)
		im = clamp(im, minIm, maxIm)
		x := int((re - minRe) / (maxRe - minRe) * float64(pw-1))
		y := int((maxIm - im) / (maxIm - minIm) * float64(ph-1))
		return x, y
	}

	// axes
	x0, y0 := toPix(0, 0)
	for x := 0; x < pw; x++ {
		c.Set(x, y0)
	}
	for y := 0; y < ph; y++ {
		c.Set(x0, y)
	}

	px, py := toPix(points[0].Re, points[0].Im)
	for _, p := range points[1:] {
		if math.IsNaN(p.Re) || math.IsNaN(p.Im) {
			continue
		}
		x, y := toPix(p.Re, p.Im)
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}

	cx, cy := toPix(-1, 0)
	c.Mark(cx, cy, 'x')

	return c.String() + dim.Render(fmt.Sprintf("nyquist (re/im clamped to ±%.0f, x = -1+0j)", bound))
}

// downsample thins a series to at most n points, keeping endpoints.
func downsample(data []float64, n int) []float64 {
	if len(data) <= n || n < 2 {
		return data
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		idx := i * (len(data) - 1) / (n - 1)
		out[i] = data[idx]
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
