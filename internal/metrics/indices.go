// Package metrics accumulates integral error criteria over a step
// response trajectory.
package metrics

import "math"

// Metric observes an error trajectory sample by sample and reports a
// scalar criterion.
type Metric interface {
	Name() string
	Observe(t, e float64)
	Value() float64
	Reset()
}

// integral accumulates a weighted error integral with the trapezoid rule.
type integral struct {
	name   string
	weight func(t, e float64) float64
	sum    float64
	prevT  float64
	prevF  float64
	seen   bool
}

func (m *integral) Name() string { return m.name }

func (m *integral) Observe(t, e float64) {
	f := m.weight(t, e)
	if m.seen {
		m.sum += 0.5 * (f + m.prevF) * (t - m.prevT)
	}
	m.prevT = t
	m.prevF = f
	m.seen = true
}

func (m *integral) Value() float64 { return m.sum }

func (m *integral) Reset() {
	m.sum = 0
	m.prevF = 0
	m.prevT = 0
	m.seen = false
}

// NewIAE is the integral of absolute error.
func NewIAE() Metric {
	return &integral{name: "iae", weight: func(_, e float64) float64 { return math.Abs(e) }}
}

// NewISE is the integral of squared error.
func NewISE() Metric {
	return &integral{name: "ise", weight: func(_, e float64) float64 { return e * e }}
}

// NewITAE is the time-weighted integral of absolute error.
func NewITAE() Metric {
	return &integral{name: "itae", weight: func(t, e float64) float64 { return t * math.Abs(e) }}
}

// NewITSE is the time-weighted integral of squared error.
func NewITSE() Metric {
	return &integral{name: "itse", weight: func(t, e float64) float64 { return t * e * e }}
}

// All returns a fresh set of the four standard criteria.
func All() []Metric {
	return []Metric{NewIAE(), NewISE(), NewITAE(), NewITSE()}
}
