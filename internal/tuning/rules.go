package tuning

import (
	"fmt"
	"math"

	"github.com/san-kum/pidlab/internal/freq"
	"github.com/san-kum/pidlab/internal/lti"
	"github.com/san-kum/pidlab/internal/pid"
	"github.com/san-kum/pidlab/internal/plant"
)

type Rule string

const (
	ZNOpen    Rule = "zn-open"
	ZNClosed  Rule = "zn-closed"
	CohenCoon Rule = "cohen-coon"
	IMC       Rule = "imc"
)

// Params carries rule-specific knobs.
type Params struct {
	// Lambda is the desired closed-loop time constant for the IMC rule.
	Lambda float64
}

// DomainError reports a tuning rule applied outside its domain.
type DomainError struct {
	Rule   Rule
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("tuning: %s: %s", e.Rule, e.Reason)
}

func (r Rule) Description() string {
	switch r {
	case ZNOpen:
		return "Ziegler-Nichols open loop (reaction curve, needs dead time)"
	case ZNClosed:
		return "Ziegler-Nichols closed loop (ultimate gain and period)"
	case CohenCoon:
		return "Cohen-Coon (reaction curve, weights dead-time ratio)"
	case IMC:
		return "internal model control (lambda sets closed-loop speed)"
	default:
		return "unknown rule"
	}
}

func zieglerNicholsOpen(m *plant.Model, _ Params) (pid.Gains, error) {
	if m.Order != plant.FirstOrder {
		return pid.Gains{}, &DomainError{ZNOpen, "requires a first-order model"}
	}
	if m.Gain == 0 {
		return pid.Gains{}, &DomainError{ZNOpen, "process gain cannot be zero"}
	}
	if m.Theta <= 0 {
		return pid.Gains{}, &DomainError{ZNOpen, "requires dead time (theta > 0)"}
	}

	kc := 1.2 * m.Tau / (m.Gain * m.Theta)
	return fromSeries(kc, 2*m.Theta, 0.5*m.Theta), nil
}

func cohenCoon(m *plant.Model, _ Params) (pid.Gains, error) {
	if m.Order != plant.FirstOrder {
		return pid.Gains{}, &DomainError{CohenCoon, "requires a first-order model"}
	}
	if m.Gain == 0 {
		return pid.Gains{}, &DomainError{CohenCoon, "process gain cannot be zero"}
	}
	if m.Theta <= 0 {
		return pid.Gains{}, &DomainError{CohenCoon, "requires dead time (theta > 0)"}
	}

	l, tc := m.Theta, m.Tau
	kc := (tc / (m.Gain * l)) * (4.0/3.0 + l/(4*tc))
	ti := l * (32*tc + 6*l) / (13*tc + 8*l)
	td := l * (4 * tc) / (11*tc + 2*l)
	return fromSeries(kc, ti, td), nil
}

func imc(m *plant.Model, p Params) (pid.Gains, error) {
	if m.Order != plant.FirstOrder {
		return pid.Gains{}, &DomainError{IMC, "requires a first-order model"}
	}
	if m.Gain == 0 {
		return pid.Gains{}, &DomainError{IMC, "process gain cannot be zero"}
	}
	if p.Lambda <= 0 {
		return pid.Gains{}, &DomainError{IMC, "closed-loop time constant (lambda) must be positive"}
	}

	ti := m.Tau + 0.5*m.Theta
	kc := ti / (m.Gain * (p.Lambda + 0.5*m.Theta))
	td := 0.0
	if den := 2*m.Tau + m.Theta; den != 0 {
		td = m.Tau * m.Theta / den
	}
	return fromSeries(kc, ti, td), nil
}

func zieglerNicholsClosed(m *plant.Model, _ Params) (pid.Gains, error) {
	if m.Gain == 0 {
		return pid.Gains{}, &DomainError{ZNClosed, "process gain cannot be zero"}
	}
	return ZieglerNicholsClosedTF(m.TF())
}

// ZieglerNicholsClosedTF tunes from the ultimate gain Ku and ultimate
// period Tu of an arbitrary plant transfer function. Ku is the plant's
// gain margin; Tu follows from the phase crossover frequency.
func ZieglerNicholsClosedTF(g lti.TF) (pid.Gains, error) {
	m := freq.Margin(g)
	if !m.HasGainMargin() || m.GainMargin <= 0 {
		return pid.Gains{}, &DomainError{ZNClosed, "system has no finite ultimate gain"}
	}
	if !(m.PhaseCrossover > 0) {
		return pid.Gains{}, &DomainError{ZNClosed, "system has no finite ultimate period"}
	}

	ku := m.GainMargin
	tu := 2 * math.Pi / m.PhaseCrossover
	return fromSeries(0.6*ku, tu/2, tu/8), nil
}

// fromSeries converts series-form parameters (Kc, Ti, Td) to the
// parallel form used everywhere else.
func fromSeries(kc, ti, td float64) pid.Gains {
	g := pid.Gains{Kp: kc, Kd: kc * td}
	if ti != 0 {
		g.Ki = kc / ti
	}
	return g
}
