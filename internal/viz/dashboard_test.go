package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/tuning"
)

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestDashboardRecomputeOnStart(t *testing.T) {
	d := NewDashboard(config.DefaultConfig(), nil)
	if d.result == nil {
		t.Fatal("expected an analysis result for the default config")
	}
	if d.gains.IsZero() {
		t.Fatal("expected tuned gains")
	}
}

func TestDashboardOrderToggle(t *testing.T) {
	d := NewDashboard(config.DefaultConfig(), nil)

	m, _ := d.Update(key('o'))
	d = m.(*dashboard)
	if d.cfg.Order != 2 {
		t.Fatalf("expected second order, got %d", d.cfg.Order)
	}
	if d.cfg.TuningRule() != tuning.ZNClosed {
		t.Errorf("expected zn-closed after toggle, got %s", d.cfg.Rule)
	}
	if d.result == nil {
		t.Error("expected a recomputed result")
	}

	m, _ = d.Update(key('o'))
	d = m.(*dashboard)
	if d.cfg.Order != 1 {
		t.Fatalf("expected first order, got %d", d.cfg.Order)
	}
}

func TestDashboardRuleCycle(t *testing.T) {
	d := NewDashboard(config.DefaultConfig(), nil)
	seen := map[string]bool{}
	for i := 0; i < 4; i++ {
		seen[d.cfg.Rule] = true
		m, _ := d.Update(key('m'))
		d = m.(*dashboard)
	}
	if len(seen) != 3 {
		t.Errorf("expected to cycle 3 first-order rules, saw %d", len(seen))
	}
}

func TestDashboardAdjustTheta(t *testing.T) {
	cfg := config.DefaultConfig()
	d := NewDashboard(cfg, nil)

	// select theta, then shrink it to zero and grow it back
	for d.paramNames()[d.paramCursor] != "theta" {
		m, _ := d.Update(tea.KeyMsg{Type: tea.KeyTab})
		d = m.(*dashboard)
	}
	for i := 0; i < 200; i++ {
		m, _ := d.Update(key('-'))
		d = m.(*dashboard)
	}
	if cfg.Theta != 0 {
		t.Fatalf("theta should clamp to zero, got %g", cfg.Theta)
	}

	m, _ := d.Update(tea.KeyMsg{Type: tea.KeyUp})
	d = m.(*dashboard)
	if cfg.Theta == 0 {
		t.Fatal("theta should grow back from zero")
	}
}

func TestDashboardReset(t *testing.T) {
	cfg := config.DefaultConfig()
	d := NewDashboard(cfg, nil)

	m, _ := d.Update(tea.KeyMsg{Type: tea.KeyUp})
	d = m.(*dashboard)
	if cfg.Gain == config.DefaultGain {
		t.Fatal("gain should have changed")
	}

	m, _ = d.Update(key('r'))
	d = m.(*dashboard)
	if cfg.Gain != config.DefaultGain {
		t.Errorf("reset should restore the starting gain, got %g", cfg.Gain)
	}
}

func TestDashboardView(t *testing.T) {
	d := NewDashboard(config.DefaultConfig(), nil)
	out := d.View()
	for _, want := range []string{"pidlab", "rule:", "kp", "step response"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ := d.Update(key('3'))
	d = m.(*dashboard)
	if !strings.Contains(d.View(), "nyquist") {
		t.Error("expected the nyquist tab")
	}
}

func TestDashboardSaveWithoutStore(t *testing.T) {
	d := NewDashboard(config.DefaultConfig(), nil)
	m, _ := d.Update(key('s'))
	d = m.(*dashboard)
	if !strings.Contains(d.status, "no data store") {
		t.Errorf("expected a disabled-save notice, got %q", d.status)
	}
}
