package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/pidlab/internal/analysis"
	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/pid"
	"github.com/san-kum/pidlab/internal/plant"
	"github.com/san-kum/pidlab/internal/storage"
	"github.com/san-kum/pidlab/internal/tuning"
)

type plotTab int

const (
	tabStep plotTab = iota
	tabBode
	tabNyquist
)

type dashboard struct {
	cfg     *config.Config
	initial config.Config
	store   *storage.Store

	paramCursor int
	tab         plotTab
	showHelp    bool

	model   *plant.Model
	gains   pid.Gains
	result  *analysis.Result
	tuneErr error
	status  string

	width  int
	height int
}

// NewDashboard builds the interactive tuning view around a starting
// config. The store may be nil; saving is then disabled.
func NewDashboard(cfg *config.Config, store *storage.Store) *dashboard {
	d := &dashboard{
		cfg:     cfg,
		initial: *cfg,
		store:   store,
		width:   100,
		height:  30,
	}
	d.recompute()
	return d
}

// Run starts the dashboard as a full-screen bubbletea program.
func Run(cfg *config.Config, store *storage.Store) error {
	p := tea.NewProgram(NewDashboard(cfg, store), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (d *dashboard) Init() tea.Cmd { return nil }

func (d *dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		return d, nil
	case tea.KeyMsg:
		return d.handleKey(msg)
	}
	return d, nil
}

func (d *dashboard) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return d, tea.Quit
	case "h", "?":
		d.showHelp = !d.showHelp
	case "tab", "down", "j":
		d.paramCursor = (d.paramCursor + 1) % len(d.paramNames())
	case "shift+tab", "k":
		n := len(d.paramNames())
		d.paramCursor = (d.paramCursor + n - 1) % n
	case "up", "+", "=":
		d.adjust(1.05)
	case "-", "_":
		d.adjust(1 / 1.05)
	case "o":
		d.toggleOrder()
	case "m":
		d.cycleRule()
	case "1":
		d.tab = tabStep
	case "2":
		d.tab = tabBode
	case "3":
		d.tab = tabNyquist
	case "r":
		*d.cfg = d.initial
		d.paramCursor = 0
		d.recompute()
		d.status = "reset"
	case "s":
		d.saveRun()
	}
	if d.paramCursor >= len(d.paramNames()) {
		d.paramCursor = 0
	}
	return d, nil
}

func (d *dashboard) paramNames() []string {
	if d.cfg.Order == int(plant.SecondOrder) {
		return []string{"gain", "omega_n", "zeta", "theta"}
	}
	if d.cfg.TuningRule() == tuning.IMC {
		return []string{"gain", "tau", "theta", "lambda"}
	}
	return []string{"gain", "tau", "theta"}
}

func (d *dashboard) paramValue(name string) float64 {
	switch name {
	case "gain":
		return d.cfg.Gain
	case "tau":
		return d.cfg.Tau
	case "omega_n":
		return d.cfg.OmegaN
	case "zeta":
		return d.cfg.Zeta
	case "theta":
		return d.cfg.Theta
	case "lambda":
		return d.cfg.Lambda
	}
	return 0
}

// adjust scales the selected parameter. A zero dead time cannot be
// scaled back up, so growing from zero nudges it instead.
func (d *dashboard) adjust(factor float64) {
	name := d.paramNames()[d.paramCursor]
	v := d.paramValue(name)
	if v == 0 && factor > 1 {
		v = 0.1
	} else {
		v *= factor
	}
	if name == "theta" && v < 1e-3 {
		v = 0
	}
	switch name {
	case "gain":
		d.cfg.Gain = v
	case "tau":
		d.cfg.Tau = v
	case "omega_n":
		d.cfg.OmegaN = v
	case "zeta":
		d.cfg.Zeta = v
	case "theta":
		d.cfg.Theta = v
	case "lambda":
		d.cfg.Lambda = v
	}
	d.recompute()
}

func (d *dashboard) toggleOrder() {
	if d.cfg.Order == int(plant.SecondOrder) {
		d.cfg.Order = int(plant.FirstOrder)
	} else {
		d.cfg.Order = int(plant.SecondOrder)
	}
	rules := tuning.Applicable(plant.Order(d.cfg.Order))
	d.cfg.Rule = string(rules[0])
	d.paramCursor = 0
	d.recompute()
}

func (d *dashboard) cycleRule() {
	rules := tuning.Applicable(plant.Order(d.cfg.Order))
	cur := 0
	for i, r := range rules {
		if r == d.cfg.TuningRule() {
			cur = i
		}
	}
	d.cfg.Rule = string(rules[(cur+1)%len(rules)])
	d.recompute()
}

// recompute reruns the whole pipeline after any parameter change.
func (d *dashboard) recompute() {
	d.status = ""
	d.result = nil
	d.gains = pid.Gains{}

	m, err := d.cfg.Plant()
	if err != nil {
		d.tuneErr = err
		return
	}
	d.model = m

	g, err := tuning.Tune(d.cfg.TuningRule(), m, d.cfg.TuningParams())
	if err != nil {
		d.tuneErr = err
		return
	}
	d.gains = g
	d.tuneErr = nil

	res, err := analysis.Analyze(m, g)
	if err != nil {
		d.tuneErr = err
		return
	}
	d.result = res
}

func (d *dashboard) saveRun() {
	if d.store == nil {
		d.status = "no data store configured"
		return
	}
	if d.result == nil {
		d.status = "nothing to save"
		return
	}
	id, err := d.store.Save(d.model, d.cfg.Rule, d.gains, d.result)
	if err != nil {
		d.status = "save failed: " + err.Error()
		return
	}
	d.status = "saved " + id
}

func (d *dashboard) View() string {
	var b strings.Builder

	b.WriteString(cyan.Render("pidlab") + dim.Render("  interactive tuning") + "\n\n")

	b.WriteString(d.viewParams())
	b.WriteString("\n")
	b.WriteString(d.viewMetrics())
	b.WriteString("\n")
	b.WriteString(d.viewPlot())
	b.WriteString("\n")

	if d.status != "" {
		b.WriteString(yellow.Render(d.status) + "\n")
	}
	if d.showHelp {
		b.WriteString(d.viewHelp())
	} else {
		b.WriteString(dimmer.Render("tab/j/k select  ↑/- adjust  o order  m rule  1/2/3 plots  r reset  s save  h help  q quit"))
	}
	return b.String()
}

func (d *dashboard) viewParams() string {
	var b strings.Builder
	if d.model != nil {
		b.WriteString(white.Render(d.model.String()) + "\n")
	}
	b.WriteString(dim.Render("rule: ") + magenta.Render(d.cfg.Rule) +
		dim.Render("  ("+tuning.Rule(d.cfg.Rule).Description()+")") + "\n")

	for i, name := range d.paramNames() {
		line := fmt.Sprintf("  %-8s %.4g", name, d.paramValue(name))
		if i == d.paramCursor {
			line = selectedParam.Render("> " + line[2:])
		} else {
			line = white.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (d *dashboard) viewMetrics() string {
	if d.tuneErr != nil {
		return red.Render("error: "+d.tuneErr.Error()) + "\n"
	}
	if d.result == nil {
		return ""
	}
	res := d.result

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		dim.Render("kp ")+white.Render(fmt.Sprintf("%.4g", d.gains.Kp)),
		dim.Render("ki ")+white.Render(fmt.Sprintf("%.4g", d.gains.Ki)),
		dim.Render("kd ")+white.Render(fmt.Sprintf("%.4g", d.gains.Kd)),
	))

	if res.Stable {
		b.WriteString(green.Render("stable") + "  ")
		b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s  ",
			dim.Render("overshoot"), white.Render(fmtPct(res.Info.Overshoot)),
			dim.Render("settle"), white.Render(fmtSec(res.Info.SettlingTime)),
			dim.Render("rise"), white.Render(fmtSec(res.Info.RiseTime)),
		))
	} else {
		b.WriteString(red.Render("UNSTABLE") + "  ")
	}
	b.WriteString(fmt.Sprintf("%s %s  %s %s\n",
		dim.Render("gm"), white.Render(fmtMargin(res.Margins.GainMargin)),
		dim.Render("pm"), white.Render(fmtDeg(res.Margins.PhaseMargin)),
	))

	b.WriteString(fmt.Sprintf("%s %.4g  %s %.4g  %s %.4g  %s %.4g\n",
		dim.Render("iae"), res.Indices["iae"],
		dim.Render("ise"), res.Indices["ise"],
		dim.Render("itae"), res.Indices["itae"],
		dim.Render("itse"), res.Indices["itse"],
	))
	return b.String()
}

func (d *dashboard) viewPlot() string {
	if d.result == nil {
		return ""
	}
	w := d.width - 12
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}

	switch d.tab {
	case tabBode:
		return BodePlot(d.result.Bode, w, 8)
	case tabNyquist:
		return NyquistPlot(d.result.Nyquist, w/2, 12)
	default:
		return StepPlot(d.result.Times, d.result.Outputs, w, 12)
	}
}

func (d *dashboard) viewHelp() string {
	rows := []string{
		"tab / j / shift+tab / k   select parameter",
		"up / + / -                scale parameter by 5%",
		"o                         toggle plant order",
		"m                         cycle tuning rule",
		"1 / 2 / 3                 step / bode / nyquist",
		"r                         reset to starting config",
		"s                         save run to the data store",
		"q                         quit",
	}
	return panel.Render(strings.Join(rows, "\n")) + "\n"
}

func fmtPct(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", v)
}

func fmtSec(v float64) string {
	if math.IsNaN(v) {
		return "not settled"
	}
	return fmt.Sprintf("%.2fs", v)
}

func fmtDeg(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "inf"
	}
	return fmt.Sprintf("%.1f°", v)
}

func fmtMargin(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
