package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/pidlab/internal/analysis"
	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/export"
	"github.com/san-kum/pidlab/internal/pid"
	"github.com/san-kum/pidlab/internal/plant"
	"github.com/san-kum/pidlab/internal/storage"
	"github.com/san-kum/pidlab/internal/tuning"
	"github.com/san-kum/pidlab/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	order  int
	gain   float64
	tau    float64
	omegaN float64
	zeta   float64
	theta  float64
	rule   string
	lambda float64

	svgOut    string
	svgWidth  int
	svgHeight int

	saveRun bool
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	rootCmd := &cobra.Command{
		Use:   "pidlab",
		Short: "pid controller tuning lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			st := storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}
			return viz.Run(cfg, st)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pidlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "start from a named preset")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "tune a controller and report the closed loop",
		RunE:  runTune,
	}
	addPlantFlags(tuneCmd)
	tuneCmd.Flags().BoolVar(&saveRun, "save", false, "save the run to the data store")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare all applicable tuning rules",
		RunE:  runCompare,
	}
	addPlantFlags(compareCmd)

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json",
		Short: "tune and export the run as json",
		RunE:  runExportJSON,
	}
	addPlantFlags(exportJSONCmd)

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv",
		Short: "tune and export the step response as csv",
		RunE:  runExportCSV,
	}
	addPlantFlags(exportCSVCmd)

	svgCmd := &cobra.Command{
		Use:   "svg",
		Short: "tune and render the step response as svg",
		RunE:  runSVG,
	}
	addPlantFlags(svgCmd)
	svgCmd.Flags().StringVarP(&svgOut, "out", "o", "step.svg", "output file")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 480, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("%-20s order=%d rule=%s\n", name, cfg.Order, cfg.Rule)
			}
		},
	}

	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "list tuning rules",
		Run: func(cmd *cobra.Command, args []string) {
			for _, r := range tuning.Rules() {
				fmt.Printf("%-12s %s\n", r, r.Description())
			}
		},
	}

	rootCmd.AddCommand(tuneCmd, compareCmd, plotCmd, listCmd, exportJSONCmd, exportCSVCmd, svgCmd, presetsCmd, rulesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func addPlantFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&order, "order", 1, "plant order (1 or 2)")
	cmd.Flags().Float64Var(&gain, "gain", config.DefaultGain, "process gain K")
	cmd.Flags().Float64Var(&tau, "tau", config.DefaultTau, "time constant (first order)")
	cmd.Flags().Float64Var(&omegaN, "omega", config.DefaultOmegaN, "natural frequency (second order)")
	cmd.Flags().Float64Var(&zeta, "zeta", config.DefaultZeta, "damping ratio (second order)")
	cmd.Flags().Float64Var(&theta, "theta", config.DefaultTheta, "dead time")
	cmd.Flags().StringVar(&rule, "rule", string(tuning.ZNOpen), "tuning rule")
	cmd.Flags().Float64Var(&lambda, "lambda", config.DefaultLambda, "imc filter time constant")
}

// loadConfig layers defaults, preset, config file, and explicit flags,
// later sources winning.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q", preset)
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("order") {
		cfg.Order = order
	}
	if flags.Changed("gain") {
		cfg.Gain = gain
	}
	if flags.Changed("tau") {
		cfg.Tau = tau
	}
	if flags.Changed("omega") {
		cfg.OmegaN = omegaN
	}
	if flags.Changed("zeta") {
		cfg.Zeta = zeta
	}
	if flags.Changed("theta") {
		cfg.Theta = theta
	}
	if flags.Changed("rule") {
		cfg.Rule = rule
	}
	if flags.Changed("lambda") {
		cfg.Lambda = lambda
	}

	return cfg, nil
}

func analyzeFromFlags(cmd *cobra.Command) (*config.Config, *plant.Model, pid.Gains, *analysis.Result, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, pid.Gains{}, nil, err
	}
	m, err := cfg.Plant()
	if err != nil {
		return nil, nil, pid.Gains{}, nil, err
	}
	log.Debug().Str("plant", m.String()).Str("rule", cfg.Rule).Msg("tuning")

	g, err := tuning.Tune(cfg.TuningRule(), m, cfg.TuningParams())
	if err != nil {
		return nil, nil, pid.Gains{}, nil, err
	}
	res, err := analysis.Analyze(m, g)
	if err != nil {
		return nil, nil, pid.Gains{}, nil, err
	}
	return cfg, m, g, res, nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, m, g, res, err := analyzeFromFlags(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("plant: %s\n", m.String())
	fmt.Printf("rule:  %s (%s)\n\n", cfg.Rule, cfg.TuningRule().Description())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KP\tKI\tKD\tTI\tTD")
	fmt.Fprintf(w, "%.4g\t%.4g\t%.4g\t%s\t%.4g\n", g.Kp, g.Ki, g.Kd, fmtNum(g.Ti()), g.Td())
	w.Flush()
	fmt.Println()

	printReport(res)
	fmt.Println()
	fmt.Println(viz.StepPlot(res.Times, res.Outputs, 80, 12))

	for _, warn := range res.Warnings {
		log.Warn().Msg(warn)
	}

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(m, cfg.Rule, g, res)
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved run %s\n", id)
	}
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := cfg.Plant()
	if err != nil {
		return err
	}

	fmt.Printf("plant: %s\n\n", m.String())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RULE\tKP\tKI\tKD\tSTABLE\tOVERSHOOT\tSETTLE\tIAE\tGM\tPM")

	for _, r := range tuning.Applicable(m.Order) {
		g, err := tuning.Tune(r, m, cfg.TuningParams())
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t%v\t\t\t\t\t\n", r, err)
			continue
		}
		res, err := analysis.Analyze(m, g)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%.4g\t%v\t%s\t%s\t%.4g\t%s\t%s\n",
			r, g.Kp, g.Ki, g.Kd,
			res.Stable,
			fmtNum(res.Info.Overshoot),
			fmtNum(res.Info.SettlingTime),
			res.Indices["iae"],
			fmtNum(res.Margins.GainMargin),
			fmtNum(res.Margins.PhaseMargin),
		)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPLANT\tRULE\tKP\tKI\tKD\tSTABLE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4g\t%.4g\t%.4g\t%v\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Plant,
			run.Rule,
			run.Gains.Kp, run.Gains.Ki, run.Gains.Kd,
			run.Stable,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	cols, err := st.LoadSeries(args[0], "step")
	if err != nil {
		return err
	}
	if len(cols) < 2 || len(cols[0]) == 0 {
		return fmt.Errorf("no step data in run %s", args[0])
	}

	fmt.Printf("run:   %s\n", meta.ID)
	fmt.Printf("plant: %s\n", meta.Plant)
	fmt.Printf("rule:  %s\n\n", meta.Rule)
	fmt.Println(viz.StepPlot(cols[0], cols[1], 80, 12))
	return nil
}

func runExportJSON(cmd *cobra.Command, args []string) error {
	cfg, m, g, res, err := analyzeFromFlags(cmd)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, m, cfg.Rule, g, res)
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	_, _, _, res, err := analyzeFromFlags(cmd)
	if err != nil {
		return err
	}
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()
	if err := w.Write([]string{"time", "output"}); err != nil {
		return err
	}
	for i := range res.Times {
		rec := []string{
			strconv.FormatFloat(res.Times[i], 'g', 9, 64),
			strconv.FormatFloat(res.Outputs[i], 'g', 9, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func runSVG(cmd *cobra.Command, args []string) error {
	_, _, _, res, err := analyzeFromFlags(cmd)
	if err != nil {
		return err
	}
	svg := export.StepToSVG(res.Times, res.Outputs, res.Info.FinalValue, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("nothing to render")
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	log.Info().Str("path", svgOut).Msg("wrote svg")
	return nil
}

func printReport(res *analysis.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if res.Stable {
		fmt.Fprintln(w, "stable\ttrue")
		fmt.Fprintf(w, "overshoot\t%s%%\n", fmtNum(res.Info.Overshoot))
		fmt.Fprintf(w, "settling time\t%ss\n", fmtNum(res.Info.SettlingTime))
		fmt.Fprintf(w, "rise time\t%ss\n", fmtNum(res.Info.RiseTime))
		fmt.Fprintf(w, "peak\t%s at %ss\n", fmtNum(res.Info.Peak), fmtNum(res.Info.PeakTime))
	} else {
		fmt.Fprintln(w, "stable\tfalse")
	}
	fmt.Fprintf(w, "gain margin\t%s (%s dB at %s rad/s)\n",
		fmtNum(res.Margins.GainMargin), fmtNum(res.Margins.GainMarginDB()), fmtNum(res.Margins.PhaseCrossover))
	fmt.Fprintf(w, "phase margin\t%s deg at %s rad/s\n",
		fmtNum(res.Margins.PhaseMargin), fmtNum(res.Margins.GainCrossover))
	fmt.Fprintf(w, "iae\t%.4g\tise\t%.4g\n", res.Indices["iae"], res.Indices["ise"])
	fmt.Fprintf(w, "itae\t%.4g\titse\t%.4g\n", res.Indices["itae"], res.Indices["itse"])
	w.Flush()
}

func fmtNum(v float64) string {
	switch {
	case math.IsNaN(v):
		return "n/a"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return fmt.Sprintf("%.4g", v)
}
