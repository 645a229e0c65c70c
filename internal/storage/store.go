package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"github.com/san-kum/pidlab/internal/analysis"
	"github.com/san-kum/pidlab/internal/pid"
	"github.com/san-kum/pidlab/internal/plant"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Plant     string             `json:"plant"`
	Rule      string             `json:"rule"`
	Gains     pid.Gains          `json:"gains"`
	Stable    bool               `json:"stable"`
	Metrics   map[string]float64 `json:"metrics"`
	Warnings  []string           `json:"warnings,omitempty"`
}

// Save writes one analyzed run under a fresh directory: metadata.json
// plus step.csv, bode.csv, and nyquist.csv. It returns the run ID.
func (s *Store) Save(m *plant.Model, rule string, g pid.Gains, res *analysis.Result) (string, error) {
	runID := xid.New().String()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Plant:     m.String(),
		Rule:      rule,
		Gains:     g,
		Stable:    res.Stable,
		Metrics:   flattenMetrics(res),
		Warnings:  res.Warnings,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeStepCSV(filepath.Join(runDir, "step.csv"), res); err != nil {
		return "", err
	}
	if err := writeBodeCSV(filepath.Join(runDir, "bode.csv"), res); err != nil {
		return "", err
	}
	if err := writeNyquistCSV(filepath.Join(runDir, "nyquist.csv"), res); err != nil {
		return "", err
	}

	return runID, nil
}

// flattenMetrics collects the scalar outputs of a run, skipping
// non-finite values so the metadata stays JSON-encodable.
func flattenMetrics(res *analysis.Result) map[string]float64 {
	out := make(map[string]float64)
	put := func(name string, v float64) {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[name] = v
		}
	}
	for name, v := range res.Indices {
		put(name, v)
	}
	put("overshoot", res.Info.Overshoot)
	put("settling_time", res.Info.SettlingTime)
	put("rise_time", res.Info.RiseTime)
	put("peak", res.Info.Peak)
	put("peak_time", res.Info.PeakTime)
	put("final_value", res.Info.FinalValue)
	put("gain_margin", res.Margins.GainMargin)
	put("phase_margin", res.Margins.PhaseMargin)
	put("phase_crossover", res.Margins.PhaseCrossover)
	put("gain_crossover", res.Margins.GainCrossover)
	return out
}

func writeStepCSV(path string, res *analysis.Result) error {
	return writeCSV(path, []string{"time", "output"}, len(res.Times), func(i int) []float64 {
		return []float64{res.Times[i], res.Outputs[i]}
	})
}

func writeBodeCSV(path string, res *analysis.Result) error {
	return writeCSV(path, []string{"omega", "mag_db", "phase_deg"}, len(res.Bode), func(i int) []float64 {
		p := res.Bode[i]
		return []float64{p.Omega, p.Mag, p.Phase}
	})
}

func writeNyquistCSV(path string, res *analysis.Result) error {
	return writeCSV(path, []string{"omega", "re", "im"}, len(res.Nyquist), func(i int) []float64 {
		p := res.Nyquist[i]
		return []float64{p.Omega, p.Re, p.Im}
	})
}

func writeCSV(path string, header []string, n int, row func(i int) []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return err
	}
	rec := make([]string, len(header))
	for i := 0; i < n; i++ {
		vals := row(i)
		for j, v := range vals {
			rec[j] = strconv.FormatFloat(v, 'g', 9, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			log.Warn().Err(err).Str("run", entry.Name()).Msg("skipping run with unreadable metadata")
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries reads back one of a run's CSV files ("step", "bode", or
// "nyquist") as parallel columns, header excluded.
func (s *Store) LoadSeries(runID, kind string) ([][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, kind+".csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return [][]float64{}, nil
	}

	cols := make([][]float64, len(records[0]))
	for i := 1; i < len(records); i++ {
		for j, field := range records[i] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: %s.csv row %d: %w", kind, i, err)
			}
			cols[j] = append(cols[j], v)
		}
	}
	return cols, nil
}
