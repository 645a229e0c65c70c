package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/pidlab/internal/analysis"
	"github.com/san-kum/pidlab/internal/pid"
	"github.com/san-kum/pidlab/internal/plant"
)

type ExportData struct {
	Plant   string             `json:"plant"`
	Rule    string             `json:"rule"`
	Gains   pid.Gains          `json:"gains"`
	Stable  bool               `json:"stable"`
	Steps   int                `json:"steps"`
	Times   []float64          `json:"times"`
	Outputs []float64          `json:"outputs"`
	Metrics map[string]float64 `json:"metrics"`
}

// ExportJSON streams a run to w in a single self-contained document.
// Non-finite metrics are dropped rather than encoded.
func ExportJSON(w io.Writer, m *plant.Model, rule string, g pid.Gains, res *analysis.Result) error {
	data := ExportData{
		Plant:   m.String(),
		Rule:    rule,
		Gains:   g,
		Stable:  res.Stable,
		Steps:   len(res.Times),
		Times:   res.Times,
		Outputs: res.Outputs,
		Metrics: flattenMetrics(res),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
