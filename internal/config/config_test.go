package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/pidlab/internal/plant"
	"github.com/san-kum/pidlab/internal/tuning"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Order != 1 {
		t.Errorf("expected first-order default, got %d", cfg.Order)
	}
	if cfg.Tau <= 0 {
		t.Error("tau should be positive")
	}
	if cfg.Rule != "zn-open" {
		t.Errorf("expected zn-open default rule, got %s", cfg.Rule)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pidlab.yaml")

	cfg := DefaultConfig()
	cfg.Order = 2
	cfg.OmegaN = 3.5
	cfg.Zeta = 0.4
	cfg.Rule = "zn-closed"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Order != 2 || got.OmegaN != 3.5 || got.Zeta != 0.4 {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
	if got.TuningRule() != tuning.ZNClosed {
		t.Errorf("expected zn-closed, got %s", got.TuningRule())
	}
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("gain: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Gain != 3 {
		t.Errorf("expected gain 3, got %f", got.Gain)
	}
	if got.Tau != DefaultTau {
		t.Errorf("missing tau should keep the default, got %f", got.Tau)
	}
	if got.Rule != "zn-open" {
		t.Errorf("missing rule should keep the default, got %s", got.Rule)
	}
}

func TestPlant(t *testing.T) {
	cfg := DefaultConfig()
	m, err := cfg.Plant()
	if err != nil {
		t.Fatal(err)
	}
	if m.Order != plant.FirstOrder {
		t.Errorf("expected first-order plant, got %v", m.Order)
	}

	cfg.Order = 2
	m, err = cfg.Plant()
	if err != nil {
		t.Fatal(err)
	}
	if m.Order != plant.SecondOrder {
		t.Errorf("expected second-order plant, got %v", m.Order)
	}
}

func TestPlantInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tau = -1
	if _, err := cfg.Plant(); err == nil {
		t.Error("expected validation error for negative tau")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("slow-thermal")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Tau != 120.0 {
		t.Errorf("expected tau 120, got %f", cfg.Tau)
	}
	if _, err := cfg.Plant(); err != nil {
		t.Errorf("preset should build a valid plant: %v", err)
	}

	// mutating the copy must not leak into the table
	cfg.Gain = 99
	if Presets["slow-thermal"].Gain == 99 {
		t.Error("GetPreset should return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatal("preset names should be sorted")
		}
	}
}

func TestAllPresetsBuildAndTune(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		m, err := cfg.Plant()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if _, err := tuning.Tune(cfg.TuningRule(), m, cfg.TuningParams()); err != nil {
			t.Errorf("%s: tuning failed: %v", name, err)
		}
	}
}
