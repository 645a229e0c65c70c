package config

import "sort"

// Presets are ready-made plant/rule setups for common tuning scenarios.
var Presets = map[string]*Config{
	"slow-thermal": {
		Order: 1, Gain: 2.0, Tau: 120.0, Theta: 15.0,
		Rule: "zn-open", Lambda: DefaultLambda,
	},
	"fast-flow": {
		Order: 1, Gain: 0.8, Tau: 2.0, Theta: 0.3,
		Rule: "cohen-coon", Lambda: DefaultLambda,
	},
	"sluggish-imc": {
		Order: 1, Gain: 1.5, Tau: 30.0, Theta: 5.0,
		Rule: "imc", Lambda: 10.0,
	},
	"lag-dominant": {
		Order: 1, Gain: 1.0, Tau: 50.0, Theta: 1.0,
		Rule: "imc", Lambda: 5.0,
	},
	"underdamped-servo": {
		Order: 2, Gain: 1.0, OmegaN: 2.0, Zeta: 0.3, Theta: 0.2,
		Rule: "zn-closed", Lambda: DefaultLambda,
	},
	"damped-actuator": {
		Order: 2, Gain: 1.2, OmegaN: 0.8, Zeta: 0.9, Theta: 0.5,
		Rule: "zn-closed", Lambda: DefaultLambda,
	},
}

// GetPreset returns a copy so callers can mutate it freely.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *cfg
	if out.OmegaN == 0 {
		out.OmegaN = DefaultOmegaN
	}
	if out.Zeta == 0 {
		out.Zeta = DefaultZeta
	}
	if out.Tau == 0 {
		out.Tau = DefaultTau
	}
	return &out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
