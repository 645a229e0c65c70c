package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pidlab/internal/plant"
	"github.com/san-kum/pidlab/internal/tuning"
)

const (
	DefaultGain   = 1.0
	DefaultTau    = 5.0
	DefaultTheta  = 1.0
	DefaultOmegaN = 1.0
	DefaultZeta   = 0.5
	DefaultLambda = 1.0
)

type Config struct {
	Order  int     `yaml:"order"`
	Gain   float64 `yaml:"gain"`
	Tau    float64 `yaml:"tau"`
	OmegaN float64 `yaml:"omega_n"`
	Zeta   float64 `yaml:"zeta"`
	Theta  float64 `yaml:"theta"`
	Rule   string  `yaml:"rule"`
	Lambda float64 `yaml:"lambda"`
}

func DefaultConfig() *Config {
	return &Config{
		Order:  1,
		Gain:   DefaultGain,
		Tau:    DefaultTau,
		Theta:  DefaultTheta,
		OmegaN: DefaultOmegaN,
		Zeta:   DefaultZeta,
		Rule:   string(tuning.ZNOpen),
		Lambda: DefaultLambda,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Plant builds the model the config describes, validating parameters.
func (c *Config) Plant() (*plant.Model, error) {
	if c.Order == int(plant.SecondOrder) {
		return plant.NewSecondOrder(c.Gain, c.OmegaN, c.Zeta, c.Theta)
	}
	return plant.NewFirstOrder(c.Gain, c.Tau, c.Theta)
}

func (c *Config) TuningRule() tuning.Rule {
	return tuning.Rule(c.Rule)
}

func (c *Config) TuningParams() tuning.Params {
	return tuning.Params{Lambda: c.Lambda}
}
