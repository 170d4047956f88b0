package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDuration  = 1440.0
	DefaultPatient   = "adolescent#001"
	DefaultCarbRatio = 12.0
	DefaultKp        = 0.0005
	DefaultKi        = 0.0000005
	DefaultKd        = 0.01
	DefaultTarget    = 120.0
)

// Config describes one closed-loop scenario: which patient to simulate,
// which controller to run, and the meal schedule.
type Config struct {
	Patient          string           `yaml:"patient"`
	ParamTable       string           `yaml:"param_table,omitempty"`
	Controller       string           `yaml:"controller"`
	Duration         float64          `yaml:"duration"`
	Seed             int64            `yaml:"seed"`
	Meals            []MealConfig     `yaml:"meals"`
	ControllerParams ControllerConfig `yaml:"controller_params"`
}

// MealConfig announces carbs grams at minute at.
type MealConfig struct {
	At    float64 `yaml:"at"`
	Carbs float64 `yaml:"carbs"`
}

type ControllerConfig struct {
	CarbRatio float64 `yaml:"carb_ratio"`
	Kp        float64 `yaml:"kp"`
	Ki        float64 `yaml:"ki"`
	Kd        float64 `yaml:"kd"`
	Target    float64 `yaml:"target"`
}

func DefaultConfig() *Config {
	return &Config{
		Patient:    DefaultPatient,
		Controller: "basal",
		Duration:   DefaultDuration,
		ControllerParams: ControllerConfig{
			CarbRatio: DefaultCarbRatio,
			Kp:        DefaultKp,
			Ki:        DefaultKi,
			Kd:        DefaultKd,
			Target:    DefaultTarget,
		},
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
	if err := cfg.Validate(); err != nil {
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

func (c *Config) Validate() error {
	if c.Patient == "" {
		return fmt.Errorf("config: patient must be set")
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %f", c.Duration)
	}
	for i, m := range c.Meals {
		if m.At < 0 || m.At >= c.Duration {
			return fmt.Errorf("config: meal %d at minute %f is outside the run", i, m.At)
		}
		if m.Carbs <= 0 {
			return fmt.Errorf("config: meal %d has non-positive carbs %f", i, m.Carbs)
		}
	}
	switch c.Controller {
	case "basal", "basal-bolus", "pid":
		return nil
	default:
		return fmt.Errorf("config: unknown controller %q", c.Controller)
	}
}
