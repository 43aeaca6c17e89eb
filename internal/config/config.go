package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults describe the canonical experiment: running with no config
// file and no flags performs the full diagnostic at standard size.
const (
	DefaultSeed   = 0
	DefaultOutDir = "plots/stratonovich_diagonal"

	DefaultSampleBatch = 32
	DefaultSampleDim   = 1
	DefaultSampleSteps = 100
	DefaultSampleDt    = 0.1

	DefaultOrderBatch = 4096
	DefaultOrderDim   = 10
	DefaultMinExp     = 1
	DefaultMaxExp     = 8

	DefaultT0 = 0.0
	DefaultT1 = 5.0
)

type Config struct {
	Seed   uint64       `yaml:"seed"`
	OutDir string       `yaml:"out_dir"`
	Sample SampleConfig `yaml:"sample"`
	Order  OrderConfig  `yaml:"order"`
}

// SampleConfig parameterizes the sample-path comparison.
type SampleConfig struct {
	Batch int     `yaml:"batch"`
	Dim   int     `yaml:"dim"`
	Steps int     `yaml:"steps"`
	T0    float64 `yaml:"t0"`
	T1    float64 `yaml:"t1"`
	Dt    float64 `yaml:"dt"`
}

// OrderConfig parameterizes the strong-order estimation. The step-size
// ladder is 2^-min_exp .. 2^-max_exp.
type OrderConfig struct {
	Batch  int     `yaml:"batch"`
	Dim    int     `yaml:"dim"`
	T0     float64 `yaml:"t0"`
	T1     float64 `yaml:"t1"`
	MinExp int     `yaml:"min_exp"`
	MaxExp int     `yaml:"max_exp"`
}

func Default() *Config {
	return &Config{
		Seed:   DefaultSeed,
		OutDir: DefaultOutDir,
		Sample: SampleConfig{
			Batch: DefaultSampleBatch,
			Dim:   DefaultSampleDim,
			Steps: DefaultSampleSteps,
			T0:    DefaultT0,
			T1:    DefaultT1,
			Dt:    DefaultSampleDt,
		},
		Order: OrderConfig{
			Batch:  DefaultOrderBatch,
			Dim:    DefaultOrderDim,
			T0:     DefaultT0,
			T1:     DefaultT1,
			MinExp: DefaultMinExp,
			MaxExp: DefaultMaxExp,
		},
	}
}

// Load reads a YAML config over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.OutDir == "" {
		return fmt.Errorf("config: out_dir must not be empty")
	}
	if c.Sample.Batch <= 0 || c.Sample.Dim <= 0 {
		return fmt.Errorf("config: sample batch and dim must be positive")
	}
	if c.Sample.Steps < 2 {
		return fmt.Errorf("config: sample needs at least 2 grid points")
	}
	if c.Sample.Dt <= 0 || c.Sample.T1 <= c.Sample.T0 {
		return fmt.Errorf("config: sample time grid invalid")
	}
	if c.Order.Batch <= 0 || c.Order.Dim <= 0 {
		return fmt.Errorf("config: order batch and dim must be positive")
	}
	if c.Order.T1 <= c.Order.T0 {
		return fmt.Errorf("config: order time span invalid")
	}
	if c.Order.MinExp > c.Order.MaxExp || c.Order.MinExp < 0 {
		return fmt.Errorf("config: order exponent range invalid")
	}
	return nil
}
