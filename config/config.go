// Package config - YAML run-set configuration for the harness.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/prachetas2003/AiModelPerformanceTester/limiter"
	"github.com/prachetas2003/AiModelPerformanceTester/models"
)

// RunConfig describes one benchmark run for the parallel runner.
type RunConfig struct {
	Model      models.ID          `yaml:"model"`
	Iterations int                `yaml:"iterations"`
	Warmup     int                `yaml:"warmup"`
	Constraint limiter.Constraint `yaml:"constraint"`
	// Timeout overrides the global per-run timeout. Zero inherits the
	// global value; a negative value disables the timeout for this run.
	Timeout time.Duration `yaml:"timeout"`
	// InputPath optionally names a representative input image.
	InputPath string `yaml:"input"`
}

// Config represents the full configuration of the harness.
type Config struct {
	// LogDir receives the per-run metrics log files.
	LogDir string `yaml:"log_dir"`
	// ModelDir holds the ONNX weight files.
	ModelDir string `yaml:"model_dir"`
	// Timeout is the default per-run timeout for the parallel runner.
	Timeout time.Duration `yaml:"timeout"`
	Runs    []RunConfig   `yaml:"runs"`
}

// Default returns the default configuration: the full catalog at 30
// iterations each, mirroring the stock parallel run set.
func Default() *Config {
	return &Config{
		LogDir:   "logs",
		ModelDir: "weights",
		Timeout:  10 * time.Minute,
		Runs: []RunConfig{
			{Model: models.ResNet18, Iterations: 30, Warmup: 1},
			{Model: models.MobileNetV2, Iterations: 30, Warmup: 1},
			{
				Model:      models.AlexNet,
				Iterations: 30,
				Warmup:     1,
				Constraint: limiter.Constraint{InjectedDelay: 10 * time.Millisecond},
			},
		},
	}
}

// Load reads configuration from a file. If path is empty, default
// filenames are searched in order; if none exists the default
// configuration is returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	} else {
		found := false
		for _, name := range []string{"aibench.yaml", "runs.yaml"} {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				found = true
				break
			}
		}
		if !found {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects run sets that would fail every worker at startup.
func (c *Config) Validate() error {
	for i, run := range c.Runs {
		if run.Model == "" {
			return fmt.Errorf("run %d: model is required", i)
		}
		if run.Iterations <= 0 {
			return fmt.Errorf("run %d (%s): iterations must be positive", i, run.Model)
		}
		if err := run.Constraint.Validate(); err != nil {
			return fmt.Errorf("run %d (%s): %w", i, run.Model, err)
		}
	}
	return nil
}
