package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prachetas2003/AiModelPerformanceTester/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aibench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingPathReturnsDefaults(t *testing.T) {
	// Run from an empty directory so no default config file is found.
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(cwd)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "logs", cfg.LogDir)
	assert.Len(t, cfg.Runs, 3)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log_dir: /tmp/bench-logs
model_dir: /opt/weights
runs:
  - model: resnet18
    iterations: 5
    warmup: 2
  - model: alexnet
    iterations: 10
    constraint:
      failure_rate: 0.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/bench-logs", cfg.LogDir)
	assert.Equal(t, "/opt/weights", cfg.ModelDir)
	require.Len(t, cfg.Runs, 2)
	assert.Equal(t, models.ResNet18, cfg.Runs[0].Model)
	assert.Equal(t, 5, cfg.Runs[0].Iterations)
	assert.Equal(t, 0.5, cfg.Runs[1].Constraint.FailureRate)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := writeConfig(t, "runs: [model: {{")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsZeroIterations(t *testing.T) {
	path := writeConfig(t, `
runs:
  - model: resnet18
    iterations: 0
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMissingModel(t *testing.T) {
	path := writeConfig(t, `
runs:
  - iterations: 5
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadConstraint(t *testing.T) {
	path := writeConfig(t, `
runs:
  - model: resnet18
    iterations: 5
    constraint:
      failure_rate: 3.0
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingExplicitFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
