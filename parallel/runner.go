// Package parallel - Fan-out of benchmark runs as isolated worker
// processes, one per configuration.
package parallel

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prachetas2003/AiModelPerformanceTester/config"
)

// State classifies how a worker process finished.
type State string

const (
	// StateSuccess means the worker exited zero.
	StateSuccess State = "success"
	// StateFailed means the worker exited non-zero or could not start.
	StateFailed State = "failed"
	// StateTimeout means the worker was forcibly terminated when its
	// timeout elapsed. Fatal for that configuration only.
	StateTimeout State = "timeout"
)

// Outcome reports the result of one configuration's worker process.
// Outcomes preserve the order of the input configurations.
type Outcome struct {
	Config   config.RunConfig
	State    State
	Err      error
	ExitCode int
	Duration time.Duration
}

// CommandFunc builds the worker process for one configuration. It exists so
// tests can substitute arbitrary commands for the self-invocation.
type CommandFunc func(ctx context.Context, cfg config.RunConfig) *exec.Cmd

// Runner launches one isolated OS process per configuration, so that
// CPU-affinity masks applied by one run cannot leak into another and a
// crash in one run cannot corrupt a sibling.
type Runner struct {
	// Command builds worker processes; nil means self-invocation of the
	// run subcommand.
	Command CommandFunc
	// Timeout is the default per-configuration timeout; a RunConfig may
	// override it with a non-zero value, and a negative RunConfig timeout
	// opts that run out of the default entirely. Zero or negative here
	// means no default timeout.
	Timeout time.Duration
	// LogDir and ModelDir are forwarded to self-invoked workers.
	LogDir   string
	ModelDir string
	Logger   *slog.Logger
}

// RunAll launches a worker per configuration, waits for all of them, and
// returns per-configuration outcomes in input order. No ordering of
// completions across workers is assumed; each worker writes its own log
// file independently.
func (r *Runner) RunAll(ctx context.Context, configs []config.RunConfig) []Outcome {
	outcomes := make([]Outcome, len(configs))

	var wg sync.WaitGroup
	for i, cfg := range configs {
		wg.Add(1)
		go func(i int, cfg config.RunConfig) {
			defer wg.Done()
			outcomes[i] = r.runOne(ctx, cfg)
		}(i, cfg)
	}
	wg.Wait()

	return outcomes
}

func (r *Runner) runOne(ctx context.Context, cfg config.RunConfig) Outcome {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = r.Timeout
	}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	build := r.Command
	if build == nil {
		build = r.selfCommand
	}
	cmd := build(runCtx, cfg)

	r.log().Info("starting worker", "model", cfg.Model, "iterations", cfg.Iterations)

	start := time.Now()
	err := cmd.Run()
	out := Outcome{Config: cfg, Duration: time.Since(start)}

	switch {
	case err == nil:
		out.State = StateSuccess
		r.log().Info("worker finished", "model", cfg.Model, "duration", out.Duration)
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		out.State = StateTimeout
		out.Err = context.DeadlineExceeded
		out.ExitCode = -1
		r.log().Error("worker timed out", "model", cfg.Model, "timeout", timeout)
	default:
		out.State = StateFailed
		out.Err = err
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
		}
		r.log().Error("worker failed", "model", cfg.Model, "error", err)
	}

	return out
}

// selfCommand re-invokes this binary's run subcommand for one
// configuration, inheriting stdout/stderr.
func (r *Runner) selfCommand(ctx context.Context, cfg config.RunConfig) *exec.Cmd {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	args := []string{
		"run",
		"--model", string(cfg.Model),
		"--iterations", strconv.Itoa(cfg.Iterations),
	}
	if cfg.Warmup > 0 {
		args = append(args, "--warmup", strconv.Itoa(cfg.Warmup))
	}
	if cores := cfg.Constraint.CPUAffinity; len(cores) > 0 {
		parts := make([]string, len(cores))
		for i, core := range cores {
			parts[i] = strconv.Itoa(core)
		}
		args = append(args, "--cpus", strings.Join(parts, ","))
	}
	if cfg.Constraint.InjectedDelay > 0 {
		args = append(args, "--delay", cfg.Constraint.InjectedDelay.String())
	}
	if cfg.Constraint.FailureRate > 0 {
		args = append(args, "--failure-rate", strconv.FormatFloat(cfg.Constraint.FailureRate, 'f', -1, 64))
	}
	if cfg.InputPath != "" {
		args = append(args, "--input", cfg.InputPath)
	}
	if r.LogDir != "" {
		args = append(args, "--log-dir", r.LogDir)
	}
	if r.ModelDir != "" {
		args = append(args, "--model-dir", r.ModelDir)
	}

	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

func (r *Runner) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Failed filters the outcomes that did not succeed, preserving order.
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, out := range outcomes {
		if out.State != StateSuccess {
			failed = append(failed, out)
		}
	}
	return failed
}
