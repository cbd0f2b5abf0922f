package benchmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prachetas2003/AiModelPerformanceTester/limiter"
	"github.com/prachetas2003/AiModelPerformanceTester/models"
	"github.com/prachetas2003/AiModelPerformanceTester/monitor"
)

// Config describes one benchmark run.
type Config struct {
	Model      models.ID
	Iterations int
	// WarmupRuns are executed before the timed loop and excluded from the
	// records, avoiding cold-start overhead in the measurements.
	WarmupRuns int
	Constraint limiter.Constraint
	// ModelDir holds the ONNX weight files.
	ModelDir string
	// InputPath optionally names a representative input image.
	InputPath string
	// LogDir receives the metrics log file when SaveLog is set.
	LogDir  string
	SaveLog bool
}

// NewRunnerArgs represents the arguments for creating a benchmark runner.
type NewRunnerArgs struct {
	Config Config
	// Engine overrides catalog loading; when nil the model is loaded from
	// the catalog at Run time.
	Engine  models.Engine
	Monitor *monitor.Monitor
	Logger  *slog.Logger
}

// Runner executes a single benchmark run: one model, a configured number of
// timed inference iterations, resource samples around each call, and an
// optional JSON metrics log.
type Runner struct {
	cfg     Config
	engine  models.Engine
	monitor *monitor.Monitor
	logger  *slog.Logger
}

// NewRunner creates a benchmark runner.
func NewRunner(args NewRunnerArgs) *Runner {
	if args.Monitor == nil {
		args.Monitor = &monitor.Monitor{}
	}
	if args.Logger == nil {
		args.Logger = slog.Default()
	}
	return &Runner{
		cfg:     args.Config,
		engine:  args.Engine,
		monitor: args.Monitor,
		logger:  args.Logger,
	}
}

// Run executes the benchmark loop and returns the finished run.
//
// The sequence per iteration is: apply constraint, sample before, timed
// inference, sample after, append record. Iteration failures (including
// injected ones) are recorded and the loop continues; only model loading
// and constraint validation abort the run, and they do so before any log
// file is created.
func (r *Runner) Run(ctx context.Context) (*Run, error) {
	if r.cfg.Iterations <= 0 {
		return nil, fmt.Errorf("iterations must be positive, got %d", r.cfg.Iterations)
	}
	if err := r.cfg.Constraint.Validate(); err != nil {
		return nil, err
	}

	engine := r.engine
	if engine == nil {
		classifier, err := models.Load(r.cfg.Model, models.LoadOptions{
			ModelDir:  r.cfg.ModelDir,
			InputPath: r.cfg.InputPath,
		})
		if err != nil {
			return nil, err
		}
		defer classifier.Close()
		engine = classifier
	}

	r.logger.Info("starting benchmark",
		"model", r.cfg.Model,
		"iterations", r.cfg.Iterations,
		"warmup", r.cfg.WarmupRuns,
	)

	lim := limiter.New(r.cfg.Constraint)
	run := &Run{
		Model:     r.cfg.Model,
		StartedAt: time.Now(),
		Records:   make([]IterationRecord, 0, r.cfg.Iterations),
	}

	for i := 0; i < r.cfg.WarmupRuns; i++ {
		if _, err := engine.Predict(ctx); err != nil {
			r.logger.Warn("warmup pass failed", "error", err)
		}
	}

	var lat latencyTracker
	failures := 0

	for i := 0; i < r.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec := IterationRecord{Iteration: i}

		if err := lim.Apply(ctx); err != nil {
			if !errors.Is(err, limiter.ErrSimulatedFailure) {
				return nil, err
			}
			rec.Before = r.sample()
			rec.After = rec.Before
			rec.Error = err.Error()
			failures++
			run.Records = append(run.Records, rec)
			continue
		}

		rec.Before = r.sample()
		start := time.Now()
		_, err := engine.Predict(ctx)
		elapsed := time.Since(start)
		rec.After = r.sample()

		if err != nil {
			rec.Error = err.Error()
			failures++
		} else {
			rec.InferenceTime = elapsed.Seconds()
			lat.record(elapsed)
		}
		run.Records = append(run.Records, rec)
	}

	run.Summary = lat.summary(r.cfg.Iterations, failures)

	if r.cfg.SaveLog {
		path, err := writeLog(r.cfg.LogDir, r.cfg.Model, run.StartedAt, run.Records)
		if err != nil {
			return nil, fmt.Errorf("writing metrics log: %w", err)
		}
		run.LogPath = path
	}

	r.logger.Info("benchmark complete",
		"model", r.cfg.Model,
		"avg_inference_time", run.Summary.AvgInferenceTime,
		"throughput", run.Summary.Throughput,
		"failures", run.Summary.Failures,
	)

	return run, nil
}

// sample takes a resource sample, substituting a placeholder when the OS
// query fails so the record schema stays intact.
func (r *Runner) sample() monitor.Sample {
	s, err := r.monitor.Sample()
	if err != nil {
		r.logger.Warn("resource query failed, recording placeholder sample", "error", err)
		return monitor.Placeholder()
	}
	return s
}
