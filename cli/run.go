package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/prachetas2003/AiModelPerformanceTester/benchmark"
	"github.com/prachetas2003/AiModelPerformanceTester/config"
	"github.com/prachetas2003/AiModelPerformanceTester/limiter"
	"github.com/prachetas2003/AiModelPerformanceTester/models"
)

var (
	runModel       string
	runIterations  int
	runWarmup      int
	runDelay       time.Duration
	runFailureRate float64
	runCPUs        []int
	runInput       string
	runLogDir      string
	runModelDir    string
	runNoSave      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Benchmark a single model",
	Long: `Loads one catalog model, runs the configured number of timed inference
iterations with CPU/memory samples around each call, and writes the metrics
log file. Artificial constraints emulate slower or flakier hardware.`,
	Example: `  # 50 iterations of resnet18 with default settings
  aibench run --model resnet18

  # Emulate constrained hardware: two cores, 10ms extra latency per call
  aibench run --model mobilenet_v2 --cpus 0,1 --delay 10ms

  # Exercise the failure handling path
  aibench run --model alexnet --iterations 20 --failure-rate 0.25`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if runLogDir != "" {
			cfg.LogDir = runLogDir
		}
		if runModelDir != "" {
			cfg.ModelDir = runModelDir
		}

		runner := benchmark.NewRunner(benchmark.NewRunnerArgs{
			Config: benchmark.Config{
				Model:      models.ID(runModel),
				Iterations: runIterations,
				WarmupRuns: runWarmup,
				Constraint: limiter.Constraint{
					CPUAffinity:   runCPUs,
					InjectedDelay: runDelay,
					FailureRate:   runFailureRate,
				},
				ModelDir:  cfg.ModelDir,
				InputPath: runInput,
				LogDir:    cfg.LogDir,
				SaveLog:   !runNoSave,
			},
			Logger: logger,
		})

		run, err := runner.Run(cmd.Context())
		if err != nil {
			return err
		}

		if run.LogPath != "" {
			logger.Info("metrics log saved", "path", run.LogPath)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runModel, "model", "m", "resnet18", "catalog model to benchmark")
	runCmd.Flags().IntVarP(&runIterations, "iterations", "n", 50, "number of inference iterations to measure")
	runCmd.Flags().IntVar(&runWarmup, "warmup", 1, "warmup passes excluded from the records")
	runCmd.Flags().DurationVar(&runDelay, "delay", 0, "artificial delay injected before each iteration")
	runCmd.Flags().Float64Var(&runFailureRate, "failure-rate", 0, "probability in [0,1] of injecting a failure per iteration")
	runCmd.Flags().IntSliceVar(&runCPUs, "cpus", nil, "restrict the process to these CPU cores")
	runCmd.Flags().StringVar(&runInput, "input", "", "representative input image (default: synthetic tensor)")
	runCmd.Flags().StringVarP(&runLogDir, "log-dir", "o", "", "directory for metrics log files")
	runCmd.Flags().StringVar(&runModelDir, "model-dir", "", "directory holding the ONNX weight files")
	runCmd.Flags().BoolVar(&runNoSave, "no-save", false, "skip writing the metrics log file")

	rootCmd.AddCommand(runCmd)
}
