package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prachetas2003/AiModelPerformanceTester/config"
	"github.com/prachetas2003/AiModelPerformanceTester/parallel"
)

var parallelCmd = &cobra.Command{
	Use:   "parallel",
	Short: "Run multiple benchmark configurations as isolated processes",
	Long: `Launches one worker process per configured run, so CPU-affinity masks and
crashes stay inside the worker that caused them. Each worker writes its own
metrics log; this command only aggregates exit outcomes. The exit status is
zero iff every configuration succeeded.`,
	Example: `  # Fan out the run set from aibench.yaml
  aibench parallel

  # Use an explicit run-set file
  aibench parallel --config runs.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if len(cfg.Runs) == 0 {
			return fmt.Errorf("no runs configured")
		}

		runner := &parallel.Runner{
			Timeout:  cfg.Timeout,
			LogDir:   cfg.LogDir,
			ModelDir: cfg.ModelDir,
			Logger:   logger,
		}

		outcomes := runner.RunAll(cmd.Context(), cfg.Runs)

		failed := parallel.Failed(outcomes)
		for _, out := range failed {
			logger.Error("configuration failed",
				"model", out.Config.Model,
				"state", out.State,
				"exit_code", out.ExitCode,
				"error", out.Err,
			)
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d configurations failed", len(failed), len(outcomes))
		}

		logger.Info("all configurations finished", "count", len(outcomes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parallelCmd)
}
