// Package cli - Cobra command surface for the aibench binary.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile string

	logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

	rootCmd = &cobra.Command{
		Use:   "aibench",
		Short: "Benchmark pretrained image classifiers and log resource usage",
		Long: `aibench times repeated inference calls against a fixed catalog of
pretrained image classifiers, samples CPU and memory around every call,
optionally applies artificial resource constraints (CPU affinity, injected
delays, injected failures), and writes one JSON metrics log per run for the
dashboard and notebook to consume.`,
		// main reports the returned error; without these, cobra would
		// print it a second time along with the usage text.
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

// Execute executes the root command.
func Execute() error {
	// A .env file may carry ONNXRUNTIME_SHARED_LIB; absence is fine.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./aibench.yaml)")
}
