package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prachetas2003/AiModelPerformanceTester/models"
)

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List the supported catalog models",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, id := range models.IDs() {
			spec, err := models.Resolve(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s (%dx%d, %d classes)\n",
				spec.ID, spec.File, spec.Width, spec.Height, spec.Classes)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listModelsCmd)
}
