package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ApplyRunCmd creates the applyRun command
func ApplyRunCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "applyRun <run_id>",
		Short: "Apply a completed run's assignments to its target scope",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := app.Runs.Apply(app.Ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Run applied: %d assignment rows written\n\n", written)

			return nil
		},
	}
}
