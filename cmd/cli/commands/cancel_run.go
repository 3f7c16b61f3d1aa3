package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CancelRunCmd creates the cancelRun command
func CancelRunCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancelRun <run_id>",
		Short: "Request cancellation of an in-flight optimization run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Runs.Cancel(args[0]); err != nil {
				return err
			}

			fmt.Printf("\n✓ Cancellation requested for run %s\n", args[0])
			fmt.Println("The run keeps its best solution found so far, if any.")
			fmt.Println()

			return nil
		},
	}
}
