package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/summitpines/bunkmate/pkg/core/runs"
)

// SubmitRunCmd creates the submitRun command
func SubmitRunCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submitRun <session_id>",
		Short: "Submit an asynchronous bunk optimization run for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarioID, _ := cmd.Flags().GetString("scenario")
			respectLocks, _ := cmd.Flags().GetBool("respect-locks")
			apply, _ := cmd.Flags().GetBool("apply")
			timeLimit, _ := cmd.Flags().GetInt("time-limit")

			runID, err := app.Runs.Submit(app.Ctx, runs.SubmitParams{
				SessionID:        args[0],
				ScenarioID:       scenarioID,
				RespectLocks:     respectLocks,
				ApplyResults:     apply,
				TimeLimitSeconds: timeLimit,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Run submitted!\n\n")
			fmt.Printf("Run ID: %s\n", runID)
			fmt.Printf("Poll with: cli getRun %s\n\n", runID)

			return nil
		},
	}

	cmd.Flags().String("scenario", "", "Target scenario ID (defaults to production)")
	cmd.Flags().Bool("respect-locks", true, "Pin locked campers to their current bunk")
	cmd.Flags().Bool("apply", false, "Apply the result automatically on completion")
	cmd.Flags().Int("time-limit", 30, "Search budget in seconds (1-600)")

	return cmd
}
