package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// GetRunCmd creates the getRun command
func GetRunCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "getRun <run_id>",
		Short: "Show the status and result of an optimization run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := app.Runs.Get(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\nRun %s\n", run.ID)
			fmt.Printf("Session:  %s\n", run.SessionID)
			if run.ScenarioID != "" {
				fmt.Printf("Scenario: %s\n", run.ScenarioID)
			}
			fmt.Printf("Status:   %s\n", run.Status)

			if run.ErrorMessage != "" {
				fmt.Printf("Error:    %s\n", run.ErrorMessage)
			}

			if run.Result != nil {
				summary := run.Result.Summary
				fmt.Printf("\nSolver status: %s\n", summary.SolverStatus)
				fmt.Printf("Objective:     %.2f\n", summary.ObjectiveValue)
				fmt.Printf("Assigned:      %d\n", summary.AssignedCount)
				fmt.Printf("Unassigned:    %d\n", summary.UnassignedCount)

				if summary.Validation != nil {
					stats := summary.Validation.Stats
					fmt.Printf("Validation:    %d errors, %d warnings, %d infos\n",
						stats.Errors, stats.Warnings, stats.Infos)
				}

				camperIDs := make([]string, 0, len(run.Result.Assignments))
				for camperID := range run.Result.Assignments {
					camperIDs = append(camperIDs, camperID)
				}
				sort.Strings(camperIDs)

				fmt.Printf("\nAssignments:\n")
				for _, camperID := range camperIDs {
					fmt.Printf("  %s -> %s\n", camperID, run.Result.Assignments[camperID])
				}
				for _, camperID := range run.Result.Unassigned {
					fmt.Printf("  %s -> (unassigned)\n", camperID)
				}
			}

			if run.Applied {
				fmt.Printf("\nApplied at %s\n", run.AppliedAt.Format("2006-01-02 15:04:05"))
			}
			fmt.Println()

			return nil
		},
	}
}
