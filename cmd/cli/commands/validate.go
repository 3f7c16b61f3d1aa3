package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/summitpines/bunkmate/pkg/core/services"
	"github.com/summitpines/bunkmate/pkg/core/validation"
)

// ValidateCmd creates the validate command
func ValidateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <session_id>",
		Short: "Validate and score the current assignment set for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarioID, _ := cmd.Flags().GetString("scenario")

			// Thresholds come from the resolved solver weights so this
			// audit reaches the same verdicts as the optimizer's own
			// sanity pass
			thresholds := validation.Thresholds{SpreadThreshold: services.SolverWeights(app.Cfg).SpreadThreshold}
			report, err := services.ValidateAssignments(app.Ctx, app.Database, args[0], scenarioID, thresholds, app.Logger)
			if err != nil {
				return err
			}

			stats := report.Stats
			fmt.Printf("\nValidation report for session %s\n\n", args[0])
			fmt.Printf("Campers:   %d total, %d assigned, %d unassigned\n",
				stats.TotalCampers, stats.AssignedCampers, stats.UnassignedCampers)
			fmt.Printf("Bunks:     %d over, %d at, %d under capacity\n",
				stats.BunksOver, stats.BunksAt, stats.BunksUnder)
			fmt.Printf("Requests:  %d/%d positive satisfied (%.0f%%), %d/%d negative violated\n",
				stats.PositiveSatisfied, stats.PositiveRequests, stats.SatisfactionRate*100,
				stats.NegativeViolated, stats.NegativeRequests)

			if len(report.Issues) == 0 {
				fmt.Println("\n✓ No issues found")
			} else {
				fmt.Printf("\nIssues (%d errors, %d warnings, %d infos):\n",
					stats.Errors, stats.Warnings, stats.Infos)
				for _, issue := range report.Issues {
					fmt.Printf("  [%s] %s: %s\n", issue.Severity, issue.Category, issue.Message)
				}
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("scenario", "", "Validate a scenario instead of production")

	return cmd
}
