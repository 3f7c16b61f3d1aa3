package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/summitpines/bunkmate/pkg/core/services"
)

// CreateScenarioCmd creates the createScenario command
func CreateScenarioCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createScenario <session_id> <name>",
		Short: "Create a what-if scenario for a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")
			copyProduction, _ := cmd.Flags().GetBool("copy-production")
			copyFrom, _ := cmd.Flags().GetString("copy-from")

			result, err := services.CreateScenario(app.Ctx, app.Database, services.CreateScenarioParams{
				SessionID:          args[0],
				Name:               args[1],
				Description:        description,
				CopyFromProduction: copyProduction,
				CopyFromScenarioID: copyFrom,
			}, app.Logger)

			var partial *services.PartialBatchError
			if errors.As(err, &partial) {
				fmt.Printf("\n⚠️  Scenario created with %d copy failures (%d rows copied):\n",
					len(partial.Failures), partial.Succeeded)
				for _, failure := range partial.Failures {
					fmt.Printf("  ✗ %s: %v\n", failure.CamperID, failure.Err)
				}
			} else if err != nil {
				return err
			}

			fmt.Printf("\n✓ Scenario created!\n\n")
			fmt.Printf("Scenario ID: %s\n", result.Scenario.ID)
			fmt.Printf("Name:        %s\n", result.Scenario.Name)
			fmt.Printf("Rows copied: %d\n\n", result.CopiedRows)

			return nil
		},
	}

	cmd.Flags().String("description", "", "Scenario description")
	cmd.Flags().Bool("copy-production", false, "Seed the scenario from the production assignment set")
	cmd.Flags().String("copy-from", "", "Seed the scenario from another scenario's assignment set")

	return cmd
}

// ListScenariosCmd creates the listScenarios command
func ListScenariosCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listScenarios <session_id>",
		Short: "List active scenarios for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")

			scenarios, err := services.ListScenarios(app.Ctx, app.Database, args[0], year)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d scenarios:\n\n", len(scenarios))
			for _, s := range scenarios {
				fmt.Printf("- %s (%s)", s.Name, s.ID)
				if s.Description != "" {
					fmt.Printf(" - %s", s.Description)
				}
				fmt.Println()
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Int("year", 0, "Filter by year (0 for all)")

	return cmd
}

// UpdateScenarioCmd creates the updateScenario command
func UpdateScenarioCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "updateScenario <scenario_id> <name>",
		Short: "Rename a scenario",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")

			scenario, err := services.UpdateScenario(app.Ctx, app.Database, services.UpdateScenarioParams{
				ScenarioID:  args[0],
				Name:        args[1],
				Description: description,
			}, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Scenario %s updated (name: %s)\n\n", scenario.ID, scenario.Name)

			return nil
		},
	}

	cmd.Flags().String("description", "", "New description")

	return cmd
}

// DeleteScenarioCmd creates the deleteScenario command
func DeleteScenarioCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deleteScenario <scenario_id>",
		Short: "Soft-delete a scenario (assignments are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeleteScenario(app.Ctx, app.Database, args[0], app.Logger); err != nil {
				return err
			}

			fmt.Printf("\n✓ Scenario %s deactivated\n\n", args[0])

			return nil
		},
	}
}

// ClearScenarioCmd creates the clearScenario command
func ClearScenarioCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clearScenario <scenario_id>",
		Short: "Delete all assignment rows in a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")

			removed, err := services.ClearScenario(app.Ctx, app.Database, args[0], year, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Cleared %d assignment rows from scenario %s\n\n", removed, args[0])

			return nil
		},
	}

	cmd.Flags().Int("year", 0, "Restrict to a single year (0 for all)")

	return cmd
}

// UpsertAssignmentCmd creates the upsertAssignment command
func UpsertAssignmentCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upsertAssignment <scenario_id> <camper_id> [bunk_id]",
		Short: "Manually place a camper in a scenario (omit bunk_id to unassign)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			locked, _ := cmd.Flags().GetBool("locked")

			var bunkID string
			if len(args) > 2 {
				bunkID = args[2]
			}

			err := services.UpsertScenarioAssignment(app.Ctx, app.Database, services.UpsertScenarioAssignmentParams{
				ScenarioID: args[0],
				CamperID:   args[1],
				BunkID:     bunkID,
				Locked:     locked,
			}, app.Logger)
			if err != nil {
				return err
			}

			if bunkID != "" {
				fmt.Printf("\n✓ Camper %s placed in bunk %s\n\n", args[1], bunkID)
			} else {
				fmt.Printf("\n✓ Camper %s unassigned\n\n", args[1])
			}

			return nil
		},
	}

	cmd.Flags().Bool("locked", false, "Pin the placement against optimizer changes")

	return cmd
}
