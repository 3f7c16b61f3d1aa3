package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/summitpines/bunkmate/pkg/core/services"
)

// ImportRosterCmd creates the importRoster command
func ImportRosterCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importRoster <year>",
		Short: "Import campers, bunks and bunking requests from the roster sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("year must be a number: %w", err)
			}

			result, err := services.ImportRoster(app.Ctx, app.RosterClient, app.Database, app.Cfg, year, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Roster imported!\n\n")
			fmt.Printf("Sessions: %d\n", result.Sessions)
			fmt.Printf("Campers:  %d\n", result.Campers)
			fmt.Printf("Bunks:    %d\n", result.Bunks)
			fmt.Printf("Requests: %d\n", result.Requests)
			fmt.Printf("Seeded assignments: %d\n\n", result.Assignments)

			return nil
		},
	}
}
