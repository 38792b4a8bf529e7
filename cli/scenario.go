// ABOUTME: Scenario planning CLI command
// ABOUTME: Prints the cost and opportunity rollup report for a scan
package cli

import (
	"database/sql"
	"flag"
	"fmt"

	"github.com/google/uuid"
	"github.com/orahq/orascan/scenario"
)

// ScenarioCommand prints the scenario planning report for a scan.
func ScenarioCommand(db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("scenario", flag.ExitOnError)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("scan ID required")
	}

	scanID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid scan ID: %w", err)
	}

	rollup, err := scenario.BuildRollup(db, scanID)
	if err != nil {
		return err
	}

	fmt.Print(scenario.Render(rollup))
	return nil
}
