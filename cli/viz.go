// ABOUTME: Visualization CLI commands
// ABOUTME: Handles process and scenario graph generation commands
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/orahq/orascan/viz"
)

// VizGraphProcessCommand generates a process landscape graph for a lifecycle.
func VizGraphProcessCommand(db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("viz graph process", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("lifecycle ID required")
	}

	lifecycleID, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid lifecycle ID: %w", err)
	}

	generator := viz.NewGraphGenerator(db)
	dot, err := generator.GenerateProcessGraph(lifecycleID)
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(dot), 0644)
	}

	fmt.Println(dot)
	return nil
}

// VizGraphScenarioCommand generates an opportunity overview graph for a scan.
func VizGraphScenarioCommand(db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("viz graph scenario", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")

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

	generator := viz.NewGraphGenerator(db)
	dot, err := generator.GenerateScenarioGraph(scanID)
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(dot), 0644)
	}

	fmt.Println(dot)
	return nil
}
