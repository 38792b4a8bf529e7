// ABOUTME: Entry point for the orascan server and CLI
// ABOUTME: Routes to the API server, MCP server, or CLI commands based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/orahq/orascan/bus"
	"github.com/orahq/orascan/cli"
	"github.com/orahq/orascan/db"
	"github.com/orahq/orascan/summarize"
)

const version = "0.1.0"

const defaultSummarizerURL = "http://localhost:8090"

func main() {
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/orascan/orascan.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")
	port := flag.Int("port", 8080, "API server port (use with 'serve')")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("orascan version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	finalDBPath := getDatabasePath(*dbPath)
	database, err := db.OpenDatabase(finalDBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if *initOnly {
		log.Printf("Database initialized: %s", finalDBPath)
		os.Exit(0)
	}

	events := bus.New()
	defer events.Close()

	suppressor, err := bus.OpenSuppressor(filepath.Join(filepath.Dir(finalDBPath), "suppress"))
	if err != nil {
		log.Fatalf("Failed to open suppression store: %v", err)
	}
	defer suppressor.Close()
	events.SetSuppressor(suppressor)

	client := summarize.NewClient(getSummarizerURL())

	switch command {
	case "serve":
		log.Printf("orascan database: %s", finalDBPath)
		if err := cli.ServeCommand(database, events, client, *port); err != nil {
			log.Fatalf("API server failed: %v", err)
		}

	case "mcp":
		// MCP server keeps stdout clean for the protocol
		if err := cli.MCPCommand(database, events, client); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "interview":
		if err := cli.InterviewCommand(database, events, client, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "scenario":
		if err := cli.ScenarioCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "viz":
		if len(commandArgs) == 0 {
			fmt.Println("Error: viz requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		vizCommand := commandArgs[0]
		vizArgs := commandArgs[1:]

		switch vizCommand {
		case "graph":
			if len(vizArgs) == 0 {
				fmt.Println("Error: viz graph requires a type (process or scenario)")
				printUsage()
				os.Exit(1)
			}

			graphType := vizArgs[0]
			graphArgs := vizArgs[1:]

			switch graphType {
			case "process":
				if err := cli.VizGraphProcessCommand(database, graphArgs); err != nil {
					log.Fatalf("Error: %v", err)
				}
			case "scenario":
				if err := cli.VizGraphScenarioCommand(database, graphArgs); err != nil {
					log.Fatalf("Error: %v", err)
				}
			default:
				fmt.Printf("Unknown graph type: %s\n\n", graphType)
				printUsage()
				os.Exit(1)
			}

		default:
			fmt.Printf("Unknown viz command: %s\n\n", vizCommand)
			printUsage()
			os.Exit(1)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func getDatabasePath(dbPath string) string {
	if dbPath != "" {
		return dbPath
	}
	return filepath.Join(xdg.DataHome, "orascan", "orascan.db")
}

func getSummarizerURL() string {
	if url := os.Getenv("ORASCAN_SUMMARIZER_URL"); url != "" {
		return url
	}
	return defaultSummarizerURL
}

func printUsage() {
	fmt.Printf(`orascan v%s - Business process scan platform

USAGE:
  orascan [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/orascan/orascan.db)
  --init                 Initialize database and exit
  --port <n>             API server port (default: 8080, use with 'serve')

ENVIRONMENT:
  ORASCAN_SUMMARIZER_URL   Base URL of the AI summarization service
                           (default: %s, .env file supported)

COMMANDS:
  serve                  Start the REST API server
  mcp                    Start MCP server for assistant integration
  interview              Open the interactive interview panel for a lifecycle
  scenario               Print the scenario planning report for a scan
  viz                    Graph generation commands

INTERVIEW:
  orascan interview <lifecycle-id>   Open the interview panel
    --transcript-file <path>            File to tail for live transcript lines

SCENARIO:
  orascan scenario <scan-id>         Print cost and opportunity rollup

VIZ COMMANDS:
  orascan viz graph process <lifecycle-id>   Generate process landscape graph
    --output <file>                            Output file (default: stdout)

  orascan viz graph scenario <scan-id>       Generate opportunity overview graph
    --output <file>                            Output file (default: stdout)

EXAMPLES:
  # Start the API server on port 3000
  orascan --port 3000 serve

  # Start MCP server for assistant integration
  orascan mcp

  # Run an interview, tailing a transcript file written by a capture tool
  orascan interview 9f3c0d2e-5a1b-4c8e-9d7f-2b6a8c4e1f0a --transcript-file /tmp/session.txt

  # Print the scenario report for a scan
  orascan scenario 4b2e6f8a-1c3d-4e5f-8a9b-0c1d2e3f4a5b

`, version, defaultSummarizerURL)
}
