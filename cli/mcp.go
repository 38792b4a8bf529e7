// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server exposing scan tools on stdio
package cli

import (
	"context"
	"database/sql"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/orahq/orascan/bus"
	"github.com/orahq/orascan/handlers"
	"github.com/orahq/orascan/summarize"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(db *sql.DB, events *bus.Bus, client *summarize.Client) error {
	log.Println("Starting scan MCP server...")

	painPointHandlers := handlers.NewPainPointHandlers(db, events)
	lifecycleHandlers := handlers.NewLifecycleHandlers(db, events, client)
	documentHandlers := handlers.NewDocumentHandlers(db)
	vizHandlers := handlers.NewVizHandlers(db)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "orascan",
		Version: "0.1.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_pain_points",
		Description: "List a lifecycle's pain points with scores and process group assignments",
	}, painPointHandlers.ListPainPoints)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_pain_point",
		Description: "Update a pain point's score, cost-to-serve, or a strategic objective score",
	}, painPointHandlers.UpdatePainPoint)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "assign_process_group",
		Description: "Reassign a pain point to a process group, or to Unassigned",
	}, painPointHandlers.AssignProcessGroup)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_pain_point",
		Description: "Delete a pain point from a lifecycle's summary",
	}, painPointHandlers.DeletePainPoint)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "lifecycle_scores",
		Description: "Report aggregated pain-point scores per process group and category",
	}, lifecycleHandlers.LifecycleScores)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_processes",
		Description: "Generate a lifecycle's process tree with AI and save it",
	}, lifecycleHandlers.GenerateProcesses)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "document_status",
		Description: "Report required-document coverage for a scan, with missing types itemized",
	}, documentHandlers.DocumentStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_graph",
		Description: "Generate a DOT graph: process tree for a lifecycle or scenario overview for a scan",
	}, vizHandlers.GenerateGraph)

	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
