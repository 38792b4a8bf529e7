// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides generate_graph tool for agents
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/orahq/orascan/viz"
)

type VizHandlers struct {
	db *sql.DB
}

func NewVizHandlers(database *sql.DB) *VizHandlers {
	return &VizHandlers{db: database}
}

type GenerateGraphInput struct {
	Type     string `json:"type" jsonschema:"Graph type: process or scenario"`
	EntityID string `json:"entity_id" jsonschema:"UUID of the lifecycle (process) or scan (scenario)"`
}

type GenerateGraphOutput struct {
	GraphType string `json:"graph_type"`
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateGraph(_ context.Context, request *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	if input.Type == "" {
		return nil, GenerateGraphOutput{}, fmt.Errorf("type is required")
	}
	if input.EntityID == "" {
		return nil, GenerateGraphOutput{}, fmt.Errorf("entity_id is required")
	}

	id, err := uuid.Parse(input.EntityID)
	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("invalid entity_id: %w", err)
	}

	generator := viz.NewGraphGenerator(h.db)
	var dot string

	switch input.Type {
	case "process":
		dot, err = generator.GenerateProcessGraph(id)
	case "scenario":
		dot, err = generator.GenerateScenarioGraph(id)
	default:
		return nil, GenerateGraphOutput{}, fmt.Errorf("unknown graph type: %s", input.Type)
	}
	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	// Count nodes and edges for stats
	nodeCount := strings.Count(dot, "[label=")
	edgeCount := strings.Count(dot, "->")

	return nil, GenerateGraphOutput{
		GraphType: input.Type,
		DOTSource: dot,
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
	}, nil
}
