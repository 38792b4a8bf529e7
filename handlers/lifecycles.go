// ABOUTME: Lifecycle MCP tool handlers
// ABOUTME: Implements lifecycle_scores and generate_processes tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/orahq/orascan/bus"
	"github.com/orahq/orascan/db"
	"github.com/orahq/orascan/models"
	"github.com/orahq/orascan/summarize"
)

type LifecycleHandlers struct {
	db     *sql.DB
	events *bus.Bus
	client *summarize.Client
}

func NewLifecycleHandlers(database *sql.DB, events *bus.Bus, client *summarize.Client) *LifecycleHandlers {
	return &LifecycleHandlers{db: database, events: events, client: client}
}

type LifecycleScoresInput struct {
	LifecycleID string `json:"lifecycle_id" jsonschema:"UUID of the lifecycle (required)"`
}

type GroupScoreOutput struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type CategoryScoreOutput struct {
	Name   string             `json:"name"`
	Points int                `json:"points"`
	Groups []GroupScoreOutput `json:"groups"`
}

type LifecycleScoresOutput struct {
	LifecycleID string                `json:"lifecycle_id"`
	Name        string                `json:"name"`
	Categories  []CategoryScoreOutput `json:"categories"`
}

// LifecycleScores reports the aggregated pain-point score for every process
// group and category in the lifecycle's tree. Scores are computed from the
// current summary on every call.
func (h *LifecycleHandlers) LifecycleScores(_ context.Context, request *mcp.CallToolRequest, input LifecycleScoresInput) (*mcp.CallToolResult, LifecycleScoresOutput, error) {
	if input.LifecycleID == "" {
		return nil, LifecycleScoresOutput{}, fmt.Errorf("lifecycle_id is required")
	}

	id, err := uuid.Parse(input.LifecycleID)
	if err != nil {
		return nil, LifecycleScoresOutput{}, fmt.Errorf("invalid lifecycle_id: %w", err)
	}

	lifecycle, err := db.GetLifecycle(h.db, id)
	if err != nil {
		return nil, LifecycleScoresOutput{}, fmt.Errorf("failed to fetch lifecycle: %w", err)
	}
	if lifecycle == nil {
		return nil, LifecycleScoresOutput{}, fmt.Errorf("lifecycle not found: %s", input.LifecycleID)
	}

	summary, err := db.GetSummaryReconciled(h.db, lifecycle)
	if err != nil && err != db.ErrNotFound {
		return nil, LifecycleScoresOutput{}, fmt.Errorf("failed to fetch summary: %w", err)
	}

	out := LifecycleScoresOutput{
		LifecycleID: lifecycle.ID.String(),
		Name:        lifecycle.Name,
	}
	for _, category := range lifecycle.Processes.ProcessCategories {
		catOut := CategoryScoreOutput{Name: category.Name}
		for _, group := range category.ProcessGroups {
			points := 0
			if summary != nil {
				points = summary.ProcessGroupScore(group.Name)
			}
			catOut.Groups = append(catOut.Groups, GroupScoreOutput{Name: group.Name, Points: points})
			catOut.Points += points
		}
		out.Categories = append(out.Categories, catOut)
	}
	return nil, out, nil
}

type GenerateProcessesInput struct {
	LifecycleID string `json:"lifecycle_id" jsonschema:"UUID of the lifecycle (required)"`
	CompanyName string `json:"company_name,omitempty" jsonschema:"Company name to steer generation"`
}

type GenerateProcessesOutput struct {
	LifecycleID   string `json:"lifecycle_id"`
	CategoryCount int    `json:"category_count"`
	GroupCount    int    `json:"group_count"`
}

// GenerateProcesses asks the summarizer service for a process tree,
// persists it on the lifecycle, and announces a generated lifecycle change.
func (h *LifecycleHandlers) GenerateProcesses(ctx context.Context, request *mcp.CallToolRequest, input GenerateProcessesInput) (*mcp.CallToolResult, GenerateProcessesOutput, error) {
	if input.LifecycleID == "" {
		return nil, GenerateProcessesOutput{}, fmt.Errorf("lifecycle_id is required")
	}

	id, err := uuid.Parse(input.LifecycleID)
	if err != nil {
		return nil, GenerateProcessesOutput{}, fmt.Errorf("invalid lifecycle_id: %w", err)
	}

	lifecycle, err := db.GetLifecycle(h.db, id)
	if err != nil {
		return nil, GenerateProcessesOutput{}, fmt.Errorf("failed to fetch lifecycle: %w", err)
	}
	if lifecycle == nil {
		return nil, GenerateProcessesOutput{}, fmt.Errorf("lifecycle not found: %s", input.LifecycleID)
	}

	processes, err := h.client.GenerateProcesses(ctx, &summarize.ProcessRequest{
		LifecycleName:        lifecycle.Name,
		LifecycleDescription: lifecycle.Description,
		CompanyName:          input.CompanyName,
	})
	if err != nil {
		return nil, GenerateProcessesOutput{}, fmt.Errorf("process generation failed: %w", err)
	}

	if err := db.UpdateLifecycle(h.db, lifecycle.ID, &models.Lifecycle{
		Name:        lifecycle.Name,
		Description: lifecycle.Description,
		Processes:   *processes,
	}); err != nil {
		return nil, GenerateProcessesOutput{}, fmt.Errorf("failed to save processes: %w", err)
	}

	groupCount := 0
	for _, category := range processes.ProcessCategories {
		groupCount += len(category.ProcessGroups)
	}

	if h.events != nil {
		h.events.Publish(bus.LifecycleChange{
			Action: bus.ActionGenerated,
			ScanID: lifecycle.ScanID,
			Count:  1,
		})
	}

	return nil, GenerateProcessesOutput{
		LifecycleID:   lifecycle.ID.String(),
		CategoryCount: len(processes.ProcessCategories),
		GroupCount:    groupCount,
	}, nil
}
