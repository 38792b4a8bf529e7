// ABOUTME: Pain-point MCP tool handlers
// ABOUTME: Implements list_pain_points, update_pain_point, assign_process_group, and delete_pain_point tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/orahq/orascan/bus"
	"github.com/orahq/orascan/db"
	"github.com/orahq/orascan/interview"
	"github.com/orahq/orascan/models"
)

type PainPointHandlers struct {
	db       *sql.DB
	events   *bus.Bus
	contexts *ContextTracker
}

func NewPainPointHandlers(database *sql.DB, events *bus.Bus) *PainPointHandlers {
	h := &PainPointHandlers{db: database, events: events}
	if events != nil {
		h.contexts = NewContextTracker(events)
	}
	return h
}

// resolveLifecycleID falls back to the lifecycle under interview when the
// assistant omits the id.
func (h *PainPointHandlers) resolveLifecycleID(lifecycleID string) (string, error) {
	if lifecycleID != "" {
		return lifecycleID, nil
	}
	if h.contexts != nil {
		if id, ok := h.contexts.ActiveLifecycle(); ok {
			return id.String(), nil
		}
	}
	return "", fmt.Errorf("lifecycle_id is required when no interview is active")
}

// storeFor loads a summary store bound to the lifecycle, so assistant edits
// follow the same save-and-notify path as the interview panel.
func (h *PainPointHandlers) storeFor(lifecycleID string) (*interview.SummaryStore, error) {
	id, err := uuid.Parse(lifecycleID)
	if err != nil {
		return nil, fmt.Errorf("invalid lifecycle_id: %w", err)
	}

	lifecycle, err := db.GetLifecycle(h.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lifecycle: %w", err)
	}
	if lifecycle == nil {
		return nil, fmt.Errorf("lifecycle not found: %s", lifecycleID)
	}

	store := interview.NewSummaryStore(h.db, h.events, nil, lifecycle)
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load summary: %w", err)
	}
	return store, nil
}

type PainPointOutput struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	Description          string         `json:"description,omitempty"`
	AssignedProcessGroup string         `json:"assigned_process_group"`
	Points               int            `json:"points"`
	Score                *int           `json:"score,omitempty"`
	CostToServe          *int64         `json:"cost_to_serve,omitempty"`
	Objectives           map[string]int `json:"objectives,omitempty"`
}

func painPointToOutput(p *models.PainPoint) PainPointOutput {
	return PainPointOutput{
		ID:                   p.ID,
		Name:                 p.Name,
		Description:          p.Description,
		AssignedProcessGroup: p.AssignedProcessGroup,
		Points:               p.Points(),
		Score:                p.Score,
		CostToServe:          p.CostToServe,
		Objectives:           p.Objectives,
	}
}

type ListPainPointsInput struct {
	LifecycleID string `json:"lifecycle_id,omitempty" jsonschema:"UUID of the lifecycle (defaults to the lifecycle under interview)"`
}

type ListPainPointsOutput struct {
	OverallSummary string            `json:"overall_summary,omitempty"`
	PainPoints     []PainPointOutput `json:"pain_points"`
}

func (h *PainPointHandlers) ListPainPoints(_ context.Context, request *mcp.CallToolRequest, input ListPainPointsInput) (*mcp.CallToolResult, ListPainPointsOutput, error) {
	lifecycleID, err := h.resolveLifecycleID(input.LifecycleID)
	if err != nil {
		return nil, ListPainPointsOutput{}, err
	}

	store, err := h.storeFor(lifecycleID)
	if err != nil {
		return nil, ListPainPointsOutput{}, err
	}

	summary := store.Summary()
	out := ListPainPointsOutput{
		OverallSummary: summary.OverallSummary,
		PainPoints:     make([]PainPointOutput, 0, len(summary.PainPoints)),
	}
	for i := range summary.PainPoints {
		out.PainPoints = append(out.PainPoints, painPointToOutput(&summary.PainPoints[i]))
	}
	return nil, out, nil
}

type UpdatePainPointInput struct {
	LifecycleID    string `json:"lifecycle_id" jsonschema:"UUID of the lifecycle (required)"`
	PainPointID    string `json:"pain_point_id" jsonschema:"ID of the pain point (required)"`
	Score          *int   `json:"score,omitempty" jsonschema:"Manual score to set"`
	CostToServe    *int64 `json:"cost_to_serve,omitempty" jsonschema:"Cost-to-serve estimate in currency units"`
	ObjectiveKey   string `json:"objective_key,omitempty" jsonschema:"Strategic objective key to score, e.g. so_speed_to_market"`
	ObjectiveValue *int   `json:"objective_value,omitempty" jsonschema:"Objective score 0-3, required with objective_key"`
}

func (h *PainPointHandlers) UpdatePainPoint(_ context.Context, request *mcp.CallToolRequest, input UpdatePainPointInput) (*mcp.CallToolResult, PainPointOutput, error) {
	if input.LifecycleID == "" || input.PainPointID == "" {
		return nil, PainPointOutput{}, fmt.Errorf("lifecycle_id and pain_point_id are required")
	}
	if input.ObjectiveKey != "" && input.ObjectiveValue == nil {
		return nil, PainPointOutput{}, fmt.Errorf("objective_value is required with objective_key")
	}

	store, err := h.storeFor(input.LifecycleID)
	if err != nil {
		return nil, PainPointOutput{}, err
	}

	if input.Score != nil {
		if err := store.SetScore(input.PainPointID, *input.Score); err != nil {
			return nil, PainPointOutput{}, fmt.Errorf("failed to set score: %w", err)
		}
	}
	if input.CostToServe != nil {
		if err := store.SetCostToServe(input.PainPointID, *input.CostToServe); err != nil {
			return nil, PainPointOutput{}, fmt.Errorf("failed to set cost_to_serve: %w", err)
		}
	}
	if input.ObjectiveKey != "" {
		if err := store.SetObjectiveScore(input.PainPointID, input.ObjectiveKey, *input.ObjectiveValue); err != nil {
			return nil, PainPointOutput{}, fmt.Errorf("failed to set objective score: %w", err)
		}
	}

	summary := store.Summary()
	idx := summary.FindPainPoint(input.PainPointID)
	if idx < 0 {
		return nil, PainPointOutput{}, fmt.Errorf("pain point not found: %s", input.PainPointID)
	}
	return nil, painPointToOutput(&summary.PainPoints[idx]), nil
}

type AssignProcessGroupInput struct {
	LifecycleID string `json:"lifecycle_id" jsonschema:"UUID of the lifecycle (required)"`
	PainPointID string `json:"pain_point_id" jsonschema:"ID of the pain point (required)"`
	GroupName   string `json:"group_name" jsonschema:"Process group name, or empty for Unassigned"`
}

func (h *PainPointHandlers) AssignProcessGroup(_ context.Context, request *mcp.CallToolRequest, input AssignProcessGroupInput) (*mcp.CallToolResult, PainPointOutput, error) {
	if input.LifecycleID == "" || input.PainPointID == "" {
		return nil, PainPointOutput{}, fmt.Errorf("lifecycle_id and pain_point_id are required")
	}

	store, err := h.storeFor(input.LifecycleID)
	if err != nil {
		return nil, PainPointOutput{}, err
	}

	if err := store.SetProcessGroup(input.PainPointID, input.GroupName); err != nil {
		return nil, PainPointOutput{}, fmt.Errorf("failed to assign process group: %w", err)
	}

	summary := store.Summary()
	idx := summary.FindPainPoint(input.PainPointID)
	return nil, painPointToOutput(&summary.PainPoints[idx]), nil
}

type DeletePainPointInput struct {
	LifecycleID string `json:"lifecycle_id" jsonschema:"UUID of the lifecycle (required)"`
	PainPointID string `json:"pain_point_id" jsonschema:"ID of the pain point (required)"`
}

type DeletePainPointOutput struct {
	Deleted   bool `json:"deleted"`
	Remaining int  `json:"remaining"`
}

func (h *PainPointHandlers) DeletePainPoint(_ context.Context, request *mcp.CallToolRequest, input DeletePainPointInput) (*mcp.CallToolResult, DeletePainPointOutput, error) {
	if input.LifecycleID == "" || input.PainPointID == "" {
		return nil, DeletePainPointOutput{}, fmt.Errorf("lifecycle_id and pain_point_id are required")
	}

	store, err := h.storeFor(input.LifecycleID)
	if err != nil {
		return nil, DeletePainPointOutput{}, err
	}

	if err := store.DeletePainPoint(input.PainPointID); err != nil {
		return nil, DeletePainPointOutput{}, fmt.Errorf("failed to delete pain point: %w", err)
	}

	return nil, DeletePainPointOutput{
		Deleted:   true,
		Remaining: len(store.Summary().PainPoints),
	}, nil
}
