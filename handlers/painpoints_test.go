// ABOUTME: Tests for pain-point MCP tool handlers
// ABOUTME: Validates tool input/output and error handling
package handlers

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/orahq/orascan/bus"
	"github.com/orahq/orascan/db"
	"github.com/orahq/orascan/models"
)

func setupHandlerTestDB(t *testing.T) (*sql.DB, *models.Lifecycle, func()) {
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}

	tenant := &models.Tenant{Name: "Acme"}
	if err := db.CreateTenant(database, tenant); err != nil {
		t.Fatalf("Failed to create tenant: %v", err)
	}
	workspace := &models.Workspace{TenantID: tenant.ID, Name: "EMEA"}
	if err := db.CreateWorkspace(database, workspace); err != nil {
		t.Fatalf("Failed to create workspace: %v", err)
	}
	scan := &models.Scan{WorkspaceID: workspace.ID, Name: "Ops Scan"}
	if err := db.CreateScan(database, scan); err != nil {
		t.Fatalf("Failed to create scan: %v", err)
	}

	lifecycle := &models.Lifecycle{
		ScanID: scan.ID,
		Name:   "Order to Cash",
		Processes: models.Processes{
			ProcessCategories: []models.ProcessCategory{
				{Name: "Front Office", ProcessGroups: []models.ProcessGroup{{Name: "Intake"}, {Name: "Triage"}}},
			},
		},
	}
	if err := db.CreateLifecycle(database, lifecycle); err != nil {
		t.Fatalf("Failed to create lifecycle: %v", err)
	}

	cleanup := func() {
		database.Close()
	}
	return database, lifecycle, cleanup
}

func seedSummary(t *testing.T, database *sql.DB, lifecycle *models.Lifecycle, painPoints []models.PainPoint) {
	t.Helper()
	if err := db.SaveSummary(database, &models.PainPointSummary{
		LifecycleID: lifecycle.ID,
		PainPoints:  painPoints,
	}); err != nil {
		t.Fatalf("Failed to seed summary: %v", err)
	}
}

func TestListPainPointsHandler(t *testing.T) {
	database, lifecycle, cleanup := setupHandlerTestDB(t)
	defer cleanup()

	seedSummary(t, database, lifecycle, []models.PainPoint{
		{ID: "p1", Name: "Manual rekeying", AssignedProcessGroup: "Intake",
			Objectives: map[string]int{"so_cost": 2, "so_speed": 1}},
	})

	handler := NewPainPointHandlers(database, nil)
	_, output, err := handler.ListPainPoints(context.Background(), &mcp.CallToolRequest{}, ListPainPointsInput{
		LifecycleID: lifecycle.ID.String(),
	})
	if err != nil {
		t.Fatalf("ListPainPoints failed: %v", err)
	}

	if len(output.PainPoints) != 1 {
		t.Fatalf("Expected 1 pain point, got %d", len(output.PainPoints))
	}
	if output.PainPoints[0].Points != 3 {
		t.Errorf("Expected 3 points, got %d", output.PainPoints[0].Points)
	}
	if output.PainPoints[0].AssignedProcessGroup != "Intake" {
		t.Errorf("Expected group Intake, got %s", output.PainPoints[0].AssignedProcessGroup)
	}
}

func TestListPainPointsEmptyLifecycle(t *testing.T) {
	database, lifecycle, cleanup := setupHandlerTestDB(t)
	defer cleanup()

	handler := NewPainPointHandlers(database, nil)
	_, output, err := handler.ListPainPoints(context.Background(), &mcp.CallToolRequest{}, ListPainPointsInput{
		LifecycleID: lifecycle.ID.String(),
	})
	if err != nil {
		t.Fatalf("ListPainPoints failed: %v", err)
	}
	if len(output.PainPoints) != 0 {
		t.Errorf("Expected no pain points, got %d", len(output.PainPoints))
	}
}

func TestListPainPointsRequiresLifecycleID(t *testing.T) {
	database, _, cleanup := setupHandlerTestDB(t)
	defer cleanup()

	handler := NewPainPointHandlers(database, nil)
	_, _, err := handler.ListPainPoints(context.Background(), &mcp.CallToolRequest{}, ListPainPointsInput{})
	if err == nil {
		t.Fatal("Expected error for missing lifecycle_id")
	}
}

func TestUpdatePainPointHandler(t *testing.T) {
	database, lifecycle, cleanup := setupHandlerTestDB(t)
	defer cleanup()

	seedSummary(t, database, lifecycle, []models.PainPoint{
		{ID: "p1", Name: "Manual rekeying", AssignedProcessGroup: "Intake"},
	})

	handler := NewPainPointHandlers(database, nil)

	score := 4
	cost := int64(75000)
	objValue := 2
	_, output, err := handler.UpdatePainPoint(context.Background(), &mcp.CallToolRequest{}, UpdatePainPointInput{
		LifecycleID:    lifecycle.ID.String(),
		PainPointID:    "p1",
		Score:          &score,
		CostToServe:    &cost,
		ObjectiveKey:   "so_cost",
		ObjectiveValue: &objValue,
	})
	if err != nil {
		t.Fatalf("UpdatePainPoint failed: %v", err)
	}

	if output.Score == nil || *output.Score != 4 {
		t.Errorf("Expected score 4, got %v", output.Score)
	}
	if output.CostToServe == nil || *output.CostToServe != 75000 {
		t.Errorf("Expected cost 75000, got %v", output.CostToServe)
	}
	if output.Objectives["so_cost"] != 2 {
		t.Errorf("Expected so_cost 2, got %d", output.Objectives["so_cost"])
	}
	if output.Points != 2 {
		t.Errorf("Expected points 2, got %d", output.Points)
	}

	// Persisted
	stored, err := db.GetSummary(database, lifecycle.ID)
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}
	p := stored.PainPoints[stored.FindPainPoint("p1")]
	if p.Score == nil || *p.Score != 4 {
		t.Errorf("Score was not persisted")
	}
}

func TestUpdatePainPointObjectiveKeyNeedsValue(t *testing.T) {
	database, lifecycle, cleanup := setupHandlerTestDB(t)
	defer cleanup()

	seedSummary(t, database, lifecycle, []models.PainPoint{{ID: "p1", Name: "X"}})

	handler := NewPainPointHandlers(database, nil)
	_, _, err := handler.UpdatePainPoint(context.Background(), &mcp.CallToolRequest{}, UpdatePainPointInput{
		LifecycleID:  lifecycle.ID.String(),
		PainPointID:  "p1",
		ObjectiveKey: "so_cost",
	})
	if err == nil {
		t.Fatal("Expected error when objective_key given without objective_value")
	}
}

func TestAssignProcessGroupHandler(t *testing.T) {
	database, lifecycle, cleanup := setupHandlerTestDB(t)
	defer cleanup()

	seedSummary(t, database, lifecycle, []models.PainPoint{
		{ID: "p1", Name: "Manual rekeying", AssignedProcessGroup: "Intake",
			Objectives: map[string]int{"so_cost": 3}},
	})

	events := bus.New()
	defer events.Close()
	sub := events.Subscribe(bus.KindPainPointsUpdated)

	handler := NewPainPointHandlers(database, events)
	_, output, err := handler.AssignProcessGroup(context.Background(), &mcp.CallToolRequest{}, AssignProcessGroupInput{
		LifecycleID: lifecycle.ID.String(),
		PainPointID: "p1",
		GroupName:   "Triage",
	})
	if err != nil {
		t.Fatalf("AssignProcessGroup failed: %v", err)
	}
	if output.AssignedProcessGroup != "Triage" {
		t.Errorf("Expected group Triage, got %s", output.AssignedProcessGroup)
	}

	select {
	case e := <-sub.Events():
		if e.Kind() != bus.KindPainPointsUpdated {
			t.Errorf("Unexpected event kind %s", e.Kind())
		}
	default:
		t.Error("Expected pain-points-updated event")
	}
}

func TestAssignProcessGroupEmptyMeansUnassigned(t *testing.T) {
	database, lifecycle, cleanup := setupHandlerTestDB(t)
	defer cleanup()

	seedSummary(t, database, lifecycle, []models.PainPoint{
		{ID: "p1", Name: "Manual rekeying", AssignedProcessGroup: "Intake"},
	})

	handler := NewPainPointHandlers(database, nil)
	_, output, err := handler.AssignProcessGroup(context.Background(), &mcp.CallToolRequest{}, AssignProcessGroupInput{
		LifecycleID: lifecycle.ID.String(),
		PainPointID: "p1",
	})
	if err != nil {
		t.Fatalf("AssignProcessGroup failed: %v", err)
	}
	if output.AssignedProcessGroup != models.UnassignedGroup {
		t.Errorf("Expected Unassigned, got %s", output.AssignedProcessGroup)
	}
}

func TestDeletePainPointHandler(t *testing.T) {
	database, lifecycle, cleanup := setupHandlerTestDB(t)
	defer cleanup()

	seedSummary(t, database, lifecycle, []models.PainPoint{
		{ID: "p1", Name: "Manual rekeying"},
		{ID: "p2", Name: "Slow approvals"},
	})

	handler := NewPainPointHandlers(database, nil)
	_, output, err := handler.DeletePainPoint(context.Background(), &mcp.CallToolRequest{}, DeletePainPointInput{
		LifecycleID: lifecycle.ID.String(),
		PainPointID: "p1",
	})
	if err != nil {
		t.Fatalf("DeletePainPoint failed: %v", err)
	}
	if !output.Deleted {
		t.Error("Expected deleted=true")
	}
	if output.Remaining != 1 {
		t.Errorf("Expected 1 remaining, got %d", output.Remaining)
	}

	// Deleting an absent id is a no-op, not an error
	_, output, err = handler.DeletePainPoint(context.Background(), &mcp.CallToolRequest{}, DeletePainPointInput{
		LifecycleID: lifecycle.ID.String(),
		PainPointID: "p1",
	})
	if err != nil {
		t.Fatalf("Second delete failed: %v", err)
	}
	if output.Remaining != 1 {
		t.Errorf("Expected 1 remaining after no-op delete, got %d", output.Remaining)
	}
}

func TestListPainPointsUnknownLifecycle(t *testing.T) {
	database, _, cleanup := setupHandlerTestDB(t)
	defer cleanup()

	handler := NewPainPointHandlers(database, nil)
	_, _, err := handler.ListPainPoints(context.Background(), &mcp.CallToolRequest{}, ListPainPointsInput{
		LifecycleID: uuid.New().String(),
	})
	if err == nil {
		t.Fatal("Expected error for unknown lifecycle")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected not-found error, got %v", err)
	}
}

func TestListPainPointsFollowsInterviewContext(t *testing.T) {
	database, lifecycle, cleanup := setupHandlerTestDB(t)
	defer cleanup()

	seedSummary(t, database, lifecycle, []models.PainPoint{
		{ID: "p1", Name: "Manual rekeying", AssignedProcessGroup: "Intake", Objectives: map[string]int{"so_cost": 2}},
	})

	events := bus.New()
	defer events.Close()

	handler := NewPainPointHandlers(database, events)
	events.Publish(bus.ContextChange{
		Context:       bus.ContextInterview,
		LifecycleID:   lifecycle.ID,
		LifecycleName: lifecycle.Name,
	})

	// The tracker consumes the event on its own goroutine
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := handler.contexts.ActiveLifecycle(); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("context tracker never picked up the interview context")
		}
		time.Sleep(10 * time.Millisecond)
	}

	_, output, err := handler.ListPainPoints(context.Background(), &mcp.CallToolRequest{}, ListPainPointsInput{})
	if err != nil {
		t.Fatalf("ListPainPoints without an id should follow the interview context: %v", err)
	}
	if len(output.PainPoints) != 1 || output.PainPoints[0].ID != "p1" {
		t.Errorf("Expected the interview lifecycle's pain points, got %+v", output.PainPoints)
	}

	// Dropping back to the default context removes the fallback
	events.Publish(bus.ContextChange{Context: bus.ContextDefault})
	deadline = time.Now().Add(2 * time.Second)
	for {
		if _, ok := handler.contexts.ActiveLifecycle(); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("context tracker never dropped the interview context")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if _, _, err := handler.ListPainPoints(context.Background(), &mcp.CallToolRequest{}, ListPainPointsInput{}); err == nil {
		t.Fatal("Expected error without an id once the interview context is gone")
	}
}
