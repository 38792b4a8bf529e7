// ABOUTME: Tests for the interview panel TUI
// ABOUTME: Verifies lane rendering, event handling, and key bindings
package tui

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/orahq/orascan/bus"
	"github.com/orahq/orascan/db"
	"github.com/orahq/orascan/interview"
	"github.com/orahq/orascan/models"
)

func setupTestModel(t *testing.T) (Model, *sql.DB) {
	t.Helper()

	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

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
				{Name: "Front Office", ProcessGroups: []models.ProcessGroup{{Name: "Intake"}}},
			},
		},
	}
	if err := db.CreateLifecycle(database, lifecycle); err != nil {
		t.Fatalf("Failed to create lifecycle: %v", err)
	}

	events := bus.New()
	t.Cleanup(events.Close)

	store := interview.NewSummaryStore(database, events, nil, lifecycle)
	if err := store.Load(); err != nil {
		t.Fatalf("Failed to load store: %v", err)
	}
	recorder := interview.NewRecorder(database, store, func(ctx context.Context) (interview.SpeechSource, error) {
		return nil, context.Canceled
	})

	return NewModel(database, events, store, recorder, lifecycle), database
}

func TestViewRendersAllLanes(t *testing.T) {
	m, _ := setupTestModel(t)

	output := m.View()
	if output == "" {
		t.Fatal("View should not be empty")
	}
	for _, want := range []string{"Assistant", "Transcript", "Pain Points", "Order to Cash"} {
		if !strings.Contains(output, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestLaneCollapseKeys(t *testing.T) {
	m, _ := setupTestModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	m = updated.(Model)
	if !m.collapsed[LaneTranscript] {
		t.Error("Pressing 2 should collapse the transcript lane")
	}

	output := m.View()
	if !strings.Contains(output, "Transcript ▸") {
		t.Error("Collapsed lane should render as a stub")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	m = updated.(Model)
	if m.collapsed[LaneTranscript] {
		t.Error("Pressing 2 again should expand the lane")
	}
}

func TestTabCyclesFocus(t *testing.T) {
	m, _ := setupTestModel(t)

	if m.focusedLane != LaneAssistant {
		t.Fatalf("Expected initial focus on assistant, got %d", m.focusedLane)
	}
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	if m.focusedLane != LaneTranscript {
		t.Errorf("Expected focus on transcript, got %d", m.focusedLane)
	}
}

func TestPainPointCardsRender(t *testing.T) {
	m, database := setupTestModel(t)

	cost := int64(45000)
	if err := db.SaveSummary(database, &models.PainPointSummary{
		LifecycleID: m.lifecycle.ID,
		PainPoints: []models.PainPoint{
			{ID: "p1", Name: "Manual rekeying", AssignedProcessGroup: "Intake",
				Objectives: map[string]int{"so_cost": 2}, CostToServe: &cost},
		},
	}); err != nil {
		t.Fatalf("Failed to seed summary: %v", err)
	}
	if err := m.store.Load(); err != nil {
		t.Fatalf("Failed to reload store: %v", err)
	}

	output := m.renderPainPoints()
	for _, want := range []string{"Manual rekeying", "(2 pts)", "Intake", "45000"} {
		if !strings.Contains(output, want) {
			t.Errorf("Cards should contain %q", want)
		}
	}
}

func TestBusEventAppendsToFeed(t *testing.T) {
	m, _ := setupTestModel(t)

	m = m.applyEvent(bus.DocumentChange{
		Action:   bus.ActionAdded,
		Document: models.DocumentInfo{DocumentType: "Organization Chart"},
	})

	feed := m.renderAssistantFeed()
	if !strings.Contains(feed, "Organization Chart") {
		t.Errorf("Feed should mention the changed document, got %q", feed)
	}
}

func TestQuitRestoresDefaultContext(t *testing.T) {
	m, _ := setupTestModel(t)

	sub := m.events.Subscribe(bus.KindContextChange)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("Expected quit command")
	}

	select {
	case e := <-sub.Events():
		change := e.(bus.ContextChange)
		if change.Context != bus.ContextDefault {
			t.Errorf("Expected default context, got %s", change.Context)
		}
	default:
		t.Error("Expected context-change event on quit")
	}
}

func TestEditFormUpdatesScoreAndCost(t *testing.T) {
	m, database := setupTestModel(t)

	if err := db.SaveSummary(database, &models.PainPointSummary{
		LifecycleID: m.lifecycle.ID,
		PainPoints: []models.PainPoint{
			{ID: "p1", Name: "Manual rekeying", Objectives: map[string]int{}},
		},
	}); err != nil {
		t.Fatalf("Failed to seed summary: %v", err)
	}
	if err := m.store.Load(); err != nil {
		t.Fatalf("Failed to reload store: %v", err)
	}

	// Focus the pain points lane and open the form
	m.focusedLane = LanePainPoints
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	m = updated.(Model)
	if !m.editing {
		t.Fatal("Pressing e on the pain points lane should open the edit form")
	}
	if !strings.Contains(m.View(), "Manual rekeying") {
		t.Error("Edit form should name the selected pain point")
	}

	m.editInputs[0].SetValue("3")
	m.editInputs[1].SetValue("45000")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if m.editing {
		t.Fatalf("Saving should close the form, err: %v", m.err)
	}

	point := m.store.Summary().PainPoints[0]
	if point.Score == nil || *point.Score != 3 {
		t.Errorf("Expected score 3, got %v", point.Score)
	}
	if point.CostToServe == nil || *point.CostToServe != 45000 {
		t.Errorf("Expected cost 45000, got %v", point.CostToServe)
	}
}

func TestEditFormEscapeCancels(t *testing.T) {
	m, database := setupTestModel(t)

	if err := db.SaveSummary(database, &models.PainPointSummary{
		LifecycleID: m.lifecycle.ID,
		PainPoints: []models.PainPoint{
			{ID: "p1", Name: "Manual rekeying", Objectives: map[string]int{}},
		},
	}); err != nil {
		t.Fatalf("Failed to seed summary: %v", err)
	}
	if err := m.store.Load(); err != nil {
		t.Fatalf("Failed to reload store: %v", err)
	}

	m.focusedLane = LanePainPoints
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	m = updated.(Model)

	m.editInputs[0].SetValue("2")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.editing {
		t.Error("Escape should close the form")
	}
	if m.store.Summary().PainPoints[0].Score != nil {
		t.Error("Cancelled edit should not change the score")
	}
}
