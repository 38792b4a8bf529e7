// ABOUTME: Tests for lifecycle ordering and position self-healing
// ABOUTME: Validates dense positions, reordering, and gap repair
package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/orahq/orascan/models"
)

func TestCreateLifecycleAssignsDensePositions(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first := createTestLifecycle(t, db)

	second := &models.Lifecycle{ScanID: first.ScanID, Name: "Procure to Pay"}
	if err := CreateLifecycle(db, second); err != nil {
		t.Fatalf("CreateLifecycle failed: %v", err)
	}
	third := &models.Lifecycle{ScanID: first.ScanID, Name: "Hire to Retire"}
	if err := CreateLifecycle(db, third); err != nil {
		t.Fatalf("CreateLifecycle failed: %v", err)
	}

	if first.Position != 0 || second.Position != 1 || third.Position != 2 {
		t.Errorf("expected positions 0,1,2, got %d,%d,%d", first.Position, second.Position, third.Position)
	}
}

func TestListLifecyclesRepairsGaps(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first := createTestLifecycle(t, db)
	second := &models.Lifecycle{ScanID: first.ScanID, Name: "Procure to Pay"}
	if err := CreateLifecycle(db, second); err != nil {
		t.Fatalf("CreateLifecycle failed: %v", err)
	}
	third := &models.Lifecycle{ScanID: first.ScanID, Name: "Hire to Retire"}
	if err := CreateLifecycle(db, third); err != nil {
		t.Fatalf("CreateLifecycle failed: %v", err)
	}

	// Deleting the middle lifecycle leaves a gap: positions 0, 2
	if err := DeleteLifecycle(db, second.ID); err != nil {
		t.Fatalf("DeleteLifecycle failed: %v", err)
	}

	lifecycles, err := ListLifecycles(db, first.ScanID)
	if err != nil {
		t.Fatalf("ListLifecycles failed: %v", err)
	}
	if len(lifecycles) != 2 {
		t.Fatalf("expected 2 lifecycles, got %d", len(lifecycles))
	}
	for i, l := range lifecycles {
		if l.Position != i {
			t.Errorf("expected dense position %d, got %d for %s", i, l.Position, l.Name)
		}
	}

	// The repair is persisted
	reloaded, err := GetLifecycle(db, third.ID)
	if err != nil {
		t.Fatalf("GetLifecycle failed: %v", err)
	}
	if reloaded.Position != 1 {
		t.Errorf("expected persisted repaired position 1, got %d", reloaded.Position)
	}
}

func TestReorderLifecycles(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first := createTestLifecycle(t, db)
	second := &models.Lifecycle{ScanID: first.ScanID, Name: "Procure to Pay"}
	if err := CreateLifecycle(db, second); err != nil {
		t.Fatalf("CreateLifecycle failed: %v", err)
	}

	if err := ReorderLifecycles(db, first.ScanID, []uuid.UUID{second.ID, first.ID}); err != nil {
		t.Fatalf("ReorderLifecycles failed: %v", err)
	}

	lifecycles, err := ListLifecycles(db, first.ScanID)
	if err != nil {
		t.Fatalf("ListLifecycles failed: %v", err)
	}
	if lifecycles[0].ID != second.ID || lifecycles[1].ID != first.ID {
		t.Error("reorder did not change display order")
	}
}

func TestReorderLifecyclesRequiresAllIDs(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first := createTestLifecycle(t, db)
	second := &models.Lifecycle{ScanID: first.ScanID, Name: "Procure to Pay"}
	if err := CreateLifecycle(db, second); err != nil {
		t.Fatalf("CreateLifecycle failed: %v", err)
	}

	if err := ReorderLifecycles(db, first.ScanID, []uuid.UUID{first.ID}); err == nil {
		t.Error("expected error when reorder omits a lifecycle")
	}
}

func TestUpdateLifecycleProcessTree(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	lifecycle := createTestLifecycle(t, db)
	lifecycle.Processes.ProcessCategories = append(lifecycle.Processes.ProcessCategories, models.ProcessCategory{
		Name:          "Back Office",
		ProcessGroups: []models.ProcessGroup{{Name: "Billing", Description: "Invoice and collect"}},
	})

	if err := UpdateLifecycle(db, lifecycle.ID, lifecycle); err != nil {
		t.Fatalf("UpdateLifecycle failed: %v", err)
	}

	got, err := GetLifecycle(db, lifecycle.ID)
	if err != nil {
		t.Fatalf("GetLifecycle failed: %v", err)
	}
	if !got.HasProcessGroup("Billing") {
		t.Error("process tree update lost Billing group")
	}
	if !got.HasProcessGroup("Intake") {
		t.Error("process tree update lost Intake group")
	}
}
