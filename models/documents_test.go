// ABOUTME: Tests for document required-set tracking
// ABOUTME: Validates missing-type computation and status narratives
package models

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func docOfType(docType, status string) DocumentInfo {
	return DocumentInfo{
		ID:           uuid.New(),
		ScanID:       uuid.New(),
		DocumentType: docType,
		Status:       status,
	}
}

func TestMissingWithFiveOfSevenUploaded(t *testing.T) {
	tracker := NewDocumentTracker()
	if len(tracker.Required) != 7 {
		t.Fatalf("expected 7 required types, got %d", len(tracker.Required))
	}

	docs := []DocumentInfo{
		docOfType("Company Overview", DocumentStatusUploaded),
		docOfType("Organization Chart", DocumentStatusProcessed),
		docOfType("Process Documentation", DocumentStatusUploaded),
		docOfType("Financial Statements", DocumentStatusUploaded),
		docOfType("IT Systems Inventory", DocumentStatusUploaded),
	}

	missing := tracker.Missing(docs)
	if len(missing) != 2 {
		t.Fatalf("expected 2 missing types, got %d: %v", len(missing), missing)
	}

	welcome := tracker.WelcomeMessage(docs)
	for _, m := range missing {
		if !strings.Contains(welcome, m) {
			t.Errorf("welcome message should enumerate %q: %s", m, welcome)
		}
	}
	if !strings.Contains(welcome, "5 of 7") {
		t.Errorf("expected '5 of 7' in welcome message: %s", welcome)
	}
}

func TestPlaceholderNotCountedAsUploaded(t *testing.T) {
	tracker := NewDocumentTracker()
	docs := []DocumentInfo{
		docOfType("Company Overview", DocumentStatusPlaceholder),
		docOfType("Strategic Plan", DocumentStatusFailed),
	}

	if got := tracker.UploadedCount(docs); got != 0 {
		t.Errorf("placeholder and failed docs must not count as uploaded, got %d", got)
	}

	missing := tracker.Missing(docs)
	if len(missing) != len(tracker.Required) {
		t.Errorf("expected all %d types missing, got %d", len(tracker.Required), len(missing))
	}

	// Placeholder slots are still visible in per-type status
	status := tracker.TypeStatus(docs)
	if status["Company Overview"] != DocumentStatusPlaceholder {
		t.Errorf("expected placeholder status retained, got %q", status["Company Overview"])
	}
}

func TestMissingUsesExactTypeMatch(t *testing.T) {
	tracker := NewDocumentTracker()
	docs := []DocumentInfo{
		docOfType("company overview", DocumentStatusUploaded), // wrong case, no fuzzy match
	}

	missing := tracker.Missing(docs)
	found := false
	for _, m := range missing {
		if m == "Company Overview" {
			found = true
		}
	}
	if !found {
		t.Error("type matching must be exact string equality")
	}
}

func TestAllUploadedNarrative(t *testing.T) {
	tracker := NewDocumentTracker()
	var docs []DocumentInfo
	for _, req := range tracker.Required {
		docs = append(docs, docOfType(req, DocumentStatusUploaded))
	}

	if got := tracker.MissingNarrative(docs); got != "All required documents are uploaded." {
		t.Errorf("unexpected narrative: %s", got)
	}
	if got := tracker.StatusNarrative(docs); got != "7 of 7 required documents uploaded" {
		t.Errorf("unexpected status narrative: %s", got)
	}
}
