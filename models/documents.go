// ABOUTME: Document models and required-set tracking
// ABOUTME: Computes missing document types and upload status narratives
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document status constants.
const (
	DocumentStatusPlaceholder = "placeholder"
	DocumentStatusUploaded    = "uploaded"
	DocumentStatusProcessed   = "processed"
	DocumentStatusFailed      = "failed"
)

type DocumentInfo struct {
	ID           uuid.UUID `json:"id"`
	ScanID       uuid.UUID `json:"scan_id"`
	DocumentType string    `json:"document_type"`
	FileName     string    `json:"file_name,omitempty"`
	FileURL      string    `json:"file_url,omitempty"`
	FileSize     int64     `json:"file_size,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Uploaded reports whether the document holds an actual file. Placeholder
// slots count as required-but-missing.
func (d *DocumentInfo) Uploaded() bool {
	return d.Status == DocumentStatusUploaded || d.Status == DocumentStatusProcessed
}

// RequiredDocumentTypes is the fixed set every scan needs exactly one of.
var RequiredDocumentTypes = []string{
	"Company Overview",
	"Organization Chart",
	"Process Documentation",
	"Financial Statements",
	"IT Systems Inventory",
	"Customer Contracts",
	"Strategic Plan",
}

// DocumentTracker computes upload progress against a required type set.
type DocumentTracker struct {
	Required []string
}

func NewDocumentTracker() *DocumentTracker {
	return &DocumentTracker{Required: RequiredDocumentTypes}
}

// Missing returns the required types with no uploaded document, in required
// order. Matching is by exact type string.
func (t *DocumentTracker) Missing(docs []DocumentInfo) []string {
	uploaded := make(map[string]bool)
	for i := range docs {
		if docs[i].Uploaded() {
			uploaded[docs[i].DocumentType] = true
		}
	}

	var missing []string
	for _, req := range t.Required {
		if !uploaded[req] {
			missing = append(missing, req)
		}
	}
	return missing
}

// UploadedCount counts required types covered by an uploaded document.
func (t *DocumentTracker) UploadedCount(docs []DocumentInfo) int {
	return len(t.Required) - len(t.Missing(docs))
}

// StatusNarrative renders "N of M required documents uploaded".
func (t *DocumentTracker) StatusNarrative(docs []DocumentInfo) string {
	return fmt.Sprintf("%d of %d required documents uploaded", t.UploadedCount(docs), len(t.Required))
}

// MissingNarrative itemizes the missing types, or reports completion.
func (t *DocumentTracker) MissingNarrative(docs []DocumentInfo) string {
	missing := t.Missing(docs)
	if len(missing) == 0 {
		return "All required documents are uploaded."
	}
	return fmt.Sprintf("Still missing: %s.", strings.Join(missing, ", "))
}

// WelcomeMessage is the assistant's contextual greeting for the data
// sources step.
func (t *DocumentTracker) WelcomeMessage(docs []DocumentInfo) string {
	narrative := t.StatusNarrative(docs)
	missing := t.Missing(docs)
	if len(missing) == 0 {
		return narrative + ". You're ready to move on to lifecycles."
	}
	return narrative + ". " + t.MissingNarrative(docs)
}

// TypeStatus returns per-type status for display, including placeholder
// slots, keyed in required order.
func (t *DocumentTracker) TypeStatus(docs []DocumentInfo) map[string]string {
	status := make(map[string]string, len(t.Required))
	for _, req := range t.Required {
		status[req] = ""
	}
	for i := range docs {
		if _, ok := status[docs[i].DocumentType]; ok {
			status[docs[i].DocumentType] = docs[i].Status
		}
	}
	return status
}
