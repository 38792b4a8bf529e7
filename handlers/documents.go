// ABOUTME: Document MCP tool handlers
// ABOUTME: Implements document_status tool reporting required-set coverage
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/orahq/orascan/db"
	"github.com/orahq/orascan/models"
)

type DocumentHandlers struct {
	db *sql.DB
}

func NewDocumentHandlers(database *sql.DB) *DocumentHandlers {
	return &DocumentHandlers{db: database}
}

type DocumentStatusInput struct {
	ScanID string `json:"scan_id" jsonschema:"UUID of the scan (required)"`
}

type DocumentTypeStatus struct {
	DocumentType string `json:"document_type"`
	Status       string `json:"status"`
	FileName     string `json:"file_name,omitempty"`
}

type DocumentStatusOutput struct {
	Uploaded  int                  `json:"uploaded"`
	Required  int                  `json:"required"`
	Narrative string               `json:"narrative"`
	Missing   []string             `json:"missing"`
	Documents []DocumentTypeStatus `json:"documents"`
}

// DocumentStatus reports required-set coverage for a scan: how many of the
// required types are uploaded, which are missing, and a narrative suitable
// for relaying to the user verbatim.
func (h *DocumentHandlers) DocumentStatus(_ context.Context, request *mcp.CallToolRequest, input DocumentStatusInput) (*mcp.CallToolResult, DocumentStatusOutput, error) {
	if input.ScanID == "" {
		return nil, DocumentStatusOutput{}, fmt.Errorf("scan_id is required")
	}

	scanID, err := uuid.Parse(input.ScanID)
	if err != nil {
		return nil, DocumentStatusOutput{}, fmt.Errorf("invalid scan_id: %w", err)
	}

	docs, err := db.ListDocuments(h.db, scanID)
	if err != nil {
		return nil, DocumentStatusOutput{}, fmt.Errorf("failed to list documents: %w", err)
	}

	tracker := models.NewDocumentTracker()
	out := DocumentStatusOutput{
		Uploaded:  tracker.UploadedCount(docs),
		Required:  len(tracker.Required),
		Narrative: tracker.StatusNarrative(docs),
		Missing:   tracker.Missing(docs),
	}
	for _, doc := range docs {
		out.Documents = append(out.Documents, DocumentTypeStatus{
			DocumentType: doc.DocumentType,
			Status:       doc.Status,
			FileName:     doc.FileName,
		})
	}
	return nil, out, nil
}
