// ABOUTME: Document API handlers
// ABOUTME: Placeholder-backed required-set slots with attach and status flows
package web

import (
	"net/http"

	"github.com/orahq/orascan/bus"
	"github.com/orahq/orascan/db"
	"github.com/orahq/orascan/models"
)

type documentListResponse struct {
	Documents []models.DocumentInfo `json:"documents"`
	Uploaded  int                   `json:"uploaded"`
	Required  int                   `json:"required"`
	Narrative string                `json:"narrative"`
	Missing   []string              `json:"missing"`
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	scanID, ok := pathID(w, r)
	if !ok {
		return
	}

	// Seed placeholder slots for scans created before the checklist existed
	if err := db.EnsurePlaceholders(s.db, scanID); err != nil {
		dbError(w, err)
		return
	}

	docs, err := db.ListDocuments(s.db, scanID)
	if err != nil {
		dbError(w, err)
		return
	}

	tracker := models.NewDocumentTracker()
	jsonResponse(w, http.StatusOK, documentListResponse{
		Documents: docs,
		Uploaded:  tracker.UploadedCount(docs),
		Required:  len(tracker.Required),
		Narrative: tracker.StatusNarrative(docs),
		Missing:   tracker.Missing(docs),
	})
}

type attachRequest struct {
	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
	FileSize int64  `json:"file_size"`
}

func (s *Server) handleAttachFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req attachRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FileName == "" {
		errorResponse(w, http.StatusBadRequest, "file_name is required")
		return
	}

	if err := db.AttachFile(s.db, id, req.FileName, req.FileURL, req.FileSize); err != nil {
		dbError(w, err)
		return
	}

	doc, err := db.GetDocument(s.db, id)
	if err != nil {
		dbError(w, err)
		return
	}
	if doc == nil {
		errorResponse(w, http.StatusNotFound, "document not found")
		return
	}

	if s.events != nil {
		s.events.Publish(bus.DocumentChange{Action: bus.ActionAdded, Document: *doc, ScanID: doc.ScanID})
	}
	jsonResponse(w, http.StatusOK, doc)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleDocumentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	switch req.Status {
	case models.DocumentStatusPlaceholder, models.DocumentStatusUploaded, models.DocumentStatusProcessed, models.DocumentStatusFailed:
	default:
		errorResponse(w, http.StatusBadRequest, "unknown status: "+req.Status)
		return
	}

	if err := db.UpdateDocumentStatus(s.db, id, req.Status); err != nil {
		dbError(w, err)
		return
	}

	doc, err := db.GetDocument(s.db, id)
	if err != nil {
		dbError(w, err)
		return
	}
	if doc == nil {
		errorResponse(w, http.StatusNotFound, "document not found")
		return
	}

	if s.events != nil {
		s.events.Publish(bus.DocumentChange{Action: bus.ActionStatusChanged, Document: *doc, ScanID: doc.ScanID})
	}
	jsonResponse(w, http.StatusOK, doc)
}

// handleDeleteDocument reverts the slot to a placeholder rather than
// removing the row, so the required-type checklist keeps its shape.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	doc, err := db.GetDocument(s.db, id)
	if err != nil {
		dbError(w, err)
		return
	}
	if doc == nil {
		errorResponse(w, http.StatusNotFound, "document not found")
		return
	}

	if err := db.DeleteDocument(s.db, id); err != nil {
		dbError(w, err)
		return
	}

	if s.events != nil {
		s.events.Publish(bus.DocumentChange{Action: bus.ActionRemoved, Document: *doc, ScanID: doc.ScanID})
	}
	w.WriteHeader(http.StatusNoContent)
}
