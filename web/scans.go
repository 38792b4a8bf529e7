// ABOUTME: Scan, stakeholder, and strategic objective API handlers
// ABOUTME: Includes workflow step advancement on scan update
package web

import (
	"net/http"

	"github.com/orahq/orascan/db"
	"github.com/orahq/orascan/models"
)

func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := pathID(w, r)
	if !ok {
		return
	}
	scans, err := db.ListScans(s.db, workspaceID)
	if err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, scans)
}

func (s *Server) handleCreateScan(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := pathID(w, r)
	if !ok {
		return
	}
	var scan models.Scan
	if !decodeBody(w, r, &scan) {
		return
	}
	if scan.Name == "" {
		errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	scan.WorkspaceID = workspaceID

	if err := db.CreateScan(s.db, &scan); err != nil {
		dbError(w, err)
		return
	}

	// A new scan starts its document checklist with placeholder slots
	if err := db.EnsurePlaceholders(s.db, scan.ID); err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, scan)
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	scan, err := db.GetScan(s.db, id)
	if err != nil {
		dbError(w, err)
		return
	}
	if scan == nil {
		errorResponse(w, http.StatusNotFound, "scan not found")
		return
	}
	jsonResponse(w, http.StatusOK, scan)
}

func (s *Server) handleUpdateScan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var updates models.Scan
	if !decodeBody(w, r, &updates) {
		return
	}

	if updates.CurrentStep != "" && !validStep(updates.CurrentStep) {
		errorResponse(w, http.StatusBadRequest, "unknown workflow step: "+updates.CurrentStep)
		return
	}

	if err := db.UpdateScan(s.db, id, &updates); err != nil {
		dbError(w, err)
		return
	}
	scan, err := db.GetScan(s.db, id)
	if err != nil {
		dbError(w, err)
		return
	}
	if scan == nil {
		errorResponse(w, http.StatusNotFound, "scan not found")
		return
	}
	jsonResponse(w, http.StatusOK, scan)
}

func validStep(step string) bool {
	for _, known := range models.WorkflowSteps {
		if step == known {
			return true
		}
	}
	return false
}

func (s *Server) handleDeleteScan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := db.DeleteScan(s.db, id); err != nil {
		dbError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListStakeholders(w http.ResponseWriter, r *http.Request) {
	scanID, ok := pathID(w, r)
	if !ok {
		return
	}
	stakeholders, err := db.ListStakeholders(s.db, scanID)
	if err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, stakeholders)
}

func (s *Server) handleCreateStakeholder(w http.ResponseWriter, r *http.Request) {
	scanID, ok := pathID(w, r)
	if !ok {
		return
	}
	var stakeholder models.Stakeholder
	if !decodeBody(w, r, &stakeholder) {
		return
	}
	if stakeholder.Name == "" {
		errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	stakeholder.ScanID = scanID

	if err := db.CreateStakeholder(s.db, &stakeholder); err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, stakeholder)
}

func (s *Server) handleUpdateStakeholder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var updates models.Stakeholder
	if !decodeBody(w, r, &updates) {
		return
	}
	if err := db.UpdateStakeholder(s.db, id, &updates); err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, updates)
}

func (s *Server) handleDeleteStakeholder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := db.DeleteStakeholder(s.db, id); err != nil {
		dbError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListObjectives(w http.ResponseWriter, r *http.Request) {
	scanID, ok := pathID(w, r)
	if !ok {
		return
	}
	objectives, err := db.ListObjectives(s.db, scanID)
	if err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, objectives)
}

func (s *Server) handleCreateObjective(w http.ResponseWriter, r *http.Request) {
	scanID, ok := pathID(w, r)
	if !ok {
		return
	}
	var objective models.StrategicObjective
	if !decodeBody(w, r, &objective) {
		return
	}
	if objective.Name == "" {
		errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	objective.ScanID = scanID

	if err := db.CreateObjective(s.db, &objective); err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, objective)
}

func (s *Server) handleDeleteObjective(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := db.DeleteObjective(s.db, id); err != nil {
		dbError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
