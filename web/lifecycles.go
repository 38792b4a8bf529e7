// ABOUTME: Lifecycle API handlers
// ABOUTME: CRUD, ordering, AI process generation, and graph rendering
package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/orahq/orascan/bus"
	"github.com/orahq/orascan/db"
	"github.com/orahq/orascan/models"
	"github.com/orahq/orascan/scenario"
	"github.com/orahq/orascan/summarize"
)

func (s *Server) handleListLifecycles(w http.ResponseWriter, r *http.Request) {
	scanID, ok := pathID(w, r)
	if !ok {
		return
	}
	lifecycles, err := db.ListLifecycles(s.db, scanID)
	if err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, lifecycles)
}

func (s *Server) handleCreateLifecycle(w http.ResponseWriter, r *http.Request) {
	scanID, ok := pathID(w, r)
	if !ok {
		return
	}
	var lifecycle models.Lifecycle
	if !decodeBody(w, r, &lifecycle) {
		return
	}
	if lifecycle.Name == "" {
		errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	lifecycle.ScanID = scanID

	if err := db.CreateLifecycle(s.db, &lifecycle); err != nil {
		dbError(w, err)
		return
	}

	if s.events != nil {
		s.events.Publish(bus.LifecycleChange{Action: bus.ActionAdded, ScanID: scanID, Count: 1})
	}
	jsonResponse(w, http.StatusCreated, lifecycle)
}

func (s *Server) handleGetLifecycle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	lifecycle, err := db.GetLifecycle(s.db, id)
	if err != nil {
		dbError(w, err)
		return
	}
	if lifecycle == nil {
		errorResponse(w, http.StatusNotFound, "lifecycle not found")
		return
	}
	jsonResponse(w, http.StatusOK, lifecycle)
}

func (s *Server) handleUpdateLifecycle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var updates models.Lifecycle
	if !decodeBody(w, r, &updates) {
		return
	}

	if err := db.UpdateLifecycle(s.db, id, &updates); err != nil {
		dbError(w, err)
		return
	}
	lifecycle, err := db.GetLifecycle(s.db, id)
	if err != nil {
		dbError(w, err)
		return
	}
	if lifecycle == nil {
		errorResponse(w, http.StatusNotFound, "lifecycle not found")
		return
	}

	if s.events != nil {
		s.events.Publish(bus.LifecycleDataUpdated{LifecycleID: id, Timestamp: time.Now()})
	}
	jsonResponse(w, http.StatusOK, lifecycle)
}

func (s *Server) handleDeleteLifecycle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	lifecycle, err := db.GetLifecycle(s.db, id)
	if err != nil {
		dbError(w, err)
		return
	}
	if lifecycle == nil {
		errorResponse(w, http.StatusNotFound, "lifecycle not found")
		return
	}

	if err := db.DeleteLifecycle(s.db, id); err != nil {
		dbError(w, err)
		return
	}

	if s.events != nil {
		s.events.Publish(bus.LifecycleChange{Action: bus.ActionRemoved, ScanID: lifecycle.ScanID, Count: 1})
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	OrderedIDs []uuid.UUID `json:"ordered_ids"`
}

func (s *Server) handleReorderLifecycles(w http.ResponseWriter, r *http.Request) {
	scanID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req reorderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.OrderedIDs) == 0 {
		errorResponse(w, http.StatusBadRequest, "ordered_ids is required")
		return
	}

	if err := db.ReorderLifecycles(s.db, scanID, req.OrderedIDs); err != nil {
		if err == db.ErrNotFound || err == db.ErrConflict {
			dbError(w, err)
			return
		}
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	lifecycles, err := db.ListLifecycles(s.db, scanID)
	if err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, lifecycles)
}

type generateProcessesRequest struct {
	CompanyName string `json:"company_name,omitempty"`
}

// handleGenerateProcesses asks the summarizer service for a process tree,
// saves it, and announces a generated lifecycle change. Generation events
// carry a wider suppression window than plain edits.
func (s *Server) handleGenerateProcesses(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	lifecycle, err := db.GetLifecycle(s.db, id)
	if err != nil {
		dbError(w, err)
		return
	}
	if lifecycle == nil {
		errorResponse(w, http.StatusNotFound, "lifecycle not found")
		return
	}

	var req generateProcessesRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	processes, err := s.client.GenerateProcesses(r.Context(), &summarize.ProcessRequest{
		LifecycleName:        lifecycle.Name,
		LifecycleDescription: lifecycle.Description,
		CompanyName:          req.CompanyName,
	})
	if err != nil {
		errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}

	if err := db.UpdateLifecycle(s.db, id, &models.Lifecycle{
		Name:        lifecycle.Name,
		Description: lifecycle.Description,
		Processes:   *processes,
	}); err != nil {
		dbError(w, err)
		return
	}

	if s.events != nil {
		s.events.Publish(bus.LifecycleChange{Action: bus.ActionGenerated, ScanID: lifecycle.ScanID, Count: 1})
	}

	updated, err := db.GetLifecycle(s.db, id)
	if err != nil {
		dbError(w, err)
		return
	}
	if updated == nil {
		errorResponse(w, http.StatusNotFound, "lifecycle not found")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleLifecycleGraph(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	dot, err := s.generator.GenerateProcessGraph(id)
	if err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"dot_source": dot})
}

func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	scanID, ok := pathID(w, r)
	if !ok {
		return
	}
	rollup, err := scenario.BuildRollup(s.db, scanID)
	if err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, rollup)
}

func (s *Server) handleScenarioGraph(w http.ResponseWriter, r *http.Request) {
	scanID, ok := pathID(w, r)
	if !ok {
		return
	}
	dot, err := s.generator.GenerateScenarioGraph(scanID)
	if err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"dot_source": dot})
}
