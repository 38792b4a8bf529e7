// ABOUTME: Tenant and workspace API handlers
// ABOUTME: CRUD endpoints with slug lookup support
package web

import (
	"net/http"

	"github.com/orahq/orascan/db"
	"github.com/orahq/orascan/models"
)

func (s *Server) handleCreateTenant(w http.ResponseWriter, r *http.Request) {
	var tenant models.Tenant
	if !decodeBody(w, r, &tenant) {
		return
	}
	if tenant.Name == "" {
		errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := db.CreateTenant(s.db, &tenant); err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, tenant)
}

func (s *Server) handleListTenants(w http.ResponseWriter, r *http.Request) {
	// Slug lookup doubles as the tenant resolver for hostname routing
	if slug := r.URL.Query().Get("slug"); slug != "" {
		tenant, err := db.GetTenantBySlug(s.db, slug)
		if err != nil {
			dbError(w, err)
			return
		}
		if tenant == nil {
			jsonResponse(w, http.StatusOK, []models.Tenant{})
			return
		}
		jsonResponse(w, http.StatusOK, []models.Tenant{*tenant})
		return
	}

	tenants, err := db.ListTenants(s.db, 100)
	if err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, tenants)
}

func (s *Server) handleGetTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	tenant, err := db.GetTenant(s.db, id)
	if err != nil {
		dbError(w, err)
		return
	}
	if tenant == nil {
		errorResponse(w, http.StatusNotFound, "tenant not found")
		return
	}
	jsonResponse(w, http.StatusOK, tenant)
}

func (s *Server) handleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var updates models.Tenant
	if !decodeBody(w, r, &updates) {
		return
	}

	if err := db.UpdateTenant(s.db, id, &updates); err != nil {
		dbError(w, err)
		return
	}
	tenant, err := db.GetTenant(s.db, id)
	if err != nil {
		dbError(w, err)
		return
	}
	if tenant == nil {
		errorResponse(w, http.StatusNotFound, "tenant not found")
		return
	}
	jsonResponse(w, http.StatusOK, tenant)
}

func (s *Server) handleDeleteTenant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := db.DeleteTenant(s.db, id); err != nil {
		dbError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := pathID(w, r)
	if !ok {
		return
	}
	workspaces, err := db.ListWorkspaces(s.db, tenantID)
	if err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, workspaces)
}

func (s *Server) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := pathID(w, r)
	if !ok {
		return
	}
	var workspace models.Workspace
	if !decodeBody(w, r, &workspace) {
		return
	}
	if workspace.Name == "" {
		errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	workspace.TenantID = tenantID

	if err := db.CreateWorkspace(s.db, &workspace); err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, workspace)
}

func (s *Server) handleUpdateWorkspace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var updates models.Workspace
	if !decodeBody(w, r, &updates) {
		return
	}

	if err := db.UpdateWorkspace(s.db, id, &updates); err != nil {
		dbError(w, err)
		return
	}
	workspace, err := db.GetWorkspace(s.db, id)
	if err != nil {
		dbError(w, err)
		return
	}
	if workspace == nil {
		errorResponse(w, http.StatusNotFound, "workspace not found")
		return
	}
	jsonResponse(w, http.StatusOK, workspace)
}

func (s *Server) handleDeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := db.DeleteWorkspace(s.db, id); err != nil {
		dbError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
