// ABOUTME: REST API server for tenants, scans, lifecycles, and interviews
// ABOUTME: JSON endpoints under /api backed by SQLite and the event bus
package web

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/orahq/orascan/bus"
	"github.com/orahq/orascan/summarize"
	"github.com/orahq/orascan/viz"
)

type Server struct {
	db        *sql.DB
	events    *bus.Bus
	client    *summarize.Client
	generator *viz.GraphGenerator
}

func NewServer(database *sql.DB, events *bus.Bus, client *summarize.Client) *Server {
	return &Server{
		db:        database,
		events:    events,
		client:    client,
		generator: viz.NewGraphGenerator(database),
	}
}

// Handler builds the route table. Kept separate from Start so tests can
// drive the mux directly.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Tenants and workspaces
	mux.HandleFunc("POST /api/tenants", s.handleCreateTenant)
	mux.HandleFunc("GET /api/tenants", s.handleListTenants)
	mux.HandleFunc("GET /api/tenants/{id}", s.handleGetTenant)
	mux.HandleFunc("PUT /api/tenants/{id}", s.handleUpdateTenant)
	mux.HandleFunc("DELETE /api/tenants/{id}", s.handleDeleteTenant)
	mux.HandleFunc("GET /api/tenants/{id}/workspaces", s.handleListWorkspaces)
	mux.HandleFunc("POST /api/tenants/{id}/workspaces", s.handleCreateWorkspace)
	mux.HandleFunc("PUT /api/workspaces/{id}", s.handleUpdateWorkspace)
	mux.HandleFunc("DELETE /api/workspaces/{id}", s.handleDeleteWorkspace)

	// Scans, stakeholders, objectives
	mux.HandleFunc("GET /api/workspaces/{id}/scans", s.handleListScans)
	mux.HandleFunc("POST /api/workspaces/{id}/scans", s.handleCreateScan)
	mux.HandleFunc("GET /api/scans/{id}", s.handleGetScan)
	mux.HandleFunc("PUT /api/scans/{id}", s.handleUpdateScan)
	mux.HandleFunc("DELETE /api/scans/{id}", s.handleDeleteScan)
	mux.HandleFunc("GET /api/scans/{id}/stakeholders", s.handleListStakeholders)
	mux.HandleFunc("POST /api/scans/{id}/stakeholders", s.handleCreateStakeholder)
	mux.HandleFunc("PUT /api/stakeholders/{id}", s.handleUpdateStakeholder)
	mux.HandleFunc("DELETE /api/stakeholders/{id}", s.handleDeleteStakeholder)
	mux.HandleFunc("GET /api/scans/{id}/objectives", s.handleListObjectives)
	mux.HandleFunc("POST /api/scans/{id}/objectives", s.handleCreateObjective)
	mux.HandleFunc("DELETE /api/objectives/{id}", s.handleDeleteObjective)

	// Lifecycles
	mux.HandleFunc("GET /api/scans/{id}/lifecycles", s.handleListLifecycles)
	mux.HandleFunc("POST /api/scans/{id}/lifecycles", s.handleCreateLifecycle)
	mux.HandleFunc("POST /api/scans/{id}/lifecycles/reorder", s.handleReorderLifecycles)
	mux.HandleFunc("GET /api/lifecycles/{id}", s.handleGetLifecycle)
	mux.HandleFunc("PUT /api/lifecycles/{id}", s.handleUpdateLifecycle)
	mux.HandleFunc("DELETE /api/lifecycles/{id}", s.handleDeleteLifecycle)
	mux.HandleFunc("POST /api/lifecycles/{id}/generate-processes", s.handleGenerateProcesses)
	mux.HandleFunc("GET /api/lifecycles/{id}/graph", s.handleLifecycleGraph)

	// Documents
	mux.HandleFunc("GET /api/scans/{id}/documents", s.handleListDocuments)
	mux.HandleFunc("POST /api/documents/{id}/attach", s.handleAttachFile)
	mux.HandleFunc("PUT /api/documents/{id}/status", s.handleDocumentStatus)
	mux.HandleFunc("DELETE /api/documents/{id}", s.handleDeleteDocument)

	// Interview data
	mux.HandleFunc("GET /api/lifecycles/{id}/pain-points-summary", s.handleGetSummary)
	mux.HandleFunc("POST /api/lifecycles/{id}/pain-points-summary", s.handleSaveSummary)
	mux.HandleFunc("DELETE /api/lifecycles/{id}/pain-points-summary", s.handleDeleteSummary)
	mux.HandleFunc("GET /api/lifecycles/{id}/pain-points-transcription", s.handleGetTranscription)
	mux.HandleFunc("POST /api/lifecycles/{id}/pain-points-transcription", s.handleSaveTranscription)
	mux.HandleFunc("DELETE /api/lifecycles/{id}/pain-points-transcription", s.handleDeleteTranscription)
	mux.HandleFunc("POST /api/summarize", s.handleSummarize)
	mux.HandleFunc("GET /api/azure-speech-token", s.handleSpeechToken)

	// Scenario planning
	mux.HandleFunc("GET /api/scans/{id}/scenario", s.handleScenario)
	mux.HandleFunc("GET /api/scans/{id}/scenario/graph", s.handleScenarioGraph)

	return mux
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting API server at http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}
