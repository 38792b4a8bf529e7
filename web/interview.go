// ABOUTME: Interview data API handlers
// ABOUTME: Pain-point summary CRUD, transcription storage, and summarizer proxy
package web

import (
	"net/http"
	"time"

	"github.com/orahq/orascan/bus"
	"github.com/orahq/orascan/db"
	"github.com/orahq/orascan/models"
	"github.com/orahq/orascan/summarize"
)

// handleGetSummary returns 404 for a lifecycle that was never summarized;
// clients treat that as an empty list, not a failure.
func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
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

	summary, err := db.GetSummaryReconciled(s.db, lifecycle)
	if err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, summary)
}

// handleSaveSummary is a full replace: the body carries the complete
// pain-point array. A stale version loses the compare-and-swap with 409.
func (s *Server) handleSaveSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var summary models.PainPointSummary
	if !decodeBody(w, r, &summary) {
		return
	}
	summary.LifecycleID = id

	if err := db.SaveSummary(s.db, &summary); err != nil {
		dbError(w, err)
		return
	}

	if s.events != nil {
		s.events.Publish(bus.LifecycleDataUpdated{LifecycleID: id, Timestamp: time.Now()})
	}
	jsonResponse(w, http.StatusOK, summary)
}

func (s *Server) handleDeleteSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := db.DeleteSummary(s.db, id); err != nil {
		dbError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetTranscription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	transcription, err := db.GetTranscription(s.db, id)
	if err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, transcription)
}

func (s *Server) handleSaveTranscription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var transcription models.Transcription
	if !decodeBody(w, r, &transcription) {
		return
	}
	transcription.LifecycleID = id

	if err := db.SaveTranscription(s.db, &transcription); err != nil {
		dbError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, transcription)
}

// handleDeleteTranscription starts the client-side reset window: recorders
// ignore stored transcript text for five minutes after this.
func (s *Server) handleDeleteTranscription(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := db.DeleteTranscription(s.db, id); err != nil {
		dbError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSummarize proxies to the external summarizer service.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarize.Request
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.client.Summarize(r.Context(), &req)
	if err != nil {
		errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleSpeechToken(w http.ResponseWriter, r *http.Request) {
	token, err := s.client.FetchSpeechToken(r.Context())
	if err != nil {
		errorResponse(w, http.StatusBadGateway, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, token)
}
