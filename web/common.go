// ABOUTME: Shared HTTP helpers for the API server
// ABOUTME: JSON response writing, error envelopes, and path id parsing
package web

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/orahq/orascan/db"
)

type errorBody struct {
	Error string `json:"error"`
}

func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, status int, msg string) {
	jsonResponse(w, status, errorBody{Error: msg})
}

// dbError maps storage errors onto HTTP statuses.
func dbError(w http.ResponseWriter, err error) {
	switch err {
	case db.ErrNotFound:
		errorResponse(w, http.StatusNotFound, "not found")
	case db.ErrConflict:
		errorResponse(w, http.StatusConflict, "version conflict, reload and retry")
	default:
		errorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

// pathID parses the {id} path value as a UUID. Writes a 400 and returns
// false when the value is malformed.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
