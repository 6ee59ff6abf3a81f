package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/numboxia/chainsign"
)

// errorResponse is the JSON body returned for all error statuses.
type errorResponse struct {
	Error string `json:"error"`
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("api: encode response", "error", err)
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, err error) {
	a.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// mapError translates engine sentinel errors to HTTP statuses.
func (a *API) mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chainsign.ErrDocumentNotFound),
		errors.Is(err, chainsign.ErrRecordNotFound):
		a.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, chainsign.ErrUnauthorizedApprover):
		a.writeError(w, http.StatusForbidden, err)
	case errors.Is(err, chainsign.ErrEmptyIdentity),
		errors.Is(err, chainsign.ErrTooManyApprovers):
		a.writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, chainsign.ErrConflict):
		a.writeError(w, http.StatusConflict, err)
	default:
		a.logger.Error("api: internal error", "error", err)
		a.writeError(w, http.StatusInternalServerError, err)
	}
}

// documentIDParam parses the {documentID} route parameter.
func documentIDParam(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, "documentID"), 10, 64)
}

// queryInt parses an optional integer query parameter, returning def
// when absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
