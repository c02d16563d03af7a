package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rjoshi/kitegate/kite"
)

// Messages returned by the session guard.
const (
	msgNotLoggedIn    = "Not logged in."
	msgSessionExpired = "Session expired. Please log in again."
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// mapUpstreamError translates a failed Kite call into a client error. The
// upstream message is surfaced verbatim; nothing is retried.
func mapUpstreamError(w http.ResponseWriter, err error) {
	var ke *kite.Error
	if errors.As(err, &ke) {
		writeError(w, http.StatusBadRequest, ke.Message)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}
