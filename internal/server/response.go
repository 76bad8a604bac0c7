package server

import (
	"encoding/json"
	"net/http"
)

// envelope is the JSON response shape shared by every endpoint.
type envelope map[string]any

func respondJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError writes a failure envelope. message must already be safe
// for untrusted callers; internal error detail never goes through here.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{
		"success": false,
		"error":   message,
	})
}
