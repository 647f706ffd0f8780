package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"budgetbook/internal/core"
)

type violationPayload struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeViolations returns the full list of field problems at once so the
// client can mark every bad field in one round trip.
func writeViolations(w http.ResponseWriter, v core.Violations) {
	payload := make([]violationPayload, len(v))
	for i, f := range v {
		payload[i] = violationPayload{Field: f.Field, Reason: f.Reason}
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"violations": payload})
}
