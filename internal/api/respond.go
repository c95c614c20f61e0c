package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ListResponse is the envelope for collection endpoints: the visible window
// of rows plus the total matching count, so clients can render "load more".
type ListResponse struct {
	Data  any `json:"data"`
	Total int `json:"total"`
}

// DataResponse is the envelope for single-resource endpoints.
type DataResponse struct {
	Data any `json:"data"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

// writeList writes a collection in the {data, total} envelope.
func writeList(w http.ResponseWriter, r *http.Request, data any, total int) {
	writeJSON(w, r, http.StatusOK, ListResponse{Data: data, Total: total})
}

// writeData writes a single resource in the {data} envelope.
func writeData(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeJSON(w, r, status, DataResponse{Data: data})
}
