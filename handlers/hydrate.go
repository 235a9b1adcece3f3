// ABOUTME: HTTP handler for the streaming model hydration endpoint
// ABOUTME: Emits progressively growing published sets as NDJSON

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/markalston/gpu-sizer/backend/models"
	"github.com/markalston/gpu-sizer/backend/services"
)

// HydrateInput is the POST /models/hydrate body. Entries may be bare
// id strings or objects carrying an already-resolved profile.
type HydrateInput struct {
	IDs     []string                  `json:"ids,omitempty"`
	Entries []services.HydrationEntry `json:"entries,omitempty"`
}

// hydrateLine is one NDJSON line of the hydration stream.
type hydrateLine struct {
	Generation uint64                   `json:"generation"`
	Records    []models.HydrationRecord `json:"records"`
}

// HydrateModels resolves a list of model identifiers concurrently and
// streams each published set as one NDJSON line. Issuing a new call
// supersedes any hydration still in flight; the superseded stream just
// ends, its remaining work discarded server-side.
func (h *Handler) HydrateModels(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var input HydrateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if err.Error() == "http: request body too large" {
			h.writeError(w, "Request body too large", http.StatusBadRequest)
			return
		}
		h.writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	entries := input.Entries
	for _, id := range input.IDs {
		entries = append(entries, services.HydrationEntry{ID: id})
	}

	flusher, _ := w.(http.Flusher)
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	stream := h.hydrator.Start(r.Context(), entries, h.sizing.ResolveModel)

	enc := json.NewEncoder(w)
	for snap := range stream.Snapshots {
		if err := enc.Encode(hydrateLine{Generation: stream.Generation, Records: snap}); err != nil {
			// Client went away; the pipeline keeps draining server-side
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}
