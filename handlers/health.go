// ABOUTME: HTTP handler for the health endpoint
// ABOUTME: Reports API status and catalog reachability

package handlers

import (
	"context"
	"net/http"
	"time"
)

// Health returns API health status including catalog reachability.
// The catalog probe reuses the listing cache, so repeated health
// checks do not hammer the upstream service.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":  "ok",
		"catalog": "not_configured",
	}

	if h.catalog != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if _, err := h.catalog.ListGPUs(ctx); err != nil {
			resp["catalog"] = "unreachable"
		} else {
			resp["catalog"] = "ok"
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}
