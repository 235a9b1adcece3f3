// ABOUTME: HTTP handlers for recommendation and promote endpoints
// ABOUTME: Derives workload requirements and runs capacity matching

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/markalston/gpu-sizer/backend/models"
	"github.com/markalston/gpu-sizer/backend/services"
)

// RecommendationResponse carries the envelope plus the requirement it
// was computed against, so clients can display the derived numbers.
type RecommendationResponse struct {
	Requirement models.WorkloadRequirement   `json:"requirement"`
	Envelope    models.RecommendationEnvelope `json:"envelope"`
}

// GetRecommendation derives a workload requirement from query
// parameters and returns the recommendation envelope.
//
// Query parameters: model (required), users (concurrent sessions,
// default 1), session_tokens (tokens/s per session, default 0),
// kv_cache_override (GB per session, optional).
func (h *Handler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	modelID := q.Get("model")
	if modelID == "" {
		h.writeError(w, "Query parameter 'model' is required", http.StatusBadRequest)
		return
	}

	sessions := 1
	if raw := q.Get("users"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.writeError(w, "Query parameter 'users' must be a positive integer", http.StatusBadRequest)
			return
		}
		sessions = n
	}

	var sessionTokens float64
	if raw := q.Get("session_tokens"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			h.writeError(w, "Query parameter 'session_tokens' must be a non-negative number", http.StatusBadRequest)
			return
		}
		sessionTokens = v
	}

	var kvOverride *float64
	if raw := q.Get("kv_cache_override"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			h.writeError(w, "Query parameter 'kv_cache_override' must be a non-negative number", http.StatusBadRequest)
			return
		}
		kvOverride = &v
	}

	env, req, err := h.sizing.RecommendForModel(r.Context(), modelID, sessions, sessionTokens, kvOverride)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			h.writeError(w, "Model not found", http.StatusNotFound)
		case errors.Is(err, models.ErrInvalidRequirement):
			h.writeError(w, "Derived requirement demands no capacity; provide users and session_tokens or a model with a known footprint", http.StatusBadRequest)
		default:
			slog.Error("Recommendation failed", "model", modelID, "error", err)
			h.writeError(w, "Catalog service temporarily unavailable", http.StatusServiceUnavailable)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, RecommendationResponse{Requirement: req, Envelope: env})
}

// ComputeRecommendationInput is the POST /recommendation body. Devices
// are optional; when omitted the live GPU catalog is used.
type ComputeRecommendationInput struct {
	Requirement models.WorkloadRequirement `json:"requirement"`
	Devices     []models.DeviceProfile     `json:"devices,omitempty"`
}

// ComputeRecommendation runs capacity matching over an explicit
// requirement, bypassing model-based derivation.
func (h *Handler) ComputeRecommendation(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var input ComputeRecommendationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if err.Error() == "http: request body too large" {
			h.writeError(w, "Request body too large", http.StatusBadRequest)
			return
		}
		h.writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	devices := input.Devices
	if devices == nil {
		var err error
		devices, err = h.sizing.Devices(r.Context())
		if err != nil {
			slog.Error("GPU catalog fetch failed", "error", err)
			h.writeError(w, "Catalog service temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	env, err := models.ComputeRecommendation(input.Requirement, devices)
	if err != nil {
		h.writeError(w, "Requirement must demand memory or throughput", http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, RecommendationResponse{Requirement: input.Requirement, Envelope: env})
}

// PromoteInput is the POST /recommendation/promote body.
type PromoteInput struct {
	Envelope models.RecommendationEnvelope `json:"envelope"`
	Chosen   string                        `json:"chosen"`
}

// PromoteAlternative swaps the chosen alternative into the recommended
// slot. An unknown identity key returns the envelope unchanged.
func (h *Handler) PromoteAlternative(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var input PromoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if err.Error() == "http: request body too large" {
			h.writeError(w, "Request body too large", http.StatusBadRequest)
			return
		}
		h.writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, input.Envelope.Promote(input.Chosen))
}
