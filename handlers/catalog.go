// ABOUTME: HTTP handlers for GPU and model catalog endpoints
// ABOUTME: Serves normalized profiles, search, and fetch-by-id

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/markalston/gpu-sizer/backend/models"
	"github.com/markalston/gpu-sizer/backend/services"
)

// GPUsResponse wraps the normalized device catalog.
type GPUsResponse struct {
	GPUs     []models.DeviceProfile `json:"gpus"`
	Metadata models.Metadata        `json:"metadata"`
}

// ModelsResponse wraps the normalized model catalog.
type ModelsResponse struct {
	Models   []models.ModelProfile `json:"models"`
	Metadata models.Metadata       `json:"metadata"`
}

// GetGPUs returns the normalized GPU catalog.
// HTTP method validation handled by Go 1.22+ router pattern matching.
func (h *Handler) GetGPUs(w http.ResponseWriter, r *http.Request) {
	devices, err := h.sizing.Devices(r.Context())
	if err != nil {
		slog.Error("GPU catalog fetch failed", "error", err)
		h.writeError(w, "Catalog service temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	h.writeJSON(w, http.StatusOK, GPUsResponse{
		GPUs:     devices,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// GetModels returns model summary profiles for the whole catalog.
func (h *Handler) GetModels(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.sizing.Models(r.Context())
	if err != nil {
		slog.Error("Model catalog fetch failed", "error", err)
		h.writeError(w, "Catalog service temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	h.writeJSON(w, http.StatusOK, ModelsResponse{
		Models:   profiles,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// SearchModels returns model ids matching the q query parameter.
func (h *Handler) SearchModels(w http.ResponseWriter, r *http.Request) {
	ids, err := h.sizing.SearchModels(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		slog.Error("Model search failed", "error", err)
		h.writeError(w, "Catalog service temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"models": ids})
}

// GetModelByID returns the normalized profile for one model.
// The id segment may itself contain a slash (hub org/name convention).
func (h *Handler) GetModelByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, "Model id required", http.StatusBadRequest)
		return
	}

	profile, err := h.sizing.ResolveModel(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			h.writeError(w, "Model not found", http.StatusNotFound)
			return
		}
		slog.Error("Model fetch failed", "id", id, "error", err)
		h.writeError(w, "Catalog service temporarily unavailable", http.StatusServiceUnavailable)
		return
	}

	h.writeJSON(w, http.StatusOK, profile)
}
