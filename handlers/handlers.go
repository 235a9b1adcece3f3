// ABOUTME: HTTP handlers for the GPU sizing API endpoints
// ABOUTME: Wires catalog, sizing, and hydration services behind JSON responses

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/markalston/gpu-sizer/backend/cache"
	"github.com/markalston/gpu-sizer/backend/config"
	"github.com/markalston/gpu-sizer/backend/models"
	"github.com/markalston/gpu-sizer/backend/services"
)

// maxRequestBodySize limits JSON request bodies to 1MB to prevent DOS attacks
const maxRequestBodySize = 1 << 20 // 1MB

type Handler struct {
	cfg      *config.Config
	cache    *cache.Cache
	catalog  *services.CatalogClient
	sizing   *services.SizingService
	hydrator *services.Hydrator
}

func NewHandler(cfg *config.Config, c *cache.Cache) *Handler {
	h := &Handler{
		cfg:   cfg,
		cache: c,
	}

	// Config is optional (for testing individual handlers)
	if cfg != nil {
		catalogTTL := time.Duration(cfg.CatalogCacheTTL) * time.Second
		h.catalog = services.NewCatalogClient(cfg.CatalogAPIURL, c, catalogTTL)
		h.sizing = services.NewSizingService(h.catalog)
		h.hydrator = services.NewHydrator(cfg.HydrationWidth)
	}

	return h
}

// writeJSON writes a response as JSON with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// writeError writes an error response in the API's JSON error format.
func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeJSON(w, code, models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
