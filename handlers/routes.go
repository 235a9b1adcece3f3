// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods and handlers

package handlers

import "net/http"

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Handler function
	Write   bool             // Subject to the stricter write-tier rate limit
}

// Routes returns all API routes for registration.
// Paths use Go 1.22+ router patterns; {id...} lets model ids carry the
// hub-style org/name slash.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health & Status
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health},

		// Catalog
		{Method: http.MethodGet, Path: "/api/v1/gpus", Handler: h.GetGPUs},
		{Method: http.MethodGet, Path: "/api/v1/models", Handler: h.GetModels},
		{Method: http.MethodGet, Path: "/api/v1/models/search", Handler: h.SearchModels},
		{Method: http.MethodGet, Path: "/api/v1/models/{id...}", Handler: h.GetModelByID},

		// Sizing
		{Method: http.MethodGet, Path: "/api/v1/recommendation", Handler: h.GetRecommendation},
		{Method: http.MethodPost, Path: "/api/v1/recommendation", Handler: h.ComputeRecommendation, Write: true},
		{Method: http.MethodPost, Path: "/api/v1/recommendation/promote", Handler: h.PromoteAlternative, Write: true},

		// Hydration
		{Method: http.MethodPost, Path: "/api/v1/models/hydrate", Handler: h.HydrateModels, Write: true},
	}
}
