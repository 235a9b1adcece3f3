// ABOUTME: Entry point for the GPU sizer backend service
// ABOUTME: Provides HTTP API for model-to-GPU capacity recommendations

package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/markalston/gpu-sizer/backend/cache"
	"github.com/markalston/gpu-sizer/backend/config"
	"github.com/markalston/gpu-sizer/backend/handlers"
	"github.com/markalston/gpu-sizer/backend/logger"
	"github.com/markalston/gpu-sizer/backend/middleware"
)

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting GPU Sizer Backend")
	slog.Info("Catalog API configured", "url", cfg.CatalogAPIURL)

	// Initialize cache
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	c := cache.New(cacheTTL)
	slog.Info("Cache initialized", "ttl", cacheTTL)

	// Initialize handlers
	h := handlers.NewHandler(cfg, c)

	// Rate limiters: stricter tier for write endpoints
	var defaultLimiter, writeLimiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		defaultLimiter = middleware.NewRateLimiter(cfg.RateLimitDefault, time.Minute)
		writeLimiter = middleware.NewRateLimiter(cfg.RateLimitWrite, time.Minute)
	} else {
		slog.Warn("Rate limiting disabled")
	}

	cors := middleware.CORS
	if len(cfg.CORSAllowedOrigins) > 0 {
		cors = middleware.CORSWithConfig(cfg.CORSAllowedOrigins)
	}

	// Register routes from the declarative table
	mux := http.NewServeMux()
	preflighted := make(map[string]bool)
	for _, route := range h.Routes() {
		limiter := defaultLimiter
		if route.Write {
			limiter = writeLimiter
		}
		mux.HandleFunc(route.Method+" "+route.Path, middleware.Chain(
			route.Handler,
			cors,
			middleware.LogRequest,
			middleware.RateLimit(limiter, middleware.ClientIP),
		))

		// Method-scoped patterns never see OPTIONS, so preflights get
		// their own registration per path
		if !preflighted[route.Path] {
			preflighted[route.Path] = true
			mux.HandleFunc("OPTIONS "+route.Path, cors(func(w http.ResponseWriter, r *http.Request) {}))
		}
	}

	// Start server
	addr := ":" + cfg.Port
	slog.Info("Server listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
