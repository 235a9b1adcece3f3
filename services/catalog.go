// ABOUTME: HTTP client for the read-only model/GPU catalog service
// ABOUTME: Caches listings with TTL and deduplicates concurrent cold fetches

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/markalston/gpu-sizer/backend/cache"
	"github.com/markalston/gpu-sizer/backend/models"
)

// ErrNotFound marks a catalog identifier with no record behind it.
// The catalog carries no structured failure payload beyond this.
var ErrNotFound = errors.New("catalog record not found")

// CatalogClient talks to the catalog collaborator. The catalog is
// read-only and unauthenticated; this client owns listing caching so
// the rest of the service never hammers the backing API.
type CatalogClient struct {
	apiURL string
	client *http.Client
	cache  *cache.Cache
	ttl    time.Duration
	group  singleflight.Group
}

// NewCatalogClient creates a catalog client. Listings are cached for
// ttl; concurrent cold reads of the same listing are collapsed into a
// single upstream request.
func NewCatalogClient(apiURL string, c *cache.Cache, ttl time.Duration) *CatalogClient {
	return &CatalogClient{
		apiURL: apiURL,
		cache:  c,
		ttl:    ttl,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListGPUs returns the raw GPU catalog rows.
func (c *CatalogClient) ListGPUs(ctx context.Context) ([]models.RawRecord, error) {
	return c.list(ctx, "/gpus", "catalog:gpus")
}

// ListModels returns the raw model catalog rows.
func (c *CatalogClient) ListModels(ctx context.Context) ([]models.RawRecord, error) {
	return c.list(ctx, "/models", "catalog:models")
}

// FetchModelByID looks up a single model record. Returns ErrNotFound
// for unknown identifiers; other errors mean the catalog was unreachable.
func (c *CatalogClient) FetchModelByID(ctx context.Context, id string) (models.RawRecord, error) {
	if err := ValidateCatalogID(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, err)
	}

	// Escape per segment so a hub-style org/name slash survives as a
	// real path separator; traversal segments were rejected above
	segments := strings.Split(id, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	endpoint := c.apiURL + "/models/" + strings.Join(segments, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d for %s", resp.StatusCode, id)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("catalog returned invalid JSON for %s", id)
	}
	return models.RawRecord(body), nil
}

// list fetches a full catalog listing, serving from cache when fresh.
// Singleflight prevents a thundering herd on cold cache.
func (c *CatalogClient) list(ctx context.Context, path, cacheKey string) ([]models.RawRecord, error) {
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]models.RawRecord), nil
	}

	result, err, _ := c.group.Do(cacheKey, func() (interface{}, error) {
		// Re-check under singleflight: a concurrent caller may have
		// filled the cache while this one waited.
		if cached, found := c.cache.Get(cacheKey); found {
			return cached, nil
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create catalog request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("catalog listing failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("catalog returned status %d for %s", resp.StatusCode, path)
		}

		var rows []models.RawRecord
		if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
			return nil, fmt.Errorf("failed to parse catalog listing: %w", err)
		}

		c.cache.SetWithTTL(cacheKey, rows, c.ttl)
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.RawRecord), nil
}
