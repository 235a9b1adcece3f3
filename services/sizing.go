// ABOUTME: Sizing service gluing catalog data to the pure recommendation logic
// ABOUTME: Normalizes listings, derives workload requirements, resolves models

package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/markalston/gpu-sizer/backend/models"
)

// SizingService answers sizing questions against the live catalog.
// All ranking and selection is delegated to the pure functions in
// models; this layer only fetches and normalizes.
type SizingService struct {
	catalog *CatalogClient
}

// NewSizingService creates a sizing service over a catalog client.
func NewSizingService(catalog *CatalogClient) *SizingService {
	return &SizingService{catalog: catalog}
}

// Devices returns the normalized GPU catalog.
func (s *SizingService) Devices(ctx context.Context) ([]models.DeviceProfile, error) {
	rows, err := s.catalog.ListGPUs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list GPUs: %w", err)
	}

	devices := make([]models.DeviceProfile, 0, len(rows))
	for _, row := range rows {
		d := models.NormalizeDevice(row)
		if d.ID == "" {
			// Row without any recognizable identifier is unusable
			continue
		}
		devices = append(devices, d)
	}
	return devices, nil
}

// Models returns normalized summary profiles for the whole model catalog.
func (s *SizingService) Models(ctx context.Context) ([]models.ModelProfile, error) {
	rows, err := s.catalog.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	profiles := make([]models.ModelProfile, 0, len(rows))
	for _, row := range rows {
		p := models.NormalizeModel(row)
		if p.ID == "" {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// SearchModels returns model ids containing the query, case-insensitive,
// sorted for stable autocomplete output.
func (s *SizingService) SearchModels(ctx context.Context, query string) ([]string, error) {
	profiles, err := s.Models(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		if q == "" || strings.Contains(strings.ToLower(p.ID), q) {
			ids = append(ids, p.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ResolveModel fetches and normalizes a single model record. This is
// the resolver capability handed to the hydration pipeline.
func (s *SizingService) ResolveModel(ctx context.Context, id string) (models.ModelProfile, error) {
	raw, err := s.catalog.FetchModelByID(ctx, id)
	if err != nil {
		return models.ModelProfile{}, err
	}
	profile := models.NormalizeModel(raw)
	if profile.ID == "" {
		profile.ID = id
	}
	return profile, nil
}

// RecommendForModel derives the workload requirement for serving the
// model to the given sessions and computes the recommendation envelope
// against the current GPU catalog.
func (s *SizingService) RecommendForModel(ctx context.Context, modelID string, sessions int, tokensPerSession float64, kvOverrideGB *float64) (models.RecommendationEnvelope, models.WorkloadRequirement, error) {
	profile, err := s.ResolveModel(ctx, modelID)
	if err != nil {
		return models.RecommendationEnvelope{}, models.WorkloadRequirement{}, err
	}

	devices, err := s.Devices(ctx)
	if err != nil {
		return models.RecommendationEnvelope{}, models.WorkloadRequirement{}, err
	}

	req := models.DeriveRequirement(profile, sessions, tokensPerSession, kvOverrideGB)
	env, err := models.ComputeRecommendation(req, devices)
	if err != nil {
		return models.RecommendationEnvelope{}, req, err
	}
	return env, req, nil
}
