// ABOUTME: Workload requirement vector and derivation from model profiles
// ABOUTME: Validates capacity inputs before any ranking happens

package models

import "errors"

// ErrInvalidRequirement is returned when a workload requirement carries
// no capacity demand at all (both fields <= 0).
var ErrInvalidRequirement = errors.New("workload requirement must demand memory or throughput")

// WorkloadRequirement is the capacity vector a recommendation must satisfy.
// Created per request; never persisted.
type WorkloadRequirement struct {
	RequiredMemoryGB   float64 `json:"required_memory_gb"`
	RequiredThroughput float64 `json:"required_throughput"`
}

// Validate rejects requirements with no capacity demand.
// A zero on one axis is fine (throughput-only or memory-only sizing).
func (r WorkloadRequirement) Validate() error {
	if r.RequiredMemoryGB <= 0 && r.RequiredThroughput <= 0 {
		return ErrInvalidRequirement
	}
	return nil
}

// DeriveRequirement builds the requirement for serving a model to a
// number of concurrent sessions.
//
// Throughput is sessions x per-session token rate. Memory starts from
// the model's base footprint; when a per-session KV cache figure is
// known it is added once per session. An explicit override (GB/session)
// takes precedence over the catalog figure -- the UI collects one when
// the catalog flags the KV size as missing.
func DeriveRequirement(model ModelProfile, sessions int, tokensPerSession float64, kvOverrideGB *float64) WorkloadRequirement {
	if sessions < 1 {
		sessions = 1
	}

	req := WorkloadRequirement{
		RequiredMemoryGB:   model.BaseMemoryGB,
		RequiredThroughput: float64(sessions) * tokensPerSession,
	}

	kv := model.KVCacheGB
	if kvOverrideGB != nil {
		kv = kvOverrideGB
	}
	if kv != nil && *kv > 0 {
		req.RequiredMemoryGB += float64(sessions) * *kv
	}

	return req
}
