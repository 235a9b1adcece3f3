// ABOUTME: Shared data models and API response envelopes
// ABOUTME: JSON-serializable structures matching frontend expectations

package models

import (
	"encoding/json"
	"time"
)

// RawRecord is an unparsed catalog row. Field spellings vary across
// catalog generations; only the normalizer interprets them.
type RawRecord = json.RawMessage

// HydrationRecord is one published hydration result. Degraded marks a
// record whose resolution failed; it then carries only its identifier.
type HydrationRecord struct {
	ID       string        `json:"id"`
	Profile  *ModelProfile `json:"profile,omitempty"`
	Degraded bool          `json:"degraded"`
}

// Metadata contains response metadata
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	Cached    bool      `json:"cached"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}
