// ABOUTME: JSON error response helpers for middleware
// ABOUTME: Ensures middleware error responses match the API's JSON format

package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// writeRateLimitError writes the 429 response. Matches the format used
// by handlers.writeError, extended with the retry hint clients need to
// back off cleanly.
func writeRateLimitError(w http.ResponseWriter, retrySeconds int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", fmt.Sprintf("%d", retrySeconds))
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(struct {
		Error      string `json:"error"`
		Code       int    `json:"code"`
		RetryAfter int    `json:"retry_after"`
	}{
		Error:      "Rate limit exceeded",
		Code:       http.StatusTooManyRequests,
		RetryAfter: retrySeconds,
	})
}
