// ABOUTME: Input validation functions for catalog identifiers
// ABOUTME: Prevents URL injection attacks via model and GPU id validation

package services

import (
	"fmt"
	"strings"
)

const maxCatalogIDLength = 256

// sanitizeForLog removes control characters from strings to prevent log injection
// when including user input in error messages
func sanitizeForLog(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1 // Remove control characters
		}
		return r
	}, s)
}

// ValidateCatalogID validates that a model or GPU identifier has a safe
// format before it is placed into a catalog URL path. Model ids follow
// the hub convention of at most one org/name slash ("meta-llama/..."),
// GPU ids are plain names possibly containing spaces ("A100 80GB").
// This prevents URL path traversal if upstream APIs were compromised.
func ValidateCatalogID(id string) error {
	if id == "" {
		return fmt.Errorf("catalog id cannot be empty")
	}
	if len(id) > maxCatalogIDLength {
		return fmt.Errorf("catalog id exceeds %d characters", maxCatalogIDLength)
	}
	if strings.Count(id, "/") > 1 {
		return fmt.Errorf("invalid catalog id format: %s", sanitizeForLog(id))
	}

	for _, segment := range strings.Split(id, "/") {
		if !validIDSegment(segment) {
			return fmt.Errorf("invalid catalog id format: %s", sanitizeForLog(id))
		}
	}
	return nil
}

// validIDSegment accepts alphanumerics plus dot, hyphen, underscore,
// and interior spaces. Segments may not be empty, start or end with a
// space, or be dots only (blocks "." and ".." traversal).
func validIDSegment(segment string) bool {
	if segment == "" || strings.Trim(segment, ".") == "" {
		return false
	}
	if strings.HasPrefix(segment, " ") || strings.HasSuffix(segment, " ") {
		return false
	}
	for _, r := range segment {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '-' || r == '_' || r == ' ':
		default:
			return false
		}
	}
	return true
}
