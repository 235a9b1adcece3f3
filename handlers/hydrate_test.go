// ABOUTME: Tests for the streaming hydration endpoint
// ABOUTME: Verifies NDJSON framing, degraded records, and final cardinality

package handlers

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/markalston/gpu-sizer/backend/models"
)

func hydrateLines(t *testing.T, rec *httptest.ResponseRecorder) []hydrateLine {
	t.Helper()

	var lines []hydrateLine
	scanner := bufio.NewScanner(rec.Body)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		var line hydrateLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("Line is not valid JSON: %v: %s", err, scanner.Text())
		}
		lines = append(lines, line)
	}
	return lines
}

func TestHydrateModels(t *testing.T) {
	mux := newTestHandler(t)

	body := `{"ids": ["mistral-7b", "meta-llama/Llama-3.1-70B", "no-such-model", "mistral-7b"]}`
	rec, _ := doJSON(t, mux, http.MethodPost, "/api/v1/models/hydrate", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/x-ndjson" {
		t.Errorf("Expected application/x-ndjson, got %s", ct)
	}

	lines := hydrateLines(t, rec)
	if len(lines) == 0 {
		t.Fatal("Expected at least one NDJSON line")
	}

	// Duplicated id collapses: 3 unique records, one degraded
	final := lines[len(lines)-1].Records
	if len(final) != 3 {
		t.Fatalf("Expected 3 records in final set, got %d", len(final))
	}

	byID := make(map[string]models.HydrationRecord, len(final))
	for _, r := range final {
		byID[r.ID] = r
	}
	if r, ok := byID["mistral-7b"]; !ok || r.Degraded || r.Profile == nil {
		t.Errorf("Expected resolved mistral-7b, got %+v", r)
	}
	if r, ok := byID["no-such-model"]; !ok || !r.Degraded || r.Profile != nil {
		t.Errorf("Expected degraded no-such-model, got %+v", r)
	}
}

func TestHydrateModels_PreResolvedEntries(t *testing.T) {
	mux := newTestHandler(t)

	body := `{
		"entries": [
			{"id": "cached-model", "profile": {"model_id": "cached-model", "minimal_gpu_memory_gb": 32}},
			{"id": "mistral-7b"}
		]
	}`
	rec, _ := doJSON(t, mux, http.MethodPost, "/api/v1/models/hydrate", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	lines := hydrateLines(t, rec)
	first := lines[0].Records
	if len(first) != 1 || first[0].ID != "cached-model" {
		t.Fatalf("Expected pre-resolved record in first set, got %+v", first)
	}

	final := lines[len(lines)-1].Records
	if len(final) != 2 {
		t.Errorf("Expected 2 records in final set, got %d", len(final))
	}
}

func TestHydrateModels_InvalidBody(t *testing.T) {
	mux := newTestHandler(t)

	rec, body := doJSON(t, mux, http.MethodPost, "/api/v1/models/hydrate", "{broken")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if body["error"] != "Invalid JSON" {
		t.Errorf("Expected Invalid JSON error, got %v", body["error"])
	}
}
