package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/markalston/gpu-sizer/backend/cache"
)

func newTestSizing(t *testing.T) *SizingService {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/gpus", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"GPU Type":"L40S","VRAM (GB)":48,"Tokens/s":300,"NVLink":false},
			{"GPU Type":"H100 SXM","VRAM (GB)":80,"Tokens/s":1200,"NVLink":true,"Max NVLink Group":8},
			{"vendor":"mystery vendor"}
		]`))
	})
	mux.HandleFunc("/models", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"model_id":"meta-llama/Llama-3.1-70B"},
			{"model_id":"mistral-7b"},
			{"model_id":"qwen-72b"},
			{"weights":"no id here"}
		]`))
	})
	mux.HandleFunc("/models/mistral-7b", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model_id":"mistral-7b","minimal_gpu_memory_gb":16,"kv_cache_fp16_gb":0.5}`))
	})
	mux.HandleFunc("/models/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return NewSizingService(NewCatalogClient(server.URL, cache.New(time.Minute), time.Minute))
}

func TestDevicesSkipsUnidentifiableRows(t *testing.T) {
	s := newTestSizing(t)

	devices, err := s.Devices(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("Expected 2 usable devices, got %d", len(devices))
	}
	if devices[0].ID != "L40S" || devices[1].ID != "H100 SXM" {
		t.Errorf("Unexpected device ids: %s, %s", devices[0].ID, devices[1].ID)
	}
	if !devices[1].GroupCapable || devices[1].MaxGroupSize != 8 {
		t.Errorf("Expected H100 SXM to be group capable with cap 8, got %+v", devices[1])
	}
}

func TestSearchModels(t *testing.T) {
	s := newTestSizing(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"substring match", "llama", []string{"meta-llama/Llama-3.1-70B"}},
		{"case insensitive", "MISTRAL", []string{"mistral-7b"}},
		{"empty query returns all", "", []string{"meta-llama/Llama-3.1-70B", "mistral-7b", "qwen-72b"}},
		{"no match", "gemma", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := s.SearchModels(ctx, tt.query)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !reflect.DeepEqual(ids, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, ids)
			}
		})
	}
}

func TestResolveModel(t *testing.T) {
	s := newTestSizing(t)

	profile, err := s.ResolveModel(context.Background(), "mistral-7b")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if profile.ID != "mistral-7b" {
		t.Errorf("Expected id mistral-7b, got %s", profile.ID)
	}
	if profile.BaseMemoryGB != 16 {
		t.Errorf("Expected base memory 16, got %v", profile.BaseMemoryGB)
	}
	if profile.KVCacheGB == nil || *profile.KVCacheGB != 0.5 {
		t.Errorf("Expected KV cache 0.5, got %v", profile.KVCacheGB)
	}

	if _, err := s.ResolveModel(context.Background(), "missing-model"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRecommendForModel(t *testing.T) {
	s := newTestSizing(t)

	// 20 sessions at 10 tok/s each: 16 + 20*0.5 = 26 GB, 200 tok/s.
	// L40S (48 GB, 300 tok/s) fits on one unit and is the smaller card.
	env, req, err := s.RecommendForModel(context.Background(), "mistral-7b", 20, 10, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if req.RequiredMemoryGB != 26 {
		t.Errorf("Expected required memory 26, got %v", req.RequiredMemoryGB)
	}
	if req.RequiredThroughput != 200 {
		t.Errorf("Expected required throughput 200, got %v", req.RequiredThroughput)
	}
	if env.Recommended == nil {
		t.Fatal("Expected a recommendation")
	}
	if env.Recommended.Device.ID != "L40S" || env.Recommended.UnitCount != 1 {
		t.Errorf("Expected single L40S, got %s x%d", env.Recommended.Device.ID, env.Recommended.UnitCount)
	}

	if _, _, err := s.RecommendForModel(context.Background(), "missing-model", 1, 10, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown model, got %v", err)
	}
}
