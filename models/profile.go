// ABOUTME: Profile normalizer for raw model and GPU catalog records
// ABOUTME: Collapses historical field-name spellings into canonical profiles

package models

import (
	"encoding/json"
	"strconv"

	"github.com/tidwall/gjson"
)

// DeviceProfile is the canonical shape of a GPU catalog record.
// Capacity fields default to zero when the raw record omits them;
// display-only fields stay nil so the UI can render "Unknown".
type DeviceProfile struct {
	ID           string   `json:"id"`
	MemoryGB     float64  `json:"memory_gb"`
	Throughput   float64  `json:"tokens_per_second"`
	GroupCapable bool     `json:"nvlink"`
	MaxGroupSize int      `json:"max_nvlink_group"`
	TFLOPsFP16   *float64 `json:"tflops_fp16,omitempty"`
}

// ModelProfile is the canonical shape of a model catalog record.
// Works for both summary rows and full detail records; fields absent
// from a summary row simply normalize to their zero/nil defaults.
type ModelProfile struct {
	ID                 string   `json:"model_id"`
	BaseMemoryGB       float64  `json:"minimal_gpu_memory_gb"`
	BaseLatencySeconds *float64 `json:"base_latency_s,omitempty"`
	KVCacheGB          *float64 `json:"kv_cache_gb,omitempty"`
	MissingKVCache     bool     `json:"missing_kv_cache,omitempty"`
	SizeLabel          string   `json:"size,omitempty"`
}

// Field precedence lists. First non-null source wins; order reflects
// the spellings observed across catalog generations (newest first for
// API names, then the legacy spreadsheet-style headers).
var (
	deviceIDFields       = []string{"GPU Type", "gpu_type", "gpuType", "id"}
	deviceMemoryFields   = []string{"VRAM (GB)", "vram_gb", "vramGB", "memory_gb"}
	deviceTokensFields   = []string{"Tokens/s", "tokens_per_second", "tokensPerSecond"}
	deviceNVLinkFields   = []string{"NVLink", "nvlink"}
	deviceGroupFields    = []string{"Max NVLink Group", "max_nvlink_group", "max_group_size"}
	deviceTFLOPsFields   = []string{"TFLOPs (FP16)", "tflops_fp16"}
	modelIDFields        = []string{"model_id", "Model", "id"}
	modelMemoryFields    = []string{"minimal_gpu_memory_gb", "base_vram_gb", "min_vram_gb", "VRAM Required (GB)"}
	modelLatencySFields  = []string{"base_latency_s", "Base Latency (s)", "base_latency", "baseLatency"}
	modelLatencyMSFields = []string{"first_token_latency_ms", "base_latency_ms"}
	modelKVCacheFields   = []string{"kv_cache_fp16_gb", "kv_cache_bf16_gb", "kv_cache_fp32_gb"}
)

// NormalizeDevice converts a raw GPU catalog record into a DeviceProfile.
// Pure and total: absent or malformed fields yield zeros/nils, never errors.
func NormalizeDevice(raw json.RawMessage) DeviceProfile {
	p := DeviceProfile{
		ID:         firstString(raw, deviceIDFields),
		TFLOPsFP16: firstNumber(raw, deviceTFLOPsFields),
	}
	if v := firstNumber(raw, deviceMemoryFields); v != nil {
		p.MemoryGB = *v
	}
	if v := firstNumber(raw, deviceTokensFields); v != nil {
		p.Throughput = *v
	}
	p.GroupCapable = firstBool(raw, deviceNVLinkFields)
	if v := firstNumber(raw, deviceGroupFields); v != nil && *v > 0 {
		p.MaxGroupSize = int(*v)
	}
	return p
}

// NormalizeModel converts a raw model catalog record into a ModelProfile.
func NormalizeModel(raw json.RawMessage) ModelProfile {
	p := ModelProfile{
		ID:                 firstString(raw, modelIDFields),
		BaseLatencySeconds: firstNumber(raw, modelLatencySFields),
		KVCacheGB:          firstNumber(raw, modelKVCacheFields),
		SizeLabel:          firstString(raw, []string{"Size", "size"}),
	}
	if v := firstNumber(raw, modelMemoryFields); v != nil {
		p.BaseMemoryGB = *v
	}
	// Millisecond spellings are a fallback for the latency display field
	if p.BaseLatencySeconds == nil {
		if v := firstNumber(raw, modelLatencyMSFields); v != nil {
			s := *v / 1000
			p.BaseLatencySeconds = &s
		}
	}
	p.MissingKVCache = firstBool(raw, []string{"missing_kv_cache"})
	return p
}

// firstNumber returns the first path holding a usable number.
// Numeric strings count (legacy exports quote their numbers).
func firstNumber(raw json.RawMessage, paths []string) *float64 {
	for _, path := range paths {
		res := gjson.GetBytes(raw, path)
		switch res.Type {
		case gjson.Number:
			v := res.Float()
			return &v
		case gjson.String:
			if v, err := strconv.ParseFloat(res.String(), 64); err == nil {
				return &v
			}
		}
	}
	return nil
}

// firstString returns the first path holding a non-empty string.
func firstString(raw json.RawMessage, paths []string) string {
	for _, path := range paths {
		res := gjson.GetBytes(raw, path)
		if res.Type == gjson.String && res.String() != "" {
			return res.String()
		}
	}
	return ""
}

// firstBool returns the first path holding a boolean, defaulting to false.
func firstBool(raw json.RawMessage, paths []string) bool {
	for _, path := range paths {
		res := gjson.GetBytes(raw, path)
		if res.Type == gjson.True || res.Type == gjson.False {
			return res.Bool()
		}
	}
	return false
}
