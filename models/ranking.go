// ABOUTME: Candidate ranker for single-GPU and NVLink group sizing
// ABOUTME: Explicit comparators define the total order per candidate kind

package models

import (
	"fmt"
	"math"
	"sort"
)

// CandidateKind distinguishes a single device from an NVLink group plan.
type CandidateKind string

const (
	CandidateSingle CandidateKind = "single"
	CandidateGroup  CandidateKind = "group"
)

// Candidate is one configuration able to serve a requirement: a device
// plus a unit count. UnitCount is 1 for single-device candidates.
// Exists only as ranking output; never persisted.
type Candidate struct {
	Device          DeviceProfile `json:"device"`
	UnitCount       int           `json:"unit_count"`
	TotalMemoryGB   float64       `json:"total_memory_gb"`
	TotalThroughput float64       `json:"total_tokens_per_second"`
	Kind            CandidateKind `json:"kind"`
}

// IdentityKey identifies a candidate across envelope operations.
// Two candidates are the same iff device id and unit count match.
func (c Candidate) IdentityKey() string {
	return fmt.Sprintf("%s/%d", c.Device.ID, c.UnitCount)
}

// Satisfies reports whether the candidate's totals cover the requirement.
func (c Candidate) Satisfies(req WorkloadRequirement) bool {
	return c.TotalMemoryGB >= req.RequiredMemoryGB && c.TotalThroughput >= req.RequiredThroughput
}

// RankSingleUnit returns qualifying single devices, best first.
// A device qualifies when it covers both the memory and throughput
// demand on its own. Order: smallest sufficient VRAM first, then the
// least throughput over-provisioning.
func RankSingleUnit(req WorkloadRequirement, devices []DeviceProfile) []Candidate {
	var out []Candidate
	for _, d := range devices {
		c := Candidate{
			Device:          d,
			UnitCount:       1,
			TotalMemoryGB:   d.MemoryGB,
			TotalThroughput: d.Throughput,
			Kind:            CandidateSingle,
		}
		if c.Satisfies(req) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return lessSingleUnit(out[i], out[j], req)
	})
	return out
}

// lessSingleUnit orders single-device candidates: ascending VRAM,
// tie-break ascending throughput headroom above the requirement.
func lessSingleUnit(a, b Candidate, req WorkloadRequirement) bool {
	if a.Device.MemoryGB != b.Device.MemoryGB {
		return a.Device.MemoryGB < b.Device.MemoryGB
	}
	return a.Device.Throughput-req.RequiredThroughput < b.Device.Throughput-req.RequiredThroughput
}

// RankGroupPlans returns NVLink group plans able to jointly cover the
// requirement, best first. Only devices that are group-capable, allow
// groups of at least 2, and have positive per-unit capacity on both
// axes are considered.
func RankGroupPlans(req WorkloadRequirement, devices []DeviceProfile) []Candidate {
	var out []Candidate
	for _, d := range devices {
		if !d.GroupCapable || d.MaxGroupSize < 2 || d.MemoryGB <= 0 || d.Throughput <= 0 {
			continue
		}

		units := groupUnitCount(req, d)
		if units > d.MaxGroupSize {
			continue
		}

		c := Candidate{
			Device:          d,
			UnitCount:       units,
			TotalMemoryGB:   float64(units) * d.MemoryGB,
			TotalThroughput: float64(units) * d.Throughput,
			Kind:            CandidateGroup,
		}
		// Totals must cover the requirement regardless of how the
		// unit count was derived
		if !c.Satisfies(req) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, lessGroupPlan(out))
	return out
}

// groupUnitCount is the number of identical units needed so pooled
// memory and pooled throughput both cover the requirement. Never less
// than 2: a one-unit "group" is just the single-device case.
func groupUnitCount(req WorkloadRequirement, d DeviceProfile) int {
	byMemory := int(math.Ceil(req.RequiredMemoryGB / d.MemoryGB))
	byThroughput := int(math.Ceil(req.RequiredThroughput / d.Throughput))

	units := byMemory
	if byThroughput > units {
		units = byThroughput
	}
	if units < 2 {
		units = 2
	}
	return units
}

// lessGroupPlan orders group plans: fewest units, then least total
// VRAM, then most total throughput (prefer headroom when size and
// memory tie).
func lessGroupPlan(plans []Candidate) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := plans[i], plans[j]
		if a.UnitCount != b.UnitCount {
			return a.UnitCount < b.UnitCount
		}
		if a.TotalMemoryGB != b.TotalMemoryGB {
			return a.TotalMemoryGB < b.TotalMemoryGB
		}
		return a.TotalThroughput > b.TotalThroughput
	}
}
