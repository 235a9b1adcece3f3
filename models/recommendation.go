// ABOUTME: Recommendation selector and envelope operations
// ABOUTME: Single GPU strictly preferred over NVLink groups; promote swaps alternatives in

package models

import (
	"fmt"
	"strings"
)

// RecommendationEnvelope is the API result for a sizing request.
// Recommended is nil when no configuration is feasible; Rationale then
// explains which constraints could not be met. Invariant: the
// recommended candidate never appears in Alternatives, and Alternatives
// carry no duplicate identity keys.
type RecommendationEnvelope struct {
	Recommended  *Candidate  `json:"recommended"`
	Alternatives []Candidate `json:"alternatives"`
	Rationale    string      `json:"rationale"`
}

// ComputeRecommendation ranks devices against the requirement and
// assembles the result envelope.
//
// Selection policy: any adequate single GPU beats every group plan,
// regardless of headroom. Grouping is strictly a fallback for
// requirements no single device can cover. Alternatives keep ranking
// order: remaining singles first, then group plans.
func ComputeRecommendation(req WorkloadRequirement, devices []DeviceProfile) (RecommendationEnvelope, error) {
	if err := req.Validate(); err != nil {
		return RecommendationEnvelope{}, err
	}

	singles := RankSingleUnit(req, devices)
	groups := RankGroupPlans(req, devices)

	switch {
	case len(singles) > 0:
		best := singles[0]
		return RecommendationEnvelope{
			Recommended:  &best,
			Alternatives: dedupeCandidates(append(singles[1:], groups...), best.IdentityKey()),
			Rationale: fmt.Sprintf("%s covers %.0f GB and %.0f tokens/s with the smallest sufficient VRAM.",
				best.Device.ID, req.RequiredMemoryGB, req.RequiredThroughput),
		}, nil

	case len(groups) > 0:
		best := groups[0]
		return RecommendationEnvelope{
			Recommended:  &best,
			Alternatives: dedupeCandidates(groups[1:], best.IdentityKey()),
			Rationale: fmt.Sprintf("No single GPU covers the requirement; %dx %s over NVLink pools %.0f GB and %.0f tokens/s.",
				best.UnitCount, best.Device.ID, best.TotalMemoryGB, best.TotalThroughput),
		}, nil

	default:
		return RecommendationEnvelope{
			Alternatives: []Candidate{},
			Rationale:    infeasibleRationale(req, devices),
		}, nil
	}
}

// Promote makes a previously offered alternative the recommendation.
// The chosen key must be present in Alternatives; otherwise the
// envelope is returned unchanged (callers may surface that, this
// operation does not). Membership of {recommended} + alternatives is
// preserved exactly; the old recommendation joins the alternatives.
// The rationale is cleared -- regeneration is the caller's concern.
func (e RecommendationEnvelope) Promote(chosenKey string) RecommendationEnvelope {
	var chosen *Candidate
	for i := range e.Alternatives {
		if e.Alternatives[i].IdentityKey() == chosenKey {
			c := e.Alternatives[i]
			chosen = &c
			break
		}
	}
	if chosen == nil {
		return e
	}

	rest := make([]Candidate, 0, len(e.Alternatives))
	for _, alt := range e.Alternatives {
		if alt.IdentityKey() != chosenKey {
			rest = append(rest, alt)
		}
	}
	if e.Recommended != nil {
		rest = append(rest, *e.Recommended)
	}

	return RecommendationEnvelope{
		Recommended:  chosen,
		Alternatives: dedupeCandidates(rest, chosenKey),
	}
}

// dedupeCandidates drops duplicate identity keys (first occurrence
// wins) and anything matching the recommended key.
func dedupeCandidates(candidates []Candidate, recommendedKey string) []Candidate {
	seen := map[string]bool{recommendedKey: true}
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		key := c.IdentityKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// infeasibleRationale names every constraint no device could satisfy:
// memory, throughput, or the NVLink group-size cap.
func infeasibleRationale(req WorkloadRequirement, devices []DeviceProfile) string {
	if len(devices) == 0 {
		return "No GPUs available in the catalog."
	}

	memoryOK := false
	throughputOK := false
	capExceeded := false
	for _, d := range devices {
		if d.MemoryGB >= req.RequiredMemoryGB {
			memoryOK = true
		}
		if d.Throughput >= req.RequiredThroughput {
			throughputOK = true
		}
		if d.GroupCapable && d.MaxGroupSize >= 2 && d.MemoryGB > 0 && d.Throughput > 0 {
			if groupUnitCount(req, d) > d.MaxGroupSize {
				capExceeded = true
			}
		}
	}

	var failed []string
	if !memoryOK {
		failed = append(failed, fmt.Sprintf("the %.0f GB memory requirement", req.RequiredMemoryGB))
	}
	if !throughputOK {
		failed = append(failed, fmt.Sprintf("the %.0f tokens/s throughput requirement", req.RequiredThroughput))
	}

	msg := "No GPU configuration found"
	if len(failed) > 0 {
		msg += ": no device satisfies " + strings.Join(failed, " or ")
	}
	if capExceeded {
		if len(failed) > 0 {
			msg += ", and"
		} else {
			msg += ":"
		}
		msg += " every NVLink group large enough would exceed its device's group-size cap"
	}
	return msg + "."
}
