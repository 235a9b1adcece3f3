// ABOUTME: Bounded-concurrency hydration pipeline for catalog records
// ABOUTME: Generation tokens cancel superseded runs at the publication boundary

package services

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/markalston/gpu-sizer/backend/models"
)

// DefaultHydrationWidth caps simultaneously outstanding catalog
// fetches. This is backpressure protecting the catalog service, not a
// performance knob; correctness never depends on raising it.
const DefaultHydrationWidth = 8

// Resolver resolves a bare identifier into a model profile.
type Resolver func(ctx context.Context, id string) (models.ModelProfile, error)

// HydrationEntry is one pipeline input: either a pre-resolved profile
// or a bare identifier awaiting resolution.
type HydrationEntry struct {
	ID      string               `json:"id"`
	Profile *models.ModelProfile `json:"profile,omitempty"`
}

// HydrationStream is one generation's output. Snapshots delivers
// progressively growing published sets; within a generation the set
// only ever appends, never shrinks or reorders. The channel closes
// when the generation completes or is superseded.
type HydrationStream struct {
	Generation uint64
	Snapshots  <-chan []models.HydrationRecord
}

// Hydrator runs hydration generations. Starting a new generation
// supersedes any generation still in flight: its workers wind down and
// anything they produce is dropped at the publication boundary, so at
// most one generation's output is ever consumer-visible.
type Hydrator struct {
	width int

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// NewHydrator creates a hydrator with the given worker-pool width.
// Widths below 1 fall back to DefaultHydrationWidth.
func NewHydrator(width int) *Hydrator {
	if width < 1 {
		width = DefaultHydrationWidth
	}
	return &Hydrator{width: width}
}

// Start begins a new hydration generation and returns its stream.
//
// Entries are deduplicated by identifier. Pre-resolved entries are
// published immediately and unchanged; bare identifiers go through the
// worker pool. A per-identifier resolution failure degrades that one
// record and never halts the pipeline. The final snapshot holds exactly
// one record per unique input entry.
func (h *Hydrator) Start(ctx context.Context, entries []HydrationEntry, resolve Resolver) HydrationStream {
	h.mu.Lock()
	if h.cancel != nil {
		// Cancellation is cooperative: in-flight fetches run to
		// completion but their results die at the publish boundary.
		h.cancel()
	}
	h.generation++
	gen := h.generation
	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.mu.Unlock()

	published, pending := partitionEntries(entries)

	// Buffer covers every possible publish so workers never block on a
	// slow consumer while holding the hydrator lock.
	snapshots := make(chan []models.HydrationRecord, len(pending)+1)

	go h.run(runCtx, gen, published, pending, resolve, snapshots)

	return HydrationStream{Generation: gen, Snapshots: snapshots}
}

// run drives one generation to completion.
func (h *Hydrator) run(ctx context.Context, gen uint64, published []models.HydrationRecord, pending []string, resolve Resolver, out chan<- []models.HydrationRecord) {
	defer close(out)

	// Pre-resolved records are visible before any fetch returns
	h.publish(gen, out, snapshotOf(published))

	var mu sync.Mutex // guards published within this generation

	g := new(errgroup.Group)
	g.SetLimit(h.width)
	for _, id := range pending {
		g.Go(func() error {
			if ctx.Err() != nil {
				// Superseded; skip queued work without publishing
				return nil
			}

			rec := models.HydrationRecord{ID: id}
			profile, err := resolve(ctx, id)
			if err != nil {
				slog.Debug("Hydration fetch failed, degrading record", "id", id, "error", err)
				rec.Degraded = true
			} else {
				rec.Profile = &profile
			}

			mu.Lock()
			published = append(published, rec)
			snap := snapshotOf(published)
			mu.Unlock()

			h.publish(gen, out, snap)
			return nil
		})
	}
	_ = g.Wait()

	slog.Debug("Hydration generation finished",
		"generation", gen,
		"records", len(published),
		"superseded", ctx.Err() != nil,
	)
}

// publish is the single stale-generation discard point. A snapshot
// carrying any token other than the current generation's is dropped
// silently; this is expected housekeeping, not an error.
func (h *Hydrator) publish(gen uint64, out chan<- []models.HydrationRecord, snap []models.HydrationRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if gen != h.generation {
		return
	}
	out <- snap
}

// partitionEntries splits inputs into already-published records and
// identifiers awaiting resolution, deduplicating by identifier.
func partitionEntries(entries []HydrationEntry) (published []models.HydrationRecord, pending []string) {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		id := e.ID
		if id == "" && e.Profile != nil {
			id = e.Profile.ID
		}
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		if e.Profile != nil {
			published = append(published, models.HydrationRecord{ID: id, Profile: e.Profile})
		} else {
			pending = append(pending, id)
		}
	}
	return published, pending
}

// snapshotOf copies the accumulator so consumers never observe later appends.
func snapshotOf(records []models.HydrationRecord) []models.HydrationRecord {
	snap := make([]models.HydrationRecord, len(records))
	copy(snap, records)
	return snap
}
