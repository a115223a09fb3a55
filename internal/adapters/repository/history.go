// Package repository defines the cohort ranking store interface and errors.
package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/ywutian/admitscore/internal/domain/model"
)

// HistoryBook accumulates observed applicant test metrics so the academic
// scorer can prefer empirical percentiles once enough of the cohort has been
// seen. Each metric keeps its own bounded ring; the oldest observation falls
// off once capacity is reached.
type HistoryBook struct {
	mu    sync.RWMutex
	sat   *ring
	gpa   *ring
	toefl *ring
	seen  int
}

// ring is a fixed-capacity float64 ring buffer.
type ring struct {
	values []float64
	next   int
}

func newRing(capacity int) *ring {
	return &ring{values: make([]float64, 0, capacity)}
}

func (r *ring) push(v float64) {
	if cap(r.values) == 0 {
		return
	}
	if len(r.values) < cap(r.values) {
		r.values = append(r.values, v)
		return
	}
	r.values[r.next] = v
	r.next = (r.next + 1) % len(r.values)
}

func (r *ring) sorted() []float64 {
	out := make([]float64, len(r.values))
	copy(out, r.values)
	sort.Float64s(out)
	return out
}

// NewHistoryBook creates a history book holding up to capacity observations
// per metric.
func NewHistoryBook(capacity int) *HistoryBook {
	if capacity <= 0 {
		capacity = 10000
	}
	return &HistoryBook{
		sat:   newRing(capacity),
		gpa:   newRing(capacity),
		toefl: newRing(capacity),
	}
}

// Observe records whichever metrics are present on one applicant. A nil
// metric is simply skipped; the observation still counts toward the sample
// count when at least one metric was present.
func (h *HistoryBook) Observe(ctx context.Context, sat, gpa, toefl *float64) {
	if sat == nil && gpa == nil && toefl == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if sat != nil {
		h.sat.push(*sat)
	}
	if gpa != nil {
		h.gpa.push(*gpa)
	}
	if toefl != nil {
		h.toefl.push(*toefl)
	}
	h.seen++
}

// Snapshot returns a sorted copy of the accumulated distribution, safe to
// read while observations continue.
func (h *HistoryBook) Snapshot(ctx context.Context) model.HistoricalDistribution {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return model.HistoricalDistribution{
		SampleCount: h.seen,
		SATValues:   h.sat.sorted(),
		GPAValues:   h.gpa.sorted(),
		TOEFLValues: h.toefl.sorted(),
	}
}

// Size returns the number of applicants observed so far.
func (h *HistoryBook) Size(ctx context.Context) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.seen
}
