// Package repository defines the cohort ranking store interface and errors.
package repository

import (
	"context"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ywutian/admitscore/internal/domain/model"
	"github.com/ywutian/admitscore/internal/domain/stats"
	"github.com/ywutian/admitscore/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: overall score DESC, then applicantID ASC (deterministic).
// The BST comparator treats "less" as "ranks earlier", so in-order
// traversal produces the cohort leaderboard from best to worst.

// scoreScale controls fixed-point scaling from float64. Overall scores live
// in [0, 100], so twelve decimal places fit comfortably in int64.
const scoreScale = 1_000_000_000_000

type scoreFP int64

func toFixedPoint(x float64) scoreFP {
	if math.IsNaN(x) {
		return 0
	}
	scaled := x * scoreScale
	if scaled > float64(math.MaxInt64) {
		return scoreFP(math.MaxInt64)
	}
	if scaled < float64(math.MinInt64) {
		return scoreFP(math.MinInt64)
	}
	return scoreFP(math.Round(scaled))
}

func toFloat(x scoreFP) float64 {
	return float64(x) / scoreScale
}

// record stores the fixed-point overall score plus the full breakdown for an
// applicant's latest submission.
type record struct {
	overall   scoreFP
	breakdown model.ScoreBreakdown
}

// Snapshot is an immutable view of the cohort leaderboard state.
type Snapshot struct {
	// Rank and overall score in O(1) for reads.
	RankByApplicant  map[string]int
	ScoreByApplicant map[string]float64

	// Fast Top-K cache up to M items, sorted descending.
	TopCache []Entry
}

// treap node
type node struct {
	id      string
	overall scoreFP
	prio    uint64
	left    *node
	right   *node
	size    int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aScore, aID) should appear before (bScore, bID)
// in the leaderboard (higher overall scores rank earlier).
func less(aScore scoreFP, aID string, bScore scoreFP, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID // tie-breaker by id asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// scoreToPriority converts an overall score to a treap priority. Higher
// scores get higher priorities to keep them near the root.
func scoreToPriority(score scoreFP) uint64 {
	const offset = uint64(1) << 63 // shift negatives into uint64 range
	return uint64(score) + offset
}

func insert(n *node, id string, score scoreFP) *node {
	if n == nil {
		return &node{id: id, overall: score, prio: scoreToPriority(score), size: 1}
	}
	if less(score, id, n.overall, n.id) {
		n.left = insert(n.left, id, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, score scoreFP) *node {
	if n == nil {
		return nil
	}
	if score == n.overall && id == n.id {
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
	} else if less(score, id, n.overall, n.id) {
		n.left = deleteNode(n.left, id, score)
	} else {
		n.right = deleteNode(n.right, id, score)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit entries in rank order (highest first).
func collectTopN(n *node, limit int, records map[string]record, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}

	collectTopN(n.left, limit, records, out)

	if len(*out) < limit {
		if rec, exists := records[n.id]; exists {
			*out = append(*out, Entry{ApplicantID: n.id, Breakdown: rec.breakdown})
		}
	}

	if len(*out) < limit {
		collectTopN(n.right, limit, records, out)
	}
}

// TreapStore is the in-memory cohort store.
type TreapStore struct {
	mu                    sync.RWMutex
	root                  *node
	byID                  map[string]record
	snapshotInterval      time.Duration
	metricsUpdateInterval time.Duration
	topCacheSize          int

	snapshot atomic.Pointer[Snapshot]

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		snapshotInterval:      1 * time.Second,
		metricsUpdateInterval: 5 * time.Second,
		topCacheSize:          500,
		byID:                  make(map[string]record),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startPeriodicSnapshots(ctx)
	s.startMetricsUpdater(ctx)

	return s
}

// startPeriodicSnapshots publishes snapshots at the configured interval.
func (s *TreapStore) startPeriodicSnapshots(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.publishSnapshot()
			}
		}
	}()
}

// publishSnapshot rebuilds and publishes a new snapshot.
func (s *TreapStore) publishSnapshot() {
	start := time.Now()
	s.mu.RLock()
	s.publishSnapshotInternal()
	s.mu.RUnlock()

	ms := float64(time.Since(start).Milliseconds())
	metrics.RecordRepositorySnapshotRebuildDuration(ms)
	metrics.UpdateRepositorySnapshotLastUnix(float64(time.Now().Unix()))
	metrics.IncrementRepositorySnapshotCount()
}

// Close gracefully shuts down the background goroutines.
func (s *TreapStore) Close() error {
	select {
	case <-s.stopChan:
		// already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// Upsert implements Store.Upsert with O(log n) expected time. The latest
// submission always replaces the stored breakdown.
func (s *TreapStore) Upsert(ctx context.Context, applicantID string, breakdown model.ScoreBreakdown) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	ns := toFixedPoint(breakdown.Overall)

	isNewApplicant := false

	s.mu.Lock()
	if old, ok := s.byID[applicantID]; ok {
		s.root = deleteNode(s.root, applicantID, old.overall)
	} else {
		isNewApplicant = true
	}
	s.byID[applicantID] = record{overall: ns, breakdown: breakdown}
	s.root = insert(s.root, applicantID, ns)
	s.mu.Unlock()

	// Update metrics outside the lock.
	if isNewApplicant {
		metrics.UpdateCohortSize(s.Count(ctx))
	}

	return isNewApplicant, nil
}

// Rank returns the current rank and breakdown for an applicant in O(n).
func (s *TreapStore) Rank(ctx context.Context, applicantID string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.byID[applicantID]; !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}

	allEntries := make([]Entry, 0, len(s.byID))
	collectAll(s.root, s.byID, &allEntries)

	sortEntries(allEntries)
	assignRanksWithTies(allEntries)

	for _, entry := range allEntries {
		if entry.ApplicantID == applicantID {
			return entry, nil
		}
	}

	return Entry{}, ErrNotFound
}

// TopN returns the top N entries ordered by overall score desc.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, n)
	collectTopN(s.root, n, s.byID, &out)

	assignRanksWithTies(out)
	return out, nil
}

// Count returns the total number of applicants.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Bands computes quartile bands over every score dimension of the cohort.
// An empty cohort yields zero bands with CohortSize 0.
func (s *TreapStore) Bands(ctx context.Context) model.CohortBands {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	n := len(s.byID)
	overall := make([]float64, 0, n)
	academic := make([]float64, 0, n)
	activity := make([]float64, 0, n)
	award := make([]float64, 0, n)
	for _, rec := range s.byID {
		overall = append(overall, rec.breakdown.Overall)
		academic = append(academic, rec.breakdown.Academic)
		activity = append(activity, rec.breakdown.Activity)
		award = append(award, rec.breakdown.Award)
	}
	s.mu.RUnlock()

	return model.CohortBands{
		Size:     n,
		Overall:  bandOf(overall),
		Academic: bandOf(academic),
		Activity: bandOf(activity),
		Award:    bandOf(award),
	}
}

func bandOf(values []float64) model.Band {
	sort.Float64s(values)
	return model.Band{
		P25: stats.Quantile(values, 0.25),
		P50: stats.Quantile(values, 0.50),
		P75: stats.Quantile(values, 0.75),
	}
}

// publishSnapshotInternal rebuilds and publishes a snapshot (lock held).
func (s *TreapStore) publishSnapshotInternal() {
	topCache := make([]Entry, 0, s.topCacheSize)
	collectTopN(s.root, s.topCacheSize, s.byID, &topCache)

	rankByApplicant := make(map[string]int, len(s.byID))
	scoreByApplicant := make(map[string]float64, len(s.byID))

	allEntries := make([]Entry, 0, len(s.byID))
	collectAll(s.root, s.byID, &allEntries)

	assignRanksWithTies(allEntries)

	for _, entry := range allEntries {
		rankByApplicant[entry.ApplicantID] = entry.Rank
		scoreByApplicant[entry.ApplicantID] = entry.Breakdown.Overall
	}

	for i := range topCache {
		if rank, exists := rankByApplicant[topCache[i].ApplicantID]; exists {
			topCache[i].Rank = rank
		}
	}

	snapshot := &Snapshot{
		RankByApplicant:  rankByApplicant,
		ScoreByApplicant: scoreByApplicant,
		TopCache:         topCache,
	}

	s.snapshot.Store(snapshot)
}

// startMetricsUpdater refreshes cohort-size metrics in the background.
func (s *TreapStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.mu.RLock()
				count := len(s.byID)
				s.mu.RUnlock()
				metrics.UpdateCohortSize(count)
			}
		}
	}()
}

// collectAll appends all entries in rank order (highest first).
func collectAll(n *node, byID map[string]record, out *[]Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, byID, out)
	if rec, ok := byID[n.id]; ok {
		*out = append(*out, Entry{ApplicantID: n.id, Breakdown: rec.breakdown})
	}
	collectAll(n.right, byID, out)
}

// sortEntries sorts by overall score desc, applicantID asc, matching the
// treap's in-order traversal.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Breakdown.Overall != entries[j].Breakdown.Overall {
			return entries[i].Breakdown.Overall > entries[j].Breakdown.Overall
		}
		return entries[i].ApplicantID < entries[j].ApplicantID
	})
}

// assignRanksWithTies assigns ranks with tie handling. Applicants with the
// same overall score share a rank; the next distinct score takes the next
// consecutive rank.
func assignRanksWithTies(entries []Entry) {
	if len(entries) == 0 {
		return
	}

	currentRank := 1
	for i := 0; i < len(entries); i++ {
		entries[i].Rank = currentRank

		sameScoreCount := 1
		for j := i + 1; j < len(entries) && entries[j].Breakdown.Overall == entries[i].Breakdown.Overall; j++ {
			entries[j].Rank = currentRank
			sameScoreCount++
		}

		currentRank++
		i += sameScoreCount - 1
	}
}
