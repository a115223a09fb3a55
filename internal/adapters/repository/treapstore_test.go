package repository

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/ywutian/admitscore/internal/domain/model"
)

func breakdown(overall float64) model.ScoreBreakdown {
	return model.ScoreBreakdown{
		Academic: overall,
		Activity: overall,
		Award:    overall,
		Overall:  overall,
	}
}

func TestTreapStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	created, err := store.Upsert(ctx, "applicant1", breakdown(85.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected first upsert to report a new applicant")
	}

	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	entry, err := store.Rank(ctx, "applicant1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 1 {
		t.Errorf("expected rank 1, got %d", entry.Rank)
	}
	if entry.Breakdown.Overall != 85.5 {
		t.Errorf("expected overall 85.5, got %f", entry.Breakdown.Overall)
	}

	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ApplicantID != "applicant1" {
		t.Errorf("expected applicant1, got %s", entries[0].ApplicantID)
	}
}

func TestTreapStore_ReplaceSemantics(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	created, err := store.Upsert(ctx, "applicant1", breakdown(50.0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected first upsert to report a new applicant")
	}

	// A resubmission with a LOWER score still replaces: the latest
	// evaluation wins.
	created, err = store.Upsert(ctx, "applicant1", breakdown(40.0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected resubmission to report an existing applicant")
	}

	entry, err := store.Rank(ctx, "applicant1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Breakdown.Overall != 40.0 {
		t.Errorf("expected overall 40.0 after replace, got %f", entry.Breakdown.Overall)
	}

	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1 after resubmission, got %d", count)
	}
}

func TestTreapStore_Ordering(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	applicants := []struct {
		id      string
		overall float64
	}{
		{"applicant1", 85.0},
		{"applicant2", 95.0},
		{"applicant3", 75.0},
		{"applicant4", 100.0},
		{"applicant5", 80.0},
	}
	for _, a := range applicants {
		if _, err := store.Upsert(ctx, a.id, breakdown(a.overall)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := store.TopN(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantOrder := []string{"applicant4", "applicant2", "applicant1", "applicant5", "applicant3"}
	for i, want := range wantOrder {
		if entries[i].ApplicantID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, entries[i].ApplicantID)
		}
		if entries[i].Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, entries[i].Rank)
		}
	}
}

func TestTreapStore_TieBreaking(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	for _, id := range []string{"charlie", "alice", "bob"} {
		if _, err := store.Upsert(ctx, id, breakdown(70.0)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := store.TopN(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Equal overall scores order by applicant ID ascending and share a rank.
	wantOrder := []string{"alice", "bob", "charlie"}
	for i, want := range wantOrder {
		if entries[i].ApplicantID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, entries[i].ApplicantID)
		}
		if entries[i].Rank != 1 {
			t.Errorf("position %d: expected shared rank 1, got %d", i, entries[i].Rank)
		}
	}
}

func TestTreapStore_RankAfterTies(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	store.Upsert(ctx, "a", breakdown(90.0))
	store.Upsert(ctx, "b", breakdown(90.0))
	store.Upsert(ctx, "c", breakdown(80.0))

	entry, err := store.Rank(ctx, "c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 2 {
		t.Errorf("expected consecutive rank 2 after a tie pair, got %d", entry.Rank)
	}
}

func TestTreapStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	if _, err := store.Rank(ctx, "missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := store.TopN(ctx, 0); err != ErrInvalidLimit {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if _, err := store.TopN(ctx, -5); err != ErrInvalidLimit {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestTreapStore_Bands(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	empty := store.Bands(ctx)
	if empty.Size != 0 {
		t.Errorf("expected empty cohort size 0, got %d", empty.Size)
	}
	if empty.Overall.P50 != 0 {
		t.Errorf("expected zero band for empty cohort, got %f", empty.Overall.P50)
	}

	for i := 1; i <= 5; i++ {
		store.Upsert(ctx, fmt.Sprintf("a%d", i), breakdown(float64(i*10)))
	}

	bands := store.Bands(ctx)
	if bands.Size != 5 {
		t.Errorf("expected cohort size 5, got %d", bands.Size)
	}
	if bands.Overall.P50 != 30.0 {
		t.Errorf("expected overall median 30.0, got %f", bands.Overall.P50)
	}
	if bands.Overall.P25 >= bands.Overall.P75 {
		t.Errorf("expected p25 < p75, got %f >= %f", bands.Overall.P25, bands.Overall.P75)
	}
}

func TestTreapStore_Concurrency(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	const goroutines = 8
	const perGoroutine = 200

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(int64(g)))
			for i := 0; i < perGoroutine; i++ {
				id := fmt.Sprintf("applicant-%d-%d", g, i)
				store.Upsert(ctx, id, breakdown(r.Float64()*100))
				if i%10 == 0 {
					store.TopN(ctx, 10)
					store.Count(ctx)
				}
			}
		}(g)
	}
	wg.Wait()

	if count := store.Count(ctx); count != goroutines*perGoroutine {
		t.Errorf("expected %d applicants, got %d", goroutines*perGoroutine, count)
	}
}

func TestTreapStore_SnapshotPublishing(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore(ctx, WithSnapshotInterval(10*time.Millisecond), WithTopCacheSize(3))
	defer store.Close()

	for i := 0; i < 10; i++ {
		store.Upsert(ctx, fmt.Sprintf("a%d", i), breakdown(float64(i)))
	}

	time.Sleep(50 * time.Millisecond)

	snap := store.snapshot.Load()
	if snap == nil {
		t.Fatal("expected a published snapshot")
	}
	if len(snap.TopCache) != 3 {
		t.Errorf("expected top cache of 3, got %d", len(snap.TopCache))
	}
	if snap.TopCache[0].ApplicantID != "a9" {
		t.Errorf("expected a9 at the top, got %s", snap.TopCache[0].ApplicantID)
	}
	if len(snap.RankByApplicant) != 10 {
		t.Errorf("expected 10 ranked applicants, got %d", len(snap.RankByApplicant))
	}
}

func BenchmarkTreapStore_Upsert(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	r := rand.New(rand.NewSource(42))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Upsert(ctx, fmt.Sprintf("applicant-%d", i%10000), breakdown(r.Float64()*100))
	}
}

func BenchmarkTreapStore_TopN(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer store.Close()

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 10000; i++ {
		store.Upsert(ctx, fmt.Sprintf("applicant-%d", i), breakdown(r.Float64()*100))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.TopN(ctx, 100)
	}
}
