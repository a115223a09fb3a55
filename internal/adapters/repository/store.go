// Package repository defines the cohort ranking store interface and errors.
package repository

import (
	"context"

	"github.com/ywutian/admitscore/internal/domain/model"
)

// Entry represents a cohort leaderboard row.
type Entry struct {
	Rank        int
	ApplicantID string
	Breakdown   model.ScoreBreakdown
}

// Store provides read/write access to the cohort ranking state.
type Store interface {
	// Upsert replaces the stored breakdown for an applicant. A resubmission
	// always wins, even when the new overall score is lower. Returns true
	// when the applicant was not previously tracked.
	Upsert(ctx context.Context, applicantID string, breakdown model.ScoreBreakdown) (bool, error)

	// Rank returns the current rank and breakdown for an applicant.
	// Returns ErrNotFound if the applicant is unknown.
	Rank(ctx context.Context, applicantID string) (Entry, error)

	// TopN returns the top-N entries ordered by overall score desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of applicants tracked in the cohort.
	Count(ctx context.Context) int

	// Bands returns quartile bands over every score dimension of the cohort.
	Bands(ctx context.Context) model.CohortBands
}
