package repository

import "errors"

// Sentinel kinds for cohort store errors.
var (
	ErrNotFound     = errors.New("applicant not found")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
