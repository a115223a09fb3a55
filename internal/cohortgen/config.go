package cohortgen

import (
	"time"

	"github.com/ywutian/admitscore/internal/adapters/record"
)

// Config holds configuration for the cohort load test
type Config struct {
	BaseURL     string        // Base URL of the service
	NumProfiles int           // Number of profiles to generate
	TopN        int           // Number of top entries to fetch
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Output file for profiles
	LogFile     string        // Log file for test output
	Verbose     bool          // Enable verbose logging
}

// Submission is the wire shape posted to /profiles
type Submission struct {
	SubmissionID string               `json:"submission_id"`
	ApplicantID  string               `json:"applicant_id"`
	Student      record.StudentRecord `json:"student"`
	TS           string               `json:"ts"`
}

// Entry represents a cohort leaderboard entry
type Entry struct {
	Rank        int     `json:"rank"`
	ApplicantID string  `json:"applicant_id"`
	Overall     float64 `json:"overall"`
	Academic    float64 `json:"academic"`
	Activity    float64 `json:"activity"`
	Award       float64 `json:"award"`
}

// Band is a quartile triple for one score dimension
type Band struct {
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
}

// Bands is the cohort context returned by /bands
type Bands struct {
	CohortSize int  `json:"cohort_size"`
	Overall    Band `json:"overall"`
	Academic   Band `json:"academic"`
	Activity   Band `json:"activity"`
	Award      Band `json:"award"`
}

// AckResponse represents the response from profile submission
type AckResponse struct {
	Status string `json:"status"`
}

// Stats holds test statistics
type Stats struct {
	ProfilesGenerated   int
	ProfilesSubmitted   int
	ProfilesSuccessful  int
	ProfilesDuplicate   int
	ProfilesFailed      int
	RankingsRetrieved   int
	LeaderboardEntries  int
	CohortSizeFromBands int
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
}
