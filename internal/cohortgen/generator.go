package cohortgen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ywutian/admitscore/internal/adapters/record"
	"github.com/ywutian/admitscore/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	submissionIDRange  = 10000
	archetypeCount     = 8
)

// GPA ranges per archetype (on the 4.0 scale).
const (
	averageGPAMin  = 3.0
	averageGPASpan = 0.7
	strongGPAMin   = 3.7
	strongGPASpan  = 0.25
	eliteGPAMin    = 3.9
	eliteGPASpan   = 0.1
	modestGPAMin   = 2.3
	modestGPASpan  = 0.7
	wideGPAMin     = 2.0
	wideGPASpan    = 2.0
)

// SAT ranges per archetype.
const (
	averageSATMin  = 1150
	averageSATSpan = 200
	strongSATMin   = 1380
	strongSATSpan  = 120
	eliteSATMin    = 1520
	eliteSATSpan   = 80
	modestSATMin   = 950
	modestSATSpan  = 200
	wideSATMin     = 900
	wideSATSpan    = 700
)

// TOEFL range for international profiles.
const (
	toeflMin  = 85
	toeflSpan = 35
)

// Activity and award count ceilings.
const (
	activityCountMax = 9
	awardCountMax    = 5
)

// Archetype cases. The distribution is deliberately uneven so the cohort
// has a believable shape: mostly average profiles, a thin elite tail.
const (
	caseAverage       = 0
	caseStrong        = 1
	caseModest        = 2
	caseElite         = 3
	caseTestOptional  = 4
	caseInternational = 5
	caseActivityHeavy = 6
	caseWideRange     = 7
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [0, max).
func getRandomInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// generateProfiles creates the specified number of submissions with unique
// applicant IDs.
func generateProfiles(ctx context.Context, config *Config, stats *Stats) ([]Submission, error) {
	logger.Get().Info(ctx, "generating profiles with unique applicant IDs", logger.Int("numProfiles", config.NumProfiles))

	profiles := make([]Submission, config.NumProfiles)

	// Pre-allocate applicant IDs to ensure uniqueness
	applicantIDs := make([]string, config.NumProfiles)
	for i := 0; i < config.NumProfiles; i++ {
		applicantIDs[i] = uuid.New().String()
	}

	// Generate profiles concurrently
	type profileResult struct {
		index   int
		profile Submission
		err     error
	}

	resultChan := make(chan profileResult, config.NumProfiles)

	// Use worker pool for profile generation
	workerCount := minInt(config.Workers, config.NumProfiles)
	profilesPerWorker := config.NumProfiles / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * profilesPerWorker
		end := start + profilesPerWorker
		if worker == workerCount-1 {
			end = config.NumProfiles // Last worker gets remaining profiles
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- profileResult{index: i, err: ctx.Err()}
					return
				default:
					profile := generateSingleProfile(i, applicantIDs[i])
					resultChan <- profileResult{index: i, profile: profile, err: nil}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumProfiles; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during profile generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate profile %d: %w", result.index, result.err)
			}
			profiles[result.index] = result.profile
		}
	}

	stats.ProfilesGenerated = len(profiles)
	logger.Get().Info(ctx, "generated profiles successfully", logger.Int("count", len(profiles)))

	return profiles, nil
}

// generateSingleProfile creates a single submission with the given index and
// applicant ID.
func generateSingleProfile(index int, applicantID string) Submission {
	student := generateArchetypeStudent()

	// Current timestamp in RFC3339 format
	timestamp := time.Now().UTC().Format(time.RFC3339)

	// Generate unique submission ID
	randNum := getRandomInt(submissionIDRange)
	submissionID := "sub_" + strconv.FormatInt(int64(index), 10) + "_" + strconv.FormatInt(time.Now().Unix(), 10) + "_" + strconv.Itoa(randNum)

	return Submission{
		SubmissionID: submissionID,
		ApplicantID:  applicantID,
		Student:      student,
		TS:           timestamp,
	}
}

// generateArchetypeStudent creates a student record drawn from one of several
// applicant archetypes so that cohort-wide score distributions look realistic.
func generateArchetypeStudent() record.StudentRecord {
	switch getRandomInt(archetypeCount) {
	case caseAverage:
		// Average applicant: mid GPA and SAT, a few activities
		return record.StudentRecord{
			GPA:           floatPtr(averageGPAMin + getRandomFloat()*averageGPASpan),
			SATScore:      floatPtr(averageSATMin + getRandomFloat()*averageSATSpan),
			ActivityCount: intPtr(getRandomInt(activityCountMax / 2)),
			AwardCount:    intPtr(getRandomInt(2)),
		}
	case caseStrong:
		// Strong academics with moderate extracurriculars
		return record.StudentRecord{
			GPA:           floatPtr(strongGPAMin + getRandomFloat()*strongGPASpan),
			SATScore:      floatPtr(strongSATMin + getRandomFloat()*strongSATSpan),
			ActivityCount: intPtr(2 + getRandomInt(4)),
			AwardCount:    intPtr(1 + getRandomInt(2)),
		}
	case caseModest:
		// Modest academics across the board
		return record.StudentRecord{
			GPA:           floatPtr(modestGPAMin + getRandomFloat()*modestGPASpan),
			SATScore:      floatPtr(modestSATMin + getRandomFloat()*modestSATSpan),
			ActivityCount: intPtr(getRandomInt(3)),
		}
	case caseElite:
		// Elite tail: near-ceiling academics plus national awards
		return record.StudentRecord{
			GPA:                floatPtr(eliteGPAMin + getRandomFloat()*eliteGPASpan),
			SATScore:           floatPtr(eliteSATMin + getRandomFloat()*eliteSATSpan),
			ActivityCount:      intPtr(4 + getRandomInt(5)),
			AwardCount:         intPtr(2 + getRandomInt(3)),
			NationalAwardCount: intPtr(1 + getRandomInt(2)),
		}
	case caseTestOptional:
		// No test scores submitted; GPA carries the profile
		return record.StudentRecord{
			GPA:           floatPtr(averageGPAMin + getRandomFloat()*averageGPASpan),
			ActivityCount: intPtr(getRandomInt(activityCountMax)),
			AwardCount:    intPtr(getRandomInt(3)),
		}
	case caseInternational:
		// International applicant on a 100-point GPA scale with TOEFL
		return record.StudentRecord{
			GPA:           floatPtr(75 + getRandomFloat()*20),
			GPAScale:      floatPtr(100),
			SATScore:      floatPtr(averageSATMin + getRandomFloat()*averageSATSpan),
			TOEFLScore:    floatPtr(toeflMin + getRandomFloat()*toeflSpan),
			ActivityCount: intPtr(getRandomInt(4)),
		}
	case caseActivityHeavy:
		// Extracurricular-heavy profile with middling academics
		return record.StudentRecord{
			GPA:           floatPtr(averageGPAMin + getRandomFloat()*averageGPASpan),
			SATScore:      floatPtr(averageSATMin + getRandomFloat()*averageSATSpan),
			ActivityCount: intPtr(activityCountMax),
			AwardCount:    intPtr(getRandomInt(awardCountMax)),
		}
	case caseWideRange:
		// Uniform across the full range
		return record.StudentRecord{
			GPA:           floatPtr(wideGPAMin + getRandomFloat()*wideGPASpan),
			SATScore:      floatPtr(wideSATMin + getRandomFloat()*wideSATSpan),
			ActivityCount: intPtr(getRandomInt(activityCountMax)),
			AwardCount:    intPtr(getRandomInt(awardCountMax)),
		}
	default:
		return record.StudentRecord{
			GPA:      floatPtr(wideGPAMin + getRandomFloat()*wideGPASpan),
			SATScore: floatPtr(wideSATMin + getRandomFloat()*wideSATSpan),
		}
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
