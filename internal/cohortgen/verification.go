package cohortgen

import (
	"fmt"
	"log"
	"sort"
)

// verifyResults verifies the consistency of rankings, leaderboard and bands.
func verifyResults(config *Config, rankings, leaderboard []Entry, bands Bands) error {
	log.Println("🔍 Verifying results...")

	if len(rankings) == 0 {
		return fmt.Errorf("no rankings to verify")
	}

	// Sort rankings by overall score (descending) to get top applicants
	sortedRankings := make([]Entry, len(rankings))
	copy(sortedRankings, rankings)
	sort.Slice(sortedRankings, func(i, j int) bool {
		return sortedRankings[i].Overall > sortedRankings[j].Overall
	})

	// Verify leaderboard consistency if we have leaderboard data
	if len(leaderboard) > 0 {
		if err := verifyLeaderboardConsistency(sortedRankings, leaderboard); err != nil {
			log.Printf("⚠️  Leaderboard consistency warning: %v", err)
		} else {
			log.Println("✅ Leaderboard consistency verified")
		}
	}

	// Verify band ordering
	if err := verifyBandOrdering(bands); err != nil {
		log.Printf("⚠️  Band ordering warning: %v", err)
	} else {
		log.Println("✅ Cohort bands verified")
	}

	// Display top applicants
	displayTopApplicants(sortedRankings, leaderboard, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyLeaderboardConsistency checks if leaderboard matches top rankings.
func verifyLeaderboardConsistency(sortedRankings, leaderboard []Entry) error {
	if len(leaderboard) == 0 {
		return fmt.Errorf("empty leaderboard")
	}

	// Check if top entry in leaderboard matches highest ranked applicant
	topRanking := sortedRankings[0]
	topLeaderboard := leaderboard[0]

	if topRanking.ApplicantID != topLeaderboard.ApplicantID {
		return fmt.Errorf("top leaderboard entry (%s) does not match top ranked applicant (%s)",
			topLeaderboard.ApplicantID, topRanking.ApplicantID)
	}

	if topRanking.Overall != topLeaderboard.Overall {
		return fmt.Errorf("top leaderboard score (%.3f) does not match top ranked score (%.3f)",
			topLeaderboard.Overall, topRanking.Overall)
	}

	// Check if leaderboard is properly sorted
	for i := 1; i < len(leaderboard); i++ {
		if leaderboard[i].Overall > leaderboard[i-1].Overall {
			return fmt.Errorf("leaderboard not properly sorted: entry %d has higher score than entry %d",
				i, i-1)
		}
	}

	return nil
}

// verifyBandOrdering checks that every quartile band is ordered p25<=p50<=p75.
func verifyBandOrdering(bands Bands) error {
	check := func(name string, b Band) error {
		if b.P25 > b.P50 || b.P50 > b.P75 {
			return fmt.Errorf("%s band out of order: p25=%.3f p50=%.3f p75=%.3f", name, b.P25, b.P50, b.P75)
		}
		return nil
	}

	if err := check("overall", bands.Overall); err != nil {
		return err
	}
	if err := check("academic", bands.Academic); err != nil {
		return err
	}
	if err := check("activity", bands.Activity); err != nil {
		return err
	}
	return check("award", bands.Award)
}

// displayTopApplicants shows the top applicants from rankings and leaderboard.
func displayTopApplicants(sortedRankings, leaderboard []Entry, verbose bool) {
	topN := 10
	if len(sortedRankings) < topN {
		topN = len(sortedRankings)
	}

	log.Printf("🏆 Top %d applicants from rankings:", topN)
	for i := 0; i < topN; i++ {
		entry := sortedRankings[i]
		log.Printf("   %d. %s - Overall: %.3f", i+1, entry.ApplicantID, entry.Overall)
	}

	if len(leaderboard) > 0 {
		leaderboardTopN := topN
		if len(leaderboard) < leaderboardTopN {
			leaderboardTopN = len(leaderboard)
		}

		log.Printf("🥇 Top %d applicants from leaderboard:", leaderboardTopN)
		for i := 0; i < leaderboardTopN; i++ {
			entry := leaderboard[i]
			log.Printf("   %d. %s - Overall: %.3f", i+1, entry.ApplicantID, entry.Overall)
		}
	}

	if verbose {
		// Show some statistics
		if len(sortedRankings) > 0 {
			avgScore := calculateAverageOverall(sortedRankings)
			maxScore := sortedRankings[0].Overall
			minScore := sortedRankings[len(sortedRankings)-1].Overall

			log.Printf(`📊 Overall score statistics:
   Average: %.3f
   Maximum: %.3f
   Minimum: %.3f
`, avgScore, maxScore, minScore)
		}
	}
}

// calculateAverageOverall calculates the average overall score from rankings.
func calculateAverageOverall(rankings []Entry) float64 {
	if len(rankings) == 0 {
		return 0
	}

	sum := 0.0
	for _, entry := range rankings {
		sum += entry.Overall
	}

	return sum / float64(len(rankings))
}
