package cohortgen

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveRankings retrieves cohort rankings for all applicants concurrently.
func retrieveRankings(ctx context.Context, config *Config, profiles []Submission, stats *Stats) ([]Entry, error) {
	log.Printf("🏆 Retrieving rankings for %d applicants with %d workers...", len(profiles), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Extract unique applicant IDs
	applicantIDs := make([]string, len(profiles))
	for i, profile := range profiles {
		applicantIDs[i] = profile.ApplicantID
	}

	// Results storage
	rankings := make([]Entry, len(applicantIDs))
	var (
		retrieved int64
		failed    int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	applicantChan := make(chan int, config.Workers*WorkerChannelMultiplier) // Send indices instead of IDs
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range applicantChan {
				select {
				case <-ctx.Done():
					return
				default:
					applicantID := applicantIDs[index]
					entry, err := retrieveSingleRanking(ctx, client, config.BaseURL, applicantID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to get rank for %s: %v", applicantID, err)
						}
					} else {
						rankings[index] = entry
						atomic.AddInt64(&retrieved, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						ret := atomic.LoadInt64(&retrieved)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Ranking progress: %d/%d retrieved (success: %d, failed: %d)",
								total, len(applicantIDs), ret, fail)
						} else {
							log.Printf("\r🏆 Rankings: %d/%d retrieved (success: %d, failed: %d)",
								total, len(applicantIDs), ret, fail)
						}
					}
				}
			}
		}()
	}

	// Send applicant indices to workers
	go func() {
		defer close(applicantChan)
		for i := range applicantIDs {
			select {
			case <-ctx.Done():
				return
			case applicantChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		log.Println() // New line after progress indicator
	}

	// Filter out empty entries (failed retrievals)
	validRankings := make([]Entry, 0, len(rankings))
	for _, entry := range rankings {
		if entry.ApplicantID != "" { // Empty ApplicantID indicates failed retrieval
			validRankings = append(validRankings, entry)
		}
	}

	// Update stats
	stats.RankingsRetrieved = len(validRankings)

	log.Printf(`✅ Ranking retrieval completed:
   Retrieved: %d
   Failed: %d
`, len(validRankings), int(atomic.LoadInt64(&failed)))

	return validRankings, nil
}

// retrieveSingleRanking retrieves the cohort rank for a single applicant.
func retrieveSingleRanking(ctx context.Context, client *HTTPClient, baseURL, applicantID string) (Entry, error) {
	url := fmt.Sprintf("%s/rank/%s", baseURL, applicantID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return Entry{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return Entry{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var entry Entry
	if err := unmarshalJSON(body, &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return entry, nil
}

// getLeaderboard retrieves the top N cohort leaderboard entries.
func getLeaderboard(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	log.Printf("🥇 Getting top %d leaderboard entries...", config.TopN)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/leaderboard?limit=%d", config.BaseURL, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var leaderboard []Entry
	if err := unmarshalJSON(body, &leaderboard); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.LeaderboardEntries = len(leaderboard)
	log.Printf("✅ Retrieved %d leaderboard entries", len(leaderboard))

	return leaderboard, nil
}

// getBands retrieves the cohort quartile bands.
func getBands(ctx context.Context, config *Config, stats *Stats) (Bands, error) {
	log.Println("📐 Getting cohort bands...")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/bands"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return Bands{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Bands{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return Bands{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var bands Bands
	if err := unmarshalJSON(body, &bands); err != nil {
		return Bands{}, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.CohortSizeFromBands = bands.CohortSize
	log.Printf("✅ Retrieved cohort bands (cohort size: %d)", bands.CohortSize)

	return bands, nil
}
