package cohortgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ywutian/admitscore/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete cohort load test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting cohort load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("profiles", config.NumProfiles),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate profiles
	profiles, err := generateProfiles(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("profile generation failed: %w", err)
	}

	// Step 3: Submit profiles concurrently
	if err := submitProfiles(ctx, config, profiles, stats); err != nil {
		return fmt.Errorf("profile submission failed: %w", err)
	}

	// Step 4: Wait for processing
	logger.Get().Info(ctx, "waiting for profiles to be processed")
	time.Sleep(ProcessingDelay)

	// Step 5: Retrieve rankings concurrently
	rankings, err := retrieveRankings(ctx, config, profiles, stats)
	if err != nil {
		return fmt.Errorf("ranking retrieval failed: %w", err)
	}

	// Step 6: Get leaderboard
	leaderboard, err := getLeaderboard(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}

	// Step 7: Get cohort bands
	bands, err := getBands(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("bands retrieval failed: %w", err)
	}

	// Step 8: Verify results
	if err := verifyResults(config, rankings, leaderboard, bands); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 9: Save profiles to file
	if err := saveProfilesToFile(ctx, config, profiles); err != nil {
		logger.Get().Warn(ctx, "failed to save profiles to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveProfilesToFile saves the generated profiles to a JSON file.
func saveProfilesToFile(ctx context.Context, config *Config, profiles []Submission) error {
	if len(profiles) == 0 {
		return fmt.Errorf("no profiles to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_profiles_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write profiles to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, profile := range profiles {
		jsonData, err := marshalJSON(profile)
		if err != nil {
			return fmt.Errorf("failed to marshal profile %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write profile %d: %w", i, err)
		}

		// Add comma except for last profile
		if i < len(profiles)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "profiles saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, profilesPerSecond float64

	if stats.ProfilesSubmitted > 0 {
		successRate = float64(stats.ProfilesSuccessful) / float64(stats.ProfilesSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		profilesPerSecond = float64(stats.ProfilesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("profilesGenerated", stats.ProfilesGenerated),
		logger.Int("profilesSubmitted", stats.ProfilesSubmitted),
		logger.Int("profilesSuccessful", stats.ProfilesSuccessful),
		logger.Int("profilesDuplicate", stats.ProfilesDuplicate),
		logger.Int("profilesFailed", stats.ProfilesFailed),
		logger.Int("rankingsRetrieved", stats.RankingsRetrieved),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.Int("cohortSizeFromBands", stats.CohortSizeFromBands),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("profilesPerSecond", profilesPerSecond))
}
