package seedtool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/matchledger/internal/domain/model"
	"github.com/okian/matchledger/pkg/logger"
)

// Run seeds the ledger at cfg.BaseURL with generated matches and verifies
// the served statistics against a tally of the committed plan.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	cfg := config.withDefaults()
	st := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting ledger seed run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("matches", cfg.Matches),
		logger.Int("poolSize", cfg.PoolSize),
		logger.Int("playersPerMatch", cfg.PlayersPerMatch),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()),
		logger.Int("topN", cfg.TopN),
		logger.Bool("verbose", cfg.Verbose))

	c := NewClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, c); err != nil {
		return st, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate matches
	matches, pool := generateMatches(ctx, cfg, st)

	// Step 3: Snapshot the pool's rows before touching the ledger
	before, err := retrievePlayerStats(ctx, cfg, c, pool)
	if err != nil {
		return st, fmt.Errorf("baseline retrieval failed: %w", err)
	}

	// Step 4: Record them through the draft editor
	committed, err := submitMatches(ctx, cfg, c, matches, st)
	if err != nil {
		return st, fmt.Errorf("match submission failed: %w", err)
	}

	// Step 5: Verify the served statistics
	if err := verifyResults(ctx, cfg, c, before, committed, st); err != nil {
		return st, fmt.Errorf("result verification failed: %w", err)
	}

	// Step 6: Save the plan
	if cfg.OutputFile != "" {
		if err := saveMatchesToFile(ctx, cfg.OutputFile, matches); err != nil {
			log.Warn(ctx, "failed to save matches to file", logger.Error(err))
		}
	}

	st.EndTime = time.Now()
	st.Duration = st.EndTime.Sub(st.StartTime)
	displayFinalStats(ctx, st)

	log.Info(ctx, "seed run completed successfully")
	return st, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, c *Client) error {
	logger.Get().Info(ctx, "checking service health")

	var body struct {
		Status string `json:"status"`
	}
	if err := c.Do(ctx, http.MethodGet, "/healthz", nil, &body); err != nil {
		return fmt.Errorf("failed to reach service: %w", err)
	}
	if body.Status != "ok" {
		return fmt.Errorf("service reported status %q", body.Status)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveMatchesToFile writes the generated plan as a JSON array.
func saveMatchesToFile(ctx context.Context, filename string, matches []model.Match) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal matches: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), logFilePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "matches saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the run statistics.
func displayFinalStats(ctx context.Context, st *Stats) {
	var matchesPerSecond float64
	if st.Duration > 0 {
		matchesPerSecond = float64(st.MatchesCommitted) / st.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("matchesGenerated", st.MatchesGenerated),
		logger.Int("matchesCommitted", st.MatchesCommitted),
		logger.Int("matchesFailed", st.MatchesFailed),
		logger.Int("playerLines", st.PlayerLines),
		logger.Int("leaderboardEntries", st.LeaderboardEntries),
		logger.Int("playersVerified", st.PlayersVerified),
		logger.String("duration", st.Duration.String()),
		logger.Float64("matchesPerSecond", matchesPerSecond))
}
