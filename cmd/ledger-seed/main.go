package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/matchledger/internal/seedtool"
)

// Default configuration constants.
const (
	defaultMatches  = 20
	defaultPlayers  = 8
	defaultPool     = 14
	defaultTopN     = 20
	defaultTimeout  = 10 * time.Second
	defaultDeadline = 5 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		matches    = flag.Int("matches", defaultMatches, "Number of matches to record")
		players    = flag.Int("players", defaultPlayers, "Player lines per match")
		pool       = flag.Int("pool", defaultPool, "Distinct player names to draw from")
		topN       = flag.Int("top", defaultTopN, "Leaderboard rows to verify")
		workers    = flag.Int("workers", runtime.NumCPU(), "Concurrent workers for player lookups")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed       = flag.Uint64("seed", 0, "Generator seed (0 picks one from the clock)")
		outputFile = flag.String("output", "", "Write the generated matches to this JSON file")
		logFile    = flag.String("log", "", "Log file (default: seed_log_TIMESTAMP.log, - for stdout only)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seedtool.ShowHelp()
		return
	}

	closer, err := seedtool.SetupLogging(*logFile, *verbose)
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultDeadline)
	defer cancel()

	config := &seedtool.Config{
		BaseURL:         *baseURL,
		Matches:         *matches,
		PlayersPerMatch: *players,
		PoolSize:        *pool,
		TopN:            *topN,
		Workers:         *workers,
		Timeout:         *timeout,
		Seed:            *seed,
		OutputFile:      *outputFile,
		Verbose:         *verbose,
	}

	if _, err := seedtool.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Seed run failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
