package seedtool

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/matchledger/pkg/logger"
)

// SetupLogging logs to stdout and to logFile. An empty logFile gets a
// timestamped name; "-" logs to stdout only.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	var (
		out    io.Writer = os.Stdout
		closer io.Closer = io.NopCloser(nil)
	)

	if logFile != "-" {
		if logFile == "" {
			logFile = "seed_log_" + time.Now().Format("20060102_150405") + ".log"
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, f)
		closer = f
	}

	if err := logger.Init(logger.WithWriter(out)); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closer, nil
}

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Match Ledger Seed Tool
======================

Records a generated season through the draft editor API and checks that
the served leaderboard matches one recomputed from the served matches.

Usage:
  go run ./cmd/ledger-seed [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -matches int
        Number of matches to record (default 20)
  -players int
        Player lines per match (default 8)
  -pool int
        Distinct player names to draw from (default 14)
  -top int
        Leaderboard rows to verify (default 20)
  -workers int
        Concurrent workers for player lookups (default CPU cores)
  -timeout duration
        HTTP request timeout (default 10s)
  -seed uint
        Generator seed, 0 picks one from the clock (default 0)
  -output string
        Write the generated matches to this JSON file
  -log string
        Log file (default: seed_log_TIMESTAMP.log, "-" for stdout only)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed a local ledger with a reproducible season
  go run ./cmd/ledger-seed -seed 42

  # Larger squad against another instance
  go run ./cmd/ledger-seed -matches 40 -pool 22 -players 11 -url http://localhost:8080
`)
}
