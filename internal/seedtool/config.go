package seedtool

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL         string        // Base URL of the ledger service
	Matches         int           // Number of matches to record
	PlayersPerMatch int           // Player lines per generated match
	PoolSize        int           // Distinct player names to draw from
	TopN            int           // Leaderboard rows to verify
	Workers         int           // Concurrent workers for player lookups
	Timeout         time.Duration // HTTP request timeout
	Seed            uint64        // Generator seed; zero picks one from the clock
	OutputFile      string        // Optional JSON dump of the generated matches
	Verbose         bool          // Log every request
}

func (c *Config) withDefaults() *Config {
	out := *c
	if out.Matches < 1 {
		out.Matches = defaultMatches
	}
	if out.PoolSize < 1 {
		out.PoolSize = defaultPoolSize
	}
	if out.PlayersPerMatch < 1 {
		out.PlayersPerMatch = defaultPlayersPerMatch
	}
	if out.PlayersPerMatch > out.PoolSize {
		out.PlayersPerMatch = out.PoolSize
	}
	if out.TopN < 1 {
		out.TopN = defaultTopN
	}
	if out.Workers < 1 {
		out.Workers = 1
	}
	if out.Timeout <= 0 {
		out.Timeout = defaultTimeout
	}
	if out.Seed == 0 {
		out.Seed = uint64(time.Now().UnixNano())
	}
	return &out
}

// Stats holds run statistics.
type Stats struct {
	MatchesGenerated   int
	MatchesCommitted   int
	MatchesFailed      int
	PlayerLines        int
	LeaderboardEntries int
	PlayersVerified    int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
