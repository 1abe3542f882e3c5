// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and LEDGER_* env vars.
// - External errors are wrapped with this package's sentinel kinds.
package config

// Storage backends.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Storage selects the blob backend: memory, file, sqlite or postgres.
	Storage string `koanf:"storage"`

	// DataDir holds one JSON file per collection for the file backend.
	DataDir string `koanf:"data_dir"`

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`

	// PostgresURL is the connection string for the postgres backend.
	PostgresURL string `koanf:"postgres_url"`

	// ScoreRequired makes score a required field at commit time.
	ScoreRequired bool `koanf:"score_required"`

	// StatsSource is "matches" or "roster".
	StatsSource string `koanf:"stats_source"`

	// DraftPrefillToday fills the date of a fresh draft with today's date.
	DraftPrefillToday bool `koanf:"draft_prefill_today"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		Storage:             StorageFile,
		DataDir:             "data",
		SQLitePath:          "ledger.db",
		ScoreRequired:       true,
		StatsSource:         "matches",
		DraftPrefillToday:   false,
		MaxLeaderboardLimit: 100,
		MaxBodyBytes:        1 << 20,
	}
}
