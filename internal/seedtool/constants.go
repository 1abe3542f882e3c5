package seedtool

import "time"

// Defaults applied by Config.withDefaults.
const (
	defaultMatches         = 20
	defaultPoolSize        = 14
	defaultPlayersPerMatch = 8
	defaultTopN            = 20
	defaultTimeout         = 10 * time.Second
)

// Generator tuning.
const (
	maxGoalsPerLine   = 3
	maxAssistsPerLine = 2
	maxConceded       = 4
	motmOneIn         = 4 // one in N matches has no man of the match
	daysBetweenGames  = 7
)

const (
	dateLayout              = "2006-01-02"
	workerChannelMultiplier = 2
	topDisplay              = 10
	directoryPermission     = 0o750
	logFilePermission       = 0o600
)
