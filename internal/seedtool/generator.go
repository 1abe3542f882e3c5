package seedtool

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/okian/matchledger/internal/domain/model"
	"github.com/okian/matchledger/pkg/logger"
)

var baseNames = []string{
	"Jansen", "Bakker", "de Vries", "Visser", "Smit", "Meijer", "de Boer", "Mulder",
	"de Groot", "Bos", "Vos", "Peters", "Hendriks", "van Leeuwen", "Dekker", "Brouwer",
}

var opponents = []string{
	"Ajax", "Feyenoord", "PSV", "AZ", "Twente", "Utrecht", "Vitesse", "Heerenveen",
}

// Generator produces reproducible match plans from a seed.
type Generator struct {
	rng   *rand.Rand
	pool  []string
	per   int
	start time.Time
}

// NewGenerator builds a generator for cfg. Equal seeds give equal plans.
func NewGenerator(cfg *Config) *Generator {
	cfg = cfg.withDefaults()
	return &Generator{
		rng:   rand.New(rand.NewPCG(cfg.Seed, cfg.Seed>>1|1)),
		pool:  namePool(cfg.PoolSize),
		per:   cfg.PlayersPerMatch,
		start: time.Date(2024, time.August, 31, 0, 0, 0, 0, time.UTC),
	}
}

// namePool returns n distinct player names.
func namePool(n int) []string {
	out := make([]string, 0, n)
	for i := 0; len(out) < n; i++ {
		name := baseNames[i%len(baseNames)]
		if round := i / len(baseNames); round > 0 {
			name = fmt.Sprintf("%s %d", name, round+1)
		}
		out = append(out, name)
	}
	return out
}

// Pool returns the player names the generator draws from.
func (g *Generator) Pool() []string { return append([]string(nil), g.pool...) }

// Match plans the i-th match of the season.
func (g *Generator) Match(i int) model.Match {
	picks := g.rng.Perm(len(g.pool))[:g.per]

	m := model.Match{
		Opponent: opponents[g.rng.IntN(len(opponents))],
		Date:     g.start.AddDate(0, 0, i*daysBetweenGames).Format(dateLayout),
		HomeAway: model.Home,
		Players:  make([]model.PlayerLine, 0, len(picks)),
	}
	if g.rng.IntN(2) == 1 {
		m.HomeAway = model.Away
	}

	scored := 0
	for _, p := range picks {
		line := model.PlayerLine{
			Name:    g.pool[p],
			Goals:   g.rng.IntN(maxGoalsPerLine + 1),
			Assists: g.rng.IntN(maxAssistsPerLine + 1),
		}
		scored += line.Goals
		m.Players = append(m.Players, line)
	}
	if g.rng.IntN(motmOneIn) != 0 {
		m.Players[g.rng.IntN(len(m.Players))].IsMotm = true
	}
	m.Score = fmt.Sprintf("%d-%d", scored, g.rng.IntN(maxConceded+1))
	return m
}

// generateMatches plans cfg.Matches matches and returns them with the
// name pool they draw from.
func generateMatches(ctx context.Context, cfg *Config, stats *Stats) ([]model.Match, []string) {
	g := NewGenerator(cfg)
	out := make([]model.Match, cfg.Matches)
	lines := 0
	for i := range out {
		out[i] = g.Match(i)
		lines += len(out[i].Players)
	}
	stats.MatchesGenerated = len(out)
	stats.PlayerLines = lines

	logger.Get().Info(ctx, "generated matches",
		logger.Int("matches", len(out)),
		logger.Int("playerLines", lines),
		logger.Any("seed", cfg.Seed))
	return out, g.Pool()
}
