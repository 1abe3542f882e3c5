package seedtool

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/okian/matchledger/internal/domain/model"
	"github.com/okian/matchledger/pkg/logger"
)

// submission pairs a planned match with the service's echo of it.
type submission struct {
	plan   model.Match
	served model.Match
}

// submitMatches records every match through the draft editor. The ledger
// has a single draft, so matches go in one at a time.
func submitMatches(ctx context.Context, cfg *Config, c *Client, matches []model.Match, stats *Stats) ([]submission, error) {
	log := logger.Get()
	log.Info(ctx, "submitting matches", logger.Int("count", len(matches)))

	if err := c.Do(ctx, http.MethodDelete, "/draft", nil, nil); err != nil {
		return nil, fmt.Errorf("reset draft: %w", err)
	}

	committed := make([]submission, 0, len(matches))
	for i, m := range matches {
		if err := ctx.Err(); err != nil {
			return committed, err
		}
		got, err := submitMatch(ctx, c, m)
		if err != nil {
			stats.MatchesFailed++
			log.Warn(ctx, "match submission failed", logger.Int("index", i), logger.Error(err))
			// leave the draft clean for the next match
			_ = c.Do(ctx, http.MethodDelete, "/draft", nil, nil)
			continue
		}
		committed = append(committed, submission{plan: m, served: got})
		stats.MatchesCommitted++
		if cfg.Verbose {
			log.Debug(ctx, "match committed",
				logger.String("id", got.ID),
				logger.String("opponent", got.Opponent),
				logger.String("date", got.Date),
				logger.String("score", got.Score))
		}
	}

	log.Info(ctx, "match submission completed",
		logger.Int("committed", stats.MatchesCommitted),
		logger.Int("failed", stats.MatchesFailed))
	return committed, nil
}

// submitMatch fills the draft with m and commits it.
func submitMatch(ctx context.Context, c *Client, m model.Match) (model.Match, error) {
	fields := map[string]string{
		"opponent": m.Opponent,
		"date":     m.Date,
		"score":    m.Score,
		"homeAway": string(m.HomeAway),
	}
	if err := c.Do(ctx, http.MethodPatch, "/draft", fields, nil); err != nil {
		return model.Match{}, err
	}

	for _, p := range m.Players {
		if err := c.Do(ctx, http.MethodPost, "/draft/players", map[string]string{"name": p.Name}, nil); err != nil {
			return model.Match{}, err
		}
		path := "/draft/players/" + url.PathEscape(p.Name)
		if p.Goals != 0 || p.Assists != 0 {
			// assists go over the wire as text, the way a form field would send them
			body := map[string]any{"goals": p.Goals, "assists": strconv.Itoa(p.Assists)}
			if err := c.Do(ctx, http.MethodPatch, path, body, nil); err != nil {
				return model.Match{}, err
			}
		}
		if p.IsMotm {
			if err := c.Do(ctx, http.MethodPost, path+"/motm", nil, nil); err != nil {
				return model.Match{}, err
			}
		}
	}

	var out model.Match
	if err := c.Do(ctx, http.MethodPost, "/draft/commit", nil, &out); err != nil {
		return model.Match{}, err
	}
	return out, nil
}
