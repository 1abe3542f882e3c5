package seedtool

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/matchledger/internal/domain/model"
	"github.com/okian/matchledger/internal/domain/types"
	"github.com/okian/matchledger/pkg/logger"
)

// tallyPlan sums the planned lines of every committed match by name.
func tallyPlan(committed []submission) map[string]types.Entry {
	out := make(map[string]types.Entry)
	for _, s := range committed {
		for _, p := range s.plan.Players {
			e := out[p.Name]
			e.Name = p.Name
			e.Goals += p.Goals
			e.Assists += p.Assists
			if p.IsMotm {
				e.Motm++
			}
			out[p.Name] = e
		}
	}
	return out
}

// expectedRows adds the tally to the rows seen before the run.
func expectedRows(before []types.Entry, tally map[string]types.Entry) []types.Entry {
	want := make([]types.Entry, len(before))
	for i, b := range before {
		t := tally[b.Name]
		want[i] = types.Entry{
			Name:    b.Name,
			Goals:   b.Goals + t.Goals,
			Assists: b.Assists + t.Assists,
			Motm:    b.Motm + t.Motm,
		}
		want[i].Total = want[i].Goals + want[i].Assists + want[i].Motm
	}
	return want
}

func sameCounts(a, b types.Entry) bool {
	return a.Goals == b.Goals && a.Assists == b.Assists && a.Motm == b.Motm && a.Total == b.Total
}

// verifyCommitted checks every committed match is listed by the service.
func verifyCommitted(committed []submission, served []model.Match) error {
	ids := make(map[string]bool, len(served))
	for _, m := range served {
		ids[m.ID] = true
	}
	for _, s := range committed {
		if !ids[s.served.ID] {
			return fmt.Errorf("%w: committed match %s (%s) is not listed", ErrVerification, s.served.ID, s.served.Opponent)
		}
	}
	return nil
}

// checkLeaderboard checks the served rows are ranked by total and that
// every total is the sum of its parts.
func checkLeaderboard(entries []types.Entry) error {
	for i, e := range entries {
		if e.Rank != i+1 {
			return fmt.Errorf("%w: row %d has rank %d", ErrVerification, i+1, e.Rank)
		}
		if e.Total != e.Goals+e.Assists+e.Motm {
			return fmt.Errorf("%w: row %d total %d is not goals+assists+motm", ErrVerification, i+1, e.Total)
		}
		if i > 0 && e.Total > entries[i-1].Total {
			return fmt.Errorf("%w: row %d total %d exceeds row %d", ErrVerification, i+1, e.Total, i)
		}
	}
	return nil
}

// comparePlayerStats checks the per-player rows against the expected
// counts and returns how many agree.
func comparePlayerStats(want, got []types.Entry) (int, error) {
	var errs []error
	ok := 0
	for i := range want {
		if !sameCounts(want[i], got[i]) {
			errs = append(errs, fmt.Errorf("%w: player %q is %+v, expected %+v", ErrVerification, want[i].Name, got[i], want[i]))
			continue
		}
		ok++
	}
	return ok, errors.Join(errs...)
}

// crossCheck compares leaderboard rows with the per-player rows of the
// same names.
func crossCheck(board, players []types.Entry) error {
	byName := make(map[string]types.Entry, len(players))
	for _, p := range players {
		byName[p.Name] = p
	}
	for _, e := range board {
		p, ok := byName[e.Name]
		if !ok {
			continue
		}
		if p.Rank != e.Rank || !sameCounts(p, e) {
			return fmt.Errorf("%w: leaderboard row %+v disagrees with player row %+v", ErrVerification, e, p)
		}
	}
	return nil
}

// verifyResults checks the served statistics against the rows seen before
// the run plus a tally of the committed plan.
func verifyResults(ctx context.Context, cfg *Config, c *Client, before []types.Entry, committed []submission, st *Stats) error {
	log := logger.Get()
	log.Info(ctx, "verifying results")

	var served []model.Match
	if err := c.Do(ctx, http.MethodGet, "/matches", nil, &served); err != nil {
		return err
	}
	if err := verifyCommitted(committed, served); err != nil {
		return err
	}

	names := make([]string, len(before))
	for i, b := range before {
		names[i] = b.Name
	}
	after, err := retrievePlayerStats(ctx, cfg, c, names)
	if err != nil {
		return err
	}
	verified, err := comparePlayerStats(expectedRows(before, tallyPlan(committed)), after)
	st.PlayersVerified = verified
	if err != nil {
		return err
	}

	board, err := getLeaderboard(ctx, cfg, c, st)
	if err != nil {
		return err
	}
	if err := checkLeaderboard(board); err != nil {
		return err
	}
	if err := crossCheck(board, after); err != nil {
		return err
	}

	displayTopPlayers(ctx, board)
	log.Info(ctx, "result verification completed", logger.Int("playersVerified", verified))
	return nil
}

func displayTopPlayers(ctx context.Context, entries []types.Entry) {
	n := min(len(entries), topDisplay)
	for _, e := range entries[:n] {
		logger.Get().Info(ctx, "top player",
			logger.Int("rank", e.Rank),
			logger.String("name", e.Name),
			logger.Int("goals", e.Goals),
			logger.Int("assists", e.Assists),
			logger.Int("motm", e.Motm),
			logger.Int("total", e.Total))
	}
}
