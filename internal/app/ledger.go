package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/matchledger/internal/adapters/repository"
	"github.com/okian/matchledger/internal/domain/model"
	"github.com/okian/matchledger/internal/domain/roster"
	"github.com/okian/matchledger/internal/domain/stats"
	"github.com/okian/matchledger/internal/domain/types"
	"github.com/okian/matchledger/pkg/logger"
	"github.com/okian/matchledger/pkg/metrics"
)

// Matches returns the collection, most recent first.
func (s *Service) Matches() ([]model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStarted(); err != nil {
		return nil, err
	}
	return model.CloneMatches(s.matches), nil
}

// Match returns one match by id.
func (s *Service) Match(id string) (model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStarted(); err != nil {
		return model.Match{}, err
	}
	i := s.matchIndex(id)
	if i < 0 {
		return model.Match{}, fmt.Errorf("match %q: %w", id, ErrNotFound)
	}
	return s.matches[i].Clone(), nil
}

// DeleteMatch removes a match. Without confirmed it does nothing and
// returns ErrConfirmationRequired.
func (s *Service) DeleteMatch(ctx context.Context, id string, confirmed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStarted(); err != nil {
		return err
	}
	i := s.matchIndex(id)
	if i < 0 {
		return fmt.Errorf("match %q: %w", id, ErrNotFound)
	}
	if !confirmed {
		return fmt.Errorf("delete match %q: %w", id, ErrConfirmationRequired)
	}

	s.matches = append(s.matches[:i], s.matches[i+1:]...)
	metrics.RecordDeletion("match")
	s.updateGauges()
	s.logger.Info(ctx, "match deleted", logger.String("id", id))

	return s.persist(ctx, repository.MatchesKey)
}

// Roster returns the roster in insertion order.
func (s *Service) Roster() ([]model.RosterEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStarted(); err != nil {
		return nil, err
	}
	return s.roster.Entries(), nil
}

// RenamePlayer renames a roster entry and rewrites every player line that
// carries the old name, in the collection and in the draft. Renaming onto
// a name already in use merges the two players. A blank name is a no-op.
func (s *Service) RenamePlayer(ctx context.Context, id, newName string) (model.RosterEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStarted(); err != nil {
		return model.RosterEntry{}, err
	}

	old, n, err := s.roster.Rename(id, newName, s.matches)
	if err != nil {
		return model.RosterEntry{}, s.rosterErr(err)
	}
	entry, _ := s.roster.Get(id)
	if entry.Name == old {
		return entry, nil
	}
	drafted := s.draft.RenamePlayer(id, old, entry.Name)

	metrics.RecordRenameCascade(n)
	s.updateGauges()
	s.logger.Info(ctx, "player renamed",
		logger.String("id", id),
		logger.String("from", old),
		logger.String("to", entry.Name),
		logger.Int("matchLines", n),
		logger.Int("draftLines", drafted),
	)

	keys := []string{repository.RosterKey}
	if n > 0 {
		keys = append(keys, repository.MatchesKey)
	}
	return entry, s.persist(ctx, keys...)
}

// DeleteRosterEntry removes a roster entry. Matches keep the name on
// their lines. Without confirmed it does nothing and returns
// ErrConfirmationRequired.
func (s *Service) DeleteRosterEntry(ctx context.Context, id string, confirmed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStarted(); err != nil {
		return err
	}
	if _, err := s.roster.Get(id); err != nil {
		return s.rosterErr(err)
	}
	if !confirmed {
		return fmt.Errorf("delete roster entry %q: %w", id, ErrConfirmationRequired)
	}

	e, err := s.roster.Delete(id)
	if err != nil {
		return s.rosterErr(err)
	}
	metrics.RecordDeletion("roster")
	s.updateGauges()
	s.logger.Info(ctx, "roster entry deleted", logger.String("id", id), logger.String("name", e.Name))

	return s.persist(ctx, repository.RosterKey)
}

// Leaderboard aggregates season totals and returns the top rows.
// limit <= 0 returns every row.
func (s *Service) Leaderboard(_ context.Context, limit int) ([]types.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStarted(); err != nil {
		return nil, err
	}
	totals := stats.Aggregate(s.matches, s.roster.Entries(), s.statsSource)
	return stats.Leaderboard(totals, limit), nil
}

// PlayerStats returns the leaderboard row for one player name.
func (s *Service) PlayerStats(_ context.Context, name string) (types.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStarted(); err != nil {
		return types.Entry{}, err
	}
	totals := stats.Aggregate(s.matches, s.roster.Entries(), s.statsSource)
	if e, ok := stats.Lookup(stats.Leaderboard(totals, 0), name); ok {
		return e, nil
	}
	return types.Entry{}, fmt.Errorf("player %q: %w", name, ErrNotFound)
}

func (s *Service) matchIndex(id string) int {
	for i := range s.matches {
		if s.matches[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) rosterErr(err error) error {
	if errors.Is(err, roster.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
