package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/matchledger/internal/adapters/repository"
	"github.com/okian/matchledger/internal/domain/draft"
	"github.com/okian/matchledger/internal/domain/model"
	"github.com/okian/matchledger/pkg/logger"
	"github.com/okian/matchledger/pkg/metrics"
)

// Draft returns a copy of the current draft.
func (s *Service) Draft() (draft.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStarted(); err != nil {
		return draft.State{}, err
	}
	return s.draft.State(), nil
}

// SetField stores one raw draft field value.
func (s *Service) SetField(ctx context.Context, f draft.Field, value string) (draft.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStarted(); err != nil {
		return draft.State{}, err
	}
	if err := s.draft.SetField(f, value); err != nil {
		return s.draft.State(), fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	s.logger.Debug(ctx, "draft field set", logger.String("field", string(f)))
	return s.draft.State(), nil
}

// AddPlayer attaches name to the draft, creating a roster entry first
// when the name was never seen. A blank name is a no-op.
func (s *Service) AddPlayer(ctx context.Context, name string) (draft.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStarted(); err != nil {
		return draft.State{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return s.draft.State(), nil
	}

	entry, created := s.roster.Ensure(name)
	attached := s.draft.Attach(entry)
	s.updateGauges()

	s.logger.Debug(ctx, "player added to draft",
		logger.String("name", entry.Name),
		logger.Bool("newRosterEntry", created),
		logger.Bool("attached", attached),
	)

	if created {
		if err := s.persist(ctx, repository.RosterKey); err != nil {
			return s.draft.State(), err
		}
	}
	return s.draft.State(), nil
}

// UpdateGoals parses raw and stores it on the named draft line.
func (s *Service) UpdateGoals(_ context.Context, name, raw string) (draft.State, error) {
	return s.updateLine(name, func(d *draft.Draft) bool { return d.UpdateGoals(name, raw) })
}

// UpdateAssists parses raw and stores it on the named draft line.
func (s *Service) UpdateAssists(_ context.Context, name, raw string) (draft.State, error) {
	return s.updateLine(name, func(d *draft.Draft) bool { return d.UpdateAssists(name, raw) })
}

// ToggleMotm flips the named line's MOTM flag.
func (s *Service) ToggleMotm(_ context.Context, name string) (draft.State, error) {
	return s.updateLine(name, func(d *draft.Draft) bool { return d.ToggleMotm(name) })
}

// RemovePlayer drops the named line from the draft. The roster entry stays.
func (s *Service) RemovePlayer(_ context.Context, name string) (draft.State, error) {
	return s.updateLine(name, func(d *draft.Draft) bool { return d.RemovePlayer(name) })
}

func (s *Service) updateLine(name string, fn func(*draft.Draft) bool) (draft.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStarted(); err != nil {
		return draft.State{}, err
	}
	if !fn(s.draft) {
		return s.draft.State(), fmt.Errorf("%q: %w", name, ErrNotOnDraft)
	}
	metrics.UpdateDraftPlayers(s.draft.Len())
	return s.draft.State(), nil
}

// BeginEdit loads the match with id into the draft.
func (s *Service) BeginEdit(ctx context.Context, id string) (draft.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStarted(); err != nil {
		return draft.State{}, err
	}
	i := s.matchIndex(id)
	if i < 0 {
		return s.draft.State(), fmt.Errorf("match %q: %w", id, ErrNotFound)
	}
	s.draft.BeginEdit(s.matches[i])
	metrics.UpdateDraftPlayers(s.draft.Len())
	s.logger.Debug(ctx, "editing match", logger.String("id", id))
	return s.draft.State(), nil
}

// CancelEdit clears the draft and the edit target.
func (s *Service) CancelEdit(ctx context.Context) (draft.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStarted(); err != nil {
		return draft.State{}, err
	}
	s.draft.Reset(s.today())
	metrics.UpdateDraftPlayers(0)
	s.logger.Debug(ctx, "draft cancelled")
	return s.draft.State(), nil
}

// Commit validates the draft and writes it into the collection. With an
// edit target the match at that position is replaced; otherwise a new
// match is inserted at the front. If the target was deleted meanwhile the
// draft is inserted at the front under the target id. On validation
// failure nothing changes and the error wraps *draft.ValidationError.
//
// When only the write fails, the match is committed in memory and the
// returned error wraps ErrPersist.
func (s *Service) Commit(ctx context.Context) (model.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStarted(); err != nil {
		return model.Match{}, err
	}

	if err := s.draft.Validate(s.scoreRequired); err != nil {
		metrics.RecordValidationFailure()
		s.logger.Debug(ctx, "commit rejected", logger.Error(err))
		return model.Match{}, err
	}

	mode := "insert"
	target := s.draft.EditTarget()
	var m model.Match
	if target != "" {
		m = s.draft.Build(target)
		if i := s.matchIndex(target); i >= 0 {
			s.matches[i] = m
			mode = "replace"
		} else {
			s.matches = append([]model.Match{m}, s.matches...)
		}
	} else {
		m = s.draft.Build(s.newID())
		s.matches = append([]model.Match{m}, s.matches...)
	}

	s.draft.Reset(s.today())
	metrics.RecordCommit(mode)
	s.updateGauges()
	s.logger.Debug(ctx, "draft committed",
		logger.String("id", m.ID),
		logger.String("mode", mode),
		logger.Int("players", len(m.Players)),
	)

	return m.Clone(), s.persist(ctx, repository.MatchesKey)
}
