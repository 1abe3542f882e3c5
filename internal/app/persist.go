package service

import (
	"context"
	"errors"

	"github.com/okian/matchledger/internal/adapters/repository"
	"github.com/okian/matchledger/pkg/logger"
	"github.com/okian/matchledger/pkg/metrics"
)

// persist writes the given collection keys through. A failed key stays
// pending; the in-memory state remains authoritative until a later
// write of that key succeeds.
func (s *Service) persist(ctx context.Context, keys ...string) error {
	var errs []error
	for _, key := range keys {
		var err error
		switch key {
		case repository.MatchesKey:
			err = s.repo.SaveMatches(ctx, s.matches)
		case repository.RosterKey:
			err = s.repo.SaveRoster(ctx, s.roster.Entries())
		}
		if err != nil {
			s.pending[key] = true
			s.logger.Error(ctx, "persist failed, keeping in-memory state",
				logger.String("key", key),
				logger.Error(err),
			)
			errs = append(errs, err)
			continue
		}
		delete(s.pending, key)
	}
	metrics.UpdatePendingWrites(len(s.pending))
	return errors.Join(errs...)
}

// Flush retries every collection whose last write failed.
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStarted(); err != nil {
		return err
	}
	return s.flushLocked(ctx)
}

func (s *Service) flushLocked(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	keys := make([]string, 0, len(s.pending))
	for _, k := range []string{repository.MatchesKey, repository.RosterKey} {
		if s.pending[k] {
			keys = append(keys, k)
		}
	}
	s.logger.Info(ctx, "flushing pending writes", logger.Int("keys", len(keys)))
	return s.persist(ctx, keys...)
}

// PendingWrites reports how many collections are waiting to be written.
func (s *Service) PendingWrites() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
