// Package service owns the ledger state: the match collection, the
// roster and the draft. Every operation runs to completion under one
// lock and writes the affected collection through before returning.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/matchledger/internal/adapters/repository"
	"github.com/okian/matchledger/internal/domain/draft"
	"github.com/okian/matchledger/internal/domain/model"
	"github.com/okian/matchledger/internal/domain/roster"
	"github.com/okian/matchledger/internal/domain/stats"
	"github.com/okian/matchledger/pkg/logger"
	"github.com/okian/matchledger/pkg/metrics"
)

const dateLayout = "2006-01-02"

// Service is the match ledger.
type Service struct {
	mu sync.Mutex

	// State
	matches []model.Match
	roster  *roster.Roster
	draft   *draft.Draft
	pending map[string]bool
	started bool

	// Dependencies
	store repository.BlobStore
	repo  *repository.Repository

	// Configuration
	scoreRequired bool
	statsSource   stats.Source
	prefillToday  bool
	now           func() time.Time
	newID         func() string

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the blob backend. Defaults to an in-memory store.
func WithStore(store repository.BlobStore) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithScoreRequired makes score a required field at commit.
func WithScoreRequired(required bool) Option {
	return func(s *Service) {
		s.scoreRequired = required
	}
}

// WithStatsSource selects which players the leaderboard lists.
func WithStatsSource(src stats.Source) Option {
	return func(s *Service) {
		if src != "" {
			s.statsSource = src
		}
	}
}

// WithPrefillToday fills the date of every fresh draft with today.
func WithPrefillToday(on bool) Option {
	return func(s *Service) {
		s.prefillToday = on
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the generator for match and roster ids.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		scoreRequired: true,
		statsSource:   stats.FromMatches,
		now:           time.Now,
		newID:         newUUID,
		pending:       make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	s.repo = repository.New(s.store)
	return s
}

// newUUID returns a time-ordered id, so ids also sort by creation.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Start loads both collections from storage. A malformed blob aborts
// start-up with repository.ErrCorruptBlob.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting match ledger...")

	matches, err := s.repo.LoadMatches(ctx)
	if err != nil {
		return fmt.Errorf("load matches: %w", err)
	}
	entries, err := s.repo.LoadRoster(ctx)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	s.matches = matches
	s.roster = roster.New(entries, s.newID)
	s.draft = draft.New(s.today())
	s.started = true

	s.updateGauges()
	s.logger.Info(ctx, "match ledger started",
		logger.Int("matches", len(s.matches)),
		logger.Int("roster", s.roster.Len()),
		logger.Bool("scoreRequired", s.scoreRequired),
		logger.String("statsSource", string(s.statsSource)),
	)
	return nil
}

// Stop flushes pending writes and closes the store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping match ledger...")

	flushErr := s.flushLocked(ctx)
	if flushErr != nil {
		s.logger.Error(ctx, "pending writes lost on shutdown", logger.Error(flushErr))
	}
	if err := s.repo.Close(); err != nil {
		s.logger.Warn(ctx, "closing store failed", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "match ledger stopped")
	return flushErr
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[string]interface{}{
		"started":       s.started,
		"scoreRequired": s.scoreRequired,
		"statsSource":   string(s.statsSource),
		"pendingWrites": len(s.pending),
	}

	if s.started {
		out["matches"] = len(s.matches)
		out["roster"] = s.roster.Len()
		out["draftPlayers"] = s.draft.Len()
		out["editing"] = s.draft.EditTarget()
		s.updateGauges()
	}

	return out
}

func (s *Service) checkStarted() error {
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

func (s *Service) today() string {
	if !s.prefillToday {
		return ""
	}
	return s.now().Format(dateLayout)
}

func (s *Service) updateGauges() {
	metrics.UpdateMatchCount(len(s.matches))
	metrics.UpdateRosterCount(s.roster.Len())
	metrics.UpdateDraftPlayers(s.draft.Len())
	metrics.UpdatePendingWrites(len(s.pending))
}
