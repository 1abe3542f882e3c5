package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/okian/matchledger/internal/domain/model"
	"github.com/okian/matchledger/pkg/metrics"
)

// Repository encodes the ledger collections to and from a BlobStore.
type Repository struct {
	store BlobStore
}

// New wraps store.
func New(store BlobStore) *Repository {
	return &Repository{store: store}
}

// LoadMatches returns the stored match collection, or an empty one when
// nothing was stored yet.
func (r *Repository) LoadMatches(ctx context.Context) ([]model.Match, error) {
	var out []model.Match
	if err := r.load(ctx, MatchesKey, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Match{}
	}
	for i := range out {
		if out[i].Players == nil {
			out[i].Players = []model.PlayerLine{}
		}
		if out[i].HomeAway == "" {
			out[i].HomeAway = model.Home
		}
	}
	return out, nil
}

// LoadRoster returns the stored roster, or an empty one.
func (r *Repository) LoadRoster(ctx context.Context) ([]model.RosterEntry, error) {
	var out []model.RosterEntry
	if err := r.load(ctx, RosterKey, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.RosterEntry{}
	}
	return out, nil
}

// SaveMatches rewrites the whole match collection.
func (r *Repository) SaveMatches(ctx context.Context, matches []model.Match) error {
	if matches == nil {
		matches = []model.Match{}
	}
	return r.save(ctx, MatchesKey, matches)
}

// SaveRoster rewrites the whole roster.
func (r *Repository) SaveRoster(ctx context.Context, entries []model.RosterEntry) error {
	if entries == nil {
		entries = []model.RosterEntry{}
	}
	return r.save(ctx, RosterKey, entries)
}

// Close closes the underlying store.
func (r *Repository) Close() error {
	return r.store.Close()
}

func (r *Repository) load(ctx context.Context, key string, v any) error {
	blob, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLoad, key, err)
	}
	if !ok || len(blob) == 0 {
		return nil
	}
	if err := json.Unmarshal(blob, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorruptBlob, key, err)
	}
	return nil
}

func (r *Repository) save(ctx context.Context, key string, v any) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrPersist, key, err)
	}

	start := time.Now()
	err = r.store.Put(ctx, key, blob)
	metrics.RecordPersistLatency(key, float64(time.Since(start).Nanoseconds())/1e6)
	if err != nil {
		metrics.RecordPersistError(key)
		return fmt.Errorf("%w: %s: %w", ErrPersist, key, err)
	}
	return nil
}
