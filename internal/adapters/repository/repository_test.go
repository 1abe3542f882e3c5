package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/matchledger/internal/domain/model"
)

type failingStore struct {
	*MemoryStore
	err error
}

func (f *failingStore) Put(context.Context, string, []byte) error { return f.err }

func TestRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := New(NewMemoryStore())

	matches, err := repo.LoadMatches(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matches == nil || len(matches) != 0 {
		t.Fatalf("expected empty non-nil collection, got %#v", matches)
	}

	in := []model.Match{{
		ID: "m1", Opponent: "Ajax", Date: "2024-03-01", Score: "2-1", HomeAway: model.Away,
		Players: []model.PlayerLine{{PlayerID: "p1", Name: "Bakker", Goals: 2, IsMotm: true}},
	}}
	if err := repo.SaveMatches(ctx, in); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	roster := []model.RosterEntry{{ID: "p1", Name: "Bakker"}}
	if err := repo.SaveRoster(ctx, roster); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	out, err := repo.LoadMatches(ctx)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if len(out) != 1 || out[0].Players[0].Name != "Bakker" || out[0].HomeAway != model.Away {
		t.Errorf("unexpected matches after reload: %#v", out)
	}

	gotRoster, err := repo.LoadRoster(ctx)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if len(gotRoster) != 1 || gotRoster[0] != roster[0] {
		t.Errorf("unexpected roster after reload: %#v", gotRoster)
	}
}

func TestRepository_LegacyBlob(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	legacy := `[{"id":1700000000000,"opponent":"VV Noord","date":"2023-10-01","score":"1-1","homeAway":"uit"},
		{"id":"1700000000001","opponent":"SC Zuid","date":"2023-10-08","score":"0-2","homeAway":"thuis",
		 "players":[{"name":"Jansen","goals":1,"assists":0,"isMotm":false}]}]`
	_ = store.Put(ctx, MatchesKey, []byte(legacy))

	matches, err := New(store).LoadMatches(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matches[0].HomeAway != model.Away || matches[1].HomeAway != model.Home {
		t.Errorf("legacy venue values not normalized: %q %q", matches[0].HomeAway, matches[1].HomeAway)
	}
	if matches[0].Players == nil {
		t.Error("missing players should load as an empty list")
	}
	if matches[0].ID != "1700000000000" || matches[1].ID != "1700000000001" {
		t.Errorf("numeric and string ids should both load: %q %q", matches[0].ID, matches[1].ID)
	}
	if matches[1].Players[0].PlayerID != "" {
		t.Error("legacy lines carry no player id")
	}

	_ = store.Put(ctx, RosterKey, []byte(`[{"id":1700000000002,"name":"Jansen"}]`))
	roster, err := New(store).LoadRoster(ctx)
	if err != nil {
		t.Fatalf("unexpected roster error: %v", err)
	}
	if len(roster) != 1 || roster[0].ID != "1700000000002" || roster[0].Name != "Jansen" {
		t.Errorf("unexpected legacy roster: %#v", roster)
	}
}

func TestRepository_CorruptBlob(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.Put(ctx, RosterKey, []byte(`{not json`))

	_, err := New(store).LoadRoster(ctx)
	if !errors.Is(err, ErrCorruptBlob) {
		t.Errorf("expected ErrCorruptBlob, got %v", err)
	}
}

func TestRepository_PersistFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	repo := New(&failingStore{MemoryStore: NewMemoryStore(), err: boom})

	err := repo.SaveRoster(ctx, nil)
	if !errors.Is(err, ErrPersist) {
		t.Errorf("expected ErrPersist, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected cause to be kept, got %v", err)
	}
}

func TestRepository_SaveNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := New(store).SaveMatches(ctx, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	blob, _, _ := store.Get(ctx, MatchesKey)
	if string(blob) != "[]" {
		t.Errorf("expected [], got %s", blob)
	}
}
