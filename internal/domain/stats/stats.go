// Package stats derives season totals per player from the match collection.
//
// Aggregation is a pure function of its inputs and is recomputed in full on
// every call; nothing is cached between calls.
package stats

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/okian/matchledger/internal/domain/model"
	"github.com/okian/matchledger/internal/domain/types"
)

// Source decides which players appear in the summary.
type Source string

// Supported sources.
const (
	// FromMatches lists everyone who appears in any match, in order of
	// first appearance.
	FromMatches Source = "matches"
	// FromRoster lists roster entries in roster order and drops players
	// with nothing to show.
	FromRoster Source = "roster"
)

// ParseSource validates a configured source name.
func ParseSource(s string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case FromMatches, "":
		return FromMatches, nil
	case FromRoster:
		return FromRoster, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
	}
}

// Totals are one player's season aggregates.
type Totals struct {
	Name    string
	Goals   int
	Assists int
	Motm    int
}

// Total is the sort key: goals + assists + MOTM awards.
func (t Totals) Total() int { return t.Goals + t.Assists + t.Motm }

func (t Totals) empty() bool { return t.Goals == 0 && t.Assists == 0 && t.Motm == 0 }

// Aggregate computes per-player totals over matches. roster is only read
// when source is FromRoster.
func Aggregate(matches []model.Match, roster []model.RosterEntry, source Source) []Totals {
	byName := make(map[string]*Totals)
	var order []string

	see := func(name string) *Totals {
		t, ok := byName[name]
		if !ok {
			t = &Totals{Name: name}
			byName[name] = t
			order = append(order, name)
		}
		return t
	}

	if source == FromRoster {
		for _, e := range roster {
			see(e.Name)
		}
	}

	for _, m := range matches {
		for _, p := range m.Players {
			t, ok := byName[p.Name]
			if !ok {
				if source == FromRoster {
					continue
				}
				t = see(p.Name)
			}
			t.Goals += p.Goals
			t.Assists += p.Assists
			if p.IsMotm {
				t.Motm++
			}
		}
	}

	out := make([]Totals, 0, len(order))
	for _, name := range order {
		t := *byName[name]
		if source == FromRoster && t.empty() {
			continue
		}
		out = append(out, t)
	}

	slices.SortStableFunc(out, func(a, b Totals) int {
		return cmp.Compare(b.Total(), a.Total())
	})
	return out
}

// Leaderboard ranks the aggregates and keeps at most limit rows.
// A limit <= 0 keeps everything.
func Leaderboard(totals []Totals, limit int) []types.Entry {
	if limit <= 0 || limit > len(totals) {
		limit = len(totals)
	}
	entries := make([]types.Entry, limit)
	for i := 0; i < limit; i++ {
		t := totals[i]
		entries[i] = types.Entry{
			Rank:    i + 1,
			Name:    t.Name,
			Goals:   t.Goals,
			Assists: t.Assists,
			Motm:    t.Motm,
			Total:   t.Total(),
		}
	}
	return entries
}

// Lookup finds the ranked row for name.
func Lookup(entries []types.Entry, name string) (types.Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return types.Entry{}, false
}
