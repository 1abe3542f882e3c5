// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// HomeAway marks whether a match was played at home or away.
type HomeAway string

// Venue values. The Dutch spellings used by older stored data are
// accepted by ParseHomeAway and on JSON input.
const (
	Home HomeAway = "home"
	Away HomeAway = "away"
)

// ParseHomeAway normalizes user input to a HomeAway value.
func ParseHomeAway(s string) (HomeAway, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "home", "thuis":
		return Home, nil
	case "away", "uit":
		return Away, nil
	default:
		return "", fmt.Errorf("unknown home/away value %q", s)
	}
}

// UnmarshalJSON accepts both the English and the legacy Dutch spelling.
// An empty string decodes to Home.
func (h *HomeAway) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*h = Home
		return nil
	}
	v, err := ParseHomeAway(s)
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// RosterEntry is a reusable named player available for selection.
type RosterEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON accepts the id as a string or as a JSON number.
func (e *RosterEntry) UnmarshalJSON(b []byte) error {
	type plain RosterEntry
	aux := struct {
		*plain
		ID storedID `json:"id"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	e.ID = string(aux.ID)
	return nil
}

// PlayerLine is one player's performance in one match.
// Name is a copy of the roster name at the time it was attached; PlayerID
// is empty for lines that predate id references.
type PlayerLine struct {
	PlayerID string `json:"playerId,omitempty"`
	Name     string `json:"name"`
	Goals    int    `json:"goals"`
	Assists  int    `json:"assists"`
	IsMotm   bool   `json:"isMotm"`
}

// Match is one recorded game.
type Match struct {
	ID       string       `json:"id"`
	Opponent string       `json:"opponent"`
	Date     string       `json:"date"`
	Score    string       `json:"score"`
	HomeAway HomeAway     `json:"homeAway"`
	Players  []PlayerLine `json:"players"`
}

// UnmarshalJSON accepts the id as a string or as a JSON number.
func (m *Match) UnmarshalJSON(b []byte) error {
	type plain Match
	aux := struct {
		*plain
		ID storedID `json:"id"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	m.ID = string(aux.ID)
	return nil
}

// storedID decodes ids written either as strings or as millisecond
// timestamps; numbers keep their literal digits.
type storedID string

func (id *storedID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = storedID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = storedID(n.String())
	return nil
}

// Clone returns a deep copy of m.
func (m Match) Clone() Match {
	c := m
	c.Players = ClonePlayers(m.Players)
	return c
}

// ClonePlayers copies a player list. A nil input yields an empty, non-nil
// slice so JSON output is always an array.
func ClonePlayers(in []PlayerLine) []PlayerLine {
	out := make([]PlayerLine, len(in))
	copy(out, in)
	return out
}

// CloneMatches deep-copies a match collection.
func CloneMatches(in []Match) []Match {
	out := make([]Match, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// RenameLines rewrites every line named oldName to newName and points it
// at playerID when one is given. It returns the number of rewritten lines.
func RenameLines(lines []PlayerLine, playerID, oldName, newName string) int {
	n := 0
	for i := range lines {
		l := &lines[i]
		if l.Name != oldName || oldName == newName {
			continue
		}
		l.Name = newName
		if playerID != "" {
			l.PlayerID = playerID
		}
		n++
	}
	return n
}

// MergeLines folds lines that share a name into the first of them. Goals
// and assists are summed and the MOTM flag survives if either line had it.
func MergeLines(lines []PlayerLine) []PlayerLine {
	out := make([]PlayerLine, 0, len(lines))
	at := make(map[string]int, len(lines))
	for _, l := range lines {
		i, ok := at[l.Name]
		if !ok {
			at[l.Name] = len(out)
			out = append(out, l)
			continue
		}
		out[i].Goals = addStat(out[i].Goals, l.Goals)
		out[i].Assists = addStat(out[i].Assists, l.Assists)
		out[i].IsMotm = out[i].IsMotm || l.IsMotm
	}
	return out
}

func addStat(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
