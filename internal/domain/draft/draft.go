// Package draft holds the in-progress match and its player list.
//
// A Draft is plain state: it never talks to storage or to the roster.
// The ledger service composes it with the roster and the match collection.
package draft

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/matchledger/internal/domain/model"
)

// Field names a settable draft field.
type Field string

// Settable fields.
const (
	FieldOpponent Field = "opponent"
	FieldDate     Field = "date"
	FieldScore    Field = "score"
	FieldHomeAway Field = "homeAway"
)

// Fields are the match attributes edited through the draft.
type Fields struct {
	Opponent string         `json:"opponent"`
	Date     string         `json:"date"`
	Score    string         `json:"score"`
	HomeAway model.HomeAway `json:"homeAway"`
}

// State is a read-only copy of a draft.
type State struct {
	Fields
	Players    []model.PlayerLine `json:"players"`
	EditTarget string             `json:"editTarget,omitempty"`
}

// Draft is the transient, uncommitted match being created or edited.
type Draft struct {
	fields     Fields
	players    []model.PlayerLine
	editTarget string
}

// New returns an empty draft. date pre-fills the date field and may be empty.
func New(date string) *Draft {
	d := &Draft{}
	d.Reset(date)
	return d
}

// Reset clears fields, player list and edit target.
func (d *Draft) Reset(date string) {
	d.fields = Fields{Date: date, HomeAway: model.Home}
	d.players = nil
	d.editTarget = ""
}

// SetField stores a raw field value. Only homeAway is normalized.
func (d *Draft) SetField(f Field, value string) error {
	switch f {
	case FieldOpponent:
		d.fields.Opponent = value
	case FieldDate:
		d.fields.Date = value
	case FieldScore:
		d.fields.Score = value
	case FieldHomeAway:
		ha, err := model.ParseHomeAway(value)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidField, err)
		}
		d.fields.HomeAway = ha
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return nil
}

// Attach adds a fresh line for entry unless a line with the same name is
// already present. It reports whether a line was added.
func (d *Draft) Attach(entry model.RosterEntry) bool {
	if d.index(entry.Name) >= 0 {
		return false
	}
	d.players = append(d.players, model.PlayerLine{
		PlayerID: entry.ID,
		Name:     entry.Name,
	})
	return true
}

// UpdateGoals parses raw and stores it as the named player's goals.
func (d *Draft) UpdateGoals(name, raw string) bool {
	i := d.index(name)
	if i < 0 {
		return false
	}
	d.players[i].Goals = ParseStat(raw)
	return true
}

// UpdateAssists parses raw and stores it as the named player's assists.
func (d *Draft) UpdateAssists(name, raw string) bool {
	i := d.index(name)
	if i < 0 {
		return false
	}
	d.players[i].Assists = ParseStat(raw)
	return true
}

// ToggleMotm flips the named player's flag. Turning it on clears every
// other line; turning it off leaves the match without a MOTM.
func (d *Draft) ToggleMotm(name string) bool {
	i := d.index(name)
	if i < 0 {
		return false
	}
	on := !d.players[i].IsMotm
	for j := range d.players {
		d.players[j].IsMotm = false
	}
	d.players[i].IsMotm = on
	return true
}

// RemovePlayer drops the named line.
func (d *Draft) RemovePlayer(name string) bool {
	i := d.index(name)
	if i < 0 {
		return false
	}
	d.players = append(d.players[:i], d.players[i+1:]...)
	return true
}

// RenamePlayer rewrites the line of a renamed roster entry. When the new
// name is already on the draft the two lines are merged into one.
func (d *Draft) RenamePlayer(playerID, oldName, newName string) int {
	n := model.RenameLines(d.players, playerID, oldName, newName)
	if n > 0 {
		d.players = model.MergeLines(d.players)
	}
	return n
}

// BeginEdit loads m into the draft and makes it the edit target.
func (d *Draft) BeginEdit(m model.Match) {
	d.fields = Fields{
		Opponent: m.Opponent,
		Date:     m.Date,
		Score:    m.Score,
		HomeAway: m.HomeAway,
	}
	if d.fields.HomeAway == "" {
		d.fields.HomeAway = model.Home
	}
	d.players = model.ClonePlayers(m.Players)
	d.editTarget = m.ID
}

// EditTarget returns the id of the match being edited, or "".
func (d *Draft) EditTarget() string { return d.editTarget }

// Validate checks required fields. Score is required only when
// scoreRequired is set.
func (d *Draft) Validate(scoreRequired bool) error {
	var missing []string
	if strings.TrimSpace(d.fields.Opponent) == "" {
		missing = append(missing, string(FieldOpponent))
	}
	if strings.TrimSpace(d.fields.Date) == "" {
		missing = append(missing, string(FieldDate))
	}
	if scoreRequired && strings.TrimSpace(d.fields.Score) == "" {
		missing = append(missing, string(FieldScore))
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Build produces the match this draft would commit under id.
func (d *Draft) Build(id string) model.Match {
	return model.Match{
		ID:       id,
		Opponent: strings.TrimSpace(d.fields.Opponent),
		Date:     d.fields.Date,
		Score:    strings.TrimSpace(d.fields.Score),
		HomeAway: d.fields.HomeAway,
		Players:  model.ClonePlayers(d.players),
	}
}

// State returns a copy of the draft.
func (d *Draft) State() State {
	return State{
		Fields:     d.fields,
		Players:    model.ClonePlayers(d.players),
		EditTarget: d.editTarget,
	}
}

// Len returns the number of attached players.
func (d *Draft) Len() int { return len(d.players) }

func (d *Draft) index(name string) int {
	for i := range d.players {
		if d.players[i].Name == name {
			return i
		}
	}
	return -1
}

// ParseStat reads the leading integer of raw the way a form input is read:
// surrounding whitespace is ignored, trailing garbage is dropped, anything
// unparsable counts as 0 and negatives clamp to 0.
func ParseStat(raw string) int {
	s := strings.TrimSpace(raw)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	v := 0
	digits := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		digits++
		d := int(r - '0')
		if v > (math.MaxInt-d)/10 {
			v = math.MaxInt
			continue
		}
		v = v*10 + d
	}
	if digits == 0 || neg {
		return 0
	}
	return v
}
