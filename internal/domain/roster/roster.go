// Package roster manages the reusable list of named players.
package roster

import (
	"fmt"
	"strings"

	"github.com/okian/matchledger/internal/domain/model"
)

// IDFunc generates identifiers for new entries.
type IDFunc func() string

// Roster is an ordered list of entries. Names are kept unique by
// looking them up before inserting.
type Roster struct {
	entries []model.RosterEntry
	newID   IDFunc
}

// New builds a roster from previously stored entries.
func New(entries []model.RosterEntry, newID IDFunc) *Roster {
	r := &Roster{newID: newID}
	r.entries = append(r.entries, entries...)
	return r
}

// Ensure returns the entry named name, creating it first when unknown.
// The boolean reports whether a new entry was created.
func (r *Roster) Ensure(name string) (model.RosterEntry, bool) {
	if e, ok := r.ByName(name); ok {
		return e, false
	}
	e := model.RosterEntry{ID: r.newID(), Name: name}
	r.entries = append(r.entries, e)
	return e, true
}

// ByName looks an entry up by exact name.
func (r *Roster) ByName(name string) (model.RosterEntry, bool) {
	for _, e := range r.entries {
		if e.Name == name {
			return e, true
		}
	}
	return model.RosterEntry{}, false
}

// Get looks an entry up by id.
func (r *Roster) Get(id string) (model.RosterEntry, error) {
	i := r.index(id)
	if i < 0 {
		return model.RosterEntry{}, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	return r.entries[i], nil
}

// Rename changes the entry's name and rewrites every player line in
// matches that carries the old name. Lines that end up sharing a name
// within one match are merged, and another entry already holding newName
// is absorbed into this one. A blank newName is a no-op. It returns the
// previous name and the number of rewritten lines.
func (r *Roster) Rename(id, newName string, matches []model.Match) (string, int, error) {
	i := r.index(id)
	if i < 0 {
		return "", 0, fmt.Errorf("rename %q: %w", id, ErrNotFound)
	}
	newName = strings.TrimSpace(newName)
	old := r.entries[i].Name
	if newName == "" {
		return old, 0, nil
	}
	if old == newName {
		return old, 0, nil
	}
	if j := r.nameIndex(newName); j >= 0 {
		r.entries = append(r.entries[:j], r.entries[j+1:]...)
		if j < i {
			i--
		}
	}
	r.entries[i].Name = newName
	n := 0
	for m := range matches {
		if k := model.RenameLines(matches[m].Players, id, old, newName); k > 0 {
			matches[m].Players = model.MergeLines(matches[m].Players)
			n += k
		}
	}
	return old, n, nil
}

// Delete removes the entry. Match history is left alone.
func (r *Roster) Delete(id string) (model.RosterEntry, error) {
	i := r.index(id)
	if i < 0 {
		return model.RosterEntry{}, fmt.Errorf("delete %q: %w", id, ErrNotFound)
	}
	e := r.entries[i]
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	return e, nil
}

// Entries returns a copy of all entries in insertion order.
func (r *Roster) Entries() []model.RosterEntry {
	out := make([]model.RosterEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of entries.
func (r *Roster) Len() int { return len(r.entries) }

func (r *Roster) index(id string) int {
	for i := range r.entries {
		if r.entries[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Roster) nameIndex(name string) int {
	for i := range r.entries {
		if r.entries[i].Name == name {
			return i
		}
	}
	return -1
}
