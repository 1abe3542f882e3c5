package roster_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/okian/matchledger/internal/domain/model"
	"github.com/okian/matchledger/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func counter() roster.IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func names(r *roster.Roster) []string {
	var out []string
	for _, e := range r.Entries() {
		out = append(out, e.Name)
	}
	return out
}

func TestRoster_Ensure(t *testing.T) {
	Convey("Given an empty roster", t, func() {
		r := roster.New(nil, counter())

		Convey("When ensuring a new name", func() {
			e, created := r.Ensure("Jansen")

			Convey("Then an entry is created with a fresh id", func() {
				So(created, ShouldBeTrue)
				So(e.ID, ShouldEqual, "id-1")
				So(names(r), ShouldResemble, []string{"Jansen"})
			})

			Convey("And ensuring it again returns the same entry", func() {
				again, created := r.Ensure("Jansen")
				So(created, ShouldBeFalse)
				So(again, ShouldResemble, e)
				So(r.Len(), ShouldEqual, 1)
			})
		})
	})
}

func TestRoster_Rename(t *testing.T) {
	Convey("Given a roster and matches mentioning a player", t, func() {
		r := roster.New([]model.RosterEntry{{ID: "x", Name: "X"}, {ID: "z", Name: "Z"}}, counter())
		matches := []model.Match{
			{ID: "m1", Players: []model.PlayerLine{{PlayerID: "x", Name: "X", Goals: 2}, {Name: "Z"}}},
			{ID: "m2", Players: []model.PlayerLine{{Name: "X", Goals: 1}}},
		}

		Convey("When renaming X to Y", func() {
			old, n, err := r.Rename("x", "  Y ", matches)

			Convey("Then the entry and every line follow", func() {
				So(err, ShouldBeNil)
				So(old, ShouldEqual, "X")
				So(n, ShouldEqual, 2)
				So(names(r), ShouldResemble, []string{"Y", "Z"})
				So(matches[0].Players[0].Name, ShouldEqual, "Y")
				So(matches[1].Players[0].Name, ShouldEqual, "Y")
				So(matches[0].Players[1].Name, ShouldEqual, "Z")
			})
		})

		Convey("When renaming to a blank name", func() {
			_, n, err := r.Rename("x", "   ", matches)

			Convey("Then nothing changes", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
				So(names(r), ShouldResemble, []string{"X", "Z"})
				So(matches[0].Players[0].Name, ShouldEqual, "X")
			})
		})

		Convey("When renaming X to the name Z already holds", func() {
			_, n, err := r.Rename("x", "Z", matches)

			Convey("Then Z is absorbed and the lines in one match are merged", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
				So(r.Entries(), ShouldResemble, []model.RosterEntry{{ID: "x", Name: "Z"}})
				So(matches[0].Players, ShouldResemble, []model.PlayerLine{{PlayerID: "x", Name: "Z", Goals: 2}})
				So(matches[1].Players, ShouldResemble, []model.PlayerLine{{PlayerID: "x", Name: "Z", Goals: 1}})
			})
		})

		Convey("When renaming an unknown id", func() {
			_, _, err := r.Rename("nope", "Q", matches)
			So(errors.Is(err, roster.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestRoster_Delete(t *testing.T) {
	Convey("Given a roster with Pietersen", t, func() {
		r := roster.New([]model.RosterEntry{{ID: "p", Name: "Pietersen"}}, counter())

		Convey("When deleting the entry", func() {
			e, err := r.Delete("p")

			Convey("Then it is no longer selectable", func() {
				So(err, ShouldBeNil)
				So(e.Name, ShouldEqual, "Pietersen")
				So(names(r), ShouldBeEmpty)
				_, ok := r.ByName("Pietersen")
				So(ok, ShouldBeFalse)
			})

			Convey("And deleting again reports not found", func() {
				_, err := r.Delete("p")
				So(errors.Is(err, roster.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}
