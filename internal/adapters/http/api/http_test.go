package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/matchledger/internal/adapters/http/api"
	"github.com/okian/matchledger/internal/adapters/repository"
	service "github.com/okian/matchledger/internal/app"
	"github.com/okian/matchledger/internal/domain/draft"
	"github.com/okian/matchledger/internal/domain/model"
	"github.com/okian/matchledger/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

// brokenStore loads fine but refuses every write.
type brokenStore struct {
	*repository.MemoryStore
}

func (brokenStore) Put(context.Context, string, []byte) error {
	return errors.New("storage disabled")
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newMux(opts ...service.Option) (*http.ServeMux, *service.Service) {
	opts = append([]service.Option{service.WithIDGenerator(seqIDs())}, opts...)
	svc := service.New(opts...)
	So(svc.Start(context.Background()), ShouldBeNil)
	mux := http.NewServeMux()
	api.NewServer(svc, api.WithMaxLeaderboardLimit(10)).Register(mux)
	return mux, svc
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var rdr io.Reader = http.NoBody
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&v), ShouldBeNil)
	return v
}

type errBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Missing []string `json:"missing"`
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux, svc := newMux()
		defer func() { _ = svc.Stop(context.Background()) }()

		Convey("Then the health endpoint answers", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"ok"`)
		})

		Convey("And metrics are exposed in Prometheus format", func() {
			_ = do(mux, http.MethodGet, "/healthz", "")
			w := do(mux, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "matchledger_ledger_http_requests_total")
		})

		Convey("And the stats endpoint reports the ledger", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			stats := decode[map[string]any](w)
			So(stats["started"], ShouldEqual, true)
		})

		Convey("And unsupported methods are rejected", func() {
			w := do(mux, http.MethodPut, "/matches", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestDraftFlow(t *testing.T) {
	Convey("Given an empty ledger", t, func() {
		mux, svc := newMux()
		defer func() { _ = svc.Stop(context.Background()) }()

		Convey("When a match is recorded through the draft endpoints", func() {
			w := do(mux, http.MethodPatch, "/draft", `{"opponent":"Ajax","date":"2024-03-01","score":"2-1","homeAway":"away"}`)
			So(w.Code, ShouldEqual, http.StatusOK)

			So(do(mux, http.MethodPost, "/draft/players", `{"name":"Jansen"}`).Code, ShouldEqual, http.StatusOK)
			So(do(mux, http.MethodPost, "/draft/players", `{"name":"Jansen"}`).Code, ShouldEqual, http.StatusOK)
			So(do(mux, http.MethodPost, "/draft/players", `{"name":"de Vries"}`).Code, ShouldEqual, http.StatusOK)

			w = do(mux, http.MethodPatch, "/draft/players/Jansen", `{"goals":2,"assists":"1"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			w = do(mux, http.MethodPatch, "/draft/players/de%20Vries", `{"goals":"-5"}`)
			So(w.Code, ShouldEqual, http.StatusOK)
			w = do(mux, http.MethodPost, "/draft/players/Jansen/motm", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			st := decode[draft.State](w)
			So(len(st.Players), ShouldEqual, 2)
			So(st.Players[0].Goals, ShouldEqual, 2)
			So(st.Players[0].Assists, ShouldEqual, 1)
			So(st.Players[0].IsMotm, ShouldBeTrue)
			So(st.Players[1].Name, ShouldEqual, "de Vries")
			So(st.Players[1].Goals, ShouldEqual, 0)

			w = do(mux, http.MethodPost, "/draft/commit", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			committed := decode[model.Match](w)

			Convey("Then the match is listed", func() {
				w := do(mux, http.MethodGet, "/matches", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				matches := decode[[]model.Match](w)
				So(len(matches), ShouldEqual, 1)
				So(matches[0].ID, ShouldEqual, committed.ID)
				So(matches[0].HomeAway, ShouldEqual, model.Away)

				w = do(mux, http.MethodGet, "/matches/"+committed.ID, "")
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And the leaderboard reflects it", func() {
				w := do(mux, http.MethodGet, "/leaderboard?limit=5", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				entries := decode[[]api.Entry](w)
				So(entries[0].Name, ShouldEqual, "Jansen")
				So(entries[0].Total, ShouldEqual, 4)

				w = do(mux, http.MethodGet, "/leaderboard/Jansen", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[api.Entry](w).Goals, ShouldEqual, 2)
			})

			Convey("And the draft is empty again", func() {
				st := decode[draft.State](do(mux, http.MethodGet, "/draft", ""))
				So(st.Players, ShouldBeEmpty)
				So(st.Opponent, ShouldEqual, "")
			})

			Convey("And editing it loads the draft", func() {
				w := do(mux, http.MethodPost, "/matches/"+committed.ID+"/edit", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				st := decode[draft.State](w)
				So(st.EditTarget, ShouldEqual, committed.ID)

				w = do(mux, http.MethodDelete, "/draft", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[draft.State](w).EditTarget, ShouldEqual, "")
			})
		})

		Convey("When committing an incomplete draft", func() {
			_ = do(mux, http.MethodPatch, "/draft", `{"opponent":"Ajax"}`)
			w := do(mux, http.MethodPost, "/draft/commit", "")

			Convey("Then it is rejected with the missing fields", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				body := decode[errBody](w)
				So(body.Code, ShouldEqual, "validation_failed")
				So(body.Missing, ShouldResemble, []string{"date", "score"})
			})
		})

		Convey("When sending malformed input", func() {
			So(do(mux, http.MethodPatch, "/draft", `{"opponent":`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPatch, "/draft", `{"weather":"rain"}`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPatch, "/draft", `{"homeAway":"neutral"}`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPatch, "/draft/players/Nobody", `{}`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a patch carries a valid field next to a bad home/away value", func() {
			w := do(mux, http.MethodPatch, "/draft", `{"opponent":"Ajax","homeAway":"bogus"}`)

			Convey("Then nothing from the patch is applied", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				st := decode[draft.State](do(mux, http.MethodGet, "/draft", ""))
				So(st.Opponent, ShouldEqual, "")
			})
		})

		Convey("When addressing a player who is not on the draft", func() {
			w := do(mux, http.MethodPatch, "/draft/players/Nobody", `{"goals":1}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodDelete, "/draft/players/Nobody", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestRosterAndDeletes(t *testing.T) {
	Convey("Given a ledger with one recorded match", t, func() {
		mux, svc := newMux()
		defer func() { _ = svc.Stop(context.Background()) }()

		_ = do(mux, http.MethodPatch, "/draft", `{"opponent":"Ajax","date":"2024-03-01","score":"1-0"}`)
		_ = do(mux, http.MethodPost, "/draft/players", `{"name":"Pietersen"}`)
		_ = do(mux, http.MethodPatch, "/draft/players/Pietersen", `{"goals":1}`)
		m := decode[model.Match](do(mux, http.MethodPost, "/draft/commit", ""))
		roster := decode[[]model.RosterEntry](do(mux, http.MethodGet, "/roster", ""))
		So(len(roster), ShouldEqual, 1)
		id := roster[0].ID

		Convey("When renaming the player", func() {
			w := do(mux, http.MethodPatch, "/roster/"+id, `{"name":"Pieters"}`)
			So(w.Code, ShouldEqual, http.StatusOK)

			Convey("Then the stored match follows", func() {
				got := decode[model.Match](do(mux, http.MethodGet, "/matches/"+m.ID, ""))
				So(got.Players[0].Name, ShouldEqual, "Pieters")
			})
		})

		Convey("When deleting without confirmation", func() {
			So(do(mux, http.MethodDelete, "/roster/"+id, "").Code, ShouldEqual, http.StatusConflict)
			So(do(mux, http.MethodDelete, "/matches/"+m.ID, "").Code, ShouldEqual, http.StatusConflict)
		})

		Convey("When deleting with confirmation", func() {
			So(do(mux, http.MethodDelete, "/roster/"+id+"?confirm=true", "").Code, ShouldEqual, http.StatusNoContent)

			Convey("Then the match keeps the orphaned line", func() {
				got := decode[model.Match](do(mux, http.MethodGet, "/matches/"+m.ID, ""))
				So(got.Players[0].Name, ShouldEqual, "Pietersen")
			})

			Convey("And the match itself can be deleted", func() {
				So(do(mux, http.MethodDelete, "/matches/"+m.ID+"?confirm=true", "").Code, ShouldEqual, http.StatusNoContent)
				So(do(mux, http.MethodGet, "/matches/"+m.ID, "").Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When touching unknown ids", func() {
			So(do(mux, http.MethodPatch, "/roster/missing", `{"name":"X"}`).Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodGet, "/matches/missing", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodPost, "/matches/missing/edit", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestLeaderboardLimits(t *testing.T) {
	Convey("Given a leaderboard capped at ten rows", t, func() {
		mux, svc := newMux()
		defer func() { _ = svc.Stop(context.Background()) }()

		Convey("Then invalid limits are rejected", func() {
			So(do(mux, http.MethodGet, "/leaderboard?limit=abc", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/leaderboard?limit=0", "").Code, ShouldEqual, http.StatusBadRequest)

			w := do(mux, http.MethodGet, "/leaderboard?limit=11", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[errBody](w).Code, ShouldEqual, "limit_exceeded")
		})

		Convey("And a missing limit returns an empty array for an empty ledger", func() {
			w := do(mux, http.MethodGet, "/leaderboard", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
		})

		Convey("And an unknown player is not found", func() {
			So(do(mux, http.MethodGet, "/leaderboard/Nobody", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestPersistFailure(t *testing.T) {
	Convey("Given a ledger whose storage refuses writes", t, func() {
		mux, svc := newMux(service.WithStore(brokenStore{repository.NewMemoryStore()}))
		defer func() { _ = svc.Stop(context.Background()) }()

		Convey("When a new player is added", func() {
			w := do(mux, http.MethodPost, "/draft/players", `{"name":"Jansen"}`)

			Convey("Then the client learns the write failed", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(decode[errBody](w).Code, ShouldEqual, "persist_failed")
			})

			Convey("And the player is attached in memory anyway", func() {
				st := decode[draft.State](do(mux, http.MethodGet, "/draft", ""))
				So(len(st.Players), ShouldEqual, 1)
			})
		})
	})
}
