package seedtool

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/okian/matchledger/internal/adapters/http/api"
	service "github.com/okian/matchledger/internal/app"
	"github.com/okian/matchledger/internal/domain/model"
	"github.com/okian/matchledger/internal/domain/stats"
	"github.com/okian/matchledger/internal/domain/types"
	"github.com/okian/matchledger/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func newLedgerServer(opts ...service.Option) (*httptest.Server, *service.Service) {
	svc := service.New(opts...)
	So(svc.Start(context.Background()), ShouldBeNil)
	mux := http.NewServeMux()
	api.NewServer(svc).Register(mux)
	return httptest.NewServer(mux), svc
}

func smallConfig(url string) *Config {
	return &Config{
		BaseURL:         url,
		Matches:         6,
		PlayersPerMatch: 5,
		PoolSize:        18,
		TopN:            10,
		Workers:         3,
		Timeout:         5 * time.Second,
		Seed:            42,
	}
}

func TestRun(t *testing.T) {
	Convey("Given a running ledger service", t, func() {
		ctx := context.Background()
		srv, svc := newLedgerServer()
		defer srv.Close()

		Convey("When seeding a season", func() {
			st, err := Run(ctx, smallConfig(srv.URL))

			Convey("Then every match is committed and verified", func() {
				So(err, ShouldBeNil)
				So(st.MatchesGenerated, ShouldEqual, 6)
				So(st.MatchesCommitted, ShouldEqual, 6)
				So(st.MatchesFailed, ShouldEqual, 0)
				So(st.PlayerLines, ShouldEqual, 30)
				So(st.LeaderboardEntries, ShouldBeGreaterThan, 0)
				So(st.PlayersVerified, ShouldEqual, 18)

				matches, err := svc.Matches()
				So(err, ShouldBeNil)
				So(len(matches), ShouldEqual, 6)
			})

			Convey("And the draft is left empty", func() {
				d, err := svc.Draft()
				So(err, ShouldBeNil)
				So(d.Players, ShouldBeEmpty)
			})

			Convey("And a second run verifies on top of existing data", func() {
				cfg := smallConfig(srv.URL)
				cfg.Seed = 7
				_, err := Run(ctx, cfg)
				So(err, ShouldBeNil)

				matches, _ := svc.Matches()
				So(len(matches), ShouldEqual, 12)
			})
		})
	})

	Convey("Given a ledger that aggregates from the roster", t, func() {
		srv, _ := newLedgerServer(service.WithStatsSource(stats.FromRoster))
		defer srv.Close()

		Convey("Then verification still holds", func() {
			_, err := Run(context.Background(), smallConfig(srv.URL))
			So(err, ShouldBeNil)
		})
	})

	Convey("Given an unhealthy service", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		Convey("Then the run stops at the health check", func() {
			st, err := Run(context.Background(), smallConfig(srv.URL))
			So(errors.Is(err, ErrUnexpectedStatus), ShouldBeTrue)
			So(st.MatchesGenerated, ShouldEqual, 0)
		})
	})

	Convey("Given an output file", t, func() {
		srv, _ := newLedgerServer()
		defer srv.Close()

		cfg := smallConfig(srv.URL)
		cfg.OutputFile = filepath.Join(t.TempDir(), "out", "season.json")

		Convey("Then the generated plan is written", func() {
			_, err := Run(context.Background(), cfg)
			So(err, ShouldBeNil)

			data, err := os.ReadFile(cfg.OutputFile)
			So(err, ShouldBeNil)
			var saved []model.Match
			So(json.Unmarshal(data, &saved), ShouldBeNil)
			So(len(saved), ShouldEqual, 6)
		})
	})
}

func TestGenerator(t *testing.T) {
	Convey("Given two generators with the same seed", t, func() {
		cfg := &Config{Seed: 99, PoolSize: 20, PlayersPerMatch: 6}
		a, b := NewGenerator(cfg), NewGenerator(cfg)

		Convey("Then they plan the same matches", func() {
			for i := 0; i < 5; i++ {
				So(a.Match(i), ShouldResemble, b.Match(i))
			}
		})
	})

	Convey("Given a generated match", t, func() {
		g := NewGenerator(&Config{Seed: 3, PoolSize: 20, PlayersPerMatch: 6})

		for i := 0; i < 20; i++ {
			m := g.Match(i)

			seen := map[string]bool{}
			motm, goals := 0, 0
			for _, p := range m.Players {
				So(seen[p.Name], ShouldBeFalse)
				seen[p.Name] = true
				goals += p.Goals
				if p.IsMotm {
					motm++
				}
			}
			So(len(m.Players), ShouldEqual, 6)
			So(motm, ShouldBeLessThanOrEqualTo, 1)
			So(m.Score, ShouldStartWith, strconv.Itoa(goals)+"-")
			So(m.Opponent, ShouldNotBeBlank)
			So(m.Date, ShouldNotBeBlank)
		}
	})

	Convey("Given a pool larger than the base names", t, func() {
		pool := namePool(40)

		Convey("Then every name is distinct", func() {
			seen := map[string]bool{}
			for _, n := range pool {
				So(seen[n], ShouldBeFalse)
				seen[n] = true
			}
			So(len(pool), ShouldEqual, 40)
		})
	})
}

func TestVerification(t *testing.T) {
	Convey("Given a committed plan and the rows seen before it", t, func() {
		committed := []submission{
			{plan: model.Match{Players: []model.PlayerLine{
				{Name: "Bakker", Goals: 2},
				{Name: "Jansen", Assists: 1, IsMotm: true},
			}}},
			{plan: model.Match{Players: []model.PlayerLine{
				{Name: "Bakker", Goals: 1, Assists: 1},
			}}},
		}
		before := []types.Entry{
			{Rank: 1, Name: "Bakker", Goals: 4, Total: 4},
			{Name: "Jansen"},
			{Name: "Visser"},
		}

		Convey("When computing the expected rows", func() {
			want := expectedRows(before, tallyPlan(committed))

			Convey("Then the plan is added on top of the baseline", func() {
				So(want, ShouldResemble, []types.Entry{
					{Name: "Bakker", Goals: 7, Assists: 1, Total: 8},
					{Name: "Jansen", Assists: 1, Motm: 1, Total: 2},
					{Name: "Visser"},
				})
			})

			Convey("And matching rows verify regardless of rank", func() {
				got := []types.Entry{
					{Rank: 1, Name: "Bakker", Goals: 7, Assists: 1, Total: 8},
					{Rank: 2, Name: "Jansen", Assists: 1, Motm: 1, Total: 2},
					{Name: "Visser"},
				}
				n, err := comparePlayerStats(want, got)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 3)
			})

			Convey("And a miscounted row is reported", func() {
				got := append([]types.Entry(nil), want...)
				got[0].Goals = 6
				n, err := comparePlayerStats(want, got)
				So(n, ShouldEqual, 2)
				So(errors.Is(err, ErrVerification), ShouldBeTrue)
			})
		})
	})

	Convey("Given a served leaderboard", t, func() {
		board := []types.Entry{
			{Rank: 1, Name: "Bakker", Goals: 3, Total: 3},
			{Rank: 2, Name: "Jansen", Assists: 1, Total: 1},
		}

		Convey("When it is ranked by total", func() {
			So(checkLeaderboard(board), ShouldBeNil)
		})

		Convey("When a lower row outscores a higher one", func() {
			bad := append([]types.Entry(nil), board...)
			bad[1].Goals, bad[1].Total = 5, 6
			So(errors.Is(checkLeaderboard(bad), ErrVerification), ShouldBeTrue)
		})

		Convey("When a total is not the sum of its parts", func() {
			bad := append([]types.Entry(nil), board...)
			bad[0].Total = 4
			So(errors.Is(checkLeaderboard(bad), ErrVerification), ShouldBeTrue)
		})

		Convey("When a player row disagrees with its leaderboard row", func() {
			players := []types.Entry{{Rank: 2, Name: "Jansen", Assists: 2, Total: 2}}
			So(errors.Is(crossCheck(board, players), ErrVerification), ShouldBeTrue)
			So(crossCheck(board, []types.Entry{board[1]}), ShouldBeNil)
		})
	})

	Convey("Given a committed match the service does not list", t, func() {
		committed := []submission{{served: model.Match{ID: "a"}}, {served: model.Match{ID: "b"}}}
		err := verifyCommitted(committed, []model.Match{{ID: "a"}})
		So(errors.Is(err, ErrVerification), ShouldBeTrue)
	})
}

func TestRetrievePlayerStats(t *testing.T) {
	Convey("Given a service that knows one player", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/leaderboard/Bakker":
				_ = json.NewEncoder(w).Encode(types.Entry{Rank: 1, Name: "Bakker", Goals: 2, Total: 2})
			case "/leaderboard/Broken":
				w.WriteHeader(http.StatusInternalServerError)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer srv.Close()

		cfg := smallConfig(srv.URL).withDefaults()
		c := NewClient(srv.URL, time.Second)

		Convey("When looking up a known and an unknown player", func() {
			rows, err := retrievePlayerStats(context.Background(), cfg, c, []string{"Bakker", "Nobody"})

			Convey("Then the unknown one is a zero row", func() {
				So(err, ShouldBeNil)
				So(rows[0].Goals, ShouldEqual, 2)
				So(rows[1], ShouldResemble, types.Entry{Name: "Nobody"})
			})
		})

		Convey("When a lookup fails for another reason", func() {
			_, err := retrievePlayerStats(context.Background(), cfg, c, []string{"Bakker", "Broken"})

			Convey("Then the failure is returned", func() {
				So(errors.Is(err, ErrUnexpectedStatus), ShouldBeTrue)
			})
		})
	})
}
