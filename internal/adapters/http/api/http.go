// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/matchledger/internal/app"
	"github.com/okian/matchledger/internal/domain/draft"
	"github.com/okian/matchledger/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	MatchDependencies
	DraftDependencies
	RosterDependencies
	LeaderboardDependencies
	StatsProvider
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	matchesHandler     *MatchesHandler
	draftHandler       *DraftHandler
	rosterHandler      *RosterHandler
	leaderboardHandler *LeaderboardHandler
	maxBodyBytes       int64
}

// Option configures the Server.
type Option func(*Server)

// WithMaxLeaderboardLimit caps GET /leaderboard?limit.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.leaderboardHandler.maxLimit = n
		}
	}
}

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		matchesHandler:     NewMatchesHandler(deps),
		draftHandler:       NewDraftHandler(deps),
		rosterHandler:      NewRosterHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, defaultMaxLimit),
		maxBodyBytes:       1 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.draftHandler.maxBodyBytes = s.maxBodyBytes
	s.rosterHandler.maxBodyBytes = s.maxBodyBytes
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /matches", MetricsMiddleware(s.matchesHandler.HandleList, "matches"))
	mux.HandleFunc("GET /matches/{id}", MetricsMiddleware(s.matchesHandler.HandleGet, "match"))
	mux.HandleFunc("DELETE /matches/{id}", MetricsMiddleware(s.matchesHandler.HandleDelete, "match"))
	mux.HandleFunc("POST /matches/{id}/edit", MetricsMiddleware(s.matchesHandler.HandleEdit, "match_edit"))

	mux.HandleFunc("GET /draft", MetricsMiddleware(s.draftHandler.HandleGet, "draft"))
	mux.HandleFunc("PATCH /draft", MetricsMiddleware(s.draftHandler.HandlePatch, "draft"))
	mux.HandleFunc("DELETE /draft", MetricsMiddleware(s.draftHandler.HandleCancel, "draft"))
	mux.HandleFunc("POST /draft/commit", MetricsMiddleware(s.draftHandler.HandleCommit, "draft_commit"))
	mux.HandleFunc("POST /draft/players", MetricsMiddleware(s.draftHandler.HandleAddPlayer, "draft_players"))
	mux.HandleFunc("PATCH /draft/players/{name}", MetricsMiddleware(s.draftHandler.HandlePatchPlayer, "draft_player"))
	mux.HandleFunc("DELETE /draft/players/{name}", MetricsMiddleware(s.draftHandler.HandleRemovePlayer, "draft_player"))
	mux.HandleFunc("POST /draft/players/{name}/motm", MetricsMiddleware(s.draftHandler.HandleToggleMotm, "draft_player_motm"))

	mux.HandleFunc("GET /roster", MetricsMiddleware(s.rosterHandler.HandleList, "roster"))
	mux.HandleFunc("PATCH /roster/{id}", MetricsMiddleware(s.rosterHandler.HandleRename, "roster_entry"))
	mux.HandleFunc("DELETE /roster/{id}", MetricsMiddleware(s.rosterHandler.HandleDelete, "roster_entry"))

	mux.HandleFunc("GET /leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /leaderboard/{name}", MetricsMiddleware(s.leaderboardHandler.HandleGetPlayer, "leaderboard_player"))
}

type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates ledger errors to status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *draft.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:    "validation_failed",
			Message: verr.Error(),
			Missing: verr.Missing,
		})
	case errors.Is(err, service.ErrConfirmationRequired):
		writeError(w, http.StatusConflict, "confirmation_required", err)
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNotOnDraft):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrPersist):
		writeError(w, http.StatusServiceUnavailable, "persist_failed", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// decodeBody decodes a JSON body, rejecting unknown fields and bodies
// larger than limit.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}
