// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/matchledger/internal/domain/draft"
	"github.com/okian/matchledger/internal/domain/model"
)

// MatchDependencies defines the match collection operations.
type MatchDependencies interface {
	Matches() ([]model.Match, error)
	Match(id string) (model.Match, error)
	DeleteMatch(ctx context.Context, id string, confirmed bool) error
	BeginEdit(ctx context.Context, id string) (draft.State, error)
}

// MatchesHandler handles match collection requests.
type MatchesHandler struct {
	deps MatchDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleList handles GET /matches requests.
func (h *MatchesHandler) HandleList(w http.ResponseWriter, _ *http.Request) {
	matches, err := h.deps.Matches()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// HandleGet handles GET /matches/{id} requests.
func (h *MatchesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	m, err := h.deps.Match(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleDelete handles DELETE /matches/{id}?confirm=true requests.
func (h *MatchesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteMatch(r.Context(), r.PathValue("id"), confirmed(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleEdit handles POST /matches/{id}/edit requests.
func (h *MatchesHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.BeginEdit(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// confirmed reads the ?confirm= flag of destructive requests.
func confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}
