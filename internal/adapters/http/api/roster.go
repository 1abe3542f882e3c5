// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/matchledger/internal/domain/model"
)

// RosterDependencies defines the roster operations.
type RosterDependencies interface {
	Roster() ([]model.RosterEntry, error)
	RenamePlayer(ctx context.Context, id, newName string) (model.RosterEntry, error)
	DeleteRosterEntry(ctx context.Context, id string, confirmed bool) error
}

// RosterHandler handles roster requests.
type RosterHandler struct {
	deps         RosterDependencies
	maxBodyBytes int64
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies) *RosterHandler {
	return &RosterHandler{deps: deps, maxBodyBytes: 1 << 20}
}

type renameRequest struct {
	Name string `json:"name"`
}

// HandleList handles GET /roster requests.
func (h *RosterHandler) HandleList(w http.ResponseWriter, _ *http.Request) {
	entries, err := h.deps.Roster()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleRename handles PATCH /roster/{id} requests.
func (h *RosterHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	const op = "api.rename_player"
	var req renameRequest
	if err := decodeBody(w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	entry, err := h.deps.RenamePlayer(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HandleDelete handles DELETE /roster/{id}?confirm=true requests.
func (h *RosterHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteRosterEntry(r.Context(), r.PathValue("id"), confirmed(r)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
