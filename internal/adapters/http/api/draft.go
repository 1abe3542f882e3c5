// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/matchledger/internal/domain/draft"
	"github.com/okian/matchledger/internal/domain/model"
)

// DraftDependencies defines the draft editor operations.
type DraftDependencies interface {
	Draft() (draft.State, error)
	SetField(ctx context.Context, f draft.Field, value string) (draft.State, error)
	AddPlayer(ctx context.Context, name string) (draft.State, error)
	UpdateGoals(ctx context.Context, name, raw string) (draft.State, error)
	UpdateAssists(ctx context.Context, name, raw string) (draft.State, error)
	ToggleMotm(ctx context.Context, name string) (draft.State, error)
	RemovePlayer(ctx context.Context, name string) (draft.State, error)
	CancelEdit(ctx context.Context) (draft.State, error)
	Commit(ctx context.Context) (model.Match, error)
}

// DraftHandler handles draft editor requests.
type DraftHandler struct {
	deps         DraftDependencies
	maxBodyBytes int64
}

// NewDraftHandler creates a new draft handler.
func NewDraftHandler(deps DraftDependencies) *DraftHandler {
	return &DraftHandler{deps: deps, maxBodyBytes: 1 << 20}
}

// draftPatch mirrors PATCH /draft. Absent fields are left alone.
type draftPatch struct {
	Opponent *string `json:"opponent"`
	Date     *string `json:"date"`
	Score    *string `json:"score"`
	HomeAway *string `json:"homeAway"`
}

type addPlayerRequest struct {
	Name string `json:"name"`
}

type playerPatch struct {
	Goals   statInput `json:"goals"`
	Assists statInput `json:"assists"`
}

// statInput accepts a JSON number or a JSON string and keeps the raw
// text, so the ledger parses it the same way either way.
type statInput struct {
	raw string
	set bool
}

func (s *statInput) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	s.set = true
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &s.raw)
	}
	s.raw = string(b)
	return nil
}

// HandleGet handles GET /draft requests.
func (h *DraftHandler) HandleGet(w http.ResponseWriter, _ *http.Request) {
	st, err := h.deps.Draft()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandlePatch handles PATCH /draft requests.
func (h *DraftHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.patch_draft"
	var req draftPatch
	if err := decodeBody(w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	// Reject the whole patch before any field is applied.
	if req.HomeAway != nil {
		if _, err := model.ParseHomeAway(*req.HomeAway); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
			return
		}
	}

	fields := []struct {
		f draft.Field
		v *string
	}{
		{draft.FieldOpponent, req.Opponent},
		{draft.FieldDate, req.Date},
		{draft.FieldScore, req.Score},
		{draft.FieldHomeAway, req.HomeAway},
	}
	for _, fv := range fields {
		if fv.v == nil {
			continue
		}
		if _, err := h.deps.SetField(r.Context(), fv.f, *fv.v); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	h.HandleGet(w, r)
}

// HandleCancel handles DELETE /draft requests.
func (h *DraftHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.CancelEdit(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleCommit handles POST /draft/commit requests.
func (h *DraftHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	m, err := h.deps.Commit(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleAddPlayer handles POST /draft/players requests.
func (h *DraftHandler) HandleAddPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_player"
	var req addPlayerRequest
	if err := decodeBody(w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	st, err := h.deps.AddPlayer(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandlePatchPlayer handles PATCH /draft/players/{name} requests.
func (h *DraftHandler) HandlePatchPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.patch_player"
	var req playerPatch
	if err := decodeBody(w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if !req.Goals.set && !req.Assists.set {
		writeError(w, http.StatusBadRequest, "bad_request",
			wrapKind(op, ErrBadRequest, errors.New("goals or assists required")))
		return
	}

	name := r.PathValue("name")
	var (
		st  draft.State
		err error
	)
	if req.Goals.set {
		if st, err = h.deps.UpdateGoals(r.Context(), name, req.Goals.raw); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	if req.Assists.set {
		if st, err = h.deps.UpdateAssists(r.Context(), name, req.Assists.raw); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleToggleMotm handles POST /draft/players/{name}/motm requests.
func (h *DraftHandler) HandleToggleMotm(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.ToggleMotm(r.Context(), r.PathValue("name"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleRemovePlayer handles DELETE /draft/players/{name} requests.
func (h *DraftHandler) HandleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.RemovePlayer(r.Context(), r.PathValue("name"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
