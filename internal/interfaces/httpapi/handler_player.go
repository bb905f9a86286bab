package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/courtsidehq/roster-api/internal/usecase"
)

// ListPlayers renders the accumulated feed. Every player already assigned to
// a user-defined team carries its owner so selection views can flag it.
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	state := h.feedService.Snapshot(ctx)
	dto, err := h.feedToDTO(r, state)
	if err != nil {
		h.logger.ErrorContext(ctx, "annotate players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

// LoadNextPlayers requests the next page and returns the merged feed. When a
// load is already running or the listing is exhausted this degrades to a read.
func (h *Handler) LoadNextPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LoadNextPlayers")
	defer span.End()

	state, err := h.feedService.LoadNext(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "load next players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	dto, err := h.feedToDTO(r, state)
	if err != nil {
		h.logger.ErrorContext(ctx, "annotate players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

func (h *Handler) GetPlayerTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerTeam")
	defer span.End()

	raw := strings.TrimSpace(r.PathValue("playerID"))
	playerID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: player id must be an integer", usecase.ErrInvalidInput))
		return
	}

	owner, owned, err := h.teamService.TeamOfPlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve player team failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !owned {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ownerDTO{TeamID: owner.TeamID, TeamName: owner.TeamName})
}

func (h *Handler) feedToDTO(r *http.Request, state usecase.FeedState) (feedDTO, error) {
	ctx := r.Context()

	dto := feedDTO{
		Players:  make([]playerDTO, 0, len(state.Players)),
		Cursor:   state.Cursor,
		HasMore:  state.HasMore(),
		Loaded:   state.Loaded,
		InFlight: state.InFlight,
	}
	if state.LastError != nil {
		dto.LastError = state.LastError.Error()
	}

	for _, p := range state.Players {
		owner, owned, err := h.teamService.TeamOfPlayer(ctx, p.ID)
		if err != nil {
			return feedDTO{}, err
		}
		if owned {
			dto.Players = append(dto.Players, playerToDTO(p, &owner))
			continue
		}
		dto.Players = append(dto.Players, playerToDTO(p, nil))
	}

	return dto, nil
}
