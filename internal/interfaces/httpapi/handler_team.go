package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/courtsidehq/roster-api/internal/usecase"
)

type saveTeamRequest struct {
	Name      string  `json:"name" validate:"required,max=100"`
	Region    string  `json:"region" validate:"required,max=100"`
	Country   string  `json:"country" validate:"required,max=100"`
	PlayerIDs []int64 `json:"playerIds" validate:"dive,gt=0"`
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.teamService.ListTeams(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	item, err := h.teamService.GetTeam(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	req, err := h.decodeSaveTeamRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, err := h.rosterService.SaveRoster(ctx, usecase.SaveRosterInput{
		Name:      req.Name,
		Region:    req.Region,
		Country:   req.Country,
		PlayerIDs: req.PlayerIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create team failed", "team_name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "team created", "team_id", saved.ID, "username", actingUsername(ctx))
	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(saved))
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	req, err := h.decodeSaveTeamRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, err := h.rosterService.SaveRoster(ctx, usecase.SaveRosterInput{
		TeamID:    teamID,
		Name:      req.Name,
		Region:    req.Region,
		Country:   req.Country,
		PlayerIDs: req.PlayerIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "team updated", "team_id", saved.ID, "username", actingUsername(ctx))
	writeSuccess(ctx, w, http.StatusOK, teamToDTO(saved))
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	if err := h.teamService.DeleteTeam(ctx, teamID); err != nil {
		h.logger.WarnContext(ctx, "delete team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "team deleted", "team_id", teamID, "username", actingUsername(ctx))
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) decodeSaveTeamRequest(r *http.Request) (saveTeamRequest, error) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.decodeSaveTeamRequest")
	defer span.End()

	var req saveTeamRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return saveTeamRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validateRequest(ctx, req); err != nil {
		return saveTeamRequest{}, err
	}

	return req, nil
}
