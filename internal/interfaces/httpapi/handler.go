package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/courtsidehq/roster-api/internal/domain/identity"
	"github.com/courtsidehq/roster-api/internal/domain/player"
	"github.com/courtsidehq/roster-api/internal/domain/team"
	"github.com/courtsidehq/roster-api/internal/platform/logging"
	"github.com/courtsidehq/roster-api/internal/usecase"
)

type Handler struct {
	identityService *usecase.IdentityService
	feedService     *usecase.PlayerFeedService
	teamService     *usecase.TeamService
	rosterService   *usecase.RosterService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	identityService *usecase.IdentityService,
	feedService *usecase.PlayerFeedService,
	teamService *usecase.TeamService,
	rosterService *usecase.RosterService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		identityService: identityService,
		feedService:     feedService,
		teamService:     teamService,
		rosterService:   rosterService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type identityDTO struct {
	Username      string `json:"username"`
	Authenticated bool   `json:"authenticated"`
}

type franchiseDTO struct {
	ID           int64  `json:"id"`
	FullName     string `json:"fullName"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Name         string `json:"name"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
}

type playerDTO struct {
	ID           int64        `json:"id"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Position     string       `json:"position"`
	Height       string       `json:"height"`
	Weight       string       `json:"weight"`
	JerseyNumber string       `json:"jerseyNumber"`
	College      string       `json:"college"`
	Country      string       `json:"country"`
	DraftYear    *int         `json:"draftYear"`
	DraftRound   *int         `json:"draftRound"`
	DraftNumber  *int         `json:"draftNumber"`
	Franchise    franchiseDTO `json:"franchise"`
	// Owner is the user-defined team holding this player, null when unassigned.
	Owner *ownerDTO `json:"owner"`
}

type ownerDTO struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
}

type feedDTO struct {
	Players   []playerDTO `json:"players"`
	Cursor    *int64      `json:"cursor"`
	HasMore   bool        `json:"hasMore"`
	Loaded    bool        `json:"loaded"`
	InFlight  bool        `json:"inFlight"`
	LastError string      `json:"lastError,omitempty"`
}

type teamDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Region      string  `json:"region"`
	Country     string  `json:"country"`
	PlayerIDs   []int64 `json:"playerIds"`
	PlayerCount int     `json:"playerCount"`
}

func identityToDTO(v identity.Identity) identityDTO {
	return identityDTO{
		Username:      v.Username,
		Authenticated: v.Authenticated,
	}
}

func playerToDTO(v player.Player, owner *team.Owner) playerDTO {
	dto := playerDTO{
		ID:           v.ID,
		FirstName:    v.FirstName,
		LastName:     v.LastName,
		Position:     v.Position,
		Height:       v.Height,
		Weight:       v.Weight,
		JerseyNumber: v.JerseyNumber,
		College:      v.College,
		Country:      v.Country,
		DraftYear:    v.DraftYear,
		DraftRound:   v.DraftRound,
		DraftNumber:  v.DraftNumber,
		Franchise: franchiseDTO{
			ID:           v.Franchise.ID,
			FullName:     v.Franchise.FullName,
			Abbreviation: v.Franchise.Abbreviation,
			City:         v.Franchise.City,
			Name:         v.Franchise.Name,
			Conference:   v.Franchise.Conference,
			Division:     v.Franchise.Division,
		},
	}
	if owner != nil {
		dto.Owner = &ownerDTO{TeamID: owner.TeamID, TeamName: owner.TeamName}
	}

	return dto
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:          v.ID,
		Name:        v.Name,
		Region:      v.Region,
		Country:     v.Country,
		PlayerIDs:   append([]int64{}, v.PlayerIDs...),
		PlayerCount: v.PlayerCount,
	}
}
