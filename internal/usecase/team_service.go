package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/courtsidehq/roster-api/internal/domain/team"
	"github.com/courtsidehq/roster-api/internal/platform/logging"
)

// TeamService exposes read and delete operations over the team registry.
// Creation and edits go through RosterService, which owns the
// cross-team assignment rules.
type TeamService struct {
	registry  team.Registry
	snapshots SnapshotWriter
	logger    *logging.Logger
}

func NewTeamService(registry team.Registry, snapshots SnapshotWriter, logger *logging.Logger) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		registry:  registry,
		snapshots: snapshots,
		logger:    logger,
	}
}

func (s *TeamService) ListTeams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeams")
	defer span.End()

	teams, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return teams, nil
}

func (s *TeamService) GetTeam(ctx context.Context, teamID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeam")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	item, exists, err := s.registry.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	return item, nil
}

// DeleteTeam removes a team and frees its players for reassignment. Deleting
// an absent team is a no-op, so the operation is idempotent.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.DeleteTeam")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	_, exists, err := s.registry.GetByID(ctx, teamID)
	if err != nil {
		return fmt.Errorf("get team: %w", err)
	}
	if !exists {
		s.logger.DebugContext(ctx, "delete of absent team ignored", "team_id", teamID)
		return nil
	}

	if err := s.registry.Apply(ctx, team.Changeset{DeleteIDs: []string{teamID}}); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}

	s.persistTeams(ctx)
	s.logger.InfoContext(ctx, "team deleted", "team_id", teamID)

	return nil
}

// TeamOfPlayer resolves the owning team for a player identity, if any. The
// selection view uses it to flag players already assigned elsewhere.
func (s *TeamService) TeamOfPlayer(ctx context.Context, playerID int64) (team.Owner, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.TeamOfPlayer")
	defer span.End()

	if playerID <= 0 {
		return team.Owner{}, false, fmt.Errorf("%w: player id must be positive", ErrInvalidInput)
	}

	owner, ok, err := s.registry.OwnerOf(ctx, playerID)
	if err != nil {
		return team.Owner{}, false, fmt.Errorf("resolve player owner: %w", err)
	}

	return owner, ok, nil
}

func (s *TeamService) persistTeams(ctx context.Context) {
	teams, err := s.registry.List(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "snapshot teams for persistence failed", "error", err)
		return
	}
	s.snapshots.Enqueue(SnapshotPartitionTeams, teams)
}
