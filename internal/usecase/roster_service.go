package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/courtsidehq/roster-api/internal/domain/team"
	idgen "github.com/courtsidehq/roster-api/internal/platform/id"
	"github.com/courtsidehq/roster-api/internal/platform/logging"
)

// SaveRosterInput is a finalized team-edit form: metadata plus the full
// chosen player set. An empty TeamID means creation.
type SaveRosterInput struct {
	TeamID    string
	Name      string
	Region    string
	Country   string
	PlayerIDs []int64
}

// RosterService reconciles a team-edit submission against the registry. It
// is the only writer that touches more than one team at a time: claiming a
// player detaches it from its previous owner in the same committed changeset,
// which is what keeps the single-membership rule an invariant rather than a
// convention.
type RosterService struct {
	registry  team.Registry
	idGen     idgen.Generator
	snapshots SnapshotWriter
	logger    *logging.Logger
}

func NewRosterService(
	registry team.Registry,
	idGen idgen.Generator,
	snapshots SnapshotWriter,
	logger *logging.Logger,
) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterService{
		registry:  registry,
		idGen:     idGen,
		snapshots: snapshots,
		logger:    logger,
	}
}

// SaveRoster validates, resolves cross-team conflicts, and commits the team
// in one atomic registry transition. Nothing is mutated on any validation
// failure. An empty player set is allowed; teams detached down to zero
// players stay in the registry.
func (s *RosterService) SaveRoster(ctx context.Context, input SaveRosterInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SaveRoster")
	defer span.End()

	input.TeamID = strings.TrimSpace(input.TeamID)
	input.Name = strings.TrimSpace(input.Name)
	input.Region = strings.TrimSpace(input.Region)
	input.Country = strings.TrimSpace(input.Country)

	if input.Name == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if input.Region == "" {
		return team.Team{}, fmt.Errorf("%w: team region is required", ErrInvalidInput)
	}
	if input.Country == "" {
		return team.Team{}, fmt.Errorf("%w: team country is required", ErrInvalidInput)
	}

	creating := input.TeamID == ""
	targetID := input.TeamID
	if !creating {
		_, exists, err := s.registry.GetByID(ctx, targetID)
		if err != nil {
			return team.Team{}, fmt.Errorf("get team: %w", err)
		}
		if !exists {
			return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, targetID)
		}
	}

	// Uniqueness is checked before any ID is minted or any player detached.
	existing, taken, err := s.registry.FindByName(ctx, input.Name)
	if err != nil {
		return team.Team{}, fmt.Errorf("check team name: %w", err)
	}
	if taken && existing.ID != targetID {
		return team.Team{}, fmt.Errorf("%w: team name %q is already taken", ErrInvalidInput, input.Name)
	}

	if creating {
		targetID, err = s.idGen.NewID()
		if err != nil {
			return team.Team{}, fmt.Errorf("generate team id: %w", err)
		}
	}

	playerIDs := dedupePlayerIDs(input.PlayerIDs)
	for _, playerID := range playerIDs {
		if playerID <= 0 {
			return team.Team{}, fmt.Errorf("%w: player id must be positive", ErrInvalidInput)
		}
	}

	// Single-membership conflict resolution: every chosen player held by
	// another team is detached from that owner. Owners are staged so two
	// players leaving the same team produce one upsert.
	staged := make(map[string]team.Team)
	detached := 0
	for _, playerID := range playerIDs {
		owner, owned, err := s.registry.OwnerOf(ctx, playerID)
		if err != nil {
			return team.Team{}, fmt.Errorf("resolve owner of player %d: %w", playerID, err)
		}
		if !owned || owner.TeamID == targetID {
			continue
		}

		holder, ok := staged[owner.TeamID]
		if !ok {
			holder, ok, err = s.registry.GetByID(ctx, owner.TeamID)
			if err != nil {
				return team.Team{}, fmt.Errorf("get owner team %s: %w", owner.TeamID, err)
			}
			if !ok {
				continue
			}
		}
		staged[owner.TeamID] = holder.WithoutPlayer(playerID)
		detached++
	}

	final := team.Team{
		ID:          targetID,
		Name:        input.Name,
		Region:      input.Region,
		Country:     input.Country,
		PlayerIDs:   playerIDs,
		PlayerCount: len(playerIDs),
	}
	if err := final.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	change := team.Changeset{Upserts: make([]team.Team, 0, len(staged)+1)}
	for _, holder := range staged {
		change.Upserts = append(change.Upserts, holder)
	}
	change.Upserts = append(change.Upserts, final)

	if err := s.registry.Apply(ctx, change); err != nil {
		return team.Team{}, fmt.Errorf("commit roster: %w", err)
	}

	s.persistTeams(ctx)
	s.logger.InfoContext(ctx, "roster saved",
		"team_id", final.ID,
		"team_name", final.Name,
		"player_count", final.PlayerCount,
		"detached_players", detached,
		"created", creating,
	)

	return final, nil
}

func (s *RosterService) persistTeams(ctx context.Context) {
	teams, err := s.registry.List(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "snapshot teams for persistence failed", "error", err)
		return
	}
	s.snapshots.Enqueue(SnapshotPartitionTeams, teams)
}

// dedupePlayerIDs drops repeats while keeping first-seen order. Duplicate
// selections are a UI artifact, not an error.
func dedupePlayerIDs(playerIDs []int64) []int64 {
	if len(playerIDs) == 0 {
		return nil
	}

	out := make([]int64, 0, len(playerIDs))
	seen := make(map[int64]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
