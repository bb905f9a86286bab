package team

import "context"

// Owner identifies the team currently holding a player.
type Owner struct {
	TeamID   string
	TeamName string
}

// Changeset is a batch of registry mutations committed as one transition.
// Readers never observe a partially applied changeset.
type Changeset struct {
	Upserts   []Team
	DeleteIDs []string
}

// Registry describes team-state needs from use cases. Name lookups compare
// case-insensitively; OwnerOf answers from a memoized player index so the
// assignment engine stays linear in the size of the selection.
type Registry interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	FindByName(ctx context.Context, name string) (Team, bool, error)
	OwnerOf(ctx context.Context, playerID int64) (Owner, bool, error)
	Apply(ctx context.Context, change Changeset) error
	ReplaceAll(ctx context.Context, teams []Team) error
}
