package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/courtsidehq/roster-api/internal/domain/team"
)

// TeamRegistry is the authoritative in-session team store. One lock guards
// every transition, so a changeset is indivisible to readers. ownerByPlayer
// is the memoized owner index: rebuilt incrementally on writes, answered in
// O(1) on reads.
type TeamRegistry struct {
	mu            sync.RWMutex
	order         []string
	teamsByID     map[string]team.Team
	ownerByPlayer map[int64]string
}

func NewTeamRegistry(teams []team.Team) *TeamRegistry {
	r := &TeamRegistry{
		teamsByID:     make(map[string]team.Team),
		ownerByPlayer: make(map[int64]string),
	}
	for _, item := range teams {
		r.upsertLocked(item)
	}

	return r
}

func (r *TeamRegistry) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.order))
	for _, teamID := range r.order {
		out = append(out, cloneTeam(r.teamsByID[teamID]))
	}

	return out, nil
}

func (r *TeamRegistry) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teamsByID[teamID]
	if !ok {
		return team.Team{}, false, nil
	}

	return cloneTeam(item), true, nil
}

func (r *TeamRegistry) FindByName(_ context.Context, name string) (team.Team, bool, error) {
	folded := strings.ToLower(strings.TrimSpace(name))

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, teamID := range r.order {
		item := r.teamsByID[teamID]
		if strings.ToLower(item.Name) == folded {
			return cloneTeam(item), true, nil
		}
	}

	return team.Team{}, false, nil
}

func (r *TeamRegistry) OwnerOf(_ context.Context, playerID int64) (team.Owner, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teamID, ok := r.ownerByPlayer[playerID]
	if !ok {
		return team.Owner{}, false, nil
	}

	return team.Owner{TeamID: teamID, TeamName: r.teamsByID[teamID].Name}, true, nil
}

// Apply commits upserts and deletes as one transition.
func (r *TeamRegistry) Apply(_ context.Context, change team.Changeset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range change.Upserts {
		r.upsertLocked(item)
	}
	for _, teamID := range change.DeleteIDs {
		r.deleteLocked(teamID)
	}

	return nil
}

// ReplaceAll swaps the whole registry content, used for snapshot restore and
// logout reset.
func (r *TeamRegistry) ReplaceAll(_ context.Context, teams []team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = nil
	r.teamsByID = make(map[string]team.Team)
	r.ownerByPlayer = make(map[int64]string)
	for _, item := range teams {
		r.upsertLocked(item)
	}

	return nil
}

func (r *TeamRegistry) upsertLocked(item team.Team) {
	if strings.TrimSpace(item.ID) == "" {
		return
	}

	if previous, ok := r.teamsByID[item.ID]; ok {
		for _, playerID := range previous.PlayerIDs {
			delete(r.ownerByPlayer, playerID)
		}
	} else {
		r.order = append(r.order, item.ID)
	}

	copied := cloneTeam(item)
	r.teamsByID[item.ID] = copied
	for _, playerID := range copied.PlayerIDs {
		r.ownerByPlayer[playerID] = item.ID
	}
}

func (r *TeamRegistry) deleteLocked(teamID string) {
	previous, ok := r.teamsByID[teamID]
	if !ok {
		return
	}

	for _, playerID := range previous.PlayerIDs {
		delete(r.ownerByPlayer, playerID)
	}
	delete(r.teamsByID, teamID)
	for idx, id := range r.order {
		if id == teamID {
			r.order = append(r.order[:idx], r.order[idx+1:]...)
			break
		}
	}
}

func cloneTeam(t team.Team) team.Team {
	copied := t
	copied.PlayerIDs = append([]int64(nil), t.PlayerIDs...)
	return copied
}
