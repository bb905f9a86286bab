package team

import "fmt"

// Team is a user-defined roster. The ID is minted locally and never changes;
// PlayerIDs keeps assignment order and holds no duplicates; PlayerCount is
// kept equal to len(PlayerIDs) by every writer.
type Team struct {
	ID          string
	Name        string
	Region      string
	Country     string
	PlayerIDs   []int64
	PlayerCount int
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Region == "" {
		return fmt.Errorf("team region is required")
	}
	if t.Country == "" {
		return fmt.Errorf("team country is required")
	}
	if t.PlayerCount != len(t.PlayerIDs) {
		return fmt.Errorf("team player count %d does not match %d assigned players", t.PlayerCount, len(t.PlayerIDs))
	}

	seen := make(map[int64]struct{}, len(t.PlayerIDs))
	for _, playerID := range t.PlayerIDs {
		if _, ok := seen[playerID]; ok {
			return fmt.Errorf("player %d assigned twice to team %s", playerID, t.ID)
		}
		seen[playerID] = struct{}{}
	}

	return nil
}

// HasPlayer reports whether playerID is on this team's roster.
func (t Team) HasPlayer(playerID int64) bool {
	for _, id := range t.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// WithoutPlayer returns a copy of the team with playerID removed and the
// player count recomputed. The original is untouched.
func (t Team) WithoutPlayer(playerID int64) Team {
	out := t
	out.PlayerIDs = make([]int64, 0, len(t.PlayerIDs))
	for _, id := range t.PlayerIDs {
		if id != playerID {
			out.PlayerIDs = append(out.PlayerIDs, id)
		}
	}
	out.PlayerCount = len(out.PlayerIDs)
	return out
}
