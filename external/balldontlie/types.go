package balldontlie

import "github.com/courtsidehq/roster-api/internal/domain/player"

// Wire shapes for the /players endpoint. Nullable provider fields decode as
// JSON null into zero values or nil pointers; the domain model keeps the
// pointer-ness only where callers care about absent-vs-zero.
type playersEnvelope struct {
	Data []playerPayload `json:"data"`
	Meta pageMeta        `json:"meta"`
}

type pageMeta struct {
	NextCursor *int64 `json:"next_cursor"`
	PerPage    int    `json:"per_page"`
}

type playerPayload struct {
	ID           int64            `json:"id"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	Position     string           `json:"position"`
	Height       string           `json:"height"`
	Weight       string           `json:"weight"`
	JerseyNumber string           `json:"jersey_number"`
	College      string           `json:"college"`
	Country      string           `json:"country"`
	DraftYear    *int             `json:"draft_year"`
	DraftRound   *int             `json:"draft_round"`
	DraftNumber  *int             `json:"draft_number"`
	Team         franchisePayload `json:"team"`
}

type franchisePayload struct {
	ID           int64  `json:"id"`
	FullName     string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Name         string `json:"name"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
}

func (p playerPayload) toDomain() player.Player {
	return player.Player{
		ID:           p.ID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Position:     p.Position,
		Height:       p.Height,
		Weight:       p.Weight,
		JerseyNumber: p.JerseyNumber,
		College:      p.College,
		Country:      p.Country,
		DraftYear:    p.DraftYear,
		DraftRound:   p.DraftRound,
		DraftNumber:  p.DraftNumber,
		Franchise: player.Franchise{
			ID:           p.Team.ID,
			FullName:     p.Team.FullName,
			Abbreviation: p.Team.Abbreviation,
			City:         p.Team.City,
			Name:         p.Team.Name,
			Conference:   p.Team.Conference,
			Division:     p.Team.Division,
		},
	}
}
