package player

// Franchise is the NBA club a player currently belongs to upstream. The
// roster manager never edits it; it is descriptive pass-through and unrelated
// to the user-defined teams in the registry.
type Franchise struct {
	ID           int64
	FullName     string
	Abbreviation string
	City         string
	Name         string
	Conference   string
	Division     string
}

// Player is an athlete record owned by the listing provider. The ID is the
// only field this system relies on; everything else is display data.
type Player struct {
	ID           int64
	FirstName    string
	LastName     string
	Position     string
	Height       string
	Weight       string
	JerseyNumber string
	College      string
	Country      string
	DraftYear    *int
	DraftRound   *int
	DraftNumber  *int
	Franchise    Franchise
}

// Page is one slice of the provider's player listing. A nil NextCursor means
// the listing is exhausted.
type Page struct {
	Players    []Player
	NextCursor *int64
	PerPage    int
}
