package source

// Wire shapes of the per-season dataset files. One standings table, one
// calendar, one season-opening ratings snapshot, one per-match rating detail
// file and optionally the prior season's snapshot.

type StandingsFile struct {
	Rows []StandingsRow `json:"rows"`
}

type StandingsRow struct {
	Team         string `json:"team"`
	Division     int    `json:"division,omitempty"`
	Group        string `json:"group,omitempty"`
	Points       int    `json:"points"`
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Losses       int    `json:"losses"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
}

type CalendarFile struct {
	Matches []MatchRow `json:"matches"`
}

type MatchRow struct {
	Round  string `json:"round"`
	Team1  string `json:"team1"`
	Team2  string `json:"team2"`
	Score1 *int   `json:"score1,omitempty"`
	Score2 *int   `json:"score2,omitempty"`
	Date   string `json:"date,omitempty"`
	Time   string `json:"time,omitempty"`
	// Unknown is the source's provisional-result sentinel.
	Unknown bool `json:"unknown,omitempty"`
}

type RatingsFile struct {
	Ratings []TeamRating `json:"ratings"`
}

type TeamRating struct {
	Team   string  `json:"team"`
	Rating float64 `json:"rating"`
}

type DetailFile struct {
	Rows []DetailRow `json:"rows"`
}

// DetailRow is one per-match rating row. Correction rows use the correction
// round code, name only Team1 and carry the reconciled values in the
// rating_before1/rating_after1 pair.
type DetailRow struct {
	Round          string   `json:"round"`
	Team1          string   `json:"team1"`
	Team2          string   `json:"team2,omitempty"`
	Score1         *int     `json:"score1,omitempty"`
	Score2         *int     `json:"score2,omitempty"`
	RatingBefore1  *float64 `json:"rating_before1,omitempty"`
	RatingBefore2  *float64 `json:"rating_before2,omitempty"`
	RatingAfter1   *float64 `json:"rating_after1,omitempty"`
	RatingAfter2   *float64 `json:"rating_after2,omitempty"`
	Date           string   `json:"date,omitempty"`
	Time           string   `json:"time,omitempty"`
	Unknown        bool     `json:"unknown,omitempty"`
	WasInPrevious1 bool     `json:"was_in_previous1,omitempty"`
	WasInPrevious2 bool     `json:"was_in_previous2,omitempty"`
}
