package source

import (
	"fmt"
	"time"

	"uniliga-tracker/internal/domain"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// ParseTimestamp combines the calendar's date and optional time fields.
// Round grouping keys on the full instant, so two fixtures sharing date and
// time land in the same round.
func ParseTimestamp(date, clock string) (time.Time, bool) {
	if date == "" {
		return time.Time{}, false
	}
	if clock != "" {
		if ts, err := time.Parse(dateTimeLayout, date+" "+clock); err == nil {
			return ts, true
		}
	}
	ts, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// NormalizeStandings converts wire standings rows to domain rows.
func NormalizeStandings(file *StandingsFile) []domain.StandingsRow {
	if file == nil {
		return nil
	}
	rows := make([]domain.StandingsRow, 0, len(file.Rows))
	for _, r := range file.Rows {
		rows = append(rows, domain.StandingsRow{
			Team:         r.Team,
			Division:     r.Division,
			Group:        r.Group,
			Points:       r.Points,
			Wins:         r.Wins,
			Draws:        r.Draws,
			Losses:       r.Losses,
			GoalsFor:     r.GoalsFor,
			GoalsAgainst: r.GoalsAgainst,
		})
	}
	return rows
}

// NormalizeCalendar parses calendar rows, classifying each round label once.
// Rows with labels the parser does not recognize are dropped with an error
// so the caller can log them; one bad row never fails the load.
func NormalizeCalendar(file *CalendarFile) ([]domain.MatchRecord, []error) {
	if file == nil {
		return nil, nil
	}
	records := make([]domain.MatchRecord, 0, len(file.Matches))
	var errs []error
	for _, m := range file.Matches {
		jornada, phase, err := domain.ParseRoundLabel(m.Round)
		if err != nil {
			errs = append(errs, fmt.Errorf("calendar row %s vs %s: %w", m.Team1, m.Team2, err))
			continue
		}
		ts, hasTS := ParseTimestamp(m.Date, m.Time)
		records = append(records, domain.MatchRecord{
			RoundLabel:    m.Round,
			Jornada:       jornada,
			Phase:         phase,
			Kind:          phase.Kind(),
			Team1:         m.Team1,
			Team2:         m.Team2,
			Score1:        m.Score1,
			Score2:        m.Score2,
			Timestamp:     ts,
			HasTimestamp:  hasTS,
			UnknownResult: m.Unknown,
		})
	}
	return records, errs
}

// NormalizeDetail parses per-match rating rows, including correction rows.
func NormalizeDetail(file *DetailFile) ([]domain.MatchRecord, []error) {
	if file == nil {
		return nil, nil
	}
	records := make([]domain.MatchRecord, 0, len(file.Rows))
	var errs []error
	for _, r := range file.Rows {
		jornada, phase, err := domain.ParseRoundLabel(r.Round)
		if err != nil {
			errs = append(errs, fmt.Errorf("detail row %s vs %s: %w", r.Team1, r.Team2, err))
			continue
		}
		ts, hasTS := ParseTimestamp(r.Date, r.Time)
		records = append(records, domain.MatchRecord{
			RoundLabel:     r.Round,
			Jornada:        jornada,
			Phase:          phase,
			Kind:           phase.Kind(),
			Team1:          r.Team1,
			Team2:          r.Team2,
			Score1:         r.Score1,
			Score2:         r.Score2,
			RatingBefore1:  r.RatingBefore1,
			RatingBefore2:  r.RatingBefore2,
			RatingAfter1:   r.RatingAfter1,
			RatingAfter2:   r.RatingAfter2,
			Timestamp:      ts,
			HasTimestamp:   hasTS,
			UnknownResult:  r.Unknown,
			WasInPrevious1: r.WasInPrevious1,
			WasInPrevious2: r.WasInPrevious2,
		})
	}
	return records, errs
}

// NormalizeRatings flattens a ratings snapshot into a lookup map.
func NormalizeRatings(file *RatingsFile) map[string]float64 {
	if file == nil {
		return map[string]float64{}
	}
	ratings := make(map[string]float64, len(file.Ratings))
	for _, r := range file.Ratings {
		ratings[r.Team] = r.Rating
	}
	return ratings
}

// NormalizeMembership extracts the team set of a prior-season snapshot.
func NormalizeMembership(file *RatingsFile) map[string]struct{} {
	if file == nil {
		return map[string]struct{}{}
	}
	teams := make(map[string]struct{}, len(file.Ratings))
	for _, r := range file.Ratings {
		teams[r.Team] = struct{}{}
	}
	return teams
}
