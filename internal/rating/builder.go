package rating

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"uniliga-tracker/internal/constants"
	"uniliga-tracker/internal/domain"
)

// Builder reconstructs per-team rating trajectories from the loaded match
// set. All series produced by one Build call share a single timeline and
// therefore have equal length.
type Builder struct {
	logger zerolog.Logger
}

func NewBuilder(logger zerolog.Logger) *Builder {
	return &Builder{logger: logger}
}

type correction struct {
	adjustment float64
	after      *float64
}

// Build assembles one ordered series per known team. Known teams are the
// union of match participants, correction subjects and the keys of the
// opening-ratings snapshot; a team seen nowhere else still gets a flat
// series so shared-timeline consumers can index all series uniformly.
func (b *Builder) Build(
	matches []domain.MatchRecord,
	initialRatings map[string]float64,
	previousSeasonTeams map[string]struct{},
	defaultRating float64,
) map[string]*domain.TeamRatingSeries {
	playable, corrections := b.partition(matches)
	rounds := groupRounds(sortChronological(playable))

	series := make(map[string]*domain.TeamRatingSeries)
	start := func(team string) {
		if _, ok := series[team]; ok {
			return
		}
		value, ok := initialRatings[team]
		if !ok {
			value = defaultRating
		}
		_, carryOver := previousSeasonTeams[team]
		series[team] = &domain.TeamRatingSeries{
			Team:      team,
			CarryOver: carryOver,
			Events:    []domain.RatingEvent{{Ordinal: 0, Value: value}},
		}
	}

	for team := range initialRatings {
		start(team)
	}
	for team := range corrections {
		start(team)
	}
	for _, m := range playable {
		start(m.Team1)
		start(m.Team2)
	}

	for i, round := range rounds {
		updated := make(map[string]float64, 2*len(round.matches))
		for _, m := range round.matches {
			if m.RatingAfter1 != nil {
				updated[m.Team1] = *m.RatingAfter1
			}
			if m.RatingAfter2 != nil {
				updated[m.Team2] = *m.RatingAfter2
			}
		}
		for _, s := range series {
			value, ok := updated[s.Team]
			if !ok {
				value = s.Last()
			}
			s.Events = append(s.Events, domain.RatingEvent{
				Ordinal: i + 1,
				Time:    round.at,
				Value:   value,
			})
		}
	}

	if b.needsCorrectionRound(series, corrections) {
		at := time.Time{}
		if n := len(rounds); n > 0 {
			at = rounds[n-1].at.AddDate(0, 0, 1)
		}
		ordinal := len(rounds) + 1
		for _, s := range series {
			value := s.Last()
			if c, ok := corrections[s.Team]; ok && c.after != nil {
				value = *c.after
			}
			s.Events = append(s.Events, domain.RatingEvent{
				Ordinal: ordinal,
				Time:    at,
				Value:   value,
			})
		}
	}

	b.logger.Debug().
		Int("teams", len(series)).
		Int("rounds", len(rounds)).
		Int("corrections", len(corrections)).
		Msg("rating history reconstructed")

	return series
}

// partition splits the match set into rows that advance the timeline and the
// side table of inter-group corrections. Secondary-phase rows carry no
// rating values and are not part of the trajectory.
func (b *Builder) partition(matches []domain.MatchRecord) ([]domain.MatchRecord, map[string]correction) {
	playable := make([]domain.MatchRecord, 0, len(matches))
	corrections := make(map[string]correction)

	for _, m := range matches {
		switch m.Kind {
		case domain.KindCorrection:
			c := correction{after: m.RatingAfter1}
			if m.RatingBefore1 != nil && m.RatingAfter1 != nil {
				c.adjustment = *m.RatingAfter1 - *m.RatingBefore1
			}
			corrections[m.Team1] = c
		case domain.KindRegular, domain.KindPrimaryElimination:
			if !m.HasTimestamp {
				b.logger.Warn().
					Str("round", m.RoundLabel).
					Str("team1", m.Team1).
					Str("team2", m.Team2).
					Msg("match without usable timestamp excluded from rating timeline")
				continue
			}
			playable = append(playable, m)
		}
	}
	return playable, corrections
}

// needsCorrectionRound reports whether the correction side table changes
// anything: a non-zero declared adjustment, or an after-value more than the
// tolerance away from the team's last computed rating.
func (b *Builder) needsCorrectionRound(series map[string]*domain.TeamRatingSeries, corrections map[string]correction) bool {
	for team, c := range corrections {
		if c.adjustment != 0 {
			return true
		}
		s, ok := series[team]
		if !ok || c.after == nil {
			continue
		}
		if math.Abs(*c.after-s.Last()) > constants.CorrectionTolerance {
			return true
		}
	}
	return false
}

// sortChronological orders the merged regular and elimination rows by
// (timestamp, phase rank). The sort is stable: rows the key cannot separate
// keep their ingestion order, which makes reconstruction reproducible.
func sortChronological(matches []domain.MatchRecord) []domain.MatchRecord {
	sorted := make([]domain.MatchRecord, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		}
		return sorted[i].Phase.Rank() < sorted[j].Phase.Rank()
	})
	return sorted
}

type round struct {
	at      time.Time
	matches []domain.MatchRecord
}

// groupRounds folds consecutive matches with an identical timestamp (date
// and time) into one round, so simultaneous fixtures append a single rating
// event per team.
func groupRounds(sorted []domain.MatchRecord) []round {
	var rounds []round
	for _, m := range sorted {
		if n := len(rounds); n > 0 && rounds[n-1].at.Equal(m.Timestamp) {
			rounds[n-1].matches = append(rounds[n-1].matches, m)
			continue
		}
		rounds = append(rounds, round{at: m.Timestamp, matches: []domain.MatchRecord{m}})
	}
	return rounds
}
