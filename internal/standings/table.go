package standings

import (
	"sort"

	"uniliga-tracker/internal/domain"
)

// SortBucket orders one standings bucket: points descending, then goal
// difference, then goals for. The sort is stable so rows the tie-breakers
// cannot separate keep their source order.
func SortBucket(rows []domain.StandingsRow) []domain.StandingsRow {
	sorted := make([]domain.StandingsRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		if sorted[i].GoalDifference() != sorted[j].GoalDifference() {
			return sorted[i].GoalDifference() > sorted[j].GoalDifference()
		}
		return sorted[i].GoalsFor > sorted[j].GoalsFor
	})
	return sorted
}

// GroupByBucket partitions standings rows into their (division, group)
// buckets. Bucket membership is exclusive: one row per team per bucket.
func GroupByBucket(rows []domain.StandingsRow) map[domain.BucketKey][]domain.StandingsRow {
	buckets := make(map[domain.BucketKey][]domain.StandingsRow)
	for _, row := range rows {
		key := row.Bucket()
		buckets[key] = append(buckets[key], row)
	}
	return buckets
}

// LeagueTable computes a round-robin table from scored matches with 3/1/0
// points. Matches without a score pair, or flagged with the unknown-result
// sentinel, update no tally; the caller lists them separately for display.
func LeagueTable(matches []domain.MatchRecord) ([]domain.SecondaryTableRow, []domain.MatchRecord) {
	index := make(map[string]*domain.SecondaryTableRow)
	order := make([]string, 0, 2*len(matches))
	entry := func(team string) *domain.SecondaryTableRow {
		if row, ok := index[team]; ok {
			return row
		}
		row := &domain.SecondaryTableRow{Team: team}
		index[team] = row
		order = append(order, team)
		return row
	}

	var unplayed []domain.MatchRecord
	for _, m := range matches {
		// Teams appear in the table even when their only match is pending.
		home, away := entry(m.Team1), entry(m.Team2)

		if !m.Scored() || m.UnknownResult {
			unplayed = append(unplayed, m)
			continue
		}

		s1, s2 := *m.Score1, *m.Score2
		home.Played++
		away.Played++
		home.GoalsFor += s1
		home.GoalsAgainst += s2
		away.GoalsFor += s2
		away.GoalsAgainst += s1

		switch {
		case s1 > s2:
			home.Wins++
			home.Points += 3
			away.Losses++
		case s2 > s1:
			away.Wins++
			away.Points += 3
			home.Losses++
		default:
			home.Draws++
			away.Draws++
			home.Points++
			away.Points++
		}
	}

	table := make([]domain.SecondaryTableRow, 0, len(order))
	for _, team := range order {
		row := index[team]
		row.GoalDifference = row.GoalsFor - row.GoalsAgainst
		table = append(table, *row)
	}
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		if table[i].GoalDifference != table[j].GoalDifference {
			return table[i].GoalDifference > table[j].GoalDifference
		}
		return table[i].GoalsFor > table[j].GoalsFor
	})
	return table, unplayed
}
