package domain

import (
	"strings"
)

var reserveSuffixes = []string{" B", " C", " D"}

// IsReserveTeam reports whether a team name carries a reserve-squad suffix
// ("Informática B"). Reserve teams never earn a primary seat on their own
// standings merit.
func IsReserveTeam(team string) bool {
	for _, suffix := range reserveSuffixes {
		if strings.HasSuffix(team, suffix) {
			return true
		}
	}
	return false
}

// SeniorTeamOf strips the reserve suffix from a reserve team's name. Returns
// the name unchanged for non-reserve teams.
func SeniorTeamOf(team string) string {
	for _, suffix := range reserveSuffixes {
		if strings.HasSuffix(team, suffix) {
			return strings.TrimSuffix(team, suffix)
		}
	}
	return team
}

// ViewContext is the immutable selection a pipeline run operates on. It is
// threaded as an argument into every builder and resolver call so that
// concurrent dataset switches cannot leak state across runs.
type ViewContext struct {
	Sport      string
	Season     string
	Generation uint64
}

func (v ViewContext) Key() string {
	return v.Sport + "/" + v.Season
}
