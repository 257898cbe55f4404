package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PhaseKind partitions match records by which stage of the season produced
// them. Parsed once at ingestion; consumers never compare label strings.
type PhaseKind int

const (
	KindRegular PhaseKind = iota
	KindPrimaryElimination
	KindSecondaryElimination
	KindSecondaryLeague
	KindCorrection
)

func (k PhaseKind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindPrimaryElimination:
		return "primary-elimination"
	case KindSecondaryElimination:
		return "secondary-elimination"
	case KindSecondaryLeague:
		return "secondary-league"
	case KindCorrection:
		return "inter-group-correction"
	}
	return "unknown"
}

// PhaseCode identifies a non-numeric round. The integer values declare the
// total order used when same-day matches from different phases must be
// sequenced: quarterfinal < semifinal < third-place < final.
type PhaseCode int

const (
	PhaseNone PhaseCode = iota // regular-season jornada
	PhaseQuarterfinal
	PhaseSemifinal
	PhaseThirdPlace
	PhaseFinal
	PhaseMaintenanceRound1
	PhaseMaintenanceRound2
	PhaseLeagueRound
	PhaseCorrection
)

func (p PhaseCode) String() string {
	switch p {
	case PhaseNone:
		return "jornada"
	case PhaseQuarterfinal:
		return "quarterfinal"
	case PhaseSemifinal:
		return "semifinal"
	case PhaseThirdPlace:
		return "third-place"
	case PhaseFinal:
		return "final"
	case PhaseMaintenanceRound1:
		return "maintenance-round-1"
	case PhaseMaintenanceRound2:
		return "maintenance-round-2"
	case PhaseLeagueRound:
		return "league-round"
	case PhaseCorrection:
		return "correction"
	}
	return "unknown"
}

// Rank orders primary elimination phases within one day. Regular-season rows
// never collide with elimination rows on date, so they rank zero.
func (p PhaseCode) Rank() int {
	switch p {
	case PhaseQuarterfinal:
		return 1
	case PhaseSemifinal:
		return 2
	case PhaseThirdPlace:
		return 3
	case PhaseFinal:
		return 4
	}
	return 0
}

func (p PhaseCode) Kind() PhaseKind {
	switch p {
	case PhaseQuarterfinal, PhaseSemifinal, PhaseThirdPlace, PhaseFinal:
		return KindPrimaryElimination
	case PhaseMaintenanceRound1, PhaseMaintenanceRound2:
		return KindSecondaryElimination
	case PhaseLeagueRound:
		return KindSecondaryLeague
	case PhaseCorrection:
		return KindCorrection
	}
	return KindRegular
}

// ParseRoundLabel normalizes a raw round label into (jornada, phase). An
// integer label is a regular-season matchday. Phase labels follow the source
// files' code families: E1/E2/E3 for quarterfinal/semifinal/final, E3L for
// the third-place match, PM1/PM2 for maintenance elimination rounds, LM<n>
// for maintenance league rounds and AJ for inter-group correction rows.
func ParseRoundLabel(label string) (int, PhaseCode, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0, PhaseNone, fmt.Errorf("empty round label")
	}

	if jornada, err := strconv.Atoi(label); err == nil {
		if jornada < 1 {
			return 0, PhaseNone, fmt.Errorf("invalid jornada %d", jornada)
		}
		return jornada, PhaseNone, nil
	}

	switch strings.ToUpper(label) {
	case "E1":
		return 0, PhaseQuarterfinal, nil
	case "E2":
		return 0, PhaseSemifinal, nil
	case "E3L":
		return 0, PhaseThirdPlace, nil
	case "E3":
		return 0, PhaseFinal, nil
	case "PM1":
		return 0, PhaseMaintenanceRound1, nil
	case "PM2":
		return 0, PhaseMaintenanceRound2, nil
	case "AJ":
		return 0, PhaseCorrection, nil
	}

	if rest, ok := strings.CutPrefix(strings.ToUpper(label), "LM"); ok {
		if rest == "" {
			return 0, PhaseLeagueRound, nil
		}
		if _, err := strconv.Atoi(rest); err == nil {
			return 0, PhaseLeagueRound, nil
		}
	}

	return 0, PhaseNone, fmt.Errorf("unrecognized round label %q", label)
}

// PlaceholderLabel builds the literal seed reference calendar rows use for a
// not-yet-known team: "1º" in a single league, "1º D1" with divisions,
// "1º D2-A" with divisions and groups, "1º Gr.A" with groups only.
func PlaceholderLabel(position, division int, group string) string {
	switch {
	case division == 0 && group == "":
		return fmt.Sprintf("%dº", position)
	case division == 0:
		return fmt.Sprintf("%dº Gr.%s", position, group)
	case group == "":
		return fmt.Sprintf("%dº D%d", position, division)
	default:
		return fmt.Sprintf("%dº D%d-%s", position, division, group)
	}
}

// WinnerLabel is the progression reference a predicted bracket uses for a
// team decided by an earlier match.
func WinnerLabel(matchNumber int) string {
	return fmt.Sprintf("Ganador P%d", matchNumber)
}

// LoserLabel references the losing side of an earlier match (third-place
// pairings in a predicted bracket).
func LoserLabel(matchNumber int) string {
	return fmt.Sprintf("Perdedor P%d", matchNumber)
}
