package domain

import (
	"time"
)

// MatchRecord is one normalized row from a loaded calendar or rating-detail
// file. Records are immutable once ingested.
type MatchRecord struct {
	RoundLabel    string
	Jornada       int // regular-season matchday, 0 for phase rows
	Phase         PhaseCode
	Kind          PhaseKind
	Team1         string
	Team2         string
	Score1        *int
	Score2        *int
	RatingBefore1 *float64
	RatingBefore2 *float64
	RatingAfter1  *float64
	RatingAfter2  *float64
	Timestamp     time.Time
	HasTimestamp  bool
	// UnknownResult marks the source row's "unknown" sentinel. Advisory: a
	// winner may still be computable from the scores.
	UnknownResult  bool
	WasInPrevious1 bool
	WasInPrevious2 bool
}

func (m MatchRecord) Scored() bool {
	return m.Score1 != nil && m.Score2 != nil
}

// BucketKey scopes a standings table to one (division, group) pair.
// Division 0 and empty Group mean "untagged" (single-league datasets).
type BucketKey struct {
	Division int
	Group    string
}

type StandingsRow struct {
	Team         string
	Division     int
	Group        string
	Points       int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
}

func (r StandingsRow) GoalDifference() int {
	return r.GoalsFor - r.GoalsAgainst
}

func (r StandingsRow) Bucket() BucketKey {
	return BucketKey{Division: r.Division, Group: r.Group}
}

// RatingEvent is one point of a team's rating trajectory. Ordinal is the
// round index on the shared timeline (0 = synthetic start event).
type RatingEvent struct {
	Ordinal int
	Time    time.Time
	Value   float64
}

// TeamRatingSeries is the full reconstructed trajectory of one team. Every
// series produced in the same reconstruction run has equal length.
type TeamRatingSeries struct {
	Team string
	// CarryOver is true when the team was already a member in the previous
	// season; consumers use it to pick a series starting style.
	CarryOver bool
	Events    []RatingEvent
}

func (s TeamRatingSeries) Last() float64 {
	return s.Events[len(s.Events)-1].Value
}

type SlotType int

const (
	SlotPrimary SlotType = iota
	SlotMaintenanceElimination
	SlotMaintenanceLeague
	SlotPromotionElimination
	SlotPromotionLeague
)

func (t SlotType) String() string {
	switch t {
	case SlotPrimary:
		return "primary"
	case SlotMaintenanceElimination:
		return "maintenance-elimination"
	case SlotMaintenanceLeague:
		return "maintenance-league"
	case SlotPromotionElimination:
		return "promotion-elimination"
	case SlotPromotionLeague:
		return "promotion-league"
	}
	return "unknown"
}

// QualificationSlot binds one abstract seat (position within a bucket) to the
// team currently occupying it. IsSubstitute is true when the occupant is not
// the nominal standings position for the seat (a reserve team was skipped).
type QualificationSlot struct {
	RankPosition int
	Team         string
	Type         SlotType
	Division     int
	Group        string
	IsSubstitute bool
}

// PlaceholderLabel is the literal string a calendar row uses to reference
// this slot before the team is known, e.g. "1º D1" or "2º D2-A".
func (s QualificationSlot) PlaceholderLabel() string {
	return PlaceholderLabel(s.RankPosition, s.Division, s.Group)
}

type Structure int

const (
	StructureUnknown Structure = iota
	StructureSingleLeague
	StructureGroupsOnly
	StructureDivisionsOnly
	StructureDivisionsAndGroups
)

func (s Structure) String() string {
	switch s {
	case StructureSingleLeague:
		return "single-league"
	case StructureGroupsOnly:
		return "groups-only"
	case StructureDivisionsOnly:
		return "divisions-only"
	case StructureDivisionsAndGroups:
		return "divisions-and-groups"
	}
	return "unknown"
}

// SystemFlags records which phase-code families and bucket tags were seen in
// the loaded match set. Detected once at swap time, never re-derived.
type SystemFlags struct {
	HasPrimaryElimination     bool
	HasMaintenanceElimination bool
	HasMaintenanceLeague      bool
	Divisions                 []int
	GroupsByDivision          map[int][]string
}

// QualificationResult is the resolver's full output. Shortfall is set when a
// bucket could not fill all of its seats with eligible teams.
type QualificationResult struct {
	Structure   Structure
	Primary     []QualificationSlot
	Maintenance []QualificationSlot
	Promotion   []QualificationSlot
	Legend      []QualificationSlot
	Shortfall   bool
}

// BracketNode is one match of a bracket view. Team fields hold literal team
// names once resolved against the legend; unresolved progression references
// ("Winner M1") pass through unchanged.
type BracketNode struct {
	Team1             string
	Team2             string
	Score1            *int
	Score2            *int
	Winner            string
	IsPredicted       bool
	IsUnknownResult   bool
	IsThirdPlaceMatch bool
}

type BracketRound struct {
	Phase PhaseCode
	Nodes []BracketNode
}

type SecondaryShape int

const (
	SecondaryNone SecondaryShape = iota
	SecondaryElimination
	SecondaryLeague
)

type SecondaryTableRow struct {
	Team           string
	Played         int
	Wins           int
	Draws          int
	Losses         int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
}

// SecondaryBracket holds the maintenance system view: either a short
// two-round elimination or a round-robin league table, decided by the
// phase-code family present in the data, never by configuration.
type SecondaryBracket struct {
	Shape  SecondaryShape
	Rounds []BracketRound
	Table  []SecondaryTableRow
	// Unplayed lists league matches that did not update the table (missing
	// score or unknown result) but are still shown.
	Unplayed []BracketNode
}

type Bracket struct {
	Primary   []BracketRound
	Secondary SecondaryBracket
}
