package server

import (
	"sort"
	"time"

	"uniliga-tracker/internal/domain"
	"uniliga-tracker/internal/service"
)

// Response shapes. Domain types stay transport-agnostic; the JSON contract
// lives here.

type standingsRowResponse struct {
	Team         string `json:"team"`
	Points       int    `json:"points"`
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Losses       int    `json:"losses"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	GoalDiff     int    `json:"goal_diff"`
}

type bucketTableResponse struct {
	Division int                    `json:"division,omitempty"`
	Group    string                 `json:"group,omitempty"`
	Rows     []standingsRowResponse `json:"rows"`
}

func toStandingsResponse(tables []service.BucketTable) []bucketTableResponse {
	out := make([]bucketTableResponse, 0, len(tables))
	for _, table := range tables {
		rows := make([]standingsRowResponse, 0, len(table.Rows))
		for _, row := range table.Rows {
			rows = append(rows, standingsRowResponse{
				Team:         row.Team,
				Points:       row.Points,
				Wins:         row.Wins,
				Draws:        row.Draws,
				Losses:       row.Losses,
				GoalsFor:     row.GoalsFor,
				GoalsAgainst: row.GoalsAgainst,
				GoalDiff:     row.GoalDifference(),
			})
		}
		out = append(out, bucketTableResponse{Division: table.Division, Group: table.Group, Rows: rows})
	}
	return out
}

type slotResponse struct {
	Position     int    `json:"position"`
	Team         string `json:"team"`
	Type         string `json:"type"`
	Division     int    `json:"division,omitempty"`
	Group        string `json:"group,omitempty"`
	IsSubstitute bool   `json:"is_substitute,omitempty"`
	Placeholder  string `json:"placeholder"`
}

type qualificationResponse struct {
	Structure   string         `json:"structure"`
	Primary     []slotResponse `json:"primary"`
	Maintenance []slotResponse `json:"maintenance,omitempty"`
	Promotion   []slotResponse `json:"promotion,omitempty"`
	Shortfall   bool           `json:"shortfall,omitempty"`
}

func toQualificationResponse(result domain.QualificationResult) qualificationResponse {
	return qualificationResponse{
		Structure:   result.Structure.String(),
		Primary:     toSlotResponses(result.Primary),
		Maintenance: toSlotResponses(result.Maintenance),
		Promotion:   toSlotResponses(result.Promotion),
		Shortfall:   result.Shortfall,
	}
}

func toSlotResponses(slots []domain.QualificationSlot) []slotResponse {
	out := make([]slotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, slotResponse{
			Position:     slot.RankPosition,
			Team:         slot.Team,
			Type:         slot.Type.String(),
			Division:     slot.Division,
			Group:        slot.Group,
			IsSubstitute: slot.IsSubstitute,
			Placeholder:  slot.PlaceholderLabel(),
		})
	}
	return out
}

type nodeResponse struct {
	Team1         string `json:"team1"`
	Team2         string `json:"team2"`
	Score1        *int   `json:"score1,omitempty"`
	Score2        *int   `json:"score2,omitempty"`
	Winner        string `json:"winner,omitempty"`
	Predicted     bool   `json:"predicted,omitempty"`
	UnknownResult bool   `json:"unknown_result,omitempty"`
	ThirdPlace    bool   `json:"third_place,omitempty"`
}

type roundResponse struct {
	Phase string         `json:"phase"`
	Nodes []nodeResponse `json:"nodes"`
}

type secondaryResponse struct {
	Shape    string             `json:"shape"`
	Rounds   []roundResponse    `json:"rounds,omitempty"`
	Table    []tableRowResponse `json:"table,omitempty"`
	Unplayed []nodeResponse     `json:"unplayed,omitempty"`
}

type tableRowResponse struct {
	Team     string `json:"team"`
	Played   int    `json:"played"`
	Wins     int    `json:"wins"`
	Draws    int    `json:"draws"`
	Losses   int    `json:"losses"`
	GoalsFor int    `json:"goals_for"`
	Against  int    `json:"goals_against"`
	GoalDiff int    `json:"goal_diff"`
	Points   int    `json:"points"`
}

type bracketResponse struct {
	Primary   []roundResponse   `json:"primary"`
	Secondary secondaryResponse `json:"secondary"`
}

func toBracketResponse(bracket domain.Bracket) bracketResponse {
	resp := bracketResponse{
		Primary: toRoundResponses(bracket.Primary),
		Secondary: secondaryResponse{
			Shape:    secondaryShapeName(bracket.Secondary.Shape),
			Rounds:   toRoundResponses(bracket.Secondary.Rounds),
			Unplayed: toNodeResponses(bracket.Secondary.Unplayed),
		},
	}
	for _, row := range bracket.Secondary.Table {
		resp.Secondary.Table = append(resp.Secondary.Table, tableRowResponse{
			Team:     row.Team,
			Played:   row.Played,
			Wins:     row.Wins,
			Draws:    row.Draws,
			Losses:   row.Losses,
			GoalsFor: row.GoalsFor,
			Against:  row.GoalsAgainst,
			GoalDiff: row.GoalDifference,
			Points:   row.Points,
		})
	}
	return resp
}

func toRoundResponses(rounds []domain.BracketRound) []roundResponse {
	out := make([]roundResponse, 0, len(rounds))
	for _, round := range rounds {
		out = append(out, roundResponse{
			Phase: round.Phase.String(),
			Nodes: toNodeResponses(round.Nodes),
		})
	}
	return out
}

func toNodeResponses(nodes []domain.BracketNode) []nodeResponse {
	out := make([]nodeResponse, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, nodeResponse{
			Team1:         node.Team1,
			Team2:         node.Team2,
			Score1:        node.Score1,
			Score2:        node.Score2,
			Winner:        node.Winner,
			Predicted:     node.IsPredicted,
			UnknownResult: node.IsUnknownResult,
			ThirdPlace:    node.IsThirdPlaceMatch,
		})
	}
	return out
}

func secondaryShapeName(shape domain.SecondaryShape) string {
	switch shape {
	case domain.SecondaryElimination:
		return "elimination"
	case domain.SecondaryLeague:
		return "league"
	}
	return "none"
}

type eventResponse struct {
	Ordinal int     `json:"ordinal"`
	Time    string  `json:"time,omitempty"`
	Value   float64 `json:"value"`
}

type seriesResponse struct {
	Team      string          `json:"team"`
	CarryOver bool            `json:"carry_over"`
	Events    []eventResponse `json:"events"`
}

func toSeriesResponse(series *domain.TeamRatingSeries) seriesResponse {
	events := make([]eventResponse, 0, len(series.Events))
	for _, event := range series.Events {
		resp := eventResponse{Ordinal: event.Ordinal, Value: event.Value}
		if !event.Time.IsZero() {
			resp.Time = event.Time.Format(time.RFC3339)
		}
		events = append(events, resp)
	}
	return seriesResponse{Team: series.Team, CarryOver: series.CarryOver, Events: events}
}

func toRatingsResponse(series map[string]*domain.TeamRatingSeries) []seriesResponse {
	teams := make([]string, 0, len(series))
	for team := range series {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	out := make([]seriesResponse, 0, len(teams))
	for _, team := range teams {
		out = append(out, toSeriesResponse(series[team]))
	}
	return out
}
