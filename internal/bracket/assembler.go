package bracket

import (
	"github.com/rs/zerolog"

	"uniliga-tracker/internal/constants"
	"uniliga-tracker/internal/domain"
	"uniliga-tracker/internal/standings"
)

// Assembler builds the elimination and maintenance-system views. Realized
// brackets come straight from match rows with placeholder seeds substituted
// against the qualification legend; when no elimination match exists yet a
// predicted bracket is synthesized from the legend alone.
type Assembler struct {
	logger zerolog.Logger
}

func NewAssembler(logger zerolog.Logger) *Assembler {
	return &Assembler{logger: logger}
}

func (a *Assembler) Assemble(eliminationMatches, secondaryMatches []domain.MatchRecord, legend []domain.QualificationSlot) domain.Bracket {
	resolver := newLegendResolver(legend)

	bracket := domain.Bracket{
		Primary:   a.primaryBracket(eliminationMatches, legend, resolver),
		Secondary: a.secondaryBracket(secondaryMatches, resolver),
	}
	return bracket
}

func (a *Assembler) primaryBracket(matches []domain.MatchRecord, legend []domain.QualificationSlot, resolver legendResolver) []domain.BracketRound {
	if len(matches) == 0 {
		return a.predictedBracket(legend)
	}

	byPhase := make(map[domain.PhaseCode][]domain.BracketNode)
	for _, m := range matches {
		byPhase[m.Phase] = append(byPhase[m.Phase], realizedNode(m, resolver))
	}

	var rounds []domain.BracketRound
	for _, phase := range []domain.PhaseCode{domain.PhaseQuarterfinal, domain.PhaseSemifinal, domain.PhaseFinal} {
		nodes := byPhase[phase]
		if phase == domain.PhaseFinal {
			// The third-place match belongs to the final round.
			nodes = append(nodes, byPhase[domain.PhaseThirdPlace]...)
		}
		if len(nodes) == 0 {
			continue
		}
		rounds = append(rounds, domain.BracketRound{Phase: phase, Nodes: nodes})
	}
	return rounds
}

// predictedBracket synthesizes the fixed-seeding view shown before any
// elimination match is played: 1v8, 4v5, 2v7, 3v6, then symbolic progression
// references. Requires a full set of eight primary seats.
func (a *Assembler) predictedBracket(legend []domain.QualificationSlot) []domain.BracketRound {
	var primary []domain.QualificationSlot
	for _, slot := range legend {
		if slot.Type == domain.SlotPrimary {
			primary = append(primary, slot)
		}
	}
	if len(primary) < constants.PrimarySeats {
		a.logger.Debug().
			Int("primary_slots", len(primary)).
			Msg("insufficient primary slots for a predicted bracket")
		return nil
	}

	seed := func(n int) string { return primary[n-1].Team }
	predicted := func(team1, team2 string, thirdPlace bool) domain.BracketNode {
		return domain.BracketNode{
			Team1:             team1,
			Team2:             team2,
			IsPredicted:       true,
			IsThirdPlaceMatch: thirdPlace,
		}
	}

	return []domain.BracketRound{
		{Phase: domain.PhaseQuarterfinal, Nodes: []domain.BracketNode{
			predicted(seed(1), seed(8), false),
			predicted(seed(4), seed(5), false),
			predicted(seed(2), seed(7), false),
			predicted(seed(3), seed(6), false),
		}},
		{Phase: domain.PhaseSemifinal, Nodes: []domain.BracketNode{
			predicted(domain.WinnerLabel(1), domain.WinnerLabel(2), false),
			predicted(domain.WinnerLabel(3), domain.WinnerLabel(4), false),
		}},
		{Phase: domain.PhaseFinal, Nodes: []domain.BracketNode{
			predicted(domain.WinnerLabel(5), domain.WinnerLabel(6), false),
			predicted(domain.LoserLabel(5), domain.LoserLabel(6), true),
		}},
	}
}

// secondaryBracket shapes the maintenance view from whichever phase-code
// family the rows carry: elimination codes make a two-round bracket, league
// codes make a round-robin table. Configuration never decides the shape.
func (a *Assembler) secondaryBracket(matches []domain.MatchRecord, resolver legendResolver) domain.SecondaryBracket {
	var elimination, league []domain.MatchRecord
	for _, m := range matches {
		switch m.Kind {
		case domain.KindSecondaryElimination:
			elimination = append(elimination, m)
		case domain.KindSecondaryLeague:
			league = append(league, m)
		}
	}

	switch {
	case len(elimination) > 0:
		var rounds []domain.BracketRound
		for _, phase := range []domain.PhaseCode{domain.PhaseMaintenanceRound1, domain.PhaseMaintenanceRound2} {
			var nodes []domain.BracketNode
			for _, m := range elimination {
				if m.Phase == phase {
					nodes = append(nodes, realizedNode(m, resolver))
				}
			}
			if len(nodes) > 0 {
				rounds = append(rounds, domain.BracketRound{Phase: phase, Nodes: nodes})
			}
		}
		return domain.SecondaryBracket{Shape: domain.SecondaryElimination, Rounds: rounds}

	case len(league) > 0:
		table, pending := standings.LeagueTable(league)
		unplayed := make([]domain.BracketNode, 0, len(pending))
		for _, m := range pending {
			unplayed = append(unplayed, realizedNode(m, resolver))
		}
		return domain.SecondaryBracket{Shape: domain.SecondaryLeague, Table: table, Unplayed: unplayed}
	}

	return domain.SecondaryBracket{Shape: domain.SecondaryNone}
}

// realizedNode converts one match row, substituting legend placeholders and
// applying the strict winner rule: no winner unless both scores are present
// and unequal. The unknown-result sentinel propagates regardless of whether
// a winner could be computed.
func realizedNode(m domain.MatchRecord, resolver legendResolver) domain.BracketNode {
	node := domain.BracketNode{
		Team1:             resolver.resolve(m.Team1),
		Team2:             resolver.resolve(m.Team2),
		Score1:            m.Score1,
		Score2:            m.Score2,
		IsUnknownResult:   m.UnknownResult,
		IsThirdPlaceMatch: m.Phase == domain.PhaseThirdPlace,
	}
	if m.Scored() {
		switch {
		case *m.Score1 > *m.Score2:
			node.Winner = node.Team1
		case *m.Score2 > *m.Score1:
			node.Winner = node.Team2
		}
	}
	return node
}

// legendResolver substitutes the literal placeholder labels calendar rows
// use for not-yet-known teams. Unmatched literals pass through unchanged:
// they are genuine team names or unresolved progression references.
type legendResolver map[string]string

func newLegendResolver(legend []domain.QualificationSlot) legendResolver {
	resolver := make(legendResolver, len(legend))
	for _, slot := range legend {
		if slot.Team != "" {
			resolver[slot.PlaceholderLabel()] = slot.Team
		}
	}
	return resolver
}

func (r legendResolver) resolve(literal string) string {
	if team, ok := r[literal]; ok {
		return team
	}
	return literal
}
