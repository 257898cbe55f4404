package bracket

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniliga-tracker/internal/domain"
)

func testAssembler() *Assembler {
	return NewAssembler(zerolog.Nop())
}

func ip(v int) *int { return &v }

func eliminationMatch(phase domain.PhaseCode, team1, team2 string, s1, s2 *int) domain.MatchRecord {
	return domain.MatchRecord{
		Kind:   phase.Kind(),
		Phase:  phase,
		Team1:  team1,
		Team2:  team2,
		Score1: s1,
		Score2: s2,
	}
}

func eightSlotLegend() []domain.QualificationSlot {
	teams := []string{"Medicina", "Derecho", "Física", "Química", "Historia", "Biología", "Filosofía", "Economía"}
	legend := make([]domain.QualificationSlot, 0, len(teams))
	for i, team := range teams {
		legend = append(legend, domain.QualificationSlot{
			RankPosition: i + 1,
			Team:         team,
			Type:         domain.SlotPrimary,
			Division:     1,
		})
	}
	return legend
}

func TestAssemblePlaceholderSubstitution(t *testing.T) {
	legend := eightSlotLegend()
	matches := []domain.MatchRecord{
		eliminationMatch(domain.PhaseQuarterfinal, "1º D1", "8º D1", ip(3), ip(1)),
		eliminationMatch(domain.PhaseQuarterfinal, "Ganador P2", "7º D1", nil, nil),
	}

	bracket := testAssembler().Assemble(matches, nil, legend)

	require.Len(t, bracket.Primary, 1)
	nodes := bracket.Primary[0].Nodes
	require.Len(t, nodes, 2)
	assert.Equal(t, "Medicina", nodes[0].Team1)
	assert.Equal(t, "Economía", nodes[0].Team2)
	assert.Equal(t, "Medicina", nodes[0].Winner)
	// Unmatched literals pass through unchanged.
	assert.Equal(t, "Ganador P2", nodes[1].Team1)
	assert.Equal(t, "Filosofía", nodes[1].Team2)
}

func TestAssembleNoWinnerWithoutBothScores(t *testing.T) {
	matches := []domain.MatchRecord{
		eliminationMatch(domain.PhaseFinal, "A", "B", ip(2), nil),
		eliminationMatch(domain.PhaseThirdPlace, "C", "D", nil, nil),
	}

	bracket := testAssembler().Assemble(matches, nil, nil)

	require.Len(t, bracket.Primary, 1)
	for _, node := range bracket.Primary[0].Nodes {
		assert.Empty(t, node.Winner)
	}
}

func TestAssembleDrawHasNoWinner(t *testing.T) {
	matches := []domain.MatchRecord{
		eliminationMatch(domain.PhaseFinal, "A", "B", ip(1), ip(1)),
	}

	bracket := testAssembler().Assemble(matches, nil, nil)

	assert.Empty(t, bracket.Primary[0].Nodes[0].Winner)
}

func TestAssembleUnknownResultPropagates(t *testing.T) {
	match := eliminationMatch(domain.PhaseSemifinal, "A", "B", ip(2), ip(0))
	match.UnknownResult = true

	bracket := testAssembler().Assemble([]domain.MatchRecord{match}, nil, nil)

	node := bracket.Primary[0].Nodes[0]
	// Advisory flag: the winner is still computed from the scores.
	assert.True(t, node.IsUnknownResult)
	assert.Equal(t, "A", node.Winner)
}

func TestAssembleThirdPlaceJoinsFinalRound(t *testing.T) {
	matches := []domain.MatchRecord{
		eliminationMatch(domain.PhaseThirdPlace, "C", "D", ip(1), ip(0)),
		eliminationMatch(domain.PhaseFinal, "A", "B", ip(2), ip(1)),
	}

	bracket := testAssembler().Assemble(matches, nil, nil)

	require.Len(t, bracket.Primary, 1)
	round := bracket.Primary[0]
	assert.Equal(t, domain.PhaseFinal, round.Phase)
	require.Len(t, round.Nodes, 2)
	assert.False(t, round.Nodes[0].IsThirdPlaceMatch)
	assert.True(t, round.Nodes[1].IsThirdPlaceMatch)
}

func TestAssemblePredictedBracketSeeding(t *testing.T) {
	bracket := testAssembler().Assemble(nil, nil, eightSlotLegend())

	require.Len(t, bracket.Primary, 3)

	quarters := bracket.Primary[0]
	require.Len(t, quarters.Nodes, 4)
	assert.Equal(t, "Medicina", quarters.Nodes[0].Team1)  // seed 1
	assert.Equal(t, "Economía", quarters.Nodes[0].Team2)  // seed 8
	assert.Equal(t, "Química", quarters.Nodes[1].Team1)   // seed 4
	assert.Equal(t, "Historia", quarters.Nodes[1].Team2)  // seed 5
	assert.Equal(t, "Derecho", quarters.Nodes[2].Team1)   // seed 2
	assert.Equal(t, "Filosofía", quarters.Nodes[2].Team2) // seed 7
	assert.Equal(t, "Física", quarters.Nodes[3].Team1)    // seed 3
	assert.Equal(t, "Biología", quarters.Nodes[3].Team2)  // seed 6

	for _, round := range bracket.Primary {
		for _, node := range round.Nodes {
			assert.True(t, node.IsPredicted)
			assert.Nil(t, node.Score1)
			assert.Empty(t, node.Winner)
		}
	}

	final := bracket.Primary[2]
	require.Len(t, final.Nodes, 2)
	assert.True(t, final.Nodes[1].IsThirdPlaceMatch)
	assert.Equal(t, domain.WinnerLabel(5), final.Nodes[0].Team1)
	assert.Equal(t, domain.LoserLabel(5), final.Nodes[1].Team1)
}

func TestAssembleNoPredictionWithShortLegend(t *testing.T) {
	legend := eightSlotLegend()[:5]

	bracket := testAssembler().Assemble(nil, nil, legend)

	assert.Empty(t, bracket.Primary)
}

func TestAssembleSecondaryShapeFromPhaseFamily(t *testing.T) {
	elimination := []domain.MatchRecord{
		eliminationMatch(domain.PhaseMaintenanceRound1, "A", "B", ip(1), ip(0)),
		eliminationMatch(domain.PhaseMaintenanceRound2, "A", "C", nil, nil),
	}

	bracket := testAssembler().Assemble(nil, elimination, nil)

	require.Equal(t, domain.SecondaryElimination, bracket.Secondary.Shape)
	require.Len(t, bracket.Secondary.Rounds, 2)
	assert.Equal(t, "A", bracket.Secondary.Rounds[0].Nodes[0].Winner)
	assert.Empty(t, bracket.Secondary.Rounds[1].Nodes[0].Winner)
}

func TestAssembleSecondaryLeagueShape(t *testing.T) {
	league := []domain.MatchRecord{
		eliminationMatch(domain.PhaseLeagueRound, "A", "B", ip(2), ip(0)),
		eliminationMatch(domain.PhaseLeagueRound, "A", "C", nil, nil),
	}

	bracket := testAssembler().Assemble(nil, league, nil)

	require.Equal(t, domain.SecondaryLeague, bracket.Secondary.Shape)
	require.NotEmpty(t, bracket.Secondary.Table)
	assert.Equal(t, "A", bracket.Secondary.Table[0].Team)
	assert.Equal(t, 3, bracket.Secondary.Table[0].Points)
	require.Len(t, bracket.Secondary.Unplayed, 1)
}

func TestAssembleSecondaryPlaceholdersResolved(t *testing.T) {
	legend := []domain.QualificationSlot{
		{RankPosition: 6, Team: "Arquitectura", Type: domain.SlotMaintenanceElimination, Division: 1},
		{RankPosition: 2, Team: "Topografía", Type: domain.SlotPromotionElimination, Division: 2},
	}
	matches := []domain.MatchRecord{
		eliminationMatch(domain.PhaseMaintenanceRound1, "6º D1", "2º D2", nil, nil),
	}

	bracket := testAssembler().Assemble(nil, matches, legend)

	node := bracket.Secondary.Rounds[0].Nodes[0]
	assert.Equal(t, "Arquitectura", node.Team1)
	assert.Equal(t, "Topografía", node.Team2)
}

func TestAssembleEmptyInputs(t *testing.T) {
	bracket := testAssembler().Assemble(nil, nil, nil)

	assert.Empty(t, bracket.Primary)
	assert.Equal(t, domain.SecondaryNone, bracket.Secondary.Shape)
}
