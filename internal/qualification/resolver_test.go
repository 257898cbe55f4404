package qualification

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniliga-tracker/internal/domain"
)

func testResolver() *Resolver {
	return NewResolver(Calibration{DirectRelegationCount: 2, MaintenanceOffset: 3}, zerolog.Nop())
}

func row(team string, division int, group string, points, gf, ga int) domain.StandingsRow {
	return domain.StandingsRow{
		Team: team, Division: division, Group: group,
		Points: points, GoalsFor: gf, GoalsAgainst: ga,
	}
}

func primaryTeams(result domain.QualificationResult) []string {
	out := make([]string, 0, len(result.Primary))
	for _, slot := range result.Primary {
		out = append(out, slot.Team)
	}
	return out
}

func TestDetectStructure(t *testing.T) {
	single := map[domain.BucketKey][]domain.StandingsRow{{}: {row("A", 0, "", 1, 0, 0)}}
	assert.Equal(t, domain.StructureSingleLeague, DetectStructure(single))

	groups := map[domain.BucketKey][]domain.StandingsRow{
		{Group: "A"}: {}, {Group: "B"}: {},
	}
	assert.Equal(t, domain.StructureGroupsOnly, DetectStructure(groups))

	divisions := map[domain.BucketKey][]domain.StandingsRow{
		{Division: 1}: {}, {Division: 2}: {},
	}
	assert.Equal(t, domain.StructureDivisionsOnly, DetectStructure(divisions))

	mixed := map[domain.BucketKey][]domain.StandingsRow{
		{Division: 1}: {}, {Division: 2, Group: "A"}: {}, {Division: 2, Group: "B"}: {},
	}
	assert.Equal(t, domain.StructureDivisionsAndGroups, DetectStructure(mixed))

	odd := map[domain.BucketKey][]domain.StandingsRow{
		{Division: 3}: {}, {Division: 5}: {},
	}
	assert.Equal(t, domain.StructureUnknown, DetectStructure(odd))
}

// Three teams in a single league: diff breaks the points tie, and a primary
// list shorter than eight flags the shortfall.
func TestResolveSingleLeagueShortBucket(t *testing.T) {
	rows := []domain.StandingsRow{
		row("A", 0, "", 10, 10, 10),
		row("B", 0, "", 10, 15, 10),
		row("C", 0, "", 9, 8, 8),
	}

	result := testResolver().Resolve(rows, domain.SystemFlags{})

	assert.Equal(t, domain.StructureSingleLeague, result.Structure)
	assert.Equal(t, []string{"B", "A", "C"}, primaryTeams(result))
	assert.True(t, result.Shortfall)
}

func TestResolveSingleLeagueTopEight(t *testing.T) {
	var rows []domain.StandingsRow
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
	for i, name := range names {
		rows = append(rows, row(name, 0, "", 30-i, 0, 0))
	}

	result := testResolver().Resolve(rows, domain.SystemFlags{})

	require.Len(t, result.Primary, 8)
	assert.Equal(t, names[:8], primaryTeams(result))
	assert.False(t, result.Shortfall)
	for i, slot := range result.Primary {
		assert.Equal(t, i+1, slot.RankPosition)
		assert.False(t, slot.IsSubstitute)
	}
}

func TestResolveGroupsOnlyTopFourPerGroup(t *testing.T) {
	var rows []domain.StandingsRow
	for _, group := range []string{"A", "B"} {
		for i, name := range []string{"1", "2", "3", "4", "5"} {
			rows = append(rows, row("Gr"+group+"-"+name, 0, group, 20-i, 0, 0))
		}
	}

	result := testResolver().Resolve(rows, domain.SystemFlags{})

	assert.Equal(t, domain.StructureGroupsOnly, result.Structure)
	require.Len(t, result.Primary, 8)
	assert.Equal(t, "GrA-1", result.Primary[0].Team)
	assert.Equal(t, "GrB-1", result.Primary[4].Team)
	assert.False(t, result.Shortfall)
}

// A reserve team topping division 1 never takes the seat on its own merit;
// the runner-up fills it flagged as a substitute.
func TestResolveDivisionsOnlyReserveSkipped(t *testing.T) {
	rows := divisionsOnlyRows()

	result := testResolver().Resolve(rows, domain.SystemFlags{})

	require.NotEmpty(t, result.Primary)
	first := result.Primary[0]
	assert.Equal(t, "D1-2", first.Team)
	assert.Equal(t, 1, first.RankPosition)
	assert.True(t, first.IsSubstitute)
	assert.NotContains(t, primaryTeams(result), "Informática B")
}

func TestResolveDivisionsOnlySeatSplit(t *testing.T) {
	rows := divisionsOnlyRows()

	result := testResolver().Resolve(rows, domain.SystemFlags{})

	// Division 2 contributes, so division 1 keeps seven seats.
	require.Len(t, result.Primary, 8)
	division2 := result.Primary[7]
	assert.Equal(t, 2, division2.Division)
	assert.Equal(t, "D2-1", division2.Team)
	assert.Equal(t, 1, division2.RankPosition)
}

func TestResolveDivisionsOnlyMaintenanceAndPromotion(t *testing.T) {
	rows := divisionsOnlyRows()
	flags := domain.SystemFlags{HasMaintenanceElimination: true}

	result := testResolver().Resolve(rows, flags)

	// 10 teams − 2 direct − 3 offset + 1 = position 6
	require.Len(t, result.Maintenance, 1)
	assert.Equal(t, "D1-6", result.Maintenance[0].Team)
	assert.Equal(t, 6, result.Maintenance[0].RankPosition)
	assert.Equal(t, domain.SlotMaintenanceElimination, result.Maintenance[0].Type)

	require.Len(t, result.Promotion, 1)
	assert.Equal(t, "D2-2", result.Promotion[0].Team)
	assert.Equal(t, domain.SlotPromotionElimination, result.Promotion[0].Type)
}

func TestResolveDivisionsAndGroupsSeatsPerGroup(t *testing.T) {
	rows := divisionsAndGroupsRows(false)
	flags := domain.SystemFlags{HasMaintenanceLeague: true}

	result := testResolver().Resolve(rows, flags)

	assert.Equal(t, domain.StructureDivisionsAndGroups, result.Structure)
	// Two division-2 groups claim a seat each, division 1 keeps six.
	require.Len(t, result.Primary, 8)
	assert.Equal(t, "D2A-1", result.Primary[6].Team)
	assert.Equal(t, "D2B-1", result.Primary[7].Team)

	require.Len(t, result.Promotion, 2)
	assert.Equal(t, "D2A-2", result.Promotion[0].Team)
	assert.Equal(t, domain.SlotPromotionLeague, result.Promotion[0].Type)
}

// A reserve second place only earns promotion when its senior side sits in
// the division-1 relegation zone.
func TestResolveReservePromotionEligibility(t *testing.T) {
	rows := divisionsAndGroupsRows(true)
	flags := domain.SystemFlags{HasMaintenanceElimination: true}

	result := testResolver().Resolve(rows, flags)

	promoted := make([]string, 0, len(result.Promotion))
	for _, slot := range result.Promotion {
		promoted = append(promoted, slot.Team)
	}
	// "D1-9 B" is reserve of "D1-9", who sits 9th of 10 (relegation zone):
	// eligible. "D1-1 B" is reserve of the leader: ineligible, group B
	// contributes nothing.
	assert.Contains(t, promoted, "D1-9 B")
	assert.NotContains(t, promoted, "D1-1 B")
}

func TestResolvePromotionDedupedAgainstPrimary(t *testing.T) {
	rows := []domain.StandingsRow{
		row("Uno", 1, "", 30, 0, 0),
		row("Dos", 1, "", 28, 0, 0),
		row("Tres", 1, "", 26, 0, 0),
		row("Cuatro", 1, "", 24, 0, 0),
		row("Cinco", 1, "", 22, 0, 0),
		row("Seis", 1, "", 20, 0, 0),
		// Group A's top two are both non-reserve; "Alpha" takes the group's
		// primary seat so "Beta" is the promotion candidate.
		row("Alpha", 2, "A", 30, 0, 0),
		row("Beta", 2, "A", 28, 0, 0),
		row("Gamma", 2, "A", 26, 0, 0),
	}
	flags := domain.SystemFlags{HasMaintenanceElimination: true}

	result := testResolver().Resolve(rows, flags)

	for _, slot := range result.Promotion {
		assert.NotContains(t, primaryTeams(result), slot.Team)
	}
}

func TestResolveUnknownStructureDegrades(t *testing.T) {
	rows := []domain.StandingsRow{
		row("A", 3, "", 10, 0, 0),
		row("B", 7, "", 8, 0, 0),
	}

	result := testResolver().Resolve(rows, domain.SystemFlags{})

	assert.Equal(t, domain.StructureUnknown, result.Structure)
	assert.Empty(t, result.Primary)
	assert.Empty(t, result.Legend)
}

func TestResolveLegendCoversAllSlotTypes(t *testing.T) {
	rows := divisionsOnlyRows()
	flags := domain.SystemFlags{HasMaintenanceElimination: true}

	result := testResolver().Resolve(rows, flags)

	want := len(result.Primary) + len(result.Maintenance) + len(result.Promotion)
	assert.Len(t, result.Legend, want)
}

// Ten division-1 teams with a reserve side on top, plus a small division 2.
func divisionsOnlyRows() []domain.StandingsRow {
	rows := []domain.StandingsRow{
		row("Informática B", 1, "", 30, 40, 10),
	}
	for i := 2; i <= 10; i++ {
		rows = append(rows, row(teamName("D1", i), 1, "", 30-2*i, 20, 20))
	}
	for i := 1; i <= 6; i++ {
		rows = append(rows, row(teamName("D2", i), 2, "", 24-2*i, 15, 15))
	}
	return rows
}

func divisionsAndGroupsRows(withReserves bool) []domain.StandingsRow {
	var rows []domain.StandingsRow
	for i := 1; i <= 10; i++ {
		rows = append(rows, row(teamName("D1", i), 1, "", 40-2*i, 0, 0))
	}
	groupA := []string{"D2A-1", "D2A-2", "D2A-3", "D2A-4"}
	groupB := []string{"D2B-1", "D2B-2", "D2B-3", "D2B-4"}
	if withReserves {
		// Second places are reserve sides of division-1 teams.
		groupA[1] = "D1-9 B"
		groupB[1] = "D1-1 B"
	}
	for i, name := range groupA {
		rows = append(rows, row(name, 2, "A", 20-2*i, 0, 0))
	}
	for i, name := range groupB {
		rows = append(rows, row(name, 2, "B", 20-2*i, 0, 0))
	}
	return rows
}

func teamName(prefix string, i int) string {
	return fmt.Sprintf("%s-%d", prefix, i)
}
