package qualification

import (
	"sort"

	"github.com/rs/zerolog"

	"uniliga-tracker/internal/constants"
	"uniliga-tracker/internal/domain"
	"uniliga-tracker/internal/standings"
)

// Calibration carries the maintenance-seat arithmetic that varies by sport
// and season. Injected from configuration, never hard-coded.
type Calibration struct {
	DirectRelegationCount int
	MaintenanceOffset     int
}

// Resolver turns standings buckets into qualification slots and the legend
// that maps abstract seats to literal team names. It is a pure function of
// its inputs; memoization is the caller's concern.
type Resolver struct {
	calibration Calibration
	logger      zerolog.Logger
}

func NewResolver(calibration Calibration, logger zerolog.Logger) *Resolver {
	return &Resolver{calibration: calibration, logger: logger}
}

// DetectStructure classifies the tournament shape from the bucket tags seen
// in the standings. Shapes the classifier does not recognize resolve to
// StructureUnknown and degrade to an empty qualification result.
func DetectStructure(buckets map[domain.BucketKey][]domain.StandingsRow) domain.Structure {
	divisions := make(map[int]bool)
	groups := make(map[string]bool)
	for key := range buckets {
		if key.Division != 0 {
			divisions[key.Division] = true
		}
		if key.Group != "" {
			groups[key.Group] = true
		}
	}

	switch {
	case len(divisions) == 0 && len(groups) == 0:
		if len(buckets) == 1 {
			return domain.StructureSingleLeague
		}
		return domain.StructureUnknown
	case len(divisions) == 0:
		return domain.StructureGroupsOnly
	case divisions[1] && divisions[2] && len(groups) == 0:
		return domain.StructureDivisionsOnly
	case divisions[1] && divisions[2]:
		return domain.StructureDivisionsAndGroups
	}
	return domain.StructureUnknown
}

// Resolve fills the primary, maintenance and promotion slots for the
// detected structure and assembles the legend. Shortfalls are flagged, never
// fatal: a caller seeing fewer than eight primary slots falls back to a
// plain ranking display.
func (r *Resolver) Resolve(rows []domain.StandingsRow, flags domain.SystemFlags) domain.QualificationResult {
	buckets := standings.GroupByBucket(rows)
	structure := DetectStructure(buckets)

	var result domain.QualificationResult
	switch structure {
	case domain.StructureSingleLeague:
		result = r.resolveSingleLeague(buckets)
	case domain.StructureGroupsOnly:
		result = r.resolveGroupsOnly(buckets)
	case domain.StructureDivisionsOnly:
		result = r.resolveDivisions(buckets, flags, false)
	case domain.StructureDivisionsAndGroups:
		result = r.resolveDivisions(buckets, flags, true)
	default:
		r.logger.Warn().Int("buckets", len(buckets)).Msg("unrecognized tournament structure, no qualification resolved")
		return domain.QualificationResult{Structure: domain.StructureUnknown}
	}

	result.Structure = structure
	result.Legend = append(result.Legend, result.Primary...)
	result.Legend = append(result.Legend, result.Maintenance...)
	result.Legend = append(result.Legend, result.Promotion...)

	if result.Shortfall {
		r.logger.Warn().
			Str("structure", structure.String()).
			Int("primary", len(result.Primary)).
			Msg("not enough eligible teams to fill all qualification seats")
	}
	return result
}

func (r *Resolver) resolveSingleLeague(buckets map[domain.BucketKey][]domain.StandingsRow) domain.QualificationResult {
	sorted := standings.SortBucket(buckets[domain.BucketKey{}])
	primary, shortfall := fillSeats(sorted, constants.PrimarySeats, domain.SlotPrimary, 0, "")
	return domain.QualificationResult{Primary: primary, Shortfall: shortfall}
}

func (r *Resolver) resolveGroupsOnly(buckets map[domain.BucketKey][]domain.StandingsRow) domain.QualificationResult {
	var result domain.QualificationResult
	for _, key := range sortedKeys(buckets) {
		sorted := standings.SortBucket(buckets[key])
		slots, shortfall := fillSeats(sorted, constants.GroupSeats, domain.SlotPrimary, key.Division, key.Group)
		result.Primary = append(result.Primary, slots...)
		result.Shortfall = result.Shortfall || shortfall
	}
	return result
}

// resolveDivisions handles both two-division shapes. With sub-groups each
// division-2 group claims one primary seat; without them division 2 claims a
// single seat overall.
func (r *Resolver) resolveDivisions(buckets map[domain.BucketKey][]domain.StandingsRow, flags domain.SystemFlags, grouped bool) domain.QualificationResult {
	var result domain.QualificationResult

	division1 := standings.SortBucket(collectDivision(buckets, 1))

	division2Buckets := make([]domain.BucketKey, 0, len(buckets))
	for _, key := range sortedKeys(buckets) {
		if key.Division == 2 {
			division2Buckets = append(division2Buckets, key)
		}
	}

	division2Seats := 0
	if grouped {
		division2Seats = len(division2Buckets)
	} else if divisionContributes(buckets, division2Buckets) {
		division2Seats = 1
	}

	division1Seats := constants.PrimarySeats - division2Seats
	if grouped && division1Seats < constants.MinDivision1PrimarySeats {
		division1Seats = constants.MinDivision1PrimarySeats
	}

	slots, shortfall := fillSeats(division1, division1Seats, domain.SlotPrimary, 1, "")
	result.Primary = append(result.Primary, slots...)
	result.Shortfall = shortfall

	for _, key := range division2Buckets {
		sorted := standings.SortBucket(buckets[key])
		best := bestNonReserve(sorted)
		if best == nil {
			result.Shortfall = true
			continue
		}
		result.Primary = append(result.Primary, domain.QualificationSlot{
			RankPosition: 1,
			Team:         best.Team,
			Type:         domain.SlotPrimary,
			Division:     2,
			Group:        key.Group,
			IsSubstitute: sorted[0].Team != best.Team,
		})
		if !grouped {
			break // a single seat overall, not one per bucket
		}
	}

	if !flags.HasMaintenanceElimination && !flags.HasMaintenanceLeague {
		return result
	}

	maintenanceType := domain.SlotMaintenanceLeague
	promotionType := domain.SlotPromotionLeague
	if flags.HasMaintenanceElimination {
		maintenanceType = domain.SlotMaintenanceElimination
		promotionType = domain.SlotPromotionElimination
	}

	if slot, ok := r.maintenanceSeat(division1, maintenanceType); ok {
		result.Maintenance = append(result.Maintenance, slot)
	}

	for _, key := range division2Buckets {
		sorted := standings.SortBucket(buckets[key])
		slot, ok := r.promotionSeat(sorted, division1, key.Group, promotionType, result.Primary)
		if ok {
			result.Promotion = append(result.Promotion, slot)
		}
		if !grouped {
			break
		}
	}

	return result
}

// maintenanceSeat picks the division-1 team sitting exactly at
// totalTeams − directRelegation − offset + 1, counting from the top.
func (r *Resolver) maintenanceSeat(division1 []domain.StandingsRow, slotType domain.SlotType) (domain.QualificationSlot, bool) {
	position := len(division1) - r.calibration.DirectRelegationCount - r.calibration.MaintenanceOffset + 1
	if position < 1 || position > len(division1) {
		r.logger.Warn().
			Int("teams", len(division1)).
			Int("position", position).
			Msg("maintenance seat position outside division table")
		return domain.QualificationSlot{}, false
	}
	return domain.QualificationSlot{
		RankPosition: position,
		Team:         division1[position-1].Team,
		Type:         slotType,
		Division:     1,
	}, true
}

// promotionSeat awards a division-2 bucket's second place a promotion slot.
// A reserve team is eligible only when its senior side sits in the
// relegation zone of division 1; a team already holding a primary slot via
// another route contributes nothing.
func (r *Resolver) promotionSeat(
	sorted, division1 []domain.StandingsRow,
	group string,
	slotType domain.SlotType,
	primary []domain.QualificationSlot,
) (domain.QualificationSlot, bool) {
	if len(sorted) < 2 {
		return domain.QualificationSlot{}, false
	}
	candidate := sorted[1]

	for _, slot := range primary {
		if slot.Team == candidate.Team {
			return domain.QualificationSlot{}, false
		}
	}

	if domain.IsReserveTeam(candidate.Team) && !inRelegationZone(division1, domain.SeniorTeamOf(candidate.Team)) {
		r.logger.Debug().
			Str("team", candidate.Team).
			Str("group", group).
			Msg("reserve team ineligible for promotion, senior side not in relegation zone")
		return domain.QualificationSlot{}, false
	}

	return domain.QualificationSlot{
		RankPosition: 2,
		Team:         candidate.Team,
		Type:         slotType,
		Division:     2,
		Group:        group,
	}, true
}

// fillSeats walks a sorted bucket from the top, skipping reserve teams.
// Whenever a skip has happened, later occupants are flagged as substitutes.
// Seat labels keep the nominal position (seat 1 stays "1º" even when the
// second-placed team fills it).
func fillSeats(sorted []domain.StandingsRow, seats int, slotType domain.SlotType, division int, group string) ([]domain.QualificationSlot, bool) {
	slots := make([]domain.QualificationSlot, 0, seats)
	skipped := false
	for _, row := range sorted {
		if len(slots) == seats {
			break
		}
		if domain.IsReserveTeam(row.Team) {
			skipped = true
			continue
		}
		slots = append(slots, domain.QualificationSlot{
			RankPosition: len(slots) + 1,
			Team:         row.Team,
			Type:         slotType,
			Division:     division,
			Group:        group,
			IsSubstitute: skipped,
		})
	}
	return slots, len(slots) < seats
}

func bestNonReserve(sorted []domain.StandingsRow) *domain.StandingsRow {
	for i := range sorted {
		if !domain.IsReserveTeam(sorted[i].Team) {
			return &sorted[i]
		}
	}
	return nil
}

func inRelegationZone(division1 []domain.StandingsRow, team string) bool {
	zone := constants.RelegationZoneSize
	if zone > len(division1) {
		zone = len(division1)
	}
	for _, row := range division1[len(division1)-zone:] {
		if row.Team == team {
			return true
		}
	}
	return false
}

func collectDivision(buckets map[domain.BucketKey][]domain.StandingsRow, division int) []domain.StandingsRow {
	var rows []domain.StandingsRow
	for _, key := range sortedKeys(buckets) {
		if key.Division == division {
			rows = append(rows, buckets[key]...)
		}
	}
	return rows
}

func divisionContributes(buckets map[domain.BucketKey][]domain.StandingsRow, keys []domain.BucketKey) bool {
	for _, key := range keys {
		if len(buckets[key]) > 0 {
			return true
		}
	}
	return false
}

func sortedKeys(buckets map[domain.BucketKey][]domain.StandingsRow) []domain.BucketKey {
	keys := make([]domain.BucketKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Division != keys[j].Division {
			return keys[i].Division < keys[j].Division
		}
		return keys[i].Group < keys[j].Group
	})
	return keys
}
