package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniliga-tracker/internal/domain"
)

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("2025-10-01", "18:30")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 10, 1, 18, 30, 0, 0, time.UTC), ts)

	ts, ok = ParseTimestamp("2025-10-01", "")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), ts)

	// A broken clock falls back to the date alone.
	ts, ok = ParseTimestamp("2025-10-01", "25:99")
	require.True(t, ok)
	assert.True(t, ts.Equal(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)))

	_, ok = ParseTimestamp("", "18:30")
	assert.False(t, ok)

	_, ok = ParseTimestamp("01/10/2025", "")
	assert.False(t, ok)
}

func TestNormalizeCalendarClassifiesOnce(t *testing.T) {
	file := &CalendarFile{Matches: []MatchRow{
		{Round: "3", Team1: "Medicina", Team2: "Derecho", Date: "2025-10-01", Time: "18:00"},
		{Round: "E2", Team1: "Física", Team2: "Química", Date: "2025-12-10"},
		{Round: "PM1", Team1: "Historia", Team2: "Topografía"},
		{Round: "playoffs", Team1: "A", Team2: "B"},
	}}

	records, errs := NormalizeCalendar(file)

	require.Len(t, records, 3)
	require.Len(t, errs, 1, "the unrecognized label is dropped, not fatal")

	assert.Equal(t, 3, records[0].Jornada)
	assert.Equal(t, domain.KindRegular, records[0].Kind)
	assert.True(t, records[0].HasTimestamp)

	assert.Equal(t, domain.PhaseSemifinal, records[1].Phase)
	assert.Equal(t, domain.KindPrimaryElimination, records[1].Kind)

	assert.Equal(t, domain.KindSecondaryElimination, records[2].Kind)
	assert.False(t, records[2].HasTimestamp)
}

func TestNormalizeDetailCorrectionRow(t *testing.T) {
	before, after := 1012.0, 1020.0
	file := &DetailFile{Rows: []DetailRow{
		{Round: "AJ", Team1: "Medicina", RatingBefore1: &before, RatingAfter1: &after},
	}}

	records, errs := NormalizeDetail(file)

	require.Empty(t, errs)
	require.Len(t, records, 1)
	assert.Equal(t, domain.KindCorrection, records[0].Kind)
	assert.Equal(t, 1020.0, *records[0].RatingAfter1)
	assert.Empty(t, records[0].Team2)
}

func TestNormalizeNilFiles(t *testing.T) {
	assert.Nil(t, NormalizeStandings(nil))

	records, errs := NormalizeCalendar(nil)
	assert.Nil(t, records)
	assert.Nil(t, errs)

	assert.Empty(t, NormalizeRatings(nil))
	assert.Empty(t, NormalizeMembership(nil))
}
