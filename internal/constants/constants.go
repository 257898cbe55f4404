package constants

import "time"

const (
	SourceFetchTimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
	PipelineTimeout    = 20 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	// DefaultRating seeds a team with no declared opening rating.
	DefaultRating = 1000.0
	// CorrectionTolerance is the maximum gap between a team's last computed
	// rating and its declared corrected value before a synthetic correction
	// round is appended.
	CorrectionTolerance = 1.0
)

const (
	// PrimarySeats is the bracket size every structure allocates toward.
	PrimarySeats = 8
	// GroupSeats is how many teams qualify from each group in a groups-only
	// season.
	GroupSeats = 4
	// RelegationZoneSize is how many bottom places of division 1 count as
	// the relegation zone for the reserve-team promotion exception.
	RelegationZoneSize = 3
	// MinDivision1PrimarySeats floors division 1's seat count however many
	// division-2 groups claim one.
	MinDivision1PrimarySeats = 4
)

const (
	ShutdownTimeout = 5 * time.Second
)

// DatasetLoadCount is the fixed batch of files fetched per selection:
// standings, calendar, current ratings, rating detail, prior-season ratings.
const DatasetLoadCount = 5
