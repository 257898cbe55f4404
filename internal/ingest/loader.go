package ingest

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"uniliga-tracker/internal/constants"
	"uniliga-tracker/internal/domain"
	"uniliga-tracker/internal/source"
	"uniliga-tracker/internal/store"
)

// ErrSuperseded is returned when a newer selection started while this load
// was in flight. The stale result is discarded, never merged.
var ErrSuperseded = errors.New("dataset load superseded by a newer selection")

// Loader issues the fixed batch of dataset fetches for one selection. Every
// fetch decrements the barrier whether it succeeded or not; a failed fetch
// leaves its slice of the dataset empty instead of hanging the pipeline.
type Loader struct {
	client     *source.Client
	store      *store.Store
	logger     zerolog.Logger
	generation atomic.Uint64
}

func NewLoader(client *source.Client, st *store.Store, logger zerolog.Logger) *Loader {
	return &Loader{client: client, store: st, logger: logger}
}

// Load fetches the five dataset files concurrently, waits for the barrier,
// and swaps the assembled dataset into the store. Each call bumps the
// generation counter; results belonging to a superseded generation are
// dropped before they can overwrite fresher state.
func (l *Loader) Load(ctx context.Context, sport, season string) (*store.Dataset, uint64, error) {
	return l.load(ctx, sport, season, l.generation.Add(1))
}

func (l *Loader) load(ctx context.Context, sport, season string, generation uint64) (*store.Dataset, uint64, error) {
	view := domain.ViewContext{Sport: sport, Season: season, Generation: generation}

	ctx, cancel := context.WithTimeout(ctx, constants.SourceFetchTimeout)
	defer cancel()

	var (
		standingsFile *source.StandingsFile
		calendarFile  *source.CalendarFile
		ratingsFile   *source.RatingsFile
		detailFile    *source.DetailFile
		priorFile     *source.RatingsFile
	)

	// Each goroutine returns nil after logging: a missing file degrades to
	// an empty input, it does not abort the batch.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if standingsFile, err = l.client.GetStandings(gCtx, sport, season); err != nil {
			l.warn(view, "standings", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if calendarFile, err = l.client.GetCalendar(gCtx, sport, season); err != nil {
			l.warn(view, "calendar", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if ratingsFile, err = l.client.GetRatings(gCtx, sport, season); err != nil {
			l.warn(view, "ratings", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if detailFile, err = l.client.GetRatingDetail(gCtx, sport, season); err != nil {
			l.warn(view, "detail", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if priorFile, err = l.client.GetPriorRatings(gCtx, sport, season); err != nil {
			l.warn(view, "ratings_prev", err)
		}
		return nil
	})
	_ = g.Wait()

	if generation != l.generation.Load() {
		l.logger.Info().
			Str("dataset", view.Key()).
			Uint64("generation", generation).
			Msg("discarding stale dataset load")
		return nil, 0, ErrSuperseded
	}

	dataset := l.assemble(view, standingsFile, calendarFile, ratingsFile, detailFile, priorFile)
	version := l.store.Swap(dataset)

	l.logger.Info().
		Str("dataset", view.Key()).
		Uint64("version", version).
		Int("matches", len(dataset.Matches)).
		Int("standings", len(dataset.Standings)).
		Msg("dataset loaded")

	return dataset, version, nil
}

// assemble merges the fetched files into one dataset. Detail rows carry the
// rating values, so they replace their calendar counterparts; calendar rows
// survive only for rounds the detail file does not cover.
func (l *Loader) assemble(
	view domain.ViewContext,
	standingsFile *source.StandingsFile,
	calendarFile *source.CalendarFile,
	ratingsFile *source.RatingsFile,
	detailFile *source.DetailFile,
	priorFile *source.RatingsFile,
) *store.Dataset {
	calendar, calendarErrs := source.NormalizeCalendar(calendarFile)
	detail, detailErrs := source.NormalizeDetail(detailFile)
	for _, err := range append(calendarErrs, detailErrs...) {
		l.logger.Warn().Err(err).Str("dataset", view.Key()).Msg("dropped malformed match row")
	}

	covered := make(map[matchIdentity]bool, len(detail))
	for _, m := range detail {
		covered[identity(m)] = true
	}
	matches := make([]domain.MatchRecord, 0, len(detail)+len(calendar))
	matches = append(matches, detail...)
	for _, m := range calendar {
		if !covered[identity(m)] {
			matches = append(matches, m)
		}
	}

	dataset := &store.Dataset{
		View:                view,
		Matches:             matches,
		Standings:           source.NormalizeStandings(standingsFile),
		InitialRatings:      source.NormalizeRatings(ratingsFile),
		PreviousSeasonTeams: source.NormalizeMembership(priorFile),
	}
	if len(dataset.PreviousSeasonTeams) == 0 {
		// No prior-season snapshot: fall back to the per-team membership
		// flags the detail rows carry.
		for _, m := range matches {
			if m.WasInPrevious1 {
				dataset.PreviousSeasonTeams[m.Team1] = struct{}{}
			}
			if m.WasInPrevious2 {
				dataset.PreviousSeasonTeams[m.Team2] = struct{}{}
			}
		}
	}
	dataset.DetectFlags()
	return dataset
}

type matchIdentity struct {
	round string
	team1 string
	team2 string
}

func identity(m domain.MatchRecord) matchIdentity {
	return matchIdentity{round: m.RoundLabel, team1: m.Team1, team2: m.Team2}
}

func (l *Loader) warn(view domain.ViewContext, file string, err error) {
	l.logger.Warn().
		Err(err).
		Str("dataset", view.Key()).
		Str("file", file).
		Msg("dataset file unavailable, continuing with empty input")
}
