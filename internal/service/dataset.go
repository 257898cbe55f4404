package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"uniliga-tracker/internal/bracket"
	"uniliga-tracker/internal/constants"
	"uniliga-tracker/internal/domain"
	"uniliga-tracker/internal/ingest"
	"uniliga-tracker/internal/qualification"
	"uniliga-tracker/internal/rating"
	"uniliga-tracker/internal/repository"
	"uniliga-tracker/internal/standings"
	"uniliga-tracker/internal/store"
)

// ErrNotAvailable is returned while no dataset has been loaded yet, or when
// the caches for the current dataset are still being rebuilt. Callers show
// an explicit "not available" state instead of crashing.
var ErrNotAvailable = errors.New("dataset not available")

// DatasetService runs the pipeline for one selected dataset and caches the
// derived artifacts. The caches are keyed to the store version: swapping in
// a new dataset invalidates them all at once, never implicitly.
type DatasetService struct {
	loader    *ingest.Loader
	store     *store.Store
	resolver  *qualification.Resolver
	assembler *bracket.Assembler
	builder   *rating.Builder

	matchRepo     *repository.MatchRepository
	standingsRepo *repository.StandingsRepository
	ratingRepo    *repository.RatingRepository

	logger zerolog.Logger

	mu            sync.RWMutex
	cachedVersion uint64
	qualified     domain.QualificationResult
	bracketView   domain.Bracket
	series        map[string]*domain.TeamRatingSeries
}

func NewDatasetService(
	loader *ingest.Loader,
	st *store.Store,
	resolver *qualification.Resolver,
	assembler *bracket.Assembler,
	builder *rating.Builder,
	matchRepo *repository.MatchRepository,
	standingsRepo *repository.StandingsRepository,
	ratingRepo *repository.RatingRepository,
	logger zerolog.Logger,
) *DatasetService {
	return &DatasetService{
		loader:        loader,
		store:         st,
		resolver:      resolver,
		assembler:     assembler,
		builder:       builder,
		matchRepo:     matchRepo,
		standingsRepo: standingsRepo,
		ratingRepo:    ratingRepo,
		logger:        logger,
	}
}

// Select loads a dataset and rebuilds every derived artifact. Qualification
// and bracket assembly run on one goroutine (the bracket needs the legend);
// rating reconstruction is independent and runs concurrently. Both complete
// before the caches are published.
func (s *DatasetService) Select(ctx context.Context, sport, season string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.PipelineTimeout)
	defer cancel()

	dataset, version, err := s.loader.Load(ctx, sport, season)
	if err != nil {
		if errors.Is(err, ingest.ErrSuperseded) {
			return err
		}
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	var (
		qualified   domain.QualificationResult
		bracketView domain.Bracket
		series      map[string]*domain.TeamRatingSeries
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		qualified = s.resolver.Resolve(dataset.Standings, dataset.Flags)
		elimination := dataset.MatchesOfKind(domain.KindPrimaryElimination)
		secondary := dataset.MatchesOfKind(domain.KindSecondaryElimination, domain.KindSecondaryLeague)
		bracketView = s.assembler.Assemble(elimination, secondary, qualified.Legend)
		return nil
	})
	g.Go(func() error {
		series = s.builder.Build(
			dataset.Matches,
			dataset.InitialRatings,
			dataset.PreviousSeasonTeams,
			constants.DefaultRating,
		)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	// A later selection may have swapped the store while we were computing;
	// its results, not ours, belong in the cache.
	if s.store.Version() != version {
		s.logger.Info().Str("dataset", dataset.View.Key()).Msg("pipeline results superseded, discarding")
		return ingest.ErrSuperseded
	}

	s.mu.Lock()
	s.cachedVersion = version
	s.qualified = qualified
	s.bracketView = bracketView
	s.series = series
	s.mu.Unlock()

	s.persist(ctx, dataset, series)

	s.logger.Info().
		Str("dataset", dataset.View.Key()).
		Uint64("version", version).
		Str("structure", qualified.Structure.String()).
		Int("teams", len(series)).
		Msg("pipeline complete")
	return nil
}

// Restore repopulates the store and caches from the most recently persisted
// snapshot, so a restart serves the last good dataset without refetching.
// An empty database is not an error: the service simply stays in the
// not-available state until the first selection.
func (s *DatasetService) Restore(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	key, err := s.standingsRepo.LatestDataset(ctx)
	if err != nil {
		return fmt.Errorf("failed to locate persisted dataset: %w", err)
	}
	if key == "" {
		s.logger.Debug().Msg("no persisted dataset to restore")
		return nil
	}

	matches, err := s.matchRepo.GetByDataset(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to restore match records: %w", err)
	}
	standingsRows, err := s.standingsRepo.GetByDataset(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to restore standings: %w", err)
	}
	series, err := s.ratingRepo.GetByDataset(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to restore rating series: %w", err)
	}

	sport, season, _ := strings.Cut(key, "/")
	dataset := &store.Dataset{
		View:      domain.ViewContext{Sport: sport, Season: season},
		Matches:   matches,
		Standings: standingsRows,
	}
	dataset.DetectFlags()
	version := s.store.Swap(dataset)

	// Qualification and bracket are cheap to recompute from the restored
	// rows; the rating series come back as persisted.
	qualified := s.resolver.Resolve(dataset.Standings, dataset.Flags)
	elimination := dataset.MatchesOfKind(domain.KindPrimaryElimination)
	secondary := dataset.MatchesOfKind(domain.KindSecondaryElimination, domain.KindSecondaryLeague)
	bracketView := s.assembler.Assemble(elimination, secondary, qualified.Legend)

	s.mu.Lock()
	s.cachedVersion = version
	s.qualified = qualified
	s.bracketView = bracketView
	s.series = series
	s.mu.Unlock()

	s.logger.Info().
		Str("dataset", key).
		Uint64("version", version).
		Int("matches", len(matches)).
		Int("teams", len(series)).
		Msg("dataset restored from snapshot")
	return nil
}

// persist snapshots the dataset and derived series. Persistence failures are
// logged, not fatal: the in-memory caches already serve the data.
func (s *DatasetService) persist(ctx context.Context, dataset *store.Dataset, series map[string]*domain.TeamRatingSeries) {
	key := dataset.View.Key()
	if err := s.matchRepo.ReplaceAll(ctx, key, dataset.Matches); err != nil {
		s.logger.Error().Err(err).Str("dataset", key).Msg("failed to persist match records")
	}
	if err := s.standingsRepo.ReplaceAll(ctx, key, dataset.Standings); err != nil {
		s.logger.Error().Err(err).Str("dataset", key).Msg("failed to persist standings")
	}
	if err := s.ratingRepo.ReplaceAll(ctx, key, series); err != nil {
		s.logger.Error().Err(err).Str("dataset", key).Msg("failed to persist rating series")
	}
}

// BucketTable is one sorted standings table for display.
type BucketTable struct {
	Division int
	Group    string
	Rows     []domain.StandingsRow
}

func (s *DatasetService) StandingsTables() ([]BucketTable, error) {
	dataset, version := s.store.Current()
	if dataset == nil || !s.cacheCurrent(version) {
		return nil, ErrNotAvailable
	}

	buckets := standings.GroupByBucket(dataset.Standings)
	tables := make([]BucketTable, 0, len(buckets))
	for key, rows := range buckets {
		tables = append(tables, BucketTable{
			Division: key.Division,
			Group:    key.Group,
			Rows:     standings.SortBucket(rows),
		})
	}
	sortTables(tables)
	return tables, nil
}

func (s *DatasetService) Qualification() (domain.QualificationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.cacheCurrentLocked() {
		return domain.QualificationResult{}, ErrNotAvailable
	}
	return s.qualified, nil
}

func (s *DatasetService) Bracket() (domain.Bracket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.cacheCurrentLocked() {
		return domain.Bracket{}, ErrNotAvailable
	}
	return s.bracketView, nil
}

func (s *DatasetService) Series() (map[string]*domain.TeamRatingSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.cacheCurrentLocked() {
		return nil, ErrNotAvailable
	}
	return s.series, nil
}

func (s *DatasetService) TeamSeries(team string) (*domain.TeamRatingSeries, error) {
	series, err := s.Series()
	if err != nil {
		return nil, err
	}
	teamSeries, ok := series[team]
	if !ok {
		return nil, fmt.Errorf("unknown team %q: %w", team, ErrNotAvailable)
	}
	return teamSeries, nil
}

func (s *DatasetService) cacheCurrent(version uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cachedVersion != 0 && s.cachedVersion == version
}

func (s *DatasetService) cacheCurrentLocked() bool {
	return s.cachedVersion != 0 && s.cachedVersion == s.store.Version()
}

func sortTables(tables []BucketTable) {
	sort.Slice(tables, func(i, j int) bool {
		if tables[i].Division != tables[j].Division {
			return tables[i].Division < tables[j].Division
		}
		return tables[i].Group < tables[j].Group
	})
}
