package service

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniliga-tracker/internal/bracket"
	"uniliga-tracker/internal/config"
	"uniliga-tracker/internal/database"
	"uniliga-tracker/internal/domain"
	"uniliga-tracker/internal/ingest"
	"uniliga-tracker/internal/qualification"
	"uniliga-tracker/internal/rating"
	"uniliga-tracker/internal/repository"
	"uniliga-tracker/internal/source"
	"uniliga-tracker/internal/store"
)

func datasetServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func setupService(t *testing.T, baseURL string) *DatasetService {
	return newService(t, testDB(t), baseURL)
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(&config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newService(t *testing.T, db *sql.DB, baseURL string) *DatasetService {
	t.Helper()
	logger := zerolog.Nop()

	st := store.New()
	client := source.NewClient(&config.Config{SourceBaseURL: baseURL})
	loader := ingest.NewLoader(client, st, logger)
	resolver := qualification.NewResolver(qualification.Calibration{DirectRelegationCount: 2, MaintenanceOffset: 3}, logger)

	return NewDatasetService(
		loader, st, resolver,
		bracket.NewAssembler(logger),
		rating.NewBuilder(logger),
		repository.NewMatchRepository(db, logger),
		repository.NewStandingsRepository(db, logger),
		repository.NewRatingRepository(db, logger),
		logger,
	)
}

func singleLeagueFiles(season string) map[string]string {
	prefix := "/futsal/" + season
	return map[string]string{
		prefix + "/standings.json": `{"rows":[
			{"team":"Medicina","points":10,"goals_for":12,"goals_against":4},
			{"team":"Derecho","points":10,"goals_for":9,"goals_against":4},
			{"team":"Física","points":6,"goals_for":7,"goals_against":7}]}`,
		prefix + "/calendar.json": `{"matches":[
			{"round":"1","team1":"Medicina","team2":"Derecho","score1":3,"score2":1,"date":"2025-10-01","time":"18:00"}]}`,
		prefix + "/detail.json": `{"rows":[
			{"round":"1","team1":"Medicina","team2":"Derecho","score1":3,"score2":1,
			 "rating_before1":1000,"rating_after1":1012,"rating_before2":1000,"rating_after2":988,
			 "date":"2025-10-01","time":"18:00"}]}`,
		prefix + "/ratings.json":      `{"ratings":[{"team":"Medicina","rating":1000},{"team":"Derecho","rating":1000},{"team":"Física","rating":1000}]}`,
		prefix + "/ratings_prev.json": `{"ratings":[{"team":"Medicina","rating":990}]}`,
	}
}

func TestAccessorsBeforeFirstSelect(t *testing.T) {
	ts := datasetServer(t, nil)
	svc := setupService(t, ts.URL)

	_, err := svc.Qualification()
	assert.ErrorIs(t, err, ErrNotAvailable)
	_, err = svc.Bracket()
	assert.ErrorIs(t, err, ErrNotAvailable)
	_, err = svc.Series()
	assert.ErrorIs(t, err, ErrNotAvailable)
	_, err = svc.StandingsTables()
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestSelectRunsFullPipeline(t *testing.T) {
	ts := datasetServer(t, singleLeagueFiles("2025"))
	svc := setupService(t, ts.URL)

	require.NoError(t, svc.Select(context.Background(), "futsal", "2025"))

	tables, err := svc.StandingsTables()
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "Medicina", tables[0].Rows[0].Team)

	qualified, err := svc.Qualification()
	require.NoError(t, err)
	assert.Equal(t, domain.StructureSingleLeague, qualified.Structure)
	assert.True(t, qualified.Shortfall, "three teams cannot fill eight seats")

	series, err := svc.Series()
	require.NoError(t, err)
	require.Contains(t, series, "Medicina")
	assert.True(t, series["Medicina"].CarryOver)
	assert.Equal(t, 1012.0, series["Medicina"].Last())
	assert.Equal(t, 1000.0, series["Física"].Last(), "idle team stays flat")

	teamSeries, err := svc.TeamSeries("Derecho")
	require.NoError(t, err)
	assert.Equal(t, 988.0, teamSeries.Last())

	_, err = svc.TeamSeries("Desconocido")
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestRestoreServesLastPersistedDataset(t *testing.T) {
	ts := datasetServer(t, singleLeagueFiles("2025"))
	db := testDB(t)

	svc := newService(t, db, ts.URL)
	require.NoError(t, svc.Select(context.Background(), "futsal", "2025"))

	// A fresh service over the same database: empty store, cold caches.
	restored := newService(t, db, ts.URL)
	_, err := restored.Series()
	require.ErrorIs(t, err, ErrNotAvailable)

	require.NoError(t, restored.Restore(context.Background()))

	tables, err := restored.StandingsTables()
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "Medicina", tables[0].Rows[0].Team)

	qualified, err := restored.Qualification()
	require.NoError(t, err)
	assert.Equal(t, domain.StructureSingleLeague, qualified.Structure)

	series, err := restored.Series()
	require.NoError(t, err)
	require.Contains(t, series, "Medicina")
	assert.Equal(t, 1012.0, series["Medicina"].Last())
	assert.True(t, series["Medicina"].CarryOver)
}

func TestRestoreEmptyDatabaseIsNoOp(t *testing.T) {
	svc := setupService(t, "http://127.0.0.1:0")

	require.NoError(t, svc.Restore(context.Background()))

	_, err := svc.Series()
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestSelectReplacesCachesWholesale(t *testing.T) {
	files := singleLeagueFiles("2025")
	for path, body := range singleLeagueFiles("2026") {
		files[path] = body
	}
	// 2026 has no detail file: the rating timeline degrades to snapshots.
	delete(files, "/futsal/2026/detail.json")
	delete(files, "/futsal/2026/calendar.json")

	ts := datasetServer(t, files)
	svc := setupService(t, ts.URL)

	require.NoError(t, svc.Select(context.Background(), "futsal", "2025"))
	series, err := svc.Series()
	require.NoError(t, err)
	require.Len(t, series["Medicina"].Events, 2)

	require.NoError(t, svc.Select(context.Background(), "futsal", "2026"))
	series, err = svc.Series()
	require.NoError(t, err)
	require.Len(t, series["Medicina"].Events, 1, "no matches in the new dataset")
}
