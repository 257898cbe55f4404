package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"uniliga-tracker/internal/domain"
)

// RatingRepository persists reconstructed rating series so a restart can
// serve the last good dataset without refetching.
type RatingRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRatingRepository(sqlDB *sql.DB, logger zerolog.Logger) *RatingRepository {
	return &RatingRepository{db: sqlDB, logger: logger}
}

func (r *RatingRepository) ReplaceAll(ctx context.Context, dataset string, series map[string]*domain.TeamRatingSeries) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rating_events WHERE dataset = ?`, dataset); err != nil {
		return fmt.Errorf("failed to clear rating events: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rating_events (
			id, dataset, team, ordinal, event_time, value, carry_over, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare rating insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, s := range series {
		for _, event := range s.Events {
			id, err := gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}
			var eventTime any
			if !event.Time.IsZero() {
				eventTime = event.Time
			}
			_, err = stmt.ExecContext(ctx,
				id, dataset, s.Team, event.Ordinal, eventTime, event.Value, s.CarryOver, now,
			)
			if err != nil {
				return fmt.Errorf("failed to insert rating event: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rating events: %w", err)
	}
	r.logger.Debug().Str("dataset", dataset).Int("teams", len(series)).Msg("rating series persisted")
	return nil
}

func (r *RatingRepository) GetByDataset(ctx context.Context, dataset string) (map[string]*domain.TeamRatingSeries, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT team, ordinal, event_time, value, carry_over
		FROM rating_events WHERE dataset = ?
		ORDER BY team, ordinal`, dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating events: %w", err)
	}
	defer rows.Close()

	series := make(map[string]*domain.TeamRatingSeries)
	for rows.Next() {
		var (
			team      string
			ordinal   int
			eventTime sql.NullTime
			value     float64
			carryOver bool
		)
		if err := rows.Scan(&team, &ordinal, &eventTime, &value, &carryOver); err != nil {
			return nil, fmt.Errorf("failed to scan rating event: %w", err)
		}
		s, ok := series[team]
		if !ok {
			s = &domain.TeamRatingSeries{Team: team, CarryOver: carryOver}
			series[team] = s
		}
		s.Events = append(s.Events, domain.RatingEvent{
			Ordinal: ordinal,
			Time:    eventTime.Time,
			Value:   value,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, s := range series {
		sort.Slice(s.Events, func(i, j int) bool { return s.Events[i].Ordinal < s.Events[j].Ordinal })
	}
	return series, nil
}
