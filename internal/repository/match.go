package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"uniliga-tracker/internal/domain"
)

// MatchRepository persists the match-record slice of a loaded dataset.
// Datasets are replaced wholesale, matching the in-memory store's lifecycle.
type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{db: sqlDB, logger: logger}
}

func (r *MatchRepository) ReplaceAll(ctx context.Context, dataset string, records []domain.MatchRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM match_records WHERE dataset = ?`, dataset); err != nil {
		return fmt.Errorf("failed to clear match records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO match_records (
			dataset, round_label, phase, kind, team1, team2,
			score1, score2, rating_before1, rating_before2,
			rating_after1, rating_after2, played_at, unknown_result, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare match insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, m := range records {
		var playedAt any
		if m.HasTimestamp {
			playedAt = m.Timestamp
		}
		_, err := stmt.ExecContext(ctx,
			dataset, m.RoundLabel, m.Phase.String(), m.Kind.String(), m.Team1, m.Team2,
			m.Score1, m.Score2, m.RatingBefore1, m.RatingBefore2,
			m.RatingAfter1, m.RatingAfter2, playedAt, m.UnknownResult, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert match record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match records: %w", err)
	}
	r.logger.Debug().Str("dataset", dataset).Int("count", len(records)).Msg("match records persisted")
	return nil
}

// GetByDataset rebuilds the match records of a persisted snapshot. Round
// labels are re-parsed so the restored records carry the same classification
// they had at ingestion time.
func (r *MatchRepository) GetByDataset(ctx context.Context, dataset string) ([]domain.MatchRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT round_label, team1, team2, score1, score2,
			rating_before1, rating_before2, rating_after1, rating_after2,
			played_at, unknown_result
		FROM match_records WHERE dataset = ?`, dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to query match records: %w", err)
	}
	defer rows.Close()

	var records []domain.MatchRecord
	for rows.Next() {
		var (
			label, team1, team2              string
			score1, score2                   sql.NullInt64
			before1, before2, after1, after2 sql.NullFloat64
			playedAt                         sql.NullTime
			unknown                          bool
		)
		if err := rows.Scan(&label, &team1, &team2, &score1, &score2,
			&before1, &before2, &after1, &after2, &playedAt, &unknown); err != nil {
			return nil, fmt.Errorf("failed to scan match record: %w", err)
		}
		jornada, phase, err := domain.ParseRoundLabel(label)
		if err != nil {
			r.logger.Warn().Err(err).Str("dataset", dataset).Msg("skipping persisted match with unrecognized round label")
			continue
		}
		records = append(records, domain.MatchRecord{
			RoundLabel:    label,
			Jornada:       jornada,
			Phase:         phase,
			Kind:          phase.Kind(),
			Team1:         team1,
			Team2:         team2,
			Score1:        nullableInt(score1),
			Score2:        nullableInt(score2),
			RatingBefore1: nullableFloat(before1),
			RatingBefore2: nullableFloat(before2),
			RatingAfter1:  nullableFloat(after1),
			RatingAfter2:  nullableFloat(after2),
			Timestamp:     playedAt.Time,
			HasTimestamp:  playedAt.Valid,
			UnknownResult: unknown,
		})
	}
	return records, rows.Err()
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
