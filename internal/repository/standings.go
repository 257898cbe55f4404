package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"uniliga-tracker/internal/domain"
)

type StandingsRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewStandingsRepository(sqlDB *sql.DB, logger zerolog.Logger) *StandingsRepository {
	return &StandingsRepository{db: sqlDB, logger: logger}
}

func (r *StandingsRepository) ReplaceAll(ctx context.Context, dataset string, rows []domain.StandingsRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM standings_rows WHERE dataset = ?`, dataset); err != nil {
		return fmt.Errorf("failed to clear standings rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO standings_rows (
			dataset, team, division, grp, points, wins, draws, losses,
			goals_for, goals_against, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare standings insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			dataset, row.Team, row.Division, row.Group, row.Points,
			row.Wins, row.Draws, row.Losses, row.GoalsFor, row.GoalsAgainst, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert standings row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit standings rows: %w", err)
	}
	r.logger.Debug().Str("dataset", dataset).Int("count", len(rows)).Msg("standings rows persisted")
	return nil
}

// LatestDataset returns the key of the most recently persisted snapshot, or
// an empty string when nothing has been persisted yet.
func (r *StandingsRepository) LatestDataset(ctx context.Context) (string, error) {
	var dataset string
	err := r.db.QueryRowContext(ctx, `
		SELECT dataset FROM standings_rows
		ORDER BY created_at DESC LIMIT 1`).Scan(&dataset)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find latest dataset: %w", err)
	}
	return dataset, nil
}

func (r *StandingsRepository) GetByDataset(ctx context.Context, dataset string) ([]domain.StandingsRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT team, division, grp, points, wins, draws, losses, goals_for, goals_against
		FROM standings_rows WHERE dataset = ?
		ORDER BY division, grp, points DESC`, dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings rows: %w", err)
	}
	defer rows.Close()

	var result []domain.StandingsRow
	for rows.Next() {
		var row domain.StandingsRow
		if err := rows.Scan(
			&row.Team, &row.Division, &row.Group, &row.Points,
			&row.Wins, &row.Draws, &row.Losses, &row.GoalsFor, &row.GoalsAgainst,
		); err != nil {
			return nil, fmt.Errorf("failed to scan standings row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
