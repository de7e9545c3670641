package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/chatlens/chatlens/internal/model"
)

// Common errors for report repository operations.
var (
	ErrReportNotFound = errors.New("report not found")
	ErrReportExists   = errors.New("report already exists")
)

// SaveReport inserts a new report.
func (r *Repository) SaveReport(ctx context.Context, report *model.Report) error {
	query := `
		INSERT INTO reports (id, metrics, participants, anonymized, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	metricsJSON, err := json.Marshal(report.Metrics)
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		report.ID,
		metricsJSON,
		pq.Array(report.Participants),
		report.Anonymized,
		report.CreatedAt,
		report.ExpiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrReportExists
		}
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// GetReport retrieves a report by ID. Expired rows are returned as-is;
// callers decide what expiry means.
func (r *Repository) GetReport(ctx context.Context, id string) (*model.Report, error) {
	query := `
		SELECT id, metrics, participants, anonymized, created_at, expires_at
		FROM reports
		WHERE id = $1
	`

	var (
		report      model.Report
		metricsJSON []byte
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&metricsJSON,
		pq.Array(&report.Participants),
		&report.Anonymized,
		&report.CreatedAt,
		&report.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	if err := json.Unmarshal(metricsJSON, &report.Metrics); err != nil {
		return nil, fmt.Errorf("failed to decode metrics for report %s: %w", id, err)
	}

	return &report, nil
}

// DeleteReport removes a report by ID.
func (r *Repository) DeleteReport(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}

// DeleteExpired removes every report whose expiry is before now and
// returns how many were removed.
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM reports WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired reports: %w", err)
	}
	return result.RowsAffected(), nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
