package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vitanav/wellness-engine/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresSampleRepository struct {
	db *sqlx.DB
}

func NewPostgresSampleRepository(db *sqlx.DB) *PostgresSampleRepository {
	return &PostgresSampleRepository{db: db}
}

func (r *PostgresSampleRepository) SaveStepSamples(ctx context.Context, userID string, samples []domain.RawStepSample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
        INSERT INTO step_samples (user_id, ts, count, source, activity_type, confidence)
        VALUES ($1, $2, $3, $4, $5, $6)`

	for _, s := range samples {
		if _, err := tx.ExecContext(ctx, query, userID, s.Timestamp, s.Count, s.Source, s.ActivityType, s.Confidence); err != nil {
			return fmt.Errorf("failed to insert step sample: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PostgresSampleRepository) SaveScreenSamples(ctx context.Context, userID string, samples []domain.RawScreenSample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
        INSERT INTO screen_samples (user_id, ts, app_name, duration_minutes, category, is_wellness_app)
        VALUES ($1, $2, $3, $4, $5, $6)`

	for _, s := range samples {
		if _, err := tx.ExecContext(ctx, query, userID, s.Timestamp, s.AppName, s.DurationMinutes, s.Category, s.IsWellnessApp); err != nil {
			return fmt.Errorf("failed to insert screen sample: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PostgresSampleRepository) StepSamplesSince(ctx context.Context, userID string, since time.Time) ([]domain.RawStepSample, error) {
	query := `
        SELECT ts, count, source, activity_type, confidence
        FROM step_samples
        WHERE user_id = $1 AND ts >= $2
        ORDER BY ts ASC`

	var samples []domain.RawStepSample
	if err := r.db.SelectContext(ctx, &samples, query, userID, since); err != nil {
		return nil, fmt.Errorf("step samples query error: %w", err)
	}
	return samples, nil
}

func (r *PostgresSampleRepository) ScreenSamplesSince(ctx context.Context, userID string, since time.Time) ([]domain.RawScreenSample, error) {
	query := `
        SELECT ts, app_name, duration_minutes, category, is_wellness_app
        FROM screen_samples
        WHERE user_id = $1 AND ts >= $2
        ORDER BY ts ASC`

	var samples []domain.RawScreenSample
	if err := r.db.SelectContext(ctx, &samples, query, userID, since); err != nil {
		return nil, fmt.Errorf("screen samples query error: %w", err)
	}
	return samples, nil
}

func (r *PostgresSampleRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64

	res, err := r.db.ExecContext(ctx, `DELETE FROM step_samples WHERE ts < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("step retention delete failed: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		removed += n
	}

	res, err = r.db.ExecContext(ctx, `DELETE FROM screen_samples WHERE ts < $1`, cutoff)
	if err != nil {
		return removed, fmt.Errorf("screen retention delete failed: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		removed += n
	}

	return removed, nil
}
