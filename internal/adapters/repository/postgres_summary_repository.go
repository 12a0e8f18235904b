package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vitanav/wellness-engine/internal/core/domain"
)

type PostgresSummaryRepository struct {
	db *sqlx.DB
}

func NewPostgresSummaryRepository(db *sqlx.DB) *PostgresSummaryRepository {
	return &PostgresSummaryRepository{db: db}
}

type summaryRow struct {
	Date              time.Time `db:"date"`
	TotalSteps        int       `db:"total_steps"`
	StepGoal          int       `db:"step_goal"`
	ActiveMinutes     int       `db:"active_minutes"`
	CaloriesBurned    float64   `db:"calories_burned"`
	DistanceCoveredKm float64   `db:"distance_covered_km"`
	HourlySteps       []byte    `db:"hourly_steps"`
	PeakHours         []byte    `db:"peak_hours"`
	ScreenTime        []byte    `db:"screen_time"`
}

func (row summaryRow) toDomain() (domain.DailyActivitySummary, error) {
	summary := domain.DailyActivitySummary{
		Date:              row.Date,
		TotalSteps:        row.TotalSteps,
		StepGoal:          row.StepGoal,
		ActiveMinutes:     row.ActiveMinutes,
		CaloriesBurned:    row.CaloriesBurned,
		DistanceCoveredKm: row.DistanceCoveredKm,
	}

	if err := json.Unmarshal(row.HourlySteps, &summary.HourlySteps); err != nil {
		return summary, fmt.Errorf("failed to unmarshal hourly steps: %w", err)
	}
	if err := json.Unmarshal(row.PeakHours, &summary.PeakActivityHours); err != nil {
		return summary, fmt.Errorf("failed to unmarshal peak hours: %w", err)
	}
	if err := json.Unmarshal(row.ScreenTime, &summary.ScreenTime); err != nil {
		return summary, fmt.Errorf("failed to unmarshal screen time: %w", err)
	}

	return summary, nil
}

func (r *PostgresSummaryRepository) Upsert(ctx context.Context, userID string, summary domain.DailyActivitySummary) error {
	hourly, err := json.Marshal(summary.HourlySteps)
	if err != nil {
		return fmt.Errorf("failed to marshal hourly steps: %w", err)
	}
	peak, err := json.Marshal(summary.PeakActivityHours)
	if err != nil {
		return fmt.Errorf("failed to marshal peak hours: %w", err)
	}
	screen, err := json.Marshal(summary.ScreenTime)
	if err != nil {
		return fmt.Errorf("failed to marshal screen time: %w", err)
	}

	query := `
        INSERT INTO daily_summaries (
            user_id, date, total_steps, step_goal, active_minutes,
            calories_burned, distance_covered_km, hourly_steps, peak_hours, screen_time
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (user_id, date) DO UPDATE SET
            total_steps = EXCLUDED.total_steps,
            step_goal = EXCLUDED.step_goal,
            active_minutes = EXCLUDED.active_minutes,
            calories_burned = EXCLUDED.calories_burned,
            distance_covered_km = EXCLUDED.distance_covered_km,
            hourly_steps = EXCLUDED.hourly_steps,
            peak_hours = EXCLUDED.peak_hours,
            screen_time = EXCLUDED.screen_time`

	_, err = r.db.ExecContext(ctx, query,
		userID, summary.Date.Format("2006-01-02"), summary.TotalSteps, summary.StepGoal, summary.ActiveMinutes,
		summary.CaloriesBurned, summary.DistanceCoveredKm, hourly, peak, screen,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert summary: %w", err)
	}
	return nil
}

func (r *PostgresSummaryRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.DailyActivitySummary, error) {
	query := `
        SELECT date, total_steps, step_goal, active_minutes,
               calories_burned, distance_covered_km, hourly_steps, peak_hours, screen_time
        FROM daily_summaries
        WHERE user_id = $1 AND date = $2`

	var row summaryRow
	err := r.db.GetContext(ctx, &row, query, userID, date.Format("2006-01-02"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSummaryNotFound
		}
		return nil, fmt.Errorf("summary query error: %w", err)
	}

	summary, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *PostgresSummaryRepository) ListRange(ctx context.Context, userID string, from, to time.Time) ([]domain.DailyActivitySummary, error) {
	query := `
        SELECT date, total_steps, step_goal, active_minutes,
               calories_burned, distance_covered_km, hourly_steps, peak_hours, screen_time
        FROM daily_summaries
        WHERE user_id = $1 AND date BETWEEN $2 AND $3
        ORDER BY date ASC`

	var rows []summaryRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, from.Format("2006-01-02"), to.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("summary range query error: %w", err)
	}

	summaries := make([]domain.DailyActivitySummary, 0, len(rows))
	for _, row := range rows {
		summary, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
