package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vitanav/wellness-engine/internal/core/domain"
)

type PostgresTaskRepository struct {
	db *sqlx.DB
}

func NewPostgresTaskRepository(db *sqlx.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresTaskRepository) scanRow(row scannable) (*domain.ScheduledTask, error) {
	var t domain.ScheduledTask
	var timeSlotJSON, tagsJSON, audienceJSON []byte

	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Category,
		&t.Duration, &t.Intensity, &t.Completed, &t.ScheduledAt,
		&timeSlotJSON, &t.Priority, &t.Frequency, &tagsJSON, &audienceJSON,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(timeSlotJSON, &t.TimeSlot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal time slot: %w", err)
	}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &t.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
	}
	if len(audienceJSON) > 0 && string(audienceJSON) != "null" {
		if err := json.Unmarshal(audienceJSON, &t.Audience); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audience: %w", err)
		}
	}

	return &t, nil
}

func (r *PostgresTaskRepository) Create(ctx context.Context, task *domain.ScheduledTask) error {
	timeSlotJSON, err := json.Marshal(task.TimeSlot)
	if err != nil {
		return fmt.Errorf("failed to marshal time slot: %w", err)
	}
	tagsJSON, err := json.Marshal(task.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}
	audienceJSON, err := json.Marshal(task.Audience)
	if err != nil {
		return fmt.Errorf("failed to marshal audience: %w", err)
	}

	query := `
        INSERT INTO scheduled_tasks (
            id, user_id, title, description, category,
            duration, intensity, completed, scheduled_at,
            time_slot, priority, frequency, tags, audience
        ) VALUES (
            $1, $2, $3, $4, $5,
            $6, $7, $8, $9,
            $10, $11, $12, $13, $14
        )`

	_, err = r.db.ExecContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Description, task.Category,
		task.Duration, task.Intensity, task.Completed, task.ScheduledAt,
		timeSlotJSON, task.Priority, task.Frequency, tagsJSON, audienceJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	return nil
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, id string) (*domain.ScheduledTask, error) {
	query := `
        SELECT id, user_id, title, description, category,
               duration, intensity, completed, scheduled_at,
               time_slot, priority, frequency, tags, audience
        FROM scheduled_tasks
        WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	task, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return task, nil
}

func (r *PostgresTaskRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*domain.ScheduledTask, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
        SELECT id, user_id, title, description, category,
               duration, intensity, completed, scheduled_at,
               time_slot, priority, frequency, tags, audience
        FROM scheduled_tasks
        WHERE user_id = $1
        ORDER BY scheduled_at DESC
        LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.ScheduledTask

	for rows.Next() {
		task, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func (r *PostgresTaskRepository) SetCompleted(ctx context.Context, id string, completed bool) error {
	query := `UPDATE scheduled_tasks SET completed = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, completed, id)
	if err != nil {
		return fmt.Errorf("completion update failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}
