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

type PostgresProfileRepository struct {
	db *sqlx.DB
}

func NewPostgresProfileRepository(db *sqlx.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	conditionsJSON, err := json.Marshal(profile.MedicalConditions)
	if err != nil {
		return fmt.Errorf("failed to marshal conditions: %w", err)
	}

	query := `
        INSERT INTO user_profiles (
            user_id, name, age, gender, activity_level,
            medical_conditions, fitness_goal, step_goal, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (user_id) DO UPDATE SET
            name = EXCLUDED.name,
            age = EXCLUDED.age,
            gender = EXCLUDED.gender,
            activity_level = EXCLUDED.activity_level,
            medical_conditions = EXCLUDED.medical_conditions,
            fitness_goal = EXCLUDED.fitness_goal,
            step_goal = EXCLUDED.step_goal,
            updated_at = NOW()`

	_, err = r.db.ExecContext(ctx, query,
		profile.UserID, profile.Name, profile.Age, profile.Gender, profile.ActivityLevel,
		conditionsJSON, profile.FitnessGoal, profile.StepGoal, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	query := `
        SELECT user_id, name, age, gender, activity_level,
               medical_conditions, fitness_goal, step_goal, created_at, updated_at
        FROM user_profiles
        WHERE user_id = $1`

	var profile domain.UserProfile
	var conditionsJSON []byte

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID, &profile.Name, &profile.Age, &profile.Gender, &profile.ActivityLevel,
		&conditionsJSON, &profile.FitnessGoal, &profile.StepGoal, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("profile query error: %w", err)
	}

	if len(conditionsJSON) > 0 {
		if err := json.Unmarshal(conditionsJSON, &profile.MedicalConditions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal conditions: %w", err)
		}
	}

	return &profile, nil
}
