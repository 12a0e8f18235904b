package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type ProfileRepository interface {
	// Upsert creates the profile on first write and replaces it afterwards.
	Upsert(ctx context.Context, profile *UserProfile) error

	GetByUserID(ctx context.Context, userID string) (*UserProfile, error)
}

type SampleRepository interface {
	// SaveStepSamples persists one flushed batch of step samples.
	SaveStepSamples(ctx context.Context, userID string, samples []RawStepSample) error

	// SaveScreenSamples persists one flushed batch of screen sessions.
	SaveScreenSamples(ctx context.Context, userID string, samples []RawScreenSample) error

	// StepSamplesSince returns stored step samples at or after the cutoff,
	// ordered by timestamp ascending.
	StepSamplesSince(ctx context.Context, userID string, since time.Time) ([]RawStepSample, error)

	ScreenSamplesSince(ctx context.Context, userID string, since time.Time) ([]RawScreenSample, error)

	// DeleteOlderThan removes samples past the retention horizon. Returns the
	// number of rows removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type SummaryRepository interface {
	// Upsert writes the summary for its calendar day, replacing any previous
	// computation for the same user and date.
	Upsert(ctx context.Context, userID string, summary DailyActivitySummary) error

	GetByDate(ctx context.Context, userID string, date time.Time) (*DailyActivitySummary, error)

	// ListRange returns summaries with dates in [from, to], ascending.
	ListRange(ctx context.Context, userID string, from, to time.Time) ([]DailyActivitySummary, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *ScheduledTask) error
	GetByID(ctx context.Context, id string) (*ScheduledTask, error)

	// ListByUserID returns the user's scheduled instances, most recent first.
	ListByUserID(ctx context.Context, userID string, limit int) ([]*ScheduledTask, error)

	// SetCompleted updates the completion flag of a scheduled instance.
	SetCompleted(ctx context.Context, id string, completed bool) error
}
