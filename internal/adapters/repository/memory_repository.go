package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vitanav/wellness-engine/internal/core/domain"
)

type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.store {
		if existing.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}

	r.store[user.ID] = user
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.store {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type InMemoryProfileRepository struct {
	store map[string]*domain.UserProfile

	mu sync.RWMutex
}

func NewInMemoryProfileRepository() *InMemoryProfileRepository {
	return &InMemoryProfileRepository{
		store: make(map[string]*domain.UserProfile),
	}
}

func (r *InMemoryProfileRepository) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[profile.UserID] = profile
	return nil
}

func (r *InMemoryProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.store[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}

type InMemorySampleRepository struct {
	steps   map[string][]domain.RawStepSample
	screens map[string][]domain.RawScreenSample

	mu sync.RWMutex
}

func NewInMemorySampleRepository() *InMemorySampleRepository {
	return &InMemorySampleRepository{
		steps:   make(map[string][]domain.RawStepSample),
		screens: make(map[string][]domain.RawScreenSample),
	}
}

func (r *InMemorySampleRepository) SaveStepSamples(ctx context.Context, userID string, samples []domain.RawStepSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.steps[userID] = append(r.steps[userID], samples...)
	return nil
}

func (r *InMemorySampleRepository) SaveScreenSamples(ctx context.Context, userID string, samples []domain.RawScreenSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.screens[userID] = append(r.screens[userID], samples...)
	return nil
}

func (r *InMemorySampleRepository) StepSamplesSince(ctx context.Context, userID string, since time.Time) ([]domain.RawStepSample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.RawStepSample
	for _, s := range r.steps[userID] {
		if !s.Timestamp.Before(since) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *InMemorySampleRepository) ScreenSamplesSince(ctx context.Context, userID string, since time.Time) ([]domain.RawScreenSample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.RawScreenSample
	for _, s := range r.screens[userID] {
		if !s.Timestamp.Before(since) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *InMemorySampleRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for userID, samples := range r.steps {
		kept := samples[:0]
		for _, s := range samples {
			if s.Timestamp.Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, s)
		}
		r.steps[userID] = kept
	}
	for userID, samples := range r.screens {
		kept := samples[:0]
		for _, s := range samples {
			if s.Timestamp.Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, s)
		}
		r.screens[userID] = kept
	}
	return removed, nil
}

type summaryKey struct {
	userID string
	date   string
}

type InMemorySummaryRepository struct {
	store map[summaryKey]domain.DailyActivitySummary

	mu sync.RWMutex
}

func NewInMemorySummaryRepository() *InMemorySummaryRepository {
	return &InMemorySummaryRepository{
		store: make(map[summaryKey]domain.DailyActivitySummary),
	}
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func (r *InMemorySummaryRepository) Upsert(ctx context.Context, userID string, summary domain.DailyActivitySummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[summaryKey{userID, dateKey(summary.Date)}] = summary
	return nil
}

func (r *InMemorySummaryRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.DailyActivitySummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary, ok := r.store[summaryKey{userID, dateKey(date)}]
	if !ok {
		return nil, domain.ErrSummaryNotFound
	}
	return &summary, nil
}

func (r *InMemorySummaryRepository) ListRange(ctx context.Context, userID string, from, to time.Time) ([]domain.DailyActivitySummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fromKey, toKey := dateKey(from), dateKey(to)

	var out []domain.DailyActivitySummary
	for key, summary := range r.store {
		if key.userID != userID {
			continue
		}
		if key.date >= fromKey && key.date <= toKey {
			out = append(out, summary)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

type InMemoryTaskRepository struct {
	store map[string]*domain.ScheduledTask

	mu sync.RWMutex
}

func NewInMemoryTaskRepository() *InMemoryTaskRepository {
	return &InMemoryTaskRepository{
		store: make(map[string]*domain.ScheduledTask),
	}
}

func (r *InMemoryTaskRepository) Create(ctx context.Context, task *domain.ScheduledTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[task.ID] = task
	return nil
}

func (r *InMemoryTaskRepository) GetByID(ctx context.Context, id string) (*domain.ScheduledTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.store[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (r *InMemoryTaskRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*domain.ScheduledTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tasks []*domain.ScheduledTask
	for _, t := range r.store {
		if t.UserID == userID {
			tasks = append(tasks, t)
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ScheduledAt.After(tasks[j].ScheduledAt)
	})

	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

func (r *InMemoryTaskRepository) SetCompleted(ctx context.Context, id string, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.store[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	task.Completed = completed
	return nil
}
