package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/vitanav/wellness-engine/internal/core/domain"
)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *domain.ScheduledTask) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id string) (*domain.ScheduledTask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduledTask), args.Error(1)
}

func (m *MockTaskRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*domain.ScheduledTask, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ScheduledTask), args.Error(1)
}

func (m *MockTaskRepository) SetCompleted(ctx context.Context, id string, completed bool) error {
	return m.Called(ctx, id, completed).Error(0)
}

// fakePatternCache is an in-memory stand-in for the redis-backed cache.
type fakePatternCache struct {
	entries     map[string]domain.UserPattern
	sets, hits  int
	invalidated int
}

func newFakePatternCache() *fakePatternCache {
	return &fakePatternCache{entries: make(map[string]domain.UserPattern)}
}

func (c *fakePatternCache) Get(_ context.Context, userID string) (*domain.UserPattern, bool) {
	pattern, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	c.hits++
	return &pattern, true
}

func (c *fakePatternCache) Set(_ context.Context, userID string, pattern domain.UserPattern) {
	c.entries[userID] = pattern
	c.sets++
}

func (c *fakePatternCache) Invalidate(_ context.Context, userID string) {
	delete(c.entries, userID)
	c.invalidated++
}

func TestPatternService_Patterns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("Miss recomputes from repositories and caches the result", func(t *testing.T) {
		summaries := new(MockSummaryRepository)
		tasks := new(MockTaskRepository)
		cache := newFakePatternCache()
		service := NewPatternService(summaries, tasks, cache)

		summaries.On("ListRange", ctx, "user-1", mock.Anything, mock.Anything).
			Return([]domain.DailyActivitySummary{}, nil).Once()
		tasks.On("ListByUserID", ctx, "user-1", historyLimit).
			Return([]*domain.ScheduledTask{}, nil).Once()

		pattern, err := service.Patterns(ctx, "user-1")

		assert.NoError(t, err)
		assert.Equal(t, domain.EmptyPattern(), pattern)
		assert.Equal(t, 1, cache.sets)

		summaries.AssertExpectations(t)
		tasks.AssertExpectations(t)
	})

	t.Run("Hit skips the repositories entirely", func(t *testing.T) {
		summaries := new(MockSummaryRepository)
		tasks := new(MockTaskRepository)
		cache := newFakePatternCache()
		cache.entries["user-1"] = domain.EmptyPattern()
		service := NewPatternService(summaries, tasks, cache)

		_, err := service.Patterns(ctx, "user-1")

		assert.NoError(t, err)
		assert.Equal(t, 1, cache.hits)
		summaries.AssertNotCalled(t, "ListRange")
		tasks.AssertNotCalled(t, "ListByUserID")
	})

	t.Run("Nil cache still computes", func(t *testing.T) {
		summaries := new(MockSummaryRepository)
		tasks := new(MockTaskRepository)
		service := NewPatternService(summaries, tasks, nil)

		summaries.On("ListRange", ctx, "user-1", mock.Anything, mock.Anything).
			Return([]domain.DailyActivitySummary{}, nil)
		tasks.On("ListByUserID", ctx, "user-1", historyLimit).
			Return([]*domain.ScheduledTask{}, nil)

		pattern, err := service.Patterns(ctx, "user-1")

		assert.NoError(t, err)
		assert.Equal(t, domain.EmptyPattern(), pattern)
	})

	t.Run("Repository failure surfaces and nothing is cached", func(t *testing.T) {
		summaries := new(MockSummaryRepository)
		tasks := new(MockTaskRepository)
		cache := newFakePatternCache()
		service := NewPatternService(summaries, tasks, cache)

		summaries.On("ListRange", ctx, "user-1", mock.Anything, mock.Anything).
			Return(nil, errors.New("db down"))

		_, err := service.Patterns(ctx, "user-1")

		assert.Error(t, err)
		assert.Equal(t, 0, cache.sets)
	})

	t.Run("Completed history feeds the miner", func(t *testing.T) {
		summaries := new(MockSummaryRepository)
		tasks := new(MockTaskRepository)
		service := NewPatternService(summaries, tasks, nil)

		now := time.Now().UTC()
		history := make([]*domain.ScheduledTask, 0, 4)
		for i := 0; i < 4; i++ {
			task := domain.DefaultCatalog[0].Instantiate("user-1", now.AddDate(0, 0, -i))
			task.Completed = true
			history = append(history, task)
		}

		summaries.On("ListRange", ctx, "user-1", mock.Anything, mock.Anything).
			Return([]domain.DailyActivitySummary{}, nil)
		tasks.On("ListByUserID", ctx, "user-1", historyLimit).Return(history, nil)

		pattern, err := service.Patterns(ctx, "user-1")

		assert.NoError(t, err)
		assert.Contains(t, pattern.PerformancePatterns.BestPerformingCategories, history[0].Category)
	})
}

func TestPatternService_Invalidate(t *testing.T) {
	t.Parallel()

	cache := newFakePatternCache()
	cache.entries["user-1"] = domain.EmptyPattern()
	service := NewPatternService(new(MockSummaryRepository), new(MockTaskRepository), cache)

	service.Invalidate(context.Background(), "user-1")

	assert.Equal(t, 1, cache.invalidated)
	assert.Empty(t, cache.entries)
}
