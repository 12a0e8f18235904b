package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vitanav/wellness-engine/internal/core/domain"
)

const (
	patternWindowDays = domain.AnalysisWindowDays
	historyLimit      = 500
)

// PatternCache is the read-through cache for mined patterns. Implementations
// must treat failures as misses.
type PatternCache interface {
	Get(ctx context.Context, userID string) (*domain.UserPattern, bool)
	Set(ctx context.Context, userID string, pattern domain.UserPattern)
	Invalidate(ctx context.Context, userID string)
}

// PatternService recomputes a user's behavioral pattern from the recent
// summary window and task history, caching the result until invalidated by
// new data.
type PatternService struct {
	summaries domain.SummaryRepository
	tasks     domain.TaskRepository
	cache     PatternCache
}

func NewPatternService(summaries domain.SummaryRepository, tasks domain.TaskRepository, cache PatternCache) *PatternService {
	return &PatternService{
		summaries: summaries,
		tasks:     tasks,
		cache:     cache,
	}
}

// Patterns returns the user's current pattern, recomputing it wholesale on a
// cache miss. Users with no history get the neutral empty pattern.
func (s *PatternService) Patterns(ctx context.Context, userID string) (domain.UserPattern, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, userID); ok {
			return *cached, nil
		}
	}

	pattern, err := s.recompute(ctx, userID)
	if err != nil {
		return domain.EmptyPattern(), err
	}

	if s.cache != nil {
		s.cache.Set(ctx, userID, pattern)
	}
	return pattern, nil
}

// Invalidate drops the cached pattern so the next read recomputes.
func (s *PatternService) Invalidate(ctx context.Context, userID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
}

func (s *PatternService) recompute(ctx context.Context, userID string) (domain.UserPattern, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -patternWindowDays)

	summaries, err := s.summaries.ListRange(ctx, userID, from, now)
	if err != nil {
		return domain.UserPattern{}, fmt.Errorf("pattern service: failed to load summaries: %w", err)
	}

	history, err := s.tasks.ListByUserID(ctx, userID, historyLimit)
	if err != nil {
		return domain.UserPattern{}, fmt.Errorf("pattern service: failed to load task history: %w", err)
	}

	completions := make(map[string]bool, len(history))
	for _, task := range history {
		completions[task.ID] = task.Completed
	}

	return domain.MinePatterns(history, completions, summaries), nil
}
