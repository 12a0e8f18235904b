package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vitanav/wellness-engine/internal/core/domain"
)

// Recommendation pairs one ranked task with its personalized rendition.
// Personalized is nil when the adjuster filtered the task out for this user.
type Recommendation struct {
	domain.RankedTask
	Personalized *domain.PersonalizedTask `json:"personalized,omitempty"`
}

// RecommendationService runs the full ranking cycle: assemble per-user
// inputs, rank the catalog, personalize the winners, and record them as
// scheduled instances so completion toggles can feed the next cycle.
type RecommendationService struct {
	profiles  domain.ProfileRepository
	tasks     domain.TaskRepository
	summaries domain.SummaryRepository
	patterns  *PatternService
	catalog   []domain.ScheduledTask

	mu       sync.Mutex
	prefs    map[string]domain.Preferences
	progress map[string]domain.Progress
}

func NewRecommendationService(profiles domain.ProfileRepository, tasks domain.TaskRepository, summaries domain.SummaryRepository, patterns *PatternService, catalog []domain.ScheduledTask) *RecommendationService {
	if len(catalog) == 0 {
		catalog = domain.DefaultCatalog
	}
	return &RecommendationService{
		profiles:  profiles,
		tasks:     tasks,
		summaries: summaries,
		patterns:  patterns,
		catalog:   catalog,
		prefs:     make(map[string]domain.Preferences),
		progress:  make(map[string]domain.Progress),
	}
}

// SetPreferences replaces the user's stated preferences for future cycles.
func (s *RecommendationService) SetPreferences(userID string, prefs domain.Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[userID] = prefs
}

func (s *RecommendationService) preferencesFor(userID string) domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prefs, ok := s.prefs[userID]; ok {
		return prefs
	}
	return domain.DefaultPreferences()
}

func (s *RecommendationService) progressFor(userID string) domain.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	if progress, ok := s.progress[userID]; ok {
		return progress
	}
	return domain.DefaultProgress()
}

// Recommend produces the top-count recommendations for the user at the
// given moment and records the scheduled instances.
func (s *RecommendationService) Recommend(ctx context.Context, userID string, rctx domain.RecommendationContext, count int) ([]Recommendation, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil && err != domain.ErrProfileNotFound {
		return nil, fmt.Errorf("recommendation service: failed to load profile: %w", err)
	}

	pattern, err := s.patterns.Patterns(ctx, userID)
	if err != nil {
		return nil, err
	}

	history, err := s.tasks.ListByUserID(ctx, userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("recommendation service: failed to load history: %w", err)
	}

	now := time.Now().UTC()
	today, err := s.summaries.GetByDate(ctx, userID, now)
	if err != nil && err != domain.ErrSummaryNotFound {
		return nil, fmt.Errorf("recommendation service: failed to load today's summary: %w", err)
	}

	progress := s.progressFor(userID)

	ranked := domain.Recommend(domain.RankingInput{
		Profile:     profile,
		Preferences: s.preferencesFor(userID),
		Progress:    progress,
		Context:     rctx,
		Catalog:     s.catalog,
		Pattern:     pattern,
		History:     history,
		Today:       today,
		Now:         now,
	}, count)

	recommendations := make([]Recommendation, 0, len(ranked))
	for _, r := range ranked {
		if err := s.tasks.Create(ctx, r.Task); err != nil {
			return nil, fmt.Errorf("recommendation service: failed to record task: %w", err)
		}

		rec := Recommendation{RankedTask: r}
		if profile != nil {
			rec.Personalized = domain.Personalize(domain.FromScheduledTask(r.Task), domain.AdjusterInput{
				Age:            profile.Age,
				Gender:         profile.Gender,
				Conditions:     profile.MedicalConditions,
				ProgressByType: progressByActivityType(progress),
			})
		}
		recommendations = append(recommendations, rec)
	}

	return recommendations, nil
}

// ToggleCompletion flips a scheduled task's completion state and feeds the
// outcome back into the user's progress for the next cycle.
func (s *RecommendationService) ToggleCompletion(ctx context.Context, userID, taskID string) (*domain.ScheduledTask, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}

	task.ToggleCompletion()
	if err := s.tasks.SetCompleted(ctx, taskID, task.Completed); err != nil {
		return nil, fmt.Errorf("recommendation service: failed to update task: %w", err)
	}

	s.mu.Lock()
	progress, ok := s.progress[userID]
	if !ok {
		progress = domain.DefaultProgress()
	}
	progress.RecordCompletion(task.Category, task.Completed, time.Now().UTC())
	s.progress[userID] = progress
	s.mu.Unlock()

	s.patterns.Invalidate(ctx, userID)

	return task, nil
}

// progressByActivityType projects per-category progress onto the adjuster's
// 0-100 per-activity-type scale, taking the best category in each family.
func progressByActivityType(progress domain.Progress) map[string]float64 {
	byType := make(map[string]float64)
	for category, rate := range progress.CompletionRate {
		activityType := domain.ActivityTypeFor(category)
		value := rate * 100
		if value > byType[activityType] {
			byType[activityType] = value
		}
	}
	return byType
}
