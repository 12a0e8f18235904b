package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/vitanav/wellness-engine/internal/core/domain"
	"github.com/vitanav/wellness-engine/internal/core/tracking"
)

const (
	defaultBatchSize = 100
	retentionDays    = 90
)

// ActivityService buffers raw samples in memory and flushes them to storage
// in batches, so a chatty tracker does not turn into a write per sample.
type ActivityService struct {
	samples   domain.SampleRepository
	summaries domain.SummaryRepository
	profiles  domain.ProfileRepository
	batchSize int

	mu         sync.Mutex
	stepBufs   map[string][]domain.RawStepSample
	screenBufs map[string][]domain.RawScreenSample
}

func NewActivityService(samples domain.SampleRepository, summaries domain.SummaryRepository, profiles domain.ProfileRepository, batchSize int) *ActivityService {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &ActivityService{
		samples:    samples,
		summaries:  summaries,
		profiles:   profiles,
		batchSize:  batchSize,
		stepBufs:   make(map[string][]domain.RawStepSample),
		screenBufs: make(map[string][]domain.RawScreenSample),
	}
}

// IngestSteps buffers one step sample, flushing the user's batch when it
// reaches the size cap.
func (s *ActivityService) IngestSteps(ctx context.Context, userID string, sample domain.RawStepSample) error {
	s.mu.Lock()
	s.stepBufs[userID] = append(s.stepBufs[userID], sample)
	full := len(s.stepBufs[userID]) >= s.batchSize
	s.mu.Unlock()

	if full {
		return s.flushSteps(ctx, userID)
	}
	return nil
}

// IngestScreen buffers one screen session. Sessions below the tracking floor
// are dropped silently.
func (s *ActivityService) IngestScreen(ctx context.Context, userID string, sample domain.RawScreenSample) error {
	kept := tracking.FilterScreenSamples([]domain.RawScreenSample{sample})
	if len(kept) == 0 {
		return nil
	}

	s.mu.Lock()
	s.screenBufs[userID] = append(s.screenBufs[userID], kept[0])
	full := len(s.screenBufs[userID]) >= s.batchSize
	s.mu.Unlock()

	if full {
		return s.flushScreen(ctx, userID)
	}
	return nil
}

// Flush writes every user's buffered samples to storage. Batches that fail
// to persist go back into the buffer for the next attempt.
func (s *ActivityService) Flush(ctx context.Context) error {
	s.mu.Lock()
	stepUsers := make([]string, 0, len(s.stepBufs))
	for userID := range s.stepBufs {
		stepUsers = append(stepUsers, userID)
	}
	screenUsers := make([]string, 0, len(s.screenBufs))
	for userID := range s.screenBufs {
		screenUsers = append(screenUsers, userID)
	}
	s.mu.Unlock()

	var firstErr error
	for _, userID := range stepUsers {
		if err := s.flushSteps(ctx, userID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, userID := range screenUsers {
		if err := s.flushScreen(ctx, userID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *ActivityService) flushSteps(ctx context.Context, userID string) error {
	s.mu.Lock()
	batch := s.stepBufs[userID]
	delete(s.stepBufs, userID)
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	if err := s.samples.SaveStepSamples(ctx, userID, batch); err != nil {
		s.mu.Lock()
		s.stepBufs[userID] = append(batch, s.stepBufs[userID]...)
		s.mu.Unlock()
		return fmt.Errorf("activity service: failed to flush step samples: %w", err)
	}
	return nil
}

func (s *ActivityService) flushScreen(ctx context.Context, userID string) error {
	s.mu.Lock()
	batch := s.screenBufs[userID]
	delete(s.screenBufs, userID)
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	if err := s.samples.SaveScreenSamples(ctx, userID, batch); err != nil {
		s.mu.Lock()
		s.screenBufs[userID] = append(batch, s.screenBufs[userID]...)
		s.mu.Unlock()
		return fmt.Errorf("activity service: failed to flush screen samples: %w", err)
	}
	return nil
}

// Sweep removes samples past the retention horizon.
func (s *ActivityService) Sweep(ctx context.Context) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	removed, err := s.samples.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("activity service: retention sweep failed: %w", err)
	}
	if removed > 0 {
		log.Printf("Retention sweep removed %d samples older than %s", removed, cutoff.Format("2006-01-02"))
	}
	return nil
}

// Summary recomputes the daily summary for the given date from stored plus
// still-buffered samples, persists it, and returns it.
func (s *ActivityService) Summary(ctx context.Context, userID string, date time.Time) (*domain.DailyActivitySummary, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	steps, err := s.samples.StepSamplesSince(ctx, userID, dayStart)
	if err != nil {
		return nil, fmt.Errorf("activity service: failed to load step samples: %w", err)
	}
	screens, err := s.samples.ScreenSamplesSince(ctx, userID, dayStart)
	if err != nil {
		return nil, fmt.Errorf("activity service: failed to load screen samples: %w", err)
	}

	s.mu.Lock()
	steps = append(steps, s.stepBufs[userID]...)
	screens = append(screens, s.screenBufs[userID]...)
	s.mu.Unlock()

	stepGoal := domain.DefaultStepGoal
	if profile, err := s.profiles.GetByUserID(ctx, userID); err == nil && profile.StepGoal > 0 {
		stepGoal = profile.StepGoal
	}

	summary := domain.SummarizeDay(steps, screens, date, stepGoal)

	if err := s.summaries.Upsert(ctx, userID, summary); err != nil {
		return nil, fmt.Errorf("activity service: failed to store summary: %w", err)
	}

	return &summary, nil
}
