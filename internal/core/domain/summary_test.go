package domain

import (
	"math"
	"testing"
	"time"
)

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func stepAt(t time.Time, count int, activityType string) RawStepSample {
	return RawStepSample{
		Timestamp:    t,
		Count:        count,
		Source:       StepSourceDevice,
		ActivityType: activityType,
		Confidence:   0.9,
	}
}

func TestSummarizeDay(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("Empty inputs produce an all-zero summary", func(t *testing.T) {
		t.Parallel()

		summary := SummarizeDay(nil, nil, day, 0)

		if summary.TotalSteps != 0 || summary.ActiveMinutes != 0 {
			t.Errorf("Expected zero steps and active minutes, got %d / %d", summary.TotalSteps, summary.ActiveMinutes)
		}
		if summary.CaloriesBurned != 0 || summary.DistanceCoveredKm != 0 {
			t.Errorf("Expected zero calories and distance, got %f / %f", summary.CaloriesBurned, summary.DistanceCoveredKm)
		}
		if len(summary.PeakActivityHours) != 0 {
			t.Errorf("Expected no peak hours, got %v", summary.PeakActivityHours)
		}
		if summary.StepGoal != DefaultStepGoal {
			t.Errorf("Expected default step goal, got %d", summary.StepGoal)
		}
	})

	t.Run("Hourly steps always sum to total steps", func(t *testing.T) {
		t.Parallel()

		steps := []RawStepSample{
			stepAt(day.Add(7*time.Hour), 300, ActivityWalking),
			stepAt(day.Add(7*time.Hour+30*time.Minute), 500, ActivityWalking),
			stepAt(day.Add(12*time.Hour), 1200, ActivityRunning),
			stepAt(day.Add(18*time.Hour), 800, ActivityStairs),
		}

		summary := SummarizeDay(steps, nil, day, 10000)

		sum := 0
		for _, s := range summary.HourlySteps {
			sum += s
		}
		if sum != summary.TotalSteps {
			t.Errorf("Hourly sum %d != total %d", sum, summary.TotalSteps)
		}
		if summary.TotalSteps != 2800 {
			t.Errorf("Expected 2800 total steps, got %d", summary.TotalSteps)
		}
	})

	t.Run("Samples from other days are excluded", func(t *testing.T) {
		t.Parallel()

		steps := []RawStepSample{
			stepAt(day.Add(-2*time.Hour), 999, ActivityWalking), // previous day
			stepAt(day.Add(9*time.Hour), 400, ActivityWalking),
			stepAt(day.Add(25*time.Hour), 999, ActivityWalking), // next day
		}

		summary := SummarizeDay(steps, nil, day, 10000)

		if summary.TotalSteps != 400 {
			t.Errorf("Expected 400 steps, got %d", summary.TotalSteps)
		}
	})

	t.Run("Calories apply activity multipliers", func(t *testing.T) {
		t.Parallel()

		walking := SummarizeDay([]RawStepSample{stepAt(day.Add(8*time.Hour), 1000, ActivityWalking)}, nil, day, 10000)
		running := SummarizeDay([]RawStepSample{stepAt(day.Add(8*time.Hour), 1000, ActivityRunning)}, nil, day, 10000)
		stairs := SummarizeDay([]RawStepSample{stepAt(day.Add(8*time.Hour), 1000, ActivityStairs)}, nil, day, 10000)

		if !floatEq(walking.CaloriesBurned, 40) {
			t.Errorf("Expected 40 kcal walking, got %f", walking.CaloriesBurned)
		}
		if !floatEq(running.CaloriesBurned, 60) {
			t.Errorf("Expected 60 kcal running, got %f", running.CaloriesBurned)
		}
		if !floatEq(stairs.CaloriesBurned, 52) {
			t.Errorf("Expected 52 kcal stairs, got %f", stairs.CaloriesBurned)
		}
		if !floatEq(walking.DistanceCoveredKm, 0.762) {
			t.Errorf("Expected 0.762 km, got %f", walking.DistanceCoveredKm)
		}
	})

	t.Run("First sample never counts toward active minutes", func(t *testing.T) {
		t.Parallel()

		base := day.Add(10 * time.Hour)
		steps := []RawStepSample{
			stepAt(base, 100, ActivityWalking),
			stepAt(base.Add(30*time.Second), 100, ActivityWalking),
			stepAt(base.Add(70*time.Second), 100, ActivityWalking),
			stepAt(base.Add(10*time.Minute), 100, ActivityWalking),
		}

		summary := SummarizeDay(steps, nil, day, 10000)

		// Sample 2 follows within 30s, sample 3 within 40s; sample 4 breaks
		// the burst.
		if summary.ActiveMinutes != 2 {
			t.Errorf("Expected 2 active minutes, got %d", summary.ActiveMinutes)
		}
	})

	t.Run("Peak hours rank descending with earlier hour winning ties", func(t *testing.T) {
		t.Parallel()

		steps := []RawStepSample{
			stepAt(day.Add(6*time.Hour), 500, ActivityWalking),
			stepAt(day.Add(9*time.Hour), 900, ActivityWalking),
			stepAt(day.Add(14*time.Hour), 500, ActivityWalking),
			stepAt(day.Add(20*time.Hour), 100, ActivityWalking),
		}

		summary := SummarizeDay(steps, nil, day, 10000)

		expected := []int{9, 6, 14}
		if len(summary.PeakActivityHours) != 3 {
			t.Fatalf("Expected 3 peak hours, got %v", summary.PeakActivityHours)
		}
		for i, h := range expected {
			if summary.PeakActivityHours[i] != h {
				t.Errorf("Peak hour %d: expected %d, got %d", i, h, summary.PeakActivityHours[i])
			}
		}
	})

	t.Run("Screen sessions aggregate by category and wellness flag", func(t *testing.T) {
		t.Parallel()

		screens := []RawScreenSample{
			{Timestamp: day.Add(8 * time.Hour), AppName: "mail", DurationMinutes: 30, Category: ScreenProductivity},
			{Timestamp: day.Add(12 * time.Hour), AppName: "meditate", DurationMinutes: 20, Category: ScreenWellness, IsWellnessApp: true},
			{Timestamp: day.Add(21 * time.Hour), AppName: "videos", DurationMinutes: 90, Category: ScreenEntertainment},
		}

		summary := SummarizeDay(nil, screens, day, 10000)

		if !floatEq(summary.ScreenTime.TotalMinutes, 140) {
			t.Errorf("Expected 140 minutes total, got %f", summary.ScreenTime.TotalMinutes)
		}
		if !floatEq(summary.ScreenTime.WellnessAppMinutes, 20) {
			t.Errorf("Expected 20 wellness minutes, got %f", summary.ScreenTime.WellnessAppMinutes)
		}
		if !floatEq(summary.ScreenTime.ByCategory[ScreenEntertainment], 90) {
			t.Errorf("Expected 90 entertainment minutes, got %f", summary.ScreenTime.ByCategory[ScreenEntertainment])
		}
	})
}
