package domain

import (
	"errors"
	"sort"
	"time"
)

var ErrSummaryNotFound = errors.New("daily summary not found")

const (
	DefaultStepGoal = 10000

	caloriesPerStep = 0.04
	metersPerStep   = 0.762

	// Two step samples closer than this belong to the same activity burst.
	activeBurstWindow = 60 * time.Second
)

// ScreenTimeSummary aggregates one day of screen sessions.
type ScreenTimeSummary struct {
	TotalMinutes       float64            `json:"total_minutes"`
	ByCategory         map[string]float64 `json:"by_category"`
	WellnessAppMinutes float64            `json:"wellness_app_minutes"`
}

// DailyActivitySummary is the per-day aggregate produced from raw samples.
// It is never mutated after creation; recomputing a day replaces the value.
type DailyActivitySummary struct {
	Date              time.Time         `json:"date"`
	TotalSteps        int               `json:"total_steps"`
	StepGoal          int               `json:"step_goal"`
	ActiveMinutes     int               `json:"active_minutes"`
	CaloriesBurned    float64           `json:"calories_burned"`
	DistanceCoveredKm float64           `json:"distance_covered_km"`
	HourlySteps       [24]int           `json:"hourly_steps"`
	PeakActivityHours []int             `json:"peak_activity_hours"`
	ScreenTime        ScreenTimeSummary `json:"screen_time"`
}

func sameCalendarDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// SummarizeDay aggregates the raw samples belonging to the calendar day of
// date (in date's location) into a DailyActivitySummary. It is a pure
// function: empty inputs yield an all-zero summary, never an error.
func SummarizeDay(steps []RawStepSample, screens []RawScreenSample, date time.Time, stepGoal int) DailyActivitySummary {
	if stepGoal <= 0 {
		stepGoal = DefaultStepGoal
	}
	loc := date.Location()

	daySteps := make([]RawStepSample, 0, len(steps))
	for _, s := range steps {
		if sameCalendarDay(s.Timestamp, date, loc) {
			daySteps = append(daySteps, s)
		}
	}
	sort.SliceStable(daySteps, func(i, j int) bool {
		return daySteps[i].Timestamp.Before(daySteps[j].Timestamp)
	})

	summary := DailyActivitySummary{
		Date:              time.Date(date.In(loc).Year(), date.In(loc).Month(), date.In(loc).Day(), 0, 0, 0, 0, loc),
		StepGoal:          stepGoal,
		PeakActivityHours: []int{},
		ScreenTime: ScreenTimeSummary{
			ByCategory: make(map[string]float64),
		},
	}

	for i, s := range daySteps {
		hour := s.Timestamp.In(loc).Hour()
		summary.HourlySteps[hour] += s.Count
		summary.TotalSteps += s.Count
		summary.CaloriesBurned += float64(s.Count) * caloriesPerStep * activityMultiplier(s.ActivityType)
		summary.DistanceCoveredKm += float64(s.Count) * metersPerStep / 1000

		// The first sample of the day never counts as active: there is no
		// prior sample to form a burst with.
		if i > 0 && s.Timestamp.Sub(daySteps[i-1].Timestamp) <= activeBurstWindow {
			summary.ActiveMinutes++
		}
	}

	for _, sc := range screens {
		if !sameCalendarDay(sc.Timestamp, date, loc) {
			continue
		}
		summary.ScreenTime.TotalMinutes += sc.DurationMinutes
		summary.ScreenTime.ByCategory[sc.Category] += sc.DurationMinutes
		if sc.IsWellnessApp {
			summary.ScreenTime.WellnessAppMinutes += sc.DurationMinutes
		}
	}

	summary.PeakActivityHours = peakHours(summary.HourlySteps)

	return summary
}

func activityMultiplier(activityType string) float64 {
	switch activityType {
	case ActivityRunning:
		return 1.5
	case ActivityStairs:
		return 1.3
	default:
		return 1.0
	}
}

// peakHours returns up to 3 hours ranked by step count descending. Hours with
// zero steps are excluded; ties go to the earlier hour.
func peakHours(hourly [24]int) []int {
	type hourSteps struct {
		hour  int
		steps int
	}

	ranked := make([]hourSteps, 0, 24)
	for h, s := range hourly {
		if s > 0 {
			ranked = append(ranked, hourSteps{hour: h, steps: s})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].steps > ranked[j].steps
	})

	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	peaks := make([]int, 0, len(ranked))
	for _, r := range ranked {
		peaks = append(peaks, r.hour)
	}
	return peaks
}
