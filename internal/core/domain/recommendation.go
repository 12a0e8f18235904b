package domain

import (
	"math"
	"sort"
	"time"
)

// Factor weights. The six base weights total 1.0 and the prediction product
// is added on top at 0.2, so totals range over [0, 1.2]. This is deliberate:
// the prediction acts as a bonus, not a renormalized seventh factor.
const (
	WeightProfileMatch      = 0.30
	WeightPreferenceMatch   = 0.20
	WeightTimeMatch         = 0.15
	WeightProgressAlignment = 0.15
	WeightWeatherImpact     = 0.10
	WeightVarietyBonus      = 0.10
	WeightPrediction        = 0.20
)

// ScoreBreakdown exposes every sub-score that composed a task's total, for
// explainability in the UI.
type ScoreBreakdown struct {
	ProfileMatch      float64 `json:"profile_match"`
	PreferenceMatch   float64 `json:"preference_match"`
	TimeMatch         float64 `json:"time_match"`
	ProgressAlignment float64 `json:"progress_alignment"`
	WeatherImpact     float64 `json:"weather_impact"`
	VarietyBonus      float64 `json:"variety_bonus"`
	PredictionScore   float64 `json:"prediction_score"`
	Total             float64 `json:"total"`
}

// RankedTask is one recommendation: the instantiated task, its score
// breakdown, and the predictor's explanation lists.
type RankedTask struct {
	Task       *ScheduledTask `json:"task"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
	Prediction Prediction     `json:"prediction"`
}

// RankingInput bundles everything one ranking cycle reads.
type RankingInput struct {
	Profile     *UserProfile
	Preferences Preferences
	Progress    Progress
	Context     RecommendationContext
	Catalog     []ScheduledTask
	Pattern     UserPattern
	History     []*ScheduledTask
	Today       *DailyActivitySummary
	Now         time.Time
}

// Recommend scores every catalog task and returns the top count, ordered by
// total score descending with catalog order breaking ties. Pure given its
// inputs: identical inputs yield identical orderings and breakdowns.
func Recommend(input RankingInput, count int) []RankedTask {
	if count <= 0 {
		count = 5
	}

	ranked := make([]RankedTask, 0, len(input.Catalog))
	for _, template := range input.Catalog {
		task := template.Instantiate(profileUserID(input.Profile), input.Now)

		prediction := PredictTaskSuccess(task, input.Pattern, input.Today)

		breakdown := ScoreBreakdown{
			ProfileMatch:      profileMatchScore(task, input.Profile, input.Pattern, input.History, input.Now),
			PreferenceMatch:   preferenceMatchScore(task, input.Preferences),
			TimeMatch:         timeMatchScore(task, input.Context.TimeOfDay),
			ProgressAlignment: progressAlignmentScore(task, input.Progress),
			WeatherImpact:     weatherImpactScore(task, input.Context.Weather),
			VarietyBonus:      varietyBonusScore(task, input.Progress),
			PredictionScore:   prediction.Likelihood * prediction.Confidence,
		}
		breakdown.Total = breakdown.ProfileMatch*WeightProfileMatch +
			breakdown.PreferenceMatch*WeightPreferenceMatch +
			breakdown.TimeMatch*WeightTimeMatch +
			breakdown.ProgressAlignment*WeightProgressAlignment +
			breakdown.WeatherImpact*WeightWeatherImpact +
			breakdown.VarietyBonus*WeightVarietyBonus +
			breakdown.PredictionScore*WeightPrediction

		ranked = append(ranked, RankedTask{
			Task:       task,
			Breakdown:  breakdown,
			Prediction: prediction,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Breakdown.Total > ranked[j].Breakdown.Total
	})

	if len(ranked) > count {
		ranked = ranked[:count]
	}
	return ranked
}

func profileUserID(profile *UserProfile) string {
	if profile == nil {
		return ""
	}
	return profile.UserID
}

// profileMatchScore averages seven equally weighted eligibility checks: four
// static profile checks and three mined-pattern alignment checks. Tasks with
// no audience block are universally eligible at 0.5.
func profileMatchScore(task *ScheduledTask, profile *UserProfile, pattern UserPattern, history []*ScheduledTask, now time.Time) float64 {
	if task.Audience == nil || profile == nil {
		return 0.5
	}

	checks := 0
	if profile.Age >= task.Audience.AgeMin && profile.Age <= task.Audience.AgeMax {
		checks++
	}
	if task.Audience.AllowsGender(profile.Gender) {
		checks++
	}
	if task.Audience.AllowsFitnessLevel(profile.ActivityLevel) {
		checks++
	}
	if !task.Audience.ExcludesCondition(profile.MedicalConditions) {
		checks++
	}

	if containsHour(pattern.TimePreference.OptimalExerciseTime, task.TimeSlot.Hour24()) {
		checks++
	}
	if task.Intensity == pattern.ActivityPatterns.ExerciseEfficiency.OptimalIntensity {
		checks++
	}

	needsRecovery := task.Category == CategoryCardio || task.Category == CategoryStrength
	if !needsRecovery || hasRecovered(task, history, pattern.ActivityPatterns.ExerciseEfficiency.RecoveryNeeded, now) {
		checks++
	}

	return float64(checks) / 7
}

// hasRecovered reports whether enough hours passed since the last completed
// high-intensity session in the task's category.
func hasRecovered(task *ScheduledTask, history []*ScheduledTask, recoveryNeeded int, now time.Time) bool {
	var last *ScheduledTask
	for _, t := range history {
		if t.Category != task.Category || t.Intensity != IntensityHigh {
			continue
		}
		if last == nil || t.ScheduledAt.After(last.ScheduledAt) {
			last = t
		}
	}
	if last == nil {
		return true
	}

	return now.Sub(last.ScheduledAt) >= time.Duration(recoveryNeeded)*time.Hour
}

func preferenceMatchScore(task *ScheduledTask, prefs Preferences) float64 {
	score := 0.0

	for _, fav := range prefs.FavoriteActivities {
		if task.HasTag(fav) {
			score += 0.3
			break
		}
	}
	for _, disliked := range prefs.DislikedActivities {
		if task.HasTag(disliked) {
			score -= 0.3
			break
		}
	}

	if intensityRank(task.Intensity) <= intensityRank(prefs.MaxIntensity) {
		score += 0.2
	} else {
		score -= 0.2
	}

	preferred := prefs.PreferredDuration.ForCategory(task.Category)
	if math.Abs(float64(task.Duration-preferred)) <= 15 {
		score += 0.2
	} else {
		score -= 0.1
	}

	return clamp01(score + 0.5)
}

func timeMatchScore(task *ScheduledTask, timeOfDay int) float64 {
	hourDiff := math.Abs(float64(task.TimeSlot.Hour24() - timeOfDay))
	return math.Max(0, 1-hourDiff/12)
}

func progressAlignmentScore(task *ScheduledTask, progress Progress) float64 {
	categoryProgress, ok := progress.ByCategory[task.Category]
	if !ok {
		return 0.5
	}

	score := 0.5
	score += categoryProgress.Improvement * 0.2

	if categoryProgress.Streak > 0 {
		score += math.Min(0.2, float64(categoryProgress.Streak)*0.05)
	}

	if task.Audience != nil && task.Audience.AllowsFitnessLevel(progress.ChallengeLevel) {
		score += 0.2
	}

	return clamp01(score)
}

func weatherImpactScore(task *ScheduledTask, weather *WeatherContext) float64 {
	if weather == nil || !task.HasTag("outdoor") {
		return 0.5
	}
	if weather.IsOutdoorFavorable {
		return 1
	}
	return 0
}

func varietyBonusScore(task *ScheduledTask, progress Progress) float64 {
	repeats := 0
	for _, category := range progress.LastCompletedCategories {
		if category == task.Category {
			repeats++
		}
	}
	return math.Max(0, 1-float64(repeats)*0.2)
}
