package domain

import "math"

const highScreenTimeMinutes = 480.0

// Prediction is the heuristic success estimate for one candidate task.
// Computed fresh per task per call, never persisted.
type Prediction struct {
	Likelihood        float64  `json:"likelihood"`
	Confidence        float64  `json:"confidence"`
	SupportingFactors []string `json:"supporting_factors"`
	Risks             []string `json:"risks"`
}

type factorResult struct {
	score      float64
	supporting []string
	risks      []string
}

// PredictTaskSuccess blends five equally weighted sub-scores into a success
// likelihood with an agreement-based confidence. today may be nil when no
// activity data exists yet; the activity and screen factors then stay neutral.
func PredictTaskSuccess(task *ScheduledTask, pattern UserPattern, today *DailyActivitySummary) Prediction {
	factors := []factorResult{
		timeFactor(task, pattern),
		categoryFactor(task, pattern),
		progressionFactor(task, pattern),
		activityFactor(task, pattern, today),
		screenTimeFactor(task, pattern, today),
	}

	scores := make([]float64, len(factors))
	prediction := Prediction{
		SupportingFactors: []string{},
		Risks:             []string{},
	}
	for i, f := range factors {
		scores[i] = f.score
		prediction.Likelihood += f.score / float64(len(factors))
		prediction.SupportingFactors = append(prediction.SupportingFactors, f.supporting...)
		prediction.Risks = append(prediction.Risks, f.risks...)
	}
	prediction.Confidence = CalculateConfidence(scores)

	return prediction
}

// CalculateConfidence maps sub-score spread to confidence: identical scores
// give 1.0, and the result never drops below 0.5.
func CalculateConfidence(scores []float64) float64 {
	if len(scores) == 0 {
		return 0.5
	}

	avg := mean(scores)
	variance := 0.0
	for _, s := range scores {
		variance += (s - avg) * (s - avg)
	}
	variance /= float64(len(scores))

	return math.Max(0.5, 1-math.Sqrt(variance))
}

func containsHour(hours []int, hour int) bool {
	for _, h := range hours {
		if h == hour {
			return true
		}
	}
	return false
}

func containsCategory(categories []TaskCategory, category TaskCategory) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}

func timeFactor(task *ScheduledTask, pattern UserPattern) factorResult {
	hour := task.TimeSlot.Hour24()
	switch {
	case containsHour(pattern.TimePreference.MostProductiveTime, hour):
		return factorResult{score: 0.8, supporting: []string{"Scheduled during peak performance time"}}
	case containsHour(pattern.TimePreference.LeastProductiveTime, hour):
		return factorResult{score: 0.3, risks: []string{"Scheduled during typically unproductive time"}}
	default:
		return factorResult{score: 0.6}
	}
}

func categoryFactor(task *ScheduledTask, pattern UserPattern) factorResult {
	switch {
	case containsCategory(pattern.PerformancePatterns.BestPerformingCategories, task.Category):
		return factorResult{score: 0.9, supporting: []string{"Strong historical performance in this category"}}
	case containsCategory(pattern.PerformancePatterns.StrugglingCategories, task.Category):
		return factorResult{score: 0.4, risks: []string{"Category needs additional support or modifications"}}
	default:
		return factorResult{score: 0.6}
	}
}

func progressionFactor(task *ScheduledTask, pattern UserPattern) factorResult {
	switch {
	case containsCategory(pattern.ProgressionPatterns.FastestImprovingCategories, task.Category):
		return factorResult{score: 0.85, supporting: []string{"Showing consistent improvement in this area"}}
	case containsCategory(pattern.ProgressionPatterns.PlateauedCategories, task.Category):
		return factorResult{score: 0.5, risks: []string{"Progress has plateaued - consider adjusting difficulty"}}
	default:
		return factorResult{score: 0.7}
	}
}

func activityFactor(task *ScheduledTask, pattern UserPattern, today *DailyActivitySummary) factorResult {
	if today == nil {
		return factorResult{score: 0.5}
	}

	result := factorResult{score: 0.5}
	hour := task.TimeSlot.Hour24()

	stepGoalProgress := 0.0
	if today.StepGoal > 0 {
		stepGoalProgress = float64(today.TotalSteps) / float64(today.StepGoal)
	}

	recentSteps := 0
	for _, s := range today.HourlySteps[21:] {
		recentSteps += s
	}
	highRecentActivity := recentSteps > 1000

	if task.Category.IsPhysical() {
		if stepGoalProgress > 0.8 {
			result.score -= 0.2
			result.risks = append(result.risks, "You've already reached 80% of your daily step goal")
		} else if stepGoalProgress < 0.3 {
			result.score += 0.2
			result.supporting = append(result.supporting, "Good timing for physical activity")
		}

		if highRecentActivity {
			result.score -= 0.1
			result.risks = append(result.risks, "High recent physical activity")
		}

		if pattern.ActivityPatterns.ExerciseEfficiency.RecoveryNeeded > defaultRecoveryHours {
			result.score -= 0.2
			result.risks = append(result.risks, "Recovery period recommended")
		}
	} else {
		if containsHour(pattern.ActivityPatterns.PeakStepHours, hour) {
			result.score += 0.1
			result.supporting = append(result.supporting, "Scheduled during your naturally active time")
		}

		if highRecentActivity && (task.Category == CategoryMeditation || task.Category == CategoryMindfulness) {
			result.score += 0.2
			result.supporting = append(result.supporting, "Good time for recovery and mindfulness")
		}
	}

	result.score = clamp01(result.score)
	return result
}

func screenTimeFactor(task *ScheduledTask, pattern UserPattern, today *DailyActivitySummary) factorResult {
	if today == nil {
		return factorResult{score: 0.5}
	}

	result := factorResult{score: 0.5}
	hour := task.TimeSlot.Hour24()
	impact := pattern.ActivityPatterns.ScreenTimeImpact

	if containsHour(impact.ProductiveHours, hour) {
		result.score += 0.2
		result.supporting = append(result.supporting, "Scheduled during your productive screen time hours")
	}
	if containsHour(impact.DistractedHours, hour) {
		result.score -= 0.2
		result.risks = append(result.risks, "This time is typically associated with distractions")
	}

	if today.ScreenTime.TotalMinutes > highScreenTimeMinutes {
		result.score -= 0.1
		result.risks = append(result.risks, "High screen time today - consider offline activities")

		if task.Category == CategoryMeditation || task.Category == CategoryCardio {
			result.score += 0.2
			result.supporting = append(result.supporting, "Good timing for a screen break")
		}
	}

	if impact.WellnessAppCorrelation > 0.6 {
		result.score += 0.1
		result.supporting = append(result.supporting, "You tend to complete tasks better with app support")
	}

	result.score = clamp01(result.score)
	return result
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
