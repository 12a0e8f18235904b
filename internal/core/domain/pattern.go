package domain

import (
	"math"
	"sort"
	"time"
)

const (
	// AnalysisWindowDays bounds the rolling summary window fed to the miner.
	AnalysisWindowDays = 28

	plateauThreshold = 0.05

	productiveDayStepFloor     = 8000
	productiveWellnessRatio    = 0.3
	distractedDayStepCeiling   = 5000
	distractedScreenMinutes    = 240.0
	lowActivityFraction        = 0.2
	performanceDropFraction    = 0.7
	performanceRecoverFraction = 0.9
	defaultRecoveryHours       = 24
)

// TimePreference holds the hours the user historically performs best and
// worst at, plus the inferred exercise window.
type TimePreference struct {
	MostProductiveTime  []int `json:"most_productive_time"`
	LeastProductiveTime []int `json:"least_productive_time"`
	OptimalExerciseTime []int `json:"optimal_exercise_time"`
}

type PerformancePatterns struct {
	BestPerformingCategories []TaskCategory `json:"best_performing_categories"`
	StrugglingCategories     []TaskCategory `json:"struggling_categories"`
}

type AdherencePatterns struct {
	MostConsistentDays []int    `json:"most_consistent_days"`
	MostSkippedTasks   []string `json:"most_skipped_tasks"`
}

type ProgressionPatterns struct {
	FastestImprovingCategories []TaskCategory `json:"fastest_improving_categories"`
	PlateauedCategories        []TaskCategory `json:"plateaued_categories"`
}

type ScreenTimeImpact struct {
	ProductiveHours        []int   `json:"productive_hours"`
	DistractedHours        []int   `json:"distracted_hours"`
	WellnessAppCorrelation float64 `json:"wellness_app_correlation"`
}

type ExerciseEfficiency struct {
	BestStepRatios   []float64 `json:"best_step_ratios"`
	OptimalIntensity string    `json:"optimal_intensity"`
	RecoveryNeeded   int       `json:"recovery_needed_hours"`
}

type ActivityPatterns struct {
	PeakStepHours      []int              `json:"peak_step_hours"`
	LowActivityPeriods []int              `json:"low_activity_periods"`
	ScreenTimeImpact   ScreenTimeImpact   `json:"screen_time_impact"`
	ExerciseEfficiency ExerciseEfficiency `json:"exercise_efficiency"`
}

// UserPattern is the full mined behavioral profile. It is recomputed from
// scratch on each mining pass; consumers treat it as read-only.
type UserPattern struct {
	TimePreference      TimePreference      `json:"time_preference"`
	PerformancePatterns PerformancePatterns `json:"performance_patterns"`
	AdherencePatterns   AdherencePatterns   `json:"adherence_patterns"`
	ProgressionPatterns ProgressionPatterns `json:"progression_patterns"`
	ActivityPatterns    ActivityPatterns    `json:"activity_patterns"`
}

// EmptyPattern returns the neutral pattern used before any data exists.
func EmptyPattern() UserPattern {
	return UserPattern{
		TimePreference: TimePreference{
			MostProductiveTime:  []int{},
			LeastProductiveTime: []int{},
			OptimalExerciseTime: []int{},
		},
		PerformancePatterns: PerformancePatterns{
			BestPerformingCategories: []TaskCategory{},
			StrugglingCategories:     []TaskCategory{},
		},
		AdherencePatterns: AdherencePatterns{
			MostConsistentDays: []int{},
			MostSkippedTasks:   []string{},
		},
		ProgressionPatterns: ProgressionPatterns{
			FastestImprovingCategories: []TaskCategory{},
			PlateauedCategories:        []TaskCategory{},
		},
		ActivityPatterns: ActivityPatterns{
			PeakStepHours:      []int{},
			LowActivityPeriods: []int{},
			ScreenTimeImpact: ScreenTimeImpact{
				ProductiveHours: []int{},
				DistractedHours: []int{},
			},
			ExerciseEfficiency: ExerciseEfficiency{
				BestStepRatios:   []float64{},
				OptimalIntensity: IntensityMedium,
				RecoveryNeeded:   defaultRecoveryHours,
			},
		},
	}
}

// MinePatterns runs both mining passes and composes the result. It is a pure
// function of its inputs; callers hold the returned value.
func MinePatterns(history []*ScheduledTask, completions map[string]bool, summaries []DailyActivitySummary) UserPattern {
	pattern := EmptyPattern()
	mineTaskHistory(&pattern, history, completions)
	mineActivity(&pattern, summaries)
	return pattern
}

// MineActivityPatterns recomputes only the activity-derived sub-fields of an
// existing pattern, leaving the task-history fields untouched. Used when a
// new daily summary lands between full mining passes.
func MineActivityPatterns(pattern UserPattern, summaries []DailyActivitySummary) UserPattern {
	mineActivity(&pattern, summaries)
	return pattern
}

type completionTally struct {
	total     int
	completed int
}

func (t completionTally) rate() float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.completed) / float64(t.total)
}

func mineTaskHistory(pattern *UserPattern, history []*ScheduledTask, completions map[string]bool) {
	if len(history) == 0 {
		return
	}

	mineTimePreference(pattern, history, completions)
	mineCategoryAdherence(pattern, history, completions)
	mineProgression(pattern, history, completions)
}

func mineTimePreference(pattern *UserPattern, history []*ScheduledTask, completions map[string]bool) {
	hourly := make(map[int]*completionTally)
	for _, task := range history {
		hour := task.TimeSlot.Hour24()
		tally, ok := hourly[hour]
		if !ok {
			tally = &completionTally{}
			hourly[hour] = tally
		}
		tally.total++
		if completions[task.ID] {
			tally.completed++
		}
	}

	type hourRate struct {
		hour int
		rate float64
	}
	rates := make([]hourRate, 0, len(hourly))
	for hour, tally := range hourly {
		rates = append(rates, hourRate{hour: hour, rate: tally.rate()})
	}
	sort.Slice(rates, func(i, j int) bool {
		if rates[i].rate != rates[j].rate {
			return rates[i].rate > rates[j].rate
		}
		return rates[i].hour < rates[j].hour
	})

	top := len(rates)
	if top > 3 {
		top = 3
	}
	for _, r := range rates[:top] {
		pattern.TimePreference.MostProductiveTime = append(pattern.TimePreference.MostProductiveTime, r.hour)
	}

	bottom := len(rates) - 3
	if bottom < 0 {
		bottom = 0
	}
	for _, r := range rates[bottom:] {
		pattern.TimePreference.LeastProductiveTime = append(pattern.TimePreference.LeastProductiveTime, r.hour)
	}
}

func mineCategoryAdherence(pattern *UserPattern, history []*ScheduledTask, completions map[string]bool) {
	byCategory := make(map[TaskCategory]*completionTally)
	for _, task := range history {
		tally, ok := byCategory[task.Category]
		if !ok {
			tally = &completionTally{}
			byCategory[task.Category] = tally
		}
		tally.total++
		if completions[task.ID] {
			tally.completed++
		}
	}

	type categoryRate struct {
		category TaskCategory
		rate     float64
	}
	rates := make([]categoryRate, 0, len(byCategory))
	// Iterate the fixed category order so equal rates resolve deterministically.
	for _, category := range AllCategories {
		if tally, ok := byCategory[category]; ok {
			rates = append(rates, categoryRate{category: category, rate: tally.rate()})
		}
	}
	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].rate > rates[j].rate
	})

	top := len(rates)
	if top > 2 {
		top = 2
	}
	for _, r := range rates[:top] {
		pattern.PerformancePatterns.BestPerformingCategories = append(pattern.PerformancePatterns.BestPerformingCategories, r.category)
	}

	bottom := len(rates) - 2
	if bottom < 0 {
		bottom = 0
	}
	for _, r := range rates[bottom:] {
		pattern.PerformancePatterns.StrugglingCategories = append(pattern.PerformancePatterns.StrugglingCategories, r.category)
	}
}

// weekNumber buckets a date by days since January 1st divided by 7.
func weekNumber(t time.Time) int {
	startOfYear := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	days := int(t.Sub(startOfYear).Hours() / 24)
	return days / 7
}

func mineProgression(pattern *UserPattern, history []*ScheduledTask, completions map[string]bool) {
	weekly := make(map[int]map[TaskCategory]*completionTally)
	for _, task := range history {
		week := weekNumber(task.ScheduledAt)
		bucket, ok := weekly[week]
		if !ok {
			bucket = make(map[TaskCategory]*completionTally)
			weekly[week] = bucket
		}
		tally, ok := bucket[task.Category]
		if !ok {
			tally = &completionTally{}
			bucket[task.Category] = tally
		}
		tally.total++
		if completions[task.ID] {
			tally.completed++
		}
	}

	weeks := make([]int, 0, len(weekly))
	for week := range weekly {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	deltas := make(map[TaskCategory][]float64)
	for i := 1; i < len(weeks); i++ {
		current := weekly[weeks[i]]
		previous := weekly[weeks[i-1]]
		for category, tally := range current {
			prevTally, ok := previous[category]
			if !ok {
				continue
			}
			deltas[category] = append(deltas[category], tally.rate()-prevTally.rate())
		}
	}

	type categoryDelta struct {
		category TaskCategory
		average  float64
	}
	averages := make([]categoryDelta, 0, len(deltas))
	for _, category := range AllCategories {
		series, ok := deltas[category]
		if !ok || len(series) == 0 {
			continue
		}
		averages = append(averages, categoryDelta{category: category, average: mean(series)})

		recent := series
		if len(recent) > 4 {
			recent = recent[len(recent)-4:]
		}
		if math.Abs(mean(recent)) < plateauThreshold {
			pattern.ProgressionPatterns.PlateauedCategories = append(pattern.ProgressionPatterns.PlateauedCategories, category)
		}
	}

	sort.SliceStable(averages, func(i, j int) bool {
		return averages[i].average > averages[j].average
	})
	top := len(averages)
	if top > 2 {
		top = 2
	}
	for _, a := range averages[:top] {
		pattern.ProgressionPatterns.FastestImprovingCategories = append(pattern.ProgressionPatterns.FastestImprovingCategories, a.category)
	}
}

func mineActivity(pattern *UserPattern, summaries []DailyActivitySummary) {
	if len(summaries) == 0 {
		return
	}

	mineStepHours(pattern, summaries)
	mineScreenTimeImpact(pattern, summaries)
	mineExerciseEfficiency(pattern, summaries)

	// Optimal exercise window: peak step hours that are also productive,
	// falling back to peak hours alone when the intersection is empty.
	productive := make(map[int]bool)
	for _, h := range pattern.ActivityPatterns.ScreenTimeImpact.ProductiveHours {
		productive[h] = true
	}
	optimal := make([]int, 0, len(pattern.ActivityPatterns.PeakStepHours))
	for _, h := range pattern.ActivityPatterns.PeakStepHours {
		if productive[h] {
			optimal = append(optimal, h)
		}
	}
	if len(optimal) == 0 {
		optimal = append(optimal, pattern.ActivityPatterns.PeakStepHours...)
	}
	pattern.TimePreference.OptimalExerciseTime = optimal
}

func mineStepHours(pattern *UserPattern, summaries []DailyActivitySummary) {
	var averages [24]float64
	for _, day := range summaries {
		for hour, steps := range day.HourlySteps {
			averages[hour] += float64(steps)
		}
	}
	maxAvg := 0.0
	for hour := range averages {
		averages[hour] /= float64(len(summaries))
		if averages[hour] > maxAvg {
			maxAvg = averages[hour]
		}
	}

	type hourAvg struct {
		hour int
		avg  float64
	}
	ranked := make([]hourAvg, 0, 24)
	for hour, avg := range averages {
		ranked = append(ranked, hourAvg{hour: hour, avg: avg})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].avg > ranked[j].avg
	})

	peaks := make([]int, 0, 3)
	for _, r := range ranked[:3] {
		peaks = append(peaks, r.hour)
	}
	pattern.ActivityPatterns.PeakStepHours = peaks

	threshold := maxAvg * lowActivityFraction
	low := []int{}
	for hour, avg := range averages {
		if avg < threshold {
			low = append(low, hour)
		}
	}
	pattern.ActivityPatterns.LowActivityPeriods = low
}

func mineScreenTimeImpact(pattern *UserPattern, summaries []DailyActivitySummary) {
	productiveSet := make(map[int]bool)
	distractedSet := make(map[int]bool)
	productive := []int{}
	distracted := []int{}
	wellnessSeries := make([]float64, 0, len(summaries))
	stepSeries := make([]float64, 0, len(summaries))

	for _, day := range summaries {
		wellness := day.ScreenTime.WellnessAppMinutes
		total := day.ScreenTime.TotalMinutes

		ratio := 0.0
		if total > 0 {
			ratio = wellness / total
		}

		// The recorded hour comes from the summary's date value; midnight-
		// normalized dates all bucket to hour 0.
		hour := day.Date.Hour()
		if day.TotalSteps > productiveDayStepFloor && ratio > productiveWellnessRatio {
			if !productiveSet[hour] {
				productiveSet[hour] = true
				productive = append(productive, hour)
			}
		}
		if day.TotalSteps < distractedDayStepCeiling && total > distractedScreenMinutes {
			if !distractedSet[hour] {
				distractedSet[hour] = true
				distracted = append(distracted, hour)
			}
		}

		wellnessSeries = append(wellnessSeries, wellness)
		stepSeries = append(stepSeries, float64(day.TotalSteps))
	}

	pattern.ActivityPatterns.ScreenTimeImpact = ScreenTimeImpact{
		ProductiveHours:        productive,
		DistractedHours:        distracted,
		WellnessAppCorrelation: PearsonCorrelation(wellnessSeries, stepSeries),
	}
}

func mineExerciseEfficiency(pattern *UserPattern, summaries []DailyActivitySummary) {
	ratios := make([]float64, 0, len(summaries))
	var caloriesPerStepSum float64
	caloriesSamples := 0

	for _, day := range summaries {
		ratio := 0.0
		if day.ActiveMinutes > 0 {
			ratio = float64(day.TotalSteps) / float64(day.ActiveMinutes)
		}
		ratios = append(ratios, ratio)

		if day.TotalSteps > 0 {
			caloriesPerStepSum += day.CaloriesBurned / float64(day.TotalSteps)
			caloriesSamples++
		}
	}

	best := append([]float64(nil), ratios...)
	sort.Sort(sort.Reverse(sort.Float64Slice(best)))
	if len(best) > 3 {
		best = best[:3]
	}

	intensity := IntensityLow
	if caloriesSamples > 0 {
		avg := caloriesPerStepSum / float64(caloriesSamples)
		switch {
		case avg > 0.05:
			intensity = IntensityHigh
		case avg > 0.03:
			intensity = IntensityMedium
		}
	}

	pattern.ActivityPatterns.ExerciseEfficiency = ExerciseEfficiency{
		BestStepRatios:   best,
		OptimalIntensity: intensity,
		RecoveryNeeded:   recoveryHours(ratios),
	}
}

// recoveryHours estimates how long performance takes to normalize after a
// drop: whenever a day's step ratio falls below 70% of the prior day's, count
// the days until it climbs back above 90% of that prior value.
func recoveryHours(ratios []float64) int {
	totalHours := 0
	periods := 0

	for i := 1; i < len(ratios); i++ {
		prev := ratios[i-1]
		if ratios[i] >= prev*performanceDropFraction {
			continue
		}
		for j := i + 1; j < len(ratios); j++ {
			if ratios[j] > prev*performanceRecoverFraction {
				totalHours += (j - i) * 24
				periods++
				break
			}
		}
	}

	if periods == 0 {
		return defaultRecoveryHours
	}
	return int(math.Round(float64(totalHours) / float64(periods)))
}

// PearsonCorrelation returns the correlation coefficient of two equal-length
// series, or 0 when fewer than 2 points exist or either series has zero
// variance.
func PearsonCorrelation(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0
	}

	meanX := mean(xs)
	meanY := mean(ys)

	var covariance, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		covariance += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0
	}
	return covariance / math.Sqrt(varX*varY)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
