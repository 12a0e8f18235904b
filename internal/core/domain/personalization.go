package domain

import (
	"fmt"
	"math"
	"strings"
)

// AgeGroup buckets users into the three adjustment bands.
type AgeGroup string

const (
	AgeGroupYoung  AgeGroup = "18-30"
	AgeGroupMiddle AgeGroup = "31-50"
	AgeGroupSenior AgeGroup = "51+"
)

// AgeGroupFor maps an age onto its adjustment band.
func AgeGroupFor(age int) AgeGroup {
	switch {
	case age <= 30:
		return AgeGroupYoung
	case age <= 50:
		return AgeGroupMiddle
	default:
		return AgeGroupSenior
	}
}

type ageParameters struct {
	MaxIntensity    float64
	DefaultDuration int
}

var ageGroupParameters = map[AgeGroup]ageParameters{
	AgeGroupYoung:  {MaxIntensity: 10, DefaultDuration: 45},
	AgeGroupMiddle: {MaxIntensity: 8, DefaultDuration: 35},
	AgeGroupSenior: {MaxIntensity: 6, DefaultDuration: 25},
}

type genderModifiers struct {
	Strength    float64
	Cardio      float64
	Flexibility float64
}

var genderModifications = map[string]genderModifiers{
	GenderFemale: {Strength: 0.9, Cardio: 1.1, Flexibility: 1.2},
	GenderMale:   {Strength: 1.2, Cardio: 1.0, Flexibility: 0.9},
	GenderOther:  {Strength: 1.0, Cardio: 1.0, Flexibility: 1.0},
}

// pregnancyUnsafeTerms flag a task description as unsafe during pregnancy.
var pregnancyUnsafeTerms = []string{"high-impact", "inversion", "hot-yoga"}

// Activity families the hormonal-condition adjustments distinguish.
const (
	ActivityExercise   = "exercise"
	ActivityYoga       = "yoga"
	ActivityMeditation = "meditation"
)

// GenderBoth marks a task open to every gender.
const GenderBoth = "both"

// PersonalizedTask is a candidate task on the 1-10 intensity scale used by
// the adjuster, carrying the audience hints the adjustments read.
type PersonalizedTask struct {
	ID                  string       `json:"id"`
	Title               string       `json:"title"`
	Description         string       `json:"description,omitempty"`
	ActivityType        string       `json:"activity_type"`
	Category            TaskCategory `json:"category"`
	DurationMinutes     int          `json:"duration_minutes"`
	IntensityLevel      float64      `json:"intensity_level"` // 1-10
	Difficulty          string       `json:"difficulty"`
	AgeGroup            AgeGroup     `json:"age_group"`
	GenderSpecific      string       `json:"gender_specific"` // male, female, or both
	HealthConditionSafe []string     `json:"health_condition_safe,omitempty"`
	TrimesterSafe       []int        `json:"trimester_safe,omitempty"`
}

// AdjusterInput is the per-user context one Personalize call reads.
type AdjusterInput struct {
	Age            int
	Gender         string
	Conditions     []string
	ProgressByType map[string]float64 // 0-100 per activity type
}

// Personalize applies the full adjustment pipeline to one task: gender
// eligibility, age-band duration, gender intensity multipliers with
// female-specific safety notes, hormonal-condition modifications, adaptive
// difficulty escalation, and a final age-appropriate intensity cap. Returns
// nil when the task is gender-restricted away from this user.
func Personalize(task PersonalizedTask, input AdjusterInput) *PersonalizedTask {
	if task.GenderSpecific != GenderBoth && task.GenderSpecific != input.Gender {
		return nil
	}

	adjusted := task
	adjusted.TrimesterSafe = append([]int(nil), task.TrimesterSafe...)
	adjusted.HealthConditionSafe = append([]string(nil), task.HealthConditionSafe...)

	group := AgeGroupFor(input.Age)
	params := ageGroupParameters[group]
	adjusted.AgeGroup = group
	adjusted.DurationMinutes = params.DefaultDuration

	adjusted = adjustForGender(adjusted, input.Gender)

	if input.Gender == GenderFemale && containsString(adjusted.HealthConditionSafe, ConditionPCOD) {
		adjusted = adjustForHormonalCondition(adjusted)
	}

	adjusted = adjustForProgress(adjusted, input.ProgressByType)

	adjusted.IntensityLevel = math.Min(adjusted.IntensityLevel, params.MaxIntensity)

	return &adjusted
}

func adjustForGender(task PersonalizedTask, gender string) PersonalizedTask {
	if gender == GenderOther {
		return task
	}

	mods := genderModifications[gender]
	switch task.Category {
	case CategoryStrength:
		task.IntensityLevel *= mods.Strength
	case CategoryCardio:
		task.IntensityLevel *= mods.Cardio
	case CategoryFlexibility:
		task.IntensityLevel *= mods.Flexibility
	}

	if gender == GenderFemale {
		if pregnancySafe(task) {
			task.TrimesterSafe = []int{1, 2, 3}
		} else {
			task.TrimesterSafe = []int{}
		}

		if task.IntensityLevel > 7 {
			task.Description = task.Description + "\nNote: Consider reducing intensity during menstruation."
		}
	}

	return task
}

func pregnancySafe(task PersonalizedTask) bool {
	description := strings.ToLower(task.Description)
	for _, term := range pregnancyUnsafeTerms {
		if strings.Contains(description, term) {
			return false
		}
	}
	return true
}

func adjustForHormonalCondition(task PersonalizedTask) PersonalizedTask {
	switch task.ActivityType {
	case ActivityExercise:
		task.IntensityLevel = math.Min(task.IntensityLevel*0.8, 7)
		if task.DurationMinutes > 30 {
			task.DurationMinutes = 30
		}
		task.Description = task.Description + "\n• Modified for PCOD/PCOS\n• Focus on low-impact movements"
	case ActivityYoga:
		task.Title = fmt.Sprintf("%s (PCOD-friendly)", task.Title)
		task.Description = task.Description + "\n• Hormone-balancing poses\n• Stress-reducing sequences"
	case ActivityMeditation:
		if task.DurationMinutes < 15 {
			task.DurationMinutes = 15
		}
		task.Description = task.Description + "\n• Stress management focus\n• Hormonal balance visualization"
	}
	return task
}

func adjustForProgress(task PersonalizedTask, progressByType map[string]float64) PersonalizedTask {
	progress := progressByType[task.ActivityType]

	if progress > 80 && task.Difficulty == LevelBeginner {
		task.Difficulty = LevelIntermediate
		task.IntensityLevel = math.Min(10, task.IntensityLevel*1.2)
	} else if progress > 90 && task.Difficulty == LevelIntermediate {
		task.Difficulty = LevelAdvanced
		task.IntensityLevel = math.Min(10, task.IntensityLevel*1.3)
	}

	return task
}

// HealthWarnings returns the standing cautions for a user's band and gender.
func HealthWarnings(age int, gender string) []string {
	warnings := []string{}
	if AgeGroupFor(age) == AgeGroupSenior {
		warnings = append(warnings, "Consider consulting your doctor before starting new high-intensity exercises.")
	}
	if gender == GenderFemale {
		warnings = append(warnings, "Adjust exercise intensity based on your menstrual cycle.")
	}
	return warnings
}

// FromScheduledTask bridges a ranked task onto the adjuster's 1-10 scale.
func FromScheduledTask(task *ScheduledTask) PersonalizedTask {
	return PersonalizedTask{
		ID:              task.ID,
		Title:           task.Title,
		Description:     task.Description,
		ActivityType:    ActivityTypeFor(task.Category),
		Category:        task.Category,
		DurationMinutes: task.Duration,
		IntensityLevel:  float64(intensityRank(task.Intensity)) * 3, // low 3, medium 6, high 9
		Difficulty:      LevelBeginner,
		GenderSpecific:  GenderBoth,
	}
}

// ActivityTypeFor maps a task category onto the adjuster's activity family.
func ActivityTypeFor(category TaskCategory) string {
	switch category {
	case CategoryMeditation, CategoryMindfulness:
		return ActivityMeditation
	case CategoryFlexibility:
		return ActivityYoga
	default:
		return ActivityExercise
	}
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
