package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTaskNotFound      = errors.New("scheduled task not found")
	ErrInvalidCategory   = errors.New("invalid task category")
	ErrInvalidIntensity  = errors.New("invalid intensity (must be low, medium, or high)")
	ErrInvalidTimeSlot   = errors.New("invalid time slot")
	ErrTaskTitleEmpty    = errors.New("task title cannot be empty")
	ErrInvalidTaskUserID = errors.New("invalid task user id")
)

type TaskCategory string

const (
	CategoryCardio         TaskCategory = "cardio"
	CategoryStrength       TaskCategory = "strength"
	CategoryFlexibility    TaskCategory = "flexibility"
	CategoryMindfulness    TaskCategory = "mindfulness"
	CategoryNutrition      TaskCategory = "nutrition"
	CategorySleep          TaskCategory = "sleep"
	CategoryHydration      TaskCategory = "hydration"
	CategoryPosture        TaskCategory = "posture"
	CategoryRehabilitation TaskCategory = "rehabilitation"
	CategoryMeditation     TaskCategory = "meditation"
)

// AllCategories is the fixed category set, in declaration order.
var AllCategories = []TaskCategory{
	CategoryCardio, CategoryStrength, CategoryFlexibility, CategoryMindfulness,
	CategoryNutrition, CategorySleep, CategoryHydration, CategoryPosture,
	CategoryRehabilitation, CategoryMeditation,
}

func (c TaskCategory) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// IsPhysical reports whether the category involves physical exertion.
func (c TaskCategory) IsPhysical() bool {
	return c == CategoryCardio || c == CategoryStrength || c == CategoryFlexibility
}

const (
	IntensityLow    = "low"
	IntensityMedium = "medium"
	IntensityHigh   = "high"

	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"

	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyCustom  = "custom"
)

// intensityRank orders the three intensity tiers for ceiling comparisons.
func intensityRank(intensity string) int {
	switch intensity {
	case IntensityLow:
		return 1
	case IntensityMedium:
		return 2
	case IntensityHigh:
		return 3
	default:
		return 0
	}
}

// TimeSlot is a 12-hour clock position.
type TimeSlot struct {
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
	Period string `json:"period"` // AM or PM
}

// Hour24 converts the slot to a 0-23 hour.
func (t TimeSlot) Hour24() int {
	h := t.Hour % 12
	if t.Period == "PM" {
		h += 12
	}
	return h
}

// NewTimeSlot builds a slot from a 0-23 hour.
func NewTimeSlot(hour, minute int) TimeSlot {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return TimeSlot{Hour: h, Minute: minute, Period: period}
}

func (t TimeSlot) Valid() bool {
	if t.Hour < 1 || t.Hour > 12 {
		return false
	}
	if t.Minute < 0 || t.Minute > 59 {
		return false
	}
	return t.Period == "AM" || t.Period == "PM"
}

// Audience restricts who a catalog task is recommended for. A nil Audience
// on a task means it is universally eligible.
type Audience struct {
	AgeMin            int      `json:"age_min"`
	AgeMax            int      `json:"age_max"`
	Genders           []string `json:"genders"`
	FitnessLevels     []string `json:"fitness_levels"`
	MedicalConditions []string `json:"medical_conditions"`
}

func (a *Audience) AllowsGender(gender string) bool {
	for _, g := range a.Genders {
		if g == gender {
			return true
		}
	}
	return false
}

func (a *Audience) AllowsFitnessLevel(level string) bool {
	for _, f := range a.FitnessLevels {
		if f == level {
			return true
		}
	}
	return false
}

// ExcludesCondition reports whether any of the user's conditions appears in
// the task's contraindication list.
func (a *Audience) ExcludesCondition(conditions []string) bool {
	for _, c := range conditions {
		for _, listed := range a.MedicalConditions {
			if c == listed {
				return true
			}
		}
	}
	return false
}

// ScheduledTask is either an immutable catalog template (empty ID) or a
// per-cycle scheduled instance with a fresh identifier.
type ScheduledTask struct {
	ID          string       `json:"id" db:"id"`
	UserID      string       `json:"user_id,omitempty" db:"user_id"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description,omitempty" db:"description"`
	Category    TaskCategory `json:"category" db:"category"`
	Duration    int          `json:"duration" db:"duration"`
	Intensity   string       `json:"intensity" db:"intensity"`
	Completed   bool         `json:"completed" db:"completed"`
	ScheduledAt time.Time    `json:"scheduled_at" db:"scheduled_at"`
	TimeSlot    TimeSlot     `json:"time_slot"`
	Priority    string       `json:"priority" db:"priority"`
	Frequency   string       `json:"frequency" db:"frequency"`
	Tags        []string     `json:"tags,omitempty"`
	Audience    *Audience    `json:"recommended_for,omitempty"`
}

// HasTag reports whether the task carries the given tag.
func (t *ScheduledTask) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// Instantiate mints a fresh scheduled instance from a catalog template.
func (t ScheduledTask) Instantiate(userID string, scheduledAt time.Time) *ScheduledTask {
	instance := t
	instance.ID = uuid.NewString()
	instance.UserID = userID
	instance.Completed = false
	instance.ScheduledAt = scheduledAt

	instance.Tags = append([]string(nil), t.Tags...)
	if t.Audience != nil {
		audience := *t.Audience
		audience.Genders = append([]string(nil), t.Audience.Genders...)
		audience.FitnessLevels = append([]string(nil), t.Audience.FitnessLevels...)
		audience.MedicalConditions = append([]string(nil), t.Audience.MedicalConditions...)
		instance.Audience = &audience
	}

	return &instance
}

func (t *ScheduledTask) Validate() error {
	if t.Title == "" {
		return ErrTaskTitleEmpty
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	if intensityRank(t.Intensity) == 0 {
		return ErrInvalidIntensity
	}
	if !t.TimeSlot.Valid() {
		return ErrInvalidTimeSlot
	}
	return nil
}

// ToggleCompletion flips the completion state of a scheduled instance.
func (t *ScheduledTask) ToggleCompletion() {
	t.Completed = !t.Completed
}

// DefaultCatalog is the built-in candidate task catalog. Entries are
// templates: callers must Instantiate before scheduling.
var DefaultCatalog = []ScheduledTask{
	{
		Title:       "Morning Jog",
		Description: "Start your day with an energizing jog",
		Category:    CategoryCardio,
		Duration:    30,
		Intensity:   IntensityMedium,
		TimeSlot:    NewTimeSlot(7, 0),
		Priority:    PriorityMedium,
		Frequency:   FrequencyDaily,
		Tags:        []string{"outdoor", "morning", "endurance"},
		Audience: &Audience{
			AgeMin: 16, AgeMax: 65,
			Genders:           []string{"male", "female", "other"},
			FitnessLevels:     []string{"beginner", "intermediate", "advanced"},
			MedicalConditions: []string{"arthritis"},
		},
	},
	{
		Title:       "HIIT Circuit Training",
		Description: "High-intensity interval training for maximum calorie burn",
		Category:    CategoryCardio,
		Duration:    20,
		Intensity:   IntensityHigh,
		TimeSlot:    NewTimeSlot(18, 0),
		Priority:    PriorityMedium,
		Frequency:   FrequencyWeekly,
		Tags:        []string{"indoor", "intense", "weight_loss"},
		Audience: &Audience{
			AgeMin: 18, AgeMax: 45,
			Genders:           []string{"male", "female", "other"},
			FitnessLevels:     []string{"intermediate", "advanced"},
			MedicalConditions: []string{"hypertension", "back_pain", "arthritis"},
		},
	},
	{
		Title:       "Bodyweight Strength Training",
		Description: "Full body strength workout using your own body weight",
		Category:    CategoryStrength,
		Duration:    45,
		Intensity:   IntensityMedium,
		TimeSlot:    NewTimeSlot(17, 0),
		Priority:    PriorityMedium,
		Frequency:   FrequencyWeekly,
		Tags:        []string{"indoor", "no_equipment", "strength"},
		Audience: &Audience{
			AgeMin: 16, AgeMax: 70,
			Genders:       []string{"male", "female", "other"},
			FitnessLevels: []string{"beginner", "intermediate"},
		},
	},
	{
		Title:       "Morning Yoga Flow",
		Description: "Gentle yoga routine to improve flexibility and start your day",
		Category:    CategoryFlexibility,
		Duration:    20,
		Intensity:   IntensityLow,
		TimeSlot:    NewTimeSlot(6, 30),
		Priority:    PriorityLow,
		Frequency:   FrequencyDaily,
		Tags:        []string{"indoor", "morning", "relaxation"},
		Audience: &Audience{
			AgeMin: 16, AgeMax: 80,
			Genders:       []string{"male", "female", "other"},
			FitnessLevels: []string{"beginner", "intermediate", "advanced"},
		},
	},
	{
		Title:       "Guided Meditation",
		Description: "Mindful meditation for stress relief and mental clarity",
		Category:    CategoryMindfulness,
		Duration:    15,
		Intensity:   IntensityLow,
		TimeSlot:    NewTimeSlot(21, 0),
		Priority:    PriorityLow,
		Frequency:   FrequencyDaily,
		Tags:        []string{"indoor", "relaxation", "mental_health"},
	},
	{
		Title:       "Evening Wind-Down Meditation",
		Description: "Breathing-led session to prepare for restful sleep",
		Category:    CategoryMeditation,
		Duration:    10,
		Intensity:   IntensityLow,
		TimeSlot:    NewTimeSlot(22, 0),
		Priority:    PriorityLow,
		Frequency:   FrequencyDaily,
		Tags:        []string{"indoor", "relaxation", "sleep"},
	},
	{
		Title:       "Healthy Meal Preparation",
		Description: "Prepare healthy meals for the day",
		Category:    CategoryNutrition,
		Duration:    60,
		Intensity:   IntensityLow,
		TimeSlot:    NewTimeSlot(11, 0),
		Priority:    PriorityMedium,
		Frequency:   FrequencyDaily,
		Tags:        []string{"meal_prep", "nutrition", "health"},
	},
	{
		Title:       "Hydration Check-In",
		Description: "Track your water intake for the day",
		Category:    CategoryHydration,
		Duration:    5,
		Intensity:   IntensityLow,
		TimeSlot:    NewTimeSlot(12, 0),
		Priority:    PriorityLow,
		Frequency:   FrequencyDaily,
		Tags:        []string{"hydration", "health"},
	},
	{
		Title:       "Desk Posture Reset",
		Description: "Short mobility break to correct sitting posture",
		Category:    CategoryPosture,
		Duration:    10,
		Intensity:   IntensityLow,
		TimeSlot:    NewTimeSlot(15, 0),
		Priority:    PriorityLow,
		Frequency:   FrequencyDaily,
		Tags:        []string{"indoor", "mobility", "office"},
	},
	{
		Title:       "Sleep Routine Preparation",
		Description: "Screen-free wind-down to improve sleep quality",
		Category:    CategorySleep,
		Duration:    20,
		Intensity:   IntensityLow,
		TimeSlot:    NewTimeSlot(22, 30),
		Priority:    PriorityMedium,
		Frequency:   FrequencyDaily,
		Tags:        []string{"indoor", "relaxation", "sleep"},
	},
}
