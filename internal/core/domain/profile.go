package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrProfileNotFound = errors.New("user profile not found")
	ErrInvalidAge      = errors.New("age must be between 13 and 120")
	ErrInvalidGender   = errors.New("invalid gender (must be male, female, or other)")
	ErrProfileNameEmpty = errors.New("profile name cannot be empty")
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"

	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"

	ConditionPCOD = "pcod_pcos"
)

// UserProfile is the stable description of the person recommendations are
// ranked for. The engine treats it as read-only per ranking call.
type UserProfile struct {
	UserID            string    `json:"user_id" db:"user_id"`
	Name              string    `json:"name" db:"name"`
	Age               int       `json:"age" db:"age"`
	Gender            string    `json:"gender" db:"gender"`
	ActivityLevel     string    `json:"activity_level" db:"activity_level"`
	MedicalConditions []string  `json:"medical_conditions"`
	FitnessGoal       string    `json:"fitness_goal" db:"fitness_goal"`
	StepGoal          int       `json:"step_goal" db:"step_goal"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

func NewUserProfile(userID, name string, age int, gender, activityLevel, fitnessGoal string, conditions []string) (*UserProfile, error) {
	if userID == "" {
		return nil, ErrInvalidTaskUserID
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrProfileNameEmpty
	}
	if age < 13 || age > 120 {
		return nil, ErrInvalidAge
	}
	switch gender {
	case GenderMale, GenderFemale, GenderOther:
	default:
		return nil, ErrInvalidGender
	}
	if activityLevel == "" {
		activityLevel = LevelBeginner
	}

	now := time.Now().UTC()
	return &UserProfile{
		UserID:            userID,
		Name:              strings.TrimSpace(name),
		Age:               age,
		Gender:            gender,
		ActivityLevel:     activityLevel,
		MedicalConditions: conditions,
		FitnessGoal:       fitnessGoal,
		StepGoal:          DefaultStepGoal,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (p *UserProfile) HasCondition(condition string) bool {
	for _, c := range p.MedicalConditions {
		if c == condition {
			return true
		}
	}
	return false
}

// DurationPreferences groups preferred session lengths by activity family.
type DurationPreferences struct {
	Workout    int `json:"workout"`
	Meditation int `json:"meditation"`
	Other      int `json:"other"`
}

// ForCategory maps a task category onto the matching duration preference.
func (d DurationPreferences) ForCategory(category TaskCategory) int {
	switch category {
	case CategoryCardio, CategoryStrength, CategoryFlexibility:
		return d.Workout
	case CategoryMeditation, CategoryMindfulness:
		return d.Meditation
	default:
		return d.Other
	}
}

// Preferences are the user's stated activity preferences.
type Preferences struct {
	FavoriteActivities []string            `json:"favorite_activities"`
	DislikedActivities []string            `json:"disliked_activities"`
	PreferredDuration  DurationPreferences `json:"preferred_duration"`
	PreferredIntensity string              `json:"preferred_intensity"`
	MaxIntensity       string              `json:"max_intensity"`
	IndoorPreference   float64             `json:"indoor_preference"`
	EquipmentAvailable []string            `json:"equipment_available"`
}

// DefaultPreferences returns a neutral preference set for new users.
func DefaultPreferences() Preferences {
	return Preferences{
		PreferredDuration:  DurationPreferences{Workout: 30, Meditation: 15, Other: 20},
		PreferredIntensity: IntensityMedium,
		MaxIntensity:       IntensityHigh,
		IndoorPreference:   0.5,
	}
}

// CategoryProgress tracks the trend for one task category.
type CategoryProgress struct {
	Improvement  float64   `json:"improvement"` // -1 to 1
	Streak       int       `json:"streak"`
	LastActivity time.Time `json:"last_activity"`
}

// Progress is the user's tracked progress state, fed back into each ranking
// cycle by completion toggles.
type Progress struct {
	CompletionRate          map[TaskCategory]float64          `json:"completion_rate"`
	ConsistencyScore        float64                           `json:"consistency_score"`
	LastCompletedCategories []TaskCategory                    `json:"last_completed_categories"`
	ByCategory              map[TaskCategory]CategoryProgress `json:"by_category"`
	ChallengeLevel          string                            `json:"challenge_level"`
}

// DefaultProgress returns the zero-history progress state.
func DefaultProgress() Progress {
	return Progress{
		CompletionRate: make(map[TaskCategory]float64),
		ByCategory:     make(map[TaskCategory]CategoryProgress),
		ChallengeLevel: LevelBeginner,
	}
}

// RecordCompletion feeds a completion toggle back into the progress state.
func (p *Progress) RecordCompletion(category TaskCategory, completed bool, at time.Time) {
	if p.ByCategory == nil {
		p.ByCategory = make(map[TaskCategory]CategoryProgress)
	}

	cp := p.ByCategory[category]
	if completed {
		cp.Improvement = 0.1
		cp.Streak++
		p.LastCompletedCategories = append(p.LastCompletedCategories, category)
		if len(p.LastCompletedCategories) > 10 {
			p.LastCompletedCategories = p.LastCompletedCategories[len(p.LastCompletedCategories)-10:]
		}
	} else {
		cp.Improvement = -0.1
		cp.Streak = 0
	}
	cp.LastActivity = at
	p.ByCategory[category] = cp
}

// WeatherContext is the optional outdoor-favorability signal.
type WeatherContext struct {
	IsOutdoorFavorable bool    `json:"is_outdoor_favorable"`
	Temperature        float64 `json:"temperature"`
	Condition          string  `json:"condition"`
}

// RecommendationContext captures the moment a ranking cycle runs at.
type RecommendationContext struct {
	TimeOfDay int             `json:"time_of_day"` // 0-23
	DayOfWeek int             `json:"day_of_week"` // 0-6
	Weather   *WeatherContext `json:"weather,omitempty"`
}
