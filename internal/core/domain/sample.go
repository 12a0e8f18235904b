package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidStepCount      = errors.New("step count cannot be negative")
	ErrInvalidConfidence     = errors.New("confidence must be between 0 and 1")
	ErrInvalidStepSource     = errors.New("invalid step source (must be device or estimated)")
	ErrInvalidActivityType   = errors.New("invalid activity type (must be walking, running, or stairs)")
	ErrInvalidScreenDuration = errors.New("screen session duration must be positive")
	ErrInvalidScreenCategory = errors.New("invalid screen category")
	ErrAppNameEmpty          = errors.New("app name cannot be empty")
)

const (
	StepSourceDevice    = "device"
	StepSourceEstimated = "estimated"

	ActivityWalking = "walking"
	ActivityRunning = "running"
	ActivityStairs  = "stairs"

	ScreenProductivity  = "productivity"
	ScreenSocial        = "social"
	ScreenEntertainment = "entertainment"
	ScreenWellness      = "wellness"
	ScreenOther         = "other"
)

// RawStepSample is a single step-count reading emitted by the sensor
// collaborator. Samples are immutable once created.
type RawStepSample struct {
	Timestamp    time.Time `json:"timestamp" db:"ts"`
	Count        int       `json:"count" db:"count"`
	Source       string    `json:"source" db:"source"`
	ActivityType string    `json:"activity_type" db:"activity_type"`
	Confidence   float64   `json:"confidence" db:"confidence"`
}

func NewRawStepSample(ts time.Time, count int, source, activityType string, confidence float64) (*RawStepSample, error) {
	if count < 0 {
		return nil, ErrInvalidStepCount
	}
	if confidence < 0 || confidence > 1 {
		return nil, ErrInvalidConfidence
	}

	switch source {
	case StepSourceDevice, StepSourceEstimated:
	default:
		return nil, ErrInvalidStepSource
	}

	switch activityType {
	case ActivityWalking, ActivityRunning, ActivityStairs:
	default:
		return nil, ErrInvalidActivityType
	}

	return &RawStepSample{
		Timestamp:    ts,
		Count:        count,
		Source:       source,
		ActivityType: activityType,
		Confidence:   confidence,
	}, nil
}

// RawScreenSample is a single app-usage session emitted by the screen-time
// collaborator on focus/visibility transitions.
type RawScreenSample struct {
	Timestamp       time.Time `json:"timestamp" db:"ts"`
	AppName         string    `json:"app_name" db:"app_name"`
	DurationMinutes float64   `json:"duration_minutes" db:"duration_minutes"`
	Category        string    `json:"category" db:"category"`
	IsWellnessApp   bool      `json:"is_wellness_app" db:"is_wellness_app"`
}

func NewRawScreenSample(ts time.Time, appName string, durationMinutes float64, category string, isWellnessApp bool) (*RawScreenSample, error) {
	if strings.TrimSpace(appName) == "" {
		return nil, ErrAppNameEmpty
	}
	if durationMinutes <= 0 {
		return nil, ErrInvalidScreenDuration
	}

	switch category {
	case ScreenProductivity, ScreenSocial, ScreenEntertainment, ScreenWellness, ScreenOther:
	default:
		return nil, ErrInvalidScreenCategory
	}

	return &RawScreenSample{
		Timestamp:       ts,
		AppName:         strings.TrimSpace(appName),
		DurationMinutes: durationMinutes,
		Category:        category,
		IsWellnessApp:   isWellnessApp,
	}, nil
}
