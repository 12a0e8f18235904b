package domain

import (
	"strings"
	"testing"
)

func adjustableTask(category TaskCategory, activityType string, intensity float64) PersonalizedTask {
	return PersonalizedTask{
		ID:             "task-1",
		Title:          "Candidate",
		ActivityType:   activityType,
		Category:       category,
		IntensityLevel: intensity,
		Difficulty:     LevelBeginner,
		GenderSpecific: GenderBoth,
	}
}

func TestAgeGroupFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		age  int
		want AgeGroup
	}{
		{18, AgeGroupYoung},
		{30, AgeGroupYoung},
		{31, AgeGroupMiddle},
		{50, AgeGroupMiddle},
		{51, AgeGroupSenior},
		{75, AgeGroupSenior},
	}
	for _, tc := range cases {
		if got := AgeGroupFor(tc.age); got != tc.want {
			t.Errorf("Age %d: expected %s, got %s", tc.age, tc.want, got)
		}
	}
}

func TestPersonalize(t *testing.T) {
	t.Parallel()

	t.Run("Gender-restricted task filtered out", func(t *testing.T) {
		t.Parallel()

		task := adjustableTask(CategoryCardio, ActivityExercise, 5)
		task.GenderSpecific = GenderFemale

		if got := Personalize(task, AdjusterInput{Age: 30, Gender: GenderMale}); got != nil {
			t.Errorf("Expected nil for excluded gender, got %+v", got)
		}
		if got := Personalize(task, AdjusterInput{Age: 30, Gender: GenderFemale}); got == nil {
			t.Error("Expected matching gender to pass the filter")
		}
	})

	t.Run("Age band sets duration and caps intensity", func(t *testing.T) {
		t.Parallel()

		task := adjustableTask(CategoryNutrition, ActivityExercise, 9)

		young := Personalize(task, AdjusterInput{Age: 25, Gender: GenderOther})
		middle := Personalize(task, AdjusterInput{Age: 40, Gender: GenderOther})
		senior := Personalize(task, AdjusterInput{Age: 60, Gender: GenderOther})

		if young.DurationMinutes != 45 || middle.DurationMinutes != 35 || senior.DurationMinutes != 25 {
			t.Errorf("Band durations wrong: %d / %d / %d", young.DurationMinutes, middle.DurationMinutes, senior.DurationMinutes)
		}
		if !floatEq(middle.IntensityLevel, 8) {
			t.Errorf("Expected 31-50 cap at 8, got %f", middle.IntensityLevel)
		}
		if !floatEq(senior.IntensityLevel, 6) {
			t.Errorf("Expected 51+ cap at 6, got %f", senior.IntensityLevel)
		}
	})

	t.Run("Gender multipliers shift category intensity", func(t *testing.T) {
		t.Parallel()

		strength := adjustableTask(CategoryStrength, ActivityExercise, 5)

		male := Personalize(strength, AdjusterInput{Age: 25, Gender: GenderMale})
		female := Personalize(strength, AdjusterInput{Age: 25, Gender: GenderFemale})
		other := Personalize(strength, AdjusterInput{Age: 25, Gender: GenderOther})

		if !floatEq(male.IntensityLevel, 6) {
			t.Errorf("Expected male strength 5*1.2=6, got %f", male.IntensityLevel)
		}
		if !floatEq(female.IntensityLevel, 4.5) {
			t.Errorf("Expected female strength 5*0.9=4.5, got %f", female.IntensityLevel)
		}
		if !floatEq(other.IntensityLevel, 5) {
			t.Errorf("Expected unchanged intensity, got %f", other.IntensityLevel)
		}
	})

	t.Run("Pregnancy safety derives from description terms", func(t *testing.T) {
		t.Parallel()

		safe := adjustableTask(CategoryFlexibility, ActivityYoga, 4)
		safe.Description = "Gentle stretching sequence"

		unsafe := adjustableTask(CategoryFlexibility, ActivityYoga, 4)
		unsafe.Description = "Hot-yoga session with inversion holds"

		gotSafe := Personalize(safe, AdjusterInput{Age: 28, Gender: GenderFemale})
		gotUnsafe := Personalize(unsafe, AdjusterInput{Age: 28, Gender: GenderFemale})

		if len(gotSafe.TrimesterSafe) != 3 {
			t.Errorf("Expected all trimesters safe, got %v", gotSafe.TrimesterSafe)
		}
		if len(gotUnsafe.TrimesterSafe) != 0 {
			t.Errorf("Expected no safe trimesters, got %v", gotUnsafe.TrimesterSafe)
		}
	})

	t.Run("Menstrual caution appended above intensity 7", func(t *testing.T) {
		t.Parallel()

		intense := adjustableTask(CategoryCardio, ActivityExercise, 8)

		got := Personalize(intense, AdjusterInput{Age: 25, Gender: GenderFemale})

		// Cardio 8 * 1.1 = 8.8 > 7.
		if !strings.Contains(got.Description, "menstruation") {
			t.Errorf("Expected menstrual note, got %q", got.Description)
		}
	})

	t.Run("Hormonal condition softens exercise and extends meditation", func(t *testing.T) {
		t.Parallel()

		exercise := adjustableTask(CategoryCardio, ActivityExercise, 9)
		exercise.DurationMinutes = 60
		exercise.HealthConditionSafe = []string{ConditionPCOD}

		meditation := adjustableTask(CategoryMeditation, ActivityMeditation, 2)
		meditation.DurationMinutes = 5
		meditation.HealthConditionSafe = []string{ConditionPCOD}

		yoga := adjustableTask(CategoryFlexibility, ActivityYoga, 4)
		yoga.HealthConditionSafe = []string{ConditionPCOD}

		gotExercise := Personalize(exercise, AdjusterInput{Age: 25, Gender: GenderFemale, Conditions: []string{ConditionPCOD}})
		gotMeditation := Personalize(meditation, AdjusterInput{Age: 25, Gender: GenderFemale, Conditions: []string{ConditionPCOD}})
		gotYoga := Personalize(yoga, AdjusterInput{Age: 25, Gender: GenderFemale, Conditions: []string{ConditionPCOD}})

		if gotExercise.IntensityLevel > 7 {
			t.Errorf("Expected exercise intensity capped at 7, got %f", gotExercise.IntensityLevel)
		}
		if gotExercise.DurationMinutes > 30 {
			t.Errorf("Expected exercise duration capped at 30, got %d", gotExercise.DurationMinutes)
		}
		if gotMeditation.DurationMinutes < 15 {
			t.Errorf("Expected meditation floor of 15, got %d", gotMeditation.DurationMinutes)
		}
		if !strings.Contains(gotYoga.Title, "PCOD-friendly") {
			t.Errorf("Expected yoga title suffix, got %q", gotYoga.Title)
		}
	})

	t.Run("Progress escalates difficulty with multiplier and cap", func(t *testing.T) {
		t.Parallel()

		task := adjustableTask(CategoryNutrition, ActivityExercise, 5)

		escalated := Personalize(task, AdjusterInput{
			Age: 25, Gender: GenderOther,
			ProgressByType: map[string]float64{ActivityExercise: 85},
		})
		if escalated.Difficulty != LevelIntermediate {
			t.Errorf("Expected escalation to intermediate, got %s", escalated.Difficulty)
		}
		if !floatEq(escalated.IntensityLevel, 6) {
			t.Errorf("Expected 5*1.2=6, got %f", escalated.IntensityLevel)
		}

		intermediate := adjustableTask(CategoryNutrition, ActivityExercise, 8)
		intermediate.Difficulty = LevelIntermediate
		advanced := Personalize(intermediate, AdjusterInput{
			Age: 25, Gender: GenderOther,
			ProgressByType: map[string]float64{ActivityExercise: 95},
		})
		if advanced.Difficulty != LevelAdvanced {
			t.Errorf("Expected escalation to advanced, got %s", advanced.Difficulty)
		}
		if advanced.IntensityLevel > 10 {
			t.Errorf("Escalation must cap at 10, got %f", advanced.IntensityLevel)
		}
	})

	t.Run("Original task is not mutated", func(t *testing.T) {
		t.Parallel()

		task := adjustableTask(CategoryStrength, ActivityExercise, 5)
		task.Description = "original"

		_ = Personalize(task, AdjusterInput{Age: 25, Gender: GenderMale})

		if task.Description != "original" || !floatEq(task.IntensityLevel, 5) {
			t.Error("Personalize must copy, not mutate, its input")
		}
	})
}

func TestHealthWarnings(t *testing.T) {
	t.Parallel()

	if got := HealthWarnings(60, GenderFemale); len(got) != 2 {
		t.Errorf("Expected 2 warnings, got %v", got)
	}
	if got := HealthWarnings(25, GenderMale); len(got) != 0 {
		t.Errorf("Expected no warnings, got %v", got)
	}
}
