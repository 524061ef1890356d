// Package plan derives training session parameters.
package plan

import (
	"context"
	"fmt"

	"github.com/verte-zerg/fasttype/internal/model"
)

// Session durations and assessment sizing, in seconds and words.
const (
	GuidedDuration      = 60
	AssessmentDuration  = 45
	AssessmentWords     = 15
	AssessmentMinLength = 4
	maxMinLength        = 10
)

// Custom session bounds.
const (
	MinCustomWords     = 10
	MaxCustomWords     = 200
	MinCustomLength    = 3
	MaxCustomLength    = 12
	MinCustomDuration  = 15
	MaxCustomDuration  = 300
	DefaultCustomWords = 25
	DefaultCustomMin   = 4
	DefaultCustomSecs  = 90
)

// WordSource returns random words for a language.
type WordSource interface {
	RandomWords(ctx context.Context, lang string, count, minLength int) ([]string, error)
}

// ForLevel sizes a guided session. Deterministic in its inputs.
func ForLevel(level, sessionIndex int) (count, minLength int) {
	count = 18 + level*4 + (sessionIndex/2)*3
	minLength = 3 + level + sessionIndex/3
	if minLength > maxMinLength {
		minLength = maxMinLength
	}
	return count, minLength
}

// GuidedSessionIndex is the position of the next guided session within the
// current level.
func GuidedSessionIndex(p model.Profile) int {
	return p.XP % model.XPPerLevel
}

// Guided builds the plan for a profile's next guided session.
func Guided(lang string, level, sessionIndex int) model.TrainingPlan {
	count, minLength := ForLevel(level, sessionIndex)
	return newPlan(lang, count, minLength, model.ModeGuided)
}

// Custom builds a plan from explicit user settings.
func Custom(lang string, count, minLength int) model.TrainingPlan {
	return newPlan(lang, count, minLength, model.ModeCustom)
}

// Assessment builds the placement test plan.
func Assessment(lang string) model.TrainingPlan {
	return newPlan(lang, AssessmentWords, AssessmentMinLength, model.ModeAssessment)
}

func newPlan(lang string, count, minLength int, mode model.Mode) model.TrainingPlan {
	return model.TrainingPlan{
		TargetWords: count,
		MinLength:   minLength,
		Language:    lang,
		Difficulty:  model.DifficultyFor(minLength),
		Mode:        mode,
	}
}

// Duration returns the countdown length for a plan. custom is used for
// custom-mode plans.
func Duration(p model.TrainingPlan, custom int) int {
	switch p.Mode {
	case model.ModeGuided:
		return GuidedDuration
	case model.ModeAssessment:
		return AssessmentDuration
	default:
		return custom
	}
}

// Words fetches the target sequence for a plan.
func Words(ctx context.Context, src WordSource, p model.TrainingPlan) ([]string, error) {
	words, err := src.RandomWords(ctx, p.Language, p.TargetWords, p.MinLength)
	if err != nil {
		return nil, fmt.Errorf("failed to load words for %s plan: %w", p.Mode, err)
	}
	return words, nil
}

// ValidateCustom checks custom session settings against their bounds.
func ValidateCustom(count, minLength, duration int) error {
	if count < MinCustomWords || count > MaxCustomWords {
		return fmt.Errorf("--words must be between %d and %d", MinCustomWords, MaxCustomWords)
	}
	if minLength < MinCustomLength || minLength > MaxCustomLength {
		return fmt.Errorf("--min-length must be between %d and %d", MinCustomLength, MaxCustomLength)
	}
	if duration < MinCustomDuration || duration > MaxCustomDuration {
		return fmt.Errorf("--duration must be between %d and %d", MinCustomDuration, MaxCustomDuration)
	}
	return nil
}
