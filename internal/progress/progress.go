// Package progress applies finished sessions to the user's profile.
package progress

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/fasttype/internal/metrics"
	"github.com/verte-zerg/fasttype/internal/model"
)

// Sink persists completed sessions together with the updated profile.
type Sink interface {
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error)
	RecordSession(ctx context.Context, rec model.SessionRecord, p model.Profile) (int64, error)
}

// Update computes the profile fields changed by one session. prior
// aggregates the sessions stored before this one.
func Update(p model.Profile, res model.Result, mode model.Mode, prior model.SessionAggregate) model.ProfileUpdate {
	xp := p.XP
	if mode.EarnsXP() {
		xp++
	}
	level := p.Level
	if xp >= model.XPPerLevel && level < model.MaxLevel {
		xp = 0
		level++
	}
	best := p.BestWPM
	if res.WPM > best {
		best = res.WPM
	}
	n := prior.Sessions
	avg := math.Round(float64(prior.AccuracyAvg*n+res.Accuracy) / float64(n+1))
	return model.ProfileUpdate{
		XP:          xp,
		Level:       level,
		BestWPM:     best,
		AccuracyAvg: int(avg),
	}
}

// NewRecord builds the stored session record for a result.
func NewRecord(res model.Result, lang string, mode model.Mode, levelAtRun int, at time.Time) model.SessionRecord {
	wrong := make([]string, len(res.WrongWords))
	copy(wrong, res.WrongWords)
	return model.SessionRecord{
		ProfileID:    model.MainProfile,
		Date:         at,
		Language:     lang,
		WordsTyped:   res.WordsTyped,
		CorrectWords: res.CorrectWords,
		Errors:       res.Errors,
		WPM:          res.WPM,
		CPS:          res.CPS,
		Accuracy:     res.Accuracy,
		LevelAtRun:   levelAtRun,
		Mode:         mode,
		WrongWords:   wrong,
	}
}

// Assess creates a profile from a placement test result.
func Assess(res model.Result, langs []string, layout string, at time.Time) model.Profile {
	return model.Profile{
		ID:              model.MainProfile,
		TypingLanguages: langs,
		KeyboardLayout:  layout,
		Level:           model.LevelFromWPM(res.WPM),
		XP:              0,
		BestWPM:         res.WPM,
		AccuracyAvg:     res.Accuracy,
		CreatedAt:       at,
	}
}

// Recorder persists results and keeps profiles current.
type Recorder struct {
	sink   Sink
	clock  func() time.Time
	logger *zap.Logger
}

// NewRecorder returns a Recorder writing to sink.
func NewRecorder(sink Sink, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{sink: sink, clock: time.Now, logger: logger}
}

// Record stores res for profile p under plan and returns the updated profile.
func (r *Recorder) Record(ctx context.Context, p model.Profile, plan model.TrainingPlan, res model.Result) (model.Profile, error) {
	prior, err := r.sink.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		return p, fmt.Errorf("failed to load sessions: %w", err)
	}
	update := Update(p, res, plan.Mode, metrics.Aggregate(prior))
	next := update.Apply(p)
	rec := NewRecord(res, plan.Language, plan.Mode, p.Level, r.clock())
	id, err := r.sink.RecordSession(ctx, rec, next)
	if err != nil {
		return p, fmt.Errorf("failed to save session: %w", err)
	}
	r.logger.Info("session recorded",
		zap.Int64("id", id),
		zap.String("mode", string(plan.Mode)),
		zap.String("lang", plan.Language),
		zap.Int("wpm", res.WPM),
		zap.Int("accuracy", res.Accuracy),
		zap.Int("level", next.Level),
		zap.Int("xp", next.XP))
	return next, nil
}

// RecordAssessment stores a placement result. The profile is rebuilt from
// the result: a new one is created when existing is nil, otherwise its
// identity, languages and layout are kept while level, XP, best WPM and
// accuracy restart from the assessment. lang is the language the test was
// typed in; empty means the profile's first typing language.
func (r *Recorder) RecordAssessment(ctx context.Context, existing *model.Profile, lang string, langs []string, layout string, res model.Result) (model.Profile, error) {
	now := r.clock()
	p := Assess(res, langs, layout, now)
	levelAtRun := p.Level
	if existing != nil {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		if len(existing.TypingLanguages) > 0 {
			p.TypingLanguages = existing.TypingLanguages
		}
		if existing.KeyboardLayout != "" {
			p.KeyboardLayout = existing.KeyboardLayout
		}
		levelAtRun = existing.Level
	}
	if lang == "" && len(p.TypingLanguages) > 0 {
		lang = p.TypingLanguages[0]
	}
	rec := NewRecord(res, lang, model.ModeAssessment, levelAtRun, now)
	if _, err := r.sink.RecordSession(ctx, rec, p); err != nil {
		return p, fmt.Errorf("failed to save assessment: %w", err)
	}
	if existing != nil {
		r.logger.Info("profile reassessed",
			zap.Int("from", existing.Level),
			zap.Int("level", p.Level),
			zap.Int("wpm", res.WPM))
	} else {
		r.logger.Info("profile created", zap.Int("level", p.Level), zap.Int("wpm", res.WPM))
	}
	return p, nil
}
