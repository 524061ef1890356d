package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/verte-zerg/fasttype/internal/config"
	"github.com/verte-zerg/fasttype/internal/generator"
	"github.com/verte-zerg/fasttype/internal/logging"
	"github.com/verte-zerg/fasttype/internal/model"
	"github.com/verte-zerg/fasttype/internal/plan"
	"github.com/verte-zerg/fasttype/internal/progress"
	"github.com/verte-zerg/fasttype/internal/stats"
	"github.com/verte-zerg/fasttype/internal/store"
	"github.com/verte-zerg/fasttype/internal/tui"
	"github.com/verte-zerg/fasttype/internal/wordlist"
)

// app bundles the collaborators every command needs.
type app struct {
	settings *config.SettingsService
	logger   *zap.Logger
	store    *store.Store
	words    *wordlist.Provider
	recorder *progress.Recorder
}

func openApp() (*app, error) {
	if err := config.LoadEnv(config.DefaultEnvPath()); err != nil {
		logErrf("ignoring env file: %v\n", err)
	}
	logger := logging.NewOrNop(config.DefaultLogPath(), debugLog)
	settings, err := config.NewSettingsService(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return &app{
		settings: settings,
		logger:   logger,
		store:    st,
		words:    wordlist.NewProvider(config.DefaultWordListDir(), st, generator.New(), logger.Named("wordlist")),
		recorder: progress.NewRecorder(st, logger.Named("progress")),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
	_ = a.logger.Sync()
}

func (a *app) profile(ctx context.Context) (model.Profile, bool, error) {
	p, ok, err := a.store.GetProfile(ctx)
	if err != nil {
		return model.Profile{}, false, fmt.Errorf("failed to load profile: %w", err)
	}
	return p, ok, nil
}

// save records a finished round. A placement test creates the profile or
// resets its progression; custom rounds without a profile are only logged.
func (a *app) save(ctx context.Context, p model.Profile, r tui.Round, res model.Result) (model.Profile, error) {
	switch {
	case r.Plan.Mode == model.ModeAssessment:
		var existing *model.Profile
		if p.ID != "" {
			existing = &p
		}
		s := a.settings.Get()
		return a.recorder.RecordAssessment(ctx, existing, r.Plan.Language, s.TypingLanguages, s.KeyboardLayout, res)
	case p.ID != "":
		return a.recorder.Record(ctx, p, r.Plan, res)
	default:
		rec := progress.NewRecord(res, r.Plan.Language, r.Plan.Mode, 0, nowFunc())
		if _, err := a.store.LogSession(ctx, rec); err != nil {
			return p, fmt.Errorf("failed to save session: %w", err)
		}
		return p, nil
	}
}

func (a *app) assessmentRound(ctx context.Context, lang string) (tui.Round, error) {
	pl := plan.Assessment(lang)
	return a.round(ctx, pl, 0, nil, 0)
}

func (a *app) guidedRound(ctx context.Context, p model.Profile, lang string) (tui.Round, error) {
	pl := plan.Guided(lang, p.Level, plan.GuidedSessionIndex(p))
	return a.round(ctx, pl, 0, nil, 0)
}

func (a *app) customRound(ctx context.Context, cfg model.Config) (tui.Round, error) {
	pl := plan.Custom(cfg.Lang, cfg.Words, cfg.MinLength)
	var weakSet map[string]struct{}
	if cfg.FocusWeak {
		sessions, err := a.store.ListSessions(ctx, model.StatsConfig{Lang: cfg.Lang})
		if err != nil {
			return tui.Round{}, fmt.Errorf("failed to load weak words: %w", err)
		}
		weakSet = stats.SelectWeakWords(sessions, cfg.WeakWindow, cfg.WeakTop)
		if len(weakSet) == 0 {
			a.logger.Info("no missed words yet; using uniform sampling")
		}
	}
	return a.round(ctx, pl, cfg.Duration, weakSet, cfg.WeakFactor)
}

func (a *app) round(ctx context.Context, pl model.TrainingPlan, customDuration int, weakSet map[string]struct{}, factor float64) (tui.Round, error) {
	var (
		words []string
		err   error
	)
	if len(weakSet) > 0 {
		words, err = a.words.RandomWordsWeighted(ctx, pl.Language, pl.TargetWords, pl.MinLength, weakSet, factor)
	} else {
		words, err = plan.Words(ctx, a.words, pl)
	}
	if err != nil {
		return tui.Round{}, err
	}
	return tui.Round{Plan: pl, Words: words, Duration: plan.Duration(pl, customDuration)}, nil
}

// guidedNext continues with guided rounds once a profile exists.
func (a *app) guidedNext(lang string) tui.NextFunc {
	return func(ctx context.Context, p model.Profile) (tui.Round, error) {
		if p.ID == "" {
			return a.assessmentRound(ctx, lang)
		}
		return a.guidedRound(ctx, p, lang)
	}
}
