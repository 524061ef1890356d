// Package main provides the CLI entrypoint for fasttype.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/fasttype/internal/config"
	"github.com/verte-zerg/fasttype/internal/model"
	"github.com/verte-zerg/fasttype/internal/plan"
	"github.com/verte-zerg/fasttype/internal/tui"
)

const (
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
)

var nowFunc = time.Now

var (
	debugLog bool

	guidedLang string

	practiceLang       string
	practiceWords      int
	practiceMinLength  int
	practiceDuration   int
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fasttype",
		Short:         "Terminal typing speed trainer",
		Long:          "Timed typing sessions with levels. The first run starts a placement test.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runGuidedCmd,
	}
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "write debug entries to the log file")
	rootCmd.Flags().StringVar(&guidedLang, "lang", "", "language code (default: first typing language)")

	rootCmd.AddCommand(newCustomCmd())
	rootCmd.AddCommand(newAssessCmd())
	rootCmd.AddCommand(newPlainCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newWordlistCmd())

	return rootCmd
}

func runGuidedCmd(_ *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	lang := guidedLang
	if lang == "" {
		lang = a.settings.Get().PrimaryLanguage()
	}
	p, ok, err := a.profile(ctx)
	if err != nil {
		return err
	}
	var first tui.Round
	if ok {
		first, err = a.guidedRound(ctx, p, lang)
	} else {
		logErrln("No profile yet: starting the placement test.")
		first, err = a.assessmentRound(ctx, lang)
	}
	if err != nil {
		return err
	}
	return runTUI(a, p, first, a.guidedNext(lang))
}

func newCustomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "custom",
		Short: "Practice with your own session settings",
		Args:  cobra.NoArgs,
		RunE:  runCustomCmd,
	}
	addPracticeFlags(cmd)
	cmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward frequently missed words")
	cmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of missed words to focus on")
	cmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for missed words")
	cmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute missed words")
	return cmd
}

func addPracticeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&practiceLang, "lang", "", "language code (default: first typing language)")
	cmd.Flags().IntVar(&practiceWords, "words", plan.DefaultCustomWords, "words per session")
	cmd.Flags().IntVar(&practiceMinLength, "min-length", plan.DefaultCustomMin, "minimum word length")
	cmd.Flags().IntVar(&practiceDuration, "duration", plan.DefaultCustomSecs, "session length in seconds")
}

func runCustomCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, err := practiceConfig(cmd, a.settings.Get())
	if err != nil {
		return err
	}
	ctx := context.Background()
	p, _, err := a.profile(ctx)
	if err != nil {
		return err
	}
	first, err := a.customRound(ctx, cfg)
	if err != nil {
		return err
	}
	next := func(ctx context.Context, _ model.Profile) (tui.Round, error) {
		return a.customRound(ctx, cfg)
	}
	return runTUI(a, p, first, next)
}

func newAssessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Take the placement test",
		Args:  cobra.NoArgs,
		RunE:  runAssessCmd,
	}
	cmd.Flags().StringVar(&guidedLang, "lang", "", "language code (default: first typing language)")
	return cmd
}

func runAssessCmd(_ *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	lang := guidedLang
	if lang == "" {
		lang = a.settings.Get().PrimaryLanguage()
	}
	p, _, err := a.profile(ctx)
	if err != nil {
		return err
	}
	first, err := a.assessmentRound(ctx, lang)
	if err != nil {
		return err
	}
	return runTUI(a, p, first, a.guidedNext(lang))
}

func runTUI(a *app, p model.Profile, first tui.Round, next tui.NextFunc) error {
	m := tui.NewModel(tui.Options{
		Profile: p,
		Theme:   a.settings.Get().Theme,
		Next:    next,
		Save:    a.save,
		Logger:  a.logger.Named("tui"),
	}, first)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// practiceConfig merges flags, the [practice] config section and settings.
func practiceConfig(cmd *cobra.Command, settings config.Settings) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyIntConfig(cmd, "min-length", &practiceMinLength, fileCfg.Practice.MinLength)
	applyIntConfig(cmd, "duration", &practiceDuration, fileCfg.Practice.Duration)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)

	lang := strings.TrimSpace(practiceLang)
	if lang == "" {
		lang = settings.PrimaryLanguage()
	}
	cfg := model.Config{
		Lang:       lang,
		Words:      practiceWords,
		MinLength:  practiceMinLength,
		Duration:   practiceDuration,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		WeakWindow: practiceWeakWindow,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if err := plan.ValidateCustom(cfg.Words, cfg.MinLength, cfg.Duration); err != nil {
		return err
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
