package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/fasttype/internal/config"
	"github.com/verte-zerg/fasttype/internal/exchange"
	"github.com/verte-zerg/fasttype/internal/model"
	"github.com/verte-zerg/fasttype/internal/plan"
	"github.com/verte-zerg/fasttype/internal/stats"
	"github.com/verte-zerg/fasttype/internal/statsui"
	"github.com/verte-zerg/fasttype/internal/wordlist"
)

var (
	statsLang        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsRecent      int
	statsTopWords    int
	statsSparkline   bool
	statsUI          bool

	exportFormat string
	exportOut    string

	assumeYes bool

	settingsTheme  string
	settingsUILang string
	settingsLangs  string
	settingsLayout string

	wordlistLang string
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsRecent, "recent", 10, "number of recent sessions to list")
	cmd.Flags().IntVar(&statsTopWords, "top", 10, "number of missed words to list")
	cmd.Flags().BoolVar(&statsSparkline, "sparkline", false, "compact one-line curves")
	cmd.Flags().BoolVar(&statsUI, "ui", false, "open the interactive dashboard")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	since, err := parseSince(statsSince)
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()
	p, ok, err := a.profile(ctx)
	if err != nil {
		return err
	}
	cfg := model.StatsConfig{
		Lang:        statsLang,
		Since:       since,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}
	if statsUI {
		var profile *model.Profile
		if ok {
			profile = &p
		}
		program := tea.NewProgram(statsui.NewModel(a.store, cfg, profile), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("stats dashboard failed: %w", err)
		}
		return nil
	}
	if ok {
		if err := renderProfile(out, p); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	report, err := stats.BuildReport(ctx, a.store, cfg)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	err = report.Render(out, statsCurveWindow, stats.RenderOptions{
		Width:     stats.TerminalWidth(),
		Recent:    statsRecent,
		TopWords:  statsTopWords,
		Color:     stats.UseColor(out),
		Sparkline: statsSparkline,
	})
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func parseSince(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --since value: %w", err)
	}
	return &parsed, nil
}

func renderProfile(w io.Writer, p model.Profile) error {
	line := fmt.Sprintf("Level %d (%s)", p.Level, model.LevelLabel(p.Level))
	if p.Level < model.MaxLevel {
		line += fmt.Sprintf(" · XP %d/%d", p.XP, model.XPPerLevel)
	}
	line += fmt.Sprintf(" · Best %d WPM · Avg accuracy %d%%", p.BestWPM, p.AccuracyAvg)
	_, err := fmt.Fprintf(w, "%s\n\n", line)
	return err
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export profiles, sessions and word lists",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", "", "json, yaml or xlsx (default: from --out extension, else json)")
	cmd.Flags().StringVarP(&exportOut, "out", "o", "-", "output file, - for stdout")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	format := exchange.FormatFromPath(exportOut)
	if exportFormat != "" {
		f, err := exchange.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		format = f
	}
	if format == exchange.FormatXLSX && exportOut == "-" {
		return fmt.Errorf("xlsx export needs --out")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if exportOut == "-" {
		return exchange.Export(context.Background(), a.store, cmd.OutOrStdout(), format)
	}
	return writeFileAtomic(exportOut, func(w io.Writer) error {
		return exchange.Export(context.Background(), a.store, w, format)
	})
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Replace all data with a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	ok, err := confirm(cmd, "Importing replaces all existing data. Continue?")
	if err != nil || !ok {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	archive, err := exchange.Import(context.Background(), a.store, f)
	if err != nil {
		return err
	}
	a.logger.Info("data imported")
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d profiles, %d sessions, %d word lists.\n",
		len(archive.Profiles), len(archive.Sessions), len(archive.WordLists))
	return err
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the profile, all sessions and cached word lists",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	ok, err := confirm(cmd, "This deletes your profile and all sessions. Continue?")
	if err != nil || !ok {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.ClearAll(context.Background()); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	a.logger.Info("all data cleared")
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "All data cleared.")
	return err
}

func confirm(cmd *cobra.Command, question string) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if _, err := fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", question); err != nil {
		return false, err
	}
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	c := exec.Command(parts[0], append(parts[1:], path)...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# fasttype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = "en"             # Language for custom sessions
# words = %d              # Words per custom session (%d-%d)
# min-length = %d          # Minimum word length (%d-%d)
# duration = %d           # Seconds per custom session (%d-%d)
# focus-weak = false      # Bias practice toward frequently missed words
# weak-top = %d            # Number of missed words to focus on
# weak-factor = %.1f      # Weight factor for missed words
# weak-window = %d        # Number of recent sessions to compute missed words

[settings]
# theme = "system"        # light, dark or system
# interface-lang = "en"
# typing-langs = ["en"]   # The first entry is used for guided sessions
# keyboard-layout = "qwerty"
`,
		plan.DefaultCustomWords, plan.MinCustomWords, plan.MaxCustomWords,
		plan.DefaultCustomMin, plan.MinCustomLength, plan.MaxCustomLength,
		plan.DefaultCustomSecs, plan.MinCustomDuration, plan.MaxCustomDuration,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
	)
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
		Args:  cobra.NoArgs,
		RunE:  runSettingsCmd,
	}
	cmd.Flags().StringVar(&settingsTheme, "theme", "", "light, dark or system")
	cmd.Flags().StringVar(&settingsUILang, "interface-lang", "", "interface language")
	cmd.Flags().StringVar(&settingsLangs, "typing-langs", "", "comma-separated typing languages")
	cmd.Flags().StringVar(&settingsLayout, "layout", "", "keyboard layout")
	return cmd
}

func runSettingsCmd(cmd *cobra.Command, _ []string) error {
	svc, err := config.NewSettingsService(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("theme") || flags.Changed("interface-lang") || flags.Changed("typing-langs") || flags.Changed("layout") {
		err := svc.Update(func(s *config.Settings) {
			if flags.Changed("theme") {
				s.Theme = strings.ToLower(strings.TrimSpace(settingsTheme))
			}
			if flags.Changed("interface-lang") {
				s.InterfaceLanguage = strings.TrimSpace(settingsUILang)
			}
			if flags.Changed("typing-langs") {
				s.TypingLanguages = splitList(settingsLangs)
			}
			if flags.Changed("layout") {
				s.KeyboardLayout = strings.TrimSpace(settingsLayout)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}
	s := svc.Get()
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "theme: %s\ninterface-lang: %s\ntyping-langs: %s\nkeyboard-layout: %s\n",
		s.Theme, s.InterfaceLanguage, strings.Join(s.TypingLanguages, ","), s.KeyboardLayout)
	return err
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(strings.ToLower(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List available word list languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	langs, err := wordlist.Languages(config.DefaultWordListDir())
	if err != nil {
		return err
	}
	for _, lang := range langs {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newWordlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordlist <file>",
		Short: "Install a word list file for a language",
		Args:  cobra.ExactArgs(1),
		RunE:  runWordlistCmd,
	}
	cmd.Flags().StringVar(&wordlistLang, "lang", "", "language code")
	_ = cmd.MarkFlagRequired("lang")
	return cmd
}

func runWordlistCmd(cmd *cobra.Command, args []string) error {
	lang := strings.ToLower(strings.TrimSpace(wordlistLang))
	if err := wordlist.ValidateLanguage(lang); err != nil {
		return fmt.Errorf("invalid --lang: %w", err)
	}
	words, err := wordlist.LoadWords(args[0])
	if err != nil {
		return fmt.Errorf("failed to read word list: %w", err)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	outPath, err := a.words.Path(lang)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(outPath, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		for _, word := range words {
			if _, err := fmt.Fprintln(bw, word); err != nil {
				return err
			}
		}
		return bw.Flush()
	}); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	loaded, err := a.words.Reload(context.Background(), lang)
	if err != nil {
		return err
	}
	if len(loaded) != len(words) {
		logErrf("%s has only %d words; the bundled list stays in use until it has more than 50\n", outPath, len(words))
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d words)\n", outPath, len(words))
	return err
}

// writeFileAtomic writes through a temp file in the target directory.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".fasttype-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := write(tmpFile); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
