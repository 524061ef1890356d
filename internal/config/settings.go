package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// Theme modes.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// Settings are user preferences that outlive a single session.
type Settings struct {
	Theme             string
	InterfaceLanguage string
	TypingLanguages   []string
	KeyboardLayout    string
}

// DefaultSettings returns the settings used before anything is saved.
func DefaultSettings() Settings {
	return Settings{
		Theme:             ThemeSystem,
		InterfaceLanguage: "en",
		TypingLanguages:   []string{"en"},
		KeyboardLayout:    "qwerty",
	}
}

// PrimaryLanguage is the first preferred typing language.
func (s Settings) PrimaryLanguage() string {
	if len(s.TypingLanguages) == 0 {
		return "en"
	}
	return s.TypingLanguages[0]
}

// SettingsService loads settings once and writes them back on every change.
// Other sections of the config file are preserved.
type SettingsService struct {
	mu       sync.Mutex
	path     string
	settings Settings
}

// NewSettingsService loads settings from the config file at path.
func NewSettingsService(path string) (*SettingsService, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	s := &SettingsService{path: path, settings: DefaultSettings()}
	applySettings(&s.settings, cfg.Settings)
	return s, nil
}

// Get returns a copy of the current settings.
func (s *SettingsService) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneSettings(s.settings)
}

// Update applies fn and persists the result.
func (s *SettingsService) Update(fn func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := cloneSettings(s.settings)
	fn(&next)
	if err := validateSettings(next); err != nil {
		return err
	}
	if err := s.save(next); err != nil {
		return err
	}
	s.settings = next
	return nil
}

func (s *SettingsService) save(settings Settings) error {
	cfg, err := LoadConfig(s.path)
	if err != nil {
		return err
	}
	cfg.Settings = SettingsConfig{
		Theme:             &settings.Theme,
		InterfaceLanguage: &settings.InterfaceLanguage,
		TypingLanguages:   settings.TypingLanguages,
		KeyboardLayout:    &settings.KeyboardLayout,
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func applySettings(dst *Settings, src SettingsConfig) {
	if src.Theme != nil {
		dst.Theme = *src.Theme
	}
	if src.InterfaceLanguage != nil {
		dst.InterfaceLanguage = *src.InterfaceLanguage
	}
	if len(src.TypingLanguages) > 0 {
		dst.TypingLanguages = append([]string(nil), src.TypingLanguages...)
	}
	if src.KeyboardLayout != nil {
		dst.KeyboardLayout = *src.KeyboardLayout
	}
}

func validateSettings(s Settings) error {
	switch s.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return fmt.Errorf("unknown theme %q (expected light, dark or system)", s.Theme)
	}
	if len(s.TypingLanguages) == 0 {
		return fmt.Errorf("at least one typing language is required")
	}
	return nil
}

func cloneSettings(s Settings) Settings {
	s.TypingLanguages = append([]string(nil), s.TypingLanguages...)
	return s
}
