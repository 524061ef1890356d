package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/fasttype/internal/model"
)

func TestValidateConfigBounds(t *testing.T) {
	valid := model.Config{Lang: "en", Words: 25, MinLength: 4, Duration: 90}
	if err := validateConfig(valid); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	cases := map[string]model.Config{
		"too few words":  {Words: 9, MinLength: 4, Duration: 90},
		"too many words": {Words: 201, MinLength: 4, Duration: 90},
		"short words":    {Words: 25, MinLength: 2, Duration: 90},
		"long duration":  {Words: 25, MinLength: 4, Duration: 301},
		"negative top":   {Words: 25, MinLength: 4, Duration: 90, WeakTop: -1},
	}
	for name, cfg := range cases {
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestApplyConfigRespectsFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var words, duration int
	cmd.Flags().IntVar(&words, "words", 25, "")
	cmd.Flags().IntVar(&duration, "duration", 90, "")
	if err := cmd.Flags().Parse([]string{"--words", "40"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	fromFile := 60
	applyIntConfig(cmd, "words", &words, &fromFile)
	applyIntConfig(cmd, "duration", &duration, &fromFile)
	if words != 40 {
		t.Fatalf("flag value should win, got %d", words)
	}
	if duration != 60 {
		t.Fatalf("config value should apply, got %d", duration)
	}

	missing := 5
	applyIntConfig(cmd, "weak-top", &missing, &fromFile)
	if missing != 5 {
		t.Fatalf("unknown flag must be left alone, got %d", missing)
	}
}

func TestParseSince(t *testing.T) {
	since, err := parseSince("")
	if err != nil || since != nil {
		t.Fatalf("expected nil for empty value")
	}
	since, err = parseSince("2024-03-01")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if since.Day() != 1 || since.Month() != 3 {
		t.Fatalf("unexpected date %v", since)
	}
	if _, err := parseSince("03/01/2024"); err == nil {
		t.Fatalf("expected error for bad layout")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" EN, fr ,,he")
	if strings.Join(got, ",") != "en,fr,he" {
		t.Fatalf("unexpected list %v", got)
	}
}

func TestConfirm(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)

	cmd.SetIn(strings.NewReader("y\n"))
	ok, err := confirm(cmd, "Proceed?")
	if err != nil || !ok {
		t.Fatalf("expected confirmation, got %v %v", ok, err)
	}
	if !strings.Contains(stderr.String(), "Proceed? [y/N]") {
		t.Fatalf("expected prompt, got %q", stderr.String())
	}

	cmd.SetIn(strings.NewReader(""))
	ok, err = confirm(cmd, "Proceed?")
	if err != nil || ok {
		t.Fatalf("expected default no, got %v %v", ok, err)
	}
}

func TestRenderProfile(t *testing.T) {
	var buf bytes.Buffer
	p := model.Profile{Level: 2, XP: 4, BestWPM: 38, AccuracyAvg: 94}
	if err := renderProfile(&buf, p); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Level 2 (Basic) · XP 4/10 · Best 38 WPM") {
		t.Fatalf("unexpected profile line %q", buf.String())
	}
}
