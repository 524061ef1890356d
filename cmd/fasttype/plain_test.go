package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/fasttype/internal/model"
	"github.com/verte-zerg/fasttype/internal/session"
	"github.com/verte-zerg/fasttype/internal/tui"
)

// idleTicker never fires; sessions end by input only.
type idleTicker struct{}

func (idleTicker) Every(time.Duration, func()) (func(), error) {
	return func() {}, nil
}

func plainRound(words ...string) tui.Round {
	return tui.Round{
		Plan:     model.TrainingPlan{Language: "en", Mode: model.ModeCustom, TargetWords: len(words)},
		Words:    words,
		Duration: 30,
	}
}

func TestRunPlainSessionAllWords(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("alpha bta\ngamma\n")
	res, err := runPlainSession(context.Background(), plainRound("alpha", "beta", "gamma"), in, &out, false,
		session.EngineOptions{Ticker: idleTicker{}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.CorrectWords != 2 || res.WordsTyped != 3 || res.Errors == 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(res.WrongWords) != 1 || res.WrongWords[0] != "beta" {
		t.Fatalf("expected beta missed, got %v", res.WrongWords)
	}
	if !strings.Contains(out.String(), "alpha beta gamma") {
		t.Fatalf("expected target words printed, got %q", out.String())
	}
}

func TestRunPlainSessionEndOfInputFinishes(t *testing.T) {
	var out bytes.Buffer
	res, err := runPlainSession(context.Background(), plainRound("alpha", "beta"), strings.NewReader("alpha\n"), &out, false,
		session.EngineOptions{Ticker: idleTicker{}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.CorrectWords != 1 {
		t.Fatalf("expected 1 correct word, got %+v", res)
	}
}

func TestWrapPlain(t *testing.T) {
	got := wrapPlain([]string{"aaa", "bbb", "ccc"}, 7)
	if got != "aaa bbb\nccc" {
		t.Fatalf("unexpected wrap %q", got)
	}
}

func TestRenderPlainResult(t *testing.T) {
	var buf bytes.Buffer
	err := renderPlainResult(&buf, model.Result{WPM: 40, CPS: 3.5, Accuracy: 96, WordsTyped: 10, CorrectWords: 9, Errors: 1, WrongWords: []string{"house"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "WPM 40") || !strings.Contains(buf.String(), "Missed: house") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
