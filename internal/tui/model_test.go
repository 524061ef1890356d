package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/fasttype/internal/model"
	"github.com/verte-zerg/fasttype/internal/session"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

var testClock *fakeClock

func newTestModel(t *testing.T, words []string, save SaveFunc) *Model {
	t.Helper()
	testClock = &fakeClock{now: time.Unix(1_700_000_000, 0)}
	return NewModel(Options{
		Profile: model.Profile{ID: model.MainProfile, Level: 1, XP: 9},
		Theme:   "dark",
		Save:    save,
		Clock:   testClock.Now,
	}, Round{
		Plan:     model.TrainingPlan{Language: "en", Mode: model.ModeGuided, TargetWords: len(words)},
		Words:    words,
		Duration: 30,
	})
}

func typeText(m *Model, text string) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return cmd
}

func TestTypingCommitsWords(t *testing.T) {
	m := newTestModel(t, []string{"one", "two", "three"}, nil)

	typeText(m, "one ")
	if got := m.sess.ActiveIndex(); got != 1 {
		t.Fatalf("expected active index 1, got %d", got)
	}
	if m.input.Value() != "" {
		t.Fatalf("expected input cleared after commit, got %q", m.input.Value())
	}

	typeText(m, "tw")
	if m.sess.CurrentInput() != "tw" || m.input.Value() != "tw" {
		t.Fatalf("expected pending input tw, got session %q input %q", m.sess.CurrentInput(), m.input.Value())
	}
	snap := m.sess.Snapshot()
	if snap.Statuses[0] != model.WordCorrect {
		t.Fatalf("expected first word correct, got %v", snap.Statuses[0])
	}
	if snap.State != session.StateRunning {
		t.Fatalf("expected running state, got %v", snap.State)
	}
}

func TestFinishDeliversResultAfterDrain(t *testing.T) {
	var saved model.Result
	save := func(_ context.Context, p model.Profile, r Round, res model.Result) (model.Profile, error) {
		saved = res
		if r.Plan.Mode != model.ModeGuided {
			t.Errorf("unexpected mode %s", r.Plan.Mode)
		}
		p.XP = 0
		p.Level++
		return p, nil
	}
	m := newTestModel(t, []string{"one", "two", "three"}, save)

	typeText(m, "one tw")
	testClock.Advance(6 * time.Second)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.sess.Completed() {
		t.Fatalf("expected session completed after esc")
	}
	if m.finished != nil {
		t.Fatalf("result must not be delivered before the queue drains")
	}
	if cmd == nil {
		t.Fatalf("expected drain command")
	}
	msg := cmd()
	if _, ok := msg.(drainMsg); !ok {
		t.Fatalf("expected drainMsg, got %T", msg)
	}

	_, saveCmd := m.Update(msg)
	if m.finished == nil || saveCmd == nil {
		t.Fatalf("expected result delivered and save scheduled")
	}
	m.Update(saveCmd())
	if saved.CorrectWords != 1 {
		t.Fatalf("expected 1 correct word saved, got %+v", saved)
	}
	if m.profile.Level != 2 {
		t.Fatalf("expected profile updated from save, got level %d", m.profile.Level)
	}

	view := m.View()
	for _, want := range []string{"Session complete", "WPM", "Accuracy", "Level 2", "Level up!"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}

	_, again := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if again == nil {
		t.Fatalf("expected quit command on esc after completion")
	}
}

func TestTickCountdownExpires(t *testing.T) {
	m := newTestModel(t, []string{"one", "two"}, nil)
	typeText(m, "o")
	token := m.sess.Token()

	m.Update(tickMsg{token: token + 1})
	if m.sess.Remaining() != 30 {
		t.Fatalf("stale tick must be ignored, remaining %d", m.sess.Remaining())
	}

	var cmd tea.Cmd
	for i := 0; i < 30; i++ {
		_, cmd = m.Update(tickMsg{token: token})
	}
	if !m.sess.Completed() {
		t.Fatalf("expected completion when countdown reaches zero")
	}
	if cmd == nil {
		t.Fatalf("expected drain command after expiry")
	}
	if _, ok := cmd().(drainMsg); !ok {
		t.Fatalf("expected drainMsg after expiry")
	}
}

func TestRestartResetsRound(t *testing.T) {
	m := newTestModel(t, []string{"one", "two"}, nil)
	typeText(m, "one t")
	oldToken := m.sess.Token()

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.sess.ActiveIndex() != 0 || m.input.Value() != "" {
		t.Fatalf("expected fresh round after restart")
	}
	if m.sess.Token() == oldToken {
		t.Fatalf("expected restart to invalidate pending ticks")
	}
	if m.sess.State() != session.StateIdle {
		t.Fatalf("expected idle state after restart, got %v", m.sess.State())
	}
}

func TestEnterStartsNextRound(t *testing.T) {
	m := newTestModel(t, []string{"one"}, nil)
	m.opts.Next = func(_ context.Context, p model.Profile) (Round, error) {
		return Round{
			Plan:     model.TrainingPlan{Language: "fr", Mode: model.ModeGuided},
			Words:    []string{"deux", "trois"},
			Duration: 60,
		}, nil
	}

	typeText(m, "one ")
	if !m.sess.Completed() {
		t.Fatalf("expected completion after last word")
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected next round command")
	}
	m.Update(cmd())
	snap := m.sess.Snapshot()
	if snap.Language != "fr" || len(snap.Words) != 2 || snap.Remaining != 60 {
		t.Fatalf("unexpected next round: %+v", snap)
	}
	if m.sess.Completed() {
		t.Fatalf("expected new round to be active")
	}
}
