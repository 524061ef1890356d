// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/fasttype/internal/model"
	"github.com/verte-zerg/fasttype/internal/session"
)

// Round is one planned session: what to type and for how long.
type Round struct {
	Plan     model.TrainingPlan
	Words    []string
	Duration int
}

// NextFunc plans the round that follows a finished one.
type NextFunc func(ctx context.Context, p model.Profile) (Round, error)

// SaveFunc persists a result and returns the updated profile.
type SaveFunc func(ctx context.Context, p model.Profile, r Round, res model.Result) (model.Profile, error)

// Options wires the typing screen to planning and persistence.
type Options struct {
	Profile model.Profile
	Theme   string
	Next    NextFunc
	Save    SaveFunc
	Logger  *zap.Logger
	Clock   func() time.Time
}

type tickMsg struct {
	token session.Token
}

type drainMsg struct{}

type savedMsg struct {
	profile model.Profile
	err     error
}

type roundMsg struct {
	round Round
	err   error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	opts   Options
	styles styles
	logger *zap.Logger

	sess  *session.Session
	input textinput.Model
	xpBar progress.Model

	round   Round
	profile model.Profile

	width  int
	height int

	finished  *model.Result
	saving    bool
	saved     bool
	prevLevel int
	err       error
}

// NewModel constructs a typing TUI model with its first round loaded.
func NewModel(opts Options, first Round) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "start typing"
	input.Focus()

	m := &Model{
		opts:    opts,
		styles:  newStyles(opts.Theme),
		logger:  logger,
		input:   input,
		xpBar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(30)),
		profile: opts.Profile,
	}
	m.sess = session.New(session.Options{
		Clock:    opts.Clock,
		OnFinish: m.onFinish,
	})
	m.start(first)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(m.contentWidth()-4, 10)
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tickMsg:
		if msg.token != m.sess.Token() {
			return m, nil
		}
		m.sess.Tick(msg.token)
		return m, m.afterEvent(m.scheduleTick())
	case drainMsg:
		m.sess.Queue().Drain()
		return m, m.saveCmd()
	case savedMsg:
		m.saving = false
		m.saved = true
		if msg.err != nil {
			m.err = msg.err
			m.logger.Error("failed to save session", zap.Error(msg.err))
			return m, nil
		}
		m.profile = msg.profile
		return m, nil
	case roundMsg:
		if msg.err != nil {
			m.err = msg.err
			m.logger.Error("failed to plan next round", zap.Error(msg.err))
			return m, nil
		}
		m.start(msg.round)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyCtrlR:
		if m.saving {
			return nil
		}
		m.sess.Reset()
		m.resetView()
		return nil
	}

	if m.sess.Completed() {
		switch msg.Type {
		case tea.KeyEsc:
			return tea.Quit
		case tea.KeyEnter:
			if m.saving || m.opts.Next == nil {
				return nil
			}
			return m.nextCmd()
		}
		return nil
	}

	if msg.Type == tea.KeyEsc {
		m.sess.Finish()
		return m.afterEvent(nil)
	}

	before := m.input.Value()
	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	value := m.input.Value()
	if value == before {
		return inputCmd
	}
	wasTicking := m.sess.Ticking()
	m.sess.HandleInputChange(value)
	if m.sess.Completed() {
		m.input.Reset()
	} else if current := m.sess.CurrentInput(); current != value {
		m.input.SetValue(current)
		m.input.CursorEnd()
	}
	var tick tea.Cmd
	if !wasTicking {
		tick = m.scheduleTick()
	}
	return m.afterEvent(tea.Batch(inputCmd, tick))
}

// afterEvent schedules delivery of deferred notifications once the current
// message has been handled.
func (m *Model) afterEvent(cmd tea.Cmd) tea.Cmd {
	if m.sess.Queue().Len() == 0 {
		return cmd
	}
	drain := func() tea.Msg { return drainMsg{} }
	if cmd == nil {
		return drain
	}
	return tea.Batch(cmd, drain)
}

func (m *Model) scheduleTick() tea.Cmd {
	if !m.sess.Ticking() {
		return nil
	}
	token := m.sess.Token()
	return tea.Tick(session.TickInterval, func(time.Time) tea.Msg {
		return tickMsg{token: token}
	})
}

func (m *Model) onFinish(res model.Result) {
	m.finished = &res
	m.saved = false
}

func (m *Model) saveCmd() tea.Cmd {
	if m.finished == nil || m.saving || m.saved || m.opts.Save == nil {
		return nil
	}
	m.saving = true
	m.prevLevel = m.profile.Level
	save := m.opts.Save
	profile := m.profile
	round := m.round
	res := *m.finished
	return func() tea.Msg {
		p, err := save(context.Background(), profile, round, res)
		return savedMsg{profile: p, err: err}
	}
}

func (m *Model) nextCmd() tea.Cmd {
	next := m.opts.Next
	profile := m.profile
	return func() tea.Msg {
		r, err := next(context.Background(), profile)
		return roundMsg{round: r, err: err}
	}
}

func (m *Model) start(r Round) {
	m.round = r
	m.sess.Start(r.Words, r.Duration, r.Plan.Language)
	m.resetView()
	m.logger.Debug("round started",
		zap.String("mode", string(r.Plan.Mode)),
		zap.Int("words", len(r.Words)),
		zap.Int("duration", r.Duration))
}

func (m *Model) resetView() {
	m.input.Reset()
	m.finished = nil
	m.saving = false
	m.saved = false
	m.err = nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	if m.sess.Completed() {
		content = m.renderResult()
	} else {
		content = m.renderTyping()
	}
	if m.width == 0 || m.height == 0 {
		return content + "\n"
	}
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	return body + "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(int(float64(m.width)*0.70), 1)
}

func (m *Model) renderHeader() string {
	snap := m.sess.Snapshot()
	mode := strings.ToUpper(string(m.round.Plan.Mode))
	parts := []string{
		m.styles.header.Render(mode),
		snap.Language,
		fmt.Sprintf("%d/%d words", snap.ActiveIndex, len(snap.Words)),
		m.styles.value.Render(formatClock(snap.Remaining)),
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderTyping() string {
	snap := m.sess.Snapshot()
	words := buildStyledWords(m.styles, snap.Words, snap.Statuses, snap.ActiveIndex, snap.CurrentInput, true)
	width := m.contentWidth()
	text := wrapStyledWords(words, width)
	text = visibleLines(text, lineOfWord(words, snap.ActiveIndex, width), 3)
	if width > 0 {
		text = lipgloss.NewStyle().Width(width).Render(text)
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), "", text, "", m.input.View())
}

func (m *Model) renderResult() string {
	res, _ := m.sess.Result()
	lines := []string{
		m.styles.header.Render("Session complete"),
		"",
		fmt.Sprintf("WPM       %s", m.styles.value.Render(fmt.Sprintf("%d", res.WPM))),
		fmt.Sprintf("CPS       %s", m.styles.value.Render(fmt.Sprintf("%.2f", res.CPS))),
		fmt.Sprintf("Accuracy  %s", m.styles.value.Render(fmt.Sprintf("%d%%", res.Accuracy))),
		fmt.Sprintf("Words     %d/%d correct, %d errors", res.CorrectWords, res.WordsTyped, res.Errors),
		fmt.Sprintf("Time      %.1fs", float64(res.ElapsedMs)/1000),
	}
	if len(res.WrongWords) > 0 {
		lines = append(lines, fmt.Sprintf("Missed    %s", strings.Join(uniqueWords(res.WrongWords, 8), " ")))
	}
	lines = append(lines, "", m.renderLevel())
	switch {
	case m.saving:
		lines = append(lines, m.styles.footer.Render("saving…"))
	case m.err != nil:
		lines = append(lines, m.styles.err.Render(m.err.Error()))
	}
	return m.styles.panel.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderLevel() string {
	p := m.profile
	label := fmt.Sprintf("Level %d · %s", p.Level, model.LevelLabel(p.Level))
	if p.Level >= model.MaxLevel {
		return label
	}
	percent := float64(p.XP) / float64(model.XPPerLevel)
	out := label + "\n" + m.xpBar.ViewAs(percent) + fmt.Sprintf(" %d/%d XP", p.XP, model.XPPerLevel)
	if m.saved && p.Level > m.prevLevel {
		out += "\n" + m.styles.levelUp.Render("Level up!")
	}
	return out
}

func (m *Model) renderFooter() string {
	var hints []string
	if m.sess.Completed() {
		if m.opts.Next != nil {
			hints = append(hints, "enter next")
		}
		hints = append(hints, "ctrl+r retry", "esc quit")
	} else {
		hints = append(hints, "esc finish", "ctrl+r restart", "ctrl+c quit")
	}
	return m.styles.footer.Render(strings.Join(hints, " · "))
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func uniqueWords(words []string, limit int) []string {
	seen := map[string]bool{}
	out := make([]string, 0, limit)
	for _, w := range words {
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
		if len(out) == limit {
			break
		}
	}
	return out
}
