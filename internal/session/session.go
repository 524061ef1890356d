package session

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/verte-zerg/fasttype/internal/metrics"
	"github.com/verte-zerg/fasttype/internal/model"
)

// DefaultDuration is the countdown used when a session is started without one.
const DefaultDuration = 45

// TickInterval is the countdown period.
const TickInterval = time.Second

// State is the lifecycle phase of a session.
type State int

// Session lifecycle states.
const (
	StateIdle State = iota
	StateRunning
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return "idle"
	}
}

// Token identifies one countdown. Ticks carrying a stale token are ignored.
type Token uint64

// Options configures a Session.
type Options struct {
	AutoStart bool
	Clock     func() time.Time
	// Queue receives the deferred result notification. A private queue is
	// used when nil.
	Queue    *TaskQueue
	OnFinish func(model.Result)
}

// Snapshot is a read-only copy of session state for observers.
type Snapshot struct {
	State        State
	Words        []string
	Statuses     []model.WordStatus
	ActiveIndex  int
	CurrentInput string
	Committed    string
	Remaining    int
	Duration     int
	Language     string
	Correct      int
	WrongWords   []string
}

type state struct {
	words     []string
	statuses  []model.WordStatus
	duration  int
	language  string
	startedAt time.Time
	started   bool
	remaining int
	index     int
	committed strings.Builder
	input     string
	correct   int
	wrong     []string
	completed bool
	ticking   bool
	result    model.Result
}

// Session is the per-session state machine: idle, running, completed.
// It is not safe for concurrent use; Engine serializes access for
// multi-goroutine drivers.
type Session struct {
	autoStart bool
	clock     func() time.Time
	queue     *TaskQueue
	onFinish  func(model.Result)

	token Token
	st    *state
}

// New returns an idle session with an empty target sequence.
func New(opts Options) *Session {
	s := &Session{
		autoStart: opts.AutoStart,
		clock:     opts.Clock,
		queue:     opts.Queue,
		onFinish:  opts.OnFinish,
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.queue == nil {
		s.queue = &TaskQueue{}
	}
	s.Start(nil, DefaultDuration, "")
	return s
}

// Queue returns the queue holding deferred notifications.
func (s *Session) Queue() *TaskQueue {
	return s.queue
}

// SetOnFinish replaces the result callback for subsequent finalizations.
func (s *Session) SetOnFinish(fn func(model.Result)) {
	s.onFinish = fn
}

// Start discards any previous session and begins a new one over words.
// The countdown starts on the first input change unless AutoStart is set.
func (s *Session) Start(words []string, durationSeconds int, language string) {
	if durationSeconds <= 0 {
		durationSeconds = DefaultDuration
	}
	target := make([]string, len(words))
	copy(target, words)

	// A new token invalidates ticks scheduled for the previous session.
	s.token++
	s.st = &state{
		words:     target,
		statuses:  make([]model.WordStatus, len(target)),
		duration:  durationSeconds,
		language:  language,
		remaining: durationSeconds,
		wrong:     []string{},
	}
	if s.autoStart {
		s.begin()
	}
}

// Reset restarts the current target sequence from zero.
func (s *Session) Reset() {
	s.Start(s.st.words, s.st.duration, s.st.language)
}

func (s *Session) begin() {
	if s.st.started || s.st.completed {
		return
	}
	s.st.started = true
	s.st.startedAt = s.clock()
	s.st.ticking = true
}

// HandleInputChange consumes the full current content of the input buffer.
// Whitespace-delimited tokens are committed in order; a trailing token without
// whitespace after it stays pending.
func (s *Session) HandleInputChange(value string) {
	if s.st.completed {
		return
	}
	s.begin()

	if strings.IndexFunc(value, unicode.IsSpace) < 0 {
		s.st.input = value
		return
	}

	parts := strings.Fields(value)
	pending := ""
	last, _ := utf8.DecodeLastRuneInString(value)
	if !unicode.IsSpace(last) && len(parts) > 0 {
		pending = parts[len(parts)-1]
		parts = parts[:len(parts)-1]
	}
	for _, part := range parts {
		s.CommitWord(part)
	}
	if !s.st.completed {
		s.st.input = pending
	}
}

// CommitWord finalizes token against the word under the cursor and advances.
func (s *Session) CommitWord(token string) {
	st := s.st
	if st.completed {
		return
	}
	target := metrics.TargetAt(st.words, st.index)
	status := Evaluate(token, target)
	if st.index < len(st.statuses) {
		st.statuses[st.index] = status
	}
	st.committed.WriteString(token)
	st.committed.WriteString(metrics.Separator)
	if status == model.WordCorrect {
		st.correct++
	} else {
		st.wrong = append(st.wrong, target)
	}
	st.index++

	if st.index >= len(st.words) {
		st.ticking = false
		s.finalize(s.clock(), "", st.index)
		return
	}
	st.input = ""
}

// Tick advances the countdown by one second. Ticks for another token, or
// after the countdown stopped, are ignored.
func (s *Session) Tick(token Token) {
	st := s.st
	if token != s.token || !st.ticking || st.completed {
		return
	}
	st.remaining--
	if st.remaining > 0 {
		return
	}
	st.remaining = 0
	st.ticking = false
	s.finalize(s.clock(), st.input, st.index)
}

// Finish forces finalization. Repeated calls are no-ops.
func (s *Session) Finish() {
	st := s.st
	if st.completed {
		return
	}
	st.ticking = false
	s.finalize(s.clock(), st.input, st.index)
}

func (s *Session) finalize(now time.Time, pending string, index int) {
	st := s.st
	if st.completed {
		return
	}
	var startedAt time.Time
	if st.started {
		startedAt = st.startedAt
	}
	st.result = metrics.Compute(metrics.Input{
		StartedAt:  startedAt,
		FinishedAt: now,
		Committed:  st.committed.String(),
		Pending:    pending,
		Index:      index,
		Targets:    st.words,
		Correct:    st.correct,
		WrongWords: st.wrong,
	})
	st.completed = true
	st.ticking = false

	if s.onFinish == nil {
		return
	}
	notify := s.onFinish
	result := cloneResult(st.result)
	s.queue.Post(func() { notify(result) })
}

// Token returns the countdown token of the current session.
func (s *Session) Token() Token {
	return s.token
}

// Ticking reports whether the countdown should keep receiving ticks.
func (s *Session) Ticking() bool {
	return s.st.ticking && !s.st.completed
}

// State returns the lifecycle phase.
func (s *Session) State() State {
	switch {
	case s.st.completed:
		return StateCompleted
	case s.st.started:
		return StateRunning
	default:
		return StateIdle
	}
}

// Completed reports whether the session is terminal.
func (s *Session) Completed() bool {
	return s.st.completed
}

// Result returns the assembled result once the session has completed.
func (s *Session) Result() (model.Result, bool) {
	if !s.st.completed {
		return model.Result{}, false
	}
	return cloneResult(s.st.result), true
}

// ActiveIndex returns the number of committed words.
func (s *Session) ActiveIndex() int {
	return s.st.index
}

// CurrentInput returns the uncommitted token buffer.
func (s *Session) CurrentInput() string {
	return s.st.input
}

// Remaining returns the seconds left on the countdown.
func (s *Session) Remaining() int {
	return s.st.remaining
}

// Snapshot copies the observable state.
func (s *Session) Snapshot() Snapshot {
	st := s.st
	words := make([]string, len(st.words))
	copy(words, st.words)
	statuses := make([]model.WordStatus, len(st.statuses))
	copy(statuses, st.statuses)
	wrong := make([]string, len(st.wrong))
	copy(wrong, st.wrong)
	return Snapshot{
		State:        s.State(),
		Words:        words,
		Statuses:     statuses,
		ActiveIndex:  st.index,
		CurrentInput: st.input,
		Committed:    st.committed.String(),
		Remaining:    st.remaining,
		Duration:     st.duration,
		Language:     st.language,
		Correct:      st.correct,
		WrongWords:   wrong,
	}
}

func cloneResult(r model.Result) model.Result {
	wrong := make([]string, len(r.WrongWords))
	copy(wrong, r.WrongWords)
	r.WrongWords = wrong
	return r
}
