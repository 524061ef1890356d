package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/fasttype/internal/model"
)

// EngineOptions configures an Engine.
type EngineOptions struct {
	AutoStart bool
	Clock     func() time.Time
	Ticker    Ticker
	Logger    *zap.Logger
	OnFinish  func(model.Result)
}

// Engine drives a Session from multiple goroutines. All state changes happen
// under one lock; result callbacks run after the lock is released.
type Engine struct {
	mu      sync.Mutex
	session *Session
	queue   *TaskQueue
	ticker  Ticker
	logger  *zap.Logger

	// set when the engine built its own ticker and must stop it
	ownTicker *CronTicker

	stopTick func()
	tickFor  Token
}

// NewEngine builds an idle engine.
func NewEngine(opts EngineOptions) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var own *CronTicker
	ticker := opts.Ticker
	if ticker == nil {
		own = NewCronTicker()
		ticker = own
	}
	queue := &TaskQueue{}
	return &Engine{
		session: New(Options{
			AutoStart: opts.AutoStart,
			Clock:     opts.Clock,
			Queue:     queue,
			OnFinish:  opts.OnFinish,
		}),
		queue:     queue,
		ticker:    ticker,
		logger:    logger,
		ownTicker: own,
	}
}

// Start resets the engine and begins a session over words.
func (e *Engine) Start(words []string, durationSeconds int, language string) {
	e.do(func(s *Session) {
		s.Start(words, durationSeconds, language)
		e.logger.Debug("session started",
			zap.Int("words", len(words)),
			zap.Int("duration", durationSeconds),
			zap.String("lang", language))
	})
}

// Restart replays the current target sequence from a fresh state.
func (e *Engine) Restart() {
	e.do(func(s *Session) { s.Reset() })
}

// OnInputChange feeds the full content of the input buffer.
func (e *Engine) OnInputChange(value string) {
	e.do(func(s *Session) { s.HandleInputChange(value) })
}

// Finish forces finalization of the running session.
func (e *Engine) Finish() {
	e.do(func(s *Session) { s.Finish() })
}

// Snapshot returns a copy of the current session state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Snapshot()
}

// Result returns the result of the current session once completed.
func (e *Engine) Result() (model.Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Result()
}

// Close stops the countdown. Pending notifications are still delivered.
// A ticker passed in EngineOptions is left running for its owner.
func (e *Engine) Close() {
	e.mu.Lock()
	e.cancelTick()
	e.mu.Unlock()
	e.queue.Drain()
	if e.ownTicker != nil {
		e.ownTicker.Stop()
	}
}

func (e *Engine) do(fn func(s *Session)) {
	e.mu.Lock()
	fn(e.session)
	e.syncTicker()
	e.mu.Unlock()
	e.queue.Drain()
}

func (e *Engine) tick(token Token) {
	e.do(func(s *Session) {
		s.Tick(token)
		if s.Completed() {
			e.logger.Debug("countdown expired")
		}
	})
}

// syncTicker keeps exactly one countdown alive for the current token.
// Callers hold e.mu.
func (e *Engine) syncTicker() {
	s := e.session
	if !s.Ticking() {
		e.cancelTick()
		return
	}
	token := s.Token()
	if e.stopTick != nil && e.tickFor == token {
		return
	}
	e.cancelTick()
	stop, err := e.ticker.Every(TickInterval, func() { e.tick(token) })
	if err != nil {
		e.logger.Error("failed to start countdown", zap.Error(err))
		return
	}
	e.stopTick = stop
	e.tickFor = token
}

func (e *Engine) cancelTick() {
	if e.stopTick == nil {
		return
	}
	e.stopTick()
	e.stopTick = nil
	e.tickFor = 0
}
