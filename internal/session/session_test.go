package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/fasttype/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestSession(t *testing.T, autoStart bool) (*Session, *fakeClock, *[]model.Result) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	var results []model.Result
	s := New(Options{
		AutoStart: autoStart,
		Clock:     clock.Now,
		OnFinish:  func(r model.Result) { results = append(results, r) },
	})
	return s, clock, &results
}

func TestEvaluateIsExact(t *testing.T) {
	assert.Equal(t, model.WordCorrect, Evaluate("cat", "cat"))
	assert.Equal(t, model.WordIncorrect, Evaluate("Cat", "cat"))
	assert.Equal(t, model.WordIncorrect, Evaluate("cat,", "cat"))
	assert.Equal(t, model.WordIncorrect, Evaluate("cat", ""))
}

func TestScenarioAllCorrectInstant(t *testing.T) {
	s, _, results := newTestSession(t, false)
	s.Start([]string{"cat", "dog"}, 60, "en")

	s.HandleInputChange("cat ")
	s.HandleInputChange("dog ")

	require.True(t, s.Completed())
	require.Empty(t, *results, "result must be delivered after the triggering event")
	s.Queue().Drain()
	require.Len(t, *results, 1)

	res := (*results)[0]
	assert.Equal(t, int64(1), res.ElapsedMs)
	assert.Equal(t, 2, res.WordsTyped)
	assert.Equal(t, 2, res.CorrectWords)
	assert.Equal(t, 100, res.Accuracy)
	assert.Equal(t, 0, res.Errors)
}

func TestScenarioMistypedWord(t *testing.T) {
	s, clock, results := newTestSession(t, false)
	s.Start([]string{"cat", "dog"}, 60, "en")

	s.HandleInputChange("cet")
	clock.Advance(2 * time.Second)
	s.HandleInputChange("cet dog ")
	s.Queue().Drain()

	require.Len(t, *results, 1)
	res := (*results)[0]
	assert.Equal(t, 1, res.CorrectWords)
	assert.Equal(t, []string{"cat"}, res.WrongWords)
	assert.Equal(t, 1, res.Errors)
	assert.Equal(t, 85, res.Accuracy)
	assert.Equal(t, int64(2000), res.ElapsedMs)

	snap := s.Snapshot()
	assert.Equal(t, []model.WordStatus{model.WordIncorrect, model.WordCorrect}, snap.Statuses)
}

func TestScenarioTimeoutWithoutInput(t *testing.T) {
	s, clock, results := newTestSession(t, true)
	s.Start([]string{"cat", "dog"}, 60, "en")
	require.Equal(t, StateRunning, s.State())

	token := s.Token()
	for i := 0; i < 60; i++ {
		clock.Advance(time.Second)
		s.Tick(token)
	}
	require.True(t, s.Completed())
	assert.Equal(t, 0, s.Remaining())
	assert.False(t, s.Ticking())

	s.Queue().Drain()
	require.Len(t, *results, 1)
	res := (*results)[0]
	assert.Equal(t, 0, res.WordsTyped)
	assert.Equal(t, 0, res.CorrectWords)
	assert.Equal(t, 100, res.Accuracy)
	assert.Equal(t, 0, res.WPM)
	assert.Equal(t, int64(60000), res.ElapsedMs)
}

func TestScenarioCursorExhaustionStopsTimer(t *testing.T) {
	s, clock, results := newTestSession(t, false)
	s.Start([]string{"one", "two", "six"}, 30, "en")

	s.HandleInputChange("o")
	token := s.Token()
	require.True(t, s.Ticking())
	clock.Advance(time.Second)
	s.Tick(token)
	assert.Equal(t, 29, s.Remaining())

	s.HandleInputChange("one two six ")
	require.True(t, s.Completed())
	assert.False(t, s.Ticking())

	for i := 0; i < 40; i++ {
		s.Tick(token)
	}
	assert.Equal(t, 29, s.Remaining())
	s.Queue().Drain()
	require.Len(t, *results, 1)
	assert.Equal(t, 3, (*results)[0].CorrectWords)
	assert.Equal(t, 3, (*results)[0].WordsTyped)
}

func TestFinishTwiceProducesOneResult(t *testing.T) {
	s, _, results := newTestSession(t, false)
	s.Start([]string{"cat", "dog"}, 60, "en")
	s.HandleInputChange("ca")
	s.Finish()
	s.Finish()
	s.Queue().Drain()
	s.Finish()
	s.Queue().Drain()

	require.Len(t, *results, 1)
	res := (*results)[0]
	assert.Equal(t, 1, res.WordsTyped)
	assert.Equal(t, 0, res.CorrectWords)
	assert.Equal(t, []string{"cat"}, res.WrongWords)
}

func TestCommitAfterCompletedIsNoop(t *testing.T) {
	s, _, _ := newTestSession(t, false)
	s.Start([]string{"cat", "dog", "emu"}, 60, "en")
	s.HandleInputChange("cat ")
	s.Finish()

	before := s.Snapshot()
	s.CommitWord("dog")
	s.HandleInputChange("dog emu ")
	after := s.Snapshot()

	assert.Equal(t, before.ActiveIndex, after.ActiveIndex)
	assert.Equal(t, before.Correct, after.Correct)
	assert.Equal(t, before.Statuses, after.Statuses)
	assert.Equal(t, before.Committed, after.Committed)
}

func TestMultiWordPasteKeepsTrailingToken(t *testing.T) {
	s, _, _ := newTestSession(t, false)
	s.Start([]string{"alpha", "beta", "gamma", "delta"}, 60, "en")

	s.HandleInputChange("alpha  bta\tgam")
	snap := s.Snapshot()
	assert.Equal(t, 2, snap.ActiveIndex)
	assert.Equal(t, "gam", snap.CurrentInput)
	assert.Equal(t, "alpha bta ", snap.Committed)
	assert.Equal(t, []string{"beta"}, snap.WrongWords)
	assert.Equal(t, model.WordPending, snap.Statuses[2])
}

func TestLeadingWhitespaceCommitsNothing(t *testing.T) {
	s, _, _ := newTestSession(t, false)
	s.Start([]string{"alpha", "beta"}, 60, "en")
	s.HandleInputChange("  alp")
	snap := s.Snapshot()
	assert.Equal(t, 0, snap.ActiveIndex)
	assert.Equal(t, "alp", snap.CurrentInput)
}

func TestStatusesMatchCursor(t *testing.T) {
	s, _, _ := newTestSession(t, false)
	s.Start([]string{"a", "b", "c", "d"}, 60, "en")
	s.HandleInputChange("a x ")
	snap := s.Snapshot()
	for i, st := range snap.Statuses {
		if i < snap.ActiveIndex {
			assert.NotEqual(t, model.WordPending, st, "index %d", i)
		} else {
			assert.Equal(t, model.WordPending, st, "index %d", i)
		}
	}
}

func TestResetDiscardsStaleTicks(t *testing.T) {
	s, clock, results := newTestSession(t, false)
	s.Start([]string{"cat", "dog"}, 2, "en")
	s.HandleInputChange("c")
	stale := s.Token()

	s.Reset()
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, 2, s.Remaining())
	assert.Equal(t, "", s.CurrentInput())

	clock.Advance(time.Second)
	s.Tick(stale)
	s.Tick(stale)
	assert.False(t, s.Completed())
	assert.Equal(t, 2, s.Remaining())
	s.Queue().Drain()
	assert.Empty(t, *results)
}

func TestIdleSessionDoesNotTick(t *testing.T) {
	s, _, _ := newTestSession(t, false)
	s.Start([]string{"cat"}, 5, "en")
	assert.False(t, s.Ticking())
	s.Tick(s.Token())
	assert.Equal(t, 5, s.Remaining())
}

func TestFinishWhileIdleUsesZeroDuration(t *testing.T) {
	s, _, _ := newTestSession(t, false)
	s.Start([]string{"cat"}, 5, "en")
	s.Finish()
	res, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, int64(1), res.ElapsedMs)
	assert.Equal(t, 100, res.Accuracy)
}

func TestEmptyTargetSequence(t *testing.T) {
	s, _, results := newTestSession(t, false)
	s.Start(nil, 10, "en")
	s.HandleInputChange("hello ")
	require.True(t, s.Completed())
	s.Queue().Drain()
	require.Len(t, *results, 1)
	assert.Equal(t, []string{""}, (*results)[0].WrongWords)
}

func TestTaskQueueRunsNestedPosts(t *testing.T) {
	var q TaskQueue
	var order []int
	q.Post(func() {
		order = append(order, 1)
		q.Post(func() { order = append(order, 3) })
	})
	q.Post(func() { order = append(order, 2) })
	q.Post(nil)
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 3, q.Drain())
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, q.Len())
}
