package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/fasttype/internal/model"
)

func TestCronTickerStopCancelsTicks(t *testing.T) {
	ct := NewCronTicker()
	defer ct.Stop()

	var n atomic.Int32
	stop, err := ct.Every(100*time.Millisecond, func() { n.Add(1) })
	require.NoError(t, err)
	require.Eventually(t, func() bool { return n.Load() >= 2 }, 3*time.Second, 20*time.Millisecond)

	stop()
	// a run already in flight may still land
	time.Sleep(150 * time.Millisecond)
	seen := n.Load()
	assert.Never(t, func() bool { return n.Load() != seen }, 500*time.Millisecond, 50*time.Millisecond)
}

func TestEngineCronTickerTimesOutOnce(t *testing.T) {
	results := make(chan model.Result, 4)
	e := NewEngine(EngineOptions{
		AutoStart: true,
		OnFinish:  func(r model.Result) { results <- r },
	})
	defer e.Close()

	e.Start([]string{"cat", "dog"}, 1, "en")
	select {
	case r := <-results:
		assert.Equal(t, 0, r.WordsTyped)
		assert.Equal(t, 100, r.Accuracy)
	case <-time.After(5 * time.Second):
		t.Fatal("countdown never finished the session")
	}
	assert.Never(t, func() bool { return len(results) > 0 }, 1500*time.Millisecond, 50*time.Millisecond)

	snap := e.Snapshot()
	assert.Equal(t, StateCompleted, snap.State)
	assert.Equal(t, 0, snap.Remaining)
}

func TestEngineCloseStopsOnlyOwnTicker(t *testing.T) {
	shared := NewCronTicker()
	defer shared.Stop()

	e := NewEngine(EngineOptions{Ticker: shared})
	e.Close()
	assert.True(t, shared.scheduler.IsRunning(), "caller's ticker must survive Close")

	var n atomic.Int32
	stop, err := shared.Every(100*time.Millisecond, func() { n.Add(1) })
	require.NoError(t, err)
	defer stop()
	assert.Eventually(t, func() bool { return n.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)

	owned := NewEngine(EngineOptions{})
	require.NotNil(t, owned.ownTicker)
	owned.Close()
	assert.False(t, owned.ownTicker.scheduler.IsRunning())
}
