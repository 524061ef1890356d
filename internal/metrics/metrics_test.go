package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/fasttype/internal/model"
)

var epoch = time.Unix(1_700_000_000, 0)

func TestComputeAllCorrectInstant(t *testing.T) {
	res := Compute(Input{
		StartedAt:  epoch,
		FinishedAt: epoch,
		Committed:  "cat dog ",
		Index:      2,
		Targets:    []string{"cat", "dog"},
		Correct:    2,
	})
	assert.Equal(t, int64(1), res.ElapsedMs)
	assert.Equal(t, 2, res.WordsTyped)
	assert.Equal(t, 2, res.CorrectWords)
	assert.Equal(t, 100, res.Accuracy)
	assert.Equal(t, 0, res.Errors)
	assert.Empty(t, res.WrongWords)
}

func TestComputeMistypedWord(t *testing.T) {
	res := Compute(Input{
		StartedAt:  epoch,
		FinishedAt: epoch.Add(time.Minute),
		Committed:  "cet dog ",
		Index:      2,
		Targets:    []string{"cat", "dog"},
		Correct:    1,
		WrongWords: []string{"cat"},
	})
	assert.Equal(t, 1, res.CorrectWords)
	assert.Equal(t, 1, res.Errors)
	assert.Equal(t, 85, res.Accuracy)
	assert.Equal(t, []string{"cat"}, res.WrongWords)
	// 8 keys over one minute.
	assert.Equal(t, 1, res.WPM)
	assert.InDelta(t, 0.13, res.CPS, 1e-9)
}

func TestComputeNeverStarted(t *testing.T) {
	res := Compute(Input{FinishedAt: epoch, Targets: []string{"cat"}})
	assert.Equal(t, int64(1), res.ElapsedMs)
	assert.Equal(t, 0, res.WPM)
	assert.Equal(t, 100, res.Accuracy)
	assert.Equal(t, 0, res.WordsTyped)
	assert.Equal(t, 0, res.CorrectWords)
	assert.Equal(t, 0.0, res.CPS)
	require.NotNil(t, res.WrongWords)
}

func TestComputeFoldsPendingWord(t *testing.T) {
	in := Input{
		StartedAt:  epoch,
		FinishedAt: epoch.Add(30 * time.Second),
		Committed:  "cat ",
		Pending:    "do",
		Index:      1,
		Targets:    []string{"cat", "dog", "emu"},
		Correct:    1,
	}
	res := Compute(in)
	assert.Equal(t, 2, res.WordsTyped)
	assert.Equal(t, 1, res.CorrectWords)
	assert.Equal(t, []string{"dog"}, res.WrongWords)
	// Pending keys count toward throughput, not accuracy.
	assert.Equal(t, 100, res.Accuracy)
	assert.Equal(t, 2, res.WPM)

	in.Pending = "dog"
	res = Compute(in)
	assert.Equal(t, 2, res.CorrectWords)
	assert.Empty(t, res.WrongWords)
}

func TestComputeWhitespacePendingIsIgnored(t *testing.T) {
	res := Compute(Input{
		StartedAt:  epoch,
		FinishedAt: epoch.Add(time.Second),
		Pending:    "   ",
		Targets:    []string{"cat"},
	})
	assert.Equal(t, 0, res.WordsTyped)
	assert.Empty(t, res.WrongWords)
}

func TestComputeBounds(t *testing.T) {
	targets := []string{"alpha", "beta", "gamma", "delta"}
	inputs := []Input{
		{Committed: "alpha bxta ", Index: 2, Correct: 1, WrongWords: []string{"beta"}, Pending: "gam"},
		{Committed: "zzzzz zzzz zzzzz zzzzz ", Index: 4, WrongWords: []string{"alpha", "beta", "gamma", "delta"}},
		{Committed: "alpha beta gamma delta ", Index: 4, Correct: 4},
	}
	for i, in := range inputs {
		in.Targets = targets
		in.StartedAt = epoch
		in.FinishedAt = epoch.Add(10 * time.Second)
		res := Compute(in)
		assert.GreaterOrEqual(t, res.Accuracy, 0, "case %d", i)
		assert.LessOrEqual(t, res.Accuracy, 100, "case %d", i)
		assert.Equal(t, res.WordsTyped, res.CorrectWords+len(res.WrongWords), "case %d", i)
	}
}

func TestCompareKeysRunes(t *testing.T) {
	correct, total := CompareKeys("énergie", "énergie monde")
	assert.Equal(t, 7, correct)
	assert.Equal(t, 7, total)
}

func TestTargetAtPastEnd(t *testing.T) {
	assert.Equal(t, "", TargetAt([]string{"a"}, 1))
	assert.Equal(t, "", TargetAt(nil, -1))
	assert.Equal(t, "a", TargetAt([]string{"a"}, 0))
}

func TestAggregate(t *testing.T) {
	assert.Equal(t, model.SessionAggregate{}, Aggregate(nil))
	agg := Aggregate([]model.SessionRecord{
		{WPM: 30, Accuracy: 90},
		{WPM: 45, Accuracy: 95},
		{WPM: 40, Accuracy: 96},
	})
	assert.Equal(t, 3, agg.Sessions)
	assert.Equal(t, 45, agg.BestWPM)
	assert.Equal(t, 94, agg.AccuracyAvg)
}
