// Package metrics converts typed text and timing into session results.
package metrics

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/fasttype/internal/model"
)

// Separator joins committed words and target words.
const Separator = " "

const charsPerWord = 5.0

// Input is everything the calculator needs at finalize time.
type Input struct {
	// StartedAt is zero when the session never started.
	StartedAt  time.Time
	FinishedAt time.Time
	Committed  string
	Pending    string
	Index      int
	Targets    []string
	Correct    int
	WrongWords []string
}

// Compute derives the session result. It has no side effects.
func Compute(in Input) model.Result {
	start := in.StartedAt
	if start.IsZero() {
		start = in.FinishedAt
	}
	elapsedMs := in.FinishedAt.Sub(start).Milliseconds()
	if elapsedMs < 1 {
		elapsedMs = 1
	}
	minutes := float64(elapsedMs) / 60000.0

	totalKeys := utf8.RuneCountInString(in.Committed) + utf8.RuneCountInString(in.Pending)

	wpm := 0
	if totalKeys > 0 {
		wpm = int(math.Floor((float64(totalKeys) / charsPerWord) / minutes))
	}

	accuracySeq := strings.TrimRight(in.Committed, Separator)
	correctKeys, accuracyTotal := CompareKeys(accuracySeq, strings.Join(in.Targets, Separator))
	accuracy := 100
	if accuracyTotal > 0 {
		accuracy = correctKeys * 100 / accuracyTotal
	}
	errors := accuracyTotal - correctKeys
	if errors < 0 {
		errors = 0
	}

	cps := math.Round(float64(totalKeys)/(float64(elapsedMs)/1000.0)*100) / 100

	correctWords := in.Correct
	wrongWords := make([]string, 0, len(in.WrongWords)+1)
	wrongWords = append(wrongWords, in.WrongWords...)
	wordsTyped := in.Index
	if strings.TrimSpace(in.Pending) != "" {
		wordsTyped++
		target := TargetAt(in.Targets, in.Index)
		if in.Pending == target {
			correctWords++
		} else {
			wrongWords = append(wrongWords, target)
		}
	}

	return model.Result{
		WPM:          wpm,
		CPS:          cps,
		Accuracy:     accuracy,
		WordsTyped:   wordsTyped,
		CorrectWords: correctWords,
		Errors:       errors,
		ElapsedMs:    elapsedMs,
		WrongWords:   wrongWords,
	}
}

// CompareKeys counts position-wise rune matches of typed against target up to
// the shorter length. total is the rune length of typed.
func CompareKeys(typed, target string) (correct, total int) {
	typedRunes := []rune(typed)
	targetRunes := []rune(target)
	n := len(typedRunes)
	if len(targetRunes) < n {
		n = len(targetRunes)
	}
	for i := 0; i < n; i++ {
		if typedRunes[i] == targetRunes[i] {
			correct++
		}
	}
	return correct, len(typedRunes)
}

// TargetAt returns the word at index, or "" past the end of the sequence.
func TargetAt(targets []string, index int) string {
	if index < 0 || index >= len(targets) {
		return ""
	}
	return targets[index]
}

// Aggregate computes best WPM and rounded mean accuracy across sessions.
func Aggregate(sessions []model.SessionRecord) model.SessionAggregate {
	if len(sessions) == 0 {
		return model.SessionAggregate{}
	}
	best := sessions[0].WPM
	sum := 0
	for _, s := range sessions {
		if s.WPM > best {
			best = s.WPM
		}
		sum += s.Accuracy
	}
	return model.SessionAggregate{
		Sessions:    len(sessions),
		BestWPM:     best,
		AccuracyAvg: int(math.Round(float64(sum) / float64(len(sessions)))),
	}
}
