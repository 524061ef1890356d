// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/fasttype/internal/metrics"
	"github.com/verte-zerg/fasttype/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary holds the headline numbers over a set of sessions.
type Summary struct {
	Sessions    int
	BestWPM     int
	AvgWPM      float64
	AvgCPS      float64
	AccuracyAvg int
	Words       int
	Errors      int
}

// Summarize computes the summary for sessions.
func Summarize(sessions []model.SessionRecord) Summary {
	agg := metrics.Aggregate(sessions)
	out := Summary{
		Sessions:    agg.Sessions,
		BestWPM:     agg.BestWPM,
		AccuracyAvg: agg.AccuracyAvg,
	}
	if len(sessions) == 0 {
		return out
	}
	var wpm, cps float64
	for _, s := range sessions {
		wpm += float64(s.WPM)
		cps += s.CPS
		out.Words += s.WordsTyped
		out.Errors += s.Errors
	}
	n := float64(len(sessions))
	out.AvgWPM = wpm / n
	out.AvgCPS = cps / n
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline, resampled to width when width > 0.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}
	if width > 0 {
		values = resample(values, width)
	}
	lo, hi := bounds(values)
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	top := len(sparkChars) - 1
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(top)))
		b.WriteByte(sparkChars[clamp(idx, 0, top)])
	}
	return b.String()
}

// RenderSummary prints the headline numbers for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionRecord) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	s := Summarize(sessions)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", s.Sessions),
		fmt.Sprintf("Best WPM: %d", s.BestWPM),
		fmt.Sprintf("Avg WPM: %.1f", s.AvgWPM),
		fmt.Sprintf("Avg CPS: %.2f", s.AvgCPS),
		fmt.Sprintf("Avg Accuracy: %d%%", s.AccuracyAvg),
		fmt.Sprintf("Words typed: %d (%d errors)", s.Words, s.Errors),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Curves returns the smoothed WPM and accuracy series for sessions.
func Curves(sessions []model.SessionRecord, window int) (wpm, accuracy []float64) {
	wpm = make([]float64, len(sessions))
	accuracy = make([]float64, len(sessions))
	for i, s := range sessions {
		wpm[i] = float64(s.WPM)
		accuracy[i] = float64(s.Accuracy)
	}
	return MovingAverage(wpm, window), MovingAverage(accuracy, window)
}

// RenderSparklines prints one compact trend line per metric.
func RenderSparklines(w io.Writer, sessions []model.SessionRecord, window, width int) error {
	if len(sessions) < 2 {
		return nil
	}
	wpm, acc := Curves(sessions, window)
	const label = "Accuracy "
	lineWidth := width - len(label) - 2
	if lineWidth < minPlotWidth {
		lineWidth = minPlotWidth
	}
	if _, err := fmt.Fprintf(w, "%-9s[%s]\n", "WPM", Sparkline(wpm, lineWidth)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s[%s]\n\n", label, Sparkline(acc, lineWidth)); err != nil {
		return err
	}
	return nil
}

func bounds(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// resample stretches or compresses values to exactly width points.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	if len(values) == 1 || width == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	if len(values) > width {
		for i := range out {
			start := i * len(values) / width
			end := (i + 1) * len(values) / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	last := len(values) - 1
	for i := range out {
		pos := float64(i) * float64(last) / float64(width-1)
		idx := int(pos)
		if idx >= last {
			out[i] = values[last]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}
