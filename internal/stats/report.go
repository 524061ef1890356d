package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/fasttype/internal/model"
)

// Source lists stored sessions.
type Source interface {
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionRecord
	Window   []model.SessionRecord
	Summary  Summary
}

// RenderOptions control how a report is printed.
type RenderOptions struct {
	Width     int
	Recent    int
	TopWords  int
	Color     bool
	Sparkline bool
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src Source, cfg model.StatsConfig) (Report, error) {
	sessions, err := src.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	window := sessions
	if cfg.CurveWindow > 0 && len(sessions) > cfg.CurveWindow {
		window = sessions[len(sessions)-cfg.CurveWindow:]
	}
	return Report{
		Sessions: sessions,
		Window:   window,
		Summary:  Summarize(sessions),
	}, nil
}

// Render prints the summary, trend curves, recent sessions and missed words.
func (r Report) Render(w io.Writer, curveWindow int, opts RenderOptions) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if len(r.Sessions) == 0 {
		return nil
	}
	if len(r.Sessions) > 1 {
		if opts.Sparkline {
			if err := RenderSparklines(w, r.Sessions, curveWindow, opts.Width); err != nil {
				return err
			}
		} else {
			wpm, acc := Curves(r.Sessions, curveWindow)
			chart := Chart{Title: "Learning Curves", Color: opts.Color}
			if opts.Width > 0 {
				chart.Width = PlotWidthFor(opts.Width)
			}
			if err := chart.Render(w, Series{Name: "WPM", Values: wpm}, Series{Name: "Accuracy", Values: acc}); err != nil {
				return err
			}
		}
	}
	if err := RenderRecent(w, r.Sessions, opts.Recent); err != nil {
		return err
	}
	return RenderWrongWords(w, r.Window, opts.TopWords)
}
