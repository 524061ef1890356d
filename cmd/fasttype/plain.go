package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/fasttype/internal/model"
	"github.com/verte-zerg/fasttype/internal/session"
	"github.com/verte-zerg/fasttype/internal/stats"
	"github.com/verte-zerg/fasttype/internal/tui"
)

func newPlainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plain",
		Short: "Line-based session without the full-screen UI",
		Long:  "Prints the words, then reads typed lines from stdin until the countdown ends, every word is typed, or input closes.",
		Args:  cobra.NoArgs,
		RunE:  runPlainCmd,
	}
	addPracticeFlags(cmd)
	return cmd
}

func runPlainCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, err := practiceConfig(cmd, a.settings.Get())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	round, err := a.customRound(ctx, cfg)
	if err != nil {
		return err
	}
	p, _, err := a.profile(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	interactive := false
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	res, err := runPlainSession(ctx, round, cmd.InOrStdin(), out, interactive, session.EngineOptions{
		Logger: a.logger.Named("engine"),
	})
	if err != nil {
		return err
	}
	if _, err := a.save(ctx, p, round, res); err != nil {
		logErrf("%v\n", err)
	}
	return renderPlainResult(out, res)
}

// runPlainSession drives an Engine from lines of input and returns the result.
func runPlainSession(ctx context.Context, round tui.Round, in io.Reader, out io.Writer, interactive bool, opts session.EngineOptions) (model.Result, error) {
	results := make(chan model.Result, 1)
	opts.OnFinish = func(r model.Result) { results <- r }
	eng := session.NewEngine(opts)
	defer eng.Close()

	eng.Start(round.Words, round.Duration, round.Plan.Language)
	width := stats.TerminalWidth()
	if _, err := fmt.Fprintf(out, "%d seconds. Type the words below, Enter submits.\n\n%s\n\n",
		round.Duration, wrapPlain(round.Words, width)); err != nil {
		return model.Result{}, err
	}

	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	for {
		if interactive {
			snap := eng.Snapshot()
			if snap.State != session.StateCompleted {
				_, _ = fmt.Fprintf(out, "[%d/%d %ds] ", snap.ActiveIndex, len(snap.Words), snap.Remaining)
			}
		}
		select {
		case res := <-results:
			return res, nil
		case line, ok := <-lines:
			if !ok {
				lines = nil
				eng.Finish()
				continue
			}
			eng.OnInputChange(line + "\n")
		case <-ctx.Done():
			eng.Finish()
			return <-results, ctx.Err()
		}
	}
}

func wrapPlain(words []string, width int) string {
	var b strings.Builder
	lineWidth := 0
	for i, w := range words {
		ww := runewidth.StringWidth(w)
		if i > 0 {
			if width > 0 && lineWidth+1+ww > width {
				b.WriteByte('\n')
				lineWidth = 0
			} else {
				b.WriteByte(' ')
				lineWidth++
			}
		}
		b.WriteString(w)
		lineWidth += ww
	}
	return b.String()
}

func renderPlainResult(w io.Writer, res model.Result) error {
	_, err := fmt.Fprintf(w, "\nWPM %d · CPS %.2f · Accuracy %d%% · %d/%d words correct · %d errors\n",
		res.WPM, res.CPS, res.Accuracy, res.CorrectWords, res.WordsTyped, res.Errors)
	if err != nil || len(res.WrongWords) == 0 {
		return err
	}
	_, err = fmt.Fprintf(w, "Missed: %s\n", strings.Join(res.WrongWords, " "))
	return err
}
