package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/fasttype/internal/model"
)

type styledWord struct {
	s     string
	width int
}

// buildStyledWords renders each target word according to its commit status.
// The word under the cursor is drawn rune by rune against the typed input.
func buildStyledWords(st styles, words []string, statuses []model.WordStatus, active int, input string, running bool) []styledWord {
	out := make([]styledWord, 0, len(words))
	for i, word := range words {
		status := model.WordPending
		if i < len(statuses) {
			status = statuses[i]
		}
		var item styledWord
		switch {
		case status == model.WordCorrect:
			item = styledWord{s: st.correct.Render(word), width: runewidth.StringWidth(word)}
		case status == model.WordIncorrect:
			item = styledWord{s: st.incorrect.Render(word), width: runewidth.StringWidth(word)}
		case i == active && running:
			item = buildActiveWord(st, word, input)
		default:
			item = styledWord{s: st.pending.Render(word), width: runewidth.StringWidth(word)}
		}
		out = append(out, item)
	}
	return out
}

func buildActiveWord(st styles, word, input string) styledWord {
	target := []rune(word)
	typed := []rune(input)
	var b strings.Builder
	width := 0
	for i, r := range target {
		style := st.current
		switch {
		case i < len(typed) && typed[i] == r:
			style = st.correct
		case i < len(typed):
			style = st.incorrect
		case i == len(typed):
			style = st.cursor
		}
		b.WriteString(style.Render(string(r)))
		width += runewidth.RuneWidth(r)
	}
	// Overflow beyond the target is shown so the user sees what they typed.
	if len(typed) > len(target) {
		extra := string(typed[len(target):])
		b.WriteString(st.incorrect.Underline(true).Render(extra))
		width += runewidth.StringWidth(extra)
	}
	return styledWord{s: b.String(), width: width}
}

func renderStyledWords(words []styledWord) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.s
	}
	return strings.Join(parts, " ")
}

// wrapStyledWords breaks lines between words so each line fits width cells.
// A word wider than width gets a line of its own.
func wrapStyledWords(words []styledWord, width int) string {
	if width <= 0 {
		return renderStyledWords(words)
	}
	var out strings.Builder
	lineWidth := 0
	for i, w := range words {
		switch {
		case i == 0:
		case lineWidth+1+w.width > width:
			out.WriteByte('\n')
			lineWidth = 0
		default:
			out.WriteByte(' ')
			lineWidth++
		}
		out.WriteString(w.s)
		lineWidth += w.width
	}
	return out.String()
}

// visibleLines keeps at most limit lines around the line holding the cursor.
func visibleLines(wrapped string, cursorLine, limit int) string {
	lines := strings.Split(wrapped, "\n")
	if limit <= 0 || len(lines) <= limit {
		return wrapped
	}
	start := cursorLine - 1
	if start < 0 {
		start = 0
	}
	if start+limit > len(lines) {
		start = len(lines) - limit
	}
	return strings.Join(lines[start:start+limit], "\n")
}

// lineOfWord returns the wrapped line index that holds word index.
func lineOfWord(words []styledWord, index, width int) int {
	if width <= 0 {
		return 0
	}
	line := 0
	lineWidth := 0
	for i, w := range words {
		if i > 0 {
			if lineWidth+1+w.width > width {
				line++
				lineWidth = 0
			} else {
				lineWidth++
			}
		}
		lineWidth += w.width
		if i == index {
			return line
		}
	}
	return line
}
