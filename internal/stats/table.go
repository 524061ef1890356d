package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/fasttype/internal/model"
)

const dateLayout = "2006-01-02 15:04"

// RecentHeaders are the column titles matching RecentRows.
var RecentHeaders = []string{"Date", "Mode", "Lang", "WPM", "CPS", "Acc", "Words", "Level"}

// RecentRows formats the last n sessions, newest first. n <= 0 keeps all.
func RecentRows(sessions []model.SessionRecord, n int) [][]string {
	if n > 0 && len(sessions) > n {
		sessions = sessions[len(sessions)-n:]
	}
	rows := make([][]string, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		rows = append(rows, []string{
			s.Date.Local().Format(dateLayout),
			string(s.Mode),
			s.Language,
			fmt.Sprintf("%d", s.WPM),
			fmt.Sprintf("%.2f", s.CPS),
			fmt.Sprintf("%d%%", s.Accuracy),
			fmt.Sprintf("%d/%d", s.CorrectWords, s.WordsTyped),
			model.LevelLabel(s.LevelAtRun),
		})
	}
	return rows
}

// RenderRecent prints the last n sessions, newest first.
func RenderRecent(w io.Writer, sessions []model.SessionRecord, n int) error {
	if len(sessions) == 0 {
		return nil
	}
	rightAlign := map[int]bool{3: true, 4: true, 5: true, 6: true}
	return writeTable(w, "Recent Sessions", RecentHeaders, RecentRows(sessions, n), rightAlign)
}

// RenderWrongWords prints the most frequently missed words.
func RenderWrongWords(w io.Writer, sessions []model.SessionRecord, top int) error {
	words := TopWrongWords(sessions, top)
	if len(words) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(words))
	for _, wc := range words {
		rows = append(rows, []string{wc.Word, fmt.Sprintf("%d", wc.Count)})
	}
	return writeTable(w, "Most Missed Words", []string{"Word", "Misses"}, rows, map[int]bool{1: true})
}

func writeTable(w io.Writer, title string, headers []string, rows [][]string, rightAlign map[int]bool) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func formatTable(headers []string, rows [][]string, rightAlign map[int]bool) []string {
	cols := len(headers)
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return nil
	}
	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlign))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlign))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlign map[int]bool) string {
	cells := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if rightAlign[i] {
			cells[i] = runewidth.FillLeft(cell, width)
		} else {
			cells[i] = runewidth.FillRight(cell, width)
		}
	}
	return strings.Join(cells, " ")
}
