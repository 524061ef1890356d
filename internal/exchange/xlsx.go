package exchange

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/fasttype/internal/model"
)

// Sheet names in exported workbooks.
const (
	SheetProfiles  = "Profiles"
	SheetSessions  = "Sessions"
	SheetWordLists = "WordLists"
)

func writeWorkbook(w io.Writer, archive model.Archive) error {
	f := excelize.NewFile()
	defer f.Close()

	profiles := [][]any{{"ID", "Typing Languages", "Layout", "Level", "XP", "Best WPM", "Accuracy Avg", "Created"}}
	for _, p := range archive.Profiles {
		profiles = append(profiles, []any{
			p.ID, strings.Join(p.TypingLanguages, ","), p.KeyboardLayout,
			p.Level, p.XP, p.BestWPM, p.AccuracyAvg, p.CreatedAt.Format(time.RFC3339),
		})
	}
	sessions := [][]any{{"ID", "Date", "Language", "Mode", "WPM", "CPS", "Accuracy", "Words", "Correct", "Errors", "Level", "Wrong Words"}}
	for _, s := range archive.Sessions {
		sessions = append(sessions, []any{
			s.ID, s.Date.Format(time.RFC3339), s.Language, string(s.Mode),
			s.WPM, s.CPS, s.Accuracy, s.WordsTyped, s.CorrectWords, s.Errors,
			s.LevelAtRun, strings.Join(s.WrongWords, " "),
		})
	}
	lists := [][]any{{"Language", "Words", "Updated"}}
	for _, l := range archive.WordLists {
		lists = append(lists, []any{l.Language, len(l.Words), l.UpdatedAt.Format(time.RFC3339)})
	}

	// NewFile starts with Sheet1; rename it rather than leaving an empty sheet.
	f.SetSheetName("Sheet1", SheetProfiles)
	if err := fillSheet(f, SheetProfiles, profiles); err != nil {
		return err
	}
	for _, sheet := range []struct {
		name string
		rows [][]any
	}{{SheetSessions, sessions}, {SheetWordLists, lists}} {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet.name, err)
		}
		if err := fillSheet(f, sheet.name, sheet.rows); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func fillSheet(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
