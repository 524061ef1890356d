// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/verte-zerg/fasttype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for profiles, sessions and word lists.
type Store struct {
	db *sqlx.DB
}

type profileRow struct {
	ID              string `db:"id"`
	TypingLanguages string `db:"typing_languages"`
	KeyboardLayout  string `db:"keyboard_layout"`
	Level           int    `db:"level"`
	XP              int    `db:"xp"`
	BestWPM         int    `db:"best_wpm"`
	AccuracyAvg     int    `db:"accuracy_avg"`
	CreatedAt       string `db:"created_at"`
}

type sessionRow struct {
	ID           int64   `db:"id"`
	ProfileID    string  `db:"profile_id"`
	Date         string  `db:"date"`
	Language     string  `db:"language"`
	WordsTyped   int     `db:"words_typed"`
	CorrectWords int     `db:"correct_words"`
	Errors       int     `db:"errors"`
	WPM          int     `db:"wpm"`
	CPS          float64 `db:"cps"`
	Accuracy     int     `db:"accuracy"`
	LevelAtRun   int     `db:"level_at_run"`
	Mode         string  `db:"mode"`
	WrongWords   string  `db:"wrong_words"`
}

type wordListRow struct {
	Language  string `db:"language"`
	Words     string `db:"words"`
	UpdatedAt string `db:"updated_at"`
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps :memory: databases consistent and serializes writers.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			typing_languages TEXT NOT NULL,
			keyboard_layout TEXT NOT NULL,
			level INTEGER NOT NULL,
			xp INTEGER NOT NULL,
			best_wpm INTEGER NOT NULL,
			accuracy_avg INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			profile_id TEXT NOT NULL,
			date TEXT NOT NULL,
			language TEXT NOT NULL,
			words_typed INTEGER NOT NULL,
			correct_words INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			cps REAL NOT NULL,
			accuracy INTEGER NOT NULL,
			level_at_run INTEGER NOT NULL,
			mode TEXT NOT NULL,
			wrong_words TEXT NOT NULL DEFAULT '[]'
		);`,
		`CREATE TABLE IF NOT EXISTS wordlists (
			language TEXT PRIMARY KEY,
			words TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_language ON sessions(language);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// GetProfile loads the main profile. ok is false when onboarding has not run.
func (s *Store) GetProfile(ctx context.Context) (model.Profile, bool, error) {
	var row profileRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM profiles WHERE id = ?`, model.MainProfile)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Profile{}, false, nil
	}
	if err != nil {
		return model.Profile{}, false, err
	}
	p, err := row.toModel()
	if err != nil {
		return model.Profile{}, false, err
	}
	return p, true, nil
}

// SaveProfile upserts the main profile.
func (s *Store) SaveProfile(ctx context.Context, p model.Profile) error {
	return saveProfile(ctx, s.db, p)
}

// RecordSession stores a completed session and the updated profile atomically.
func (s *Store) RecordSession(ctx context.Context, rec model.SessionRecord, p model.Profile) (id int64, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	id, err = insertSession(ctx, tx, rec)
	if err != nil {
		return 0, err
	}
	if err = saveProfile(ctx, tx, p); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// LogSession stores a completed session.
func (s *Store) LogSession(ctx context.Context, rec model.SessionRecord) (int64, error) {
	return insertSession(ctx, s.db, rec)
}

// ListSessions returns sessions filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Lang != "" {
		clauses = append(clauses, "language = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "date >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	query := fmt.Sprintf(`SELECT * FROM sessions WHERE %s ORDER BY date ASC, id ASC`, strings.Join(clauses, " AND "))
	var rows []sessionRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]model.SessionRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if cfg.Last > 0 && len(out) > cfg.Last {
		out = out[len(out)-cfg.Last:]
	}
	return out, nil
}

// GetWordList returns the cached vocabulary for lang.
func (s *Store) GetWordList(ctx context.Context, lang string) (model.WordList, bool, error) {
	var row wordListRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM wordlists WHERE language = ?`, lang)
	if errors.Is(err, sql.ErrNoRows) {
		return model.WordList{}, false, nil
	}
	if err != nil {
		return model.WordList{}, false, err
	}
	list, err := row.toModel()
	if err != nil {
		return model.WordList{}, false, err
	}
	return list, true, nil
}

// PutWordList upserts a cached vocabulary.
func (s *Store) PutWordList(ctx context.Context, list model.WordList) error {
	return putWordList(ctx, s.db, list)
}

// ClearAll deletes every profile, session and word list.
func (s *Store) ClearAll(ctx context.Context) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = clearTables(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Export reads the whole dataset.
func (s *Store) Export(ctx context.Context) (model.Archive, error) {
	var archive model.Archive
	var profiles []profileRow
	if err := s.db.SelectContext(ctx, &profiles, `SELECT * FROM profiles ORDER BY id`); err != nil {
		return archive, err
	}
	for _, row := range profiles {
		p, err := row.toModel()
		if err != nil {
			return archive, err
		}
		archive.Profiles = append(archive.Profiles, p)
	}
	sessions, err := s.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		return archive, err
	}
	archive.Sessions = sessions
	var lists []wordListRow
	if err := s.db.SelectContext(ctx, &lists, `SELECT * FROM wordlists ORDER BY language`); err != nil {
		return archive, err
	}
	for _, row := range lists {
		list, err := row.toModel()
		if err != nil {
			return archive, err
		}
		archive.WordLists = append(archive.WordLists, list)
	}
	return archive, nil
}

// Replace clears all data and loads archive in one transaction.
func (s *Store) Replace(ctx context.Context, archive model.Archive) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = clearTables(ctx, tx); err != nil {
		return err
	}
	for _, p := range archive.Profiles {
		if err = saveProfile(ctx, tx, p); err != nil {
			return fmt.Errorf("failed to import profile %q: %w", p.ID, err)
		}
	}
	for _, rec := range archive.Sessions {
		if _, err = insertSession(ctx, tx, rec); err != nil {
			return fmt.Errorf("failed to import session: %w", err)
		}
	}
	for _, list := range archive.WordLists {
		if err = putWordList(ctx, tx, list); err != nil {
			return fmt.Errorf("failed to import word list %q: %w", list.Language, err)
		}
	}
	return tx.Commit()
}

func clearTables(ctx context.Context, ex sqlx.ExtContext) error {
	for _, table := range []string{"profiles", "sessions", "wordlists"} {
		if _, err := ex.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func saveProfile(ctx context.Context, ex sqlx.ExtContext, p model.Profile) error {
	if p.ID == "" {
		p.ID = model.MainProfile
	}
	row, err := profileRowFrom(p)
	if err != nil {
		return err
	}
	_, err = sqlx.NamedExecContext(ctx, ex,
		`INSERT INTO profiles (id, typing_languages, keyboard_layout, level, xp, best_wpm, accuracy_avg, created_at)
		 VALUES (:id, :typing_languages, :keyboard_layout, :level, :xp, :best_wpm, :accuracy_avg, :created_at)
		 ON CONFLICT(id) DO UPDATE SET
			typing_languages = excluded.typing_languages,
			keyboard_layout = excluded.keyboard_layout,
			level = excluded.level,
			xp = excluded.xp,
			best_wpm = excluded.best_wpm,
			accuracy_avg = excluded.accuracy_avg,
			created_at = excluded.created_at`,
		row)
	return err
}

func insertSession(ctx context.Context, ex sqlx.ExtContext, rec model.SessionRecord) (int64, error) {
	row, err := sessionRowFrom(rec)
	if err != nil {
		return 0, err
	}
	query := `INSERT INTO sessions (profile_id, date, language, words_typed, correct_words, errors, wpm, cps, accuracy, level_at_run, mode, wrong_words)
		 VALUES (:profile_id, :date, :language, :words_typed, :correct_words, :errors, :wpm, :cps, :accuracy, :level_at_run, :mode, :wrong_words)`
	if rec.ID > 0 {
		query = `INSERT INTO sessions (id, profile_id, date, language, words_typed, correct_words, errors, wpm, cps, accuracy, level_at_run, mode, wrong_words)
		 VALUES (:id, :profile_id, :date, :language, :words_typed, :correct_words, :errors, :wpm, :cps, :accuracy, :level_at_run, :mode, :wrong_words)`
	}
	res, err := sqlx.NamedExecContext(ctx, ex, query, row)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func putWordList(ctx context.Context, ex sqlx.ExtContext, list model.WordList) error {
	words, err := json.Marshal(list.Words)
	if err != nil {
		return err
	}
	_, err = sqlx.NamedExecContext(ctx, ex,
		`INSERT INTO wordlists (language, words, updated_at) VALUES (:language, :words, :updated_at)
		 ON CONFLICT(language) DO UPDATE SET words = excluded.words, updated_at = excluded.updated_at`,
		wordListRow{Language: list.Language, Words: string(words), UpdatedAt: formatTime(list.UpdatedAt)})
	return err
}

func profileRowFrom(p model.Profile) (profileRow, error) {
	langs := p.TypingLanguages
	if langs == nil {
		langs = []string{}
	}
	encoded, err := json.Marshal(langs)
	if err != nil {
		return profileRow{}, err
	}
	return profileRow{
		ID:              p.ID,
		TypingLanguages: string(encoded),
		KeyboardLayout:  p.KeyboardLayout,
		Level:           p.Level,
		XP:              p.XP,
		BestWPM:         p.BestWPM,
		AccuracyAvg:     p.AccuracyAvg,
		CreatedAt:       formatTime(p.CreatedAt),
	}, nil
}

func (r profileRow) toModel() (model.Profile, error) {
	var langs []string
	if err := json.Unmarshal([]byte(r.TypingLanguages), &langs); err != nil {
		return model.Profile{}, fmt.Errorf("failed to decode typing languages: %w", err)
	}
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return model.Profile{}, err
	}
	return model.Profile{
		ID:              r.ID,
		TypingLanguages: langs,
		KeyboardLayout:  r.KeyboardLayout,
		Level:           r.Level,
		XP:              r.XP,
		BestWPM:         r.BestWPM,
		AccuracyAvg:     r.AccuracyAvg,
		CreatedAt:       created,
	}, nil
}

func sessionRowFrom(rec model.SessionRecord) (sessionRow, error) {
	wrong := rec.WrongWords
	if wrong == nil {
		wrong = []string{}
	}
	encoded, err := json.Marshal(wrong)
	if err != nil {
		return sessionRow{}, err
	}
	return sessionRow{
		ID:           rec.ID,
		ProfileID:    rec.ProfileID,
		Date:         formatTime(rec.Date),
		Language:     rec.Language,
		WordsTyped:   rec.WordsTyped,
		CorrectWords: rec.CorrectWords,
		Errors:       rec.Errors,
		WPM:          rec.WPM,
		CPS:          rec.CPS,
		Accuracy:     rec.Accuracy,
		LevelAtRun:   rec.LevelAtRun,
		Mode:         string(rec.Mode),
		WrongWords:   string(encoded),
	}, nil
}

func (r sessionRow) toModel() (model.SessionRecord, error) {
	var wrong []string
	if err := json.Unmarshal([]byte(r.WrongWords), &wrong); err != nil {
		return model.SessionRecord{}, fmt.Errorf("failed to decode wrong words: %w", err)
	}
	date, err := parseTime(r.Date)
	if err != nil {
		return model.SessionRecord{}, err
	}
	return model.SessionRecord{
		ID:           r.ID,
		ProfileID:    r.ProfileID,
		Date:         date,
		Language:     r.Language,
		WordsTyped:   r.WordsTyped,
		CorrectWords: r.CorrectWords,
		Errors:       r.Errors,
		WPM:          r.WPM,
		CPS:          r.CPS,
		Accuracy:     r.Accuracy,
		LevelAtRun:   r.LevelAtRun,
		Mode:         model.Mode(r.Mode),
		WrongWords:   wrong,
	}, nil
}

func (r wordListRow) toModel() (model.WordList, error) {
	var words []string
	if err := json.Unmarshal([]byte(r.Words), &words); err != nil {
		return model.WordList{}, fmt.Errorf("failed to decode word list: %w", err)
	}
	updated, err := parseTime(r.UpdatedAt)
	if err != nil {
		return model.WordList{}, err
	}
	return model.WordList{Language: r.Language, Words: words, UpdatedAt: updated}, nil
}

// Fixed-width timestamps keep lexical order equal to time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
