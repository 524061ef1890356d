// Package model defines shared data structures.
package model

import "time"

// Mode identifies how a session was requested.
type Mode string

// Session modes.
const (
	ModeGuided     Mode = "guided"
	ModeCustom     Mode = "custom"
	ModeAssessment Mode = "assessment"
)

// EarnsXP reports whether finishing a session in this mode grants experience.
func (m Mode) EarnsXP() bool {
	return m == ModeGuided || m == ModeAssessment
}

// Difficulty is a label derived from a plan's minimum word length.
type Difficulty string

// Difficulty labels.
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// WordStatus tracks the commit outcome of one target word.
type WordStatus int

// Word statuses. A status leaves WordPending once and never reverts.
const (
	WordPending WordStatus = iota
	WordCorrect
	WordIncorrect
)

func (s WordStatus) String() string {
	switch s {
	case WordCorrect:
		return "correct"
	case WordIncorrect:
		return "incorrect"
	default:
		return "pending"
	}
}

// Config defines practice settings.
type Config struct {
	Lang       string
	Words      int
	MinLength  int
	Duration   int
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	WeakWindow int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lang        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Result is the finalized outcome of one typing session.
type Result struct {
	WPM          int      `json:"wpm" yaml:"wpm"`
	CPS          float64  `json:"cps" yaml:"cps"`
	Accuracy     int      `json:"accuracy" yaml:"accuracy"`
	WordsTyped   int      `json:"wordsTyped" yaml:"words_typed"`
	CorrectWords int      `json:"correctWords" yaml:"correct_words"`
	Errors       int      `json:"errors" yaml:"errors"`
	ElapsedMs    int64    `json:"elapsedMs" yaml:"elapsed_ms"`
	WrongWords   []string `json:"wrongWords" yaml:"wrong_words"`
}

// TrainingPlan holds the parameters a session was generated from.
type TrainingPlan struct {
	TargetWords int
	MinLength   int
	Language    string
	Difficulty  Difficulty
	Mode        Mode
}

// SessionRecord is a completed session as handed to persistence.
type SessionRecord struct {
	ID           int64     `json:"id,omitempty" yaml:"id,omitempty"`
	ProfileID    string    `json:"profileId" yaml:"profile_id"`
	Date         time.Time `json:"date" yaml:"date"`
	Language     string    `json:"language" yaml:"language"`
	WordsTyped   int       `json:"wordsTyped" yaml:"words_typed"`
	CorrectWords int       `json:"correctWords" yaml:"correct_words"`
	Errors       int       `json:"errors" yaml:"errors"`
	WPM          int       `json:"wpm" yaml:"wpm"`
	CPS          float64   `json:"cps" yaml:"cps"`
	Accuracy     int       `json:"accuracy" yaml:"accuracy"`
	LevelAtRun   int       `json:"levelAtRun" yaml:"level_at_run"`
	Mode         Mode      `json:"mode" yaml:"mode"`
	WrongWords   []string  `json:"wrongWords" yaml:"wrong_words"`
}

// Profile stores the single local user's progression.
type Profile struct {
	ID              string    `json:"id" yaml:"id"`
	TypingLanguages []string  `json:"typingLanguages" yaml:"typing_languages"`
	KeyboardLayout  string    `json:"keyboardLayout" yaml:"keyboard_layout"`
	Level           int       `json:"level" yaml:"level"`
	XP              int       `json:"xp" yaml:"xp"`
	BestWPM         int       `json:"bestWpm" yaml:"best_wpm"`
	AccuracyAvg     int       `json:"accuracyAvg" yaml:"accuracy_avg"`
	CreatedAt       time.Time `json:"createdAt" yaml:"created_at"`
}

// ProfileUpdate carries the progression fields changed by one session.
type ProfileUpdate struct {
	XP          int
	Level       int
	BestWPM     int
	AccuracyAvg int
}

// Apply returns a copy of p with the update applied.
func (u ProfileUpdate) Apply(p Profile) Profile {
	p.XP = u.XP
	p.Level = u.Level
	p.BestWPM = u.BestWPM
	p.AccuracyAvg = u.AccuracyAvg
	return p
}

// WordList is a cached vocabulary for one language.
type WordList struct {
	Language  string    `json:"language" yaml:"language"`
	Words     []string  `json:"words" yaml:"words"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

// SessionAggregate summarizes stored sessions for reporting.
type SessionAggregate struct {
	Sessions    int
	BestWPM     int
	AccuracyAvg int
}

// Archive is the full exported dataset.
type Archive struct {
	Profiles  []Profile       `json:"profiles" yaml:"profiles"`
	Sessions  []SessionRecord `json:"sessions" yaml:"sessions"`
	WordLists []WordList      `json:"wordlists" yaml:"wordlists"`
}
