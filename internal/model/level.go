package model

// Progression constants.
const (
	MaxLevel    = 5
	XPPerLevel  = 10
	MainProfile = "main"
)

// LevelFromWPM maps a words-per-minute score to a skill level.
func LevelFromWPM(wpm int) int {
	switch {
	case wpm < 20:
		return 1
	case wpm < 35:
		return 2
	case wpm < 50:
		return 3
	case wpm < 70:
		return 4
	default:
		return 5
	}
}

// LevelLabel returns the display name for a level.
func LevelLabel(level int) string {
	switch level {
	case 1:
		return "Beginner"
	case 2:
		return "Basic"
	case 3:
		return "Intermediate"
	case 4:
		return "Advanced"
	default:
		return "Expert"
	}
}

// DifficultyFor derives a difficulty label from a minimum word length.
func DifficultyFor(minLength int) Difficulty {
	switch {
	case minLength > 7:
		return DifficultyHard
	case minLength > 5:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}
