// Package session implements the typing-session measurement engine.
package session

import "github.com/verte-zerg/fasttype/internal/model"

// Evaluate decides a committed token against its target word. Matching is
// exact and case-sensitive.
func Evaluate(typed, target string) model.WordStatus {
	if typed == target {
		return model.WordCorrect
	}
	return model.WordIncorrect
}
