package stats

import "github.com/verte-zerg/fasttype/internal/model"

// SelectWeakWords picks the top missed words from the last window sessions.
// A non-positive window uses every session.
func SelectWeakWords(sessions []model.SessionRecord, window, top int) map[string]struct{} {
	if window > 0 && len(sessions) > window {
		sessions = sessions[len(sessions)-window:]
	}
	weakSet := map[string]struct{}{}
	for _, wc := range TopWrongWords(sessions, top) {
		weakSet[wc.Word] = struct{}{}
	}
	return weakSet
}
