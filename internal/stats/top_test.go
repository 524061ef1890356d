package stats

import (
	"testing"

	"github.com/verte-zerg/fasttype/internal/model"
)

func TestTopWrongWords(t *testing.T) {
	sessions := []model.SessionRecord{
		record(30, 90, "cat", "dog"),
		record(30, 90, "dog", "bird"),
		record(30, 90, "cat", "dog"),
	}
	top := TopWrongWords(sessions, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 words, got %d", len(top))
	}
	if top[0] != (WordCount{Word: "dog", Count: 3}) || top[1] != (WordCount{Word: "cat", Count: 2}) {
		t.Fatalf("unexpected order: %v", top)
	}
	if got := TopWrongWords(sessions, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}

func TestSelectWeakWordsUsesWindow(t *testing.T) {
	sessions := []model.SessionRecord{
		record(30, 90, "old", "old", "old"),
		record(30, 90, "new"),
		record(30, 90, "fresh", "new"),
	}
	weak := SelectWeakWords(sessions, 2, 5)
	if _, ok := weak["old"]; ok {
		t.Fatalf("word outside window should be ignored: %v", weak)
	}
	if _, ok := weak["new"]; !ok {
		t.Fatalf("expected new in weak set: %v", weak)
	}
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak words, got %v", weak)
	}
}
