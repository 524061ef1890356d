package stats

import (
	"sort"
	"strings"

	"github.com/verte-zerg/fasttype/internal/model"
)

// WordCount is how often a target word was committed incorrectly.
type WordCount struct {
	Word  string
	Count int
}

// TopWrongWords returns the n most frequently missed words, ties broken alphabetically.
func TopWrongWords(sessions []model.SessionRecord, n int) []WordCount {
	if n <= 0 {
		return nil
	}
	counts := map[string]int{}
	for _, s := range sessions {
		for _, word := range s.WrongWords {
			word = strings.TrimSpace(word)
			if word == "" {
				continue
			}
			counts[word]++
		}
	}
	items := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		items = append(items, WordCount{Word: word, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Word < items[j].Word
		}
		return items[i].Count > items[j].Count
	})
	if n < len(items) {
		items = items[:n]
	}
	return items
}
