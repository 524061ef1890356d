package wordlist

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed fallback/*.txt
var fallbackFS embed.FS

func fallbackWords(lang string) ([]string, bool) {
	file, err := fallbackFS.Open("fallback/" + lang + ".txt")
	if err != nil {
		return nil, false
	}
	defer func() {
		_ = file.Close()
	}()
	words, err := ReadWords(file)
	if err != nil {
		return nil, false
	}
	return words, true
}

// BundledLanguages lists languages with an embedded fallback list.
func BundledLanguages() []string {
	entries, err := fs.ReadDir(fallbackFS, "fallback")
	if err != nil {
		return nil
	}
	langs := make([]string, 0, len(entries))
	for _, entry := range entries {
		langs = append(langs, strings.TrimSuffix(entry.Name(), ".txt"))
	}
	sort.Strings(langs)
	return langs
}
