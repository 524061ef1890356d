package wordlist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/verte-zerg/fasttype/internal/generator"
	"github.com/verte-zerg/fasttype/internal/model"
)

// ErrInsufficientVocabulary is returned when no word satisfies the length filter.
var ErrInsufficientVocabulary = errors.New("insufficient vocabulary")

// ErrInvalidLanguage is returned for language codes that cannot name a file
// inside the word list directory.
var ErrInvalidLanguage = errors.New("invalid language code")

// A word list file must have more than this many words to replace the
// bundled list.
const minFileWords = 50

const cacheTTL = 30 * time.Minute

// Cache persists chosen vocabularies between runs.
type Cache interface {
	GetWordList(ctx context.Context, lang string) (model.WordList, bool, error)
	PutWordList(ctx context.Context, list model.WordList) error
}

// Provider returns random target words for a language.
type Provider struct {
	dir    string
	store  Cache
	gen    *generator.Generator
	memo   *gocache.Cache
	logger *zap.Logger
}

// NewProvider builds a provider reading <dir>/<lang>.txt. store may be nil.
func NewProvider(dir string, store Cache, gen *generator.Generator, logger *zap.Logger) *Provider {
	if gen == nil {
		gen = generator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		dir:    dir,
		store:  store,
		gen:    gen,
		memo:   gocache.New(cacheTTL, 2*cacheTTL),
		logger: logger,
	}
}

// Load returns the full vocabulary for lang: stored list, then word list
// file, then the bundled list.
func (p *Provider) Load(ctx context.Context, lang string) ([]string, error) {
	if err := ValidateLanguage(lang); err != nil {
		return nil, err
	}
	if cached, ok := p.memo.Get(lang); ok {
		return cached.([]string), nil
	}
	if p.store != nil {
		stored, ok, err := p.store.GetWordList(ctx, lang)
		if err != nil {
			p.logger.Warn("failed to read stored word list", zap.String("lang", lang), zap.Error(err))
		} else if ok && len(stored.Words) > 0 {
			p.memo.Set(lang, stored.Words, gocache.DefaultExpiration)
			return stored.Words, nil
		}
	}

	return p.Reload(ctx, lang)
}

// Reload reads the word list file (or bundled list) again and replaces the
// stored and in-memory copies.
func (p *Provider) Reload(ctx context.Context, lang string) ([]string, error) {
	p.Invalidate(lang)
	words, err := p.readFile(lang)
	if err != nil {
		return nil, err
	}
	if p.store != nil {
		list := model.WordList{Language: lang, Words: words, UpdatedAt: time.Now()}
		if err := p.store.PutWordList(ctx, list); err != nil {
			p.logger.Warn("failed to store word list", zap.String("lang", lang), zap.Error(err))
		}
	}
	p.memo.Set(lang, words, gocache.DefaultExpiration)
	return words, nil
}

func (p *Provider) readFile(lang string) ([]string, error) {
	path, err := p.Path(lang)
	if err != nil {
		return nil, err
	}
	words, err := LoadWords(path)
	switch {
	case err == nil && len(words) > minFileWords:
		return words, nil
	case err == nil:
		p.logger.Info("word list too small, using bundled list", zap.String("path", path), zap.Int("words", len(words)))
	case !os.IsNotExist(err):
		p.logger.Warn("word list read failed, using bundled list", zap.String("path", path), zap.Error(err))
	}
	bundled, ok := fallbackWords(lang)
	if !ok {
		return nil, fmt.Errorf("no word list for language %q (expected %s)", lang, path)
	}
	return bundled, nil
}

// Path returns the word list file location for lang.
func (p *Provider) Path(lang string) (string, error) {
	if err := ValidateLanguage(lang); err != nil {
		return "", err
	}
	return filepath.Join(p.dir, lang+".txt"), nil
}

// ValidateLanguage rejects empty codes and codes that would escape the word
// list directory.
func ValidateLanguage(lang string) error {
	if lang == "" || strings.Contains(lang, "..") || strings.ContainsAny(lang, `/\`) || filepath.Base(lang) != lang {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, lang)
	}
	return nil
}

// Invalidate drops the in-memory vocabulary for lang.
func (p *Provider) Invalidate(lang string) {
	p.memo.Delete(lang)
}

// RandomWords returns count words of at least minLength runes, sampled
// uniformly with replacement.
func (p *Provider) RandomWords(ctx context.Context, lang string, count, minLength int) ([]string, error) {
	return p.RandomWordsWeighted(ctx, lang, count, minLength, nil, 0)
}

// RandomWordsWeighted is RandomWords with extra weight on words in weakSet.
func (p *Provider) RandomWordsWeighted(ctx context.Context, lang string, count, minLength int, weakSet map[string]struct{}, factor float64) ([]string, error) {
	vocab, err := p.Filtered(ctx, lang, minLength)
	if err != nil {
		return nil, err
	}
	return p.gen.SampleWeighted(vocab, count, weakSet, factor), nil
}

// Filtered returns the vocabulary restricted to words of at least minLength runes.
func (p *Provider) Filtered(ctx context.Context, lang string, minLength int) ([]string, error) {
	words, err := p.Load(ctx, lang)
	if err != nil {
		return nil, err
	}
	filtered := FilterMinLength(words, minLength)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("%w: no %s words with length >= %d", ErrInsufficientVocabulary, lang, minLength)
	}
	return filtered, nil
}

// Languages lists bundled languages plus any <lang>.txt files in dir.
func Languages(dir string) ([]string, error) {
	seen := map[string]struct{}{}
	for _, lang := range BundledLanguages() {
		seen[lang] = struct{}{}
	}
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read wordlist directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".txt") {
			continue
		}
		seen[strings.TrimSuffix(name, ".txt")] = struct{}{}
	}
	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs, nil
}
