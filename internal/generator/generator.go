// Package generator samples target word sequences.
package generator

import (
	"math/rand"
	"sync"
	"time"
)

// Generator produces randomized word sequences. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Sample draws count words uniformly at random with replacement.
func (g *Generator) Sample(words []string, count int) []string {
	if len(words) == 0 || count <= 0 {
		return []string{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, words[g.rnd.Intn(len(words))])
	}
	return result
}

// SampleWeighted draws count words with replacement, giving words in weakSet
// a weight of 1+factor instead of 1.
func (g *Generator) SampleWeighted(words []string, count int, weakSet map[string]struct{}, factor float64) []string {
	if len(weakSet) == 0 || factor <= 0 {
		return g.Sample(words, count)
	}
	if len(words) == 0 || count <= 0 {
		return []string{}
	}
	weights := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		w := 1.0
		if _, ok := weakSet[word]; ok {
			w += factor
		}
		weights[i] = w
		total += w
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := len(words) - 1
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		result = append(result, words[idx])
	}
	return result
}
