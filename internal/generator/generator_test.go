package generator

import "testing"

func TestSampleCountAndMembership(t *testing.T) {
	g := NewWithSeed(1)
	vocab := []string{"alpha", "beta"}
	out := g.Sample(vocab, 50)
	if len(out) != 50 {
		t.Fatalf("expected 50 words, got %d", len(out))
	}
	for _, w := range out {
		if w != "alpha" && w != "beta" {
			t.Fatalf("unexpected word %q", w)
		}
	}
}

func TestSampleWithReplacementFromSingleWord(t *testing.T) {
	g := NewWithSeed(2)
	out := g.Sample([]string{"solo"}, 5)
	for _, w := range out {
		if w != "solo" {
			t.Fatalf("expected solo, got %q", w)
		}
	}
}

func TestSampleEmpty(t *testing.T) {
	g := NewWithSeed(3)
	if out := g.Sample(nil, 5); len(out) != 0 {
		t.Fatalf("expected no words, got %v", out)
	}
}

func TestSampleWeightedBias(t *testing.T) {
	g := NewWithSeed(4)
	vocab := []string{"common", "weak"}
	out := g.SampleWeighted(vocab, 2000, map[string]struct{}{"weak": {}}, 9)
	weak := 0
	for _, w := range out {
		if w == "weak" {
			weak++
		}
	}
	// Expected share is 10/11.
	if weak < 1600 {
		t.Fatalf("expected weak word to dominate, got %d of %d", weak, len(out))
	}
}
