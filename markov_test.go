package lexstat

import (
	"math/rand"
	"testing"
)

func syntheticWords(labels ...string) []SyntheticWord {
	out := make([]SyntheticWord, len(labels))
	for i, l := range labels {
		out[i] = SyntheticWord{Tokens: []string{l}, Classes: []byte{l[0]}, ProString: []byte{'V'}}
	}
	return out
}

func TestSampleSyntheticPairsDrawsRequestedCount(t *testing.T) {
	wordsA := syntheticWords("a1", "a2", "a3")
	wordsB := syntheticWords("b1", "b2")
	rng := rand.New(rand.NewSource(1))

	pairedA, pairedB := SampleSyntheticPairs(wordsA, wordsB, 5, rng)
	if len(pairedA) != 5 || len(pairedB) != 5 {
		t.Fatalf("got %d/%d pairs, want 5/5", len(pairedA), len(pairedB))
	}
	for i := range pairedA {
		if len(pairedA[i].Tokens) == 0 || len(pairedB[i].Tokens) == 0 {
			t.Fatalf("pair %d has an empty word", i)
		}
	}
}

func TestSampleSyntheticPairsFullEnumerationWhenRunsExceedsPopulation(t *testing.T) {
	wordsA := syntheticWords("a1", "a2")
	wordsB := syntheticWords("b1", "b2")
	rng := rand.New(rand.NewSource(1))

	// population is 2*2 = 4; requesting >= that falls back to full
	// enumeration instead of sampling with replacement.
	pairedA, pairedB := SampleSyntheticPairs(wordsA, wordsB, 100, rng)
	if len(pairedA) != 4 || len(pairedB) != 4 {
		t.Fatalf("got %d/%d pairs, want the full 2x2 = 4 enumeration", len(pairedA), len(pairedB))
	}
	seen := map[[2]string]bool{}
	for i := range pairedA {
		seen[[2]string{pairedA[i].Tokens[0], pairedB[i].Tokens[0]}] = true
	}
	if len(seen) != 4 {
		t.Fatalf("expected all 4 distinct (a,b) combinations, got %v", seen)
	}
}

func TestSampleSyntheticPairsEmptyPool(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pairedA, pairedB := SampleSyntheticPairs(nil, syntheticWords("b1"), 3, rng)
	if pairedA != nil || pairedB != nil {
		t.Fatalf("expected nil/nil for an empty pool, got %v/%v", pairedA, pairedB)
	}
}
