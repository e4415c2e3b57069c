package lexstat

import (
	"context"
	"testing"
)

func biggerWordList(t *testing.T) *WordList {
	t.Helper()
	words := []Word{
		{Concept: "hand", LangID: 1, Tokens: []string{"p", "a", "n"}, Sonars: []int{1, 9, 5}, ProString: "CVC", Classes: "PAM", Weights: []float64{1, 1, 1}},
		{Concept: "hand", LangID: 2, Tokens: []string{"b", "a", "n"}, Sonars: []int{1, 9, 5}, ProString: "CVC", Classes: "BAM", Weights: []float64{1, 1, 1}},
		{Concept: "hand", LangID: 3, Tokens: []string{"t", "a", "k"}, Sonars: []int{1, 9, 1}, ProString: "CVC", Classes: "TAK", Weights: []float64{1, 1, 1}},
		{Concept: "water", LangID: 1, Tokens: []string{"w", "a", "t", "e", "r"}, Sonars: []int{5, 9, 1, 9, 7}, ProString: "CVCVC", Classes: "WATER", Weights: []float64{1, 1, 1, 1, 1}},
		{Concept: "water", LangID: 2, Tokens: []string{"w", "a", "t", "e", "r"}, Sonars: []int{5, 9, 1, 9, 7}, ProString: "CVCVC", Classes: "WATER", Weights: []float64{1, 1, 1, 1, 1}},
		{Concept: "water", LangID: 3, Tokens: []string{"a", "k", "w", "a"}, Sonars: []int{9, 1, 5, 9}, ProString: "VCCV", Classes: "AKWA", Weights: []float64{1, 1, 1, 1}},
	}
	wl, batch := NewWordList(words)
	if batch != nil {
		t.Fatalf("NewWordList reported malformed words: %v", batch)
	}
	return wl
}

func biggerModel() SoundClassModel {
	alphabet := "PBTAMKWER"
	scores := map[[2]byte]float64{}
	for i := 0; i < len(alphabet); i++ {
		scores[[2]byte{alphabet[i], alphabet[i]}] = 10
	}
	scores[[2]byte{'B', 'P'}] = 4
	return SoundClassModel{Alphabet: alphabet, Scores: scores}
}

func TestLexStatGetScorerAndClusterEndToEnd(t *testing.T) {
	wl := biggerWordList(t)
	ls, batch := New(wl, biggerModel(), nil, nil)
	if batch != nil {
		t.Fatalf("New() reported malformed words: %v", batch)
	}

	cfg := DefaultConfig()
	cfg.Runs = 20
	cfg.Limit = 50
	cfg.Ref = "lexstatid"

	scorer, err := ls.GetScorer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("GetScorer: %v", err)
	}
	if scorer == nil {
		t.Fatal("GetScorer returned a nil matrix")
	}
	if !scorer.Symmetric() {
		t.Fatal("synthesized scorer is not symmetric")
	}

	results, err := ls.Cluster(context.Background(), cfg, scorer)
	if err != nil {
		t.Fatalf("Cluster: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 concept results, got %d", len(results))
	}

	seen := map[int]bool{}
	for _, r := range results {
		for _, l := range r.Labels {
			if seen[l] {
				t.Fatalf("cluster id %d reused across concepts", l)
			}
			seen[l] = true
		}
		for i, id := range r.WordIDs {
			got, ok := wl.Cluster(cfg.Ref, id)
			if !ok {
				t.Fatalf("word %d missing a cluster assignment under ref %q", id, cfg.Ref)
			}
			if got != r.Labels[i] {
				t.Fatalf("word %d cluster = %d, want %d", id, got, r.Labels[i])
			}
		}
	}
}

func TestLexStatGetScorerIsMemoized(t *testing.T) {
	wl := biggerWordList(t)
	ls, batch := New(wl, biggerModel(), nil, nil)
	if batch != nil {
		t.Fatalf("New() reported malformed words: %v", batch)
	}
	cfg := DefaultConfig()
	cfg.Runs = 10
	cfg.Limit = 30

	first, err := ls.GetScorer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("GetScorer: %v", err)
	}
	second, err := ls.GetScorer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("GetScorer (cached): %v", err)
	}
	if first != second {
		t.Fatal("expected an unchanged Config to return the cached matrix pointer")
	}
}

func TestLexStatGetScorerHonorsSubsetList(t *testing.T) {
	wl := biggerWordList(t)
	ls, batch := New(wl, biggerModel(), nil, nil)
	if batch != nil {
		t.Fatalf("New() reported malformed words: %v", batch)
	}

	cfg := DefaultConfig()
	cfg.Runs = 10
	cfg.Rands = 10
	cfg.Limit = 30
	cfg.Preprocessing = false
	cfg.Subset = true
	cfg.SubsetList = []string{"hand"}

	scorer, err := ls.GetScorer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("GetScorer: %v", err)
	}
	if !scorer.Symmetric() {
		t.Fatal("synthesized scorer is not symmetric with Subset restriction applied")
	}
}

func TestLexStatGetScorerRejectsInvalidConfig(t *testing.T) {
	wl := biggerWordList(t)
	ls, batch := New(wl, biggerModel(), nil, nil)
	if batch != nil {
		t.Fatalf("New() reported malformed words: %v", batch)
	}
	cfg := DefaultConfig()
	cfg.Modes = nil
	if _, err := ls.GetScorer(context.Background(), cfg); err == nil {
		t.Fatal("expected an error for an empty Modes slice")
	}
}
