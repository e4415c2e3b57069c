package lexstat

import "testing"

func testModel() SoundClassModel {
	return SoundClassModel{
		Alphabet: "PBAT",
		Scores: map[[2]byte]float64{
			{'P', 'P'}: 10, {'B', 'B'}: 10, {'A', 'A'}: 10, {'T', 'T'}: 10,
			{'B', 'P'}: 3, {'A', 'T'}: -4,
		},
	}
}

func testWordList(t *testing.T) *WordList {
	t.Helper()
	words := []Word{
		{Concept: "hand", LangID: 1, Tokens: []string{"p", "a"}, Sonars: []int{1, 9}, ProString: "CV", Classes: "PA", Weights: []float64{1, 1}},
		{Concept: "hand", LangID: 2, Tokens: []string{"b", "a"}, Sonars: []int{1, 9}, ProString: "CV", Classes: "BA", Weights: []float64{1, 1}},
		{Concept: "water", LangID: 1, Tokens: []string{"t", "a"}, Sonars: []int{1, 9}, ProString: "CV", Classes: "TA", Weights: []float64{1, 1}},
		{Concept: "water", LangID: 2, Tokens: []string{"t", "a"}, Sonars: []int{1, 9}, ProString: "CV", Classes: "TA", Weights: []float64{1, 1}},
	}
	wl, batch := NewWordList(words)
	if batch != nil {
		t.Fatalf("NewWordList reported malformed words: %v", batch)
	}
	return wl
}

func TestBuildBaseScorerSelfSubstitutionsScoreHighest(t *testing.T) {
	wl := testWordList(t)
	if err := EncodeAll(wl, DefaultContextTransform); err != nil {
		t.Fatalf("EncodeAll: %v", err)
	}
	m := BuildBaseScorer(wl, testModel(), DefaultContextTransform)

	pSym := Segment(1, 'P', 'C', DefaultContextTransform)
	bSym := Segment(2, 'B', 'C', DefaultContextTransform)
	if got := m.Score(pSym, pSym); got != 10 {
		t.Fatalf("self score = %v, want 10", got)
	}
	if got := m.Score(pSym, bSym); got != 3 {
		t.Fatalf("cross-language P/B score = %v, want 3", got)
	}
}

func TestBuildBaseScorerGapSymbolsScored(t *testing.T) {
	wl := testWordList(t)
	if err := EncodeAll(wl, DefaultContextTransform); err != nil {
		t.Fatalf("EncodeAll: %v", err)
	}
	m := BuildBaseScorer(wl, testModel(), DefaultContextTransform)
	gap1 := GapSymbol(1)
	if got := m.Score(gap1, gap1); got != -1 {
		t.Fatalf("gap self score = %v, want -1", got)
	}
}
