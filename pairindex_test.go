package lexstat

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
)

func subsetWordList(t *testing.T) *WordList {
	t.Helper()
	words := []Word{
		{Concept: "hand", LangID: 1, Tokens: []string{"p"}, Sonars: []int{1}, ProString: "C", Classes: "P", Weights: []float64{1}},
		{Concept: "hand", LangID: 2, Tokens: []string{"b"}, Sonars: []int{1}, ProString: "C", Classes: "B", Weights: []float64{1}},
		{Concept: "foot", LangID: 1, Tokens: []string{"f"}, Sonars: []int{1}, ProString: "C", Classes: "F", Weights: []float64{1}},
		{Concept: "foot", LangID: 2, Tokens: []string{"v"}, Sonars: []int{1}, ProString: "C", Classes: "V", Weights: []float64{1}},
	}
	wl, batch := NewWordList(words)
	if batch != nil {
		t.Fatalf("NewWordList reported malformed words: %v", batch)
	}
	return wl
}

func TestPairIndexSubsetByConcept(t *testing.T) {
	wl := subsetWordList(t)
	idx := BuildPairIndex(wl, func(id int) string { return wl.Word(id).Concept })

	all := idx.Pairs(1, 2)
	if len(all) != 2 {
		t.Fatalf("expected 2 candidate pairs across both concepts, got %d", len(all))
	}

	sublist := mapset.NewSet("hand")
	restricted := idx.Subset(all, sublist)
	if len(restricted) != 1 {
		t.Fatalf("expected 1 pair restricted to concept %q, got %d", "hand", len(restricted))
	}
	wa, wb := wl.Word(restricted[0].I), wl.Word(restricted[0].J)
	if wa.Concept != "hand" || wb.Concept != "hand" {
		t.Fatalf("restricted pair not from concept %q: %v/%v", "hand", wa.Concept, wb.Concept)
	}

	if got := idx.Subset(all, nil); len(got) != len(all) {
		t.Fatalf("Subset(all, nil) = %d pairs, want unrestricted %d", len(got), len(all))
	}
}
