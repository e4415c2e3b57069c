package lexstat

import (
	"context"
	"testing"
)

// buildOrientationScorer gives "1.p.C" and "2.b.C" a good cross-language
// score and high self-scores, so a single-segment alignment between them
// passes a generous distance threshold.
func buildOrientationScorer() *Matrix {
	m := NewMatrix()
	m.Set("1.p.C", "1.p.C", 10)
	m.Set("2.b.C", "2.b.C", 10)
	m.Set("1.p.C", "2.b.C", 8)
	return m
}

// TestRunBatchCanonicalizesOrientation builds a WordPair whose I side
// belongs to langB and whose J side belongs to langA — the arena order a
// concept's words happen to be listed in is not guaranteed to match
// ascending language id. runBatch must still fold the correspondence into
// (langA-symbol, langB-symbol), not (langB-symbol, langA-symbol).
func TestRunBatchCanonicalizesOrientation(t *testing.T) {
	in := &corrdistInput{
		numbers:   map[int][]string{0: {"2.b.C"}, 1: {"1.p.C"}},
		weights:   map[int][]float64{0: {1}, 1: {1}},
		prostring: map[int]string{0: "C", 1: "C"},
		langID:    map[int]int{0: 2, 1: 1},
	}
	// wp.I (id 0) is the langB side, wp.J (id 1) is the langA side —
	// deliberately reversed from (langA, langB) order.
	pairs := []WordPair{{I: 0, J: 1}}
	scorer := buildOrientationScorer()

	counts, included := runBatch(context.Background(), in, pairs, scorer, ModeGlobal, -2, 0.5, 0, "", 0.99, 1, 2)
	if included != 1 {
		t.Fatalf("included = %d, want 1", included)
	}

	cd := CorrDist{Counts: counts}
	if got := cd.Count("1.p.C", "2.b.C"); got != 1 {
		t.Fatalf("canonical (langA,langB) count = %d, want 1", got)
	}
	if got := cd.Count("2.b.C", "1.p.C"); got != 0 {
		t.Fatalf("reversed (langB,langA) count = %d, want 0 — orientation not canonicalized", got)
	}
}

func TestFilterPrelimCognateKeepsOnlySameCluster(t *testing.T) {
	prelim := map[int]int{0: 1, 1: 1, 2: 2, 3: 3}
	pairs := []WordPair{{I: 0, J: 1}, {I: 0, J: 2}, {I: 2, J: 3}}

	out := filterPrelimCognate(pairs, prelim)
	if len(out) != 1 {
		t.Fatalf("expected exactly 1 surviving pair, got %v", out)
	}
	if out[0] != (WordPair{I: 0, J: 1}) {
		t.Fatalf("expected the same-cluster pair (0,1) to survive, got %v", out[0])
	}
}
