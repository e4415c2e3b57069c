package lexstat

import "testing"

func smallScorer() *Matrix {
	m := NewMatrix()
	syms := []string{"1.p.C", "1.b.C", "1.a.V", "1.t.V"}
	for _, a := range syms {
		for _, b := range syms {
			if a == b {
				m.Set(a, b, 10)
			} else {
				m.Set(a, b, -2)
			}
		}
	}
	return m
}

func flatWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

func TestAlignSelfAlignmentHasZeroDistance(t *testing.T) {
	scorer := smallScorer()
	seg := []string{"1.p.C", "1.a.V", "1.t.V"}
	w := flatWeights(len(seg))
	pstring := "CVV"
	res, err := Align(seg, seg, w, w, pstring, pstring, scorer, ModeGlobal, -2, 0.5, 0.3, "_T", true)
	if err != nil {
		t.Fatalf("Align returned error: %v", err)
	}
	if res.Distance != 0 {
		t.Fatalf("self-alignment distance = %v, want 0", res.Distance)
	}
	if len(res.AlmA) != len(seg) || len(res.AlmB) != len(seg) {
		t.Fatalf("alignment length mismatch: %v / %v", res.AlmA, res.AlmB)
	}
}

func TestAlignSingleSubstitutionIsCloserThanUnrelated(t *testing.T) {
	scorer := smallScorer()
	segA := []string{"1.p.C", "1.a.V", "1.t.V"}
	segB := []string{"1.b.C", "1.a.V", "1.t.V"} // one substitution
	w := flatWeights(3)
	pstring := "CVV"
	subst, err := Align(segA, segB, w, w, pstring, pstring, scorer, ModeGlobal, -2, 0.5, 0.3, "_T", true)
	if err != nil {
		t.Fatalf("Align returned error: %v", err)
	}

	unrelated := []string{"1.t.V", "1.t.V", "1.t.V"}
	far, err := Align(segA, unrelated, w, w, pstring, pstring, scorer, ModeGlobal, -2, 0.5, 0.3, "_T", true)
	if err != nil {
		t.Fatalf("Align returned error: %v", err)
	}

	if subst.Distance >= far.Distance {
		t.Fatalf("one-substitution distance %v should be less than unrelated distance %v", subst.Distance, far.Distance)
	}
}

func TestAlignRejectsMismatchedLengths(t *testing.T) {
	scorer := smallScorer()
	_, err := Align([]string{"1.p.C"}, []string{"1.b.C"}, []float64{1, 2}, []float64{1}, "C", "C", scorer, ModeGlobal, -2, 0.5, 0.3, "_T", true)
	if err == nil {
		t.Fatal("expected an error for mismatched weight/segment lengths")
	}
}

func TestAlignLocalModeFindsSharedSubstring(t *testing.T) {
	scorer := smallScorer()
	segA := []string{"1.t.V", "1.p.C", "1.a.V", "1.t.V"}
	segB := []string{"1.p.C", "1.a.V", "1.b.C", "1.b.C"}
	w := flatWeights(4)
	res, err := Align(segA, segB, w, w, "VCVV", "CVCC", scorer, ModeLocal, -2, 0.5, 0.3, "_T", false)
	if err != nil {
		t.Fatalf("Align returned error: %v", err)
	}
	if res.Score <= 0 {
		t.Fatalf("local alignment score = %v, want > 0 for a shared pC run", res.Score)
	}
}
