package lexstat

import (
	"context"
	"sync"

	"github.com/soniakeys/multiset"
)

// segPairKey flattens an ordered segment-symbol pair into a single string
// key, following the teacher's pattern (aaint.go's SolvePartialDigest) of
// counting pair occurrences in a multiset.Multiset keyed by a composite
// string rather than a [2]string map key, so the same counting type can be
// reused unmodified.
func segPairKey(a, b string) string {
	return a + "\x00" + b
}

func splitSegPairKey(k string) (a, b string) {
	for i := 0; i < len(k); i++ {
		if k[i] == 0 {
			return k[:i], k[i+1:]
		}
	}
	return k, ""
}

// CorrDist holds the attested or expected segment-pair frequency counts
// for one language pair, plus how many candidate pairs were included
// (passed the distance threshold).
type CorrDist struct {
	Counts   multiset.Multiset
	Included int
}

// corrdistInput bundles the per-word data CorrDist needs, keyed by arena
// id, so the pair/batch logic never reaches back into a WordList.
type corrdistInput struct {
	numbers   map[int][]string
	weights   map[int][]float64
	prostring map[int]string
	langID    map[int]int
}

func newCorrdistInput(wl *WordList) *corrdistInput {
	in := &corrdistInput{
		numbers:   make(map[int][]string),
		weights:   make(map[int][]float64),
		prostring: make(map[int]string),
		langID:    make(map[int]int),
	}
	for i := 0; i < wl.Len(); i++ {
		w := wl.Word(i)
		in.numbers[i] = w.Numbers
		in.weights[i] = w.Weights
		in.prostring[i] = w.ProString
		in.langID[i] = w.LangID
	}
	return in
}

// runBatch implements spec.md §4.5's corrdist operation for one alignment
// mode over one batch of candidate pairs: align each pair, and for those
// below threshold, fold aligned-position segment pairs into counts. A gap
// (GapChar) on one side is recorded as that side's own language gap
// symbol, paired with the other language's segment, so every aligned
// column contributes exactly one count under a cross-language key.
//
// A WordPair's I/J order follows arena order within a concept, not
// language order, so wp.I isn't guaranteed to be the langA side. Segments
// are swapped into canonical (langA, langB) orientation before aligning,
// otherwise half the cross-language correspondences would be folded into
// counts[(segB, segA)] instead of counts[(segA, segB)] and read back as
// zero by synthesizeCell's single-orientation lookup.
func runBatch(ctx context.Context, in *corrdistInput, pairs []WordPair, scorer *Matrix, mode Mode, gop int, scale, factor float64, restrictedChars string, threshold float64, langA, langB int) (multiset.Multiset, int) {
	counts := multiset.Multiset{}
	included := 0
	for _, wp := range pairs {
		if ctx.Err() != nil {
			break
		}
		segA, segB := in.numbers[wp.I], in.numbers[wp.J]
		wA, wB := in.weights[wp.I], in.weights[wp.J]
		pA, pB := in.prostring[wp.I], in.prostring[wp.J]
		if in.langID[wp.I] != langA {
			segA, segB = segB, segA
			wA, wB = wB, wA
			pA, pB = pB, pA
		}
		res, err := Align(segA, segB, wA, wB, pA, pB, scorer, mode, gop, scale, factor, restrictedChars, true)
		if err != nil {
			continue
		}
		if res.Distance >= threshold {
			continue
		}
		included++
		for k := range res.AlmA {
			a, b := res.AlmA[k], res.AlmB[k]
			if a == GapChar {
				a = GapSymbol(langA)
			}
			if b == GapChar {
				b = GapSymbol(langB)
			}
			counts[segPairKey(a, b)]++
		}
	}
	return counts, included
}

// CorrDistBatch computes the correspondence distribution for one language
// pair by running runBatch once per (mode, gop, scale) triple and
// averaging the resulting counts, each mode contributing 1/len(modes) of
// its weight, following §4.5's "averaged across modes." Modes are fanned
// out across a worker pool and folded under a single mutex, the
// single-writer-fold shape required before scorer synthesis (§5).
func CorrDistBatch(ctx context.Context, in *corrdistInput, pairs []WordPair, scorer *Matrix, modes []AlignModeParams, factor float64, restrictedChars string, threshold float64, langA, langB int) CorrDist {
	var mu sync.Mutex
	totalWeighted := map[string]float64{}
	includedSum := 0
	var wg sync.WaitGroup
	for _, mp := range modes {
		mp := mp
		wg.Add(1)
		go func() {
			defer wg.Done()
			counts, included := runBatch(ctx, in, pairs, scorer, mp.Mode, mp.Gop, mp.Scale, factor, restrictedChars, threshold, langA, langB)
			weight := 1.0 / float64(len(modes))
			mu.Lock()
			defer mu.Unlock()
			for k, v := range counts {
				key, _ := k.(string)
				totalWeighted[key] += weight * float64(v)
			}
			includedSum += included
		}()
	}
	wg.Wait()

	total := multiset.Multiset{}
	for k, v := range totalWeighted {
		total[k] = int(v + 0.5)
	}
	return CorrDist{Counts: total, Included: includedSum / len(modes)}
}

// Count returns the accumulated (possibly mode-averaged, rounded) count for
// segment pair (a, b), or 0 if the pair was never observed.
func (cd CorrDist) Count(a, b string) int {
	return cd.Counts[segPairKey(a, b)]
}

// syntheticNumbers re-encodes a Markov-sampled nonsense word into
// "L.cls.ctx" symbols via Segment, the same encoding Encode produces for
// attested words, so the random-string distribution can be run through the
// identical alignment and counting path as the real one.
func syntheticNumbers(sw SyntheticWord, langID int, transform ContextTransform) ([]string, []float64) {
	n := len(sw.Tokens)
	numbers := make([]string, n)
	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		numbers[i] = Segment(langID, sw.Classes[i], sw.ProString[i], transform)
		weights[i] = 1.0
	}
	return numbers, weights
}

// runBatchSynthetic mirrors runBatch for the Markov-generated expected
// distribution (§4.6), where there is no WordList/WordPair to index into —
// each candidate is a pair of freshly-sampled nonsense words re-encoded on
// the fly. wordsA[k]/wordsB[k] must already be the k-th uniformly sampled
// (x,y) draw (see SampleSyntheticPairs) — this function only re-encodes
// and aligns each already-paired slot, it does not itself choose pairings.
func runBatchSynthetic(ctx context.Context, wordsA, wordsB []SyntheticWord, langA, langB int, transform ContextTransform, scorer *Matrix, mode Mode, gop int, scale, factor float64, restrictedChars string, threshold float64) (multiset.Multiset, int) {
	counts := multiset.Multiset{}
	included := 0
	n := len(wordsA)
	if len(wordsB) < n {
		n = len(wordsB)
	}
	for k := 0; k < n; k++ {
		if ctx.Err() != nil {
			break
		}
		segA, wA := syntheticNumbers(wordsA[k], langA, transform)
		segB, wB := syntheticNumbers(wordsB[k], langB, transform)
		pA, pB := string(wordsA[k].ProString), string(wordsB[k].ProString)
		res, err := Align(segA, segB, wA, wB, pA, pB, scorer, mode, gop, scale, factor, restrictedChars, true)
		if err != nil {
			continue
		}
		if res.Distance >= threshold {
			continue
		}
		included++
		for i := range res.AlmA {
			a, b := res.AlmA[i], res.AlmB[i]
			if a == GapChar {
				a = GapSymbol(langA)
			}
			if b == GapChar {
				b = GapSymbol(langB)
			}
			counts[segPairKey(a, b)]++
		}
	}
	return counts, included
}

// CorrDistBatchSynthetic is CorrDistBatch's counterpart for the Markov
// expected distribution: same per-mode fan-out and single-mutex fold, but
// driving runBatchSynthetic instead of runBatch.
func CorrDistBatchSynthetic(ctx context.Context, wordsA, wordsB []SyntheticWord, langA, langB int, transform ContextTransform, scorer *Matrix, modes []AlignModeParams, factor float64, restrictedChars string, threshold float64) CorrDist {
	var mu sync.Mutex
	totalWeighted := map[string]float64{}
	includedSum := 0
	var wg sync.WaitGroup
	for _, mp := range modes {
		mp := mp
		wg.Add(1)
		go func() {
			defer wg.Done()
			counts, included := runBatchSynthetic(ctx, wordsA, wordsB, langA, langB, transform, scorer, mp.Mode, mp.Gop, mp.Scale, factor, restrictedChars, threshold)
			weight := 1.0 / float64(len(modes))
			mu.Lock()
			defer mu.Unlock()
			for k, v := range counts {
				key, _ := k.(string)
				totalWeighted[key] += weight * float64(v)
			}
			includedSum += included
		}()
	}
	wg.Wait()

	total := multiset.Multiset{}
	for k, v := range totalWeighted {
		total[k] = int(v + 0.5)
	}
	if len(modes) == 0 {
		return CorrDist{Counts: total}
	}
	return CorrDist{Counts: total, Included: includedSum / len(modes)}
}
