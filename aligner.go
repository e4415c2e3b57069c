package lexstat

import "math"

// layer names the affine-gap DP state a cell's best score belongs to: a
// match/mismatch step, a gap charged against sequence A (consuming a B
// symbol), or a gap charged against sequence B (consuming an A symbol).
// This is the three-state generalization of the teacher's pairAligner
// (align_pair.go), which only needs one state because it has no gap-run
// scaling; the moment a gap's cost depends on whether the previous step
// was also a gap (spec.md §4.4's "scaled by scale if immediately following
// another gap on the same side"), the DP needs one state per gap side,
// exactly the structure sketched (in debug form) by the commented-out
// affineAligner later in the same file.
type layer uint8

const (
	layerMM layer = iota
	layerGapA
	layerGapB
	numLayers
)

// btStep records how to extend a traceback one step backward from a cell:
// which previous cell/layer to continue from, and what to emit on each
// side (GapChar on the side that didn't consume a real symbol).
type btStep struct {
	prevX     int
	prevLayer layer
	emitA     string
	emitB     string
}

type pairAligner struct {
	segA, segB []string
	wA, wB     []float64
	pA, pB     string

	scorer          *Matrix
	mode            Mode
	gop             int
	scale           float64
	factor          float64
	restrictedChars string

	stride int // len(segB)+1

	s  [numLayers][]float64
	bt [numLayers][]btStep
	ok [numLayers][]bool

	xLast     int
	layerLast layer
	score     float64
}

// AlignResult is the outcome of one pairwise alignment.
type AlignResult struct {
	AlmA, AlmB []string
	Score      float64
	Distance   float64
}

const negInfF = -1e18

// Align runs the DP core described in spec.md §4.4 in the requested mode
// and returns the aligned symbol sequences plus either the raw similarity
// score or a normalized distance in [0,1].
func Align(segA, segB []string, wA, wB []float64, pA, pB string, scorer *Matrix, mode Mode, gop int, scale, factor float64, restrictedChars string, distance bool) (AlignResult, error) {
	if len(segA) != len(wA) || len(segA) != len(pA) || len(segB) != len(wB) || len(segB) != len(pB) {
		return AlignResult{}, &InvalidParameterError{Parameter: "align inputs", Reason: "segment/weight/prosody length mismatch"}
	}
	pa := &pairAligner{
		segA: segA, segB: segB, wA: wA, wB: wB, pA: pA, pB: pB,
		scorer: scorer, mode: mode, gop: gop, scale: scale, factor: factor,
		restrictedChars: restrictedChars,
		stride:          len(segB) + 1,
	}
	n := (len(segA) + 1) * pa.stride
	for l := layer(0); l < numLayers; l++ {
		pa.s[l] = make([]float64, n)
		pa.bt[l] = make([]btStep, n)
		pa.ok[l] = make([]bool, n)
	}

	switch mode {
	case ModeGlobal:
		pa.runGlobal()
	case ModeLocal:
		pa.runLocal()
	case ModeOverlap:
		pa.runOverlap()
	case ModeDialign:
		pa.runDialign()
	default:
		return AlignResult{}, &InvalidParameterError{Parameter: "mode", Reason: string(mode)}
	}

	almA, almB := pa.trace()
	result := AlignResult{AlmA: almA, AlmB: almB, Score: pa.score}
	if distance {
		selfA := selfScore(segA, pA, scorer, factor)
		selfB := selfScore(segB, pB, scorer, factor)
		denom := math.Max(selfA, selfB)
		d := 1.0
		if denom > 0 {
			d = 1 - pa.score/denom
		}
		if d < 0 {
			d = 0
		}
		if d > 1 {
			d = 1
		}
		result.Distance = d
	}
	return result, nil
}

// selfScore is the score of aligning a sequence with itself: every
// position matches under identity, so the DP collapses to a sum of
// self-substitution scores with the identity bonus always applied (the
// prosodic context of a position always equals itself).
func selfScore(seg []string, p string, scorer *Matrix, factor float64) float64 {
	var total float64
	for i := range seg {
		total += scorer.Score(seg[i], seg[i]) * (1 + factor)
	}
	_ = p
	return total
}

func (pa *pairAligner) idx(i, j int) int { return i*pa.stride + j }

func (pa *pairAligner) gapACost(j int) float64 {
	// gap charged against A: consumes pB[j-1], priced by B's weight.
	cost := float64(pa.gop) * pa.wB[j-1]
	if isRestricted(pa.pB[j-1], pa.restrictedChars) {
		cost *= 2
	}
	return cost
}

func (pa *pairAligner) gapBCost(i int) float64 {
	cost := float64(pa.gop) * pa.wA[i-1]
	if isRestricted(pa.pA[i-1], pa.restrictedChars) {
		cost *= 2
	}
	return cost
}

func isRestricted(c byte, restricted string) bool {
	for k := 0; k < len(restricted); k++ {
		if restricted[k] == c {
			return true
		}
	}
	return false
}

func (pa *pairAligner) matchScore(i, j int) float64 {
	s := pa.scorer.Score(pa.segA[i-1], pa.segB[j-1])
	if pa.pA[i-1] == pa.pB[j-1] {
		s *= 1 + pa.factor
	}
	return s
}

// fillInterior computes, for every cell (i>=1, j>=1), the best score and
// backtrack step in each of the three layers, given whatever the caller
// has already initialized along the top row and left column.
func (pa *pairAligner) fillInterior() {
	for i := 1; i <= len(pa.segA); i++ {
		for j := 1; j <= len(pa.segB); j++ {
			x := pa.idx(i, j)

			// gap against A: came from (i, j-1)
			px := pa.idx(i, j-1)
			gapCost := pa.gapACost(j)
			bestA, bestLayerA, haveA := negInfF, layerMM, false
			if pa.ok[layerMM][px] {
				bestA, bestLayerA, haveA = pa.s[layerMM][px]+gapCost, layerMM, true
			}
			if pa.ok[layerGapA][px] {
				if v := pa.s[layerGapA][px] + gapCost*pa.scale; !haveA || v > bestA {
					bestA, bestLayerA, haveA = v, layerGapA, true
				}
			}
			if haveA {
				pa.s[layerGapA][x] = bestA
				pa.bt[layerGapA][x] = btStep{prevX: px, prevLayer: bestLayerA, emitA: GapChar, emitB: pa.segB[j-1]}
				pa.ok[layerGapA][x] = true
			}

			// gap against B: came from (i-1, j)
			px = pa.idx(i-1, j)
			gapCost = pa.gapBCost(i)
			bestB, bestLayerB, haveB := negInfF, layerMM, false
			if pa.ok[layerMM][px] {
				bestB, bestLayerB, haveB = pa.s[layerMM][px]+gapCost, layerMM, true
			}
			if pa.ok[layerGapB][px] {
				if v := pa.s[layerGapB][px] + gapCost*pa.scale; !haveB || v > bestB {
					bestB, bestLayerB, haveB = v, layerGapB, true
				}
			}
			if haveB {
				pa.s[layerGapB][x] = bestB
				pa.bt[layerGapB][x] = btStep{prevX: px, prevLayer: bestLayerB, emitA: pa.segA[i-1], emitB: GapChar}
				pa.ok[layerGapB][x] = true
			}

			// match/mismatch: came from (i-1, j-1)
			px = pa.idx(i-1, j-1)
			mm := pa.matchScore(i, j)
			bestM, bestLayerM, have := negInfF, layerMM, false
			for _, l := range [...]layer{layerMM, layerGapA, layerGapB} {
				if pa.ok[l][px] {
					if v := pa.s[l][px] + mm; !have || v > bestM {
						bestM, bestLayerM, have = v, l, true
					}
				}
			}
			if have {
				pa.s[layerMM][x] = bestM
				pa.bt[layerMM][x] = btStep{prevX: px, prevLayer: bestLayerM, emitA: pa.segA[i-1], emitB: pa.segB[j-1]}
				pa.ok[layerMM][x] = true
			}

			if pa.mode == ModeLocal {
				for _, l := range [...]layer{layerMM, layerGapA, layerGapB} {
					if !pa.ok[l][x] || pa.s[l][x] < 0 {
						pa.s[l][x] = 0
						pa.ok[l][x] = true
						pa.bt[l][x] = btStep{prevX: -1}
					}
				}
			}
		}
	}
}

func (pa *pairAligner) runGlobal() {
	pa.s[layerMM][0] = 0
	pa.ok[layerMM][0] = true
	for j := 1; j <= len(pa.segB); j++ {
		x := pa.idx(0, j)
		cost := pa.gapACost(j)
		prevCost := pa.s[layerGapA][pa.idx(0, j-1)]
		if j == 1 {
			prevCost = 0
		}
		pa.s[layerGapA][x] = prevCost + cost
		pa.ok[layerGapA][x] = true
		pa.bt[layerGapA][x] = btStep{prevX: pa.idx(0, j-1), prevLayer: layerGapA, emitA: GapChar, emitB: pa.segB[j-1]}
	}
	for i := 1; i <= len(pa.segA); i++ {
		x := pa.idx(i, 0)
		cost := pa.gapBCost(i)
		prevCost := pa.s[layerGapB][pa.idx(i-1, 0)]
		if i == 1 {
			prevCost = 0
		}
		pa.s[layerGapB][x] = prevCost + cost
		pa.ok[layerGapB][x] = true
		pa.bt[layerGapB][x] = btStep{prevX: pa.idx(i-1, 0), prevLayer: layerGapB, emitA: pa.segA[i-1], emitB: GapChar}
	}
	pa.fillInterior()

	x := pa.idx(len(pa.segA), len(pa.segB))
	best, bestLayer, have := 0.0, layerMM, false
	for _, l := range [...]layer{layerMM, layerGapA, layerGapB} {
		if pa.ok[l][x] && (!have || pa.s[l][x] > best) {
			best, bestLayer, have = pa.s[l][x], l, true
		}
	}
	pa.xLast, pa.layerLast, pa.score = x, bestLayer, best
}

func (pa *pairAligner) runLocal() {
	for l := layer(0); l < numLayers; l++ {
		pa.s[l][0] = 0
		pa.ok[l][0] = true
	}
	for j := 1; j <= len(pa.segB); j++ {
		x := pa.idx(0, j)
		pa.s[layerGapA][x], pa.ok[layerGapA][x] = 0, true
	}
	for i := 1; i <= len(pa.segA); i++ {
		x := pa.idx(i, 0)
		pa.s[layerGapB][x], pa.ok[layerGapB][x] = 0, true
	}
	pa.fillInterior()

	best, bestX, bestLayer := -1.0, 0, layerMM
	for x := range pa.s[layerMM] {
		for _, l := range [...]layer{layerMM, layerGapA, layerGapB} {
			if pa.ok[l][x] && pa.s[l][x] > best {
				best, bestX, bestLayer = pa.s[l][x], x, l
			}
		}
	}
	pa.xLast, pa.layerLast, pa.score = bestX, bestLayer, math.Max(best, 0)
}

// runOverlap gives free end-gaps at both ends of both sequences: the top
// row and left column cost nothing to cross, and the best score is taken
// over the entire last row and last column instead of forcing the
// alignment to consume both sequences fully.
func (pa *pairAligner) runOverlap() {
	for j := 0; j <= len(pa.segB); j++ {
		x := pa.idx(0, j)
		pa.s[layerMM][x], pa.ok[layerMM][x] = 0, true
	}
	for i := 0; i <= len(pa.segA); i++ {
		x := pa.idx(i, 0)
		pa.s[layerMM][x], pa.ok[layerMM][x] = 0, true
	}
	pa.fillInterior()

	best, bestX, bestLayer, have := 0.0, 0, layerMM, false
	lastRow := len(pa.segA)
	for j := 0; j <= len(pa.segB); j++ {
		x := pa.idx(lastRow, j)
		for _, l := range [...]layer{layerMM, layerGapA, layerGapB} {
			if pa.ok[l][x] && (!have || pa.s[l][x] > best) {
				best, bestX, bestLayer, have = pa.s[l][x], x, l, true
			}
		}
	}
	lastCol := len(pa.segB)
	for i := 0; i <= len(pa.segA); i++ {
		x := pa.idx(i, lastCol)
		for _, l := range [...]layer{layerMM, layerGapA, layerGapB} {
			if pa.ok[l][x] && (!have || pa.s[l][x] > best) {
				best, bestX, bestLayer, have = pa.s[l][x], x, l, true
			}
		}
	}
	pa.xLast, pa.layerLast, pa.score = bestX, bestLayer, best
}

// runDialign restricts alignment to gapless diagonal runs: no gap layer
// ever contributes, matching spec.md's "no gap penalty, but no insertions
// within a chosen run." A run breaks and restarts wherever continuing it
// would drop the running score below zero, exactly as in local alignment
// but along the diagonal only.
func (pa *pairAligner) runDialign() {
	pa.s[layerMM][0], pa.ok[layerMM][0] = 0, true
	for i := 1; i <= len(pa.segA); i++ {
		for j := 1; j <= len(pa.segB); j++ {
			x := pa.idx(i, j)
			px := pa.idx(i-1, j-1)
			mm := pa.matchScore(i, j)
			v := mm
			if pa.ok[layerMM][px] {
				if cont := pa.s[layerMM][px] + mm; cont > v {
					v = cont
				}
			}
			if v < 0 {
				v = 0
			}
			pa.s[layerMM][x], pa.ok[layerMM][x] = v, true
			pa.bt[layerMM][x] = btStep{prevX: px, prevLayer: layerMM, emitA: pa.segA[i-1], emitB: pa.segB[j-1]}
		}
	}
	best, bestX := -1.0, 0
	for x, ok := range pa.ok[layerMM] {
		if ok && pa.s[layerMM][x] > best {
			best, bestX = pa.s[layerMM][x], x
		}
	}
	pa.xLast, pa.layerLast, pa.score = bestX, layerMM, math.Max(best, 0)
}

func (pa *pairAligner) trace() (almA, almB []string) {
	x, l := pa.xLast, pa.layerLast
	for x > 0 {
		step := pa.bt[l][x]
		if step.prevX < 0 && step.emitA == "" && step.emitB == "" {
			break
		}
		if step.emitA != "" {
			almA = append(almA, step.emitA)
		}
		if step.emitB != "" {
			almB = append(almB, step.emitB)
		}
		x, l = step.prevX, step.prevLayer
	}
	for i, j := 0, len(almA)-1; i < j; i, j = i+1, j-1 {
		almA[i], almA[j] = almA[j], almA[i]
	}
	for i, j := 0, len(almB)-1; i < j; i, j = i+1, j-1 {
		almB[i], almB[j] = almB[j], almB[i]
	}
	return almA, almB
}
