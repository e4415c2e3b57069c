package lexstat

import "context"

// DistanceFunc computes a normalized distance in [0,1] between two words,
// identified by arena id, within a WordList. The sca/lexstat engines wrap
// Align; edit-dist and turchin are plain sequence-comparison methods with
// no scorer dependency; custom lets a caller supply any DistanceFunc.
type DistanceFunc func(wl *WordList, i, j int) float64

// AlignDistanceFunc adapts a synthesized or base scorer into a
// DistanceFunc for method sca/lexstat, using cfg.Mode/Gop/Scale/Factor and
// Align's normalized distance.
func AlignDistanceFunc(scorer *Matrix, mode Mode, gop int, scale, factor float64, restrictedChars string) DistanceFunc {
	return func(wl *WordList, i, j int) float64 {
		wa, wb := wl.Word(i), wl.Word(j)
		res, err := Align(wa.Numbers, wb.Numbers, wa.Weights, wb.Weights, wa.ProString, wb.ProString, scorer, mode, gop, scale, factor, restrictedChars, true)
		if err != nil {
			return 1
		}
		return res.Distance
	}
}

// EditDistance is the classic Levenshtein distance over token sequences,
// normalized by the longer sequence's length.
func EditDistance(wl *WordList, i, j int) float64 {
	a, b := wl.Word(i).Tokens, wl.Word(j).Tokens
	return normalizedLevenshtein(a, b)
}

func normalizedLevenshtein(a, b []string) float64 {
	la, lb := len(a), len(b)
	if la == 0 && lb == 0 {
		return 0
	}
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			cur[j] = m
		}
		prev, cur = cur, prev
	}
	dist := prev[lb]
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 0
	}
	return float64(dist) / float64(maxLen)
}

// turchinConsonantClasses collapses lingpy's broad Dolgopolsky-style sound
// classes onto Turchin's consonant-class method: vowels are dropped, every
// consonant maps to one of a handful of articulatory classes so that
// unrelated-but-similar-sounding words (e.g. different vowel-harmony
// variants of the same root) still compare as consonant-class matches.
var turchinConsonantClasses = map[byte]byte{
	'P': 'P', 'B': 'P', 'F': 'P', 'V': 'P', // labials
	'T': 'T', 'D': 'T', 'S': 'T', 'Z': 'T', // dentals/alveolars
	'K': 'K', 'G': 'K', 'X': 'K', // velars
	'M': 'M', 'N': 'M', // nasals
	'R': 'R', 'L': 'R', // liquids
}

// TurchinDistance compares the first two consonant-class symbols of each
// word (Turchin's CCM), per spec.md §4.8/§2's "Turchin consonant-class
// method." Words sharing both classes score distance 0; sharing one scores
// 0.5; sharing neither scores 1.
func TurchinDistance(wl *WordList, i, j int) float64 {
	ca := turchinSkeleton(wl.Word(i).Classes)
	cb := turchinSkeleton(wl.Word(j).Classes)
	if len(ca) == 0 || len(cb) == 0 {
		if len(ca) == len(cb) {
			return 0
		}
		return 1
	}
	matches := 0
	n := 2
	if len(ca) < n {
		n = len(ca)
	}
	if len(cb) < n {
		n = len(cb)
	}
	for k := 0; k < n; k++ {
		if ca[k] == cb[k] {
			matches++
		}
	}
	switch matches {
	case 2:
		return 0
	case 1:
		return 0.5
	default:
		return 1
	}
}

func turchinSkeleton(classes string) []byte {
	var out []byte
	for i := 0; i < len(classes); i++ {
		if c, ok := turchinConsonantClasses[classes[i]]; ok {
			out = append(out, c)
		}
	}
	return out
}

// ConceptDistanceMatrix computes the square distance matrix for one
// concept's word ids using fn, the dispatch point for method ∈
// {sca, lexstat, edit-dist, turchin, custom} (§4.8).
func ConceptDistanceMatrix(ctx context.Context, wl *WordList, ids []int, fn DistanceFunc) *DistanceMatrix {
	n := len(ids)
	dm := NewDistanceMatrix(n)
	dm.ids = append([]int(nil), ids...)
	for a := 0; a < n; a++ {
		if ctx.Err() != nil {
			break
		}
		for b := a + 1; b < n; b++ {
			d := fn(wl, ids[a], ids[b])
			dm.Set(a, b, d)
		}
	}
	return dm
}
