package lexstat

import (
	"context"
	"math"
)

// vowelToneBoundary is the set of context chars spec.md §4.7 treats as
// "vowel/tone/boundary" for the vscale downweight, matching
// DefaultContextTransform's collapsed alphabet.
func vowelToneBoundary(ctx byte) bool {
	switch ctx {
	case 'V', 'T', '_':
		return true
	}
	return false
}

// contextOf extracts the trailing context char from a dotted segment
// symbol "L.cls.ctx".
func contextOf(sym string) byte {
	if len(sym) == 0 {
		return 0
	}
	return sym[len(sym)-1]
}

// synthesizeCell computes one matrix[a,b] entry per spec.md §4.7's exact
// branch structure, carried over unmodified from lingpy's get_scorer.
func synthesizeCell(att, exp int, sameLang bool, base float64, avgGop float64, ratio [2]int, vscale float64, a, b string) float64 {
	attF := float64(att)
	expF := float64(exp)
	if !sameLang && attF <= 1 {
		attF = 0 // suppress singletons across languages
	}

	var s float64
	switch {
	case attF > 0 && expF > 0:
		s = math.Log2((attF * attF) / (expF * expF))
	case attF > 0 && expF == 0:
		s = math.Log2((attF * attF) / 1e-5)
	case expF > 0 && attF == 0:
		s = -5
	default:
		s = -90
	}

	sim := base
	if IsGapSymbol(a) || IsGapSymbol(b) {
		sim = avgGop
	}

	ratioSum := float64(ratio[0] + ratio[1])
	rscore := (float64(ratio[0])*s + float64(ratio[1])*sim) / ratioSum

	if vowelToneBoundary(contextOf(a)) && vowelToneBoundary(contextOf(b)) {
		rscore *= vscale
	}
	return rscore
}

// ScorerCache remembers the last synthesized scorer and the parameter
// signature it was built under, the memoization boundary described in
// §6/§9: a repeated GetScorer call with an unchanged signature and
// force=false is a no-op that returns the cached matrix.
type ScorerCache struct {
	hash   uint64
	scorer *Matrix
}

// GetScorer synthesizes (or returns the cached) LexStat scorer for the
// language pairs present in idx, using base as the seed matrix and attested
// /expected as the correspondence distributions already computed per pair
// (§4.5/§4.6). avgGop is the mean gap-open cost across cfg.Modes.
func GetScorer(ctx context.Context, cache *ScorerCache, cfg Config, idx *PairIndex, base *Matrix, attested, expected map[LangPair]CorrDist) *Matrix {
	hash := cfg.SignatureHash()
	if !cfg.Force && cache.scorer != nil && cache.hash == hash {
		return cache.scorer
	}

	var avgGop float64
	for _, m := range cfg.Modes {
		avgGop += float64(m.Gop)
	}
	if len(cfg.Modes) > 0 {
		avgGop /= float64(len(cfg.Modes))
	}

	derived := base.Clone()
	symbols := base.Symbols()

	for _, lp := range idx.LangPairs() {
		if ctx.Err() != nil {
			// leave the cache as it was; a partial matrix is never stored
			return cache.scorer
		}
		att := attested[lp]
		exp := expected[lp]
		for i, a := range symbols {
			if symLang(a) != lp.A && symLang(a) != lp.B {
				continue
			}
			for j := i; j < len(symbols); j++ {
				b := symbols[j]
				if symLang(b) != lp.A && symLang(b) != lp.B {
					continue
				}
				if symLang(a) == symLang(b) {
					continue // same-language pairs keep the base scorer value
				}
				sameLang := lp.A == lp.B
				cell := synthesizeCell(att.Count(a, b), exp.Count(a, b), sameLang, base.Score(a, b), avgGop, cfg.Ratio, cfg.VScale, a, b)
				derived.Set(a, b, cell)
			}
		}
	}

	cache.hash = hash
	cache.scorer = derived
	return derived
}

// symLang extracts the leading language id from a dotted segment symbol.
func symLang(sym string) int {
	n := 0
	i := 0
	for i < len(sym) && sym[i] != '.' {
		n = n*10 + int(sym[i]-'0')
		i++
	}
	return n
}
