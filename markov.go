package lexstat

import (
	"math/rand"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// bigramKey is a (token, sound_class, prosodic_context) triple, the unit
// the Markov chain conditions its next-step distribution on, per spec.md
// §4.6. Carrying the prosodic context alongside the sound class lets a
// sampled chain be re-encoded into "L.cls.ctx" symbols the same way an
// attested word is.
type bigramKey struct {
	token  string
	class  byte
	pros   byte
}

type transition struct {
	tokens  []string
	classes []byte
	pros    []byte
	weights []int
	total   int
}

// MarkovChain is fit once from a language's attested words and sampled
// immutably thereafter (§9: "constructed once, immutably sampled
// thereafter").
type MarkovChain struct {
	start map[bigramKey]int
	trans map[bigramKey]*transition
	end   map[bigramKey]int // counts of chains terminating after this bigram
	rng   *rand.Rand
}

// FitMarkovChain builds a bigram chain over (token, prosody_class) from
// every word belonging to language langID in wl.
func FitMarkovChain(wl *WordList, langID int, seed int64) *MarkovChain {
	mc := &MarkovChain{
		start: make(map[bigramKey]int),
		trans: make(map[bigramKey]*transition),
		end:   make(map[bigramKey]int),
		rng:   rand.New(rand.NewSource(seed)),
	}
	for i := 0; i < wl.Len(); i++ {
		w := wl.Word(i)
		if w.LangID != langID || len(w.Tokens) == 0 {
			continue
		}
		first := bigramKey{token: w.Tokens[0], class: w.Classes[0], pros: w.ProString[0]}
		mc.start[first]++
		var prev bigramKey
		for k := 0; k < len(w.Tokens); k++ {
			cur := bigramKey{token: w.Tokens[k], class: w.Classes[k], pros: w.ProString[k]}
			if k > 0 {
				mc.addTransition(prev, cur)
			}
			prev = cur
		}
		mc.end[prev]++
	}
	return mc
}

func (mc *MarkovChain) addTransition(from, to bigramKey) {
	t, ok := mc.trans[from]
	if !ok {
		t = &transition{}
		mc.trans[from] = t
	}
	for i, tok := range t.tokens {
		if tok == to.token && t.classes[i] == to.class && t.pros[i] == to.pros {
			t.weights[i]++
			t.total++
			return
		}
	}
	t.tokens = append(t.tokens, to.token)
	t.classes = append(t.classes, to.class)
	t.pros = append(t.pros, to.pros)
	t.weights = append(t.weights, 1)
	t.total++
}

func (mc *MarkovChain) sampleStart() (bigramKey, bool) {
	total := 0
	keys := make([]bigramKey, 0, len(mc.start))
	for k, c := range mc.start {
		keys = append(keys, k)
		total += c
	}
	if total == 0 {
		return bigramKey{}, false
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.token != b.token {
			return a.token < b.token
		}
		if a.class != b.class {
			return a.class < b.class
		}
		return a.pros < b.pros
	})
	r := mc.rng.Intn(total)
	for _, k := range keys {
		c := mc.start[k]
		if r < c {
			return k, true
		}
		r -= c
	}
	return bigramKey{}, false
}

func (mc *MarkovChain) sampleNext(from bigramKey) (bigramKey, bool) {
	t, ok := mc.trans[from]
	endWeight := mc.end[from]
	if !ok || t.total == 0 {
		return bigramKey{}, false
	}
	r := mc.rng.Intn(t.total + endWeight)
	if r >= t.total {
		return bigramKey{}, false // chain terminates
	}
	for i, w := range t.weights {
		if r < w {
			return bigramKey{token: t.tokens[i], class: t.classes[i], pros: t.pros[i]}, true
		}
		r -= w
	}
	return bigramKey{}, false
}

// sampleWord draws one random word (tokens, sound classes, prosodic
// string) from the chain, with a hard cap on length to guard against
// pathological chains that never hit their end-weight (a numerical-guard
// per the error design, not an expected case for a well-fit chain).
func (mc *MarkovChain) sampleWord(maxLen int) (tokens []string, classes []byte, pros []byte) {
	cur, ok := mc.sampleStart()
	if !ok {
		return nil, nil, nil
	}
	tokens = []string{cur.token}
	classes = []byte{cur.class}
	pros = []byte{cur.pros}
	for i := 1; i < maxLen; i++ {
		next, ok := mc.sampleNext(cur)
		if !ok {
			break
		}
		tokens = append(tokens, next.token)
		classes = append(classes, next.class)
		pros = append(pros, next.pros)
		cur = next
	}
	return tokens, classes, pros
}

// SyntheticWord is one Markov-sampled nonsense word, carrying enough to be
// re-encoded into "L.cls.ctx" symbols via Segment without ever touching a
// WordList.
type SyntheticWord struct {
	Tokens    []string
	Classes   []byte
	ProString []byte
}

// SampleDistinct draws up to n distinct nonsense words, retrying on a
// repeat up to limit consecutive times before giving up and allowing the
// repeat through, following spec.md §4.6's "allow repeats only after limit
// consecutive duplicates to avoid infinite loops."
func (mc *MarkovChain) SampleDistinct(n, limit, maxLen int) []SyntheticWord {
	seen := mapset.NewSet[string]()
	out := make([]SyntheticWord, 0, n)
	dupStreak := 0
	for len(out) < n {
		tokens, classes, pros := mc.sampleWord(maxLen)
		if tokens == nil {
			break
		}
		key := joinTokens(tokens)
		if seen.Contains(key) {
			dupStreak++
			if dupStreak < limit {
				continue
			}
		} else {
			dupStreak = 0
		}
		seen.Add(key)
		out = append(out, SyntheticWord{Tokens: tokens, Classes: classes, ProString: pros})
	}
	return out
}

func joinTokens(tokens []string) string {
	s := ""
	for i, t := range tokens {
		if i > 0 {
			s += " "
		}
		s += t
	}
	return s
}

// SampleSyntheticPairs draws n uniformly sampled (x,y) index pairs from
// wordsA x wordsB, matching spec.md §4.6's "expected distribution is then
// computed by running §4.5 on runs uniformly sampled pairs (x,y) of random
// strings" — distinct from SampleDistinct's job of building the candidate
// pools in the first place. If n meets or exceeds the full cross product,
// every combination is used exactly once instead of sampling with
// replacement, per the degenerate-sample downgrade in the error design
// ("random runs exceeds population, automatically downgraded to full
// enumeration").
func SampleSyntheticPairs(wordsA, wordsB []SyntheticWord, n int, rng *rand.Rand) (pairedA, pairedB []SyntheticWord) {
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return nil, nil
	}
	population := len(wordsA) * len(wordsB)
	if n >= population {
		pairedA = make([]SyntheticWord, 0, population)
		pairedB = make([]SyntheticWord, 0, population)
		for _, a := range wordsA {
			for _, b := range wordsB {
				pairedA = append(pairedA, a)
				pairedB = append(pairedB, b)
			}
		}
		return pairedA, pairedB
	}
	pairedA = make([]SyntheticWord, n)
	pairedB = make([]SyntheticWord, n)
	for i := 0; i < n; i++ {
		pairedA[i] = wordsA[rng.Intn(len(wordsA))]
		pairedB[i] = wordsB[rng.Intn(len(wordsB))]
	}
	return pairedA, pairedB
}

// ShufflePairs implements the shuffle-mode alternative to the Markov
// generator: instead of synthesizing nonsense words, it samples
// cross-pairs directly from the attested word lists, taking side A from
// one word and side B from another (spec.md §4.6).
func ShufflePairs(idsA, idsB []int, n int, rng *rand.Rand) []WordPair {
	if len(idsA) == 0 || len(idsB) == 0 {
		return nil
	}
	out := make([]WordPair, n)
	for i := 0; i < n; i++ {
		out[i] = WordPair{I: idsA[rng.Intn(len(idsA))], J: idsB[rng.Intn(len(idsB))]}
	}
	return out
}
