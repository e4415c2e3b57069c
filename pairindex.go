package lexstat

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// LangPair is an unordered pair of language ids, canonicalized A <= B.
type LangPair struct {
	A, B int
}

func newLangPair(a, b int) LangPair {
	if a > b {
		a, b = b, a
	}
	return LangPair{A: a, B: b}
}

// WordPair is a candidate aligned pair of word ids, one per language,
// sharing a concept.
type WordPair struct {
	I, J int
}

// PairIndex is the single-writer fold of candidate cross-language word
// pairs, built once from a WordList and read concurrently thereafter
// (§5: "immutable after construction").
type PairIndex struct {
	pairs     map[LangPair][]WordPair
	selfPairs map[int][]WordPair
	// present indexes, for subset(): word id -> its ref-column value
	// (e.g. a Swadesh-list membership tag), populated by BuildPairIndex
	// from the caller-supplied refLookup.
	refs map[int]string
}

// BuildPairIndex folds wl once into the full cross-language and
// self-language candidate pair lists. refLookup, if non-nil, supplies the
// `ref` attribute (e.g. Swadesh-list tag) used later by Subset; a nil
// refLookup disables Subset.
func BuildPairIndex(wl *WordList, refLookup func(wordID int) string) *PairIndex {
	idx := &PairIndex{
		pairs:     make(map[LangPair][]WordPair),
		selfPairs: make(map[int][]WordPair),
		refs:      make(map[int]string),
	}
	if refLookup != nil {
		for i := 0; i < wl.Len(); i++ {
			idx.refs[i] = refLookup(i)
		}
	}

	seen := mapset.NewSet[WordPair]()
	seenSelf := mapset.NewSet[WordPair]()

	for _, concept := range wl.Concepts() {
		ids := wl.ConceptWords(concept)
		for a := 0; a < len(ids); a++ {
			wa := wl.Word(ids[a])
			if wa.Duplicate {
				continue
			}
			for b := a + 1; b < len(ids); b++ {
				wb := wl.Word(ids[b])
				if wb.Duplicate {
					continue
				}
				if wa.LangID == wb.LangID {
					wp := WordPair{I: ids[a], J: ids[b]}
					if !seenSelf.Contains(wp) {
						seenSelf.Add(wp)
						idx.selfPairs[wa.LangID] = append(idx.selfPairs[wa.LangID], wp)
					}
					continue
				}
				wp := WordPair{I: ids[a], J: ids[b]}
				if seen.Contains(wp) {
					continue
				}
				seen.Add(wp)
				lp := newLangPair(wa.LangID, wb.LangID)
				idx.pairs[lp] = append(idx.pairs[lp], wp)
			}
		}
	}
	return idx
}

// Pairs returns the candidate word pairs between languages A and B (order
// irrelevant).
func (idx *PairIndex) Pairs(a, b int) []WordPair {
	return idx.pairs[newLangPair(a, b)]
}

// SelfPairs returns the candidate word pairs within language A.
func (idx *PairIndex) SelfPairs(a int) []WordPair {
	return idx.selfPairs[a]
}

// LangPairs returns every distinct unordered language pair with at least
// one candidate word pair, sorted by (A, B).
func (idx *PairIndex) LangPairs() []LangPair {
	out := make([]LangPair, 0, len(idx.pairs))
	for lp := range idx.pairs {
		out = append(out, lp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Subset restricts a list of word pairs to those where both sides' ref
// value lies in sublist, per the Swadesh-style restriction in spec.md §4.3.
// Subset(all, ref) == the unrestricted list when sublist contains every ref
// value present.
func (idx *PairIndex) Subset(pairs []WordPair, sublist mapset.Set[string]) []WordPair {
	if sublist == nil || len(idx.refs) == 0 {
		return pairs
	}
	out := make([]WordPair, 0, len(pairs))
	for _, wp := range pairs {
		if sublist.Contains(idx.refs[wp.I]) && sublist.Contains(idx.refs[wp.J]) {
			out = append(out, wp)
		}
	}
	return out
}
