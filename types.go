// Package lexstat implements the LexStat sound-correspondence scoring and
// flat-clustering core used for automatic cognate detection across
// multilingual word lists.
//
// The package consumes already-tokenized words annotated with sound
// classes and prosodic strings (produced upstream by an IPA tokenizer and
// sound-class model, both out of scope here) and produces: a synthesized
// language-pair-aware scoring matrix, per-concept distance matrices, and
// cognate class assignments from flat clustering. Loading word lists from
// disk, CLI plumbing, and output formatting are the caller's job.
package lexstat

import "fmt"

// Word is a single word-list entry: a concept/language pair's phonetic
// transcription together with the annotations the core needs.
//
// Tokens, Sonars, ProString, Classes, Numbers, and Weights must all have
// equal length; the invariant is enforced by validate below and by Encode
// (see segment.go), not assumed silently.
type Word struct {
	ID         int
	Concept    string
	LangID     int
	Tokens     []string
	Sonars     []int
	ProString  string
	Classes    string
	Numbers    []string
	Weights    []float64
	Duplicate  bool
}

func (w *Word) validate() error {
	n := len(w.Tokens)
	if n == 0 {
		return &MalformedWordError{WordID: w.ID, Reason: "empty token sequence"}
	}
	if len(w.Sonars) != n {
		return &MalformedWordError{WordID: w.ID, Reason: "sonars length mismatch"}
	}
	if len(w.ProString) != n {
		return &MalformedWordError{WordID: w.ID, Reason: "prosodic string length mismatch"}
	}
	if len(w.Classes) != n {
		return &MalformedWordError{WordID: w.ID, Reason: "sound class string length mismatch"}
	}
	if len(w.Weights) != n {
		return &MalformedWordError{WordID: w.ID, Reason: "weights length mismatch"}
	}
	return nil
}

// WordList is a contiguous, append-only arena of Words. Everything
// downstream — the pair index, the aligner batches, the cluster-id
// assignment — refers to words purely by integer id into this arena, per
// the "pair index with arena semantics" design note: no component holds a
// pointer into the arena across a call boundary.
type WordList struct {
	words []Word
	// clusterCols holds named cognate-assignment columns, e.g. "lexstatid",
	// "scaid", keyed by ref so that concurrent clustering runs under
	// distinct refs don't collide (see the concurrency model).
	clusterCols map[string]map[int]int
}

// NewWordList builds a WordList from words, giving every word whose ID is
// zero its arena index as ID — callers that care about stable ids should
// set them explicitly before calling NewWordList. Every word is validated;
// malformed ones are reported in the returned batch (nil when all pass).
func NewWordList(words []Word) (*WordList, *ErrorBatch) {
	wl := &WordList{
		words:       make([]Word, len(words)),
		clusterCols: make(map[string]map[int]int),
	}
	copy(wl.words, words)
	for i := range wl.words {
		if wl.words[i].ID == 0 {
			wl.words[i].ID = i
		}
	}
	batch := &ErrorBatch{}
	for i := range wl.words {
		if err := wl.words[i].validate(); err != nil {
			batch.Add(err)
		}
	}
	if !batch.Empty() {
		return wl, batch
	}
	return wl, nil
}

// Len returns the number of words in the arena.
func (wl *WordList) Len() int { return len(wl.words) }

// Word returns the word for id, panicking if id is out of range — ids are
// always ones this package itself produced, so an out-of-range id is a
// programming error, not a recoverable input error.
func (wl *WordList) Word(id int) *Word {
	return &wl.words[id]
}

// Languages returns the distinct language ids present, sorted ascending.
func (wl *WordList) Languages() []int {
	seen := map[int]bool{}
	var langs []int
	for _, w := range wl.words {
		if !seen[w.LangID] {
			seen[w.LangID] = true
			langs = append(langs, w.LangID)
		}
	}
	for i := 1; i < len(langs); i++ {
		for j := i; j > 0 && langs[j-1] > langs[j]; j-- {
			langs[j-1], langs[j] = langs[j], langs[j-1]
		}
	}
	return langs
}

// Concepts returns the distinct concept ids present, in first-seen order.
func (wl *WordList) Concepts() []string {
	seen := map[string]bool{}
	var concepts []string
	for _, w := range wl.words {
		if !seen[w.Concept] {
			seen[w.Concept] = true
			concepts = append(concepts, w.Concept)
		}
	}
	return concepts
}

// ConceptWords returns the ids of words belonging to concept, in arena
// order.
func (wl *WordList) ConceptWords(concept string) []int {
	var ids []int
	for i, w := range wl.words {
		if w.Concept == concept {
			ids = append(ids, i)
		}
	}
	return ids
}

// ConceptWordsByLang returns the ids of every word belonging to language
// langID, across all concepts, in arena order — the candidate pool
// ShufflePairs draws synthetic cross-pairs from.
func (wl *WordList) ConceptWordsByLang(langID int) []int {
	var ids []int
	for i, w := range wl.words {
		if w.LangID == langID {
			ids = append(ids, i)
		}
	}
	return ids
}

// SetCluster writes a cognate class id for word id under the named column
// (ref). Each ref is single-writer: concurrent clustering runs must use
// distinct refs.
func (wl *WordList) SetCluster(ref string, id int, clusterID int) {
	col, ok := wl.clusterCols[ref]
	if !ok {
		col = make(map[int]int)
		wl.clusterCols[ref] = col
	}
	col[id] = clusterID
}

// Cluster returns the cognate class id for word id under ref, and whether
// it has been assigned.
func (wl *WordList) Cluster(ref string, id int) (int, bool) {
	col, ok := wl.clusterCols[ref]
	if !ok {
		return 0, false
	}
	v, ok := col[id]
	return v, ok
}

// SoundClassModel is the external collaborator that maps phonetic segments
// into sound classes and scores sound-class substitutions. A real
// implementation (e.g. the SCA model) lives outside this package; tests
// and the base scorer only need the capability below.
type SoundClassModel struct {
	// Alphabet lists every sound-class character the model knows about.
	Alphabet string
	// Scores maps an unordered pair of sound-class chars to a
	// substitution score. Self-substitution entries (a==b) must be
	// present for every char in Alphabet.
	Scores map[[2]byte]float64
}

// Score returns the substitution score between sound classes a and b,
// falling back to a large negative value for unmodeled pairs.
func (m SoundClassModel) Score(a, b byte) float64 {
	key := [2]byte{a, b}
	if a > b {
		key = [2]byte{b, a}
	}
	if s, ok := m.Scores[key]; ok {
		return s
	}
	return -90
}

func (w Word) String() string {
	return fmt.Sprintf("Word{id=%d concept=%q lang=%d tokens=%v}", w.ID, w.Concept, w.LangID, w.Tokens)
}
