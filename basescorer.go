package lexstat

// BuildBaseScorer constructs the language-pair-naive scoring matrix used
// before any correspondence data has been attested: every segment's score
// against another segment is simply the underlying sound-class model's
// score for their (language-stripped) sound classes, and every language's
// gap symbol scores a fixed self-penalty and a fixed cross-symbol penalty.
//
// This mirrors lingpy's LexStat.__init__ construction of the "scorer"
// attribute from the sound-class model before get_scorer/cluster ever run
// (grounded on subst_matrix.go/score_matrix.go's pattern of a dense table
// seeded once from a fixed substitution model, generalized here to a
// growable Matrix since the segment alphabet is language-dependent and not
// known until the word list is seen).
func BuildBaseScorer(wl *WordList, model SoundClassModel, transform ContextTransform) *Matrix {
	m := NewMatrix()
	langs := wl.Languages()

	classes := make([]byte, 0, len(model.Alphabet)+1)
	for i := 0; i < len(model.Alphabet); i++ {
		classes = append(classes, model.Alphabet[i])
	}

	// All (langA, classA, ctxA) x (langB, classB, ctxB) combinations that
	// actually occur in the word list's encoded numbers, scored via the
	// sound-class model with the context ignored (base scorer is
	// context-blind; context only matters once correspondence statistics
	// are folded in during synthesis, §4.7).
	type key struct {
		lang  int
		class byte
		ctx   byte
	}
	seen := map[key]bool{}
	for i := 0; i < wl.Len(); i++ {
		w := wl.Word(i)
		for j := 0; j < len(w.Classes); j++ {
			k := key{lang: w.LangID, class: w.Classes[j], ctx: transform.Apply(w.ProString[j])}
			seen[k] = true
		}
	}

	keys := make([]key, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}

	for i, a := range keys {
		symA := Segment(a.lang, a.class, a.ctx, transform)
		for j := i; j < len(keys); j++ {
			b := keys[j]
			symB := Segment(b.lang, b.class, b.ctx, transform)
			m.Set(symA, symB, model.Score(a.class, b.class))
		}
	}

	// Gap scoring: self-gap is a fixed small penalty (not -90, since an
	// alignment column of all gaps must not dominate every other option
	// equally badly); every segment scores -2 against its own language's
	// gap symbol. A segment against another language's gap symbol is left
	// unset and falls back to the matrix miss sentinel of -90.
	for _, l := range langs {
		gap := GapSymbol(l)
		m.Set(gap, gap, -1)
	}
	for _, a := range keys {
		symA := Segment(a.lang, a.class, a.ctx, transform)
		m.Set(symA, GapSymbol(a.lang), -2)
	}

	return m
}
