package lexstat

import (
	"fmt"
	"strings"
)

// GapChar is the prosodic-context character used to render a language's
// distinguished gap symbol, (L, 'X', '-').
const GapChar = "-"

// GapClass is the sound-class char used for gap symbols.
const GapClass = 'X'

// ContextTransform collapses a raw prosodic-string character into a
// simplified prosodic context. DefaultContextTransform implements the
// 5-way collapse from spec.md §4.1; callers may supply any transform
// with the same shape, including an identity map for the full 11-way
// prosodic context.
type ContextTransform map[byte]byte

// DefaultContextTransform collapses lingpy's 11 raw prosodic positions
// into 5: ascending consonant (C), descending consonant (c), vowel (V),
// tone (T), and word boundary (_).
//
// Raw codes follow lingpy's prosodic_string convention:
//
//	A, B, C  -> ascending consonants (onset)    => C
//	X, Y, Z  -> descending consonants (coda)    => c
//	M, N     -> vowels (nucleus, initial/medial/final) => V
//	T        -> tone                             => T
//	_        -> word boundary                    => _
var DefaultContextTransform = ContextTransform{
	'A': 'C', 'B': 'C', 'C': 'C',
	'X': 'c', 'Y': 'c', 'Z': 'c',
	'M': 'V', 'N': 'V',
	'T': 'T',
	'_': '_',
}

// Apply maps a raw prosodic char through the transform, passing unknown
// chars through unchanged (so an already-collapsed string re-transforms
// to itself).
func (t ContextTransform) Apply(raw byte) byte {
	if v, ok := t[raw]; ok {
		return v
	}
	return raw
}

// Segment encodes one token of a word as the symbol "L.cls.ctx" —
// language id, sound class, and context-transformed prosodic class — per
// spec.md §4.1/§3.
func Segment(langID int, class byte, prosody byte, transform ContextTransform) string {
	return fmt.Sprintf("%d.%c.%c", langID, class, transform.Apply(prosody))
}

// GapSymbol returns the distinguished gap symbol for language langID.
func GapSymbol(langID int) string {
	return fmt.Sprintf("%d.%c.%s", langID, GapClass, GapChar)
}

// IsGapSymbol reports whether sym is some language's gap symbol.
func IsGapSymbol(sym string) bool {
	return strings.HasSuffix(sym, "."+GapChar) && strings.Contains(sym, "."+string(GapClass)+".")
}

// Encode fills in w.Numbers from w.Tokens/w.Classes/w.ProString and langID,
// validating the equal-length invariant first. It does not touch
// w.Weights, which the caller derives from prosodic weighting rules
// external to this package (sonority/prosody weighting is part of the
// sound-class model, out of scope here; Weights is accepted as given).
func Encode(w *Word, transform ContextTransform) error {
	if err := w.validate(); err != nil {
		return err
	}
	n := len(w.Tokens)
	numbers := make([]string, n)
	for i := 0; i < n; i++ {
		numbers[i] = Segment(w.LangID, w.Classes[i], w.ProString[i], transform)
	}
	w.Numbers = numbers
	return nil
}

// EncodeAll runs Encode over every word in a WordList, collecting
// malformed-word errors into a batch instead of aborting on the first
// failure (error-handling design, kind 1: "batch-reportable; caller may
// elect to drop and continue").
func EncodeAll(wl *WordList, transform ContextTransform) *ErrorBatch {
	batch := &ErrorBatch{}
	for i := 0; i < wl.Len(); i++ {
		if err := Encode(wl.Word(i), transform); err != nil {
			batch.Add(err)
		}
	}
	if batch.Empty() {
		return nil
	}
	return batch
}
