package lexstat

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying the five error kinds from the design's error
// handling section. Use errors.Is against these to branch on kind.
var (
	ErrMalformedWord    = errors.New("lexstat: malformed word")
	ErrInvalidParameter = errors.New("lexstat: invalid parameter")
	ErrInsufficientData = errors.New("lexstat: insufficient data")
	ErrDegenerateSample = errors.New("lexstat: degenerate sample")
	ErrNumerical        = errors.New("lexstat: numerical guard triggered")
)

// MalformedWordError reports a single offending word id, recoverable
// locally by the caller via a cleaned-copy re-ingest.
type MalformedWordError struct {
	WordID int
	Reason string
}

func (e *MalformedWordError) Error() string {
	return fmt.Sprintf("lexstat: word %d malformed: %s", e.WordID, e.Reason)
}

func (e *MalformedWordError) Unwrap() error { return ErrMalformedWord }

// ErrorBatch collects MalformedWordError values so a caller can drop the
// offending words and continue rather than aborting on the first one.
type ErrorBatch struct {
	Errors []error
}

func (b *ErrorBatch) Add(err error) {
	b.Errors = append(b.Errors, err)
}

func (b *ErrorBatch) Empty() bool { return len(b.Errors) == 0 }

func (b *ErrorBatch) Error() string {
	if b.Empty() {
		return "lexstat: no errors"
	}
	return fmt.Sprintf("lexstat: %d malformed word(s), first: %s", len(b.Errors), b.Errors[0])
}

// InvalidParameterError is fatal to the call that produced it.
type InvalidParameterError struct {
	Parameter string
	Reason    string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("lexstat: invalid parameter %q: %s", e.Parameter, e.Reason)
}

func (e *InvalidParameterError) Unwrap() error { return ErrInvalidParameter }

// InsufficientDataError names the language pair that had no eligible pairs.
// Callers are expected to log and downgrade (scorer falls back to base for
// that pair) rather than abort.
type InsufficientDataError struct {
	LangA, LangB int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("lexstat: language pair (%d,%d) has no non-duplicate pairs", e.LangA, e.LangB)
}

func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }
