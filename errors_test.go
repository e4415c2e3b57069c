package lexstat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMalformedWordErrorUnwrapsToSentinel(t *testing.T) {
	err := &MalformedWordError{WordID: 7, Reason: "empty tokens"}
	require.ErrorIs(t, err, ErrMalformedWord)
	require.Contains(t, err.Error(), "7")
	require.Contains(t, err.Error(), "empty tokens")
}

func TestInsufficientDataErrorNamesPair(t *testing.T) {
	err := &InsufficientDataError{LangA: 1, LangB: 2}
	require.ErrorIs(t, err, ErrInsufficientData)
	require.Contains(t, err.Error(), "(1,2)")
}

func TestErrorBatchCollectsAndReportsFirst(t *testing.T) {
	var batch ErrorBatch
	require.True(t, batch.Empty())

	batch.Add(&MalformedWordError{WordID: 1, Reason: "bad sound class"})
	batch.Add(&MalformedWordError{WordID: 2, Reason: "length mismatch"})

	require.False(t, batch.Empty())
	require.Len(t, batch.Errors, 2)
	require.Contains(t, batch.Error(), "2 malformed word(s)")
	require.Contains(t, batch.Error(), "bad sound class")
}

func TestInvalidParameterErrorUnwrapsToSentinel(t *testing.T) {
	err := &InvalidParameterError{Parameter: "ratio", Reason: "must not sum to zero"}
	require.ErrorIs(t, err, ErrInvalidParameter)
}
