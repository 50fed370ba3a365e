/* input_processing_test.go
 * Contains unit tests for input_processing.go
 */

package logic

import (
	"testing"

	apperrors "poolmanager-bot/api/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// region Tokenize tests

func TestTokenize_QuotedName(t *testing.T) {
	tokens, err := Tokenize(`crear_pool "Padel Martes" 10 19:00 2024-01-01T00:00:00 1`)

	require.NoError(t, err)
	assert.Equal(t, []string{"crear_pool", "Padel Martes", "10", "19:00", "2024-01-01T00:00:00", "1"}, tokens)
}

func TestTokenize_CollapsesRepeatedSpaces(t *testing.T) {
	tokens, err := Tokenize("  solo    derecha ")

	require.NoError(t, err)
	assert.Equal(t, []string{"solo", "derecha"}, tokens)
}

func TestTokenize_Empty(t *testing.T) {
	tokens, err := Tokenize("   ")

	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestTokenize_UnbalancedQuotes(t *testing.T) {
	_, err := Tokenize(`crear_pool "Padel Martes 10`)

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

// endregion

// region selection tests

func TestIsSelection(t *testing.T) {
	assert.True(t, IsSelection("1"))
	assert.True(t, IsSelection("042"))
	assert.False(t, IsSelection(""))
	assert.False(t, IsSelection("1a"))
	assert.False(t, IsSelection("-1"))
	assert.False(t, IsSelection("1 2"))
}

func TestSelectionIndex(t *testing.T) {
	assert.Equal(t, 0, SelectionIndex("1"))
	assert.Equal(t, -1, SelectionIndex("0"))
	assert.Equal(t, 41, SelectionIndex("042"))
	assert.Equal(t, -1, SelectionIndex("99999999999999999999999"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "lista_pools", Normalize("  LISTA_Pools \n"))
}

// endregion

// region ResolvePoolID tests

func TestResolvePoolID_Exact(t *testing.T) {
	id, err := ResolvePoolID("padel_martes", []string{"padel_jueves", "padel_martes"})

	require.NoError(t, err)
	assert.Equal(t, "padel_martes", id)
}

func TestResolvePoolID_NameDerivesToID(t *testing.T) {
	id, err := ResolvePoolID("Padel Martes", []string{"padel_martes"})

	require.NoError(t, err)
	assert.Equal(t, "padel_martes", id)
}

func TestResolvePoolID_Fuzzy(t *testing.T) {
	id, err := ResolvePoolID("martes", []string{"padel_martes", "futbol_jueves"})

	require.NoError(t, err)
	assert.Equal(t, "padel_martes", id)
}

func TestResolvePoolID_Ambiguous(t *testing.T) {
	_, err := ResolvePoolID("padel", []string{"padel_martes", "padel_jueves"})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestResolvePoolID_NotFound(t *testing.T) {
	_, err := ResolvePoolID("tenis", []string{"padel_martes"})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestResolvePoolID_NoPools(t *testing.T) {
	_, err := ResolvePoolID("padel", nil)

	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestResolvePoolID_Empty(t *testing.T) {
	_, err := ResolvePoolID(" ", []string{"padel_martes"})

	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

// endregion

// region FindPoolID tests

func TestFindPoolID_ExactAndDerived(t *testing.T) {
	ids := []string{"padel_jueves", "padel_martes"}

	id, err := FindPoolID("PADEL_MARTES", ids)
	require.NoError(t, err)
	assert.Equal(t, "padel_martes", id)

	id, err = FindPoolID("Padel Jueves", ids)
	require.NoError(t, err)
	assert.Equal(t, "padel_jueves", id)
}

func TestFindPoolID_NeverFuzzy(t *testing.T) {
	for _, ref := range []string{"pm", "ps", "martes", "padel_marte"} {
		_, err := FindPoolID(ref, []string{"padel_martes"})

		assert.True(t, apperrors.Is(err, apperrors.CodeNotFound), "ref %q", ref)
	}
}

func TestFindPoolID_Empty(t *testing.T) {
	_, err := FindPoolID("", []string{"padel_martes"})

	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

// endregion
