package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewArgonHasher()

	encoded, err := hasher.Hash("correct horse battery")
	require.NoError(t, err)

	assert.NoError(t, hasher.Compare(encoded, "correct horse battery"))
	assert.ErrorIs(t, hasher.Compare(encoded, "wrong password"), ErrPasswordMismatch)
	assert.ErrorIs(t, hasher.Compare(encoded, ""), ErrPasswordMismatch)
}

func TestHashIsSaltedPerCall(t *testing.T) {
	hasher := NewArgonHasher()

	a, err := hasher.Hash("same password")
	require.NoError(t, err)
	b, err := hasher.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "same password must hash differently under fresh salts")
	assert.NoError(t, hasher.Compare(a, "same password"))
	assert.NoError(t, hasher.Compare(b, "same password"))
}

func TestHashEncodingShape(t *testing.T) {
	hasher := NewArgonHasher()

	encoded, err := hasher.Hash("correct horse battery")
	require.NoError(t, err)

	parts := strings.Split(encoded, ".")
	require.Len(t, parts, 2, "expected <hash>.<salt>")
	assert.NotContains(t, encoded, "correct horse battery")
}

func TestHashRejectsShortPassword(t *testing.T) {
	hasher := NewArgonHasher()

	_, err := hasher.Hash("short")
	assert.Error(t, err)
}

func TestCompareMalformed(t *testing.T) {
	hasher := NewArgonHasher()

	assert.ErrorIs(t, hasher.Compare("no-separator", "pw"), ErrMalformedHash)
	assert.ErrorIs(t, hasher.Compare("!!!.###", "pw"), ErrMalformedHash)
}
