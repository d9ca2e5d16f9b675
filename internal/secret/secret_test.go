package secret

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomPassword(t *testing.T) {
	clear, encoded, err := Generate("")
	require.NoError(t, err)

	assert.Len(t, clear, PasswordLength)
	assert.True(t, strings.HasPrefix(encoded, "{SSHA}"))

	for _, r := range clear {
		assert.Contains(t, string(passwordChars), string(r))
	}
}

func TestGenerateKeepsExplicitPassword(t *testing.T) {
	clear, encoded, err := Generate("hunter2")
	require.NoError(t, err)

	assert.Equal(t, "hunter2", clear)
	assert.True(t, strings.HasPrefix(encoded, "{SSHA}"))
	assert.NotContains(t, encoded, "hunter2")
}

func TestGenerateSaltsEveryEncoding(t *testing.T) {
	_, first, err := Generate("hunter2")
	require.NoError(t, err)

	_, second, err := Generate("hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify(t *testing.T) {
	clear, encoded, err := Generate("")
	require.NoError(t, err)

	assert.True(t, Verify(clear, encoded))
	assert.False(t, Verify(clear+"x", encoded))
	assert.False(t, Verify(clear, "{SSHA}not-base64!"))
	assert.False(t, Verify(clear, "{SSHA}AAAA"))
}

func TestRandomStringUsesOnlyGivenChars(t *testing.T) {
	s, err := randomString(64, []byte("ab"))
	require.NoError(t, err)
	require.Len(t, s, 64)

	for _, r := range s {
		assert.Contains(t, "ab", string(r))
	}
}
