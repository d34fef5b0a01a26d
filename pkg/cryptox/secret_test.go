package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifySecret(t *testing.T) {
	t.Parallel()

	hash, err := HashSecret("super-secret-value")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, VerifySecret("super-secret-value", hash))
	require.ErrorIs(t, VerifySecret("wrong-secret", hash), ErrSecretMismatch)
}

func TestHashSecretUniqueSalts(t *testing.T) {
	t.Parallel()

	a, err := HashSecret("same-input")
	require.NoError(t, err)
	b, err := HashSecret("same-input")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestVerifySecretMalformedHash(t *testing.T) {
	t.Parallel()

	require.Error(t, VerifySecret("anything", "not-a-hash"))
	require.Error(t, VerifySecret("anything", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA"))
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(TokenSize128)
	require.NoError(t, err)
	require.Len(t, tok, 22)

	other, err := GenerateToken(TokenSize128)
	require.NoError(t, err)
	require.NotEqual(t, tok, other)

	_, err = GenerateToken(0)
	require.Error(t, err)
}

func TestFingerprintTokenDeterministic(t *testing.T) {
	t.Parallel()

	require.Equal(t, FingerprintToken("abc"), FingerprintToken("abc"))
	require.NotEqual(t, FingerprintToken("abc"), FingerprintToken("abd"))
	require.Len(t, FingerprintToken("abc"), 43)
}
