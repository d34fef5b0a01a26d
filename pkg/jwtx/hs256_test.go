package jwtx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestSigner(t *testing.T) *HS256Signer {
	t.Helper()
	s, err := NewSignerHS256(testSecret)
	require.NoError(t, err)
	return s
}

func TestSignVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := NewVerifierHS256(testSecret, "authvault", "authvault-api")

	now := time.Now().UTC()
	claims := NewAccessClaims(
		"client-123",
		"initiate_transaction",
		time.Hour,
		"authvault",
		[]string{"authvault-api"},
		now,
	)

	tokenString, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(tokenString)
	require.NoError(t, err)
	require.Equal(t, "client-123", got.ClientID)
	require.Equal(t, "initiate_transaction", got.Scope)
	require.Equal(t, TokenTypeAccess, got.TokenType)
	require.Equal(t, "authvault", got.Issuer)
}

func TestVerifyRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewSignerHS256([]byte("too-short"))
	require.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := NewVerifierHS256(testSecret, "authvault", "authvault-api")

	stale := NewAccessClaims(
		"client-123",
		"initiate_transaction",
		time.Hour,
		"authvault",
		[]string{"authvault-api"},
		time.Now().UTC().Add(-2*time.Hour),
	)

	tokenString, err := signer.Sign(stale)
	require.NoError(t, err)

	_, err = verifier.Verify(tokenString)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsWrongIssuerOrAudience(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	now := time.Now().UTC()

	t.Run("issuer", func(t *testing.T) {
		claims := NewAccessClaims("c", "s", time.Hour, "someone-else", []string{"authvault-api"}, now)
		tokenString, err := signer.Sign(claims)
		require.NoError(t, err)

		verifier := NewVerifierHS256(testSecret, "authvault", "authvault-api")
		_, err = verifier.Verify(tokenString)
		require.ErrorIs(t, err, ErrIssuer)
	})

	t.Run("audience", func(t *testing.T) {
		claims := NewAccessClaims("c", "s", time.Hour, "authvault", []string{"other-api"}, now)
		tokenString, err := signer.Sign(claims)
		require.NoError(t, err)

		verifier := NewVerifierHS256(testSecret, "authvault", "authvault-api")
		_, err = verifier.Verify(tokenString)
		require.ErrorIs(t, err, ErrAudience)
	})
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := NewVerifierHS256(testSecret, "authvault", "authvault-api")

	claims := NewAccessClaims(
		"client-123",
		"execute_transaction",
		time.Hour,
		"authvault",
		[]string{"authvault-api"},
		time.Now().UTC(),
	)
	tokenString, err := signer.Sign(claims)
	require.NoError(t, err)

	tampered := tokenString[:len(tokenString)-2] + "xx"
	_, err = verifier.Verify(tampered)
	require.Error(t, err)

	_, err = verifier.Verify("not.a.jwt")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestVerifyRejectsWrongTokenType(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t)
	verifier := NewVerifierHS256(testSecret, "authvault", "authvault-api")

	claims := NewAccessClaims(
		"client-123",
		"execute_transaction",
		time.Hour,
		"authvault",
		[]string{"authvault-api"},
		time.Now().UTC(),
	)
	claims.TokenType = "refresh_token"

	tokenString, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(tokenString)
	require.ErrorIs(t, err, ErrTokenType)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	verifier := NewVerifierHS256(testSecret, "authvault", "authvault-api")

	claims := NewAccessClaims(
		"client-123",
		"execute_transaction",
		time.Hour,
		"authvault",
		[]string{"authvault-api"},
		time.Now().UTC(),
	)
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = verifier.Verify(tokenString)
	require.Error(t, err)
}
