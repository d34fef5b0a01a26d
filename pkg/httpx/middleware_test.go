package httpx_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/authvault/authvault/pkg/httpx"
	"github.com/authvault/authvault/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func issueTestToken(t *testing.T, clientID, scope string, ttl time.Duration) string {
	t.Helper()

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims(
		clientID, scope, ttl,
		"authvault", []string{"authvault-api"},
		time.Now().UTC(),
	)
	token, err := signer.Sign(claims)
	require.NoError(t, err)
	return token
}

func authedHandler(t *testing.T, wantClientID, wantScope string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, wantClientID, httpx.ClientIDFromCtx(r.Context()))
		require.Equal(t, wantScope, httpx.ScopeFromCtx(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthnMiddleware(t *testing.T) {
	verifier := jwtx.NewVerifierHS256(testSecret, "authvault", "authvault-api")

	t.Run("accepts valid bearer token", func(t *testing.T) {
		handler := httpx.AuthnMiddleware(verifier)(authedHandler(t, "c1", "initiate_transaction"))

		req := httptest.NewRequest(http.MethodPost, "/transaction/initiate", nil)
		req.Header.Set("Authorization", "Bearer "+issueTestToken(t, "c1", "initiate_transaction", time.Hour))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects missing header", func(t *testing.T) {
		handler := httpx.AuthnMiddleware(verifier)(authedHandler(t, "", ""))

		req := httptest.NewRequest(http.MethodPost, "/transaction/initiate", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects non-bearer scheme", func(t *testing.T) {
		handler := httpx.AuthnMiddleware(verifier)(authedHandler(t, "", ""))

		req := httptest.NewRequest(http.MethodPost, "/transaction/initiate", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects expired token with uniform message", func(t *testing.T) {
		handler := httpx.AuthnMiddleware(verifier)(authedHandler(t, "", ""))

		req := httptest.NewRequest(http.MethodPost, "/transaction/initiate", nil)
		req.Header.Set("Authorization", "Bearer "+issueTestToken(t, "c1", "initiate_transaction", -time.Hour))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "Invalid or expired token", body["error"])
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		handler := httpx.AuthnMiddleware(verifier)(authedHandler(t, "", ""))

		req := httptest.NewRequest(http.MethodPost, "/transaction/initiate", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireScope(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	withScope := func(scope string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		ctx := context.WithValue(req.Context(), httpx.CtxKeyScope, scope)
		return req.WithContext(ctx)
	}

	t.Run("passes matching scope", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpx.RequireScope("execute_transaction")(next).ServeHTTP(rec, withScope("execute_transaction"))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects mismatched scope", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpx.RequireScope("execute_transaction")(next).ServeHTTP(rec, withScope("initiate_transaction"))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("rejects missing scope", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpx.RequireScope("execute_transaction")(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}
