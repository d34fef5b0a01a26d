package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/authvault/authvault/pkg/jwtx"
	"github.com/authvault/authvault/pkg/slogx"
)

// unauthorizedMessage is deliberately uniform: callers learn nothing about
// whether the token was absent, malformed, forged or expired.
const unauthorizedMessage = "Invalid or expired token"

// AuthnMiddleware extracts a bearer token, verifies it statelessly, and
// injects the (client id, scope) pair into the request context. Every
// verification failure maps to the same 401 response.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				WriteError(w, http.StatusUnauthorized, "Missing or invalid authorization header")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("bearer token verification failed", "err", err)
				WriteError(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}

			if err := claims.ValidateExpiry(); err != nil {
				WriteError(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}

			ctx = contextWithAuth(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	if rec := authRecorderFromCtx(ctx); rec != nil {
		rec.ClientID = c.ClientID
	}
	ctx = context.WithValue(ctx, CtxKeyClientID, c.ClientID)
	ctx = context.WithValue(ctx, CtxKeyScope, c.Scope)
	return ctx
}
