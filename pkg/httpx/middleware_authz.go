package httpx

import "net/http"

// RequireScope rejects requests whose verified token does not carry the
// required scope. A valid token with the wrong scope is an authorization
// failure, never silently permitted.
func RequireScope(required string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ScopeFromCtx(r.Context()) != required {
				WriteError(w, http.StatusForbidden, "Insufficient scope")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
