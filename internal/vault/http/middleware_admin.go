package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/authvault/authvault/pkg/httpx"
)

// AdminTokenMiddleware guards the admin surface with a static shared token
// presented in the X-Admin-Token header. Comparison is constant time.
func AdminTokenMiddleware(adminToken string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get("X-Admin-Token")
			if adminToken == "" || presented == "" ||
				subtle.ConstantTimeCompare([]byte(presented), []byte(adminToken)) != 1 {
				httpx.WriteError(w, http.StatusUnauthorized, "Invalid admin token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
