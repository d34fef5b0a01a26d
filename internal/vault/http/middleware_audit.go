package http

import (
	"net/http"
	"time"

	"github.com/authvault/authvault/internal/vault/domain"
	"github.com/authvault/authvault/internal/vault/service"
	"github.com/authvault/authvault/pkg/httpx"
)

// AuditMiddleware appends one request-log entry per request, after the
// handler has run. Recording is fire-and-forget inside the audit service,
// so a slow or failing log write never delays a response.
func AuditMiddleware(audit *service.AuditService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			// The recorder lets the authn middleware, which runs inside this
			// one, report the verified client id back up.
			ctx, rec := httpx.WithAuthRecorder(r.Context())
			next.ServeHTTP(sw, r.WithContext(ctx))

			audit.Record(domain.RequestLog{
				Endpoint:       r.URL.Path,
				Method:         r.Method,
				ClientID:       rec.ClientID,
				StatusCode:     sw.status,
				ResponseTimeMS: time.Since(start).Milliseconds(),
				UserAgent:      r.UserAgent(),
				IPAddress:      httpx.IPKeyExtractor(r),
			})
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
