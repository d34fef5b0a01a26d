package httpx

import "context"

type ctxKey string

const (
	CtxKeyClientID ctxKey = "client_id"
	CtxKeyScope    ctxKey = "scope"

	ctxKeyAuthRecorder ctxKey = "auth_recorder"
)

// AuthRecorder lets an outer middleware (request auditing) observe the
// identity established by the authn middleware further down the chain,
// which a plain context value can't carry back out.
type AuthRecorder struct {
	ClientID string
}

// WithAuthRecorder installs a recorder into the context. The authn
// middleware fills it in when a bearer token verifies.
func WithAuthRecorder(ctx context.Context) (context.Context, *AuthRecorder) {
	rec := &AuthRecorder{}
	return context.WithValue(ctx, ctxKeyAuthRecorder, rec), rec
}

func authRecorderFromCtx(ctx context.Context) *AuthRecorder {
	if rec, ok := ctx.Value(ctxKeyAuthRecorder).(*AuthRecorder); ok {
		return rec
	}
	return nil
}

// ClientIDFromCtx returns the authenticated client id, or "" when the
// request did not pass the authn middleware.
func ClientIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyClientID).(string); ok {
		return v
	}
	return ""
}

// ScopeFromCtx returns the scope claimed by the verified bearer token.
func ScopeFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyScope).(string); ok {
		return v
	}
	return ""
}
