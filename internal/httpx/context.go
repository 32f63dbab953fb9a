package httpx

import (
	"context"
	"net/http"
	"time"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	requestIDKey contextKey = "requestID"
)

// Principal is the authenticated owner a request acts for.
type Principal struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`

	// TokenID and TokenExpiresAt describe the credential the request came with.
	TokenID        string    `json:"-"`
	TokenExpiresAt time.Time `json:"-"`
}

// ContextWithPrincipal attaches p to ctx.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns the principal attached by the auth middleware.
func PrincipalFrom(r *http.Request) (Principal, bool) {
	p, ok := r.Context().Value(principalKey).(Principal)
	return p, ok && p.ID != ""
}

// UserIDFrom retrieves the principal id from the request context.
func UserIDFrom(r *http.Request) string {
	if p, ok := PrincipalFrom(r); ok {
		return p.ID
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
