package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// Authenticator resolves the raw Authorization header to a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (Principal, error)
}

// AuthMiddleware rejects the request before next runs unless the credential resolves to a principal.
func AuthMiddleware(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := authn.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, ErrUnauthenticated) {
					JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Token is not valid", nil)
					return
				}
				slog.ErrorContext(r.Context(), "authentication lookup failed",
					"request_id", RequestIDFrom(r), "error", err)
				JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
				return
			}

			noteUser(r.Context(), principal.ID)
			ctx := ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
