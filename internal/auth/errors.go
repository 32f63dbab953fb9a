package auth

import (
	"fmt"

	"booklibrary/internal/httpx"
)

// ErrUnauthenticated is the root of every credential failure.
var ErrUnauthenticated = httpx.ErrUnauthenticated

var (
	ErrMissingCredential   = fmt.Errorf("%w: missing bearer credential", ErrUnauthenticated)
	ErrMalformedCredential = fmt.Errorf("%w: invalid bearer credential", ErrUnauthenticated)
	ErrUnknownPrincipal    = fmt.Errorf("%w: principal no longer exists", ErrUnauthenticated)
	ErrRevokedCredential   = fmt.Errorf("%w: credential was revoked", ErrUnauthenticated)
	ErrInvalidCredentials  = fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
)
