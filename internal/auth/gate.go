package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"booklibrary/internal/httpx"
	"booklibrary/internal/platform/crypto"
	"booklibrary/internal/user"
)

type PrincipalFinder interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// Gate resolves bearer tokens to principals. It implements httpx.Authenticator.
type Gate struct {
	secret  string
	users   PrincipalFinder
	revoked Revocations
}

func NewGate(secret string, users PrincipalFinder, revoked Revocations) *Gate {
	return &Gate{secret: secret, users: users, revoked: revoked}
}

// Authenticate verifies the bearer token in authorization and loads its principal.
// Errors wrapping ErrUnauthenticated mean the caller must be rejected with a 401;
// any other error is a storage failure during the lookup.
func (g *Gate) Authenticate(ctx context.Context, authorization string) (httpx.Principal, error) {
	token, ok := bearerToken(authorization)
	if !ok {
		return httpx.Principal{}, ErrMissingCredential
	}

	claims, err := crypto.ParseToken(g.secret, token)
	if err != nil {
		return httpx.Principal{}, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}

	if claims.ID != "" {
		revoked, err := g.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return httpx.Principal{}, err
		}
		if revoked {
			return httpx.Principal{}, ErrRevokedCredential
		}
	}

	u, err := g.users.GetByID(ctx, claims.Sub)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return httpx.Principal{}, ErrUnknownPrincipal
		}
		return httpx.Principal{}, err
	}

	p := httpx.Principal{ID: u.ID, Email: u.Email, Username: u.Username, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		p.TokenExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
