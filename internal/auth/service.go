package auth

import (
	"context"
	"errors"
	"time"

	"booklibrary/internal/httpx"
	"booklibrary/internal/platform/crypto"
	"booklibrary/internal/user"
)

type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type Service struct {
	secret   string
	tokenTTL time.Duration
	users    UserFinder
	revoked  Revocations
}

func NewService(secret string, tokenTTL time.Duration, users UserFinder, revoked Revocations) *Service {
	return &Service{
		secret:   secret,
		tokenTTL: tokenTTL,
		users:    users,
		revoked:  revoked,
	}
}

type LoginResult struct {
	AccessToken string    `json:"token"`
	ExpiresIn   int       `json:"expiresIn"`
	User        user.User `json:"user"`
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, _, err := crypto.GenerateToken(s.secret, u.ID, s.tokenTTL)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		AccessToken: token,
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		User:        u,
	}, nil
}

// Logout revokes the credential p authenticated with until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, p httpx.Principal) error {
	if p.TokenID == "" {
		return nil
	}
	return s.revoked.Revoke(ctx, p.TokenID, p.ID, p.TokenExpiresAt)
}
