// Package auth registers users and issues and revokes their access tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libraryapi/internal/apperr"
	"libraryapi/internal/httpx"
	"libraryapi/internal/platform/crypto"
	"libraryapi/internal/user"
)

var (
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	ErrWeakPassword       = apperr.New(apperr.KindInvalidArgument, "WEAK_PASSWORD", "Password must be between 8 and 72 bytes")
)

const TokenType = "bearer"

// Token is what a successful login returns.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type Service struct {
	secret      string
	ttl         time.Duration
	users       UserStore
	revocations TokenRevoker
}

func NewService(secret string, ttl time.Duration, users UserStore, revocations TokenRevoker) *Service {
	return &Service{
		secret:      secret,
		ttl:         ttl,
		users:       users,
		revocations: revocations,
	}
}

func (s *Service) Register(ctx context.Context, email, password string) (user.User, error) {
	if err := crypto.ValidatePassword(password); err != nil {
		return user.User{}, ErrWeakPassword.WithCause(err)
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.users.Register(ctx, email, hash)
}

// Login returns ErrInvalidCredentials for both unknown emails and wrong passwords.
func (s *Service) Login(ctx context.Context, email, password string) (Token, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Token{}, ErrInvalidCredentials
		}
		return Token{}, err
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return Token{}, ErrInvalidCredentials
	}

	role := crypto.RoleUser
	if u.IsAdmin {
		role = crypto.RoleAdmin
	}
	accessToken, _, err := crypto.GenerateToken(s.secret, u.ID, role, s.ttl)
	if err != nil {
		return Token{}, fmt.Errorf("generate token: %w", err)
	}
	return Token{
		AccessToken: accessToken,
		TokenType:   TokenType,
		ExpiresIn:   int(s.ttl.Seconds()),
	}, nil
}

// Logout revokes the caller's current token until it expires.
func (s *Service) Logout(ctx context.Context, p httpx.Principal) error {
	expiresAt := p.TokenExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(s.ttl)
	}
	return s.revocations.Revoke(ctx, p.TokenID, p.UserID, expiresAt)
}
