package auth

import (
	"context"
	"time"

	"libraryapi/internal/user"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=auth

type UserStore interface {
	Register(ctx context.Context, email, passwordHash string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error
}
