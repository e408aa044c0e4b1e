package user

import (
	"context"
	"strings"

	"libraryapi/internal/httpx"
	"libraryapi/internal/listing"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register stores a non-admin user with the default loan limit.
func (s *Service) Register(ctx context.Context, email, passwordHash string) (User, error) {
	return s.create(ctx, email, passwordHash, false)
}

// CreateAdmin stores a user with the admin flag set.
func (s *Service) CreateAdmin(ctx context.Context, email, passwordHash string) (User, error) {
	return s.create(ctx, email, passwordHash, true)
}

func (s *Service) create(ctx context.Context, email, passwordHash string, admin bool) (User, error) {
	u := &User{
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		IsAdmin:      admin,
		MaxBooks:     DefaultMaxBooks,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return *u, nil
}

func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}

func (s *Service) List(ctx context.Context, p listing.Params) ([]User, error) {
	return s.repo.List(ctx, p.Normalize())
}

// Identity implements httpx.IdentityResolver.
func (s *Service) Identity(ctx context.Context, userID int64) (httpx.Identity, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return httpx.Identity{}, err
	}
	return httpx.Identity{UserID: u.ID, IsAdmin: u.IsAdmin}, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
